package notifications

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// errUnknownClass indicates a policy entry that names no verdict class.
var errUnknownClass = errors.New("unknown verdict class")

// Policy selects the verdict classes that produce a notification.
type Policy map[types.VerdictClass]bool

// DefaultPolicy notifies failed and fresh verdicts but not stale ones.
func DefaultPolicy() Policy {
	return Policy{
		types.FailedClass: true,
		types.FreshClass:  true,
		types.StaleClass:  false,
	}
}

// ParsePolicy builds a policy from class names such as "failed" or "stale".
//
// Parameters:
//   - classes: Class names, case-insensitive. Empty entries are ignored.
//
// Returns:
//   - Policy: Policy enabling exactly the listed classes.
//   - error: Non-nil if a name is not a verdict class.
func ParsePolicy(classes []string) (Policy, error) {
	policy := Policy{
		types.FailedClass: false,
		types.FreshClass:  false,
		types.StaleClass:  false,
	}

	for _, raw := range classes {
		name := types.VerdictClass(strings.ToLower(strings.TrimSpace(raw)))
		if name == "" {
			continue
		}

		if _, known := policy[name]; !known {
			return nil, fmt.Errorf("%w: %q", errUnknownClass, raw)
		}

		policy[name] = true
	}

	return policy, nil
}

// Allows reports whether verdicts of class are sent.
func (p Policy) Allows(class types.VerdictClass) bool {
	return p[class]
}

// String lists the enabled classes.
func (p Policy) String() string {
	enabled := make([]string, 0, len(p))

	for class, on := range p {
		if on {
			enabled = append(enabled, string(class))
		}
	}

	slices.Sort(enabled)

	return strings.Join(enabled, ",")
}
