package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// Strategy is the rule used to pick the latest tag.
type Strategy string

// Supported strategies.
const (
	Latest Strategy = "latest"
	SemVer Strategy = "semver"
)

// LatestTag is the tag name the latest strategy looks for.
const LatestTag = "latest"

// semverComponents is the number of dot-separated components in a candidate tag.
const semverComponents = 3

// ErrUnknownStrategy indicates a strategy identifier outside the supported set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// strictSemver matches exactly three dot-separated non-negative integers.
var strictSemver = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Strategies returns the supported strategy identifiers.
func Strategies() []Strategy {
	return []Strategy{Latest, SemVer}
}

// ParseStrategy validates a strategy identifier.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(raw) {
	case Latest, SemVer:
		return Strategy(raw), nil
	default:
		return Strategy(raw), fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

// Resolve applies strategy to tags and returns the resolved tag or the reason none was found.
func Resolve(tags types.TagSet, strategy Strategy) types.Resolution {
	switch strategy {
	case Latest:
		return resolveLatest(tags)
	case SemVer:
		return resolveSemver(tags)
	default:
		return types.Failed(types.UnknownStrategy, string(strategy))
	}
}

// resolveLatest succeeds only when the literal "latest" tag is published.
func resolveLatest(tags types.TagSet) types.Resolution {
	if tags.Contains(LatestTag) {
		return types.Resolved(LatestTag)
	}

	return types.Failed(types.NoMatchingTag, fmt.Sprintf("tag %q not found", LatestTag))
}

// resolveSemver picks the numerically highest strict major.minor.patch tag.
func resolveSemver(tags types.TagSet) types.Resolution {
	var (
		best    *semver.Version
		bestTag string
	)

	for _, tag := range tags {
		candidate, ok := parseStrict(tag)
		if !ok {
			continue
		}

		switch {
		case best == nil:
		case candidate.GreaterThan(best):
		case candidate.Equal(best) && tag < bestTag:
			// Same numeric version spelled differently (e.g. "01.2.3"); keep the order-independent pick.
		default:
			continue
		}

		best, bestTag = candidate, tag
	}

	if best == nil {
		return types.Failed(types.NoSemverTag, "")
	}

	return types.Resolved(bestTag)
}

// parseStrict converts a tag matching the strict pattern into a comparable version.
// Components that do not fit in a uint64 are rejected.
func parseStrict(tag string) (*semver.Version, bool) {
	if !strictSemver.MatchString(tag) {
		return nil, false
	}

	parts := strings.SplitN(tag, ".", semverComponents)
	components := make([]uint64, 0, semverComponents)

	for _, part := range parts {
		value, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			logrus.WithError(err).WithField("tag", tag).Debug("Skipping tag with out of range component")

			return nil, false
		}

		components = append(components, value)
	}

	return semver.New(components[0], components[1], components[2], "", ""), true
}
