package session

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// Verdict is the update decision for one service.
//
//nolint:errname // Verdict is not an error type, it carries a failure diagnostic.
type Verdict struct {
	service      string           // Service name.
	image        string           // Image reference as declared.
	declared     string           // Declared version.
	resolution   types.Resolution // Resolution outcome.
	updateNeeded bool             // Decision.
}

// Decide compares the declared version to the resolution.
//
// A successful resolution needs an update when the declared version differs textually from
// the resolved tag; no semantic comparison is made. A failed resolution always needs an update,
// so uncertainty surfaces as something to look at.
//
// Parameters:
//   - service: Service name from the manifest.
//   - image: Image reference as declared.
//   - declared: Declared version.
//   - resolution: Outcome of the version strategy.
//
// Returns:
//   - *Verdict: The decision.
func Decide(service, image, declared string, resolution types.Resolution) *Verdict {
	updateNeeded := true
	if resolution.Succeeded() {
		updateNeeded = declared != resolution.Tag
	}

	verdict := &Verdict{
		service:      service,
		image:        image,
		declared:     declared,
		resolution:   resolution,
		updateNeeded: updateNeeded,
	}

	logrus.WithFields(logrus.Fields{
		"service":       service,
		"declared":      declared,
		"resolved":      resolution.Tag,
		"failure":       resolution.Failure.String(),
		"update_needed": updateNeeded,
	}).Debug("Decided service verdict")

	return verdict
}

// Service returns the service name.
func (v *Verdict) Service() string {
	return v.service
}

// Image returns the declared image reference.
func (v *Verdict) Image() string {
	return v.image
}

// DeclaredVersion returns the declared version.
func (v *Verdict) DeclaredVersion() string {
	return v.declared
}

// LatestVersion returns the resolved tag, or an empty string on failure.
func (v *Verdict) LatestVersion() string {
	return v.resolution.Tag
}

// Resolution returns the resolution outcome.
func (v *Verdict) Resolution() types.Resolution {
	return v.resolution
}

// UpdateNeeded reports whether the service needs an update or attention.
func (v *Verdict) UpdateNeeded() bool {
	return v.updateNeeded
}

// Class returns the verdict class.
//
// Returns:
//   - types.VerdictClass: FailedClass, StaleClass or FreshClass.
func (v *Verdict) Class() types.VerdictClass {
	switch {
	case !v.resolution.Succeeded():
		return types.FailedClass
	case v.updateNeeded:
		return types.StaleClass
	default:
		return types.FreshClass
	}
}

// Error returns the failure diagnostic, if any.
//
// Returns:
//   - string: Diagnostic or empty if the resolution succeeded.
func (v *Verdict) Error() string {
	return v.resolution.Message()
}

// State returns the human-readable state name.
//
// Returns:
//   - string: State as a string (e.g., "Stale").
func (v *Verdict) State() string {
	switch v.Class() {
	case types.FailedClass:
		return "Failed"
	case types.StaleClass:
		return "Stale"
	case types.FreshClass:
		return "Fresh"
	default:
		return "Unknown"
	}
}
