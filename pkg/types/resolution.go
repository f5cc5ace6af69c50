package types

// FailureReason classifies why a version could not be resolved.
type FailureReason int

// FailureReason values.
const (
	NoFailure        FailureReason = iota // Resolution succeeded.
	NoMatchingTag                         // Strategy found no candidate tag.
	NoSemverTag                           // No tag matched the strict major.minor.patch pattern.
	UnknownStrategy                       // Strategy identifier is not supported.
	RegistryError                         // Registry request failed.
	InvalidReference                      // Image reference could not be parsed.
	ManifestError                         // Manifest could not be read; no service was checked.
)

// String returns a short machine-friendly name for the reason.
func (r FailureReason) String() string {
	switch r {
	case NoFailure:
		return "none"
	case NoMatchingTag:
		return "no_matching_tag"
	case NoSemverTag:
		return "no_semver_tag"
	case UnknownStrategy:
		return "unknown_strategy"
	case RegistryError:
		return "registry_error"
	case InvalidReference:
		return "invalid_reference"
	case ManifestError:
		return "manifest_error"
	default:
		return "unknown"
	}
}

// Resolution is the result of applying a version strategy to a TagSet.
// Either Tag holds the resolved tag name, or Failure names the reason and Detail carries
// the diagnostic (registry message, offending strategy identifier, ...).
type Resolution struct {
	Tag     string
	Failure FailureReason
	Detail  string
}

// Resolved returns a successful resolution for tag.
func Resolved(tag string) Resolution {
	return Resolution{Tag: tag, Failure: NoFailure}
}

// Failed returns a failed resolution.
func Failed(reason FailureReason, detail string) Resolution {
	return Resolution{Failure: reason, Detail: detail}
}

// Succeeded reports whether a tag was resolved.
func (r Resolution) Succeeded() bool {
	return r.Failure == NoFailure
}

// Message returns a human-readable diagnostic for a failed resolution, or an empty string.
func (r Resolution) Message() string {
	var msg string

	switch r.Failure {
	case NoFailure:
		return ""
	case NoMatchingTag:
		msg = "no matching tag found"
	case NoSemverTag:
		msg = "no semantic version tag found"
	case UnknownStrategy:
		msg = "unknown strategy"
	case RegistryError:
		msg = "registry error"
	case InvalidReference:
		msg = "invalid image reference"
	case ManifestError:
		if r.Detail != "" {
			return r.Detail
		}

		msg = "manifest could not be read"
	default:
		msg = "unresolved"
	}

	if r.Detail != "" {
		msg += ": " + r.Detail
	}

	return msg
}
