package notifications

import (
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// notApplicable fills verdict fields that do not exist for a run-level failure.
const notApplicable = "N/A"

// fatalVerdict presents a run-level failure as a failed verdict so it renders with the same templates.
//
//nolint:errname // fatalVerdict is not an error type.
type fatalVerdict struct {
	err error
}

func (f fatalVerdict) Service() string         { return notApplicable }
func (f fatalVerdict) Image() string           { return notApplicable }
func (f fatalVerdict) DeclaredVersion() string { return notApplicable }
func (f fatalVerdict) LatestVersion() string   { return "" }
func (f fatalVerdict) UpdateNeeded() bool      { return true }
func (f fatalVerdict) State() string           { return "Failed" }

func (f fatalVerdict) Class() types.VerdictClass {
	return types.FailedClass
}

func (f fatalVerdict) Resolution() types.Resolution {
	return types.Failed(types.ManifestError, f.Error())
}

func (f fatalVerdict) Error() string {
	if f.err == nil {
		return notApplicable
	}

	return f.err.Error()
}
