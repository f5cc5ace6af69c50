package mocks

import (
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// MockReporter records appended verdicts.
type MockReporter struct {
	Appended []types.VerdictReport // Verdicts in append order.
	Err      error                 // Error returned by every append.
}

// Append records verdict and returns the configured error.
func (r *MockReporter) Append(verdict types.VerdictReport) error {
	r.Appended = append(r.Appended, verdict)

	return r.Err
}
