package session

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// Progress collects verdicts in the order services were processed.
type Progress []*Verdict

// Add appends a verdict.
//
// Parameters:
//   - verdict: Verdict to add.
func (p *Progress) Add(verdict *Verdict) {
	*p = append(*p, verdict)

	logrus.WithFields(logrus.Fields{
		"service": verdict.Service(),
		"state":   verdict.State(),
		"count":   len(*p),
	}).Debug("Added verdict to progress")
}

// Report builds a run report from the collected verdicts.
//
// Returns:
//   - types.Report: Verdicts grouped by class.
func (p Progress) Report() types.Report {
	return NewReport(p)
}
