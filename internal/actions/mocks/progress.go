package mocks

import (
	"fmt"

	"github.com/nicholas-fedor/tagwatch/pkg/session"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// CreateMockProgressReport builds a report with one verdict per class.
// All services will be given a unique name based on its class and index.
func CreateMockProgressReport(classes ...types.VerdictClass) types.Report {
	counts := make(map[types.VerdictClass]int)
	progress := session.Progress{}

	for _, class := range classes {
		index := counts[class]
		name := fmt.Sprintf("%s%d", class, index)
		image := "mock/" + name

		switch class {
		case types.StaleClass:
			progress.Add(session.Decide(name, image+":1.0.0", "1.0.0", types.Resolved("1.1.0")))
		case types.FreshClass:
			progress.Add(session.Decide(name, image+":1.1.0", "1.1.0", types.Resolved("1.1.0")))
		case types.FailedClass:
			progress.Add(session.Decide(name, image+":1.0.0", "1.0.0", types.Failed(types.RegistryError, "unpossible")))
		}

		counts[class] = index + 1
	}

	return progress.Report()
}
