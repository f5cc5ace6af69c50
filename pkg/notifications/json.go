package notifications

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

var _ json.Marshaler = &Data{}

// Errors for JSON marshaling.
var (
	// errMarshalFailed indicates a failure to marshal notification data to JSON.
	errMarshalFailed = errors.New("failed to marshal notification data")
)

// jsonMap is a type alias for a JSON-compatible map.
type jsonMap = map[string]any

// MarshalJSON implements json.Marshaler for Data.
//
// Returns:
//   - []byte: JSON-encoded data.
//   - error: Non-nil if marshaling fails, nil on success.
func (d Data) MarshalJSON() ([]byte, error) {
	data := jsonMap{
		"title":    d.Title,
		"host":     d.Host,
		"manifest": d.Manifest,
		"verdict":  marshalVerdict(d.Verdict),
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		logrus.WithError(err).
			WithField("data", fmt.Sprintf("%v", data)).
			Error("Failed to marshal notification data to JSON")

		return nil, fmt.Errorf("%w: %w", errMarshalFailed, err)
	}

	return bytes, nil
}

// marshalVerdict converts a verdict to a JSON-compatible map.
//
// Parameters:
//   - verdict: Verdict, may be nil.
//
// Returns:
//   - jsonMap: JSON map of verdict data, nil for a nil verdict.
func marshalVerdict(verdict types.VerdictReport) jsonMap {
	if verdict == nil {
		return nil
	}

	result := jsonMap{
		"service":         verdict.Service(),
		"image":           verdict.Image(),
		"declaredVersion": verdict.DeclaredVersion(),
		"latestVersion":   verdict.LatestVersion(),
		"updateNeeded":    verdict.UpdateNeeded(),
		"class":           verdict.Class(),
		"state":           verdict.State(),
	}

	if message := verdict.Error(); message != "" {
		result["error"] = message
	}

	return result
}
