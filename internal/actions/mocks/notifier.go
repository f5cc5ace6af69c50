package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// MockNotifier is a testify mock of types.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier returns a notifier accepting any call.
func NewMockNotifier() *MockNotifier {
	notifier := &MockNotifier{}
	notifier.On("Notify", mock.Anything).Return().Maybe()
	notifier.On("NotifyFatal", mock.Anything, mock.Anything).Return().Maybe()
	notifier.On("GetNames").Return([]string{}).Maybe()
	notifier.On("GetURLs").Return([]string{}).Maybe()

	return notifier
}

// Notify records the verdict.
func (n *MockNotifier) Notify(verdict types.VerdictReport) {
	n.Called(verdict)
}

// NotifyFatal records the failure.
func (n *MockNotifier) NotifyFatal(manifest string, err error) {
	n.Called(manifest, err)
}

// GetNames returns the configured names.
func (n *MockNotifier) GetNames() []string {
	args := n.Called()

	names, _ := args.Get(0).([]string)

	return names
}

// GetURLs returns the configured URLs.
func (n *MockNotifier) GetURLs() []string {
	args := n.Called()

	urls, _ := args.Get(0).([]string)

	return urls
}

// Notified returns the verdicts passed to Notify, in order.
func (n *MockNotifier) Notified() []types.VerdictReport {
	verdicts := []types.VerdictReport{}

	for _, call := range n.Calls {
		if call.Method != "Notify" {
			continue
		}

		if verdict, ok := call.Arguments.Get(0).(types.VerdictReport); ok {
			verdicts = append(verdicts, verdict)
		}
	}

	return verdicts
}
