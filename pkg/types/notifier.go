package types

// Notifier defines the common interface for notification services.
type Notifier interface {
	Notify(verdict VerdictReport)           // Send a message for a verdict if the policy selects its class.
	NotifyFatal(manifest string, err error) // Send a diagnostic for a run that could not start.
	GetNames() []string                     // Service names.
	GetURLs() []string                      // Service URLs.
}
