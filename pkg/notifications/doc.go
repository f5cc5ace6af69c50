// Package notifications sends verdict messages through Shoutrrr services.
//
// Key components:
//   - Notifier Creation: Configures the notifier from flags (notifier.go).
//   - Shoutrrr Integration: Renders templates and sends messages (shoutrrr.go).
//   - Policy: Selects which verdict classes are sent (policy.go).
//   - JSON Marshaling: Formats notification data for the json.v1 template (json.go).
//
// Usage example:
//
//	notifier := notifications.NewNotifier(cmd)
//	notifier.Notify(verdict)
//	notifier.NotifyFatal("docker-compose.yml", err)
//
// Sending is synchronous. Transport errors are logged per service and never returned.
package notifications
