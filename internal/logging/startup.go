// Package logging provides functions for logging startup information in tagwatch.
// It handles the initialization messages, notifier setup logging, and registry information display.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/tagwatch/internal/flags"
	"github.com/nicholas-fedor/tagwatch/pkg/notifications"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// WriteStartupMessage logs startup information based on configuration flags.
//
// It reports the tagwatch version, the manifest and strategy being checked, the registry in use,
// the notification setup and where results are written.
//
// Parameters:
//   - c: The cobra.Command instance, providing access to flags like --no-startup-message.
//   - manifest: Manifest path.
//   - strategy: Version strategy identifier.
//   - notifier: The notification system instance, may be nil.
//   - tagwatchVersion: The version string of tagwatch to include in startup messages.
func WriteStartupMessage(
	c *cobra.Command,
	manifest string,
	strategy string,
	notifier types.Notifier,
	tagwatchVersion string,
) {
	flagSet := c.PersistentFlags()

	noStartupMessage, _ := flagSet.GetBool("no-startup-message")
	if noStartupMessage {
		return
	}

	startupLog := SetupStartupLogger(noStartupMessage)

	startupLog.Info("tagwatch ", tagwatchVersion)
	startupLog.WithFields(logrus.Fields{
		"manifest": manifest,
		"strategy": strategy,
	}).Info("Checking services for newer image versions")

	api, _ := flagSet.GetString("registry-api")
	startupLog.WithField("api", api).Info("Using registry " + flags.RegistryDomain(flagSet))

	var notifierNames []string
	if notifier != nil {
		notifierNames = notifier.GetNames()
	}

	LogNotifierInfo(startupLog, notifierNames)

	if reportFile, _ := flagSet.GetString("report-file"); reportFile != "" {
		startupLog.Info("Appending results to " + reportFile)
	}

	if gateway, _ := flagSet.GetString("metrics-pushgateway"); gateway != "" {
		startupLog.Info("Pushing run metrics to " + gateway)
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		startupLog.Warn(
			"Trace level enabled: log will include sensitive information as credentials and tokens",
		)
	}
}

// SetupStartupLogger returns the entry startup messages are written to.
//
// Parameters:
//   - noStartupMessage: Whether startup messages should only reach the local log.
//
// Returns:
//   - *logrus.Entry: A configured log entry for writing startup messages.
func SetupStartupLogger(noStartupMessage bool) *logrus.Entry {
	if noStartupMessage {
		return notifications.LocalLog
	}

	return logrus.NewEntry(logrus.StandardLogger())
}

// LogNotifierInfo logs details about the notification setup for tagwatch.
//
// Parameters:
//   - log: The logrus.Entry used to write the notification information.
//   - notifierNames: A slice of strings representing the names of configured notifiers.
func LogNotifierInfo(log *logrus.Entry, notifierNames []string) {
	if len(notifierNames) > 0 {
		log.Info("Using notifications: " + strings.Join(notifierNames, ", "))
	} else {
		log.Info("Using no notifications")
	}
}
