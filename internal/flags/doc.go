// Package flags manages command-line flags and environment variables for tagwatch configuration.
// It configures registry access, reporting, notifications, metrics and logging via Cobra and Viper.
//
// Key components:
//   - RegisterSystemFlags: Adds report, logging and metrics flags.
//   - RegisterRegistryFlags: Adds registry API and credential flags.
//   - RegisterNotificationFlags: Adds notification settings.
//   - SetupLogging: Configures logrus based on flags.
//
// Usage example:
//
//	cmd := &cobra.Command{}
//	flags.SetDefaults()
//	flags.RegisterSystemFlags(cmd)
//	err := flags.SetupLogging(cmd.PersistentFlags())
//	if err != nil {
//	    logrus.WithError(err).Fatal("Logging setup failed")
//	}
//
// Every flag defaults from a TAGWATCH_* environment variable bound through Viper.
package flags
