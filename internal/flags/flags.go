package flags

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nicholas-fedor/tagwatch/pkg/registry/helpers"
)

// defaultRegistryTimeout bounds a single registry fetch.
const defaultRegistryTimeout = 10 * time.Second

// defaultRegistryMaxPages keeps Docker Hub lookups to the first page of tags.
const defaultRegistryMaxPages = 1

// defaultMetricsJob is the Pushgateway job name.
const defaultMetricsJob = "tagwatch"

// errInvalidLogFormat indicates an invalid log format was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogFormat = errors.New("invalid log format specified")

// errInvalidLogLevel indicates an invalid log level was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogLevel = errors.New("invalid log level specified")

// errOpenFileFailed indicates a failure to open a file for reading secrets.
// It is used in getSecretFromFile to wrap os.Open errors.
var errOpenFileFailed = errors.New("failed to open secret file")

// errCloseFileFailed indicates a failure to close a file after reading secrets.
// It is used in getSecretFromFile to wrap file.Close errors.
var errCloseFileFailed = errors.New("failed to close secret file")

// errReplaceSliceFailed indicates a failure to replace a slice value in a flag.
// It is used in getSecretFromFile to wrap SliceValue.Replace errors.
var errReplaceSliceFailed = errors.New("failed to replace slice value in flag")

// errReadFileFailed indicates a failure to read a file’s contents.
// It is used in getSecretFromFile to wrap os.ReadFile errors.
var errReadFileFailed = errors.New("failed to read secret file")

// errSetFlagFailed indicates a failure to set a flag’s value.
// It is used in getSecretFromFile and setFlagIfDefault to wrap flags.Set errors.
var errSetFlagFailed = errors.New("failed to set flag value")

// errInvalidFlagName indicates an invalid flag name was provided.
// It is used in appendFlagValue to report flag lookup errors.
var errInvalidFlagName = errors.New("invalid flag name provided")

// errNotSliceValue indicates a flag does not support slice values.
// It is used in appendFlagValue to report type errors.
var errNotSliceValue = errors.New("flag does not support slice values")

// errUnknownFlag indicates a secret flag is not registered.
var errUnknownFlag = errors.New("flag is not registered")

// RegisterSystemFlags adds flags that control reporting, logging and metrics to the root command.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"report-file",
		"r",
		envString("TAGWATCH_REPORT_FILE"),
		"Markdown file the version check results are appended to")

	flags.BoolP(
		"no-startup-message",
		"",
		envBool("TAGWATCH_NO_STARTUP_MESSAGE"),
		"Prevents tagwatch from logging a startup message")

	flags.StringP(
		"log-format",
		"l",
		viper.GetString("TAGWATCH_LOG_FORMAT"),
		"Sets what logging format to use for console output. Possible values: Auto, LogFmt, Pretty, JSON",
	)

	flags.BoolP(
		"debug",
		"d",
		envBool("TAGWATCH_DEBUG"),
		"Enable debug mode with verbose logging")

	flags.BoolP(
		"trace",
		"",
		envBool("TAGWATCH_TRACE"),
		"Enable trace mode with very verbose logging - caution, exposes credentials")

	flags.String(
		"log-level",
		envString("TAGWATCH_LOG_LEVEL"),
		"The maximum log level that will be written to STDERR. Possible values: panic, fatal, error, warn, info, debug or trace")

	flags.BoolP(
		"no-color",
		"",
		viper.IsSet("NO_COLOR"),
		"Disable ANSI color escape codes in log output")

	flags.String(
		"porcelain",
		envString("TAGWATCH_PORCELAIN"),
		"Write session results to stdout using a stable versioned format. Supported values: \"v1\"")

	flags.String(
		"metrics-pushgateway",
		envString("TAGWATCH_METRICS_PUSHGATEWAY"),
		"Prometheus Pushgateway URL the run metrics are pushed to after the check")

	flags.String(
		"metrics-job",
		envString("TAGWATCH_METRICS_JOB"),
		"Job name used when pushing run metrics")
}

// RegisterRegistryFlags adds flags that configure how tags are fetched.
func RegisterRegistryFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.String(
		"registry-api",
		envString("TAGWATCH_REGISTRY_API"),
		"Registry API used to list tags. Possible values: hub, oci")

	flags.String(
		"registry-url",
		envString("TAGWATCH_REGISTRY_URL"),
		"Docker Hub API base URL (hub) or default registry host (oci)")

	flags.Duration(
		"registry-timeout",
		envDuration("TAGWATCH_REGISTRY_TIMEOUT"),
		"Timeout for fetching the tags of one repository")

	flags.Int(
		"registry-max-pages",
		envInt("TAGWATCH_REGISTRY_MAX_PAGES"),
		"Number of Docker Hub tag pages read per repository")

	flags.String(
		"registry-username",
		envString("TAGWATCH_REGISTRY_USERNAME"),
		"Username for registry authentication")

	flags.String(
		"registry-password",
		envString("TAGWATCH_REGISTRY_PASSWORD"),
		"Password or access token for registry authentication, or a file containing it")

	flags.Bool(
		"registry-insecure",
		envBool("TAGWATCH_REGISTRY_INSECURE"),
		"Allow plain HTTP connections to the OCI registry")
}

// RegisterNotificationFlags adds flags for configuring tagwatch notifications to the root command.
// These flags control how and when notifications are sent.
func RegisterNotificationFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringArray(
		"notification-url",
		envStringSlice("TAGWATCH_NOTIFICATION_URL"),
		"The shoutrrr URL to send notifications to")

	flags.String(
		"notification-template",
		envString("TAGWATCH_NOTIFICATION_TEMPLATE"),
		"The shoutrrr text/template for the messages, or the name of a common template")

	flags.StringSlice(
		"notify-on",
		envStringSlice("TAGWATCH_NOTIFY_ON"),
		"Verdict classes that trigger a notification. Possible values: failed, fresh, stale")

	flags.StringP(
		"notifications-hostname",
		"",
		envString("TAGWATCH_NOTIFICATIONS_HOSTNAME"),
		"Custom hostname for notification titles")

	flags.String(
		"notification-title-tag",
		envString("TAGWATCH_NOTIFICATION_TITLE_TAG"),
		"Title prefix tag for notifications")

	flags.Bool(
		"notification-skip-title",
		envBool("TAGWATCH_NOTIFICATION_SKIP_TITLE"),
		"Do not pass the title param to notifications")

	flags.Bool(
		"notification-log-stdout",
		envBool("TAGWATCH_NOTIFICATION_LOG_STDOUT"),
		"Write notification logs to stdout instead of logging (to stderr)")
}

// envString retrieves a string value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

// envStringSlice retrieves a string slice from an environment variable via Viper.
// It binds the key to the environment and returns its values.
func envStringSlice(key string) []string {
	viper.MustBindEnv(key)

	return viper.GetStringSlice(key)
}

// envInt retrieves an integer value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envInt(key string) int {
	viper.MustBindEnv(key)

	return viper.GetInt(key)
}

// envBool retrieves a boolean value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}

// envDuration retrieves a duration value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envDuration(key string) time.Duration {
	viper.MustBindEnv(key)

	return viper.GetDuration(key)
}

// SetDefaults configures default values for environment variables.
// It ensures consistent fallback behavior when flags or environment variables are unset.
func SetDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault("TAGWATCH_REPORT_FILE", "version_check.md")
	viper.SetDefault("TAGWATCH_REGISTRY_API", "hub")
	viper.SetDefault("TAGWATCH_REGISTRY_TIMEOUT", defaultRegistryTimeout)
	viper.SetDefault("TAGWATCH_REGISTRY_MAX_PAGES", defaultRegistryMaxPages)
	viper.SetDefault("TAGWATCH_NOTIFY_ON", []string{"failed", "fresh"})
	viper.SetDefault("TAGWATCH_METRICS_JOB", defaultMetricsJob)
	viper.SetDefault("TAGWATCH_LOG_LEVEL", "info")
	viper.SetDefault("TAGWATCH_LOG_FORMAT", "auto")
}

// RegistryDomain returns the registry host the configured flags point to, for diagnostics.
func RegistryDomain(flags *pflag.FlagSet) string {
	api, _ := flags.GetString("registry-api")
	url, _ := flags.GetString("registry-url")

	switch {
	case url != "":
		return url
	case strings.EqualFold(api, "oci"):
		return helpers.DefaultRegistryHost
	default:
		return "hub.docker.com"
	}
}

// GetSecretsFromFiles replaces flag values with file contents if they reference files.
// It processes a predefined list of secret-related flags, updating their values accordingly.
func GetSecretsFromFiles(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	secrets := []string{
		"notification-url",
		"registry-password",
	}
	for _, secret := range secrets {
		if err := getSecretFromFile(flags, secret); err != nil {
			logrus.Fatalf("failed to get secret from flag %v: %s", secret, err)
		}
	}
}

// getSecretFromFile updates a flag’s value with file contents if it references a file.
// It handles both string and slice flags, returning an error if file operations fail.
func getSecretFromFile(flags *pflag.FlagSet, secret string) error {
	flag := flags.Lookup(secret)
	if flag == nil {
		return fmt.Errorf("%w: %q", errUnknownFlag, secret)
	}

	if sliceValue, ok := flag.Value.(pflag.SliceValue); ok {
		oldValues := sliceValue.GetSlice()
		values := make([]string, 0, len(oldValues))

		for _, value := range oldValues {
			if value != "" && isFilePath(value) {
				file, err := os.Open(value)
				if err != nil {
					return fmt.Errorf("%w: %w", errOpenFileFailed, err)
				}

				scanner := bufio.NewScanner(file)
				for scanner.Scan() {
					line := scanner.Text()
					if line == "" {
						continue
					}

					values = append(values, line)
				}

				if err := file.Close(); err != nil {
					return fmt.Errorf("%w: %w", errCloseFileFailed, err)
				}
			} else {
				values = append(values, value)
			}
		}

		if err := sliceValue.Replace(values); err != nil {
			return fmt.Errorf("%w: %w", errReplaceSliceFailed, err)
		}

		return nil
	}

	value := flag.Value.String()
	if value != "" && isFilePath(value) {
		content, err := os.ReadFile(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errReadFileFailed, err)
		}

		if err := flags.Set(secret, strings.TrimSpace(string(content))); err != nil {
			return fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}
	}

	return nil
}

// isFilePath determines if a string likely represents a file path.
// It checks for file existence, avoiding false positives from URLs or invalid Windows paths.
func isFilePath(path string) bool {
	firstColon := strings.IndexRune(path, ':')
	if firstColon != 1 && firstColon != -1 {
		// If ':' exists but isn’t the second character, it’s likely not a file path (e.g., URLs).
		return false
	}

	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}

// ProcessFlagAliases synchronizes flag values based on helper flags.
// It expands --porcelain and maps --debug/--trace onto the log level, exiting on invalid configurations.
func ProcessFlagAliases(flags *pflag.FlagSet) {
	porcelain, err := flags.GetString("porcelain")
	if err != nil {
		logrus.Fatalf("Failed to get flag: %v", err)
	}

	if porcelain != "" {
		if porcelain != "v1" {
			logrus.Fatalf("Unknown porcelain version %q. Supported values: \"v1\"", porcelain)
		}

		if err = appendFlagValue(flags, "notification-url", "logger://"); err != nil {
			logrus.Errorf("Failed to set flag: %v", err)
		}

		setFlagIfDefault(flags, "notification-log-stdout", "true")
		setFlagIfDefault(flags, "notify-on", "failed,fresh,stale")

		tpl := "porcelain." + porcelain
		setFlagIfDefault(flags, "notification-template", tpl)
	}

	if flagIsEnabled(flags, "debug") {
		if err := flags.Set("log-level", "debug"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}

	if flagIsEnabled(flags, "trace") {
		if err := flags.Set("log-level", "trace"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}
}

// SetupLogging configures the global logger based on log-related flags.
// It sets the log format and level, returning an error for invalid configurations.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// configureLogFormat sets the logrus formatter based on the specified format and color preference.
// It returns an error if the format is invalid.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// flagIsEnabled checks if a boolean flag is set to true.
// It exits with a fatal error if the flag is not defined.
func flagIsEnabled(flags *pflag.FlagSet, name string) bool {
	value, err := flags.GetBool(name)
	if err != nil {
		logrus.Fatalf("The flag %q is not defined", name)
	}

	return value
}

// appendFlagValue appends values to a slice-type flag.
// It returns an error if the flag is invalid or not a slice.
func appendFlagValue(flags *pflag.FlagSet, name string, values ...string) error {
	flag := flags.Lookup(name)
	if flag == nil {
		return fmt.Errorf("%w: %q", errInvalidFlagName, name)
	}

	flagValues, ok := flag.Value.(pflag.SliceValue)
	if !ok {
		return fmt.Errorf("%w: %q", errNotSliceValue, name)
	}

	for _, value := range values {
		if err := flagValues.Append(value); err != nil {
			logrus.Errorf("Failed to append value to flag %q: %v", name, err)
		}
	}

	return nil
}

// setFlagIfDefault sets a flag’s value if it hasn’t been explicitly changed.
// It logs an error if the set operation fails but continues execution.
func setFlagIfDefault(flags *pflag.FlagSet, name string, value string) {
	if flags.Changed(name) {
		return
	}

	if err := flags.Set(name, value); err != nil {
		logrus.Errorf("Failed to set flag: %v", err)
	}
}
