package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nicholas-fedor/tagwatch/internal/actions"
	"github.com/nicholas-fedor/tagwatch/internal/flags"
	"github.com/nicholas-fedor/tagwatch/internal/logging"
	"github.com/nicholas-fedor/tagwatch/internal/meta"
	"github.com/nicholas-fedor/tagwatch/pkg/metrics"
	"github.com/nicholas-fedor/tagwatch/pkg/notifications"
	"github.com/nicholas-fedor/tagwatch/pkg/registry"
	"github.com/nicholas-fedor/tagwatch/pkg/report"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
	"github.com/nicholas-fedor/tagwatch/pkg/version"
)

// exitConfigError is returned for configuration that prevents a check from starting.
const exitConfigError = 1

// rootCmd represents the root command for the tagwatch CLI.
var rootCmd = NewRootCommand()

// newFetcher builds the registry tag source; replaced in tests.
var newFetcher = registry.NewFetcher

// RunConfig encapsulates the configuration parameters for the runMain function.
type RunConfig struct {
	// Command is the cobra.Command instance representing the executed command, providing access to parsed flags.
	Command *cobra.Command
	// Manifest is the compose manifest path given as first positional argument.
	Manifest string
	// Strategy is the version strategy identifier given as second positional argument.
	Strategy string
	// ReportFile is the Markdown file results are appended to, set via the --report-file flag.
	ReportFile string
	// Pushgateway is the Prometheus Pushgateway URL, set via the --metrics-pushgateway flag.
	Pushgateway string
	// MetricsJob is the job label for pushed metrics, set via the --metrics-job flag.
	MetricsJob string
}

// NewRootCommand creates and configures the root command for the tagwatch CLI.
//
// Returns:
//   - *cobra.Command: A pointer to the fully configured root command, ready for flag registration and execution.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tagwatch [flags] <manifest> <strategy>",
		Short: "Checks compose services for newer container image versions",
		Long: "\nTagwatch reads the services of a compose manifest, looks up the tags published for each image" +
			"\nand reports which services run an outdated version. Supported strategies: latest, semver." +
			"\nMore information available at https://github.com/nicholas-fedor/tagwatch/.",
		Run:    run,
		PreRun: preRun,
		Args:   cobra.ExactArgs(2),
	}
}

// init registers command-line flags for the root command during package initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterSystemFlags(rootCmd)
	flags.RegisterRegistryFlags(rootCmd)
	flags.RegisterNotificationFlags(rootCmd)
}

// Execute runs the root command and manages any errors encountered during its execution.
//
// Argument errors are printed by cobra and terminate the program with exit status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Failed to execute root command")
	}
}

// preRun prepares logging and secrets before the check runs.
//
// Parameters:
//   - cmd: The cobra.Command instance being executed, providing access to parsed flags.
//   - _: Positional arguments, handled in run.
func preRun(cmd *cobra.Command, _ []string) {
	flagsSet := cmd.PersistentFlags()
	flags.ProcessFlagAliases(flagsSet)

	if err := flags.SetupLogging(flagsSet); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}

	flags.GetSecretsFromFiles(cmd)
}

// run executes the version check and exits with its status code.
//
// Parameters:
//   - c: The cobra.Command instance being executed, providing access to parsed flags.
//   - args: Manifest path and strategy identifier.
func run(c *cobra.Command, args []string) {
	flagsSet := c.PersistentFlags()

	reportFile, _ := flagsSet.GetString("report-file")
	pushgateway, _ := flagsSet.GetString("metrics-pushgateway")
	metricsJob, _ := flagsSet.GetString("metrics-job")

	cfg := RunConfig{
		Command:     c,
		Manifest:    args[0],
		Strategy:    args[1],
		ReportFile:  reportFile,
		Pushgateway: pushgateway,
		MetricsJob:  metricsJob,
	}

	if exitCode := runMain(cfg); exitCode != 0 {
		logrus.WithField("exit_code", exitCode).Debug("Exiting with non-zero status")
		os.Exit(exitCode)
	}
}

// runMain performs one version check and returns the process exit code.
//
// An unknown strategy is not a configuration error: every service is then reported as failed.
//
// Parameters:
//   - cfg: The RunConfig struct containing all necessary configuration parameters for execution.
//
// Returns:
//   - int: 0 on completion, actions.ExitManifestError if the manifest could not be read,
//     exitConfigError if the registry could not be configured.
func runMain(cfg RunConfig) int {
	if _, err := version.ParseStrategy(cfg.Strategy); err != nil {
		logrus.WithError(err).
			WithField("supported", version.Strategies()).
			Warn("Every service will be reported as failed")
	}

	fetcher, err := newFetcher(registryOptions(cfg.Command.PersistentFlags()))
	if err != nil {
		logrus.WithError(err).Error("Failed to configure registry")

		return exitConfigError
	}

	notifier := notifications.NewNotifier(cfg.Command, cfg.Manifest)

	logging.WriteStartupMessage(cfg.Command, cfg.Manifest, cfg.Strategy, notifier, meta.Version)

	reportPath := cfg.ReportFile
	if reportPath == "" {
		reportPath = report.DefaultPath
	}

	ctx := context.Background()

	metric, duration, err := actions.RunCheckWithNotifications(
		ctx,
		actions.CheckParams{Manifest: cfg.Manifest, Strategy: cfg.Strategy},
		fetcher,
		report.NewMarkdown(reportPath, cfg.Manifest),
		notifier,
	)
	if err != nil {
		return actions.ExitManifestError
	}

	if cfg.Pushgateway != "" {
		pushMetrics(ctx, cfg, metric, duration)
	}

	return 0
}

// registryOptions reads the registry flags.
//
// Parameters:
//   - flagsSet: Persistent flags of the root command.
//
// Returns:
//   - registry.Options: Fetcher options.
func registryOptions(flagsSet *pflag.FlagSet) registry.Options {
	api, _ := flagsSet.GetString("registry-api")
	url, _ := flagsSet.GetString("registry-url")
	timeout, _ := flagsSet.GetDuration("registry-timeout")
	maxPages, _ := flagsSet.GetInt("registry-max-pages")
	insecure, _ := flagsSet.GetBool("registry-insecure")
	username, _ := flagsSet.GetString("registry-username")
	password, _ := flagsSet.GetString("registry-password")

	opts := registry.Options{
		API:      registry.API(api),
		URL:      url,
		Timeout:  timeout,
		MaxPages: maxPages,
		Insecure: insecure,
	}

	if username != "" {
		opts.Credentials = &types.RegistryCredentials{
			Username: username,
			Password: password,
		}
	}

	return opts
}

// pushMetrics records the run and pushes it to the configured Pushgateway.
// A failed push is logged and does not change the exit code.
//
// Parameters:
//   - ctx: Context for the push request.
//   - cfg: Run configuration holding the Pushgateway URL and job.
//   - metric: Run counts.
//   - duration: Run duration.
func pushMetrics(ctx context.Context, cfg RunConfig, metric *metrics.Metric, duration time.Duration) {
	runMetrics := metrics.New()
	runMetrics.Record(metric, duration)

	if err := runMetrics.Push(ctx, cfg.Pushgateway, cfg.MetricsJob); err != nil {
		logrus.WithError(err).WithField("url", cfg.Pushgateway).Warn("Failed to push run metrics")
	}
}
