// Package cmd contains the command-line interface (CLI) definitions and execution logic for tagwatch.
// It provides the root command that checks the services of a compose manifest against their registries.
//
// Key components:
//   - rootCmd: Root command taking a manifest path and a version strategy.
//   - RunConfig: Struct for configuring execution.
//
// Usage examples:
//   - Run the CLI from main.go:
//     cmd.Execute()
//   - Check a manifest with the semver strategy:
//     tagwatch docker-compose.yml semver
//
// The package integrates with actions, registry, report, notifications, and flags packages,
// using Cobra for CLI parsing and logrus for logging.
package cmd
