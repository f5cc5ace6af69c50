package types

// VerdictClass groups verdicts for notification policies and reporting.
type VerdictClass string

// Verdict classes.
const (
	FailedClass VerdictClass = "failed" // Resolution failed; update treated as needed.
	StaleClass  VerdictClass = "stale"  // Resolution succeeded and the declared version differs.
	FreshClass  VerdictClass = "fresh"  // Resolution succeeded and the declared version matches.
)

// VerdictReport defines a service's update decision.
type VerdictReport interface {
	Service() string         // Service name from the manifest.
	Image() string           // Image reference as declared.
	DeclaredVersion() string // Declared tag, "latest" when absent.
	LatestVersion() string   // Resolved tag, empty on failure.
	Resolution() Resolution  // Full resolution outcome.
	UpdateNeeded() bool      // Whether the service needs attention.
	Class() VerdictClass     // Verdict class.
	Error() string           // Failure diagnostic, if any.
	State() string           // Human-readable state.
}

// Report defines the results of a run.
type Report interface {
	All() []VerdictReport    // All verdicts in manifest order.
	Stale() []VerdictReport  // Verdicts needing an update.
	Fresh() []VerdictReport  // Verdicts already up to date.
	Failed() []VerdictReport // Verdicts whose resolution failed.
}
