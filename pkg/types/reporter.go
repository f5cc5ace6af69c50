package types

// Reporter persists a human-readable record of each verdict.
// Appends never truncate earlier content.
type Reporter interface {
	Append(verdict VerdictReport) error
}
