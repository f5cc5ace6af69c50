// Package report appends a markdown record of each verdict to a report file.
//
// The report is append-only: every run adds one block per service below whatever the file
// already holds. Each append takes an advisory lock on "<path>.lock" so concurrent runs
// against the same file do not interleave blocks.
package report
