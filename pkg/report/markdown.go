package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// DefaultPath is the report file used when none is configured.
const DefaultPath = "version_check.md"

// Lock acquisition settings.
const (
	lockTimeout   = 10 * time.Second
	lockRetryWait = 100 * time.Millisecond
	fileMode      = 0o644
)

// Errors for report writing.
var (
	// errLockTimeout indicates the report lock stayed held by another process.
	errLockTimeout = errors.New("timed out acquiring report lock")
	// errFailedLock indicates the lock file could not be used.
	errFailedLock = errors.New("failed to lock report")
	// errFailedOpen indicates the report file could not be opened for appending.
	errFailedOpen = errors.New("failed to open report")
	// errFailedWrite indicates the block could not be written.
	errFailedWrite = errors.New("failed to write report")
	// errFailedRender indicates the block template failed.
	errFailedRender = errors.New("failed to render report block")
)

const blockTemplate = `## 📊 {{ .Manifest }} version check results
<!-- run {{ .RunID }} at {{ .Time }} -->
### Service: {{ .Verdict.Service }}
- **Image:** {{ .Verdict.Image }}
{{- if .Verdict.Resolution.Succeeded }}
- **Current version:** {{ .Verdict.DeclaredVersion }}
- **Latest version:** {{ .Verdict.LatestVersion }}
{{- else }}
- **Error:** {{ .Verdict.Error }}
{{- end }}
- **Update needed:** {{ if .Verdict.UpdateNeeded }}yes{{ else }}no{{ end }}

`

var block = template.Must(template.New("block").Parse(blockTemplate))

// blockData is the template context of one block.
type blockData struct {
	Manifest string
	RunID    string
	Time     string
	Verdict  types.VerdictReport
}

// Markdown appends verdict blocks to a markdown file.
type Markdown struct {
	path     string           // Report file.
	manifest string           // Manifest named in each block header.
	runID    string           // Identifier shared by all blocks of a run.
	now      func() time.Time // Clock.
}

// NewMarkdown returns a reporter appending to path.
//
// Parameters:
//   - path: Report file, DefaultPath when empty.
//   - manifest: Manifest path shown in block headers.
//
// Returns:
//   - *Markdown: Reporter with a fresh run ID.
func NewMarkdown(path, manifest string) *Markdown {
	if path == "" {
		path = DefaultPath
	}

	return &Markdown{
		path:     path,
		manifest: manifest,
		runID:    uuid.NewString(),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for block timestamps.
func (m *Markdown) WithClock(now func() time.Time) *Markdown {
	m.now = now

	return m
}

// RunID returns the identifier written into every block of this run.
func (m *Markdown) RunID() string {
	return m.runID
}

// Path returns the report file path.
func (m *Markdown) Path() string {
	return m.path
}

// Append writes one block for verdict at the end of the report.
//
// Parameters:
//   - verdict: Service verdict.
//
// Returns:
//   - error: Non-nil if rendering, locking, opening or writing fails.
func (m *Markdown) Append(verdict types.VerdictReport) error {
	var buf bytes.Buffer

	err := block.Execute(&buf, blockData{
		Manifest: m.manifest,
		RunID:    m.runID,
		Time:     m.now().UTC().Format(time.RFC3339),
		Verdict:  verdict,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errFailedRender, err)
	}

	err = m.withLock(func() error {
		return m.write(buf.Bytes())
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":    m.path,
			"service": verdict.Service(),
		}).Debug("Failed to append report block")

		return err
	}

	logrus.WithFields(logrus.Fields{
		"path":    m.path,
		"service": verdict.Service(),
		"bytes":   buf.Len(),
	}).Trace("Appended report block")

	return nil
}

// write appends data and closes the file.
func (m *Markdown) write(data []byte) error {
	file, err := os.OpenFile(filepath.Clean(m.path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("%w: %w", errFailedOpen, err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()

		return fmt.Errorf("%w: %w", errFailedWrite, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", errFailedWrite, err)
	}

	return nil
}

// withLock runs fn while holding the report lock.
func (m *Markdown) withLock(fn func() error) error {
	lock := flock.New(m.path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return fmt.Errorf("%w %s: %w", errFailedLock, m.path, err)
	}

	if !locked {
		return fmt.Errorf("%w: %s", errLockTimeout, m.path)
	}

	defer func() { _ = lock.Unlock() }()

	return fn()
}
