package verdict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// startFormat renders the session start as DD.MM.YYYY HH:MM:SS.
const startFormat = "02.01.2006 15:04:05"

// Document is the final verdict record: the counters, the run timing, the
// derived sum and the collected extra section. Constructed once by
// Session.Finish and serialized once.
type Document struct {
	Start    string                        `json:"start"`
	Duration float64                       `json:"duration"`
	Passed   int                           `json:"passed"`
	Failed   int                           `json:"failed"`
	XPassed  int                           `json:"xpassed"`
	XFailed  int                           `json:"xfailed"`
	Errors   int                           `json:"errors"`
	Skipped  int                           `json:"skipped"`
	Rerun    *int                          `json:"rerun"`
	Sum      int                           `json:"sum"`
	Extra    map[string]map[string]Outcome `json:"extra"`
}

func newDocument(start time.Time, elapsed time.Duration, t *Tally, extra Store) Document {
	return Document{
		Start:    start.Format(startFormat),
		Duration: elapsed.Seconds(),
		Passed:   t.Passed,
		Failed:   t.Failed,
		XPassed:  t.XPassed,
		XFailed:  t.XFailed,
		Errors:   t.Errors,
		Skipped:  t.Skipped,
		Rerun:    t.Rerun,
		Sum:      t.Sum(),
		Extra:    extra,
	}
}

// MarshalIndent renders the document as indented UTF-8 JSON with a trailing
// newline.
func (d Document) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling verdict document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile expands env vars and a leading ~ in path, creates the parent
// directory if missing, and writes the document. Filesystem errors propagate
// to the caller; the run's results are already complete by the time this is
// called, so a failed write only loses the report artifact.
func (d Document) WriteFile(path string) (string, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(resolved); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating report directory: %w", err)
		}
	}
	data, err := d.MarshalIndent()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return "", fmt.Errorf("writing verdict document: %w", err)
	}
	return resolved, nil
}

// ExpandPath resolves $VAR references and a leading ~ and returns the
// absolute path.
func ExpandPath(path string) (string, error) {
	expanded := os.ExpandEnv(path)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving report path: %w", err)
	}
	return abs, nil
}
