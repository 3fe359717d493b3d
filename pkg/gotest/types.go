// Package gotest adapts go test -json NDJSON streams into verdict events.
package gotest

import "time"

// TestEvent represents a single event from go test -json output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"` // start, run, pass, fail, skip, output, bench, pause, cont
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

const (
	actionPass = "pass"
	actionFail = "fail"
	actionSkip = "skip"
)

// terminal reports whether the event ends a test or package.
func (e TestEvent) terminal() bool {
	switch e.Action {
	case actionPass, actionFail, actionSkip:
		return true
	}
	return false
}

// NodeID returns the stable identifier for a test event:
// "<package>::<test>", or just the package for package-level events.
func (e TestEvent) NodeID() string {
	if e.Test == "" {
		return e.Package
	}
	return e.Package + "::" + e.Test
}
