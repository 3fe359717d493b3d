// Package verdict tallies test outcomes and builds the JSON verdict document.
package verdict

// Phase is one of the three lifecycle stages of executing a single test.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// Outcome is the raw result of one test phase.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeRerun   Outcome = "rerun"
)

// Event describes the result of one test phase execution.
type Event struct {
	// NodeID is the stable string identifying one test invocation.
	NodeID string
	Phase  Phase
	// Outcome is the raw phase result. Anything other than passed, failed or
	// skipped lands in the rerun bucket.
	Outcome Outcome
	// Unexpected marks an expected-to-fail test whose phase outcome
	// contradicts that expectation (pytest's wasxfail bookkeeping).
	Unexpected bool
}

// Tally holds the running counters for one run. Rerun is nil unless rerun
// tracking was enabled at session start; it then starts at zero.
type Tally struct {
	Passed  int
	Failed  int
	Errors  int
	Skipped int
	XPassed int
	XFailed int
	Rerun   *int
}

// NewTally returns an empty tally. When rerun is true the rerun counter is
// initialized so non-standard outcomes can be counted instead of rejected.
func NewTally(rerun bool) *Tally {
	t := &Tally{}
	if rerun {
		t.Rerun = new(int)
	}
	return t
}

// Sum returns the classified-event total, excluding skipped and rerun.
func (t *Tally) Sum() int {
	return t.Passed + t.Failed + t.XPassed + t.XFailed + t.Errors
}
