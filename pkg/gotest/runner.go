package gotest

import (
	"github.com/dzerrenner/verdict/pkg/verdict"
)

// Runner feeds go test -json events into a verdict session.
//
// Terminal test results are buffered per node id until Finish so that a
// later attempt of the same test (a rerun) can supersede the earlier one:
// the superseded attempt is counted as a rerun and only the final attempt
// is classified normally. Package-level failures with no recorded tests are
// build failures and map to setup-phase errors immediately.
//
// A Runner is single-goroutine, like the session it drives.
type Runner struct {
	session *verdict.Session
	rules   Rules

	pending map[string]verdict.Event
	order   []string
	// tests counts terminal test events per package, to tell a build
	// failure apart from an ordinary package fail line.
	tests map[string]int
}

// NewRunner validates rules and creates a runner with a fresh session.
func NewRunner(rules Rules) (*Runner, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	var opts []verdict.Option
	if rules.Rerun {
		opts = append(opts, verdict.WithRerun())
	}
	return &Runner{
		session: verdict.NewSession(opts...),
		rules:   rules,
		pending: make(map[string]verdict.Event),
		tests:   make(map[string]int),
	}, nil
}

// Process consumes one go test -json event. Non-terminal actions (run,
// output, pause, cont, bench) are ignored.
func (r *Runner) Process(e TestEvent) error {
	if !e.terminal() {
		return nil
	}

	if e.Test == "" {
		// Package-level result. A fail with zero recorded tests means the
		// package did not build or panicked before running anything.
		if e.Action == actionFail && r.tests[e.Package] == 0 {
			return r.session.Record(verdict.Event{
				NodeID:  e.Package,
				Phase:   verdict.PhaseSetup,
				Outcome: verdict.OutcomeFailed,
			}, nil)
		}
		return nil
	}

	r.tests[e.Package]++
	nodeID := e.NodeID()
	ev := synthesize(nodeID, e.Action, r.rules.expectedFail(nodeID))

	if prev, ok := r.pending[nodeID]; ok {
		if r.rules.Rerun {
			// Supersede: the earlier attempt becomes a rerun.
			prev.Outcome = verdict.OutcomeRerun
			prev.Unexpected = false
		}
		if err := r.session.Record(prev, nil); err != nil {
			return err
		}
		r.pending[nodeID] = ev
		return nil
	}

	r.pending[nodeID] = ev
	r.order = append(r.order, nodeID)
	return nil
}

// Finish flushes buffered results in arrival order and builds the verdict
// document.
func (r *Runner) Finish() (verdict.Document, error) {
	for _, nodeID := range r.order {
		ev := r.pending[nodeID]
		if err := r.session.Record(ev, r.rules.annotationFor(nodeID)); err != nil {
			return verdict.Document{}, err
		}
	}
	r.pending = make(map[string]verdict.Event)
	r.order = nil
	return r.session.Finish(), nil
}

// synthesize reports a test result the way an xfail-aware host would: an
// expected failure that does fail surfaces as a flagged skip (xfailed), one
// that passes surfaces as a flagged pass (xpassed).
func synthesize(nodeID, action string, xfail bool) verdict.Event {
	ev := verdict.Event{NodeID: nodeID, Phase: verdict.PhaseCall}
	switch action {
	case actionPass:
		ev.Outcome = verdict.OutcomePassed
		ev.Unexpected = xfail
	case actionFail:
		if xfail {
			ev.Outcome = verdict.OutcomeSkipped
			ev.Unexpected = true
		} else {
			ev.Outcome = verdict.OutcomeFailed
		}
	default:
		ev.Outcome = verdict.OutcomeSkipped
	}
	return ev
}
