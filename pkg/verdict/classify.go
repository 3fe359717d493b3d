package verdict

import "errors"

// ErrRerunDisabled is returned when an outcome outside passed/failed/skipped
// arrives while the rerun counter was never initialized.
var ErrRerunDisabled = errors.New("verdict: rerun outcome received but rerun tracking is disabled")

// Classify buckets one event into exactly one counter.
//
// The rules mirror the historical reporting semantics: a call-phase failure
// that carries the unexpected-outcome flag counts as xpassed (older
// frameworks reported xpass as a failure), and any setup or teardown failure
// counts as an error regardless of that flag.
func (t *Tally) Classify(ev Event) error {
	switch ev.Outcome {
	case OutcomePassed:
		if ev.Unexpected {
			t.XPassed++
		} else {
			t.Passed++
		}
	case OutcomeFailed:
		switch {
		case ev.Phase != PhaseCall:
			t.Errors++
		case ev.Unexpected:
			t.XPassed++
		default:
			t.Failed++
		}
	case OutcomeSkipped:
		if ev.Unexpected {
			t.XFailed++
		} else {
			t.Skipped++
		}
	default:
		if t.Rerun == nil {
			return ErrRerunDisabled
		}
		*t.Rerun++
	}
	return nil
}
