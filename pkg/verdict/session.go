package verdict

import "time"

// Session owns the tally, the extra store and the run timing for one test
// run. It replaces the plugin-style global state with an explicit object:
// construct one at session start, feed it every result event, and call
// Finish once to obtain the document.
//
// A Session is not safe for concurrent use. When tests execute across worker
// processes, only the coordinating process should own a session.
type Session struct {
	tally *Tally
	extra Store
	start time.Time

	now func() time.Time // test hook
}

// Option configures a Session.
type Option func(*Session)

// WithRerun enables the rerun counter. Without it, events carrying an
// outcome outside passed/failed/skipped are rejected by Record.
func WithRerun() Option {
	return func(s *Session) { s.tally.Rerun = new(int) }
}

func withClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session and captures the start time.
func NewSession(opts ...Option) *Session {
	s := &Session{
		tally: NewTally(false),
		extra: make(Store),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

// Record classifies one result event into the tally and, for call-phase
// events, collects the annotation's extra entry.
func (s *Session) Record(ev Event, ann *Annotation) error {
	if err := s.tally.Classify(ev); err != nil {
		return err
	}
	s.extra.Collect(ann, ev)
	return nil
}

// Tally exposes the running counters, mainly for exit-code decisions.
func (s *Session) Tally() *Tally {
	return s.tally
}

// Finish computes the elapsed duration and builds the immutable verdict
// document. The session should not be used afterwards.
func (s *Session) Finish() Document {
	return newDocument(s.start, s.now().Sub(s.start), s.tally, s.extra)
}
