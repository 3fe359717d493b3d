package verdict

import (
	"errors"
	"fmt"
)

// ErrBadMapping is returned when an annotation mapping is neither a function
// nor a static table. Unlike a per-test resolution failure, this is a mistake
// in test setup and is reported immediately.
var ErrBadMapping = errors.New("verdict: annotation mapping must be a func or a map[string]string")

// ErrEmptyKey is returned when an annotation is built without a collection key.
var ErrEmptyKey = errors.New("verdict: annotation requires a non-empty key")

// Mapper turns a node id into the display identifier used in the extra
// section. Resolve reports ok=false to drop the entry for this test without
// failing the run.
type Mapper interface {
	Resolve(nodeID string) (display string, ok bool)
}

// MapFunc adapts a function to a Mapper. A returned error drops the entry.
type MapFunc func(nodeID string) (string, error)

func (f MapFunc) Resolve(nodeID string) (string, bool) {
	display, err := f(nodeID)
	if err != nil {
		return "", false
	}
	return display, true
}

// MapTable is a static node-id to display-id lookup. A missing id drops the
// entry.
type MapTable map[string]string

func (m MapTable) Resolve(nodeID string) (string, bool) {
	display, ok := m[nodeID]
	return display, ok
}

// Annotation attaches a test to a collection key in the extra section,
// optionally remapping its node id for display.
type Annotation struct {
	Key    string
	Mapper Mapper // nil means use the raw node id
}

// NewAnnotation validates key and mapping once, at binding time. mapping may
// be nil, a func(string) (string, error), a func(string) string, a
// map[string]string, or a Mapper. An empty map counts as no mapping: those
// tests keep their raw node id instead of losing every entry to a table that
// can never match.
func NewAnnotation(key string, mapping any) (*Annotation, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	ann := &Annotation{Key: key}
	switch m := mapping.(type) {
	case nil:
	case Mapper:
		ann.Mapper = m
	case func(string) (string, error):
		ann.Mapper = MapFunc(m)
	case func(string) string:
		ann.Mapper = MapFunc(func(id string) (string, error) { return m(id), nil })
	case map[string]string:
		if len(m) > 0 {
			ann.Mapper = MapTable(m)
		}
	default:
		return nil, fmt.Errorf("%w, got %T", ErrBadMapping, mapping)
	}
	return ann, nil
}

// Store maps collection keys to display-id/outcome pairs for the extra
// section of the verdict document. A later test writing the same
// (key, display id) pair overwrites the earlier entry.
type Store map[string]map[string]Outcome

// Collect records one call-phase outcome under the annotation's key. Events
// for other phases and nil annotations are ignored. A mapper that cannot
// resolve the node id drops the entry silently.
func (s Store) Collect(ann *Annotation, ev Event) {
	if ann == nil || ev.Phase != PhaseCall {
		return
	}
	if _, ok := s[ann.Key]; !ok {
		s[ann.Key] = make(map[string]Outcome)
	}
	display := ev.NodeID
	if ann.Mapper != nil {
		resolved, ok := ann.Mapper.Resolve(ev.NodeID)
		if !ok {
			return
		}
		display = resolved
	}
	s[ann.Key][display] = ev.Outcome
}
