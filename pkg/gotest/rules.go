package gotest

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dzerrenner/verdict/pkg/verdict"
)

// ExtraRule binds tests matching the given node-id globs to a verdict
// annotation. An empty glob list matches every test.
type ExtraRule struct {
	Tests      []string
	Annotation *verdict.Annotation
}

// Rules configure how raw go test events translate into verdict events.
type Rules struct {
	// XFail lists doublestar globs over node ids; matching tests carry the
	// expected-failure flag.
	XFail []string
	// Rerun enables rerun synthesis: when a test id reports more than one
	// terminal result, superseded attempts count as reruns.
	Rerun bool
	// Extras are checked in order; the first matching rule collects the
	// test's outcome.
	Extras []ExtraRule
}

// Validate checks every glob pattern up front so a bad pattern is a
// configuration error, not a silently-never-matching rule.
func (r Rules) Validate() error {
	for _, pat := range r.XFail {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid xfail pattern %q", pat)
		}
	}
	for i, rule := range r.Extras {
		if rule.Annotation == nil {
			return fmt.Errorf("extras rule %d has no annotation", i)
		}
		for _, pat := range rule.Tests {
			if !doublestar.ValidatePattern(pat) {
				return fmt.Errorf("invalid tests pattern %q in extras rule %q", pat, rule.Annotation.Key)
			}
		}
	}
	return nil
}

func (r Rules) expectedFail(nodeID string) bool {
	return matchAny(r.XFail, nodeID)
}

// annotationFor returns the annotation of the first extras rule matching
// nodeID, or nil.
func (r Rules) annotationFor(nodeID string) *verdict.Annotation {
	for _, rule := range r.Extras {
		if len(rule.Tests) == 0 || matchAny(rule.Tests, nodeID) {
			return rule.Annotation
		}
	}
	return nil
}

func matchAny(patterns []string, nodeID string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, nodeID); err == nil && ok {
			return true
		}
	}
	return false
}
