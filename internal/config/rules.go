package config

import (
	"fmt"
	"strings"

	"github.com/dzerrenner/verdict/pkg/gotest"
	"github.com/dzerrenner/verdict/pkg/verdict"
)

// transforms are the built-in display-identifier transforms available to
// extras entries. "name" strips the package, leaving the bare test name.
var transforms = map[string]func(string) string{
	"name": func(nodeID string) string {
		if i := strings.LastIndex(nodeID, "::"); i >= 0 {
			return nodeID[i+2:]
		}
		return nodeID
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// Rules translates the configuration into adapter rules. Extras entries are
// validated here: a missing key, an unknown transform, or a mapping combined
// with a transform is a configuration error.
func (c *Config) Rules() (gotest.Rules, error) {
	rules := gotest.Rules{
		XFail: c.XFail,
		Rerun: c.Rerun,
	}

	for i, entry := range c.Extras {
		if entry.Mapping != nil && entry.Transform != "" {
			return gotest.Rules{}, fmt.Errorf("extras entry %q: mapping and transform are mutually exclusive", entry.Key)
		}

		var mapping any
		switch {
		case entry.Mapping != nil:
			mapping = entry.Mapping
		case entry.Transform != "":
			fn, ok := transforms[entry.Transform]
			if !ok {
				return gotest.Rules{}, fmt.Errorf("extras entry %q: unknown transform %q", entry.Key, entry.Transform)
			}
			mapping = fn
		}

		ann, err := verdict.NewAnnotation(entry.Key, mapping)
		if err != nil {
			return gotest.Rules{}, fmt.Errorf("extras entry %d: %w", i, err)
		}
		rules.Extras = append(rules.Extras, gotest.ExtraRule{
			Tests:      entry.Tests,
			Annotation: ann,
		})
	}

	if err := rules.Validate(); err != nil {
		return gotest.Rules{}, err
	}
	return rules, nil
}
