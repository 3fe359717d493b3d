// Package config loads the .verdict.yaml configuration and merges it with
// environment overrides and CLI flags.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory and
// in the user config dir under "verdict/".
const FileName = ".verdict.yaml"

// ExtraEntry configures one json_extra-style annotation: matching tests
// report their outcome under Key in the document's extra section.
type ExtraEntry struct {
	Key string `yaml:"key"`
	// Tests holds doublestar globs over node ids ("<package>::<test>").
	// Empty means every test.
	Tests []string `yaml:"tests,omitempty"`
	// Mapping statically remaps node ids to display identifiers. Tests
	// missing from the table are dropped from the extra section.
	Mapping map[string]string `yaml:"mapping,omitempty"`
	// Transform names a built-in display transform (name, upper, lower).
	// Mutually exclusive with Mapping.
	Transform string `yaml:"transform,omitempty"`
}

// Config is the merged configuration driving one verdict run.
type Config struct {
	JSON     string       `yaml:"json,omitempty"`
	Validate bool         `yaml:"validate"`
	NoColor  bool         `yaml:"no_color"`
	Rerun    bool         `yaml:"rerun"`
	XFail    []string     `yaml:"xfail,omitempty"`
	Extras   []ExtraEntry `yaml:"extras,omitempty"`
}

// envOverrides mirrors the environment surface. Pointer fields distinguish
// "unset" from explicit false.
type envOverrides struct {
	JSON     *string `env:"VERDICT_JSON"`
	Validate *bool   `env:"VERDICT_VALIDATE"`
	NoColor  *bool   `env:"VERDICT_NO_COLOR"`
	Rerun    *bool   `env:"VERDICT_RERUN"`
}

// CliFlags holds the values of command-line flags, with Set markers for the
// ones the user passed explicitly.
type CliFlags struct {
	JSON     string
	Validate bool
	NoColor  bool
	Rerun    bool

	JSONSet     bool
	ValidateSet bool
	NoColorSet  bool
	RerunSet    bool
}

// Load reads the configuration file at path, or searches the default
// locations when path is empty. A missing file yields the zero defaults;
// an unreadable or malformed file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = findConfigPath()
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigPath checks the working directory first, then the user config
// dir (e.g. ~/.config/verdict/.verdict.yaml).
func findConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "verdict", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// ApplyEnv merges VERDICT_* environment overrides onto cfg.
func ApplyEnv(ctx context.Context, cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(ctx, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.JSON != nil {
		cfg.JSON = *env.JSON
	}
	if env.Validate != nil {
		cfg.Validate = *env.Validate
	}
	if env.NoColor != nil {
		cfg.NoColor = *env.NoColor
	}
	if env.Rerun != nil {
		cfg.Rerun = *env.Rerun
	}
	// Honor the conventional NO_COLOR as well.
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return nil
}

// ApplyFlags merges explicitly-set CLI flags onto cfg. Flags win over both
// the file and the environment.
func ApplyFlags(cfg *Config, flags CliFlags) {
	if flags.JSONSet {
		cfg.JSON = flags.JSON
	}
	if flags.ValidateSet {
		cfg.Validate = flags.Validate
	}
	if flags.NoColorSet {
		cfg.NoColor = flags.NoColor
	}
	if flags.RerunSet {
		cfg.Rerun = flags.Rerun
	}
}
