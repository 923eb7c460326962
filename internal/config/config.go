// Package config loads the run configuration for a formscope
// invocation from TOML.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// RunConfig configures one formscope run: how forms are loaded, which
// solver backend synthesizes against, and how output is reported.
type RunConfig struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
	// LogJSON selects JSON log lines over human-readable console lines.
	LogJSON bool `toml:"log_json"`

	// Solver selects the Solver backend: "sat" (pkg/satsolver, the
	// default) or "mock" (pkg/formscope.MockSolver, for small forms or
	// debugging without a SAT dependency in the loop).
	Solver string `toml:"solver"`
	// FormTimeoutSeconds is the deadline for each form's whole
	// Synthesize run; expiry during Phase 2/3 yields a partial plan,
	// expiry during Phase 1 fails the form. 0 means no deadline.
	FormTimeoutSeconds int `toml:"form_timeout_seconds"`

	// Concurrency bounds how many forms a batch run processes at
	// once; 0 selects runtime.NumCPU() at call time.
	Concurrency int `toml:"concurrency"`

	// MetricsAddr, if non-empty, is the listen address for the
	// Prometheus /metrics endpoint.
	MetricsAddr string `toml:"metrics_addr"`

	// ReportFormat is decoded and encoded with the rest of the file
	// ("text" by default), but no command reads it: plan always renders
	// styled text and report always writes the gating CSV.
	ReportFormat string `toml:"report_format"`
}

// Default returns the configuration a bare `formscope plan` invocation
// runs with when no config file is given.
func Default() RunConfig {
	return RunConfig{
		LogLevel:           "info",
		Solver:             "sat",
		FormTimeoutSeconds: 30,
		ReportFormat:       "text",
	}
}

// Load reads and decodes a RunConfig from a TOML file at path,
// starting from Default() so a partial file only overrides the fields
// it sets.
func Load(path string) (RunConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("reading config %q: %w", path, err)
	}
	return Decode(b)
}

// Decode parses TOML bytes into a RunConfig, starting from Default().
func Decode(b []byte) (RunConfig, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(bytes.NewReader(b)).Decode(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Encode renders cfg as TOML, for `formscope config init`-style
// scaffolding.
func Encode(cfg RunConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
