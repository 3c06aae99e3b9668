package agreement

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the canonical analysis defaults file. Reports must
// state which binarization convention produced them, so the defaults live in
// one place rather than in per-caller literals.
const DefaultConfigPath = "config/analysis.defaults.json"

// Configuration errors. These are fatal: the engine refuses to compute
// anything under an incompletely specified configuration.
var (
	ErrNoThreshold   = errors.New("binarization threshold not configured")
	ErrNoInclusivity = errors.New("binarization inclusivity not configured")
	ErrUnknownTactic = errors.New("unknown tactic")
)

// Config is the full analysis configuration. Both binarization conventions
// (score > threshold and score >= threshold) are in active use for different
// reports, so neither is hard-coded: Threshold and Inclusive are required
// and validated before any computation runs.
type Config struct {
	// Threshold is the Likert cut point for binarization, in [1,7].
	Threshold *int `json:"threshold,omitempty"`

	// Inclusive selects the comparison: true means score >= Threshold maps
	// to 1, false means score > Threshold.
	Inclusive *bool `json:"inclusive,omitempty"`

	// IncludeGeneralInPrompted controls whether a prompted-category slice
	// unions the conversations' "general" groups into the slice alongside
	// the prompted tactic's own groups. Optional; defaults to false.
	IncludeGeneralInPrompted *bool `json:"include_general_in_prompted,omitempty"`
}

// Validate checks that the configuration is complete enough to run an
// analysis. An unset threshold or inclusivity is a configuration error,
// never a silent default.
func (c *Config) Validate() error {
	if c.Threshold == nil {
		return ErrNoThreshold
	}
	if *c.Threshold < 1 || *c.Threshold > 7 {
		return fmt.Errorf("binarization threshold %d out of range [1,7]", *c.Threshold)
	}
	if c.Inclusive == nil {
		return ErrNoInclusivity
	}
	return nil
}

// includeGeneral reports the prompted-slice policy, defaulting to false.
func (c *Config) includeGeneral() bool {
	return c.IncludeGeneralInPrompted != nil && *c.IncludeGeneralInPrompted
}

// NewConfig returns a fully specified configuration. Intended for callers
// (and tests) that fix the convention in code rather than loading a file.
func NewConfig(threshold int, inclusive bool) Config {
	return Config{Threshold: &threshold, Inclusive: &inclusive}
}

// LoadConfig loads a Config from a JSON file and validates it. Fields
// omitted from the file stay nil and fail validation, which is deliberate:
// a partial analysis config is a configuration error.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
