// Package config loads and validates YAML configuration for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxTitleLength       = 200 // Document title
	MaxCreatorLength     = 100 // Creator name
	MaxPageSizeLength    = 10  // "letter", "a4", "legal"
	MaxOrientationLength = 10  // "portrait", "landscape"
)

// Config holds all configuration for document generation.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Document DocumentConfig `yaml:"document"`
	Page     PageConfig     `yaml:"page"`
	Diagram  DiagramConfig  `yaml:"diagram"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// DocumentConfig defines document metadata defaults.
type DocumentConfig struct {
	Title   string `yaml:"title"`   // Empty = derived from first heading or file name
	Creator string `yaml:"creator"` // Empty = tool default
}

// PageConfig defines document page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// DiagramConfig defines diagram rendering settings.
type DiagramConfig struct {
	Theme          int64  `yaml:"theme"`          // d2 theme id (default: 0)
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // per-diagram bound (default: 5)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Page: PageConfig{
			Size:        "letter",
			Orientation: "portrait",
			Margin:      0.5,
		},
		Diagram: DiagramConfig{
			TimeoutSeconds: 5,
		},
	}
}

// LoadConfig reads and validates a YAML config file. Fields left unset
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field lengths and value ranges.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value string
		limit int
	}{
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.creator", c.Document.Creator, MaxCreatorLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
	}
	for _, chk := range checks {
		if len(chk.value) > chk.limit {
			return fmt.Errorf("%w: %s (%d > %d)", ErrFieldTooLong, chk.name, len(chk.value), chk.limit)
		}
	}
	if c.Diagram.TimeoutSeconds < 0 {
		return fmt.Errorf("diagram.timeoutSeconds must not be negative: %d", c.Diagram.TimeoutSeconds)
	}
	return nil
}
