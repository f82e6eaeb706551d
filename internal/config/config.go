// Package config loads stylegen settings from defaults, a project file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/phobologic/stylegen/internal/scan"
)

// FileName is the project configuration file looked up in the root.
const FileName = ".stylegen.yaml"

// Formats lists the supported output formats.
var Formats = []string{"toon", "yaml", "table"}

// Config is the complete stylegen configuration.
type Config struct {
	// Format is the output format: toon, yaml or table.
	Format string `mapstructure:"format" yaml:"format"`
	// Include and Exclude select styleables by qualified class name globs.
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
	// IncludeTests scans test source sets too.
	IncludeTests bool `mapstructure:"include_tests" yaml:"include_tests"`
	// MaxFileSize skips larger sources; human readable ("1MB", "512KiB").
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size"`
	// Cache is the path of the output cache file; empty disables caching.
	Cache string `mapstructure:"cache" yaml:"cache"`
	// Markers names the recognized annotations.
	Markers scan.Markers `mapstructure:"markers" yaml:"markers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:      "toon",
		Include:     []string{},
		Exclude:     []string{},
		MaxFileSize: "1MB",
		Markers:     scan.DefaultMarkers(),
	}
}

// MaxFileSizeBytes parses MaxFileSize.
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(c.MaxFileSize))
	if err != nil {
		return 0, fmt.Errorf("max_file_size %q: %w", c.MaxFileSize, err)
	}
	return n, nil
}

// Validate checks the configuration for errors.
func Validate(c *Config) error {
	var errs []error

	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("format must be one of %s, got %q", strings.Join(Formats, ", "), c.Format))
	}

	if n, err := c.MaxFileSizeBytes(); err != nil {
		errs = append(errs, err)
	} else if n == 0 {
		errs = append(errs, errors.New("max_file_size must be greater than zero"))
	}

	if c.Markers.Styleable == "" {
		errs = append(errs, errors.New("markers.styleable must not be empty"))
	}

	return errors.Join(errs...)
}
