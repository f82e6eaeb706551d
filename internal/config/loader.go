package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader for the project at rootDir. If configFile is
// non-empty it must exist and is used instead of rootDir/.stylegen.yaml.
func NewLoader(rootDir, configFile string) Loader {
	return &loader{rootDir: rootDir, configFile: configFile}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (STYLEGEN_*)
// 2. Config file (.stylegen.yaml in the root, or the explicit file)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix("STYLEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing project file is fine; an explicit one must exist.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values. Every key gets a
// default so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("format", defaults.Format)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("include_tests", defaults.IncludeTests)
	v.SetDefault("max_file_size", defaults.MaxFileSize)
	v.SetDefault("cache", defaults.Cache)

	v.SetDefault("markers.styleable", defaults.Markers.Styleable)
	v.SetDefault("markers.attr", defaults.Markers.Attr)
	v.SetDefault("markers.child", defaults.Markers.Child)
	v.SetDefault("markers.style", defaults.Markers.Style)
	v.SetDefault("markers.before_style", defaults.Markers.BeforeStyle)
	v.SetDefault("markers.after_style", defaults.Markers.AfterStyle)
}
