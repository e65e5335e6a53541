// Package config holds the settings shared by every command and loads them
// from flags, environment and the config file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/project"
)

// EnvPrefix prefixes every environment override, e.g. CODEZAP_LOG_LEVEL.
const EnvPrefix = "CODEZAP"

// Output formats accepted by --output.
var OutputFormats = []string{"text", "markdown", "json", "yaml"}

// ErrInvalidOutput is returned for an unknown output format.
var ErrInvalidOutput = errors.New("invalid output format")

// DetectSettings tunes the language detector.
type DetectSettings struct {
	Weights project.Weights `mapstructure:"weights" yaml:"weights"`
}

// ToolSettings bounds external tool invocations.
type ToolSettings struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LogSettings configures the process logger.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Settings is the effective configuration of one run.
type Settings struct {
	Detect     DetectSettings `mapstructure:"detect" yaml:"detect"`
	IgnoreDirs []string       `mapstructure:"ignore_dirs" yaml:"ignore_dirs"`
	// CommentedCodeThreshold is the number of code-like comment lines a file
	// may carry before it is reported.
	CommentedCodeThreshold int          `mapstructure:"commented_code_threshold" yaml:"commented_code_threshold"`
	Tools                  ToolSettings `mapstructure:"tools" yaml:"tools"`
	Log                    LogSettings  `mapstructure:"log" yaml:"log"`
	Output                 string       `mapstructure:"output" yaml:"output"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	w := project.DefaultWeights()
	v.SetDefault("detect.weights.extension", w.Extension)
	v.SetDefault("detect.weights.directory", w.Directory)
	v.SetDefault("detect.weights.filename", w.Filename)
	v.SetDefault("ignore_dirs", []string{})
	v.SetDefault("commented_code_threshold", 2)
	v.SetDefault("tools.timeout", "60s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("output", "text")
}

// Read wires environment overrides into v and reads the config file: cfgFile
// when given, otherwise $HOME/.codezap/config.yaml if it exists. A missing
// default file is not an error.
func Read(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".codezap"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate normalises s and rejects values no command can work with.
func (s *Settings) Validate() error {
	s.Output = strings.ToLower(strings.TrimSpace(s.Output))
	if s.Output == "" {
		s.Output = "text"
	}
	valid := false
	for _, f := range OutputFormats {
		if s.Output == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w %q (want one of %s)", ErrInvalidOutput, s.Output, strings.Join(OutputFormats, ", "))
	}

	if s.CommentedCodeThreshold < 0 {
		return fmt.Errorf("commented_code_threshold must not be negative, got %d", s.CommentedCodeThreshold)
	}
	w := s.Detect.Weights
	if w.Extension < 0 || w.Directory < 0 || w.Filename < 0 {
		return fmt.Errorf("detect weights must not be negative, got %+v", w)
	}
	if s.Tools.Timeout <= 0 {
		s.Tools.Timeout = 60 * time.Second
	}
	return nil
}
