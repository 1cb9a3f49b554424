package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"imagesense/internal/platform/errors"
)

const defaultConfigFile = ".config.yaml"

// Loader reads configuration from a yaml file, falling back to built-in
// defaults, with environment overrides for credentials.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      defaultConfigFile,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Load retrieves configuration, merging file contents over defaults.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()

	if data, err := os.ReadFile(l.path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "config.load", "parse config file", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.KindConfig, "config.load", "read config file", err)
	}

	applyEnvOverrides(cfg)

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.Caption.APIKey == "" {
			cfg.Caption.APIKey = key
		}
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = key
		}
	}
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		if cfg.Caption.BaseURL == "" {
			cfg.Caption.BaseURL = url
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = url
		}
	}
}

// Validate rejects configurations the server cannot run with.
func (l *Loader) Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "config.validate",
			fmt.Sprintf("invalid server port: %d", cfg.Server.Port))
	}
	if cfg.Upload.MaxFileSize <= 0 {
		return errors.New(errors.KindConfig, "config.validate", "upload max_file_size must be positive")
	}
	if cfg.Upload.Workspace == "" {
		return errors.New(errors.KindConfig, "config.validate", "upload workspace is required")
	}
	if cfg.Colors.Clusters <= 0 {
		return errors.New(errors.KindConfig, "config.validate", "colors clusters must be positive")
	}
	return nil
}
