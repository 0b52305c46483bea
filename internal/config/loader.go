package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	pathEnv     = "CONFIG_PATH"
	defaultPath = "./config.yaml"
)

// Load reads the YAML file named by CONFIG_PATH (or ./config.yaml) and then
// applies environment overrides and env-default tags. A missing default file
// is fine; a missing explicit file is an error.
func Load() (*Config, error) {
	return load(os.Getenv(pathEnv))
}

func load(path string) (*Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Describe lists every environment variable the service reads, with defaults.
func Describe() (string, error) {
	header := "langcorrect environment (" + pathEnv + " selects the YAML file, default " + defaultPath + "):"
	return cleanenv.GetDescription(&Config{}, &header)
}
