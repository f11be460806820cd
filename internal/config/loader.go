package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfigPath names the variable holding the YAML config path.
const EnvConfigPath = "CONFIG_PATH"

const defaultConfigPath = "./config.yaml"

// Load is LoadFile with the path taken from CONFIG_PATH.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigPath))
}

// LoadFile builds the configuration from defaults, the YAML file at path and
// the environment, later sources winning. Variables from ./.env are added
// to the environment first but never replace ones already set.
//
// An empty path means ./config.yaml, which may be absent. A non-empty path
// must exist.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	required := path != ""
	if !required {
		path = defaultConfigPath
	}

	cfg := defaults()
	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	case required:
		return nil, fmt.Errorf("config: %w", err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: env: %w", err)
		}
	}

	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = cfg.Site.Name
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
