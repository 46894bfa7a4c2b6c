package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winstate/internal/appdir"
)

// rawConfig mirrors the YAML file. Pointer fields distinguish "absent"
// from zero so unset keys keep their defaults.
type rawConfig struct {
	AutoShow     *bool    `yaml:"auto_show"`
	Blacklist    []string `yaml:"blacklist"`
	StateDir     *string  `yaml:"state_dir"`
	SaveInterval *string  `yaml:"save_interval"`
	LogLevel     *string  `yaml:"log_level"`
	Display      *string  `yaml:"display"`
	Xauthority   *string  `yaml:"xauthority"`
}

// Load reads the configuration from the standard location. A missing
// file is not an error; defaults are returned.
func Load() (*Config, error) {
	path, err := appdir.ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path. Unknown keys are
// rejected so typos surface instead of silently doing nothing.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var raw rawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := applyRaw(cfg, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyRaw(cfg *Config, raw *rawConfig) error {
	if raw.AutoShow != nil {
		cfg.AutoShow = *raw.AutoShow
	}
	if raw.Blacklist != nil {
		cfg.Blacklist = raw.Blacklist
	}
	if raw.StateDir != nil {
		cfg.StateDir = *raw.StateDir
	}
	if raw.SaveInterval != nil {
		d, err := time.ParseDuration(*raw.SaveInterval)
		if err != nil {
			return fmt.Errorf("save_interval: %w", err)
		}
		cfg.SaveInterval = d
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Xauthority != nil {
		cfg.Xauthority = *raw.Xauthority
	}
	return nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}
