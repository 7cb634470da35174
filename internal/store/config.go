package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = ".tasker.yaml"

type Config struct {
	Schema   int    `yaml:"schema" json:"schema"`
	DataFile string `yaml:"data_file" json:"data_file"`
	Plain    bool   `yaml:"plain" json:"plain"`
	Greeting bool   `yaml:"greeting" json:"greeting"`
}

func DefaultConfig() Config {
	return Config{
		Schema:   1,
		DataFile: DefaultPath,
		Greeting: true,
	}
}

// LoadConfig returns the defaults when path does not exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(expandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Schema == 0 {
		cfg.Schema = 1
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		cfg.DataFile = DefaultPath
	}
	return cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	if cfg.Schema == 0 {
		cfg.Schema = 1
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		cfg.DataFile = DefaultPath
	}
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(expandHome(path), b, 0o644)
}

// Set updates one config key from its text form.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "data_file":
		if value == "" || value == "none" || value == "null" {
			c.DataFile = DefaultPath
		} else {
			c.DataFile = value
		}
	case "plain":
		v, ok := ParseBool(value)
		if !ok {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		c.Plain = v
	case "greeting":
		v, ok := ParseBool(value)
		if !ok {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		c.Greeting = v
	default:
		return fmt.Errorf("unknown config key %q (allowed: data_file, plain, greeting)", key)
	}
	return nil
}

func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
