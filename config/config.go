package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hyle-org/noir-verifier/decoder"
)

type BBConfig struct {
	Binary  string        `yaml:"binary"`
	Timeout time.Duration `yaml:"timeout"`
}

type DecoderConfig struct {
	PayloadWindow string `yaml:"payload_window"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	WorkDir string `yaml:"work_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	BB      BBConfig      `yaml:"bb"`
	Decoder DecoderConfig `yaml:"decoder"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

func Default() Config {
	return Config{
		BB: BBConfig{
			Binary:  "bb",
			Timeout: 5 * time.Minute,
		},
		Decoder: DecoderConfig{PayloadWindow: decoder.PayloadWindowLenient.String()},
		Server: ServerConfig{
			Addr:    "0.0.0.0:8010",
			WorkDir: os.TempDir(),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.BB.Binary == "" {
		errs = append(errs, errors.New("bb.binary must be set"))
	}
	if c.BB.Timeout < 0 {
		errs = append(errs, fmt.Errorf("bb.timeout must not be negative, got %s", c.BB.Timeout))
	}
	if _, err := decoder.ParseWindowPolicy(c.Decoder.PayloadWindow); err != nil {
		errs = append(errs, fmt.Errorf("decoder.payload_window: %w", err))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

func (c Config) WindowPolicy() decoder.WindowPolicy {
	p, _ := decoder.ParseWindowPolicy(c.Decoder.PayloadWindow)
	return p
}

func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
