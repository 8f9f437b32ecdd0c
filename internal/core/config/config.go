// Package config loads the runner configuration: runtime knobs plus the
// scenario the simulation starts from.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SKIRMISH_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Runtime  Runtime  `yaml:"runtime"`
	Scenario Scenario `yaml:"scenario"`
}

// Runtime holds the knobs that can also be set from the environment.
type Runtime struct {
	LogLevel  string `yaml:"logLevel" env:"LOG_LEVEL"`
	TickRate  int    `yaml:"tickRate" env:"TICK_RATE"`
	TickLimit uint64 `yaml:"tickLimit" env:"TICK_LIMIT"`
	Seed      int64  `yaml:"seed" env:"SEED"`
	// FeedAddr enables the spectator feed when set.
	FeedAddr string `yaml:"feedAddr" env:"FEED_ADDR"`
	// SavePath enables snapshot persistence when set.
	SavePath      string `yaml:"savePath" env:"SAVE_PATH"`
	SaveName      string `yaml:"saveName" env:"SAVE_NAME"`
	AutosaveTicks uint64 `yaml:"autosaveTicks" env:"AUTOSAVE_TICKS"`
	Resume        bool   `yaml:"resume" env:"RESUME"`
}

// TickSeconds is the simulated length of one tick.
func (r Runtime) TickSeconds() float64 { return 1 / float64(r.TickRate) }

// Default is the built-in configuration with the demo scenario.
func Default() *Config {
	cfg := base()
	cfg.Scenario = DefaultScenario()
	return cfg
}

// base carries runtime defaults and an empty map. Files describe their
// whole scenario.
func base() *Config {
	return &Config{
		Runtime: Runtime{
			LogLevel:      "info",
			TickRate:      20,
			SaveName:      "skirmish",
			AutosaveTicks: 200,
		},
		Scenario: Scenario{Grid: DefaultGrid()},
	}
}

// Load reads a YAML file over the defaults, applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	if path == "" {
		return finish(Default())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse is Load for an already opened document.
func Parse(r io.Reader) (*Config, error) {
	cfg := base()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := env.ParseWithOptions(&cfg.Runtime, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
