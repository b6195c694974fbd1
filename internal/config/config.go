package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/graphlab/internal/fps"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/hashgrid"
	"github.com/san-kum/graphlab/internal/logging"
	"github.com/san-kum/graphlab/internal/surface"
)

const (
	DefaultDt     = 1.0 / 60
	DefaultFrames = 600
	DefaultTheme  = "default"
)

type Config struct {
	Graph GraphConfig `yaml:"graph"`
	Hash  HashConfig  `yaml:"hash"`
	FPS   FPSConfig   `yaml:"fps"`
	Live  LiveConfig  `yaml:"live"`
	Log   LogConfig   `yaml:"log"`
}

type GraphConfig struct {
	Resolution         int     `yaml:"resolution" env:"GRAPHLAB_RESOLUTION"`
	Function           string  `yaml:"function" env:"GRAPHLAB_FUNCTION"`
	Mode               string  `yaml:"mode" env:"GRAPHLAB_MODE"`
	FunctionDuration   float64 `yaml:"function_duration" env:"GRAPHLAB_FUNCTION_DURATION"`
	TransitionDuration float64 `yaml:"transition_duration" env:"GRAPHLAB_TRANSITION_DURATION"`
	Seed               int64   `yaml:"seed" env:"GRAPHLAB_SEED"`
	Dt                 float64 `yaml:"dt" env:"GRAPHLAB_DT"`
	Frames             int     `yaml:"frames" env:"GRAPHLAB_FRAMES"`
}

type HashConfig struct {
	Resolution     int     `yaml:"resolution" env:"GRAPHLAB_HASH_RESOLUTION"`
	Seed           int32   `yaml:"seed" env:"GRAPHLAB_HASH_SEED"`
	VerticalOffset float64 `yaml:"vertical_offset" env:"GRAPHLAB_HASH_OFFSET"`
}

type FPSConfig struct {
	Mode           string  `yaml:"mode" env:"GRAPHLAB_FPS_MODE"`
	SampleDuration float64 `yaml:"sample_duration" env:"GRAPHLAB_FPS_SAMPLE"`
}

type LiveConfig struct {
	Theme string `yaml:"theme" env:"GRAPHLAB_THEME"`
	GPU   bool   `yaml:"gpu" env:"GRAPHLAB_GPU"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"GRAPHLAB_LOG_LEVEL"`
}

func DefaultConfig() *Config {
	g := graph.DefaultConfig()
	h := hashgrid.DefaultConfig()
	return &Config{
		Graph: GraphConfig{
			Resolution:         g.Resolution,
			Function:           string(g.Function),
			Mode:               string(g.Mode),
			FunctionDuration:   g.FunctionDuration,
			TransitionDuration: g.TransitionDuration,
			Dt:                 DefaultDt,
			Frames:             DefaultFrames,
		},
		Hash: HashConfig{
			Resolution:     h.Resolution,
			Seed:           h.Seed,
			VerticalOffset: h.VerticalOffset,
		},
		FPS: FPSConfig{
			Mode:           string(fps.ModeFPS),
			SampleDuration: fps.DefaultSampleDuration,
		},
		Live: LiveConfig{Theme: DefaultTheme},
		Log:  LogConfig{Level: logging.DefaultLevel},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the file at path onto cfg. Keys missing from the file keep
// their current value.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays GRAPHLAB_* environment variables. Unset variables leave
// the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// GraphConfig converts the graph section into a sampler configuration.
func (c *Config) GraphConfig() (graph.Config, error) {
	name, err := surface.ParseName(c.Graph.Function)
	if err != nil {
		return graph.Config{}, err
	}
	mode, err := graph.ParseMode(c.Graph.Mode)
	if err != nil {
		return graph.Config{}, err
	}
	cfg := graph.Config{
		Resolution:         c.Graph.Resolution,
		Function:           name,
		Mode:               mode,
		FunctionDuration:   c.Graph.FunctionDuration,
		TransitionDuration: c.Graph.TransitionDuration,
		Seed:               c.Graph.Seed,
	}
	return cfg, cfg.Validate()
}

func (c *Config) HashConfig() (hashgrid.Config, error) {
	cfg := hashgrid.Config{
		Resolution:     c.Hash.Resolution,
		Seed:           c.Hash.Seed,
		VerticalOffset: c.Hash.VerticalOffset,
	}
	return cfg, cfg.Validate()
}

func (c *Config) Counter() (*fps.Counter, error) {
	mode, err := fps.ParseMode(c.FPS.Mode)
	if err != nil {
		return nil, err
	}
	return fps.NewCounter(mode, c.FPS.SampleDuration)
}

// Validate checks every section and reports all problems together.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.GraphConfig(); err != nil {
		errs = append(errs, fmt.Errorf("graph: %w", err))
	}
	if c.Graph.Dt <= 0 {
		errs = append(errs, fmt.Errorf("graph: dt must be positive, got %v", c.Graph.Dt))
	}
	if c.Graph.Frames <= 0 {
		errs = append(errs, fmt.Errorf("graph: frames must be positive, got %d", c.Graph.Frames))
	}
	if _, err := c.HashConfig(); err != nil {
		errs = append(errs, fmt.Errorf("hash: %w", err))
	}
	if _, err := c.Counter(); err != nil {
		errs = append(errs, fmt.Errorf("fps: %w", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}
