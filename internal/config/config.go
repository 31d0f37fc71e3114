package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultDegree    = 2
	DefaultMaxIter   = 10
	DefaultOptimizer = "stlsq"
	DefaultMinThresh = 0.01
	DefaultMaxThresh = 1.0
	DefaultSteps     = 20
)

type Config struct {
	Model     string      `yaml:"model"`
	Optimizer string      `yaml:"optimizer"`
	MaxIter   int         `yaml:"max_iter"`
	Denoise   bool        `yaml:"denoise"`
	Normalize bool        `yaml:"normalize"`
	Dt        float64     `yaml:"dt"`
	Duration  float64     `yaml:"duration"`
	Basis     BasisConfig `yaml:"basis"`
	Sweep     SweepConfig `yaml:"sweep"`
}

type BasisConfig struct {
	Degree    int  `yaml:"degree"`
	Trig      bool `yaml:"trig"`
	Harmonics int  `yaml:"harmonics"`
}

type SweepConfig struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     "linear2d",
		Optimizer: DefaultOptimizer,
		MaxIter:   DefaultMaxIter,
		Normalize: true,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Basis: BasisConfig{
			Degree:    DefaultDegree,
			Harmonics: 1,
		},
		Sweep: SweepConfig{
			Min:   DefaultMinThresh,
			Max:   DefaultMaxThresh,
			Steps: DefaultSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.MaxIter < 1 {
		return fmt.Errorf("config: max_iter must be at least 1, got %d", c.MaxIter)
	}
	if c.Basis.Degree < 0 {
		return fmt.Errorf("config: basis degree must be non-negative, got %d", c.Basis.Degree)
	}
	if c.Sweep.Steps < 1 {
		return fmt.Errorf("config: sweep steps must be at least 1, got %d", c.Sweep.Steps)
	}
	if c.Sweep.Min <= 0 || c.Sweep.Max < c.Sweep.Min {
		return fmt.Errorf("config: sweep range [%g, %g] invalid", c.Sweep.Min, c.Sweep.Max)
	}
	return nil
}

// Thresholds expands the sweep range into an ascending sequence, linearly
// spaced over [Min, Max].
func (c *Config) Thresholds() []float64 {
	n := c.Sweep.Steps
	if n == 1 {
		return []float64{c.Sweep.Min}
	}
	out := make([]float64, n)
	step := (c.Sweep.Max - c.Sweep.Min) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = c.Sweep.Min + float64(i)*step
	}
	return out
}
