package bench

import (
	"fmt"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

const (
	VariantGlobal  = "global"
	VariantMap     = "map"
	VariantFair    = "fair"
	VariantRWMutex = "rwmutex"

	GateNative = "native"
	GateChan   = "chan"
)

// Variants lists every lock Run knows how to build.
var Variants = []string{VariantGlobal, VariantMap, VariantFair, VariantRWMutex}

// Config describes one benchmark run.
type Config struct {
	Variant      string `yaml:"variant"`
	Gate         string `yaml:"gate"`
	Scenario     string `yaml:"scenario"`
	Goroutines   int    `yaml:"goroutines"`
	Iterations   int    `yaml:"iterations"`
	UpgradeEvery int    `yaml:"upgrade_every"`
}

// LoadConfig reads a YAML config. An empty file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Validate fills in defaults and rejects unknown values.
func (c *Config) Validate() error {
	if c.Variant == "" {
		c.Variant = VariantMap
	}
	if c.Gate == "" {
		c.Gate = GateNative
	}
	if c.Scenario == "" {
		c.Scenario = ScenarioFuzz
	}
	if c.Goroutines == 0 {
		c.Goroutines = 20
	}
	if c.Iterations == 0 {
		c.Iterations = 1000
	}
	if c.UpgradeEvery == 0 {
		c.UpgradeEvery = 20
	}

	if !slices.Contains(Variants, c.Variant) {
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	if c.Gate != GateNative && c.Gate != GateChan {
		return fmt.Errorf("unknown gate %q", c.Gate)
	}
	s, ok := scenarios[c.Scenario]
	if !ok {
		return fmt.Errorf("unknown scenario %q", c.Scenario)
	}
	if s.reentrant && c.Variant == VariantRWMutex {
		return fmt.Errorf("scenario %q needs a reentrant lock, %q is not", c.Scenario, c.Variant)
	}
	if c.Goroutines < 0 || c.Iterations < 0 || c.UpgradeEvery < 0 {
		return fmt.Errorf("goroutines, iterations and upgrade_every must not be negative")
	}
	return nil
}
