// Package config loads the peripheral and scheduler settings of a
// simulation from YAML.
package config

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/nbasync/periph"
)

// Config is the top level of a simulation file.
type Config struct {
	Uart     periph.Config  `yaml:"uart"`
	Spi      periph.Config  `yaml:"spi"`
	Executor ExecutorConfig `yaml:"executor"`
}

// ExecutorConfig bounds the scheduler.
type ExecutorConfig struct {
	MaxPolls int  `yaml:"max_polls"` // Per unit poll budget; zero is unbounded.
	Strict   bool `yaml:"strict"`    // Fail units that stall instead of waiting.
	Verbose  bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() (cfg *Config) {
	cfg = &Config{}
	Normalize(cfg)

	return
}

// Load reads, validates and normalizes a configuration file.
func Load(path string) (cfg *Config, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads, validates and normalizes a configuration.
func Parse(r io.Reader) (cfg *Config, err error) {
	cfg = &Config{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err = dec.Decode(cfg)
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		cfg = nil
		return
	}

	Normalize(cfg)

	err = Validate(cfg)
	if err != nil {
		cfg = nil
		return
	}

	return
}
