package config

import (
	"github.com/ezrec/nbasync/periph"
)

const (
	MinDepth = 1
	MaxDepth = 64
)

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) (err error) {
	for _, block := range []struct {
		name   string
		config *periph.Config
	}{
		{"uart", &cfg.Uart},
		{"spi", &cfg.Spi},
	} {
		if block.config.Depth < MinDepth || block.config.Depth > MaxDepth {
			err = &ErrField{Field: block.name + ".depth", Err: ErrDepth}
			return
		}
		if block.config.TicksPerByte < 1 {
			err = &ErrField{Field: block.name + ".ticks_per_byte", Err: ErrTicksPerByte}
			return
		}
	}

	if cfg.Executor.MaxPolls < 0 {
		err = &ErrField{Field: "executor.max_polls", Err: ErrMaxPolls}
		return
	}

	return
}
