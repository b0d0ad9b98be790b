package config

import (
	"github.com/ezrec/nbasync/periph"
)

// Normalize fills unset fields from the presets. Zero depth or timing, and
// absent fault lists, take the preset value; an empty fault list disables
// faults.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	normalize(&cfg.Uart, periph.UartConfig)
	normalize(&cfg.Spi, periph.SpiConfig)
}

func normalize(config *periph.Config, preset periph.Config) {
	if config.Name == "" {
		config.Name = preset.Name
	}
	if config.Depth == 0 {
		config.Depth = preset.Depth
	}
	if config.TicksPerByte == 0 {
		config.TicksPerByte = preset.TicksPerByte
	}
	if config.TxFaults == nil {
		config.TxFaults = preset.TxFaults
	}
	if config.RxFaults == nil {
		config.RxFaults = preset.RxFaults
	}
}
