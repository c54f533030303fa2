package i2cmic

import (
	"i2cmic-go/drivers/ads1115"
	"i2cmic-go/errcode"

	"tinygo.org/x/drivers"
)

const (
	// DefaultBusHz is the I²C clock used when Config.BusHz is zero.
	DefaultBusHz = 100_000
	// DefaultSpares is the number of handoff blocks when Config.Spares is zero.
	DefaultSpares = 2
	// MaxBufferSize bounds the per-instance allocation (64 KiB of samples).
	MaxBufferSize = 1 << 15
)

// BusSetup prepares the bus pins and clock (function select, pull-ups).
// It runs once per Init.
type BusSetup func(sda, scl uint8, hz uint32) error

// Config describes one sampler instance. Zero values select defaults except
// Bus and BufferSize, which are required.
type Config struct {
	// Bus carries the conversion reads and configuration writes.
	Bus drivers.I2C
	// Address defaults to 0x48 if zero.
	Address uint16
	// SDA and SCL identify the data and clock pins handed to Setup.
	SDA, SCL uint8
	// SampleRate is the requested rate in samples per second. Zero selects
	// 128 SPS; requests above 860 are clamped.
	SampleRate uint32
	// BufferSize is the Sample Buffer capacity in samples.
	BufferSize int

	// BusHz defaults to 100 kHz.
	BusHz uint32
	// Setup is optional; nil leaves the bus as found.
	Setup BusSetup
	// Ticks drives the tick handler. Nil selects NewTicker().
	Ticks TickSource
	// Spares is the number of blocks available for handoff on each wrap.
	// Zero selects DefaultSpares; negative disables the handoff.
	Spares int
}

func (c Config) withDefaults() Config {
	if c.Address == 0 {
		c.Address = ads1115.AddressDefault
	}
	if c.BusHz == 0 {
		c.BusHz = DefaultBusHz
	}
	if c.Spares == 0 {
		c.Spares = DefaultSpares
	}
	if c.Spares < 0 {
		c.Spares = 0
	}
	return c
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.Bus == nil {
		return errcode.New(errcode.InvalidParams, "i2cmic.init", "bus is required")
	}
	if c.BufferSize < 1 {
		return errcode.New(errcode.InvalidParams, "i2cmic.init", "buffer size must be at least 1")
	}
	if c.BufferSize > MaxBufferSize {
		return errcode.New(errcode.NoMemory, "i2cmic.init", "buffer size exceeds MaxBufferSize")
	}
	return nil
}
