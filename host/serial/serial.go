// Package serial opens host serial ports for the capture tool.
package serial

import (
	"io"
	"time"

	"github.com/tarm/serial"

	"i2cmic-go/errcode"
)

// Port is an open serial device.
type Port interface {
	io.ReadWriteCloser
	Flush() error
}

type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string
	// Baud must match the board's stream UART; USB CDC ignores it.
	Baud int
	// ReadTimeout of zero blocks until data arrives.
	ReadTimeout time.Duration
}

// DefaultConfig matches the embedded pico stream settings.
func DefaultConfig(device string) *Config {
	return &Config{Device: device, Baud: 115200}
}

type nativePort struct {
	*serial.Port
}

// Open opens cfg.Device.
func Open(cfg *Config) (Port, error) {
	if cfg == nil || cfg.Device == "" {
		return nil, errcode.New(errcode.InvalidParams, "serial.open", "device required")
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.BusError, "serial.open", err)
	}
	return nativePort{p}, nil
}
