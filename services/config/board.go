package config

import (
	"bytes"
	"encoding/json"

	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/errcode"

	"tinygo.org/x/drivers"
)

// Mic is supplied on "config/mic".
type Mic struct {
	Bus        string `json:"bus"`  // e.g. "i2c0"
	Addr       uint16 `json:"addr"` // 7-bit; 0 selects 0x48
	SDA        uint8  `json:"sda"`
	SCL        uint8  `json:"scl"`
	SampleRate uint32 `json:"sample_rate"`
	BufferSize int    `json:"buffer_size"`
	Hz         uint32 `json:"hz"`
	Spares     int    `json:"spares,omitempty"`
	// Configure writes the sampling configuration before the first Start.
	Configure bool `json:"configure"`
}

// Stream is supplied on "config/stream".
type Stream struct {
	UART  string `json:"uart"` // e.g. "uart0"
	Baud  uint32 `json:"baud"`
	TX    uint8  `json:"tx"`
	RX    uint8  `json:"rx"`
	Queue int    `json:"queue,omitempty"` // transmit queue bytes
}

// Heartbeat is supplied on "config/heartbeat".
type Heartbeat struct {
	Interval int `json:"interval"` // seconds
}

// Board is the full configuration for one board id.
type Board struct {
	Mic       Mic       `json:"mic"`
	Stream    Stream    `json:"stream"`
	Heartbeat Heartbeat `json:"heartbeat"`
}

// Parse decodes raw into a Board. Unknown fields are rejected.
func Parse(raw []byte) (Board, error) {
	var b Board
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return Board{}, errcode.Wrap(errcode.InvalidParams, "config.parse", err)
	}
	return b, nil
}

// Load resolves the embedded configuration for board.
func Load(board string) (Board, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Board{}, errcode.New(errcode.UnknownBoard, "config.load", "no embedded config for "+board)
	}
	return Parse(raw)
}

// DriverConfig maps the mic section onto a sampler configuration for bus.
// Zero fields keep the driver defaults.
func (m Mic) DriverConfig(bus drivers.I2C, setup i2cmic.BusSetup) i2cmic.Config {
	return i2cmic.Config{
		Bus:        bus,
		Address:    m.Addr,
		SDA:        m.SDA,
		SCL:        m.SCL,
		SampleRate: m.SampleRate,
		BufferSize: m.BufferSize,
		BusHz:      m.Hz,
		Setup:      setup,
		Spares:     m.Spares,
	}
}
