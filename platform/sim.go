//go:build !rp2040 && !rp2350

package platform

import (
	"errors"
	"math"
	"sync"

	"i2cmic-go/drivers/ads1115"
)

const (
	simRegConversion = 0x00
	simRegConfig     = 0x01
	simPowerOn       = 0x8583
)

var (
	ErrNoDevice    = errors.New("platform: no device at address")
	ErrBadTx       = errors.New("platform: unsupported transaction")
	ErrInjectedNAK = errors.New("platform: injected NAK")
)

// Waveform returns the raw conversion value for sample index i at sps.
type Waveform func(i uint64, sps uint32) uint16

// Sine is a tone of hz around mid with the given peak amplitude.
func Sine(mid, amplitude uint16, hz float64) Waveform {
	return func(i uint64, sps uint32) uint16 {
		if sps == 0 {
			return mid
		}
		v := float64(mid) + float64(amplitude)*math.Sin(2*math.Pi*hz*float64(i)/float64(sps))
		return uint16(math.Round(math.Max(0, math.Min(65535, v))))
	}
}

// Ramp counts up by one per conversion.
func Ramp() Waveform {
	return func(i uint64, _ uint32) uint16 { return uint16(i) }
}

// SimBus is a drivers.I2C with one simulated ADS1115 on it. It is safe
// for concurrent use.
type SimBus struct {
	mu        sync.Mutex
	addr      uint16
	config    uint16
	wave      Waveform
	n         uint64
	failEvery uint64
	txs       uint64

	Reads, Writes, Failures uint64
}

// NewSimBus places a converter at addr (0 selects 0x48) producing wave
// (nil selects Ramp).
func NewSimBus(addr uint16, wave Waveform) *SimBus {
	if addr == 0 {
		addr = ads1115.AddressDefault
	}
	if wave == nil {
		wave = Ramp()
	}
	return &SimBus{addr: addr, config: simPowerOn, wave: wave}
}

// FailEvery makes every nth transaction fail; zero disables.
func (b *SimBus) FailEvery(n uint64) {
	b.mu.Lock()
	b.failEvery = n
	b.mu.Unlock()
}

// Config returns the current config register.
func (b *SimBus) Config() uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.config
}

// Counters returns reads, writes and injected failures.
func (b *SimBus) Counters() (reads, writes, failures uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Reads, b.Writes, b.Failures
}

func (b *SimBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if addr != b.addr {
		return ErrNoDevice
	}
	b.txs++
	if b.failEvery > 0 && b.txs%b.failEvery == 0 {
		b.Failures++
		return ErrInjectedNAK
	}

	switch {
	case len(w) == 1 && len(r) == 2:
		var v uint16
		switch w[0] {
		case simRegConversion:
			v = b.wave(b.n, ads1115.DecodeConfig(b.config).Rate.SPS())
			b.n++
		case simRegConfig:
			v = b.config
		default:
			return ErrBadTx
		}
		r[0], r[1] = byte(v>>8), byte(v)
		b.Reads++
		return nil

	case len(w) == 3 && len(r) == 0 && w[0] == simRegConfig:
		b.config = uint16(w[1])<<8 | uint16(w[2])
		b.Writes++
		return nil
	}
	return ErrBadTx
}
