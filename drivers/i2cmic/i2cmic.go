// Package i2cmic samples an ADS1115 over I²C on a periodic tick, keeps the
// readings in a circular Sample Buffer and hands completed cycles to a
// consumer.
//
// Lifecycle:
//
//	d := i2cmic.New()
//	err := d.Init(cfg)           // Idle/Ready/Stopped -> Ready
//	d.SetReadyHandler(onReady)   // optional, runs in the tick context
//	err = d.Start()              // -> Running
//	...
//	d.Stop()                     // -> Stopped, synchronous
//
// Each tick performs one conversion read. A failed read drops that tick's
// sample and sampling continues. When the cursor wraps, the completed cycle
// is copied into a spare Block (see Blocks) and the ready handler is called
// from the tick goroutine after the buffer lock is released, so it may call
// Read. It must not call Stop.
package i2cmic

import (
	"strconv"
	"sync"
	"sync/atomic"

	"i2cmic-go/drivers/ads1115"
	"i2cmic-go/errcode"
)

// State of the sampler.
type State uint8

const (
	Idle    State = iota // no buffer allocated
	Ready                // buffer allocated, tick inactive
	Running              // tick active
	Stopped              // tick cancelled, buffer retained
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Stats are counters since the last Init.
type Stats struct {
	Ticks     uint32 // tick handler invocations with a buffer present
	Samples   uint32 // samples stored
	BusErrors uint32 // ticks whose conversion read failed
	Cycles    uint32 // cursor wraps
	Dropped   uint32 // completed cycles not handed off (no free block)
}

// Driver is one sampler instance bound to one ADS1115.
type Driver struct {
	mu    sync.Mutex // serialises Init/Start/Stop
	ticks TickSource

	stMu  sync.RWMutex // guards state, rate and dev for readers
	state State
	rate  ads1115.Rate
	dev   *ads1115.Device

	busMu sync.Mutex // one transaction at a time on dev

	bufMu   sync.Mutex // guards ring, hand and onReady
	ring    *ring
	hand    *handoff
	onReady func()

	ticked    atomic.Uint32
	samples   atomic.Uint32
	busErrors atomic.Uint32
	cycles    atomic.Uint32
	dropped   atomic.Uint32
}

// New returns an Idle driver.
func New() *Driver { return &Driver{} }

// Init validates cfg, runs the bus setup hook and allocates a fresh Sample
// Buffer with the cursor at zero. Init while Running fails with
// errcode.Busy and leaves the driver untouched. Configuration and bus setup
// errors keep the previous state. A BufferSize above MaxBufferSize is
// reported as errcode.NoMemory.
func (d *Driver) Init(cfg Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() == Running {
		return errcode.New(errcode.Busy, "i2cmic.init", "stop sampling before re-initialising")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()

	if cfg.Setup != nil {
		if err := cfg.Setup(cfg.SDA, cfg.SCL, cfg.BusHz); err != nil {
			return errcode.Wrap(errcode.BusError, "i2cmic.init", err)
		}
	}

	// Drop the previous allocation before taking the new one.
	d.bufMu.Lock()
	d.ring, d.hand = nil, nil
	d.bufMu.Unlock()

	r := newRing(cfg.BufferSize)
	var h *handoff
	if cfg.Spares > 0 {
		h = newHandoff(cfg.Spares, cfg.BufferSize)
	}

	ticks := cfg.Ticks
	if ticks == nil {
		ticks = NewTicker()
	}

	d.ticks = ticks
	d.resetStats()

	d.bufMu.Lock()
	d.ring, d.hand = r, h
	d.bufMu.Unlock()

	d.stMu.Lock()
	d.rate = ads1115.Negotiate(cfg.SampleRate)
	d.dev = ads1115.New(cfg.Bus, cfg.Address)
	d.state = Ready
	d.stMu.Unlock()
	return nil
}

// Start arms the tick source at the negotiated interval. It is a no-op
// while Running. Starting an Idle driver fails with errcode.NotReady. If
// the tick source cannot be armed the error is returned and the state is
// unchanged.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stMu.RLock()
	st, dev, interval := d.state, d.dev, d.rate.Interval
	d.stMu.RUnlock()

	switch st {
	case Running:
		return nil
	case Idle:
		return errcode.New(errcode.NotReady, "i2cmic.start", "not initialised")
	}
	if err := d.ticks.Start(interval, func() { d.tick(dev) }); err != nil {
		return errcode.Wrap(errcode.TimerUnavailable, "i2cmic.start", err)
	}
	d.setState(Running)
	return nil
}

// Stop cancels the tick source. No tick runs after Stop returns. Stop is
// idempotent and must not be called from the ready handler.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() != Running {
		return
	}
	d.ticks.Stop()
	d.setState(Stopped)
}

// SetReadyHandler registers fn to run after each full buffer cycle, in the
// tick context. The last registration wins; nil unsets.
func (d *Driver) SetReadyHandler(fn func()) {
	d.bufMu.Lock()
	d.onReady = fn
	d.bufMu.Unlock()
}

// Read copies len(dst) samples oldest-first, starting at the cursor and
// wrapping through index 0.
func (d *Driver) Read(dst []uint16) error {
	d.bufMu.Lock()
	defer d.bufMu.Unlock()

	if d.ring == nil {
		return errcode.New(errcode.NotReady, "i2cmic.read", "no sample buffer")
	}
	if len(dst) > len(d.ring.samples) {
		return errcode.New(errcode.InvalidParams, "i2cmic.read",
			"len "+strconv.Itoa(len(dst))+" > capacity "+strconv.Itoa(len(d.ring.samples)))
	}
	d.ring.unrotate(dst)
	return nil
}

// Blocks returns the handoff queue for the current allocation, or nil if
// the handoff is disabled or the driver is Idle. Call it again after Init.
func (d *Driver) Blocks() <-chan *Block {
	d.bufMu.Lock()
	defer d.bufMu.Unlock()
	if d.hand == nil {
		return nil
	}
	return d.hand.ready
}

// ConfigureDevice writes the streaming configuration (AIN0 single-ended,
// ±4.096 V, continuous) at the negotiated data rate. It does not change the
// sampler state and may be called while Running.
func (d *Driver) ConfigureDevice() error {
	d.stMu.RLock()
	dev, rate, st := d.dev, d.rate, d.state
	d.stMu.RUnlock()

	if st == Idle || dev == nil {
		return errcode.New(errcode.NotReady, "i2cmic.configure", "not initialised")
	}
	d.busMu.Lock()
	defer d.busMu.Unlock()
	return dev.WriteConfig(ads1115.SamplingSettings(rate.Code))
}

// tick is the tick handler. It never blocks on the consumer.
func (d *Driver) tick(dev *ads1115.Device) {
	if dev == nil {
		return
	}
	d.bufMu.Lock()
	armed := d.ring != nil
	d.bufMu.Unlock()
	if !armed {
		return
	}
	d.ticked.Add(1)

	d.busMu.Lock()
	v, err := dev.ReadConversion()
	d.busMu.Unlock()
	if err != nil {
		d.busErrors.Add(1)
		return
	}

	d.bufMu.Lock()
	if d.ring == nil {
		d.bufMu.Unlock()
		return
	}
	wrapped := d.ring.put(v)
	var ready func()
	if wrapped {
		ready = d.onReady
		if d.hand != nil && !d.hand.offer(d.ring.samples) {
			d.dropped.Add(1)
		}
	}
	d.bufMu.Unlock()

	d.samples.Add(1)
	if wrapped {
		d.cycles.Add(1)
		if ready != nil {
			ready()
		}
	}
}

// State returns the current sampler state.
func (d *Driver) State() State {
	d.stMu.RLock()
	defer d.stMu.RUnlock()
	return d.state
}

func (d *Driver) setState(s State) {
	d.stMu.Lock()
	d.state = s
	d.stMu.Unlock()
}

// Rate returns the rate negotiated at Init.
func (d *Driver) Rate() ads1115.Rate {
	d.stMu.RLock()
	defer d.stMu.RUnlock()
	return d.rate
}

// Capacity returns the Sample Buffer size, or 0 when Idle.
func (d *Driver) Capacity() int {
	d.bufMu.Lock()
	defer d.bufMu.Unlock()
	if d.ring == nil {
		return 0
	}
	return len(d.ring.samples)
}

// Cursor returns the next write index.
func (d *Driver) Cursor() int {
	d.bufMu.Lock()
	defer d.bufMu.Unlock()
	if d.ring == nil {
		return 0
	}
	return d.ring.cursor
}

// Stats returns a snapshot of the counters.
func (d *Driver) Stats() Stats {
	return Stats{
		Ticks:     d.ticked.Load(),
		Samples:   d.samples.Load(),
		BusErrors: d.busErrors.Load(),
		Cycles:    d.cycles.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Driver) resetStats() {
	d.ticked.Store(0)
	d.samples.Store(0)
	d.busErrors.Store(0)
	d.cycles.Store(0)
	d.dropped.Store(0)
}
