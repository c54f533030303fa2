// Package micstream runs the sampler and streams each completed buffer
// cycle as a frame onto a byte transport.
package micstream

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"i2cmic-go/bus"
	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/errcode"
	"i2cmic-go/stream"
	"i2cmic-go/x/mathx"
	"i2cmic-go/x/shmring"
)

var (
	TopicState = bus.T("mic", "state")
	TopicStats = bus.T("mic", "stats")
	// TopicCtl takes requests on mic/ctl/<cmd>: "configure" or "stats".
	TopicCtl = bus.T("mic", "ctl", "+")
)

const (
	DefaultQueueBytes = 4096
	DefaultStatsEvery = time.Second
)

var errQueueFull = errors.New("micstream: transmit queue full")

type Options struct {
	// Configure writes the sampling configuration before starting.
	Configure bool
	// QueueBytes sizes the transmit queue; rounded up to a power of two
	// that holds at least one full frame.
	QueueBytes int
	// StatsEvery is the retained statistics period.
	StatsEvery time.Duration
}

// Stats is published retained on TopicStats.
type Stats struct {
	State       string
	Rate        uint32
	Sampler     i2cmic.Stats
	Frames      uint32 // frames queued for transmit
	QueueDrops  uint32 // frames dropped, queue full
	NotifyDrops uint32 // cycles lost on the ready-handler path
	WriteErrors uint32
}

type Service struct {
	drv  *i2cmic.Driver
	out  io.Writer
	opts Options
	q    *shmring.Ring

	frames      atomic.Uint32
	queueDrops  atomic.Uint32
	notifyDrops atomic.Uint32
	writeErrors atomic.Uint32

	started atomic.Bool
	done    chan struct{}
}

// New binds a service to an initialised driver and an output transport.
func New(drv *i2cmic.Driver, out io.Writer, opts Options) *Service {
	if opts.QueueBytes <= 0 {
		opts.QueueBytes = DefaultQueueBytes
	}
	if opts.StatsEvery <= 0 {
		opts.StatsEvery = DefaultStatsEvery
	}
	return &Service{drv: drv, out: out, opts: opts, done: make(chan struct{})}
}

// Start configures the device if asked, starts the sampler and launches
// the framing loop and transmit pump. Errors leave nothing running and
// Start may be retried. When ctx is cancelled the sampler is stopped, the
// queue is flushed and Done is closed. A Service runs once; a second Start
// after a successful one fails with errcode.Busy.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if !s.started.CompareAndSwap(false, true) {
		return errcode.New(errcode.Busy, "micstream.start", "already started")
	}
	if err := s.start(ctx, conn); err != nil {
		s.started.Store(false)
		return err
	}
	return nil
}

func (s *Service) start(ctx context.Context, conn *bus.Connection) error {
	frameMax := stream.Len(s.drv.Capacity())
	if s.drv.Capacity() == 0 {
		return errcode.New(errcode.NotReady, "micstream.start", "sampler not initialised")
	}
	if frameMax > stream.Len(stream.MaxSamples) {
		return errcode.New(errcode.InvalidParams, "micstream.start", "buffer exceeds frame limit")
	}
	s.q = shmring.New(shmring.CeilPow2(mathx.Max(s.opts.QueueBytes, frameMax)))

	if s.opts.Configure {
		if err := s.drv.ConfigureDevice(); err != nil {
			return err
		}
	}
	blocks := s.source()
	if err := s.drv.Start(); err != nil {
		s.drv.SetReadyHandler(nil)
		return err
	}
	s.publishState(conn)
	println("Info: micstream running at", s.drv.Rate().SPS, "SPS, block", s.drv.Capacity())

	ctl := conn.Subscribe(TopicCtl)
	loopDone := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer conn.Unsubscribe(ctl)
		s.serviceLoop(ctx, conn, ctl, blocks, loopDone)
	}()
	go func() {
		defer wg.Done()
		s.pump(loopDone)
	}()
	go func() {
		wg.Wait()
		close(s.done)
	}()
	return nil
}

// Done is closed once the service has fully stopped.
func (s *Service) Done() <-chan struct{} { return s.done }

// source returns the block queue. With the handoff disabled it falls back
// to copying each cycle out with Read from the ready handler.
func (s *Service) source() <-chan *i2cmic.Block {
	if ch := s.drv.Blocks(); ch != nil {
		return ch
	}
	n := s.drv.Capacity()
	ch := make(chan *i2cmic.Block, 1)
	var seq uint32
	s.drv.SetReadyHandler(func() {
		seq++
		b := &i2cmic.Block{Seq: seq, Samples: make([]uint16, n)}
		if err := s.drv.Read(b.Samples); err != nil {
			s.notifyDrops.Add(1)
			return
		}
		select {
		case ch <- b:
		default:
			s.notifyDrops.Add(1)
		}
	})
	return ch
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, ctl *bus.Subscription, blocks <-chan *i2cmic.Block, loopDone chan<- struct{}) {
	defer close(loopDone)

	tick := time.NewTicker(s.opts.StatsEvery)
	defer tick.Stop()

	w := stream.NewWriter(queueWriter{s.q})
	var f stream.Frame
	var lastSeq, lastLoss uint32

	for {
		select {
		case <-ctx.Done():
			s.drv.Stop()
			s.drv.SetReadyHandler(nil)
			s.publishState(conn)
			s.publishStats(conn)
			println("Info: micstream stopped")
			return

		case b := <-blocks:
			loss := s.lossCount()
			f.Flags = 0
			if (lastSeq != 0 && b.Seq != lastSeq+1) || loss != lastLoss {
				f.Flags |= stream.FlagGap
			}
			f.Seq = b.Seq
			f.Rate = uint16(s.drv.Rate().SPS)
			f.Samples = b.Samples
			err := w.WriteFrame(f)
			b.Release()
			lastSeq, lastLoss = b.Seq, loss
			if err != nil {
				s.queueDrops.Add(1)
				continue
			}
			s.frames.Add(1)

		case <-tick.C:
			s.publishStats(conn)

		case m, ok := <-ctl.Channel():
			if ok {
				s.handleCtl(conn, m)
			}
		}
	}
}

func (s *Service) handleCtl(conn *bus.Connection, m *bus.Message) {
	cmd := ""
	if len(m.Topic) > 0 {
		cmd = m.Topic[len(m.Topic)-1]
	}
	switch cmd {
	case "configure":
		err := s.drv.ConfigureDevice()
		if err != nil {
			println("Error: micstream configure:", err.Error())
		}
		conn.Reply(m, errcode.Of(err), false)
	case "stats":
		conn.Reply(m, s.Stats(), false)
	default:
		conn.Reply(m, errcode.InvalidParams, false)
	}
}

// pump drains the transmit queue into the output until the service loop
// has exited and the queue is empty.
func (s *Service) pump(loopDone <-chan struct{}) {
	for {
		s.drain()
		select {
		case <-s.q.Readable():
		case <-loopDone:
			s.drain()
			return
		}
	}
}

func (s *Service) drain() {
	for {
		p1, p2 := s.q.ReadAcquire()
		if len(p1) == 0 {
			return
		}
		if s.write(p1) && len(p2) > 0 {
			s.write(p2)
		}
		// Bytes are released even on error; the reader resynchronises.
		s.q.ReadRelease(len(p1) + len(p2))
	}
}

func (s *Service) write(p []byte) bool {
	if _, err := s.out.Write(p); err != nil {
		s.writeErrors.Add(1)
		println("Error: micstream write:", err.Error())
		return false
	}
	return true
}

func (s *Service) lossCount() uint32 {
	st := s.drv.Stats()
	return st.BusErrors + st.Dropped + s.notifyDrops.Load()
}

// Stats returns a snapshot of sampler and transmit counters.
func (s *Service) Stats() Stats {
	return Stats{
		State:       s.drv.State().String(),
		Rate:        s.drv.Rate().SPS,
		Sampler:     s.drv.Stats(),
		Frames:      s.frames.Load(),
		QueueDrops:  s.queueDrops.Load(),
		NotifyDrops: s.notifyDrops.Load(),
		WriteErrors: s.writeErrors.Load(),
	}
}

func (s *Service) publishState(conn *bus.Connection) {
	conn.Publish(conn.NewMessage(TopicState, s.drv.State().String(), true))
}

func (s *Service) publishStats(conn *bus.Connection) {
	conn.Publish(conn.NewMessage(TopicStats, s.Stats(), true))
}

// queueWriter accepts whole frames only.
type queueWriter struct{ q *shmring.Ring }

func (w queueWriter) Write(p []byte) (int, error) {
	if !w.q.TryWriteAll(p) {
		return 0, errQueueFull
	}
	return len(p), nil
}
