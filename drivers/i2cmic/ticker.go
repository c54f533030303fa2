package i2cmic

import (
	"errors"
	"sync"
	"time"
)

// TickSource calls fn once per interval until Stop. Implementations must
// not return from Stop while fn is still running or may still be called.
type TickSource interface {
	Start(interval time.Duration, fn func()) error
	Stop()
}

// Errors returned by Ticker.
var (
	ErrTickerActive  = errors.New("i2cmic: tick source already active")
	ErrInvalidPeriod = errors.New("i2cmic: tick interval must be positive")
)

// Ticker is a TickSource backed by one goroutine and a time.Ticker. It runs
// unchanged on TinyGo targets.
type Ticker struct {
	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

// NewTicker returns an idle Ticker.
func NewTicker() *Ticker { return &Ticker{} }

func (t *Ticker) Start(interval time.Duration, fn func()) error {
	if interval <= 0 {
		return ErrInvalidPeriod
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quit != nil {
		return ErrTickerActive
	}
	t.quit = make(chan struct{})
	t.done = make(chan struct{})
	go t.loop(interval, fn, t.quit, t.done)
	return nil
}

func (t *Ticker) loop(interval time.Duration, fn func(), quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-quit:
			return
		case <-tk.C:
			// Stop may have raced the tick; it wins.
			select {
			case <-quit:
				return
			default:
			}
			fn()
		}
	}
}

// Stop cancels the tick and waits for the goroutine to exit. It must not
// be called from fn.
func (t *Ticker) Stop() {
	t.mu.Lock()
	quit, done := t.quit, t.done
	t.quit, t.done = nil, nil
	t.mu.Unlock()
	if quit == nil {
		return
	}
	close(quit)
	<-done
}
