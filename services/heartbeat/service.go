// Package heartbeat prints a periodic liveness line carrying the latest
// sampler statistics.
package heartbeat

import (
	"context"
	"time"

	"i2cmic-go/bus"
	"i2cmic-go/services/config"
	"i2cmic-go/services/micstream"
	"i2cmic-go/x/conv"
)

const defaultInterval = 5 * time.Second

type Service struct {
	// Print receives each heartbeat line; nil prints to the console.
	Print func(line string)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(config.TopicHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	statsSub := conn.Subscribe(micstream.TopicStats)
	defer conn.Unsubscribe(statsSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	var last micstream.Stats
	have := false
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			s.emit(t, last, have)
		case msg := <-statsSub.Channel():
			if st, ok := msg.Payload.(micstream.Stats); ok {
				last, have = st, true
			}
		case msg := <-cfgSub.Channel():
			if hb, ok := msg.Payload.(config.Heartbeat); ok && hb.Interval > 0 {
				tick.Reset(time.Duration(hb.Interval) * time.Second)
				println("Info: heartbeat interval set to", hb.Interval, "seconds")
			}
		}
	}
}

func (s *Service) emit(t time.Time, st micstream.Stats, have bool) {
	line := t.Format("15:04:05") + " heartbeat"
	if have {
		line += " state=" + st.State +
			" sps=" + conv.Utoa(st.Rate) +
			" samples=" + conv.Utoa(st.Sampler.Samples) +
			" frames=" + conv.Utoa(st.Frames) +
			" bus_err=" + conv.Utoa(st.Sampler.BusErrors) +
			" dropped=" + conv.Utoa(st.Sampler.Dropped+st.QueueDrops+st.NotifyDrops)
	}
	if s.Print != nil {
		s.Print(line)
		return
	}
	println("Info:", line)
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
