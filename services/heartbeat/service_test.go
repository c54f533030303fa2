package heartbeat

import (
	"context"
	"strings"
	"testing"
	"time"

	"i2cmic-go/bus"
	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/services/config"
	"i2cmic-go/services/micstream"
)

func TestHeartbeatReportsLatestStats(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	conn.Publish(conn.NewMessage(config.TopicHeartbeat, config.Heartbeat{Interval: 1}, true))
	conn.Publish(conn.NewMessage(micstream.TopicStats, micstream.Stats{
		State:      "running",
		Rate:       860,
		Sampler:    i2cmic.Stats{Samples: 640, BusErrors: 2, Dropped: 1},
		Frames:     10,
		QueueDrops: 3,
	}, true))

	lines := make(chan string, 4)
	svc := &Service{Print: func(l string) {
		select {
		case lines <- l:
		default:
		}
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatal(err)
	}

	select {
	case l := <-lines:
		for _, want := range []string{"heartbeat", "state=running", "sps=860", "samples=640", "frames=10", "bus_err=2", "dropped=4"} {
			if !strings.Contains(l, want) {
				t.Fatalf("line %q lacks %q", l, want)
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no heartbeat")
	}
}

func TestHeartbeatWithoutStats(t *testing.T) {
	var got string
	(&Service{Print: func(l string) { got = l }}).emit(time.Date(2024, 1, 1, 12, 30, 5, 0, time.UTC), micstream.Stats{}, false)
	if got != "12:30:05 heartbeat" {
		t.Fatalf("line = %q", got)
	}
}
