package config

import (
	"context"
	"testing"
	"time"

	"i2cmic-go/bus"
	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/errcode"

	"tinygo.org/x/drivers/tester"
)

func TestLoadEmbeddedBoards(t *testing.T) {
	b, err := Load("pico")
	if err != nil {
		t.Fatal(err)
	}
	if b.Mic.Addr != 0x48 || b.Mic.SDA != 4 || b.Mic.SCL != 5 || b.Mic.SampleRate != 860 || b.Mic.BufferSize != 64 || !b.Mic.Configure {
		t.Fatalf("mic = %+v", b.Mic)
	}
	if b.Stream.UART != "uart0" || b.Stream.Baud != 115200 || b.Heartbeat.Interval != 5 {
		t.Fatalf("stream = %+v heartbeat = %+v", b.Stream, b.Heartbeat)
	}

	sim, err := Load("sim")
	if err != nil {
		t.Fatal(err)
	}
	if sim.Mic.Bus != "sim" || sim.Stream.UART != "" {
		t.Fatalf("sim = %+v", sim)
	}
}

func TestLoadUnknownBoard(t *testing.T) {
	if _, err := Load("nope"); errcode.Of(err) != errcode.UnknownBoard {
		t.Fatalf("err = %v", err)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, raw := range []string{
		`{"mic": {"sample_rte": 100}}`,
		`{"mic": {"buffer_size": "big"}}`,
		`[1, 2]`,
	} {
		if _, err := Parse([]byte(raw)); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%s: err = %v", raw, err)
		}
	}
}

func TestDriverConfigKeepsDefaults(t *testing.T) {
	b, err := Parse([]byte(`{"mic": {"buffer_size": 8}}`))
	if err != nil {
		t.Fatal(err)
	}
	bus := tester.NewI2CBus(t)
	cfg := b.Mic.DriverConfig(bus, nil)
	if cfg.Bus != bus || cfg.BufferSize != 8 || cfg.Address != 0 || cfg.SampleRate != 0 || cfg.BusHz != 0 {
		t.Fatalf("cfg = %+v", cfg)
	}

	d := i2cmic.New()
	if err := d.Init(cfg); err != nil {
		t.Fatal(err)
	}
	if d.Rate().SPS != 128 || d.Capacity() != 8 {
		t.Fatalf("rate=%+v capacity=%d", d.Rate(), d.Capacity())
	}
}

func TestConfig_PublishEmbedded_Retained(t *testing.T) {
	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "bench" {
			return nil, false
		}
		return []byte(`{"mic": {"sample_rate": 250, "buffer_size": 32}, "heartbeat": {"interval": 1}}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = old })

	b := bus.NewBus(8)
	conn := b.NewConnection("test-config")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "bench")
	NewConfigService().Start(ctx, conn)

	sub := conn.Subscribe(bus.T(configPrefix, "#"))
	got := map[string]any{}
	deadline := time.After(time.Second)
	for len(got) < 3 {
		select {
		case m := <-sub.Channel():
			got[m.Topic.String()] = m.Payload
		case <-deadline:
			t.Fatalf("got %d sections: %v", len(got), got)
		}
	}
	if m, ok := got["config/mic"].(Mic); !ok || m.SampleRate != 250 || m.BufferSize != 32 {
		t.Fatalf("mic payload = %#v", got["config/mic"])
	}
	if h, ok := got["config/heartbeat"].(Heartbeat); !ok || h.Interval != 1 {
		t.Fatalf("heartbeat payload = %#v", got["config/heartbeat"])
	}
	if _, ok := got["config/stream"].(Stream); !ok {
		t.Fatalf("stream payload = %#v", got["config/stream"])
	}
}

func TestConfig_PublishConfig_Errors(t *testing.T) {
	conn := bus.NewBus(4).NewConnection("test")
	svc := NewConfigService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID")
	}
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); errcode.Of(err) != errcode.UnknownBoard {
		t.Fatalf("err = %v", err)
	}
}
