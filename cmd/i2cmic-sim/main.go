//go:build !rp2040 && !rp2350

// Command i2cmic-sim runs the sampler against a simulated ADS1115 and
// writes the framed stream to stdout or a file.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"i2cmic-go/bus"
	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/platform"
	"i2cmic-go/services/config"
	"i2cmic-go/services/heartbeat"
	"i2cmic-go/services/micstream"
)

var (
	board    = flag.String("board", "sim", "Embedded board configuration")
	out      = flag.String("out", "-", "Output file, - for stdout")
	rate     = flag.Uint("rate", 0, "Requested sample rate (0 keeps the board value)")
	size     = flag.Int("size", 0, "Buffer size in samples (0 keeps the board value)")
	wave     = flag.String("wave", "sine", "Waveform: sine or ramp")
	tone     = flag.Float64("tone", 50, "Sine frequency in Hz")
	failN    = flag.Uint64("fail-every", 0, "Fail every nth bus transaction")
	duration = flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
)

func main() {
	flag.Parse()
	log.SetPrefix("i2cmic-sim: ")
	log.SetFlags(log.Ltime)

	cfg, err := config.Load(*board)
	if err != nil {
		log.Fatal(err)
	}
	if *rate != 0 {
		cfg.Mic.SampleRate = uint32(*rate)
	}
	if *size != 0 {
		cfg.Mic.BufferSize = *size
	}

	var w platform.Waveform
	switch *wave {
	case "sine":
		w = platform.Sine(16384, 8000, *tone)
	case "ramp":
		w = platform.Ramp()
	default:
		log.Fatalf("unknown waveform %q", *wave)
	}
	sim := platform.NewSimBus(cfg.Mic.Addr, w)
	sim.FailEvery(*failN)

	dst, closeOut, err := openOut(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer closeOut()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	ctx = context.WithValue(ctx, config.CtxDeviceKey, *board)

	b := bus.NewBus(8)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	hb := &heartbeat.Service{Print: func(line string) { log.Print(line) }}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	drv := i2cmic.New()
	if err := drv.Init(cfg.Mic.DriverConfig(sim, nil)); err != nil {
		log.Fatal(err)
	}
	r := drv.Rate()
	log.Printf("rate %d -> %d SPS (%s), tick %v, block %d", r.Requested, r.SPS, r.Code, r.Interval, drv.Capacity())

	svc := micstream.New(drv, dst, micstream.Options{
		Configure:  cfg.Mic.Configure,
		QueueBytes: cfg.Stream.Queue,
	})
	if err := svc.Start(ctx, b.NewConnection("micstream")); err != nil {
		log.Fatal(err)
	}
	<-svc.Done()

	st := svc.Stats()
	reads, writes, fails := sim.Counters()
	log.Printf("done: %d frames, %d samples, %d bus errors, %d dropped; sim reads=%d writes=%d injected=%d",
		st.Frames, st.Sampler.Samples, st.Sampler.BusErrors, st.Sampler.Dropped+st.QueueDrops+st.NotifyDrops,
		reads, writes, fails)
}

func openOut(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Print(err)
		}
	}, nil
}
