//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"i2cmic-go/bus"
	"i2cmic-go/drivers/ads1115"
	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/platform"
	"i2cmic-go/services/config"
	"i2cmic-go/services/heartbeat"
	"i2cmic-go/services/micstream"
	"i2cmic-go/x/conv"
)

const board = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot", board)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, board)
	b := bus.NewBus(4)

	cfg, err := config.Load(board)
	if err != nil {
		halt("config", err)
	}
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	_ = (&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat"))

	hw, err := platform.I2C(cfg.Mic.Bus)
	if err != nil {
		halt("i2c", err)
	}
	drv := i2cmic.New()
	if err := drv.Init(cfg.Mic.DriverConfig(hw, platform.I2CSetup(hw))); err != nil {
		halt("sampler init", err)
	}
	rate := drv.Rate()
	word, _ := ads1115.SamplingSettings(rate.Code).Word()
	println("Info: ads1115 rate", rate.Requested, "->", rate.SPS, "SPS, tick", uint32(rate.Interval/time.Microsecond), "us, config",
		string(conv.AppendHex16(nil, word)))

	uart, err := platform.UART(cfg.Stream.UART, cfg.Stream.Baud, cfg.Stream.TX, cfg.Stream.RX)
	if err != nil {
		halt("uart", err)
	}

	svc := micstream.New(drv, uart, micstream.Options{
		Configure:  cfg.Mic.Configure,
		QueueBytes: cfg.Stream.Queue,
	})
	if err := svc.Start(ctx, b.NewConnection("micstream")); err != nil {
		halt("micstream", err)
	}
	<-svc.Done()
}

// halt reports err forever; there is nothing to fall back to.
func halt(what string, err error) {
	for {
		println("Error:", what+":", err.Error())
		time.Sleep(2 * time.Second)
	}
}
