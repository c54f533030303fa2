package config

import (
	"context"
	"errors"

	"i2cmic-go/bus"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key carrying the board id
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// TopicMic, TopicStream and TopicHeartbeat carry the retained sections.
var (
	TopicMic       = bus.T(configPrefix, "mic")
	TopicStream    = bus.T(configPrefix, "stream")
	TopicHeartbeat = bus.T(configPrefix, "heartbeat")
)

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig loads the board named in ctx and publishes each section as
// a retained, typed message.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}
	b, err := Load(device)
	if err != nil {
		return err
	}
	conn.Publish(conn.NewMessage(TopicMic, b.Mic, true))
	conn.Publish(conn.NewMessage(TopicStream, b.Stream, true))
	conn.Publish(conn.NewMessage(TopicHeartbeat, b.Heartbeat, true))
	return nil
}

// Start publishes the configuration in the background.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("Error: config:", err.Error())
		}
	}()
}
