package app

import (
	"context"

	"github.com/redheadmarine/huedaq/internal/config"
	"github.com/redheadmarine/huedaq/internal/hue"
	"github.com/redheadmarine/huedaq/internal/poller"
	"github.com/redheadmarine/huedaq/internal/publish"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Publisher boundary
	Sink *publish.Fanout
	MQTT *publish.MQTTSink

	// High-level services
	Poller *poller.Poller
	Health *HealthService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	fetcher := hue.NewFetcher(cfg.Device.Address, cfg.Device.Timeout.Duration())

	// Publisher boundary: always log deltas, add MQTT delivery when configured
	s.Sink = publish.NewFanout(publish.LogSink{})
	if cfg.MQTT.Enabled {
		mqttSink, err := publish.NewMQTTSink(publish.MQTTConfig{
			Broker:       cfg.MQTT.Broker,
			TopicPrefix:  cfg.MQTT.TopicPrefix,
			Username:     cfg.MQTT.Username,
			Password:     cfg.MQTT.Password,
			RateLimitRPS: cfg.MQTT.RateLimitRPS,
		})
		if err != nil {
			return nil, err
		}
		s.MQTT = mqttSink
		s.Sink.Add(mqttSink)
	}

	s.Poller = poller.New(fetcher, s.Sink, cfg.Publish.Source, cfg.Device.RefreshInterval.Duration())
	s.Health = NewHealthService(cfg, s.Poller)

	return s, nil
}

// Start starts all services in the correct order.
func (s *Services) Start(ctx context.Context) error {
	s.Poller.Start(ctx)
	s.Health.Start(ctx)
	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Poller != nil {
		s.Poller.Stop()
	}
	if s.MQTT != nil {
		s.MQTT.Close()
	}
}
