package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/redheadmarine/huedaq/internal/signalk"
)

// MQTTConfig holds broker connection settings for the MQTT sink.
type MQTTConfig struct {
	Broker       string
	TopicPrefix  string
	Username     string
	Password     string
	RateLimitRPS float64
}

// MQTTSink publishes delta messages as JSON to <topic_prefix>/<source>.
// Publishes are rate-limited so a chatty device cannot flood the broker.
type MQTTSink struct {
	client      mqtt.Client
	topicPrefix string
	limiter     *rate.Limiter
}

// NewMQTTSink connects to the broker and returns a ready sink.
func NewMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(fmt.Sprintf("huedaq-%s", uuid.NewString()[:8]))
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10.0
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	log.Info().Str("broker", cfg.Broker).Msg("Connected to MQTT broker")

	return &MQTTSink{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// HandleMessage publishes one delta, blocking on the rate limiter.
func (s *MQTTSink) HandleMessage(source string, delta signalk.Delta) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return
	}

	payload, err := json.Marshal(delta)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal delta")
		return
	}

	topic := fmt.Sprintf("%s/%s", s.topicPrefix, source)
	token := s.client.Publish(topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("Failed to publish delta")
	}
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
