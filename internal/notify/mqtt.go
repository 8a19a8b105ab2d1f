package notify

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/aatumaykin/camkeeper/internal/config"
	"github.com/aatumaykin/camkeeper/internal/logger"
)

// MQTT publishes run reports as JSON to a broker topic, for home-automation
// consumers that trigger on camera storage events.
type MQTT struct {
	cfg    config.MQTTConfig
	log    *logger.Logger
	client mqtt.Client
}

// NewMQTT builds the MQTT channel and connects to the broker. Returns nil
// when the channel is disabled in config.
func NewMQTT(cfg config.MQTTConfig, log *logger.Logger) (*MQTT, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker("tcp://" + cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.ConnectTimeout()).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("cannot connect to mqtt broker %s: %w", cfg.Broker, token.Error())
	}

	log.Info("mqtt notifications enabled",
		logger.Field{Key: "broker", Value: cfg.Broker},
		logger.Field{Key: "topic", Value: cfg.Topic})

	return &MQTT{cfg: cfg, log: log, client: client}, nil
}

func (m *MQTT) Name() string { return "mqtt" }

// Notify publishes the event as JSON. Every run is published regardless of
// outcome; subscribers filter on the payload.
func (m *MQTT) Notify(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("cannot marshal report: %w", err)
	}

	token := m.client.Publish(m.cfg.Topic, byte(m.cfg.QoS), false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker, flushing in-flight messages.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
