// Package publish pushes decoded samples to an MQTT broker for consumers
// beside the dashboard. Publishing is best-effort: failures are reported to
// the caller and never stall ingest.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/danmuck/telemctl/internal/signal"
)

const connectTimeout = 5 * time.Second

// SamplePayload is the JSON shape published per sample.
type SamplePayload struct {
	Signal      string `json:"signal"`
	TimestampMS uint32 `json:"timestampMs"`
	Value       any    `json:"value"`
	Kind        string `json:"kind"`
}

type Config struct {
	Broker   string
	Topic    string
	ClientID string
}

// MQTTPublisher implements ingest.Publisher over one broker connection.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// Connect dials the broker. The returned publisher must be Closed on shutdown.
func Connect(cfg Config) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("publish: connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("publish: connect to %s: %w", cfg.Broker, err)
	}
	return &MQTTPublisher{client: client, topic: cfg.Topic}, nil
}

// PublishSample emits one decoded sample as JSON at QoS 0.
func (p *MQTTPublisher) PublishSample(name string, timestampMS uint32, value signal.Value) error {
	payload, err := json.Marshal(EncodeSample(name, timestampMS, value))
	if err != nil {
		return fmt.Errorf("publish: marshal sample: %w", err)
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %s: %w", p.topic, err)
	}
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// EncodeSample builds the wire payload for one sample.
func EncodeSample(name string, timestampMS uint32, value signal.Value) SamplePayload {
	return SamplePayload{
		Signal:      name,
		TimestampMS: timestampMS,
		Value:       value.Native(),
		Kind:        value.Kind.String(),
	}
}
