// internal/publish/mqtt.go
package publish

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/tamzrod/deflector-control/internal/config"
	"github.com/tamzrod/deflector-control/internal/status"
)

// Publisher sends deflector snapshots to one MQTT topic.
type Publisher struct {
	client   mqtt.Client
	topic    string
	qos      byte
	retained bool
	timeout  time.Duration
	log      *zap.SugaredLogger
}

// Connect dials the broker once and returns a ready publisher.
func Connect(c config.MQTTConfig, log *zap.SugaredLogger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.Broker)
	opts.SetClientID(c.ClientID)
	opts.SetUsername(c.Username)
	opts.SetPassword(c.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(c.Timeout())

	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Infow("connected to MQTT broker", "broker", c.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("MQTT connection lost", "broker", c.Broker, "error", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(c.Timeout()) {
		client.Disconnect(0)
		return nil, fmt.Errorf("publish: connect %s: timeout after %v", c.Broker, c.Timeout())
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("publish: connect %s: %w", c.Broker, err)
	}

	return New(client, c, log), nil
}

// New wraps an existing client.
func New(client mqtt.Client, c config.MQTTConfig, log *zap.SugaredLogger) *Publisher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	timeout := c.Timeout()
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultMQTTTimeoutMs) * time.Millisecond
	}
	return &Publisher{
		client:   client,
		topic:    c.Topic,
		qos:      c.QoS,
		retained: c.Retained,
		timeout:  timeout,
		log:      log,
	}
}

// Publish encodes the snapshot as JSON and waits for the broker ack.
func (p *Publisher) Publish(s status.Snapshot) error {
	payload, err := status.Encode(s)
	if err != nil {
		return fmt.Errorf("publish: encode: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, p.retained, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish: %s: timeout after %v", p.topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %s: %w", p.topic, err)
	}

	p.log.Debugw("status published", "topic", p.topic, "bytes", len(payload))
	return nil
}

// Close disconnects, allowing in-flight messages 250ms.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return errors.New("publish: not connected")
	}
	p.client.Disconnect(250)
	return nil
}
