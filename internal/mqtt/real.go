package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// bufferCapacity bounds how many messages are retained across a broker
// outage; a 60s tick produces at most a handful per minute.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Messages produced while
// the broker is unreachable are held in a ring buffer and replayed in order
// on reconnect.
type RealPublisher struct {
	client paho.Client
	log    zerolog.Logger

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string, log zerolog.Logger) (*RealPublisher, error) {
	p := &RealPublisher{
		log: log,
		buf: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("led-scheduler").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishExecution sends a schedule execution event to the MQTT broker.
func (p *RealPublisher) PublishExecution(event ExecutionEvent) error {
	payload, err := FormatExecutionPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 1 (at-least-once): executions are the events subscribers care about
	return p.publish(Topic, 1, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// publish sends one message, or buffers it when disconnected.
func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.buf.len()
		p.mu.Unlock()
		p.log.Warn().Str("topic", topic).Int("buffered", n).
			Msg("broker disconnected, message buffered")
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// onConnect drains buffered messages after (re)connection. Runs on paho's
// callback goroutine.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	dropped := p.buf.dropped()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	if dropped {
		p.log.Warn().Msg("message buffer overflowed while disconnected, oldest messages lost")
	}
	p.log.Info().Int("replaying", len(msgs)).Msg("broker reconnected, draining buffered messages")

	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			p.log.Error().Str("topic", m.topic).Msg("replay timeout, message dropped")
			continue
		}
		if err := token.Error(); err != nil {
			p.log.Error().Err(err).Str("topic", m.topic).Msg("replay failed, message dropped")
		}
	}
}

// IsConnected reports whether the client currently holds a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
