package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/pir-video/internal/logging"
	"github.com/sweeney/pir-video/internal/motion"
)

var logger = logging.New("mqtt")

// bufferCapacity bounds how many events are held while disconnected.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Events produced
// while the broker is unreachable are buffered and replayed on
// reconnect.
type RealPublisher struct {
	client paho.Client
	topic  string

	mu      sync.Mutex
	pending *eventQueue
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		topic:   Topic,
		pending: newEventQueue(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("pir-server").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.replayPending()
		})

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

// Publish sends a motion event to the MQTT broker. If the broker is
// currently unreachable the event is queued for replay.
func (p *RealPublisher) Publish(event motion.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	if !p.client.IsConnected() {
		p.mu.Lock()
		p.pending.push(bufferedMsg{topic: p.topic, payload: payload})
		p.mu.Unlock()
		return nil
	}

	// QoS 0 (at-most-once), not retained
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// replayPending flushes events buffered during a disconnect.
func (p *RealPublisher) replayPending() {
	p.mu.Lock()
	msgs := p.pending.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	logger.Infof("replaying %d buffered events", len(msgs))
	for _, msg := range msgs {
		token := p.client.Publish(msg.topic, 0, false, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			logger.Warnf("replay timeout, discarding remaining buffered events")
			return
		}
	}
}

// IsConnected reports whether the broker connection is active.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
