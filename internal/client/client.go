// Package client maintains a TCP connection to a pir-server and tracks
// the latest sensor state it has broadcast.
package client

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"github.com/sweeney/pir-video/internal/logging"
	"github.com/sweeney/pir-video/internal/wire"
)

var logger = logging.New("client")

const (
	dialTimeout    = 3 * time.Second
	reconnectDelay = 2 * time.Second
)

// Client connects to a pir-server and keeps the most recent state
// message. On connection loss it keeps the last known state and
// reconnects with a fixed delay.
type Client struct {
	addr  string
	delay time.Duration

	mu        sync.Mutex
	latest    wire.StateMessage
	hasState  bool
	connected bool
}

// New creates a client for the given "host:port" address. No connection
// is made until Run is called.
func New(addr string) *Client {
	return &Client{addr: addr, delay: reconnectDelay}
}

// Latest returns the most recent state message, if one has arrived.
func (c *Client) Latest() (wire.StateMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.hasState
}

// Connected reports whether the client currently has a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Run connects and consumes state messages until ctx is canceled,
// reconnecting after a fixed delay on any connection loss.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.connectAndRead(ctx); err != nil {
			logger.Warnf("connection to %s lost: %v", c.addr, err)
		}
		c.setConnected(false)

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.delay):
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock the read loop when the context dies.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger.Infof("connected to %s", c.addr)
	c.setConnected(true)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		c.handleLine(scanner.Bytes())
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return scanner.Err()
}

func (c *Client) handleLine(line []byte) {
	typ, err := wire.MessageType(line)
	if err != nil {
		logger.Warnf("malformed message: %v", err)
		return
	}

	switch typ {
	case wire.TypeWelcome:
		msg, err := wire.DecodeWelcome(line)
		if err != nil {
			logger.Warnf("malformed welcome: %v", err)
			return
		}
		logger.Infof("server says: %s (pir_state=%d)", msg.Message, msg.PIRState)

	case wire.TypeState:
		msg, err := wire.DecodeState(line)
		if err != nil {
			logger.Warnf("malformed state message: %v", err)
			return
		}
		c.mu.Lock()
		c.latest = msg
		c.hasState = true
		c.mu.Unlock()

	default:
		// Unknown types are tolerated for forward compatibility.
	}
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
