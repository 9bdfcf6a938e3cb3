// Package transport manages the WebSocket connection to the merechat gateway:
// dialing, the read loop, and exponential-backoff reconnection. It delivers
// raw inbound frames on a channel so the session layer can decode and
// dispatch them without ever touching the socket directly.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/mereapp/merechat/internal/metrics"
)

// ErrNotConnected is returned by Send while the socket is down. Callers fall
// back to the REST send path rather than dropping the message.
var ErrNotConnected = errors.New("transport: not connected")

// State describes the connection lifecycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Dialer opens the underlying connection. Injectable so tests can hand the
// Conn one side of a net.Pipe instead of a real socket.
type Dialer func(ctx context.Context, url string) (net.Conn, error)

// Config holds tunable parameters for the gateway connection.
type Config struct {
	URL          string        // gateway endpoint, e.g. "wss://mere.example/ws/merechat"
	Token        string        // optional auth token, appended as a query parameter
	BaseDelay    time.Duration // reconnect backoff base (default 1s)
	MaxDelay     time.Duration // reconnect backoff cap (default 30s)
	DialTimeout  time.Duration // timeout for a single dial attempt (default 10s)
	WriteTimeout time.Duration // timeout for frame writes (default 10s)
	Hello        interface{}   // optional frame sent after every successful open
	Dialer       Dialer        // optional, defaults to a gobwas/ws dial
}

// Conn is the connection manager. It owns at most one live WebSocket at a
// time; a read failure or close schedules a reconnect with exponential
// backoff, and Close tears everything down for good.
type Conn struct {
	cfg  Config
	dial Dialer

	mu       sync.Mutex
	conn     net.Conn
	state    State
	attempts int
	retry    *time.Timer

	frames chan []byte
	done   chan struct{}
}

// New creates a connection manager. No connection is attempted until
// Connect is called.
func New(cfg Config) *Conn {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	dial := cfg.Dialer
	if dial == nil {
		dial = func(ctx context.Context, u string) (net.Conn, error) {
			conn, _, _, err := ws.Dial(ctx, u)
			return conn, err
		}
	}
	return &Conn{
		cfg:    cfg,
		dial:   dial,
		frames: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
}

// Connect opens the gateway connection. It is a no-op while a connection is
// already open or a dial is in flight, and after Close. Dial failures are
// treated like a close event: the next attempt is scheduled with backoff.
func (c *Conn) Connect() {
	c.mu.Lock()
	if c.state == StateClosed || c.state == StateOpen || c.state == StateConnecting {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	go c.dialAndRun()
}

func (c *Conn) dialAndRun() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.DialTimeout)
	defer cancel()

	conn, err := c.dial(ctx, c.wsURL())

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.state = StateDisconnected
		log.Printf("[transport] dial failed: %v", err)
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.attempts = 0
	hello := c.cfg.Hello
	c.mu.Unlock()

	log.Printf("[transport] connected to %s", c.cfg.URL)

	if hello != nil {
		if err := c.Send(hello); err != nil {
			log.Printf("[transport] hello frame failed: %v", err)
		}
	}

	go c.readLoop(conn)
}

// readLoop reads text frames from one live connection until it fails, then
// hands control back to the reconnect machinery.
func (c *Conn) readLoop(conn net.Conn) {
	for {
		data, err := wsutil.ReadServerText(conn)
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		metrics.FramesReceived.Inc()
		select {
		case c.frames <- data:
		case <-c.done:
			conn.Close()
			return
		}
	}
}

func (c *Conn) handleDisconnect(conn net.Conn, cause error) {
	conn.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		// A newer connection has already replaced this one.
		return
	}
	c.conn = nil
	if c.state == StateClosed {
		return
	}
	c.state = StateDisconnected
	log.Printf("[transport] connection lost: %v", cause)
	c.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the retry timer. Caller holds c.mu.
func (c *Conn) scheduleReconnectLocked() {
	delay := Delay(c.cfg.BaseDelay, c.cfg.MaxDelay, c.attempts)
	c.attempts++
	metrics.ReconnectsTotal.Inc()
	log.Printf("[transport] reconnecting in %s (attempt %d)", delay, c.attempts)
	c.retry = time.AfterFunc(delay, c.Connect)
}

// Send marshals v to JSON and writes it as a text frame. It is
// goroutine-safe and returns ErrNotConnected while the socket is down.
func (c *Conn) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("transport: marshal: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen || c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := wsutil.WriteClientMessage(c.conn, ws.OpText, data); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// IsOpen reports whether the socket is currently usable for Send.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateOpen
}

// State returns the current connection state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the current reconnect attempt counter.
func (c *Conn) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Frames returns the channel of raw inbound frames. The channel is never
// closed; consumers should select against their own shutdown signal.
func (c *Conn) Frames() <-chan []byte {
	return c.frames
}

// Close tears the connection down permanently: it cancels any pending
// reconnect, zeroes the attempt counter, and closes the live socket if one
// exists. It is safe to call multiple times.
func (c *Conn) Close(reason string) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.attempts = 0
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	conn := c.conn
	c.conn = nil
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if reason != "" {
		log.Printf("[transport] closed: %s", reason)
	}
}

// wsURL builds the dial URL, appending the auth token as a query parameter
// when one is configured.
func (c *Conn) wsURL() string {
	if c.cfg.Token == "" {
		return c.cfg.URL
	}
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return c.cfg.URL
	}
	q := u.Query()
	q.Set("token", c.cfg.Token)
	u.RawQuery = q.Encode()
	return u.String()
}
