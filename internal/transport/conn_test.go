package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// pipeDialer hands out the client half of a net.Pipe per dial and publishes
// the server half so the test can play gateway.
type pipeDialer struct {
	dials   int64
	servers chan net.Conn
	fail    atomic.Bool
}

func newPipeDialer() *pipeDialer {
	return &pipeDialer{servers: make(chan net.Conn, 8)}
}

func (d *pipeDialer) dial(ctx context.Context, url string) (net.Conn, error) {
	atomic.AddInt64(&d.dials, 1)
	if d.fail.Load() {
		return nil, errors.New("dial refused")
	}
	client, server := net.Pipe()
	d.servers <- server
	return client, nil
}

func (d *pipeDialer) dialCount() int64 {
	return atomic.LoadInt64(&d.dials)
}

func (d *pipeDialer) waitServer(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-d.servers:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dial")
		return nil
	}
}

func testConfig(d *pipeDialer) Config {
	return Config{
		URL:       "ws://gateway.test/ws/merechat",
		BaseDelay: time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
		Dialer:    d.dial,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnectDeliversFrames(t *testing.T) {
	d := newPipeDialer()
	c := New(testConfig(d))
	defer c.Close("test done")

	c.Connect()
	server := d.waitServer(t)
	defer server.Close()

	waitFor(t, "open state", c.IsOpen)

	payload := []byte(`{"type":"message","id":"m-1","chatId":"c1"}`)
	go func() {
		_ = wsutil.WriteServerMessage(server, ws.OpText, payload)
	}()

	select {
	case got := <-c.Frames():
		if string(got) != string(payload) {
			t.Errorf("expected %s, got %s", payload, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}
}

func TestConnectNoopWhileOpen(t *testing.T) {
	d := newPipeDialer()
	c := New(testConfig(d))
	defer c.Close("test done")

	c.Connect()
	server := d.waitServer(t)
	defer server.Close()
	waitFor(t, "open state", c.IsOpen)

	c.Connect()
	c.Connect()
	time.Sleep(20 * time.Millisecond)

	if n := d.dialCount(); n != 1 {
		t.Errorf("expected a single dial, got %d", n)
	}
}

func TestReconnectAfterConnectionLoss(t *testing.T) {
	d := newPipeDialer()
	c := New(testConfig(d))
	defer c.Close("test done")

	c.Connect()
	server := d.waitServer(t)
	waitFor(t, "open state", c.IsOpen)

	// Drop the connection from the gateway side.
	server.Close()

	server2 := d.waitServer(t)
	defer server2.Close()
	waitFor(t, "reopen", c.IsOpen)

	if n := d.dialCount(); n != 2 {
		t.Errorf("expected 2 dials, got %d", n)
	}
	// A successful open resets the attempt counter.
	if a := c.Attempts(); a != 0 {
		t.Errorf("expected attempts reset to 0 after reopen, got %d", a)
	}
}

func TestDialFailureSchedulesRetry(t *testing.T) {
	d := newPipeDialer()
	d.fail.Store(true)
	c := New(testConfig(d))
	defer c.Close("test done")

	c.Connect()
	waitFor(t, "retries", func() bool { return d.dialCount() >= 3 })

	// Let it recover.
	d.fail.Store(false)
	server := d.waitServer(t)
	defer server.Close()
	waitFor(t, "open after recovery", c.IsOpen)
}

func TestCloseCancelsPendingReconnect(t *testing.T) {
	d := newPipeDialer()
	d.fail.Store(true)
	cfg := testConfig(d)
	cfg.BaseDelay = time.Hour // retry must never fire after Close
	cfg.MaxDelay = time.Hour
	c := New(cfg)

	c.Connect()
	waitFor(t, "first dial", func() bool { return d.dialCount() == 1 })

	c.Close("navigating away")

	if st := c.State(); st != StateClosed {
		t.Errorf("expected closed state, got %s", st)
	}
	if a := c.Attempts(); a != 0 {
		t.Errorf("expected attempt counter zeroed on close, got %d", a)
	}

	time.Sleep(20 * time.Millisecond)
	if n := d.dialCount(); n != 1 {
		t.Errorf("expected no dials after close, got %d", n)
	}

	// Connect after Close stays a no-op.
	c.Connect()
	time.Sleep(20 * time.Millisecond)
	if n := d.dialCount(); n != 1 {
		t.Errorf("expected connect to be a no-op after close, got %d dials", n)
	}
}

func TestSendWhileDownReturnsErrNotConnected(t *testing.T) {
	c := New(testConfig(newPipeDialer()))
	defer c.Close("test done")

	err := c.Send(map[string]string{"type": "message"})
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestSendWritesClientFrame(t *testing.T) {
	d := newPipeDialer()
	c := New(testConfig(d))
	defer c.Close("test done")

	c.Connect()
	server := d.waitServer(t)
	defer server.Close()
	waitFor(t, "open state", c.IsOpen)

	type outFrame struct {
		Type   string `json:"type"`
		ChatID string `json:"chatId"`
	}

	errc := make(chan error, 1)
	go func() {
		errc <- c.Send(outFrame{Type: "typing", ChatID: "chat-9"})
	}()

	data, err := wsutil.ReadClientText(server)
	if err != nil {
		t.Fatalf("read client frame: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("send: %v", err)
	}

	var got outFrame
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "typing" || got.ChatID != "chat-9" {
		t.Errorf("unexpected frame: %+v", got)
	}
}

func TestHelloSentOnOpen(t *testing.T) {
	d := newPipeDialer()
	cfg := testConfig(d)
	cfg.Hello = map[string]interface{}{"type": "presence", "online": true}
	c := New(cfg)
	defer c.Close("test done")

	c.Connect()
	server := d.waitServer(t)
	defer server.Close()

	data, err := wsutil.ReadClientText(server)
	if err != nil {
		t.Fatalf("read hello frame: %v", err)
	}
	var hello struct {
		Type   string `json:"type"`
		Online bool   `json:"online"`
	}
	if err := json.Unmarshal(data, &hello); err != nil {
		t.Fatalf("unmarshal hello: %v", err)
	}
	if hello.Type != "presence" || !hello.Online {
		t.Errorf("unexpected hello frame: %s", data)
	}
}

func TestTokenAppendedToURL(t *testing.T) {
	c := New(Config{URL: "wss://mere.example/ws/merechat", Token: "tok en+1"})
	got := c.wsURL()
	want := "wss://mere.example/ws/merechat?token=" + "tok+en%2B1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	c2 := New(Config{URL: "wss://mere.example/ws/merechat"})
	if got := c2.wsURL(); got != "wss://mere.example/ws/merechat" {
		t.Errorf("expected untouched URL, got %q", got)
	}
}

func TestFrameChannelBuffers(t *testing.T) {
	d := newPipeDialer()
	c := New(testConfig(d))
	defer c.Close("test done")

	c.Connect()
	server := d.waitServer(t)
	defer server.Close()
	waitFor(t, "open state", c.IsOpen)

	const n = 10
	go func() {
		for i := 0; i < n; i++ {
			payload := fmt.Sprintf(`{"type":"message","id":"m-%d","chatId":"c1"}`, i)
			if err := wsutil.WriteServerMessage(server, ws.OpText, []byte(payload)); err != nil {
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		select {
		case <-c.Frames():
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d not delivered", i)
		}
	}
}
