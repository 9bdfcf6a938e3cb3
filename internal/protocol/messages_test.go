package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEnvelopeCapturesRawAndType(t *testing.T) {
	data := []byte(`{"type":"message","chatId":"chat-1","content":"hi"}`)

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != TypeMessage {
		t.Errorf("expected type %q, got %q", TypeMessage, env.Type)
	}
	if string(env.Raw) != string(data) {
		t.Errorf("raw payload not preserved: %s", env.Raw)
	}
}

func TestEnvelopeMissingType(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{"chatId":"chat-1"}`), &env)
	if err == nil {
		t.Fatal("expected error for missing type field")
	}
}

func TestParseServerFrameMessage(t *testing.T) {
	data := []byte(`{
		"type": "message",
		"id": "m-99",
		"clientId": "c-abc",
		"chatId": "chat-42",
		"sender": "farmer_joe",
		"content": "hello",
		"createdAt": "2025-06-01T12:30:00Z"
	}`)

	typ, frame, err := ParseServerFrame(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if typ != TypeMessage {
		t.Fatalf("expected type %q, got %q", TypeMessage, typ)
	}

	msg, ok := frame.(MessageFrame)
	if !ok {
		t.Fatalf("expected MessageFrame, got %T", frame)
	}
	if msg.ID != "m-99" || msg.ClientID != "c-abc" || msg.ChatID != "chat-42" {
		t.Errorf("unexpected ids: %+v", msg)
	}
	if msg.Sender != "farmer_joe" || msg.Content != "hello" {
		t.Errorf("unexpected body: %+v", msg)
	}
	want := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if !msg.CreatedAt.Equal(want) {
		t.Errorf("expected createdAt %v, got %v", want, msg.CreatedAt)
	}
}

func TestParseServerFrameMessageWithMedia(t *testing.T) {
	data := []byte(`{"type":"message","id":"m-1","chatId":"c1","media":{"url":"uploads/a.png","type":"image/png"}}`)

	_, frame, err := ParseServerFrame(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	msg := frame.(MessageFrame)
	if msg.Media == nil {
		t.Fatal("expected media to be decoded")
	}
	if msg.Media.URL != "uploads/a.png" || msg.Media.Type != "image/png" {
		t.Errorf("unexpected media: %+v", msg.Media)
	}
}

func TestParseServerFrameTyping(t *testing.T) {
	typ, frame, err := ParseServerFrame([]byte(`{"type":"typing","chatId":"chat-1","sender":"ann"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if typ != TypeTyping {
		t.Fatalf("expected type %q, got %q", TypeTyping, typ)
	}
	f := frame.(TypingFrame)
	if f.ChatID != "chat-1" || f.Sender != "ann" {
		t.Errorf("unexpected typing frame: %+v", f)
	}
}

func TestParseServerFramePresence(t *testing.T) {
	typ, frame, err := ParseServerFrame([]byte(`{"type":"presence","sender":"bob","online":true}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if typ != TypePresence {
		t.Fatalf("expected type %q, got %q", TypePresence, typ)
	}
	f := frame.(PresenceFrame)
	if f.Sender != "bob" || !f.Online {
		t.Errorf("unexpected presence frame: %+v", f)
	}
}

func TestParseServerFrameUnknownType(t *testing.T) {
	typ, frame, err := ParseServerFrame([]byte(`{"type":"reaction","emoji":"x"}`))
	if !errors.Is(err, ErrUnknownFrame) {
		t.Fatalf("expected ErrUnknownFrame, got %v", err)
	}
	if typ != "reaction" {
		t.Errorf("expected the offending type to be reported, got %q", typ)
	}
	if frame != nil {
		t.Errorf("expected nil frame, got %+v", frame)
	}
}

func TestParseServerFrameInvalidJSON(t *testing.T) {
	_, _, err := ParseServerFrame([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNewMessageFrameRoundTrip(t *testing.T) {
	out := NewMessageFrame("chat-7", "text body", "c-123")
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// The zero CreatedAt must not appear on outbound frames.
	if strings.Contains(string(data), "createdAt") {
		t.Errorf("outbound frame should omit createdAt: %s", data)
	}

	_, frame, err := ParseServerFrame(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	msg := frame.(MessageFrame)
	if msg.ChatID != "chat-7" || msg.Content != "text body" || msg.ClientID != "c-123" {
		t.Errorf("round trip mismatch: %+v", msg)
	}
}

func TestNewPresenceFrameOnlineField(t *testing.T) {
	data, err := json.Marshal(NewPresenceFrame(true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"online":true`) {
		t.Errorf("expected online field, got %s", data)
	}
}
