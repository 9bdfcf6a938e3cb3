// Package protocol defines the WebSocket frame types exchanged with the
// merechat gateway. All frames are serialized as JSON and follow a consistent
// envelope format with a type discriminator.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Frame type constants
// ---------------------------------------------------------------------------

// Frame types used in both directions. The gateway echoes message frames back
// to the sender with the server-assigned id and the original clientId.
const (
	TypeMessage  = "message"
	TypeTyping   = "typing"
	TypePresence = "presence"
)

// ErrUnknownFrame is returned for frame types this client does not know.
// Callers are expected to log and drop such frames rather than fail, so that
// gateway protocol additions do not break older clients.
var ErrUnknownFrame = errors.New("protocol: unknown frame type")

// ---------------------------------------------------------------------------
// Envelope — used for initial JSON parsing to extract the type discriminator.
// ---------------------------------------------------------------------------

// Envelope holds the frame type and the raw JSON payload for deferred
// parsing into a concrete struct.
type Envelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements the json.Unmarshaler interface. It captures the
// full raw bytes and extracts only the "type" field so that the rest of the
// payload can be decoded later into the appropriate concrete struct.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	e.Raw = make(json.RawMessage, len(data))
	copy(e.Raw, data)

	var partial struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return fmt.Errorf("protocol: failed to unmarshal envelope: %w", err)
	}
	if partial.Type == "" {
		return fmt.Errorf("protocol: missing or empty \"type\" field")
	}
	e.Type = partial.Type
	return nil
}

// ---------------------------------------------------------------------------
// Frame structs
// ---------------------------------------------------------------------------

// Media describes an attachment carried by a message frame.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"` // MIME type, e.g. "image/png"
}

// MessageFrame is a chat message. Outbound frames carry ChatID, Content and
// ClientID; the gateway echo additionally carries the server-assigned ID,
// Sender and CreatedAt.
type MessageFrame struct {
	Type      string     `json:"type"`
	ID        string     `json:"id,omitempty"`
	ClientID  string     `json:"clientId,omitempty"`
	ChatID    string     `json:"chatId"`
	Sender    string     `json:"sender,omitempty"`
	Content   string     `json:"content,omitempty"`
	Media     *Media     `json:"media,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	Deleted   bool       `json:"deleted,omitempty"`
}

// TypingFrame indicates that a participant is typing in a chat.
type TypingFrame struct {
	Type   string `json:"type"`
	ChatID string `json:"chatId"`
	Sender string `json:"sender,omitempty"`
}

// PresenceFrame announces a participant going online or offline.
type PresenceFrame struct {
	Type   string `json:"type"`
	Sender string `json:"sender,omitempty"`
	Online bool   `json:"online"`
}

// ---------------------------------------------------------------------------
// Constructors for outbound frames
// ---------------------------------------------------------------------------

// NewMessageFrame builds an outbound message frame. clientID is the
// correlation id the gateway echoes back so the sender can reconcile its
// optimistic copy.
func NewMessageFrame(chatID, content, clientID string) MessageFrame {
	return MessageFrame{
		Type:     TypeMessage,
		ChatID:   chatID,
		Content:  content,
		ClientID: clientID,
	}
}

// NewTypingFrame builds an outbound typing notification.
func NewTypingFrame(chatID string) TypingFrame {
	return TypingFrame{Type: TypeTyping, ChatID: chatID}
}

// NewPresenceFrame builds an outbound presence announcement.
func NewPresenceFrame(online bool) PresenceFrame {
	return PresenceFrame{Type: TypePresence, Online: online}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseServerFrame parses raw WebSocket bytes into a typed gateway frame.
// It returns the frame type string, the decoded struct, and any error
// encountered during parsing. Unknown types return ErrUnknownFrame wrapped
// with the offending type name.
func ParseServerFrame(data []byte) (string, interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("protocol: failed to parse frame: %w", err)
	}

	var (
		frame interface{}
		err   error
	)

	switch env.Type {
	case TypeMessage:
		var f MessageFrame
		err = json.Unmarshal(env.Raw, &f)
		frame = f
	case TypeTyping:
		var f TypingFrame
		err = json.Unmarshal(env.Raw, &f)
		frame = f
	case TypePresence:
		var f PresenceFrame
		err = json.Unmarshal(env.Raw, &f)
		frame = f
	default:
		return env.Type, nil, fmt.Errorf("%w: %q", ErrUnknownFrame, env.Type)
	}

	if err != nil {
		return env.Type, nil, fmt.Errorf("protocol: failed to decode %q payload: %w", env.Type, err)
	}
	return env.Type, frame, nil
}
