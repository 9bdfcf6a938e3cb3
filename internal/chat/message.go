// Package chat implements the client-side chat session: the message store
// and viewport, optimistic-send reconciliation, dedup bookkeeping, paginated
// history loading, and the session controller that wires them to the
// gateway transport and the REST backend.
package chat

import (
	"strings"
	"time"

	"github.com/mereapp/merechat/internal/protocol"
)

// Media describes an attachment on a message.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"` // MIME type
}

// Message is the view-model for a single chat message. A provisional
// (optimistic) message has a ClientID and no trusted server ID until the
// gateway acknowledges it; confirmation mutates the stored entry in place
// rather than replacing it.
type Message struct {
	ID        string     `json:"id,omitempty"`
	ClientID  string     `json:"clientId,omitempty"`
	ChatID    string     `json:"chatId"`
	Sender    string     `json:"sender"`
	Content   string     `json:"content,omitempty"`
	Media     *Media     `json:"media,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	Deleted   bool       `json:"deleted,omitempty"`
	Pending   bool       `json:"pending,omitempty"`
}

// Key returns the identity the store indexes the message under: the server
// id when assigned, otherwise the provisional client id.
func (m Message) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.ClientID
}

// fromFrame converts a gateway message frame into the view-model shape.
func fromFrame(f protocol.MessageFrame) Message {
	m := Message{
		ID:        f.ID,
		ClientID:  f.ClientID,
		ChatID:    f.ChatID,
		Sender:    f.Sender,
		Content:   f.Content,
		CreatedAt: f.CreatedAt,
		EditedAt:  f.EditedAt,
		Deleted:   f.Deleted,
	}
	if f.Media != nil {
		m.Media = &Media{URL: f.Media.URL, Type: f.Media.Type}
	}
	return m
}

// ChatSummary is one entry of the paginated conversation list. The list is
// produced and ordered by the backend.
type ChatSummary struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	LastActivity time.Time `json:"lastActivity,omitzero"`
}

// Label renders the conversation as the other participants' names.
func (c ChatSummary) Label(currentUser string) string {
	others := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p != currentUser {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return "(no one)"
	}
	return strings.Join(others, ", ")
}
