package chat

// EventKind discriminates session events delivered to the UI layer.
type EventKind int

const (
	// EventMessage is a new message appended to the open chat's timeline.
	EventMessage EventKind = iota
	// EventConfirmed is an optimistic message resolved to its canonical id.
	EventConfirmed
	// EventTyping is a participant typing in the open chat.
	EventTyping
	// EventPresence is a participant going online or offline.
	EventPresence
)

// Event is the payload handed to the session's OnEvent callback. Callbacks
// run on the frame-pump goroutine and must not block for extended periods.
type Event struct {
	Kind    EventKind
	ChatID  string
	Message Message // set for EventMessage and EventConfirmed
	Sender  string  // set for EventTyping and EventPresence
	Online  bool    // set for EventPresence
}
