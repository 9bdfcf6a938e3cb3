package chat

import "sync"

// Ledger is the set of server-confirmed message ids already materialized in
// the timeline. It prevents double-insertion when both a gateway push and a
// REST fetch deliver the same message. It never shrinks except on explicit
// session reset.
type Ledger struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{ids: make(map[string]struct{})}
}

// Has reports whether the id has already been rendered.
func (l *Ledger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

// Add records a rendered id.
func (l *Ledger) Add(id string) {
	if id == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[id] = struct{}{}
}

// Len returns the number of recorded ids.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

// Reset clears the ledger. Called when a different chat is opened.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = make(map[string]struct{})
}

// PendingTracker maps a client-generated provisional id to the chat the
// optimistic message was sent in, until the gateway confirms it with a
// canonical id. The optimistic entry itself lives in the Store under the
// provisional id.
type PendingTracker struct {
	mu      sync.Mutex
	entries map[string]string // clientID -> chatID
}

// NewPendingTracker creates an empty tracker.
func NewPendingTracker() *PendingTracker {
	return &PendingTracker{entries: make(map[string]string)}
}

// Track registers a provisional message.
func (t *PendingTracker) Track(clientID, chatID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[clientID] = chatID
}

// Resolve removes and returns the tracked chat id for clientID. The entry is
// removed whether or not the caller ends up reconciling — a stale or late
// echo for a now-closed chat is discarded either way.
func (t *PendingTracker) Resolve(clientID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	chatID, ok := t.entries[clientID]
	if ok {
		delete(t.entries, clientID)
	}
	return chatID, ok
}

// Len returns the number of unconfirmed entries.
func (t *PendingTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
