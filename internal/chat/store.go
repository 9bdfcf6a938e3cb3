package chat

// DefaultMessageHeight is the fallback per-message height used when no
// measure function is supplied.
const DefaultMessageHeight = 48

type storeEntry struct {
	msg    Message
	height int
}

// Store is the ordered view-model of the open chat: a chronological timeline
// keyed by message identity, plus the viewport tracking scroll state.
// A message appears at most once; confirmation of an optimistic entry swaps
// its key in place instead of inserting a second copy.
//
// Store is not goroutine-safe; the session serializes access.
type Store struct {
	measure func(Message) int
	order   []string
	byKey   map[string]*storeEntry
	vp      Viewport
}

// NewStore creates an empty store. measure may be nil, in which case every
// message gets DefaultMessageHeight.
func NewStore(measure func(Message) int) *Store {
	if measure == nil {
		measure = func(Message) int { return DefaultMessageHeight }
	}
	return &Store{
		measure: measure,
		byKey:   make(map[string]*storeEntry),
		vp:      Viewport{ViewHeight: 600},
	}
}

// Viewport returns the store's scroll state.
func (s *Store) Viewport() *Viewport {
	return &s.vp
}

// Len returns the number of messages in the timeline.
func (s *Store) Len() int {
	return len(s.order)
}

// Has reports whether a message with the given key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Get returns the message stored under key.
func (s *Store) Get(key string) (Message, bool) {
	e, ok := s.byKey[key]
	if !ok {
		return Message{}, false
	}
	return e.msg, true
}

// Messages returns the timeline in chronological order.
func (s *Store) Messages() []Message {
	out := make([]Message, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key].msg)
	}
	return out
}

// Append adds a message to the bottom of the timeline. If the viewport was
// within NearBottomSlack of the bottom before the insert, it auto-scrolls to
// the new bottom; otherwise the scroll position is left untouched. Returns
// false if the key is already present.
func (s *Store) Append(m Message) bool {
	key := m.Key()
	if key == "" || s.Has(key) {
		return false
	}
	wasAtBottom := s.vp.AtBottom()
	h := s.measure(m)
	s.order = append(s.order, key)
	s.byKey[key] = &storeEntry{msg: m, height: h}
	s.vp.extendBottom(h)
	if wasAtBottom {
		s.vp.ScrollToBottom()
	}
	return true
}

// PrependBatch inserts an already-chronological batch of older messages at
// the top of the timeline and shifts the scroll offset by the added height,
// so the content in view does not move. Keys already present are skipped.
func (s *Store) PrependBatch(batch []Message) int {
	fresh := make([]Message, 0, len(batch))
	for _, m := range batch {
		if key := m.Key(); key != "" && !s.Has(key) {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 {
		return 0
	}

	keys := make([]string, len(fresh))
	added := 0
	for i, m := range fresh {
		h := s.measure(m)
		keys[i] = m.Key()
		s.byKey[keys[i]] = &storeEntry{msg: m, height: h}
		added += h
	}
	s.order = append(keys, s.order...)
	s.vp.extendTop(added)
	return len(fresh)
}

// Confirm resolves an optimistic entry in place: the entry keyed by clientID
// gets the server-assigned id, its pending flag cleared, and any
// server-known fields (timestamp, media) patched in — without moving in the
// timeline. Returns false if no entry with that clientID exists.
func (s *Store) Confirm(clientID, serverID string, confirmed Message) bool {
	e, ok := s.byKey[clientID]
	if !ok || serverID == "" {
		return false
	}

	e.msg.ID = serverID
	e.msg.Pending = false
	if !confirmed.CreatedAt.IsZero() {
		e.msg.CreatedAt = confirmed.CreatedAt
	}
	if confirmed.EditedAt != nil {
		e.msg.EditedAt = confirmed.EditedAt
	}
	if confirmed.Media != nil {
		e.msg.Media = confirmed.Media
	}

	// Re-key under the canonical id, preserving timeline position.
	delete(s.byKey, clientID)
	s.byKey[serverID] = e
	for i, key := range s.order {
		if key == clientID {
			s.order[i] = serverID
			break
		}
	}
	return true
}

// PendingCount returns the number of entries still awaiting confirmation.
func (s *Store) PendingCount() int {
	n := 0
	for _, key := range s.order {
		if s.byKey[key].msg.Pending {
			n++
		}
	}
	return n
}

// Reset drops the timeline and zeroes the viewport, keeping the view height.
func (s *Store) Reset() {
	s.order = nil
	s.byKey = make(map[string]*storeEntry)
	s.vp.reset()
}
