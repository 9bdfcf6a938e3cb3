package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mereapp/merechat/internal/metrics"
	"github.com/mereapp/merechat/internal/protocol"
	"github.com/mereapp/merechat/internal/ratelimit"
)

// DefaultPageSize is the history page size.
const DefaultPageSize = 50

// Backend is the REST surface the session consumes. The concrete
// implementation lives in internal/api; tests inject fakes.
type Backend interface {
	ListChats(ctx context.Context, skip, limit int) ([]ChatSummary, error)
	Messages(ctx context.Context, chatID string, skip, limit int) ([]Message, error)
	SendMessage(ctx context.Context, chatID, content, clientID string) (Message, error)
	Upload(ctx context.Context, chatID, filename string, r io.Reader) (Message, error)
	StartChat(ctx context.Context, participants []string) (ChatSummary, error)
}

// Transport is the gateway connection the session consumes, implemented by
// internal/transport.
type Transport interface {
	Connect()
	Close(reason string)
	Send(v interface{}) error
	IsOpen() bool
	Frames() <-chan []byte
}

// SessionConfig holds per-session parameters.
type SessionConfig struct {
	User     string             // current user, used as the sender of optimistic messages
	PageSize int                // history page size (default 50)
	Measure  func(Message) int  // per-message height for the viewport (optional)
	OnEvent  func(Event)        // UI callback (optional)
	Limiter  *ratelimit.Limiter // outbound throttling (optional)
}

// Session is the controller for one user's chat activity: it owns the open
// chat's store, cursor and bookkeeping, pumps gateway frames into them, and
// drives the optimistic send path with its REST fallback. Exactly one chat
// is open at a time; opening another detaches the previous one.
type Session struct {
	cfg       SessionConfig
	backend   Backend
	transport Transport

	mu      sync.Mutex
	chatID  string
	skip    int
	loading bool
	store   *Store
	ledger  *Ledger
	pending *PendingTracker
	buffer  *MessageBuffer

	pumpOnce  sync.Once
	closeOnce sync.Once
	done      chan struct{}

	newClientID func() string
	now         func() time.Time
}

// NewSession creates a session over the given backend and transport. The
// transport is not connected until the first Open.
func NewSession(backend Backend, tr Transport, cfg SessionConfig) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Session{
		cfg:         cfg,
		backend:     backend,
		transport:   tr,
		store:       NewStore(cfg.Measure),
		ledger:      NewLedger(),
		pending:     NewPendingTracker(),
		buffer:      NewMessageBuffer(),
		done:        make(chan struct{}),
		newClientID: func() string { return "c-" + uuid.NewString() },
		now:         time.Now,
	}
}

// Open switches the session to the given chat: the previous chat's store,
// ledger and cursor are reset, the transport is (re)connected, and the first
// history page is loaded. Re-opening the chat that is already open is a
// no-op, so a double click does not tear the view down.
func (s *Session) Open(ctx context.Context, chatID string) error {
	if chatID == "" {
		return errors.New("chat: empty chat id")
	}

	s.mu.Lock()
	if s.chatID == chatID {
		s.mu.Unlock()
		return nil
	}
	s.chatID = chatID
	s.skip = 0
	s.store.Reset()
	s.ledger.Reset()
	s.mu.Unlock()

	s.transport.Connect()
	s.pumpOnce.Do(func() { go s.pump() })

	return s.loadMessages(ctx, false)
}

// Close tears the session down: the frame pump stops and the transport is
// closed, cancelling any pending reconnect.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() { close(s.done) })
	s.mu.Lock()
	s.chatID = ""
	s.mu.Unlock()
	s.transport.Close(reason)
}

// CurrentChat returns the open chat id, or "" when none is open.
func (s *Session) CurrentChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatID
}

// Messages returns a snapshot of the open chat's timeline.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Messages()
}

// Viewport returns a copy of the current scroll state.
func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.store.Viewport()
}

// ScrollTo moves the viewport; the UI calls this as the user scrolls.
func (s *Session) ScrollTo(top int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Viewport().ScrollTo(top)
}

// Preview returns the last few live messages seen for a chat, open or not.
func (s *Session) Preview(chatID string) []Message {
	return s.buffer.Get(chatID)
}

// LoadOlder fetches the next (older) history page and prepends it.
func (s *Session) LoadOlder(ctx context.Context) error {
	return s.loadMessages(ctx, true)
}

// MaybeLoadOlder loads an older page only when the viewport sits at the very
// top — the scroll-listener trigger. The in-flight guard in loadMessages
// keeps repeated triggers from issuing concurrent fetches.
func (s *Session) MaybeLoadOlder(ctx context.Context) error {
	s.mu.Lock()
	atTop := s.store.Viewport().AtTop()
	busy := s.loading
	s.mu.Unlock()
	if !atTop || busy {
		return nil
	}
	return s.loadMessages(ctx, true)
}

// loadMessages fetches one history page at the current cursor. The cursor
// advances by exactly the number of messages returned; an empty batch leaves
// it unchanged, and the caller simply receives nothing new past the end of
// history. Batches arrive newest-first and are reversed into the
// chronological timeline: appended on initial load, prepended as a block
// (with scroll anchoring) when the user scrolls up.
func (s *Session) loadMessages(ctx context.Context, prepend bool) error {
	s.mu.Lock()
	if s.loading || s.chatID == "" {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	chatID, skip := s.chatID, s.skip
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	start := time.Now()
	batch, err := s.backend.Messages(ctx, chatID, skip, s.cfg.PageSize)
	metrics.HistoryFetchSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("chat: load messages: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chatID != chatID {
		// The user switched chats while the fetch was in flight.
		return nil
	}
	s.skip += len(batch)
	if len(batch) == 0 {
		return nil
	}

	chron := make([]Message, len(batch))
	for i, m := range batch {
		chron[len(batch)-1-i] = m
	}

	if prepend {
		s.store.PrependBatch(chron)
	} else {
		for _, m := range chron {
			if m.ID != "" && (s.ledger.Has(m.ID) || s.store.Has(m.ID)) {
				continue
			}
			s.store.Append(m)
		}
	}
	for _, m := range batch {
		s.ledger.Add(m.ID)
	}
	return nil
}

// Send implements the optimistic send path. Whitespace-only content is a
// silent no-op. The message is appended immediately with a provisional
// client id and pending state; it goes out over the socket when it is open,
// otherwise through the REST endpoint. Either way the confirmation is
// reconciled into the provisional entry in place.
func (s *Session) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if err := ValidateMessage(content); err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	s.mu.Lock()
	chatID := s.chatID
	if chatID == "" {
		s.mu.Unlock()
		return errors.New("chat: no open chat")
	}
	clientID := s.newClientID()
	msg := Message{
		ClientID:  clientID,
		ChatID:    chatID,
		Sender:    s.cfg.User,
		Content:   content,
		CreatedAt: s.now(),
		Pending:   true,
	}
	s.store.Append(msg)
	s.store.Viewport().ScrollToBottom()
	s.pending.Track(clientID, chatID)
	metrics.PendingMessages.Inc()
	s.mu.Unlock()

	if s.transport.IsOpen() {
		err := s.transport.Send(protocol.NewMessageFrame(chatID, content, clientID))
		if err == nil {
			metrics.MessagesTotal.WithLabelValues("sent_ws").Inc()
			return nil
		}
		// The socket dropped between the check and the write; fall back.
		log.Printf("[chat] socket send failed, falling back to REST: %v", err)
	}

	confirmed, err := s.backend.SendMessage(ctx, chatID, content, clientID)
	if err != nil {
		return fmt.Errorf("chat: send message: %w", err)
	}
	metrics.MessagesTotal.WithLabelValues("sent_rest").Inc()
	s.reconcileREST(confirmed)
	return nil
}

// reconcileREST folds the REST send response into the timeline, guarding the
// race where the socket reconnected and the gateway echo arrived first.
func (s *Session) reconcileREST(confirmed Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if confirmed.ID != "" && (s.ledger.Has(confirmed.ID) || s.store.Has(confirmed.ID)) {
		metrics.MessagesTotal.WithLabelValues("duplicate").Inc()
		return
	}
	if confirmed.ClientID != "" {
		if _, ok := s.pending.Resolve(confirmed.ClientID); ok {
			metrics.PendingMessages.Dec()
			if s.store.Confirm(confirmed.ClientID, confirmed.ID, confirmed) {
				s.ledger.Add(confirmed.ID)
				return
			}
		}
	}
	if s.store.Append(confirmed) {
		s.ledger.Add(confirmed.ID)
	}
}

// Typing sends a throttled typing notification for the open chat. It is
// fire-and-forget: no typing frame is worth a user-visible error.
func (s *Session) Typing() {
	s.mu.Lock()
	chatID := s.chatID
	s.mu.Unlock()
	if chatID == "" || !s.transport.IsOpen() {
		return
	}
	if s.cfg.Limiter != nil && !s.cfg.Limiter.Allow("typing:"+chatID, ratelimit.RuleTyping) {
		return
	}
	if err := s.transport.Send(protocol.NewTypingFrame(chatID)); err != nil {
		log.Printf("[chat] typing frame failed: %v", err)
	}
}

// Upload sends a file through the REST upload endpoint and appends the
// resulting attachment message.
func (s *Session) Upload(ctx context.Context, filename string, r io.Reader) error {
	s.mu.Lock()
	chatID := s.chatID
	s.mu.Unlock()
	if chatID == "" {
		return errors.New("chat: no open chat")
	}
	if s.cfg.Limiter != nil && !s.cfg.Limiter.Allow("upload:"+chatID, ratelimit.RuleUpload) {
		return errors.New("chat: too many uploads, slow down")
	}

	msg, err := s.backend.Upload(ctx, chatID, filename, r)
	if err != nil {
		return fmt.Errorf("chat: upload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chatID != chatID {
		return nil
	}
	if msg.ID != "" && (s.ledger.Has(msg.ID) || s.store.Has(msg.ID)) {
		return nil
	}
	if s.store.Append(msg) {
		s.ledger.Add(msg.ID)
		s.store.Viewport().ScrollToBottom()
	}
	return nil
}

// StartChat creates a new conversation with the given participants. The
// current user is always included.
func (s *Session) StartChat(ctx context.Context, participants []string) (ChatSummary, error) {
	seen := false
	for _, p := range participants {
		if p == s.cfg.User {
			seen = true
			break
		}
	}
	if !seen && s.cfg.User != "" {
		participants = append(participants, s.cfg.User)
	}
	summary, err := s.backend.StartChat(ctx, participants)
	if err != nil {
		return ChatSummary{}, fmt.Errorf("chat: start chat: %w", err)
	}
	return summary, nil
}

// ---------------------------------------------------------------------------
// Inbound frame handling
// ---------------------------------------------------------------------------

// pump moves frames from the transport into the dispatcher until the session
// closes. All handler errors are contained here; nothing thrown by a frame
// can take the pump down.
func (s *Session) pump() {
	for {
		select {
		case <-s.done:
			return
		case data := <-s.transport.Frames():
			s.handleFrame(data)
		}
	}
}

func (s *Session) handleFrame(data []byte) {
	typ, frame, err := protocol.ParseServerFrame(data)
	if err != nil {
		metrics.FramesDropped.Inc()
		if errors.Is(err, protocol.ErrUnknownFrame) {
			// Forward compatibility: newer gateways may emit types this
			// client does not know yet.
			log.Printf("[chat] ignoring unhandled frame type %q", typ)
		} else {
			log.Printf("[chat] dropping malformed frame: %v", err)
		}
		return
	}

	switch f := frame.(type) {
	case protocol.MessageFrame:
		s.handleMessageFrame(f)
	case protocol.TypingFrame:
		s.handleTypingFrame(f)
	case protocol.PresenceFrame:
		s.emit(Event{Kind: EventPresence, Sender: f.Sender, Online: f.Online})
	}
}

// handleMessageFrame applies the reconciliation and dedup rules:
//
//  1. An echo carrying a tracked clientId confirms the optimistic entry in
//     place when its chatId still matches the tracked chat; a mismatch is a
//     stale echo and is discarded without touching any visible entry.
//  2. A server id already in the ledger or the timeline is a duplicate
//     delivery and a no-op.
//  3. Anything else for the open chat is appended; messages for other chats
//     only feed the preview buffer.
func (s *Session) handleMessageFrame(f protocol.MessageFrame) {
	var events []Event

	s.mu.Lock()
	serverID := f.ID

	if f.ClientID != "" {
		if trackedChat, ok := s.pending.Resolve(f.ClientID); ok {
			metrics.PendingMessages.Dec()
			if trackedChat == f.ChatID {
				if s.store.Confirm(f.ClientID, serverID, fromFrame(f)) {
					s.ledger.Add(serverID)
					if m, found := s.store.Get(serverID); found {
						events = append(events, Event{Kind: EventConfirmed, ChatID: f.ChatID, Message: m})
					}
				} else if serverID != "" {
					// The chat was reset while the send was in flight; the
					// canonical id is still recorded so a later fetch cannot
					// double-insert it.
					s.ledger.Add(serverID)
				}
			}
			s.mu.Unlock()
			s.emitAll(events)
			return
		}
	}

	if serverID != "" && (s.ledger.Has(serverID) || s.store.Has(serverID)) {
		metrics.MessagesTotal.WithLabelValues("duplicate").Inc()
		s.mu.Unlock()
		return
	}

	msg := fromFrame(f)
	s.buffer.Add(f.ChatID, msg)
	if f.ChatID == s.chatID && s.chatID != "" {
		if s.store.Append(msg) {
			s.ledger.Add(serverID)
			metrics.MessagesTotal.WithLabelValues("received").Inc()
			events = append(events, Event{Kind: EventMessage, ChatID: f.ChatID, Message: msg})
		}
	}
	s.mu.Unlock()
	s.emitAll(events)
}

func (s *Session) handleTypingFrame(f protocol.TypingFrame) {
	s.mu.Lock()
	open := f.ChatID == s.chatID && s.chatID != ""
	s.mu.Unlock()
	if open {
		s.emit(Event{Kind: EventTyping, ChatID: f.ChatID, Sender: f.Sender})
	}
}

func (s *Session) emit(ev Event) {
	if s.cfg.OnEvent != nil {
		s.cfg.OnEvent(ev)
	}
}

func (s *Session) emitAll(events []Event) {
	for _, ev := range events {
		s.emit(ev)
	}
}
