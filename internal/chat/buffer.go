package chat

import "sync"

// MaxBufferMessages is the number of recent messages retained per chat.
const MaxBufferMessages = 5

// MessageBuffer stores the last N messages seen per chat in memory, fed by
// live gateway frames for every conversation, not just the open one. The
// chat list uses it for previews when switching conversations.
// It is goroutine-safe and uses a ring buffer internally.
type MessageBuffer struct {
	mu      sync.RWMutex
	buffers map[string]*ringBuffer // chatID -> ring buffer
}

// ringBuffer is a fixed-size circular buffer of Message.
type ringBuffer struct {
	items []Message
	pos   int
	count int
}

// NewMessageBuffer creates a new empty MessageBuffer.
func NewMessageBuffer() *MessageBuffer {
	return &MessageBuffer{
		buffers: make(map[string]*ringBuffer),
	}
}

// Add appends a message to the chat's ring buffer. If the buffer is full,
// the oldest message is overwritten.
func (mb *MessageBuffer) Add(chatID string, msg Message) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	rb, ok := mb.buffers[chatID]
	if !ok {
		rb = &ringBuffer{
			items: make([]Message, MaxBufferMessages),
		}
		mb.buffers[chatID] = rb
	}

	rb.items[rb.pos] = msg
	rb.pos = (rb.pos + 1) % MaxBufferMessages
	if rb.count < MaxBufferMessages {
		rb.count++
	}
}

// Get returns the last N messages for a chat in chronological order
// (oldest first). Returns an empty slice if the chat has no buffer.
func (mb *MessageBuffer) Get(chatID string) []Message {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	rb, ok := mb.buffers[chatID]
	if !ok {
		return []Message{}
	}

	result := make([]Message, rb.count)
	// The oldest message is at position (pos - count) mod MaxBufferMessages.
	start := (rb.pos - rb.count + MaxBufferMessages) % MaxBufferMessages
	for i := 0; i < rb.count; i++ {
		result[i] = rb.items[(start+i)%MaxBufferMessages]
	}
	return result
}

// Remove deletes the buffer for a chat.
func (mb *MessageBuffer) Remove(chatID string) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	delete(mb.buffers, chatID)
}
