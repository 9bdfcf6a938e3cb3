package chat

import (
	"context"
	"fmt"
	"sync"
)

// DefaultListPageSize is the chat-list page size.
const DefaultListPageSize = 20

// ListPager loads the conversation list page by page. It keeps its own skip
// counter, separate from any open chat's history cursor, and advances it by
// the length of each returned batch. LoadMore is guarded so overlapping
// calls (the list sentinel becoming visible repeatedly) cannot issue
// concurrent duplicate fetches.
type ListPager struct {
	backend Backend
	limit   int

	mu      sync.Mutex
	skip    int
	loading bool
	chats   []ChatSummary
}

// NewListPager creates a pager over the chat-list endpoint. limit <= 0 uses
// DefaultListPageSize.
func NewListPager(backend Backend, limit int) *ListPager {
	if limit <= 0 {
		limit = DefaultListPageSize
	}
	return &ListPager{backend: backend, limit: limit}
}

// LoadMore fetches the next page and appends it to the accumulated list,
// returning just the new batch. While a fetch is in flight, further calls
// return nil without touching the cursor. An empty batch leaves the cursor
// unchanged.
func (p *ListPager) LoadMore(ctx context.Context) ([]ChatSummary, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, nil
	}
	p.loading = true
	skip := p.skip
	p.mu.Unlock()

	batch, err := p.backend.ListChats(ctx, skip, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		return nil, fmt.Errorf("chat: load chat list: %w", err)
	}
	p.skip += len(batch)
	p.chats = append(p.chats, batch...)
	return batch, nil
}

// Chats returns the accumulated list.
func (p *ListPager) Chats() []ChatSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ChatSummary, len(p.chats))
	copy(out, p.chats)
	return out
}

// Reset clears the list and rewinds the cursor, for a full reload.
func (p *ListPager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skip = 0
	p.chats = nil
}
