package chat

import (
	"context"
	"testing"
)

func summary(id string) ChatSummary {
	return ChatSummary{ID: id, Participants: []string{"me", "other-" + id}}
}

func TestListPagerAdvancesCursor(t *testing.T) {
	backend := newFakeBackend()
	backend.listPages[0] = []ChatSummary{summary("1"), summary("2")}
	backend.listPages[2] = []ChatSummary{summary("3")}
	// skip=3 has no page: end of the list.
	p := NewListPager(backend, 2)
	ctx := context.Background()

	batch, err := p.LoadMore(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(batch))
	}

	batch, _ = p.LoadMore(ctx)
	if len(batch) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(batch))
	}

	// Past the end: empty batch, cursor stays put.
	batch, _ = p.LoadMore(ctx)
	if len(batch) != 0 {
		t.Fatalf("expected empty batch, got %d", len(batch))
	}
	p.LoadMore(ctx)

	want := []int{0, 2, 3, 3}
	backend.mu.Lock()
	got := backend.listCalls
	backend.mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d: expected skip %d, got %d", i, want[i], got[i])
		}
	}

	chats := p.Chats()
	if len(chats) != 3 {
		t.Fatalf("expected 3 accumulated chats, got %d", len(chats))
	}
	for i, id := range []string{"1", "2", "3"} {
		if chats[i].ID != id {
			t.Errorf("index %d: expected %s, got %s", i, id, chats[i].ID)
		}
	}
}

func TestListPagerInFlightGuard(t *testing.T) {
	backend := newFakeBackend()
	p := NewListPager(backend, 20)

	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	batch, err := p.LoadMore(context.Background())
	if err != nil || batch != nil {
		t.Fatalf("expected silent no-op while loading, got batch=%v err=%v", batch, err)
	}
	backend.mu.Lock()
	calls := len(backend.listCalls)
	backend.mu.Unlock()
	if calls != 0 {
		t.Fatalf("guard bypassed: %d backend calls", calls)
	}
}

func TestListPagerReset(t *testing.T) {
	backend := newFakeBackend()
	backend.listPages[0] = []ChatSummary{summary("1")}
	p := NewListPager(backend, 20)
	ctx := context.Background()

	p.LoadMore(ctx)
	p.Reset()

	if len(p.Chats()) != 0 {
		t.Fatal("expected empty list after reset")
	}
	p.LoadMore(ctx)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if got := backend.listCalls; len(got) != 2 || got[1] != 0 {
		t.Fatalf("expected cursor rewound to 0, calls: %v", got)
	}
}

func TestListPagerDefaultLimit(t *testing.T) {
	p := NewListPager(newFakeBackend(), 0)
	if p.limit != DefaultListPageSize {
		t.Fatalf("expected default limit %d, got %d", DefaultListPageSize, p.limit)
	}
}
