package router

import (
	"context"
	"sync"
)

type navigation struct {
	seq    uint64
	cancel context.CancelFunc
}

// Tracker keeps one in-flight navigation per session. The last navigation
// wins: starting one cancels the previous.
type Tracker struct {
	mu   sync.Mutex
	seq  uint64
	live map[string]navigation
}

func NewTracker() *Tracker {
	return &Tracker{live: make(map[string]navigation)}
}

// Begin returns a context cancelled when a newer navigation starts for
// sessionID. done must be called once the navigation finishes.
func (t *Tracker) Begin(ctx context.Context, sessionID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if prev, ok := t.live[sessionID]; ok {
		prev.cancel()
	}
	t.seq++
	seq := t.seq
	t.live[sessionID] = navigation{seq: seq, cancel: cancel}
	t.mu.Unlock()

	return ctx, func() {
		t.mu.Lock()
		if cur, ok := t.live[sessionID]; ok && cur.seq == seq {
			delete(t.live, sessionID)
		}
		t.mu.Unlock()
		cancel()
	}
}

// InFlight is the number of sessions with a running navigation.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}
