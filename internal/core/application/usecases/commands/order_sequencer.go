package commands

import (
	"context"
	"sync"
)

// orderSequencer serialises work per order number inside one process. A holder keeps its
// slot from before the row lock until its notifications are out, so notifications of one
// order leave in commit order.
type orderSequencer struct {
	mu    sync.Mutex
	slots map[string]*orderSlot
}

type orderSlot struct {
	token chan struct{}
	refs  int
}

func newOrderSequencer() *orderSequencer {
	return &orderSequencer{slots: make(map[string]*orderSlot)}
}

// acquire blocks until key is free or ctx is done. The returned release must be called
// exactly once.
func (s *orderSequencer) acquire(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	slot, ok := s.slots[key]
	if !ok {
		slot = &orderSlot{token: make(chan struct{}, 1)}
		s.slots[key] = slot
	}
	slot.refs++
	s.mu.Unlock()

	select {
	case slot.token <- struct{}{}:
		return func() {
			<-slot.token
			s.forget(key, slot)
		}, nil
	case <-ctx.Done():
		s.forget(key, slot)
		return nil, ctx.Err()
	}
}

func (s *orderSequencer) forget(key string, slot *orderSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(s.slots, key)
	}
}

func (s *orderSequencer) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
