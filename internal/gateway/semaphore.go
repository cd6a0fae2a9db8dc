package gateway

import (
	"context"
	"sync"
)

// semaphore is a counting semaphore with a strict FIFO wait queue. A released
// slot is handed directly to the queue head so waiters are admitted in
// arrival order.
type semaphore struct {
	mu       sync.Mutex
	capacity int
	inFlight int
	waiters  []chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	if capacity <= 0 {
		capacity = 1
	}
	return &semaphore{capacity: capacity}
}

// Acquire blocks until a slot is free or the context is done.
func (s *semaphore) Acquire(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight < s.capacity {
		s.inFlight++
		s.mu.Unlock()
		return nil
	}

	ready := make(chan struct{})
	s.waiters = append(s.waiters, ready)
	s.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for i, w := range s.waiters {
			if w == ready {
				s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
				s.mu.Unlock()
				return ctx.Err()
			}
		}
		s.mu.Unlock()
		// The slot was granted between ctx.Done and taking the lock; give
		// it back so it is not leaked.
		s.Release()
		return ctx.Err()
	}
}

// Release frees a slot, dispatching the oldest waiter if any is queued.
func (s *semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waiters) > 0 {
		ready := s.waiters[0]
		s.waiters = s.waiters[1:]
		close(ready)
		return
	}
	if s.inFlight > 0 {
		s.inFlight--
	}
}

// InFlight reports the number of currently admitted calls.
func (s *semaphore) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
