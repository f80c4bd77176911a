package limit

import (
	"sync"

	"github.com/hupe1980/tinyservice/core"
)

// Semaphore bounds the number of in-flight calls shared by one or more
// ConcurrencyLimit handles.
type Semaphore struct {
	max      int
	inFlight int
	waiters  []core.Waker
	mu       sync.Mutex
}

// NewSemaphore creates a semaphore with max permits.
// If max <= 0, unlimited permits are available.
func NewSemaphore(max int) *Semaphore {
	return &Semaphore{max: max}
}

// TryAcquire takes a permit. When none is available the waker is parked and
// woken on the next Release.
func (s *Semaphore) TryAcquire(w core.Waker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && s.inFlight >= s.max {
		if w != nil {
			s.waiters = append(s.waiters, w)
		}
		return false
	}

	s.inFlight++

	return true
}

// Release returns a permit and wakes every parked waiter. Waiters race for
// the freed permit on their next poll.
func (s *Semaphore) Release() {
	s.mu.Lock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	for _, w := range waiters {
		w.Wake()
	}
}

// InFlight returns the number of permits currently held.
func (s *Semaphore) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inFlight
}

// Available returns how many permits are left.
func (s *Semaphore) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max <= 0 {
		return -1 // unlimited
	}

	return s.max - s.inFlight
}
