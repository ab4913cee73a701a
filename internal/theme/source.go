package theme

import (
	"sort"
	"sync"
)

// Listener is called with the new mode after every change
type Listener func(isDark bool)

// Source holds the current light/dark mode and notifies subscribers when it
// changes.
type Source struct {
	mu        sync.Mutex
	dark      bool
	nextID    int
	listeners map[int]Listener
}

// NewSource creates a source starting in the given mode
func NewSource(dark bool) *Source {
	return &Source{
		dark:      dark,
		listeners: make(map[int]Listener),
	}
}

// IsDark reports the current mode
func (s *Source) IsDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Set changes the mode. Listeners run only if the mode actually changed,
// after the lock is released and in subscription order.
func (s *Source) Set(dark bool) {
	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return
	}
	s.dark = dark
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(dark)
	}
}

// Toggle flips the mode and returns the new value
func (s *Source) Toggle() bool {
	s.mu.Lock()
	s.dark = !s.dark
	dark := s.dark
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(dark)
	}
	return dark
}

// Subscribe registers fn and returns a function that removes it
func (s *Source) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// snapshot must be called with s.mu held
func (s *Source) snapshot() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}
