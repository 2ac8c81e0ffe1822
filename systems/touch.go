package systems

import "sync"

// MaxTouches is the fixed capacity of concurrently tracked touches.
// Contacts beyond this are dropped.
const MaxTouches = 8

// TouchStore is the single hand-off point between input-producing code and
// the simulation. Writes are exclusive; snapshot reads may run concurrently
// with each other and never observe a partially written mapping. A frame may
// see a snapshot up to one input-delivery interval stale, which is accepted.
type TouchStore struct {
	mu      sync.RWMutex
	touches map[int32]Vec2
}

// NewTouchStore creates an empty touch store.
func NewTouchStore() *TouchStore {
	return &TouchStore{touches: make(map[int32]Vec2, MaxTouches)}
}

// Begin registers a new contact. A contact arriving at capacity is dropped.
func (s *TouchStore) Begin(id int32, pos Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.touches[id]; !ok && len(s.touches) >= MaxTouches {
		return
	}
	s.touches[id] = pos
}

// Move updates a contact position. An unknown id begins a new contact, so a
// gesture that started before the store existed still tracks.
func (s *TouchStore) Move(id int32, pos Vec2) {
	s.Begin(id, pos)
}

// End removes a contact. Ending an unknown id is a no-op.
func (s *TouchStore) End(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.touches, id)
}

// Reset removes all contacts.
func (s *TouchStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.touches)
}

// Set replaces the whole mapping. Entries beyond capacity are dropped in
// map enumeration order, which callers must not depend on.
func (s *TouchStore) Set(m map[int32]Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.touches)
	for id, pos := range m {
		if len(s.touches) >= MaxTouches {
			break
		}
		s.touches[id] = pos
	}
}

// Count returns the number of tracked contacts.
func (s *TouchStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.touches)
}

// Snapshot copies at most len(buf) touch positions into buf and zero-fills
// the remaining slots, so the dispatcher always reasons about a full
// fixed-size array. Returns the number of copied touches. Enumeration order
// is unspecified when the store holds more contacts than buf can take.
func (s *TouchStore) Snapshot(buf []Vec2) int {
	s.mu.RLock()
	n := 0
	for _, pos := range s.touches {
		if n >= len(buf) {
			break
		}
		buf[n] = pos
		n++
	}
	s.mu.RUnlock()

	for i := n; i < len(buf); i++ {
		buf[i] = Vec2{}
	}
	return n
}
