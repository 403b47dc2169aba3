package snapshot

import "sync/atomic"

// Store holds the current snapshot behind an atomic pointer. Replacement is
// a single pointer swap, so an in-flight query that captured a reference
// keeps seeing one consistent snapshot end to end.
type Store struct {
	ptr atomic.Pointer[Snapshot]
}

// NewStore creates a store serving the given snapshot.
func NewStore(s *Snapshot) *Store {
	st := &Store{}
	if s != nil {
		st.ptr.Store(s)
	}
	return st
}

// Current returns the snapshot being served, or nil before the first Swap.
func (st *Store) Current() *Snapshot {
	return st.ptr.Load()
}

// Swap atomically replaces the served snapshot and returns the previous one.
func (st *Store) Swap(s *Snapshot) *Snapshot {
	return st.ptr.Swap(s)
}
