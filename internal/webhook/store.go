package webhook

import (
	"maps"
	"slices"
	"sync"
)

// Store is a thread-safe in-memory repository for settlement events and
// their adjustments: a map store like internal/store, scoped to this
// package's own types, except that a single lock guards transactions,
// adjustments and idempotency keys where internal/store keeps one lock per
// entity.
type Store struct {
	mu              sync.RWMutex
	events          map[string]SettlementEvent
	adjustments     map[string][]Adjustment // keyed by original event id
	idempotencyKeys map[string]string       // idempotency key -> event/adjustment id
}

func NewStore() *Store {
	return &Store{
		events:          make(map[string]SettlementEvent),
		adjustments:     make(map[string][]Adjustment),
		idempotencyKeys: make(map[string]string),
	}
}

// SaveEvent atomically checks idempotency and id uniqueness under one write
// lock, closing the check-then-act race a separate check and insert would
// leave open.
func (s *Store) SaveEvent(e SettlementEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.idempotencyKeys[e.Delivery.IdempotencyKey]; exists {
		return ErrDuplicateIdempotencyKey
	}
	if _, exists := s.events[e.ID]; exists {
		return ErrDuplicateTransactionID
	}
	s.idempotencyKeys[e.Delivery.IdempotencyKey] = e.ID
	s.events[e.ID] = e
	return nil
}

// SaveAdjustment atomically re-checks idempotency under the write lock
// before appending.
func (s *Store) SaveAdjustment(a Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.idempotencyKeys[a.Delivery.IdempotencyKey]; exists {
		return ErrDuplicateIdempotencyKey
	}
	s.idempotencyKeys[a.Delivery.IdempotencyKey] = a.ID
	s.adjustments[a.OriginalTransactionID] = append(s.adjustments[a.OriginalTransactionID], a)
	return nil
}

func (s *Store) GetEvent(id string) (SettlementEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return SettlementEvent{}, ErrTransactionNotFound
	}
	return e, nil
}

// AdjustmentsFor returns a defensive copy of the adjustments recorded
// against originalEventID.
func (s *Store) AdjustmentsFor(originalEventID string) []Adjustment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.adjustments[originalEventID])
}

// PeekIdempotencyKey is the advisory, non-atomic pre-check the service layer
// uses before doing any work — the real guarantee lives in SaveEvent /
// SaveAdjustment's re-check under the write lock.
func (s *Store) PeekIdempotencyKey(key string) (id string, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, found = s.idempotencyKeys[key]
	return id, found
}

func (s *Store) ListEvents() []SettlementEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Values(s.events))
}
