// Package memory holds records and the event catalog in process memory. Nothing survives a
// restart; it backs tests and STORE_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"bettercorq/internal/domain"
)

// Store implements domain.RecordStore and domain.EventRepository.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
	events  []domain.CandidateEvent
}

func NewStore() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.records, k)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.CandidateEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CandidateEvent{}, s.events...), nil
}

func (s *Store) ReplaceAll(ctx context.Context, events []domain.CandidateEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]domain.CandidateEvent(nil), events...)
	return nil
}
