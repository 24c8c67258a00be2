// Package repository defines the contact store interface and errors.
package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/addressbook/internal/domain/contact"
	"github.com/okian/addressbook/pkg/metrics"
)

// MemStore is an in-memory Store backed by an ordered slice.
//
// Lookups are linear scans by exact id. All access goes through mu; records
// are cloned on the way in and out so no caller shares a map with the store.
type MemStore struct {
	mu       sync.RWMutex
	contacts []Contact
	nextID   uint64

	seed []Contact
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty store whose first id is "1".
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		contacts: make([]Contact, 0),
		nextID:   1,
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, c := range s.seed {
		s.appendLocked(c)
	}
	s.seed = nil

	s.publish()
	return s
}

// Create implements Store.
func (s *MemStore) Create(ctx context.Context, payload Contact) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer observe("create", time.Now())

	s.mu.Lock()
	c := s.appendLocked(payload)
	s.mu.Unlock()

	s.publish()
	return c.Clone(), nil
}

// appendLocked mints the next id and appends. Caller holds mu.
func (s *MemStore) appendLocked(payload Contact) Contact {
	c := payload.WithID(strconv.FormatUint(s.nextID, 10))
	s.nextID++
	s.contacts = append(s.contacts, c)
	return c
}

// List implements Store.
func (s *MemStore) List(ctx context.Context) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer observe("list", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	return contact.CloneAll(s.contacts), nil
}

// Get implements Store.
func (s *MemStore) Get(ctx context.Context, id string) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer observe("get", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return s.contacts[i].Clone(), nil
}

// Update implements Store.
func (s *MemStore) Update(ctx context.Context, id string, payload Contact) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer observe("update", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s.contacts[i] = s.contacts[i].Merge(payload)
	return s.contacts[i].Clone(), nil
}

// Delete implements Store.
func (s *MemStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer observe("delete", time.Now())

	s.mu.Lock()
	before := len(s.contacts)
	kept := make([]Contact, 0, before)
	for _, c := range s.contacts {
		if c.ID() != id {
			kept = append(kept, c)
		}
	}
	removed := len(kept) < before
	if removed {
		s.contacts = kept
	}
	s.mu.Unlock()

	if !removed {
		return ErrNotFound
	}
	s.publish()
	return nil
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

// NextID returns the id the next Create will assign.
func (s *MemStore) NextID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// indexLocked returns the position of the first contact with id, or -1.
func (s *MemStore) indexLocked(id string) int {
	for i, c := range s.contacts {
		if c.ID() == id {
			return i
		}
	}
	return -1
}

// publish pushes size gauges to metrics.
func (s *MemStore) publish() {
	s.mu.RLock()
	n, next := len(s.contacts), s.nextID
	s.mu.RUnlock()

	metrics.UpdateContactsTotal(n)
	metrics.UpdateContactsNextID(next)
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}
