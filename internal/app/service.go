// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/addressbook/internal/adapters/repository"
	"github.com/okian/addressbook/internal/domain/contact"
	"github.com/okian/addressbook/internal/domain/interest"
	"github.com/okian/addressbook/pkg/logger"
	"github.com/okian/addressbook/pkg/metrics"
)

// Operation outcomes reported to metrics.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Service owns the contact store and implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	injected  bool
	storeOpts []repository.Option

	// State
	started   bool
	startedAt time.Time
	now       func() time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		now:    time.Now,
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start creates the contact store unless one was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting address book service...")

	if s.store == nil {
		s.store = repository.NewMemStore(s.storeOpts...)
		s.logger.Info(ctx, "using in-memory contact store")
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "address book service started",
		logger.Int("contacts", s.store.Count(ctx)),
		logger.Bool("injectedStore", s.injected),
	)

	return nil
}

// Stop releases the store. Contacts held by a store created in Start are lost.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping address book service...")

	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	if !s.injected {
		s.store = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "address book service stopped")
}

// contacts returns the live store or ErrNotStarted.
func (s *Service) contacts() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// CreateContact stores payload under a freshly minted id.
func (s *Service) CreateContact(ctx context.Context, payload contact.Contact) (contact.Contact, error) {
	store, err := s.contacts()
	if err != nil {
		return nil, err
	}

	c, err := store.Create(ctx, payload)
	s.record(ctx, "create", c.ID(), err)
	return c, err
}

// ListContacts returns every contact in creation order.
func (s *Service) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	store, err := s.contacts()
	if err != nil {
		return nil, err
	}

	list, err := store.List(ctx)
	s.record(ctx, "list", "", err)
	return list, err
}

// GetContact returns the contact with the given id.
func (s *Service) GetContact(ctx context.Context, id string) (contact.Contact, error) {
	store, err := s.contacts()
	if err != nil {
		return nil, err
	}

	c, err := store.Get(ctx, id)
	s.record(ctx, "get", id, err)
	return c, err
}

// UpdateContact shallow-merges payload into the stored contact.
func (s *Service) UpdateContact(ctx context.Context, id string, payload contact.Contact) (contact.Contact, error) {
	store, err := s.contacts()
	if err != nil {
		return nil, err
	}

	c, err := store.Update(ctx, id, payload)
	s.record(ctx, "update", id, err)
	return c, err
}

// DeleteContact removes the contact with the given id.
func (s *Service) DeleteContact(ctx context.Context, id string) error {
	store, err := s.contacts()
	if err != nil {
		return err
	}

	err = store.Delete(ctx, id)
	s.record(ctx, "delete", id, err)
	return err
}

// CompoundInterest evaluates the formula at the current clock time.
func (s *Service) CompoundInterest(ctx context.Context, in interest.Input) interest.Result {
	res := interest.Compound(in, s.Now())

	kind := "number"
	if !res.Result.Valid() {
		kind = "nan"
	}
	metrics.RecordInterestCalculation(kind)

	s.log().Debug(ctx, "compound interest calculated",
		logger.Any("prin", in.Principal),
		logger.Any("rate", in.Rate),
		logger.Any("time", in.Time),
		logger.String("result", kind),
	)
	return res
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

// record reports an operation outcome to metrics and the debug log.
func (s *Service) record(ctx context.Context, op, id string, err error) {
	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		outcome = outcomeNotFound
	default:
		outcome = outcomeError
	}
	metrics.RecordContactOperation(op, outcome)

	if outcome == outcomeError {
		s.log().Warn(ctx, "contact operation failed",
			logger.String("operation", op),
			logger.String("id", id),
			logger.Error(err),
		)
		return
	}
	s.log().Debug(ctx, "contact operation",
		logger.String("operation", op),
		logger.String("id", id),
		logger.String("outcome", outcome),
	)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		uptime := s.now().Sub(s.startedAt)
		totalContacts := s.store.Count(ctx)

		stats["totalContacts"] = totalContacts
		stats["uptimeSeconds"] = int64(uptime / time.Second)
		if ids, ok := s.store.(interface{ NextID() uint64 }); ok {
			stats["nextId"] = ids.NextID()
		}

		// Update metrics
		metrics.UpdateContactsTotal(totalContacts)
		metrics.UpdateUptime(uptime)
	}

	return stats
}
