package store

import (
	"context"
	"sync"
	"time"

	"procurement-service/internal/sheets"

	"go.uber.org/zap"
)

// Gateway is the slice of the sheet client the store depends on.
type Gateway interface {
	FetchRows(ctx context.Context, sheetName string) ([]sheets.Row, error)
	Submit(ctx context.Context, action sheets.Action, sheetName string, rows []map[string]interface{}) error
}

// Store is the single shared read model over the remote sheets. Every screen
// reads through it instead of re-fetching per screen; mutations go through
// Submit, which schedules a delayed re-fetch of the affected sheet rather
// than reconciling optimistically.
type Store struct {
	gateway      Gateway
	refreshDelay time.Duration
	logger       *zap.Logger

	mu          sync.RWMutex
	cache       map[string][]sheets.Row
	subscribers []func(sheetName string)
}

// New creates a record store over the given gateway.
func New(gateway Gateway, refreshDelay time.Duration, logger *zap.Logger) *Store {
	return &Store{
		gateway:      gateway,
		refreshDelay: refreshDelay,
		logger:       logger,
		cache:        make(map[string][]sheets.Row),
	}
}

// Rows returns the cached rows for a sheet, fetching on first access.
func (s *Store) Rows(ctx context.Context, sheetName string) ([]sheets.Row, error) {
	s.mu.RLock()
	rows, ok := s.cache[sheetName]
	s.mu.RUnlock()
	if ok {
		return rows, nil
	}
	return s.Refresh(ctx, sheetName)
}

// Refresh re-fetches a sheet, replaces the cached rows and notifies
// subscribers. On fetch failure the previous cache entry is kept.
func (s *Store) Refresh(ctx context.Context, sheetName string) ([]sheets.Row, error) {
	rows, err := s.gateway.FetchRows(ctx, sheetName)
	if err != nil {
		s.logger.Error("Sheet refresh failed",
			zap.String("sheet", sheetName),
			zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.cache[sheetName] = rows
	subs := make([]func(string), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sheetName)
	}
	return rows, nil
}

// Submit forwards a mutation to the gateway. On success the affected sheet is
// re-fetched after a fixed delay; the remote backend may not have finished
// processing immediately, so the delay is best effort, not read-your-writes.
// On failure the cache is left untouched and the error goes back to the
// caller; there is no retry.
func (s *Store) Submit(ctx context.Context, action sheets.Action, sheetName string, rows []map[string]interface{}) error {
	if err := s.gateway.Submit(ctx, action, sheetName, rows); err != nil {
		return err
	}

	time.AfterFunc(s.refreshDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Refresh(ctx, sheetName); err != nil {
			s.logger.Warn("Post-mutation refresh failed, cache is stale until next fetch",
				zap.String("sheet", sheetName),
				zap.Error(err))
		}
	})
	return nil
}

// Subscribe registers a callback invoked with the sheet name after every
// successful refresh.
func (s *Store) Subscribe(fn func(sheetName string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Invalidate drops the cached rows for a sheet so the next read re-fetches.
func (s *Store) Invalidate(sheetName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, sheetName)
}

var instance *Store

// Init sets the shared store instance
func Init(s *Store) {
	instance = s
}

// Get returns the shared store instance
func Get() *Store {
	return instance
}
