// Package session keeps one draft order per browser session, in memory.
// There is no cross-session shared state; the store exists so discrete HTTP
// requests from the same client mutate a single draft, and so a delivery
// quote that arrives late can never clobber a draft whose address has moved
// on since the quote was requested.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/marmitafamilia/ordering/internal/delivery"
	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

// ErrNotFound is returned for an unknown or expired session ID.
var ErrNotFound = errors.New("session not found")

type entry struct {
	draft   selection.Draft
	quote   *delivery.Quote
	touched time.Time
}

// Store is a TTL-bounded in-memory session map.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	now     func() time.Time
}

// NewStore creates a Store. Sessions idle longer than ttl are evicted by
// the sweeper.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Create registers a new session holding the given draft and returns its ID.
func (s *Store) Create(d selection.Draft) string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry{draft: d, touched: s.now()}
	return id
}

// Get returns the current draft and the delivery quote, if one is installed.
func (s *Store) Get(id string) (selection.Draft, *delivery.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return selection.Draft{}, nil, ErrNotFound
	}
	e.touched = s.now()

	var q *delivery.Quote
	if e.quote != nil {
		cp := *e.quote
		q = &cp
	}
	return e.draft, q, nil
}

// Apply runs fn on the session's draft under the store lock and installs
// the result. If fn rejects the update, the draft stays as it was.
func (s *Store) Apply(id string, fn func(selection.Draft) (selection.Draft, error)) (selection.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return selection.Draft{}, ErrNotFound
	}
	e.touched = s.now()

	next, err := fn(e.draft)
	if err != nil {
		return e.draft, err
	}
	e.draft = next
	return next, nil
}

// PutQuote installs a delivery quote, but only if the draft's address still
// matches the address the quote was computed for. A stale completion is
// dropped and reported as false.
func (s *Store) PutQuote(id string, q delivery.Quote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.draft.Address != q.Address {
		return false
	}
	e.quote = &q
	e.touched = s.now()
	return true
}

// Reset replaces the session's draft with a fresh one and drops any quote.
// Used after a successful submission.
func (s *Store) Reset(id string, d selection.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.draft = d
	e.quote = nil
	e.touched = s.now()
	return nil
}

// StartSweeper launches a goroutine that evicts idle sessions every
// interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.sweep(now)
			}
		}
	}()
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if now.Sub(e.touched) >= s.ttl {
			delete(s.entries, id)
		}
	}
}
