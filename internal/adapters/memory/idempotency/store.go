package idempotency

import (
	"context"
	"sync"
	"time"

	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
)

// Store keeps idempotency records in process memory. It is safe for concurrent use.
//
// Without a retention window records live for the life of the process.
type Store struct {
	retention time.Duration
	clk       clockport.Clock

	mu sync.RWMutex
	m  map[idempotency.Fingerprint]idempotency.Record
}

type Option func(*Store)

// WithRetention expires records older than d, measured by clk against Record.CreatedAt.
func WithRetention(d time.Duration, clk clockport.Clock) Option {
	return func(s *Store) {
		s.retention = d
		s.clk = clk
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{m: make(map[idempotency.Fingerprint]idempotency.Record)}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	s.mu.RLock()
	rec, ok := s.m[fp]
	s.mu.RUnlock()
	if !ok || s.expired(rec) {
		return idempotency.Record{}, false, nil
	}
	rec.Body = append([]byte(nil), rec.Body...)
	return rec, true, nil
}

func (s *Store) Put(_ context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	rec.Body = append([]byte(nil), rec.Body...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[fp] = rec
	if s.retention > 0 {
		s.pruneLocked()
	}
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	return s.retention > 0 && s.clk != nil && s.clk.Now().Sub(rec.CreatedAt) > s.retention
}

// pruneLocked drops expired records; callers hold the write lock.
func (s *Store) pruneLocked() {
	for fp, rec := range s.m {
		if s.expired(rec) {
			delete(s.m, fp)
		}
	}
}

// Len reports the number of stored records, expired ones included until the next Put.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
