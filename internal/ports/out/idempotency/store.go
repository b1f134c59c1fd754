package idempotency

import (
	"context"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request for replay: the same subject sending the same key
// to the same route with the same canonical body.
//
// Route is the concrete request path, so a key sent to two different assignments never
// collides. An empty BodyHash marks the per-key meta record used to detect key reuse.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is a stored response. CreatedAt lets stores expire old keys.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists responses of mutating calls so retries replay them.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
