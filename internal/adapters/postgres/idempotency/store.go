package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
)

// Store keeps replayable responses in the idempotency_keys table. Subjects are
// scoped by the configured token issuer.
type Store struct {
	pool   *pgxpool.Pool
	issuer string
}

func NewStore(pool *pgxpool.Pool, jwtIssuer string) *Store {
	return &Store{pool: pool, issuer: jwtIssuer}
}

const fingerprintClause = `
	idempotency_key = @key
	AND subject_iss = @iss
	AND subject_sub = @sub
	AND method = @method
	AND route = @route
	AND body_hash = @body_hash
`

func (s *Store) args(fp idempotency.Fingerprint) pgx.NamedArgs {
	return pgx.NamedArgs{
		"key":       string(fp.Key),
		"iss":       s.issuer,
		"sub":       string(fp.Subject),
		"method":    fp.Method,
		"route":     fp.Route,
		"body_hash": fp.BodyHash,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, errors.New("nil postgres pool")
	}
	var rec idempotency.Record
	err := s.pool.QueryRow(ctx, `
		SELECT status_code, content_type, body, created_at
		FROM idempotency_keys
		WHERE`+fingerprintClause, s.args(fp)).
		Scan(&rec.StatusCode, &rec.ContentType, &rec.Body, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return idempotency.Record{}, false, nil
	}
	if err != nil {
		return idempotency.Record{}, false, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true, nil
}

// Put stores rec, replacing any record already held for the same fingerprint.
func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	body := rec.Body
	if body == nil {
		body = []byte{}
	}

	args := s.args(fp)
	args["status_code"] = rec.StatusCode
	args["content_type"] = rec.ContentType
	args["body"] = body
	args["created_at"] = createdAt.UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (
			idempotency_key, subject_iss, subject_sub, method, route, body_hash,
			status_code, content_type, body, created_at
		) VALUES (
			@key, @iss, @sub, @method, @route, @body_hash,
			@status_code, @content_type, @body, @created_at
		)
		ON CONFLICT (idempotency_key, subject_iss, subject_sub, method, route, body_hash)
		DO UPDATE SET
			status_code = EXCLUDED.status_code,
			content_type = EXCLUDED.content_type,
			body = EXCLUDED.body,
			created_at = EXCLUDED.created_at
	`, args)
	return err
}
