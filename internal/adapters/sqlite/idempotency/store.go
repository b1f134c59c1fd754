package idempotency

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
)

// Store is a SQLite implementation of idempotency.Store.
type Store struct {
	db     *gorm.DB
	issuer string
}

func NewStore(db *gorm.DB, jwtIssuer string) *Store {
	return &Store{db: db, issuer: jwtIssuer}
}

func (s *Store) row(fp idempotency.Fingerprint) sqlite.IdempotencyRow {
	return sqlite.IdempotencyRow{
		IdempotencyKey: string(fp.Key),
		SubjectIss:     s.issuer,
		SubjectSub:     string(fp.Subject),
		Method:         fp.Method,
		Route:          fp.Route,
		BodyHash:       fp.BodyHash,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	var row sqlite.IdempotencyRow
	err := s.db.WithContext(ctx).Where(map[string]any{
		"idempotency_key": string(fp.Key),
		"subject_iss":     s.issuer,
		"subject_sub":     string(fp.Subject),
		"method":          fp.Method,
		"route":           fp.Route,
		"body_hash":       fp.BodyHash,
	}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return idempotency.Record{}, false, nil
	}
	if err != nil {
		return idempotency.Record{}, false, err
	}
	return idempotency.Record{
		StatusCode:  row.StatusCode,
		ContentType: row.ContentType,
		Body:        row.Body,
		CreatedAt:   row.CreatedAt.UTC(),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	row := s.row(fp)
	row.StatusCode = rec.StatusCode
	row.ContentType = rec.ContentType
	row.Body = rec.Body
	if row.Body == nil {
		row.Body = []byte{}
	}
	row.CreatedAt = rec.CreatedAt.UTC()
	if rec.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&row).Error
}
