// Package postgres holds the pgx plumbing shared by the Postgres repositories.
package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolationCode     = "23505"
	ForeignKeyViolationCode = "23503"
	NotNullViolationCode    = "23502"
)

// AsPgError unwraps err to a *pgconn.PgError.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// LikePattern builds a case-insensitive substring pattern for use with `lower(col) LIKE $n`,
// escaping LIKE metacharacters in q.
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// UTCDate normalizes a scanned DATE column to UTC midnight.
func UTCDate(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	y, m, d := p.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
