package landrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
)

// Repo is a Postgres implementation of landrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectLand = `
	SELECT
		l.external_id,
		u.external_id,
		l.last_vessel,
		l.fleet_type,
		l.company,
		l.date_home,
		l.expected_joining_date,
		l.email,
		l.mobile_number,
		l.is_public,
		l.created_at,
		l.updated_at
	FROM land_assignments l
	JOIN users u ON u.id = l.user_id
`

const orderLands = ` ORDER BY l.created_at ASC, l.external_id ASC`

func (r *Repo) Create(ctx context.Context, a landrepo.Assignment) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return fmt.Errorf("invalid land assignment id: %w", err)
	}
	owner, err := uuid.Parse(string(a.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		INSERT INTO land_assignments (
			external_id,
			user_id,
			last_vessel,
			fleet_type,
			company,
			date_home,
			expected_joining_date,
			email,
			mobile_number,
			is_public,
			created_at,
			updated_at
		)
		SELECT $1, u.id, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		FROM users u
		WHERE u.external_id = $2
	`,
		id,
		owner,
		a.LastVessel,
		a.FleetType,
		a.Company,
		a.DateHome,
		a.ExpectedJoiningDate,
		a.Email,
		a.MobileNumber,
		a.IsPublic,
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "land_assignments_external_id_unique" {
			return landrepo.ErrAlreadyExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("land assignment owner %s does not exist", a.UserID)
	}
	return nil
}

// Update rewrites the mutable fields. Ownership and CreatedAt are fixed at creation.
func (r *Repo) Update(ctx context.Context, a landrepo.Assignment) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return landrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE land_assignments
		SET last_vessel = $2,
		    fleet_type = $3,
		    company = $4,
		    date_home = $5,
		    expected_joining_date = $6,
		    email = $7,
		    mobile_number = $8,
		    is_public = $9,
		    updated_at = $10
		WHERE external_id = $1
	`,
		id,
		a.LastVessel,
		a.FleetType,
		a.Company,
		a.DateHome,
		a.ExpectedJoiningDate,
		a.Email,
		a.MobileNumber,
		a.IsPublic,
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return landrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.LandAssignmentID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return landrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM land_assignments WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return landrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.LandAssignmentID) (landrepo.Assignment, error) {
	if r.pool == nil {
		return landrepo.Assignment{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return landrepo.Assignment{}, landrepo.ErrNotFound
	}
	return scanLand(r.pool.QueryRow(ctx, selectLand+` WHERE l.external_id = $1`, uid))
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]landrepo.Assignment, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return []landrepo.Assignment{}, nil
	}
	return r.query(ctx, selectLand+` WHERE u.external_id = $1`+orderLands, uid)
}

func (r *Repo) ListPublic(ctx context.Context) ([]landrepo.Assignment, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, selectLand+` WHERE l.is_public`+orderLands)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]landrepo.Assignment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]landrepo.Assignment, 0)
	for rows.Next() {
		a, err := scanLand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanLand(row interface {
	Scan(dest ...any) error
}) (landrepo.Assignment, error) {
	var (
		externalID uuid.UUID
		owner      uuid.UUID
		a          landrepo.Assignment
	)
	if err := row.Scan(
		&externalID,
		&owner,
		&a.LastVessel,
		&a.FleetType,
		&a.Company,
		&a.DateHome,
		&a.ExpectedJoiningDate,
		&a.Email,
		&a.MobileNumber,
		&a.IsPublic,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return landrepo.Assignment{}, landrepo.ErrNotFound
		}
		return landrepo.Assignment{}, err
	}
	a.ID = domain.LandAssignmentID(externalID.String())
	a.UserID = domain.UserID(owner.String())
	a.DateHome = postgres.UTCDate(a.DateHome)
	a.ExpectedJoiningDate = postgres.UTCDate(a.ExpectedJoiningDate)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}
