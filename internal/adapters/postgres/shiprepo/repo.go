package shiprepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
)

// Repo is a Postgres implementation of shiprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectShip = `
	SELECT
		s.external_id,
		u.external_id,
		s.ship_name,
		s.fleet_type,
		s.rank,
		s.company,
		s.port_of_joining,
		s.onboard_date,
		s.contract_length_months,
		s.sign_off_date,
		s.email,
		s.mobile_number,
		s.is_public,
		s.created_at,
		s.updated_at
	FROM ship_assignments s
	JOIN users u ON u.id = s.user_id
`

const orderShips = ` ORDER BY s.created_at ASC, s.external_id ASC`

func (r *Repo) Create(ctx context.Context, a shiprepo.Assignment) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return fmt.Errorf("invalid ship assignment id: %w", err)
	}
	owner, err := uuid.Parse(string(a.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		INSERT INTO ship_assignments (
			external_id,
			user_id,
			ship_name,
			fleet_type,
			rank,
			company,
			port_of_joining,
			onboard_date,
			contract_length_months,
			sign_off_date,
			email,
			mobile_number,
			is_public,
			created_at,
			updated_at
		)
		SELECT $1, u.id, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		FROM users u
		WHERE u.external_id = $2
	`,
		id,
		owner,
		a.ShipName,
		a.FleetType,
		a.Rank,
		a.Company,
		a.PortOfJoining,
		a.OnboardDate,
		a.ContractLengthMonths,
		a.SignOffDate,
		a.Email,
		a.MobileNumber,
		a.IsPublic,
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "ship_assignments_external_id_unique" {
			return shiprepo.ErrAlreadyExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("ship assignment owner %s does not exist", a.UserID)
	}
	return nil
}

// Update rewrites the mutable fields. Ownership and CreatedAt are fixed at creation.
func (r *Repo) Update(ctx context.Context, a shiprepo.Assignment) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return shiprepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE ship_assignments
		SET ship_name = $2,
		    fleet_type = $3,
		    rank = $4,
		    company = $5,
		    port_of_joining = $6,
		    onboard_date = $7,
		    contract_length_months = $8,
		    sign_off_date = $9,
		    email = $10,
		    mobile_number = $11,
		    is_public = $12,
		    updated_at = $13
		WHERE external_id = $1
	`,
		id,
		a.ShipName,
		a.FleetType,
		a.Rank,
		a.Company,
		a.PortOfJoining,
		a.OnboardDate,
		a.ContractLengthMonths,
		a.SignOffDate,
		a.Email,
		a.MobileNumber,
		a.IsPublic,
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return shiprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ShipAssignmentID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return shiprepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM ship_assignments WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return shiprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ShipAssignmentID) (shiprepo.Assignment, error) {
	if r.pool == nil {
		return shiprepo.Assignment{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return shiprepo.Assignment{}, shiprepo.ErrNotFound
	}
	return scanShip(r.pool.QueryRow(ctx, selectShip+` WHERE s.external_id = $1`, uid))
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]shiprepo.Assignment, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return []shiprepo.Assignment{}, nil
	}
	return r.query(ctx, selectShip+` WHERE u.external_id = $1`+orderShips, uid)
}

func (r *Repo) ListPublic(ctx context.Context) ([]shiprepo.Assignment, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, selectShip+` WHERE s.is_public`+orderShips)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]shiprepo.Assignment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shiprepo.Assignment, 0)
	for rows.Next() {
		a, err := scanShip(rows)
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

func scanShip(row interface {
	Scan(dest ...any) error
}) (shiprepo.Assignment, error) {
	var (
		externalID uuid.UUID
		owner      uuid.UUID
		a          shiprepo.Assignment
	)
	if err := row.Scan(
		&externalID,
		&owner,
		&a.ShipName,
		&a.FleetType,
		&a.Rank,
		&a.Company,
		&a.PortOfJoining,
		&a.OnboardDate,
		&a.ContractLengthMonths,
		&a.SignOffDate,
		&a.Email,
		&a.MobileNumber,
		&a.IsPublic,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shiprepo.Assignment{}, shiprepo.ErrNotFound
		}
		return shiprepo.Assignment{}, err
	}
	a.ID = domain.ShipAssignmentID(externalID.String())
	a.UserID = domain.UserID(owner.String())
	a.OnboardDate = postgres.UTCDate(a.OnboardDate)
	a.SignOffDate = postgres.UTCDate(a.SignOffDate)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}
