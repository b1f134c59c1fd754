package userrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
//
// Subjects are stored together with the issuer that vouched for them, so the same `sub`
// from two issuers maps to two users.
type Repo struct {
	pool   *pgxpool.Pool
	issuer string
}

func NewRepo(pool *pgxpool.Pool, jwtIssuer string) *Repo {
	return &Repo{pool: pool, issuer: jwtIssuer}
}

const selectUser = `
	SELECT
		external_id,
		subject_sub,
		name,
		surname,
		email,
		mobile_number,
		photo_url,
		fleet_working,
		present_rank,
		company,
		current_status,
		is_profile_visible,
		show_email_to_others,
		show_phone_to_others,
		created_at,
		updated_at
	FROM users
`

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (
			external_id,
			subject_iss,
			subject_sub,
			name,
			surname,
			email,
			mobile_number,
			photo_url,
			fleet_working,
			present_rank,
			company,
			current_status,
			is_profile_visible,
			show_email_to_others,
			show_phone_to_others,
			created_at,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		id,
		r.issuer,
		string(u.Subject),
		u.Name,
		u.Surname,
		u.Email,
		u.MobileNumber,
		u.PhotoURL,
		u.FleetWorking,
		u.PresentRank,
		u.Company,
		string(u.CurrentStatus),
		u.IsProfileVisible,
		u.ShowEmailToOthers,
		u.ShowPhoneToOthers,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "users_subject_unique":
				return userrepo.ErrSubjectAlreadyBound
			case "users_external_id_unique":
				return userrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return userrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanUser(tx.QueryRow(ctx, selectUser+` WHERE external_id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if existing.Subject != u.Subject {
			return userrepo.ErrSubjectAlreadyBound
		}

		ct, err := tx.Exec(ctx, `
			UPDATE users
			SET name = $2,
			    surname = $3,
			    email = $4,
			    mobile_number = $5,
			    photo_url = $6,
			    fleet_working = $7,
			    present_rank = $8,
			    company = $9,
			    current_status = $10,
			    is_profile_visible = $11,
			    show_email_to_others = $12,
			    show_phone_to_others = $13,
			    updated_at = $14
			WHERE external_id = $1
		`,
			id,
			u.Name,
			u.Surname,
			u.Email,
			u.MobileNumber,
			u.PhotoURL,
			u.FleetWorking,
			u.PresentRank,
			u.Company,
			string(u.CurrentStatus),
			u.IsProfileVisible,
			u.ShowEmailToOthers,
			u.ShowPhoneToOthers,
			u.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return userrepo.ErrNotFound
		}
		return nil
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE external_id = $1`, uid))
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE subject_iss = $1 AND subject_sub = $2`, r.issuer, string(subject)))
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, selectUser+` ORDER BY lower(name) ASC, external_id ASC`)
}

func (r *Repo) SearchVisible(ctx context.Context, query string, limit int) ([]userrepo.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	sql := selectUser + `
		WHERE is_profile_visible
		  AND (lower(name) LIKE $1
		    OR lower(coalesce(surname, '')) LIKE $1
		    OR lower(coalesce(present_rank, '')) LIKE $1
		    OR lower(coalesce(fleet_working, '')) LIKE $1
		    OR lower(coalesce(company, '')) LIKE $1)
		ORDER BY lower(name) ASC, external_id ASC
	`
	args := []any{postgres.LikePattern(query)}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.query(ctx, sql, args...)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]userrepo.User, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]userrepo.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (userrepo.User, error) {
	var (
		externalID uuid.UUID
		sub        string
		status     string
		u          userrepo.User
	)
	if err := row.Scan(
		&externalID,
		&sub,
		&u.Name,
		&u.Surname,
		&u.Email,
		&u.MobileNumber,
		&u.PhotoURL,
		&u.FleetWorking,
		&u.PresentRank,
		&u.Company,
		&status,
		&u.IsProfileVisible,
		&u.ShowEmailToOthers,
		&u.ShowPhoneToOthers,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	u.ID = domain.UserID(externalID.String())
	u.Subject = domain.SubjectID(sub)
	u.CurrentStatus = domain.UserStatus(status)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
