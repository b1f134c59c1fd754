package userrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

// Repo is a SQLite implementation of userrepo.Repository. Subject lookups are scoped by
// issuer; listing and search span every issuer.
type Repo struct {
	db     *gorm.DB
	issuer string
}

func NewRepo(db *gorm.DB, jwtIssuer string) *Repo {
	return &Repo{db: db, issuer: jwtIssuer}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	if u.ID == "" {
		return userrepo.ErrAlreadyExists
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&sqlite.UserRow{}).Where("external_id = ?", string(u.ID)).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return userrepo.ErrAlreadyExists
		}
		if err := tx.Model(&sqlite.UserRow{}).
			Where("subject_iss = ? AND subject_sub = ?", r.issuer, string(u.Subject)).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return userrepo.ErrSubjectAlreadyBound
		}

		row := toRow(u, r.issuer)
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return userrepo.ErrSubjectAlreadyBound
			}
			return err
		}
		return nil
	})
}

// Update rewrites the mutable profile fields. The subject binding cannot change.
func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing sqlite.UserRow
		err := tx.Where("external_id = ?", string(u.ID)).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userrepo.ErrNotFound
		}
		if err != nil {
			return err
		}
		if existing.SubjectSub != string(u.Subject) || existing.SubjectIss != r.issuer {
			return userrepo.ErrSubjectAlreadyBound
		}

		return tx.Model(&existing).Updates(map[string]any{
			"name":                 u.Name,
			"name_lower":           strings.ToLower(u.Name),
			"surname":              u.Surname,
			"email":                u.Email,
			"mobile_number":        u.MobileNumber,
			"photo_url":            u.PhotoURL,
			"fleet_working":        u.FleetWorking,
			"present_rank":         u.PresentRank,
			"company":              u.Company,
			"current_status":       string(u.CurrentStatus),
			"is_profile_visible":   u.IsProfileVisible,
			"show_email_to_others": u.ShowEmailToOthers,
			"show_phone_to_others": u.ShowPhoneToOthers,
			"updated_at":           u.UpdatedAt.UTC(),
		}).Error
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	return r.take(ctx, "external_id = ?", string(id))
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (userrepo.User, error) {
	return r.take(ctx, "subject_iss = ? AND subject_sub = ?", r.issuer, string(subject))
}

func (r *Repo) take(ctx context.Context, query string, args ...any) (userrepo.User, error) {
	var row sqlite.UserRow
	err := r.db.WithContext(ctx).Where(query, args...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	if err != nil {
		return userrepo.User{}, err
	}
	return fromRow(row), nil
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	var rows []sqlite.UserRow
	if err := r.db.WithContext(ctx).
		Order("name_lower ASC, external_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *Repo) SearchVisible(ctx context.Context, query string, limit int) ([]userrepo.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []userrepo.User{}, nil
	}
	pattern := likePattern(q)

	tx := r.db.WithContext(ctx).
		Where("is_profile_visible = ?", true).
		Where(`(name_lower LIKE @p ESCAPE '\'
			OR lower(coalesce(surname, '')) LIKE @p ESCAPE '\'
			OR lower(coalesce(present_rank, '')) LIKE @p ESCAPE '\'
			OR lower(coalesce(fleet_working, '')) LIKE @p ESCAPE '\'
			OR lower(coalesce(company, '')) LIKE @p ESCAPE '\')`, map[string]any{"p": pattern}).
		Order("name_lower ASC, external_id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []sqlite.UserRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func toRow(u userrepo.User, issuer string) sqlite.UserRow {
	return sqlite.UserRow{
		ExternalID:        string(u.ID),
		SubjectIss:        issuer,
		SubjectSub:        string(u.Subject),
		Name:              u.Name,
		NameLower:         strings.ToLower(u.Name),
		Surname:           u.Surname,
		Email:             u.Email,
		MobileNumber:      u.MobileNumber,
		PhotoURL:          u.PhotoURL,
		FleetWorking:      u.FleetWorking,
		PresentRank:       u.PresentRank,
		Company:           u.Company,
		CurrentStatus:     string(u.CurrentStatus),
		IsProfileVisible:  u.IsProfileVisible,
		ShowEmailToOthers: u.ShowEmailToOthers,
		ShowPhoneToOthers: u.ShowPhoneToOthers,
		CreatedAt:         u.CreatedAt.UTC(),
		UpdatedAt:         u.UpdatedAt.UTC(),
	}
}

func fromRow(row sqlite.UserRow) userrepo.User {
	return userrepo.User{
		ID:                domain.UserID(row.ExternalID),
		Subject:           domain.SubjectID(row.SubjectSub),
		Name:              row.Name,
		Surname:           row.Surname,
		Email:             row.Email,
		MobileNumber:      row.MobileNumber,
		PhotoURL:          row.PhotoURL,
		FleetWorking:      row.FleetWorking,
		PresentRank:       row.PresentRank,
		Company:           row.Company,
		CurrentStatus:     domain.UserStatus(row.CurrentStatus),
		IsProfileVisible:  row.IsProfileVisible,
		ShowEmailToOthers: row.ShowEmailToOthers,
		ShowPhoneToOthers: row.ShowPhoneToOthers,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}

func fromRows(rows []sqlite.UserRow) []userrepo.User {
	out := make([]userrepo.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out
}
