package landrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
)

// Repo is a SQLite implementation of landrepo.Repository.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, a landrepo.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, ok, err := sqlite.OwnerRowID(tx, string(a.UserID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("land assignment owner %s does not exist", a.UserID)
		}
		row := sqlite.LandAssignmentRow{
			ExternalID:          string(a.ID),
			UserID:              owner,
			LastVessel:          a.LastVessel,
			FleetType:           a.FleetType,
			Company:             a.Company,
			DateHome:            sqlite.UTCDate(a.DateHome),
			ExpectedJoiningDate: sqlite.UTCDate(a.ExpectedJoiningDate),
			Email:               a.Email,
			MobileNumber:        a.MobileNumber,
			IsPublic:            a.IsPublic,
			CreatedAt:           a.CreatedAt.UTC(),
			UpdatedAt:           a.UpdatedAt.UTC(),
		}
		err = tx.Omit(clause.Associations).Create(&row).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return landrepo.ErrAlreadyExists
		}
		return err
	})
}

func (r *Repo) Update(ctx context.Context, a landrepo.Assignment) error {
	res := r.db.WithContext(ctx).
		Model(&sqlite.LandAssignmentRow{}).
		Where("external_id = ?", string(a.ID)).
		Updates(map[string]any{
			"last_vessel":           a.LastVessel,
			"fleet_type":            a.FleetType,
			"company":               a.Company,
			"date_home":             sqlite.UTCDate(a.DateHome),
			"expected_joining_date": sqlite.UTCDate(a.ExpectedJoiningDate),
			"email":                 a.Email,
			"mobile_number":         a.MobileNumber,
			"is_public":             a.IsPublic,
			"updated_at":            a.UpdatedAt.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return landrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.LandAssignmentID) error {
	res := r.db.WithContext(ctx).Where("external_id = ?", string(id)).Delete(&sqlite.LandAssignmentRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return landrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.LandAssignmentID) (landrepo.Assignment, error) {
	var row sqlite.LandAssignmentRow
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("land_assignments.external_id = ?", string(id)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return landrepo.Assignment{}, landrepo.ErrNotFound
	}
	if err != nil {
		return landrepo.Assignment{}, err
	}
	return fromRow(row), nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]landrepo.Assignment, error) {
	owner, ok, err := sqlite.OwnerRowID(r.db.WithContext(ctx), string(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []landrepo.Assignment{}, nil
	}
	return r.find(ctx, "land_assignments.user_id = ?", owner)
}

func (r *Repo) ListPublic(ctx context.Context) ([]landrepo.Assignment, error) {
	return r.find(ctx, "land_assignments.is_public = ?", true)
}

func (r *Repo) find(ctx context.Context, query string, args ...any) ([]landrepo.Assignment, error) {
	var rows []sqlite.LandAssignmentRow
	if err := r.db.WithContext(ctx).
		Joins("User").
		Where(query, args...).
		Order("land_assignments.created_at ASC, land_assignments.external_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]landrepo.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func fromRow(row sqlite.LandAssignmentRow) landrepo.Assignment {
	return landrepo.Assignment{
		ID:                  domain.LandAssignmentID(row.ExternalID),
		UserID:              domain.UserID(row.User.ExternalID),
		LastVessel:          row.LastVessel,
		FleetType:           row.FleetType,
		Company:             row.Company,
		DateHome:            sqlite.UTCDate(row.DateHome),
		ExpectedJoiningDate: sqlite.UTCDate(row.ExpectedJoiningDate),
		Email:               row.Email,
		MobileNumber:        row.MobileNumber,
		IsPublic:            row.IsPublic,
		CreatedAt:           row.CreatedAt.UTC(),
		UpdatedAt:           row.UpdatedAt.UTC(),
	}
}
