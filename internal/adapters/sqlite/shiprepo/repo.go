package shiprepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
)

// Repo is a SQLite implementation of shiprepo.Repository.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

const order = "ship_assignments.created_at ASC, ship_assignments.external_id ASC"

func (r *Repo) Create(ctx context.Context, a shiprepo.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, ok, err := sqlite.OwnerRowID(tx, string(a.UserID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("ship assignment owner %s does not exist", a.UserID)
		}
		row := sqlite.ShipAssignmentRow{
			ExternalID:           string(a.ID),
			UserID:               owner,
			ShipName:             a.ShipName,
			FleetType:            a.FleetType,
			Rank:                 a.Rank,
			Company:              a.Company,
			PortOfJoining:        a.PortOfJoining,
			OnboardDate:          sqlite.UTCDate(a.OnboardDate),
			ContractLengthMonths: a.ContractLengthMonths,
			SignOffDate:          sqlite.UTCDate(a.SignOffDate),
			Email:                a.Email,
			MobileNumber:         a.MobileNumber,
			IsPublic:             a.IsPublic,
			CreatedAt:            a.CreatedAt.UTC(),
			UpdatedAt:            a.UpdatedAt.UTC(),
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shiprepo.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// Update rewrites the mutable fields. Ownership and CreatedAt are fixed at creation.
func (r *Repo) Update(ctx context.Context, a shiprepo.Assignment) error {
	res := r.db.WithContext(ctx).
		Model(&sqlite.ShipAssignmentRow{}).
		Where("external_id = ?", string(a.ID)).
		Updates(map[string]any{
			"ship_name":              a.ShipName,
			"fleet_type":             a.FleetType,
			"rank":                   a.Rank,
			"company":                a.Company,
			"port_of_joining":        a.PortOfJoining,
			"onboard_date":           sqlite.UTCDate(a.OnboardDate),
			"contract_length_months": a.ContractLengthMonths,
			"sign_off_date":          sqlite.UTCDate(a.SignOffDate),
			"email":                  a.Email,
			"mobile_number":          a.MobileNumber,
			"is_public":              a.IsPublic,
			"updated_at":             a.UpdatedAt.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shiprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ShipAssignmentID) error {
	res := r.db.WithContext(ctx).Where("external_id = ?", string(id)).Delete(&sqlite.ShipAssignmentRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shiprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ShipAssignmentID) (shiprepo.Assignment, error) {
	var row sqlite.ShipAssignmentRow
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("ship_assignments.external_id = ?", string(id)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shiprepo.Assignment{}, shiprepo.ErrNotFound
	}
	if err != nil {
		return shiprepo.Assignment{}, err
	}
	return fromRow(row), nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]shiprepo.Assignment, error) {
	owner, ok, err := sqlite.OwnerRowID(r.db.WithContext(ctx), string(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []shiprepo.Assignment{}, nil
	}
	return r.find(ctx, "ship_assignments.user_id = ?", owner)
}

func (r *Repo) ListPublic(ctx context.Context) ([]shiprepo.Assignment, error) {
	return r.find(ctx, "ship_assignments.is_public = ?", true)
}

func (r *Repo) find(ctx context.Context, query string, args ...any) ([]shiprepo.Assignment, error) {
	var rows []sqlite.ShipAssignmentRow
	if err := r.db.WithContext(ctx).
		Joins("User").
		Where(query, args...).
		Order(order).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shiprepo.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func fromRow(row sqlite.ShipAssignmentRow) shiprepo.Assignment {
	return shiprepo.Assignment{
		ID:                   domain.ShipAssignmentID(row.ExternalID),
		UserID:               domain.UserID(row.User.ExternalID),
		ShipName:             row.ShipName,
		FleetType:            row.FleetType,
		Rank:                 row.Rank,
		Company:              row.Company,
		PortOfJoining:        row.PortOfJoining,
		OnboardDate:          sqlite.UTCDate(row.OnboardDate),
		ContractLengthMonths: row.ContractLengthMonths,
		SignOffDate:          sqlite.UTCDate(row.SignOffDate),
		Email:                row.Email,
		MobileNumber:         row.MobileNumber,
		IsPublic:             row.IsPublic,
		CreatedAt:            row.CreatedAt.UTC(),
		UpdatedAt:            row.UpdatedAt.UTC(),
	}
}
