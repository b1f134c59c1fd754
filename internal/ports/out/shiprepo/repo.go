package shiprepo

import (
	"context"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// Assignment is the persistence shape used by the ship assignment repository.
type Assignment = domain.ShipAssignment

// Repository provides access to persisted ship assignments.
//
// List methods return results ordered by CreatedAt ascending, then ID. The match set builder
// relies on this order being stable across calls.
type Repository interface {
	Create(ctx context.Context, a Assignment) error
	Update(ctx context.Context, a Assignment) error
	Delete(ctx context.Context, id domain.ShipAssignmentID) error

	GetByID(ctx context.Context, id domain.ShipAssignmentID) (Assignment, error)

	ListByUser(ctx context.Context, userID domain.UserID) ([]Assignment, error)
	ListPublic(ctx context.Context) ([]Assignment, error)
}
