package landrepo

import (
	"context"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// Assignment is the persistence shape used by the land assignment repository.
type Assignment = domain.LandAssignment

// Repository provides access to persisted land assignments.
//
// List methods return results ordered by CreatedAt ascending, then ID.
type Repository interface {
	Create(ctx context.Context, a Assignment) error
	Update(ctx context.Context, a Assignment) error
	Delete(ctx context.Context, id domain.LandAssignmentID) error

	GetByID(ctx context.Context, id domain.LandAssignmentID) (Assignment, error)

	ListByUser(ctx context.Context, userID domain.UserID) ([]Assignment, error)
	ListPublic(ctx context.Context) ([]Assignment, error)
}
