package userrepo

import (
	"context"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// User is the persistence shape used by the user repository.
// It mirrors domain.UserProfile; it is an internal record, not an HTTP DTO.
type User = domain.UserProfile

// Repository provides access to persisted user profiles.
//
// Result ordering expectations:
// - List/Search methods return results ordered by lower(Name) ascending, then ID, to keep behavior deterministic.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetBySubject(ctx context.Context, subject domain.SubjectID) (User, error)

	List(ctx context.Context) ([]User, error)

	// SearchVisible returns visible profiles whose name, surname, present rank, fleet or company
	// contains query (case-insensitive). Query validation is enforced at the application layer.
	SearchVisible(ctx context.Context, query string, limit int) ([]User, error)
}
