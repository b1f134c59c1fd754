package landrepo

import (
	"context"
	"testing"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
)

func TestRepo_ClonesDates(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	joining := time.Date(2024, time.June, 25, 0, 0, 0, 0, time.UTC)
	if err := r.Create(context.Background(), landrepo.Assignment{ID: "l1", UserID: "u1", ExpectedJoiningDate: &joining, IsPublic: true}); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	joining = joining.AddDate(1, 0, 0)

	got, err := r.GetByID(context.Background(), "l1")
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if got.ExpectedJoiningDate.Year() != 2024 {
		t.Fatalf("stored date mutated through caller pointer: %v", got.ExpectedJoiningDate)
	}
}

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Create(context.Background(), landrepo.Assignment{ID: "l1", UserID: "u1"}); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := r.Create(context.Background(), landrepo.Assignment{ID: "l1", UserID: "u2"}); err != landrepo.ErrAlreadyExists {
		t.Fatalf("Create(dup) err=%v, want %v", err, landrepo.ErrAlreadyExists)
	}
}
