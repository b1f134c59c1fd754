package userrepo

import (
	"context"
	"testing"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	userrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

func strPtr(s string) *string { return &s }

func TestRepo_SearchVisibleExcludesHiddenOnEveryField(t *testing.T) {
	db, err := sqlite.Open("")
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close(db) })

	r := NewRepo(db, "https://issuer.test")
	ctx := context.Background()
	now := time.Unix(100, 0).UTC()

	if err := r.Create(ctx, userrepoport.User{
		ID:               domain.UserID("hidden-1"),
		Subject:          domain.SubjectID("sub-hidden"),
		Name:             "Dana",
		Surname:          strPtr("Whitfield"),
		Email:            "dana@example.com",
		PresentRank:      strPtr("Chief Officer"),
		FleetWorking:     strPtr("Bulk Carrier"),
		Company:          strPtr("Nordline"),
		CurrentStatus:    domain.UserStatusOnLand,
		IsProfileVisible: false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	for _, q := range []string{"dana", "whitf", "chief", "bulk", "nordline"} {
		res, err := r.SearchVisible(ctx, q, 10)
		if err != nil {
			t.Fatalf("SearchVisible(%q) err=%v", q, err)
		}
		if len(res) != 0 {
			t.Fatalf("SearchVisible(%q) returned hidden profile: %#v", q, res)
		}
	}
}
