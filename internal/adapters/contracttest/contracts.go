// Package contracttest holds repository behavior suites shared by every storage backend.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	idempotencyport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
	landrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
	shiprepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
	userrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type ShipRepoFactory func(t *testing.T) (shiprepoport.Repository, CleanupFunc)
type LandRepoFactory func(t *testing.T) (landrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "PATCH",
		Route:    "/users/me",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// A different body hash is a different fingerprint.
	other := fp
	other.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other fingerprint: ok=%v err=%v", ok, err)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	sub := domain.SubjectID("sub-a-" + uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:               aID,
		Subject:          sub,
		Name:             "Alice",
		Surname:          strPtr("Johnson"),
		Email:            "alice-" + string(aID) + "@example.com",
		PresentRank:      strPtr("Chief Officer"),
		FleetWorking:     strPtr("Tanker"),
		Company:          strPtr("Acme Shipping"),
		CurrentStatus:    domain.UserStatusOnLand,
		IsProfileVisible: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Subject != sub || !sameString(got.PresentRank, strPtr("Chief Officer")) || got.CurrentStatus != domain.UserStatusOnLand {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := repo.GetBySubject(ctx, sub); err != nil {
		t.Fatalf("GetBySubject: %v", err)
	}
	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID unknown: err=%v, want ErrNotFound", err)
	}

	// Subject uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:            domain.UserID(uuid.NewString()),
		Subject:       sub,
		Name:          "Alice 2",
		Email:         "alice2-" + uuid.NewString() + "@example.com",
		CurrentStatus: domain.UserStatusOnLand,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err == nil {
		t.Fatalf("expected subject uniqueness error")
	}

	// Update persists mutable fields.
	got.CurrentStatus = domain.UserStatusOnShip
	got.Company = nil
	got.ShowEmailToOthers = true
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.CurrentStatus != domain.UserStatusOnShip || updated.Company != nil || !updated.ShowEmailToOthers {
		t.Fatalf("update not persisted: %+v", updated)
	}
	if err := repo.Update(ctx, userrepoport.User{ID: domain.UserID(uuid.NewString()), Subject: "sub-missing", Name: "x", CurrentStatus: domain.UserStatusOnLand}); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("Update unknown: err=%v, want ErrNotFound", err)
	}

	// Deterministic list ordering by name (case-insensitive).
	bID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:               bID,
		Subject:          domain.SubjectID("sub-b-" + uuid.NewString()),
		Name:             "bob",
		Email:            "bob-" + string(bID) + "@example.com",
		PresentRank:      strPtr("Master"),
		CurrentStatus:    domain.UserStatusOnShip,
		IsProfileVisible: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	us, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if ia, ib := indexOfUser(us, aID), indexOfUser(us, bID); ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("unexpected ordering: %#v", us)
	}

	// Search: case-insensitive substring over profile fields, visible only, limit.
	hiddenID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:               hiddenID,
		Subject:          domain.SubjectID("sub-c-" + uuid.NewString()),
		Name:             "Carol",
		Surname:          strPtr("Johnston"),
		Email:            "carol-" + string(hiddenID) + "@example.com",
		PresentRank:      strPtr("Chief Officer"),
		FleetWorking:     strPtr("Tanker"),
		Company:          strPtr("Acme Shipping"),
		CurrentStatus:    domain.UserStatusOnLand,
		IsProfileVisible: false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("Create hidden: %v", err)
	}
	res, err := repo.SearchVisible(ctx, "CHIEF off", 10)
	if err != nil {
		t.Fatalf("SearchVisible: %v", err)
	}
	if len(res) != 1 || res[0].ID != aID {
		t.Fatalf("unexpected search result: %#v", res)
	}
	res, err = repo.SearchVisible(ctx, "johns", 10)
	if err != nil || len(res) != 1 || res[0].ID != aID {
		t.Fatalf("surname search: res=%#v err=%v", res, err)
	}
	// Hidden profiles stay out even when a non-name field matches.
	for _, q := range []string{"tanker", "acme"} {
		res, err = repo.SearchVisible(ctx, q, 10)
		if err != nil {
			t.Fatalf("SearchVisible(%q): %v", q, err)
		}
		for _, u := range res {
			if u.ID == hiddenID {
				t.Fatalf("SearchVisible(%q) returned hidden profile: %#v", q, res)
			}
		}
	}
	res, err = repo.SearchVisible(ctx, "o", 1)
	if err != nil || len(res) != 1 {
		t.Fatalf("limited search: res=%#v err=%v", res, err)
	}
}

func indexOfUser(us []userrepoport.User, id domain.UserID) int {
	for i, u := range us {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func seedOwner(t *testing.T, users userrepoport.Repository, name string) domain.UserID {
	t.Helper()
	id := domain.UserID(uuid.NewString())
	now := time.Unix(500, 0).UTC()
	if err := users.Create(context.Background(), userrepoport.User{
		ID:               id,
		Subject:          domain.SubjectID("sub-" + string(id)),
		Name:             name,
		Email:            string(id) + "@example.com",
		CurrentStatus:    domain.UserStatusOnLand,
		IsProfileVisible: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("seed owner %s: %v", name, err)
	}
	return id
}

// RunShipAssignmentRepo exercises the ship assignment repository. Owners are seeded through
// the user repository because durable backends enforce the reference.
func RunShipAssignmentRepo(t *testing.T, newUserRepo UserRepoFactory, newShipRepo ShipRepoFactory) {
	t.Helper()
	ctx := context.Background()

	users, uCleanup := newUserRepo(t)
	if uCleanup != nil {
		t.Cleanup(uCleanup)
	}
	ships, sCleanup := newShipRepo(t)
	if sCleanup != nil {
		t.Cleanup(sCleanup)
	}

	alice := seedOwner(t, users, "Alice")
	bob := seedOwner(t, users, "Bob")

	base := time.Unix(2000, 0).UTC()
	first := shiprepoport.Assignment{
		ID:                   domain.ShipAssignmentID(uuid.NewString()),
		UserID:               alice,
		ShipName:             "MV Horizon",
		FleetType:            strPtr("Container"),
		Rank:                 strPtr("Chief Officer"),
		Company:              strPtr("Acme"),
		PortOfJoining:        strPtr("Rotterdam"),
		OnboardDate:          datePtr(2024, time.January, 31),
		ContractLengthMonths: 6,
		Email:                strPtr("horizon@example.com"),
		IsPublic:             true,
		CreatedAt:            base,
		UpdatedAt:            base,
	}
	second := shiprepoport.Assignment{
		ID:                   domain.ShipAssignmentID(uuid.NewString()),
		UserID:               bob,
		ShipName:             "MT Aurora",
		FleetType:            strPtr("Tanker"),
		Rank:                 strPtr("Master"),
		ContractLengthMonths: 4,
		IsPublic:             true,
		CreatedAt:            base.Add(time.Second),
		UpdatedAt:            base.Add(time.Second),
	}
	private := shiprepoport.Assignment{
		ID:                   domain.ShipAssignmentID(uuid.NewString()),
		UserID:               alice,
		ShipName:             "MV Hidden",
		ContractLengthMonths: 6,
		IsPublic:             false,
		CreatedAt:            base.Add(2 * time.Second),
		UpdatedAt:            base.Add(2 * time.Second),
	}
	for _, a := range []shiprepoport.Assignment{second, first, private} {
		if err := ships.Create(ctx, a); err != nil {
			t.Fatalf("Create %s: %v", a.ShipName, err)
		}
	}
	if err := ships.Create(ctx, first); !errors.Is(err, shiprepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate: err=%v, want ErrAlreadyExists", err)
	}

	got, err := ships.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != alice || got.ShipName != "MV Horizon" || !sameString(got.PortOfJoining, first.PortOfJoining) ||
		!sameDate(got.OnboardDate, first.OnboardDate) || got.ContractLengthMonths != 6 || got.SignOffDate != nil {
		t.Fatalf("unexpected ship assignment: %+v", got)
	}

	pub, err := ships.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(pub) != 2 || pub[0].ID != first.ID || pub[1].ID != second.ID {
		t.Fatalf("unexpected public list: %#v", pub)
	}
	mine, err := ships.ListByUser(ctx, alice)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != first.ID || mine[1].ID != private.ID {
		t.Fatalf("unexpected own list: %#v", mine)
	}

	got.Rank = strPtr("Master")
	got.Company = nil
	got.SignOffDate = datePtr(2024, time.August, 1)
	got.IsPublic = false
	got.UpdatedAt = base.Add(time.Hour)
	if err := ships.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := ships.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if !sameString(updated.Rank, strPtr("Master")) || updated.Company != nil || !sameDate(updated.SignOffDate, got.SignOffDate) || updated.IsPublic {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if err := ships.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ships.GetByID(ctx, second.ID); !errors.Is(err, shiprepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete: err=%v, want ErrNotFound", err)
	}
	if err := ships.Delete(ctx, second.ID); !errors.Is(err, shiprepoport.ErrNotFound) {
		t.Fatalf("Delete twice: err=%v, want ErrNotFound", err)
	}
}

// RunLandAssignmentRepo mirrors RunShipAssignmentRepo for land assignments.
func RunLandAssignmentRepo(t *testing.T, newUserRepo UserRepoFactory, newLandRepo LandRepoFactory) {
	t.Helper()
	ctx := context.Background()

	users, uCleanup := newUserRepo(t)
	if uCleanup != nil {
		t.Cleanup(uCleanup)
	}
	lands, lCleanup := newLandRepo(t)
	if lCleanup != nil {
		t.Cleanup(lCleanup)
	}

	carol := seedOwner(t, users, "Carol")
	dave := seedOwner(t, users, "Dave")

	base := time.Unix(3000, 0).UTC()
	first := landrepoport.Assignment{
		ID:                  domain.LandAssignmentID(uuid.NewString()),
		UserID:              carol,
		LastVessel:          strPtr("MV Horizon"),
		FleetType:           strPtr("Container Feeder"),
		Company:             strPtr("Acme"),
		DateHome:            datePtr(2024, time.March, 2),
		ExpectedJoiningDate: datePtr(2024, time.June, 25),
		MobileNumber:        strPtr("+31 555 0100"),
		IsPublic:            true,
		CreatedAt:           base,
		UpdatedAt:           base,
	}
	second := landrepoport.Assignment{
		ID:                  domain.LandAssignmentID(uuid.NewString()),
		UserID:              dave,
		FleetType:           strPtr("Tanker"),
		ExpectedJoiningDate: datePtr(2024, time.July, 1),
		IsPublic:            false,
		CreatedAt:           base.Add(time.Second),
		UpdatedAt:           base.Add(time.Second),
	}
	for _, a := range []landrepoport.Assignment{first, second} {
		if err := lands.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := lands.Create(ctx, second); !errors.Is(err, landrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate: err=%v, want ErrAlreadyExists", err)
	}

	got, err := lands.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != carol || !sameString(got.LastVessel, first.LastVessel) || !sameDate(got.DateHome, first.DateHome) ||
		!sameDate(got.ExpectedJoiningDate, first.ExpectedJoiningDate) || !sameString(got.MobileNumber, first.MobileNumber) {
		t.Fatalf("unexpected land assignment: %+v", got)
	}

	pub, err := lands.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != first.ID {
		t.Fatalf("unexpected public list: %#v", pub)
	}
	mine, err := lands.ListByUser(ctx, dave)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != second.ID {
		t.Fatalf("unexpected own list: %#v", mine)
	}

	second.IsPublic = true
	second.ExpectedJoiningDate = datePtr(2024, time.July, 15)
	second.UpdatedAt = base.Add(time.Hour)
	if err := lands.Update(ctx, second); err != nil {
		t.Fatalf("Update: %v", err)
	}
	pub, err = lands.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic after update: %v", err)
	}
	if len(pub) != 2 || pub[1].ID != second.ID || !sameDate(pub[1].ExpectedJoiningDate, datePtr(2024, time.July, 15)) {
		t.Fatalf("update not persisted: %#v", pub)
	}

	if err := lands.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := lands.GetByID(ctx, first.ID); !errors.Is(err, landrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete: err=%v, want ErrNotFound", err)
	}
}

// RunSubjectIsolation checks that two repositories scoped to different token issuers over
// the same storage keep equal subjects apart.
func RunSubjectIsolation(t *testing.T, a, b userrepoport.Repository) {
	t.Helper()
	ctx := context.Background()

	sub := domain.SubjectID("shared-" + uuid.NewString())
	now := time.Unix(700, 0).UTC()
	ids := []domain.UserID{domain.UserID(uuid.NewString()), domain.UserID(uuid.NewString())}
	for i, repo := range []userrepoport.Repository{a, b} {
		if err := repo.Create(ctx, userrepoport.User{
			ID:            ids[i],
			Subject:       sub,
			Name:          "Shared",
			Email:         string(ids[i]) + "@example.com",
			CurrentStatus: domain.UserStatusOnLand,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			t.Fatalf("Create via repo %d: %v", i, err)
		}
	}
	for i, repo := range []userrepoport.Repository{a, b} {
		got, err := repo.GetBySubject(ctx, sub)
		if err != nil {
			t.Fatalf("GetBySubject via repo %d: %v", i, err)
		}
		if got.ID != ids[i] {
			t.Fatalf("repo %d resolved subject to %s, want %s", i, got.ID, ids[i])
		}
	}
}
