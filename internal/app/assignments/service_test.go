package assignments

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/clock"
	memlandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/landrepo"
	memshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/shiprepo"
	memuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

type fixture struct {
	svc   *Service
	users *memuserrepo.Repo
	clk   *memclock.ManualClock
}

func newFixture(t *testing.T, subjects ...string) fixture {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	users := memuserrepo.NewRepo()
	for _, sub := range subjects {
		err := users.Create(context.Background(), userrepo.User{
			ID:               domain.UserID("u-" + sub),
			Subject:          domain.SubjectID(sub),
			Name:             sub,
			Email:            sub + "@example.com",
			CurrentStatus:    domain.UserStatusOnLand,
			IsProfileVisible: true,
			CreatedAt:        clk.Now(),
			UpdatedAt:        clk.Now(),
		})
		if err != nil {
			t.Fatalf("seed user %s: %v", sub, err)
		}
	}
	svc := NewService(memshiprepo.NewRepo(), memlandrepo.NewRepo(), users, clk, matching.NewMatcher(clk))
	return fixture{svc: svc, users: users, clk: clk}
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func validShip() CreateShipAssignmentInput {
	return CreateShipAssignmentInput{
		ShipName:    " MV  Horizon ",
		FleetType:   strPtr("Container"),
		Rank:        strPtr("Chief Officer"),
		Company:     strPtr("Acme"),
		OnboardDate: datePtr(2024, 1, 1),
	}
}

func wantAppError(t *testing.T, err error, status int, code string) *Error {
	t.Helper()
	ae := (*Error)(nil)
	if !errors.As(err, &ae) {
		t.Fatalf("err=%v (type=%T), want *Error", err, err)
	}
	if ae.Status != status || (code != "" && ae.Code != code) {
		t.Fatalf("err=%+v, want %d %s", ae, status, code)
	}
	return ae
}

func TestService_CreateShipAssignment_DefaultsAndStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "sub-1")
	v, err := f.svc.CreateShipAssignment(context.Background(), "sub-1", validShip())
	if err != nil {
		t.Fatalf("CreateShipAssignment err=%v", err)
	}
	if v.ShipName != "MV Horizon" || v.ContractLengthMonths != domain.DefaultContractLengthMonths || !v.IsPublic {
		t.Fatalf("view=%+v", v)
	}
	if !v.ExpectedReleaseDate.Equal(date(2024, 7, 1)) {
		t.Fatalf("ExpectedReleaseDate=%v, want 2024-07-01", v.ExpectedReleaseDate)
	}

	u, err := f.users.GetBySubject(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("GetBySubject err=%v", err)
	}
	if u.CurrentStatus != domain.UserStatusOnShip {
		t.Fatalf("CurrentStatus=%s, want ON_SHIP", u.CurrentStatus)
	}
}

func TestService_CreateShipAssignment_MissingOnboardProjectsToday(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "sub-1")
	in := validShip()
	in.OnboardDate = nil
	v, err := f.svc.CreateShipAssignment(context.Background(), "sub-1", in)
	if err != nil {
		t.Fatalf("CreateShipAssignment err=%v", err)
	}
	if !v.ExpectedReleaseDate.Equal(date(2024, 3, 10)) {
		t.Fatalf("ExpectedReleaseDate=%v, want clock date", v.ExpectedReleaseDate)
	}
}

func TestService_CreateShipAssignment_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(in *CreateShipAssignmentInput)
		field string
	}{
		{"blank ship name", func(in *CreateShipAssignmentInput) { in.ShipName = " " }, "shipName"},
		{"missing rank", func(in *CreateShipAssignmentInput) { in.Rank = nil }, "rank"},
		{"blank fleet", func(in *CreateShipAssignmentInput) { in.FleetType = strPtr("  ") }, "fleetType"},
		{"zero contract", func(in *CreateShipAssignmentInput) { in.ContractLengthMonths = intPtr(0) }, "contractLengthMonths"},
		{"long contract", func(in *CreateShipAssignmentInput) { in.ContractLengthMonths = intPtr(37) }, "contractLengthMonths"},
		{"bad email", func(in *CreateShipAssignmentInput) { in.Email = strPtr("nope") }, "email"},
		{"sign off before onboard", func(in *CreateShipAssignmentInput) { in.SignOffDate = datePtr(2023, 12, 1) }, "signOffDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, "sub-1")
			in := validShip()
			tt.edit(&in)
			_, err := f.svc.CreateShipAssignment(context.Background(), "sub-1", in)
			ae := wantAppError(t, err, 422, "VALIDATION_ERROR")
			if _, ok := ae.Details[tt.field]; !ok {
				t.Fatalf("details=%v, want key %q", ae.Details, tt.field)
			}
		})
	}
}

func TestService_CreateShipAssignment_NotProvisioned(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateShipAssignment(context.Background(), "ghost", validShip())
	wantAppError(t, err, 404, "USER_NOT_PROVISIONED")
}

func TestService_ShipAssignment_VisibilityAndOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "owner", "other")
	ctx := context.Background()

	in := validShip()
	in.IsPublic = boolPtr(false)
	private, err := f.svc.CreateShipAssignment(ctx, "owner", in)
	if err != nil {
		t.Fatalf("create private err=%v", err)
	}
	public, err := f.svc.CreateShipAssignment(ctx, "owner", validShip())
	if err != nil {
		t.Fatalf("create public err=%v", err)
	}

	if _, err := f.svc.GetShipAssignment(ctx, "owner", private.ID); err != nil {
		t.Fatalf("owner get private err=%v", err)
	}
	_, err = f.svc.GetShipAssignment(ctx, "other", private.ID)
	wantAppError(t, err, 404, "SHIP_ASSIGNMENT_NOT_FOUND")

	if _, err := f.svc.GetShipAssignment(ctx, "other", public.ID); err != nil {
		t.Fatalf("other get public err=%v", err)
	}
	_, err = f.svc.UpdateShipAssignment(ctx, "other", public.ID, UpdateShipAssignmentInput{ShipName: Some("Hijack")})
	wantAppError(t, err, 403, "NOT_ASSIGNMENT_OWNER")
	err = f.svc.DeleteShipAssignment(ctx, "other", public.ID)
	wantAppError(t, err, 403, "NOT_ASSIGNMENT_OWNER")

	if err := f.svc.DeleteShipAssignment(ctx, "owner", public.ID); err != nil {
		t.Fatalf("owner delete err=%v", err)
	}
	_, err = f.svc.GetShipAssignment(ctx, "owner", public.ID)
	wantAppError(t, err, 404, "SHIP_ASSIGNMENT_NOT_FOUND")

	mine, err := f.svc.ListMyShipAssignments(ctx, "owner")
	if err != nil {
		t.Fatalf("ListMyShipAssignments err=%v", err)
	}
	if len(mine) != 1 || mine[0].ID != private.ID {
		t.Fatalf("mine=%+v", mine)
	}
}

func TestService_UpdateShipAssignment_PatchSemantics(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "sub-1")
	ctx := context.Background()
	v, err := f.svc.CreateShipAssignment(ctx, "sub-1", validShip())
	if err != nil {
		t.Fatalf("create err=%v", err)
	}

	f.clk.Advance(time.Hour)
	updated, err := f.svc.UpdateShipAssignment(ctx, "sub-1", v.ID, UpdateShipAssignmentInput{
		Company:              Null[string](),
		ContractLengthMonths: Some(9),
		OnboardDate:          Some(time.Date(2024, 1, 31, 18, 30, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("update err=%v", err)
	}
	if updated.Company != nil || updated.ContractLengthMonths != 9 || updated.ShipName != "MV Horizon" {
		t.Fatalf("updated=%+v", updated)
	}
	if !updated.OnboardDate.Equal(date(2024, 1, 31)) {
		t.Fatalf("OnboardDate=%v, want truncated to day", updated.OnboardDate)
	}
	if !updated.ExpectedReleaseDate.Equal(date(2024, 10, 31)) {
		t.Fatalf("ExpectedReleaseDate=%v, want 2024-10-31", updated.ExpectedReleaseDate)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("UpdatedAt not bumped: %+v", updated)
	}

	for name, in := range map[string]UpdateShipAssignmentInput{
		"null rank":     {Rank: Null[string]()},
		"null contract": {ContractLengthMonths: Null[int]()},
		"null public":   {IsPublic: Null[bool]()},
		"blank name":    {ShipName: Some("  ")},
		"long contract": {ContractLengthMonths: Some(48)},
	} {
		_, err := f.svc.UpdateShipAssignment(ctx, "sub-1", v.ID, in)
		if ae := (*Error)(nil); !errors.As(err, &ae) || ae.Status != 422 {
			t.Fatalf("%s: err=%v, want 422", name, err)
		}
	}
}

func TestService_ListPublicShipAssignments_Query(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "a", "b")
	ctx := context.Background()

	first := validShip()
	first.PortOfJoining = strPtr("Rotterdam")
	if _, err := f.svc.CreateShipAssignment(ctx, "a", first); err != nil {
		t.Fatalf("create err=%v", err)
	}
	second := validShip()
	second.ShipName = "Ocean Star"
	second.FleetType = strPtr("Tanker")
	second.Company = nil
	if _, err := f.svc.CreateShipAssignment(ctx, "b", second); err != nil {
		t.Fatalf("create err=%v", err)
	}
	hidden := validShip()
	hidden.ShipName = "Tanker Ghost"
	hidden.IsPublic = boolPtr(false)
	if _, err := f.svc.CreateShipAssignment(ctx, "b", hidden); err != nil {
		t.Fatalf("create err=%v", err)
	}

	all, err := f.svc.ListPublicShipAssignments(ctx, "a", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all=%+v err=%v", all, err)
	}
	got, err := f.svc.ListPublicShipAssignments(ctx, "a", " TANK ")
	if err != nil || len(got) != 1 || got[0].ShipName != "Ocean Star" {
		t.Fatalf("tank=%+v err=%v", got, err)
	}
	got, err = f.svc.ListPublicShipAssignments(ctx, "a", "rotter")
	if err != nil || len(got) != 1 || got[0].ShipName != "MV Horizon" {
		t.Fatalf("rotter=%+v err=%v", got, err)
	}

	_, err = f.svc.ListPublicShipAssignments(ctx, "a", "x")
	wantAppError(t, err, 422, "VALIDATION_ERROR")
}

func TestService_CreateLandAssignment(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "sub-1")
	ctx := context.Background()

	if err := func() error {
		u, err := f.users.GetBySubject(ctx, "sub-1")
		if err != nil {
			return err
		}
		u.CurrentStatus = domain.UserStatusOnShip
		return f.users.Update(ctx, u)
	}(); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	a, err := f.svc.CreateLandAssignment(ctx, "sub-1", CreateLandAssignmentInput{
		LastVessel:          strPtr(" MV  Horizon "),
		FleetType:           strPtr("Container Feeder"),
		DateHome:            datePtr(2024, 2, 1),
		ExpectedJoiningDate: datePtr(2024, 6, 25),
	})
	if err != nil {
		t.Fatalf("CreateLandAssignment err=%v", err)
	}
	if *a.LastVessel != "MV Horizon" || !a.IsPublic || !a.ExpectedJoiningDate.Equal(date(2024, 6, 25)) {
		t.Fatalf("created=%+v", a)
	}
	u, _ := f.users.GetBySubject(ctx, "sub-1")
	if u.CurrentStatus != domain.UserStatusOnLand {
		t.Fatalf("CurrentStatus=%s, want ON_LAND", u.CurrentStatus)
	}

	_, err = f.svc.CreateLandAssignment(ctx, "sub-1", CreateLandAssignmentInput{FleetType: strPtr("Tanker")})
	wantAppError(t, err, 422, "VALIDATION_ERROR")
	_, err = f.svc.CreateLandAssignment(ctx, "sub-1", CreateLandAssignmentInput{ExpectedJoiningDate: datePtr(2024, 6, 25)})
	wantAppError(t, err, 422, "VALIDATION_ERROR")
	_, err = f.svc.CreateLandAssignment(ctx, "sub-1", CreateLandAssignmentInput{
		FleetType:           strPtr("Tanker"),
		DateHome:            datePtr(2024, 7, 1),
		ExpectedJoiningDate: datePtr(2024, 6, 25),
	})
	wantAppError(t, err, 422, "VALIDATION_ERROR")
}

func TestService_LandAssignment_UpdateDeleteAndList(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "owner", "other")
	ctx := context.Background()

	a, err := f.svc.CreateLandAssignment(ctx, "owner", CreateLandAssignmentInput{
		FleetType:           strPtr("Tanker"),
		Company:             strPtr("Maersk"),
		ExpectedJoiningDate: datePtr(2024, 6, 25),
	})
	if err != nil {
		t.Fatalf("create err=%v", err)
	}

	updated, err := f.svc.UpdateLandAssignment(ctx, "owner", a.ID, UpdateLandAssignmentInput{
		Company:  Null[string](),
		IsPublic: Some(false),
	})
	if err != nil {
		t.Fatalf("update err=%v", err)
	}
	if updated.Company != nil || updated.IsPublic {
		t.Fatalf("updated=%+v", updated)
	}
	_, err = f.svc.UpdateLandAssignment(ctx, "owner", a.ID, UpdateLandAssignmentInput{ExpectedJoiningDate: Null[time.Time]()})
	wantAppError(t, err, 422, "VALIDATION_ERROR")
	_, err = f.svc.UpdateLandAssignment(ctx, "owner", a.ID, UpdateLandAssignmentInput{FleetType: Some(" ")})
	wantAppError(t, err, 422, "VALIDATION_ERROR")

	_, err = f.svc.GetLandAssignment(ctx, "other", a.ID)
	wantAppError(t, err, 404, "LAND_ASSIGNMENT_NOT_FOUND")
	public, err := f.svc.ListPublicLandAssignments(ctx, "other", "tanker")
	if err != nil || len(public) != 0 {
		t.Fatalf("public=%+v err=%v", public, err)
	}

	if _, err := f.svc.UpdateLandAssignment(ctx, "owner", a.ID, UpdateLandAssignmentInput{IsPublic: Some(true)}); err != nil {
		t.Fatalf("update err=%v", err)
	}
	public, err = f.svc.ListPublicLandAssignments(ctx, "other", "tanker")
	if err != nil || len(public) != 1 {
		t.Fatalf("public=%+v err=%v", public, err)
	}
	err = f.svc.DeleteLandAssignment(ctx, "other", a.ID)
	wantAppError(t, err, 403, "NOT_ASSIGNMENT_OWNER")

	if err := f.svc.DeleteLandAssignment(ctx, "owner", a.ID); err != nil {
		t.Fatalf("delete err=%v", err)
	}
	mine, err := f.svc.ListMyLandAssignments(ctx, "owner")
	if err != nil || len(mine) != 0 {
		t.Fatalf("mine=%+v err=%v", mine, err)
	}
}

type statusFailingUsers struct {
	*memuserrepo.Repo
	err error
}

func (r statusFailingUsers) Update(context.Context, userrepo.User) error { return r.err }

func TestService_CreateRollsBackWhenStatusUpdateFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "sub-1")
	ctx := context.Background()
	boom := errors.New("users unavailable")
	svc := NewService(memshiprepo.NewRepo(), memlandrepo.NewRepo(), statusFailingUsers{Repo: f.users, err: boom}, f.clk, matching.NewMatcher(f.clk))

	if _, err := svc.CreateShipAssignment(ctx, "sub-1", validShip()); !errors.Is(err, boom) {
		t.Fatalf("CreateShipAssignment err=%v, want %v", err, boom)
	}
	ships, err := svc.ListMyShipAssignments(ctx, "sub-1")
	if err != nil {
		t.Fatalf("ListMyShipAssignments err=%v", err)
	}
	if len(ships) != 0 {
		t.Fatalf("ship assignment left behind: %+v", ships)
	}

	u, _ := f.users.GetBySubject(ctx, "sub-1")
	u.CurrentStatus = domain.UserStatusOnShip
	if err := f.users.Update(ctx, u); err != nil {
		t.Fatalf("seed status: %v", err)
	}
	_, err = svc.CreateLandAssignment(ctx, "sub-1", CreateLandAssignmentInput{
		FleetType:           strPtr("Tanker"),
		ExpectedJoiningDate: datePtr(2024, 6, 25),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("CreateLandAssignment err=%v, want %v", err, boom)
	}
	lands, err := svc.ListMyLandAssignments(ctx, "sub-1")
	if err != nil {
		t.Fatalf("ListMyLandAssignments err=%v", err)
	}
	if len(lands) != 0 {
		t.Fatalf("land assignment left behind: %+v", lands)
	}
	if u, _ := f.users.GetBySubject(ctx, "sub-1"); u.CurrentStatus != domain.UserStatusOnShip {
		t.Fatalf("CurrentStatus=%s, want ON_SHIP", u.CurrentStatus)
	}
}
