package matches

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	memclock "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/clock"
	memlandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/landrepo"
	memshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/shiprepo"
	memuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
)

type fixture struct {
	svc     *Service
	users   *memuserrepo.Repo
	ships   *memshiprepo.Repo
	lands   *memlandrepo.Repo
	metrics *Metrics
	reg     *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	userRepo := memuserrepo.NewRepo()
	ships := memshiprepo.NewRepo()
	lands := memlandrepo.NewRepo()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	svc := NewService(users.NewService(userRepo, clk), ships, lands, matching.NewMatcher(clk), clk, metrics, nil)
	return fixture{svc: svc, users: userRepo, ships: ships, lands: lands, metrics: metrics, reg: reg}
}

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f fixture) addUser(t *testing.T, id string, status domain.UserStatus, rank, company *string) domain.UserProfile {
	t.Helper()
	u := domain.UserProfile{
		ID:               domain.UserID(id),
		Subject:          domain.SubjectID("sub-" + id),
		Name:             id,
		Email:            id + "@example.com",
		PresentRank:      rank,
		Company:          company,
		CurrentStatus:    status,
		IsProfileVisible: true,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func (f fixture) addShip(t *testing.T, id, owner string, public bool) domain.ShipAssignment {
	t.Helper()
	a := domain.ShipAssignment{
		ID:                   domain.ShipAssignmentID(id),
		UserID:               domain.UserID(owner),
		ShipName:             "MV " + id,
		FleetType:            strPtr("Container"),
		Rank:                 strPtr("Chief Officer"),
		Company:              strPtr("Acme"),
		OnboardDate:          datePtr(2024, 1, 1),
		ContractLengthMonths: 6,
		IsPublic:             public,
	}
	if err := f.ships.Create(context.Background(), a); err != nil {
		t.Fatalf("create ship %s: %v", id, err)
	}
	return a
}

func (f fixture) addLand(t *testing.T, id, owner string, joining *time.Time, public bool) domain.LandAssignment {
	t.Helper()
	a := domain.LandAssignment{
		ID:                  domain.LandAssignmentID(id),
		UserID:              domain.UserID(owner),
		FleetType:           strPtr("Container Feeder"),
		ExpectedJoiningDate: joining,
		IsPublic:            public,
	}
	if err := f.lands.Create(context.Background(), a); err != nil {
		t.Fatalf("create land %s: %v", id, err)
	}
	return a
}

func TestService_FindMyMatches_ShipToLand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "sailor", domain.UserStatusOnShip, strPtr("Chief Officer"), strPtr("Acme"))
	f.addUser(t, "relief", domain.UserStatusOnLand, strPtr("CHIEF OFFICER"), strPtr("acme"))
	f.addUser(t, "junior", domain.UserStatusOnLand, strPtr("2nd Officer"), strPtr("Acme"))

	f.addShip(t, "s1", "sailor", true)
	f.addLand(t, "l-ok", "relief", datePtr(2024, 6, 25), true)
	f.addLand(t, "l-late", "relief", datePtr(2024, 7, 17), true)
	f.addLand(t, "l-rank", "junior", datePtr(2024, 6, 25), true)
	f.addLand(t, "l-private", "relief", datePtr(2024, 6, 25), false)

	res, err := f.svc.FindMyMatches(context.Background(), "sub-sailor")
	if err != nil {
		t.Fatalf("FindMyMatches err=%v", err)
	}
	if res.Direction != DirectionShipToLand {
		t.Fatalf("Direction=%s", res.Direction)
	}
	if len(res.Matches) != 1 || res.Matches[0].Land.ID != "l-ok" || res.Matches[0].Ship.ID != "s1" {
		t.Fatalf("matches=%+v", res.Matches)
	}
	m := res.Matches[0]
	if m.Counterpart.ID != "relief" || m.Counterpart.Email != nil {
		t.Fatalf("counterpart=%+v", m.Counterpart)
	}
	if !m.ExpectedReleaseDate.Equal(*datePtr(2024, 7, 1)) {
		t.Fatalf("ExpectedReleaseDate=%v", m.ExpectedReleaseDate)
	}

	if got := testutil.ToFloat64(f.metrics.runs.WithLabelValues(string(DirectionShipToLand))); got != 1 {
		t.Fatalf("runs=%v, want 1", got)
	}
	if got := testutil.ToFloat64(f.metrics.results.WithLabelValues(string(DirectionShipToLand))); got != 1 {
		t.Fatalf("results=%v, want 1", got)
	}
	if got := testutil.ToFloat64(f.metrics.evaluations.WithLabelValues("no_match", "date_window")); got != 1 {
		t.Fatalf("date_window failures=%v, want 1", got)
	}
	if got := testutil.ToFloat64(f.metrics.evaluations.WithLabelValues("no_match", "rank")); got != 1 {
		t.Fatalf("rank failures=%v, want 1", got)
	}
}

func TestService_FindMyMatches_LandToShipAgreesAndExcludesOwn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "sailor", domain.UserStatusOnShip, strPtr("Chief Officer"), nil)
	f.addUser(t, "relief", domain.UserStatusOnLand, strPtr("Chief Officer"), strPtr("Acme"))

	f.addShip(t, "s1", "sailor", true)
	f.addShip(t, "s2", "sailor", true)
	f.addShip(t, "s-own", "relief", true)
	f.addLand(t, "l1", "relief", datePtr(2024, 6, 16), true)

	res, err := f.svc.FindMyMatches(context.Background(), "sub-relief")
	if err != nil {
		t.Fatalf("FindMyMatches err=%v", err)
	}
	if res.Direction != DirectionLandToShip {
		t.Fatalf("Direction=%s", res.Direction)
	}
	var got []string
	for _, m := range res.Matches {
		if m.Land.ID != "l1" {
			t.Fatalf("own side=%s, want l1", m.Land.ID)
		}
		got = append(got, string(m.Ship.ID))
	}
	if strings.Join(got, ",") != "s1,s2" {
		t.Fatalf("candidates=%v, want s1,s2", got)
	}

	// The same pairs seen from the ship side.
	res, err = f.svc.FindMyMatches(context.Background(), "sub-sailor")
	if err != nil {
		t.Fatalf("FindMyMatches err=%v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("ship side matches=%+v, want 2 (one per own ship)", res.Matches)
	}
}

func TestService_FindMyMatches_UnresolvedLandHolderIsSkipped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "sailor", domain.UserStatusOnShip, strPtr("Chief Officer"), nil)
	f.addShip(t, "s1", "sailor", true)
	f.addLand(t, "l-orphan", "deleted-user", datePtr(2024, 6, 25), true)

	res, err := f.svc.FindMyMatches(context.Background(), "sub-sailor")
	if err != nil {
		t.Fatalf("FindMyMatches err=%v", err)
	}
	if len(res.Matches) != 0 {
		t.Fatalf("matches=%+v, want none", res.Matches)
	}
	if got := testutil.ToFloat64(f.metrics.evaluations.WithLabelValues("no_match", "holder")); got != 1 {
		t.Fatalf("holder failures=%v, want 1", got)
	}
}

func TestService_FindMyMatches_NotProvisioned(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.FindMyMatches(context.Background(), "ghost")
	ae := (*users.Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "USER_NOT_PROVISIONED" {
		t.Fatalf("err=%v, want USER_NOT_PROVISIONED", err)
	}
}

func TestService_ExplainPair(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "sailor", domain.UserStatusOnShip, strPtr("Chief Officer"), nil)
	f.addUser(t, "relief", domain.UserStatusOnLand, strPtr("Chief Officer"), strPtr("Maersk"))
	f.addUser(t, "stranger", domain.UserStatusOnLand, nil, nil)
	f.addShip(t, "s1", "sailor", true)
	f.addLand(t, "l1", "relief", datePtr(2024, 6, 25), true)
	f.addLand(t, "l-private", "relief", datePtr(2024, 6, 25), false)

	v, err := f.svc.ExplainPair(context.Background(), "sub-sailor", "s1", "l1")
	if err != nil {
		t.Fatalf("ExplainPair err=%v", err)
	}
	if v.Matched || v.Failed != matching.PredicateCompany {
		t.Fatalf("verdict=%+v, want company failure", v)
	}
	if !v.WindowStart.Equal(*datePtr(2024, 6, 16)) || !v.WindowEnd.Equal(*datePtr(2024, 7, 16)) {
		t.Fatalf("window=[%v,%v]", v.WindowStart, v.WindowEnd)
	}

	// The owner sees their private assignment; others do not.
	if _, err := f.svc.ExplainPair(context.Background(), "sub-relief", "s1", "l-private"); err != nil {
		t.Fatalf("owner ExplainPair err=%v", err)
	}
	_, err = f.svc.ExplainPair(context.Background(), "sub-stranger", "s1", "l-private")
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "LAND_ASSIGNMENT_NOT_FOUND" {
		t.Fatalf("err=%v, want LAND_ASSIGNMENT_NOT_FOUND", err)
	}
	_, err = f.svc.ExplainPair(context.Background(), "sub-stranger", "missing", "l1")
	if !errors.As(err, &ae) || ae.Code != "SHIP_ASSIGNMENT_NOT_FOUND" {
		t.Fatalf("err=%v, want SHIP_ASSIGNMENT_NOT_FOUND", err)
	}
}

func TestService_ProjectRelease(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	got := f.svc.ProjectRelease(datePtr(2024, 1, 31), 1)
	if !got.Equal(*datePtr(2024, 2, 29)) {
		t.Fatalf("ProjectRelease=%v, want 2024-02-29", got)
	}
	if got := f.svc.ProjectRelease(nil, 6); !got.Equal(*datePtr(2024, 3, 1)) {
		t.Fatalf("ProjectRelease(nil)=%v, want clock date", got)
	}
}

func TestMetrics_Registered(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.metrics.ObserveVerdict(matching.Verdict{Matched: true})
	n, err := testutil.GatherAndCount(f.reg, "crew_match_evaluations_total")
	if err != nil {
		t.Fatalf("GatherAndCount err=%v", err)
	}
	if n != 1 {
		t.Fatalf("series=%d, want 1", n)
	}

	var nilMetrics *Metrics
	nilMetrics.ObserveVerdict(matching.Verdict{})
	nilMetrics.observeRun(DirectionShipToLand, 0, 0)
}
