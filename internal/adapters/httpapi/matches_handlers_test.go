package httpapi

import (
	"net/http"
	"net/url"
	"testing"
)

type matchFixture struct {
	h      http.Handler
	shipID string
	landID string
	shipU  UserProfile
	landU  UserProfile
}

func newMatchFixture(t *testing.T) matchFixture {
	t.Helper()

	h := newDevRouter(t)
	shipU := provision(t, h, "sub-ship", `{"name":"Sam","email":"sam@example.com","presentRank":"Chief Officer"}`)
	landU := provision(t, h, "sub-land", `{"name":"Lee","email":"lee@example.com","presentRank":"chief officer","company":"ACME"}`)

	rec := do(t, h, apiCall{method: http.MethodPost, path: "/ship-assignments", subject: "sub-ship", body: shipBody})
	requireStatus(t, rec, http.StatusCreated)
	ship := mustDecode[ShipAssignmentResponse](t, rec).ShipAssignment

	rec = do(t, h, apiCall{method: http.MethodPost, path: "/land-assignments", subject: "sub-land", body: `{"fleetType":"Container Feeder","expectedJoiningDate":"2024-06-25"}`})
	requireStatus(t, rec, http.StatusCreated)
	land := mustDecode[LandAssignmentResponse](t, rec).LandAssignment

	return matchFixture{h: h, shipID: ship.ShipAssignmentId, landID: land.LandAssignmentId, shipU: shipU, landU: landU}
}

func TestMatches_BothDirectionsAgree(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t)

	rec := do(t, f.h, apiCall{method: http.MethodGet, path: "/matches/me", subject: "sub-ship"})
	requireStatus(t, rec, http.StatusOK)
	fromShip := mustDecode[MatchesResponse](t, rec)
	if fromShip.Direction != "SHIP_TO_LAND" {
		t.Fatalf("direction=%q", fromShip.Direction)
	}
	if len(fromShip.Matches) != 1 {
		t.Fatalf("matches=%d body=%s", len(fromShip.Matches), rec.Body.String())
	}
	m := fromShip.Matches[0]
	if m.LandAssignment.LandAssignmentId != f.landID || m.Counterpart.UserId != f.landU.UserId {
		t.Fatalf("unexpected match %+v", m)
	}
	if got := m.ShipAssignment.ExpectedReleaseDate.String(); got != "2024-07-01" {
		t.Fatalf("expectedReleaseDate=%s", got)
	}

	rec = do(t, f.h, apiCall{method: http.MethodGet, path: "/matches/me", subject: "sub-land"})
	requireStatus(t, rec, http.StatusOK)
	fromLand := mustDecode[MatchesResponse](t, rec)
	if fromLand.Direction != "LAND_TO_SHIP" {
		t.Fatalf("direction=%q", fromLand.Direction)
	}
	if len(fromLand.Matches) != 1 || fromLand.Matches[0].ShipAssignment.ShipAssignmentId != f.shipID {
		t.Fatalf("matches=%+v", fromLand.Matches)
	}
	if fromLand.Matches[0].Counterpart.UserId != f.shipU.UserId {
		t.Fatalf("counterpart=%q", fromLand.Matches[0].Counterpart.UserId)
	}
}

func TestMatches_OutsideWindowIsExcluded(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t)
	rec := do(t, f.h, apiCall{method: http.MethodPatch, path: "/land-assignments/" + f.landID, subject: "sub-land", body: `{"expectedJoiningDate":"2024-07-17"}`})
	requireStatus(t, rec, http.StatusOK)

	rec = do(t, f.h, apiCall{method: http.MethodGet, path: "/matches/me", subject: "sub-ship"})
	requireStatus(t, rec, http.StatusOK)
	if n := len(mustDecode[MatchesResponse](t, rec).Matches); n != 0 {
		t.Fatalf("matches=%d", n)
	}
}

func TestMatches_PrivateCandidatesAreExcluded(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t)
	rec := do(t, f.h, apiCall{method: http.MethodPatch, path: "/land-assignments/" + f.landID, subject: "sub-land", body: `{"isPublic":false}`})
	requireStatus(t, rec, http.StatusOK)

	rec = do(t, f.h, apiCall{method: http.MethodGet, path: "/matches/me", subject: "sub-ship"})
	requireStatus(t, rec, http.StatusOK)
	if n := len(mustDecode[MatchesResponse](t, rec).Matches); n != 0 {
		t.Fatalf("matches=%d", n)
	}
}

func TestMatches_RequiresProvisionedCaller(t *testing.T) {
	t.Parallel()

	h := newDevRouter(t)
	rec := do(t, h, apiCall{method: http.MethodGet, path: "/matches/me", subject: "ghost"})
	requireErrorCode(t, rec, http.StatusNotFound, "USER_NOT_PROVISIONED")
}

func TestExplainPair(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t)
	path := func() string {
		v := url.Values{}
		v.Set("shipAssignmentId", f.shipID)
		v.Set("landAssignmentId", f.landID)
		return "/matches/explain?" + v.Encode()
	}

	rec := do(t, f.h, apiCall{method: http.MethodGet, path: path(), subject: "sub-ship"})
	requireStatus(t, rec, http.StatusOK)
	v := mustDecode[PairVerdict](t, rec)
	if !v.Matched || !v.FailedPredicate.IsNull() {
		t.Fatalf("verdict=%+v", v)
	}
	if v.ExpectedReleaseDate.String() != "2024-07-01" || v.WindowStart.String() != "2024-06-16" || v.WindowEnd.String() != "2024-07-16" {
		t.Fatalf("window=%s %s %s", v.ExpectedReleaseDate, v.WindowStart, v.WindowEnd)
	}

	rec = do(t, f.h, apiCall{method: http.MethodPatch, path: "/land-assignments/" + f.landID, subject: "sub-land", body: `{"fleetType":"Bulk Carrier"}`})
	requireStatus(t, rec, http.StatusOK)

	rec = do(t, f.h, apiCall{method: http.MethodGet, path: path(), subject: "sub-land"})
	requireStatus(t, rec, http.StatusOK)
	v = mustDecode[PairVerdict](t, rec)
	if v.Matched {
		t.Fatalf("expected no match")
	}
	if got, err := v.FailedPredicate.Get(); err != nil || got != "fleet" {
		t.Fatalf("failedPredicate=%q err=%v", got, err)
	}

	rec = do(t, f.h, apiCall{method: http.MethodGet, path: "/matches/explain?shipAssignmentId=" + f.shipID, subject: "sub-ship"})
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = do(t, f.h, apiCall{method: http.MethodGet, path: "/matches/explain?shipAssignmentId=missing&landAssignmentId=" + f.landID, subject: "sub-ship"})
	requireErrorCode(t, rec, http.StatusNotFound, "SHIP_ASSIGNMENT_NOT_FOUND")
}

func TestReleaseProjection(t *testing.T) {
	t.Parallel()

	h := newDevRouter(t)
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "default length", query: "onboardDate=2024-01-01", want: "2024-07-01"},
		{name: "month end clamps", query: "onboardDate=2024-01-31&contractLengthMonths=1", want: "2024-02-29"},
		{name: "year boundary", query: "onboardDate=2023-12-31&contractLengthMonths=2", want: "2024-02-29"},
		{name: "no onboard date is today", query: "contractLengthMonths=4", want: "2024-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, apiCall{method: http.MethodGet, path: "/release-projection?" + tt.query, subject: "anyone"})
			requireStatus(t, rec, http.StatusOK)
			got := mustDecode[ReleaseProjection](t, rec)
			if got.ExpectedReleaseDate.String() != tt.want {
				t.Fatalf("expectedReleaseDate=%s want %s", got.ExpectedReleaseDate, tt.want)
			}
		})
	}

	rec := do(t, h, apiCall{method: http.MethodGet, path: "/release-projection?contractLengthMonths=0", subject: "anyone"})
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = do(t, h, apiCall{method: http.MethodGet, path: "/release-projection?onboardDate=tomorrow", subject: "anyone"})
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}
