package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	memclock "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/clock"
	memidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/idempotency"
	memlandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/landrepo"
	memshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/shiprepo"
	memuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/app/assignments"
	"github.com/isail-maritime/crew-rotation-api/internal/app/matches"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// newTestServer wires every service over the in-memory adapters.
func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	userRepo := memuserrepo.NewRepo()
	ships := memshiprepo.NewRepo()
	lands := memlandrepo.NewRepo()
	matcher := matching.NewMatcher(clk)
	reg := prometheus.NewRegistry()

	usersSvc := users.NewService(userRepo, clk)
	assignmentsSvc := assignments.NewService(ships, lands, userRepo, clk, matcher)
	matchesSvc := matches.NewService(usersSvc, ships, lands, matcher, clk, matches.NewMetrics(reg), nil)
	return NewServer(usersSvc, assignmentsSvc, matchesSvc, memidempotency.NewStore(), clk, nil), reg
}

// newDevRouter serves the API behind the X-Debug-Subject shim.
func newDevRouter(t *testing.T) http.Handler {
	t.Helper()
	srv, reg := newTestServer(t)
	return NewRouterWithOptions(srv, RouterOptions{
		AuthMiddleware: NewDevAuthMiddleware(""),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

type apiCall struct {
	method  string
	path    string
	subject string
	body    string
	headers map[string]string
}

func do(t *testing.T, h http.Handler, c apiCall) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.subject != "" {
		req.Header.Set("X-Debug-Subject", c.subject)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func mustDecode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\nbody=%s", err, rec.Body.String())
	}
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status=%d want=%d body=%s", rec.Code, want, rec.Body.String())
	}
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, rec, wantStatus)
	er := mustDecode[ErrorResponse](t, rec)
	if er.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", er.Error.Code, wantCode, rec.Body.String())
	}
}

func provision(t *testing.T, h http.Handler, subject, body string) UserProfile {
	t.Helper()
	rec := do(t, h, apiCall{method: http.MethodPost, path: "/users", subject: subject, body: body})
	requireStatus(t, rec, http.StatusCreated)
	return mustDecode[UserResponse](t, rec).User
}
