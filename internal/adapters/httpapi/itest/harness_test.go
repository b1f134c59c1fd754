package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/httpapi"
	memclock "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/clock"
	memidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/idempotency"
	memlandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/landrepo"
	memshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/shiprepo"
	memuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/userrepo"
	pgidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/idempotency"
	pglandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/landrepo"
	pgshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/shiprepo"
	postgres_testutil "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/testutil"
	pguserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	sqliteidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/idempotency"
	sqlitelandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/landrepo"
	sqliteshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/shiprepo"
	sqliteuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/app/assignments"
	"github.com/isail-maritime/crew-rotation-api/internal/app/matches"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	idempotencyport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
	landrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
	shiprepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
	userrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendSQLite   backend = "sqlite"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "sqlite":
		return []backend{backendSQLite}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	const issuer = "itest-issuer"
	clk := memclock.NewManualClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	var (
		userRepo  userrepoport.Repository
		shipRepo  shiprepoport.Repository
		landRepo  landrepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		userRepo = pguserrepo.NewRepo(pool, issuer)
		shipRepo = pgshiprepo.NewRepo(pool)
		landRepo = pglandrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, issuer)
	case backendSQLite:
		db, err := sqlite.Open("")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = sqlite.Close(db) })
		if err := sqlite.Migrate(db); err != nil {
			t.Fatalf("migrate sqlite: %v", err)
		}
		userRepo = sqliteuserrepo.NewRepo(db, issuer)
		shipRepo = sqliteshiprepo.NewRepo(db)
		landRepo = sqlitelandrepo.NewRepo(db)
		idemStore = sqliteidempotency.NewStore(db, issuer)
	case backendMemory:
		userRepo = memuserrepo.NewRepo()
		shipRepo = memshiprepo.NewRepo()
		landRepo = memlandrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	matcher := matching.NewMatcher(clk)
	userSvc := users.NewService(userRepo, clk)
	assignmentSvc := assignments.NewService(shipRepo, landRepo, userRepo, clk, matcher)
	matchSvc := matches.NewService(userSvc, shipRepo, landRepo, matcher, clk, nil, nil)
	api := httpapi.NewServer(userSvc, assignmentSvc, matchSvc, idemStore, clk, nil)

	// Empty default subject: requests MUST provide X-Debug-Subject, allowing auth-failure coverage.
	authMW := httpapi.NewDevAuthMiddleware("")
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestId string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
