package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime"

	"github.com/isail-maritime/crew-rotation-api/internal/app/assignments"
	"github.com/isail-maritime/crew-rotation-api/internal/app/matches"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
)

// Server holds the HTTP handlers. Each handler resolves the caller, decodes the request,
// delegates to an application service and renders the result.
type Server struct {
	users       *users.Service
	assignments *assignments.Service
	matches     *matches.Service
	idem        idempotency.Store
	clk         clockport.Clock
	logger      *slog.Logger
}

// NewServer wires the handlers. idem may be nil to disable replay; logger may be nil.
func NewServer(usersSvc *users.Service, assignmentsSvc *assignments.Service, matchesSvc *matches.Service, idem idempotency.Store, clk clockport.Clock, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		users:       usersSvc,
		assignments: assignmentsSvc,
		matches:     matchesSvc,
		idem:        idem,
		clk:         clk,
		logger:      logger,
	}
}

func (s *Server) subject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r, "missing subject")
	}
	return sub, ok
}

// pathParam binds a required path parameter.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeValidation(w, r, "invalid path parameter", map[string]any{name: err.Error()})
		return "", false
	}
	return v, true
}

// queryString binds an optional string query parameter.
func queryString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		writeValidation(w, r, "invalid query parameter", map[string]any{name: err.Error()})
		return "", false
	}
	if v == nil {
		return "", true
	}
	return *v, true
}

func (s *Server) CreateMyUser(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body CreateUserRequest
	if !decodeOrReject(w, r, &body) {
		return
	}

	canon := body
	canon.Name = domain.NormalizeHumanName(canon.Name)
	canon.Email = strings.TrimSpace(canon.Email)
	call, handled := s.beginIdempotent(w, r, sub, false, canon)
	if handled {
		return
	}

	u, err := s.users.CreateMyUser(r.Context(), sub, createUserInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	s.finishIdempotent(w, r, call, http.StatusCreated, UserResponse{User: userProfileFromDomain(u)})
}

func (s *Server) GetMyUser(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	u, err := s.users.GetMyUser(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: userProfileFromDomain(u)})
}

func (s *Server) UpdateMyUser(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body UpdateUserRequest
	if !decodeOrReject(w, r, &body) {
		return
	}

	// Hash the normalized form so cosmetic whitespace changes replay.
	canon := body
	if v, err := canon.Name.Get(); err == nil {
		canon.Name = nullable.NewNullableWithValue(domain.NormalizeHumanName(v))
	}
	if v, err := canon.Email.Get(); err == nil {
		canon.Email = nullable.NewNullableWithValue(strings.TrimSpace(v))
	}
	call, handled := s.beginIdempotent(w, r, sub, true, canon)
	if handled {
		return
	}

	u, err := s.users.UpdateMyUser(r.Context(), sub, updateUserInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	s.finishIdempotent(w, r, call, http.StatusOK, UserResponse{User: userProfileFromDomain(u)})
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	// Directory access requires a provisioned caller.
	if _, err := s.users.GetMyUser(r.Context(), sub); err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	id, ok := pathParam(w, r, "userId")
	if !ok {
		return
	}
	u, err := s.users.GetUser(r.Context(), domain.UserID(id))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, UserSummaryResponse{User: userSummaryFromDomain(u)})
}

func (s *Server) SearchUsers(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	if _, err := s.users.GetMyUser(r.Context(), sub); err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	q, ok := queryString(w, r, "q")
	if !ok {
		return
	}
	us, err := s.users.SearchUsers(r.Context(), q)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	out := make([]UserSummary, 0, len(us))
	for _, u := range us {
		out = append(out, userSummaryFromDomain(u))
	}
	writeJSON(w, http.StatusOK, UserSearchResponse{Users: out})
}
