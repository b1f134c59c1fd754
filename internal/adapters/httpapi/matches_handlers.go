package httpapi

import (
	"net/http"

	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

func (s *Server) FindMyMatches(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	res, err := s.matches.FindMyMatches(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	out := MatchesResponse{
		Direction: string(res.Direction),
		Matches:   make([]Match, 0, len(res.Matches)),
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, Match{
			ShipAssignment: shipFromDomain(m.Ship, m.ExpectedReleaseDate),
			LandAssignment: landFromDomain(m.Land),
			Counterpart:    userSummaryFromDomain(m.Counterpart),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ExplainPair(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var shipID, landID string
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "shipAssignmentId", q, &shipID); err != nil {
		writeValidation(w, r, "invalid query parameter", map[string]any{"shipAssignmentId": err.Error()})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "landAssignmentId", q, &landID); err != nil {
		writeValidation(w, r, "invalid query parameter", map[string]any{"landAssignmentId": err.Error()})
		return
	}

	v, err := s.matches.ExplainPair(r.Context(), sub, domain.ShipAssignmentID(shipID), domain.LandAssignmentID(landID))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, verdictFromDomain(v))
}

// ProjectRelease is a pure calculation and needs no provisioned profile.
func (s *Server) ProjectRelease(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var onboard *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "onboardDate", q, &onboard); err != nil {
		writeValidation(w, r, "invalid query parameter", map[string]any{"onboardDate": err.Error()})
		return
	}
	months := domain.DefaultContractLengthMonths
	var monthsParam *int
	if err := runtime.BindQueryParameter("form", true, false, "contractLengthMonths", q, &monthsParam); err != nil {
		writeValidation(w, r, "invalid query parameter", map[string]any{"contractLengthMonths": err.Error()})
		return
	}
	if monthsParam != nil {
		months = *monthsParam
	}
	if months < 1 || months > 36 {
		writeValidation(w, r, "contract length out of range", map[string]any{"contractLengthMonths": "must be between 1 and 36"})
		return
	}

	out := ReleaseProjection{
		OnboardDate:          nullable.NewNullNullable[openapi_types.Date](),
		ContractLengthMonths: months,
	}
	if onboard != nil {
		out.OnboardDate = nullable.NewNullableWithValue(*onboard)
	}
	release := s.matches.ProjectRelease(datePtr(onboard), months)
	out.ExpectedReleaseDate = openapi_types.Date{Time: release.UTC()}
	writeJSON(w, http.StatusOK, out)
}
