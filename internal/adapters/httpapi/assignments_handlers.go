package httpapi

import (
	"net/http"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

func (s *Server) CreateShipAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body CreateShipAssignmentRequest
	if !decodeOrReject(w, r, &body) {
		return
	}
	call, handled := s.beginIdempotent(w, r, sub, false, body)
	if handled {
		return
	}

	v, err := s.assignments.CreateShipAssignment(r.Context(), sub, createShipInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	s.finishIdempotent(w, r, call, http.StatusCreated, ShipAssignmentResponse{ShipAssignment: shipViewFromApp(v)})
}

func (s *Server) GetShipAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "shipAssignmentId")
	if !ok {
		return
	}
	v, err := s.assignments.GetShipAssignment(r.Context(), sub, domain.ShipAssignmentID(id))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ShipAssignmentResponse{ShipAssignment: shipViewFromApp(v)})
}

func (s *Server) UpdateShipAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "shipAssignmentId")
	if !ok {
		return
	}
	var body UpdateShipAssignmentRequest
	if !decodeOrReject(w, r, &body) {
		return
	}
	call, handled := s.beginIdempotent(w, r, sub, false, body)
	if handled {
		return
	}

	v, err := s.assignments.UpdateShipAssignment(r.Context(), sub, domain.ShipAssignmentID(id), updateShipInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	s.finishIdempotent(w, r, call, http.StatusOK, ShipAssignmentResponse{ShipAssignment: shipViewFromApp(v)})
}

func (s *Server) DeleteShipAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "shipAssignmentId")
	if !ok {
		return
	}
	if err := s.assignments.DeleteShipAssignment(r.Context(), sub, domain.ShipAssignmentID(id)); err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListMyShipAssignments(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	vs, err := s.assignments.ListMyShipAssignments(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	out := make([]ShipAssignment, 0, len(vs))
	for _, v := range vs {
		out = append(out, shipViewFromApp(v))
	}
	writeJSON(w, http.StatusOK, ShipAssignmentListResponse{ShipAssignments: out})
}

func (s *Server) ListPublicShipAssignments(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	q, ok := queryString(w, r, "q")
	if !ok {
		return
	}
	vs, err := s.assignments.ListPublicShipAssignments(r.Context(), sub, q)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	out := make([]ShipAssignment, 0, len(vs))
	for _, v := range vs {
		out = append(out, shipViewFromApp(v))
	}
	writeJSON(w, http.StatusOK, ShipAssignmentListResponse{ShipAssignments: out})
}

func (s *Server) CreateLandAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body CreateLandAssignmentRequest
	if !decodeOrReject(w, r, &body) {
		return
	}
	call, handled := s.beginIdempotent(w, r, sub, false, body)
	if handled {
		return
	}

	a, err := s.assignments.CreateLandAssignment(r.Context(), sub, createLandInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	s.finishIdempotent(w, r, call, http.StatusCreated, LandAssignmentResponse{LandAssignment: landFromDomain(a)})
}

func (s *Server) GetLandAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "landAssignmentId")
	if !ok {
		return
	}
	a, err := s.assignments.GetLandAssignment(r.Context(), sub, domain.LandAssignmentID(id))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LandAssignmentResponse{LandAssignment: landFromDomain(a)})
}

func (s *Server) UpdateLandAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "landAssignmentId")
	if !ok {
		return
	}
	var body UpdateLandAssignmentRequest
	if !decodeOrReject(w, r, &body) {
		return
	}
	call, handled := s.beginIdempotent(w, r, sub, false, body)
	if handled {
		return
	}

	a, err := s.assignments.UpdateLandAssignment(r.Context(), sub, domain.LandAssignmentID(id), updateLandInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	s.finishIdempotent(w, r, call, http.StatusOK, LandAssignmentResponse{LandAssignment: landFromDomain(a)})
}

func (s *Server) DeleteLandAssignment(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "landAssignmentId")
	if !ok {
		return
	}
	if err := s.assignments.DeleteLandAssignment(r.Context(), sub, domain.LandAssignmentID(id)); err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListMyLandAssignments(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	as, err := s.assignments.ListMyLandAssignments(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LandAssignmentListResponse{LandAssignments: landsFromDomain(as)})
}

func (s *Server) ListPublicLandAssignments(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	q, ok := queryString(w, r, "q")
	if !ok {
		return
	}
	as, err := s.assignments.ListPublicLandAssignments(r.Context(), sub, q)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LandAssignmentListResponse{LandAssignments: landsFromDomain(as)})
}

func landsFromDomain(as []domain.LandAssignment) []LandAssignment {
	out := make([]LandAssignment, 0, len(as))
	for _, a := range as {
		out = append(out, landFromDomain(a))
	}
	return out
}
