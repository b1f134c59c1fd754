package assignments

import (
	"context"
	"errors"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
)

func (s *Service) CreateLandAssignment(ctx context.Context, subject domain.SubjectID, in CreateLandAssignmentInput) (domain.LandAssignment, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return domain.LandAssignment{}, err
	}

	fleet := domain.NormalizeOptionalText(in.FleetType)
	if fleet == nil {
		return domain.LandAssignment{}, errValidation("fleetType", "invalid fleetType", "must be non-empty")
	}
	if in.ExpectedJoiningDate == nil {
		return domain.LandAssignment{}, errValidation("expectedJoiningDate", "invalid expectedJoiningDate", "is required")
	}
	home, joining := dateOrNil(in.DateHome), dateOrNil(in.ExpectedJoiningDate)
	if err := validateDateOrder("expectedJoiningDate", home, joining); err != nil {
		return domain.LandAssignment{}, err
	}
	email := trimmedOrNil(in.Email)
	if err := s.validateEmail(email); err != nil {
		return domain.LandAssignment{}, err
	}
	public := true
	if in.IsPublic != nil {
		public = *in.IsPublic
	}

	now := s.clk.Now()
	a := landrepo.Assignment{
		ID:                  s.newLandID(),
		UserID:              u.ID,
		LastVessel:          domain.NormalizeOptionalText(in.LastVessel),
		FleetType:           fleet,
		Company:             domain.NormalizeOptionalText(in.Company),
		DateHome:            home,
		ExpectedJoiningDate: joining,
		Email:               email,
		MobileNumber:        trimmedOrNil(in.MobileNumber),
		IsPublic:            public,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.lands.Create(ctx, a); err != nil {
		return domain.LandAssignment{}, err
	}
	if err := s.setStatus(ctx, u, domain.UserStatusOnLand); err != nil {
		if derr := s.lands.Delete(context.WithoutCancel(ctx), a.ID); derr != nil {
			return domain.LandAssignment{}, errors.Join(err, derr)
		}
		return domain.LandAssignment{}, err
	}
	return a, nil
}

// GetLandAssignment returns an assignment the caller owns or one that is public.
func (s *Service) GetLandAssignment(ctx context.Context, subject domain.SubjectID, id domain.LandAssignmentID) (domain.LandAssignment, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return domain.LandAssignment{}, err
	}
	return s.visibleLand(ctx, u, id)
}

func (s *Service) UpdateLandAssignment(ctx context.Context, subject domain.SubjectID, id domain.LandAssignmentID, in UpdateLandAssignmentInput) (domain.LandAssignment, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return domain.LandAssignment{}, err
	}
	a, err := s.ownedLand(ctx, u, id)
	if err != nil {
		return domain.LandAssignment{}, err
	}

	if in.FleetType.IsSpecified() {
		var v *string
		if !in.FleetType.IsNull() {
			raw := in.FleetType.Value()
			v = domain.NormalizeOptionalText(&raw)
		}
		if v == nil {
			return domain.LandAssignment{}, errValidation("fleetType", "invalid fleetType", "must be non-empty")
		}
		a.FleetType = v
	}
	applyText(&a.LastVessel, in.LastVessel, domain.NormalizeOptionalText)
	applyText(&a.Company, in.Company, domain.NormalizeOptionalText)
	applyText(&a.MobileNumber, in.MobileNumber, trimmedOrNil)
	applyText(&a.Email, in.Email, trimmedOrNil)
	if err := s.validateEmail(a.Email); err != nil {
		return domain.LandAssignment{}, err
	}

	if in.ExpectedJoiningDate.IsSpecified() && in.ExpectedJoiningDate.IsNull() {
		return domain.LandAssignment{}, errValidation("expectedJoiningDate", "invalid expectedJoiningDate", "cannot be null")
	}
	applyDate(&a.ExpectedJoiningDate, in.ExpectedJoiningDate)
	applyDate(&a.DateHome, in.DateHome)
	if err := validateDateOrder("expectedJoiningDate", a.DateHome, a.ExpectedJoiningDate); err != nil {
		return domain.LandAssignment{}, err
	}

	if in.IsPublic.IsSpecified() {
		if in.IsPublic.IsNull() {
			return domain.LandAssignment{}, errValidation("isPublic", "invalid isPublic", "cannot be null")
		}
		a.IsPublic = in.IsPublic.Value()
	}

	a.UpdatedAt = s.clk.Now()
	if err := s.lands.Update(ctx, a); err != nil {
		if errors.Is(err, landrepo.ErrNotFound) {
			return domain.LandAssignment{}, errLandNotFound()
		}
		return domain.LandAssignment{}, err
	}
	return a, nil
}

func (s *Service) DeleteLandAssignment(ctx context.Context, subject domain.SubjectID, id domain.LandAssignmentID) error {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return err
	}
	if _, err := s.ownedLand(ctx, u, id); err != nil {
		return err
	}
	if err := s.lands.Delete(ctx, id); err != nil {
		if errors.Is(err, landrepo.ErrNotFound) {
			return errLandNotFound()
		}
		return err
	}
	return nil
}

func (s *Service) ListMyLandAssignments(ctx context.Context, subject domain.SubjectID) ([]domain.LandAssignment, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.lands.ListByUser(ctx, u.ID)
}

// ListPublicLandAssignments lists public land assignments, optionally filtered by a
// case-insensitive substring over last vessel, fleet type and company.
func (s *Service) ListPublicLandAssignments(ctx context.Context, subject domain.SubjectID, query string) ([]domain.LandAssignment, error) {
	if _, err := s.caller(ctx, subject); err != nil {
		return nil, err
	}
	q, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}
	as, err := s.lands.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	if q == "" {
		return as, nil
	}
	out := make([]domain.LandAssignment, 0, len(as))
	for _, a := range as {
		if containsFolded(q, a.LastVessel, a.FleetType, a.Company) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) visibleLand(ctx context.Context, u domain.UserProfile, id domain.LandAssignmentID) (domain.LandAssignment, error) {
	a, err := s.lands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, landrepo.ErrNotFound) {
			return domain.LandAssignment{}, errLandNotFound()
		}
		return domain.LandAssignment{}, err
	}
	if a.UserID != u.ID && !a.IsPublic {
		return domain.LandAssignment{}, errLandNotFound()
	}
	return a, nil
}

func (s *Service) ownedLand(ctx context.Context, u domain.UserProfile, id domain.LandAssignmentID) (domain.LandAssignment, error) {
	a, err := s.visibleLand(ctx, u, id)
	if err != nil {
		return domain.LandAssignment{}, err
	}
	if a.UserID != u.ID {
		return domain.LandAssignment{}, errNotOwner()
	}
	return a, nil
}
