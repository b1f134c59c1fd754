package assignments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

const (
	MinContractLengthMonths = 1
	MaxContractLengthMonths = 36

	// MinSearchQueryLength applies to non-empty public list queries, in runes.
	MinSearchQueryLength = 2
)

type Service struct {
	ships   shiprepo.Repository
	lands   landrepo.Repository
	users   userrepo.Repository
	clk     clockport.Clock
	matcher *matching.Matcher

	validate *validator.Validate

	newShipID func() domain.ShipAssignmentID
	newLandID func() domain.LandAssignmentID
}

func NewService(ships shiprepo.Repository, lands landrepo.Repository, users userrepo.Repository, clk clockport.Clock, matcher *matching.Matcher) *Service {
	return &Service{
		ships:    ships,
		lands:    lands,
		users:    users,
		clk:      clk,
		matcher:  matcher,
		validate: validator.New(),
		newShipID: func() domain.ShipAssignmentID {
			return domain.ShipAssignmentID(uuid.NewString())
		},
		newLandID: func() domain.LandAssignmentID {
			return domain.LandAssignmentID(uuid.NewString())
		},
	}
}

func (s *Service) caller(ctx context.Context, subject domain.SubjectID) (domain.UserProfile, error) {
	u, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.UserProfile{}, errNotProvisioned()
		}
		return domain.UserProfile{}, err
	}
	return u, nil
}

// setStatus records where the caller is now. Creating an assignment of one kind moves the
// caller to that side, which in turn selects their matching direction.
func (s *Service) setStatus(ctx context.Context, u domain.UserProfile, status domain.UserStatus) error {
	if u.CurrentStatus == status {
		return nil
	}
	u.CurrentStatus = status
	u.UpdatedAt = s.clk.Now()
	return s.users.Update(ctx, u)
}

func (s *Service) shipView(a domain.ShipAssignment) ShipView {
	return ShipView{
		ShipAssignment:      a,
		ExpectedReleaseDate: s.matcher.ProjectRelease(a.OnboardDate, a.ContractLengthMonths),
	}
}

func (s *Service) CreateShipAssignment(ctx context.Context, subject domain.SubjectID, in CreateShipAssignmentInput) (ShipView, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return ShipView{}, err
	}

	shipName := domain.NormalizeHumanName(in.ShipName)
	if shipName == "" {
		return ShipView{}, errValidation("shipName", "invalid shipName", "must be non-empty")
	}
	rank := domain.NormalizeOptionalText(in.Rank)
	if rank == nil {
		return ShipView{}, errValidation("rank", "invalid rank", "must be non-empty")
	}
	fleet := domain.NormalizeOptionalText(in.FleetType)
	if fleet == nil {
		return ShipView{}, errValidation("fleetType", "invalid fleetType", "must be non-empty")
	}
	months := domain.DefaultContractLengthMonths
	if in.ContractLengthMonths != nil {
		months = *in.ContractLengthMonths
	}
	if err := validateContractLength(months); err != nil {
		return ShipView{}, err
	}
	email := trimmedOrNil(in.Email)
	if err := s.validateEmail(email); err != nil {
		return ShipView{}, err
	}
	onboard, signOff := dateOrNil(in.OnboardDate), dateOrNil(in.SignOffDate)
	if err := validateDateOrder("signOffDate", onboard, signOff); err != nil {
		return ShipView{}, err
	}
	public := true
	if in.IsPublic != nil {
		public = *in.IsPublic
	}

	now := s.clk.Now()
	a := shiprepo.Assignment{
		ID:                   s.newShipID(),
		UserID:               u.ID,
		ShipName:             shipName,
		FleetType:            fleet,
		Rank:                 rank,
		Company:              domain.NormalizeOptionalText(in.Company),
		PortOfJoining:        domain.NormalizeOptionalText(in.PortOfJoining),
		OnboardDate:          onboard,
		ContractLengthMonths: months,
		SignOffDate:          signOff,
		Email:                email,
		MobileNumber:         trimmedOrNil(in.MobileNumber),
		IsPublic:             public,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.ships.Create(ctx, a); err != nil {
		return ShipView{}, err
	}
	if err := s.setStatus(ctx, u, domain.UserStatusOnShip); err != nil {
		// Without the status flip the assignment is never matched; undo it so a retry starts clean.
		if derr := s.ships.Delete(context.WithoutCancel(ctx), a.ID); derr != nil {
			return ShipView{}, errors.Join(err, derr)
		}
		return ShipView{}, err
	}
	return s.shipView(a), nil
}

// GetShipAssignment returns an assignment the caller owns or one that is public.
func (s *Service) GetShipAssignment(ctx context.Context, subject domain.SubjectID, id domain.ShipAssignmentID) (ShipView, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return ShipView{}, err
	}
	a, err := s.visibleShip(ctx, u, id)
	if err != nil {
		return ShipView{}, err
	}
	return s.shipView(a), nil
}

func (s *Service) UpdateShipAssignment(ctx context.Context, subject domain.SubjectID, id domain.ShipAssignmentID, in UpdateShipAssignmentInput) (ShipView, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return ShipView{}, err
	}
	a, err := s.ownedShip(ctx, u, id)
	if err != nil {
		return ShipView{}, err
	}

	required := []struct {
		field string
		dst   **string
		o     Optional[string]
	}{
		{"fleetType", &a.FleetType, in.FleetType},
		{"rank", &a.Rank, in.Rank},
	}
	if in.ShipName.IsSpecified() {
		name := ""
		if !in.ShipName.IsNull() {
			name = domain.NormalizeHumanName(in.ShipName.Value())
		}
		if name == "" {
			return ShipView{}, errValidation("shipName", "invalid shipName", "must be non-empty")
		}
		a.ShipName = name
	}
	for _, r := range required {
		if !r.o.IsSpecified() {
			continue
		}
		var v *string
		if !r.o.IsNull() {
			raw := r.o.Value()
			v = domain.NormalizeOptionalText(&raw)
		}
		if v == nil {
			return ShipView{}, errValidation(r.field, "invalid "+r.field, "must be non-empty")
		}
		*r.dst = v
	}

	applyText(&a.Company, in.Company, domain.NormalizeOptionalText)
	applyText(&a.PortOfJoining, in.PortOfJoining, domain.NormalizeOptionalText)
	applyText(&a.MobileNumber, in.MobileNumber, trimmedOrNil)
	applyText(&a.Email, in.Email, trimmedOrNil)
	if err := s.validateEmail(a.Email); err != nil {
		return ShipView{}, err
	}

	applyDate(&a.OnboardDate, in.OnboardDate)
	applyDate(&a.SignOffDate, in.SignOffDate)
	if err := validateDateOrder("signOffDate", a.OnboardDate, a.SignOffDate); err != nil {
		return ShipView{}, err
	}

	if in.ContractLengthMonths.IsSpecified() {
		if in.ContractLengthMonths.IsNull() {
			return ShipView{}, errValidation("contractLengthMonths", "invalid contractLengthMonths", "cannot be null")
		}
		if err := validateContractLength(in.ContractLengthMonths.Value()); err != nil {
			return ShipView{}, err
		}
		a.ContractLengthMonths = in.ContractLengthMonths.Value()
	}
	if in.IsPublic.IsSpecified() {
		if in.IsPublic.IsNull() {
			return ShipView{}, errValidation("isPublic", "invalid isPublic", "cannot be null")
		}
		a.IsPublic = in.IsPublic.Value()
	}

	a.UpdatedAt = s.clk.Now()
	if err := s.ships.Update(ctx, a); err != nil {
		if errors.Is(err, shiprepo.ErrNotFound) {
			return ShipView{}, errShipNotFound()
		}
		return ShipView{}, err
	}
	return s.shipView(a), nil
}

func (s *Service) DeleteShipAssignment(ctx context.Context, subject domain.SubjectID, id domain.ShipAssignmentID) error {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return err
	}
	if _, err := s.ownedShip(ctx, u, id); err != nil {
		return err
	}
	if err := s.ships.Delete(ctx, id); err != nil {
		if errors.Is(err, shiprepo.ErrNotFound) {
			return errShipNotFound()
		}
		return err
	}
	return nil
}

func (s *Service) ListMyShipAssignments(ctx context.Context, subject domain.SubjectID) ([]ShipView, error) {
	u, err := s.caller(ctx, subject)
	if err != nil {
		return nil, err
	}
	as, err := s.ships.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return s.shipViews(as, nil), nil
}

// ListPublicShipAssignments lists public ship assignments, optionally filtered by a
// case-insensitive substring over ship name, rank, company, fleet type and port of joining.
func (s *Service) ListPublicShipAssignments(ctx context.Context, subject domain.SubjectID, query string) ([]ShipView, error) {
	if _, err := s.caller(ctx, subject); err != nil {
		return nil, err
	}
	q, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}
	as, err := s.ships.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	return s.shipViews(as, func(a domain.ShipAssignment) bool {
		return q == "" || containsFolded(q, &a.ShipName, a.Rank, a.Company, a.FleetType, a.PortOfJoining)
	}), nil
}

func (s *Service) shipViews(as []domain.ShipAssignment, keep func(domain.ShipAssignment) bool) []ShipView {
	out := make([]ShipView, 0, len(as))
	for _, a := range as {
		if keep != nil && !keep(a) {
			continue
		}
		out = append(out, s.shipView(a))
	}
	return out
}

func (s *Service) visibleShip(ctx context.Context, u domain.UserProfile, id domain.ShipAssignmentID) (domain.ShipAssignment, error) {
	a, err := s.ships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shiprepo.ErrNotFound) {
			return domain.ShipAssignment{}, errShipNotFound()
		}
		return domain.ShipAssignment{}, err
	}
	if a.UserID != u.ID && !a.IsPublic {
		return domain.ShipAssignment{}, errShipNotFound()
	}
	return a, nil
}

func (s *Service) ownedShip(ctx context.Context, u domain.UserProfile, id domain.ShipAssignmentID) (domain.ShipAssignment, error) {
	a, err := s.visibleShip(ctx, u, id)
	if err != nil {
		return domain.ShipAssignment{}, err
	}
	if a.UserID != u.ID {
		return domain.ShipAssignment{}, errNotOwner()
	}
	return a, nil
}

func (s *Service) validateEmail(email *string) error {
	if email == nil {
		return nil
	}
	if err := s.validate.Var(*email, "email"); err != nil {
		return errValidation("email", "invalid email", "must be a valid email address")
	}
	return nil
}

func validateContractLength(months int) error {
	if months < MinContractLengthMonths || months > MaxContractLengthMonths {
		return errValidation("contractLengthMonths", "invalid contractLengthMonths", "must be between 1 and 36")
	}
	return nil
}

// validateDateOrder rejects a later date that falls before the earlier one.
func validateDateOrder(field string, earlier, later *time.Time) error {
	if earlier == nil || later == nil {
		return nil
	}
	if later.Before(*earlier) {
		return errValidation(field, "invalid "+field, "must not be before the start date")
	}
	return nil
}

func normalizeQuery(query string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q != "" && len([]rune(q)) < MinSearchQueryLength {
		return "", errValidation("q", "invalid search query", "must be at least 2 characters")
	}
	return q, nil
}

func containsFolded(q string, fields ...*string) bool {
	for _, f := range fields {
		if f != nil && strings.Contains(strings.ToLower(*f), q) {
			return true
		}
	}
	return false
}

func applyText(dst **string, o Optional[string], normalize func(*string) *string) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := o.Value()
	*dst = normalize(&v)
}

func applyDate(dst **time.Time, o Optional[time.Time]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := o.Value()
	*dst = dateOrNil(&v)
}

func dateOrNil(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	d := domain.DateOf(*p)
	return &d
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
