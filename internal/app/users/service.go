package users

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

// MinSearchQueryLength is the shortest accepted directory search query, in runes.
const MinSearchQueryLength = 2

type Service struct {
	repo     userrepo.Repository
	clk      clockport.Clock
	validate *validator.Validate

	newUserID func() domain.UserID

	// SearchLimit bounds search result size.
	SearchLimit int
}

func NewService(repo userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:     repo,
		clk:      clk,
		validate: validator.New(),
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
		SearchLimit: 50,
	}
}

func (s *Service) GetMyUser(ctx context.Context, subject domain.SubjectID) (domain.UserProfile, error) {
	u, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.UserProfile{}, errNotProvisioned()
		}
		return domain.UserProfile{}, err
	}
	return u, nil
}

// GetUser returns another user's public profile. Hidden profiles are reported as missing.
func (s *Service) GetUser(ctx context.Context, id domain.UserID) (domain.UserSummary, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.UserSummary{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return domain.UserSummary{}, err
	}
	if !u.IsProfileVisible {
		return domain.UserSummary{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
	}
	return u.Summary(), nil
}

// LookupHolder resolves the owner of an assignment for matching. Hidden profiles are still
// returned: visibility governs the directory, not the candidate pool.
func (s *Service) LookupHolder(ctx context.Context, id domain.UserID) (domain.UserProfile, bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.UserProfile{}, false, nil
		}
		return domain.UserProfile{}, false, err
	}
	return u, true, nil
}

func (s *Service) SearchUsers(ctx context.Context, query string) ([]domain.UserSummary, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinSearchQueryLength {
		return nil, errValidation("q", "invalid search query", "must be at least 2 characters")
	}
	us, err := s.repo.SearchVisible(ctx, q, s.SearchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(us))
	for _, u := range us {
		out = append(out, u.Summary())
	}
	return out, nil
}

func (s *Service) CreateMyUser(ctx context.Context, subject domain.SubjectID, in CreateMyUserInput) (domain.UserProfile, error) {
	// Ensure no existing binding.
	if _, err := s.repo.GetBySubject(ctx, subject); err == nil {
		return domain.UserProfile{}, errAlreadyExists()
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return domain.UserProfile{}, err
	}

	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.UserProfile{}, errValidation("name", "invalid name", "must be non-empty")
	}
	email := strings.TrimSpace(in.Email)
	if err := s.validateEmail(email); err != nil {
		return domain.UserProfile{}, errValidation("email", "invalid email", err.Error())
	}
	if err := s.ensureEmailUnique(ctx, email, ""); err != nil {
		return domain.UserProfile{}, err
	}

	status := domain.UserStatusOnLand
	if in.CurrentStatus != nil {
		if !in.CurrentStatus.Valid() {
			return domain.UserProfile{}, errValidation("currentStatus", "invalid currentStatus", "must be ON_SHIP or ON_LAND")
		}
		status = *in.CurrentStatus
	}
	visible := true
	if in.IsProfileVisible != nil {
		visible = *in.IsProfileVisible
	}

	now := s.clk.Now()
	u := userrepo.User{
		ID:                s.newUserID(),
		Subject:           subject,
		Name:              name,
		Surname:           domain.NormalizeOptionalText(in.Surname),
		Email:             email,
		MobileNumber:      trimmedOrNil(in.MobileNumber),
		PhotoURL:          trimmedOrNil(in.PhotoURL),
		FleetWorking:      domain.NormalizeOptionalText(in.FleetWorking),
		PresentRank:       domain.NormalizeOptionalText(in.PresentRank),
		Company:           domain.NormalizeOptionalText(in.Company),
		CurrentStatus:     status,
		IsProfileVisible:  visible,
		ShowEmailToOthers: in.ShowEmailToOthers,
		ShowPhoneToOthers: in.ShowPhoneToOthers,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrSubjectAlreadyBound) {
			return domain.UserProfile{}, errAlreadyExists()
		}
		return domain.UserProfile{}, err
	}
	return u, nil
}

func (s *Service) UpdateMyUser(ctx context.Context, subject domain.SubjectID, in UpdateMyUserInput) (domain.UserProfile, error) {
	u, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.UserProfile{}, errNotProvisioned()
		}
		return domain.UserProfile{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.UserProfile{}, errValidation("name", "invalid name", "cannot be null")
		}
		name := domain.NormalizeHumanName(in.Name.Value())
		if name == "" {
			return domain.UserProfile{}, errValidation("name", "invalid name", "must be non-empty")
		}
		u.Name = name
	}

	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			return domain.UserProfile{}, errValidation("email", "invalid email", "cannot be null")
		}
		email := strings.TrimSpace(in.Email.Value())
		if err := s.validateEmail(email); err != nil {
			return domain.UserProfile{}, errValidation("email", "invalid email", err.Error())
		}
		if err := s.ensureEmailUnique(ctx, email, u.ID); err != nil {
			return domain.UserProfile{}, err
		}
		u.Email = email
	}

	applyText := func(dst **string, o Optional[string], normalize func(*string) *string) {
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
	applyText(&u.Surname, in.Surname, domain.NormalizeOptionalText)
	applyText(&u.MobileNumber, in.MobileNumber, trimmedOrNil)
	applyText(&u.PhotoURL, in.PhotoURL, trimmedOrNil)
	applyText(&u.FleetWorking, in.FleetWorking, domain.NormalizeOptionalText)
	applyText(&u.PresentRank, in.PresentRank, domain.NormalizeOptionalText)
	applyText(&u.Company, in.Company, domain.NormalizeOptionalText)

	if in.CurrentStatus.IsSpecified() {
		if in.CurrentStatus.IsNull() || !in.CurrentStatus.Value().Valid() {
			return domain.UserProfile{}, errValidation("currentStatus", "invalid currentStatus", "must be ON_SHIP or ON_LAND")
		}
		u.CurrentStatus = in.CurrentStatus.Value()
	}

	flags := []struct {
		field string
		dst   *bool
		o     Optional[bool]
	}{
		{"isProfileVisible", &u.IsProfileVisible, in.IsProfileVisible},
		{"showEmailToOthers", &u.ShowEmailToOthers, in.ShowEmailToOthers},
		{"showPhoneToOthers", &u.ShowPhoneToOthers, in.ShowPhoneToOthers},
	}
	for _, f := range flags {
		if !f.o.IsSpecified() {
			continue
		}
		if f.o.IsNull() {
			return domain.UserProfile{}, errValidation(f.field, "invalid "+f.field, "cannot be null")
		}
		*f.dst = f.o.Value()
	}

	u.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return domain.UserProfile{}, err
	}
	return u, nil
}

func (s *Service) validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return errors.New("must be a valid email address")
	}
	return nil
}

func (s *Service) ensureEmailUnique(ctx context.Context, email string, exclude domain.UserID) error {
	us, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range us {
		if exclude != "" && u.ID == exclude {
			continue
		}
		if strings.EqualFold(u.Email, email) {
			return &Error{
				Status:  409,
				Code:    "EMAIL_ALREADY_IN_USE",
				Message: "email address is already in use",
			}
		}
	}
	return nil
}

func errAlreadyExists() *Error {
	return &Error{
		Status:  409,
		Code:    "USER_ALREADY_EXISTS",
		Message: "A user profile already exists for the authenticated subject.",
	}
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
