package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/isail-maritime/crew-rotation-api/internal/app/assignments"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
)

func nullableString(p *string) nullable.Nullable[string] {
	if p == nil {
		return nullable.NewNullNullable[string]()
	}
	return nullable.NewNullableWithValue(*p)
}

func nullableDate(p *time.Time) nullable.Nullable[openapi_types.Date] {
	if p == nil {
		return nullable.NewNullNullable[openapi_types.Date]()
	}
	return nullable.NewNullableWithValue(openapi_types.Date{Time: p.UTC()})
}

func datePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := domain.DateOf(d.Time)
	return &t
}

func userProfileFromDomain(u domain.UserProfile) UserProfile {
	return UserProfile{
		UserId:            string(u.ID),
		Name:              u.Name,
		Surname:           nullableString(u.Surname),
		Email:             u.Email,
		MobileNumber:      nullableString(u.MobileNumber),
		PhotoUrl:          nullableString(u.PhotoURL),
		FleetWorking:      nullableString(u.FleetWorking),
		PresentRank:       nullableString(u.PresentRank),
		Company:           nullableString(u.Company),
		CurrentStatus:     string(u.CurrentStatus),
		IsProfileVisible:  u.IsProfileVisible,
		ShowEmailToOthers: u.ShowEmailToOthers,
		ShowPhoneToOthers: u.ShowPhoneToOthers,
		CreatedAt:         u.CreatedAt.UTC(),
		UpdatedAt:         u.UpdatedAt.UTC(),
	}
}

func userSummaryFromDomain(u domain.UserSummary) UserSummary {
	return UserSummary{
		UserId:        string(u.ID),
		Name:          u.Name,
		Surname:       nullableString(u.Surname),
		PhotoUrl:      nullableString(u.PhotoURL),
		FleetWorking:  nullableString(u.FleetWorking),
		PresentRank:   nullableString(u.PresentRank),
		Company:       nullableString(u.Company),
		CurrentStatus: string(u.CurrentStatus),
		Email:         nullableString(u.Email),
		MobileNumber:  nullableString(u.MobileNumber),
	}
}

func shipFromDomain(a domain.ShipAssignment, release time.Time) ShipAssignment {
	return ShipAssignment{
		ShipAssignmentId:     string(a.ID),
		UserId:               string(a.UserID),
		ShipName:             a.ShipName,
		FleetType:            nullableString(a.FleetType),
		Rank:                 nullableString(a.Rank),
		Company:              nullableString(a.Company),
		PortOfJoining:        nullableString(a.PortOfJoining),
		OnboardDate:          nullableDate(a.OnboardDate),
		ContractLengthMonths: a.ContractLengthMonths,
		SignOffDate:          nullableDate(a.SignOffDate),
		ExpectedReleaseDate:  openapi_types.Date{Time: release.UTC()},
		Email:                nullableString(a.Email),
		MobileNumber:         nullableString(a.MobileNumber),
		IsPublic:             a.IsPublic,
		CreatedAt:            a.CreatedAt.UTC(),
		UpdatedAt:            a.UpdatedAt.UTC(),
	}
}

func shipViewFromApp(v assignments.ShipView) ShipAssignment {
	return shipFromDomain(v.ShipAssignment, v.ExpectedReleaseDate)
}

func landFromDomain(a domain.LandAssignment) LandAssignment {
	return LandAssignment{
		LandAssignmentId:    string(a.ID),
		UserId:              string(a.UserID),
		LastVessel:          nullableString(a.LastVessel),
		FleetType:           nullableString(a.FleetType),
		Company:             nullableString(a.Company),
		DateHome:            nullableDate(a.DateHome),
		ExpectedJoiningDate: nullableDate(a.ExpectedJoiningDate),
		Email:               nullableString(a.Email),
		MobileNumber:        nullableString(a.MobileNumber),
		IsPublic:            a.IsPublic,
		CreatedAt:           a.CreatedAt.UTC(),
		UpdatedAt:           a.UpdatedAt.UTC(),
	}
}

func verdictFromDomain(v matching.Verdict) PairVerdict {
	out := PairVerdict{
		Matched:             v.Matched,
		FailedPredicate:     nullable.NewNullNullable[string](),
		ExpectedReleaseDate: openapi_types.Date{Time: v.ExpectedRelease.UTC()},
		WindowStart:         openapi_types.Date{Time: v.WindowStart.UTC()},
		WindowEnd:           openapi_types.Date{Time: v.WindowEnd.UTC()},
	}
	if v.Failed != "" {
		out.FailedPredicate = nullable.NewNullableWithValue(string(v.Failed))
	}
	return out
}

// Users

func createUserInputFromRequest(b CreateUserRequest) users.CreateMyUserInput {
	in := users.CreateMyUserInput{
		Name:              b.Name,
		Surname:           b.Surname,
		Email:             b.Email,
		MobileNumber:      b.MobileNumber,
		PhotoURL:          b.PhotoUrl,
		FleetWorking:      b.FleetWorking,
		PresentRank:       b.PresentRank,
		Company:           b.Company,
		IsProfileVisible:  b.IsProfileVisible,
		ShowEmailToOthers: b.ShowEmailToOthers,
		ShowPhoneToOthers: b.ShowPhoneToOthers,
	}
	if b.CurrentStatus != nil {
		st := domain.UserStatus(*b.CurrentStatus)
		in.CurrentStatus = &st
	}
	return in
}

func updateUserInputFromRequest(b UpdateUserRequest) users.UpdateMyUserInput {
	return users.UpdateMyUserInput{
		Name:              usersOptional(b.Name),
		Email:             usersOptional(b.Email),
		Surname:           usersOptional(b.Surname),
		MobileNumber:      usersOptional(b.MobileNumber),
		PhotoURL:          usersOptional(b.PhotoUrl),
		FleetWorking:      usersOptional(b.FleetWorking),
		PresentRank:       usersOptional(b.PresentRank),
		Company:           usersOptional(b.Company),
		CurrentStatus:     usersStatusOptional(b.CurrentStatus),
		IsProfileVisible:  usersOptional(b.IsProfileVisible),
		ShowEmailToOthers: usersOptional(b.ShowEmailToOthers),
		ShowPhoneToOthers: usersOptional(b.ShowPhoneToOthers),
	}
}

func usersOptional[T any](n nullable.Nullable[T]) users.Optional[T] {
	if !n.IsSpecified() {
		return users.Unspecified[T]()
	}
	if n.IsNull() {
		return users.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return users.Unspecified[T]()
	}
	return users.Some(v)
}

func usersStatusOptional(n nullable.Nullable[string]) users.Optional[domain.UserStatus] {
	o := usersOptional(n)
	switch {
	case !o.IsSpecified():
		return users.Unspecified[domain.UserStatus]()
	case o.IsNull():
		return users.Null[domain.UserStatus]()
	default:
		return users.Some(domain.UserStatus(o.Value()))
	}
}

// Assignments

func assignmentsOptional[T any](n nullable.Nullable[T]) assignments.Optional[T] {
	if !n.IsSpecified() {
		return assignments.Unspecified[T]()
	}
	if n.IsNull() {
		return assignments.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return assignments.Unspecified[T]()
	}
	return assignments.Some(v)
}

func assignmentsDateOptional(n nullable.Nullable[openapi_types.Date]) assignments.Optional[time.Time] {
	o := assignmentsOptional(n)
	switch {
	case !o.IsSpecified():
		return assignments.Unspecified[time.Time]()
	case o.IsNull():
		return assignments.Null[time.Time]()
	default:
		return assignments.Some(domain.DateOf(o.Value().Time))
	}
}

func createShipInputFromRequest(b CreateShipAssignmentRequest) assignments.CreateShipAssignmentInput {
	return assignments.CreateShipAssignmentInput{
		ShipName:             b.ShipName,
		FleetType:            b.FleetType,
		Rank:                 b.Rank,
		Company:              b.Company,
		PortOfJoining:        b.PortOfJoining,
		OnboardDate:          datePtr(b.OnboardDate),
		ContractLengthMonths: b.ContractLengthMonths,
		SignOffDate:          datePtr(b.SignOffDate),
		Email:                b.Email,
		MobileNumber:         b.MobileNumber,
		IsPublic:             b.IsPublic,
	}
}

func updateShipInputFromRequest(b UpdateShipAssignmentRequest) assignments.UpdateShipAssignmentInput {
	return assignments.UpdateShipAssignmentInput{
		ShipName:             assignmentsOptional(b.ShipName),
		FleetType:            assignmentsOptional(b.FleetType),
		Rank:                 assignmentsOptional(b.Rank),
		Company:              assignmentsOptional(b.Company),
		PortOfJoining:        assignmentsOptional(b.PortOfJoining),
		OnboardDate:          assignmentsDateOptional(b.OnboardDate),
		ContractLengthMonths: assignmentsOptional(b.ContractLengthMonths),
		SignOffDate:          assignmentsDateOptional(b.SignOffDate),
		Email:                assignmentsOptional(b.Email),
		MobileNumber:         assignmentsOptional(b.MobileNumber),
		IsPublic:             assignmentsOptional(b.IsPublic),
	}
}

func createLandInputFromRequest(b CreateLandAssignmentRequest) assignments.CreateLandAssignmentInput {
	return assignments.CreateLandAssignmentInput{
		LastVessel:          b.LastVessel,
		FleetType:           b.FleetType,
		Company:             b.Company,
		DateHome:            datePtr(b.DateHome),
		ExpectedJoiningDate: datePtr(b.ExpectedJoiningDate),
		Email:               b.Email,
		MobileNumber:        b.MobileNumber,
		IsPublic:            b.IsPublic,
	}
}

func updateLandInputFromRequest(b UpdateLandAssignmentRequest) assignments.UpdateLandAssignmentInput {
	return assignments.UpdateLandAssignmentInput{
		LastVessel:          assignmentsOptional(b.LastVessel),
		FleetType:           assignmentsOptional(b.FleetType),
		Company:             assignmentsOptional(b.Company),
		DateHome:            assignmentsDateOptional(b.DateHome),
		ExpectedJoiningDate: assignmentsDateOptional(b.ExpectedJoiningDate),
		Email:               assignmentsOptional(b.Email),
		MobileNumber:        assignmentsOptional(b.MobileNumber),
		IsPublic:            assignmentsOptional(b.IsPublic),
	}
}
