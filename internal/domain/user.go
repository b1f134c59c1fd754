package domain

import "time"

// UserStatus records whether a seafarer is currently aboard or ashore.
// It selects which of the user's assignments take part in matching.
type UserStatus string

const (
	UserStatusOnShip UserStatus = "ON_SHIP"
	UserStatusOnLand UserStatus = "ON_LAND"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusOnShip || s == UserStatusOnLand
}

// UserProfile is the domain representation of a seafarer profile.
type UserProfile struct {
	ID      UserID
	Subject SubjectID

	Name         string
	Surname      *string
	Email        string
	MobileNumber *string
	PhotoURL     *string

	FleetWorking *string
	PresentRank  *string
	Company      *string

	CurrentStatus     UserStatus
	IsProfileVisible  bool
	ShowEmailToOthers bool
	ShowPhoneToOthers bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the public view of a profile shown next to someone else's assignment.
// Contact fields are nil unless the owner opted in to sharing them.
type UserSummary struct {
	ID            UserID
	Name          string
	Surname       *string
	PhotoURL      *string
	FleetWorking  *string
	PresentRank   *string
	Company       *string
	CurrentStatus UserStatus
	Email         *string
	MobileNumber  *string
}

// Summary returns the public summary of u, honoring its contact sharing flags.
func (u UserProfile) Summary() UserSummary {
	s := UserSummary{
		ID:            u.ID,
		Name:          u.Name,
		Surname:       u.Surname,
		PhotoURL:      u.PhotoURL,
		FleetWorking:  u.FleetWorking,
		PresentRank:   u.PresentRank,
		Company:       u.Company,
		CurrentStatus: u.CurrentStatus,
	}
	if u.ShowEmailToOthers && u.Email != "" {
		email := u.Email
		s.Email = &email
	}
	if u.ShowPhoneToOthers {
		s.MobileNumber = u.MobileNumber
	}
	return s
}
