package domain

import "time"

// DefaultContractLengthMonths is used when a ship assignment does not state its contract length.
const DefaultContractLengthMonths = 6

// KnownFleetTypes are the fleet categories offered to clients. Fleet type stays free text.
var KnownFleetTypes = []string{
	"Container",
	"Tanker",
	"Bulk Carrier",
	"RORO",
	"Cruise",
	"Offshore",
	"Bulk & Gear",
	"Other",
}

// ShipAssignment is a seafarer's current onboard posting.
//
// Dates carry date-only semantics (UTC midnight).
type ShipAssignment struct {
	ID     ShipAssignmentID
	UserID UserID

	ShipName      string
	FleetType     *string
	Rank          *string
	Company       *string // overrides the holder's profile company when set
	PortOfJoining *string

	OnboardDate          *time.Time
	ContractLengthMonths int
	SignOffDate          *time.Time

	Email        *string
	MobileNumber *string

	IsPublic bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LandAssignment is a seafarer's current shore period.
//
// Dates carry date-only semantics (UTC midnight).
type LandAssignment struct {
	ID     LandAssignmentID
	UserID UserID

	LastVessel *string
	FleetType  *string
	Company    *string // overrides the holder's profile company when set

	DateHome            *time.Time
	ExpectedJoiningDate *time.Time

	Email        *string
	MobileNumber *string

	IsPublic bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
