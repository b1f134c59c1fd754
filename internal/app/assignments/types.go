package assignments

import (
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// ShipView is a ship assignment together with its projected release date.
type ShipView struct {
	domain.ShipAssignment
	ExpectedReleaseDate time.Time
}

type CreateShipAssignmentInput struct {
	ShipName      string
	FleetType     *string
	Rank          *string
	Company       *string
	PortOfJoining *string

	OnboardDate *time.Time
	// ContractLengthMonths defaults to domain.DefaultContractLengthMonths.
	ContractLengthMonths *int
	SignOffDate          *time.Time

	Email        *string
	MobileNumber *string

	// IsPublic defaults to true.
	IsPublic *bool
}

type UpdateShipAssignmentInput struct {
	ShipName  Optional[string] // cannot be null
	FleetType Optional[string] // cannot be null
	Rank      Optional[string] // cannot be null

	Company       Optional[string]
	PortOfJoining Optional[string]

	OnboardDate          Optional[time.Time]
	ContractLengthMonths Optional[int] // cannot be null
	SignOffDate          Optional[time.Time]

	Email        Optional[string]
	MobileNumber Optional[string]

	IsPublic Optional[bool] // cannot be null
}

type CreateLandAssignmentInput struct {
	LastVessel *string
	FleetType  *string
	Company    *string

	DateHome            *time.Time
	ExpectedJoiningDate *time.Time

	Email        *string
	MobileNumber *string

	// IsPublic defaults to true.
	IsPublic *bool
}

type UpdateLandAssignmentInput struct {
	LastVessel Optional[string]
	FleetType  Optional[string] // cannot be null
	Company    Optional[string]

	DateHome            Optional[time.Time]
	ExpectedJoiningDate Optional[time.Time] // cannot be null

	Email        Optional[string]
	MobileNumber Optional[string]

	IsPublic Optional[bool] // cannot be null
}
