package users

import "github.com/isail-maritime/crew-rotation-api/internal/domain"

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

type CreateMyUserInput struct {
	Name         string
	Surname      *string
	Email        string
	MobileNumber *string
	PhotoURL     *string

	FleetWorking *string
	PresentRank  *string
	Company      *string

	// CurrentStatus defaults to ON_LAND.
	CurrentStatus *domain.UserStatus
	// IsProfileVisible defaults to true.
	IsProfileVisible  *bool
	ShowEmailToOthers bool
	ShowPhoneToOthers bool
}

type UpdateMyUserInput struct {
	Name  Optional[string] // cannot be null
	Email Optional[string] // cannot be null

	Surname      Optional[string]
	MobileNumber Optional[string]
	PhotoURL     Optional[string]
	FleetWorking Optional[string]
	PresentRank  Optional[string]
	Company      Optional[string]

	CurrentStatus     Optional[domain.UserStatus] // cannot be null
	IsProfileVisible  Optional[bool]              // cannot be null
	ShowEmailToOthers Optional[bool]              // cannot be null
	ShowPhoneToOthers Optional[bool]              // cannot be null
}
