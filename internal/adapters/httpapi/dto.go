package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Users

type UserProfile struct {
	UserId            string                    `json:"userId"`
	Name              string                    `json:"name"`
	Surname           nullable.Nullable[string] `json:"surname"`
	Email             string                    `json:"email"`
	MobileNumber      nullable.Nullable[string] `json:"mobileNumber"`
	PhotoUrl          nullable.Nullable[string] `json:"photoUrl"`
	FleetWorking      nullable.Nullable[string] `json:"fleetWorking"`
	PresentRank       nullable.Nullable[string] `json:"presentRank"`
	Company           nullable.Nullable[string] `json:"company"`
	CurrentStatus     string                    `json:"currentStatus"`
	IsProfileVisible  bool                      `json:"isProfileVisible"`
	ShowEmailToOthers bool                      `json:"showEmailToOthers"`
	ShowPhoneToOthers bool                      `json:"showPhoneToOthers"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

type UserSummary struct {
	UserId        string                    `json:"userId"`
	Name          string                    `json:"name"`
	Surname       nullable.Nullable[string] `json:"surname"`
	PhotoUrl      nullable.Nullable[string] `json:"photoUrl"`
	FleetWorking  nullable.Nullable[string] `json:"fleetWorking"`
	PresentRank   nullable.Nullable[string] `json:"presentRank"`
	Company       nullable.Nullable[string] `json:"company"`
	CurrentStatus string                    `json:"currentStatus"`
	Email         nullable.Nullable[string] `json:"email"`
	MobileNumber  nullable.Nullable[string] `json:"mobileNumber"`
}

type CreateUserRequest struct {
	Name              string  `json:"name" validate:"required"`
	Surname           *string `json:"surname,omitempty"`
	Email             string  `json:"email" validate:"required"`
	MobileNumber      *string `json:"mobileNumber,omitempty"`
	PhotoUrl          *string `json:"photoUrl,omitempty" validate:"omitempty,url"`
	FleetWorking      *string `json:"fleetWorking,omitempty"`
	PresentRank       *string `json:"presentRank,omitempty"`
	Company           *string `json:"company,omitempty"`
	CurrentStatus     *string `json:"currentStatus,omitempty" validate:"omitempty,oneof=ON_SHIP ON_LAND"`
	IsProfileVisible  *bool   `json:"isProfileVisible,omitempty"`
	ShowEmailToOthers bool    `json:"showEmailToOthers,omitempty"`
	ShowPhoneToOthers bool    `json:"showPhoneToOthers,omitempty"`
}

type UpdateUserRequest struct {
	Name              nullable.Nullable[string] `json:"name,omitempty"`
	Surname           nullable.Nullable[string] `json:"surname,omitempty"`
	Email             nullable.Nullable[string] `json:"email,omitempty"`
	MobileNumber      nullable.Nullable[string] `json:"mobileNumber,omitempty"`
	PhotoUrl          nullable.Nullable[string] `json:"photoUrl,omitempty"`
	FleetWorking      nullable.Nullable[string] `json:"fleetWorking,omitempty"`
	PresentRank       nullable.Nullable[string] `json:"presentRank,omitempty"`
	Company           nullable.Nullable[string] `json:"company,omitempty"`
	CurrentStatus     nullable.Nullable[string] `json:"currentStatus,omitempty"`
	IsProfileVisible  nullable.Nullable[bool]   `json:"isProfileVisible,omitempty"`
	ShowEmailToOthers nullable.Nullable[bool]   `json:"showEmailToOthers,omitempty"`
	ShowPhoneToOthers nullable.Nullable[bool]   `json:"showPhoneToOthers,omitempty"`
}

type UserResponse struct {
	User UserProfile `json:"user"`
}

type UserSummaryResponse struct {
	User UserSummary `json:"user"`
}

type UserSearchResponse struct {
	Users []UserSummary `json:"users"`
}

// Ship assignments

type ShipAssignment struct {
	ShipAssignmentId     string                                `json:"shipAssignmentId"`
	UserId               string                                `json:"userId"`
	ShipName             string                                `json:"shipName"`
	FleetType            nullable.Nullable[string]             `json:"fleetType"`
	Rank                 nullable.Nullable[string]             `json:"rank"`
	Company              nullable.Nullable[string]             `json:"company"`
	PortOfJoining        nullable.Nullable[string]             `json:"portOfJoining"`
	OnboardDate          nullable.Nullable[openapi_types.Date] `json:"onboardDate"`
	ContractLengthMonths int                                   `json:"contractLengthMonths"`
	SignOffDate          nullable.Nullable[openapi_types.Date] `json:"signOffDate"`
	ExpectedReleaseDate  openapi_types.Date                    `json:"expectedReleaseDate"`
	Email                nullable.Nullable[string]             `json:"email"`
	MobileNumber         nullable.Nullable[string]             `json:"mobileNumber"`
	IsPublic             bool                                  `json:"isPublic"`
	CreatedAt            time.Time                             `json:"createdAt"`
	UpdatedAt            time.Time                             `json:"updatedAt"`
}

type CreateShipAssignmentRequest struct {
	ShipName             string              `json:"shipName" validate:"required"`
	FleetType            *string             `json:"fleetType,omitempty" validate:"required"`
	Rank                 *string             `json:"rank,omitempty" validate:"required"`
	Company              *string             `json:"company,omitempty"`
	PortOfJoining        *string             `json:"portOfJoining,omitempty"`
	OnboardDate          *openapi_types.Date `json:"onboardDate,omitempty"`
	ContractLengthMonths *int                `json:"contractLengthMonths,omitempty" validate:"omitempty,min=1,max=36"`
	SignOffDate          *openapi_types.Date `json:"signOffDate,omitempty"`
	Email                *string             `json:"email,omitempty"`
	MobileNumber         *string             `json:"mobileNumber,omitempty"`
	IsPublic             *bool               `json:"isPublic,omitempty"`
}

type UpdateShipAssignmentRequest struct {
	ShipName             nullable.Nullable[string]             `json:"shipName,omitempty"`
	FleetType            nullable.Nullable[string]             `json:"fleetType,omitempty"`
	Rank                 nullable.Nullable[string]             `json:"rank,omitempty"`
	Company              nullable.Nullable[string]             `json:"company,omitempty"`
	PortOfJoining        nullable.Nullable[string]             `json:"portOfJoining,omitempty"`
	OnboardDate          nullable.Nullable[openapi_types.Date] `json:"onboardDate,omitempty"`
	ContractLengthMonths nullable.Nullable[int]                `json:"contractLengthMonths,omitempty"`
	SignOffDate          nullable.Nullable[openapi_types.Date] `json:"signOffDate,omitempty"`
	Email                nullable.Nullable[string]             `json:"email,omitempty"`
	MobileNumber         nullable.Nullable[string]             `json:"mobileNumber,omitempty"`
	IsPublic             nullable.Nullable[bool]               `json:"isPublic,omitempty"`
}

type ShipAssignmentResponse struct {
	ShipAssignment ShipAssignment `json:"shipAssignment"`
}

type ShipAssignmentListResponse struct {
	ShipAssignments []ShipAssignment `json:"shipAssignments"`
}

// Land assignments

type LandAssignment struct {
	LandAssignmentId    string                                `json:"landAssignmentId"`
	UserId              string                                `json:"userId"`
	LastVessel          nullable.Nullable[string]             `json:"lastVessel"`
	FleetType           nullable.Nullable[string]             `json:"fleetType"`
	Company             nullable.Nullable[string]             `json:"company"`
	DateHome            nullable.Nullable[openapi_types.Date] `json:"dateHome"`
	ExpectedJoiningDate nullable.Nullable[openapi_types.Date] `json:"expectedJoiningDate"`
	Email               nullable.Nullable[string]             `json:"email"`
	MobileNumber        nullable.Nullable[string]             `json:"mobileNumber"`
	IsPublic            bool                                  `json:"isPublic"`
	CreatedAt           time.Time                             `json:"createdAt"`
	UpdatedAt           time.Time                             `json:"updatedAt"`
}

type CreateLandAssignmentRequest struct {
	LastVessel          *string             `json:"lastVessel,omitempty"`
	FleetType           *string             `json:"fleetType,omitempty" validate:"required"`
	Company             *string             `json:"company,omitempty"`
	DateHome            *openapi_types.Date `json:"dateHome,omitempty"`
	ExpectedJoiningDate *openapi_types.Date `json:"expectedJoiningDate,omitempty" validate:"required"`
	Email               *string             `json:"email,omitempty"`
	MobileNumber        *string             `json:"mobileNumber,omitempty"`
	IsPublic            *bool               `json:"isPublic,omitempty"`
}

type UpdateLandAssignmentRequest struct {
	LastVessel          nullable.Nullable[string]             `json:"lastVessel,omitempty"`
	FleetType           nullable.Nullable[string]             `json:"fleetType,omitempty"`
	Company             nullable.Nullable[string]             `json:"company,omitempty"`
	DateHome            nullable.Nullable[openapi_types.Date] `json:"dateHome,omitempty"`
	ExpectedJoiningDate nullable.Nullable[openapi_types.Date] `json:"expectedJoiningDate,omitempty"`
	Email               nullable.Nullable[string]             `json:"email,omitempty"`
	MobileNumber        nullable.Nullable[string]             `json:"mobileNumber,omitempty"`
	IsPublic            nullable.Nullable[bool]               `json:"isPublic,omitempty"`
}

type LandAssignmentResponse struct {
	LandAssignment LandAssignment `json:"landAssignment"`
}

type LandAssignmentListResponse struct {
	LandAssignments []LandAssignment `json:"landAssignments"`
}

// Matches

type Match struct {
	ShipAssignment ShipAssignment `json:"shipAssignment"`
	LandAssignment LandAssignment `json:"landAssignment"`
	Counterpart    UserSummary    `json:"counterpart"`
}

type MatchesResponse struct {
	Direction string  `json:"direction"`
	Matches   []Match `json:"matches"`
}

type PairVerdict struct {
	Matched             bool                      `json:"matched"`
	FailedPredicate     nullable.Nullable[string] `json:"failedPredicate"`
	ExpectedReleaseDate openapi_types.Date        `json:"expectedReleaseDate"`
	WindowStart         openapi_types.Date        `json:"windowStart"`
	WindowEnd           openapi_types.Date        `json:"windowEnd"`
}

type ReleaseProjection struct {
	OnboardDate          nullable.Nullable[openapi_types.Date] `json:"onboardDate"`
	ContractLengthMonths int                                   `json:"contractLengthMonths"`
	ExpectedReleaseDate  openapi_types.Date                    `json:"expectedReleaseDate"`
}
