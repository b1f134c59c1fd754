package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// UserID is an internal identifier for a user profile record.
type UserID string

// ShipAssignmentID is an internal identifier for a ship assignment record.
type ShipAssignmentID string

// LandAssignmentID is an internal identifier for a land assignment record.
type LandAssignmentID string
