package sqlite

import "time"

var models = []any{
	&UserRow{},
	&ShipAssignmentRow{},
	&LandAssignmentRow{},
	&IdempotencyRow{},
}

type UserRow struct {
	ID         uint   `gorm:"primarykey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	SubjectIss string `gorm:"uniqueIndex:users_subject_unique;not null"`
	SubjectSub string `gorm:"uniqueIndex:users_subject_unique;not null"`

	Name         string `gorm:"not null"`
	NameLower    string `gorm:"index;not null"`
	Surname      *string
	Email        string `gorm:"not null"`
	MobileNumber *string
	PhotoURL     *string

	FleetWorking *string
	PresentRank  *string
	Company      *string

	CurrentStatus     string `gorm:"not null"`
	IsProfileVisible  bool   `gorm:"not null"`
	ShowEmailToOthers bool   `gorm:"not null"`
	ShowPhoneToOthers bool   `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (UserRow) TableName() string { return "users" }

type ShipAssignmentRow struct {
	ID         uint   `gorm:"primarykey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	UserID     uint   `gorm:"index;not null"`
	User       UserRow

	ShipName      string `gorm:"not null"`
	FleetType     *string
	Rank          *string
	Company       *string
	PortOfJoining *string

	OnboardDate          *time.Time
	ContractLengthMonths int `gorm:"not null"`
	SignOffDate          *time.Time

	Email        *string
	MobileNumber *string
	IsPublic     bool `gorm:"index;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (ShipAssignmentRow) TableName() string { return "ship_assignments" }

type LandAssignmentRow struct {
	ID         uint   `gorm:"primarykey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	UserID     uint   `gorm:"index;not null"`
	User       UserRow

	LastVessel *string
	FleetType  *string
	Company    *string

	DateHome            *time.Time
	ExpectedJoiningDate *time.Time

	Email        *string
	MobileNumber *string
	IsPublic     bool `gorm:"index;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (LandAssignmentRow) TableName() string { return "land_assignments" }

type IdempotencyRow struct {
	IdempotencyKey string `gorm:"primaryKey"`
	SubjectIss     string `gorm:"primaryKey"`
	SubjectSub     string `gorm:"primaryKey"`
	Method         string `gorm:"primaryKey"`
	Route          string `gorm:"primaryKey"`
	BodyHash       string `gorm:"primaryKey"`

	StatusCode  int    `gorm:"not null"`
	ContentType string `gorm:"not null"`
	Body        []byte `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
}

func (IdempotencyRow) TableName() string { return "idempotency_keys" }
