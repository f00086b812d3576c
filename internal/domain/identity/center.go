package identity

import (
	"strings"
	"time"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// CenterStatus represents the status of a tutoring center
type CenterStatus string

const (
	CenterStatusActive    CenterStatus = "active"
	CenterStatusInactive  CenterStatus = "inactive"
	CenterStatusSuspended CenterStatus = "suspended"
)

// CenterConfig holds configurable settings for a center
type CenterConfig struct {
	Timezone              string `json:"timezone"`
	Locale                string `json:"locale"`
	AttendanceRetainDays  int    `json:"attendance_retain_days"`
	WorkRecordRetainDays  int    `json:"work_record_retain_days"`
	NotifyOnCheckIn       bool   `json:"notify_on_check_in"`
	NotifyOnCheckOut      bool   `json:"notify_on_check_out"`
	NotifyOnLate          bool   `json:"notify_on_late"`
	DefaultLateAfterMins  int    `json:"default_late_after_mins"`
}

// DefaultCenterConfig returns the default configuration for a new center
func DefaultCenterConfig() CenterConfig {
	return CenterConfig{
		Timezone:             "Asia/Seoul",
		Locale:               "ko-KR",
		AttendanceRetainDays: 60,
		WorkRecordRetainDays: 365,
		NotifyOnCheckIn:      true,
		NotifyOnCheckOut:     true,
		NotifyOnLate:         true,
		DefaultLateAfterMins: 10,
	}
}

// Center represents one tutoring center. Nearly every entity in the system is
// partitioned by center; the center's timezone defines the calendar day used
// for attendance.
type Center struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       CenterStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	Address      string       `gorm:"type:text"`
	Config       CenterConfig `gorm:"embedded;embeddedPrefix:config_"`
	Notes        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Center) TableName() string {
	return "centers"
}

// NewCenter creates a new center with required fields
func NewCenter(code, name string) (*Center, error) {
	if err := validateCenterCode(code); err != nil {
		return nil, err
	}
	if err := validateCenterName(name); err != nil {
		return nil, err
	}

	center := &Center{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            CenterStatusActive,
		Config:            DefaultCenterConfig(),
	}

	center.AddDomainEvent(NewCenterCreatedEvent(center))

	return center, nil
}

// Update updates the center's basic information
func (c *Center) Update(name string) error {
	if err := validateCenterName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the center's contact information
func (c *Center) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	c.ContactName = contactName
	c.ContactPhone = phone
	c.ContactEmail = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// UpdateConfig updates the center's configuration
func (c *Center) UpdateConfig(config CenterConfig) error {
	if config.AttendanceRetainDays <= 0 || config.WorkRecordRetainDays <= 0 {
		return shared.NewDomainError("INVALID_RETENTION", "Retention windows must be positive")
	}
	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone")
	}

	c.Config = config
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Location resolves the center's timezone, falling back to UTC if the stored
// name no longer loads
func (c *Center) Location() *time.Location {
	loc, err := time.LoadLocation(c.Config.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Activate activates the center
func (c *Center) Activate() error {
	if c.Status == CenterStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Center is already active")
	}

	c.Status = CenterStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the center
func (c *Center) Deactivate() error {
	if c.Status == CenterStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Center is already inactive")
	}

	c.Status = CenterStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Suspend suspends the center
func (c *Center) Suspend() error {
	if c.Status == CenterStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Center is already suspended")
	}

	c.Status = CenterStatusSuspended
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the center is active
func (c *Center) IsActive() bool {
	return c.Status == CenterStatusActive
}

func validateCenterCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Center code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Center code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Center code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCenterName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Center name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Center name cannot exceed 200 characters")
	}
	return nil
}
