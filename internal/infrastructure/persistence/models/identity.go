package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	CenterAggregateModel
	Username          string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_center_username,priority:2"`
	Email             string              `gorm:"type:varchar(200)"`
	Phone             string              `gorm:"type:varchar(50)"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	DisplayName       string              `gorm:"type:varchar(200)"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	TeacherID         *uuid.UUID          `gorm:"type:uuid;index"`
	LastLoginAt       *time.Time          `gorm:"index"`
	LastLoginIP       string              `gorm:"type:varchar(45)"`
	FailedAttempts    int                 `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Note: RoleIDs must be loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		CenterAggregateRoot: m.centerRoot(),
		Username:            m.Username,
		Email:               m.Email,
		Phone:               m.Phone,
		PasswordHash:        m.PasswordHash,
		DisplayName:         m.DisplayName,
		Status:              m.Status,
		TeacherID:           m.TeacherID,
		RoleIDs:             make([]uuid.UUID, 0), // Loaded separately
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
		PasswordChangedAt:   m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainCenterAggregateRoot(u.CenterAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Status = u.Status
	m.TeacherID = u.TeacherID
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for the UserRole relationship.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CenterID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain UserRole.
func (m *UserRoleModel) ToDomain() identity.UserRole {
	return identity.UserRole{
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		CenterID:  m.CenterID,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain UserRole.
func (m *UserRoleModel) FromDomain(ur identity.UserRole) {
	m.UserID = ur.UserID
	m.RoleID = ur.RoleID
	m.CenterID = ur.CenterID
	m.CreatedAt = ur.CreatedAt
}

// RoleModel is the persistence model for the Role domain entity.
type RoleModel struct {
	CenterAggregateModel
	Name        string   `gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_center_name,priority:2"`
	Description string   `gorm:"type:text"`
	Permissions []string `gorm:"serializer:json;type:jsonb"`
	IsSystem    bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role entity.
func (m *RoleModel) ToDomain() *identity.Role {
	return &identity.Role{
		CenterAggregateRoot: m.centerRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Permissions:         m.Permissions,
		IsSystem:            m.IsSystem,
	}
}

// FromDomain populates the persistence model from a domain Role entity.
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.FromDomainCenterAggregateRoot(r.CenterAggregateRoot)
	m.Name = r.Name
	m.Description = r.Description
	m.Permissions = r.Permissions
	m.IsSystem = r.IsSystem
}

// RoleModelFromDomain creates a new persistence model from a domain Role entity.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{}
	m.FromDomain(r)
	return m
}

// CenterModel is the persistence model for the Center domain entity. Centers
// are the partition root, so this is the one aggregate without a center_id.
type CenterModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Status       identity.CenterStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string                `gorm:"type:varchar(100)"`
	ContactPhone string                `gorm:"type:varchar(50)"`
	ContactEmail string                `gorm:"type:varchar(200)"`
	Address      string                `gorm:"type:text"`
	Config       identity.CenterConfig `gorm:"embedded;embeddedPrefix:config_"`
	Notes        string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CenterModel) TableName() string {
	return "centers"
}

// ToDomain converts the persistence model to a domain Center entity.
func (m *CenterModel) ToDomain() *identity.Center {
	return &identity.Center{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:         m.Code,
		Name:         m.Name,
		Status:       m.Status,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Address:      m.Address,
		Config:       m.Config,
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Center entity.
func (m *CenterModel) FromDomain(c *identity.Center) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Status = c.Status
	m.ContactName = c.ContactName
	m.ContactPhone = c.ContactPhone
	m.ContactEmail = c.ContactEmail
	m.Address = c.Address
	m.Config = c.Config
	m.Notes = c.Notes
}

// CenterModelFromDomain creates a new persistence model from a domain Center entity.
func CenterModelFromDomain(c *identity.Center) *CenterModel {
	m := &CenterModel{}
	m.FromDomain(c)
	return m
}
