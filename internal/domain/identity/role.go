package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Permission strings follow "resource:action". Wildcards are supported at the
// action level ("students:*") and globally ("*").
const (
	PermissionAll = "*"

	PermissionStudentsRead    = "students:read"
	PermissionStudentsWrite   = "students:write"
	PermissionTeachersRead    = "teachers:read"
	PermissionTeachersWrite   = "teachers:write"
	PermissionClassesRead     = "classes:read"
	PermissionClassesWrite    = "classes:write"
	PermissionAttendanceRead  = "attendance:read"
	PermissionAttendanceWrite = "attendance:write"
	PermissionCodesManage     = "codes:manage"
	PermissionNotificationLog = "notifications:read"
	PermissionHomeworkManage  = "homework:manage"
	PermissionAssessManage    = "assessments:manage"
	PermissionBillingManage   = "billing:manage"
	PermissionUsersManage     = "users:manage"
	PermissionCenterManage    = "center:manage"
)

// Role is a named set of permissions within a center
type Role struct {
	shared.CenterAggregateRoot
	Name        string
	Description string
	Permissions []string `gorm:"serializer:json"`
	IsSystem    bool
}

// NewRole creates a new role
func NewRole(centerID uuid.UUID, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 100 characters")
	}

	return &Role{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		Name:                name,
		Permissions:         make([]string, 0),
	}, nil
}

// NewSystemRole creates a built-in role that cannot be deleted
func NewSystemRole(centerID uuid.UUID, name string, permissions []string) (*Role, error) {
	role, err := NewRole(centerID, name)
	if err != nil {
		return nil, err
	}
	role.IsSystem = true
	role.Permissions = permissions
	return role, nil
}

// SetDescription sets the role description
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// GrantPermission adds a permission to the role if not already present
func (r *Role) GrantPermission(permission string) error {
	if err := validatePermission(permission); err != nil {
		return err
	}

	for _, p := range r.Permissions {
		if p == permission {
			return nil
		}
	}

	r.Permissions = append(r.Permissions, permission)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// RevokePermission removes a permission from the role
func (r *Role) RevokePermission(permission string) {
	remaining := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p != permission {
			remaining = append(remaining, p)
		}
	}
	r.Permissions = remaining
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetPermissions replaces the role's permission set
func (r *Role) SetPermissions(permissions []string) error {
	for _, p := range permissions {
		if err := validatePermission(p); err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	unique := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}

	r.Permissions = unique
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasPermission checks whether the role grants a permission, honoring
// wildcards
func (r *Role) HasPermission(permission string) bool {
	resource, _, found := strings.Cut(permission, ":")
	for _, p := range r.Permissions {
		if p == PermissionAll || p == permission {
			return true
		}
		if found && p == resource+":*" {
			return true
		}
	}
	return false
}

func validatePermission(permission string) error {
	if permission == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}
	if permission == PermissionAll {
		return nil
	}
	resource, action, found := strings.Cut(permission, ":")
	if !found || resource == "" || action == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission must be resource:action")
	}
	return nil
}
