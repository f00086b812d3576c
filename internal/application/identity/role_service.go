package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// CreateRoleInput contains input for creating a role
type CreateRoleInput struct {
	CenterID    uuid.UUID
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleInput contains input for updating a role
type UpdateRoleInput struct {
	CenterID    uuid.UUID
	ID          uuid.UUID
	Description *string
	Permissions []string
}

// RoleDTO represents a role
type RoleDTO struct {
	ID          uuid.UUID `json:"id"`
	CenterID    uuid.UUID `json:"center_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleService manages roles and their permission sets
type RoleService struct {
	roles  identity.RoleRepository
	logger *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roles identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roles: roles, logger: logger}
}

// Create creates a custom role
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	if _, err := s.roles.FindByName(ctx, input.CenterID, input.Name); err == nil {
		return nil, shared.NewDomainError("ROLE_NAME_TAKEN", "A role with this name already exists")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	role, err := identity.NewRole(input.CenterID, input.Name)
	if err != nil {
		return nil, err
	}
	role.SetDescription(input.Description)
	if err := role.SetPermissions(input.Permissions); err != nil {
		return nil, err
	}

	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role created",
		zap.String("center_id", input.CenterID.String()),
		zap.String("name", role.Name))

	return toRoleDTO(role), nil
}

// Get returns a single role
func (s *RoleService) Get(ctx context.Context, centerID, roleID uuid.UUID) (*RoleDTO, error) {
	role, err := s.roles.FindByIDForCenter(ctx, centerID, roleID)
	if err != nil {
		return nil, err
	}
	return toRoleDTO(role), nil
}

// List returns a page of roles for a center
func (s *RoleService) List(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (*shared.Paginated[RoleDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	roles, err := s.roles.FindAllForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.roles.CountForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]RoleDTO, 0, len(roles))
	for i := range roles {
		dtos = append(dtos, *toRoleDTO(&roles[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes a role's description and permission set. System roles keep
// their permissions fixed.
func (s *RoleService) Update(ctx context.Context, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.roles.FindByIDForCenter(ctx, input.CenterID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		role.SetDescription(*input.Description)
	}
	if input.Permissions != nil {
		if role.IsSystem {
			return nil, shared.NewDomainError("SYSTEM_ROLE", "System role permissions cannot be changed")
		}
		if err := role.SetPermissions(input.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}
	return toRoleDTO(role), nil
}

// Delete removes a custom role and its user assignments
func (s *RoleService) Delete(ctx context.Context, centerID, roleID uuid.UUID) error {
	role, err := s.roles.FindByIDForCenter(ctx, centerID, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}
	return s.roles.Delete(ctx, role.ID)
}

func toRoleDTO(r *identity.Role) *RoleDTO {
	return &RoleDTO{
		ID:          r.ID,
		CenterID:    r.CenterID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
