package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// CreateCenterInput contains input for creating a center
type CreateCenterInput struct {
	Code          string
	Name          string
	ContactName   string
	ContactPhone  string
	ContactEmail  string
	Address       string
	AdminUsername string
	AdminPassword string
}

// UpdateCenterInput contains input for updating a center
type UpdateCenterInput struct {
	ID           uuid.UUID
	Name         *string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Address      *string
}

// CenterService manages centers and their configuration
type CenterService struct {
	centers   identity.CenterRepository
	users     identity.UserRepository
	roles     identity.RoleRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewCenterService creates a new center service
func NewCenterService(
	centers identity.CenterRepository,
	users identity.UserRepository,
	roles identity.RoleRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CenterService {
	return &CenterService{
		centers:   centers,
		users:     users,
		roles:     roles,
		publisher: publisher,
		logger:    logger,
	}
}

// Create provisions a new center together with its admin account and role
func (s *CenterService) Create(ctx context.Context, input CreateCenterInput) (*CenterDTO, error) {
	if _, err := s.centers.FindByCode(ctx, input.Code); err == nil {
		return nil, shared.NewDomainError("CENTER_CODE_TAKEN", "Center code is already in use")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	center, err := identity.NewCenter(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if err := center.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
		return nil, err
	}
	center.Address = input.Address

	if err := s.centers.Save(ctx, center); err != nil {
		return nil, err
	}

	adminRole, err := identity.NewSystemRole(center.ID, "admin", []string{identity.PermissionAll})
	if err != nil {
		return nil, err
	}
	adminRole.SetDescription("Center administrator")
	if err := s.roles.Save(ctx, adminRole); err != nil {
		return nil, err
	}

	if input.AdminUsername != "" {
		admin, err := identity.NewActiveUser(center.ID, input.AdminUsername, input.AdminPassword)
		if err != nil {
			return nil, err
		}
		if err := admin.AssignRole(adminRole.ID); err != nil {
			return nil, err
		}
		if err := s.users.SaveWithRoles(ctx, admin); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, center)

	s.logger.Info("center created",
		zap.String("center_id", center.ID.String()),
		zap.String("code", center.Code))

	return toCenterDTO(center), nil
}

// Get returns a single center
func (s *CenterService) Get(ctx context.Context, centerID uuid.UUID) (*CenterDTO, error) {
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	return toCenterDTO(center), nil
}

// GetByCode returns a center by its login code
func (s *CenterService) GetByCode(ctx context.Context, code string) (*CenterDTO, error) {
	center, err := s.centers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toCenterDTO(center), nil
}

// List returns all centers
func (s *CenterService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CenterDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	centers, err := s.centers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.centers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]CenterDTO, 0, len(centers))
	for i := range centers {
		dtos = append(dtos, *toCenterDTO(&centers[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update updates a center's profile fields
func (s *CenterService) Update(ctx context.Context, input UpdateCenterInput) (*CenterDTO, error) {
	center, err := s.centers.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := center.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	name, phone, email := center.ContactName, center.ContactPhone, center.ContactEmail
	if input.ContactName != nil {
		name = *input.ContactName
	}
	if input.ContactPhone != nil {
		phone = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		email = *input.ContactEmail
	}
	if err := center.SetContact(name, phone, email); err != nil {
		return nil, err
	}
	if input.Address != nil {
		center.Address = *input.Address
	}

	if err := s.centers.Save(ctx, center); err != nil {
		return nil, err
	}
	return toCenterDTO(center), nil
}

// UpdateConfig replaces the center's operational configuration
func (s *CenterService) UpdateConfig(ctx context.Context, centerID uuid.UUID, config identity.CenterConfig) (*CenterDTO, error) {
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}

	if err := center.UpdateConfig(config); err != nil {
		return nil, err
	}
	if err := s.centers.Save(ctx, center); err != nil {
		return nil, err
	}
	return toCenterDTO(center), nil
}

// Deactivate turns a center off; its users can no longer log in
func (s *CenterService) Deactivate(ctx context.Context, centerID uuid.UUID) error {
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return err
	}
	if err := center.Deactivate(); err != nil {
		return err
	}
	if err := s.centers.Save(ctx, center); err != nil {
		return err
	}

	s.logger.Info("center deactivated", zap.String("center_id", centerID.String()))
	return nil
}

// Activate re-enables a center
func (s *CenterService) Activate(ctx context.Context, centerID uuid.UUID) error {
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return err
	}
	if err := center.Activate(); err != nil {
		return err
	}
	return s.centers.Save(ctx, center)
}

func (s *CenterService) publishEvents(ctx context.Context, center *identity.Center) {
	if s.publisher == nil {
		return
	}
	events := center.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish center events", zap.Error(err))
	}
	center.ClearDomainEvents()
}

func toCenterDTO(center *identity.Center) *CenterDTO {
	return &CenterDTO{
		ID:           center.ID,
		Code:         center.Code,
		Name:         center.Name,
		Status:       string(center.Status),
		ContactName:  center.ContactName,
		ContactPhone: center.ContactPhone,
		ContactEmail: center.ContactEmail,
		Timezone:     center.Config.Timezone,
		CreatedAt:    center.CreatedAt,
	}
}
