package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// UserService manages staff accounts within a center
type UserService struct {
	users  identity.UserRepository
	roles  identity.RoleRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users identity.UserRepository, roles identity.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, roles: roles, logger: logger}
}

// Create creates an active user with the given roles
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.users.ExistsByUsername(ctx, input.CenterID, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := identity.NewActiveUser(input.CenterID, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	if err := user.SetPhone(input.Phone); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	if input.TeacherID != nil {
		user.LinkTeacher(*input.TeacherID)
	}

	if len(input.RoleIDs) > 0 {
		roles, err := s.roles.FindByIDs(ctx, input.CenterID, input.RoleIDs)
		if err != nil {
			return nil, err
		}
		if len(roles) != len(input.RoleIDs) {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
		}
		for _, roleID := range input.RoleIDs {
			if err := user.AssignRole(roleID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.users.SaveWithRoles(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("center_id", input.CenterID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return toUserDTO(user), nil
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, centerID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List returns users for a center
func (s *UserService) List(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	users, err := s.users.FindAllForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.users.CountForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *toUserDTO(&users[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.users.FindByIDForCenter(ctx, input.CenterID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// AssignRoles replaces the user's role set
func (s *UserService) AssignRoles(ctx context.Context, centerID, userID uuid.UUID, roleIDs []uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return nil, err
	}

	if len(roleIDs) > 0 {
		roles, err := s.roles.FindByIDs(ctx, centerID, roleIDs)
		if err != nil {
			return nil, err
		}
		if len(roles) != len(roleIDs) {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
		}
	}

	user.RoleIDs = user.RoleIDs[:0]
	for _, roleID := range roleIDs {
		if err := user.AssignRole(roleID); err != nil {
			return nil, err
		}
	}

	if err := s.users.SaveWithRoles(ctx, user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, centerID, userID uuid.UUID, newPassword string) error {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, centerID, userID uuid.UUID) error {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user deactivated",
		zap.String("center_id", centerID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// Unlock clears a login lockout
func (s *UserService) Unlock(ctx context.Context, centerID, userID uuid.UUID) error {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return err
	}
	if err := user.Unlock(); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		CenterID:    user.CenterID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		DisplayName: user.DisplayName,
		Status:      string(user.Status),
		TeacherID:   user.TeacherID,
		RoleIDs:     user.RoleIDs,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
