package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// UserRepository manages user accounts
type UserRepository interface {
	shared.CenterRepository[User]
	FindByUsername(ctx context.Context, centerID uuid.UUID, username string) (*User, error)
	ExistsByUsername(ctx context.Context, centerID uuid.UUID, username string) (bool, error)
	// SaveWithRoles persists the user and replaces its role links in one
	// transaction
	SaveWithRoles(ctx context.Context, user *User) error
}

// RoleRepository manages roles
type RoleRepository interface {
	shared.CenterRepository[Role]
	FindByName(ctx context.Context, centerID uuid.UUID, name string) (*Role, error)
	FindByIDs(ctx context.Context, centerID uuid.UUID, ids []uuid.UUID) ([]Role, error)
}

// CenterRepository manages centers. Centers are the partition root and are not
// themselves center-scoped.
type CenterRepository interface {
	shared.Repository[Center]
	FindByCode(ctx context.Context, code string) (*Center, error)
	FindActive(ctx context.Context) ([]Center, error)
}
