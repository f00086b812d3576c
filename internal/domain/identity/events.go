package identity

import (
	"github.com/tutorhub/backend/internal/domain/shared"
)

// Aggregate types for identity events
const (
	AggregateTypeUser   = "User"
	AggregateTypeCenter = "Center"
)

// Event types
const (
	EventTypeUserCreated   = "identity.user_created"
	EventTypeCenterCreated = "identity.center_created"
)

// UserCreatedEvent is raised when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserCreatedEvent creates a new user created event
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.CenterID),
		Username:        user.Username,
	}
}

// CenterCreatedEvent is raised when a center is onboarded
type CenterCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCenterCreatedEvent creates a new center created event
func NewCenterCreatedEvent(center *Center) *CenterCreatedEvent {
	return &CenterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCenterCreated, AggregateTypeCenter, center.ID, center.ID),
		Code:            center.Code,
		Name:            center.Name,
	}
}
