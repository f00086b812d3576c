package roster

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Teacher is a staff member at a center. The phone number doubles as the
// legacy check-in fallback for staff hired before explicit codes existed.
type Teacher struct {
	shared.CenterAggregateRoot
	Name     string
	Phone    string
	Subject  string
	IsActive bool
	HiredAt  time.Time
}

// NewTeacher registers a staff member at a center
func NewTeacher(centerID uuid.UUID, name, phone string) (*Teacher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Teacher name is required")
	}
	return &Teacher{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		Name:                name,
		Phone:               phone,
		IsActive:            true,
		HiredAt:             time.Now(),
	}, nil
}

// Deactivate marks the teacher as no longer working at the center
func (t *Teacher) Deactivate() {
	t.IsActive = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetPhone updates the teacher's contact number
func (t *Teacher) SetPhone(phone string) {
	t.Phone = phone
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
