package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// StaffSettings holds a staff member's punch delivery preferences for one
// center: who gets texted on a punch, and with what template. The check-in
// code itself lives in the shared code registry with OwnerKindStaff.
type StaffSettings struct {
	shared.CenterAggregateRoot
	TeacherID       uuid.UUID
	Recipients      []string `gorm:"serializer:json"`
	MessageTemplate string
	IsActive        bool
}

// NewStaffSettings creates punch settings for a staff member. Until recipients
// are set, punches record work time but text nobody.
func NewStaffSettings(centerID, teacherID uuid.UUID) *StaffSettings {
	return &StaffSettings{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		TeacherID:           teacherID,
		IsActive:            true,
	}
}

// SetRecipients replaces the notification recipient phone list
func (s *StaffSettings) SetRecipients(phones []string) {
	s.Recipients = phones
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetTemplate sets a custom message template ("" falls back to the default)
func (s *StaffSettings) SetTemplate(template string) {
	s.MessageTemplate = template
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate disables staff check-in for this teacher
func (s *StaffSettings) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// WorkRecord is one staff member's work day. The first punch of a day is
// always interpreted as check-in and the second as check-out, regardless of
// intent. A third punch is rejected. This two-state machine mirrors the
// historical behavior and is a known usability sharp edge; do not "fix" it.
type WorkRecord struct {
	shared.CenterAggregateRoot
	TeacherID   uuid.UUID
	WorkDate    time.Time
	CheckInAt   *time.Time
	CheckOutAt  *time.Time
	WorkMinutes int
	NoCheckOut  bool
}

// NewWorkRecord creates the day's work record from the first punch
func NewWorkRecord(centerID, teacherID uuid.UUID, day time.Time, at time.Time) *WorkRecord {
	w := &WorkRecord{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		TeacherID:           teacherID,
		WorkDate:            day,
		CheckInAt:           &at,
	}
	w.AddDomainEvent(NewStaffCheckedInEvent(w, at))
	return w
}

// Punch applies a subsequent punch as check-out
func (w *WorkRecord) Punch(at time.Time) error {
	if w.CheckOutAt != nil {
		return shared.ErrAlreadyProcessed
	}
	w.CheckOutAt = &at
	if w.CheckInAt != nil {
		w.WorkMinutes = int(at.Sub(*w.CheckInAt).Minutes())
	}
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	w.AddDomainEvent(NewStaffCheckedOutEvent(w, at))
	return nil
}

// MarkMissingCheckout flags a record that was never checked out. Returns false
// if the flag was already set or a check-out exists, making the end-of-day job
// idempotent. No checkout time is fabricated.
func (w *WorkRecord) MarkMissingCheckout() bool {
	if w.NoCheckOut || w.CheckOutAt != nil || w.CheckInAt == nil {
		return false
	}
	w.NoCheckOut = true
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return true
}
