package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Aggregate types for attendance events
const (
	AggregateTypeCode       = "AttendanceCode"
	AggregateTypeRecord     = "AttendanceRecord"
	AggregateTypeWorkRecord = "WorkRecord"
)

// Event types
const (
	EventTypeCodeRegistered     = "attendance.code_registered"
	EventTypeCodeDeactivated    = "attendance.code_deactivated"
	EventTypeStudentCheckedIn   = "attendance.student_checked_in"
	EventTypeStudentArrivedLate = "attendance.student_arrived_late"
	EventTypeStudentCheckedOut  = "attendance.student_checked_out"
	EventTypeStaffCheckedIn     = "attendance.staff_checked_in"
	EventTypeStaffCheckedOut    = "attendance.staff_checked_out"
)

// MessageType identifies which guardian notification a record event maps to
type MessageType string

const (
	MessageTypeCheckIn  MessageType = "check_in"
	MessageTypeLate     MessageType = "late"
	MessageTypeCheckOut MessageType = "check_out"
)

// CodeRegisteredEvent is raised when an attendance code is registered
type CodeRegisteredEvent struct {
	shared.BaseDomainEvent
	OwnerID   uuid.UUID `json:"owner_id"`
	OwnerKind OwnerKind `json:"owner_kind"`
	Value     string    `json:"value"`
}

// NewCodeRegisteredEvent creates a new code registered event
func NewCodeRegisteredEvent(code *Code) *CodeRegisteredEvent {
	return &CodeRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCodeRegistered, AggregateTypeCode, code.ID, code.CenterID),
		OwnerID:         code.OwnerID,
		OwnerKind:       code.OwnerKind,
		Value:           code.Value,
	}
}

// CodeDeactivatedEvent is raised when an attendance code is retired
type CodeDeactivatedEvent struct {
	shared.BaseDomainEvent
	OwnerID   uuid.UUID `json:"owner_id"`
	OwnerKind OwnerKind `json:"owner_kind"`
	Value     string    `json:"value"`
}

// NewCodeDeactivatedEvent creates a new code deactivated event
func NewCodeDeactivatedEvent(code *Code) *CodeDeactivatedEvent {
	return &CodeDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCodeDeactivated, AggregateTypeCode, code.ID, code.CenterID),
		OwnerID:         code.OwnerID,
		OwnerKind:       code.OwnerKind,
		Value:           code.Value,
	}
}

// StudentCheckedInEvent is raised when a student checks in on time. The
// notification dispatcher turns it into a guardian SMS.
type StudentCheckedInEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID  `json:"student_id"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	At        time.Time  `json:"at"`
}

// NewStudentCheckedInEvent creates a new student checked in event
func NewStudentCheckedInEvent(r *Record, at time.Time) *StudentCheckedInEvent {
	return &StudentCheckedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentCheckedIn, AggregateTypeRecord, r.ID, r.CenterID),
		StudentID:       r.StudentID,
		ClassID:         r.ClassID,
		At:              at,
	}
}

// MessageType returns the guardian notification type for this event
func (e *StudentCheckedInEvent) MessageType() MessageType { return MessageTypeCheckIn }

// StudentArrivedLateEvent is raised when a student checks in after the class
// late threshold
type StudentArrivedLateEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID  `json:"student_id"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	At        time.Time  `json:"at"`
}

// NewStudentArrivedLateEvent creates a new late arrival event
func NewStudentArrivedLateEvent(r *Record, at time.Time) *StudentArrivedLateEvent {
	return &StudentArrivedLateEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentArrivedLate, AggregateTypeRecord, r.ID, r.CenterID),
		StudentID:       r.StudentID,
		ClassID:         r.ClassID,
		At:              at,
	}
}

// MessageType returns the guardian notification type for this event
func (e *StudentArrivedLateEvent) MessageType() MessageType { return MessageTypeLate }

// StudentCheckedOutEvent is raised when a student checks out
type StudentCheckedOutEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID  `json:"student_id"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	At        time.Time  `json:"at"`
}

// NewStudentCheckedOutEvent creates a new student checked out event
func NewStudentCheckedOutEvent(r *Record, at time.Time) *StudentCheckedOutEvent {
	return &StudentCheckedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentCheckedOut, AggregateTypeRecord, r.ID, r.CenterID),
		StudentID:       r.StudentID,
		ClassID:         r.ClassID,
		At:              at,
	}
}

// MessageType returns the guardian notification type for this event
func (e *StudentCheckedOutEvent) MessageType() MessageType { return MessageTypeCheckOut }

// StaffCheckedInEvent is raised on a staff member's first punch of the day
type StaffCheckedInEvent struct {
	shared.BaseDomainEvent
	TeacherID uuid.UUID `json:"teacher_id"`
	At        time.Time `json:"at"`
}

// NewStaffCheckedInEvent creates a new staff checked in event
func NewStaffCheckedInEvent(w *WorkRecord, at time.Time) *StaffCheckedInEvent {
	return &StaffCheckedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffCheckedIn, AggregateTypeWorkRecord, w.ID, w.CenterID),
		TeacherID:       w.TeacherID,
		At:              at,
	}
}

// StaffCheckedOutEvent is raised on a staff member's second punch of the day
type StaffCheckedOutEvent struct {
	shared.BaseDomainEvent
	TeacherID   uuid.UUID `json:"teacher_id"`
	At          time.Time `json:"at"`
	WorkMinutes int       `json:"work_minutes"`
}

// NewStaffCheckedOutEvent creates a new staff checked out event
func NewStaffCheckedOutEvent(w *WorkRecord, at time.Time) *StaffCheckedOutEvent {
	return &StaffCheckedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffCheckedOut, AggregateTypeWorkRecord, w.ID, w.CenterID),
		TeacherID:       w.TeacherID,
		At:              at,
		WorkMinutes:     w.WorkMinutes,
	}
}
