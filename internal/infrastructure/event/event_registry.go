package event

import (
	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/identity"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Attendance domain - code registry events
	serializer.Register(attendance.EventTypeCodeRegistered, &attendance.CodeRegisteredEvent{})
	serializer.Register(attendance.EventTypeCodeDeactivated, &attendance.CodeDeactivatedEvent{})

	// Attendance domain - student check-in/check-out events
	serializer.Register(attendance.EventTypeStudentCheckedIn, &attendance.StudentCheckedInEvent{})
	serializer.Register(attendance.EventTypeStudentArrivedLate, &attendance.StudentArrivedLateEvent{})
	serializer.Register(attendance.EventTypeStudentCheckedOut, &attendance.StudentCheckedOutEvent{})

	// Attendance domain - staff work record events
	serializer.Register(attendance.EventTypeStaffCheckedIn, &attendance.StaffCheckedInEvent{})
	serializer.Register(attendance.EventTypeStaffCheckedOut, &attendance.StaffCheckedOutEvent{})

	// Identity domain events
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeCenterCreated, &identity.CenterCreatedEvent{})
}
