package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Status is the roll-call status of an attendance record
type Status string

const (
	StatusPending Status = "pending"
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// ValidStatus reports whether s is one of the known roll-call statuses
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Ledger errors surfaced to the front-desk pad
var (
	ErrAlreadyCheckedIn  = shared.NewDomainError("ALREADY_CHECKED_IN", "Already checked in today")
	ErrAlreadyCheckedOut = shared.NewDomainError("ALREADY_CHECKED_OUT", "Already checked out today")
	ErrCodeNotFound      = shared.NewDomainError("CODE_NOT_FOUND", "Unregistered code")
)

// Record is a student's attendance for one calendar day, optionally scoped to
// a class. A student has at most one center-scope record per day plus at most
// one record per class per day; the key shape used at creation must be used
// for lookups.
type Record struct {
	shared.CenterAggregateRoot
	StudentID       uuid.UUID
	ClassID         *uuid.UUID
	CheckInDate     time.Time
	CheckInAt       *time.Time
	CheckOutAt      *time.Time
	WasLate         bool
	Status          Status
	NotifiedCheckIn bool
	NotifiedLate    bool
	NotifiedOut     bool
}

// CalendarDay normalizes a timestamp to the center-local calendar date. The
// result is midnight UTC of that date so equality comparisons and DATE columns
// behave the same regardless of server timezone.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NewCheckIn creates the day's record from a check-in event
func NewCheckIn(centerID, studentID uuid.UUID, classID *uuid.UUID, day time.Time, at time.Time, late bool) *Record {
	status := StatusPresent
	if late {
		status = StatusLate
	}
	r := &Record{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		StudentID:           studentID,
		ClassID:             classID,
		CheckInDate:         day,
		CheckInAt:           &at,
		WasLate:             late,
		Status:              status,
	}
	if late {
		r.AddDomainEvent(NewStudentArrivedLateEvent(r, at))
	} else {
		r.AddDomainEvent(NewStudentCheckedInEvent(r, at))
	}
	return r
}

// NewCheckOutOnly creates the day's record from a check-out with no observed
// check-in. CheckInAt is set equal to CheckOutAt as a sentinel meaning "no
// separate check-in observed".
func NewCheckOutOnly(centerID, studentID uuid.UUID, classID *uuid.UUID, day time.Time, at time.Time) *Record {
	r := &Record{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		StudentID:           studentID,
		ClassID:             classID,
		CheckInDate:         day,
		CheckInAt:           &at,
		CheckOutAt:          &at,
		Status:              StatusPresent,
	}
	r.AddDomainEvent(NewStudentCheckedOutEvent(r, at))
	return r
}

// NewManualRecord creates a record from a staff roll-call override. No
// timestamps are set and no notification events are raised.
func NewManualRecord(centerID, studentID uuid.UUID, classID *uuid.UUID, day time.Time, status Status) (*Record, error) {
	if !ValidStatus(status) {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown attendance status")
	}
	return &Record{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		StudentID:           studentID,
		ClassID:             classID,
		CheckInDate:         day,
		Status:              status,
	}, nil
}

// CheckIn fills the check-in timestamp on an existing record, typically one
// created by a manual roll-call override. Rejects a second check-in. A late
// arrival marks the record late and raises the late event, same as a late
// first check-in would.
func (r *Record) CheckIn(at time.Time, late bool) error {
	if r.CheckInAt != nil {
		return ErrAlreadyCheckedIn
	}
	r.CheckInAt = &at
	if late {
		r.WasLate = true
		r.Status = StatusLate
	} else if r.Status == StatusPending || r.Status == StatusAbsent {
		r.Status = StatusPresent
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	if late {
		r.AddDomainEvent(NewStudentArrivedLateEvent(r, at))
	} else {
		r.AddDomainEvent(NewStudentCheckedInEvent(r, at))
	}
	return nil
}

// CheckOut completes the record. A record created by a manual override with no
// check-in gets the sentinel CheckInAt == CheckOutAt.
func (r *Record) CheckOut(at time.Time) error {
	if r.CheckOutAt != nil {
		return ErrAlreadyCheckedOut
	}
	r.CheckOutAt = &at
	if r.CheckInAt == nil {
		r.CheckInAt = &at
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStudentCheckedOutEvent(r, at))
	return nil
}

// MarkStatus sets the roll-call status directly, bypassing timestamps.
// Used by staff overrides; never raises notification events.
func (r *Record) MarkStatus(status Status) error {
	if !ValidStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", "Unknown attendance status")
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// MarkNotified records which notification types have been dispatched
func (r *Record) MarkNotified(messageType MessageType) {
	switch messageType {
	case MessageTypeCheckIn:
		r.NotifiedCheckIn = true
	case MessageTypeLate:
		r.NotifiedLate = true
	case MessageTypeCheckOut:
		r.NotifiedOut = true
	}
}

// HasCheckedIn reports whether a check-in timestamp exists
func (r *Record) HasCheckedIn() bool {
	return r.CheckInAt != nil
}

// IsComplete reports whether the record has been checked out
func (r *Record) IsComplete() bool {
	return r.CheckOutAt != nil
}

// CheckOutOnly reports whether this record was created by a check-out with no
// prior check-in (sentinel: equal timestamps)
func (r *Record) CheckOutOnly() bool {
	return r.CheckInAt != nil && r.CheckOutAt != nil && r.CheckInAt.Equal(*r.CheckOutAt)
}
