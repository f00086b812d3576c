package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/attendance"
)

// CheckInInput contains input for a student check-in
type CheckInInput struct {
	CenterID  uuid.UUID
	StudentID uuid.UUID
	ClassID   *uuid.UUID
}

// CheckOutInput contains input for a student check-out
type CheckOutInput struct {
	CenterID  uuid.UUID
	StudentID uuid.UUID
	ClassID   *uuid.UUID
}

// ManualStatusInput contains input for a staff roll-call override
type ManualStatusInput struct {
	CenterID  uuid.UUID
	StudentID uuid.UUID
	ClassID   *uuid.UUID
	Status    attendance.Status
}

// RecordDTO represents an attendance record
type RecordDTO struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   uuid.UUID  `json:"student_id"`
	StudentName string     `json:"student_name,omitempty"`
	ClassID     *uuid.UUID `json:"class_id,omitempty"`
	ClassName   string     `json:"class_name,omitempty"`
	CheckInDate time.Time  `json:"check_in_date"`
	CheckInAt   *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt  *time.Time `json:"check_out_at,omitempty"`
	WasLate     bool       `json:"was_late"`
	Status      string     `json:"status"`
}

// RecordListResult represents a paginated record list
type RecordListResult struct {
	Records    []RecordDTO `json:"records"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// ResolutionDTO is the outcome of validating a pad code
type ResolutionDTO struct {
	Kind      string     `json:"kind"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	Name      string     `json:"name,omitempty"`
}

// CodeDTO represents a registered attendance code
type CodeDTO struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	OwnerKind string    `json:"owner_kind"`
	Value     string    `json:"value"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterCodeInput contains input for registering a code
type RegisterCodeInput struct {
	CenterID     uuid.UUID
	OwnerID      uuid.UUID
	OwnerKind    attendance.OwnerKind
	ProposedCode string
}

// BackfillResult summarizes a bulk code generation run
type BackfillResult struct {
	Generated int         `json:"generated"`
	Skipped   int         `json:"skipped"`
	Codes     []CodeDTO   `json:"codes"`
	SkippedID []uuid.UUID `json:"skipped_student_ids,omitempty"`
}

// WorkRecordDTO represents a staff work record
type WorkRecordDTO struct {
	ID          uuid.UUID  `json:"id"`
	TeacherID   uuid.UUID  `json:"teacher_id"`
	WorkDate    time.Time  `json:"work_date"`
	CheckInAt   *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt  *time.Time `json:"check_out_at,omitempty"`
	WorkMinutes int        `json:"work_minutes"`
	NoCheckOut  bool       `json:"no_check_out"`
	// Action reports how the punch that produced this DTO was interpreted
	Action string `json:"action,omitempty"`
}

func toRecordDTO(r *attendance.Record) RecordDTO {
	return RecordDTO{
		ID:          r.ID,
		StudentID:   r.StudentID,
		ClassID:     r.ClassID,
		CheckInDate: r.CheckInDate,
		CheckInAt:   r.CheckInAt,
		CheckOutAt:  r.CheckOutAt,
		WasLate:     r.WasLate,
		Status:      string(r.Status),
	}
}

func toCodeDTO(c *attendance.Code) CodeDTO {
	return CodeDTO{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		OwnerKind: string(c.OwnerKind),
		Value:     c.Value,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

func toWorkRecordDTO(w *attendance.WorkRecord, action string) WorkRecordDTO {
	return WorkRecordDTO{
		ID:          w.ID,
		TeacherID:   w.TeacherID,
		WorkDate:    w.WorkDate,
		CheckInAt:   w.CheckInAt,
		CheckOutAt:  w.CheckOutAt,
		WorkMinutes: w.WorkMinutes,
		NoCheckOut:  w.NoCheckOut,
		Action:      action,
	}
}
