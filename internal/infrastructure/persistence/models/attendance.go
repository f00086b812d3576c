package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/backend/internal/domain/attendance"
)

// CodeModel is the persistence model for the attendance Code entity. The
// partial unique index on (center_id, value) WHERE active enforces the shared
// code namespace at the database level; the registry check-then-insert is
// raced-backstopped by it.
type CodeModel struct {
	CenterAggregateModel
	OwnerID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	OwnerKind attendance.OwnerKind `gorm:"type:varchar(20);not null"`
	Value     string               `gorm:"type:char(4);not null;index:idx_codes_center_value"`
	Active    bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CodeModel) TableName() string {
	return "attendance_codes"
}

// ToDomain converts the persistence model to a domain Code entity.
func (m *CodeModel) ToDomain() *attendance.Code {
	return &attendance.Code{
		CenterAggregateRoot: m.centerRoot(),
		OwnerID:             m.OwnerID,
		OwnerKind:           m.OwnerKind,
		Value:               m.Value,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Code entity.
func (m *CodeModel) FromDomain(c *attendance.Code) {
	m.FromDomainCenterAggregateRoot(c.CenterAggregateRoot)
	m.OwnerID = c.OwnerID
	m.OwnerKind = c.OwnerKind
	m.Value = c.Value
	m.Active = c.Active
}

// CodeModelFromDomain creates a new persistence model from a domain Code entity.
func CodeModelFromDomain(c *attendance.Code) *CodeModel {
	m := &CodeModel{}
	m.FromDomain(c)
	return m
}

// RecordModel is the persistence model for the attendance Record entity. The
// unique index on (center_id, student_id, check_in_date, class_scope) backs the
// one-record-per-day ledger key; class_scope stores the class ID or the zero
// UUID for center-scope records so NULLs never weaken the constraint.
type RecordModel struct {
	CenterAggregateModel
	StudentID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_records_ledger_key,priority:2"`
	ClassID         *uuid.UUID `gorm:"type:uuid;index"`
	ClassScope      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_records_ledger_key,priority:4"`
	CheckInDate     time.Time  `gorm:"type:date;not null;uniqueIndex:idx_records_ledger_key,priority:3;index"`
	CheckInAt       *time.Time
	CheckOutAt      *time.Time
	WasLate         bool              `gorm:"not null;default:false"`
	Status          attendance.Status `gorm:"type:varchar(20);not null;default:'pending'"`
	NotifiedCheckIn bool              `gorm:"not null;default:false"`
	NotifiedLate    bool              `gorm:"not null;default:false"`
	NotifiedOut     bool              `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RecordModel) TableName() string {
	return "attendance_records"
}

// ToDomain converts the persistence model to a domain Record entity.
func (m *RecordModel) ToDomain() *attendance.Record {
	return &attendance.Record{
		CenterAggregateRoot: m.centerRoot(),
		StudentID:           m.StudentID,
		ClassID:             m.ClassID,
		CheckInDate:         m.CheckInDate,
		CheckInAt:           m.CheckInAt,
		CheckOutAt:          m.CheckOutAt,
		WasLate:             m.WasLate,
		Status:              m.Status,
		NotifiedCheckIn:     m.NotifiedCheckIn,
		NotifiedLate:        m.NotifiedLate,
		NotifiedOut:         m.NotifiedOut,
	}
}

// FromDomain populates the persistence model from a domain Record entity.
func (m *RecordModel) FromDomain(r *attendance.Record) {
	m.FromDomainCenterAggregateRoot(r.CenterAggregateRoot)
	m.StudentID = r.StudentID
	m.ClassID = r.ClassID
	m.ClassScope = ClassScopeKey(r.ClassID)
	m.CheckInDate = r.CheckInDate
	m.CheckInAt = r.CheckInAt
	m.CheckOutAt = r.CheckOutAt
	m.WasLate = r.WasLate
	m.Status = r.Status
	m.NotifiedCheckIn = r.NotifiedCheckIn
	m.NotifiedLate = r.NotifiedLate
	m.NotifiedOut = r.NotifiedOut
}

// RecordModelFromDomain creates a new persistence model from a domain Record entity.
func RecordModelFromDomain(r *attendance.Record) *RecordModel {
	m := &RecordModel{}
	m.FromDomain(r)
	return m
}

// ClassScopeKey maps an optional class ID to the non-null ledger key column
func ClassScopeKey(classID *uuid.UUID) uuid.UUID {
	if classID == nil {
		return uuid.Nil
	}
	return *classID
}

// WorkRecordModel is the persistence model for the staff WorkRecord entity.
type WorkRecordModel struct {
	CenterAggregateModel
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_records_day,priority:2"`
	WorkDate    time.Time `gorm:"type:date;not null;uniqueIndex:idx_work_records_day,priority:3;index"`
	CheckInAt   *time.Time
	CheckOutAt  *time.Time
	WorkMinutes int  `gorm:"not null;default:0"`
	NoCheckOut  bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (WorkRecordModel) TableName() string {
	return "work_records"
}

// ToDomain converts the persistence model to a domain WorkRecord entity.
func (m *WorkRecordModel) ToDomain() *attendance.WorkRecord {
	return &attendance.WorkRecord{
		CenterAggregateRoot: m.centerRoot(),
		TeacherID:           m.TeacherID,
		WorkDate:            m.WorkDate,
		CheckInAt:           m.CheckInAt,
		CheckOutAt:          m.CheckOutAt,
		WorkMinutes:         m.WorkMinutes,
		NoCheckOut:          m.NoCheckOut,
	}
}

// FromDomain populates the persistence model from a domain WorkRecord entity.
func (m *WorkRecordModel) FromDomain(w *attendance.WorkRecord) {
	m.FromDomainCenterAggregateRoot(w.CenterAggregateRoot)
	m.TeacherID = w.TeacherID
	m.WorkDate = w.WorkDate
	m.CheckInAt = w.CheckInAt
	m.CheckOutAt = w.CheckOutAt
	m.WorkMinutes = w.WorkMinutes
	m.NoCheckOut = w.NoCheckOut
}

// WorkRecordModelFromDomain creates a new persistence model from a domain WorkRecord entity.
func WorkRecordModelFromDomain(w *attendance.WorkRecord) *WorkRecordModel {
	m := &WorkRecordModel{}
	m.FromDomain(w)
	return m
}

// StaffSettingsModel is the persistence model for staff check-in settings.
type StaffSettingsModel struct {
	CenterAggregateModel
	TeacherID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_settings_teacher,priority:2"`
	Recipients      []string  `gorm:"serializer:json;type:jsonb"`
	MessageTemplate string    `gorm:"type:text"`
	IsActive        bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StaffSettingsModel) TableName() string {
	return "staff_settings"
}

// ToDomain converts the persistence model to a domain StaffSettings entity.
func (m *StaffSettingsModel) ToDomain() *attendance.StaffSettings {
	return &attendance.StaffSettings{
		CenterAggregateRoot: m.centerRoot(),
		TeacherID:           m.TeacherID,
		Recipients:          m.Recipients,
		MessageTemplate:     m.MessageTemplate,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain StaffSettings entity.
func (m *StaffSettingsModel) FromDomain(s *attendance.StaffSettings) {
	m.FromDomainCenterAggregateRoot(s.CenterAggregateRoot)
	m.TeacherID = s.TeacherID
	m.Recipients = s.Recipients
	m.MessageTemplate = s.MessageTemplate
	m.IsActive = s.IsActive
}

// StaffSettingsModelFromDomain creates a new persistence model from a domain StaffSettings entity.
func StaffSettingsModelFromDomain(s *attendance.StaffSettings) *StaffSettingsModel {
	m := &StaffSettingsModel{}
	m.FromDomain(s)
	return m
}
