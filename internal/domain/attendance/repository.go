package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// CodeRepository manages the per-center attendance code registry
type CodeRepository interface {
	shared.CenterRepository[Code]
	// FindActiveByValue looks up the active code with the given value and
	// owner kind. Returns shared.ErrNotFound when no such code exists.
	FindActiveByValue(ctx context.Context, centerID uuid.UUID, value string, kind OwnerKind) (*Code, error)
	// FindActiveByOwner returns all active codes registered to an owner
	FindActiveByOwner(ctx context.Context, centerID, ownerID uuid.UUID) ([]Code, error)
	// ExistsActiveValue reports whether any active code in the center holds
	// the value, across both owner kinds
	ExistsActiveValue(ctx context.Context, centerID uuid.UUID, value string) (bool, error)
}

// RecordRepository manages student attendance records
type RecordRepository interface {
	shared.CenterRepository[Record]
	// FindByStudentAndDay looks up the record keyed by (student, day, class
	// scope). A nil classID addresses the center-scope record; it does not
	// match class-scoped rows.
	FindByStudentAndDay(ctx context.Context, centerID, studentID uuid.UUID, day time.Time, classID *uuid.UUID) (*Record, error)
	FindByDay(ctx context.Context, centerID uuid.UUID, day time.Time, filter shared.Filter) ([]Record, int64, error)
	FindByStudentRange(ctx context.Context, centerID, studentID uuid.UUID, from, to time.Time) ([]Record, error)
	FindByClassAndDay(ctx context.Context, centerID, classID uuid.UUID, day time.Time) ([]Record, error)
	// DeleteOlderThan prunes a center's records whose check-in date is
	// strictly before cutoff
	DeleteOlderThan(ctx context.Context, centerID uuid.UUID, cutoff time.Time) (int64, error)
}

// WorkRecordRepository manages staff work records
type WorkRecordRepository interface {
	shared.CenterRepository[WorkRecord]
	FindByTeacherAndDay(ctx context.Context, centerID, teacherID uuid.UUID, day time.Time) (*WorkRecord, error)
	FindByTeacherRange(ctx context.Context, centerID, teacherID uuid.UUID, from, to time.Time) ([]WorkRecord, error)
	// FindOpenBefore returns a center's records with a check-in but no
	// check-out and no missing-checkout flag, dated strictly before day
	FindOpenBefore(ctx context.Context, centerID uuid.UUID, day time.Time, limit int) ([]WorkRecord, error)
	DeleteOlderThan(ctx context.Context, centerID uuid.UUID, cutoff time.Time) (int64, error)
}

// StaffSettingsRepository manages staff check-in settings
type StaffSettingsRepository interface {
	shared.CenterRepository[StaffSettings]
	FindByTeacher(ctx context.Context, centerID, teacherID uuid.UUID) (*StaffSettings, error)
}
