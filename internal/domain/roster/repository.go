package roster

import (
	"context"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// StudentRepository manages students
type StudentRepository interface {
	shared.CenterRepository[Student]
	FindActiveForCenter(ctx context.Context, centerID uuid.UUID) ([]Student, error)
	// FindWithoutActiveCode returns active students lacking an attendance code,
	// used by the bulk code backfill
	FindWithoutActiveCode(ctx context.Context, centerID uuid.UUID) ([]Student, error)
	// FindPromotable returns active students in stable ID order for the
	// yearly promotion job. Off-ladder grades are filtered by the caller so
	// batch offsets stay stable while grades change mid-run.
	FindPromotable(ctx context.Context, offset, limit int) ([]Student, error)
}

// TeacherRepository manages teachers. The GORM implementation additionally
// serves the attendance resolver's legacy phone fallback (its StaffDirectory
// interface), which keeps the phone ordering concern out of this context.
type TeacherRepository interface {
	shared.CenterRepository[Teacher]
	FindActiveForCenter(ctx context.Context, centerID uuid.UUID) ([]Teacher, error)
}

// ClassRepository manages classes
type ClassRepository interface {
	shared.CenterRepository[Class]
	FindActiveForCenter(ctx context.Context, centerID uuid.UUID) ([]Class, error)
}

// EnrollmentRepository manages class enrollments
type EnrollmentRepository interface {
	shared.CenterRepository[Enrollment]
	FindByClass(ctx context.Context, centerID, classID uuid.UUID) ([]Enrollment, error)
	FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]Enrollment, error)
	FindActive(ctx context.Context, centerID, studentID, classID uuid.UUID) (*Enrollment, error)
}

// PromotionWatermarkRepository persists the last school year the grade
// promotion job was applied, making the yearly job idempotent.
type PromotionWatermarkRepository interface {
	LastPromotionYear(ctx context.Context) (int, error)
	SetLastPromotionYear(ctx context.Context, year int) error
}
