package roster

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// StudentStatus is the enrollment status of a student at a center
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusPaused    StudentStatus = "paused"
	StudentStatusWithdrawn StudentStatus = "withdrawn"
)

// Grade labels form a fixed ladder. Promotion advances one step per school
// year and saturates at the terminal grade.
const (
	GradeE1       = "E1"
	GradeE2       = "E2"
	GradeE3       = "E3"
	GradeE4       = "E4"
	GradeE5       = "E5"
	GradeE6       = "E6"
	GradeM1       = "M1"
	GradeM2       = "M2"
	GradeM3       = "M3"
	GradeH1       = "H1"
	GradeH2       = "H2"
	GradeH3       = "H3"
	GradeGraduate = "GRAD"
)

// nextGrade is the promotion lookup table. Absent keys (including GradeGraduate
// and free-form labels) do not advance.
var nextGrade = map[string]string{
	GradeE1: GradeE2,
	GradeE2: GradeE3,
	GradeE3: GradeE4,
	GradeE4: GradeE5,
	GradeE5: GradeE6,
	GradeE6: GradeM1,
	GradeM1: GradeM2,
	GradeM2: GradeM3,
	GradeM3: GradeH1,
	GradeH1: GradeH2,
	GradeH2: GradeH3,
	GradeH3: GradeGraduate,
}

// NextGrade returns the grade one step up the ladder and whether the input
// grade advances at all
func NextGrade(grade string) (string, bool) {
	next, ok := nextGrade[grade]
	return next, ok
}

// Student is a learner enrolled at a center. Guardian phones drive attendance
// notifications: mother first, father as fallback.
type Student struct {
	shared.CenterAggregateRoot
	Name        string
	Grade       string
	School      string
	Phone       string
	MotherPhone string
	FatherPhone string
	Status      StudentStatus
	EnrolledAt  time.Time
	// PromotedYear is the last school year this student's grade was advanced.
	// It guards against a promotion run that crashed mid-batch advancing the
	// already-saved students again on the re-run.
	PromotedYear int
}

// NewStudent registers a student at a center
func NewStudent(centerID uuid.UUID, name, grade string) (*Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Student name is required")
	}
	return &Student{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		Name:                name,
		Grade:               grade,
		Status:              StudentStatusActive,
		EnrolledAt:          time.Now(),
	}, nil
}

// GuardianPhone resolves the notification recipient: mother if present, else
// father, else "" meaning no guardian on file.
func (s *Student) GuardianPhone() (phone, role string) {
	if s.MotherPhone != "" {
		return s.MotherPhone, "mother"
	}
	if s.FatherPhone != "" {
		return s.FatherPhone, "father"
	}
	return "", ""
}

// SetContacts updates the student's phone numbers
func (s *Student) SetContacts(phone, motherPhone, fatherPhone string) {
	s.Phone = phone
	s.MotherPhone = motherPhone
	s.FatherPhone = fatherPhone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Promote advances the student one grade step for the given school year.
// Returns false when the grade is terminal, not on the ladder, or the student
// was already promoted in that year or later.
func (s *Student) Promote(year int) bool {
	if s.PromotedYear >= year {
		return false
	}
	next, ok := NextGrade(s.Grade)
	if !ok {
		return false
	}
	s.Grade = next
	s.PromotedYear = year
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return true
}

// Withdraw marks the student as withdrawn from the center
func (s *Student) Withdraw() {
	s.Status = StudentStatusWithdrawn
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Pause suspends the student without withdrawing
func (s *Student) Pause() {
	s.Status = StudentStatusPaused
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Reactivate returns a paused or withdrawn student to active status
func (s *Student) Reactivate() {
	s.Status = StudentStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive reports whether the student currently attends the center
func (s *Student) IsActive() bool {
	return s.Status == StudentStatusActive
}
