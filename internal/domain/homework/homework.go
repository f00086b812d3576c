package homework

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Assignment is homework given to a class
type Assignment struct {
	shared.CenterAggregateRoot
	ClassID     uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	// AttachmentKey is the object-storage key of an optional handout
	AttachmentKey string
}

// NewAssignment creates homework for a class
func NewAssignment(centerID, classID uuid.UUID, title string) (*Assignment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Assignment title is required")
	}
	return &Assignment{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		ClassID:             classID,
		Title:               title,
	}, nil
}

// SetDueDate sets the due date
func (a *Assignment) SetDueDate(due time.Time) {
	a.DueDate = &due
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// AttachHandout records the object-storage key of an uploaded handout
func (a *Assignment) AttachHandout(key string) {
	a.AttachmentKey = key
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SubmissionStatus is the state of a student's homework submission
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusReviewed  SubmissionStatus = "reviewed"
	SubmissionStatusReturned  SubmissionStatus = "returned"
)

// Submission is one student's answer to an assignment
type Submission struct {
	shared.CenterAggregateRoot
	AssignmentID  uuid.UUID
	StudentID     uuid.UUID
	Status        SubmissionStatus
	Comment       string
	AttachmentKey string
	SubmittedAt   time.Time
}

// NewSubmission records a student's submission
func NewSubmission(centerID, assignmentID, studentID uuid.UUID) *Submission {
	return &Submission{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		AssignmentID:        assignmentID,
		StudentID:           studentID,
		Status:              SubmissionStatusSubmitted,
		SubmittedAt:         time.Now(),
	}
}

// Review marks the submission reviewed with an optional teacher comment
func (s *Submission) Review(comment string) {
	s.Status = SubmissionStatusReviewed
	s.Comment = comment
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Return hands the reviewed submission back to the student
func (s *Submission) Return() error {
	if s.Status != SubmissionStatusReviewed {
		return shared.NewDomainError("INVALID_STATE", "Submission must be reviewed before returning")
	}
	s.Status = SubmissionStatusReturned
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// AssignmentRepository manages homework assignments
type AssignmentRepository interface {
	shared.CenterRepository[Assignment]
	FindByClass(ctx context.Context, centerID, classID uuid.UUID) ([]Assignment, error)
}

// SubmissionRepository manages homework submissions
type SubmissionRepository interface {
	shared.CenterRepository[Submission]
	FindByAssignment(ctx context.Context, centerID, assignmentID uuid.UUID) ([]Submission, error)
	FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]Submission, error)
}
