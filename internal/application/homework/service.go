package homework

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/homework"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// ObjectStorage generates presigned URLs for homework attachments
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

const attachmentURLTTL = 15 * time.Minute

// CreateAssignmentInput contains input for creating an assignment
type CreateAssignmentInput struct {
	CenterID    uuid.UUID
	ClassID     uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
}

// AssignmentDTO represents a homework assignment
type AssignmentDTO struct {
	ID            uuid.UUID  `json:"id"`
	ClassID       uuid.UUID  `json:"class_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AttachmentKey string     `json:"attachment_key,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SubmissionDTO represents a homework submission
type SubmissionDTO struct {
	ID            uuid.UUID `json:"id"`
	AssignmentID  uuid.UUID `json:"assignment_id"`
	StudentID     uuid.UUID `json:"student_id"`
	Status        string    `json:"status"`
	Comment       string    `json:"comment,omitempty"`
	AttachmentKey string    `json:"attachment_key,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// AttachmentURL is a presigned URL with its expiry
type AttachmentURL struct {
	URL        string    `json:"url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Service manages homework assignments and submissions
type Service struct {
	assignments homework.AssignmentRepository
	submissions homework.SubmissionRepository
	classes     roster.ClassRepository
	storage     ObjectStorage
	logger      *zap.Logger
}

// NewService creates a new homework service
func NewService(
	assignments homework.AssignmentRepository,
	submissions homework.SubmissionRepository,
	classes roster.ClassRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *Service {
	return &Service{
		assignments: assignments,
		submissions: submissions,
		classes:     classes,
		storage:     storage,
		logger:      logger,
	}
}

// CreateAssignment creates homework for a class
func (s *Service) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*AssignmentDTO, error) {
	if _, err := s.classes.FindByIDForCenter(ctx, input.CenterID, input.ClassID); err != nil {
		return nil, err
	}

	assignment, err := homework.NewAssignment(input.CenterID, input.ClassID, input.Title)
	if err != nil {
		return nil, err
	}
	assignment.Description = input.Description
	if input.DueDate != nil {
		assignment.SetDueDate(*input.DueDate)
	}

	if err := s.assignments.Save(ctx, assignment); err != nil {
		return nil, err
	}
	return toAssignmentDTO(assignment), nil
}

// ListAssignments returns assignments for a class
func (s *Service) ListAssignments(ctx context.Context, centerID, classID uuid.UUID) ([]AssignmentDTO, error) {
	assignments, err := s.assignments.FindByClass(ctx, centerID, classID)
	if err != nil {
		return nil, err
	}
	dtos := make([]AssignmentDTO, 0, len(assignments))
	for i := range assignments {
		dtos = append(dtos, *toAssignmentDTO(&assignments[i]))
	}
	return dtos, nil
}

// RequestHandoutUpload returns a presigned PUT URL for an assignment handout
// and records its key on the assignment
func (s *Service) RequestHandoutUpload(ctx context.Context, centerID, assignmentID uuid.UUID, contentType string) (*AttachmentURL, error) {
	assignment, err := s.assignments.FindByIDForCenter(ctx, centerID, assignmentID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("homework/%s/%s/handout", centerID, assignmentID)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, attachmentURLTTL)
	if err != nil {
		s.logger.Error("failed to presign handout upload",
			zap.String("assignment_id", assignmentID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare upload")
	}

	assignment.AttachHandout(key)
	if err := s.assignments.Save(ctx, assignment); err != nil {
		return nil, err
	}

	return &AttachmentURL{URL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// HandoutDownloadURL returns a presigned GET URL for an assignment handout
func (s *Service) HandoutDownloadURL(ctx context.Context, centerID, assignmentID uuid.UUID) (*AttachmentURL, error) {
	assignment, err := s.assignments.FindByIDForCenter(ctx, centerID, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.AttachmentKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Assignment has no handout")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, assignment.AttachmentKey, attachmentURLTTL)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare download")
	}
	return &AttachmentURL{URL: url, StorageKey: assignment.AttachmentKey, ExpiresAt: expiresAt}, nil
}

// Submit records a student's submission for an assignment
func (s *Service) Submit(ctx context.Context, centerID, assignmentID, studentID uuid.UUID) (*SubmissionDTO, error) {
	if _, err := s.assignments.FindByIDForCenter(ctx, centerID, assignmentID); err != nil {
		return nil, err
	}

	submission := homework.NewSubmission(centerID, assignmentID, studentID)
	if err := s.submissions.Save(ctx, submission); err != nil {
		return nil, err
	}
	return toSubmissionDTO(submission), nil
}

// Review marks a submission reviewed with a teacher comment
func (s *Service) Review(ctx context.Context, centerID, submissionID uuid.UUID, comment string) (*SubmissionDTO, error) {
	submission, err := s.submissions.FindByIDForCenter(ctx, centerID, submissionID)
	if err != nil {
		return nil, err
	}
	submission.Review(comment)
	if err := s.submissions.Save(ctx, submission); err != nil {
		return nil, err
	}
	return toSubmissionDTO(submission), nil
}

// Return hands a reviewed submission back to the student
func (s *Service) Return(ctx context.Context, centerID, submissionID uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.submissions.FindByIDForCenter(ctx, centerID, submissionID)
	if err != nil {
		return nil, err
	}
	if err := submission.Return(); err != nil {
		return nil, err
	}
	if err := s.submissions.Save(ctx, submission); err != nil {
		return nil, err
	}
	return toSubmissionDTO(submission), nil
}

// ListSubmissions returns the submissions for an assignment
func (s *Service) ListSubmissions(ctx context.Context, centerID, assignmentID uuid.UUID) ([]SubmissionDTO, error) {
	submissions, err := s.submissions.FindByAssignment(ctx, centerID, assignmentID)
	if err != nil {
		return nil, err
	}
	dtos := make([]SubmissionDTO, 0, len(submissions))
	for i := range submissions {
		dtos = append(dtos, *toSubmissionDTO(&submissions[i]))
	}
	return dtos, nil
}

func toAssignmentDTO(a *homework.Assignment) *AssignmentDTO {
	return &AssignmentDTO{
		ID:            a.ID,
		ClassID:       a.ClassID,
		Title:         a.Title,
		Description:   a.Description,
		DueDate:       a.DueDate,
		AttachmentKey: a.AttachmentKey,
		CreatedAt:     a.CreatedAt,
	}
}

func toSubmissionDTO(sub *homework.Submission) *SubmissionDTO {
	return &SubmissionDTO{
		ID:            sub.ID,
		AssignmentID:  sub.AssignmentID,
		StudentID:     sub.StudentID,
		Status:        string(sub.Status),
		Comment:       sub.Comment,
		AttachmentKey: sub.AttachmentKey,
		SubmittedAt:   sub.SubmittedAt,
	}
}
