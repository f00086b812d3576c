package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/assessment"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// CreateAssessmentInput contains input for creating an assessment
type CreateAssessmentInput struct {
	CenterID uuid.UUID
	ClassID  uuid.UUID
	Title    string
	Subject  string
	MaxScore decimal.Decimal
}

// RecordResultInput contains input for recording a student's score
type RecordResultInput struct {
	CenterID     uuid.UUID
	AssessmentID uuid.UUID
	StudentID    uuid.UUID
	Score        decimal.Decimal
	Comment      string
}

// AssessmentDTO represents an assessment
type AssessmentDTO struct {
	ID       uuid.UUID       `json:"id"`
	ClassID  uuid.UUID       `json:"class_id"`
	Title    string          `json:"title"`
	Subject  string          `json:"subject,omitempty"`
	MaxScore decimal.Decimal `json:"max_score"`
	GivenOn  time.Time       `json:"given_on"`
}

// ResultDTO represents one student's result
type ResultDTO struct {
	ID           uuid.UUID       `json:"id"`
	AssessmentID uuid.UUID       `json:"assessment_id"`
	StudentID    uuid.UUID       `json:"student_id"`
	Score        decimal.Decimal `json:"score"`
	Percentage   decimal.Decimal `json:"percentage"`
	Comment      string          `json:"comment,omitempty"`
	ReportText   string          `json:"report_text,omitempty"`
}

// Service manages assessments, results and guardian reports
type Service struct {
	assessments  assessment.AssessmentRepository
	results      assessment.ResultRepository
	students     roster.StudentRepository
	reportWriter assessment.ReportWriter
	logger       *zap.Logger
}

// NewService creates a new assessment service
func NewService(
	assessments assessment.AssessmentRepository,
	results assessment.ResultRepository,
	students roster.StudentRepository,
	reportWriter assessment.ReportWriter,
	logger *zap.Logger,
) *Service {
	return &Service{
		assessments:  assessments,
		results:      results,
		students:     students,
		reportWriter: reportWriter,
		logger:       logger,
	}
}

// Create creates an assessment for a class
func (s *Service) Create(ctx context.Context, input CreateAssessmentInput) (*AssessmentDTO, error) {
	a, err := assessment.NewAssessment(input.CenterID, input.ClassID, input.Title, input.MaxScore)
	if err != nil {
		return nil, err
	}
	a.Subject = input.Subject

	if err := s.assessments.Save(ctx, a); err != nil {
		return nil, err
	}
	return toAssessmentDTO(a), nil
}

// ListForClass returns the assessments of a class
func (s *Service) ListForClass(ctx context.Context, centerID, classID uuid.UUID) ([]AssessmentDTO, error) {
	assessments, err := s.assessments.FindByClass(ctx, centerID, classID)
	if err != nil {
		return nil, err
	}
	dtos := make([]AssessmentDTO, 0, len(assessments))
	for i := range assessments {
		dtos = append(dtos, *toAssessmentDTO(&assessments[i]))
	}
	return dtos, nil
}

// RecordResult records a student's score, validated against the assessment max
func (s *Service) RecordResult(ctx context.Context, input RecordResultInput) (*ResultDTO, error) {
	a, err := s.assessments.FindByIDForCenter(ctx, input.CenterID, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	result, err := assessment.NewResult(a, input.StudentID, input.Score)
	if err != nil {
		return nil, err
	}
	result.Comment = input.Comment

	if err := s.results.Save(ctx, result); err != nil {
		return nil, err
	}
	return toResultDTO(result, a), nil
}

// ListResults returns the results for an assessment
func (s *Service) ListResults(ctx context.Context, centerID, assessmentID uuid.UUID) ([]ResultDTO, error) {
	a, err := s.assessments.FindByIDForCenter(ctx, centerID, assessmentID)
	if err != nil {
		return nil, err
	}
	results, err := s.results.FindByAssessment(ctx, centerID, assessmentID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ResultDTO, 0, len(results))
	for i := range results {
		dtos = append(dtos, *toResultDTO(&results[i], a))
	}
	return dtos, nil
}

// GenerateReport produces and stores a guardian-facing narrative for a result
func (s *Service) GenerateReport(ctx context.Context, centerID, resultID uuid.UUID) (*ResultDTO, error) {
	if s.reportWriter == nil {
		return nil, shared.NewDomainError("REPORTS_DISABLED", "Report generation is not configured")
	}

	result, err := s.results.FindByIDForCenter(ctx, centerID, resultID)
	if err != nil {
		return nil, err
	}
	a, err := s.assessments.FindByIDForCenter(ctx, centerID, result.AssessmentID)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByIDForCenter(ctx, centerID, result.StudentID)
	if err != nil {
		return nil, err
	}

	text, err := s.reportWriter.WriteReport(ctx, student.Name, result.Score, a.MaxScore, result.Comment)
	if err != nil {
		s.logger.Error("report generation failed",
			zap.String("result_id", resultID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("REPORT_FAILED", "Failed to generate report")
	}

	result.SetReportText(text)
	if err := s.results.Save(ctx, result); err != nil {
		return nil, err
	}
	return toResultDTO(result, a), nil
}

func toAssessmentDTO(a *assessment.Assessment) *AssessmentDTO {
	return &AssessmentDTO{
		ID:       a.ID,
		ClassID:  a.ClassID,
		Title:    a.Title,
		Subject:  a.Subject,
		MaxScore: a.MaxScore,
		GivenOn:  a.GivenOn,
	}
}

func toResultDTO(r *assessment.Result, a *assessment.Assessment) *ResultDTO {
	return &ResultDTO{
		ID:           r.ID,
		AssessmentID: r.AssessmentID,
		StudentID:    r.StudentID,
		Score:        r.Score,
		Percentage:   r.Percentage(a),
		Comment:      r.Comment,
		ReportText:   r.ReportText,
	}
}
