package assessment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Assessment is an exam or quiz given to a class
type Assessment struct {
	shared.CenterAggregateRoot
	ClassID  uuid.UUID
	Title    string
	Subject  string
	MaxScore decimal.Decimal `gorm:"type:decimal(7,2)"`
	GivenOn  time.Time
}

// NewAssessment creates an assessment for a class
func NewAssessment(centerID, classID uuid.UUID, title string, maxScore decimal.Decimal) (*Assessment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Assessment title is required")
	}
	if maxScore.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Max score must be positive")
	}
	return &Assessment{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		ClassID:             classID,
		Title:               title,
		MaxScore:            maxScore,
		GivenOn:             time.Now(),
	}, nil
}

// Result is one student's score on an assessment
type Result struct {
	shared.CenterAggregateRoot
	AssessmentID uuid.UUID
	StudentID    uuid.UUID
	Score        decimal.Decimal `gorm:"type:decimal(7,2)"`
	Comment      string
	// ReportText is the generated narrative for the guardian report, filled
	// by the report writer
	ReportText string
}

// NewResult records a student's score, validated against the assessment's
// maximum
func NewResult(a *Assessment, studentID uuid.UUID, score decimal.Decimal) (*Result, error) {
	if score.IsNegative() || score.GreaterThan(a.MaxScore) {
		return nil, shared.NewDomainError("INVALID_SCORE", "Score must be between 0 and the max score")
	}
	return &Result{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(a.CenterID),
		AssessmentID:        a.ID,
		StudentID:           studentID,
		Score:               score,
	}, nil
}

// Percentage returns the score as a percentage of the assessment maximum
func (r *Result) Percentage(a *Assessment) decimal.Decimal {
	if a.MaxScore.IsZero() {
		return decimal.Zero
	}
	return r.Score.Div(a.MaxScore).Mul(decimal.NewFromInt(100)).Round(1)
}

// SetReportText stores the generated guardian report narrative
func (r *Result) SetReportText(text string) {
	r.ReportText = text
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// ReportWriter generates guardian-facing narrative text for a result. The AI
// backend is an external collaborator; implementations live in infrastructure.
type ReportWriter interface {
	WriteReport(ctx context.Context, studentName string, score, maxScore decimal.Decimal, comment string) (string, error)
}

// AssessmentRepository manages assessments
type AssessmentRepository interface {
	shared.CenterRepository[Assessment]
	FindByClass(ctx context.Context, centerID, classID uuid.UUID) ([]Assessment, error)
}

// ResultRepository manages assessment results
type ResultRepository interface {
	shared.CenterRepository[Result]
	FindByAssessment(ctx context.Context, centerID, assessmentID uuid.UUID) ([]Result, error)
	FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]Result, error)
}
