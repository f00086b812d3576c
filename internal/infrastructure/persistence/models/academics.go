package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tutorhub/backend/internal/domain/assessment"
	"github.com/tutorhub/backend/internal/domain/billing"
	"github.com/tutorhub/backend/internal/domain/homework"
)

// AssignmentModel is the persistence model for the homework Assignment entity.
type AssignmentModel struct {
	CenterAggregateModel
	ClassID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:text"`
	DueDate       *time.Time
	AttachmentKey string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AssignmentModel) TableName() string {
	return "homework_assignments"
}

// ToDomain converts the persistence model to a domain Assignment entity.
func (m *AssignmentModel) ToDomain() *homework.Assignment {
	return &homework.Assignment{
		CenterAggregateRoot: m.centerRoot(),
		ClassID:             m.ClassID,
		Title:               m.Title,
		Description:         m.Description,
		DueDate:             m.DueDate,
		AttachmentKey:       m.AttachmentKey,
	}
}

// FromDomain populates the persistence model from a domain Assignment entity.
func (m *AssignmentModel) FromDomain(a *homework.Assignment) {
	m.FromDomainCenterAggregateRoot(a.CenterAggregateRoot)
	m.ClassID = a.ClassID
	m.Title = a.Title
	m.Description = a.Description
	m.DueDate = a.DueDate
	m.AttachmentKey = a.AttachmentKey
}

// AssignmentModelFromDomain creates a new persistence model from a domain Assignment entity.
func AssignmentModelFromDomain(a *homework.Assignment) *AssignmentModel {
	m := &AssignmentModel{}
	m.FromDomain(a)
	return m
}

// SubmissionModel is the persistence model for the homework Submission entity.
type SubmissionModel struct {
	CenterAggregateModel
	AssignmentID  uuid.UUID                 `gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Status        homework.SubmissionStatus `gorm:"type:varchar(20);not null;default:'submitted'"`
	Comment       string                    `gorm:"type:text"`
	AttachmentKey string                    `gorm:"type:varchar(500)"`
	SubmittedAt   time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "homework_submissions"
}

// ToDomain converts the persistence model to a domain Submission entity.
func (m *SubmissionModel) ToDomain() *homework.Submission {
	return &homework.Submission{
		CenterAggregateRoot: m.centerRoot(),
		AssignmentID:        m.AssignmentID,
		StudentID:           m.StudentID,
		Status:              m.Status,
		Comment:             m.Comment,
		AttachmentKey:       m.AttachmentKey,
		SubmittedAt:         m.SubmittedAt,
	}
}

// FromDomain populates the persistence model from a domain Submission entity.
func (m *SubmissionModel) FromDomain(s *homework.Submission) {
	m.FromDomainCenterAggregateRoot(s.CenterAggregateRoot)
	m.AssignmentID = s.AssignmentID
	m.StudentID = s.StudentID
	m.Status = s.Status
	m.Comment = s.Comment
	m.AttachmentKey = s.AttachmentKey
	m.SubmittedAt = s.SubmittedAt
}

// SubmissionModelFromDomain creates a new persistence model from a domain Submission entity.
func SubmissionModelFromDomain(s *homework.Submission) *SubmissionModel {
	m := &SubmissionModel{}
	m.FromDomain(s)
	return m
}

// AssessmentModel is the persistence model for the Assessment entity.
type AssessmentModel struct {
	CenterAggregateModel
	ClassID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title    string          `gorm:"type:varchar(200);not null"`
	Subject  string          `gorm:"type:varchar(100)"`
	MaxScore decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	GivenOn  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AssessmentModel) TableName() string {
	return "assessments"
}

// ToDomain converts the persistence model to a domain Assessment entity.
func (m *AssessmentModel) ToDomain() *assessment.Assessment {
	return &assessment.Assessment{
		CenterAggregateRoot: m.centerRoot(),
		ClassID:             m.ClassID,
		Title:               m.Title,
		Subject:             m.Subject,
		MaxScore:            m.MaxScore,
		GivenOn:             m.GivenOn,
	}
}

// FromDomain populates the persistence model from a domain Assessment entity.
func (m *AssessmentModel) FromDomain(a *assessment.Assessment) {
	m.FromDomainCenterAggregateRoot(a.CenterAggregateRoot)
	m.ClassID = a.ClassID
	m.Title = a.Title
	m.Subject = a.Subject
	m.MaxScore = a.MaxScore
	m.GivenOn = a.GivenOn
}

// AssessmentModelFromDomain creates a new persistence model from a domain Assessment entity.
func AssessmentModelFromDomain(a *assessment.Assessment) *AssessmentModel {
	m := &AssessmentModel{}
	m.FromDomain(a)
	return m
}

// ResultModel is the persistence model for the assessment Result entity.
type ResultModel struct {
	CenterAggregateModel
	AssessmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_results_assessment_student,priority:2"`
	StudentID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_results_assessment_student,priority:3;index"`
	Score        decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	Comment      string          `gorm:"type:text"`
	ReportText   string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ResultModel) TableName() string {
	return "assessment_results"
}

// ToDomain converts the persistence model to a domain Result entity.
func (m *ResultModel) ToDomain() *assessment.Result {
	return &assessment.Result{
		CenterAggregateRoot: m.centerRoot(),
		AssessmentID:        m.AssessmentID,
		StudentID:           m.StudentID,
		Score:               m.Score,
		Comment:             m.Comment,
		ReportText:          m.ReportText,
	}
}

// FromDomain populates the persistence model from a domain Result entity.
func (m *ResultModel) FromDomain(r *assessment.Result) {
	m.FromDomainCenterAggregateRoot(r.CenterAggregateRoot)
	m.AssessmentID = r.AssessmentID
	m.StudentID = r.StudentID
	m.Score = r.Score
	m.Comment = r.Comment
	m.ReportText = r.ReportText
}

// ResultModelFromDomain creates a new persistence model from a domain Result entity.
func ResultModelFromDomain(r *assessment.Result) *ResultModel {
	m := &ResultModel{}
	m.FromDomain(r)
	return m
}

// InvoiceModel is the persistence model for the billing Invoice entity.
type InvoiceModel struct {
	CenterAggregateModel
	StudentID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	BillingMonth string                `gorm:"type:char(7);not null;index"`
	Amount       decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status       billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	IssuedAt     *time.Time
	PaidAt       *time.Time
	Memo         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		CenterAggregateRoot: m.centerRoot(),
		StudentID:           m.StudentID,
		BillingMonth:        m.BillingMonth,
		Amount:              m.Amount,
		Status:              m.Status,
		IssuedAt:            m.IssuedAt,
		PaidAt:              m.PaidAt,
		Memo:                m.Memo,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainCenterAggregateRoot(i.CenterAggregateRoot)
	m.StudentID = i.StudentID
	m.BillingMonth = i.BillingMonth
	m.Amount = i.Amount
	m.Status = i.Status
	m.IssuedAt = i.IssuedAt
	m.PaidAt = i.PaidAt
	m.Memo = i.Memo
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}
