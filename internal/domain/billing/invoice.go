package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// InvoiceStatus is the lifecycle state of a tuition invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

// Invoice is a monthly tuition invoice for one student
type Invoice struct {
	shared.CenterAggregateRoot
	StudentID    uuid.UUID
	BillingMonth string // "2006-01"
	Amount       decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status       InvoiceStatus
	IssuedAt     *time.Time
	PaidAt       *time.Time
	Memo         string
}

// NewInvoice creates a draft invoice
func NewInvoice(centerID, studentID uuid.UUID, billingMonth string, amount decimal.Decimal) (*Invoice, error) {
	if _, err := time.Parse("2006-01", billingMonth); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Billing month must be YYYY-MM")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount cannot be negative")
	}
	return &Invoice{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		StudentID:           studentID,
		BillingMonth:        billingMonth,
		Amount:              amount,
		Status:              InvoiceStatusDraft,
	}, nil
}

// Issue finalizes a draft invoice
func (i *Invoice) Issue() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	now := time.Now()
	i.Status = InvoiceStatusIssued
	i.IssuedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	return nil
}

// MarkPaid records payment of an issued invoice
func (i *Invoice) MarkPaid() error {
	if i.Status != InvoiceStatusIssued {
		return shared.NewDomainError("INVALID_STATE", "Only issued invoices can be paid")
	}
	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	return nil
}

// Void cancels an invoice that has not been paid
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be voided")
	}
	if i.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already void")
	}
	i.Status = InvoiceStatusVoid
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// InvoiceRepository manages invoices
type InvoiceRepository interface {
	shared.CenterRepository[Invoice]
	FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]Invoice, error)
	FindByMonth(ctx context.Context, centerID uuid.UUID, billingMonth string, filter shared.Filter) ([]Invoice, int64, error)
}
