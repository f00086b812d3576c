package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/billing"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// CreateInvoiceInput contains input for creating a draft invoice
type CreateInvoiceInput struct {
	CenterID     uuid.UUID
	StudentID    uuid.UUID
	BillingMonth string
	Amount       decimal.Decimal
	Memo         string
}

// InvoiceDTO represents a tuition invoice
type InvoiceDTO struct {
	ID           uuid.UUID       `json:"id"`
	StudentID    uuid.UUID       `json:"student_id"`
	BillingMonth string          `json:"billing_month"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	IssuedAt     *time.Time      `json:"issued_at,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	Memo         string          `json:"memo,omitempty"`
}

// Service manages tuition invoices
type Service struct {
	invoices billing.InvoiceRepository
	students roster.StudentRepository
	logger   *zap.Logger
}

// NewService creates a new billing service
func NewService(invoices billing.InvoiceRepository, students roster.StudentRepository, logger *zap.Logger) *Service {
	return &Service{invoices: invoices, students: students, logger: logger}
}

// Create creates a draft invoice for a student
func (s *Service) Create(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error) {
	if _, err := s.students.FindByIDForCenter(ctx, input.CenterID, input.StudentID); err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(input.CenterID, input.StudentID, input.BillingMonth, input.Amount)
	if err != nil {
		return nil, err
	}
	invoice.Memo = input.Memo

	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceDTO(invoice), nil
}

// Issue finalizes a draft invoice
func (s *Service) Issue(ctx context.Context, centerID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.invoices.FindByIDForCenter(ctx, centerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Issue(); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice issued",
		zap.String("center_id", centerID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", invoice.Amount.String()))

	return toInvoiceDTO(invoice), nil
}

// MarkPaid records payment of an issued invoice
func (s *Service) MarkPaid(ctx context.Context, centerID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.invoices.FindByIDForCenter(ctx, centerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceDTO(invoice), nil
}

// Void cancels an unpaid invoice
func (s *Service) Void(ctx context.Context, centerID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.invoices.FindByIDForCenter(ctx, centerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceDTO(invoice), nil
}

// ListForStudent returns a student's invoices
func (s *Service) ListForStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]InvoiceDTO, error) {
	invoices, err := s.invoices.FindByStudent(ctx, centerID, studentID)
	if err != nil {
		return nil, err
	}
	dtos := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, *toInvoiceDTO(&invoices[i]))
	}
	return dtos, nil
}

// ListForMonth returns the invoices of a billing month
func (s *Service) ListForMonth(ctx context.Context, centerID uuid.UUID, billingMonth string, filter shared.Filter) (*shared.Paginated[InvoiceDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	invoices, total, err := s.invoices.FindByMonth(ctx, centerID, billingMonth, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, *toInvoiceDTO(&invoices[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

func toInvoiceDTO(i *billing.Invoice) *InvoiceDTO {
	return &InvoiceDTO{
		ID:           i.ID,
		StudentID:    i.StudentID,
		BillingMonth: i.BillingMonth,
		Amount:       i.Amount,
		Status:       string(i.Status),
		IssuedAt:     i.IssuedAt,
		PaidAt:       i.PaidAt,
		Memo:         i.Memo,
	}
}
