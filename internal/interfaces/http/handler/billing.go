package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/tutorhub/backend/internal/application/billing"
)

// BillingHandler handles tuition invoice HTTP requests
type BillingHandler struct {
	BaseHandler
	billingService *billingapp.Service
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *billingapp.Service) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateInvoiceRequest represents the request body for creating a draft invoice
type CreateInvoiceRequest struct {
	StudentID    string  `json:"student_id" binding:"required,uuid"`
	BillingMonth string  `json:"billing_month" binding:"required,len=7"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Memo         string  `json:"memo" binding:"omitempty,max=500"`
}

// invoiceListQuery extends the common list query with invoice filters
type invoiceListQuery struct {
	listQuery
	Month  string `form:"month,omitempty" binding:"required,len=7"`
	Status string `form:"status,omitempty" binding:"omitempty,oneof=draft issued paid void"`
}

// Create godoc
// @Summary      Create a draft invoice
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice details"
// @Success      201 {object} dto.Response{data=billingapp.InvoiceDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices [post]
func (h *BillingHandler) Create(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	invoice, err := h.billingService.Create(c.Request.Context(), billingapp.CreateInvoiceInput{
		CenterID:     centerID,
		StudentID:    studentID,
		BillingMonth: req.BillingMonth,
		Amount:       toDecimal(req.Amount),
		Memo:         req.Memo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// ListForMonth godoc
// @Summary      List invoices for a billing month
// @Tags         billing
// @Produce      json
// @Param        month query string true "Billing month (YYYY-MM)"
// @Param        status query string false "Filter by status" Enums(draft, issued, paid, void)
// @Success      200 {object} dto.Response{data=[]billingapp.InvoiceDTO}
// @Security     BearerAuth
// @Router       /billing/invoices [get]
func (h *BillingHandler) ListForMonth(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var query invoiceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := query.toFilter()
	if query.Status != "" {
		filter.Filters = map[string]interface{}{"status": query.Status}
	}

	result, err := h.billingService.ListForMonth(c.Request.Context(), centerID, query.Month, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListForStudent godoc
// @Summary      List a student's invoices
// @Tags         billing
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]billingapp.InvoiceDTO}
// @Security     BearerAuth
// @Router       /students/{id}/invoices [get]
func (h *BillingHandler) ListForStudent(c *gin.Context) {
	centerID, studentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	invoices, err := h.billingService.ListForStudent(c.Request.Context(), centerID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// Issue godoc
// @Summary      Issue a draft invoice
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/issue [post]
func (h *BillingHandler) Issue(c *gin.Context) {
	centerID, invoiceID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	invoice, err := h.billingService.Issue(c.Request.Context(), centerID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// MarkPaid godoc
// @Summary      Mark an issued invoice paid
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/pay [post]
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	centerID, invoiceID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	invoice, err := h.billingService.MarkPaid(c.Request.Context(), centerID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Void godoc
// @Summary      Void an invoice
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/void [post]
func (h *BillingHandler) Void(c *gin.Context) {
	centerID, invoiceID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	invoice, err := h.billingService.Void(c.Request.Context(), centerID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

func (h *BillingHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}
	return centerID, id, true
}
