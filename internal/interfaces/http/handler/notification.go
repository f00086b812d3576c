package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	notificationapp "github.com/tutorhub/backend/internal/application/notification"
)

// NotificationHandler handles the guardian SMS audit log, per-center message
// templates and gateway settings
type NotificationHandler struct {
	BaseHandler
	adminService *notificationapp.AdminService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(adminService *notificationapp.AdminService) *NotificationHandler {
	return &NotificationHandler{adminService: adminService}
}

// notificationLogQuery extends the common list query with a date window
type notificationLogQuery struct {
	listQuery
	From string `form:"from,omitempty" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// SetTemplateRequest represents the request body for setting a message template.
// An empty body reverts the type to the built-in default.
type SetTemplateRequest struct {
	MessageType string `json:"message_type" binding:"required,oneof=check_in late check_out staff"`
	Body        string `json:"body" binding:"omitempty,max=1000"`
}

// ConfigureGatewayRequest represents the request body for SMS gateway credentials
type ConfigureGatewayRequest struct {
	APIKey       string `json:"api_key" binding:"required,min=1,max=200"`
	APISecret    string `json:"api_secret" binding:"required,min=1,max=200"`
	SenderNumber string `json:"sender_number" binding:"required,min=1,max=50"`
}

// ListLog godoc
// @Summary      List the SMS delivery log
// @Description  Returns delivery attempts in a date window, defaulting to the
// @Description  last seven days
// @Tags         notifications
// @Produce      json
// @Param        from query string false "Window start (YYYY-MM-DD)"
// @Param        to query string false "Window end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]notificationapp.LogEntryDTO}
// @Security     BearerAuth
// @Router       /notifications/log [get]
func (h *NotificationHandler) ListLog(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var query notificationLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	var from, to time.Time
	if query.From != "" {
		from, _ = time.Parse("2006-01-02", query.From)
	}
	if query.To != "" {
		to, _ = time.Parse("2006-01-02", query.To)
		// Make the window inclusive of the end day
		to = to.AddDate(0, 0, 1)
	}

	result, err := h.adminService.ListLog(c.Request.Context(), centerID, from, to, query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Entries, result.Total, result.Page, result.PageSize)
}

// ListForRecord godoc
// @Summary      List delivery attempts for one attendance record
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Attendance record ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]notificationapp.LogEntryDTO}
// @Security     BearerAuth
// @Router       /attendance/records/{id}/notifications [get]
func (h *NotificationHandler) ListForRecord(c *gin.Context) {
	centerID, recordID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	entries, err := h.adminService.ListForRecord(c.Request.Context(), centerID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListTemplates godoc
// @Summary      List effective message templates
// @Description  Returns the template body in effect for every message type,
// @Description  custom or built-in
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=[]notificationapp.TemplateDTO}
// @Security     BearerAuth
// @Router       /notifications/templates [get]
func (h *NotificationHandler) ListTemplates(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	templates, err := h.adminService.ListTemplates(c.Request.Context(), centerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, templates)
}

// SetTemplate godoc
// @Summary      Set a center's message template
// @Description  An empty body reverts the message type to the built-in default
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body SetTemplateRequest true "Template"
// @Success      200 {object} dto.Response{data=notificationapp.TemplateDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/templates [put]
func (h *NotificationHandler) SetTemplate(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req SetTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.adminService.SetTemplate(c.Request.Context(), centerID, req.MessageType, req.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// GatewayStatus godoc
// @Summary      Get the center's SMS gateway status
// @Description  Secrets are never returned; the API key is masked
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=notificationapp.GatewayStatusDTO}
// @Security     BearerAuth
// @Router       /notifications/gateway [get]
func (h *NotificationHandler) GatewayStatus(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	status, err := h.adminService.GatewayStatus(c.Request.Context(), centerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// ConfigureGateway godoc
// @Summary      Configure the center's SMS gateway credentials
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body ConfigureGatewayRequest true "Gateway credentials"
// @Success      200 {object} dto.Response{data=notificationapp.GatewayStatusDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/gateway [put]
func (h *NotificationHandler) ConfigureGateway(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req ConfigureGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	status, err := h.adminService.ConfigureGateway(c.Request.Context(), notificationapp.ConfigureGatewayInput{
		CenterID:     centerID,
		APIKey:       req.APIKey,
		APISecret:    req.APISecret,
		SenderNumber: req.SenderNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// DisableGateway godoc
// @Summary      Disable the center's SMS gateway
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /notifications/gateway [delete]
func (h *NotificationHandler) DisableGateway(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	if err := h.adminService.DisableGateway(c.Request.Context(), centerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Gateway disabled"})
}

func (h *NotificationHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return uuid.Nil, uuid.Nil, false
	}
	return centerID, id, true
}
