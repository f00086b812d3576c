package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/tutorhub/backend/internal/application/identity"
	"github.com/tutorhub/backend/internal/domain/identity"
)

// CenterHandler handles center management HTTP requests. Creation, listing
// and activation are platform-level operations; config updates are available
// to each center's own admin.
type CenterHandler struct {
	BaseHandler
	centerService *identityapp.CenterService
}

// NewCenterHandler creates a new center handler
func NewCenterHandler(centerService *identityapp.CenterService) *CenterHandler {
	return &CenterHandler{centerService: centerService}
}

// CreateCenterRequest represents the request body for provisioning a center
type CreateCenterRequest struct {
	Code          string `json:"code" binding:"required,min=2,max=50"`
	Name          string `json:"name" binding:"required,min=1,max=200"`
	ContactName   string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone  string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail  string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address       string `json:"address" binding:"omitempty,max=500"`
	AdminUsername string `json:"admin_username" binding:"omitempty,min=2,max=100"`
	AdminPassword string `json:"admin_password" binding:"omitempty,min=8,max=128"`
}

// UpdateCenterRequest represents the request body for updating a center
type UpdateCenterRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
}

// UpdateCenterConfigRequest represents the request body for updating center
// configuration
type UpdateCenterConfigRequest struct {
	Timezone             string `json:"timezone" binding:"required"`
	Locale               string `json:"locale" binding:"omitempty,max=20"`
	AttendanceRetainDays int    `json:"attendance_retain_days" binding:"required,min=1,max=3650"`
	WorkRecordRetainDays int    `json:"work_record_retain_days" binding:"required,min=1,max=3650"`
	NotifyOnCheckIn      bool   `json:"notify_on_check_in"`
	NotifyOnCheckOut     bool   `json:"notify_on_check_out"`
	NotifyOnLate         bool   `json:"notify_on_late"`
	DefaultLateAfterMins int    `json:"default_late_after_mins" binding:"min=0,max=720"`
}

// Create godoc
// @Summary      Provision a center
// @Description  Create a center together with its admin account
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        request body CreateCenterRequest true "Center details"
// @Success      201 {object} dto.Response{data=identityapp.CenterDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /centers [post]
func (h *CenterHandler) Create(c *gin.Context) {
	var req CreateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	center, err := h.centerService.Create(c.Request.Context(), identityapp.CreateCenterInput{
		Code:          req.Code,
		Name:          req.Name,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Address:       req.Address,
		AdminUsername: req.AdminUsername,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, center)
}

// List godoc
// @Summary      List centers
// @Tags         centers
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.CenterDTO}
// @Security     BearerAuth
// @Router       /centers [get]
func (h *CenterHandler) List(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.centerService.List(c.Request.Context(), query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a center by ID
// @Tags         centers
// @Produce      json
// @Param        id path string true "Center ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.CenterDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /centers/{id} [get]
func (h *CenterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid center ID")
		return
	}

	center, err := h.centerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, center)
}

// GetCurrent godoc
// @Summary      Get the caller's own center
// @Tags         centers
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.CenterDTO}
// @Security     BearerAuth
// @Router       /center [get]
func (h *CenterHandler) GetCurrent(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	center, err := h.centerService.Get(c.Request.Context(), centerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, center)
}

// Update godoc
// @Summary      Update a center
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        id path string true "Center ID" format(uuid)
// @Param        request body UpdateCenterRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=identityapp.CenterDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /centers/{id} [put]
func (h *CenterHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid center ID")
		return
	}

	var req UpdateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	center, err := h.centerService.Update(c.Request.Context(), identityapp.UpdateCenterInput{
		ID:           id,
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, center)
}

// UpdateConfig godoc
// @Summary      Update center configuration
// @Description  Replace the caller's center configuration (retention windows,
// @Description  notification toggles, timezone)
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        request body UpdateCenterConfigRequest true "Configuration"
// @Success      200 {object} dto.Response{data=identityapp.CenterDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /center/config [put]
func (h *CenterHandler) UpdateConfig(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req UpdateCenterConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	center, err := h.centerService.UpdateConfig(c.Request.Context(), centerID, identity.CenterConfig{
		Timezone:             req.Timezone,
		Locale:               req.Locale,
		AttendanceRetainDays: req.AttendanceRetainDays,
		WorkRecordRetainDays: req.WorkRecordRetainDays,
		NotifyOnCheckIn:      req.NotifyOnCheckIn,
		NotifyOnCheckOut:     req.NotifyOnCheckOut,
		NotifyOnLate:         req.NotifyOnLate,
		DefaultLateAfterMins: req.DefaultLateAfterMins,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, center)
}

// Activate godoc
// @Summary      Activate a center
// @Tags         centers
// @Produce      json
// @Param        id path string true "Center ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /centers/{id}/activate [post]
func (h *CenterHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid center ID")
		return
	}

	if err := h.centerService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Center activated"})
}

// Deactivate godoc
// @Summary      Deactivate a center
// @Tags         centers
// @Produce      json
// @Param        id path string true "Center ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /centers/{id}/deactivate [post]
func (h *CenterHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid center ID")
		return
	}

	if err := h.centerService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Center deactivated"})
}
