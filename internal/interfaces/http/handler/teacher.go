package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rosterapp "github.com/tutorhub/backend/internal/application/roster"
)

// TeacherHandler handles teacher roster HTTP requests
type TeacherHandler struct {
	BaseHandler
	teacherService *rosterapp.TeacherService
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(teacherService *rosterapp.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// CreateTeacherRequest represents the request body for registering a teacher
type CreateTeacherRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Subject string `json:"subject" binding:"omitempty,max=100"`
}

// UpdateTeacherRequest represents the request body for updating a teacher
type UpdateTeacherRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Subject *string `json:"subject" binding:"omitempty,max=100"`
}

// Create godoc
// @Summary      Register a teacher
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Param        request body CreateTeacherRequest true "Teacher details"
// @Success      201 {object} dto.Response{data=rosterapp.TeacherDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	teacher, err := h.teacherService.Create(c.Request.Context(), rosterapp.CreateTeacherInput{
		CenterID: centerID,
		Name:     req.Name,
		Phone:    req.Phone,
		Subject:  req.Subject,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, teacher)
}

// List godoc
// @Summary      List teachers
// @Tags         teachers
// @Produce      json
// @Success      200 {object} dto.Response{data=[]rosterapp.TeacherDTO}
// @Security     BearerAuth
// @Router       /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.teacherService.List(c.Request.Context(), centerID, query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a teacher
// @Tags         teachers
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Success      200 {object} dto.Response{data=rosterapp.TeacherDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	centerID, teacherID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	teacher, err := h.teacherService.Get(c.Request.Context(), centerID, teacherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, teacher)
}

// Update godoc
// @Summary      Update a teacher
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Param        request body UpdateTeacherRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=rosterapp.TeacherDTO}
// @Security     BearerAuth
// @Router       /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	centerID, teacherID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), centerID, teacherID, req.Name, req.Phone, req.Subject)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, teacher)
}

// Deactivate godoc
// @Summary      Deactivate a teacher
// @Description  Deactivates the teacher and their attendance codes
// @Tags         teachers
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /teachers/{id}/deactivate [post]
func (h *TeacherHandler) Deactivate(c *gin.Context) {
	centerID, teacherID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	if err := h.teacherService.Deactivate(c.Request.Context(), centerID, teacherID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Teacher deactivated"})
}

func (h *TeacherHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid teacher ID")
		return uuid.Nil, uuid.Nil, false
	}
	return centerID, id, true
}
