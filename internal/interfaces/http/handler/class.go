package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rosterapp "github.com/tutorhub/backend/internal/application/roster"
)

// ClassHandler handles class and enrollment HTTP requests
type ClassHandler struct {
	BaseHandler
	classService *rosterapp.ClassService
}

// NewClassHandler creates a new class handler
func NewClassHandler(classService *rosterapp.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// CreateClassRequest represents the request body for creating a class
type CreateClassRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=100"`
	TeacherID        *string `json:"teacher_id" binding:"omitempty,uuid"`
	StartTime        string  `json:"start_time" binding:"omitempty,len=5"`
	EndTime          string  `json:"end_time" binding:"omitempty,len=5"`
	DaysOfWeek       []int   `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	LateAfterMinutes *int    `json:"late_after_minutes" binding:"omitempty,min=0,max=720"`
}

// UpdateClassRequest represents the request body for updating a class
type UpdateClassRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=100"`
	TeacherID        *string `json:"teacher_id" binding:"omitempty,uuid"`
	StartTime        *string `json:"start_time" binding:"omitempty,len=5"`
	EndTime          *string `json:"end_time" binding:"omitempty,len=5"`
	DaysOfWeek       []int   `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	LateAfterMinutes *int    `json:"late_after_minutes" binding:"omitempty,min=0,max=720"`
}

// EnrollRequest represents the request body for enrolling a student in a class
type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// Create godoc
// @Summary      Create a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request body CreateClassRequest true "Class details"
// @Success      201 {object} dto.Response{data=rosterapp.ClassDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := rosterapp.CreateClassInput{
		CenterID:         centerID,
		Name:             req.Name,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		DaysOfWeek:       req.DaysOfWeek,
		LateAfterMinutes: req.LateAfterMinutes,
	}
	teacherID, ok := h.parseTeacherID(c, req.TeacherID)
	if !ok {
		return
	}
	input.TeacherID = teacherID

	class, err := h.classService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, class)
}

// List godoc
// @Summary      List classes
// @Tags         classes
// @Produce      json
// @Success      200 {object} dto.Response{data=[]rosterapp.ClassDTO}
// @Security     BearerAuth
// @Router       /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
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

	result, err := h.classService.List(c.Request.Context(), centerID, query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a class
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} dto.Response{data=rosterapp.ClassDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	centerID, classID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	class, err := h.classService.Get(c.Request.Context(), centerID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, class)
}

// Update godoc
// @Summary      Update a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Param        request body UpdateClassRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=rosterapp.ClassDTO}
// @Security     BearerAuth
// @Router       /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	centerID, classID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := rosterapp.UpdateClassInput{
		CenterID:         centerID,
		ID:               classID,
		Name:             req.Name,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		DaysOfWeek:       req.DaysOfWeek,
		LateAfterMinutes: req.LateAfterMinutes,
	}
	teacherID, ok := h.parseTeacherID(c, req.TeacherID)
	if !ok {
		return
	}
	input.TeacherID = teacherID

	class, err := h.classService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, class)
}

// Deactivate godoc
// @Summary      Deactivate a class
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /classes/{id}/deactivate [post]
func (h *ClassHandler) Deactivate(c *gin.Context) {
	centerID, classID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	if err := h.classService.Deactivate(c.Request.Context(), centerID, classID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Class deactivated"})
}

// Enroll godoc
// @Summary      Enroll a student in a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Param        request body EnrollRequest true "Student to enroll"
// @Success      201 {object} dto.Response{data=rosterapp.EnrollmentDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /classes/{id}/enrollments [post]
func (h *ClassHandler) Enroll(c *gin.Context) {
	centerID, classID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	enrollment, err := h.classService.Enroll(c.Request.Context(), centerID, studentID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, enrollment)
}

// Unenroll godoc
// @Summary      Remove a student from a class
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Param        student_id path string true "Student ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /classes/{id}/enrollments/{student_id} [delete]
func (h *ClassHandler) Unenroll(c *gin.Context) {
	centerID, classID, ok := h.centerAndID(c)
	if !ok {
		return
	}
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.classService.Unenroll(c.Request.Context(), centerID, studentID, classID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Roster godoc
// @Summary      List a class's active enrollments
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]rosterapp.EnrollmentDTO}
// @Security     BearerAuth
// @Router       /classes/{id}/roster [get]
func (h *ClassHandler) Roster(c *gin.Context) {
	centerID, classID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	roster, err := h.classService.Roster(c.Request.Context(), centerID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, roster)
}

func (h *ClassHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid class ID")
		return uuid.Nil, uuid.Nil, false
	}
	return centerID, id, true
}

func (h *ClassHandler) parseTeacherID(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	teacherID, err := uuid.Parse(*raw)
	if err != nil {
		h.BadRequest(c, "Invalid teacher ID")
		return nil, false
	}
	return &teacherID, true
}
