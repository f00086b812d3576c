package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rosterapp "github.com/tutorhub/backend/internal/application/roster"
)

// StudentHandler handles student roster HTTP requests
type StudentHandler struct {
	BaseHandler
	studentService *rosterapp.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *rosterapp.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// CreateStudentRequest represents the request body for enrolling a student
type CreateStudentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Grade       string `json:"grade" binding:"required,max=20"`
	School      string `json:"school" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	MotherPhone string `json:"mother_phone" binding:"omitempty,max=50"`
	FatherPhone string `json:"father_phone" binding:"omitempty,max=50"`
}

// UpdateStudentRequest represents the request body for updating a student
type UpdateStudentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Grade       *string `json:"grade" binding:"omitempty,max=20"`
	School      *string `json:"school" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	MotherPhone *string `json:"mother_phone" binding:"omitempty,max=50"`
	FatherPhone *string `json:"father_phone" binding:"omitempty,max=50"`
}

// studentListQuery extends the common list query with student filters
type studentListQuery struct {
	listQuery
	Status string `form:"status,omitempty" binding:"omitempty,oneof=active paused withdrawn"`
	Grade  string `form:"grade,omitempty" binding:"omitempty,max=20"`
}

// Create godoc
// @Summary      Enroll a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        request body CreateStudentRequest true "Student details"
// @Success      201 {object} dto.Response{data=rosterapp.StudentDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), rosterapp.CreateStudentInput{
		CenterID:    centerID,
		Name:        req.Name,
		Grade:       req.Grade,
		School:      req.School,
		Phone:       req.Phone,
		MotherPhone: req.MotherPhone,
		FatherPhone: req.FatherPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, student)
}

// List godoc
// @Summary      List students
// @Tags         students
// @Produce      json
// @Param        status query string false "Filter by status" Enums(active, paused, withdrawn)
// @Param        grade query string false "Filter by grade"
// @Success      200 {object} dto.Response{data=[]rosterapp.StudentDTO}
// @Security     BearerAuth
// @Router       /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var query studentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := query.toFilter()
	filter.Filters = map[string]interface{}{}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.Grade != "" {
		filter.Filters["grade"] = query.Grade
	}

	result, err := h.studentService.List(c.Request.Context(), centerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} dto.Response{data=rosterapp.StudentDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	centerID, studentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), centerID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, student)
}

// Update godoc
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Param        request body UpdateStudentRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=rosterapp.StudentDTO}
// @Security     BearerAuth
// @Router       /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	centerID, studentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), rosterapp.UpdateStudentInput{
		CenterID:    centerID,
		ID:          studentID,
		Name:        req.Name,
		Grade:       req.Grade,
		School:      req.School,
		Phone:       req.Phone,
		MotherPhone: req.MotherPhone,
		FatherPhone: req.FatherPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, student)
}

// Withdraw godoc
// @Summary      Withdraw a student
// @Description  Marks the student withdrawn and deactivates their codes and
// @Description  enrollments
// @Tags         students
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /students/{id}/withdraw [post]
func (h *StudentHandler) Withdraw(c *gin.Context) {
	centerID, studentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	if err := h.studentService.Withdraw(c.Request.Context(), centerID, studentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Student withdrawn"})
}

// Pause godoc
// @Summary      Pause a student's enrollment
// @Tags         students
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /students/{id}/pause [post]
func (h *StudentHandler) Pause(c *gin.Context) {
	centerID, studentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	if err := h.studentService.Pause(c.Request.Context(), centerID, studentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Student paused"})
}

// Reactivate godoc
// @Summary      Reactivate a paused or withdrawn student
// @Tags         students
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /students/{id}/reactivate [post]
func (h *StudentHandler) Reactivate(c *gin.Context) {
	centerID, studentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	if err := h.studentService.Reactivate(c.Request.Context(), centerID, studentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Student reactivated"})
}

func (h *StudentHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return uuid.Nil, uuid.Nil, false
	}
	return centerID, id, true
}
