package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	attendanceapp "github.com/tutorhub/backend/internal/application/attendance"
	"github.com/tutorhub/backend/internal/domain/attendance"
)

// AttendanceHandler handles staff-facing attendance record HTTP requests
type AttendanceHandler struct {
	BaseHandler
	attendanceService *attendanceapp.AttendanceService
	codeService       *attendanceapp.CodeService
	staffService      *attendanceapp.StaffAttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(
	attendanceService *attendanceapp.AttendanceService,
	codeService *attendanceapp.CodeService,
	staffService *attendanceapp.StaffAttendanceService,
) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		codeService:       codeService,
		staffService:      staffService,
	}
}

// recordListQuery extends the common list query with attendance filters
type recordListQuery struct {
	listQuery
	Date    string `form:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Status  string `form:"status,omitempty" binding:"omitempty,oneof=pending present late absent"`
	ClassID string `form:"class_id,omitempty" binding:"omitempty,uuid"`
}

// rangeQuery represents a from/to date range
type rangeQuery struct {
	From string `form:"from,omitempty" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// ManualStatusRequest represents a staff roll-call override
type ManualStatusRequest struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	ClassID   *string `json:"class_id" binding:"omitempty,uuid"`
	Status    string  `json:"status" binding:"required,oneof=pending present late absent"`
}

// RegisterCodeRequest represents a code registration
type RegisterCodeRequest struct {
	OwnerID      string `json:"owner_id" binding:"required,uuid"`
	OwnerKind    string `json:"owner_kind" binding:"required,oneof=student staff"`
	ProposedCode string `json:"proposed_code" binding:"omitempty,attendance_code"`
}

// StaffSettingsRequest represents punch notification settings for a teacher
type StaffSettingsRequest struct {
	Recipients      []string `json:"recipients" binding:"omitempty,dive,min=1"`
	MessageTemplate string   `json:"message_template" binding:"omitempty,max=500"`
}

// ListRecords godoc
// @Summary      List attendance records for a day
// @Tags         attendance
// @Produce      json
// @Param        date query string false "Day (YYYY-MM-DD), defaults to today"
// @Param        status query string false "Filter by status" Enums(pending, present, late, absent)
// @Param        class_id query string false "Filter by class" format(uuid)
// @Success      200 {object} dto.Response{data=[]attendanceapp.RecordDTO}
// @Security     BearerAuth
// @Router       /attendance/records [get]
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var query recordListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	date := time.Now()
	if query.Date != "" {
		date, _ = time.Parse("2006-01-02", query.Date)
	}

	filter := query.toFilter()
	filter.Filters = map[string]interface{}{}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.ClassID != "" {
		filter.Filters["class_id"] = query.ClassID
	}

	result, err := h.attendanceService.ListForDate(c.Request.Context(), centerID, date, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Records, result.Total, result.Page, result.PageSize)
}

// ListStudentRecords godoc
// @Summary      List a student's attendance history
// @Tags         attendance
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Param        from query string false "Range start (YYYY-MM-DD)"
// @Param        to query string false "Range end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]attendanceapp.RecordDTO}
// @Security     BearerAuth
// @Router       /students/{id}/attendance [get]
func (h *AttendanceHandler) ListStudentRecords(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.ListForStudent(c.Request.Context(), centerID, studentID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// UpdateStatus godoc
// @Summary      Override a student's attendance status
// @Description  Roll-call correction by staff; creates the day's record when
// @Description  none exists yet
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body ManualStatusRequest true "Status override"
// @Success      200 {object} dto.Response{data=attendanceapp.RecordDTO}
// @Security     BearerAuth
// @Router       /attendance/records/status [put]
func (h *AttendanceHandler) UpdateStatus(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req ManualStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	input := attendanceapp.ManualStatusInput{
		CenterID:  centerID,
		StudentID: studentID,
		Status:    attendance.Status(req.Status),
	}
	if req.ClassID != nil {
		classID, err := uuid.Parse(*req.ClassID)
		if err != nil {
			h.BadRequest(c, "Invalid class ID")
			return
		}
		input.ClassID = &classID
	}

	record, err := h.attendanceService.ManualStatusUpdate(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// RegisterCode godoc
// @Summary      Register an attendance code
// @Description  Assign a 4-digit code to a student or staff member. Without a
// @Description  proposed code a random free one is generated.
// @Tags         codes
// @Accept       json
// @Produce      json
// @Param        request body RegisterCodeRequest true "Owner and optional code"
// @Success      201 {object} dto.Response{data=attendanceapp.CodeDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/codes [post]
func (h *AttendanceHandler) RegisterCode(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req RegisterCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	code, err := h.codeService.Register(c.Request.Context(), attendanceapp.RegisterCodeInput{
		CenterID:     centerID,
		OwnerID:      ownerID,
		OwnerKind:    attendance.OwnerKind(req.OwnerKind),
		ProposedCode: req.ProposedCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, code)
}

// DeactivateCode godoc
// @Summary      Deactivate an attendance code
// @Tags         codes
// @Produce      json
// @Param        id path string true "Code ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /attendance/codes/{id} [delete]
func (h *AttendanceHandler) DeactivateCode(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}
	codeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid code ID")
		return
	}

	if err := h.codeService.Deactivate(c.Request.Context(), centerID, codeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListOwnerCodes godoc
// @Summary      List codes registered to an owner
// @Tags         codes
// @Produce      json
// @Param        owner_id query string true "Owner ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]attendanceapp.CodeDTO}
// @Security     BearerAuth
// @Router       /attendance/codes [get]
func (h *AttendanceHandler) ListOwnerCodes(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	codes, err := h.codeService.ListForOwner(c.Request.Context(), centerID, ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, codes)
}

// BackfillCodes godoc
// @Summary      Generate codes for students without one
// @Tags         codes
// @Produce      json
// @Success      200 {object} dto.Response{data=attendanceapp.BackfillResult}
// @Security     BearerAuth
// @Router       /attendance/codes/backfill [post]
func (h *AttendanceHandler) BackfillCodes(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	result, err := h.codeService.AutoGenerateMissing(c.Request.Context(), centerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListWorkRecords godoc
// @Summary      List a teacher's work records
// @Tags         attendance
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Param        from query string false "Range start (YYYY-MM-DD)"
// @Param        to query string false "Range end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]attendanceapp.WorkRecordDTO}
// @Security     BearerAuth
// @Router       /teachers/{id}/work-records [get]
func (h *AttendanceHandler) ListWorkRecords(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}
	teacherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid teacher ID")
		return
	}

	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	records, err := h.staffService.ListForTeacher(c.Request.Context(), centerID, teacherID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// UpdateStaffSettings godoc
// @Summary      Update a teacher's punch notification settings
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Param        request body StaffSettingsRequest true "Recipients and template"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /teachers/{id}/punch-settings [put]
func (h *AttendanceHandler) UpdateStaffSettings(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}
	teacherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid teacher ID")
		return
	}

	var req StaffSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.staffService.UpdateSettings(c.Request.Context(), attendanceapp.StaffSettingsInput{
		CenterID:        centerID,
		TeacherID:       teacherID,
		Recipients:      req.Recipients,
		MessageTemplate: req.MessageTemplate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Settings updated"})
}

// parseRange parses from/to query parameters, defaulting to the last 30 days
func (h *AttendanceHandler) parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	var query rangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid date range")
		return time.Time{}, time.Time{}, false
	}

	to = time.Now()
	from = to.AddDate(0, 0, -30)
	if query.To != "" {
		parsed, _ := time.Parse("2006-01-02", query.To)
		// Make the range inclusive of the end day
		to = parsed.AddDate(0, 0, 1)
	}
	if query.From != "" {
		from, _ = time.Parse("2006-01-02", query.From)
	}
	return from, to, true
}
