package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	attendanceapp "github.com/tutorhub/backend/internal/application/attendance"
	"github.com/tutorhub/backend/internal/domain/attendance"
)

// KioskHandler handles the pad-facing attendance endpoints. Pads identify
// their center with the X-Center-ID header; responses carry short fixed
// messages sized for a pad screen.
type KioskHandler struct {
	BaseHandler
	attendanceService *attendanceapp.AttendanceService
	staffService      *attendanceapp.StaffAttendanceService
}

// NewKioskHandler creates a new kiosk handler
func NewKioskHandler(
	attendanceService *attendanceapp.AttendanceService,
	staffService *attendanceapp.StaffAttendanceService,
) *KioskHandler {
	return &KioskHandler{
		attendanceService: attendanceService,
		staffService:      staffService,
	}
}

// KioskCodeRequest represents a code entered on the pad
type KioskCodeRequest struct {
	Code    string  `json:"code" binding:"required,attendance_code"`
	ClassID *string `json:"class_id" binding:"omitempty,uuid"`
}

// KioskResponse represents the pad's display payload after a code entry
type KioskResponse struct {
	Kind       string                       `json:"kind"`
	Name       string                       `json:"name,omitempty"`
	Message    string                       `json:"message"`
	Record     *attendanceapp.RecordDTO     `json:"record,omitempty"`
	WorkRecord *attendanceapp.WorkRecordDTO `json:"work_record,omitempty"`
}

// Short fixed messages for the pad display
const (
	kioskMsgCheckedIn     = "Checked in"
	kioskMsgCheckedInLate = "Checked in (late)"
	kioskMsgCheckedOut    = "Checked out"
	kioskMsgPunchIn       = "Work start recorded"
	kioskMsgPunchOut      = "Work end recorded"
)

// Validate godoc
// @Summary      Validate a pad code
// @Description  Resolve who a 4-digit code belongs to without recording anything
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        request body KioskCodeRequest true "Code"
// @Success      200 {object} dto.Response{data=attendanceapp.ResolutionDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /kiosk/validate [post]
func (h *KioskHandler) Validate(c *gin.Context) {
	centerID, req, ok := h.bind(c)
	if !ok {
		return
	}

	resolution, err := h.attendanceService.ValidateCode(c.Request.Context(), centerID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resolution)
}

// CheckIn godoc
// @Summary      Check in with a pad code
// @Description  Record a student check-in, or a staff punch when the code
// @Description  belongs to a staff member
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        request body KioskCodeRequest true "Code and optional class"
// @Success      200 {object} dto.Response{data=KioskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /kiosk/check-in [post]
func (h *KioskHandler) CheckIn(c *gin.Context) {
	centerID, req, ok := h.bind(c)
	if !ok {
		return
	}

	resolution, err := h.attendanceService.ValidateCode(c.Request.Context(), centerID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if resolution.Kind == string(attendance.OwnerKindStaff) {
		h.punch(c, centerID, resolution)
		return
	}

	classID, ok := h.parseClassID(c, req)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckIn(c.Request.Context(), attendanceapp.CheckInInput{
		CenterID:  centerID,
		StudentID: *resolution.StudentID,
		ClassID:   classID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	message := kioskMsgCheckedIn
	if record.WasLate {
		message = kioskMsgCheckedInLate
	}
	h.Success(c, KioskResponse{
		Kind:    resolution.Kind,
		Name:    resolution.Name,
		Message: message,
		Record:  record,
	})
}

// CheckOut godoc
// @Summary      Check out with a pad code
// @Description  Record a student check-out, or a staff punch when the code
// @Description  belongs to a staff member. A check-out without a prior
// @Description  check-in is recorded as a checkout-only day.
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        request body KioskCodeRequest true "Code and optional class"
// @Success      200 {object} dto.Response{data=KioskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /kiosk/check-out [post]
func (h *KioskHandler) CheckOut(c *gin.Context) {
	centerID, req, ok := h.bind(c)
	if !ok {
		return
	}

	resolution, err := h.attendanceService.ValidateCode(c.Request.Context(), centerID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if resolution.Kind == string(attendance.OwnerKindStaff) {
		h.punch(c, centerID, resolution)
		return
	}

	classID, ok := h.parseClassID(c, req)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckOut(c.Request.Context(), attendanceapp.CheckOutInput{
		CenterID:  centerID,
		StudentID: *resolution.StudentID,
		ClassID:   classID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, KioskResponse{
		Kind:    resolution.Kind,
		Name:    resolution.Name,
		Message: kioskMsgCheckedOut,
		Record:  record,
	})
}

// punch records a staff punch and writes the response
func (h *KioskHandler) punch(c *gin.Context, centerID uuid.UUID, resolution *attendanceapp.ResolutionDTO) {
	workRecord, err := h.staffService.Punch(c.Request.Context(), centerID, *resolution.TeacherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	message := kioskMsgPunchIn
	if workRecord.Action == attendanceapp.PunchActionCheckOut {
		message = kioskMsgPunchOut
	}
	h.Success(c, KioskResponse{
		Kind:       resolution.Kind,
		Name:       resolution.Name,
		Message:    message,
		WorkRecord: workRecord,
	})
}

// bind resolves the pad's center and request body, writing the error
// response itself on failure
func (h *KioskHandler) bind(c *gin.Context) (uuid.UUID, KioskCodeRequest, bool) {
	var req KioskCodeRequest
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid code")
		return uuid.Nil, req, false
	}
	return centerID, req, true
}

func (h *KioskHandler) parseClassID(c *gin.Context, req KioskCodeRequest) (*uuid.UUID, bool) {
	if req.ClassID == nil {
		return nil, true
	}
	classID, err := uuid.Parse(*req.ClassID)
	if err != nil {
		h.BadRequest(c, "Invalid class ID")
		return nil, false
	}
	return &classID, true
}
