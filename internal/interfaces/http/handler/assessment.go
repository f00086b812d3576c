package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	assessmentapp "github.com/tutorhub/backend/internal/application/assessment"
)

// AssessmentHandler handles assessment and result HTTP requests
type AssessmentHandler struct {
	BaseHandler
	assessmentService *assessmentapp.Service
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentService *assessmentapp.Service) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// CreateAssessmentRequest represents the request body for creating an assessment
type CreateAssessmentRequest struct {
	ClassID  string  `json:"class_id" binding:"required,uuid"`
	Title    string  `json:"title" binding:"required,min=1,max=200"`
	Subject  string  `json:"subject" binding:"omitempty,max=100"`
	MaxScore float64 `json:"max_score" binding:"required,gt=0"`
}

// RecordResultRequest represents the request body for recording a score
type RecordResultRequest struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	Score     float64 `json:"score" binding:"min=0"`
	Comment   string  `json:"comment" binding:"omitempty,max=2000"`
}

// Create godoc
// @Summary      Create an assessment
// @Tags         assessments
// @Accept       json
// @Produce      json
// @Param        request body CreateAssessmentRequest true "Assessment details"
// @Success      201 {object} dto.Response{data=assessmentapp.AssessmentDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assessments [post]
func (h *AssessmentHandler) Create(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), assessmentapp.CreateAssessmentInput{
		CenterID: centerID,
		ClassID:  classID,
		Title:    req.Title,
		Subject:  req.Subject,
		MaxScore: toDecimal(req.MaxScore),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, assessment)
}

// ListForClass godoc
// @Summary      List a class's assessments
// @Tags         assessments
// @Produce      json
// @Param        class_id query string true "Class ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]assessmentapp.AssessmentDTO}
// @Security     BearerAuth
// @Router       /assessments [get]
func (h *AssessmentHandler) ListForClass(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}
	classID, err := uuid.Parse(c.Query("class_id"))
	if err != nil {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	assessments, err := h.assessmentService.ListForClass(c.Request.Context(), centerID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assessments)
}

// RecordResult godoc
// @Summary      Record a student's score for an assessment
// @Tags         assessments
// @Accept       json
// @Produce      json
// @Param        id path string true "Assessment ID" format(uuid)
// @Param        request body RecordResultRequest true "Score details"
// @Success      201 {object} dto.Response{data=assessmentapp.ResultDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assessments/{id}/results [post]
func (h *AssessmentHandler) RecordResult(c *gin.Context) {
	centerID, assessmentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	result, err := h.assessmentService.RecordResult(c.Request.Context(), assessmentapp.RecordResultInput{
		CenterID:     centerID,
		AssessmentID: assessmentID,
		StudentID:    studentID,
		Score:        toDecimal(req.Score),
		Comment:      req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListResults godoc
// @Summary      List an assessment's results
// @Tags         assessments
// @Produce      json
// @Param        id path string true "Assessment ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]assessmentapp.ResultDTO}
// @Security     BearerAuth
// @Router       /assessments/{id}/results [get]
func (h *AssessmentHandler) ListResults(c *gin.Context) {
	centerID, assessmentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	results, err := h.assessmentService.ListResults(c.Request.Context(), centerID, assessmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// GenerateReport godoc
// @Summary      Generate the guardian report text for a result
// @Tags         assessments
// @Produce      json
// @Param        id path string true "Result ID" format(uuid)
// @Success      200 {object} dto.Response{data=assessmentapp.ResultDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assessments/results/{id}/report [post]
func (h *AssessmentHandler) GenerateReport(c *gin.Context) {
	centerID, resultID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	result, err := h.assessmentService.GenerateReport(c.Request.Context(), centerID, resultID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *AssessmentHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
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
