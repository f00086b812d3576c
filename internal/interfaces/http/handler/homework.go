package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	homeworkapp "github.com/tutorhub/backend/internal/application/homework"
)

// HomeworkHandler handles homework assignment and submission HTTP requests
type HomeworkHandler struct {
	BaseHandler
	homeworkService *homeworkapp.Service
}

// NewHomeworkHandler creates a new homework handler
func NewHomeworkHandler(homeworkService *homeworkapp.Service) *HomeworkHandler {
	return &HomeworkHandler{homeworkService: homeworkService}
}

// CreateAssignmentRequest represents the request body for creating an assignment
type CreateAssignmentRequest struct {
	ClassID     string     `json:"class_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date" binding:"omitempty"`
}

// HandoutUploadRequest represents the request body for a handout upload URL
type HandoutUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// SubmitHomeworkRequest represents the request body for recording a submission
type SubmitHomeworkRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// ReviewSubmissionRequest represents the request body for reviewing a submission
type ReviewSubmissionRequest struct {
	Comment string `json:"comment" binding:"omitempty,max=2000"`
}

// CreateAssignment godoc
// @Summary      Create a homework assignment
// @Tags         homework
// @Accept       json
// @Produce      json
// @Param        request body CreateAssignmentRequest true "Assignment details"
// @Success      201 {object} dto.Response{data=homeworkapp.AssignmentDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /homework/assignments [post]
func (h *HomeworkHandler) CreateAssignment(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	assignment, err := h.homeworkService.CreateAssignment(c.Request.Context(), homeworkapp.CreateAssignmentInput{
		CenterID:    centerID,
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, assignment)
}

// ListAssignments godoc
// @Summary      List a class's assignments
// @Tags         homework
// @Produce      json
// @Param        class_id query string true "Class ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]homeworkapp.AssignmentDTO}
// @Security     BearerAuth
// @Router       /homework/assignments [get]
func (h *HomeworkHandler) ListAssignments(c *gin.Context) {
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

	assignments, err := h.homeworkService.ListAssignments(c.Request.Context(), centerID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assignments)
}

// RequestHandoutUpload godoc
// @Summary      Get a presigned upload URL for an assignment handout
// @Tags         homework
// @Accept       json
// @Produce      json
// @Param        id path string true "Assignment ID" format(uuid)
// @Param        request body HandoutUploadRequest true "Content type of the file"
// @Success      200 {object} dto.Response{data=homeworkapp.AttachmentURL}
// @Security     BearerAuth
// @Router       /homework/assignments/{id}/handout/upload-url [post]
func (h *HomeworkHandler) RequestHandoutUpload(c *gin.Context) {
	centerID, assignmentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req HandoutUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	url, err := h.homeworkService.RequestHandoutUpload(c.Request.Context(), centerID, assignmentID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}

// HandoutDownloadURL godoc
// @Summary      Get a presigned download URL for an assignment handout
// @Tags         homework
// @Produce      json
// @Param        id path string true "Assignment ID" format(uuid)
// @Success      200 {object} dto.Response{data=homeworkapp.AttachmentURL}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /homework/assignments/{id}/handout/download-url [get]
func (h *HomeworkHandler) HandoutDownloadURL(c *gin.Context) {
	centerID, assignmentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	url, err := h.homeworkService.HandoutDownloadURL(c.Request.Context(), centerID, assignmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}

// Submit godoc
// @Summary      Record a homework submission
// @Tags         homework
// @Accept       json
// @Produce      json
// @Param        id path string true "Assignment ID" format(uuid)
// @Param        request body SubmitHomeworkRequest true "Submitting student"
// @Success      201 {object} dto.Response{data=homeworkapp.SubmissionDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /homework/assignments/{id}/submissions [post]
func (h *HomeworkHandler) Submit(c *gin.Context) {
	centerID, assignmentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req SubmitHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	submission, err := h.homeworkService.Submit(c.Request.Context(), centerID, assignmentID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, submission)
}

// ListSubmissions godoc
// @Summary      List an assignment's submissions
// @Tags         homework
// @Produce      json
// @Param        id path string true "Assignment ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]homeworkapp.SubmissionDTO}
// @Security     BearerAuth
// @Router       /homework/assignments/{id}/submissions [get]
func (h *HomeworkHandler) ListSubmissions(c *gin.Context) {
	centerID, assignmentID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	submissions, err := h.homeworkService.ListSubmissions(c.Request.Context(), centerID, assignmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submissions)
}

// Review godoc
// @Summary      Mark a submission reviewed
// @Tags         homework
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Param        request body ReviewSubmissionRequest true "Review comment"
// @Success      200 {object} dto.Response{data=homeworkapp.SubmissionDTO}
// @Security     BearerAuth
// @Router       /homework/submissions/{id}/review [post]
func (h *HomeworkHandler) Review(c *gin.Context) {
	centerID, submissionID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.homeworkService.Review(c.Request.Context(), centerID, submissionID, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submission)
}

// Return godoc
// @Summary      Return a submission for rework
// @Tags         homework
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Success      200 {object} dto.Response{data=homeworkapp.SubmissionDTO}
// @Security     BearerAuth
// @Router       /homework/submissions/{id}/return [post]
func (h *HomeworkHandler) Return(c *gin.Context) {
	centerID, submissionID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	submission, err := h.homeworkService.Return(c.Request.Context(), centerID, submissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submission)
}

func (h *HomeworkHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
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
