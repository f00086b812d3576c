package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhub/backend/internal/infrastructure/scheduler"
	"github.com/tutorhub/backend/internal/interfaces/http/dto"
)

// MaintenanceHandler exposes the nightly maintenance scheduler for manual
// operation
type MaintenanceHandler struct {
	BaseHandler
	cron *scheduler.MaintenanceCronScheduler
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(cron *scheduler.MaintenanceCronScheduler) *MaintenanceHandler {
	return &MaintenanceHandler{cron: cron}
}

// TriggerJobRequest represents the request body for triggering one job
type TriggerJobRequest struct {
	JobType string `json:"job_type" binding:"required,oneof=MISSING_CHECKOUT PRUNE_EXPIRED GRADE_PROMOTION"`
}

// GetStatus godoc
// @ID           getMaintenanceStatus
// @Summary      Get the maintenance scheduler status
// @Tags         maintenance
// @Produce      json
// @Success      200 {object} APIResponse[map[string]any]
// @Security     BearerAuth
// @Router       /system/maintenance/status [get]
func (h *MaintenanceHandler) GetStatus(c *gin.Context) {
	h.Success(c, h.cron.GetStatus())
}

// TriggerRun godoc
// @ID           triggerMaintenanceRun
// @Summary      Run all daily maintenance jobs now
// @Description  Queues the missing-checkout, retention pruning and grade
// @Description  promotion jobs immediately
// @Tags         maintenance
// @Produce      json
// @Success      202 {object} APIResponse[CountData]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/maintenance/run [post]
func (h *MaintenanceHandler) TriggerRun(c *gin.Context) {
	if err := h.cron.TriggerManualRun(c.Request.Context()); err != nil {
		h.handleSchedulerError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"message": "Maintenance run queued"}))
}

// TriggerJob godoc
// @ID           triggerMaintenanceJob
// @Summary      Run one maintenance job now
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        request body TriggerJobRequest true "Job type"
// @Success      202 {object} APIResponse[SuccessResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/maintenance/jobs [post]
func (h *MaintenanceHandler) TriggerJob(c *gin.Context) {
	var req TriggerJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.cron.TriggerJob(c.Request.Context(), scheduler.JobType(req.JobType)); err != nil {
		h.handleSchedulerError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"message": "Job queued", "job_type": req.JobType}))
}

func (h *MaintenanceHandler) handleSchedulerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "Maintenance scheduler is not running")
	case errors.Is(err, scheduler.ErrInvalidJobType):
		h.BadRequest(c, "Unknown job type")
	default:
		h.HandleError(c, err)
	}
}
