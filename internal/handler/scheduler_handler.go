package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/timetable-api/internal/dto"
	"github.com/opencampus/timetable-api/internal/service"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/response"
)

type schedulerRunner interface {
	Run(ctx context.Context, req dto.RunScheduleRequest) (*dto.ScheduleRunResponse, error)
	EnqueueRun(ctx context.Context, req dto.RunScheduleRequest) (*dto.EnqueueRunResponse, error)
	LatestRun(ctx context.Context, termID string) (*dto.ScheduleRunResponse, error)
	ClearTerm(ctx context.Context, termID string) error
	ExportTimetable(ctx context.Context, termID, format string) ([]byte, string, error)
}

// SchedulerHandler exposes timetable scheduling endpoints.
type SchedulerHandler struct {
	service schedulerRunner
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(svc *service.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{service: svc}
}

// Run godoc
// @Summary Run the timetable scheduler for a term
// @Description Executes a full scheduling run. Sections that cannot be placed are returned with a reason; set commit=true to persist the placements.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.RunScheduleRequest true "Schedule run payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/runs [post]
func (h *SchedulerHandler) Run(c *gin.Context) {
	var req dto.RunScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule run payload"))
		return
	}
	result, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RunAsync godoc
// @Summary Queue a timetable scheduling run
// @Description Enqueues the run on the background worker pool and returns immediately. Poll the latest-run endpoint for the result.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.RunScheduleRequest true "Schedule run payload"
// @Success 202 {object} response.Envelope
// @Router /schedule/runs/async [post]
func (h *SchedulerHandler) RunAsync(c *gin.Context) {
	var req dto.RunScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule run payload"))
		return
	}
	result, err := h.service.EnqueueRun(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// LatestRun godoc
// @Summary Latest scheduling run result for a term
// @Tags Scheduler
// @Produce json
// @Param term path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/runs/{term} [get]
func (h *SchedulerHandler) LatestRun(c *gin.Context) {
	result, err := h.service.LatestRun(c.Request.Context(), c.Param("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Clear godoc
// @Summary Clear the committed timetable for a term
// @Description Removes persisted placements and invalidates the cached run result.
// @Tags Scheduler
// @Param term path string true "Term ID"
// @Success 204
// @Router /schedule/runs/{term} [delete]
func (h *SchedulerHandler) Clear(c *gin.Context) {
	if err := h.service.ClearTerm(c.Request.Context(), c.Param("term")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the committed timetable
// @Tags Scheduler
// @Produce text/csv
// @Produce application/pdf
// @Param term path string true "Term ID"
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Router /schedule/runs/{term}/export [get]
func (h *SchedulerHandler) Export(c *gin.Context) {
	termID := c.Param("term")
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	payload, contentType, err := h.service.ExportTimetable(c.Request.Context(), termID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("timetable-%s.%s", termID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
