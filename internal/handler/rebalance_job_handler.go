package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/service"
	"github.com/noah-isme/room-session-api/pkg/response"
)

type rebalanceJobs interface {
	Submit(ctx context.Context, draftID string, req dto.RebalanceRequest) (*dto.RebalanceJobResponse, error)
	Status(ctx context.Context, jobID string) (*dto.RebalanceJobResponse, error)
	Cancel(ctx context.Context, jobID string) (*dto.RebalanceJobResponse, error)
}

// RebalanceJobHandler exposes asynchronous rebalance endpoints.
type RebalanceJobHandler struct {
	service rebalanceJobs
}

// NewRebalanceJobHandler constructs the handler.
func NewRebalanceJobHandler(svc *service.RebalanceJobService) *RebalanceJobHandler {
	return &RebalanceJobHandler{service: svc}
}

// Submit godoc
// @Summary Queue a rebalance for background execution
// @Tags Rebalance
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.RebalanceRequest false "Rebalance options"
// @Success 202 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /drafts/{id}/rebalance-jobs [post]
func (h *RebalanceJobHandler) Submit(c *gin.Context) {
	var req dto.RebalanceRequest
	if !bindOptionalJSON(c, &req, "invalid rebalance payload") {
		return
	}
	job, err := h.service.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Status godoc
// @Summary Get the state of a rebalance job
// @Tags Rebalance
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /rebalance-jobs/{id} [get]
func (h *RebalanceJobHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}

// Cancel godoc
// @Summary Cancel a queued or running rebalance job
// @Tags Rebalance
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /rebalance-jobs/{id} [delete]
func (h *RebalanceJobHandler) Cancel(c *gin.Context) {
	job, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}
