package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/models"
	"github.com/noah-isme/room-session-api/internal/scheduler"
	"github.com/noah-isme/room-session-api/internal/service"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
	"github.com/noah-isme/room-session-api/pkg/response"
)

type sessionPlanner interface {
	Generate(ctx context.Context, req dto.GenerateDraftRequest) (*dto.DraftResponse, error)
	Regenerate(ctx context.Context, draftID string, params dto.DraftParams) (*dto.DraftResponse, error)
	Get(ctx context.Context, draftID string) (*dto.DraftResponse, error)
	UpdateSlots(ctx context.Context, draftID string, req dto.UpdateSlotsRequest) (*dto.DraftResponse, error)
	AssignRoomJuries(ctx context.Context, draftID string, roomID int64, req dto.AssignRoomJuriesRequest) (*dto.DraftResponse, error)
	Conflicts(ctx context.Context, draftID string) (scheduler.ConflictReport, error)
	Evaluate(ctx context.Context, draftID string, req dto.EvaluateRequest) (*dto.EvaluationResponse, error)
	Rebalance(ctx context.Context, draftID string, req dto.RebalanceRequest) (*dto.RebalanceResponse, error)
	AcceptRebalance(ctx context.Context, draftID string) (*dto.DraftResponse, error)
	UndoRebalance(ctx context.Context, draftID string) (*dto.DraftResponse, error)
	DiscardRebalance(ctx context.Context, draftID string) (*dto.DraftResponse, error)
	Save(ctx context.Context, draftID string) (*dto.SaveDraftResponse, error)
	NextLabel(req dto.NextLabelRequest) (*dto.NextLabelResponse, error)
	ListPlans(ctx context.Context, query dto.SessionPlanQuery) ([]models.SessionPlan, *models.Pagination, error)
	PlanSlots(ctx context.Context, planID string) ([]models.SessionPlanSlot, error)
	DeletePlan(ctx context.Context, planID string) error
	PublishPlan(ctx context.Context, planID string) (*models.SessionPlan, error)
}

// PlannerHandler exposes draft and session plan endpoints.
type PlannerHandler struct {
	service sessionPlanner
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(svc *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{service: svc}
}

// Generate godoc
// @Summary Generate a draft arrangement
// @Tags Drafts
// @Accept json
// @Produce json
// @Param payload body dto.GenerateDraftRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Router /drafts [post]
func (h *PlannerHandler) Generate(c *gin.Context) {
	var req dto.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Get a draft
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /drafts/{id} [get]
func (h *PlannerHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Regenerate godoc
// @Summary Regenerate a draft with new parameters
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.DraftParams true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/regenerate [post]
func (h *PlannerHandler) Regenerate(c *gin.Context) {
	var req dto.DraftParams
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft parameters"))
		return
	}
	result, err := h.service.Regenerate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateSlots godoc
// @Summary Replace the draft's slots with a manual edit
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.UpdateSlotsRequest true "Edited slots"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/slots [put]
func (h *PlannerHandler) UpdateSlots(c *gin.Context) {
	var req dto.UpdateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	result, err := h.service.UpdateSlots(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// AssignRoomJuries godoc
// @Summary Set the juries of one room
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param roomId path int true "Room ID"
// @Param payload body dto.AssignRoomJuriesRequest true "Jury IDs"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/rooms/{roomId}/juries [put]
func (h *PlannerHandler) AssignRoomJuries(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
	if err != nil || roomID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "roomId must be a positive integer"))
		return
	}
	var req dto.AssignRoomJuriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room jury payload"))
		return
	}
	result, err := h.service.AssignRoomJuries(c.Request.Context(), c.Param("id"), roomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Conflicts godoc
// @Summary List team and jury conflicts of a draft
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/conflicts [get]
func (h *PlannerHandler) Conflicts(c *gin.Context) {
	report, err := h.service.Conflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report, map[string]interface{}{"hasConflicts": report.HasConflicts()})
}

// Evaluate godoc
// @Summary Score the draft's slots
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.EvaluateRequest false "Optional weights"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/evaluate [post]
func (h *PlannerHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if !bindOptionalJSON(c, &req, "invalid evaluate payload") {
		return
	}
	result, err := h.service.Evaluate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Rebalance godoc
// @Summary Run the local search and keep the result pending
// @Tags Rebalance
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.RebalanceRequest false "Rebalance options"
// @Success 200 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /drafts/{id}/rebalance [post]
func (h *PlannerHandler) Rebalance(c *gin.Context) {
	var req dto.RebalanceRequest
	if !bindOptionalJSON(c, &req, "invalid rebalance payload") {
		return
	}
	result, err := h.service.Rebalance(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// AcceptRebalance godoc
// @Summary Apply the pending rebalance result
// @Tags Rebalance
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/rebalance/accept [post]
func (h *PlannerHandler) AcceptRebalance(c *gin.Context) {
	h.respondDraft(c, h.service.AcceptRebalance)
}

// UndoRebalance godoc
// @Summary Restore the slots active before the last accepted rebalance
// @Tags Rebalance
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/rebalance/undo [post]
func (h *PlannerHandler) UndoRebalance(c *gin.Context) {
	h.respondDraft(c, h.service.UndoRebalance)
}

// DiscardRebalance godoc
// @Summary Drop the pending rebalance result
// @Tags Rebalance
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/rebalance [delete]
func (h *PlannerHandler) DiscardRebalance(c *gin.Context) {
	h.respondDraft(c, h.service.DiscardRebalance)
}

// Save godoc
// @Summary Persist the draft as the next session plan version
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /drafts/{id}/save [post]
func (h *PlannerHandler) Save(c *gin.Context) {
	result, err := h.service.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// NextLabel godoc
// @Summary Compute the successor of a label
// @Tags Labels
// @Accept json
// @Produce json
// @Param payload body dto.NextLabelRequest true "Label"
// @Success 200 {object} response.Envelope
// @Router /labels/next [post]
func (h *PlannerHandler) NextLabel(c *gin.Context) {
	var req dto.NextLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid label payload"))
		return
	}
	result, err := h.service.NextLabel(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ListPlans godoc
// @Summary List saved session plans
// @Tags Session Plans
// @Produce json
// @Param sessionKey query string false "Session key"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /session-plans [get]
func (h *PlannerHandler) ListPlans(c *gin.Context) {
	var query dto.SessionPlanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	plans, pagination, err := h.service.ListPlans(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, pagination)
}

// PlanSlots godoc
// @Summary Get slots of a saved session plan
// @Tags Session Plans
// @Produce json
// @Param id path string true "Session plan ID"
// @Success 200 {object} response.Envelope
// @Router /session-plans/{id}/slots [get]
func (h *PlannerHandler) PlanSlots(c *gin.Context) {
	slots, err := h.service.PlanSlots(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slots)
}

// DeletePlan godoc
// @Summary Delete an unpublished session plan
// @Tags Session Plans
// @Param id path string true "Session plan ID"
// @Success 204
// @Router /session-plans/{id} [delete]
func (h *PlannerHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PublishPlan godoc
// @Summary Publish a session plan
// @Tags Session Plans
// @Produce json
// @Param id path string true "Session plan ID"
// @Success 200 {object} response.Envelope
// @Router /session-plans/{id}/publish [post]
func (h *PlannerHandler) PublishPlan(c *gin.Context) {
	plan, err := h.service.PublishPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, plan)
}

func (h *PlannerHandler) respondDraft(c *gin.Context, fn func(context.Context, string) (*dto.DraftResponse, error)) {
	result, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// bindOptionalJSON binds a body when one is sent; an empty body keeps the zero value.
func bindOptionalJSON(c *gin.Context, target interface{}, message string) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(target); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
