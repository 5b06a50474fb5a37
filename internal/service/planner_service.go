package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/models"
	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

type directoryReader interface {
	ListTeams(ctx context.Context, ids []int64) ([]models.Team, error)
	ListRooms(ctx context.Context, ids []int64) ([]models.Room, error)
	ListJuries(ctx context.Context, ids []int64) ([]models.Jury, error)
}

type sessionPlanRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, plan *models.SessionPlan) error
	List(ctx context.Context, filter models.SessionPlanFilter) ([]models.SessionPlan, int, error)
	FindByID(ctx context.Context, id string) (*models.SessionPlan, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SessionPlanStatus) error
}

type sessionPlanSlotRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SessionPlanSlot) error
	ListByPlan(ctx context.Context, planID string) ([]models.SessionPlanSlot, error)
}

// PlannerAnalytics supplies historical weights and is refreshed after saves.
type PlannerAnalytics interface {
	scheduler.AnalyticsProvider
	Refresh(ctx context.Context) error
}

// TxRunner executes fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(tx *sqlx.Tx) error) error

// Rebalance run modes reported to metrics.
const (
	RebalanceModeSync  = "sync"
	RebalanceModeAsync = "async"
)

// PlannerConfig governs draft lifetime and rebalance limits.
type PlannerConfig struct {
	DraftTTL          time.Duration
	DefaultIterations int
	MaxIterations     int
}

// PlannerService owns the draft lifecycle: generation, edits, rebalancing and persistence.
type PlannerService struct {
	directory directoryReader
	plans     sessionPlanRepository
	planSlots sessionPlanSlotRepository
	analytics PlannerAnalytics
	tx        TxRunner
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       PlannerConfig
	store     *draftStore
}

// NewPlannerService wires planner dependencies. analytics may be nil when disabled.
func NewPlannerService(
	directory directoryReader,
	plans sessionPlanRepository,
	planSlots sessionPlanSlotRepository,
	tx TxRunner,
	analytics PlannerAnalytics,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg PlannerConfig,
) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 30 * time.Minute
	}
	if cfg.DefaultIterations <= 0 {
		cfg.DefaultIterations = scheduler.DefaultIterations
	}
	if cfg.MaxIterations < cfg.DefaultIterations {
		cfg.MaxIterations = cfg.DefaultIterations
	}
	return &PlannerService{
		directory: directory,
		plans:     plans,
		planSlots: planSlots,
		analytics: analytics,
		tx:        tx,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		store:     newDraftStore(cfg.DraftTTL),
	}
}

// StartCleanup purges expired drafts periodically until ctx ends.
func (s *PlannerService) StartCleanup(ctx context.Context, interval time.Duration) {
	s.store.StartCleanup(ctx, interval)
}

// Generate builds a new draft from the selected rooms, teams and juries.
func (s *PlannerService) Generate(ctx context.Context, req dto.GenerateDraftRequest) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft generation payload")
	}
	result, err := s.generate(ctx, req.DraftParams, nil)
	if err != nil {
		return nil, err
	}

	now := s.store.now()
	d := &draft{
		ID:         uuid.NewString(),
		SessionKey: req.SessionKey,
		Params:     normalizeParams(req.DraftParams),
		CreatedAt:  now,
		UpdatedAt:  now,
		Revision:   1,
	}
	applyGenerated(d, result, req.JuriesPerRoom)
	s.store.Save(d)
	s.metrics.AddGeneratedSlots(len(result.Slots))

	s.logger.Info("draft generated",
		zap.String("draft_id", d.ID),
		zap.String("session_key", d.SessionKey),
		zap.Int("slots", len(d.Slots)),
		zap.Int("unassigned_teams", len(d.UnassignedTeamIDs)),
	)
	return s.toResponse(d), nil
}

// Regenerate re-runs generation with new parameters, keeping the draft's
// room-jury assignment where it is still valid.
func (s *PlannerService) Regenerate(ctx context.Context, draftID string, params dto.DraftParams) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft regeneration payload")
	}
	current, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	result, err := s.generate(ctx, params, current.RoomJuries)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(draftID, func(d *draft, now time.Time) error {
		if d.Revision != current.Revision {
			return appErrors.Clone(appErrors.ErrConflict, "draft changed while regenerating")
		}
		d.Params = normalizeParams(params)
		applyGenerated(d, result, params.JuriesPerRoom)
		d.Previous = nil
		d.Pending = nil
		d.touch(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AddGeneratedSlots(len(result.Slots))
	return s.toResponse(updated), nil
}

// Get returns the current state of a draft.
func (s *PlannerService) Get(_ context.Context, draftID string) (*dto.DraftResponse, error) {
	d, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

// UpdateSlots replaces the active slots with a user edit.
func (s *PlannerService) UpdateSlots(_ context.Context, draftID string, req dto.UpdateSlotsRequest) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	slots := make([]scheduler.Slot, 0, len(req.Slots))
	for i, payload := range req.Slots {
		if !payload.StartTime.Before(payload.EndTime) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: startTime must be before endTime", i))
		}
		slots = append(slots, scheduler.Slot{
			RoomID:    payload.RoomID,
			SlotIndex: payload.SlotIndex,
			StartTime: payload.StartTime,
			EndTime:   payload.EndTime,
			TeamIDs:   append([]int64{}, payload.TeamIDs...),
			JuryIDs:   append([]int64{}, payload.JuryIDs...),
		})
	}

	updated, err := s.store.Update(draftID, func(d *draft, now time.Time) error {
		if err := checkScope(d.Params, slots); err != nil {
			return err
		}
		d.Slots = slots
		d.RoomJuries = roomJuriesFromSlots(d.RoomJuries, slots)
		refreshAssignment(d)
		d.Previous = nil
		d.Pending = nil
		d.touch(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated), nil
}

// AssignRoomJuries sets a room's juries and propagates them to every slot of that room.
func (s *PlannerService) AssignRoomJuries(_ context.Context, draftID string, roomID int64, req dto.AssignRoomJuriesRequest) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room jury payload")
	}
	juries := uniqueIDs(req.JuryIDs)

	updated, err := s.store.Update(draftID, func(d *draft, now time.Time) error {
		if !containsInt64(d.Params.RoomIDs, roomID) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %d is not part of this draft", roomID))
		}
		if outside := outsideScope(juries, d.Params.JuryIDs); len(outside) > 0 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("juries %v are not part of this draft", outside))
		}
		d.RoomJuries[roomID] = append([]int64{}, juries...)
		for i := range d.Slots {
			if d.Slots[i].RoomID == roomID {
				d.Slots[i].JuryIDs = append([]int64{}, juries...)
			}
		}
		refreshAssignment(d)
		d.Previous = nil
		d.Pending = nil
		d.touch(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated), nil
}

// Conflicts reports team and jury double-bookings in the active slots.
func (s *PlannerService) Conflicts(_ context.Context, draftID string) (scheduler.ConflictReport, error) {
	d, err := s.store.Get(draftID)
	if err != nil {
		return scheduler.ConflictReport{}, err
	}
	return scheduler.DetectConflicts(d.Slots), nil
}

// Evaluate scores the active slots with the given or default weights.
func (s *PlannerService) Evaluate(_ context.Context, draftID string, req dto.EvaluateRequest) (*dto.EvaluationResponse, error) {
	weights, err := s.resolveBaseWeights(req.Weights)
	if err != nil {
		return nil, err
	}
	d, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	return &dto.EvaluationResponse{
		Metrics:   scheduler.Evaluate(d.Slots, weights),
		Weights:   weights,
		Conflicts: scheduler.DetectConflicts(d.Slots),
	}, nil
}

// ValidateRebalance checks a rebalance request without running it. Weights
// are checked first so every route reports them as INVALID_WEIGHTS.
func (s *PlannerService) ValidateRebalance(req dto.RebalanceRequest) error {
	if _, err := s.resolveBaseWeights(req.Weights); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rebalance payload")
	}
	if req.Iterations > s.cfg.MaxIterations {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("iterations must not exceed %d", s.cfg.MaxIterations))
	}
	return nil
}

// Rebalance runs the local search synchronously and stores the result as pending.
func (s *PlannerService) Rebalance(ctx context.Context, draftID string, req dto.RebalanceRequest) (*dto.RebalanceResponse, error) {
	return s.RunRebalance(ctx, draftID, req, RebalanceModeSync)
}

// RunRebalance is Rebalance with an explicit mode label. The search runs
// outside the store lock; a draft edited meanwhile rejects the result.
func (s *PlannerService) RunRebalance(ctx context.Context, draftID string, req dto.RebalanceRequest, mode string) (*dto.RebalanceResponse, error) {
	if err := s.ValidateRebalance(req); err != nil {
		return nil, err
	}
	base, _ := s.resolveBaseWeights(req.Weights)
	snapshot, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}

	adjustment := scheduler.WeightAdjustment{Weights: base, Scaled: []string{}}
	analyticsApplied := false
	if req.UseAnalytics && s.analytics != nil {
		adjustment = scheduler.ResolveWeights(ctx, s.analytics, base)
		if adjustment.FetchErr != nil {
			s.logger.Warn("analytics unavailable, using base weights",
				zap.String("draft_id", draftID),
				zap.Error(adjustment.FetchErr),
			)
		} else {
			analyticsApplied = true
		}
	}

	iterations := req.Iterations
	if iterations == 0 {
		iterations = s.cfg.DefaultIterations
	}
	weights := adjustment.Weights
	start := time.Now()
	result, err := scheduler.Rebalance(ctx, scheduler.RebalanceInput{
		Slots:           snapshot.Slots,
		SelectedTeamIDs: snapshot.Params.TeamIDs,
		SelectedJuryIDs: snapshot.Params.JuryIDs,
		Seed:            req.Seed,
		Iterations:      iterations,
		Weights:         &weights,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, appErrors.Wrap(ctxErr, appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, "rebalance cancelled")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "rebalance failed")
	}
	s.metrics.ObserveRebalance(mode, time.Since(start), result.ImprovementPercentage)

	pending := &pendingRebalance{
		Result:           result,
		BaseRevision:     snapshot.Revision,
		AnalyticsApplied: analyticsApplied,
		ScaledWeights:    adjustment.Scaled,
	}
	if _, err := s.store.Update(draftID, func(d *draft, _ time.Time) error {
		if d.Revision != snapshot.Revision {
			return appErrors.Clone(appErrors.ErrConflict, "draft changed while rebalancing")
		}
		d.Pending = pending
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("rebalance completed",
		zap.String("draft_id", draftID),
		zap.String("mode", mode),
		zap.Int64("seed", result.Seed),
		zap.Int("iterations", result.Iterations),
		zap.Float64("improvement_pct", result.ImprovementPercentage),
	)
	return toRebalanceResponse(draftID, pending), nil
}

// AcceptRebalance makes the pending result active and keeps the old slots for undo.
func (s *PlannerService) AcceptRebalance(_ context.Context, draftID string) (*dto.DraftResponse, error) {
	updated, err := s.store.Update(draftID, func(d *draft, now time.Time) error {
		if d.Pending == nil {
			return appErrors.ErrNoPendingRebalance
		}
		if d.Pending.BaseRevision != d.Revision {
			return appErrors.Clone(appErrors.ErrConflict, "pending rebalance is stale")
		}
		d.Previous = d.Slots
		d.Slots = scheduler.CloneSlots(d.Pending.Result.Slots)
		d.RoomJuries = roomJuriesFromSlots(d.RoomJuries, d.Slots)
		refreshAssignment(d)
		d.Pending = nil
		d.touch(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated), nil
}

// UndoRebalance restores the slots active before the last accepted rebalance.
func (s *PlannerService) UndoRebalance(_ context.Context, draftID string) (*dto.DraftResponse, error) {
	updated, err := s.store.Update(draftID, func(d *draft, now time.Time) error {
		if d.Previous == nil {
			return appErrors.ErrNothingToUndo
		}
		d.Slots = d.Previous
		d.Previous = nil
		d.Pending = nil
		d.RoomJuries = roomJuriesFromSlots(d.RoomJuries, d.Slots)
		refreshAssignment(d)
		d.touch(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated), nil
}

// DiscardRebalance drops the pending result.
func (s *PlannerService) DiscardRebalance(_ context.Context, draftID string) (*dto.DraftResponse, error) {
	updated, err := s.store.Update(draftID, func(d *draft, _ time.Time) error {
		if d.Pending == nil {
			return appErrors.ErrNoPendingRebalance
		}
		d.Pending = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated), nil
}

// Save persists the active slots as the next plan version for the session.
func (s *PlannerService) Save(ctx context.Context, draftID string) (*dto.SaveDraftResponse, error) {
	d, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	report := scheduler.DetectConflicts(d.Slots)
	if report.HasConflicts() {
		return nil, appErrors.WithDetails(appErrors.ErrConflict, "draft contains unresolved conflicts", report)
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction runner missing")
	}

	metaBytes, err := json.Marshal(map[string]any{
		"params":     d.Params,
		"roomJuries": d.RoomJuries,
		"metrics":    scheduler.Evaluate(d.Slots, scheduler.DefaultWeights()),
		"revision":   d.Revision,
		"draftId":    d.ID,
		"generated":  d.CreatedAt,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode plan metadata")
	}
	record := &models.SessionPlan{
		SessionKey: d.SessionKey,
		Status:     models.SessionPlanStatusDraft,
		Meta:       types.JSONText(metaBytes),
	}

	start := time.Now()
	err = s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := s.plans.CreateVersioned(ctx, tx, record); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session plan")
		}
		rows := make([]models.SessionPlanSlot, 0, len(d.Slots))
		for _, slot := range d.Slots {
			rows = append(rows, models.SessionPlanSlot{
				SessionPlanID: record.ID,
				RoomID:        slot.RoomID,
				SlotIndex:     slot.SlotIndex,
				StartTime:     slot.StartTime,
				EndTime:       slot.EndTime,
				TeamIDs:       pq.Int64Array(append([]int64{}, slot.TeamIDs...)),
				JuryIDs:       pq.Int64Array(append([]int64{}, slot.JuryIDs...)),
			})
		}
		if err := s.planSlots.InsertBatch(ctx, tx, rows); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session plan slots")
		}
		return nil
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session plan")
	}
	s.metrics.ObserveDBQuery("session_plan_save", time.Since(start))
	s.store.Delete(draftID)

	if s.analytics != nil {
		if err := s.analytics.Refresh(ctx); err != nil {
			s.logger.Warn("analytics refresh after save failed", zap.String("plan_id", record.ID), zap.Error(err))
		}
	}
	s.logger.Info("session plan saved",
		zap.String("plan_id", record.ID),
		zap.String("session_key", record.SessionKey),
		zap.Int("version", record.Version),
	)
	return &dto.SaveDraftResponse{PlanID: record.ID, Version: record.Version}, nil
}

// NextLabel returns the successor label used when duplicating entities.
func (s *PlannerService) NextLabel(req dto.NextLabelRequest) (*dto.NextLabelResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid label payload")
	}
	return &dto.NextLabelResponse{Label: scheduler.NextLabel(req.Label)}, nil
}

// ListPlans returns saved plans newest first.
func (s *PlannerService) ListPlans(ctx context.Context, query dto.SessionPlanQuery) ([]models.SessionPlan, *models.Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	plans, total, err := s.plans.List(ctx, models.SessionPlanFilter{SessionKey: query.SessionKey, Page: page, PageSize: size})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session plans")
	}
	return plans, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// PlanSlots returns the slots of a saved plan.
func (s *PlannerService) PlanSlots(ctx context.Context, planID string) ([]models.SessionPlanSlot, error) {
	if _, err := s.findPlan(ctx, planID); err != nil {
		return nil, err
	}
	slots, err := s.planSlots.ListByPlan(ctx, planID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session plan slots")
	}
	return slots, nil
}

// DeletePlan removes a plan that has not been published.
func (s *PlannerService) DeletePlan(ctx context.Context, planID string) error {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.Status != models.SessionPlanStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft plans can be deleted")
	}
	if err := s.plans.Delete(ctx, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session plan")
	}
	return nil
}

// PublishPlan marks a plan as published; published plans are immutable.
func (s *PlannerService) PublishPlan(ctx context.Context, planID string) (*models.SessionPlan, error) {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == models.SessionPlanStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrConflict, "session plan already published")
	}
	if err := s.plans.UpdateStatus(ctx, nil, planID, models.SessionPlanStatusPublished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish session plan")
	}
	plan.Status = models.SessionPlanStatusPublished
	return plan, nil
}

func (s *PlannerService) findPlan(ctx context.Context, planID string) (*models.SessionPlan, error) {
	if planID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "plan id is required")
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session plan")
	}
	return plan, nil
}

// generate loads labels for the selection and runs the generator.
func (s *PlannerService) generate(ctx context.Context, params dto.DraftParams, existing map[int64][]int64) (scheduler.GenerateResult, error) {
	roomIDs := uniqueIDs(params.RoomIDs)
	teamIDs := uniqueIDs(params.TeamIDs)
	juryIDs := uniqueIDs(params.JuryIDs)

	start := time.Now()
	rooms, err := s.directory.ListRooms(ctx, roomIDs)
	if err != nil {
		return scheduler.GenerateResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	teams, err := s.directory.ListTeams(ctx, teamIDs)
	if err != nil {
		return scheduler.GenerateResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teams")
	}
	juries, err := s.directory.ListJuries(ctx, juryIDs)
	if err != nil {
		return scheduler.GenerateResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load juries")
	}
	s.metrics.ObserveDBQuery("directory_lookup", time.Since(start))

	roomEntities := make([]scheduler.Entity, 0, len(rooms))
	for _, room := range rooms {
		roomEntities = append(roomEntities, scheduler.Entity{ID: room.ID, Label: room.Label})
	}
	teamEntities := make([]scheduler.Entity, 0, len(teams))
	for _, team := range teams {
		teamEntities = append(teamEntities, scheduler.Entity{ID: team.ID, Label: team.Label})
	}
	juryEntities := make([]scheduler.Entity, 0, len(juries))
	for _, jury := range juries {
		juryEntities = append(juryEntities, scheduler.Entity{ID: jury.ID, Label: jury.Label})
	}
	if err := ensureKnown("rooms", roomIDs, roomEntities); err != nil {
		return scheduler.GenerateResult{}, err
	}
	if err := ensureKnown("teams", teamIDs, teamEntities); err != nil {
		return scheduler.GenerateResult{}, err
	}
	if err := ensureKnown("juries", juryIDs, juryEntities); err != nil {
		return scheduler.GenerateResult{}, err
	}

	return scheduler.Generate(scheduler.GenerateInput{
		RoomIDs:             roomIDs,
		Teams:               teamEntities,
		Juries:              juryEntities,
		TeamsPerRoom:        params.TeamsPerRoom,
		JuriesPerRoom:       params.JuriesPerRoom,
		Start:               params.StartTime,
		TimeBeforeFirstSlot: params.TimeBeforeFirstSlot,
		SlotDuration:        params.SlotDuration,
		TimeBetweenSlots:    params.TimeBetweenSlots,
		ExistingRoomJuries:  existing,
	}), nil
}

func (s *PlannerService) resolveBaseWeights(custom *scheduler.Weights) (scheduler.Weights, error) {
	if custom == nil {
		return scheduler.DefaultWeights(), nil
	}
	if err := s.validator.Struct(custom); err != nil {
		return scheduler.Weights{}, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, "weights must be non-negative")
	}
	return *custom, nil
}

func (s *PlannerService) toResponse(d *draft) *dto.DraftResponse {
	return &dto.DraftResponse{
		DraftID:             d.ID,
		SessionKey:          d.SessionKey,
		Revision:            d.Revision,
		Slots:               d.Slots,
		RoomJuries:          d.RoomJuries,
		Conflicts:           scheduler.DetectConflicts(d.Slots),
		Metrics:             scheduler.Evaluate(d.Slots, scheduler.DefaultWeights()),
		UnassignedTeamIDs:   d.UnassignedTeamIDs,
		UnassignedJuryIDs:   d.UnassignedJuryIDs,
		Warnings:            d.Warnings,
		HasPendingRebalance: d.Pending != nil,
		CanUndo:             d.Previous != nil,
		ExpiresAt:           s.store.ExpiresAt(d),
	}
}

func toRebalanceResponse(draftID string, p *pendingRebalance) *dto.RebalanceResponse {
	r := p.Result
	return &dto.RebalanceResponse{
		DraftID:               draftID,
		Slots:                 scheduler.CloneSlots(r.Slots),
		Before:                r.Before,
		After:                 r.After,
		ImprovementPercentage: r.ImprovementPercentage,
		Improved:              r.Improved,
		Seed:                  r.Seed,
		Iterations:            r.Iterations,
		Accepted:              r.Accepted,
		Rejected:              r.Rejected,
		Weights:               r.Weights,
		AnalyticsApplied:      p.AnalyticsApplied,
		ScaledWeights:         append([]string{}, p.ScaledWeights...),
		Conflicts:             scheduler.DetectConflicts(r.Slots),
	}
}

func applyGenerated(d *draft, result scheduler.GenerateResult, juriesPerRoom int) {
	d.Slots = result.Slots
	d.RoomJuries = result.RoomJuries
	d.UnassignedTeamIDs = result.UnassignedTeamIDs
	d.UnassignedJuryIDs = result.UnassignedJuryIDs
	d.Warnings = make([]string, 0, len(result.ShortJuryRooms))
	for _, roomID := range result.ShortJuryRooms {
		d.Warnings = append(d.Warnings, fmt.Sprintf("room %d has %d of %d juries", roomID, len(result.RoomJuries[roomID]), juriesPerRoom))
	}
}

// refreshAssignment recomputes unassigned IDs and jury shortfall warnings after an edit.
func refreshAssignment(d *draft) {
	d.UnassignedTeamIDs = scheduler.Unassigned(uniqueIDs(d.Params.TeamIDs), scheduler.AssignedTeamIDs(d.Slots))
	assigned := make([]int64, 0)
	for _, juries := range d.RoomJuries {
		assigned = append(assigned, juries...)
	}
	assigned = append(assigned, scheduler.AssignedJuryIDs(d.Slots)...)
	d.UnassignedJuryIDs = scheduler.Unassigned(uniqueIDs(d.Params.JuryIDs), assigned)

	d.Warnings = make([]string, 0)
	for _, roomID := range d.Params.RoomIDs {
		if have := len(d.RoomJuries[roomID]); have < d.Params.JuriesPerRoom {
			d.Warnings = append(d.Warnings, fmt.Sprintf("room %d has %d of %d juries", roomID, have, d.Params.JuriesPerRoom))
		}
	}
}

// roomJuriesFromSlots derives each room's juries from its slots in order of
// first appearance. Rooms without slots keep their previous assignment.
func roomJuriesFromSlots(previous map[int64][]int64, slots []scheduler.Slot) map[int64][]int64 {
	out := make(map[int64][]int64, len(previous))
	for room, juries := range previous {
		out[room] = append([]int64{}, juries...)
	}
	ordered := append([]scheduler.Slot(nil), slots...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].SlotIndex < ordered[j].SlotIndex })

	seen := make(map[int64]map[int64]struct{})
	for _, slot := range ordered {
		set, ok := seen[slot.RoomID]
		if !ok {
			set = make(map[int64]struct{})
			seen[slot.RoomID] = set
			out[slot.RoomID] = []int64{}
		}
		for _, id := range slot.JuryIDs {
			if _, dup := set[id]; dup {
				continue
			}
			set[id] = struct{}{}
			out[slot.RoomID] = append(out[slot.RoomID], id)
		}
	}
	return out
}

func checkScope(params dto.DraftParams, slots []scheduler.Slot) error {
	for i, slot := range slots {
		if !containsInt64(params.RoomIDs, slot.RoomID) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: room %d is not part of this draft", i, slot.RoomID))
		}
		if outside := outsideScope(slot.TeamIDs, params.TeamIDs); len(outside) > 0 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: teams %v are not part of this draft", i, outside))
		}
		if outside := outsideScope(slot.JuryIDs, params.JuryIDs); len(outside) > 0 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: juries %v are not part of this draft", i, outside))
		}
	}
	return nil
}

func ensureKnown(kind string, requested []int64, found []scheduler.Entity) error {
	known := make(map[int64]struct{}, len(found))
	for _, e := range found {
		known[e.ID] = struct{}{}
	}
	missing := make([]int64, 0)
	for _, id := range requested {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown %s: %v", kind, missing))
	}
	return nil
}

func normalizeParams(p dto.DraftParams) dto.DraftParams {
	p.RoomIDs = uniqueIDs(p.RoomIDs)
	p.TeamIDs = uniqueIDs(p.TeamIDs)
	p.JuryIDs = uniqueIDs(p.JuryIDs)
	return p
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func outsideScope(ids, scope []int64) []int64 {
	out := make([]int64, 0)
	for _, id := range ids {
		if !containsInt64(scope, id) {
			out = append(out, id)
		}
	}
	return out
}

func containsInt64(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
