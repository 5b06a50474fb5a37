package dto

import (
	"time"

	"github.com/noah-isme/room-session-api/internal/scheduler"
)

// DraftParams is the scope and timing of a generated arrangement. Durations are in minutes.
type DraftParams struct {
	RoomIDs             []int64   `json:"roomIds" validate:"omitempty,dive,gt=0"`
	TeamIDs             []int64   `json:"teamIds" validate:"omitempty,dive,gt=0"`
	JuryIDs             []int64   `json:"juryIds" validate:"omitempty,dive,gt=0"`
	TeamsPerRoom        int       `json:"teamsPerRoom" validate:"gte=0,lte=1000"`
	JuriesPerRoom       int       `json:"juriesPerRoom" validate:"gte=0,lte=1000"`
	StartTime           time.Time `json:"startTime" validate:"required"`
	TimeBeforeFirstSlot int       `json:"timeBeforeFirstSlot" validate:"gte=0"`
	SlotDuration        int       `json:"slotDuration" validate:"gt=0"`
	TimeBetweenSlots    int       `json:"timeBetweenSlots" validate:"gte=0"`
}

// GenerateDraftRequest starts a new draft for a session.
type GenerateDraftRequest struct {
	SessionKey string `json:"sessionKey" validate:"required,max=128"`
	DraftParams
}

// DraftResponse is the full view of a draft arrangement.
type DraftResponse struct {
	DraftID             string                   `json:"draftId"`
	SessionKey          string                   `json:"sessionKey"`
	Revision            int                      `json:"revision"`
	Slots               []scheduler.Slot         `json:"slots"`
	RoomJuries          map[int64][]int64        `json:"roomJuries"`
	Conflicts           scheduler.ConflictReport `json:"conflicts"`
	Metrics             scheduler.Metrics        `json:"metrics"`
	UnassignedTeamIDs   []int64                  `json:"unassignedTeamIds"`
	UnassignedJuryIDs   []int64                  `json:"unassignedJuryIds"`
	Warnings            []string                 `json:"warnings"`
	HasPendingRebalance bool                     `json:"hasPendingRebalance"`
	CanUndo             bool                     `json:"canUndo"`
	ExpiresAt           time.Time                `json:"expiresAt"`
}

// SlotPayload is a user-edited slot.
type SlotPayload struct {
	RoomID    int64     `json:"roomId" validate:"gt=0"`
	SlotIndex int       `json:"slotIndex" validate:"gte=0"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	TeamIDs   []int64   `json:"teamIds" validate:"omitempty,dive,gt=0"`
	JuryIDs   []int64   `json:"juryIds" validate:"omitempty,dive,gt=0"`
}

// UpdateSlotsRequest replaces the active slots of a draft.
type UpdateSlotsRequest struct {
	Slots []SlotPayload `json:"slots" validate:"dive"`
}

// AssignRoomJuriesRequest sets the jury list of a room.
type AssignRoomJuriesRequest struct {
	JuryIDs []int64 `json:"juryIds" validate:"omitempty,dive,gt=0"`
}

// EvaluateRequest scores the active slots, optionally with custom weights.
type EvaluateRequest struct {
	Weights *scheduler.Weights `json:"weights"`
}

// EvaluationResponse reports metrics and conflicts for the active slots.
type EvaluationResponse struct {
	Metrics   scheduler.Metrics        `json:"metrics"`
	Weights   scheduler.Weights        `json:"weights"`
	Conflicts scheduler.ConflictReport `json:"conflicts"`
}

// RebalanceRequest configures one local-search run.
type RebalanceRequest struct {
	Seed         *int64             `json:"seed"`
	Iterations   int                `json:"iterations" validate:"gte=0"`
	Weights      *scheduler.Weights `json:"weights"`
	UseAnalytics bool               `json:"useAnalytics"`
}

// RebalanceResponse is the pending result of a rebalance run.
type RebalanceResponse struct {
	DraftID               string                   `json:"draftId"`
	Slots                 []scheduler.Slot         `json:"slots"`
	Before                scheduler.Metrics        `json:"beforeMetrics"`
	After                 scheduler.Metrics        `json:"afterMetrics"`
	ImprovementPercentage float64                  `json:"improvementPercentage"`
	Improved              bool                     `json:"improved"`
	Seed                  int64                    `json:"seed"`
	Iterations            int                      `json:"iterations"`
	Accepted              int                      `json:"acceptedMoves"`
	Rejected              int                      `json:"rejectedMoves"`
	Weights               scheduler.Weights        `json:"weights"`
	AnalyticsApplied      bool                     `json:"analyticsApplied"`
	ScaledWeights         []string                 `json:"scaledWeights"`
	Conflicts             scheduler.ConflictReport `json:"conflicts"`
}

// SaveDraftResponse identifies the persisted plan.
type SaveDraftResponse struct {
	PlanID  string `json:"planId"`
	Version int    `json:"version"`
}

// NextLabelRequest asks for the successor of a label.
type NextLabelRequest struct {
	Label string `json:"label" validate:"max=256"`
}

// NextLabelResponse carries the incremented label.
type NextLabelResponse struct {
	Label string `json:"label"`
}

// SessionPlanQuery filters saved plans.
type SessionPlanQuery struct {
	SessionKey string `form:"sessionKey" json:"sessionKey"`
	Page       int    `form:"page" json:"page"`
	PageSize   int    `form:"pageSize" json:"pageSize"`
}
