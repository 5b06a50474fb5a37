package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// SessionPlanStatus represents lifecycle phases for saved plans.
type SessionPlanStatus string

const (
	SessionPlanStatusDraft     SessionPlanStatus = "DRAFT"
	SessionPlanStatusPublished SessionPlanStatus = "PUBLISHED"
)

// SessionPlan is a saved, versioned arrangement for one session key.
type SessionPlan struct {
	ID         string            `db:"id" json:"id"`
	SessionKey string            `db:"session_key" json:"session_key"`
	Version    int               `db:"version" json:"version"`
	Status     SessionPlanStatus `db:"status" json:"status"`
	Meta       types.JSONText    `db:"meta" json:"meta"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// SessionPlanSlot is one persisted slot of a session plan.
type SessionPlanSlot struct {
	ID            string        `db:"id" json:"id"`
	SessionPlanID string        `db:"session_plan_id" json:"session_plan_id"`
	RoomID        int64         `db:"room_id" json:"room_id"`
	SlotIndex     int           `db:"slot_index" json:"slot_index"`
	StartTime     time.Time     `db:"start_time" json:"start_time"`
	EndTime       time.Time     `db:"end_time" json:"end_time"`
	TeamIDs       pq.Int64Array `db:"team_ids" json:"team_ids"`
	JuryIDs       pq.Int64Array `db:"jury_ids" json:"jury_ids"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// SessionPlanFilter scopes plan listings.
type SessionPlanFilter struct {
	SessionKey string
	Page       int
	PageSize   int
}
