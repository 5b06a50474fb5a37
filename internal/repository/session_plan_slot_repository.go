package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-session-api/internal/models"
)

// SessionPlanSlotRepository manages the slots of saved plans.
type SessionPlanSlotRepository struct {
	db *sqlx.DB
}

// NewSessionPlanSlotRepository builds repository.
func NewSessionPlanSlotRepository(db *sqlx.DB) *SessionPlanSlotRepository {
	return &SessionPlanSlotRepository{db: db}
}

func (r *SessionPlanSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch writes every slot of a plan.
func (r *SessionPlanSlotRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SessionPlanSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO session_plan_slots (id, session_plan_id, room_id, slot_index, start_time, end_time, team_ids, jury_ids, created_at)
VALUES (:id, :session_plan_id, :room_id, :slot_index, :start_time, :end_time, :team_ids, :jury_ids, :created_at)`

	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, slot); err != nil {
			return fmt.Errorf("insert session plan slot: %w", err)
		}
	}
	return nil
}

// ListByPlan returns slots ordered by start time then room.
func (r *SessionPlanSlotRepository) ListByPlan(ctx context.Context, planID string) ([]models.SessionPlanSlot, error) {
	const query = `SELECT id, session_plan_id, room_id, slot_index, start_time, end_time, team_ids, jury_ids, created_at
FROM session_plan_slots WHERE session_plan_id = $1 ORDER BY start_time ASC, room_id ASC, slot_index ASC`
	var slots []models.SessionPlanSlot
	if err := r.db.SelectContext(ctx, &slots, query, planID); err != nil {
		return nil, fmt.Errorf("list session plan slots: %w", err)
	}
	return slots, nil
}
