package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/room-session-api/internal/models"
)

const sessionPlanColumns = `id, session_key, version, status, meta, created_at, updated_at`

// SessionPlanRepository persists versioned session plans.
type SessionPlanRepository struct {
	db *sqlx.DB
}

// NewSessionPlanRepository constructs repository.
func NewSessionPlanRepository(db *sqlx.DB) *SessionPlanRepository {
	return &SessionPlanRepository{db: db}
}

func (r *SessionPlanRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a plan assigning the next version for its session key.
func (r *SessionPlanRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, plan *models.SessionPlan) error {
	if plan == nil {
		return fmt.Errorf("session plan payload is nil")
	}
	if plan.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Status == "" {
		plan.Status = models.SessionPlanStatusDraft
	}
	if len(plan.Meta) == 0 {
		plan.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM session_plans WHERE session_key = $1`
	if err := sqlx.GetContext(ctx, target, &plan.Version, nextVersionQuery, plan.SessionKey); err != nil {
		return fmt.Errorf("compute next session plan version: %w", err)
	}

	const insertQuery = `
INSERT INTO session_plans (id, session_key, version, status, meta, created_at, updated_at)
VALUES (:id, :session_key, :version, :status, :meta, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, plan); err != nil {
		return fmt.Errorf("insert session plan: %w", err)
	}
	return nil
}

// List returns plans newest first together with the total count for the filter.
func (r *SessionPlanRepository) List(ctx context.Context, filter models.SessionPlanFilter) ([]models.SessionPlan, int, error) {
	var (
		where strings.Builder
		args  []interface{}
	)
	where.WriteString(" WHERE 1=1")
	if filter.SessionKey != "" {
		args = append(args, filter.SessionKey)
		where.WriteString(fmt.Sprintf(" AND session_key = $%d", len(args)))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM session_plans"+where.String(), args...); err != nil {
		return nil, 0, fmt.Errorf("count session plans: %w", err)
	}

	query := "SELECT " + sessionPlanColumns + " FROM session_plans" + where.String() + " ORDER BY created_at DESC, version DESC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	var plans []models.SessionPlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list session plans: %w", err)
	}
	return plans, total, nil
}

// FindByID loads a plan by its identifier.
func (r *SessionPlanRepository) FindByID(ctx context.Context, id string) (*models.SessionPlan, error) {
	query := "SELECT " + sessionPlanColumns + " FROM session_plans WHERE id = $1"
	var plan models.SessionPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Delete removes a stored plan; its slots cascade.
func (r *SessionPlanRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM session_plans WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete session plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("session plan rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus moves a plan to the given status.
func (r *SessionPlanRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SessionPlanStatus) error {
	const query = `UPDATE session_plans SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.exec(exec).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update session plan status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("session plan status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
