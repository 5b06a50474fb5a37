package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-session-api/internal/models"
	"github.com/noah-isme/room-session-api/internal/scheduler"
)

// AnalyticsRepository exposes read-optimised queries over the session history views.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// TeamMeetingCounts returns how often each team pair shared a slot across saved plans.
func (r *AnalyticsRepository) TeamMeetingCounts(ctx context.Context) ([]scheduler.PairCount, error) {
	query := "SELECT a_id, b_id, meetings FROM " + models.AnalyticsTeamMeetingsView + " ORDER BY meetings DESC, a_id ASC, b_id ASC"
	var rows []scheduler.PairCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query team meetings mv: %w", err)
	}
	return rows, nil
}

// TeamJuryCounts returns how often each team met each jury.
func (r *AnalyticsRepository) TeamJuryCounts(ctx context.Context) ([]scheduler.PairCount, error) {
	query := "SELECT a_id, b_id, meetings FROM " + models.AnalyticsTeamJuryView + " ORDER BY meetings DESC, a_id ASC, b_id ASC"
	var rows []scheduler.PairCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query team jury mv: %w", err)
	}
	return rows, nil
}

// TeamWaiting returns the average minutes each team waited between its slots.
func (r *AnalyticsRepository) TeamWaiting(ctx context.Context) ([]scheduler.TeamWaiting, error) {
	query := "SELECT team_id, avg_waiting_minutes FROM " + models.AnalyticsTeamWaitingView + " ORDER BY team_id ASC"
	var rows []scheduler.TeamWaiting
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query team waiting mv: %w", err)
	}
	return rows, nil
}

// TeamRoomUsage returns the number of distinct rooms each team was placed in.
func (r *AnalyticsRepository) TeamRoomUsage(ctx context.Context) ([]scheduler.TeamRoomUsage, error) {
	query := "SELECT team_id, distinct_rooms FROM " + models.AnalyticsTeamRoomsView + " ORDER BY team_id ASC"
	var rows []scheduler.TeamRoomUsage
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query team rooms mv: %w", err)
	}
	return rows, nil
}

// RefreshViews rebuilds every analytics view. Views are refreshed concurrently
// so readers are not blocked; each view needs a unique index for that.
func (r *AnalyticsRepository) RefreshViews(ctx context.Context) error {
	for _, view := range models.AnalyticsViews {
		if _, err := r.db.ExecContext(ctx, "REFRESH MATERIALIZED VIEW CONCURRENTLY "+view); err != nil {
			return fmt.Errorf("refresh %s: %w", view, err)
		}
	}
	return nil
}
