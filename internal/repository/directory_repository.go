package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/room-session-api/internal/models"
)

// DirectoryRepository reads the labelled teams, rooms and juries a draft is built from.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListTeams returns the teams with the given IDs ordered by ID. Unknown IDs are skipped.
func (r *DirectoryRepository) ListTeams(ctx context.Context, ids []int64) ([]models.Team, error) {
	var teams []models.Team
	if err := r.selectByIDs(ctx, &teams, "teams", ids); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListRooms returns the rooms with the given IDs ordered by ID.
func (r *DirectoryRepository) ListRooms(ctx context.Context, ids []int64) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.selectByIDs(ctx, &rooms, "rooms", ids); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListJuries returns the juries with the given IDs ordered by ID.
func (r *DirectoryRepository) ListJuries(ctx context.Context, ids []int64) ([]models.Jury, error) {
	var juries []models.Jury
	if err := r.selectByIDs(ctx, &juries, "juries", ids); err != nil {
		return nil, err
	}
	return juries, nil
}

// selectByIDs loads id/label rows; table is always one of the fixed names above.
func (r *DirectoryRepository) selectByIDs(ctx context.Context, dest interface{}, table string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`SELECT id, label FROM %s WHERE id = ANY($1) ORDER BY id ASC`, table)
	if err := r.db.SelectContext(ctx, dest, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	return nil
}
