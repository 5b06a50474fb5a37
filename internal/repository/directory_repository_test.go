package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDirectoryRepositoryListTeams(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label FROM teams WHERE id = ANY($1) ORDER BY id ASC")).
		WithArgs(pq.Array([]int64{2, 10})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label"}).AddRow(2, "Team 2").AddRow(10, "Team 10"))

	teams, err := repo.ListTeams(context.Background(), []int64{2, 10})
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Team 10", teams[1].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryEmptyIDsSkipsQuery(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	rooms, err := repo.ListRooms(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryListJuriesError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("FROM juries").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListJuries(context.Background(), []int64{1})
	assert.ErrorContains(t, err, "list juries")
	assert.NoError(t, mock.ExpectationsWereMet())
}
