package main

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-session-api/pkg/database"
)

func TestGenerateDirectoryIsSeeded(t *testing.T) {
	counts := seedCounts{rooms: 12, teams: 5, juries: 3}
	first := generateDirectory(gofakeit.New(7), counts)
	second := generateDirectory(gofakeit.New(7), counts)

	assert.Equal(t, first, second)
	require.Len(t, first.Rooms, 12)
	assert.Equal(t, "Room 101", first.Rooms[0].Label)
	assert.Equal(t, "Room 201", first.Rooms[10].Label)
	require.Len(t, first.Teams, 5)
	assert.Regexp(t, `^Team 1 `, first.Teams[0].Label)
	assert.Len(t, first.Juries, 3)
}

func TestInsertDirectory(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "sqlmock")

	dir := generateDirectory(gofakeit.New(1), seedCounts{rooms: 2, teams: 3, juries: 0})

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE session_plan_slots").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO rooms").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO teams").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err = database.WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return insertDirectory(context.Background(), tx, dir, true)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDirectoryRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rooms").WillReturnError(errors.New("duplicate"))
	mock.ExpectRollback()

	dir := generateDirectory(gofakeit.New(1), seedCounts{rooms: 1})
	err = database.WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return insertDirectory(context.Background(), tx, dir, false)
	})
	assert.ErrorContains(t, err, "insert rooms")
	assert.NoError(t, mock.ExpectationsWereMet())
}
