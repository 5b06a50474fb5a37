package database

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSourceOrder(t *testing.T) {
	src, err := MigrationSource()
	require.NoError(t, err)
	defer src.Close() //nolint:errcheck

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	versions := []uint{first}
	for v := first; ; {
		next, err := src.Next(v)
		if err != nil {
			break
		}
		versions = append(versions, next)
		v = next
	}
	assert.Equal(t, []uint{1, 2, 3}, versions)
}

func TestAnalyticsMigrationCreatesViews(t *testing.T) {
	src, err := MigrationSource()
	require.NoError(t, err)
	defer src.Close() //nolint:errcheck

	r, _, err := src.ReadUp(3)
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck
	body, err := io.ReadAll(r)
	require.NoError(t, err)

	for _, view := range []string{"session_team_meetings_mv", "session_team_jury_mv", "session_team_waiting_mv", "session_team_rooms_mv"} {
		assert.Contains(t, string(body), "CREATE MATERIALIZED VIEW IF NOT EXISTS "+view)
		assert.Contains(t, string(body), "CREATE UNIQUE INDEX IF NOT EXISTS uq_"+view)
	}
}
