package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

func newTestDraft(id string, now time.Time) *draft {
	return &draft{
		ID:         id,
		SessionKey: "s1",
		RoomJuries: map[int64][]int64{1: {21}},
		Slots: []scheduler.Slot{
			{RoomID: 1, StartTime: now, EndTime: now.Add(time.Minute), TeamIDs: []int64{11}, JuryIDs: []int64{21}},
		},
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDraftStoreReturnsIsolatedCopies(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store := newDraftStore(time.Hour)
	store.now = func() time.Time { return now }
	store.Save(newTestDraft("d1", now))

	first, err := store.Get("d1")
	require.NoError(t, err)
	first.Slots[0].TeamIDs[0] = 99
	first.RoomJuries[1][0] = 99

	second, err := store.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), second.Slots[0].TeamIDs[0])
	assert.Equal(t, int64(21), second.RoomJuries[1][0])
}

func TestDraftStoreUpdateCommitsOnlyOnSuccess(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store := newDraftStore(time.Hour)
	store.now = func() time.Time { return now }
	store.Save(newTestDraft("d1", now))

	_, err := store.Update("d1", func(d *draft, now time.Time) error {
		d.Slots = nil
		d.touch(now)
		return errors.New("rejected")
	})
	require.Error(t, err)

	unchanged, err := store.Get("d1")
	require.NoError(t, err)
	assert.Len(t, unchanged.Slots, 1)
	assert.Equal(t, 1, unchanged.Revision)

	later := now.Add(10 * time.Minute)
	store.now = func() time.Time { return later }
	updated, err := store.Update("d1", func(d *draft, now time.Time) error {
		d.Warnings = []string{"edited"}
		d.touch(now)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Revision)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, later.Add(time.Hour), store.ExpiresAt(updated))
}

func TestDraftStoreExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store := newDraftStore(time.Hour)
	store.now = func() time.Time { return now }
	store.Save(newTestDraft("old", now))
	store.Save(newTestDraft("fresh", now.Add(50*time.Minute)))

	store.now = func() time.Time { return now.Add(61 * time.Minute) }

	_, err := store.Update("old", func(*draft, time.Time) error { return nil })
	assert.Equal(t, appErrors.ErrDraftExpired.Code, appErrors.FromError(err).Code)
	_, err = store.Get("old")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = store.Get("fresh")
	assert.NoError(t, err)
}

func TestDraftStorePurge(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store := newDraftStore(30 * time.Minute)
	store.now = func() time.Time { return now }
	store.Save(newTestDraft("a", now.Add(-time.Hour)))
	store.Save(newTestDraft("b", now.Add(-45*time.Minute)))
	store.Save(newTestDraft("c", now))

	assert.Equal(t, 2, store.Purge())
	assert.Zero(t, store.Purge())
	_, err := store.Get("c")
	assert.NoError(t, err)
}

func TestDraftStoreCleanupLoop(t *testing.T) {
	store := newDraftStore(time.Millisecond)
	store.Save(newTestDraft("a", time.Now().UTC().Add(-time.Second)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartCleanup(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		return len(store.items) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestDraftCloneCopiesPending(t *testing.T) {
	now := time.Now().UTC()
	d := newTestDraft("d1", now)
	d.Pending = &pendingRebalance{
		Result:        &scheduler.RebalanceResult{Slots: scheduler.CloneSlots(d.Slots)},
		BaseRevision:  1,
		ScaledWeights: []string{"waitingTime"},
	}

	cp := d.clone()
	cp.Pending.Result.Slots[0].TeamIDs[0] = 42
	cp.Pending.ScaledWeights[0] = "changed"

	assert.Equal(t, int64(11), d.Pending.Result.Slots[0].TeamIDs[0])
	assert.Equal(t, "waitingTime", d.Pending.ScaledWeights[0])
}
