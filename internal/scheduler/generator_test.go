package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entities(prefix string, ids ...int64) []Entity {
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, Entity{ID: id, Label: fmt.Sprintf("%s %d", prefix, id)})
	}
	return out
}

func baseInput() GenerateInput {
	return GenerateInput{
		RoomIDs:             []int64{1, 2},
		Teams:               entities("Team", 1, 2, 3),
		Juries:              entities("Jury", 1, 2, 3, 4),
		TeamsPerRoom:        2,
		JuriesPerRoom:       1,
		Start:               at(9, 0),
		TimeBeforeFirstSlot: 15,
		SlotDuration:        30,
		TimeBetweenSlots:    10,
	}
}

func TestGenerateEndToEndPartialFill(t *testing.T) {
	res := Generate(baseInput())

	require.Len(t, res.Slots, 2)
	assert.Equal(t, []int64{1, 2, 3}, AssignedTeamIDs(res.Slots))

	partial := false
	roomJury := map[int64][]int64{}
	for _, slot := range res.Slots {
		assert.LessOrEqual(t, len(slot.TeamIDs), 2)
		if len(slot.TeamIDs) < 2 {
			partial = true
		}
		if prev, ok := roomJury[slot.RoomID]; ok {
			assert.Equal(t, prev, slot.JuryIDs)
		}
		roomJury[slot.RoomID] = slot.JuryIDs
	}
	assert.True(t, partial)
	assert.Equal(t, []int64{1}, res.RoomJuries[1])
	assert.Equal(t, []int64{2}, res.RoomJuries[2])
	assert.Empty(t, res.UnassignedTeamIDs)
	assert.Equal(t, []int64{3, 4}, res.UnassignedJuryIDs)
}

func TestGenerateTimesAndCapacity(t *testing.T) {
	in := baseInput()
	in.Teams = entities("Team", 1, 2, 3, 4, 5, 6, 7)
	res := Generate(in)

	assert.Equal(t, 2, res.SlotsPerRoom)
	require.Len(t, res.Slots, 4)

	total := 0
	for _, slot := range res.Slots {
		assert.LessOrEqual(t, len(slot.TeamIDs), in.TeamsPerRoom)
		assert.Equal(t, 30*time.Minute, slot.EndTime.Sub(slot.StartTime))
		total += len(slot.TeamIDs)
	}
	assert.Equal(t, len(AssignedTeamIDs(res.Slots)), total)
	assert.Equal(t, 7, total)

	assert.Equal(t, at(9, 15), res.Slots[0].StartTime)
	assert.Equal(t, at(9, 55), res.Slots[2].StartTime)
	assert.Equal(t, []int64{7}, res.Slots[3].TeamIDs)
}

func TestGenerateSortsByLabel(t *testing.T) {
	in := baseInput()
	in.RoomIDs = []int64{1}
	in.TeamsPerRoom = 3
	in.Teams = []Entity{{ID: 10, Label: "Team 10"}, {ID: 2, Label: "Team 2"}, {ID: 1, Label: "Team 1"}}

	res := Generate(in)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, []int64{1, 2, 10}, res.Slots[0].TeamIDs)
}

func TestGenerateEmptySelections(t *testing.T) {
	for name, mutate := range map[string]func(*GenerateInput){
		"rooms":  func(in *GenerateInput) { in.RoomIDs = nil },
		"teams":  func(in *GenerateInput) { in.Teams = nil },
		"juries": func(in *GenerateInput) { in.Juries = nil },
	} {
		in := baseInput()
		mutate(&in)
		res := Generate(in)
		assert.Empty(t, res.Slots, name)
	}
}

func TestGenerateZeroCapacities(t *testing.T) {
	in := baseInput()
	in.TeamsPerRoom = 0
	res := Generate(in)
	assert.Empty(t, res.Slots)
	assert.Equal(t, []int64{1, 2, 3}, res.UnassignedTeamIDs)

	in = baseInput()
	in.JuriesPerRoom = 0
	res = Generate(in)
	require.NotEmpty(t, res.Slots)
	for _, slot := range res.Slots {
		assert.Empty(t, slot.JuryIDs)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, res.UnassignedJuryIDs)
}

func TestGenerateJuryShortfall(t *testing.T) {
	in := baseInput()
	in.RoomIDs = []int64{1, 2, 3}
	in.Juries = entities("Jury", 1, 2)
	in.Teams = entities("Team", 1, 2, 3, 4, 5, 6)

	res := Generate(in)
	assert.Equal(t, []int64{3}, res.ShortJuryRooms)
	assert.Empty(t, res.RoomJuries[3])
	for _, slot := range res.Slots {
		if slot.RoomID == 3 {
			assert.Empty(t, slot.JuryIDs)
			assert.NotEmpty(t, slot.TeamIDs)
		}
	}
}

func TestGeneratePreservesExistingRoomJuries(t *testing.T) {
	in := baseInput()
	in.ExistingRoomJuries = map[int64][]int64{2: {4}, 1: {99}}

	res := Generate(in)
	assert.Equal(t, []int64{4}, res.RoomJuries[2])
	assert.Equal(t, []int64{1}, res.RoomJuries[1], "unselected jury forces reallocation")
	for _, slot := range res.Slots {
		assert.Equal(t, res.RoomJuries[slot.RoomID], slot.JuryIDs)
	}
}

func TestAssignRoomJuriesReusedRoomsClaimFirst(t *testing.T) {
	juries := entities("Jury", 1, 2, 3)

	got := assignRoomJuries([]int64{1, 2}, juries, 1, map[int64][]int64{2: {1}})
	assert.Equal(t, map[int64][]int64{1: {2}, 2: {1}}, got, "room 1 skips the jury room 2 keeps")

	got = assignRoomJuries([]int64{1, 2}, juries, 1, map[int64][]int64{1: {1}, 2: {1}})
	assert.Equal(t, map[int64][]int64{1: {1}, 2: {2}}, got, "second claim on the same jury falls back to the pool")
}

func TestGenerateSlotJuryListsAreIndependent(t *testing.T) {
	in := baseInput()
	in.Teams = entities("Team", 1, 2, 3, 4, 5, 6, 7)
	res := Generate(in)
	require.Len(t, res.Slots, 4)

	res.Slots[0].JuryIDs[0] = 42
	assert.Equal(t, int64(1), res.Slots[2].JuryIDs[0])
	assert.Equal(t, int64(1), res.RoomJuries[1][0])
}
