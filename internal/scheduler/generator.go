package scheduler

import "time"

// GenerateInput describes a generation run. Durations are in minutes.
// TeamsPerRoom is a per-slot ceiling, not a target.
type GenerateInput struct {
	RoomIDs             []int64
	Teams               []Entity
	Juries              []Entity
	TeamsPerRoom        int
	JuriesPerRoom       int
	Start               time.Time
	TimeBeforeFirstSlot int
	SlotDuration        int
	TimeBetweenSlots    int
	// ExistingRoomJuries is a previous room -> juries assignment to keep
	// across regeneration where it is still valid.
	ExistingRoomJuries map[int64][]int64
}

// GenerateResult is the generated slot grid plus the data callers need to
// report capacity shortfall.
type GenerateResult struct {
	Slots             []Slot            `json:"slots"`
	RoomJuries        map[int64][]int64 `json:"roomJuries"`
	SlotsPerRoom      int               `json:"slotsPerRoom"`
	UnassignedTeamIDs []int64           `json:"unassignedTeamIds"`
	UnassignedJuryIDs []int64           `json:"unassignedJuryIds"`
	// ShortJuryRooms lists rooms that received fewer than JuriesPerRoom juries.
	ShortJuryRooms []int64 `json:"shortJuryRooms"`
}

// Generate builds the initial slot grid by round-robin over naturally sorted
// teams and juries. It never fails: shortfall shows up as emptier slots.
func Generate(in GenerateInput) GenerateResult {
	teams := SortEntities(dedupeEntities(in.Teams))
	juries := SortEntities(dedupeEntities(in.Juries))
	rooms := dedupeIDs(in.RoomIDs)

	result := GenerateResult{
		Slots:          make([]Slot, 0),
		RoomJuries:     make(map[int64][]int64, len(rooms)),
		ShortJuryRooms: make([]int64, 0),
	}
	if len(rooms) == 0 || len(teams) == 0 || len(juries) == 0 {
		result.UnassignedTeamIDs = entityIDs(teams)
		result.UnassignedJuryIDs = entityIDs(juries)
		return result
	}

	result.RoomJuries = assignRoomJuries(rooms, juries, in.JuriesPerRoom, in.ExistingRoomJuries)
	for _, roomID := range rooms {
		if len(result.RoomJuries[roomID]) < in.JuriesPerRoom {
			result.ShortJuryRooms = append(result.ShortJuryRooms, roomID)
		}
	}

	if in.TeamsPerRoom > 0 {
		capacity := len(rooms) * in.TeamsPerRoom
		result.SlotsPerRoom = (len(teams) + capacity - 1) / capacity
	}

	step := time.Duration(in.SlotDuration+in.TimeBetweenSlots) * time.Minute
	first := in.Start.Add(time.Duration(in.TimeBeforeFirstSlot) * time.Minute)
	length := time.Duration(in.SlotDuration) * time.Minute

	cursor := 0
	used := make(map[int64]struct{}, len(teams))
	for slotIndex := 0; slotIndex < result.SlotsPerRoom; slotIndex++ {
		start := first.Add(time.Duration(slotIndex) * step)
		for _, roomID := range rooms {
			teamIDs := make([]int64, 0, in.TeamsPerRoom)
			for len(teamIDs) < in.TeamsPerRoom && cursor < len(teams) {
				id := teams[cursor].ID
				cursor++
				if _, taken := used[id]; taken {
					continue
				}
				used[id] = struct{}{}
				teamIDs = append(teamIDs, id)
			}
			juryIDs := append([]int64{}, result.RoomJuries[roomID]...)
			if len(teamIDs) == 0 && len(juryIDs) == 0 {
				continue
			}
			result.Slots = append(result.Slots, Slot{
				RoomID:    roomID,
				SlotIndex: slotIndex,
				StartTime: start,
				EndTime:   start.Add(length),
				TeamIDs:   teamIDs,
				JuryIDs:   juryIDs,
			})
		}
	}

	result.UnassignedTeamIDs = Unassigned(entityIDs(teams), AssignedTeamIDs(result.Slots))
	assignedJuries := make([]int64, 0)
	for _, roomID := range rooms {
		assignedJuries = append(assignedJuries, result.RoomJuries[roomID]...)
	}
	result.UnassignedJuryIDs = Unassigned(entityIDs(juries), assignedJuries)
	return result
}

// assignRoomJuries keeps an existing room assignment only when it still has at
// least perRoom entries, all selected and not already claimed by an earlier
// room. Remaining rooms draw the next unallocated juries from the sorted pool.
func assignRoomJuries(rooms []int64, juries []Entity, perRoom int, existing map[int64][]int64) map[int64][]int64 {
	out := make(map[int64][]int64, len(rooms))
	if perRoom <= 0 {
		for _, roomID := range rooms {
			out[roomID] = []int64{}
		}
		return out
	}

	selected := make(map[int64]struct{}, len(juries))
	for _, j := range juries {
		selected[j.ID] = struct{}{}
	}
	allocated := make(map[int64]struct{}, len(juries))
	kept := make(map[int64]bool, len(rooms))

	for _, roomID := range rooms {
		prev, ok := existing[roomID]
		if !ok || len(prev) < perRoom {
			continue
		}
		reusable := true
		for _, id := range prev {
			_, isSelected := selected[id]
			_, isTaken := allocated[id]
			if !isSelected || isTaken {
				reusable = false
				break
			}
		}
		if !reusable {
			continue
		}
		for _, id := range prev {
			allocated[id] = struct{}{}
		}
		out[roomID] = append([]int64{}, prev...)
		kept[roomID] = true
	}

	next := 0
	for _, roomID := range rooms {
		if kept[roomID] {
			continue
		}
		assigned := make([]int64, 0, perRoom)
		for len(assigned) < perRoom && next < len(juries) {
			id := juries[next].ID
			next++
			if _, taken := allocated[id]; taken {
				continue
			}
			allocated[id] = struct{}{}
			assigned = append(assigned, id)
		}
		out[roomID] = assigned
	}
	return out
}

func dedupeEntities(items []Entity) []Entity {
	seen := make(map[int64]struct{}, len(items))
	out := make([]Entity, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func entityIDs(items []Entity) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
