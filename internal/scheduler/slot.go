// Package scheduler holds the room-session scheduling engine: deterministic
// generation, conflict detection, penalty scoring and local-search rebalancing.
// Everything in here is a pure function of its inputs.
package scheduler

import "time"

// Slot is one room and time interval with the teams and juries assigned to it.
// The interval is half-open: [StartTime, EndTime).
type Slot struct {
	RoomID    int64     `json:"roomId"`
	SlotIndex int       `json:"slotIndex"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	TeamIDs   []int64   `json:"teamIds"`
	JuryIDs   []int64   `json:"juryIds"`
}

// Entity is a directory record used for ordering (team, room or jury).
type Entity struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Overlaps reports whether the two half-open intervals intersect. Touching
// intervals do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// Clone returns a deep copy of the slot.
func (s Slot) Clone() Slot {
	clone := s
	clone.TeamIDs = append([]int64(nil), s.TeamIDs...)
	clone.JuryIDs = append([]int64(nil), s.JuryIDs...)
	return clone
}

// CloneSlots deep-copies a slot collection.
func CloneSlots(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	out := make([]Slot, len(slots))
	for i := range slots {
		out[i] = slots[i].Clone()
	}
	return out
}

// AssignedTeamIDs returns the distinct team IDs present in the slots, in first-seen order.
func AssignedTeamIDs(slots []Slot) []int64 {
	return collectIDs(slots, func(s Slot) []int64 { return s.TeamIDs })
}

// AssignedJuryIDs returns the distinct jury IDs present in the slots, in first-seen order.
func AssignedJuryIDs(slots []Slot) []int64 {
	return collectIDs(slots, func(s Slot) []int64 { return s.JuryIDs })
}

// Unassigned returns the selected IDs that are missing from assigned, keeping selection order.
func Unassigned(selected, assigned []int64) []int64 {
	present := idSet(assigned)
	out := make([]int64, 0)
	seen := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		if _, ok := present[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func collectIDs(slots []Slot, pick func(Slot) []int64) []int64 {
	seen := make(map[int64]struct{})
	out := make([]int64, 0)
	for _, slot := range slots {
		for _, id := range pick(slot) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
