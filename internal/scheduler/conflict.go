package scheduler

// TeamConflict reports a team placed in more than one slot. SlotIndexes are
// positions in the evaluated slot list.
type TeamConflict struct {
	TeamID      int64 `json:"teamId"`
	SlotIndexes []int `json:"slotIndexes"`
}

// JuryConflict reports a jury with at least one pair of overlapping slots.
// It carries every slot of that jury, not only the overlapping pair.
type JuryConflict struct {
	JuryID           int64  `json:"juryId"`
	SlotIndexes      []int  `json:"slotIndexes"`
	ConflictingSlots []Slot `json:"conflictingSlots"`
}

// ConflictReport bundles both conflict kinds.
type ConflictReport struct {
	Teams  []TeamConflict `json:"teams"`
	Juries []JuryConflict `json:"juries"`
}

// HasConflicts reports whether the report contains any hard conflict.
func (r ConflictReport) HasConflicts() bool {
	return len(r.Teams) > 0 || len(r.Juries) > 0
}

// DetectConflicts runs both detectors.
func DetectConflicts(slots []Slot) ConflictReport {
	return ConflictReport{
		Teams:  DetectTeamConflicts(slots),
		Juries: DetectJuryConflicts(slots),
	}
}

// DetectTeamConflicts returns every team present in two or more slots, in
// order of first appearance.
func DetectTeamConflicts(slots []Slot) []TeamConflict {
	order, byID := groupSlotIndexes(slots, func(s Slot) []int64 { return s.TeamIDs })
	conflicts := make([]TeamConflict, 0)
	for _, id := range order {
		if idx := byID[id]; len(idx) >= 2 {
			conflicts = append(conflicts, TeamConflict{TeamID: id, SlotIndexes: idx})
		}
	}
	return conflicts
}

// DetectJuryConflicts returns every jury holding two slots whose time ranges
// overlap, in order of first appearance.
func DetectJuryConflicts(slots []Slot) []JuryConflict {
	order, byID := groupSlotIndexes(slots, func(s Slot) []int64 { return s.JuryIDs })
	conflicts := make([]JuryConflict, 0)
	for _, id := range order {
		idx := byID[id]
		if len(idx) < 2 || !anyOverlap(slots, idx) {
			continue
		}
		bundle := make([]Slot, 0, len(idx))
		for _, i := range idx {
			bundle = append(bundle, slots[i].Clone())
		}
		conflicts = append(conflicts, JuryConflict{JuryID: id, SlotIndexes: idx, ConflictingSlots: bundle})
	}
	return conflicts
}

// HasJuryOverlap reports whether any jury holds two overlapping slots.
func HasJuryOverlap(slots []Slot) bool {
	_, byID := groupSlotIndexes(slots, func(s Slot) []int64 { return s.JuryIDs })
	for _, idx := range byID {
		if len(idx) >= 2 && anyOverlap(slots, idx) {
			return true
		}
	}
	return false
}

// juryOverlaps checks a single jury without allocating.
func juryOverlaps(slots []Slot, juryID int64) bool {
	for i := range slots {
		if !containsID(slots[i].JuryIDs, juryID) {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if containsID(slots[j].JuryIDs, juryID) && slots[i].Overlaps(slots[j]) {
				return true
			}
		}
	}
	return false
}

func anyOverlap(slots []Slot, idx []int) bool {
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			if slots[idx[a]].Overlaps(slots[idx[b]]) {
				return true
			}
		}
	}
	return false
}

// groupSlotIndexes maps each ID to the distinct slot positions holding it.
func groupSlotIndexes(slots []Slot, pick func(Slot) []int64) ([]int64, map[int64][]int) {
	order := make([]int64, 0)
	byID := make(map[int64][]int)
	for i, slot := range slots {
		for _, id := range pick(slot) {
			idx, seen := byID[id]
			if !seen {
				order = append(order, id)
			}
			if len(idx) > 0 && idx[len(idx)-1] == i {
				continue
			}
			byID[id] = append(idx, i)
		}
	}
	return order, byID
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
