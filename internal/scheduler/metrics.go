package scheduler

import (
	"math"
	"sort"
)

// Weights scales each penalty metric in the total. All values are non-negative.
type Weights struct {
	WaitingTime      float64 `json:"waitingTime" validate:"gte=0"`
	RepeatedMeetings float64 `json:"repeatedMeetings" validate:"gte=0"`
	RepeatedTeamJury float64 `json:"repeatedTeamJury" validate:"gte=0"`
	RoomAttendance   float64 `json:"roomAttendance" validate:"gte=0"`
	JuryRoomChanges  float64 `json:"juryRoomChanges" validate:"gte=0"`
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		WaitingTime:      3.0,
		RepeatedMeetings: 2.0,
		RepeatedTeamJury: 2.0,
		RoomAttendance:   1.0,
		JuryRoomChanges:  1.5,
	}
}

// Metrics holds the five penalty components and their weighted total. Lower is better.
type Metrics struct {
	WaitingTimeDisparity float64 `json:"waitingTimeDisparity"`
	RepeatedTeamMeetings float64 `json:"repeatedTeamMeetings"`
	RepeatedTeamJury     float64 `json:"repeatedTeamJury"`
	UnevenRoomAttendance float64 `json:"unevenRoomAttendance"`
	JuryRoomChanges      float64 `json:"juryRoomChanges"`
	TotalPenalty         float64 `json:"totalPenalty"`
}

// Evaluate computes every metric and the weighted total for the slots.
func Evaluate(slots []Slot, w Weights) Metrics {
	m := Metrics{
		WaitingTimeDisparity: WaitingTimeDisparity(slots),
		RepeatedTeamMeetings: RepeatedTeamMeetings(slots),
		RepeatedTeamJury:     RepeatedTeamJury(slots),
		UnevenRoomAttendance: UnevenRoomAttendance(slots),
		JuryRoomChanges:      JuryRoomChanges(slots),
	}
	m.TotalPenalty = w.WaitingTime*m.WaitingTimeDisparity +
		w.RepeatedMeetings*m.RepeatedTeamMeetings +
		w.RepeatedTeamJury*m.RepeatedTeamJury +
		w.RoomAttendance*m.UnevenRoomAttendance +
		w.JuryRoomChanges*m.JuryRoomChanges
	return m
}

// WaitingTimeDisparity is the population standard deviation of the pooled
// gaps (minutes) between each team's consecutive slots. A team with at most
// one slot contributes a single zero gap.
func WaitingTimeDisparity(slots []Slot) float64 {
	byTeam := slotsByMember(slots, func(s Slot) []int64 { return s.TeamIDs })
	gaps := make([]float64, 0, len(slots))
	for _, teamID := range sortedKeys(byTeam) {
		idx := byTeam[teamID]
		if len(idx) <= 1 {
			gaps = append(gaps, 0)
			continue
		}
		for i := 1; i < len(idx); i++ {
			gap := slots[idx[i]].StartTime.Sub(slots[idx[i-1]].EndTime).Minutes()
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) < 2 {
		return 0
	}
	return math.Sqrt(variance(gaps))
}

// RepeatedTeamMeetings counts every co-location of a team pair beyond the first.
func RepeatedTeamMeetings(slots []Slot) float64 {
	counts := make(map[[2]int64]int)
	for _, slot := range slots {
		for i := 0; i < len(slot.TeamIDs); i++ {
			for j := i + 1; j < len(slot.TeamIDs); j++ {
				a, b := slot.TeamIDs[i], slot.TeamIDs[j]
				if a == b {
					continue
				}
				counts[pairKey(a, b)]++
			}
		}
	}
	return repeatPenalty(counts)
}

// RepeatedTeamJury counts every team-jury encounter beyond the first.
func RepeatedTeamJury(slots []Slot) float64 {
	counts := make(map[[2]int64]int)
	for _, slot := range slots {
		for _, teamID := range slot.TeamIDs {
			for _, juryID := range slot.JuryIDs {
				counts[[2]int64{teamID, juryID}]++
			}
		}
	}
	return repeatPenalty(counts)
}

// UnevenRoomAttendance sums the population variance of distinct-team counts
// per room and of distinct-jury counts per room.
func UnevenRoomAttendance(slots []Slot) float64 {
	teams := make(map[int64]map[int64]struct{})
	juries := make(map[int64]map[int64]struct{})
	for _, slot := range slots {
		if teams[slot.RoomID] == nil {
			teams[slot.RoomID] = make(map[int64]struct{})
			juries[slot.RoomID] = make(map[int64]struct{})
		}
		for _, id := range slot.TeamIDs {
			teams[slot.RoomID][id] = struct{}{}
		}
		for _, id := range slot.JuryIDs {
			juries[slot.RoomID][id] = struct{}{}
		}
	}
	rooms := make([]int64, 0, len(teams))
	for roomID := range teams {
		rooms = append(rooms, roomID)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })

	teamCounts := make([]float64, 0, len(rooms))
	juryCounts := make([]float64, 0, len(rooms))
	for _, roomID := range rooms {
		teamCounts = append(teamCounts, float64(len(teams[roomID])))
		juryCounts = append(juryCounts, float64(len(juries[roomID])))
	}
	return variance(teamCounts) + variance(juryCounts)
}

// JuryRoomChanges counts, per jury in start-time order, adjacent slots held in different rooms.
func JuryRoomChanges(slots []Slot) float64 {
	byJury := slotsByMember(slots, func(s Slot) []int64 { return s.JuryIDs })
	changes := 0
	for _, juryID := range sortedKeys(byJury) {
		idx := byJury[juryID]
		for i := 1; i < len(idx); i++ {
			if slots[idx[i]].RoomID != slots[idx[i-1]].RoomID {
				changes++
			}
		}
	}
	return float64(changes)
}

// slotsByMember groups slot positions per member ID, sorted by start time
// (ties keep slot order).
func slotsByMember(slots []Slot, pick func(Slot) []int64) map[int64][]int {
	_, byID := groupSlotIndexes(slots, pick)
	for _, idx := range byID {
		sort.SliceStable(idx, func(a, b int) bool {
			return slots[idx[a]].StartTime.Before(slots[idx[b]].StartTime)
		})
	}
	return byID
}

func repeatPenalty(counts map[[2]int64]int) float64 {
	total := 0
	for _, c := range counts {
		if c > 1 {
			total += c - 1
		}
	}
	return float64(total)
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func sortedKeys(m map[int64][]int) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// variance is the population variance; zero for empty input.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

// StdDev is the population standard deviation; zero for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(variance(values))
}
