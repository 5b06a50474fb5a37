package scheduler

import (
	"context"
	"math"
)

// Thresholds above which a historical signal scales its weight by AnalyticsScale.
const (
	RepeatedMeetingPairsThreshold  = 3
	RepeatedTeamJuryPairsThreshold = 5
	WaitingStdDevThreshold         = 15.0
	RoomSpreadThreshold            = 2
	AnalyticsScale                 = 1.5
)

// PairCount is a historical co-occurrence count between two IDs.
type PairCount struct {
	A     int64 `json:"a" db:"a_id"`
	B     int64 `json:"b" db:"b_id"`
	Count int   `json:"count" db:"meetings"`
}

// TeamWaiting is a team's historical average wait between slots, in minutes.
type TeamWaiting struct {
	TeamID         int64   `json:"teamId" db:"team_id"`
	AverageMinutes float64 `json:"averageMinutes" db:"avg_waiting_minutes"`
}

// TeamRoomUsage is the number of distinct rooms a team has been scheduled in.
type TeamRoomUsage struct {
	TeamID        int64 `json:"teamId" db:"team_id"`
	DistinctRooms int   `json:"distinctRooms" db:"distinct_rooms"`
}

// AnalyticsSummary is the cross-session history used to tune weights.
type AnalyticsSummary struct {
	TeamMeetings         []PairCount     `json:"teamMeetings"`
	TeamJuryInteractions []PairCount     `json:"teamJuryInteractions"`
	TeamWaiting          []TeamWaiting   `json:"teamWaiting"`
	TeamRooms            []TeamRoomUsage `json:"teamRooms"`
}

// AnalyticsProvider fetches the global analytics summary.
type AnalyticsProvider interface {
	GlobalSummary(ctx context.Context) (*AnalyticsSummary, error)
}

// WeightAdjustment is the outcome of resolving weights against analytics.
// FetchErr is set when the summary could not be loaded; Weights then equal the base.
type WeightAdjustment struct {
	Weights  Weights  `json:"weights"`
	Scaled   []string `json:"scaled"`
	FetchErr error    `json:"-"`
}

// ResolveWeights fetches the summary and scales base weights for the signals
// that exceed their thresholds. A nil provider or a failed fetch keeps base.
func ResolveWeights(ctx context.Context, provider AnalyticsProvider, base Weights) WeightAdjustment {
	out := WeightAdjustment{Weights: base, Scaled: []string{}}
	if provider == nil {
		return out
	}
	summary, err := provider.GlobalSummary(ctx)
	if err != nil {
		out.FetchErr = err
		return out
	}
	out.Weights, out.Scaled = AdjustWeights(base, summary)
	return out
}

// AdjustWeights applies the analytics thresholds to base and returns the
// adjusted weights plus the names of the scaled components.
func AdjustWeights(base Weights, summary *AnalyticsSummary) (Weights, []string) {
	w := base
	scaled := []string{}
	if summary == nil {
		return w, scaled
	}
	if repeatedPairs(summary.TeamMeetings) > RepeatedMeetingPairsThreshold {
		w.RepeatedMeetings *= AnalyticsScale
		scaled = append(scaled, "repeatedMeetings")
	}
	if repeatedPairs(summary.TeamJuryInteractions) > RepeatedTeamJuryPairsThreshold {
		w.RepeatedTeamJury *= AnalyticsScale
		scaled = append(scaled, "repeatedTeamJury")
	}
	waits := make([]float64, 0, len(summary.TeamWaiting))
	for _, tw := range summary.TeamWaiting {
		waits = append(waits, tw.AverageMinutes)
	}
	if StdDev(waits) > WaitingStdDevThreshold {
		w.WaitingTime *= AnalyticsScale
		scaled = append(scaled, "waitingTime")
	}
	if roomSpread(summary.TeamRooms) > RoomSpreadThreshold {
		w.RoomAttendance *= AnalyticsScale
		scaled = append(scaled, "roomAttendance")
	}
	return w, scaled
}

func repeatedPairs(pairs []PairCount) int {
	n := 0
	for _, p := range pairs {
		if p.Count > 1 {
			n++
		}
	}
	return n
}

func roomSpread(usage []TeamRoomUsage) int {
	if len(usage) == 0 {
		return 0
	}
	lo, hi := math.MaxInt, math.MinInt
	for _, u := range usage {
		if u.DistinctRooms < lo {
			lo = u.DistinctRooms
		}
		if u.DistinctRooms > hi {
			hi = u.DistinctRooms
		}
	}
	return hi - lo
}
