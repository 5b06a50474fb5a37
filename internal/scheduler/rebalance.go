package scheduler

import (
	"context"
	"math"
	"time"
)

// DefaultIterations is used when a rebalance request leaves Iterations unset.
const DefaultIterations = 1000

// acceptanceEpsilon keeps the annealing denominator positive when the best penalty is zero.
const acceptanceEpsilon = 1e-9

// RebalanceInput scopes one local-search run. A nil Seed falls back to the
// wall clock, so callers wanting reproducible runs must set it.
type RebalanceInput struct {
	Slots           []Slot
	SelectedTeamIDs []int64
	SelectedJuryIDs []int64
	Seed            *int64
	Iterations      int
	Weights         *Weights
}

// RebalanceResult carries the original and improved slots with their metrics.
type RebalanceResult struct {
	OriginalSlots         []Slot  `json:"originalSlots"`
	Slots                 []Slot  `json:"slots"`
	Before                Metrics `json:"beforeMetrics"`
	After                 Metrics `json:"afterMetrics"`
	ImprovementPercentage float64 `json:"improvementPercentage"`
	Improved              bool    `json:"improved"`
	Seed                  int64   `json:"seed"`
	Iterations            int     `json:"iterations"`
	Accepted              int     `json:"accepted"`
	Rejected              int     `json:"rejected"`
	Weights               Weights `json:"weights"`
}

type swapKind int

const (
	teamSwap swapKind = iota
	jurySwap
)

// move records one applied swap so it can be reverted in place.
type move struct {
	kind   swapKind
	slotA  int
	slotB  int
	indexA int
	indexB int
}

// Rebalance searches for a lower-penalty arrangement by swapping single teams
// or juries between slots, annealing from temperature 1 down to 0. A swap is
// kept only if no jury ends up double-booked in time and every ID stays in
// scope. Teams holding several slots are not rejected here.
//
// The context is polled once per iteration; cancellation returns ctx.Err().
func Rebalance(ctx context.Context, in RebalanceInput) (*RebalanceResult, error) {
	weights := DefaultWeights()
	if in.Weights != nil {
		weights = *in.Weights
	}
	iterations := in.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	seed := time.Now().UnixNano()
	if in.Seed != nil {
		seed = *in.Seed
	}
	rng := NewLCG(seed)

	work := CloneSlots(in.Slots)
	before := Evaluate(work, weights)
	result := &RebalanceResult{
		OriginalSlots: CloneSlots(in.Slots),
		Before:        before,
		Seed:          seed,
		Iterations:    iterations,
		Weights:       weights,
	}

	// Swaps never introduce new IDs and team swaps never move juries, so the
	// scope check and the jury layout only need a full pass once.
	baseValid := inScope(work, idSet(in.SelectedTeamIDs), idSet(in.SelectedJuryIDs)) && !HasJuryOverlap(work)
	bestPenalty := before.TotalPenalty
	eligible := make([]int, 0, len(work))

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		temperature := 1 - float64(i)/float64(iterations)

		kind := teamSwap
		if rng.Float64() >= 0.5 {
			kind = jurySwap
		}
		eligible = eligibleSlots(work, kind, eligible[:0])
		if len(eligible) < 2 {
			continue
		}
		a := eligible[rng.Intn(len(eligible))]
		b := eligible[rng.Intn(len(eligible))]
		if a == b {
			continue
		}
		mv := move{
			kind:   kind,
			slotA:  a,
			slotB:  b,
			indexA: rng.Intn(len(members(&work[a], kind))),
			indexB: rng.Intn(len(members(&work[b], kind))),
		}
		if duplicates(work, mv) {
			continue
		}
		apply(work, mv)

		if !baseValid || !moveValid(work, mv) {
			apply(work, mv)
			result.Rejected++
			continue
		}

		candidate := Evaluate(work, weights).TotalPenalty
		if accept(candidate, bestPenalty, temperature, rng) {
			bestPenalty = candidate
			result.Accepted++
			continue
		}
		apply(work, mv)
	}

	result.Slots = work
	result.After = Evaluate(work, weights)
	result.ImprovementPercentage = improvement(before.TotalPenalty, result.After.TotalPenalty)
	result.Improved = result.After.TotalPenalty < before.TotalPenalty
	return result, nil
}

func accept(candidate, best, temperature float64, rng *LCG) bool {
	if candidate < best {
		return true
	}
	if temperature <= 0 {
		return false
	}
	p := math.Exp((best - candidate) / (temperature*best + acceptanceEpsilon))
	return rng.Float64() < p
}

func improvement(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	return (before - after) / before * 100
}

func members(slot *Slot, kind swapKind) []int64 {
	if kind == teamSwap {
		return slot.TeamIDs
	}
	return slot.JuryIDs
}

func eligibleSlots(slots []Slot, kind swapKind, buf []int) []int {
	for i := range slots {
		if len(members(&slots[i], kind)) > 0 {
			buf = append(buf, i)
		}
	}
	return buf
}

// apply swaps the two members; applying the same move twice restores the slots.
func apply(slots []Slot, mv move) {
	a := members(&slots[mv.slotA], mv.kind)
	b := members(&slots[mv.slotB], mv.kind)
	a[mv.indexA], b[mv.indexB] = b[mv.indexB], a[mv.indexA]
}

// duplicates reports whether the swap would place an ID in a slot that
// already holds it. Such moves are treated as no-ops.
func duplicates(slots []Slot, mv move) bool {
	a := members(&slots[mv.slotA], mv.kind)
	b := members(&slots[mv.slotB], mv.kind)
	in, out := b[mv.indexB], a[mv.indexA]
	if in == out {
		return true
	}
	return containsID(a, in) || containsID(b, out)
}

// moveValid re-checks only the juries a move touched. Team swaps leave every
// jury interval unchanged.
func moveValid(slots []Slot, mv move) bool {
	if mv.kind == teamSwap {
		return true
	}
	movedIn := slots[mv.slotA].JuryIDs[mv.indexA]
	movedOut := slots[mv.slotB].JuryIDs[mv.indexB]
	return !juryOverlaps(slots, movedIn) && !juryOverlaps(slots, movedOut)
}

// ValidCandidate is the full hard-constraint check applied to rebalance
// candidates: no jury overlap and every ID within the selected scope.
func ValidCandidate(slots []Slot, selectedTeamIDs, selectedJuryIDs []int64) bool {
	return inScope(slots, idSet(selectedTeamIDs), idSet(selectedJuryIDs)) && !HasJuryOverlap(slots)
}

func inScope(slots []Slot, teams, juries map[int64]struct{}) bool {
	for _, slot := range slots {
		for _, id := range slot.TeamIDs {
			if _, ok := teams[id]; !ok {
				return false
			}
		}
		for _, id := range slot.JuryIDs {
			if _, ok := juries[id]; !ok {
				return false
			}
		}
	}
	return true
}
