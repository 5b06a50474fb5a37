package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareAlphanumeric(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"Team 2", "Team 10", -1},
		{"Team 10", "Team 2", 1},
		{"team 1", "TEAM 1", 0},
		{"A007", "A7", 0},
		{"Room", "Room 1", -1},
		{"x1", "1x", 1},
		{"", "", 0},
		{"B", "a", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompareAlphanumeric(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestSortLabelsNaturalOrder(t *testing.T) {
	got := SortLabels([]string{"Team 10", "Team 2", "Team 1"})
	assert.Equal(t, []string{"Team 1", "Team 2", "Team 10"}, got)
}

func TestSortEntitiesTieBreaksOnID(t *testing.T) {
	got := SortEntities([]Entity{{ID: 9, Label: "Jury"}, {ID: 3, Label: "jury"}, {ID: 1, Label: "Jury 2"}})
	assert.Equal(t, []int64{3, 9, 1}, entityIDs(got))
}

func TestNextLabel(t *testing.T) {
	cases := map[string]string{
		"DAY02":  "DAY03",
		"A99":    "A100",
		"A09":    "A10",
		"Test":   "Test (copy)",
		"Day 7 ": "Day 8 ",
		"R-000":  "R-001",
		"":       " (copy)",
	}
	for in, want := range cases {
		assert.Equal(t, want, NextLabel(in), in)
	}
}
