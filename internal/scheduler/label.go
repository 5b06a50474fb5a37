package scheduler

import (
	"regexp"
	"sort"
	"strings"
)

// CompareAlphanumeric orders labels naturally: digit runs compare numerically
// ("Team 2" < "Team 10"), other runs case-insensitively. It returns -1, 0 or 1.
func CompareAlphanumeric(a, b string) int {
	ra := splitRuns(a)
	rb := splitRuns(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if c := compareRun(ra[i], rb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	}
	return 0
}

// SortEntities orders entities by label using CompareAlphanumeric, falling
// back to ID so equal labels still sort deterministically.
func SortEntities(items []Entity) []Entity {
	sorted := make([]Entity, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := CompareAlphanumeric(sorted[i].Label, sorted[j].Label); c != 0 {
			return c < 0
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// SortLabels returns a naturally ordered copy of the labels.
func SortLabels(labels []string) []string {
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareAlphanumeric(sorted[i], sorted[j]) < 0
	})
	return sorted
}

var trailingNumber = regexp.MustCompile(`^(.*?)(\d+)(\s*)$`)

// CopySuffix is appended by NextLabel to labels without a trailing number.
const CopySuffix = " (copy)"

// NextLabel increments the trailing number of a label, keeping zero padding
// unless the number gains a digit ("A09" -> "A10", "A99" -> "A100").
// Labels without a trailing number get CopySuffix.
func NextLabel(label string) string {
	m := trailingNumber.FindStringSubmatch(label)
	if m == nil {
		return label + CopySuffix
	}
	return m[1] + incrementDigits(m[2]) + m[3]
}

func incrementDigits(digits string) string {
	buf := []byte(digits)
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] < '9' {
			buf[i]++
			return string(buf)
		}
		buf[i] = '0'
	}
	return "1" + string(buf)
}

type run struct {
	text    string
	numeric bool
}

func splitRuns(s string) []run {
	var runs []run
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			runs = append(runs, run{text: s[start:i], numeric: isDigit(s[start])})
			start = i
		}
	}
	return runs
}

func compareRun(a, b run) int {
	if a.numeric && b.numeric {
		return compareNumeric(a.text, b.text)
	}
	return strings.Compare(strings.ToLower(a.text), strings.ToLower(b.text))
}

// compareNumeric compares digit strings by value without parsing, so long
// runs cannot overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
