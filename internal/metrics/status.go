package metrics

import (
	"sort"
	"strconv"
)

// StatusRow is one status bucket with its count.
type StatusRow struct {
	Label string
	Count int
}

// FlattenStatusCounts converts a label->count map into rows sorted by
// descending count. Ties are broken by numeric status, with the error bucket last.
func FlattenStatusCounts(counts map[string]int) []StatusRow {
	if len(counts) == 0 {
		return nil
	}
	rows := make([]StatusRow, 0, len(counts))
	for label, count := range counts {
		rows = append(rows, StatusRow{Label: label, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return labelLess(rows[i].Label, rows[j].Label)
	})
	return rows
}

func labelLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
