package core

import "sort"

// SortNewestFirst orders records by date descending, breaking ties by
// created_at descending so ordering stays deterministic for same-day
// entries.
func SortNewestFirst(records []Retrospective) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date.Time) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

// GroupByMonth partitions records by their stored month index. The index is
// taken as persisted at creation time, never recomputed. Each group is
// sorted newest first.
func GroupByMonth(records []Retrospective) map[int][]Retrospective {
	groups := make(map[int][]Retrospective)
	for _, r := range records {
		groups[r.MonthIndex] = append(groups[r.MonthIndex], r)
	}
	for _, g := range groups {
		SortNewestFirst(g)
	}
	return groups
}

// MonthKeys returns the group keys in descending order, most recent month
// period first, for display enumeration.
func MonthKeys(groups map[int][]Retrospective) []int {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}
