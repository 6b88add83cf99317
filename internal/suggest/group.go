package suggest

import (
	"sort"

	"campusplan/internal/model"
)

// GroupByBlock partitions candidates into their time-block groups and
// orders each group ascending by rank. The sort is stable: equal-rank
// candidates keep their input order, so re-grouping the same input on
// every render never reorders the cards.
func GroupByBlock(cands []model.Candidate) map[model.BlockKey][]model.Candidate {
	groups := make(map[model.BlockKey][]model.Candidate)
	for _, c := range cands {
		key := c.Block()
		groups[key] = append(groups[key], c)
	}
	for key, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Rank < group[j].Rank
		})
		groups[key] = group
	}
	return groups
}

// sortedKeysFor returns the block keys for one date in deterministic
// timeline order.
func sortedKeysFor(groups map[model.BlockKey][]model.Candidate, date string) []model.BlockKey {
	keys := make([]model.BlockKey, 0)
	for key := range groups {
		if key.Date == date {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StartMinute != keys[j].StartMinute {
			return keys[i].StartMinute < keys[j].StartMinute
		}
		return keys[i].EndMinute < keys[j].EndMinute
	})
	return keys
}
