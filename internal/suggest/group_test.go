package suggest

import (
	"testing"

	"campusplan/internal/model"
)

func cand(id, date string, start, end, rank int) model.Candidate {
	return model.Candidate{
		ID:           id,
		Date:         date,
		Interval:     model.Interval{StartMinute: start, EndMinute: end},
		LocationName: id,
		Rank:         rank,
	}
}

func TestGroupByBlock_OrdersByRank(t *testing.T) {
	cands := []model.Candidate{
		cand("c", "2025-11-24", 540, 585, 3),
		cand("a", "2025-11-24", 540, 585, 1),
		cand("b", "2025-11-24", 540, 585, 2),
	}
	groups := GroupByBlock(cands)
	key := model.BlockKey{Date: "2025-11-24", StartMinute: 540, EndMinute: 585}
	group, ok := groups[key]
	if !ok {
		t.Fatalf("missing group for %+v", key)
	}
	if len(group) != 3 {
		t.Fatalf("group size = %d, want 3", len(group))
	}
	for i, want := range []string{"a", "b", "c"} {
		if group[i].ID != want {
			t.Errorf("group[%d] = %q, want %q", i, group[i].ID, want)
		}
	}
}

// Equal-rank candidates keep their input order on every grouping pass.
func TestGroupByBlock_StableForEqualRanks(t *testing.T) {
	cands := []model.Candidate{
		cand("first", "2025-11-24", 540, 585, 2),
		cand("second", "2025-11-24", 540, 585, 2),
		cand("third", "2025-11-24", 540, 585, 2),
	}
	key := model.BlockKey{Date: "2025-11-24", StartMinute: 540, EndMinute: 585}
	for pass := 0; pass < 5; pass++ {
		group := GroupByBlock(cands)[key]
		for i, want := range []string{"first", "second", "third"} {
			if group[i].ID != want {
				t.Fatalf("pass %d: group[%d] = %q, want %q", pass, i, group[i].ID, want)
			}
		}
	}
}

// Intervals differing by a single minute are distinct blocks, never merged.
func TestGroupByBlock_OneMinuteApartAreDistinct(t *testing.T) {
	cands := []model.Candidate{
		cand("x", "2025-11-24", 540, 585, 1),
		cand("y", "2025-11-24", 541, 585, 1),
	}
	groups := GroupByBlock(cands)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
}

func TestGroupByBlock_SplitsAcrossDates(t *testing.T) {
	cands := []model.Candidate{
		cand("mon", "2025-11-24", 540, 585, 1),
		cand("tue", "2025-11-25", 540, 585, 1),
	}
	groups := GroupByBlock(cands)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
}

func TestSortedKeysFor_TimelineOrder(t *testing.T) {
	cands := []model.Candidate{
		cand("late", "2025-11-24", 840, 900, 1),
		cand("early", "2025-11-24", 540, 585, 1),
		cand("other-day", "2025-11-25", 420, 480, 1),
		cand("early-long", "2025-11-24", 540, 600, 1),
	}
	keys := sortedKeysFor(GroupByBlock(cands), "2025-11-24")
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3", len(keys))
	}
	want := []model.BlockKey{
		{Date: "2025-11-24", StartMinute: 540, EndMinute: 585},
		{Date: "2025-11-24", StartMinute: 540, EndMinute: 600},
		{Date: "2025-11-24", StartMinute: 840, EndMinute: 900},
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %+v, want %+v", i, keys[i], want[i])
		}
	}
}
