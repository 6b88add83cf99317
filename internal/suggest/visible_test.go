package suggest

import (
	"testing"

	"campusplan/internal/model"
)

const day = "2025-11-24"

func newResolverWith(cs ...model.Candidate) (*Resolver, *LifecycleStore) {
	store := NewLifecycleStore()
	return NewResolver(cs, store), store
}

func visibleIDs(r *Resolver, date string) []string {
	out := []string{}
	for _, c := range r.VisibleFor(date) {
		out = append(out, c.ID)
	}
	return out
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// Rejecting the visible candidate promotes the next-ranked sibling in the
// same block; rejecting every sibling empties the block.
func TestResolver_PromotionChain(t *testing.T) {
	r, store := newResolverWith(
		cand("a", day, 540, 585, 1),
		cand("b", day, 540, 585, 2),
		cand("c", day, 540, 585, 3),
	)

	if got := visibleIDs(r, day); !sameIDs(got, []string{"a"}) {
		t.Fatalf("initial visible = %v, want [a]", got)
	}

	store.Reject("a")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"b"}) {
		t.Fatalf("after rejecting a: visible = %v, want [b]", got)
	}

	store.Reject("b")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"c"}) {
		t.Fatalf("after rejecting b: visible = %v, want [c]", got)
	}

	store.Reject("c")
	if got := visibleIDs(r, day); len(got) != 0 {
		t.Fatalf("fully rejected block still visible: %v", got)
	}
}

// Accepting any candidate hides the whole block from the overlay,
// including siblings that were never decided.
func TestResolver_AcceptedHidesBlock(t *testing.T) {
	r, store := newResolverWith(
		cand("a", day, 540, 585, 1),
		cand("b", day, 540, 585, 2),
	)

	store.Accept("b")
	if got := visibleIDs(r, day); len(got) != 0 {
		t.Fatalf("accepted block still in overlay: %v", got)
	}
}

// Two blocks on one date resolve independently and come back in timeline
// order.
func TestResolver_BlocksIndependent(t *testing.T) {
	r, store := newResolverWith(
		cand("pm1", day, 840, 900, 1),
		cand("am1", day, 540, 585, 1),
		cand("am2", day, 540, 585, 2),
	)

	if got := visibleIDs(r, day); !sameIDs(got, []string{"am1", "pm1"}) {
		t.Fatalf("visible = %v, want [am1 pm1]", got)
	}

	store.Reject("am1")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"am2", "pm1"}) {
		t.Fatalf("after rejecting am1: visible = %v, want [am2 pm1]", got)
	}

	store.Accept("pm1")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"am2"}) {
		t.Fatalf("after accepting pm1: visible = %v, want [am2]", got)
	}
}

// Un-rejecting by accepting then re-rejecting follows the store's mutual
// exclusion; the resolver always reflects the latest decision.
func TestResolver_DecisionFlip(t *testing.T) {
	r, store := newResolverWith(
		cand("a", day, 540, 585, 1),
		cand("b", day, 540, 585, 2),
	)

	store.Accept("a")
	if got := visibleIDs(r, day); len(got) != 0 {
		t.Fatalf("after accept: visible = %v, want none", got)
	}

	store.Reject("a")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"b"}) {
		t.Fatalf("after flip to reject: visible = %v, want [b]", got)
	}
}

// SetCandidates replaces the set wholesale but decisions keyed by id keep
// applying to the new set.
func TestResolver_DecisionsSurviveRegeneration(t *testing.T) {
	r, store := newResolverWith(
		cand("a", day, 540, 585, 1),
		cand("b", day, 540, 585, 2),
	)
	store.Reject("a")

	// Same ids come back from a regeneration, possibly with new siblings.
	r.SetCandidates([]model.Candidate{
		cand("a", day, 540, 585, 1),
		cand("b", day, 540, 585, 2),
		cand("d", day, 540, 585, 3),
	})

	if got := visibleIDs(r, day); !sameIDs(got, []string{"b"}) {
		t.Fatalf("after regeneration: visible = %v, want [b]", got)
	}
}

func TestResolver_UnrankedSortsLast(t *testing.T) {
	r, store := newResolverWith(
		cand("unranked", day, 540, 585, model.RankUnranked),
		cand("ranked", day, 540, 585, 4),
	)

	if got := visibleIDs(r, day); !sameIDs(got, []string{"ranked"}) {
		t.Fatalf("visible = %v, want [ranked]", got)
	}
	store.Reject("ranked")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"unranked"}) {
		t.Fatalf("after reject: visible = %v, want [unranked]", got)
	}
}

func TestResolver_EmptyDate(t *testing.T) {
	r, _ := newResolverWith(cand("a", day, 540, 585, 1))
	if got := r.VisibleFor("2025-12-25"); len(got) != 0 {
		t.Errorf("visible for empty date = %v", got)
	}
}

// Repeated calls hit the memo; a decision on another date leaves this
// date's memoized slice intact (same backing array).
func TestResolver_MemoPerDate(t *testing.T) {
	other := "2025-11-25"
	r, store := newResolverWith(
		cand("a", day, 540, 585, 1),
		cand("x", other, 540, 585, 1),
	)

	first := r.VisibleFor(day)
	again := r.VisibleFor(day)
	if len(first) != 1 || len(again) != 1 {
		t.Fatalf("unexpected visible sets: %v / %v", first, again)
	}

	store.Reject("x")
	if got := visibleIDs(r, day); !sameIDs(got, []string{"a"}) {
		t.Errorf("decision on %s disturbed %s: %v", other, day, got)
	}
	if got := visibleIDs(r, other); len(got) != 0 {
		t.Errorf("visible for %s = %v, want none", other, got)
	}
}
