package suggest

import (
	"campusplan/internal/model"
)

// Resolver computes, per date, the single best still-eligible candidate
// for every time block. Results are memoized per date; any decision in the
// LifecycleStore invalidates the affected date so that rejecting the top
// candidate surfaces the next-ranked sibling in the same render pass.
type Resolver struct {
	store  *LifecycleStore
	groups map[model.BlockKey][]model.Candidate

	dateByID map[string]string
	memo     map[string][]model.Candidate
}

// NewResolver builds a resolver over the given candidate set and wires its
// invalidation hook into the store.
func NewResolver(cands []model.Candidate, store *LifecycleStore) *Resolver {
	r := &Resolver{store: store}
	r.SetCandidates(cands)
	store.OnChange(r.invalidate)
	return r
}

// SetCandidates replaces the candidate set wholesale, e.g. after a
// regeneration. Decisions keyed by stable ids survive in the store.
func (r *Resolver) SetCandidates(cands []model.Candidate) {
	r.groups = GroupByBlock(cands)
	r.memo = make(map[string][]model.Candidate)
	r.dateByID = make(map[string]string, len(cands))
	for _, c := range cands {
		r.dateByID[c.ID] = c.Date
	}
}

// VisibleFor returns the visible overlay candidates for a date, in
// timeline order. For each block: if any sibling is accepted the whole
// block is hidden from the overlay path (it renders upstream as a solid
// event); otherwise the first non-rejected candidate by rank is visible;
// a fully rejected block yields nothing.
func (r *Resolver) VisibleFor(date string) []model.Candidate {
	if cached, ok := r.memo[date]; ok {
		return cached
	}

	visible := make([]model.Candidate, 0)
	for _, key := range sortedKeysFor(r.groups, date) {
		if c, ok := r.resolveBlock(r.groups[key]); ok {
			visible = append(visible, c)
		}
	}

	r.memo[date] = visible
	return visible
}

func (r *Resolver) resolveBlock(group []model.Candidate) (model.Candidate, bool) {
	for _, c := range group {
		if r.store.Status(c.ID) == DecisionAccepted {
			return model.Candidate{}, false
		}
	}
	for _, c := range group {
		if r.store.Status(c.ID) != DecisionRejected {
			return c, true
		}
	}
	return model.Candidate{}, false
}

// invalidate drops the memoized result for the date owning id. An empty
// id (store reset) drops everything.
func (r *Resolver) invalidate(id string) {
	if id == "" {
		r.memo = make(map[string][]model.Candidate)
		return
	}
	if date, ok := r.dateByID[id]; ok {
		delete(r.memo, date)
	}
}
