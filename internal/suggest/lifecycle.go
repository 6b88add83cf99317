package suggest

// Decision is the lifecycle state of one candidate id.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionAccepted
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "none"
	}
}

// LifecycleStore holds the session's accept/reject decisions. The two sets
// are disjoint: accepting an id removes it from rejected and vice versa.
// Decisions live for the session only; there is no durable persistence.
type LifecycleStore struct {
	accepted map[string]struct{}
	rejected map[string]struct{}
	onChange []func(id string)
}

// NewLifecycleStore returns an empty store.
func NewLifecycleStore() *LifecycleStore {
	return &LifecycleStore{
		accepted: make(map[string]struct{}),
		rejected: make(map[string]struct{}),
	}
}

// OnChange registers a hook invoked after every decision mutation.
// The resolver uses this to invalidate its memoized results.
func (s *LifecycleStore) OnChange(fn func(id string)) {
	s.onChange = append(s.onChange, fn)
}

// Accept marks id accepted and clears any rejection. Idempotent.
func (s *LifecycleStore) Accept(id string) {
	delete(s.rejected, id)
	s.accepted[id] = struct{}{}
	s.notify(id)
}

// Reject marks id rejected and clears any acceptance. Idempotent.
func (s *LifecycleStore) Reject(id string) {
	delete(s.accepted, id)
	s.rejected[id] = struct{}{}
	s.notify(id)
}

// Status reports the current decision for id.
func (s *LifecycleStore) Status(id string) Decision {
	if _, ok := s.accepted[id]; ok {
		return DecisionAccepted
	}
	if _, ok := s.rejected[id]; ok {
		return DecisionRejected
	}
	return DecisionNone
}

// AcceptedIDs returns the accepted set in unspecified order.
func (s *LifecycleStore) AcceptedIDs() []string {
	out := make([]string, 0, len(s.accepted))
	for id := range s.accepted {
		out = append(out, id)
	}
	return out
}

// Reset clears all decisions, e.g. on logout or schedule re-upload.
func (s *LifecycleStore) Reset() {
	s.accepted = make(map[string]struct{})
	s.rejected = make(map[string]struct{})
	s.notify("")
}

func (s *LifecycleStore) notify(id string) {
	for _, fn := range s.onChange {
		fn(id)
	}
}
