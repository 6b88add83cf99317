package suggest

import (
	"sort"
	"testing"
)

func TestLifecycleStore_MutualExclusion(t *testing.T) {
	s := NewLifecycleStore()

	s.Accept("g1")
	if got := s.Status("g1"); got != DecisionAccepted {
		t.Fatalf("after Accept: status = %v", got)
	}

	s.Reject("g1")
	if got := s.Status("g1"); got != DecisionRejected {
		t.Fatalf("after Reject: status = %v", got)
	}
	if ids := s.AcceptedIDs(); len(ids) != 0 {
		t.Errorf("accepted set not cleared: %v", ids)
	}

	s.Accept("g1")
	if got := s.Status("g1"); got != DecisionAccepted {
		t.Fatalf("after re-Accept: status = %v", got)
	}
}

func TestLifecycleStore_Idempotent(t *testing.T) {
	s := NewLifecycleStore()
	s.Accept("g1")
	s.Accept("g1")
	s.Accept("g1")
	if ids := s.AcceptedIDs(); len(ids) != 1 {
		t.Errorf("accepted ids = %v, want exactly one", ids)
	}

	s.Reject("g2")
	s.Reject("g2")
	if got := s.Status("g2"); got != DecisionRejected {
		t.Errorf("status = %v, want rejected", got)
	}
}

func TestLifecycleStore_UnknownIDIsNone(t *testing.T) {
	s := NewLifecycleStore()
	if got := s.Status("never-seen"); got != DecisionNone {
		t.Errorf("status = %v, want none", got)
	}
}

func TestLifecycleStore_Reset(t *testing.T) {
	s := NewLifecycleStore()
	s.Accept("a")
	s.Reject("b")
	s.Reset()
	if s.Status("a") != DecisionNone || s.Status("b") != DecisionNone {
		t.Error("decisions survived reset")
	}
}

func TestLifecycleStore_OnChange(t *testing.T) {
	s := NewLifecycleStore()
	var seen []string
	s.OnChange(func(id string) { seen = append(seen, id) })

	s.Accept("a")
	s.Reject("b")
	s.Reset()

	want := []string{"a", "b", ""}
	if len(seen) != len(want) {
		t.Fatalf("hook fired %d times, want %d: %v", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("hook[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestDecisionString(t *testing.T) {
	got := []string{DecisionNone.String(), DecisionAccepted.String(), DecisionRejected.String()}
	sort.Strings(got)
	want := []string{"accepted", "none", "rejected"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("decision strings = %v", got)
			break
		}
	}
}
