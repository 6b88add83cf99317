// Package session owns the per-student planning state: the uploaded class
// schedule, the current suggestion candidates, and the accept/reject
// lifecycle. Sessions are in-memory only and cleared on re-upload.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	appLog "campusplan/internal/log"
	"campusplan/internal/model"
	"campusplan/internal/suggest"
)

// Session is one student's planning state. All mutation and resolution go
// through its methods, which serialize access with an internal mutex.
type Session struct {
	ID         string
	StudentID  string
	UploadedAt time.Time

	mu         sync.Mutex
	classes    []model.ClassEvent
	candidates []model.Candidate
	store      *suggest.LifecycleStore
	resolver   *suggest.Resolver
}

func newSession(studentID string) *Session {
	store := suggest.NewLifecycleStore()
	return &Session{
		ID:        uuid.NewString(),
		StudentID: studentID,
		store:     store,
		resolver:  suggest.NewResolver(nil, store),
	}
}

// SetSchedule replaces the class list and clears every decision: a new
// upload starts a fresh planning session.
func (s *Session) SetSchedule(classes []model.ClassEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = classes
	s.candidates = nil
	s.resolver.SetCandidates(nil)
	s.store.Reset()
	s.UploadedAt = time.Now()
}

// SetCandidates replaces the suggestion set wholesale. Decisions survive:
// they are keyed by candidate id, and ids are stable across regeneration.
func (s *Session) SetCandidates(cands []model.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = cands
	s.resolver.SetCandidates(cands)
}

// Classes returns the full class list.
func (s *Session) Classes() []model.ClassEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classes
}

// Accept records an acceptance. Idempotent.
func (s *Session) Accept(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Accept(id)
}

// Reject records a rejection. Idempotent.
func (s *Session) Reject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reject(id)
}

// Status reports the decision for a candidate id.
func (s *Session) Status(id string) suggest.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Status(id)
}

// VisibleFor returns the visible overlay candidates for a date.
func (s *Session) VisibleFor(date string) []model.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.VisibleFor(date)
}

// TimelineEventsFor assembles the three event sources for one date:
// classes, accepted suggestions (now solid schedule events), and the
// visible overlay candidates.
func (s *Session) TimelineEventsFor(date string) []model.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]model.TimelineEvent, 0)
	for _, ce := range s.classes {
		if ce.Date != date {
			continue
		}
		events = append(events, model.TimelineEvent{
			ID:       ce.UID,
			Title:    ce.Course,
			Role:     model.RoleClass,
			Interval: ce.Interval,
		})
	}
	for _, c := range s.candidates {
		if c.Date != date || s.store.Status(c.ID) != suggest.DecisionAccepted {
			continue
		}
		events = append(events, model.TimelineEvent{
			ID:       c.ID,
			Title:    c.LocationName,
			Role:     model.RoleAccepted,
			Interval: c.Interval,
		})
	}
	for _, c := range s.resolver.VisibleFor(date) {
		events = append(events, model.TimelineEvent{
			ID:       c.ID,
			Title:    c.LocationName,
			Role:     model.RoleSuggestion,
			Interval: c.Interval,
		})
	}
	return events
}

// Store is the registry of live sessions, keyed by student id.
type Store struct {
	mu        sync.RWMutex
	byStudent map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{byStudent: make(map[string]*Session)}
}

// PutSchedule creates or replaces the session for a student with a fresh
// schedule. An empty studentID gets a generated one.
func (s *Store) PutSchedule(studentID string, classes []model.ClassEvent) *Session {
	if studentID == "" {
		studentID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byStudent[studentID]
	if !ok {
		sess = newSession(studentID)
		s.byStudent[studentID] = sess
		appLog.Info("session created", "student_id", studentID, "session_id", sess.ID)
	}
	sess.SetSchedule(classes)
	return sess
}

// Get returns the session for a student, if any.
func (s *Store) Get(studentID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byStudent[studentID]
	return sess, ok
}

// Delete removes a student's session, e.g. on logout.
func (s *Store) Delete(studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byStudent, studentID)
}
