// Package web exposes the planning engine over HTTP for the mobile UI.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"campusplan/internal/clock"
	"campusplan/internal/config"
	appLog "campusplan/internal/log"
	"campusplan/internal/schedule"
	"campusplan/internal/session"
	"campusplan/internal/suggest"
	"campusplan/internal/timeline"
)

// Generator is the remote suggestion service boundary. Satisfied by
// suggest.Client; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, req suggest.GenerateRequest) ([]map[string]any, error)
}

// Server wires the engine packages behind the REST + WebSocket API.
type Server struct {
	cfg       *config.Config
	sessions  *session.Store
	generator Generator
	hub       *Hub
	router    *mux.Router
	loc       *time.Location
}

// NewServer constructs a Server and registers all routes.
func NewServer(cfg *config.Config, sessions *session.Store, generator Generator, hub *Hub) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone, falling back to local", err, "name", cfg.Timezone)
		loc = time.Local
	}
	s := &Server{
		cfg:       cfg,
		sessions:  sessions,
		generator: generator,
		hub:       hub,
		router:    mux.NewRouter(),
		loc:       loc,
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ws", s.hub.serveWS).Methods(http.MethodGet)

	api.HandleFunc("/schedule", s.handleUploadSchedule).Methods(http.MethodPost)
	api.HandleFunc("/schedule/{sid}/free-blocks", s.handleFreeBlocks).Methods(http.MethodGet)

	api.HandleFunc("/suggestions/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/suggestions/{sid}/visible", s.handleVisible).Methods(http.MethodGet)
	api.HandleFunc("/suggestions/{sid}/{id}/accept", s.handleDecision(true)).Methods(http.MethodPost)
	api.HandleFunc("/suggestions/{sid}/{id}/reject", s.handleDecision(false)).Methods(http.MethodPost)

	api.HandleFunc("/timeline/{sid}", s.handleTimeline).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"ws_clients": s.hub.ClientCount(),
	})
}

// uploadScheduleRequest carries an already-exported ICS payload. The
// engine does not own file picking; the app ships the file body here.
type uploadScheduleRequest struct {
	StudentID string `json:"student_id"`
	ICS       string `json:"ics"`
	TermStart string `json:"term_start,omitempty"` // YYYY-MM-DD
	TermEnd   string `json:"term_end,omitempty"`   // YYYY-MM-DD
}

func (s *Server) handleUploadSchedule(w http.ResponseWriter, r *http.Request) {
	var req uploadScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ICS == "" {
		writeError(w, http.StatusBadRequest, "missing ics payload")
		return
	}

	raw, err := schedule.Parse([]byte(req.ICS))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ICS payload")
		return
	}

	rangeStart, rangeEnd := s.termWindow(req.TermStart, req.TermEnd)
	classes, err := schedule.Expand(raw, schedule.ExpandConfig{
		DisplayLocation: s.loc,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
	})
	if err != nil {
		appLog.Error("schedule expand failed", err)
		writeError(w, http.StatusInternalServerError, "failed to expand schedule")
		return
	}

	sess := s.sessions.PutSchedule(req.StudentID, classes)
	writeJSON(w, http.StatusOK, map[string]any{
		"student_id":    sess.StudentID,
		"session_id":    sess.ID,
		"classes_count": len(classes),
		"classes":       classes,
	})
}

// termWindow resolves the expansion window, defaulting to a window around
// now when the upload does not name term boundaries.
func (s *Server) termWindow(startStr, endStr string) (time.Time, time.Time) {
	now := time.Now().In(s.loc)
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 180)
	if t, err := time.ParseInLocation("2006-01-02", startStr, s.loc); err == nil {
		start = t
	}
	if t, err := time.ParseInLocation("2006-01-02", endStr, s.loc); err == nil {
		end = t.AddDate(0, 0, 1) // inclusive end date
	}
	return start, end
}

func (s *Server) handleFreeBlocks(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	tc := s.cfg.TimelineConfig()
	blocks := schedule.FreeBlocks(sess.Classes(), date, tc.DayStartMinute, tc.DayEndMinute)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":        date,
		"free_blocks": blocks,
	})
}

// generateRequest carries pass-through preferences for the remote
// generator. Empty fields fall back to configured defaults.
type generateRequest struct {
	StudentID       string `json:"student_id"`
	Date            string `json:"date,omitempty"`
	StartOfDay      string `json:"start_of_day,omitempty"`
	EndOfDay        string `json:"end_of_day,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	ActivityType    string `json:"activity_type,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sess, ok := s.sessions.Get(req.StudentID)
	if !ok {
		writeError(w, http.StatusNotFound, "no schedule uploaded for this student")
		return
	}

	dayStart, dayEnd := s.dayWindow(req.StartOfDay, req.EndOfDay)
	classes := sess.Classes()

	dates := make([]string, 0)
	if req.Date != "" {
		dates = append(dates, req.Date)
	} else {
		seen := make(map[string]struct{})
		for _, ce := range classes {
			if _, ok := seen[ce.Date]; !ok {
				seen[ce.Date] = struct{}{}
				dates = append(dates, ce.Date)
			}
		}
	}

	blocks := make([]schedule.FreeBlock, 0)
	for _, date := range dates {
		blocks = append(blocks, schedule.FreeBlocks(classes, date, dayStart, dayEnd)...)
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = s.cfg.DurationMinutes
	}
	activity := req.ActivityType
	if activity == "" {
		activity = s.cfg.ActivityType
	}

	raws, err := s.generator.Generate(r.Context(), suggest.GenerateRequest{
		FreeTimeBlocks:          blocks,
		ActivityDurationMinutes: duration,
		ActivityType:            activity,
	})
	if err != nil {
		appLog.Error("suggestion generation failed", err, "student_id", req.StudentID)
		writeError(w, http.StatusBadGateway, "suggestion service unavailable")
		return
	}

	cands := suggest.NormalizeAll(raws)
	sess.SetCandidates(cands)

	writeJSON(w, http.StatusOK, map[string]any{
		"student_id":  sess.StudentID,
		"received":    len(raws),
		"normalized":  len(cands),
		"suggestions": cands,
	})
}

// dayWindow parses optional day boundaries, falling back to the
// configured window when absent or malformed.
func (s *Server) dayWindow(startStr, endStr string) (int, int) {
	tc := s.cfg.TimelineConfig()
	start, end := tc.DayStartMinute, tc.DayEndMinute
	if v, err := clock.Parse(startStr); err == nil {
		start = v
	}
	if v, err := clock.Parse(endStr); err == nil && v > start {
		end = v
	}
	return start, end
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    date,
		"visible": sess.VisibleFor(date),
	})
}

func (s *Server) handleDecision(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessionFor(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing suggestion id")
			return
		}

		if accept {
			sess.Accept(id)
		} else {
			sess.Reject(id)
		}
		status := sess.Status(id)

		s.hub.Broadcast(DecisionEvent{
			Type:         "decision",
			StudentID:    sess.StudentID,
			SuggestionID: id,
			Decision:     status.String(),
		})

		writeJSON(w, http.StatusOK, map[string]any{
			"suggestion_id": id,
			"status":        status.String(),
		})
	}
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	tc := s.cfg.TimelineConfig()
	placed := timeline.Layout(tc, sess.TimelineEventsFor(date))

	now := time.Now().In(s.loc)
	nowTop, nowVisible := timeline.NowIndicator(tc, now.Hour()*60+now.Minute())

	writeJSON(w, http.StatusOK, map[string]any{
		"date":        date,
		"events":      placed,
		"now_top":     nowTop,
		"now_visible": nowVisible,
	})
}

// BroadcastTick publishes the "now" indicator position. Driven by the
// cron schedule in cmd; it reads no session state.
func (s *Server) BroadcastTick(now time.Time) {
	local := now.In(s.loc)
	minute := local.Hour()*60 + local.Minute()
	top, visible := timeline.NowIndicator(s.cfg.TimelineConfig(), minute)
	s.hub.Broadcast(TickEvent{
		Type:    "tick",
		Minute:  minute,
		Top:     top,
		Visible: visible,
	})
}

// sessionFor resolves the {sid} path variable to a live session, writing
// a 404 when absent.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sid := mux.Vars(r)["sid"]
	sess, ok := s.sessions.Get(sid)
	if !ok {
		writeError(w, http.StatusNotFound, "no session for this student")
		return nil, false
	}
	return sess, true
}

// dateParam validates the required date query parameter.
func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func (s *Server) basicAuthEnabled() bool {
	ba := s.cfg.BasicAuth
	return ba != nil && ba.Username != "" && ba.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="campusplan", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
