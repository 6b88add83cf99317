package model

import "time"

// Interval is a time-of-day span in minutes since midnight.
// A well-formed interval has 0 <= StartMinute < EndMinute < 1440.
type Interval struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Valid reports whether the interval satisfies the engine's invariant.
func (iv Interval) Valid() bool {
	return iv.StartMinute >= 0 && iv.EndMinute < 1440 && iv.EndMinute > iv.StartMinute
}

// Minutes returns the interval's duration in minutes.
func (iv Interval) Minutes() int {
	return iv.EndMinute - iv.StartMinute
}

// ClassEvent is a single concrete class occurrence from the uploaded
// schedule, already expanded and normalized into the display timezone.
// Immutable once loaded; a new upload replaces the whole set.
type ClassEvent struct {
	UID      string       `json:"uid"`
	Course   string       `json:"course"`
	Date     string       `json:"date"` // YYYY-MM-DD
	Weekday  time.Weekday `json:"weekday"`
	Interval Interval     `json:"interval"`
	Location string       `json:"location"`

	// BuildingID is the campus building the class was tagged with.
	// Empty until the student assigns one.
	BuildingID string `json:"building_id,omitempty"`
}

// RankUnranked sorts after every explicit rank. Suggestions arriving
// without a rank are ordered last, never dropped.
const RankUnranked = int(^uint(0) >> 1)

// Candidate is one ranked activity option for a specific time block.
type Candidate struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"` // YYYY-MM-DD
	Interval     Interval `json:"interval"`
	LocationID   string   `json:"location_id"`
	LocationName string   `json:"location_name"`
	Rank         int      `json:"rank"`

	Reasoning      string `json:"reasoning,omitempty"`
	CommuteMinutes int    `json:"commute_minutes,omitempty"`
}

// BlockKey identifies one opportunity slot. Candidates sharing a key are
// competing options for the same slot; a one-minute boundary difference is
// a different block on purpose (near-duplicate blocks are never merged).
type BlockKey struct {
	Date        string
	StartMinute int
	EndMinute   int
}

// Block returns the candidate's block key.
func (c Candidate) Block() BlockKey {
	return BlockKey{Date: c.Date, StartMinute: c.Interval.StartMinute, EndMinute: c.Interval.EndMinute}
}

// Role tags a timeline event with its rendering semantics.
type Role string

const (
	// RoleClass is a fixed class occurrence from the schedule.
	RoleClass Role = "class"
	// RoleAccepted is a confirmed suggestion, rendered as a solid event.
	RoleAccepted Role = "accepted"
	// RoleSuggestion is the currently visible overlay candidate for a block.
	RoleSuggestion Role = "suggestion"
)

// TimelineEvent is the layout engine's input: any event to place on the
// single-day timeline, regardless of origin.
type TimelineEvent struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Role     Role     `json:"role"`
	Interval Interval `json:"interval"`
}

// Rect is a purely derived pixel rectangle for one timeline event.
// Regenerated on every render; never persisted.
type Rect struct {
	Top        float64 `json:"top"`
	Height     float64 `json:"height"`
	LeftInset  float64 `json:"left_inset"`
	RightInset float64 `json:"right_inset"`
}
