// Package suggest implements the suggestion lifecycle: normalizing raw
// generator payloads into candidates, grouping them into competing options
// per time block, tracking accept/reject decisions, and resolving the
// single visible candidate per block.
package suggest

import (
	"fmt"
	"strconv"
	"strings"

	"campusplan/internal/clock"
	appLog "campusplan/internal/log"
	"campusplan/internal/model"
)

// NormalizationError reports a raw suggestion that could not be decoded
// into a Candidate. Such suggestions are excluded from every downstream
// stage rather than rendered as blank cards.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("suggestion field %q: %s", e.Field, e.Reason)
}

// Normalize extracts a canonical Candidate from one raw suggestion object.
//
// The generator has shipped several payload shapes over time; each time
// boundary is resolved in a fixed order:
//
//  1. direct "start_time" / "end_time"
//  2. nested "time_block.start" / "time_block.end"
//  3. bare "start" / "end"
//
// A resolved value may be a full datetime string (the time of day is taken
// from the fixed "T HH:MM" position) or a strict "HH:MM" string. Failing to
// resolve either boundary is an error, never a silent default.
func Normalize(raw map[string]any) (model.Candidate, error) {
	var c model.Candidate

	start, err := resolveBoundary(raw, "start_time", "start")
	if err != nil {
		return c, err
	}
	end, err := resolveBoundary(raw, "end_time", "end")
	if err != nil {
		return c, err
	}
	if end <= start {
		return c, &NormalizationError{Field: "end_time", Reason: "end is not after start"}
	}
	c.Interval = model.Interval{StartMinute: start, EndMinute: end}

	c.Date = dateOf(raw)
	if c.Date == "" {
		return c, &NormalizationError{Field: "date", Reason: "missing or empty"}
	}

	c.LocationName = firstString(raw, "location_name", "location", "gym_name")
	c.LocationID = firstString(raw, "location_id", "gym_id")
	if c.LocationID == "" {
		c.LocationID = c.LocationName
	}

	// Explicit server id wins; otherwise synthesize a deterministic id so
	// that accept/reject decisions keyed by id survive a re-fetch.
	c.ID = firstString(raw, "id", "suggestion_id")
	if c.ID == "" {
		c.ID = c.Date + "_" + clock.Format24(start) + "_" + c.LocationName
	}

	c.Rank = rankOf(raw)
	c.Reasoning = firstString(raw, "reasoning")
	c.CommuteMinutes = commuteOf(raw)

	return c, nil
}

// NormalizeAll normalizes a batch, dropping and logging the failures.
// The surviving candidates keep their input order.
func NormalizeAll(raws []map[string]any) []model.Candidate {
	out := make([]model.Candidate, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		c, err := Normalize(raw)
		if err != nil {
			appLog.Warn("dropping malformed suggestion", "err", err)
			dropped++
			continue
		}
		out = append(out, c)
	}
	if dropped > 0 {
		appLog.Warn("suggestion normalization dropped entries", "dropped", dropped, "kept", len(out))
	}
	return out
}

// resolveBoundary finds one time boundary using the documented field order
// and parses it into a minute offset.
func resolveBoundary(raw map[string]any, direct, bare string) (int, error) {
	if v, ok := stringField(raw, direct); ok {
		return parseBoundary(direct, v)
	}
	if tb, ok := raw["time_block"].(map[string]any); ok {
		if v, ok := stringField(tb, bare); ok {
			return parseBoundary("time_block."+bare, v)
		}
	}
	if v, ok := stringField(raw, bare); ok {
		return parseBoundary(bare, v)
	}
	return 0, &NormalizationError{Field: direct, Reason: "no resolvable value"}
}

// parseBoundary decodes a boundary value: a full datetime yields the time
// of day at the fixed "T HH:MM" position, anything else must be strict
// "HH:MM".
func parseBoundary(field, v string) (int, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		rest := v[i+1:]
		if len(rest) < 5 {
			return 0, &NormalizationError{Field: field, Reason: "datetime too short for T HH:MM"}
		}
		v = rest[:5]
	}
	if len(v) != 5 || v[2] != ':' {
		return 0, &NormalizationError{Field: field, Reason: "want HH:MM"}
	}
	hour, err1 := strconv.Atoi(v[:2])
	minute, err2 := strconv.Atoi(v[3:])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &NormalizationError{Field: field, Reason: "hour or minute out of range"}
	}
	return hour*60 + minute, nil
}

// dateOf returns the suggestion's date as YYYY-MM-DD, truncating a full
// datetime value if one was supplied.
func dateOf(raw map[string]any) string {
	d := firstString(raw, "date")
	if i := strings.IndexByte(d, 'T'); i >= 0 {
		d = d[:i]
	}
	return d
}

// rankOf decodes the rank field; a missing or malformed rank defaults to
// the lowest priority so that sorting never breaks.
func rankOf(raw map[string]any) int {
	switch v := raw["rank"].(type) {
	case float64:
		if v >= 1 {
			return int(v)
		}
	case int:
		if v >= 1 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			return n
		}
	}
	return model.RankUnranked
}

// commuteOf pulls the total commute minutes out of the optional
// commute_info object, tolerating either field name the generator has used.
func commuteOf(raw map[string]any) int {
	info, ok := raw["commute_info"].(map[string]any)
	if !ok {
		return 0
	}
	for _, key := range []string{"total_commute", "commute_minutes"} {
		if n, ok := info[key].(float64); ok && n > 0 {
			return int(n)
		}
	}
	return 0
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := stringField(m, key); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
