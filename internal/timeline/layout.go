// Package timeline maps a day's events onto pixel rectangles for the
// single-day timeline view.
package timeline

import (
	"sort"

	"campusplan/internal/model"
)

// Config holds the day window and presentational constants for layout.
type Config struct {
	// DayStartMinute / DayEndMinute bound the rendered window.
	DayStartMinute int
	DayEndMinute   int

	// PxPerMinute converts clamped minutes to vertical pixels.
	PxPerMinute float64

	// MinHeight is the presentational floor so short events stay legible.
	MinHeight float64

	// VerticalGap is subtracted from each height to separate stacked events.
	VerticalGap float64

	// OverlayInset is the horizontal offset applied per visible-suggestion
	// index so simultaneous overlays for different blocks never fully
	// obscure each other.
	OverlayInset float64
}

// Placed pairs a timeline event with its derived rectangle.
type Placed struct {
	Event model.TimelineEvent `json:"event"`
	Rect  model.Rect          `json:"rect"`
}

// Layout converts events into rectangles within the configured window.
//
//   - Events entirely outside the window are dropped.
//   - Events crossing a boundary are clamped; a zero-or-negative span
//     after clamping drops the event.
//   - Output is ordered by clamped start minute, stable on ties.
//   - Visible suggestion overlays get a per-index horizontal inset. This
//     is a deterministic fan-out, not a rectangle-packing solver; the
//     simpler predictable behavior is intentional.
func Layout(cfg Config, events []model.TimelineEvent) []Placed {
	type clamped struct {
		ev         model.TimelineEvent
		start, end int
	}

	kept := make([]clamped, 0, len(events))
	for _, ev := range events {
		start, end := ev.Interval.StartMinute, ev.Interval.EndMinute
		if end <= cfg.DayStartMinute || start >= cfg.DayEndMinute {
			continue
		}
		if start < cfg.DayStartMinute {
			start = cfg.DayStartMinute
		}
		if end > cfg.DayEndMinute {
			end = cfg.DayEndMinute
		}
		if end <= start {
			continue
		}
		kept = append(kept, clamped{ev: ev, start: start, end: end})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].start < kept[j].start
	})

	out := make([]Placed, 0, len(kept))
	overlayIdx := 0
	for _, c := range kept {
		height := float64(c.end-c.start)*cfg.PxPerMinute - cfg.VerticalGap
		if height < cfg.MinHeight {
			height = cfg.MinHeight
		}
		rect := model.Rect{
			Top:    float64(c.start-cfg.DayStartMinute) * cfg.PxPerMinute,
			Height: height,
		}
		if c.ev.Role == model.RoleSuggestion {
			rect.LeftInset = float64(overlayIdx) * cfg.OverlayInset
			overlayIdx++
		}
		out = append(out, Placed{Event: c.ev, Rect: rect})
	}
	return out
}

// NowIndicator returns the vertical pixel position of the current-time
// line, and false when the minute falls outside the rendered window. It is
// recomputed on every clock tick and reads no engine state.
func NowIndicator(cfg Config, minute int) (float64, bool) {
	if minute < cfg.DayStartMinute || minute > cfg.DayEndMinute {
		return 0, false
	}
	return float64(minute-cfg.DayStartMinute) * cfg.PxPerMinute, true
}
