// Package clock converts between clock-time strings and minute-of-day
// offsets and formats minutes for display. All functions are pure.
package clock

import (
	"fmt"
	"strings"
)

// MinutesPerDay is the exclusive upper bound of every minute offset.
const MinutesPerDay = 1440

// FormatError reports a clock string that could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid clock time %q: %s", e.Input, e.Reason)
}

// Parse decodes "H:MM" or "HH:MM", with an optional AM/PM suffix, into
// minutes since midnight in [0, 1440). With a suffix the hour must be in
// 1..12; without, in 0..23. Anything else is a *FormatError.
func Parse(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &FormatError{Input: s, Reason: "empty string"}
	}

	upper := strings.ToUpper(trimmed)
	period := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			period = suffix
			upper = strings.TrimSpace(strings.TrimSuffix(upper, suffix))
			break
		}
	}

	hh, mm, ok := strings.Cut(upper, ":")
	if !ok {
		return 0, &FormatError{Input: s, Reason: "missing ':' separator"}
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, &FormatError{Input: s, Reason: "want H:MM or HH:MM"}
	}

	hour, ok := parseDigits(hh)
	if !ok {
		return 0, &FormatError{Input: s, Reason: "hour is not numeric"}
	}
	minute, ok := parseDigits(mm)
	if !ok {
		return 0, &FormatError{Input: s, Reason: "minute is not numeric"}
	}
	if minute > 59 {
		return 0, &FormatError{Input: s, Reason: "minute out of range"}
	}

	if period != "" {
		if hour < 1 || hour > 12 {
			return 0, &FormatError{Input: s, Reason: "12-hour value out of range"}
		}
		hour = To24Hour(hour, period)
	} else if hour > 23 {
		return 0, &FormatError{Input: s, Reason: "24-hour value out of range"}
	}

	return hour*60 + minute, nil
}

// parseDigits converts an all-digit string to an int. Unlike strconv.Atoi
// it rejects signs and whitespace.
func parseDigits(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// To24Hour converts a 12-hour clock hour plus "AM"/"PM" into a 24-hour
// hour. Inverse of To12Hour on the valid domain.
func To24Hour(h12 int, period string) int {
	switch strings.ToUpper(period) {
	case "PM":
		if h12 != 12 {
			return h12 + 12
		}
		return 12
	default: // AM
		if h12 == 12 {
			return 0
		}
		return h12
	}
}

// To12Hour converts a 24-hour hour into its 12-hour hour and period.
// Hours 0 and 12 both map to 12, never 0.
func To12Hour(h24 int) (int, string) {
	period := "AM"
	if h24 >= 12 {
		period = "PM"
	}
	h12 := h24 % 12
	if h12 == 0 {
		h12 = 12
	}
	return h12, period
}

// Format12 renders a minute offset as "H:MM AM". Total over [0, 1440);
// 0 renders as "12:00 AM" and 720 as "12:00 PM".
func Format12(minute int) string {
	h12, period := To12Hour(minute / 60)
	return fmt.Sprintf("%d:%02d %s", h12, minute%60, period)
}

// Format24 renders a minute offset as zero-padded "HH:MM".
func Format24(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// TimelineLabel renders the hour-axis label for a minute offset, e.g.
// "8 AM" or "12 PM". Minutes within the hour are dropped.
func TimelineLabel(minute int) string {
	h12, period := To12Hour(minute / 60)
	return fmt.Sprintf("%d %s", h12, period)
}
