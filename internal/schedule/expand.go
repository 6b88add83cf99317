package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "campusplan/internal/log"
	"campusplan/internal/model"
)

const defaultMaxOccurrencesPerEvent = 1000

// ExpandConfig controls recurrence expansion of an uploaded schedule.
type ExpandConfig struct {
	// DisplayLocation is the timezone all occurrences are converted into.
	// Defaults to time.Local.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd bound the term window to expand into.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway recurrence rules.
	MaxOccurrencesPerEvent int
}

// Expand converts RawEvents into concrete ClassEvents within the term
// window. Recurring classes are expanded via their RRULE with EXDATEs
// removed; all-day entries (exam blocks, holidays on some registrar feeds)
// are skipped since they carry no class interval.
func Expand(events []RawEvent, cfg ExpandConfig) ([]model.ClassEvent, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	out := make([]model.ClassEvent, 0, len(events))
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		if ev.RawRRule == "" {
			if overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
				if ce, ok := makeClassEvent(ev, ev.Start, ev.End, cfg.DisplayLocation); ok {
					out = append(out, ce)
				}
			}
			continue
		}
		out = append(out, expandRecurring(ev, cfg)...)
	}
	return out, nil
}

func expandRecurring(ev RawEvent, cfg ExpandConfig) []model.ClassEvent {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())
	occTimes := set.Between(rangeStart, rangeEnd, true)

	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		appLog.Warn("expand: occurrence cap hit", "uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
	}

	duration := ev.End.Sub(ev.Start)
	out := make([]model.ClassEvent, 0, len(occTimes))
	for _, occStart := range occTimes {
		if ce, ok := makeClassEvent(ev, occStart, occStart.Add(duration), cfg.DisplayLocation); ok {
			out = append(out, ce)
		}
	}
	return out
}

// makeClassEvent converts one occurrence into a ClassEvent with a date
// string and minute-of-day interval in the display timezone. A class
// running past midnight is truncated at 23:59; a zero-length result is
// dropped.
func makeClassEvent(ev RawEvent, start, end time.Time, loc *time.Location) (model.ClassEvent, bool) {
	startLocal := start.In(loc)
	endLocal := end.In(loc)

	date := startLocal.Format("2006-01-02")
	startMin := startLocal.Hour()*60 + startLocal.Minute()

	endMin := endLocal.Hour()*60 + endLocal.Minute()
	if endLocal.Format("2006-01-02") != date {
		endMin = 1439
	}
	if endMin <= startMin {
		appLog.Warn("dropping zero-length class occurrence", "uid", ev.UID, "date", date)
		return model.ClassEvent{}, false
	}

	return model.ClassEvent{
		UID:        ev.UID + "@" + date,
		Course:     ev.Course,
		Date:       date,
		Weekday:    startLocal.Weekday(),
		Interval:   model.Interval{StartMinute: startMin, EndMinute: endMin},
		Location:   ev.Location,
		BuildingID: buildingID(ev.Location),
	}, true
}

// buildingID extracts the building code from a registrar location string,
// e.g. "HELD 113" yields "HELD". A location with no room part is returned
// as is.
func buildingID(location string) string {
	location = strings.TrimSpace(location)
	if i := strings.IndexByte(location, ' '); i > 0 {
		return location[:i]
	}
	return location
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
