package schedule

import (
	"sort"

	"campusplan/internal/clock"
	"campusplan/internal/model"
)

// FreeBlock is one gap between classes on a single day. The JSON shape
// matches the generator service's request contract.
type FreeBlock struct {
	Date             string `json:"date"`
	StartTime        string `json:"start_time"` // HH:MM
	EndTime          string `json:"end_time"`   // HH:MM
	AvailableMinutes int    `json:"available_minutes"`

	PreviousClassName     string `json:"previous_class_name,omitempty"`
	NextClassName         string `json:"next_class_name,omitempty"`
	PreviousClassLocation string `json:"previous_class_location,omitempty"`
	NextClassLocation     string `json:"next_class_location,omitempty"`
}

// FreeBlocks computes the free gaps on one date between dayStart and
// dayEnd (minute offsets): the gap before the first class, every gap
// between consecutive classes, and the gap after the last one. A day with
// no classes yields the whole window as a single block.
func FreeBlocks(classes []model.ClassEvent, date string, dayStart, dayEnd int) []FreeBlock {
	day := make([]model.ClassEvent, 0)
	for _, ce := range classes {
		if ce.Date == date {
			day = append(day, ce)
		}
	}
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Interval.StartMinute < day[j].Interval.StartMinute
	})

	blocks := make([]FreeBlock, 0)
	appendGap := func(start, end int, prev, next *model.ClassEvent) {
		if end <= start {
			return
		}
		fb := FreeBlock{
			Date:             date,
			StartTime:        clock.Format24(start),
			EndTime:          clock.Format24(end),
			AvailableMinutes: end - start,
		}
		if prev != nil {
			fb.PreviousClassName = prev.Course
			fb.PreviousClassLocation = prev.BuildingID
		}
		if next != nil {
			fb.NextClassName = next.Course
			fb.NextClassLocation = next.BuildingID
		}
		blocks = append(blocks, fb)
	}

	if len(day) == 0 {
		appendGap(dayStart, dayEnd, nil, nil)
		return blocks
	}

	appendGap(dayStart, day[0].Interval.StartMinute, nil, &day[0])

	// cursor tracks the latest end seen so far, so an overlapping pair of
	// classes never produces a negative or phantom gap.
	cursor := day[0].Interval.EndMinute
	lastIdx := 0
	for i := 1; i < len(day); i++ {
		appendGap(cursor, day[i].Interval.StartMinute, &day[lastIdx], &day[i])
		if day[i].Interval.EndMinute > cursor {
			cursor = day[i].Interval.EndMinute
			lastIdx = i
		}
	}

	appendGap(cursor, dayEnd, &day[lastIdx], nil)
	return blocks
}
