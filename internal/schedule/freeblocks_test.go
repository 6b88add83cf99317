package schedule

import (
	"testing"

	"campusplan/internal/model"
)

func class(course, building, date string, start, end int) model.ClassEvent {
	return model.ClassEvent{
		UID:        course + "@" + date,
		Course:     course,
		Date:       date,
		Interval:   model.Interval{StartMinute: start, EndMinute: end},
		Location:   building + " 100",
		BuildingID: building,
	}
}

func TestFreeBlocks_TypicalDay(t *testing.T) {
	classes := []model.ClassEvent{
		class("CSCE 221", "ZACH", "2025-11-24", 540, 615),  // 09:00-10:15
		class("MATH 304", "BLOC", "2025-11-24", 720, 770),  // 12:00-12:50
		class("HIST 105", "HELD", "2025-11-24", 960, 1035), // 16:00-17:15
	}
	blocks := FreeBlocks(classes, "2025-11-24", 420, 1380) // 07:00-23:00
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4: %+v", len(blocks), blocks)
	}

	first := blocks[0]
	if first.StartTime != "07:00" || first.EndTime != "09:00" || first.AvailableMinutes != 120 {
		t.Errorf("leading block = %+v", first)
	}
	if first.PreviousClassName != "" || first.NextClassName != "CSCE 221" {
		t.Errorf("leading block neighbors = %+v", first)
	}

	mid := blocks[1]
	if mid.StartTime != "10:15" || mid.EndTime != "12:00" || mid.AvailableMinutes != 105 {
		t.Errorf("mid block = %+v", mid)
	}
	if mid.PreviousClassName != "CSCE 221" || mid.NextClassName != "MATH 304" {
		t.Errorf("mid block neighbors = %+v", mid)
	}
	if mid.PreviousClassLocation != "ZACH" || mid.NextClassLocation != "BLOC" {
		t.Errorf("mid block locations = %+v", mid)
	}

	last := blocks[3]
	if last.StartTime != "17:15" || last.EndTime != "23:00" {
		t.Errorf("trailing block = %+v", last)
	}
	if last.PreviousClassName != "HIST 105" || last.NextClassName != "" {
		t.Errorf("trailing block neighbors = %+v", last)
	}
}

func TestFreeBlocks_EmptyDayIsOneBlock(t *testing.T) {
	blocks := FreeBlocks(nil, "2025-11-24", 420, 1380)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.StartTime != "07:00" || b.EndTime != "23:00" || b.AvailableMinutes != 960 {
		t.Errorf("whole-day block = %+v", b)
	}
	if b.PreviousClassName != "" || b.NextClassName != "" {
		t.Errorf("whole-day block has neighbors: %+v", b)
	}
}

// Back-to-back classes produce no zero-length gap between them.
func TestFreeBlocks_BackToBackClasses(t *testing.T) {
	classes := []model.ClassEvent{
		class("A", "ZACH", "2025-11-24", 540, 600),
		class("B", "ZACH", "2025-11-24", 600, 660),
	}
	blocks := FreeBlocks(classes, "2025-11-24", 420, 1380)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %+v", len(blocks), blocks)
	}
	if blocks[0].EndTime != "09:00" || blocks[1].StartTime != "11:00" {
		t.Errorf("blocks = %+v", blocks)
	}
}

// An overlapping pair never yields a phantom gap inside the overlap, and
// the block after it names the class that actually ends last.
func TestFreeBlocks_OverlappingClasses(t *testing.T) {
	classes := []model.ClassEvent{
		class("LONG", "ZACH", "2025-11-24", 540, 720),  // 09:00-12:00
		class("SHORT", "BLOC", "2025-11-24", 600, 660), // 10:00-11:00, inside LONG
	}
	blocks := FreeBlocks(classes, "2025-11-24", 420, 1380)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %+v", len(blocks), blocks)
	}
	trailing := blocks[1]
	if trailing.StartTime != "12:00" {
		t.Errorf("trailing block starts %s, want 12:00", trailing.StartTime)
	}
	if trailing.PreviousClassName != "LONG" {
		t.Errorf("trailing block previous = %q, want LONG", trailing.PreviousClassName)
	}
}

func TestFreeBlocks_FiltersOtherDates(t *testing.T) {
	classes := []model.ClassEvent{
		class("A", "ZACH", "2025-11-25", 540, 600),
	}
	blocks := FreeBlocks(classes, "2025-11-24", 420, 1380)
	if len(blocks) != 1 || blocks[0].AvailableMinutes != 960 {
		t.Errorf("other-date class leaked into blocks: %+v", blocks)
	}
}

func TestFreeBlocks_ClassFillsWindow(t *testing.T) {
	classes := []model.ClassEvent{
		class("ALLDAY", "ZACH", "2025-11-24", 420, 1380),
	}
	if blocks := FreeBlocks(classes, "2025-11-24", 420, 1380); len(blocks) != 0 {
		t.Errorf("got %d blocks, want 0: %+v", len(blocks), blocks)
	}
}
