package usecase

import (
	"reflect"
	"testing"
	"time"

	"expediente-service/internal/domain/entity"
)

func TestGroupServicesByDay(t *testing.T) {
	services := []entity.ServiceRecord{
		{ID: "a", ServiceDate: "2025-02-01"},
		{ID: "b", ServiceDate: "2025-02-01T09:30:00"},
		{ID: "c", ServiceDate: "2025-02-03"},
		{ID: "d", ServiceDate: "no-date"},
		{ID: "e"},
	}

	grouped := GroupServicesByDay(services)

	if got := len(grouped["2025-02-01"]); got != 2 {
		t.Errorf("2025-02-01 bucket = %d records, want 2", got)
	}
	if got := len(grouped["2025-02-03"]); got != 1 {
		t.Errorf("2025-02-03 bucket = %d records, want 1", got)
	}
	// Undated records are bucketed, never dropped.
	if got := len(grouped[entity.NoDateKey]); got != 2 {
		t.Errorf("%s bucket = %d records, want 2", entity.NoDateKey, got)
	}
}

func TestBuildCalendarGridFebruary2025(t *testing.T) {
	// February 2025: 28 days, the 1st is a Saturday.
	month := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	grid := BuildCalendarGrid(month, nil, nil, nil)

	if len(grid)%7 != 0 {
		t.Fatalf("grid length %d is not a multiple of 7", len(grid))
	}
	if len(grid) != 35 {
		t.Fatalf("grid length = %d, want 35", len(grid))
	}

	leading := 0
	for _, cell := range grid {
		if !cell.Blank {
			break
		}
		leading++
	}
	trailing := 0
	for i := len(grid) - 1; i >= 0; i-- {
		if !grid[i].Blank {
			break
		}
		trailing++
	}
	if leading != 6 || trailing != 1 {
		t.Errorf("padding = %d leading, %d trailing blanks; want 6 and 1", leading, trailing)
	}

	first := grid[leading]
	if first.Day != 1 || first.Key != "2025-02-01" {
		t.Errorf("first real cell = day %d key %q, want day 1 key 2025-02-01", first.Day, first.Key)
	}
}

func TestBuildCalendarGridAttachesData(t *testing.T) {
	month := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	services := map[string][]entity.ServiceRecord{
		"2025-02-14": {{ID: "s1", FlightNumber: "AM100"}},
	}
	reprimands := map[string][]entity.ReprimandRecord{
		"2025-02-14": {{ID: "r1", Sanction: "ACTA"}},
	}
	totals := map[string]int{"2025-02-14": 4}

	grid := BuildCalendarGrid(month, services, reprimands, totals)

	var cell entity.CalendarDayCell
	for _, c := range grid {
		if c.Key == "2025-02-14" {
			cell = c
			break
		}
	}
	if len(cell.Services) != 1 || len(cell.Reprimands) != 1 {
		t.Errorf("cell carries %d services, %d reprimands; want 1 and 1", len(cell.Services), len(cell.Reprimands))
	}
	if cell.TotalServices != 4 {
		t.Errorf("TotalServices = %d, want 4", cell.TotalServices)
	}

	// Days absent from the totals default to zero.
	for _, c := range grid {
		if c.Key == "2025-02-15" && c.TotalServices != 0 {
			t.Errorf("2025-02-15 TotalServices = %d, want 0", c.TotalServices)
		}
	}

	// Blank cells carry nothing.
	for _, c := range grid {
		if c.Blank && (c.Services != nil || c.Reprimands != nil || c.Key != "") {
			t.Error("blank cell carries data")
		}
	}
}

func TestBuildCalendarGridDeterministic(t *testing.T) {
	month := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	services := GroupServicesByDay([]entity.ServiceRecord{
		{ID: "a", ServiceDate: "2025-02-10"},
		{ID: "b", ServiceDate: "2025-02-11"},
	})
	totals := map[string]int{"2025-02-10": 2}

	first := BuildCalendarGrid(month, services, nil, totals)
	second := BuildCalendarGrid(month, services, nil, totals)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different grids")
	}
}
