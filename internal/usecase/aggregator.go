// internal/usecase/aggregator.go
package usecase

import (
	"time"

	"expediente-service/internal/domain/entity"
	"expediente-service/pkg/timeutil"
)

// GroupServicesByDay groups service records by their canonical day key.
// Records without a parseable service date land in the SIN_FECHA bucket;
// one bad record must never blank the whole dossier view.
func GroupServicesByDay(services []entity.ServiceRecord) map[string][]entity.ServiceRecord {
	grouped := make(map[string][]entity.ServiceRecord)
	for _, s := range services {
		key := timeutil.DayKey(timeutil.ParseInstant(s.ServiceDate))
		if key == "" {
			key = entity.NoDateKey
		}
		grouped[key] = append(grouped[key], s)
	}
	return grouped
}

// GroupReprimandsByDay groups disciplinary records by their day key.
func GroupReprimandsByDay(reprimands []entity.ReprimandRecord) map[string][]entity.ReprimandRecord {
	grouped := make(map[string][]entity.ReprimandRecord)
	for _, r := range reprimands {
		key := timeutil.DayKey(timeutil.ParseInstant(r.Date))
		if key == "" {
			key = entity.NoDateKey
		}
		grouped[key] = append(grouped[key], r)
	}
	return grouped
}

// DailyTotalsMap indexes the upstream per-day service totals by date key.
func DailyTotalsMap(totals []entity.DailyTotal) map[string]int {
	m := make(map[string]int, len(totals))
	for _, t := range totals {
		if t.Date != "" {
			m[t.Date] = t.Total
		}
	}
	return m
}

// BuildCalendarGrid produces the padded month grid for the given month.
// Weeks start on Sunday; leading and trailing blank cells align the first
// and last week, so the grid length is always a multiple of 7. The same
// inputs always produce the same grid.
func BuildCalendarGrid(
	month time.Time,
	groupedServices map[string][]entity.ServiceRecord,
	groupedReprimands map[string][]entity.ReprimandRecord,
	dailyTotals map[string]int,
) []entity.CalendarDayCell {
	year, m, _ := month.Date()
	firstDay := time.Date(year, m, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	cells := make([]entity.CalendarDayCell, 0, 42)
	for i := 0; i < int(firstDay.Weekday()); i++ {
		cells = append(cells, entity.CalendarDayCell{Blank: true})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, m, day, 0, 0, 0, 0, time.Local)
		key := date.Format(timeutil.DayKeyLayout)
		cells = append(cells, entity.CalendarDayCell{
			Date:          &date,
			Day:           day,
			Key:           key,
			Services:      groupedServices[key],
			Reprimands:    groupedReprimands[key],
			TotalServices: dailyTotals[key],
		})
	}

	if rem := len(cells) % 7; rem != 0 {
		for i := 0; i < 7-rem; i++ {
			cells = append(cells, entity.CalendarDayCell{Blank: true})
		}
	}

	return cells
}
