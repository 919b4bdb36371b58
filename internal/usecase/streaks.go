// internal/usecase/streaks.go
package usecase

import (
	"sort"
	"time"

	"expediente-service/internal/domain/entity"
	"expediente-service/pkg/timeutil"
)

// StreakConfig carries the two streak thresholds. They are deliberately
// separate: MinDays decides which runs are emitted at all, HighlightDays
// decides which emitted runs get flagged.
type StreakConfig struct {
	MinDays       int
	HighlightDays int
}

// DefaultStreakConfig matches the source system (emit at 2, flag at 3).
func DefaultStreakConfig() StreakConfig {
	return StreakConfig{MinDays: 2, HighlightDays: 3}
}

// DetectFlightStreaks finds, per flight number, the maximal runs of
// calendar-consecutive days on which that flight appears. Duplicate
// same-day records collapse to one day. Output is sorted by descending run
// length; ties keep encounter order. Back-to-back assignments of the same
// flight to one operator are a compliance signal.
func DetectFlightStreaks(services []entity.ServiceRecord, cfg StreakConfig) []entity.FlightStreak {
	if cfg.MinDays <= 0 {
		cfg.MinDays = 2
	}

	type flightDays struct {
		days   map[string]struct{}
		sample entity.ServiceRecord
	}

	byFlight := make(map[string]*flightDays)
	var order []string

	for _, s := range services {
		key := timeutil.DayKey(timeutil.ParseInstant(s.ServiceDate))
		if s.FlightNumber == "" || key == "" {
			continue
		}
		fd, ok := byFlight[s.FlightNumber]
		if !ok {
			fd = &flightDays{days: make(map[string]struct{}), sample: s}
			byFlight[s.FlightNumber] = fd
			order = append(order, s.FlightNumber)
		}
		fd.days[key] = struct{}{}
	}

	var streaks []entity.FlightStreak
	for _, flight := range order {
		fd := byFlight[flight]

		days := make([]string, 0, len(fd.days))
		for d := range fd.days {
			days = append(days, d)
		}
		sort.Strings(days)

		start, prev := days[0], days[0]
		run := 1

		flush := func() {
			if run >= cfg.MinDays {
				streaks = append(streaks, entity.FlightStreak{
					FlightNumber: flight,
					Start:        start,
					End:          prev,
					Days:         run,
					Origin:       fd.sample.Origin,
					Destination:  fd.sample.Destination,
					Highlight:    cfg.HighlightDays > 0 && run >= cfg.HighlightDays,
				})
			}
		}

		for i := 1; i < len(days); i++ {
			if dayGap(prev, days[i]) == 1 {
				run++
				prev = days[i]
				continue
			}
			flush()
			start, prev = days[i], days[i]
			run = 1
		}
		flush()
	}

	sort.SliceStable(streaks, func(i, j int) bool {
		return streaks[i].Days > streaks[j].Days
	})
	return streaks
}

// dayGap returns the whole-day distance between two day keys.
func dayGap(from, to string) int {
	a := timeutil.ParseInstant(from)
	b := timeutil.ParseInstant(to)
	if a == nil || b == nil {
		return 0
	}
	return int(b.Sub(*a).Round(24*time.Hour) / (24 * time.Hour))
}
