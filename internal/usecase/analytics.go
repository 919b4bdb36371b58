// internal/usecase/analytics.go
package usecase

import (
	"fmt"
	"math"
	"strings"

	"expediente-service/internal/domain/entity"
	"expediente-service/pkg/timeutil"
)

// AnalyticsConfig carries the alerting thresholds.
type AnalyticsConfig struct {
	CoverageWarnPercent float64
	ShortShiftHours     float64
	LongShiftHours      float64
	ShiftAlertRatio     float64
}

// DefaultAnalyticsConfig matches the source system.
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		CoverageWarnPercent: 80,
		ShortShiftHours:     9,
		LongShiftHours:      10,
		ShiftAlertRatio:     0.5,
	}
}

// ClosedBySystem reports whether a shift status says the system closed it.
// Match rule: the status text contains the word "sistema", case-insensitive.
func ClosedBySystem(status string) bool {
	return strings.Contains(strings.ToLower(status), "sistema")
}

// FinishedStatus reports whether a service status counts as finished.
// Match rule: the upper-cased status is CONCLUIDO or NOSHOW.
func FinishedStatus(status string) bool {
	upper := strings.ToUpper(status)
	return upper == entity.StatusConcluded || upper == entity.StatusNoShow
}

// ComputeSurveyCoverage returns how many services carry a survey. A dossier
// with no services yields 0% coverage, never a division by zero.
func ComputeSurveyCoverage(services []entity.ServiceRecord) entity.SurveyCoverage {
	coverage := entity.SurveyCoverage{Total: len(services)}
	for _, s := range services {
		if s.Survey != nil {
			coverage.WithSurvey++
		}
	}
	if coverage.Total > 0 {
		coverage.CoveragePercent = float64(coverage.WithSurvey) / float64(coverage.Total) * 100
	}
	return coverage
}

// StatusDistribution groups services by upper-cased status, keeping the
// first-seen order. Services without a status fall under SIN_STATUS.
func StatusDistribution(services []entity.ServiceRecord) []entity.StatusShare {
	counts := make(map[string]int)
	var order []string

	for _, s := range services {
		status := strings.ToUpper(s.Status)
		if status == "" {
			status = entity.NoStatusKey
		}
		if _, seen := counts[status]; !seen {
			order = append(order, status)
		}
		counts[status]++
	}

	total := len(services)
	shares := make([]entity.StatusShare, 0, len(order))
	for _, status := range order {
		share := entity.StatusShare{Status: status, Count: counts[status]}
		if total > 0 {
			share.Percent = float64(share.Count) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	return shares
}

// ClassifyShift buckets a shift duration. Entries without a computable
// duration are "desconocido" and excluded from the short/long ratios.
func (c AnalyticsConfig) ClassifyShift(hours *float64) string {
	switch {
	case hours == nil:
		return entity.ShiftUnknown
	case *hours < c.ShortShiftHours:
		return entity.ShiftShort
	case *hours > c.LongShiftHours:
		return entity.ShiftLong
	default:
		return entity.ShiftNormal
	}
}

// ComputeSurveyRating derives the 5-star score: the share of survey ratings
// equal to EXCELENTE scaled to 5 and rounded to the nearest half star.
// Returns nil when no service carries a rating.
func ComputeSurveyRating(services []entity.ServiceRecord) *entity.SurveyRating {
	total, excellent := 0, 0
	for _, s := range services {
		if s.Survey == nil || strings.TrimSpace(s.Survey.Rating) == "" {
			continue
		}
		total++
		if strings.ToUpper(strings.TrimSpace(s.Survey.Rating)) == "EXCELENTE" {
			excellent++
		}
	}
	if total == 0 {
		return nil
	}
	score := float64(excellent) / float64(total) * 5
	return &entity.SurveyRating{
		Score:     math.Round(score*2) / 2,
		Total:     total,
		Excellent: excellent,
	}
}

// BuildAlerts evaluates the alert rules in fixed order: survey coverage,
// shift hygiene over the log entries, then unfinished services.
func (c AnalyticsConfig) BuildAlerts(
	coverage entity.SurveyCoverage,
	logEntries []entity.LogEntry,
	services []entity.ServiceRecord,
) []entity.Alert {
	var alerts []entity.Alert

	if coverage.Total > 0 {
		if coverage.CoveragePercent < c.CoverageWarnPercent {
			alerts = append(alerts, entity.Alert{
				Type: entity.AlertWarning,
				Message: fmt.Sprintf("Solicita encuesta al cierre: %d/%d (%.1f%%)",
					coverage.WithSurvey, coverage.Total, coverage.CoveragePercent),
			})
		} else {
			alerts = append(alerts, entity.Alert{
				Type:    entity.AlertSuccess,
				Message: fmt.Sprintf("Cobertura de encuestas saludable: %.1f%%", coverage.CoveragePercent),
			})
		}
	}

	if total := len(logEntries); total > 0 {
		closedBySystem, longShifts, shortShifts := 0, 0, 0
		for _, e := range logEntries {
			if ClosedBySystem(e.Status) {
				closedBySystem++
			}
			switch c.ClassifyShift(timeutil.HoursWorked(e.Entry, e.Exit)) {
			case entity.ShiftLong:
				longShifts++
			case entity.ShiftShort:
				shortShifts++
			}
		}

		outOfRange := shortShifts + longShifts
		ratio := float64(total)
		if float64(closedBySystem)/ratio > c.ShiftAlertRatio || float64(outOfRange)/ratio > c.ShiftAlertRatio {
			alerts = append(alerts, entity.Alert{
				Type: entity.AlertWarning,
				Message: fmt.Sprintf("Por favor cierra tu turno: %d cerrados por sistema, %d con mas de %.0fh.",
					closedBySystem, longShifts, c.LongShiftHours),
			})
		}
		if shortShifts > 0 {
			alerts = append(alerts, entity.Alert{
				Type:    entity.AlertInfo,
				Message: fmt.Sprintf("Completa tus turnos: %d turnos con menos de %.0fh.", shortShifts, c.ShortShiftHours),
			})
		}
	}

	if total := len(services); total > 0 {
		unfinished := 0
		for _, s := range services {
			if !FinishedStatus(s.Status) {
				unfinished++
			}
		}
		if unfinished > 0 {
			percent := float64(unfinished) / float64(total) * 100
			alerts = append(alerts, entity.Alert{
				Type: entity.AlertWarning,
				Message: fmt.Sprintf("Hay servicios sin concluir: %d/%d (%.1f%%) con estatus distinto a CONCLUIDO/NOSHOW.",
					unfinished, total, percent),
			})
		}
	}

	return alerts
}
