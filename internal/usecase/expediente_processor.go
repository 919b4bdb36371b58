// internal/usecase/expediente_processor.go
package usecase

import (
	"context"
	"time"

	"expediente-service/internal/domain/entity"
	"expediente-service/internal/domain/repository"
	"expediente-service/pkg/logger"
	"expediente-service/pkg/metrics"
	"expediente-service/pkg/timeutil"
)

// ExpedienteView is everything derived from one dossier snapshot. It is
// recomputed from scratch on every fetch; nothing in it is persisted.
type ExpedienteView struct {
	Dossier    *entity.OperatorDossier  `json:"expediente"`
	Coverage   entity.SurveyCoverage    `json:"encuestas"`
	StatusList []entity.StatusShare     `json:"estatus"`
	Rating     *entity.SurveyRating     `json:"calificacion,omitempty"`
	Alerts     []entity.Alert           `json:"alertas"`
	Streaks    []entity.FlightStreak    `json:"coincidencias"`
	Month      string                   `json:"mes"`
	Calendar   []entity.CalendarDayCell `json:"calendario"`
}

// ExpedienteProcessor fetches a dossier and derives the full view.
type ExpedienteProcessor struct {
	dossierRepo repository.DossierRepository
	analytics   AnalyticsConfig
	streaks     StreakConfig
	logger      logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewExpedienteProcessor creates a new expediente processor
func NewExpedienteProcessor(
	dossierRepo repository.DossierRepository,
	analytics AnalyticsConfig,
	streaks StreakConfig,
	log logger.Logger,
	m *metrics.Metrics,
) *ExpedienteProcessor {
	return &ExpedienteProcessor{
		dossierRepo: dossierRepo,
		analytics:   analytics,
		streaks:     streaks,
		logger:      log,
		metrics:     m,
		now:         time.Now,
	}
}

// WithClock overrides the default-month/timestamp source.
func (p *ExpedienteProcessor) WithClock(now func() time.Time) *ExpedienteProcessor {
	p.now = now
	return p
}

// Fetch retrieves a fresh dossier for the collaborator. The previous
// dossier, if any, is simply replaced by the caller.
func (p *ExpedienteProcessor) Fetch(ctx context.Context, collaboratorID, startDate, endDate string) (*entity.OperatorDossier, error) {
	if collaboratorID == "" {
		return nil, entity.ErrNoCollaborator
	}

	start := p.now()
	dossier, err := p.dossierRepo.FetchExpediente(ctx, collaboratorID, startDate, endDate)
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("fetch").Inc()
		p.logger.Error("Failed to fetch expediente", "collaborator", collaboratorID, "error", err)
		return nil, err
	}

	p.metrics.DossiersFetched.Inc()
	p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	p.logger.Info("Fetched expediente",
		"collaborator", collaboratorID,
		"services", len(dossier.Services.Records),
		"logEntries", len(dossier.Log.Records),
		"reprimands", len(dossier.Reprimands))
	return dossier, nil
}

// Derive computes the full view for a dossier. The month parameter selects
// the calendar page; when empty, the first daily total decides it, falling
// back to the current month.
func (p *ExpedienteProcessor) Derive(dossier *entity.OperatorDossier, month string) *ExpedienteView {
	services := dossier.Services.Records
	coverage := ComputeSurveyCoverage(services)

	monthAnchor := p.resolveMonth(dossier, month)
	groupedServices := GroupServicesByDay(services)
	groupedReprimands := GroupReprimandsByDay(dossier.Reprimands)
	totals := DailyTotalsMap(dossier.Services.DailyTotals)

	return &ExpedienteView{
		Dossier:    dossier,
		Coverage:   coverage,
		StatusList: StatusDistribution(services),
		Rating:     ComputeSurveyRating(services),
		Alerts:     p.analytics.BuildAlerts(coverage, dossier.Log.Records, services),
		Streaks:    DetectFlightStreaks(services, p.streaks),
		Month:      monthAnchor.Format("2006-01"),
		Calendar:   BuildCalendarGrid(monthAnchor, groupedServices, groupedReprimands, totals),
	}
}

// BuildView fetches and derives in one step.
func (p *ExpedienteProcessor) BuildView(ctx context.Context, collaboratorID, startDate, endDate, month string) (*ExpedienteView, error) {
	dossier, err := p.Fetch(ctx, collaboratorID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return p.Derive(dossier, month), nil
}

// resolveMonth anchors the calendar: explicit month, then the first
// precomputed daily total, then "now".
func (p *ExpedienteProcessor) resolveMonth(dossier *entity.OperatorDossier, month string) time.Time {
	if month != "" {
		if t, err := time.ParseInLocation("2006-01", month, time.Local); err == nil {
			return t
		}
		if t := timeutil.ParseInstant(month); t != nil {
			return *t
		}
	}
	if len(dossier.Services.DailyTotals) > 0 {
		if t := timeutil.ParseInstant(dossier.Services.DailyTotals[0].Date); t != nil {
			return *t
		}
	}
	if len(dossier.Log.DailyTotals) > 0 {
		if t := timeutil.ParseInstant(dossier.Log.DailyTotals[0].Date); t != nil {
			return *t
		}
	}
	return p.now()
}

// Now exposes the processor clock; exports stamp artifacts with it.
func (p *ExpedienteProcessor) Now() time.Time {
	return p.now()
}
