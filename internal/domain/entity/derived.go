// internal/domain/entity/derived.go
package entity

import "time"

// CalendarDayCell is one cell of the month grid. Blank cells only pad the
// first and last week to calendar boundaries and carry no data.
type CalendarDayCell struct {
	Blank         bool              `json:"blank"`
	Date          *time.Time        `json:"date,omitempty"`
	Day           int               `json:"day,omitempty"`
	Key           string            `json:"key,omitempty"`
	Services      []ServiceRecord   `json:"servicios,omitempty"`
	Reprimands    []ReprimandRecord `json:"amonestaciones,omitempty"`
	TotalServices int               `json:"totalServicios"`
}

// FlightStreak is a maximal run of consecutive calendar days on which the
// same flight number appears in the service records.
type FlightStreak struct {
	FlightNumber string `json:"vuelo"`
	Start        string `json:"inicio"`
	End          string `json:"fin"`
	Days         int    `json:"dias"`
	Origin       string `json:"origen"`
	Destination  string `json:"destino"`
	Highlight    bool   `json:"destacado"`
}

// Alert severities.
const (
	AlertWarning = "warning"
	AlertInfo    = "info"
	AlertSuccess = "success"
)

// Alert is a derived, ephemeral operator-facing notice. Alerts are
// informational only; they never block export or navigation.
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SurveyCoverage is the fraction of services with an attached survey.
type SurveyCoverage struct {
	Total           int     `json:"total"`
	WithSurvey      int     `json:"conEncuesta"`
	CoveragePercent float64 `json:"cobertura"`
}

// StatusShare is one slice of the per-status service distribution.
type StatusShare struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"porcentaje"`
}

// Shift duration classes.
const (
	ShiftShort   = "corto"
	ShiftNormal  = "normal"
	ShiftLong    = "largo"
	ShiftUnknown = "desconocido"
)

// SurveyRating is the 5-star score derived from EXCELENTE survey ratings.
type SurveyRating struct {
	Score     float64 `json:"score"`
	Total     int     `json:"total"`
	Excellent int     `json:"excelentes"`
}

// Export datasets and formats.
const (
	DatasetServices   = "servicios"
	DatasetLogEntries = "bitacora"

	FormatSpreadsheet = "xlsx"
	FormatCSV         = "csv"
)

// ExportSelection describes one tabular export request. From/To apply to the
// log-entry dataset only and are inclusive local-day bounds.
type ExportSelection struct {
	Dataset string   `json:"dataset"`
	Fields  []string `json:"campos"`
	Format  string   `json:"formato"`
	From    string   `json:"desde,omitempty"`
	To      string   `json:"hasta,omitempty"`
}
