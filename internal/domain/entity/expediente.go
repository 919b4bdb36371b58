// internal/domain/entity/expediente.go
package entity

import "encoding/json"

// Statuses the upstream system reports in free text. Comparisons are always
// made on the upper-cased form.
const (
	StatusConcluded = "CONCLUIDO"
	StatusNoShow    = "NOSHOW"

	// NoStatusKey buckets services without a status.
	NoStatusKey = "SIN_STATUS"
	// NoDateKey buckets records whose date cannot be parsed.
	NoDateKey = "SIN_FECHA"
)

// OperatorProfile identifies the operator the dossier belongs to.
type OperatorProfile struct {
	Name           string `json:"nombre"`
	Surnames       string `json:"apellidos"`
	Initials       string `json:"siglas"`
	Station        string `json:"estacion"`
	CollaboratorID string `json:"noColaborador"`
}

// FullName joins name and surnames for display.
func (p OperatorProfile) FullName() string {
	switch {
	case p.Name == "":
		return p.Surnames
	case p.Surnames == "":
		return p.Name
	default:
		return p.Name + " " + p.Surnames
	}
}

// SurveyResult is the optional passenger survey attached to a service.
type SurveyResult struct {
	Rating             string `json:"calificacion"`
	Agent              string `json:"agente"`
	Comments           string `json:"comentarios"`
	PassengerSignature string `json:"firmaPasajero"`
}

// ServiceRecord is one flight-assistance service. Records are immutable once
// fetched; Raw preserves the upstream key/value form for field-driven export.
type ServiceRecord struct {
	ID           string        `json:"_id"`
	ServiceDate  string        `json:"fechaInput"`
	StartTime    string        `json:"horaInicio"`
	EndTime      string        `json:"horaFin"`
	Status       string        `json:"statusServicio"`
	Airline      string        `json:"aerolinea"`
	FlightNumber string        `json:"noVuelo"`
	Origin       string        `json:"origenVuelo"`
	Destination  string        `json:"destinoVuelo"`
	ServiceType  string        `json:"tipoService"`
	SeatType     string        `json:"tipoSilla"`
	PNR          string        `json:"pnr"`
	Station      string        `json:"estacion"`
	Survey       *SurveyResult `json:"encuesta,omitempty"`

	Raw map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps the raw key/value form.
func (s *ServiceRecord) UnmarshalJSON(data []byte) error {
	type alias ServiceRecord
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ServiceRecord(a)
	s.Raw = raw
	return nil
}

// LogEntry is one shift log record (bitacora).
type LogEntry struct {
	ID             string `json:"_id"`
	Entry          string `json:"entrada"`
	Exit           string `json:"salida"`
	RegisteredAt   string `json:"fecha_registro"`
	Status         string `json:"status"`
	SeatNumber     string `json:"noSilla"`
	Observations   string `json:"observaciones"`
	RegisteredBy   string `json:"register_by"`
	Station        string `json:"estacion"`
	CollaboratorID string `json:"noColaborador"`

	Raw map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps the raw key/value form.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	type alias LogEntry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = LogEntry(a)
	e.Raw = raw
	return nil
}

// EffectiveDate is the timestamp a log entry is dated by: the entry instant
// when present, the registration instant otherwise.
func (e LogEntry) EffectiveDate() string {
	if e.Entry != "" {
		return e.Entry
	}
	return e.RegisteredAt
}

// ReprimandRecord is one disciplinary record (amonestacion).
type ReprimandRecord struct {
	ID             string `json:"_id"`
	Date           string `json:"fechaInput"`
	Sanction       string `json:"sancion"`
	Reason         string `json:"motivo"`
	RecordedBy     string `json:"noColaboradorRegistro"`
	CollaboratorID string `json:"noColaboradorAmonestado"`
}

// DailyTotal is an upstream-precomputed per-day service count.
type DailyTotal struct {
	Date  string `json:"fecha"`
	Total int    `json:"total"`
}

// ServiceHistory is the service section of the dossier payload.
type ServiceHistory struct {
	Total       int             `json:"total"`
	Records     []ServiceRecord `json:"registros"`
	DailyTotals []DailyTotal    `json:"resumenPorDia"`
}

// LogHistory is the shift-log section of the dossier payload.
type LogHistory struct {
	Total       int          `json:"total"`
	Records     []LogEntry   `json:"registros"`
	DailyTotals []DailyTotal `json:"resumenDiario"`
}

// OperatorDossier is the aggregate root: one operator's full history as
// fetched upstream. It is created fresh on every successful fetch and
// replaced wholesale, never mutated field by field.
type OperatorDossier struct {
	Operator   OperatorProfile          `json:"operador"`
	Services   ServiceHistory           `json:"servicios"`
	Log        LogHistory               `json:"bitacora"`
	Reprimands []ReprimandRecord        `json:"amonestaciones"`
	Bracelets  []map[string]interface{} `json:"pulseras"`
}
