// internal/usecase/exporter.go
package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"expediente-service/internal/domain/entity"
	"expediente-service/internal/domain/repository"
	"expediente-service/pkg/logger"
	"expediente-service/pkg/metrics"
	"expediente-service/pkg/timeutil"
)

// ExportField pairs a resolvable field key with its column label.
type ExportField struct {
	Key   string
	Label string
}

// ServiceExportFields is the exportable field catalog for services, in
// column order.
var ServiceExportFields = []ExportField{
	{Key: "fechaInput", Label: "Fecha servicio"},
	{Key: "horaInicio", Label: "Hora inicio"},
	{Key: "horaFin", Label: "Hora fin"},
	{Key: "statusServicio", Label: "Estatus servicio"},
	{Key: "aerolinea", Label: "Aerolinea"},
	{Key: "noVuelo", Label: "No. Vuelo"},
	{Key: "origenVuelo", Label: "Origen"},
	{Key: "destinoVuelo", Label: "Destino"},
	{Key: "tipoService", Label: "Tipo servicio"},
	{Key: "tipoSilla", Label: "Tipo silla"},
	{Key: "pnr", Label: "PNR"},
	{Key: "int_nac", Label: "Internacional/Nacional"},
	{Key: "usuarioInicio", Label: "Usuario inicio"},
	{Key: "noColaborador", Label: "No. colaborador"},
	{Key: "estacion", Label: "Estacion"},
	{Key: "conexion", Label: "Conexion"},
	{Key: "noMostrador", Label: "Mostrador"},
	{Key: "sala", Label: "Sala"},
	{Key: "uh", Label: "UH"},
	{Key: "created_at", Label: "Creado en"},
	{Key: "updated_at", Label: "Actualizado en"},
	{Key: "encuesta.calificacion", Label: "Calificacion encuesta"},
	{Key: "encuesta.agente", Label: "Agente encuesta"},
	{Key: "encuesta.comentarios", Label: "Comentarios encuesta"},
}

// LogExportFields is the exportable field catalog for the shift log.
var LogExportFields = []ExportField{
	{Key: "fecha_registro", Label: "Fecha registro"},
	{Key: "entrada", Label: "Entrada"},
	{Key: "salida", Label: "Salida"},
	{Key: "horas_trabajadas", Label: "Horas trabajadas"},
	{Key: "status", Label: "Status"},
	{Key: "noSilla", Label: "Silla"},
	{Key: "register_by", Label: "Registrado por"},
	{Key: "observaciones", Label: "Observaciones"},
	{Key: "estacion", Label: "Estacion"},
	{Key: "noColaborador", Label: "No. colaborador"},
}

// ExportResult is a rectangular row-set ready for the spreadsheet sink.
type ExportResult struct {
	Rows      [][]string
	SheetName string
	Filename  string
	Format    string
}

// Exporter turns a dossier plus a selection into a spreadsheet artifact.
type Exporter struct {
	sink    repository.SpreadsheetWriter
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewExporter creates a new exporter. The clock is injectable so row
// generation stays deterministic under test.
func NewExporter(sink repository.SpreadsheetWriter, log logger.Logger, m *metrics.Metrics) *Exporter {
	return &Exporter{sink: sink, logger: log, metrics: m, now: time.Now}
}

// WithClock overrides the generation timestamp source.
func (ex *Exporter) WithClock(now func() time.Time) *Exporter {
	ex.now = now
	return ex
}

// FormatExport builds the row-set for a selection. The output format only
// affects the sink's serialization, never row construction.
func FormatExport(dossier *entity.OperatorDossier, sel entity.ExportSelection, now time.Time) (*ExportResult, error) {
	catalog := ServiceExportFields
	if sel.Dataset == entity.DatasetLogEntries {
		catalog = LogExportFields
	}

	fields := selectedFields(catalog, sel.Fields)
	if len(fields) == 0 {
		return nil, entity.ErrNoExportFields
	}

	var records []map[string]interface{}
	if sel.Dataset == entity.DatasetLogEntries {
		for _, e := range filterLogEntries(dossier.Log.Records, sel.From, sel.To) {
			records = append(records, e.Raw)
		}
	} else {
		for _, s := range dossier.Services.Records {
			records = append(records, s.Raw)
		}
	}
	if len(records) == 0 {
		return nil, entity.ErrNoExportRows
	}

	rows := make([][]string, 0, len(records)+4)
	rows = append(rows,
		[]string{fmt.Sprintf("Colaborador: %s", orDefault(dossier.Operator.CollaboratorID, "N/D"))},
		[]string{fmt.Sprintf("Generado: %s", now.Format("2006-01-02 15:04:05"))},
		[]string{},
	)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Label
	}
	rows = append(rows, header)

	for _, record := range records {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = ResolveField(record, f.Key)
		}
		rows = append(rows, row)
	}

	return &ExportResult{
		Rows:      rows,
		SheetName: "Reporte",
		Filename:  exportFilename(dossier, sel, now),
		Format:    sel.Format,
	}, nil
}

// Export builds the row-set and hands it to the spreadsheet sink. Sink
// failures are surfaced as-is; nothing is retried.
func (ex *Exporter) Export(ctx context.Context, dossier *entity.OperatorDossier, sel entity.ExportSelection) (*ExportResult, error) {
	result, err := FormatExport(dossier, sel, ex.now())
	if err != nil {
		return nil, err
	}

	ex.logger.Info("Writing export",
		"dataset", sel.Dataset,
		"format", result.Format,
		"rows", len(result.Rows),
		"filename", result.Filename)

	if err := ex.sink.WriteRows(ctx, result.Rows, result.SheetName, result.Filename, result.Format); err != nil {
		ex.metrics.ErrorsCount.WithLabelValues("export").Inc()
		return nil, err
	}

	ex.metrics.ExportsGenerated.WithLabelValues(result.Format).Inc()
	return result, nil
}

// ResolveField resolves a field key against a record's raw key/value form.
// The synthetic horas_trabajadas key computes the worked hours; dotted keys
// walk nested maps and short-circuit to empty on any missing segment.
func ResolveField(record map[string]interface{}, key string) string {
	if key == "horas_trabajadas" {
		hours := timeutil.HoursWorked(stringValue(record["entrada"]), stringValue(record["salida"]))
		if hours == nil {
			return ""
		}
		return strconv.FormatFloat(*hours, 'f', 2, 64)
	}

	var current interface{} = record
	for _, segment := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = m[segment]
		if !ok || current == nil {
			return ""
		}
	}
	return stringValue(current)
}

func selectedFields(catalog []ExportField, keys []string) []ExportField {
	wanted := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}
	var fields []ExportField
	for _, f := range catalog {
		if _, ok := wanted[f.Key]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// filterLogEntries applies the optional inclusive day-key range. Entries
// whose effective date cannot be parsed are kept.
func filterLogEntries(entries []entity.LogEntry, from, to string) []entity.LogEntry {
	fromKey := timeutil.DayKey(timeutil.ParseInstant(from))
	toKey := timeutil.DayKey(timeutil.ParseInstant(to))
	if fromKey == "" && toKey == "" {
		return entries
	}

	var filtered []entity.LogEntry
	for _, e := range entries {
		key := timeutil.DayKey(timeutil.ParseInstant(e.EffectiveDate()))
		if key == "" {
			filtered = append(filtered, e)
			continue
		}
		if fromKey != "" && key < fromKey {
			continue
		}
		if toKey != "" && key > toKey {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func exportFilename(dossier *entity.OperatorDossier, sel entity.ExportSelection, now time.Time) string {
	id := dossier.Operator.CollaboratorID
	if id == "" {
		id = "reporte-" + timeutil.Timestamp(now)
	}
	ext := "xlsx"
	if sel.Format == entity.FormatCSV {
		ext = "csv"
	}
	dataset := entity.DatasetServices
	if sel.Dataset == entity.DatasetLogEntries {
		dataset = entity.DatasetLogEntries
	}
	return fmt.Sprintf("expediente-%s-%s.%s", dataset, id, ext)
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
