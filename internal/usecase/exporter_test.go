package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"expediente-service/internal/domain/entity"
	"expediente-service/pkg/logger"
	"expediente-service/pkg/metrics"
)

const exportDossierJSON = `{
  "operador": {"nombre": "Ana", "apellidos": "Lopez", "noColaborador": "141", "estacion": "MEX"},
  "servicios": {
    "total": 2,
    "registros": [
      {"_id": "s1", "fechaInput": "2025-10-25", "noVuelo": "AM100", "statusServicio": "CONCLUIDO",
       "pnr": "ABC123", "encuesta": {"calificacion": "EXCELENTE", "agente": "MR"}},
      {"_id": "s2", "fechaInput": "2025-10-26", "noVuelo": "AM101", "statusServicio": "ABIERTO", "pnr": "DEF456"}
    ],
    "resumenPorDia": [{"fecha": "2025-10-25", "total": 1}]
  },
  "bitacora": {
    "total": 3,
    "registros": [
      {"_id": "b1", "entrada": "2025-10-25T08:00", "salida": "2025-10-25T17:30", "status": "CERRADO"},
      {"_id": "b2", "entrada": "2025-10-28T08:00", "salida": "2025-10-28T16:00", "status": "CERRADO POR SISTEMA"},
      {"_id": "b3", "fecha_registro": "2025-10-30", "status": "ABIERTO"}
    ]
  },
  "amonestaciones": []
}`

func exportDossier(t *testing.T) *entity.OperatorDossier {
	t.Helper()
	var dossier entity.OperatorDossier
	require.NoError(t, json.Unmarshal([]byte(exportDossierJSON), &dossier))
	return &dossier
}

func TestFormatExportEmptyFields(t *testing.T) {
	_, err := FormatExport(exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetServices,
	}, time.Now())
	require.ErrorIs(t, err, entity.ErrNoExportFields)
}

func TestFormatExportNoRowsAfterRange(t *testing.T) {
	_, err := FormatExport(exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetLogEntries,
		Fields:  []string{"entrada"},
		From:    "2026-01-01",
		To:      "2026-01-31",
	}, time.Now())
	require.ErrorIs(t, err, entity.ErrNoExportRows)

	// The two failures are distinct validation errors.
	require.NotErrorIs(t, err, entity.ErrNoExportFields)
}

func TestFormatExportServiceRows(t *testing.T) {
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.Local)
	result, err := FormatExport(exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetServices,
		Fields:  []string{"noVuelo", "fechaInput", "encuesta.calificacion", "encuesta.comentarios"},
		Format:  entity.FormatSpreadsheet,
	}, now)
	require.NoError(t, err)

	require.Equal(t, "Reporte", result.SheetName)
	require.Equal(t, "expediente-servicios-141.xlsx", result.Filename)

	// Header block: collaborator line, generation line, separator.
	require.Equal(t, []string{"Colaborador: 141"}, result.Rows[0])
	require.Equal(t, []string{"Generado: 2025-11-01 12:00:00"}, result.Rows[1])
	require.Empty(t, result.Rows[2])

	// Label row keeps catalog order, not selection order.
	require.Equal(t, []string{"Fecha servicio", "No. Vuelo", "Calificacion encuesta", "Comentarios encuesta"}, result.Rows[3])

	require.Len(t, result.Rows, 6)
	require.Equal(t, []string{"2025-10-25", "AM100", "EXCELENTE", ""}, result.Rows[4])
	// Missing nested segment resolves to empty, not a crash.
	require.Equal(t, []string{"2025-10-26", "AM101", "", ""}, result.Rows[5])
}

func TestFormatExportSyntheticHours(t *testing.T) {
	result, err := FormatExport(exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetLogEntries,
		Fields:  []string{"entrada", "horas_trabajadas"},
		Format:  entity.FormatCSV,
	}, time.Now())
	require.NoError(t, err)

	require.Equal(t, "expediente-bitacora-141.csv", result.Filename)
	require.Equal(t, "9.50", result.Rows[4][1])
	require.Equal(t, "8.00", result.Rows[5][1])
	// No entry/exit pair: hours stay empty.
	require.Equal(t, "", result.Rows[6][1])
}

func TestFormatExportInclusiveRangeKeepsUndated(t *testing.T) {
	result, err := FormatExport(exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetLogEntries,
		Fields:  []string{"status"},
		From:    "2025-10-28",
		To:      "2025-10-28",
	}, time.Now())
	require.NoError(t, err)

	// b2 matches the inclusive bound; b3 is dated by fecha_registro and is
	// outside the range; an entry with no parseable date would be kept.
	require.Len(t, result.Rows, 5)
	require.Equal(t, "CERRADO POR SISTEMA", result.Rows[4][0])
}

func TestFormatExportDeterministic(t *testing.T) {
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.Local)
	sel := entity.ExportSelection{
		Dataset: entity.DatasetServices,
		Fields:  []string{"noVuelo", "pnr"},
	}
	dossier := exportDossier(t)

	first, err := FormatExport(dossier, sel, now)
	require.NoError(t, err)
	second, err := FormatExport(dossier, sel, now)
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(first, second), "identical inputs produced different row-sets")
}

type recordingSink struct {
	rows     [][]string
	sheet    string
	filename string
	format   string
	err      error
}

func (s *recordingSink) WriteRows(_ context.Context, rows [][]string, sheet, filename, format string) error {
	s.rows, s.sheet, s.filename, s.format = rows, sheet, filename, format
	return s.err
}

func TestExporterWritesToSink(t *testing.T) {
	sink := &recordingSink{}
	ex := NewExporter(sink, logger.NewNopLogger(), metrics.NewMetrics("test_exporter"))

	result, err := ex.Export(context.Background(), exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetServices,
		Fields:  []string{"noVuelo"},
		Format:  entity.FormatCSV,
	})
	require.NoError(t, err)
	require.Equal(t, result.Filename, sink.filename)
	require.Equal(t, "csv", sink.format)
	require.Equal(t, len(result.Rows), len(sink.rows))
}

func TestExporterSurfacesSinkError(t *testing.T) {
	sinkErr := errors.New("disk full")
	ex := NewExporter(&recordingSink{err: sinkErr}, logger.NewNopLogger(), metrics.NewMetrics("test_exporter_err"))

	_, err := ex.Export(context.Background(), exportDossier(t), entity.ExportSelection{
		Dataset: entity.DatasetServices,
		Fields:  []string{"noVuelo"},
	})
	require.ErrorIs(t, err, sinkErr)
}

func TestResolveFieldDottedPath(t *testing.T) {
	record := map[string]interface{}{
		"encuesta": map[string]interface{}{"calificacion": "EXCELENTE"},
		"noVuelo":  "AM100",
		"total":    float64(3),
	}

	tests := []struct {
		key  string
		want string
	}{
		{"noVuelo", "AM100"},
		{"encuesta.calificacion", "EXCELENTE"},
		{"encuesta.agente", ""},
		{"missing.path.deep", ""},
		{"noVuelo.nested", ""},
		{"total", "3"},
	}
	for _, tt := range tests {
		if got := ResolveField(record, tt.key); got != tt.want {
			t.Errorf("ResolveField(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
