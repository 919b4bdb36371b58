package repository

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"expediente-service/internal/domain/entity"
	"expediente-service/pkg/logger"
)

// FileSpreadsheetWriter writes export row-sets into a local directory,
// xlsx via excelize, csv via encoding/csv. One call per artifact; a failed
// write leaves no finalized file behind.
type FileSpreadsheetWriter struct {
	dir    string
	logger logger.Logger
}

// NewFileSpreadsheetWriter creates a spreadsheet sink rooted at dir.
func NewFileSpreadsheetWriter(dir string, log logger.Logger) *FileSpreadsheetWriter {
	return &FileSpreadsheetWriter{dir: dir, logger: log}
}

// WriteRows serializes the row-set in the requested format.
func (w *FileSpreadsheetWriter) WriteRows(ctx context.Context, rows [][]string, sheetName, filename, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.dir, filename)

	if format == entity.FormatCSV {
		return w.writeCSV(path, rows)
	}
	return w.writeXLSX(path, sheetName, rows)
}

func (w *FileSpreadsheetWriter) writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (w *FileSpreadsheetWriter) writeXLSX(path, sheetName string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	w.logger.Debug("Saving spreadsheet", "path", path, "rows", len(rows))
	return f.SaveAs(path)
}
