package repository

import (
	"context"

	"expediente-service/internal/domain/entity"
)

// SpreadsheetWriter defines the interface for the tabular export sink. The
// row-set is written in one call; the writer owns serialization only.
type SpreadsheetWriter interface {
	WriteRows(ctx context.Context, rows [][]string, sheetName, filename, format string) error
}

// TextMeasurer wraps text to a width, in the renderer's own metrics. The
// layout engine needs it before any drawing happens.
type TextMeasurer interface {
	MeasureText(text string, width float64) []string
}

// DocumentRenderer defines the primitive operations the document sink
// exposes. The layout engine decides the call order and all coordinates.
type DocumentRenderer interface {
	TextMeasurer
	DrawPanel(x, y, w, h float64, fill, border entity.RGB)
	DrawText(text string, x, y float64, style entity.TextStyle)
	DrawTag(text string, x, y float64, bg, fg entity.RGB)
	AddPage()
	Save(filename string) error
}
