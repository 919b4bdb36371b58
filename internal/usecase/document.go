// internal/usecase/document.go
package usecase

import (
	"fmt"
	"regexp"
	"time"

	"expediente-service/internal/domain/entity"
	"expediente-service/internal/domain/repository"
	"expediente-service/pkg/timeutil"
)

// A4 portrait in millimeters. MaxPageY is the usable height before a page
// break; the remaining strip is the bottom margin.
const (
	pageWidth  = 210.0
	maxPageY   = 285.0
	topMargin  = 12.0
	panelX     = 10.0
	panelWidth = pageWidth - 20

	cardGap         = 4.0
	cardWidth       = (pageWidth - 30) / 2
	serviceCardH    = 28.0
	logCardBaseH    = 22.0
	obsLineH        = 4.0
	cardRowSpacing  = 6.0
	cardReserveSlop = 10.0
)

var dayTokenSplit = regexp.MustCompile(`[,\s]+`)

// ParseDayTokens turns the free-text date input into canonical day keys,
// dropping anything unparseable. An input with no usable date at all is a
// validation failure.
func ParseDayTokens(input string) ([]string, error) {
	var keys []string
	for _, token := range dayTokenSplit.Split(input, -1) {
		if token == "" {
			continue
		}
		if key := timeutil.DayKey(timeutil.ParseInstant(token)); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, entity.ErrNoDayTokens
	}
	return keys, nil
}

// LayoutEngine lays out the exportable documents. It only needs the
// renderer's text metrics up front; drawing happens later, element by
// element.
type LayoutEngine struct {
	measurer repository.TextMeasurer
}

// NewLayoutEngine creates a layout engine over the given text metrics.
func NewLayoutEngine(measurer repository.TextMeasurer) *LayoutEngine {
	return &LayoutEngine{measurer: measurer}
}

// documentBuilder accumulates elements and tracks the vertical cursor.
type documentBuilder struct {
	elements []entity.PageElement
	y        float64
	pages    int
}

func newDocumentBuilder() *documentBuilder {
	return &documentBuilder{y: topMargin, pages: 1}
}

func (b *documentBuilder) addPage() {
	b.elements = append(b.elements, entity.PageElement{Kind: entity.ElementPageBreak})
	b.y = topMargin
	b.pages++
}

func (b *documentBuilder) ensureSpace(extra float64) {
	if b.y+extra > maxPageY {
		b.addPage()
	}
}

// addPanel draws a rounded panel of the given height at the cursor and
// returns its top edge.
func (b *documentBuilder) addPanel(height float64) float64 {
	b.ensureSpace(height)
	b.elements = append(b.elements, entity.PageElement{
		Kind:   entity.ElementPanel,
		X:      panelX,
		Y:      b.y,
		W:      panelWidth,
		H:      height,
		Fill:   entity.ColorCard,
		Border: entity.ColorAccent,
	})
	return b.y
}

func (b *documentBuilder) text(text string, x, y float64, style entity.TextStyle) {
	b.elements = append(b.elements, entity.PageElement{
		Kind:  entity.ElementText,
		X:     x,
		Y:     y,
		Text:  text,
		Style: style,
	})
}

func (b *documentBuilder) tag(text string, anchorX, y float64, bg, fg entity.RGB) {
	b.elements = append(b.elements, entity.PageElement{
		Kind:  entity.ElementTag,
		X:     anchorX,
		Y:     y,
		Text:  text,
		Fill:  bg,
		Style: entity.TextStyle{Size: 9.5, Bold: true, Color: fg},
	})
}

// addLabelValue writes one "label: value" row and advances the cursor.
func (b *documentBuilder) addLabelValue(label, value string) {
	if value == "" {
		value = "N/D"
	}
	b.text(label, 16, b.y, entity.TextStyle{Size: 10.5, Bold: true, Color: entity.ColorText})
	b.text(value, 56, b.y, entity.TextStyle{Size: 10.5, Color: entity.ColorMuted})
	b.y += 6
}

func (b *documentBuilder) addSectionTitle(title string) {
	b.ensureSpace(14)
	b.text(title, 12, b.y, entity.TextStyle{Size: 13, Bold: true, Color: entity.ColorText})
	b.y += 6
}

// cardGrid is the running placement state of a two-column card section:
// vertical cursor and current column, threaded explicitly through each
// placement.
type cardGrid struct {
	y   float64
	col int
}

func (b *documentBuilder) cardX(g cardGrid) float64 {
	return 12 + float64(g.col)*(cardWidth+cardGap)
}

// placeCard reserves room for a card of the given height, breaking the page
// when it would overflow, draws the card panel and returns its origin plus
// the updated grid state.
func (b *documentBuilder) placeCard(g cardGrid, height float64) (top, x float64, out cardGrid) {
	if g.y+height+cardReserveSlop > maxPageY {
		b.addPage()
		g.y = topMargin
		g.col = 0
	}
	x = b.cardX(g)
	top = g.y
	b.elements = append(b.elements, entity.PageElement{
		Kind:   entity.ElementPanel,
		X:      x,
		Y:      top,
		W:      cardWidth,
		H:      height,
		Fill:   entity.ColorCard,
		Border: entity.ColorAccent,
	})
	return top, x, g
}

// advanceCard moves to the next column, dropping to a new row after the
// second card of a row.
func advanceCard(g cardGrid, rowHeight float64) cardGrid {
	g.col = (g.col + 1) % 2
	if g.col == 0 {
		g.y += rowHeight + cardRowSpacing
	}
	return g
}

// closeRow finishes a trailing partial row so the next section starts below
// a full row height.
func closeRow(g cardGrid, rowHeight float64) cardGrid {
	if g.col == 1 {
		g.col = 0
		g.y += rowHeight + cardRowSpacing
	}
	return g
}

func formatDisplayDate(raw string) string {
	if key := timeutil.DayKey(timeutil.ParseInstant(raw)); key != "" {
		return key
	}
	return orDefault(raw, "N/D")
}

func formatDisplayTime(raw string) string {
	if t := timeutil.ParseInstant(raw); t != nil {
		return t.Format("15:04")
	}
	return orDefault(raw, "N/D")
}

// BuildEvidenceDocument lays out the date-filtered evidence report: header,
// request summary, then two-column card grids for matching services and log
// entries.
func (le *LayoutEngine) BuildEvidenceDocument(
	dossier *entity.OperatorDossier,
	dayKeys []string,
	generatedBy string,
	now time.Time,
) (*entity.DocumentLayout, error) {
	if len(dayKeys) == 0 {
		return nil, entity.ErrNoDayTokens
	}

	selected := make(map[string]struct{}, len(dayKeys))
	for _, k := range dayKeys {
		selected[k] = struct{}{}
	}

	var services []entity.ServiceRecord
	for _, s := range dossier.Services.Records {
		key := timeutil.DayKey(timeutil.ParseInstant(s.ServiceDate))
		if _, ok := selected[key]; ok && key != "" {
			services = append(services, s)
		}
	}
	var logEntries []entity.LogEntry
	for _, e := range dossier.Log.Records {
		key := timeutil.DayKey(timeutil.ParseInstant(e.EffectiveDate()))
		if _, ok := selected[key]; ok && key != "" {
			logEntries = append(logEntries, e)
		}
	}
	if len(services) == 0 && len(logEntries) == 0 {
		return nil, entity.ErrNoEvidenceRows
	}

	b := newDocumentBuilder()

	// Header panel
	headerTop := b.addPanel(30)
	b.y = headerTop + 10
	b.text("Evidencia de dias trabajados", 16, b.y,
		entity.TextStyle{Size: 15, Bold: true, Color: entity.ColorText})
	b.y += 7
	operator := dossier.Operator
	b.text(fmt.Sprintf("Operador: %s | Siglas: %s | Estacion: %s",
		orDefault(operator.FullName(), "N/D"),
		orDefault(operator.Initials, "N/D"),
		orDefault(operator.Station, "N/D")),
		16, b.y, entity.TextStyle{Size: 11, Color: entity.ColorText})
	b.y = headerTop + 30

	// Summary panel
	summaryTop := b.addPanel(46)
	b.y = summaryTop + 10
	b.addLabelValue("No. Colaborador", operator.CollaboratorID)
	b.addLabelValue("Fechas solicitadas", joinKeys(dayKeys))
	b.addLabelValue("Generado por", generatedBy)
	b.addLabelValue("Generado en", now.Format("2006-01-02 15:04:05"))
	b.addLabelValue("Servicios en fechas", fmt.Sprintf("%d", len(services)))
	b.addLabelValue("Bitacora en fechas", fmt.Sprintf("%d", len(logEntries)))
	b.y = summaryTop + 46 + 6

	if len(services) > 0 {
		b.addSectionTitle("Servicios")
		grid := cardGrid{y: b.y + 4}
		for idx, s := range services {
			var top, x float64
			top, x, grid = b.placeCard(grid, serviceCardH)
			innerY := top + 9
			b.text(fmt.Sprintf("%d. %s | Vuelo %s", idx+1,
				formatDisplayDate(s.ServiceDate), orDefault(s.FlightNumber, "N/D")),
				x+4, innerY, entity.TextStyle{Size: 10.5, Bold: true, Color: entity.ColorText})
			b.tag(orDefault(s.Status, "N/D"), x+cardWidth-2, innerY, entity.ColorAccentAlt, entity.ColorWhite)
			innerY += 6
			muted := entity.TextStyle{Size: 9.8, Color: entity.ColorMuted}
			b.text(fmt.Sprintf("%s | PNR: %s | Silla: %s",
				orDefault(s.ServiceType, "N/D"), orDefault(s.PNR, "N/D"), orDefault(s.SeatType, "N/D")),
				x+4, innerY, muted)
			innerY += 5
			b.text(fmt.Sprintf("Ori/Dest: %s -> %s",
				orDefault(s.Origin, "N/D"), orDefault(s.Destination, "N/D")),
				x+4, innerY, muted)
			innerY += 5
			b.text(fmt.Sprintf("Horario: %s - %s | Est: %s",
				formatDisplayTime(s.StartTime), formatDisplayTime(s.EndTime), orDefault(s.Station, "N/D")),
				x+4, innerY, muted)
			grid = advanceCard(grid, serviceCardH)
		}
		grid = closeRow(grid, serviceCardH)
		b.y = grid.y + 6
	}

	if len(logEntries) > 0 {
		b.addSectionTitle("Bitacora")
		grid := cardGrid{y: b.y + 4}
		for idx, e := range logEntries {
			var obsLines []string
			if e.Observations != "" {
				obsLines = le.measurer.MeasureText("Obs: "+e.Observations, cardWidth-10)
			}
			cardHeight := logCardBaseH + float64(len(obsLines))*obsLineH

			var top, x float64
			top, x, grid = b.placeCard(grid, cardHeight)
			innerY := top + 9
			b.text(fmt.Sprintf("%d. %s", idx+1, formatDisplayDate(e.EffectiveDate())),
				x+4, innerY, entity.TextStyle{Size: 10.5, Bold: true, Color: entity.ColorText})
			tagColor := entity.ColorAccent
			if ClosedBySystem(e.Status) {
				tagColor = entity.ColorDanger
			}
			b.tag(orDefault(e.Status, "N/A"), x+cardWidth-2, innerY, tagColor, entity.ColorWhite)
			innerY += 6
			muted := entity.TextStyle{Size: 9.8, Color: entity.ColorMuted}
			b.text(fmt.Sprintf("Entrada: %s | Salida: %s | Horas: %s",
				orDefault(e.Entry, "N/D"), orDefault(e.Exit, "N/D"), formatHours(e)),
				x+4, innerY, muted)
			innerY += 5
			b.text(fmt.Sprintf("Silla: %s | Registro: %s | Est: %s",
				orDefault(e.SeatNumber, "N/A"), orDefault(e.RegisteredBy, "N/A"), orDefault(e.Station, "N/D")),
				x+4, innerY, muted)
			innerY += 5
			for _, line := range obsLines {
				b.text(line, x+4, innerY, muted)
				innerY += obsLineH
			}
			grid = advanceCard(grid, cardHeight)
		}
		grid = closeRow(grid, logCardBaseH+2)
		b.y = grid.y + 4
	}

	return &entity.DocumentLayout{
		Filename: documentFilename("evidencia", dossier, now),
		Elements: b.elements,
		Pages:    b.pages,
	}, nil
}

// BuildSummaryDocument lays out the full-dossier summary: header panel plus
// one block per dashboard section. Pagination is handled by the same cursor.
func (le *LayoutEngine) BuildSummaryDocument(
	dossier *entity.OperatorDossier,
	view *ExpedienteView,
	now time.Time,
) *entity.DocumentLayout {
	b := newDocumentBuilder()
	operator := dossier.Operator

	headerTop := b.addPanel(30)
	b.y = headerTop + 10
	b.text("Expediente de operador", 16, b.y,
		entity.TextStyle{Size: 15, Bold: true, Color: entity.ColorText})
	b.y += 7
	b.text(fmt.Sprintf("Operador: %s | Colaborador #%s | Estacion: %s",
		orDefault(operator.FullName(), "N/D"),
		orDefault(operator.CollaboratorID, "N/D"),
		orDefault(operator.Station, "N/D")),
		16, b.y, entity.TextStyle{Size: 11, Color: entity.ColorText})
	b.y = headerTop + 30

	summaryTop := b.addPanel(46)
	b.y = summaryTop + 10
	b.addLabelValue("Servicios", fmt.Sprintf("%d", dossier.Services.Total))
	b.addLabelValue("Bitacora", fmt.Sprintf("%d", dossier.Log.Total))
	b.addLabelValue("Amonestaciones", fmt.Sprintf("%d", len(dossier.Reprimands)))
	b.addLabelValue("Pulseras", fmt.Sprintf("%d", len(dossier.Bracelets)))
	b.addLabelValue("Encuestas", fmt.Sprintf("%d/%d (%.1f%%)",
		view.Coverage.WithSurvey, view.Coverage.Total, view.Coverage.CoveragePercent))
	if view.Rating != nil {
		b.addLabelValue("Calificacion", fmt.Sprintf("%.1f / 5 (%d/%d excelentes)",
			view.Rating.Score, view.Rating.Excellent, view.Rating.Total))
	} else {
		b.addLabelValue("Calificacion", "N/D")
	}
	b.y = summaryTop + 46 + 6

	if len(view.StatusList) > 0 {
		b.addSectionTitle("Estatus de servicios")
		for _, share := range view.StatusList {
			b.ensureSpace(6)
			b.text(fmt.Sprintf("%s: %d (%.1f%%)", share.Status, share.Count, share.Percent),
				16, b.y, entity.TextStyle{Size: 10, Color: entity.ColorMuted})
			b.y += 5
		}
		b.y += 4
	}

	if len(view.Alerts) > 0 {
		b.addSectionTitle("Alertas")
		for _, alert := range view.Alerts {
			b.ensureSpace(8)
			color := entity.ColorAccentAlt
			if alert.Type == entity.AlertWarning {
				color = entity.ColorDanger
			}
			b.tag(alert.Type, pageWidth-14, b.y, color, entity.ColorWhite)
			for _, line := range le.measurer.MeasureText(alert.Message, panelWidth-40) {
				b.text(line, 16, b.y, entity.TextStyle{Size: 10, Color: entity.ColorText})
				b.y += 5
			}
			b.y += 2
		}
		b.y += 4
	}

	if len(view.Streaks) > 0 {
		b.addSectionTitle("Coincidencias (vuelos consecutivos)")
		for _, streak := range view.Streaks {
			b.ensureSpace(8)
			b.text(fmt.Sprintf("Vuelo %s: %d dias seguidos, del %s al %s (%s -> %s)",
				streak.FlightNumber, streak.Days, streak.Start, streak.End,
				orDefault(streak.Origin, "N/D"), orDefault(streak.Destination, "N/D")),
				16, b.y, entity.TextStyle{Size: 10, Color: entity.ColorText})
			if streak.Highlight {
				b.tag("3+ seguidos", pageWidth-14, b.y, entity.ColorDanger, entity.ColorWhite)
			}
			b.y += 6
		}
	}

	return &entity.DocumentLayout{
		Filename: documentFilename("expediente", dossier, now),
		Elements: b.elements,
		Pages:    b.pages,
	}
}

// Render replays a laid-out document onto the renderer sink and saves it.
func Render(layout *entity.DocumentLayout, renderer repository.DocumentRenderer) error {
	for _, el := range layout.Elements {
		switch el.Kind {
		case entity.ElementPageBreak:
			renderer.AddPage()
		case entity.ElementPanel:
			renderer.DrawPanel(el.X, el.Y, el.W, el.H, el.Fill, el.Border)
		case entity.ElementText:
			renderer.DrawText(el.Text, el.X, el.Y, el.Style)
		case entity.ElementTag:
			renderer.DrawTag(el.Text, el.X, el.Y, el.Fill, el.Style.Color)
		}
	}
	return renderer.Save(layout.Filename)
}

func formatHours(e entity.LogEntry) string {
	hours := timeutil.HoursWorked(e.Entry, e.Exit)
	if hours == nil {
		return "N/D"
	}
	return fmt.Sprintf("%.2f h", *hours)
}

func joinKeys(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}

func documentFilename(prefix string, dossier *entity.OperatorDossier, now time.Time) string {
	id := dossier.Operator.CollaboratorID
	if id == "" {
		id = "reporte-" + timeutil.Timestamp(now)
	}
	return fmt.Sprintf("%s-%s.pdf", prefix, id)
}
