// internal/domain/entity/document.go
package entity

// RGB is a 0-255 color triple for the document renderer.
type RGB [3]int

// Palette used by the generated documents, matching the on-screen theme.
var (
	ColorCard      = RGB{26, 32, 55}
	ColorAccent    = RGB{124, 58, 237}
	ColorAccentAlt = RGB{59, 130, 246}
	ColorText      = RGB{226, 232, 240}
	ColorMuted     = RGB{148, 163, 184}
	ColorDanger    = RGB{248, 113, 113}
	ColorWhite     = RGB{255, 255, 255}
)

// TextStyle controls a single text draw.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color RGB
}

// Page element kinds.
const (
	ElementPanel     = "panel"
	ElementText      = "text"
	ElementTag       = "tag"
	ElementPageBreak = "pageBreak"
)

// PageElement is one drawable instruction. The layout engine owns all
// coordinates and page-break decisions; a renderer replays elements in order.
type PageElement struct {
	Kind string

	// Panel geometry (panel) or anchor position (text, tag).
	X, Y, W, H float64

	Text  string
	Style TextStyle

	// Fill/border for panels, background/foreground for tags.
	Fill   RGB
	Border RGB
}

// DocumentLayout is a fully laid out, renderer-ready document.
type DocumentLayout struct {
	Filename string
	Elements []PageElement
	Pages    int
}
