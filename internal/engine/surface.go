package engine

import (
	"image/color"
	"log"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// highlightAlpha is the translucency of highlight fills.
const highlightAlpha = 0x80

// FillRect is one translucent filled rectangle, in display coordinates.
type FillRect struct {
	Rect  domain.Rect `json:"rect"`
	Color color.NRGBA `json:"color"`
}

// Stroke is one polyline drawn with round caps and joins, in display
// coordinates.
type Stroke struct {
	Points    []domain.Point `json:"points"`
	Color     color.NRGBA    `json:"color"`
	LineWidth float64        `json:"lineWidth"`
}

// NoteMarker is a positioned note anchor. Notes are not drawn on the overlay
// itself; each marker needs an independent hit target for its own
// click-to-view behavior.
type NoteMarker struct {
	ID       string       `json:"id"`
	Position domain.Point `json:"position"`
	Text     string       `json:"text"`
}

// DisplayList is everything the overlay draws for one page at one scale.
// Highlights come before strokes, so ink is never hidden under a highlight
// fill. InProgress is the stroke currently being dragged; it is display
// feedback only and is not yet an annotation.
type DisplayList struct {
	Bounds     PageBounds   `json:"bounds"`
	Highlights []FillRect   `json:"highlights"`
	Strokes    []Stroke     `json:"strokes"`
	InProgress *Stroke      `json:"inProgress,omitempty"`
	Notes      []NoteMarker `json:"notes"`
}

// Surface keeps the overlay display list in registration with the rendered
// page. Every redraw re-measures the page bounds and rebuilds the list from
// scratch.
type Surface struct {
	renderer PageRenderer
	list     DisplayList
}

// NewSurface creates a surface over renderer.
func NewSurface(renderer PageRenderer) *Surface {
	return &Surface{renderer: renderer}
}

// List returns the most recently built display list.
func (s *Surface) List() DisplayList {
	return s.list
}

// Redraw rebuilds the display list for page from set. It runs on page render
// completion, page and scale changes and every annotation mutation. Before
// the page has rendered it just clears the list. A panic while building is
// recovered and that redraw cycle skipped, so a bad record cannot take the
// viewer down.
func (s *Surface) Redraw(set *domain.AnnotationSet, page int, inProgress []domain.Point, inProgressColor string, lineWidth float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("surface: redraw skipped: %v", r)
		}
	}()

	bounds, ok := s.renderer.PageBounds()
	if !ok || !bounds.Valid() || set == nil {
		s.list = DisplayList{}
		return
	}
	scale := bounds.Scale

	list := DisplayList{
		Bounds:     bounds,
		Highlights: []FillRect{},
		Strokes:    []Stroke{},
		Notes:      []NoteMarker{},
	}

	for _, h := range set.Highlights {
		if h.Page != page {
			continue
		}
		fill := fillColor(h.Color)
		for _, r := range h.Rects {
			list.Highlights = append(list.Highlights, FillRect{Rect: DisplayRect(r, scale), Color: fill})
		}
	}

	for _, d := range set.Drawings {
		if d.Page != page || len(d.Paths) < 2 {
			continue
		}
		points := make([]domain.Point, len(d.Paths))
		for i, p := range d.Paths {
			points[i] = ToDisplay(p, scale)
		}
		list.Strokes = append(list.Strokes, Stroke{
			Points:    points,
			Color:     strokeColor(d.Color),
			LineWidth: d.LineWidth * scale,
		})
	}

	for _, n := range set.Notes {
		if n.Page != page {
			continue
		}
		list.Notes = append(list.Notes, NoteMarker{
			ID:       n.ID,
			Position: ToDisplay(n.Position, scale),
			Text:     n.Text,
		})
	}

	if len(inProgress) > 0 {
		points := make([]domain.Point, len(inProgress))
		for i, p := range inProgress {
			points[i] = ToDisplay(p, scale)
		}
		list.InProgress = &Stroke{
			Points:    points,
			Color:     strokeColor(inProgressColor),
			LineWidth: lineWidth * scale,
		}
	}

	s.list = list
}

// fillColor parses an RGB hex string and applies the highlight translucency.
// An unparseable color falls back to yellow instead of aborting the redraw.
func fillColor(hex string) color.NRGBA {
	c := parseColor(hex)
	c.A = highlightAlpha
	return c
}

func strokeColor(hex string) color.NRGBA {
	return parseColor(hex)
}

func parseColor(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex("#ffff00")
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
