package engine

import (
	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// PageBounds is a snapshot of the rendered page surface: the client-space
// position of its top-left corner, its rendered pixel size and the scale it
// was rendered at. Bounds change with every scroll, zoom and layout reflow,
// so they must be re-queried from the renderer at the moment of use, never
// cached across a render callback.
type PageBounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Scale  float64
}

// Valid reports whether the bounds describe a rendered page.
func (b PageBounds) Valid() bool {
	return b.Width > 0 && b.Height > 0 && b.Scale > 0
}

// ToPageRelative translates a client-space point into page-relative display
// coordinates. ok is false when the page has not been rendered; the calling
// gesture is then dropped without creating a partial annotation.
func ToPageRelative(client domain.Point, b PageBounds) (domain.Point, bool) {
	if !b.Valid() {
		return domain.Point{}, false
	}
	return domain.Point{X: client.X - b.Left, Y: client.Y - b.Top}, true
}

// ToPersisted converts a page-relative display point into the persisted
// frame by dividing out the current scale, so stored geometry stays valid
// across zoom changes.
func ToPersisted(p domain.Point, scale float64) domain.Point {
	return domain.Point{X: p.X / scale, Y: p.Y / scale}
}

// ToDisplay converts a persisted point back into display coordinates at the
// current scale. Redraw after a zoom is a pure multiply.
func ToDisplay(p domain.Point, scale float64) domain.Point {
	return domain.Point{X: p.X * scale, Y: p.Y * scale}
}

// DisplayRect scales a persisted rectangle into display coordinates.
func DisplayRect(r domain.Rect, scale float64) domain.Rect {
	return domain.Rect{
		X:      r.X * scale,
		Y:      r.Y * scale,
		Width:  r.Width * scale,
		Height: r.Height * scale,
	}
}

// ClientToPersisted runs both translation steps for one gesture point.
func ClientToPersisted(client domain.Point, b PageBounds) (domain.Point, bool) {
	p, ok := ToPageRelative(client, b)
	if !ok {
		return domain.Point{}, false
	}
	return ToPersisted(p, b.Scale), true
}

// Selection is a snapshot of the renderer's native text selection: the
// selected text plus one client-space rectangle per visual line fragment.
type Selection struct {
	Text      string
	Fragments []domain.Rect
}

// RectsFromSelection maps every line fragment of a selection into the
// persisted frame, preserving order. A wrapped selection keeps one rectangle
// per line; collapsing it into a single bounding box would paint over the
// text between the fragments.
func RectsFromSelection(sel Selection, b PageBounds) []domain.Rect {
	if !b.Valid() || len(sel.Fragments) == 0 {
		return nil
	}
	rects := make([]domain.Rect, 0, len(sel.Fragments))
	for _, frag := range sel.Fragments {
		rects = append(rects, domain.Rect{
			X:      (frag.X - b.Left) / b.Scale,
			Y:      (frag.Y - b.Top) / b.Scale,
			Width:  frag.Width / b.Scale,
			Height: frag.Height / b.Scale,
		})
	}
	return rects
}
