package engine

import (
	"context"

	"github.com/golang/geo/r2"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// eraseAt removes every annotation on the current page hit by one click:
// highlights whose rectangles contain the point, drawings with a path point
// within the drawing radius, notes with a position within the note radius.
// The whole union is removed in a single store mutation. A click matching
// nothing never touches the store.
func (s *Session) eraseAt(ctx context.Context, client domain.Point) {
	bounds, ok := s.measure()
	if !ok {
		return
	}
	p, ok := ClientToPersisted(client, bounds)
	if !ok {
		return
	}
	hit := r2.Point{X: p.X, Y: p.Y}

	// Radii are specified in display pixels; scale them into the persisted
	// frame so the feel of the eraser does not change with zoom.
	drawingRadius := s.cfg.DrawingEraseRadius / bounds.Scale
	noteRadius := s.cfg.NoteEraseRadius / bounds.Scale
	page := s.state.Page

	keptHighlights := make([]domain.Highlight, 0, len(s.set.Highlights))
	for _, h := range s.set.Highlights {
		if h.Page == page && highlightHit(h, hit) {
			continue
		}
		keptHighlights = append(keptHighlights, h)
	}

	keptDrawings := make([]domain.Drawing, 0, len(s.set.Drawings))
	for _, d := range s.set.Drawings {
		if d.Page == page && drawingHit(d, hit, drawingRadius) {
			continue
		}
		keptDrawings = append(keptDrawings, d)
	}

	keptNotes := make([]domain.Note, 0, len(s.set.Notes))
	for _, n := range s.set.Notes {
		if n.Page == page && pointHit(n.Position, hit, noteRadius) {
			continue
		}
		keptNotes = append(keptNotes, n)
	}

	if len(keptHighlights) == len(s.set.Highlights) &&
		len(keptDrawings) == len(s.set.Drawings) &&
		len(keptNotes) == len(s.set.Notes) {
		return
	}

	s.commit(ctx, func(set *domain.AnnotationSet) {
		set.Highlights = keptHighlights
		set.Drawings = keptDrawings
		set.Notes = keptNotes
	})
}

// highlightHit reports whether the point falls inside any rectangle of the
// highlight.
func highlightHit(h domain.Highlight, p r2.Point) bool {
	for _, rect := range h.Rects {
		if rectToR2(rect).ContainsPoint(p) {
			return true
		}
	}
	return false
}

// drawingHit reports whether any sampled path point lies within radius of p.
func drawingHit(d domain.Drawing, p r2.Point, radius float64) bool {
	for _, point := range d.Paths {
		if pointHit(point, p, radius) {
			return true
		}
	}
	return false
}

func pointHit(point domain.Point, p r2.Point, radius float64) bool {
	return r2.Point{X: point.X, Y: point.Y}.Sub(p).Norm() <= radius
}

func rectToR2(r domain.Rect) r2.Rect {
	return r2.RectFromPoints(
		r2.Point{X: r.X, Y: r.Y},
		r2.Point{X: r.X + r.Width, Y: r.Y + r.Height},
	)
}
