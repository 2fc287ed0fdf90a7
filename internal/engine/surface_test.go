package engine

import (
	"testing"
	"time"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

func surfaceSet() *domain.AnnotationSet {
	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	set := domain.NewAnnotationSet()
	set.Highlights = append(set.Highlights, domain.Highlight{
		ID: "h1", Page: 1, Text: "hello", Color: "#ffff00",
		Rects:     []domain.Rect{{X: 10, Y: 10, Width: 50, Height: 12}},
		CreatedAt: created,
	})
	set.Drawings = append(set.Drawings, domain.Drawing{
		ID: "d1", Page: 1, Color: "#ff0000", LineWidth: 2,
		Paths:     []domain.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		CreatedAt: created,
	})
	set.Notes = append(set.Notes, domain.Note{
		ID: "n1", Page: 1, Text: "note", Position: domain.Point{X: 5, Y: 6},
		CreatedAt: created,
	})
	return set
}

func TestSurface_RedrawBeforeRenderIsNoOp(t *testing.T) {
	renderer := &fakeRenderer{pageCount: 1}
	surface := NewSurface(renderer)

	surface.Redraw(surfaceSet(), 1, nil, "", 2)

	list := surface.List()
	if len(list.Highlights) != 0 || len(list.Strokes) != 0 || len(list.Notes) != 0 {
		t.Errorf("expected empty list before first render, got %+v", list)
	}
}

func TestSurface_ScaleInvariantRedraw(t *testing.T) {
	renderer := &fakeRenderer{
		pageCount: 1,
		rendered:  true,
		bounds:    PageBounds{Width: 600, Height: 800, Scale: 2.0},
	}
	surface := NewSurface(renderer)

	surface.Redraw(surfaceSet(), 1, nil, "", 2)
	list := surface.List()

	if len(list.Highlights) != 1 {
		t.Fatalf("expected one highlight fill, got %d", len(list.Highlights))
	}
	want := domain.Rect{X: 20, Y: 20, Width: 100, Height: 24}
	if list.Highlights[0].Rect != want {
		t.Errorf("expected fill at %+v, got %+v", want, list.Highlights[0].Rect)
	}
	if a := list.Highlights[0].Color.A; a != highlightAlpha {
		t.Errorf("expected translucent fill, got alpha %d", a)
	}

	if len(list.Strokes) != 1 {
		t.Fatalf("expected one stroke, got %d", len(list.Strokes))
	}
	stroke := list.Strokes[0]
	if stroke.Points[0] != (domain.Point{X: 2, Y: 4}) || stroke.Points[1] != (domain.Point{X: 6, Y: 8}) {
		t.Errorf("stroke points not scaled: %+v", stroke.Points)
	}
	if stroke.LineWidth != 4 {
		t.Errorf("expected line width scaled to 4, got %v", stroke.LineWidth)
	}

	if len(list.Notes) != 1 {
		t.Fatalf("expected one note marker, got %d", len(list.Notes))
	}
	if list.Notes[0].Position != (domain.Point{X: 10, Y: 12}) {
		t.Errorf("note marker not scaled: %+v", list.Notes[0].Position)
	}
}

func TestSurface_PageIsolation(t *testing.T) {
	renderer := &fakeRenderer{
		pageCount: 2,
		rendered:  true,
		bounds:    PageBounds{Width: 600, Height: 800, Scale: 1.0},
	}
	surface := NewSurface(renderer)

	surface.Redraw(surfaceSet(), 2, nil, "", 2)
	list := surface.List()
	if len(list.Highlights)+len(list.Strokes)+len(list.Notes) != 0 {
		t.Errorf("annotations of page 1 leaked into page 2 draw pass: %+v", list)
	}
}

func TestSurface_InProgressStroke(t *testing.T) {
	renderer := &fakeRenderer{
		pageCount: 1,
		rendered:  true,
		bounds:    PageBounds{Width: 600, Height: 800, Scale: 2.0},
	}
	surface := NewSurface(renderer)

	surface.Redraw(domain.NewAnnotationSet(), 1, []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, "#00ff00", 3)
	list := surface.List()

	if list.InProgress == nil {
		t.Fatal("expected an in-progress stroke")
	}
	if len(list.Strokes) != 0 {
		t.Error("in-progress stroke must not appear as a committed stroke")
	}
	if list.InProgress.Points[1] != (domain.Point{X: 4, Y: 4}) {
		t.Errorf("in-progress points not scaled: %+v", list.InProgress.Points)
	}
	if list.InProgress.LineWidth != 6 {
		t.Errorf("expected line width 6, got %v", list.InProgress.LineWidth)
	}
}

func TestSurface_SkipsShortDrawings(t *testing.T) {
	renderer := &fakeRenderer{
		pageCount: 1,
		rendered:  true,
		bounds:    PageBounds{Width: 600, Height: 800, Scale: 1.0},
	}
	surface := NewSurface(renderer)

	set := domain.NewAnnotationSet()
	set.Drawings = append(set.Drawings, domain.Drawing{
		ID: "bad", Page: 1, Paths: []domain.Point{{X: 1, Y: 1}}, Color: "#ff0000", LineWidth: 2,
	})
	surface.Redraw(set, 1, nil, "", 2)
	if len(surface.List().Strokes) != 0 {
		t.Error("single-point drawing must not be drawn")
	}
}

func TestSurface_BadColorFallsBack(t *testing.T) {
	renderer := &fakeRenderer{
		pageCount: 1,
		rendered:  true,
		bounds:    PageBounds{Width: 600, Height: 800, Scale: 1.0},
	}
	surface := NewSurface(renderer)

	set := domain.NewAnnotationSet()
	set.Highlights = append(set.Highlights, domain.Highlight{
		ID: "h", Page: 1, Text: "x", Color: "not-a-color",
		Rects: []domain.Rect{{X: 0, Y: 0, Width: 1, Height: 1}},
	})
	surface.Redraw(set, 1, nil, "", 2)
	if len(surface.List().Highlights) != 1 {
		t.Error("expected highlight with fallback color to be drawn")
	}
}
