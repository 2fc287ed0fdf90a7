package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

func TestToPageRelative(t *testing.T) {
	bounds := PageBounds{Left: 100, Top: 50, Width: 600, Height: 800, Scale: 1}

	p, ok := ToPageRelative(domain.Point{X: 160, Y: 90}, bounds)
	if !ok {
		t.Fatal("expected valid bounds to map")
	}
	if p.X != 60 || p.Y != 40 {
		t.Errorf("expected (60, 40), got %+v", p)
	}
}

func TestToPageRelative_NoBounds(t *testing.T) {
	if _, ok := ToPageRelative(domain.Point{X: 1, Y: 1}, PageBounds{}); ok {
		t.Error("expected zero bounds to drop the point")
	}
}

func TestPersistedDisplayRoundTrip(t *testing.T) {
	p := domain.Point{X: 30, Y: 45}
	got := ToPersisted(ToDisplay(p, 2.5), 2.5)
	if got != p {
		t.Errorf("round trip drifted: %+v != %+v", got, p)
	}
}

func TestDisplayRect_ScaleInvariance(t *testing.T) {
	// A rect recorded at scale 1.0 redraws at scale 2.0 as a pure multiply.
	got := DisplayRect(domain.Rect{X: 10, Y: 10, Width: 50, Height: 12}, 2.0)
	want := domain.Rect{X: 20, Y: 20, Width: 100, Height: 24}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestClientToPersisted(t *testing.T) {
	bounds := PageBounds{Left: 100, Top: 50, Width: 600, Height: 800, Scale: 2}
	p, ok := ClientToPersisted(domain.Point{X: 140, Y: 70}, bounds)
	if !ok {
		t.Fatal("expected mapping to succeed")
	}
	if p.X != 20 || p.Y != 10 {
		t.Errorf("expected (20, 10), got %+v", p)
	}
}

func TestRectsFromSelection_MultiLine(t *testing.T) {
	bounds := PageBounds{Left: 100, Top: 50, Width: 600, Height: 800, Scale: 2}
	sel := Selection{
		Text: "wrapped selection",
		Fragments: []domain.Rect{
			{X: 120, Y: 60, Width: 200, Height: 24},
			{X: 100, Y: 84, Width: 80, Height: 24},
		},
	}

	got := RectsFromSelection(sel, bounds)
	want := []domain.Rect{
		{X: 10, Y: 5, Width: 100, Height: 12},
		{X: 0, Y: 17, Width: 40, Height: 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fragment mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestRectsFromSelection_NoBounds(t *testing.T) {
	sel := Selection{Text: "x", Fragments: []domain.Rect{{X: 1, Y: 1, Width: 1, Height: 1}}}
	if got := RectsFromSelection(sel, PageBounds{}); got != nil {
		t.Errorf("expected nil for unrendered page, got %v", got)
	}
}
