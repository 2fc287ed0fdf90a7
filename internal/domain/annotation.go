package domain

import (
	"context"
	"time"
)

// Highlight covers a completed text selection with one rectangle per visual
// line fragment. Highlights are read-only after creation; they can only be
// removed, never edited.
type Highlight struct {
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Text      string    `json:"text"`
	Color     string    `json:"color"`
	Rects     []Rect    `json:"rects"`
	CreatedAt time.Time `json:"createdAt"`
}

// Drawing is a freehand polyline sampled during one continuous pointer drag.
// A drawing needs at least two points to exist; single-point drags are
// discarded before they ever become a Drawing.
type Drawing struct {
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Paths     []Point   `json:"paths"`
	Color     string    `json:"color"`
	LineWidth float64   `json:"lineWidth"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note is a text note anchored to a placement point on a page.
type Note struct {
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Text      string    `json:"text"`
	Position  Point     `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmark marks a page with a short label.
type Bookmark struct {
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnnotationSet is the full collection of annotations for one document and
// the unit of persistence: every mutation produces a new full set which is
// written back atomically as a whole.
type AnnotationSet struct {
	Highlights []Highlight `json:"highlights"`
	Drawings   []Drawing   `json:"drawings"`
	Notes      []Note      `json:"notes"`
	Bookmarks  []Bookmark  `json:"bookmarks"`
}

// AnnotationCounts summarizes the annotations of a single page for status
// display.
type AnnotationCounts struct {
	Highlights int `json:"highlights"`
	Drawings   int `json:"drawings"`
	Notes      int `json:"notes"`
	Bookmarks  int `json:"bookmarks"`
}

// NewAnnotationSet returns an empty set with all lists allocated, so the
// serialized form is stable ([] rather than null).
func NewAnnotationSet() *AnnotationSet {
	return &AnnotationSet{
		Highlights: []Highlight{},
		Drawings:   []Drawing{},
		Notes:      []Note{},
		Bookmarks:  []Bookmark{},
	}
}

// Counts tallies the annotations belonging to page.
func (s *AnnotationSet) Counts(page int) AnnotationCounts {
	var c AnnotationCounts
	for _, h := range s.Highlights {
		if h.Page == page {
			c.Highlights++
		}
	}
	for _, d := range s.Drawings {
		if d.Page == page {
			c.Drawings++
		}
	}
	for _, n := range s.Notes {
		if n.Page == page {
			c.Notes++
		}
	}
	for _, b := range s.Bookmarks {
		if b.Page == page {
			c.Bookmarks++
		}
	}
	return c
}

// Record is an annotation that knows which list of an AnnotationSet it
// belongs to.
type Record interface {
	AppendTo(set *AnnotationSet)
}

// AppendTo adds the highlight to the set's highlight list.
func (h Highlight) AppendTo(set *AnnotationSet) { set.Highlights = append(set.Highlights, h) }

// AppendTo adds the drawing to the set's drawing list.
func (d Drawing) AppendTo(set *AnnotationSet) { set.Drawings = append(set.Drawings, d) }

// AppendTo adds the note to the set's note list.
func (n Note) AppendTo(set *AnnotationSet) { set.Notes = append(set.Notes, n) }

// AppendTo adds the bookmark to the set's bookmark list.
func (b Bookmark) AppendTo(set *AnnotationSet) { set.Bookmarks = append(set.Bookmarks, b) }

// AnnotationRepository defines the interface for annotation storage operations
type AnnotationRepository interface {
	// Load retrieves the stored annotation set for a document. A document
	// without stored annotations yields an empty set, not an error.
	Load(ctx context.Context, documentID string) (*AnnotationSet, error)

	// ReplaceAll serializes and writes the full set, overwriting any prior
	// value. On error nothing is considered saved.
	ReplaceAll(ctx context.Context, documentID string, set *AnnotationSet) error

	// Append loads the current set, appends record and writes the result
	// back in one step.
	Append(ctx context.Context, documentID string, record Record) error

	// Clear removes the stored set for a document.
	Clear(ctx context.Context, documentID string) error
}
