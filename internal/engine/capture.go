package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// PointerDown starts the gesture of the active tool at a client-space
// point. Without a rendered page the gesture is dropped silently.
func (s *Session) PointerDown(ctx context.Context, client domain.Point) {
	if !s.ready() {
		return
	}
	bounds, ok := s.measure()
	if !ok {
		return
	}
	switch s.state.Tool {
	case ToolPen:
		p, ok := ClientToPersisted(client, bounds)
		if !ok {
			return
		}
		s.drawing = true
		s.currentPath = []domain.Point{p}
	case ToolNote:
		p, ok := ClientToPersisted(client, bounds)
		if !ok {
			return
		}
		s.pendingNote = &p
	case ToolEraser:
		s.eraseAt(ctx, client)
	}
}

// PointerMove extends an in-progress freehand stroke and redraws it
// immediately. The stroke is display feedback only; nothing is persisted
// until PointerUp.
func (s *Session) PointerMove(client domain.Point) {
	if !s.drawing {
		return
	}
	bounds, ok := s.measure()
	if !ok {
		return
	}
	p, ok := ClientToPersisted(client, bounds)
	if !ok {
		return
	}
	s.currentPath = append(s.currentPath, p)
	s.redraw()
}

// PointerUp finishes a freehand stroke. A drag that accumulated fewer than
// two points is discarded silently; anything else commits a Drawing.
func (s *Session) PointerUp(ctx context.Context, client domain.Point) {
	if !s.drawing {
		return
	}
	path := s.currentPath
	s.drawing = false
	s.currentPath = nil

	if len(path) < 2 {
		s.redraw()
		return
	}
	if bounds, ok := s.measure(); ok {
		if p, ok := ClientToPersisted(client, bounds); ok {
			path = append(path, p)
		}
	}

	drawing := domain.Drawing{
		ID:        uuid.NewString(),
		Page:      s.state.Page,
		Paths:     path,
		Color:     s.state.Color,
		LineWidth: s.cfg.DefaultLineWidth,
		CreatedAt: time.Now().UTC(),
	}
	s.commit(ctx, drawing.AppendTo)
}

// SelectionChanged inspects the renderer's current text selection while the
// highlighter is active. A non-empty selection commits a Highlight
// immediately, then clears the native selection so it is not shown on top
// of the drawn highlight. Zero-length selections are a no-op.
func (s *Session) SelectionChanged(ctx context.Context, sel Selection) {
	if !s.ready() || s.state.Tool != ToolHighlighter {
		return
	}
	text := strings.TrimSpace(sel.Text)
	if text == "" {
		return
	}
	bounds, ok := s.measure()
	if !ok {
		return
	}
	rects := RectsFromSelection(sel, bounds)
	if len(rects) == 0 {
		return
	}

	highlight := domain.Highlight{
		ID:        uuid.NewString(),
		Page:      s.state.Page,
		Text:      text,
		Color:     s.state.Color,
		Rects:     rects,
		CreatedAt: time.Now().UTC(),
	}
	s.commit(ctx, highlight.AppendTo)
	s.renderer.ClearSelection()
}

// PendingNote returns the placement point of the note being edited, if any.
func (s *Session) PendingNote() (domain.Point, bool) {
	if s.pendingNote == nil {
		return domain.Point{}, false
	}
	return *s.pendingNote, true
}

// SaveNote commits the pending note with text. Confirming with blank or
// whitespace-only text is treated as cancel: blank notes never reach the
// store.
func (s *Session) SaveNote(ctx context.Context, text string) {
	if s.pendingNote == nil {
		return
	}
	position := *s.pendingNote
	s.pendingNote = nil
	s.state.Tool = ToolNone

	if strings.TrimSpace(text) == "" {
		return
	}

	note := domain.Note{
		ID:        uuid.NewString(),
		Page:      s.state.Page,
		Text:      text,
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}
	s.commit(ctx, note.AppendTo)
}

// CancelNote discards the pending note entirely.
func (s *Session) CancelNote() {
	s.pendingNote = nil
}

// AddBookmark bookmarks the current page with the templated label. Unlike
// notes there is no confirmation step.
func (s *Session) AddBookmark(ctx context.Context) {
	if !s.ready() {
		return
	}
	bookmark := domain.Bookmark{
		ID:        uuid.NewString(),
		Page:      s.state.Page,
		Label:     fmt.Sprintf(s.cfg.BookmarkLabel, s.state.Page),
		CreatedAt: time.Now().UTC(),
	}
	s.commit(ctx, bookmark.AppendTo)
}

// Flashcard is a question/answer pair suggested from a highlight.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SuggestFlashcard builds a flashcard from the most recent highlight on the
// current page. ok is false when the page has no highlights.
func (s *Session) SuggestFlashcard() (Flashcard, bool) {
	if s.set == nil {
		return Flashcard{}, false
	}
	var latest *domain.Highlight
	for i := range s.set.Highlights {
		h := &s.set.Highlights[i]
		if h.Page != s.state.Page {
			continue
		}
		if latest == nil || h.CreatedAt.After(latest.CreatedAt) {
			latest = h
		}
	}
	if latest == nil {
		return Flashcard{}, false
	}
	return Flashcard{
		Question: fmt.Sprintf("What does this highlighted text mean: %q", truncate(latest.Text, 50)),
		Answer:   latest.Text,
	}, true
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
