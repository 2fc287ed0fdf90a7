package engine

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
	"github.com/Gopikrish-30/ReadUp/internal/repository"
)

// renderRequest records one RequestRender call.
type renderRequest struct {
	page  int
	scale float64
}

// fakeRenderer is a scripted rendering collaborator: render requests are
// recorded and the test decides when the completion callback fires and what
// the measured bounds are at that moment.
type fakeRenderer struct {
	pageCount        int
	bounds           PageBounds
	rendered         bool
	requests         []renderRequest
	selectionsCleard int
	theme            ReadingMode
}

func (r *fakeRenderer) RequestRender(page int, scale float64) {
	r.requests = append(r.requests, renderRequest{page: page, scale: scale})
}

func (r *fakeRenderer) PageCount() int { return r.pageCount }

func (r *fakeRenderer) PageBounds() (PageBounds, bool) {
	if !r.rendered {
		return PageBounds{}, false
	}
	return r.bounds, true
}

func (r *fakeRenderer) ClearSelection() { r.selectionsCleard++ }

func (r *fakeRenderer) SetTheme(mode ReadingMode) { r.theme = mode }

// completeRender simulates the collaborator finishing the most recent render
// request at the given scale and firing the success callback.
func completeRender(s *Session, r *fakeRenderer, scale float64) {
	r.bounds.Scale = scale
	r.rendered = true
	s.PageRendered()
}

// newTestSession wires a session over a real SQLite-backed repository and a
// fake renderer showing a 5 page document with its top-left at (100, 50).
func newTestSession(t *testing.T, documentID string) (*Session, *fakeRenderer, *countingRepo, *sql.DB) {
	t.Helper()
	db := repository.SetupTestDB(t)
	t.Cleanup(func() { repository.CleanupTestDB(t, db) })

	repo := &countingRepo{AnnotationRepository: repository.NewAnnotationRepository(db)}
	renderer := &fakeRenderer{
		pageCount: 5,
		bounds:    PageBounds{Left: 100, Top: 50, Width: 600, Height: 800, Scale: 1},
	}
	session := NewSession(documentID, repo, renderer, DefaultConfig())
	return session, renderer, repo, db
}

// countingRepo counts ReplaceAll calls to verify mutation batching.
type countingRepo struct {
	domain.AnnotationRepository
	replaceCalls int
}

func (r *countingRepo) ReplaceAll(ctx context.Context, documentID string, set *domain.AnnotationSet) error {
	r.replaceCalls++
	return r.AnnotationRepository.ReplaceAll(ctx, documentID, set)
}
