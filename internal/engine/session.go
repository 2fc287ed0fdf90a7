package engine

import (
	"context"
	"fmt"
	"log"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// Session drives one open document. It owns the in-memory annotation set
// (the sole source of truth once loaded), the view state and the overlay
// surface, and sequences all geometry-dependent work behind the rendering
// collaborator's completion callback. Methods must be called from a single
// goroutine, mirroring the UI event loop the session models.
type Session struct {
	documentID string
	repo       domain.AnnotationRepository
	renderer   PageRenderer
	cfg        Config
	surface    *Surface

	state ViewState
	set   *domain.AnnotationSet

	// gesture state
	drawing     bool
	currentPath []domain.Point
	pendingNote *domain.Point

	viewportWidth float64
	fitBaseScale  float64

	notice  string
	failure string

	// OnPageChange is invoked after successful page navigation so the
	// viewer shell can persist reading progress. May be nil.
	OnPageChange func(page int)
}

// NewSession creates a session for documentID over repo and renderer.
func NewSession(documentID string, repo domain.AnnotationRepository, renderer PageRenderer, cfg Config) *Session {
	def := DefaultConfig()
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = def.DefaultColor
	}
	if cfg.DefaultLineWidth <= 0 {
		cfg.DefaultLineWidth = def.DefaultLineWidth
	}
	if cfg.DrawingEraseRadius <= 0 {
		cfg.DrawingEraseRadius = def.DrawingEraseRadius
	}
	if cfg.NoteEraseRadius <= 0 {
		cfg.NoteEraseRadius = def.NoteEraseRadius
	}
	if cfg.BookmarkLabel == "" {
		cfg.BookmarkLabel = def.BookmarkLabel
	}
	if cfg.MinScale <= 0 {
		cfg.MinScale = def.MinScale
	}
	if cfg.MaxScale <= 0 {
		cfg.MaxScale = def.MaxScale
	}
	if cfg.FitPercentage <= 0 {
		cfg.FitPercentage = def.FitPercentage
	}
	return &Session{
		documentID: documentID,
		repo:       repo,
		renderer:   renderer,
		cfg:        cfg,
		surface:    NewSurface(renderer),
	}
}

// Open loads the document's annotation set and requests the first render.
// A load failure is fatal for the session: annotation operations refuse to
// run afterwards, since there is no state to anchor them to.
func (s *Session) Open(ctx context.Context, startPage int) error {
	set, err := s.repo.Load(ctx, s.documentID)
	if err != nil {
		s.failure = fmt.Sprintf("annotations for this document could not be loaded: %s", err)
		return fmt.Errorf("while opening document %q: %w", s.documentID, err)
	}
	s.set = set
	s.state = ViewState{
		Color:         s.cfg.DefaultColor,
		Mode:          ModeLight,
		Scale:         1.0,
		FitPercentage: s.cfg.FitPercentage,
		TotalPages:    s.renderer.PageCount(),
	}
	s.state.Page = clamp(startPage, 1, max(s.state.TotalPages, 1))
	s.renderer.RequestRender(s.state.Page, s.state.Scale)
	return nil
}

// PageRendered is the rendering collaborator's success callback. It carries
// no geometry; the surface measures the page itself.
func (s *Session) PageRendered() {
	if !s.ready() {
		return
	}
	s.renderer.SetTheme(s.state.Mode)
	s.redraw()
}

// RenderFailed is the rendering collaborator's error callback. The session
// enters a blocking failure state: there is no valid page geometry to
// anchor annotations to.
func (s *Session) RenderFailed(reason error) {
	log.Printf("session: render failed for document %s: %s", s.documentID, reason)
	s.failure = fmt.Sprintf("the document could not be displayed: %s", reason)
	s.surface.Redraw(nil, 0, nil, "", 0)
}

// Failure returns the blocking error state, if any.
func (s *Session) Failure() (string, bool) {
	return s.failure, s.failure != ""
}

// Notice returns the pending dismissible notice, if any. Notices report
// persistence failures; the in-memory state keeps the optimistic update.
func (s *Session) Notice() (string, bool) {
	return s.notice, s.notice != ""
}

// DismissNotice clears the pending notice.
func (s *Session) DismissNotice() {
	s.notice = ""
}

// State returns a copy of the current view state.
func (s *Session) State() ViewState {
	return s.state
}

// Annotations exposes the in-memory set. Callers must treat it as read-only;
// all mutations go through the capture controllers and the eraser.
func (s *Session) Annotations() *domain.AnnotationSet {
	return s.set
}

// DisplayList returns the overlay's current display list.
func (s *Session) DisplayList() DisplayList {
	return s.surface.List()
}

// AnnotationCounts tallies the annotations of page for status display.
func (s *Session) AnnotationCounts(page int) domain.AnnotationCounts {
	if s.set == nil {
		return domain.AnnotationCounts{}
	}
	return s.set.Counts(page)
}

// SetTool switches the active tool. Switching mid-gesture aborts the
// in-progress accumulation without committing anything; selecting the active
// tool again deselects it.
func (s *Session) SetTool(tool Tool) {
	s.abortGesture()
	if s.state.Tool == tool {
		tool = ToolNone
	}
	if tool != ToolHighlighter {
		s.renderer.ClearSelection()
	}
	s.state.Tool = tool
	s.redraw()
}

// SetColor sets the active annotation color, validating the hex string.
func (s *Session) SetColor(hex string) error {
	if _, err := colorful.Hex(hex); err != nil {
		return fmt.Errorf("while parsing color %q: %w", hex, err)
	}
	s.state.Color = hex
	return nil
}

// SetMode switches the reading mode and asks the renderer to restyle.
func (s *Session) SetMode(mode ReadingMode) {
	s.state.Mode = mode
	s.renderer.SetTheme(mode)
}

// SetScale zooms to scale, clamped and rounded to one decimal. Manual
// zooming leaves fit-to-width mode. Any in-progress gesture is aborted
// because its geometry would straddle two scales.
func (s *Session) SetScale(scale float64) {
	scale = math.Round(clampf(scale, s.cfg.MinScale, s.cfg.MaxScale)*10) / 10
	if scale == s.state.Scale {
		return
	}
	s.abortGesture()
	s.state.Scale = scale
	s.state.FitToWidth = false
	s.renderer.RequestRender(s.state.Page, s.state.Scale)
}

// GoToPage navigates to page n, clamped to the document. Navigation aborts
// any in-progress gesture and clears the native selection.
func (s *Session) GoToPage(n int) {
	if !s.ready() {
		return
	}
	if n < 1 || n > s.state.TotalPages || n == s.state.Page {
		return
	}
	s.abortGesture()
	s.renderer.ClearSelection()
	s.state.Page = n
	if s.OnPageChange != nil {
		s.OnPageChange(n)
	}
	s.renderer.RequestRender(s.state.Page, s.state.Scale)
}

// SetViewportWidth records the available viewport width and, in fit-to-width
// mode, refits the page. The shell calls this on every resize.
func (s *Session) SetViewportWidth(width float64) {
	s.viewportWidth = width
	if s.state.FitToWidth {
		s.fit()
	}
}

// ToggleFitToWidth enters or leaves fit-to-width mode. Leaving restores the
// scale that was active before entering.
func (s *Session) ToggleFitToWidth() {
	if s.state.FitToWidth {
		s.state.FitToWidth = false
		s.SetScale(s.fitBaseScale)
		return
	}
	s.fitBaseScale = s.state.Scale
	s.state.FitToWidth = true
	s.fit()
}

// fit computes the scale that makes the unscaled page width fill the
// configured share of the viewport. Without a rendered page or a known
// viewport it is a no-op.
func (s *Session) fit() {
	bounds, ok := s.measure()
	if !ok || s.viewportWidth <= 0 {
		return
	}
	baseWidth := bounds.Width / bounds.Scale
	target := s.viewportWidth * float64(s.state.FitPercentage) / 100
	scale := math.Round(clampf(target/baseWidth, s.cfg.MinScale, s.cfg.MaxScale)*10) / 10
	if scale == s.state.Scale {
		return
	}
	s.abortGesture()
	s.state.Scale = scale
	s.renderer.RequestRender(s.state.Page, s.state.Scale)
}

// HandleKey dispatches a keyboard shortcut.
func (s *Session) HandleKey(ctx context.Context, key string) {
	switch key {
	case "ArrowLeft", "PageUp":
		s.GoToPage(s.state.Page - 1)
	case "ArrowRight", "PageDown", " ":
		s.GoToPage(s.state.Page + 1)
	case "h":
		s.SetTool(ToolHighlighter)
	case "p":
		s.SetTool(ToolPen)
	case "n":
		s.SetTool(ToolNote)
	case "e":
		s.SetTool(ToolEraser)
	case "b":
		s.AddBookmark(ctx)
	case "1":
		s.SetMode(ModeLight)
	case "2":
		s.SetMode(ModeDark)
	case "3":
		s.SetMode(ModeNight)
	case "f":
		s.ToggleFitToWidth()
	case "Escape":
		s.abortGesture()
		s.state.Tool = ToolNone
		s.renderer.ClearSelection()
		s.redraw()
	}
}

// ready reports whether annotation operations may run.
func (s *Session) ready() bool {
	return s.failure == "" && s.set != nil
}

// measure queries the page bounds fresh. Callers never hold on to the
// result beyond the current event.
func (s *Session) measure() (PageBounds, bool) {
	bounds, ok := s.renderer.PageBounds()
	if !ok || !bounds.Valid() {
		return PageBounds{}, false
	}
	return bounds, true
}

// abortGesture drops any in-progress accumulation without committing.
func (s *Session) abortGesture() {
	s.drawing = false
	s.currentPath = nil
	s.pendingNote = nil
}

// redraw rebuilds the overlay from the current in-memory set. It always
// runs after commit returns, so the next display list reflects the most
// recently committed mutation, never a superseded snapshot.
func (s *Session) redraw() {
	var inProgress []domain.Point
	if s.drawing {
		inProgress = s.currentPath
	}
	s.surface.Redraw(s.set, s.state.Page, inProgress, s.state.Color, s.cfg.DefaultLineWidth)
}

// commit applies a mutation to the in-memory set first, persists the full
// set as one atomic replace, and redraws. When persistence fails the
// optimistic in-memory update is kept and the failure is surfaced as a
// dismissible notice.
func (s *Session) commit(ctx context.Context, mutate func(*domain.AnnotationSet)) {
	mutate(s.set)
	if err := s.repo.ReplaceAll(ctx, s.documentID, s.set); err != nil {
		log.Printf("session: saving annotations for document %s: %s", s.documentID, err)
		s.notice = fmt.Sprintf("your last change could not be saved: %s", err)
	}
	s.redraw()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
