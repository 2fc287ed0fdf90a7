package engine

// PageRenderer is the document rendering engine collaborator. It owns the
// page bitmap and the text layer; the annotation engine only asks it to
// render and measures the result afterwards. Render completion carries no
// geometry and is reported back to the session exactly once per request,
// through Session.PageRendered or Session.RenderFailed.
type PageRenderer interface {
	// RequestRender asks for pageNumber at scale. The request is
	// asynchronous; completion arrives through the session callbacks.
	RequestRender(pageNumber int, scale float64)

	// PageCount reports the number of pages of the loaded document.
	PageCount() int

	// PageBounds reports the bounding box of the currently rendered page
	// surface. ok is false until a page has been rendered. Callers must
	// query this at the moment of use; the box moves with scroll and zoom.
	PageBounds() (PageBounds, bool)

	// ClearSelection drops the renderer's native text selection.
	ClearSelection()

	// SetTheme asks the renderer to restyle its output for a reading mode.
	SetTheme(mode ReadingMode)
}
