package reader

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
	"github.com/Gopikrish-30/ReadUp/internal/engine"
	"github.com/Gopikrish-30/ReadUp/internal/repository"
)

// ReaderApp glues the library, the viewer pages and the JSON API over the
// shared storage handles. The annotation engine itself runs client-side per
// open document; the API below is its persistence and library backend.
type ReaderApp struct {
	Database *sql.DB
	Files    domain.FileRepository
	Config   *Config

	books       domain.BookRepository
	annotations domain.AnnotationRepository
}

func (a *ReaderApp) init() {
	if a.Config == nil {
		a.Config = DefaultConfig()
	}
	if a.books == nil {
		a.books = repository.NewBookRepository(a.Database)
	}
	if a.annotations == nil {
		a.annotations = repository.NewAnnotationRepository(a.Database)
	}
}

// Books exposes the book repository so the CLI can reuse the app's storage
// wiring.
func (a *ReaderApp) Books() domain.BookRepository {
	a.init()
	return a.books
}

func (a *ReaderApp) GetHTTPHandler() http.Handler {
	a.init()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleLibrary)
	mux.HandleFunc("GET /book/{id}", a.handleReaderPage)
	mux.HandleFunc("GET /asset/{id}", a.handleAsset)
	mux.HandleFunc("GET /favicon.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, GetFavicon())
	})

	mux.HandleFunc("GET /api/books", a.handleListBooks)
	mux.HandleFunc("POST /api/books", a.handleUpload)
	mux.HandleFunc("DELETE /api/books/{id}", a.handleDeleteBook)
	mux.HandleFunc("PUT /api/books/{id}/progress", a.handleProgress)
	mux.HandleFunc("PUT /api/books/{id}/pages", a.handleTotalPages)
	mux.HandleFunc("PUT /api/books/{id}/mode", a.handleReadingMode)

	mux.HandleFunc("GET /api/annotations/{id}", a.handleGetAnnotations)
	mux.HandleFunc("PUT /api/annotations/{id}", a.handlePutAnnotations)
	mux.HandleFunc("DELETE /api/annotations/{id}", a.handleClearAnnotations)
	mux.HandleFunc("GET /api/annotations/{id}/counts", a.handleCounts)

	var handler http.Handler = mux
	handler = HTTPLogger(handler)
	return handler
}

func (a *ReaderApp) handleLibrary(w http.ResponseWriter, r *http.Request) {
	books, err := a.books.List(r.Context())
	if err != nil {
		a.serverError(w, "listing books", err)
		return
	}
	err = RenderPage(w, "library.html", map[string]any{
		"Title": "Library",
		"Books": books,
	})
	if err != nil {
		log.Printf("error: while rendering library page: %s", err)
	}
}

func (a *ReaderApp) handleReaderPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	book, err := a.books.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "loading book", err)
		return
	}
	if book == nil {
		http.NotFoundHandler().ServeHTTP(w, r)
		return
	}
	set, err := a.annotations.Load(r.Context(), id)
	if err != nil {
		a.serverError(w, "loading annotations", err)
		return
	}
	err = RenderPage(w, "reader.html", map[string]any{
		"Title":       book.Title,
		"Book":        book,
		"Annotations": set,
		"Counts":      set.Counts(book.CurrentPage),
		"Palette":     a.Config.Viewer.Palette,
		"Modes":       a.Config.Modes,
		"Viewer":      a.Config.Viewer,
	})
	if err != nil {
		log.Printf("error: while rendering reader page for book %s: %s", id, err)
	}
}

func (a *ReaderApp) handleAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log.Printf("http: fetching asset id %s", id)
	f, err := a.Files.Open(id)
	if err != nil {
		a.serverError(w, "opening document blob", err)
		return
	}
	if f == nil {
		log.Printf("http: asset id %s was not found in the blob store", id)
		http.NotFoundHandler().ServeHTTP(w, r)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/pdf")
	io.Copy(w, f)
}

func (a *ReaderApp) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := a.books.List(r.Context())
	if err != nil {
		a.serverError(w, "listing books", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// handleUpload ingests one document from a multipart form: the "file" part
// carries the PDF, optional "title" and "author" fields fill the book record.
// The blob is stored first so a failed insert never leaves a book without a
// document behind it.
func (a *ReaderApp) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "a 'file' form field is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	book := &domain.Book{
		ID:     uuid.NewString(),
		Title:  title,
		Author: r.FormValue("author"),
	}
	if err := a.Files.Store(book.ID, file); err != nil {
		a.serverError(w, "storing document blob", err)
		return
	}
	if err := a.books.Upsert(r.Context(), book); err != nil {
		a.Files.Delete(book.ID)
		a.serverError(w, "inserting book record", err)
		return
	}
	log.Printf("library: ingested '%s' as %s", header.Filename, book.ID)
	writeJSON(w, http.StatusCreated, book)
}

func (a *ReaderApp) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.annotations.Clear(r.Context(), id); err != nil {
		a.serverError(w, "clearing annotations", err)
		return
	}
	if err := a.Files.Delete(id); err != nil {
		a.serverError(w, "deleting document blob", err)
		return
	}
	if err := a.books.Delete(r.Context(), id); err != nil {
		a.serverError(w, "deleting book record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ReaderApp) handleProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Page int `json:"page"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if body.Page < 1 {
		httpError(w, http.StatusBadRequest, "page must be at least 1")
		return
	}
	if err := a.books.UpdateProgress(r.Context(), r.PathValue("id"), body.Page); err != nil {
		a.serverError(w, "updating progress", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTotalPages records the page count once the client-side renderer has
// opened the document and knows it.
func (a *ReaderApp) handleTotalPages(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TotalPages int `json:"totalPages"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if body.TotalPages < 1 {
		httpError(w, http.StatusBadRequest, "totalPages must be at least 1")
		return
	}
	if err := a.books.UpdateTotalPages(r.Context(), r.PathValue("id"), body.TotalPages); err != nil {
		a.serverError(w, "updating total pages", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ReaderApp) handleReadingMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	switch engine.ReadingMode(body.Mode) {
	case engine.ModeLight, engine.ModeDark, engine.ModeNight:
	default:
		httpError(w, http.StatusBadRequest, "unknown reading mode")
		return
	}
	if err := a.books.SetReadingMode(r.Context(), r.PathValue("id"), body.Mode); err != nil {
		a.serverError(w, "updating reading mode", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ReaderApp) handleGetAnnotations(w http.ResponseWriter, r *http.Request) {
	set, err := a.annotations.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		a.serverError(w, "loading annotations", err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// handlePutAnnotations replaces the whole annotation set of a document in one
// request, mirroring the engine's atomic-replace persistence.
func (a *ReaderApp) handlePutAnnotations(w http.ResponseWriter, r *http.Request) {
	set := domain.NewAnnotationSet()
	if !readJSON(w, r, set) {
		return
	}
	if err := a.annotations.ReplaceAll(r.Context(), r.PathValue("id"), set); err != nil {
		a.serverError(w, "saving annotations", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ReaderApp) handleClearAnnotations(w http.ResponseWriter, r *http.Request) {
	if err := a.annotations.Clear(r.Context(), r.PathValue("id")); err != nil {
		a.serverError(w, "clearing annotations", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ReaderApp) handleCounts(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		httpError(w, http.StatusBadRequest, "a positive 'page' query parameter is required")
		return
	}
	set, err := a.annotations.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		a.serverError(w, "loading annotations", err)
		return
	}
	writeJSON(w, http.StatusOK, set.Counts(page))
}

func (a *ReaderApp) serverError(w http.ResponseWriter, action string, err error) {
	log.Printf("error: http: while %s: %s", action, err)
	httpError(w, http.StatusInternalServerError, "internal error")
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error: http: while encoding response: %s", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return false
	}
	return true
}
