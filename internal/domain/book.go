package domain

import (
	"context"
	"io"
	"time"
)

// Book is one entry of the user's library. Its ID is the documentID shared
// with the annotation store and the file store.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	ReadingMode string    `json:"readingMode"`
	LastRead    time.Time `json:"lastRead"`
	AddedAt     time.Time `json:"addedAt"`
}

// BookRepository defines the interface for library metadata operations
type BookRepository interface {
	// Upsert creates or updates a book record.
	Upsert(ctx context.Context, book *Book) error

	// Get retrieves a book by id, or nil when it does not exist.
	Get(ctx context.Context, id string) (*Book, error)

	// List returns all books ordered by the time they were added.
	List(ctx context.Context) ([]*Book, error)

	// Delete removes a book record.
	Delete(ctx context.Context, id string) error

	// UpdateProgress records the page the user is currently reading and
	// stamps the last-read time.
	UpdateProgress(ctx context.Context, id string, currentPage int) error

	// UpdateTotalPages corrects the page count after the document engine
	// has loaded the file.
	UpdateTotalPages(ctx context.Context, id string, totalPages int) error

	// SetReadingMode stores the reading mode the user picked for a book.
	SetReadingMode(ctx context.Context, id string, mode string) error
}

// FileRepository is the binary blob store holding the uploaded document
// files, keyed by the same documentID as the library and annotation records.
type FileRepository interface {
	// Store writes the document content for id, replacing any prior blob.
	Store(id string, r io.Reader) error

	// Open returns a reader over the stored blob, or (nil, nil) when no
	// blob exists for id.
	Open(id string) (io.ReadCloser, error)

	// Delete removes the blob for id.
	Delete(id string) error

	// ListIDs returns the ids of all stored blobs.
	ListIDs() ([]string, error)

	// SelfTest reports whether the store is usable.
	SelfTest() bool
}
