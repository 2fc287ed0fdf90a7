package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// BookRepository implements domain.BookRepository on SQLite.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new BookRepository
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Upsert creates or updates a book record.
func (r *BookRepository) Upsert(ctx context.Context, book *domain.Book) error {
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}
	if book.CurrentPage < 1 {
		book.CurrentPage = 1
	}
	if book.ReadingMode == "" {
		book.ReadingMode = "light"
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO books (id, title, author, current_page, total_pages, reading_mode, last_read, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  author = excluded.author,
  current_page = excluded.current_page,
  total_pages = excluded.total_pages,
  reading_mode = excluded.reading_mode
`, book.ID, book.Title, book.Author, book.CurrentPage, book.TotalPages,
		book.ReadingMode, nullableTime(book.LastRead), book.AddedAt)
	if err != nil {
		return fmt.Errorf("while upserting book %q: %w", book.ID, err)
	}
	return nil
}

// Get retrieves a book by id, or nil when it does not exist.
func (r *BookRepository) Get(ctx context.Context, id string) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, author, current_page, total_pages, reading_mode, last_read, added_at
FROM books WHERE id = ?`, id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("while reading book %q: %w", id, err)
	}
	return book, nil
}

// List returns all books ordered by the time they were added.
func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, author, current_page, total_pages, reading_mode, last_read, added_at
FROM books ORDER BY added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("while listing books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("while scanning book row: %w", err)
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// Delete removes a book record.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("while deleting book %q: %w", id, err)
	}
	return nil
}

// UpdateProgress records the page the user is currently reading.
func (r *BookRepository) UpdateProgress(ctx context.Context, id string, currentPage int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET current_page = ?, last_read = ? WHERE id = ?`,
		currentPage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("while updating progress for book %q: %w", id, err)
	}
	return nil
}

// UpdateTotalPages corrects the page count after the document has loaded.
func (r *BookRepository) UpdateTotalPages(ctx context.Context, id string, totalPages int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET total_pages = ? WHERE id = ?`, totalPages, id)
	if err != nil {
		return fmt.Errorf("while updating page count for book %q: %w", id, err)
	}
	return nil
}

// SetReadingMode stores the reading mode the user picked for a book.
func (r *BookRepository) SetReadingMode(ctx context.Context, id string, mode string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET reading_mode = ? WHERE id = ?`, mode, id)
	if err != nil {
		return fmt.Errorf("while updating reading mode for book %q: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var book domain.Book
	var lastRead sql.NullTime
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.CurrentPage,
		&book.TotalPages, &book.ReadingMode, &lastRead, &book.AddedAt)
	if err != nil {
		return nil, err
	}
	if lastRead.Valid {
		book.LastRead = lastRead.Time
	}
	return &book, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// Verify that BookRepository implements domain.BookRepository
var _ domain.BookRepository = (*BookRepository)(nil)
