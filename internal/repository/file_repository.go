package repository

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-git/go-billy/v6"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

const blobExt = ".pdf"

// FileRepository stores uploaded document files on a billy filesystem, one
// blob per document id. Production uses osfs rooted at the data directory;
// tests use memfs. The handle is constructed explicitly and injected where
// needed, its lifecycle tied to application start.
type FileRepository struct {
	fs billy.Filesystem
}

// NewFileRepository creates a new FileRepository on fs.
func NewFileRepository(fs billy.Filesystem) *FileRepository {
	return &FileRepository{fs: fs}
}

// Store writes the document content for id, replacing any prior blob. The
// content is written to a temporary name first and renamed into place so a
// failed write never leaves a truncated blob behind.
func (r *FileRepository) Store(id string, src io.Reader) error {
	tempName := id + blobExt + ".tmp"
	f, err := r.fs.Create(tempName)
	if err != nil {
		return fmt.Errorf("while creating blob for document %q: %w", id, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		r.fs.Remove(tempName)
		return fmt.Errorf("while writing blob for document %q: %w", id, err)
	}
	if err := f.Close(); err != nil {
		r.fs.Remove(tempName)
		return fmt.Errorf("while closing blob for document %q: %w", id, err)
	}
	if err := r.fs.Rename(tempName, id+blobExt); err != nil {
		r.fs.Remove(tempName)
		return fmt.Errorf("while renaming blob for document %q: %w", id, err)
	}
	return nil
}

// Open returns a reader over the stored blob, or (nil, nil) when no blob
// exists for id.
func (r *FileRepository) Open(id string) (io.ReadCloser, error) {
	f, err := r.fs.Open(id + blobExt)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("while opening blob for document %q: %w", id, err)
	}
	return f, nil
}

// Delete removes the blob for id. Deleting a missing blob is a no-op.
func (r *FileRepository) Delete(id string) error {
	err := r.fs.Remove(id + blobExt)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("while deleting blob for document %q: %w", id, err)
	}
	return nil
}

// ListIDs returns the ids of all stored blobs.
func (r *FileRepository) ListIDs() ([]string, error) {
	entries, err := r.fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("while listing blobs: %w", err)
	}
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, blobExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, blobExt))
	}
	return ids, nil
}

// SelfTest reports whether the store is usable by writing, reading back and
// removing a probe blob.
func (r *FileRepository) SelfTest() bool {
	const probe = ".selftest"
	f, err := r.fs.Create(probe)
	if err != nil {
		log.Printf("filestore: self test failed: %s", err)
		return false
	}
	if _, err := f.Write([]byte("ok")); err != nil {
		f.Close()
		log.Printf("filestore: self test failed: %s", err)
		return false
	}
	if err := f.Close(); err != nil {
		log.Printf("filestore: self test failed: %s", err)
		return false
	}
	if err := r.fs.Remove(probe); err != nil {
		log.Printf("filestore: self test failed: %s", err)
		return false
	}
	return true
}

// Verify that FileRepository implements domain.FileRepository
var _ domain.FileRepository = (*FileRepository)(nil)
