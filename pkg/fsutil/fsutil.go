// Package fsutil reads and writes Markdown documents safely. It handles
// atomic writes, content stamps for detecting external modification, and
// sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrModifiedConcurrently indicates the file changed on disk after it
	// was loaded.
	ErrModifiedConcurrently = errors.New("file modified since it was loaded")
)

// Stamp identifies the version of a document on disk.
type Stamp struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	// Hash is the SHA-256 of the content.
	Hash [32]byte
}

// IsZero reports whether s describes no file, as for a document that was
// never saved.
func (s Stamp) IsZero() bool {
	return s.Path == ""
}

// ReadDocument reads the document at path and returns its text together
// with the stamp of the version read.
func ReadDocument(ctx context.Context, path string) (string, Stamp, error) {
	if err := ctx.Err(); err != nil {
		return "", Stamp{}, fmt.Errorf("read document: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return "", Stamp{}, classify(path, err)
	}
	if stat.IsDir() {
		return "", Stamp{}, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", Stamp{}, classify(path, err)
	}

	return string(content), Stamp{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	}
	return fmt.Errorf("read %s: %w", path, err)
}

// Changed reports whether the file has changed since the stamp was taken.
// A deleted file counts as changed. Modification time and size are
// compared first; the content is hashed only when both still match.
func (s Stamp) Changed(ctx context.Context) (bool, error) {
	if s.IsZero() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}

	if !stat.ModTime().Equal(s.ModTime) || stat.Size() != s.Size {
		return true, nil
	}

	content, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(content) != s.Hash, nil
}

// Matches reports whether text is the content the stamp was taken from.
func (s Stamp) Matches(text string) bool {
	return sha256.Sum256([]byte(text)) == s.Hash
}
