package fsutil

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// Default permission modes for created files and directories.
const (
	DefaultFileMode os.FileMode = 0o644
	DefaultDirMode  os.FileMode = 0o755
)

// WriteAtomic replaces path with content through a temp file in the same
// directory and a rename. Missing parent directories are created. A zero
// mode selects DefaultFileMode. On error the original file is untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	committed = true
	return nil
}

// SaveDocument writes text to path atomically and returns the new stamp.
// When expect describes the version previously loaded from path and the
// file has changed since, nothing is written and ErrModifiedConcurrently
// is returned. The file's mode is kept.
func SaveDocument(ctx context.Context, path, text string, expect Stamp) (Stamp, error) {
	mode := DefaultFileMode
	if !expect.IsZero() && expect.Path == path {
		changed, err := expect.Changed(ctx)
		if err != nil {
			return Stamp{}, err
		}
		if changed {
			return Stamp{}, fmt.Errorf("%w: %s", ErrModifiedConcurrently, path)
		}
		mode = expect.Mode.Perm()
	}

	if err := WriteAtomic(ctx, path, []byte(text), mode); err != nil {
		return Stamp{}, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return Stamp{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Stamp{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256([]byte(text)),
	}, nil
}
