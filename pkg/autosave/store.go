// Package autosave keeps a crash-recovery snapshot of the document being
// edited. Writes are debounced; the snapshot is cleared once the document
// is saved or returns to its saved text.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/sokki/pkg/fsutil"
)

// File names inside the autosave directory.
const (
	SnapshotFile = "snapshot.md~"
	MetaFile     = "snapshot.json"
)

// ErrNoSnapshot is returned by Load when there is nothing to restore.
var ErrNoSnapshot = errors.New("no autosave snapshot")

// Snapshot is a recovered document.
type Snapshot struct {
	Text string
	// CurrentPath is the file the text belonged to, empty for an unsaved
	// document.
	CurrentPath string
	SavedAt     time.Time
}

type meta struct {
	CurrentPath string `json:"currentPath,omitempty"`
	SavedAt     int64  `json:"savedAt,omitempty"`
}

// Store reads and writes the snapshot files of one directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes text and its metadata.
func (s *Store) Save(ctx context.Context, text, currentPath string) error {
	data, err := json.Marshal(meta{CurrentPath: currentPath, SavedAt: s.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("encode autosave metadata: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, s.path(SnapshotFile), []byte(text), 0o600); err != nil {
		return fmt.Errorf("write autosave snapshot: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, s.path(MetaFile), data, 0o600); err != nil {
		return fmt.Errorf("write autosave metadata: %w", err)
	}
	return nil
}

// Load returns the stored snapshot. A missing or blank snapshot yields
// ErrNoSnapshot. Unreadable metadata is ignored.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load autosave: %w", err)
	}

	content, err := os.ReadFile(s.path(SnapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("read autosave snapshot: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return Snapshot{}, ErrNoSnapshot
	}

	snapshot := Snapshot{Text: string(content)}
	if data, err := os.ReadFile(s.path(MetaFile)); err == nil {
		var m meta
		if json.Unmarshal(data, &m) == nil {
			snapshot.CurrentPath = m.CurrentPath
			if m.SavedAt > 0 {
				snapshot.SavedAt = time.UnixMilli(m.SavedAt)
			}
		}
	}
	return snapshot, nil
}

// Clear empties the snapshot so nothing is offered for recovery.
func (s *Store) Clear(ctx context.Context) error {
	if err := fsutil.WriteAtomic(ctx, s.path(SnapshotFile), nil, 0o600); err != nil {
		return fmt.Errorf("clear autosave snapshot: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, s.path(MetaFile), []byte("{}"), 0o600); err != nil {
		return fmt.Errorf("clear autosave metadata: %w", err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}
