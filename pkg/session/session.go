// Package session ties one editor to the file it edits. A Session opens
// and saves the document, keeps the autosave snapshot in step with the
// dirty state, reloads the document when the file changes on disk and keeps
// a rendered preview current.
//
// The editor core is single-threaded. A Session serialises every call into
// it, so watcher and timer goroutines may use it concurrently with the
// caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/yaklabco/sokki/pkg/autosave"
	"github.com/yaklabco/sokki/pkg/editor"
	"github.com/yaklabco/sokki/pkg/fsutil"
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/preview"
	"github.com/yaklabco/sokki/pkg/textbuf"
	"github.com/yaklabco/sokki/pkg/watch"
)

var (
	// ErrNoPath is returned by Save when the document has never been saved.
	// The caller should ask for a path and use SaveAs.
	ErrNoPath = errors.New("document has no path")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session closed")
)

// ConflictResolver decides whether a file changed on disk should replace a
// document with unsaved edits.
type ConflictResolver interface {
	ReloadOnConflict(path string) bool
}

// ResolverFunc adapts a function to ConflictResolver.
type ResolverFunc func(path string) bool

// ReloadOnConflict calls f.
func (f ResolverFunc) ReloadOnConflict(path string) bool {
	return f(path)
}

// KeepEdits never reloads over unsaved edits.
//
//nolint:gochecknoglobals // Stateless default resolver
var KeepEdits = ResolverFunc(func(string) bool { return false })

// Options configures a Session. The zero value gives an editor without
// autosave, watching or preview.
type Options struct {
	// History configures the undo engine.
	History []history.Option

	// Preview renders the document after every change. Nil disables it.
	Preview *preview.Renderer

	// OnRender receives each rendered preview. It runs with the session
	// locked and must not call back into the Session.
	OnRender func(html []byte)

	// Store holds the crash-recovery snapshot. Nil disables autosave.
	Store *autosave.Store

	// Autosave configures the snapshot scheduler.
	Autosave []autosave.SchedulerOption

	// Watch enables reloading when the file changes on disk.
	Watch bool

	// WatchDelay is the quiet period before a change is reported.
	// Zero uses watch.DefaultDelay.
	WatchDelay time.Duration

	// Resolver decides conflicts between unsaved edits and changes on disk.
	// Nil keeps the edits.
	Resolver ConflictResolver

	// OnReload is called after the document was reloaded from disk.
	OnReload func(path string)

	// OnError receives failures of background work: snapshot writes,
	// preview rendering, watcher errors and reloads.
	OnError func(error)
}

// Session is one open document.
type Session struct {
	opts      Options
	editor    *editor.Editor
	scheduler *autosave.Scheduler

	mu      sync.Mutex
	path    string
	stamp   fsutil.Stamp
	watcher *watch.Watcher
	html    []byte
	closed  bool
}

// New creates a session holding an empty, clean document.
func New(opts Options) *Session {
	if opts.Resolver == nil {
		opts.Resolver = KeepEdits
	}
	if opts.OnError == nil {
		opts.OnError = func(error) {}
	}
	if opts.OnRender == nil {
		opts.OnRender = func([]byte) {}
	}
	if opts.OnReload == nil {
		opts.OnReload = func(string) {}
	}

	s := &Session{opts: opts}
	if opts.Store != nil {
		schedulerOpts := append([]autosave.SchedulerOption{autosave.WithErrorHandler(opts.OnError)}, opts.Autosave...)
		s.scheduler = autosave.NewScheduler(opts.Store, schedulerOpts...)
	}

	hooks := editorHooks{session: s}
	s.editor = editor.New(
		editor.WithRenderer(hooks),
		editor.WithPersister(hooks),
		editor.WithHistory(opts.History...),
	)
	return s
}

// ApplyEvent routes an input event to the editor.
func (s *Session) ApplyEvent(event editor.Event) editor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.ApplyEvent(event)
}

// Buffer returns the document text and selection.
func (s *Session) Buffer() textbuf.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Snapshot()
}

// SetSelection moves the selection, as a click in the text surface does.
func (s *Session) SetSelection(start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.SetSelection(start, end)
}

// UndoDepth returns the number of steps that can be undone.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.UndoDepth()
}

// Text returns the document text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Text()
}

// Path returns the absolute path of the document, or "" if it was never
// saved.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dirty reports whether the document has unsaved edits.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Dirty()
}

// HTML returns the most recent preview.
func (s *Session) HTML() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.html...)
}

// Open loads the document at path. Unsaved edits of the previous document
// are dropped.
func (s *Session) Open(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	text, stamp, err := fsutil.ReadDocument(ctx, abs)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if s.scheduler != nil {
		s.scheduler.Cancel()
	}
	s.path = abs
	s.stamp = stamp
	s.editor.LoadDocument(text)
	return s.watchLocked(abs)
}

// Save writes the document to its path. A document that was never saved
// returns ErrNoPath. If the file changed on disk since it was loaded,
// fsutil.ErrModifiedConcurrently is returned and nothing is written.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.path == "" {
		return ErrNoPath
	}
	return s.saveLocked(ctx, s.path)
}

// SaveAs writes the document to path and makes it the document's path.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.saveLocked(ctx, abs)
}

func (s *Session) saveLocked(ctx context.Context, path string) error {
	samePath := path == s.path
	suppressed := samePath && s.watcher != nil
	if suppressed {
		s.watcher.SuppressNext()
	}

	var expect fsutil.Stamp
	if samePath {
		expect = s.stamp
	}
	stamp, err := fsutil.SaveDocument(ctx, path, s.editor.Text(), expect)
	if err != nil {
		if suppressed {
			s.watcher.ClearSuppression()
		}
		return fmt.Errorf("save document: %w", err)
	}

	s.path = path
	s.stamp = stamp
	s.editor.MarkClean()
	s.discardSnapshotLocked(ctx)

	if samePath {
		return nil
	}
	return s.watchLocked(path)
}

// Restore loads the autosave snapshot, if there is one. The restored
// document is dirty because its relation to the file on disk is unknown.
// It reports whether a snapshot was restored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.opts.Store == nil {
		return false, nil
	}
	snapshot, err := s.opts.Store.Load(ctx)
	if errors.Is(err, autosave.ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}

	var stamp fsutil.Stamp
	if snapshot.CurrentPath != "" {
		if _, current, readErr := fsutil.ReadDocument(ctx, snapshot.CurrentPath); readErr == nil {
			stamp = current
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	s.path = snapshot.CurrentPath
	s.stamp = stamp
	s.editor.RestoreDocument(snapshot.Text)
	if s.path == "" {
		return true, nil
	}
	return true, s.watchLocked(s.path)
}

// DiscardSnapshot removes the autosave snapshot, as when the user declines
// to restore it.
func (s *Session) DiscardSnapshot(ctx context.Context) error {
	if s.opts.Store == nil {
		return nil
	}
	if err := s.opts.Store.Clear(ctx); err != nil {
		return fmt.Errorf("discard snapshot: %w", err)
	}
	return nil
}

// HandleExternalChange reacts to the file at path changing on disk. A clean
// document is reloaded silently. With unsaved edits the resolver decides;
// reloading then also discards the snapshot. Changes to any path other than
// the current document are ignored.
func (s *Session) HandleExternalChange(ctx context.Context, path string) error {
	text, stamp, readErr := fsutil.ReadDocument(ctx, path)

	s.mu.Lock()
	if s.closed || path != s.path {
		s.mu.Unlock()
		return nil
	}
	if readErr != nil {
		s.mu.Unlock()
		return fmt.Errorf("reload document: %w", readErr)
	}
	if text == s.editor.Text() {
		s.stamp = stamp
		s.mu.Unlock()
		return nil
	}
	if !s.editor.Dirty() {
		s.reloadLocked(text, stamp)
		s.mu.Unlock()
		s.opts.OnReload(path)
		return nil
	}
	s.mu.Unlock()

	// The resolver may block on the user, so it runs unlocked.
	reload := s.opts.Resolver.ReloadOnConflict(path)

	s.mu.Lock()
	if s.closed || path != s.path {
		s.mu.Unlock()
		return nil
	}
	if !reload {
		// The edits win. The next save overwrites what is on disk now.
		s.stamp = stamp
		s.mu.Unlock()
		return nil
	}
	s.reloadLocked(text, stamp)
	s.discardSnapshotLocked(ctx)
	s.mu.Unlock()

	s.opts.OnReload(path)
	return nil
}

func (s *Session) reloadLocked(text string, stamp fsutil.Stamp) {
	s.stamp = stamp
	cursor := s.editor.Cursor()
	s.editor.LoadDocument(text, textbuf.New(text, cursor.Start, cursor.End).Sel)
}

// Close stops watching and writes any pending snapshot.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	var errs []error
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
		s.watcher = nil
	}
	if s.scheduler != nil {
		if err := s.scheduler.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush snapshot: %w", err))
		}
	}
	return errors.Join(errs...)
}

// discardSnapshotLocked drops the pending snapshot and removes the stored
// one once any snapshot write already running has finished.
func (s *Session) discardSnapshotLocked(ctx context.Context) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Clear(ctx); err != nil {
		s.opts.OnError(fmt.Errorf("clear snapshot: %w", err))
	}
}

// watchLocked points the watcher at path.
func (s *Session) watchLocked(path string) error {
	if !s.opts.Watch {
		return nil
	}
	if s.watcher != nil {
		if s.watcher.Path() == path {
			return nil
		}
		if err := s.watcher.Stop(); err != nil {
			s.opts.OnError(err)
		}
		s.watcher = nil
	}

	opts := []watch.Option{watch.WithErrorHandler(s.opts.OnError)}
	if s.opts.WatchDelay > 0 {
		opts = append(opts, watch.WithDelay(s.opts.WatchDelay))
	}
	watcher, err := watch.Start(path, s.onFileChanged, opts...)
	if err != nil {
		return fmt.Errorf("watch document: %w", err)
	}
	s.watcher = watcher
	return nil
}

func (s *Session) onFileChanged(path string) {
	if err := s.HandleExternalChange(context.Background(), path); err != nil {
		s.opts.OnError(err)
	}
}

func (s *Session) baseDir() string {
	if s.path == "" {
		return ""
	}
	return filepath.Dir(s.path)
}

// editorHooks connects the editor's render and persistence requests to the
// session. The editor only calls them while the session is locked.
type editorHooks struct {
	session *Session
}

func (h editorHooks) RequestRender(text string) {
	s := h.session
	if s.opts.Preview == nil {
		return
	}
	html, err := s.opts.Preview.Render(context.Background(), []byte(text), s.baseDir())
	if err != nil {
		s.opts.OnError(fmt.Errorf("render preview: %w", err))
		return
	}
	s.html = html
	s.opts.OnRender(html)
}

func (h editorHooks) ScheduleSave(text string) {
	if h.session.scheduler != nil {
		h.session.scheduler.Schedule(text, h.session.path)
	}
}

func (h editorHooks) CancelScheduledSave() {
	if h.session.scheduler != nil {
		h.session.scheduler.Cancel()
	}
}

func (h editorHooks) ClearSnapshot() {
	h.session.discardSnapshotLocked(context.Background())
}
