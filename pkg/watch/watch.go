// Package watch reports external changes to the document being edited.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the file must stay quiet before a change is
// reported. Editors and sync tools often write a file in several steps.
const DefaultDelay = 500 * time.Millisecond

// ErrStopped is returned by operations on a stopped watcher.
var ErrStopped = errors.New("watcher stopped")

// Handler is called with the watched path after an external change.
type Handler func(path string)

// Watcher watches one file. The file's directory is watched rather than
// the file itself so that replace-by-rename saves are seen.
type Watcher struct {
	path    string
	delay   time.Duration
	handler Handler
	onError func(error)

	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	timer    *time.Timer
	suppress bool
	stopped  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the quiet period before a change is reported.
func WithDelay(delay time.Duration) Option {
	return func(w *Watcher) {
		if delay > 0 {
			w.delay = delay
		}
	}
}

// WithErrorHandler receives errors reported by the operating system.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.onError = fn
		}
	}
}

// Start begins watching path and calls handler for every change that is
// not suppressed.
func Start(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		delay:   DefaultDelay,
		handler: handler,
		onError: func(error) {},
		fs:      fsw,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// SuppressNext ignores the next reported change. It is set before the
// application writes the file itself.
func (w *Watcher) SuppressNext() {
	w.mu.Lock()
	w.suppress = true
	w.mu.Unlock()
}

// ClearSuppression undoes SuppressNext, typically after a failed save.
func (w *Watcher) ClearSuppression() {
	w.mu.Lock()
	w.suppress = false
	w.mu.Unlock()
}

// Stop ends watching. Pending reports are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.arm()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// arm restarts the quiet-period timer.
func (w *Watcher) arm() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	if w.suppress {
		w.suppress = false
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.handler(w.path)
}
