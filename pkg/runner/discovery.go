package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover finds the Markdown sources named by opts and returns their
// absolute paths, sorted and without duplicates.
//
// Directories are walked recursively. Hidden entries and editor leftovers
// ending in "~" are skipped, as are the output directory and opts.SkipDirs
// when they lie inside a walked tree. Files named directly in opts.Paths
// only have to match the extension and glob filters.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	walker := &sourceWalker{
		ctx:        ctx,
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		found:      make(map[string]struct{}),
		walked:     make(map[string]struct{}),
	}
	if opts.OutputDir != "" {
		walker.pruned = append(walker.pruned, resolveIn(workDir, opts.OutputDir))
	}
	for _, dir := range opts.SkipDirs {
		walker.pruned = append(walker.pruned, resolveIn(workDir, dir))
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := resolveIn(workDir, input)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			walker.consider(path)
			continue
		}
		if err := walker.walk(path); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(walker.found))
	for path := range walker.found {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func resolveIn(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}

// sourceWalker collects sources across the inputs of one Discover call.
type sourceWalker struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call.
	opts       Options
	workDir    string
	extensions []string

	// pruned directories are never entered.
	pruned []string
	found  map[string]struct{}
	// walked holds the resolved roots already walked, which ends symlink
	// cycles.
	walked map[string]struct{}
}

func (w *sourceWalker) walk(root string) error {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		if _, done := w.walked[resolved]; done {
			return nil
		}
		w.walked[resolved] = struct{}{}
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if path == root {
			return nil
		}

		if isLeftover(entry.Name()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case entry.IsDir():
			if w.isPruned(path) || matchesAny(w.rel(path), w.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
		case entry.Type()&fs.ModeSymlink != 0:
			return w.followLink(path)
		default:
			w.consider(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// followLink treats a linked file like a regular one and walks a linked
// directory when FollowSymlinks is set. Broken links are ignored.
func (w *sourceWalker) followLink(path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // Broken links are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Unreadable link targets are skipped.
	}
	if !info.IsDir() {
		w.consider(path)
		return nil
	}
	if !w.opts.FollowSymlinks {
		return nil
	}
	return w.walk(target)
}

func (w *sourceWalker) consider(path string) {
	if !hasExtension(path, w.extensions) {
		return
	}
	rel := w.rel(path)
	if matchesAny(rel, w.opts.ExcludeGlobs) {
		return
	}
	if len(w.opts.IncludeGlobs) > 0 && !matchesAny(rel, w.opts.IncludeGlobs) {
		return
	}
	w.found[path] = struct{}{}
}

func (w *sourceWalker) isPruned(dir string) bool {
	for _, pruned := range w.pruned {
		if dir == pruned {
			return true
		}
	}
	return false
}

func (w *sourceWalker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// isLeftover reports whether a directory entry is hidden or an editor
// backup such as the autosave snapshot.md~.
func isLeftover(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range extensions {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a doublestar pattern such as "*.md",
// "docs/**" or "**/vendor/**". A pattern without a slash also matches the
// file name alone. Malformed patterns match nothing.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if matched, err := doublestar.Match(pattern, path); err == nil && matched {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	matched, err := doublestar.Match(pattern, filepath.Base(path))
	return err == nil && matched
}
