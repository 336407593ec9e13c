package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/sokki/pkg/fsutil"
	"github.com/yaklabco/sokki/pkg/preview"
)

// Runner renders batches of files with one preview renderer.
type Runner struct {
	// Renderer turns Markdown into HTML. It is shared by all workers.
	Renderer *preview.Renderer
}

// New creates a new Runner with the given renderer.
func New(renderer *preview.Renderer) *Runner {
	return &Runner{Renderer: renderer}
}

// Run discovers files under opts.Paths and renders them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, workDir, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; collect by path and emit in file order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker renders files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	workDir string,
	opts Options,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.renderFile(ctx, path, workDir, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (r *Runner) renderFile(ctx context.Context, path, workDir string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path, Output: OutputPath(path, workDir, opts.OutputDir)}

	if !opts.Force && upToDate(path, outcome.Output) {
		outcome.Skipped = true
		return outcome
	}

	text, _, err := fsutil.ReadDocument(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	var page []byte
	baseDir := filepath.Dir(path)
	if opts.Fragment {
		page, err = r.Renderer.Render(ctx, []byte(text), baseDir)
	} else {
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		page, err = r.Renderer.Page(ctx, title, []byte(text), baseDir)
	}
	if err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", path, err)
		return outcome
	}
	outcome.Bytes = len(page)

	if opts.DryRun {
		return outcome
	}
	if err := fsutil.WriteAtomic(ctx, outcome.Output, page, fsutil.DefaultFileMode); err != nil {
		outcome.Error = err
	}
	return outcome
}

// OutputPath returns where the page for source is written. Without an
// output directory the page sits next to its source.
func OutputPath(source, workDir, outputDir string) string {
	name := strings.TrimSuffix(source, filepath.Ext(source)) + OutputExtension
	if outputDir == "" {
		return name
	}

	rel, err := filepath.Rel(workDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(name)
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}
	return filepath.Join(outputDir, rel)
}

// upToDate reports whether output exists and is not older than source.
func upToDate(source, output string) bool {
	out, err := os.Stat(output)
	if err != nil {
		return false
	}
	src, err := os.Stat(source)
	if err != nil {
		return false
	}
	return !out.ModTime().Before(src.ModTime())
}
