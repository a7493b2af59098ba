// Package watcher ingests documents automatically as they appear in a
// watched directory. It is a driving adapter: filesystem events drive
// the core ingestion service.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is
// ingested. Editors and downloads produce bursts of write events;
// ingesting on the first one would read a half-written file.
const DefaultDebounce = 500 * time.Millisecond

// ResultFunc receives the outcome of one automatic ingestion.
// It may be nil. Calls arrive from the watcher's run goroutine.
type ResultFunc func(path string, doc *domain.Document, err error)

// Watcher monitors one directory and ingests new or changed files
// with a supported extension.
type Watcher struct {
	ingester   driving.Ingester
	dir        string
	extensions map[string]struct{}
	debounce   time.Duration
	onResult   ResultFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithResultFunc sets the callback invoked after each ingestion attempt.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// New creates a watcher for dir. Only files whose extension is in
// extensions (lower-case, no leading dot) are ingested.
func New(ingester driving.Ingester, dir string, extensions []string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", dir)
	}

	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	w := &Watcher{
		ingester:   ingester,
		dir:        dir,
		extensions: extSet,
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches the directory until the context is cancelled.
// Events are debounced per file so a burst of writes yields one
// ingestion. Per-file ingestion failures are reported through the
// result callback but do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // Best-effort cleanup

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	// Due times for files waiting out their quiet period.
	pending := make(map[string]time.Time)

	tick := w.debounce / 2
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.shouldIngest(event) {
				logger.Debug("Queued %s (%s)", event.Name, event.Op)
				pending[event.Name] = time.Now().Add(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, due := range pending {
				if now.After(due) {
					delete(pending, path)
					w.ingestFile(ctx, path)
				}
			}
		}
	}
}

// shouldIngest filters raw filesystem events down to ingestable file
// changes: creates and writes of visible regular files with a
// supported extension.
func (w *Watcher) shouldIngest(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	if isHidden(event.Name) {
		return false
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(event.Name)), ".")
	if _, ok := w.extensions[ext]; !ok {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return true
}

// ingestFile reads the file and runs it through the ingestion pipeline.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.report(path, nil, fmt.Errorf("reading %s: %w", path, err))
		return
	}

	file := driven.RawFile{
		Name: filepath.Base(path),
		Data: data,
	}

	doc, err := w.ingester.Ingest(ctx, file, nil)
	w.report(path, doc, err)
}

func (w *Watcher) report(path string, doc *domain.Document, err error) {
	if err != nil {
		logger.Warn("Auto-ingest failed for %s: %v", path, err)
	} else {
		logger.Info("Auto-ingested %s", path)
	}
	if w.onResult != nil {
		w.onResult(path, doc, err)
	}
}

// isHidden reports whether any element of the path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
