// Package watch regenerates the README when solution sources or inputs change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/readmegen/pkg/constants"
	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/logging"
)

// GenerateFunc performs one generation. Errors are logged, never fatal.
type GenerateFunc func(ctx context.Context) error

// Watcher runs GenerateFunc once at start and again after every burst of
// file changes under its paths. Generations never overlap.
type Watcher struct {
	paths    []string
	ignore   map[string]bool
	debounce time.Duration
	generate GenerateFunc
	logger   *zerolog.Logger
	runs     int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change triggers a generation.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore skips events for the given files, typically the README itself.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			w.ignore[absPath(p)] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a Watcher over paths.
func New(paths []string, generate GenerateFunc, opts ...Option) *Watcher {
	w := &Watcher{
		paths:    paths,
		ignore:   make(map[string]bool),
		debounce: constants.DefaultWatchDebounce,
		generate: generate,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Runs returns how many generations have been attempted.
// It is only meaningful after Run has returned.
func (w *Watcher) Runs() int {
	return w.runs
}

// Run blocks until ctx is cancelled. It returns an error only when nothing
// could be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapIO("watch", "", err)
	}
	defer fw.Close()

	watched := 0
	for _, root := range w.paths {
		n, err := w.addTree(fw, root)
		if err != nil {
			w.logger.Warn().Err(err).Str("path", root).Msg("Not watching path")
			continue
		}
		watched += n
	}
	if watched == 0 {
		return errors.NewValidationError("watch_paths", w.paths, "no watchable directories found")
	}

	w.logger.Info().Strs("paths", w.paths).Int("directories", watched).Msg("Watching for changes")
	w.runOnce(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Int("runs", w.runs).Msg("Stopped watching")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if _, err := w.addTree(fw, ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", ev.Name).Msg("Failed to watch new directory")
					}
				}
			}
			w.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("Change detected")
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	w.runs++
	runCtx := logging.WithRunID(ctx, w.runs)
	if err := w.generate(runCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error().Err(err).Int("run_id", w.runs).Msg("Generation failed, still watching")
		return
	}
	w.logger.Info().Int("run_id", w.runs).Msg("Generation complete")
}

// relevant filters out chmod-only events, ignored files and dotfiles.
// Dotfiles cover editor swap files and the README's own temp file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	return !w.ignore[absPath(ev.Name)]
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && (name == "target" || name == ".git" || (len(name) > 1 && name[0] == '.')) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(p)
}
