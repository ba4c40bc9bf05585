package generate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before a
// rebuild starts.
const DefaultDebounce = 200 * time.Millisecond

// Watcher rebuilds when watched files change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	ignore   map[string]struct{}
}

// NewWatcher creates a watcher. A non-positive debounce selects
// DefaultDebounce.
func NewWatcher(log *zap.Logger, debounce time.Duration) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		log:      log.Named("watch"),
		debounce: debounce,
		ignore:   map[string]struct{}{},
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Ignore drops events for path, typically the generated stylesheet.
func (w *Watcher) Ignore(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.ignore[path] = struct{}{}
}

// AddSources watches the directories source patterns can match in.
func (w *Watcher) AddSources(base string, patterns []string) error {
	for _, root := range SourceRoots(base, patterns) {
		if err := w.AddTree(root); err != nil {
			return err
		}
	}
	return nil
}

// AddTree watches root and every non-hidden directory below it.
func (w *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		w.log.Debug("Watching directory", zap.String("dir", path))
		return w.fsw.Add(path)
	})
}

// AddFile watches the directory holding path. Editors often replace files
// instead of writing them, which a watch on the file itself would miss.
func (w *Watcher) AddFile(path string) error {
	return w.fsw.Add(filepath.Dir(path))
}

// Run calls rebuild once changes settle, until ctx is done. Rebuild errors
// are logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timerC:
			timerC = nil
			if err := rebuild(ctx); err != nil {
				w.log.Error("Rebuild failed", zap.Error(err))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", zap.Error(err))
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !hidden(ev.Name) {
					if err := w.AddTree(ev.Name); err != nil {
						w.log.Warn("Unable to watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("Change detected", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Name == "" || hidden(ev.Name) {
		return false
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	path := ev.Name
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	_, skip := w.ignore[path]
	return !skip
}

// SourceRoots returns the existing directories source patterns are rooted
// at.
func SourceRoots(base string, patterns []string) []string {
	seen := map[string]struct{}{}
	var roots []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, pattern)
		}
		root := pattern
		if fi, err := os.Stat(pattern); err != nil || !fi.IsDir() {
			root, _ = doublestar.SplitPattern(filepath.ToSlash(pattern))
			root = filepath.FromSlash(root)
		}
		fi, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !fi.IsDir() {
			root = filepath.Dir(root)
		}
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}
	return roots
}

func hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
