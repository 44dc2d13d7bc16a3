package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp is the kind of file system change.
type ChangeOp int

const (
	ChangeWrite ChangeOp = iota
	ChangeCreate
	ChangeRemove
	ChangeRename
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeCreate:
		return "create"
	case ChangeRemove:
		return "remove"
	case ChangeRename:
		return "rename"
	default:
		return "write"
	}
}

// Change is a detected file change.
type Change struct {
	Path string
	Op   ChangeOp
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are watched. Directories are watched recursively, files by
	// watching their parent directory.
	Paths []string

	// Ignore patterns to skip (globs).
	Ignore []string

	// Debounce is the quiet period before a batch is delivered.
	Debounce time.Duration

	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
	".DS_Store",
}

// Watcher delivers debounced batches of file changes.
type Watcher struct {
	config   WatcherConfig
	fs       *fsnotify.Watcher
	onChange func([]Change)

	// dirs are the recursive roots, files the individually watched files.
	dirs  []string
	files map[string]bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewWatcher creates a watcher and registers every path. Paths are watched
// from the moment NewWatcher returns; Start delivers the events.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config: config,
		fs:     fsw,
		files:  make(map[string]bool),
	}
	for _, p := range config.Paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(p string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.files[abs] = true
		return w.fs.Add(filepath.Dir(abs))
	}
	w.dirs = append(w.dirs, abs)
	return w.addRecursive(abs)
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

// OnChange sets the callback for change batches. Paths in a batch are
// unique and sorted.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start delivers changes until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	pending := make(map[string]Change)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			change, ok := w.translate(event)
			if !ok {
				continue
			}
			pending[change.Path] = change
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Stop()
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			w.flush(pending)
			pending = make(map[string]Change)
		}
	}
}

func (w *Watcher) flush(pending map[string]Change) {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	if callback == nil || len(pending) == 0 {
		return
	}

	changes := make([]Change, 0, len(pending))
	for _, c := range pending {
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	callback(changes)
}

// translate filters an fsnotify event and converts it to a Change. New
// directories under a recursive root are added to the watch.
func (w *Watcher) translate(event fsnotify.Event) (Change, bool) {
	if !w.relevant(event.Name) || w.shouldIgnore(event.Name) {
		return Change{}, false
	}

	var op ChangeOp
	switch {
	case event.Op.Has(fsnotify.Create):
		op = ChangeCreate
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.config.Logger.Warn("watch directory", "path", event.Name, "error", err)
			}
			return Change{}, false
		}
	case event.Op.Has(fsnotify.Write):
		op = ChangeWrite
	case event.Op.Has(fsnotify.Remove):
		op = ChangeRemove
	case event.Op.Has(fsnotify.Rename):
		op = ChangeRename
	default:
		// chmod
		return Change{}, false
	}
	return Change{Path: event.Name, Op: op}, true
}

func (w *Watcher) relevant(name string) bool {
	if w.files[name] {
		return true
	}
	for _, dir := range w.dirs {
		if isWithinDir(name, dir) {
			return true
		}
	}
	return false
}

// Stop stops the watcher and releases the file system watch.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
	w.fs.Close()
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	return matchIgnore(w.config.Ignore, fullPath)
}

func matchIgnore(patterns []string, fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}

		hasPathSep := strings.ContainsAny(pattern, `/\`)
		if strings.ContainsAny(pattern, "*?[") {
			if hasPathSep {
				if ok, _ := path.Match(filepath.ToSlash(pattern), normalized); ok {
					return true
				}
			} else if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
			continue
		}

		if hasPathSep {
			if hasSegments(normalized, filepath.ToSlash(pattern)) {
				return true
			}
			continue
		}
		if hasSegments(normalized, pattern) {
			return true
		}
	}
	return false
}

// hasSegments reports whether pattern's segments appear contiguously in p.
func hasSegments(p, pattern string) bool {
	pathParts := splitPathSegments(p)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

outer:
	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		for j := range patternParts {
			if pathParts[i+j] != patternParts[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

func splitPathSegments(p string) []string {
	var result []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

func isWithinDir(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
