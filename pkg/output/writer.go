package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists assembled files.
type Writer interface {
	Write(ctx context.Context, files []File) error
}

// Cleaner removes previously written files.
type Cleaner interface {
	Clean(ctx context.Context, files []File) error
}

// WriteError reports a failed write or remove of one file.
type WriteError struct {
	Op   string // "write" or "remove"
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("output: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DiskConfig configures a DiskWriter.
type DiskConfig struct {
	// Root is the directory file paths are resolved against.
	Root string

	// DryRun logs what would happen without touching the filesystem.
	DryRun bool

	// FileMode and DirMode default to 0644 and 0755.
	FileMode fs.FileMode
	DirMode  fs.FileMode

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DiskWriter writes files below a root directory, creating parent
// directories and overwriting existing files.
type DiskWriter struct {
	config DiskConfig
}

// NewDiskWriter creates a DiskWriter.
func NewDiskWriter(config DiskConfig) *DiskWriter {
	if config.FileMode == 0 {
		config.FileMode = 0o644
	}
	if config.DirMode == 0 {
		config.DirMode = 0o755
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &DiskWriter{config: config}
}

// Path returns the absolute-or-root-relative location of f.
func (w *DiskWriter) Path(f File) string {
	return filepath.Join(w.config.Root, filepath.FromSlash(f.Path))
}

// Write implements Writer. It stops at the first failure.
func (w *DiskWriter) Write(ctx context.Context, files []File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := w.Path(f)
		if w.config.DryRun {
			w.config.Logger.Info("would write file", "path", target, "bytes", len(f.Content))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), w.config.DirMode); err != nil {
			return &WriteError{Op: "write", Path: target, Err: err}
		}
		if err := os.WriteFile(target, []byte(f.Content), w.config.FileMode); err != nil {
			return &WriteError{Op: "write", Path: target, Err: err}
		}
		w.config.Logger.Info("wrote file", "path", target, "bytes", len(f.Content))
	}
	return nil
}

// Clean implements Cleaner. Files that do not exist are skipped.
func (w *DiskWriter) Clean(ctx context.Context, files []File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := w.Path(f)
		if w.config.DryRun {
			w.config.Logger.Info("would remove file", "path", target)
			continue
		}
		if err := os.Remove(target); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.config.Logger.Warn("skipping missing file", "path", target)
				continue
			}
			return &WriteError{Op: "remove", Path: target, Err: err}
		}
		w.config.Logger.Info("removed file", "path", target)
	}
	return nil
}
