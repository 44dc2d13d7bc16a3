package include

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source reads raw include text by path.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, name string) ([]byte, error)

// ReadFile implements Source.
func (f SourceFunc) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// DirSource reads from the local filesystem.
type DirSource struct{}

// ReadFile implements Source.
func (DirSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(name)
}

// FSSource reads from an fs.FS. Names are cleaned and made relative to the
// root of the filesystem.
type FSSource struct {
	FS fs.FS
}

// ReadFile implements Source.
func (s FSSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, fsName(name))
}

func fsName(name string) string {
	clean := path.Clean(filepath.ToSlash(name))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" {
		return "."
	}
	return clean
}
