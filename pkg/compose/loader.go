package compose

import (
	"context"

	"github.com/vango-dev/wingman/pkg/node"
)

// Loader produces the tree to compose.
type Loader interface {
	Load(ctx context.Context) (node.Node, error)
}

// LoaderFunc adapts a Go entry point to Loader.
type LoaderFunc func(ctx context.Context) (node.Node, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (node.Node, error) {
	return f(ctx)
}

// Static returns a Loader that always yields n.
func Static(n node.Node) Loader {
	return LoaderFunc(func(context.Context) (node.Node, error) {
		return n, nil
	})
}
