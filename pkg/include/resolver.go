package include

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vango-dev/wingman/pkg/node"
)

const tracerName = "github.com/vango-dev/wingman/pkg/include"

// ReadEvent describes one completed include read.
type ReadEvent struct {
	Path     string
	Bytes    int
	Duration time.Duration
	Err      error
}

// Config configures a Resolver.
type Config struct {
	// Source reads include files. Defaults to DirSource.
	Source Source

	// MaxConcurrentReads bounds simultaneous reads. 0 means unbounded.
	MaxConcurrentReads int

	// Logger receives a debug record per read. If nil, slog.Default() is used.
	Logger *slog.Logger

	// OnRead is called after every read attempt, from the reading goroutine.
	OnRead func(ReadEvent)
}

// Resolver replaces Include elements with file contents.
type Resolver struct {
	config Config
	sem    *semaphore.Weighted
	tracer trace.Tracer
}

// NewResolver creates a Resolver.
func NewResolver(config Config) *Resolver {
	if config.Source == nil {
		config.Source = DirSource{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	r := &Resolver{
		config: config,
		tracer: otel.Tracer(tracerName),
	}
	if config.MaxConcurrentReads > 0 {
		r.sem = semaphore.NewWeighted(int64(config.MaxConcurrentReads))
	}
	return r
}

// Resolve resolves includes against the local filesystem.
func Resolve(ctx context.Context, n node.Node, baseDir string) (node.Node, error) {
	return NewResolver(Config{}).Resolve(ctx, n, baseDir)
}

// Resolve returns a copy of n in which every Include element is replaced by
// the text of baseDir joined with its src prop. Nodes without includes are
// returned as they are.
func (r *Resolver) Resolve(ctx context.Context, n node.Node, baseDir string) (node.Node, error) {
	ctx, span := r.tracer.Start(ctx, "include.resolve",
		trace.WithAttributes(attribute.String("wingman.include.base", baseDir)))
	defer span.End()

	out, err := r.resolveNode(ctx, n, baseDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolveNode(ctx context.Context, n node.Node, baseDir string) (node.Node, error) {
	switch node.KindOf(n) {
	case node.KindAbsent, node.KindBool, node.KindText, node.KindNumber:
		return n, nil
	case node.KindSeq:
		resolved, err := r.resolveAll(ctx, n.(node.Seq), baseDir)
		if err != nil {
			return nil, err
		}
		return node.Seq(resolved), nil
	case node.KindElement:
		return r.resolveElement(ctx, n.(*node.Element), baseDir)
	default:
		return nil, fmt.Errorf("include: unknown node kind %v", node.KindOf(n))
	}
}

// resolveAll resolves every node concurrently. Result i always corresponds
// to input i.
func (r *Resolver) resolveAll(ctx context.Context, nodes []node.Node, baseDir string) ([]node.Node, error) {
	out := make([]node.Node, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range nodes {
		g.Go(func() error {
			resolved, err := r.resolveNode(gctx, child, baseDir)
			if err != nil {
				return err
			}
			out[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolveElement(ctx context.Context, el *node.Element, baseDir string) (node.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if el.Type.Intrinsic == node.IntrinsicInclude {
		src := el.Props.String("src")
		if src == "" {
			return nil, ErrMissingIncludeSource
		}
		text, err := r.read(ctx, filepath.Join(baseDir, src))
		if err != nil {
			return nil, err
		}
		return node.Text("\n\n" + strings.TrimSpace(text) + "\n"), nil
	}

	children, err := r.resolveAll(ctx, el.Children, baseDir)
	if err != nil {
		return nil, err
	}
	return el.WithChildren(children...), nil
}

func (r *Resolver) read(ctx context.Context, name string) (string, error) {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer r.sem.Release(1)
	}

	ctx, span := r.tracer.Start(ctx, "include.read",
		trace.WithAttributes(attribute.String("wingman.include.path", name)))
	defer span.End()

	r.config.Logger.Debug("reading include", "path", name)

	start := time.Now()
	data, err := r.config.Source.ReadFile(ctx, name)
	ev := ReadEvent{Path: name, Bytes: len(data), Duration: time.Since(start), Err: err}
	if r.config.OnRead != nil {
		r.config.OnRead(ev)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &ReadError{Path: name, Err: err}
	}
	span.SetAttributes(attribute.Int("wingman.include.bytes", len(data)))
	return string(data), nil
}
