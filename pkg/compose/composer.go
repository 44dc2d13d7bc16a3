package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/include"
	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/output"
	"github.com/vango-dev/wingman/pkg/render"
)

const defaultTracerName = "github.com/vango-dev/wingman/pkg/compose"

// Stages of a composition, used for span names, metric labels and errors.
const (
	StageLoad     = "load"
	StageIncludes = "includes"
	StageRender   = "render"
	StageWrite    = "write"
	StageClean    = "clean"
)

// ErrNoCleaner is returned by Clean when the writer cannot remove files.
var ErrNoCleaner = errors.New("compose: writer does not support clean")

// StageError attributes a failure to a composition stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("compose: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Config configures a Composer.
type Config struct {
	// Loader produces the tree. Required.
	Loader Loader

	// Source reads include files. Defaults to include.DirSource.
	Source include.Source

	// MaxConcurrentReads bounds include reads. 0 means unbounded.
	MaxConcurrentReads int

	// Store is installed as the active context during rendering.
	// Defaults to composition.Default(), which built-in components read.
	Store *composition.Store

	// Writer persists files. Defaults to a DiskWriter rooted at the
	// composition's target directory.
	Writer output.Writer

	// DryRun is passed to the default DiskWriter.
	DryRun bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics

	// TracerName overrides the OpenTelemetry tracer name.
	TracerName string
}

// Options select what a single composition targets.
type Options struct {
	// Target is the agent name. Defaults to composition.DefaultAgent.
	Target string

	// TargetDirectory is where output lands. Defaults to the working
	// directory.
	TargetDirectory string

	// IncludeBase is the directory include paths are relative to.
	// Defaults to TargetDirectory.
	IncludeBase string

	// Options are extension options exposed to components.
	Options map[string]string

	// Platform overrides the detected platform.
	Platform composition.Platform
}

// Result is the outcome of one composition.
type Result struct {
	Context *composition.Context
	Profile output.Profile
	Render  *render.Result
	Files   []output.File
}

// Composer runs compositions.
type Composer struct {
	config   Config
	renderer *render.Renderer
	tracer   trace.Tracer
}

// New creates a Composer.
func New(config Config) *Composer {
	if config.Store == nil {
		config.Store = composition.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}
	return &Composer{
		config:   config,
		renderer: render.NewRenderer(render.RendererConfig{Store: config.Store}),
		tracer:   otel.Tracer(config.TracerName),
	}
}

// Context builds the composition context for opts.
func (c *Composer) Context(opts Options) *composition.Context {
	ctxOpts := []composition.Option{
		composition.WithAgent(opts.Target),
		composition.WithTargetDirectory(opts.TargetDirectory),
		composition.WithOptions(opts.Options),
	}
	if opts.Platform != "" {
		ctxOpts = append(ctxOpts, composition.WithPlatform(opts.Platform))
	}
	return composition.New(ctxOpts...)
}

// Compose loads, resolves, renders and assembles. Nothing is written.
func (c *Composer) Compose(ctx context.Context, opts Options) (result *Result, err error) {
	cctx := c.Context(opts)
	includeBase := opts.IncludeBase
	if includeBase == "" {
		includeBase = cctx.TargetDirectory
	}

	ctx, span := c.tracer.Start(ctx, "compose", trace.WithAttributes(
		attribute.String("wingman.target", cctx.AgentName),
		attribute.String("wingman.target_directory", cctx.TargetDirectory),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		c.config.Metrics.observeStage("total", time.Since(start).Seconds())
		c.config.Metrics.recordComposition(cctx.AgentName, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if c.config.Loader == nil {
		return nil, &StageError{Stage: StageLoad, Err: errors.New("no loader configured")}
	}

	c.config.Logger.Debug("composing", "target", cctx.AgentName, "dir", cctx.TargetDirectory)

	tree, err := stage(ctx, c, StageLoad, func(ctx context.Context) (node.Node, error) {
		return c.config.Loader.Load(ctx)
	})
	if err != nil {
		return nil, err
	}

	resolved, err := stage(ctx, c, StageIncludes, func(ctx context.Context) (node.Node, error) {
		r := include.NewResolver(include.Config{
			Source:             c.config.Source,
			MaxConcurrentReads: c.config.MaxConcurrentReads,
			Logger:             c.config.Logger,
			OnRead: func(ev include.ReadEvent) {
				c.config.Metrics.recordInclude(ev.Err)
			},
		})
		return r.Resolve(ctx, tree, includeBase)
	})
	if err != nil {
		return nil, err
	}

	rendered, err := stage(ctx, c, StageRender, func(ctx context.Context) (*render.Result, error) {
		return c.renderer.Render(resolved, cctx)
	})
	if err != nil {
		return nil, err
	}

	profile := output.ProfileFor(cctx.AgentName)
	files := output.Assemble(rendered, profile)
	c.config.Metrics.recordOutputs(len(files))
	span.SetAttributes(attribute.Int("wingman.output_files", len(files)))

	c.config.Logger.Debug("composed", "target", cctx.AgentName, "files", len(files))

	return &Result{
		Context: cctx,
		Profile: profile,
		Render:  rendered,
		Files:   files,
	}, nil
}

// Write persists the files of result.
func (c *Composer) Write(ctx context.Context, result *Result) error {
	_, err := stage(ctx, c, StageWrite, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.writer(result).Write(ctx, result.Files)
	})
	return err
}

// Clean removes the files result would write.
func (c *Composer) Clean(ctx context.Context, result *Result) error {
	_, err := stage(ctx, c, StageClean, func(ctx context.Context) (struct{}, error) {
		cleaner, ok := c.writer(result).(output.Cleaner)
		if !ok {
			return struct{}{}, ErrNoCleaner
		}
		return struct{}{}, cleaner.Clean(ctx, result.Files)
	})
	return err
}

// Install composes and writes in one step.
func (c *Composer) Install(ctx context.Context, opts Options) (*Result, error) {
	result, err := c.Compose(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Write(ctx, result); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Composer) writer(result *Result) output.Writer {
	if c.config.Writer != nil {
		return c.config.Writer
	}
	return output.NewDiskWriter(output.DiskConfig{
		Root:   result.Context.TargetDirectory,
		DryRun: c.config.DryRun,
		Logger: c.config.Logger,
	})
}

// stage runs fn in a child span, times it and wraps its error.
func stage[T any](ctx context.Context, c *Composer, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := c.tracer.Start(ctx, "compose."+name)
	defer span.End()

	start := time.Now()
	out, err := fn(ctx)
	c.config.Metrics.observeStage(name, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var zero T
		return zero, &StageError{Stage: name, Err: err}
	}
	return out, nil
}
