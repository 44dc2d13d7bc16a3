package dev

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/vango-dev/wingman/pkg/compose"
	"github.com/vango-dev/wingman/pkg/output"
)

// Snapshot is the outcome of one build.
type Snapshot struct {
	// Seq counts builds, starting at 1. Zero means nothing was built yet.
	Seq int

	Result   *compose.Result
	Err      error
	Duration time.Duration
	BuiltAt  time.Time
}

// Files returns the files of the snapshot, or nil when the build failed
// before assembling.
func (s Snapshot) Files() []output.File {
	if s.Result == nil {
		return nil
	}
	return s.Result.Files
}

// File looks up an output file by path.
func (s Snapshot) File(path string) (output.File, bool) {
	for _, f := range s.Files() {
		if f.Path == path {
			return f, true
		}
	}
	return output.File{}, false
}

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	Composer *compose.Composer
	Options  compose.Options

	// Write persists each successful composition.
	Write bool

	Logger *slog.Logger
}

// Builder runs compositions and remembers the latest outcome.
type Builder struct {
	config BuilderConfig

	// build serializes compositions.
	build sync.Mutex

	mu   sync.RWMutex
	last Snapshot
}

// NewBuilder creates a builder.
func NewBuilder(config BuilderConfig) *Builder {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Builder{config: config}
}

// Build composes once, and writes when configured to.
func (b *Builder) Build(ctx context.Context) Snapshot {
	b.build.Lock()
	defer b.build.Unlock()

	start := time.Now()
	var (
		result *compose.Result
		err    error
	)
	if b.config.Write {
		result, err = b.config.Composer.Install(ctx, b.config.Options)
	} else {
		result, err = b.config.Composer.Compose(ctx, b.config.Options)
	}

	b.mu.Lock()
	snap := Snapshot{
		Seq:      b.last.Seq + 1,
		Result:   result,
		Err:      err,
		Duration: time.Since(start),
		BuiltAt:  time.Now(),
	}
	b.last = snap
	b.mu.Unlock()

	if err != nil {
		b.config.Logger.Error("composition failed", "error", err)
	} else {
		b.config.Logger.Info("composed",
			"files", len(snap.Files()),
			"duration", snap.Duration.Round(time.Millisecond))
	}
	return snap
}

// Last returns the latest snapshot.
func (b *Builder) Last() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// Watch builds once, then rebuilds after every batch of changes until ctx
// is done. onBuild, when set, sees every snapshot.
func Watch(ctx context.Context, b *Builder, config WatcherConfig, onBuild func(Snapshot, []Change)) error {
	watcher, err := NewWatcher(config)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	report := func(snap Snapshot, changes []Change) {
		if onBuild != nil {
			onBuild(snap, changes)
		}
	}
	report(b.Build(ctx), nil)

	watcher.OnChange(func(changes []Change) {
		changes = withoutOutputs(b.Last(), changes)
		if len(changes) == 0 {
			return
		}
		for _, c := range changes {
			b.config.Logger.Debug("change", "path", c.Path, "op", c.Op.String())
		}
		report(b.Build(ctx), changes)
	})

	err = watcher.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// withoutOutputs drops changes to files the last build wrote.
func withoutOutputs(snap Snapshot, changes []Change) []Change {
	if snap.Result == nil || snap.Result.Context == nil {
		return changes
	}
	root, err := filepath.Abs(snap.Result.Context.TargetDirectory)
	if err != nil {
		return changes
	}
	written := make(map[string]bool, len(snap.Files()))
	for _, f := range snap.Files() {
		written[filepath.Join(root, filepath.FromSlash(f.Path))] = true
	}

	kept := changes[:0:0]
	for _, c := range changes {
		if !written[c.Path] {
			kept = append(kept, c)
		}
	}
	return kept
}
