package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/wingman/internal/config"
	"github.com/vango-dev/wingman/internal/dev"
	"github.com/vango-dev/wingman/internal/errors"
)

func watcherConfig(cfg *config.Config, a *app) dev.WatcherConfig {
	paths := cfg.WatchPaths()
	// Trees and includes outside the watch roots are watched on their own.
	for _, extra := range []string{cfg.EntryPath(), cfg.IncludeBasePath()} {
		if !covered(paths, extra) {
			if _, err := os.Stat(extra); err == nil {
				paths = append(paths, extra)
			}
		}
	}
	return dev.WatcherConfig{
		Paths:    paths,
		Ignore:   append(append([]string{}, dev.DefaultIgnore...), cfg.Watch.Ignore...),
		Debounce: cfg.Watch.Debounce,
		Logger:   a.logger,
	}
}

func covered(roots []string, p string) bool {
	for _, root := range roots {
		if root == p || isWithin(p, root) {
			return true
		}
	}
	return false
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func watchCmd(g *globals) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompose and write on every change",
		Long: `Install once, then watch the tree, includes and watch paths and
install again after every change.

Examples:
  wingman watch
  wingman watch --target claude -o language=go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadProject(cmd, args, &flags)
			if err != nil {
				return err
			}
			a := g.newApp(cfg)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			builder := dev.NewBuilder(dev.BuilderConfig{
				Composer: a.composer,
				Options:  a.options(),
				Write:    true,
				Logger:   a.logger,
			})

			out := cmd.OutOrStdout()
			info(out, "Watching %s (Ctrl+C to stop)", cfg.Dir())
			return dev.Watch(ctx, builder, watcherConfig(cfg, a), func(snap dev.Snapshot, changes []dev.Change) {
				if snap.Err != nil {
					errors.Fprint(cmd.ErrOrStderr(), classify(snap.Err))
					return
				}
				success(out, "Wrote %d files in %s", len(snap.Files()), snap.Duration.Round(time.Millisecond))
			})
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func previewCmd(g *globals) *cobra.Command {
	var (
		flags   projectFlags
		host    string
		port    int
		noWatch bool
		write   bool
	)

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Serve the composed outputs in the browser",
		Long: `Start a local server that lists and renders every composed file.

Pages reload when the tree or its includes change. Nothing is
written unless --write is given.

Routes:
  /              index of composed files
  /view/{path}   file rendered as HTML
  /files/{path}  raw file
  /metrics       Prometheus metrics
  /healthz       build status

Examples:
  wingman preview
  wingman preview --port 8080 --target claude`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadProject(cmd, args, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Preview.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Preview.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a := g.newApp(cfg)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			builder := dev.NewBuilder(dev.BuilderConfig{
				Composer: a.composer,
				Options:  a.options(),
				Write:    write,
				Logger:   a.logger,
			})

			opts := dev.ServerOptions{
				Address:    cfg.PreviewAddress(),
				Builder:    builder,
				Gatherer:   a.registry,
				Registerer: a.registry,
				Logger:     a.logger,
			}
			if !noWatch {
				wc := watcherConfig(cfg, a)
				opts.Watch = &wc
			}

			out := cmd.OutOrStdout()
			opts.OnBuild = func(snap dev.Snapshot) {
				if snap.Err != nil {
					errors.Fprint(cmd.ErrOrStderr(), classify(snap.Err))
					return
				}
				success(out, "Composed %d files in %s", len(snap.Files()), snap.Duration.Round(time.Millisecond))
			}

			info(out, "Preview at %s (Ctrl+C to stop)", cfg.PreviewURL())
			return dev.NewServer(opts).Start(ctx)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from wingman.yaml)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from wingman.yaml)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not recompose on change")
	cmd.Flags().BoolVar(&write, "write", false, "Also write outputs after every build")
	return cmd
}
