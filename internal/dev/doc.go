// Package dev provides watch mode and the preview server.
//
// This package implements:
//   - Recursive file watching with ignore globs and debouncing
//   - Recomposition on change through a Builder
//   - A preview server that lists, serves and renders the composed files
//   - WebSocket-based browser refresh with an error overlay
//
// # Usage
//
//	builder := dev.NewBuilder(dev.BuilderConfig{
//	    Composer: composer,
//	    Options:  compose.Options{Target: "claude", TargetDirectory: "."},
//	})
//
//	srv := dev.NewServer(dev.ServerOptions{
//	    Address: "localhost:4400",
//	    Builder: builder,
//	    Watch:   &dev.WatcherConfig{Paths: []string{"."}},
//	})
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//	/                   index of composed files
//	/files/{path}       raw file content
//	/view/{path}        markdown rendered to HTML
//	/_wingman/reload    reload WebSocket
//	/metrics            Prometheus metrics, when a gatherer is set
//	/healthz            build status as JSON
//
// # Reload Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "reload", "files": ["..."]} // Reloads the page
//	{"type": "error", "error": "..."}    // Shows the error overlay
//	{"type": "clear"}                    // Clears the error overlay
package dev
