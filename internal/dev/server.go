package dev

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	wingerrors "github.com/vango-dev/wingman/internal/errors"
	"github.com/vango-dev/wingman/pkg/middleware"
)

// ServerOptions configures the preview server.
type ServerOptions struct {
	// Address is the listen address, e.g. "localhost:4400".
	Address string

	// Builder produces the previewed files. Required.
	Builder *Builder

	// Watch enables rebuild on change when non-nil.
	Watch *WatcherConfig

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Registerer receives request metrics. Nil disables them.
	Registerer prometheus.Registerer

	Logger *slog.Logger

	// OnBuild is called after every build.
	OnBuild func(Snapshot)
}

// Server serves the latest composition as a browsable preview.
type Server struct {
	options  ServerOptions
	reload   *ReloadServer
	markdown goldmark.Markdown
	router   chi.Router

	mu         sync.Mutex
	running    bool
	httpServer *http.Server
}

// NewServer creates a preview server.
func NewServer(options ServerOptions) *Server {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	s := &Server{
		options: options,
		reload:  NewReloadServer(options.Logger),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.NoCache)
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName("wingman-preview"),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != ReloadPath
		}),
	))
	if s.options.Registerer != nil {
		r.Use(middleware.NewMetrics(middleware.WithRegistry(s.options.Registerer)).Handler)
	}

	r.Get("/", s.handleIndex)
	r.Get("/files/*", s.handleFile)
	r.Get("/view/*", s.handleView)
	r.Get("/healthz", s.handleHealth)
	r.Handle(ReloadPath, s.reload)
	if s.options.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.options.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the preview HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload returns the reload hub.
func (s *Server) Reload() *ReloadServer {
	return s.reload
}

// Start builds, serves and, when configured, watches until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		s.running = false
		s.mu.Unlock()
		return wingerrors.New("W040").
			WithDetailf("listen on %s: %v", s.options.Address, err).
			Wrap(err)
	}
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		s.options.Logger.Info("preview server listening", "url", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- wingerrors.New("W040").Wrap(err).WithDetail(err.Error())
		}
	}()

	if s.options.Watch != nil {
		go func() {
			if err := Watch(ctx, s.options.Builder, *s.options.Watch, s.afterBuild); err != nil {
				errCh <- err
			}
		}()
	} else {
		s.afterBuild(s.options.Builder.Build(ctx), nil)
	}

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errCh:
	}

	s.Stop()
	return err
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	s.reload.Close()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

func (s *Server) afterBuild(snap Snapshot, changes []Change) {
	if snap.Err != nil {
		s.reload.NotifyError(wingerrors.FromComposeError(snap.Err).Error())
	} else {
		s.reload.ClearError()
		files := make([]string, 0, len(changes))
		for _, c := range changes {
			files = append(files, c.Path)
		}
		s.reload.NotifyReload(files)
	}
	if s.options.OnBuild != nil {
		s.options.OnBuild(snap)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Wingman preview</title>
<style>
body { font: 15px/1.5 system-ui, sans-serif; max-width: 880px; margin: 40px auto; padding: 0 16px; }
pre.error { background: #2b1111; color: #ff8f8f; padding: 16px; white-space: pre-wrap; }
td { padding: 4px 12px 4px 0; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>{{if .Target}}{{.Target}}{{else}}Wingman{{end}}</h1>
{{if .Error}}<pre class="error">{{.Error}}</pre>{{end}}
{{if .Files}}
<table>
{{range .Files}}<tr><td><a href="/view/{{.Path}}">{{.Path}}</a></td><td class="muted">{{.Size}} bytes</td><td><a href="/files/{{.Path}}">raw</a></td></tr>
{{end}}</table>
{{else if not .Error}}<p class="muted">Nothing composed yet.</p>{{end}}
{{if .Built}}<p class="muted">Build {{.Seq}} at {{.Built}} in {{.Duration}}</p>{{end}}
{{.Script}}
</body>
</html>
`))

type indexFile struct {
	Path string
	Size int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.options.Builder.Last()

	data := struct {
		Target   string
		Error    string
		Files    []indexFile
		Seq      int
		Built    string
		Duration time.Duration
		Script   template.HTML
	}{
		Seq:      snap.Seq,
		Duration: snap.Duration.Round(time.Millisecond),
		Script:   template.HTML(ClientScript),
	}
	if snap.Result != nil && snap.Result.Context != nil {
		data.Target = snap.Result.Context.AgentName
	}
	if snap.Err != nil {
		data.Error = wingerrors.FromComposeError(snap.Err).Error()
	}
	if snap.Seq > 0 {
		data.Built = snap.BuiltAt.Format(time.Kitchen)
	}
	for _, f := range snap.Files() {
		data.Files = append(data.Files, indexFile{Path: f.Path, Size: len(f.Content)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.options.Logger.Warn("render index", "error", err)
	}
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	file, ok := s.options.Builder.Last().File(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctype := mime.TypeByExtension(path.Ext(file.Path))
	if ctype == "" || strings.HasPrefix(ctype, "text/markdown") {
		ctype = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	w.Write([]byte(file.Content))
}

var viewTemplate = template.Must(template.New("view").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Path}}</title>
<style>
body { font: 15px/1.6 system-ui, sans-serif; max-width: 880px; margin: 40px auto; padding: 0 16px; }
pre { background: #f5f5f5; padding: 12px; overflow: auto; }
pre.frontmatter { border-left: 3px solid #999; }
table { border-collapse: collapse; } td, th { border: 1px solid #ddd; padding: 4px 8px; }
</style>
</head>
<body>
<p><a href="/">&larr; all files</a> &middot; <a href="/files/{{.Path}}">raw</a></p>
{{if .Frontmatter}}<pre class="frontmatter">{{.Frontmatter}}</pre>{{end}}
{{.Body}}
{{.Script}}
</body>
</html>
`))

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	file, ok := s.options.Builder.Last().File(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	frontmatter, body := splitFrontmatter(file.Content)
	var buf bytes.Buffer
	if isMarkdown(file.Path) {
		if err := s.markdown.Convert([]byte(body), &buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		buf.WriteString("<pre>")
		template.HTMLEscape(&buf, []byte(body))
		buf.WriteString("</pre>")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := viewTemplate.Execute(w, struct {
		Path        string
		Frontmatter string
		Body        template.HTML
		Script      template.HTML
	}{
		Path:        file.Path,
		Frontmatter: frontmatter,
		Body:        template.HTML(buf.String()),
		Script:      template.HTML(ClientScript),
	})
	if err != nil {
		s.options.Logger.Warn("render view", "path", file.Path, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.options.Builder.Last()
	resp := struct {
		Status string `json:"status"`
		Builds int    `json:"builds"`
		Files  int    `json:"files"`
		Error  string `json:"error,omitempty"`
	}{
		Status: "ok",
		Builds: snap.Seq,
		Files:  len(snap.Files()),
	}
	if snap.Err != nil {
		resp.Status = "error"
		resp.Error = snap.Err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func isMarkdown(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// splitFrontmatter separates a leading "---" delimited block from the body.
func splitFrontmatter(content string) (frontmatter, body string) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content
	}
	rest := content[len("---\n"):]
	if strings.HasPrefix(rest, "---\n") {
		return "", rest[len("---\n"):]
	}
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return "", content
	}
	return rest[:end], rest[end+len("\n---\n"):]
}
