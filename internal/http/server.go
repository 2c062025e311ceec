// Package http serves the dashboard UI: upload and history, summary views,
// the row editor and the admin pages for options, settings and export.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"contabil/internal/amqp"
	"contabil/internal/backend"
	"contabil/internal/middleware/ratelimit"
	"contabil/internal/middleware/security"
	"contabil/internal/middleware/trace"
	"contabil/internal/session"
	"contabil/internal/sheets"
	"contabil/internal/store"
	appweb "contabil/web"
)

// Publisher queues an export request for the worker. Satisfied by the AMQP
// client; nil means exports run synchronously through the Exporter.
type Publisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.TableExportMessage) error
}

// Options wires the server's collaborators.
type Options struct {
	Addr     string
	Files    *store.FileStore
	Repos    backend.Repositories
	Sessions *session.Manager
	KeysFile string

	// Exporter performs synchronous Google Sheets export; nil disables it.
	Exporter sheets.TableExporter
	// Publisher routes exports through AMQP instead; takes precedence.
	Publisher Publisher
}

type Server struct {
	http.Server
	templates *template.Template

	files    *store.FileStore
	repos    backend.Repositories
	sessions *session.Manager
	keysFile string

	exporter  sheets.TableExporter
	publisher Publisher

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		files:     opts.Files,
		repos:     opts.Repos,
		sessions:  opts.Sessions,
		keysFile:  opts.KeysFile,
		exporter:  opts.Exporter,
		publisher: opts.Publisher,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/", s.requireAuth(s.handleIndex))
	mux.HandleFunc("/upload", s.requireAuth(s.handleUpload))
	mux.HandleFunc("/open", s.requireAuth(s.handleOpen))
	mux.HandleFunc("/template.csv", s.requireAuth(s.handleTemplate))
	mux.HandleFunc("/download", s.requireAuth(s.handleDownload))

	mux.HandleFunc("/dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("/api/summary", s.requireAuth(s.handleSummaryJSON))

	mux.HandleFunc("/editor", s.requireAuth(s.handleEditor))
	mux.HandleFunc("/editor/save", s.requireAuth(s.handleEditorSave))
	mux.HandleFunc("/editor/bulk", s.requireAuth(s.handleEditorBulk))
	mux.HandleFunc("/entries/add", s.requireAuth(s.handleEntryAdd))
	mux.HandleFunc("/entries/clear", s.requireAuth(s.handleEntryClear))
	mux.HandleFunc("/entries/flush", s.requireAuth(s.handleEntryFlush))

	mux.HandleFunc("/options", s.requireAuth(s.handleOptionsPage))
	mux.HandleFunc("/options/add", s.requireAuth(s.handleOptionAdd))
	mux.HandleFunc("/options/remove", s.requireAuth(s.handleOptionRemove))
	mux.HandleFunc("/settings", s.requireAuth(s.handleSettingsSave))
	mux.HandleFunc("/export", s.requireAuth(s.handleExport))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)

	var handler http.Handler = mux
	handler = s.limitWrites(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}
	return s
}

// limitWrites rate limits state-changing requests per client IP.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(clientIP(r)) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", clientIP(r), "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the HTTP server and background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		if s.sessions != nil {
			s.sessions.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
