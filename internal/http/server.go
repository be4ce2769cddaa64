// Package http serves the retrospective web UI: server-side rendered
// templates with HTMX partial updates.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	applog "retro/internal/log"
	"retro/internal/middleware/ratelimit"
	"retro/internal/middleware/security"
	"retro/internal/middleware/trace"
	"retro/internal/services"
	appweb "retro/web"
)

type appMetrics struct {
	startedAt      time.Time
	recordsCreated int64
	recordsDeleted int64
	cacheHits      int64
	cacheMisses    int64
}

type Server struct {
	http.Server
	templates *template.Template
	retros    *services.RetroService
	baseURL   string

	rateLimiter *ratelimit.Limiter
	traceMW     *trace.Middleware

	// Snapshot cache for the full record list, invalidated on every
	// mutation so reads always observe committed writes.
	listCache *listCache

	metrics      appMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, retros *services.RetroService, baseURL string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		retros:      retros,
		baseURL:     baseURL,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		traceMW:     trace.NewMiddleware(),
		listCache:   newListCache(30 * time.Second),
		metrics:     appMetrics{startedAt: time.Now()},
	}

	funcs := template.FuncMap{
		"nl2br": func(s string) template.HTML {
			return template.HTML(nl2br(s))
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets from the embedded FS.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /retros", s.handleCreate)
	mux.HandleFunc("GET /retros/{id}", s.handleDetail)
	mux.HandleFunc("POST /retros/{id}", s.handleEdit)
	mux.HandleFunc("POST /retros/{id}/feedback", s.handleFeedback)
	mux.HandleFunc("POST /retros/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /retros/{id}/share", s.handleShare)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	secured := security.Headers(security.DefaultHeadersConfig())(s.withRateLimit(mux))
	withLogger := applog.Middleware(applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentHTTP,
	}))(secured)
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.traceMW.Handler(withLogger),
	}

	return s
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(trace.ClientIP(r)) {
			slog.WarnContext(r.Context(), "Rate limit exceeded", "client_ip", trace.ClientIP(r))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`<div class="error">요청이 너무 많습니다. 잠시 후 다시 시도해주세요.</div>`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateList drops the cached list snapshot after a mutation.
func (s *Server) invalidateList() {
	s.listCache.Invalidate()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) countCreated() { atomic.AddInt64(&s.metrics.recordsCreated, 1) }
func (s *Server) countDeleted() { atomic.AddInt64(&s.metrics.recordsDeleted, 1) }
