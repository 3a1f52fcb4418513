// Package server exposes the catalog, the filter and annotation engines, the
// dashboard, exports and recommendations as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/dashboard"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

const shutdownTimeout = 10 * time.Second

// Recommender produces recommendations for a farm profile.
type Recommender interface {
	Recommend(ctx context.Context, profile model.FarmProfile) (*model.Recommendation, error)
}

// Options tunes the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// RecommendRPS and RecommendBurst bound POST /api/recommend across all
	// clients. A non-positive rate disables the limit.
	RecommendRPS   float64
	RecommendBurst int
}

// Server serves one catalog snapshot.
type Server struct {
	cat     *catalog.Catalog
	rec     Recommender
	dash    dashboard.Dashboard
	limiter *rate.Limiter
	opts    Options
}

// New returns a server over cat. rec may be nil, in which case recommendation
// requests answer 503.
func New(cat *catalog.Catalog, rec Recommender, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	limit := rate.Inf
	if opts.RecommendRPS > 0 {
		limit = rate.Limit(opts.RecommendRPS)
	}
	burst := opts.RecommendBurst
	if burst <= 0 {
		burst = 1
	}
	return &Server{
		cat:     cat,
		rec:     rec,
		dash:    dashboard.Build(cat),
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/grants", s.handleGrants)
		r.Get("/grants/{id}", s.handleGrant)
		r.Get("/csp", s.handleEnhancements)
		r.Get("/csp/{code}", s.handleEnhancement)
		r.Get("/acronyms", s.handleAcronyms)
		r.Post("/annotate", s.handleAnnotate)
		r.Get("/forms", s.handleForms)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/goals", s.handleGoals)
		r.Post("/recommend", s.handleRecommend)

		r.Route("/export", func(r chi.Router) {
			r.Get("/grants.xlsx", s.handleExportGrants)
			r.Get("/csp.xlsx", s.handleExportEnhancements)
			r.Get("/grants/{id}.docx", s.handleExportGrant)
		})
	})
	return r
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("server: listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("server: shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return eris.Wrap(err, "server: shutdown")
		}
		return nil
	})
	return g.Wait()
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return eris.Wrapf(err, "server: listen %s", addr)
	}
	return s.Serve(ctx, ln)
}

type ctxKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// withRequestID tags each request with an id, reusing a caller-supplied
// X-Request-ID when present.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("request_id", requestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
