package server

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gitgraph/pkg/buildinfo"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/pipeline"
	"github.com/matzehuels/gitgraph/pkg/view"
)

const (
	// DefaultPort is the listen port when none is configured.
	DefaultPort = 8080

	// DefaultRequestTimeout bounds non-streaming API requests.
	DefaultRequestTimeout = 60 * time.Second

	// MaxPayloadBytes caps request bodies.
	MaxPayloadBytes = 32 << 20

	shutdownTimeout = 10 * time.Second
)

// Config holds server settings.
type Config struct {
	Port            int
	AllowAllOrigins bool
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ViewIdleTimeout time.Duration

	Layout  layout.Options
	Policy  visibility.Policy
	Exclude []string

	// GitHubToken authenticates /api/views/github fetches.
	GitHubToken string
}

// Server serves interactive views.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	views  *view.Registry
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil logger discards output.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	cfg.Port = cmp.Or(cfg.Port, DefaultPort)
	cfg.RequestTimeout = cmp.Or(cfg.RequestTimeout, DefaultRequestTimeout)
	cfg.Policy = cmp.Or(cfg.Policy, visibility.DefaultPolicy)
	cfg.Layout = cfg.Layout.WithDefaults()
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		views:  view.NewRegistry(cfg.ViewIdleTimeout),
		logger: logger,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Views returns the registry of live views.
func (s *Server) Views() *view.Registry { return s.views }

// Addr returns the listen address.
func (s *Server) Addr() string { return fmt.Sprintf(":%d", s.cfg.Port) }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "views": s.views.Len(), "build": buildinfo.Get()})
	})

	r.Route("/api/views", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/", s.handleCreate)
		r.Post("/github", s.handleCreateGitHub)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Put("/graph", s.handleReplaceGraph)
			r.Post("/events", s.handleEvent)
			r.Get("/nodes/{nodeID}", s.handleDetail)
			r.Get("/dot", s.handleDOT)
			r.Get("/svg", s.handleSVG)
		})
	})

	// Streams are long-lived and sit outside the request timeout.
	r.Get("/ws/views/{id}", s.handleWebSocket)

	return r
}

func (s *Server) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		opts.AllowedOrigins = s.cfg.AllowedOrigins
	}
	if s.cfg.AllowAllOrigins {
		opts.AllowedOrigins = []string{"*"}
	}
	return opts
}

func (s *Server) viewOptions() view.Options {
	return view.Options{
		Layout: s.cfg.Layout,
		Policy: s.cfg.Policy,
		Logger: s.logger,
	}
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully. Idle views are swept in the background.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like [Server.Run] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.views.Run(gCtx, 0)
	})

	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
