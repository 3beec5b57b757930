// Package server is the browser and JSON surface of planbook.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/workspace"
)

// Deps are the collaborators the handlers use.
type Deps struct {
	Session  *workspace.Session
	Renderer *document.Renderer
	Exporter *export.Exporter
	// Logo is served at LogoPath when set. The renderer's logo reference
	// should point there.
	Logo   *export.Logo
	Logger *logging.Logger
}

// LogoPath is where the school logo is served.
const LogoPath = "/logo"

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	// Debug keeps gin in debug mode.
	Debug bool
}

// Server wires the routes onto a gin engine.
type Server struct {
	engine   *gin.Engine
	sess     *workspace.Session
	renderer *document.Renderer
	exporter *export.Exporter
	logo     *export.Logo
	log      *logging.Logger
	opts     Options
}

// New builds the server and registers every route.
func New(deps Deps, opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "server")

	// Printing happens in the visitor's browser, never on this host.
	exporter := deps.Exporter
	if exporter != nil {
		exporter = exporter.WithPrinter(export.BrowserPrinter{})
	}

	s := &Server{
		engine:   gin.New(),
		sess:     deps.Session,
		renderer: deps.Renderer,
		exporter: exporter,
		logo:     deps.Logo,
		log:      log,
		opts:     opts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupMiddleware() {
	s.engine.Use(Recovery(s.log))
	s.engine.Use(RequestID())
	s.engine.Use(CORS(s.opts.CORSOrigins))
	s.engine.Use(Metrics())
	s.engine.Use(AccessLog(s.log))
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/", s.index)
	s.engine.GET(LogoPath, s.serveLogo)
	s.engine.POST("/generate", s.generateForm)
	s.engine.POST("/draft/accept", s.acceptDraft)
	s.engine.POST("/draft/discard", s.discardDraft)
	s.engine.POST("/plans/:id/delete", s.deletePlanForm)
	s.engine.GET("/export/:format", s.exportDocument)

	api := s.engine.Group("/api")
	{
		api.GET("/plans", s.listPlans)
		api.POST("/generate", s.generateAPI)
		api.POST("/plans", s.acceptAPI)
		api.DELETE("/plans/:id", s.deletePlanAPI)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
