// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
	"github.com/Adda-Baaj/reddit-sentiment/internal/metrics"
	"github.com/Adda-Baaj/reddit-sentiment/internal/pipeline"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 5 * time.Minute
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Analyzer is the pipeline entry point used by the handlers.
type Analyzer interface {
	Analyze(ctx context.Context, q domain.Query) (*pipeline.Report, error)
}

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	router *gin.Engine
	server *http.Server
	log    logger.Logger
}

// New builds the router. m may be nil, in which case /metrics is not served.
func New(addr string, analyzer Analyzer, m *metrics.Metrics, debug bool, log logger.Logger) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	log = logger.Ensure(log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	h := &handler{analyzer: analyzer, log: log}
	v1 := router.Group("/api/v1")
	v1.POST("/analyze", h.analyze)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		log: log,
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("http server listening", "server_start", map[string]any{"addr": s.server.Addr})
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.InfoObj("http server shutting down", "server_stop", nil)
	return s.server.Shutdown(shutdownCtx)
}

type handler struct {
	analyzer Analyzer
	log      logger.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// analyzeRequest takes the scope as free text so the API accepts the same
// spellings as the CLI.
type analyzeRequest struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Scope     string `json:"scope"`
	Subreddit string `json:"subreddit"`
}

func (h *handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	scope, err := domain.ParseScope(req.Scope)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	q := domain.Query{Text: req.Query, Limit: req.Limit, Scope: scope, Subreddit: req.Subreddit}

	report, err := h.analyzer.Analyze(c.Request.Context(), q)
	var fe *pipeline.FetchError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, report)
	case errors.Is(err, domain.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &fe):
		c.JSON(http.StatusBadGateway, errorResponse{Error: fe.Message})
	default:
		h.log.ErrorObj("analysis failed", "analyze_error", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.InfoObj("http request", "http_request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
