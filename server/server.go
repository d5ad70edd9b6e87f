// Package server exposes the NLU engine over HTTP: the processing endpoints,
// the operational cache/config surface, health and Prometheus metrics.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/falaconta/falaconta/internal/profile"
	"github.com/falaconta/falaconta/internal/version"
	"github.com/falaconta/falaconta/nlu/engine"
	"github.com/falaconta/falaconta/nlu/entity"
	"github.com/falaconta/falaconta/nlu/metrics"
)

// Server wires the engine, the entity extractor and the metrics recorder
// into an echo HTTP server.
type Server struct {
	e         *echo.Echo
	profile   *profile.Profile
	engine    *engine.Engine
	extractor entity.Extractor
	recorder  *metrics.Recorder
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(p *profile.Profile, eng *engine.Engine, extractor entity.Extractor, recorder *metrics.Recorder) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger)

	s := &Server{
		e:         e,
		profile:   p,
		engine:    eng,
		extractor: extractor,
		recorder:  recorder,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.e.GET("/healthz", s.healthz)

	v1 := s.e.Group("/api/v1")
	v1.POST("/nlu/process", s.process)
	v1.POST("/nlu/classify", s.classify)
	v1.GET("/nlu/cache/stats", s.cacheStats)
	v1.POST("/nlu/cache/clear", s.cacheClear)
	v1.GET("/nlu/config", s.getConfig)
	v1.PATCH("/nlu/config", s.patchConfig)

	if s.profile.MetricsEnabled && s.recorder != nil {
		s.e.GET("/metrics", echo.WrapHandler(s.recorder.Handler()))
	}
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening",
			"addr", s.profile.ListenAddr(),
			"version", version.GetCurrentVersion(s.profile.Mode))
		if err := s.e.Start(s.profile.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// requestLogger logs one line per request with the request ID.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		slog.Info("http request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"latency_ms", time.Since(start).Milliseconds())
		return err
	}
}
