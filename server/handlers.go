package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/falaconta/falaconta/internal/version"
	"github.com/falaconta/falaconta/nlu/engine"
	"github.com/falaconta/falaconta/nlu/entity"
)

// processRequest is the body of the processing endpoints. Entities are
// optional: when absent, the configured extractor runs on the text.
type processRequest struct {
	Text     string          `json:"text"`
	Entities []entity.Entity `json:"entities,omitempty"`
}

func (s *Server) process(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	entities := req.Entities
	if entities == nil && s.extractor != nil {
		extracted, err := s.extractor.Extract(c.Request().Context(), req.Text)
		if err != nil {
			// Extraction failures degrade to missing slots, not a 5xx.
			entities = nil
		} else {
			entities = extracted
		}
	}

	res, err := s.engine.Process(c.Request().Context(), req.Text, entities)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyInput) {
			// The engine still produced a clarification result.
			return c.JSON(http.StatusUnprocessableEntity, res)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "classification failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) classify(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	intent := s.engine.ClassifyIntent(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, map[string]string{"intent": string(intent)})
}

func (s *Server) healthz(c echo.Context) error {
	if !s.engine.HealthCheck(c.Request().Context()) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	v := version.GetCurrentVersion(s.profile.Mode)
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": v,
		"minor":   version.GetMinorVersion(v),
	})
}

func (s *Server) cacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.CacheStats())
}

func (s *Server) cacheClear(c echo.Context) error {
	s.engine.ClearCache()
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) getConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Config())
}

func (s *Server) patchConfig(c echo.Context) error {
	var patch engine.ConfigPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed config patch").SetInternal(err)
	}
	cfg, err := s.engine.UpdateConfig(patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}
