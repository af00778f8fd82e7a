package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

type readinessCheck struct {
	name string
	fn   func(context.Context) error
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := time.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	checks := []readinessCheck{
		{"models", s.checkModels},
	}
	if s.feed != nil {
		checks = append(checks, readinessCheck{"valkey", s.checkValkey})
	}

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			return c.JSON(503, map[string]any{
				"status":       "unhealthy",
				"failed_check": check.name,
				"error":        err.Error(),
			})
		}
	}

	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) checkModels(context.Context) error {
	if s.variants == nil || len(s.variants.VariantNames()) == 0 {
		return fmt.Errorf("no classifier variants loaded")
	}
	return nil
}

func (s *Server) checkValkey(ctx context.Context) error {
	return s.feed.Ping(ctx)
}
