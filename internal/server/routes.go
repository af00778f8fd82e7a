package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/", s.handleIndex)

	// Analysis
	s.echo.POST("/api/v1/analyze", s.handleAnalyze)
	s.echo.POST("/api/v1/analyze/batch", s.handleAnalyzeBatch)
	s.echo.GET("/api/v1/analyze/batch/:id/export", s.handleExportResults)

	// Speech
	s.echo.POST("/api/v1/transcribe", s.handleTranscribe)

	// Discovery and history
	s.echo.GET("/api/v1/models", s.handleModels)
	s.echo.GET("/api/v1/history", s.handleHistory)
	s.echo.GET("/api/v1/recent", s.handleRecent)
	s.echo.GET("/api/v1/examples", s.handleExamples)
	s.echo.GET("/api/v1/sample", s.handleSampleCSV)
}
