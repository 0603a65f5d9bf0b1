// Package api wires the HTTP handlers, middleware and metrics into a gin
// engine.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rarorac-lab/internal/api/handlers"
	"rarorac-lab/internal/api/metrics"
	"rarorac-lab/internal/api/middleware"
	"rarorac-lab/internal/api/models"
	"rarorac-lab/internal/engine"
	"rarorac-lab/internal/sampler"
	"rarorac-lab/internal/session"
)

// Options configures NewRouter. Nil Sampler and Metrics get defaults.
type Options struct {
	Sessions       *session.Registry
	Sampler        *sampler.Sampler
	Metrics        *metrics.Registry
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	StaticDir      string
}

func NewRouter(opts Options) *gin.Engine {
	if opts.Sampler == nil {
		opts.Sampler = sampler.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	opts.Metrics.SessionGauge(opts.Sessions.Len)

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger(opts.Metrics))
	router.Use(middleware.ErrorHandler())

	eng := engine.New()
	dealHandler := handlers.NewDealHandler(eng, opts.Metrics)
	scenarioHandler := handlers.NewScenarioHandler(opts.Sessions, eng, opts.Metrics)
	portfolioHandler := handlers.NewPortfolioHandler(opts.Sampler, opts.Metrics)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": opts.Sessions.Len()})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, opts.Metrics))
	{
		api.POST("/deals/compute", dealHandler.Compute)

		api.POST("/sessions", scenarioHandler.CreateSession)
		api.DELETE("/sessions/:id", scenarioHandler.DeleteSession)
		api.POST("/sessions/:id/scenarios", scenarioHandler.SaveScenario)
		api.GET("/sessions/:id/scenarios/compare", scenarioHandler.CompareScenarios)
		api.DELETE("/sessions/:id/scenarios", scenarioHandler.ClearScenarios)
		api.GET("/sessions/:id/portfolio", scenarioHandler.Portfolio)

		api.POST("/portfolio/synthetic", portfolioHandler.Synthetic)
	}

	serveStatic(router, opts.StaticDir)
	return router
}

// serveStatic serves a built web UI from dir, falling back to index.html
// for client-side routes. API paths still 404 as JSON.
func serveStatic(router *gin.Engine, dir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Warn().Str("dir", dir).Msg("static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	log.Info().Str("dir", dir).Msg("serving static files")
}
