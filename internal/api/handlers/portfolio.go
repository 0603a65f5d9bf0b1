package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rarorac-lab/internal/analysis"
	"rarorac-lab/internal/api/metrics"
	"rarorac-lab/internal/api/models"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/report"
	"rarorac-lab/internal/sampler"
)

// MaxSyntheticDeals caps a single synthetic portfolio request.
const MaxSyntheticDeals = 10_000

// PortfolioHandler serves synthetic portfolios
type PortfolioHandler struct {
	sampler *sampler.Sampler
	metrics *metrics.Registry
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(s *sampler.Sampler, m *metrics.Registry) *PortfolioHandler {
	return &PortfolioHandler{sampler: s, metrics: m}
}

// Synthetic handles POST /api/v1/portfolio/synthetic.
// ?format=csv returns the points as CSV.
func (h *PortfolioHandler) Synthetic(c *gin.Context) {
	var req models.SyntheticPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.NumDeals > MaxSyntheticDeals {
		respondError(c, fmt.Errorf("%w: num_deals must be <= %d", model.ErrInvalidArgument, MaxSyntheticDeals))
		return
	}

	s := h.sampler
	if req.Seed != nil || req.Skew != nil {
		var opts []sampler.Option
		if req.Seed != nil {
			opts = append(opts, sampler.WithSeed(*req.Seed))
		}
		if req.Skew != nil {
			opts = append(opts, sampler.WithSkew(*req.Skew))
		}
		s = sampler.New(opts...)
	}

	points, err := s.Generate(req.NumDeals, req.RiskRange, req.ReturnRange, req.Skewed)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		dist := "uniform"
		if req.Skewed {
			dist = "beta"
		}
		h.metrics.PointsSampled.WithLabelValues(dist).Add(float64(len(points)))
	}

	if wantsCSV(c) {
		c.Header("Content-Disposition", `attachment; filename="portfolio.csv"`)
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := report.WritePointsCSV(c.Writer, points); err != nil {
			_ = c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, models.NewSyntheticPortfolioResponse(points, analysis.SummarizeSynthetic(points, req.HurdleRate)))
}
