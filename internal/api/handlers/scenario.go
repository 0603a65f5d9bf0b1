package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rarorac-lab/internal/analysis"
	"rarorac-lab/internal/api/metrics"
	"rarorac-lab/internal/api/models"
	"rarorac-lab/internal/engine"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/report"
	"rarorac-lab/internal/scenario"
	"rarorac-lab/internal/session"
)

// ScenarioHandler serves sessions and their saved scenarios
type ScenarioHandler struct {
	sessions *session.Registry
	engine   *engine.Engine
	metrics  *metrics.Registry
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(r *session.Registry, e *engine.Engine, m *metrics.Registry) *ScenarioHandler {
	return &ScenarioHandler{sessions: r, engine: e, metrics: m}
}

// CreateSession handles POST /api/v1/sessions
func (h *ScenarioHandler) CreateSession(c *gin.Context) {
	id, _ := h.sessions.Create(c.Request.Context())
	c.JSON(http.StatusCreated, models.SessionResponse{ID: id})
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *ScenarioHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveScenario handles POST /api/v1/sessions/:id/scenarios.
// Without results, parameters are read as a deal (percent units allowed)
// and the results are computed. With results, both snapshots are stored
// as given and percent units are rejected.
func (h *ScenarioHandler) SaveScenario(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	var req models.SaveScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var params, results any
	if isAbsent(req.Results) {
		// Parameters describe a deal; compute its metrics here.
		if !isAbsent(req.Parameters) {
			p, err := decodeDeal(req.Parameters, req.Units == "percent" || wantsPercent(c))
			if err != nil {
				respondError(c, err)
				return
			}
			if err := p.Validate(); err != nil {
				respondError(c, err)
				return
			}
			res := h.engine.Compute(p)
			if h.metrics != nil {
				h.metrics.DealsComputed.WithLabelValues(string(res.DealOutcome)).Inc()
			}
			params, results = p.Record(), res.Record()
		}
	} else {
		if req.Units == "percent" || wantsPercent(c) {
			respondError(c, fmt.Errorf("%w: units=percent applies only when results are omitted", model.ErrInvalidArgument))
			return
		}
		pr, err := decodeRecord("parameters", req.Parameters)
		if err != nil {
			respondError(c, err)
			return
		}
		rr, err := decodeRecord("results", req.Results)
		if err != nil {
			respondError(c, err)
			return
		}
		params, results = pr, rr
	}

	if err := store.Save(req.Name, params, results); err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), c.Param("id"))
	if h.metrics != nil {
		h.metrics.ScenariosSaved.Inc()
	}

	saved, _ := store.Get(req.Name)
	c.JSON(http.StatusCreated, models.ScenarioResponse{
		Name:       saved.Name,
		Parameters: saved.Parameters,
		Results:    saved.Results,
	})
}

// CompareScenarios handles GET /api/v1/sessions/:id/scenarios/compare.
// ?format=csv returns the table as CSV.
func (h *ScenarioHandler) CompareScenarios(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	tbl := store.Compare()
	if wantsCSV(c) {
		c.Header("Content-Disposition", `attachment; filename="scenarios.csv"`)
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := report.WriteComparisonCSV(c.Writer, tbl); err != nil {
			_ = c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, models.NewComparisonResponse(tbl))
}

// ClearScenarios handles DELETE /api/v1/sessions/:id/scenarios
func (h *ScenarioHandler) ClearScenarios(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	store.Clear()
	h.sessions.Persist(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Portfolio handles GET /api/v1/sessions/:id/portfolio
func (h *ScenarioHandler) Portfolio(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	points := analysis.ScenarioPoints(store.Scenarios())
	c.JSON(http.StatusOK, models.NewPortfolioResponse(
		analysis.RankByReturn(points),
		analysis.SummarizeScenarios(points),
	))
}

func (h *ScenarioHandler) store(c *gin.Context) (*scenario.Store, bool) {
	store, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return store, true
}

func isAbsent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func decodeRecord(field string, raw json.RawMessage) (model.Record, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	var r model.Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidArgument, field, err)
	}
	return r, nil
}
