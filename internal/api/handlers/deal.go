package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rarorac-lab/internal/api/metrics"
	"rarorac-lab/internal/api/models"
	"rarorac-lab/internal/engine"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/report"
)

// DealHandler handles single-deal calculations
type DealHandler struct {
	engine  *engine.Engine
	metrics *metrics.Registry
}

// NewDealHandler creates a new deal handler
func NewDealHandler(e *engine.Engine, m *metrics.Registry) *DealHandler {
	return &DealHandler{engine: e, metrics: m}
}

// Compute handles POST /api/v1/deals/compute. Absent fields, or an empty
// body, take the calculator defaults.
func (h *DealHandler) Compute(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}
	// An empty body computes the default deal.
	if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
		badRequest(c, errors.New("request body must be a JSON object"))
		return
	}
	params, err := decodeDeal(raw, wantsPercent(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := params.Validate(); err != nil {
		respondError(c, err)
		return
	}

	res := h.engine.Compute(params)
	h.countOutcome(res)
	c.JSON(http.StatusOK, models.ComputeResponse{
		Parameters: params,
		Results:    res,
		Display:    display(res),
	})
}

func (h *DealHandler) countOutcome(res model.DealResult) {
	if h.metrics != nil {
		h.metrics.DealsComputed.WithLabelValues(string(res.DealOutcome)).Inc()
	}
}

// decodeDeal reads deal parameters, filling absent fields from the
// calculator defaults.
func decodeDeal(raw json.RawMessage, percent bool) (model.DealParameters, error) {
	if !percent {
		p := model.DefaultDealParameters()
		if !isAbsent(raw) {
			if err := json.Unmarshal(raw, &p); err != nil {
				return model.DealParameters{}, fmt.Errorf("%w: deal parameters: %v", model.ErrInvalidArgument, err)
			}
		}
		return p, nil
	}

	d := model.DefaultDealParameters()
	in := model.PercentInputs{
		LoanAmount:         d.LoanAmount,
		InterestRate:       d.InterestRate * 100,
		Fees:               d.Fees,
		OperatingCostRatio: d.OperatingCostRatio * 100,
		ExpectedLossRate:   d.ExpectedLossRate * 100,
		ULCapitalFactor:    d.ULCapitalFactor * 100,
		HurdleRate:         d.HurdleRate * 100,
	}
	if !isAbsent(raw) {
		if err := json.Unmarshal(raw, &in); err != nil {
			return model.DealParameters{}, fmt.Errorf("%w: deal parameters: %v", model.ErrInvalidArgument, err)
		}
	}
	return in.ToParameters(), nil
}

func display(r model.DealResult) map[string]string {
	return map[string]string{
		"income_from_deal":         report.Currency(r.IncomeFromDeal),
		"operating_costs":          report.Currency(r.OperatingCosts),
		"expected_loss":            report.Currency(r.ExpectedLoss),
		"net_risk_adjusted_reward": report.Currency(r.NetRiskAdjustedReward),
		"risk_adjusted_capital":    report.Currency(r.RiskAdjustedCapital),
		"rarorac":                  report.Percent(r.RARORAC),
		"deal_outcome":             string(r.DealOutcome),
	}
}
