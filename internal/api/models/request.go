package models

import (
	"encoding/json"

	"rarorac-lab/internal/model"
	"rarorac-lab/internal/sampler"
)

// SaveScenarioRequest is the body of POST /api/v1/sessions/:id/scenarios.
// Parameters and Results are free-form snapshots; when Results is absent
// and Parameters decodes as a deal, the server computes the results.
type SaveScenarioRequest struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Results    json.RawMessage `json:"results,omitempty"`
	Units      string          `json:"units,omitempty"` // "percent" for PercentInputs parameters; requires Results to be absent
}

// SyntheticPortfolioRequest is the body of POST /api/v1/portfolio/synthetic.
type SyntheticPortfolioRequest struct {
	NumDeals    int           `json:"num_deals"`
	RiskRange   model.Range   `json:"risk_range"`
	ReturnRange model.Range   `json:"return_range"`
	Skewed      bool          `json:"skewed,omitempty"`
	Seed        *uint64       `json:"seed,omitempty"`
	Skew        *sampler.Skew `json:"skew,omitempty"`
	HurdleRate  float64       `json:"hurdle_rate,omitempty"` // for the above-hurdle count
}
