package models

import (
	"rarorac-lab/internal/analysis"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/scenario"
)

// ComputeResponse echoes the decimal inputs with their metrics.
type ComputeResponse struct {
	Parameters model.DealParameters `json:"parameters"`
	Results    model.DealResult     `json:"results"`
	Display    map[string]string    `json:"display"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID string `json:"id"`
}

// ScenarioResponse is the stored form of one scenario.
type ScenarioResponse struct {
	Name       string       `json:"name"`
	Parameters model.Record `json:"parameters"`
	Results    model.Record `json:"results"`
}

// ComparisonResponse is the comparison table. Rows are aligned with
// Columns; null marks a field a scenario does not have.
type ComparisonResponse struct {
	Columns []scenario.Column `json:"columns"`
	Rows    [][]any           `json:"rows"`
	Empty   bool              `json:"empty"`
}

// NewComparisonResponse makes the table JSON-encodable.
func NewComparisonResponse(tbl scenario.Table) ComparisonResponse {
	rows := make([][]any, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = model.JSONSafe(v)
		}
		rows[i] = out
	}
	return ComparisonResponse{Columns: tbl.Columns, Rows: rows, Empty: tbl.Empty()}
}

// PointResponse is one deal in risk/return space.
type PointResponse struct {
	Name        string          `json:"name,omitempty"`
	RiskScore   float64         `json:"risk_score"`
	ReturnRatio model.JSONFloat `json:"return_ratio"`
	Outcome     string          `json:"outcome,omitempty"`
	Rank        int             `json:"rank,omitempty"`
}

// PortfolioSummary mirrors analysis.PortfolioSummary.
type PortfolioSummary struct {
	Count                 int     `json:"count"`
	MeetsHurdle           int     `json:"meets_hurdle"`
	SuccessRate           float64 `json:"success_rate"`
	AvgReturn             float64 `json:"avg_return"`
	FiniteReturns         int     `json:"finite_returns"`
	AvgRisk               float64 `json:"avg_risk"`
	MedianRisk            float64 `json:"median_risk"`
	HighRiskCount         int     `json:"high_risk_count"`
	HighRiskConcentration bool    `json:"high_risk_concentration"`
	Quality               string  `json:"quality"`
}

// PortfolioResponse holds the saved-scenario portfolio, ranked by RARORAC.
type PortfolioResponse struct {
	Points  []PointResponse  `json:"points"`
	Summary PortfolioSummary `json:"summary"`
}

func NewPortfolioResponse(ranked []analysis.RankedScenario, s analysis.PortfolioSummary) PortfolioResponse {
	points := make([]PointResponse, 0, len(ranked))
	for _, r := range ranked {
		points = append(points, PointResponse{
			Name:        r.Name,
			RiskScore:   r.RiskScore,
			ReturnRatio: model.JSONFloat(r.ReturnRatio),
			Outcome:     r.Outcome,
			Rank:        r.Rank,
		})
	}
	return PortfolioResponse{
		Points: points,
		Summary: PortfolioSummary{
			Count:                 s.Count,
			MeetsHurdle:           s.MeetsHurdle,
			SuccessRate:           s.SuccessRate,
			AvgReturn:             s.AvgReturn,
			FiniteReturns:         s.FiniteReturns,
			AvgRisk:               s.AvgRisk,
			MedianRisk:            s.MedianRisk,
			HighRiskCount:         s.HighRiskCount,
			HighRiskConcentration: s.HighRiskConcentration,
			Quality:               string(s.Quality),
		},
	}
}

// SyntheticSummary mirrors analysis.SyntheticSummary.
type SyntheticSummary struct {
	Count       int     `json:"count"`
	AvgRisk     float64 `json:"avg_risk"`
	AvgReturn   float64 `json:"avg_return"`
	P05Return   float64 `json:"p05_return"`
	P95Return   float64 `json:"p95_return"`
	ReturnRisk  float64 `json:"return_risk_ratio"`
	Hurdle      float64 `json:"hurdle_rate"`
	AboveHurdle int     `json:"above_hurdle"`
}

// SyntheticPortfolioResponse holds sampled points and their summary.
type SyntheticPortfolioResponse struct {
	Points  []PointResponse  `json:"points"`
	Summary SyntheticSummary `json:"summary"`
}

func NewSyntheticPortfolioResponse(points []model.PortfolioPoint, s analysis.SyntheticSummary) SyntheticPortfolioResponse {
	out := make([]PointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, PointResponse{RiskScore: p.RiskScore, ReturnRatio: model.JSONFloat(p.ReturnRatio)})
	}
	return SyntheticPortfolioResponse{
		Points: out,
		Summary: SyntheticSummary{
			Count:       s.Count,
			AvgRisk:     s.AvgRisk,
			AvgReturn:   s.AvgReturn,
			P05Return:   s.P05Return,
			P95Return:   s.P95Return,
			ReturnRisk:  s.ReturnRisk,
			Hurdle:      s.Hurdle,
			AboveHurdle: s.AboveHurdle,
		},
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
