package analysis

import (
	"math"
	"sort"

	"rarorac-lab/internal/model"
	"rarorac-lab/internal/scenario"
)

// Quality grades a portfolio by the share of deals meeting their hurdle.
type Quality string

const (
	QualityExcellent      Quality = "Excellent"
	QualityGood           Quality = "Good"
	QualityNeedsAttention Quality = "Needs Attention"
)

// ScenarioPoint is a saved scenario placed in risk/return space.
type ScenarioPoint struct {
	Name string
	model.PortfolioPoint
	Outcome string
}

// ScenarioPoints projects saved scenarios into risk/return space, using the
// expected_loss_rate parameter as risk and the rarorac result as return.
// Missing fields read as 0 and a missing outcome as "Unknown".
func ScenarioPoints(scenarios []scenario.Scenario) []ScenarioPoint {
	out := make([]ScenarioPoint, 0, len(scenarios))
	for _, sc := range scenarios {
		risk, _ := sc.Parameters.Float("expected_loss_rate")
		ret, _ := sc.Results.Float(scenario.KeyRARORAC)
		outcome := "Unknown"
		if v, ok := sc.Results.Get(scenario.KeyDealOutcome); ok && v != nil {
			switch x := v.(type) {
			case model.DealOutcome:
				outcome = string(x)
			case string:
				outcome = x
			}
		}
		out = append(out, ScenarioPoint{
			Name:           sc.Name,
			PortfolioPoint: model.PortfolioPoint{RiskScore: risk, ReturnRatio: ret},
			Outcome:        outcome,
		})
	}
	return out
}

// PortfolioSummary describes the saved-scenario portfolio.
type PortfolioSummary struct {
	Count int

	MeetsHurdle int
	SuccessRate float64 // fraction in [0,1]

	// AvgReturn averages finite RARORACs only; FiniteReturns counts them.
	AvgReturn     float64
	FiniteReturns int

	AvgRisk    float64
	MedianRisk float64

	// HighRiskCount is the number of deals strictly above the median risk;
	// HighRiskConcentration is set when that exceeds 60% of the portfolio.
	HighRiskCount         int
	HighRiskConcentration bool

	Quality Quality
}

// SummarizeScenarios computes the portfolio summary. An empty input yields
// the zero summary with QualityNeedsAttention.
func SummarizeScenarios(points []ScenarioPoint) PortfolioSummary {
	s := PortfolioSummary{Count: len(points), Quality: QualityNeedsAttention}
	if len(points) == 0 {
		return s
	}

	risks := make([]float64, 0, len(points))
	sumRisk, sumReturn := 0.0, 0.0
	for _, p := range points {
		if p.Outcome == string(model.OutcomeMeetsHurdle) {
			s.MeetsHurdle++
		}
		if !math.IsInf(p.ReturnRatio, 0) && !math.IsNaN(p.ReturnRatio) {
			sumReturn += p.ReturnRatio
			s.FiniteReturns++
		}
		sumRisk += p.RiskScore
		risks = append(risks, p.RiskScore)
	}
	sort.Float64s(risks)

	s.SuccessRate = float64(s.MeetsHurdle) / float64(s.Count)
	if s.FiniteReturns > 0 {
		s.AvgReturn = sumReturn / float64(s.FiniteReturns)
	}
	s.AvgRisk = sumRisk / float64(s.Count)
	s.MedianRisk = percentileSorted(risks, 0.5)
	for _, r := range risks {
		if r > s.MedianRisk {
			s.HighRiskCount++
		}
	}
	s.HighRiskConcentration = float64(s.HighRiskCount) > float64(s.Count)*0.6
	s.Quality = gradeQuality(s.SuccessRate)
	return s
}

func gradeQuality(successRate float64) Quality {
	switch {
	case successRate >= 0.8:
		return QualityExcellent
	case successRate >= 0.6:
		return QualityGood
	default:
		return QualityNeedsAttention
	}
}

// SyntheticSummary describes a sampled portfolio.
type SyntheticSummary struct {
	Count      int
	AvgRisk    float64
	AvgReturn  float64
	P05Return  float64
	P95Return  float64
	ReturnRisk float64 // AvgReturn / AvgRisk, 0 when AvgRisk is 0

	// AboveHurdle counts points whose return meets Hurdle.
	Hurdle      float64
	AboveHurdle int
}

// SummarizeSynthetic summarizes sampled points against hurdle.
func SummarizeSynthetic(points []model.PortfolioPoint, hurdle float64) SyntheticSummary {
	s := SyntheticSummary{Count: len(points), Hurdle: hurdle}
	if len(points) == 0 {
		return s
	}
	returns := make([]float64, 0, len(points))
	sumRisk, sumReturn := 0.0, 0.0
	for _, p := range points {
		sumRisk += p.RiskScore
		sumReturn += p.ReturnRatio
		returns = append(returns, p.ReturnRatio)
		if p.ReturnRatio >= hurdle {
			s.AboveHurdle++
		}
	}
	sort.Float64s(returns)
	s.AvgRisk = sumRisk / float64(len(points))
	s.AvgReturn = sumReturn / float64(len(points))
	s.P05Return = percentileSorted(returns, 0.05)
	s.P95Return = percentileSorted(returns, 0.95)
	if s.AvgRisk > 0 {
		s.ReturnRisk = s.AvgReturn / s.AvgRisk
	}
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
