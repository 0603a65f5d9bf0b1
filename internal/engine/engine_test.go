package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"rarorac-lab/internal/model"
)

func referenceDeal() model.DealParameters {
	return model.DealParameters{
		LoanAmount:         1_000_000,
		InterestRate:       0.05,
		Fees:               10_000,
		OperatingCostRatio: 0.20,
		ExpectedLossRate:   0.01,
		ULCapitalFactor:    0.10,
		HurdleRate:         0.15,
	}
}

func TestComputeReferenceDeal(t *testing.T) {
	res := New().Compute(referenceDeal())

	assert.InDelta(t, 60000.0, res.IncomeFromDeal, 1e-9)
	assert.InDelta(t, 12000.0, res.OperatingCosts, 1e-9)
	assert.InDelta(t, 10000.0, res.ExpectedLoss, 1e-9)
	assert.InDelta(t, 38000.0, res.NetRiskAdjustedReward, 1e-9)
	assert.InDelta(t, 100000.0, res.RiskAdjustedCapital, 1e-9)
	assert.InDelta(t, 0.38, res.RARORAC, 1e-12)
	assert.Equal(t, model.OutcomeMeetsHurdle, res.DealOutcome)
}

func TestComputeZeroCapitalIsInfinite(t *testing.T) {
	p := referenceDeal()
	p.ULCapitalFactor = 0

	for _, hurdle := range []float64{0, 0.15, 1e12, -5} {
		p.HurdleRate = hurdle
		res := Compute(p)
		assert.Equal(t, 0.0, res.RiskAdjustedCapital)
		assert.True(t, math.IsInf(res.RARORAC, 1), "hurdle %v", hurdle)
		assert.Equal(t, model.OutcomeMeetsHurdle, res.DealOutcome, "hurdle %v", hurdle)
	}
}

func TestComputeZeroLoanAmount(t *testing.T) {
	p := referenceDeal()
	p.LoanAmount = 0
	p.Fees = 0

	res := Compute(p)
	assert.Equal(t, 0.0, res.IncomeFromDeal)
	assert.True(t, math.IsInf(res.RARORAC, 1))
	assert.Equal(t, model.OutcomeMeetsHurdle, res.DealOutcome)
}

func TestComputeOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*model.DealParameters)
		rarorac float64
		outcome model.DealOutcome
	}{
		{
			name:    "no income",
			mutate:  func(p *model.DealParameters) { p.InterestRate = 0; p.Fees = 0 },
			rarorac: -0.1,
			outcome: model.OutcomeBelowHurdle,
		},
		{
			name:    "no costs or losses",
			mutate:  func(p *model.DealParameters) { p.OperatingCostRatio = 0; p.ExpectedLossRate = 0 },
			rarorac: 0.6,
			outcome: model.OutcomeMeetsHurdle,
		},
		{
			name:    "hurdle equals ratio",
			mutate:  func(p *model.DealParameters) { p.HurdleRate = 0.38 },
			rarorac: 0.38,
			outcome: model.OutcomeMeetsHurdle,
		},
		{
			name:    "hurdle above ratio",
			mutate:  func(p *model.DealParameters) { p.HurdleRate = 0.39 },
			rarorac: 0.38,
			outcome: model.OutcomeBelowHurdle,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := referenceDeal()
			tc.mutate(&p)
			res := Compute(p)
			assert.InDelta(t, tc.rarorac, res.RARORAC, 1e-9)
			assert.Equal(t, tc.outcome, res.DealOutcome)
		})
	}
}

func TestComputeRatioMatchesComponents(t *testing.T) {
	for _, ul := range []float64{0.01, 0.08, 0.25, 1.5} {
		p := referenceDeal()
		p.ULCapitalFactor = ul
		res := Compute(p)
		want := res.NetRiskAdjustedReward / res.RiskAdjustedCapital
		assert.InEpsilon(t, want, res.RARORAC, 1e-9)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	p := model.DefaultDealParameters()
	a := Compute(p)
	b := Compute(p)
	assert.Equal(t, a, b)
	assert.Equal(t, math.Float64bits(a.RARORAC), math.Float64bits(b.RARORAC))
}
