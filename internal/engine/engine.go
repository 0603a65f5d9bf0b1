package engine

import (
	"math"

	"rarorac-lab/internal/model"
)

// Engine computes RARORAC metrics. It holds no state; the zero value is ready to use.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Compute derives the deal metrics from params. It never fails: a zero
// risk-adjusted capital yields a RARORAC of +Inf, which meets any finite hurdle.
// No rounding is applied.
func (e *Engine) Compute(params model.DealParameters) model.DealResult {
	income := params.LoanAmount*params.InterestRate + params.Fees
	opCosts := income * params.OperatingCostRatio
	expectedLoss := params.LoanAmount * params.ExpectedLossRate
	reward := income - opCosts - expectedLoss
	capital := params.LoanAmount * params.ULCapitalFactor

	rarorac := math.Inf(1)
	if capital != 0 {
		rarorac = reward / capital
	}

	return model.DealResult{
		IncomeFromDeal:        income,
		OperatingCosts:        opCosts,
		ExpectedLoss:          expectedLoss,
		NetRiskAdjustedReward: reward,
		RiskAdjustedCapital:   capital,
		RARORAC:               rarorac,
		DealOutcome:           model.OutcomeFromRatio(rarorac, params.HurdleRate),
	}
}

// Compute is a convenience wrapper around the zero Engine.
func Compute(params model.DealParameters) model.DealResult {
	return (&Engine{}).Compute(params)
}
