package model

import (
	"errors"
	"fmt"
	"math"
)

// DealParameters defines the inputs of a single loan deal.
// Units:
// - LoanAmount, Fees: currency units
// - InterestRate: annualized decimal fraction (0.05 = 5%)
// - OperatingCostRatio: fraction of deal income
// - ExpectedLossRate, ULCapitalFactor: fraction of LoanAmount
// - HurdleRate: minimum acceptable RARORAC as a decimal fraction
type DealParameters struct {
	LoanAmount         float64 `json:"loan_amount" yaml:"loan_amount"`
	InterestRate       float64 `json:"interest_rate" yaml:"interest_rate"`
	Fees               float64 `json:"fees" yaml:"fees"`
	OperatingCostRatio float64 `json:"operating_cost_ratio" yaml:"operating_cost_ratio"`
	ExpectedLossRate   float64 `json:"expected_loss_rate" yaml:"expected_loss_rate"`
	ULCapitalFactor    float64 `json:"ul_capital_factor" yaml:"ul_capital_factor"`
	HurdleRate         float64 `json:"hurdle_rate" yaml:"hurdle_rate"`
}

// DefaultDealParameters returns the calculator's starting inputs.
func DefaultDealParameters() DealParameters {
	return DealParameters{
		LoanAmount:         1_000_000,
		InterestRate:       0.05,
		Fees:               5_000,
		OperatingCostRatio: 0.10,
		ExpectedLossRate:   0.02,
		ULCapitalFactor:    0.15,
		HurdleRate:         0.10,
	}
}

// Validate reports inputs outside their documented ranges.
// The engine itself accepts any real input; Validate is for callers that
// want to reject bad input before computing.
func (p DealParameters) Validate() error {
	var errs []error
	check := func(name string, v, lo, hi float64) {
		if math.IsNaN(v) || v < lo || v > hi {
			if math.IsInf(hi, 1) {
				errs = append(errs, fmt.Errorf("%s must be >= %g", name, lo))
				return
			}
			errs = append(errs, fmt.Errorf("%s must be in [%g, %g]", name, lo, hi))
		}
	}
	inf := math.Inf(1)
	check("loan_amount", p.LoanAmount, 0, inf)
	check("interest_rate", p.InterestRate, 0, 1)
	check("fees", p.Fees, 0, inf)
	check("operating_cost_ratio", p.OperatingCostRatio, 0, 1)
	check("expected_loss_rate", p.ExpectedLossRate, 0, 1)
	check("ul_capital_factor", p.ULCapitalFactor, 0, inf)
	check("hurdle_rate", p.HurdleRate, 0, inf)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, errors.Join(errs...))
}

// Record returns the parameters as ordered fields keyed by their JSON names.
func (p DealParameters) Record() Record {
	return Record{
		{Key: "loan_amount", Value: p.LoanAmount},
		{Key: "interest_rate", Value: p.InterestRate},
		{Key: "fees", Value: p.Fees},
		{Key: "operating_cost_ratio", Value: p.OperatingCostRatio},
		{Key: "expected_loss_rate", Value: p.ExpectedLossRate},
		{Key: "ul_capital_factor", Value: p.ULCapitalFactor},
		{Key: "hurdle_rate", Value: p.HurdleRate},
	}
}

// PercentInputs is the form-style view of DealParameters where every rate
// is entered as a percentage (5 = 5%). Currency amounts are unchanged.
type PercentInputs struct {
	LoanAmount         float64 `json:"loan_amount" yaml:"loan_amount"`
	InterestRate       float64 `json:"interest_rate_pct" yaml:"interest_rate_pct"`
	Fees               float64 `json:"fees" yaml:"fees"`
	OperatingCostRatio float64 `json:"operating_cost_ratio_pct" yaml:"operating_cost_ratio_pct"`
	ExpectedLossRate   float64 `json:"expected_loss_rate_pct" yaml:"expected_loss_rate_pct"`
	ULCapitalFactor    float64 `json:"ul_capital_factor_pct" yaml:"ul_capital_factor_pct"`
	HurdleRate         float64 `json:"hurdle_rate_pct" yaml:"hurdle_rate_pct"`
}

// ToParameters converts percentages to decimal fractions.
func (in PercentInputs) ToParameters() DealParameters {
	return DealParameters{
		LoanAmount:         in.LoanAmount,
		InterestRate:       in.InterestRate / 100.0,
		Fees:               in.Fees,
		OperatingCostRatio: in.OperatingCostRatio / 100.0,
		ExpectedLossRate:   in.ExpectedLossRate / 100.0,
		ULCapitalFactor:    in.ULCapitalFactor / 100.0,
		HurdleRate:         in.HurdleRate / 100.0,
	}
}
