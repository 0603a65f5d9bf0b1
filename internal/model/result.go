package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// DealResult holds the derived metrics of a deal. Currency fields share the
// units of DealParameters.LoanAmount.
type DealResult struct {
	IncomeFromDeal        float64     `json:"income_from_deal"`
	OperatingCosts        float64     `json:"operating_costs"`
	ExpectedLoss          float64     `json:"expected_loss"`
	NetRiskAdjustedReward float64     `json:"net_risk_adjusted_reward"`
	RiskAdjustedCapital   float64     `json:"risk_adjusted_capital"`
	RARORAC               float64     `json:"rarorac"` // +Inf when RiskAdjustedCapital is 0
	DealOutcome           DealOutcome `json:"deal_outcome"`
}

// Record returns the result as ordered fields keyed by their JSON names.
func (r DealResult) Record() Record {
	return Record{
		{Key: "income_from_deal", Value: r.IncomeFromDeal},
		{Key: "operating_costs", Value: r.OperatingCosts},
		{Key: "expected_loss", Value: r.ExpectedLoss},
		{Key: "net_risk_adjusted_reward", Value: r.NetRiskAdjustedReward},
		{Key: "risk_adjusted_capital", Value: r.RiskAdjustedCapital},
		{Key: "rarorac", Value: r.RARORAC},
		{Key: "deal_outcome", Value: r.DealOutcome},
	}
}

type dealResultJSON struct {
	IncomeFromDeal        float64     `json:"income_from_deal"`
	OperatingCosts        float64     `json:"operating_costs"`
	ExpectedLoss          float64     `json:"expected_loss"`
	NetRiskAdjustedReward float64     `json:"net_risk_adjusted_reward"`
	RiskAdjustedCapital   float64     `json:"risk_adjusted_capital"`
	RARORAC               JSONFloat   `json:"rarorac"`
	DealOutcome           DealOutcome `json:"deal_outcome"`
}

// MarshalJSON writes an infinite RARORAC as the string "Infinity".
func (r DealResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(dealResultJSON{
		IncomeFromDeal:        r.IncomeFromDeal,
		OperatingCosts:        r.OperatingCosts,
		ExpectedLoss:          r.ExpectedLoss,
		NetRiskAdjustedReward: r.NetRiskAdjustedReward,
		RiskAdjustedCapital:   r.RiskAdjustedCapital,
		RARORAC:               JSONFloat(r.RARORAC),
		DealOutcome:           r.DealOutcome,
	})
}

func (r *DealResult) UnmarshalJSON(data []byte) error {
	var aux dealResultJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = DealResult{
		IncomeFromDeal:        aux.IncomeFromDeal,
		OperatingCosts:        aux.OperatingCosts,
		ExpectedLoss:          aux.ExpectedLoss,
		NetRiskAdjustedReward: aux.NetRiskAdjustedReward,
		RiskAdjustedCapital:   aux.RiskAdjustedCapital,
		RARORAC:               float64(aux.RARORAC),
		DealOutcome:           aux.DealOutcome,
	}
	return nil
}

// JSONFloat is a float64 that survives JSON round trips when non-finite:
// +Inf, -Inf and NaN are written as "Infinity", "-Infinity" and "NaN".
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

func (f *JSONFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, ok := parseSpecialFloat(s)
		if !ok {
			return fmt.Errorf("invalid float %q", s)
		}
		*f = JSONFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

func parseSpecialFloat(s string) (float64, bool) {
	switch s {
	case "Infinity", "+Infinity", "inf", "+Inf":
		return math.Inf(1), true
	case "-Infinity", "-inf", "-Inf":
		return math.Inf(-1), true
	case "NaN":
		return math.NaN(), true
	}
	return 0, false
}

// JSONSafe returns v with non-finite floats replaced by their JSONFloat
// form, so that values from generic records can be encoded.
func JSONSafe(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return JSONFloat(x)
		}
	case float32:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return JSONFloat(f)
		}
	}
	return v
}
