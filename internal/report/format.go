package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"rarorac-lab/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Column display kinds, keyed by record field name.
var (
	currencyKeys = map[string]bool{
		"loan_amount":              true,
		"fees":                     true,
		"income_from_deal":         true,
		"operating_costs":          true,
		"expected_loss":            true,
		"net_risk_adjusted_reward": true,
		"risk_adjusted_capital":    true,
	}
	percentKeys = map[string]bool{
		"interest_rate":        true,
		"operating_cost_ratio": true,
		"expected_loss_rate":   true,
		"ul_capital_factor":    true,
		"hurdle_rate":          true,
		"rarorac":              true,
	}
)

// Currency formats an amount with two decimals, e.g. "$60000.00".
func Currency(v float64) string {
	if s, special := nonFinite(v); special {
		return s
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a decimal fraction as a percentage, e.g. 0.38 -> "38.00%".
// +Inf renders as "Infinity".
func Percent(v float64) string {
	if s, special := nonFinite(v); special {
		return s
	}
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2) + "%"
}

// Cell renders one comparison value for display, using the column key to
// pick currency or percent formatting.
func Cell(key string, v any) string {
	if v == nil {
		return "-"
	}
	f, ok := asFloat(v)
	if !ok {
		return fmt.Sprint(v)
	}
	switch {
	case currencyKeys[key]:
		return Currency(f)
	case percentKeys[key]:
		return Percent(f)
	}
	if s, special := nonFinite(f); special {
		return s
	}
	return decimal.NewFromFloat(f).String()
}

// Raw renders one value for machine-readable output such as CSV.
func Raw(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := asFloat(v); ok {
		return fmtFloat(f)
	}
	return fmt.Sprint(v)
}

func fmtFloat(x float64) string {
	if s, special := nonFinite(x); special {
		return s
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsInf(v, 1):
		return "Infinity", true
	case math.IsInf(v, -1):
		return "-Infinity", true
	case math.IsNaN(v):
		return "NaN", true
	}
	return "", false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case model.JSONFloat:
		return float64(x), true
	}
	return 0, false
}
