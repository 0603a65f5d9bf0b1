package model

// Range is a closed interval [Lo, Hi].
type Range struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

func (r Range) Valid() bool { return r.Lo <= r.Hi }

func (r Range) Contains(x float64) bool { return x >= r.Lo && x <= r.Hi }

// PortfolioPoint is one deal in risk/return space.
// RiskScore is an expected loss rate; ReturnRatio is a RARORAC.
type PortfolioPoint struct {
	RiskScore   float64
	ReturnRatio float64
}
