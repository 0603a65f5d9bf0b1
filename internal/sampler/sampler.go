// Package sampler draws synthetic portfolios in risk/return space for
// exploring how a hurdle rate cuts through a distribution of deals. The
// draws are illustrative, not a calibrated loss model.
package sampler

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"rarorac-lab/internal/model"
)

// BetaShape holds the two shape parameters of a Beta distribution.
type BetaShape struct {
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
}

func (b BetaShape) valid() bool { return b.Alpha > 0 && b.Beta > 0 }

// Skew selects the Beta shapes used for skewed draws. Each draw is rescaled
// from [0,1] into the requested range.
type Skew struct {
	Risk   BetaShape `json:"risk" yaml:"risk"`
	Return BetaShape `json:"return" yaml:"return"`
}

// CanonicalSkew concentrates deals at low risk and high return:
// risk ~ Beta(2,8) (mass near the low end), return ~ Beta(8,2) (mass near
// the high end).
var CanonicalSkew = Skew{
	Risk:   BetaShape{Alpha: 2, Beta: 8},
	Return: BetaShape{Alpha: 8, Beta: 2},
}

// Sampler generates synthetic portfolios. It is safe for concurrent use.
type Sampler struct {
	mu   sync.Mutex
	src  rand.Source
	skew Skew
}

type Option func(*Sampler)

// WithSource draws from src instead of a randomly seeded PCG.
func WithSource(src rand.Source) Option {
	return func(s *Sampler) { s.src = src }
}

// WithSeed makes the sampler deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) { s.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }
}

// WithSkew overrides the shapes used when Generate is called with skewed=true.
func WithSkew(skew Skew) Option {
	return func(s *Sampler) { s.skew = skew }
}

func New(opts ...Option) *Sampler {
	s := &Sampler{skew: CanonicalSkew}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return s
}

func (s *Sampler) Skew() Skew { return s.skew }

// Generate returns n points. Inverted ranges fail with
// model.ErrInvalidArgument; n <= 0 returns an empty slice.
func (s *Sampler) Generate(n int, risk, ret model.Range, skewed bool) ([]model.PortfolioPoint, error) {
	if !risk.Valid() {
		return nil, fmt.Errorf("%w: risk range lo %g > hi %g", model.ErrInvalidArgument, risk.Lo, risk.Hi)
	}
	if !ret.Valid() {
		return nil, fmt.Errorf("%w: return range lo %g > hi %g", model.ErrInvalidArgument, ret.Lo, ret.Hi)
	}
	if skewed && (!s.skew.Risk.valid() || !s.skew.Return.valid()) {
		return nil, fmt.Errorf("%w: beta shapes must be positive, got %+v", model.ErrInvalidArgument, s.skew)
	}
	if n <= 0 {
		return []model.PortfolioPoint{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var drawRisk, drawReturn func() float64
	if skewed {
		drawRisk = rescaled(distuv.Beta{Alpha: s.skew.Risk.Alpha, Beta: s.skew.Risk.Beta, Src: s.src}, risk)
		drawReturn = rescaled(distuv.Beta{Alpha: s.skew.Return.Alpha, Beta: s.skew.Return.Beta, Src: s.src}, ret)
	} else {
		drawRisk = distuv.Uniform{Min: risk.Lo, Max: risk.Hi, Src: s.src}.Rand
		drawReturn = distuv.Uniform{Min: ret.Lo, Max: ret.Hi, Src: s.src}.Rand
	}

	// Draw all risks first, then all returns, and pair them by index.
	risks := make([]float64, n)
	for i := range risks {
		risks[i] = drawRisk()
	}
	points := make([]model.PortfolioPoint, n)
	for i := range points {
		points[i] = model.PortfolioPoint{RiskScore: risks[i], ReturnRatio: drawReturn()}
	}
	return points, nil
}

func rescaled(b distuv.Beta, r model.Range) func() float64 {
	width := r.Hi - r.Lo
	return func() float64 {
		return r.Lo + b.Rand()*width
	}
}
