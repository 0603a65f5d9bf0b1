package storage

import (
	"time"

	"github.com/rs/zerolog"
	cb "github.com/sony/gobreaker"
)

// Breaker guards calls to an external store. It opens after three
// consecutive failures, or when more than 5% of at least 20 requests in
// the current interval failed.
type Breaker struct{ cb *cb.CircuitBreaker }

func NewBreaker(name string, log zerolog.Logger) *Breaker {
	st := cb.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}
	st.OnStateChange = func(name string, from, to cb.State) {
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state change")
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

func (b *Breaker) Execute(fn func() (any, error)) (any, error) { return b.cb.Execute(fn) }

func (b *Breaker) State() string { return b.cb.State().String() }
