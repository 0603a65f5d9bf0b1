package model

// DealOutcome is the hurdle verdict for a deal.
// Keep these values stable; they are shown in tables and CSV output.
type DealOutcome string

const (
	OutcomeMeetsHurdle DealOutcome = "Meets Hurdle Rate"
	OutcomeBelowHurdle DealOutcome = "Below Hurdle Rate"
)

// OutcomeFromRatio classifies rarorac against hurdle. +Inf always meets a
// finite hurdle; NaN never meets anything.
func OutcomeFromRatio(rarorac, hurdle float64) DealOutcome {
	if rarorac >= hurdle {
		return OutcomeMeetsHurdle
	}
	return OutcomeBelowHurdle
}

func (o DealOutcome) Meets() bool { return o == OutcomeMeetsHurdle }
