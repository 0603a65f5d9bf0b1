package analysis

import "sort"

type RankedScenario struct {
	Rank int
	ScenarioPoint
}

// RankByReturn sorts scenario points by RARORAC, best first. Ties keep
// their input order.
func RankByReturn(points []ScenarioPoint) []RankedScenario {
	out := make([]RankedScenario, 0, len(points))
	for _, p := range points {
		out = append(out, RankedScenario{ScenarioPoint: p})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReturnRatio > out[j].ReturnRatio
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
