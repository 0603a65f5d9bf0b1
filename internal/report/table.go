package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"rarorac-lab/internal/analysis"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/scenario"
)

// WriteTable prints the comparison with display labels and formatted cells.
func WriteTable(w io.Writer, tbl scenario.Table) error {
	if tbl.Empty() {
		_, err := fmt.Fprintln(w, "No scenarios saved.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, row := range tbl.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = Cell(tbl.Columns[i].Key, v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteMetrics prints one deal's inputs and derived metrics.
func WriteMetrics(w io.Writer, p model.DealParameters, r model.DealResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range []model.Record{p.Record(), r.Record()} {
		for _, f := range rec {
			fmt.Fprintf(tw, "%s\t%s\n", scenario.Label(f.Key), Cell(f.Key, f.Value))
		}
	}
	fmt.Fprintf(tw, "Hurdle check\tRARORAC %s vs hurdle %s\n", Percent(r.RARORAC), Percent(p.HurdleRate))
	return tw.Flush()
}

// WritePortfolioSummary prints the saved-scenario portfolio summary.
func WritePortfolioSummary(w io.Writer, s analysis.PortfolioSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total scenarios\t%d\n", s.Count)
	fmt.Fprintf(tw, "Success rate\t%s\n", Percent(s.SuccessRate))
	fmt.Fprintf(tw, "Avg RARORAC\t%s\n", Percent(s.AvgReturn))
	fmt.Fprintf(tw, "Avg risk\t%s\n", Percent(s.AvgRisk))
	fmt.Fprintf(tw, "Quality\t%s\n", s.Quality)
	if s.HighRiskConcentration {
		fmt.Fprintf(tw, "Warning\t%d of %d deals are above median risk\n", s.HighRiskCount, s.Count)
	}
	return tw.Flush()
}

// WriteRanking prints scenarios ranked by RARORAC.
func WriteRanking(w io.Writer, ranked []analysis.RankedScenario) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tScenario\tRisk\tRARORAC\tOutcome")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Rank, r.Name, Percent(r.RiskScore), Percent(r.ReturnRatio), r.Outcome)
	}
	return tw.Flush()
}

// WriteSyntheticSummary prints the sampled portfolio summary.
func WriteSyntheticSummary(w io.Writer, s analysis.SyntheticSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Deals\t%d\n", s.Count)
	fmt.Fprintf(tw, "Average risk\t%s\n", Percent(s.AvgRisk))
	fmt.Fprintf(tw, "Average return\t%s\n", Percent(s.AvgReturn))
	fmt.Fprintf(tw, "Return P05/P95\t%s / %s\n", Percent(s.P05Return), Percent(s.P95Return))
	fmt.Fprintf(tw, "Return/risk ratio\t%.2f\n", s.ReturnRisk)
	fmt.Fprintf(tw, "At or above hurdle %s\t%d\n", Percent(s.Hurdle), s.AboveHurdle)
	return tw.Flush()
}
