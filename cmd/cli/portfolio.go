package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rarorac-lab/internal/analysis"
	"rarorac-lab/internal/report"
	"rarorac-lab/internal/sampler"
)

func portfolioCmd(ctx context.Context) *cobra.Command {
	var (
		cfgPath   string
		deals     int
		riskStr   string
		returnStr string
		skewed    bool
		seed      uint64
		hurdlePct float64
		outPath   string
	)
	d := defaultPortfolio()
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Sample a synthetic portfolio in risk/return space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			pc := cfg.Portfolio
			if f.Changed("deals") {
				pc.NumDeals = deals
			}
			if f.Changed("risk") {
				if pc.RiskRange, err = parseRange(riskStr); err != nil {
					return err
				}
			}
			if f.Changed("return") {
				if pc.ReturnRange, err = parseRange(returnStr); err != nil {
					return err
				}
			}
			if f.Changed("skewed") {
				pc.Skewed = skewed
			}
			cfg.Portfolio = pc
			opts := cfg.SamplerOptions()
			if f.Changed("seed") {
				opts = append(opts, sampler.WithSeed(seed))
			}

			points, err := sampler.New(opts...).Generate(pc.NumDeals, pc.RiskRange, pc.ReturnRange, pc.Skewed)
			if err != nil {
				return err
			}
			log.Debug().Int("deals", len(points)).Bool("skewed", pc.Skewed).Msg("sampled portfolio")

			hurdle := cfg.BaseDeal().HurdleRate
			if f.Changed("hurdle") {
				hurdle = hurdlePct / 100
			}
			w := cmd.OutOrStdout()
			if err := report.WriteSyntheticSummary(w, analysis.SummarizeSynthetic(points, hurdle)); err != nil {
				return err
			}
			if outPath != "" {
				if err := report.WriteFile(outPath, func(f io.Writer) error {
					return report.WritePointsCSV(f, points)
				}); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nwrote %d points to %s\n", len(points), outPath)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "YAML config; its portfolio section supplies defaults")
	f.IntVar(&deals, "deals", d.NumDeals, "number of deals")
	f.StringVar(&riskStr, "risk", formatRange(d.RiskRange), "risk score range lo,hi")
	f.StringVar(&returnStr, "return", formatRange(d.ReturnRange), "return ratio range lo,hi")
	f.BoolVar(&skewed, "skewed", false, "draw from Beta distributions instead of uniform")
	f.Uint64Var(&seed, "seed", 0, "seed for reproducible draws")
	f.Float64Var(&hurdlePct, "hurdle", 10, "hurdle rate for the summary, percent")
	f.StringVar(&outPath, "out", "", "optional CSV path for the points")
	return cmd
}
