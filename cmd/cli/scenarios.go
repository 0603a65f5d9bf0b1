package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rarorac-lab/internal/analysis"
	"rarorac-lab/internal/engine"
	"rarorac-lab/internal/report"
	"rarorac-lab/internal/scenario"
)

func scenariosCmd(ctx context.Context) *cobra.Command {
	var (
		cfgPath string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Compute every scenario in a config and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				return errors.New("--config is required")
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if len(cfg.Scenarios) == 0 {
				return fmt.Errorf("%s: no scenarios defined", cfgPath)
			}

			eng := engine.New()
			store := scenario.NewStore()
			for _, sc := range cfg.Scenarios {
				p := cfg.ScenarioDeal(sc)
				res := eng.Compute(p)
				if err := store.Save(sc.Name, &p, &res); err != nil {
					return err
				}
				log.Debug().Str("scenario", sc.Name).Float64("rarorac", res.RARORAC).Msg("saved scenario")
			}

			tbl := store.Compare()
			w := cmd.OutOrStdout()
			if err := report.WriteTable(w, tbl); err != nil {
				return err
			}
			if outPath != "" {
				if err := report.WriteFile(outPath, func(f io.Writer) error {
					return report.WriteComparisonCSV(f, tbl)
				}); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nwrote %s\n", outPath)
			}

			points := analysis.ScenarioPoints(store.Scenarios())
			fmt.Fprintln(w)
			if err := report.WritePortfolioSummary(w, analysis.SummarizeScenarios(points)); err != nil {
				return err
			}
			fmt.Fprintln(w)
			return report.WriteRanking(w, analysis.RankByReturn(points))
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "YAML config with a scenarios list")
	cmd.Flags().StringVar(&outPath, "out", "", "optional CSV path for the comparison table")
	return cmd
}
