package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rarorac-lab/internal/config"
	"rarorac-lab/internal/model"
)

func Execute(ctx context.Context) error {
	return rootCmd(ctx).ExecuteContext(ctx)
}

func rootCmd(ctx context.Context) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "rarorac",
		Short:         "RARORAC deal calculator, scenario comparison and portfolio sampler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.AddCommand(computeCmd(ctx))
	root.AddCommand(scenariosCmd(ctx))
	root.AddCommand(portfolioCmd(ctx))
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// parseRange reads "lo,hi".
func parseRange(s string) (model.Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Range{}, fmt.Errorf("range %q: want lo,hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return model.Range{Lo: lo, Hi: hi}, nil
}

func formatRange(r model.Range) string {
	return strconv.FormatFloat(r.Lo, 'g', -1, 64) + "," + strconv.FormatFloat(r.Hi, 'g', -1, 64)
}

func defaultPortfolio() config.PortfolioConfig {
	return config.Default().Portfolio
}
