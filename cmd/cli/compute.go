package main

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rarorac-lab/internal/engine"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/report"
)

func computeCmd(ctx context.Context) *cobra.Command {
	var (
		cfgPath string
		asJSON  bool
		in      model.PercentInputs
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute RARORAC metrics for one deal (rates in percent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			params := cfg.BaseDeal()
			overlayPercentFlags(cmd, in, &params)
			if err := params.Validate(); err != nil {
				return err
			}

			res := engine.New().Compute(params)
			log.Debug().Float64("rarorac", res.RARORAC).Str("outcome", string(res.DealOutcome)).Msg("computed deal")
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"parameters": params, "results": res})
			}
			return report.WriteMetrics(cmd.OutOrStdout(), params, res)
		},
	}

	d := model.DefaultDealParameters()
	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "YAML config; its deal section is the base for any flags given")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	f.Float64Var(&in.LoanAmount, "loan", d.LoanAmount, "loan amount")
	f.Float64Var(&in.InterestRate, "rate", d.InterestRate*100, "interest rate, percent")
	f.Float64Var(&in.Fees, "fees", d.Fees, "fees")
	f.Float64Var(&in.OperatingCostRatio, "op-cost", d.OperatingCostRatio*100, "operating cost ratio, percent of income")
	f.Float64Var(&in.ExpectedLossRate, "el", d.ExpectedLossRate*100, "expected loss rate, percent of loan")
	f.Float64Var(&in.ULCapitalFactor, "ul", d.ULCapitalFactor*100, "unexpected-loss capital factor, percent of loan")
	f.Float64Var(&in.HurdleRate, "hurdle", d.HurdleRate*100, "hurdle rate, percent")
	return cmd
}

// overlayPercentFlags copies flags the user set onto params.
func overlayPercentFlags(cmd *cobra.Command, in model.PercentInputs, params *model.DealParameters) {
	conv := in.ToParameters()
	f := cmd.Flags()
	if f.Changed("loan") {
		params.LoanAmount = conv.LoanAmount
	}
	if f.Changed("rate") {
		params.InterestRate = conv.InterestRate
	}
	if f.Changed("fees") {
		params.Fees = conv.Fees
	}
	if f.Changed("op-cost") {
		params.OperatingCostRatio = conv.OperatingCostRatio
	}
	if f.Changed("el") {
		params.ExpectedLossRate = conv.ExpectedLossRate
	}
	if f.Changed("ul") {
		params.ULCapitalFactor = conv.ULCapitalFactor
	}
	if f.Changed("hurdle") {
		params.HurdleRate = conv.HurdleRate
	}
}
