package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rarorac-lab/internal/model"
	"rarorac-lab/internal/sampler"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load default deal parameters from a separate YAML (e.g. examples/deals/*.yaml).
	// If both DealFile and Deal are provided, Deal overrides DealFile.
	DealFile  string           `yaml:"deal_file"`
	Deal      DealConfig       `yaml:"deal"`
	Scenarios []ScenarioConfig `yaml:"scenarios"`
	Portfolio PortfolioConfig  `yaml:"portfolio"`
	Server    ServerConfig     `yaml:"server"`
}

// DealConfig holds deal parameters as decimal fractions. Pointer fields
// distinguish "not set" from an explicit zero (a zero UL factor is a valid,
// meaningful input).
type DealConfig struct {
	LoanAmount         *float64 `yaml:"loan_amount"`
	InterestRate       *float64 `yaml:"interest_rate"`
	Fees               *float64 `yaml:"fees"`
	OperatingCostRatio *float64 `yaml:"operating_cost_ratio"`
	ExpectedLossRate   *float64 `yaml:"expected_loss_rate"`
	ULCapitalFactor    *float64 `yaml:"ul_capital_factor"`
	HurdleRate         *float64 `yaml:"hurdle_rate"`
}

// ScenarioConfig is a named deal, overlaid on the base deal.
type ScenarioConfig struct {
	Name string     `yaml:"name"`
	Deal DealConfig `yaml:"deal"`
}

type PortfolioConfig struct {
	NumDeals    int           `yaml:"num_deals"`
	RiskRange   model.Range   `yaml:"risk_range"`
	ReturnRange model.Range   `yaml:"return_range"`
	Skewed      bool          `yaml:"skewed"`
	Seed        *uint64       `yaml:"seed"`
	Skew        *sampler.Skew `yaml:"skew"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	RedisAddr      string        `yaml:"redis_addr"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Portfolio: PortfolioConfig{
			NumDeals:    100,
			RiskRange:   model.Range{Lo: 0.1, Hi: 0.5},
			ReturnRange: model.Range{Lo: 0.05, Hi: 0.20},
		},
		Server: ServerConfig{
			Port:           "8080",
			SessionTTL:     2 * time.Hour,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
// The file is decoded over Default(), so keys it omits keep their defaults
// and keys it sets (including an explicit 0) win.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If deal_file is set, load it and merge in any explicit overrides from c.Deal.
	if c.DealFile != "" {
		dealPath := c.DealFile
		if !filepath.IsAbs(dealPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), dealPath)
			if _, err := os.Stat(cand); err == nil {
				dealPath = cand
			}
		}
		loaded, err := LoadDealFile(dealPath)
		if err != nil {
			return nil, err
		}
		c.Deal = MergeDeal(loaded, c.Deal)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.BaseDeal().Validate(); err != nil {
		return fmt.Errorf("deal config invalid: %w", err)
	}
	seen := map[string]bool{}
	for i, sc := range c.Scenarios {
		if seen[sc.Name] {
			return fmt.Errorf("scenarios[%d]: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true
		if err := c.ScenarioDeal(sc).Validate(); err != nil {
			return fmt.Errorf("scenarios[%d] %q invalid: %w", i, sc.Name, err)
		}
	}
	if !c.Portfolio.RiskRange.Valid() {
		return errors.New("portfolio.risk_range: lo must be <= hi")
	}
	if !c.Portfolio.ReturnRange.Valid() {
		return errors.New("portfolio.return_range: lo must be <= hi")
	}
	if c.Server.SessionTTL < 0 {
		return errors.New("server.session_ttl must be >= 0")
	}
	return nil
}

// BaseDeal returns the configured deal laid over model.DefaultDealParameters.
func (c *Config) BaseDeal() model.DealParameters {
	return c.Deal.Apply(model.DefaultDealParameters())
}

// ScenarioDeal returns the base deal with the scenario's overrides applied.
func (c *Config) ScenarioDeal(sc ScenarioConfig) model.DealParameters {
	return sc.Deal.Apply(c.BaseDeal())
}

// SamplerOptions builds sampler options from the portfolio section.
func (c *Config) SamplerOptions() []sampler.Option {
	var opts []sampler.Option
	if c.Portfolio.Seed != nil {
		opts = append(opts, sampler.WithSeed(*c.Portfolio.Seed))
	}
	if c.Portfolio.Skew != nil {
		opts = append(opts, sampler.WithSkew(*c.Portfolio.Skew))
	}
	return opts
}

// Apply overlays the set fields of d onto base.
func (d DealConfig) Apply(base model.DealParameters) model.DealParameters {
	out := base
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.LoanAmount, d.LoanAmount)
	set(&out.InterestRate, d.InterestRate)
	set(&out.Fees, d.Fees)
	set(&out.OperatingCostRatio, d.OperatingCostRatio)
	set(&out.ExpectedLossRate, d.ExpectedLossRate)
	set(&out.ULCapitalFactor, d.ULCapitalFactor)
	set(&out.HurdleRate, d.HurdleRate)
	return out
}

type dealFileWrapper struct {
	Deal DealConfig `yaml:"deal"`
}

// LoadDealFile reads a YAML file holding a single `deal:` section.
func LoadDealFile(path string) (DealConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DealConfig{}, err
	}
	var w dealFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return DealConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Deal, nil
}

// MergeDeal overlays the set fields of override onto base.
// This is used when loading a deal file and then applying overrides from the config.
func MergeDeal(base, override DealConfig) DealConfig {
	out := base
	pick := func(dst **float64, src *float64) {
		if src != nil {
			*dst = src
		}
	}
	pick(&out.LoanAmount, override.LoanAmount)
	pick(&out.InterestRate, override.InterestRate)
	pick(&out.Fees, override.Fees)
	pick(&out.OperatingCostRatio, override.OperatingCostRatio)
	pick(&out.ExpectedLossRate, override.ExpectedLossRate)
	pick(&out.ULCapitalFactor, override.ULCapitalFactor)
	pick(&out.HurdleRate, override.HurdleRate)
	return out
}
