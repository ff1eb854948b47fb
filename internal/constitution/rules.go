// Package constitution holds the three immutable rule blocks governing
// risk limits, capital allocation, and trading constraints, and validates
// candidate Proposals against them.
package constitution

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	marketerrors "marketintel/internal/errors"
)

//go:embed rules.yaml
var rulesSource []byte

//go:embed digest.txt
var pinnedDigestRaw string

// RiskLimits is rule block 1.
type RiskLimits struct {
	BlockID                 string  `yaml:"block_id"`
	MaxDailyLossPct         float64 `yaml:"max_daily_loss_pct"`
	MaxDrawdownPct          float64 `yaml:"max_drawdown_pct"`
	DailyLossCircuitBreakerPct float64 `yaml:"daily_loss_circuit_breaker_pct"`
	MaxSinglePositionPct    float64 `yaml:"max_single_position_pct"`
	MinPositionUSD          float64 `yaml:"min_position_usd"`
	MaxSectorExposurePct    float64 `yaml:"max_sector_exposure_pct"`
	MaxPortfolioVolatilityPct float64 `yaml:"max_portfolio_volatility_pct"`
	VIXCaution              float64 `yaml:"vix_caution"`
	VIXDanger               float64 `yaml:"vix_danger"`
	LeverageAllowed         bool    `yaml:"leverage_allowed"`
	OptionsAllowed          bool    `yaml:"options_allowed"`
	ShortingAllowed         bool    `yaml:"shorting_allowed"`
	MarginAllowed           bool    `yaml:"margin_allowed"`
}

// RegimeBounds is an allocation range for one market regime.
type RegimeBounds struct {
	StockMinPct float64 `yaml:"stock_min_pct"`
	StockMaxPct float64 `yaml:"stock_max_pct"`
	CashMinPct  float64 `yaml:"cash_min_pct"`
}

// AllocationRules is rule block 2.
type AllocationRules struct {
	BlockID              string `yaml:"block_id"`
	MinCashPct           float64 `yaml:"min_cash_pct"`
	MaxStockPct          float64 `yaml:"max_stock_pct"`
	RebalanceThresholdPct float64 `yaml:"rebalance_threshold_pct"`
	Regimes              map[string]RegimeBounds `yaml:"regimes"`
}

// TradingConstraints is rule block 3.
type TradingConstraints struct {
	BlockID                  string  `yaml:"block_id"`
	MaxTradesPerDay          int     `yaml:"max_trades_per_day"`
	MaxTradesPerWeek         int     `yaml:"max_trades_per_week"`
	MinHoldHours             int     `yaml:"min_hold_hours"`
	MinOrderUSD              float64 `yaml:"min_order_usd"`
	MaxOrderUSD              float64 `yaml:"max_order_usd"`
	SmallPortfolioCeilingUSD float64 `yaml:"small_portfolio_ceiling_usd"`
	MaxOrderPctOfCapital     float64 `yaml:"max_order_pct_of_capital"`
	MaxOrderPctOfDailyVolume float64 `yaml:"max_order_pct_of_daily_volume"`
	MinDailyVolumeUSD        float64 `yaml:"min_daily_volume_usd"`
	HumanApprovalRequired    bool    `yaml:"human_approval_required"`
	PreAfterHoursAllowed     bool    `yaml:"pre_after_hours_allowed"`
	ShortingAllowed          bool    `yaml:"shorting_allowed"`
	OptionsAllowed           bool    `yaml:"options_allowed"`
	FuturesAllowed           bool    `yaml:"futures_allowed"`
}

type rulesFile struct {
	RiskLimits        RiskLimits        `yaml:"risk_limits"`
	AllocationRules   AllocationRules   `yaml:"allocation_rules"`
	TradingConstraints TradingConstraints `yaml:"trading_constraints"`
}

// Constitution holds the three rule blocks, parsed once and never mutated.
type Constitution struct {
	Risk       RiskLimits
	Allocation AllocationRules
	Trading    TradingConstraints
}

// Load verifies rules.yaml's integrity against the pinned digest and
// parses it into a Constitution. It is the only way to obtain one.
func Load() (*Constitution, error) {
	if err := VerifyIntegrity(); err != nil {
		return nil, err
	}
	var rf rulesFile
	if err := yaml.Unmarshal(rulesSource, &rf); err != nil {
		return nil, marketerrors.Wrap(err, "parsing constitution rules")
	}
	return &Constitution{
		Risk:       rf.RiskLimits,
		Allocation: rf.AllocationRules,
		Trading:    rf.TradingConstraints,
	}, nil
}
