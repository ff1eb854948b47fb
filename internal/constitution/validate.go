package constitution

import (
	"time"

	"marketintel/internal/models"
)

// Violation is a single constitutional rejection reason, citing the rule
// block that produced it. It is data, not an error — rejection is an
// expected outcome, not a failure.
type Violation struct {
	BlockID string
	Reason  string
}

// ValidationResult is the outcome of validate_proposal.
type ValidationResult struct {
	Valid         bool
	Violations    []Violation
	CitedArticles []string
}

// ValidateProposal runs the five ordered sub-checks against a proposal and
// market context. skipAllocation bypasses the per-regime allocation bounds
// (used during BOOTSTRAP re-evaluation when no allocation baseline exists
// yet). The Constitution itself holds no state; every call is independent.
func (c *Constitution) ValidateProposal(p models.Proposal, ctx models.MarketContext, skipAllocation bool) ValidationResult {
	var violations []Violation
	cited := make(map[string]bool)

	record := func(blockID, reason string) {
		violations = append(violations, Violation{BlockID: blockID, Reason: reason})
		cited[blockID] = true
	}

	// 1. Position-size check vs total capital.
	if ctx.TotalCapital > 0 {
		pct := p.PositionValue / ctx.TotalCapital * 100
		if pct > c.Risk.MaxSinglePositionPct {
			record(c.Risk.BlockID, "position exceeds max single-position percentage of capital")
		}
	}
	if p.PositionValue > 0 && p.PositionValue < c.Risk.MinPositionUSD {
		record(c.Risk.BlockID, "position value below minimum position size")
	}

	// 2. Allocation bounds, per regime, unless skipped.
	if !skipAllocation {
		if bounds, ok := c.Allocation.Regimes[string(p.MarketRegime)]; ok {
			stockPct := ctx.CurrentAllocation.Stock * 100
			cashPct := ctx.CurrentAllocation.Cash * 100
			if stockPct < bounds.StockMinPct || stockPct > bounds.StockMaxPct {
				record(c.Allocation.BlockID, "stock allocation outside regime bounds")
			}
			if cashPct < bounds.CashMinPct {
				record(c.Allocation.BlockID, "cash allocation below regime minimum")
			}
		}
	}

	// 3. Trade-frequency check.
	if ctx.DailyTrades >= c.Trading.MaxTradesPerDay {
		record(c.Trading.BlockID, "daily trade limit reached")
	}
	if ctx.WeeklyTrades >= c.Trading.MaxTradesPerWeek {
		record(c.Trading.BlockID, "weekly trade limit reached")
	}

	// 4. Order-size check: absolute bounds (small portfolios only), percent
	// of capital, volume participation, minimum liquidity.
	if ctx.TotalCapital < c.Trading.SmallPortfolioCeilingUSD {
		if p.OrderValue < c.Trading.MinOrderUSD || p.OrderValue > c.Trading.MaxOrderUSD {
			record(c.Trading.BlockID, "order value outside absolute bounds")
		}
	}
	if ctx.TotalCapital > 0 {
		if p.OrderValue/ctx.TotalCapital*100 > c.Trading.MaxOrderPctOfCapital {
			record(c.Trading.BlockID, "order exceeds max percent of capital")
		}
	}
	if ctx.DailyVolumeUSD > 0 {
		if p.OrderValue/ctx.DailyVolumeUSD*100 > c.Trading.MaxOrderPctOfDailyVolume {
			record(c.Trading.BlockID, "order exceeds max percent of daily volume")
		}
	}
	if ctx.DailyVolumeUSD < c.Trading.MinDailyVolumeUSD {
		record(c.Trading.BlockID, "instrument daily volume below minimum liquidity")
	}

	// 5. Human-approval check.
	if c.Trading.HumanApprovalRequired && !p.IsApproved {
		record(c.Trading.BlockID, "human approval required but not granted")
	}

	articles := make([]string, 0, len(cited))
	for id := range cited {
		articles = append(articles, id)
	}

	return ValidationResult{
		Valid:         len(violations) == 0,
		Violations:    violations,
		CitedArticles: articles,
	}
}

// CircuitBreakerTriggered reports whether block 1's daily-loss/drawdown
// cross-check with block 1's VIX-danger threshold should halt new entries.
func (c *Constitution) CircuitBreakerTriggered(dailyLossPct, totalDrawdownPct, vix float64) bool {
	return dailyLossPct >= c.Risk.DailyLossCircuitBreakerPct ||
		totalDrawdownPct >= c.Risk.MaxDrawdownPct ||
		vix >= c.Risk.VIXDanger
}

// CoolDownUntil returns the end of the 24h cool-down window following a
// circuit-breaker trigger at the given time.
func CoolDownUntil(triggeredAt time.Time) time.Time {
	return triggeredAt.Add(24 * time.Hour)
}
