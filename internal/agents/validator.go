package agents

import (
	"fmt"
	"sync"
	"time"

	marketerrors "marketintel/internal/errors"
	"marketintel/internal/models"
)

// ValidatorConfig tunes the Signal Validator's gates.
type ValidatorConfig struct {
	MinConfidence      float64
	MaxPositionSize    float64
	DailyTradeLimit    int
	DailyLossLimitPct  float64
	MaxConsecutiveLosses int
	MarketHoursOnly    bool
}

// DefaultValidatorConfig returns the spec's stated defaults.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MinConfidence:        0.6,
		MaxPositionSize:      0.10,
		DailyTradeLimit:      20,
		DailyLossLimitPct:    5.0,
		MaxConsecutiveLosses: 5,
		MarketHoursOnly:      true,
	}
}

type tradeRecord struct {
	at time.Time
}

// Validator applies ordered gates to a TradingSignal and maintains running
// daily-loss / trade-frequency / kill-switch state. All mutable state is
// guarded by a single mutex, giving every validate-and-record operation on
// one instance a linearised order.
type Validator struct {
	mu                sync.Mutex
	cfg               ValidatorConfig
	trades            []tradeRecord
	dailyPnLPct       float64
	consecutiveLosses int
	killSwitch        bool
	killSwitchReason  string
}

// NewValidator builds a Validator with the given configuration.
func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs the fixed gate order against a signal and portfolio value,
// at time now. The first rejection wins.
func (v *Validator) Validate(signal models.TradingSignal, portfolioValue float64, now time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.expireOldTrades(now)

	if v.killSwitch {
		return marketerrors.NewKillSwitchTriggered(v.killSwitchReason + "; manual reset required")
	}
	if signal.Confidence < v.cfg.MinConfidence {
		return fmt.Errorf("signal confidence %.2f below minimum %.2f", signal.Confidence, v.cfg.MinConfidence)
	}
	if signal.PositionSize > v.cfg.MaxPositionSize {
		return fmt.Errorf("position size %.4f exceeds maximum %.4f", signal.PositionSize, v.cfg.MaxPositionSize)
	}
	if len(v.trades) >= v.cfg.DailyTradeLimit {
		return fmt.Errorf("daily trade limit (%d) reached", v.cfg.DailyTradeLimit)
	}
	if v.dailyPnLPct <= -v.cfg.DailyLossLimitPct {
		v.killSwitch = true
		v.killSwitchReason = "daily loss limit breached"
		return marketerrors.NewKillSwitchTriggered(v.killSwitchReason)
	}
	if v.consecutiveLosses >= v.cfg.MaxConsecutiveLosses {
		return fmt.Errorf("consecutive loss limit (%d) reached", v.cfg.MaxConsecutiveLosses)
	}
	if v.cfg.MarketHoursOnly && !inMarketHours(now) {
		return fmt.Errorf("outside market hours")
	}
	positionValue := signal.PositionSize * portfolioValue
	if portfolioValue > 0 && positionValue > portfolioValue*v.cfg.MaxPositionSize {
		return fmt.Errorf("computed position value exceeds portfolio cap")
	}

	v.trades = append(v.trades, tradeRecord{at: now})
	return nil
}

// RecordTradeResult updates daily P&L and consecutive-loss state, and may
// trip the kill switch on cumulative daily loss.
func (v *Validator) RecordTradeResult(pnlPct float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.dailyPnLPct += pnlPct
	if pnlPct < 0 {
		v.consecutiveLosses++
	} else {
		v.consecutiveLosses = 0
	}
	if v.dailyPnLPct <= -v.cfg.DailyLossLimitPct {
		v.killSwitch = true
		v.killSwitchReason = "cumulative daily loss limit breached"
	}
}

// ResetKillSwitch clears a latched kill switch. Intended for operator use.
func (v *Validator) ResetKillSwitch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.killSwitch = false
	v.killSwitchReason = ""
}

// KillSwitchActive reports whether the kill switch is currently latched.
func (v *Validator) KillSwitchActive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.killSwitch
}

func (v *Validator) expireOldTrades(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	fresh := v.trades[:0]
	for _, t := range v.trades {
		if t.at.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	v.trades = fresh
}

func inMarketHours(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= 9*60+30 && minutes <= 16*60
}
