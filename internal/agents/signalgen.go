package agents

import (
	"time"

	"marketintel/internal/models"
)

// SignalGeneratorConfig tunes the Signal Generator's thresholds.
type SignalGeneratorConfig struct {
	ImpactThreshold        float64
	SentimentThreshold     float64
	BaseSize               float64
	MaxPositionSize        float64
	MinConfidenceThreshold float64
	MinRelevance           float64
	AutoExecuteEnabled     bool
	AutoExecuteConfidence  float64
}

// DefaultSignalGeneratorConfig returns the spec's stated defaults.
func DefaultSignalGeneratorConfig() SignalGeneratorConfig {
	return SignalGeneratorConfig{
		ImpactThreshold:        0.50,
		SentimentThreshold:     0.30,
		BaseSize:               0.05,
		MaxPositionSize:        0.10,
		MinConfidenceThreshold: 0.6,
		MinRelevance:           70,
		AutoExecuteEnabled:     false,
		AutoExecuteConfidence:  0.85,
	}
}

var riskMultiplier = map[models.RiskCategory]float64{
	models.RiskLow:      1.0,
	models.RiskMedium:   0.75,
	models.RiskHigh:     0.5,
	models.RiskCritical: 0.25,
}

var riskInverse = map[models.RiskCategory]float64{
	models.RiskLow:      1.0,
	models.RiskMedium:   0.7,
	models.RiskHigh:     0.4,
	models.RiskCritical: 0.2,
}

var urgencyScore = map[models.Urgency]float64{
	models.UrgencyImmediate: 0.9,
	models.UrgencyHigh:      0.8,
	models.UrgencyMedium:    0.6,
	models.UrgencyLow:       0.4,
}

// GenerateSignal converts an Analysis into a TradingSignal, or returns
// (zero, false) if any pre-filter, threshold, or confidence gate fails.
func GenerateSignal(a models.Analysis, cfg SignalGeneratorConfig) (models.TradingSignal, bool) {
	if !a.TradingActionable {
		return models.TradingSignal{}, false
	}
	if a.ImpactMagnitude < cfg.ImpactThreshold {
		return models.TradingSignal{}, false
	}

	var action models.SignalAction
	switch {
	case a.SentimentLabel == models.SentimentPositive && a.SentimentScore >= cfg.SentimentThreshold:
		action = models.ActionBuy
	case a.SentimentLabel == models.SentimentNegative && a.SentimentScore <= -cfg.SentimentThreshold:
		action = models.ActionSell
	default:
		return models.TradingSignal{}, false
	}

	ticker, relevance, ok := bestTicker(a.RelatedTickers)
	if !ok || relevance < cfg.MinRelevance {
		return models.TradingSignal{}, false
	}

	size := cfg.BaseSize * (0.5 + a.ImpactMagnitude) * riskMultiplier[a.RiskCategory]
	if a.Urgency == models.UrgencyImmediate {
		size *= 0.8
	}
	if size > cfg.MaxPositionSize {
		size = cfg.MaxPositionSize
	}

	confidence := 0.4*a.Confidence + 0.3*a.ImpactMagnitude + 0.2*riskInverse[a.RiskCategory] + 0.1*urgencyScore[a.Urgency]
	confidence *= a.EffectiveMultiplier()
	if confidence > 1 {
		confidence = 1
	}
	if confidence < cfg.MinConfidenceThreshold {
		return models.TradingSignal{}, false
	}

	execType := models.ExecutionLimit
	if a.Urgency == models.UrgencyImmediate || a.Urgency == models.UrgencyHigh {
		execType = models.ExecutionMarket
	}

	autoExecute := cfg.AutoExecuteEnabled && confidence >= cfg.AutoExecuteConfidence

	return models.TradingSignal{
		Ticker:          ticker,
		Action:          action,
		PositionSize:    size,
		Confidence:      confidence,
		ExecutionType:   execType,
		Reason:          rationale(a, action),
		Urgency:         a.Urgency,
		CreatedAt:       time.Now().UTC(),
		SourceArticleID: a.ArticleID,
		AutoExecute:     autoExecute,
	}, true
}

func bestTicker(related []models.RelatedTicker) (string, float64, bool) {
	best := models.RelatedTicker{}
	found := false
	for _, rt := range related {
		if !found || rt.Relevance > best.Relevance {
			best = rt
			found = true
		}
	}
	return best.Ticker, best.Relevance, found
}

func rationale(a models.Analysis, action models.SignalAction) string {
	if action == models.ActionBuy {
		return "positive sentiment with high impact magnitude"
	}
	return "negative sentiment with high impact magnitude"
}
