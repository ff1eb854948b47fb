package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func strongPositiveAnalysis() models.Analysis {
	return models.Analysis{
		ArticleID:         "a1",
		SentimentLabel:    models.SentimentPositive,
		SentimentScore:    0.8,
		Confidence:        0.9,
		Urgency:           models.UrgencyHigh,
		ImpactMagnitude:   0.8,
		RiskCategory:      models.RiskLow,
		TradingActionable: true,
		RelatedTickers:    []models.RelatedTicker{{Ticker: "AAPL", Relevance: 90, Sentiment: 0.8}},
	}
}

func TestGenerateSignal_StrongPositiveYieldsBuy(t *testing.T) {
	sig, ok := GenerateSignal(strongPositiveAnalysis(), DefaultSignalGeneratorConfig())
	require.True(t, ok)
	assert.Equal(t, models.ActionBuy, sig.Action)
	assert.Equal(t, "AAPL", sig.Ticker)
	assert.Equal(t, models.ExecutionMarket, sig.ExecutionType)
}

func TestGenerateSignal_RejectsNotActionable(t *testing.T) {
	a := strongPositiveAnalysis()
	a.TradingActionable = false
	_, ok := GenerateSignal(a, DefaultSignalGeneratorConfig())
	assert.False(t, ok)
}

func TestGenerateSignal_RejectsLowImpact(t *testing.T) {
	a := strongPositiveAnalysis()
	a.ImpactMagnitude = 0.1
	_, ok := GenerateSignal(a, DefaultSignalGeneratorConfig())
	assert.False(t, ok)
}

func TestGenerateSignal_RejectsLowRelevanceTicker(t *testing.T) {
	a := strongPositiveAnalysis()
	a.RelatedTickers = []models.RelatedTicker{{Ticker: "AAPL", Relevance: 50}}
	_, ok := GenerateSignal(a, DefaultSignalGeneratorConfig())
	assert.False(t, ok)
}

func TestGenerateSignal_ManipulationMultiplierZerosConfidence(t *testing.T) {
	a := strongPositiveAnalysis()
	a.ClusterMultiplier = 0.0001
	_, ok := GenerateSignal(a, DefaultSignalGeneratorConfig())
	assert.False(t, ok)
}

func TestGenerateSignal_NegativeYieldsSell(t *testing.T) {
	a := strongPositiveAnalysis()
	a.SentimentLabel = models.SentimentNegative
	a.SentimentScore = -0.7
	a.RelatedTickers[0].Sentiment = -0.7
	sig, ok := GenerateSignal(a, DefaultSignalGeneratorConfig())
	require.True(t, ok)
	assert.Equal(t, models.ActionSell, sig.Action)
}
