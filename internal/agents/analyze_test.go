package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func TestAnalyze_ParsesWellFormedJSON(t *testing.T) {
	c := &MockCompleter{Response: `{
		"sentiment_label": "POSITIVE",
		"sentiment_score": 0.7,
		"confidence": 0.85,
		"urgency": "HIGH",
		"impact_magnitude": 0.6,
		"risk_category": "LOW",
		"trading_actionable": true,
		"related_tickers": [{"ticker":"AAPL","relevance":80,"sentiment":0.7}]
	}`}
	a := Analyze(context.Background(), c, models.Article{ID: "x", Title: "t", Body: "b"})
	assert.Equal(t, models.SentimentPositive, a.SentimentLabel)
	assert.Equal(t, 0.85, a.Confidence)
	require.Len(t, a.RelatedTickers, 1)
	assert.Equal(t, "AAPL", a.RelatedTickers[0].Ticker)
}

func TestAnalyze_FallsBackOnCompletionFailure(t *testing.T) {
	c := &MockCompleter{Err: assert.AnError}
	a := Analyze(context.Background(), c, models.Article{ID: "x", Ticker: "TSLA", Title: "TSLA surges on strong earnings beat", Body: "record growth and profit"})
	assert.LessOrEqual(t, a.Confidence, 0.5)
	assert.Equal(t, models.SentimentPositive, a.SentimentLabel)
}

func TestAnalyze_FallsBackOnMalformedJSON(t *testing.T) {
	c := &MockCompleter{Response: "not json at all"}
	a := Analyze(context.Background(), c, models.Article{ID: "x", Title: "decline warning risk", Body: "weak outlook"})
	assert.LessOrEqual(t, a.Confidence, 0.5)
	assert.Equal(t, models.SentimentNegative, a.SentimentLabel)
}

func TestFallbackAnalyze_NoKeywordsIsLowConfidenceNeutral(t *testing.T) {
	a := FallbackAnalyze(models.Article{ID: "x", Title: "quarterly filing update", Body: "routine administrative notice"})
	assert.Equal(t, models.SentimentNeutral, a.SentimentLabel)
	assert.Equal(t, 0.2, a.Confidence)
}
