package agents

import (
	"context"
	"encoding/json"
	"strings"

	marketerrors "marketintel/internal/errors"
	"marketintel/internal/models"
)

const systemPrompt = `You are a news analyst for a trading signal pipeline.
Given an article's title and body, respond with a single JSON object, no prose, shaped exactly as:
{
  "sentiment_label": "POSITIVE|NEGATIVE|NEUTRAL",
  "sentiment_score": <float -1..1>,
  "confidence": <float 0..1>,
  "urgency": "IMMEDIATE|HIGH|MEDIUM|LOW",
  "impact_magnitude": <float 0..1>,
  "risk_category": "LOW|MEDIUM|HIGH|CRITICAL",
  "trading_actionable": <bool>,
  "related_tickers": [{"ticker": "...", "relevance": <0..100>, "sentiment": <-1..1>}]
}`

type rawAnalysis struct {
	SentimentLabel    string  `json:"sentiment_label"`
	SentimentScore    float64 `json:"sentiment_score"`
	Confidence        float64 `json:"confidence"`
	Urgency           string  `json:"urgency"`
	ImpactMagnitude   float64 `json:"impact_magnitude"`
	RiskCategory      string  `json:"risk_category"`
	TradingActionable bool    `json:"trading_actionable"`
	RelatedTickers    []struct {
		Ticker    string  `json:"ticker"`
		Relevance float64 `json:"relevance"`
		Sentiment float64 `json:"sentiment"`
	} `json:"related_tickers"`
}

// Analyze calls the Completer and parses its response into an Analysis. On
// a CompletionFailure or ParseFailure it falls back to the keyword
// heuristic, which always succeeds but caps confidence at 0.5.
func Analyze(ctx context.Context, c Completer, a models.Article) models.Analysis {
	userPrompt := a.Title + "\n\n" + a.Body

	raw, err := c.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return FallbackAnalyze(a)
	}

	analysis, err := parseAnalysis(a.ID, raw)
	if err != nil {
		return FallbackAnalyze(a)
	}
	return analysis
}

func parseAnalysis(articleID, raw string) (models.Analysis, error) {
	var r rawAnalysis
	body := extractJSON(raw)
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return models.Analysis{}, marketerrors.NewParseFailure(raw, err)
	}

	related := make([]models.RelatedTicker, 0, len(r.RelatedTickers))
	for _, rt := range r.RelatedTickers {
		related = append(related, models.RelatedTicker{
			Ticker: rt.Ticker, Relevance: rt.Relevance, Sentiment: rt.Sentiment,
		})
	}

	return models.Analysis{
		ArticleID:         articleID,
		SentimentLabel:    models.SentimentLabel(r.SentimentLabel),
		SentimentScore:    r.SentimentScore,
		Confidence:        r.Confidence,
		Urgency:           models.Urgency(r.Urgency),
		ImpactMagnitude:   r.ImpactMagnitude,
		RiskCategory:      models.RiskCategory(r.RiskCategory),
		TradingActionable: r.TradingActionable,
		RelatedTickers:    related,
	}, nil
}

// extractJSON trims any prose a model wraps its JSON in, keeping only the
// outermost object.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

var positiveWords = []string{
	"surge", "rally", "gain", "profit", "growth", "bullish", "upgrade",
	"beat", "exceed", "strong", "positive", "outperform", "record", "high",
	"boost", "improve", "success", "optimistic",
}

var negativeWords = []string{
	"fall", "drop", "decline", "loss", "bearish", "downgrade", "miss",
	"weak", "negative", "underperform", "concern", "cut", "reduce",
	"warning", "risk", "pessimistic",
}

// FallbackAnalyze derives an Analysis from keyword counting when the
// Completer is unavailable or returns malformed output. Confidence is
// always capped at 0.5 to reflect the lower trust of a heuristic parse.
func FallbackAnalyze(a models.Article) models.Analysis {
	text := strings.ToLower(a.Title + " " + a.Body)

	var pos, neg int
	for _, w := range positiveWords {
		pos += strings.Count(text, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(text, w)
	}

	total := pos + neg
	score := 0.0
	if total > 0 {
		score = float64(pos-neg) / float64(total)
	}

	label := models.SentimentNeutral
	if score > 0.15 {
		label = models.SentimentPositive
	} else if score < -0.15 {
		label = models.SentimentNegative
	}

	confidence := 0.5
	if total == 0 {
		confidence = 0.2
	}

	impact := float64(total) / 10.0
	if impact > 1 {
		impact = 1
	}

	related := []models.RelatedTicker{}
	if a.Ticker != "" {
		related = append(related, models.RelatedTicker{Ticker: a.Ticker, Relevance: 75, Sentiment: score})
	}

	return models.Analysis{
		ArticleID:         a.ID,
		SentimentLabel:    label,
		SentimentScore:    score,
		Confidence:        confidence,
		Urgency:           models.UrgencyMedium,
		ImpactMagnitude:   impact,
		RiskCategory:      models.RiskMedium,
		TradingActionable: total > 0 && a.Ticker != "",
		RelatedTickers:    related,
	}
}
