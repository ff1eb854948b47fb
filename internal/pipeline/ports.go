// Package pipeline drives the end-to-end cycle: fetch unprocessed
// articles, analyze, cluster, classify, generate signals, validate,
// present to a human, and record the outcome.
package pipeline

import (
	"context"
	"time"

	"marketintel/internal/models"
)

// ArticleRepository persists Articles and tracks which have been analyzed.
type ArticleRepository interface {
	FindUnprocessed(ctx context.Context, since time.Time, limit int) ([]models.Article, error)
	MarkAnalyzed(ctx context.Context, articleID, analysisID string) error
	SaveAnalysis(ctx context.Context, a models.Analysis) (string, error)
}

// ProposalRepository persists candidate Proposals and their lifecycle.
type ProposalRepository interface {
	Save(ctx context.Context, p models.Proposal) error
	UpdateStatus(ctx context.Context, proposalID string, status models.ProposalStatus) error
}

// ShadowRepository persists ShadowTrades.
type ShadowRepository interface {
	Save(ctx context.Context, s models.ShadowTrade) error
	Update(ctx context.Context, s models.ShadowTrade) error
	FindActive(ctx context.Context) ([]models.ShadowTrade, error)
}

// Completer turns article text into a raw analysis payload.
type Completer interface {
	Provider() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RoutingRecommendation is the SemanticRouter's guidance for one article.
type RoutingRecommendation struct {
	Intent         string
	Provider       string
	Model          string
	EstimatedTokens int
}

// SemanticRouter recommends which provider/model should analyze an
// article, and roughly how many tokens it will cost.
type SemanticRouter interface {
	Route(ctx context.Context, a models.Article) (RoutingRecommendation, error)
}

// MarketDataClient supplies spot prices for the Shadow Tracker and
// contextual market data (VIX, daily volume) for the Constitution.
type MarketDataClient interface {
	SpotPrice(ctx context.Context, ticker string) (float64, error)
	MarketContext(ctx context.Context) (models.MarketContext, error)
}

// NotificationSink delivers outbound Proposals and shield reports to
// whatever channel(s) an operator has configured.
type NotificationSink interface {
	SendProposal(ctx context.Context, p models.Proposal) error
	SendShieldReport(ctx context.Context, r models.ShieldReport) error
}
