package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/agents"
	"marketintel/internal/cluster"
	"marketintel/internal/constitution"
	"marketintel/internal/models"
	"marketintel/internal/shadow"
)

type memArticles struct {
	pending []models.Article
}

func (m *memArticles) FindUnprocessed(ctx context.Context, since time.Time, limit int) ([]models.Article, error) {
	if len(m.pending) > limit {
		return m.pending[:limit], nil
	}
	return m.pending, nil
}
func (m *memArticles) MarkAnalyzed(ctx context.Context, articleID, analysisID string) error { return nil }
func (m *memArticles) SaveAnalysis(ctx context.Context, a models.Analysis) (string, error)  { return "analysis-1", nil }

type memProposals struct {
	saved []models.Proposal
}

func (m *memProposals) Save(ctx context.Context, p models.Proposal) error {
	m.saved = append(m.saved, p)
	return nil
}
func (m *memProposals) UpdateStatus(ctx context.Context, proposalID string, status models.ProposalStatus) error {
	return nil
}

type memShadows struct {
	saved []models.ShadowTrade
}

func (m *memShadows) Save(ctx context.Context, s models.ShadowTrade) error {
	m.saved = append(m.saved, s)
	return nil
}
func (m *memShadows) Update(ctx context.Context, s models.ShadowTrade) error { return nil }
func (m *memShadows) FindActive(ctx context.Context) ([]models.ShadowTrade, error) { return nil, nil }

type stubMarketData struct {
	ctx models.MarketContext
}

func (s *stubMarketData) SpotPrice(ctx context.Context, ticker string) (float64, error) { return 100, nil }
func (s *stubMarketData) MarketContext(ctx context.Context) (models.MarketContext, error) {
	return s.ctx, nil
}

type stubNotifier struct {
	sent []models.Proposal
}

func (n *stubNotifier) SendProposal(ctx context.Context, p models.Proposal) error {
	n.sent = append(n.sent, p)
	return nil
}
func (n *stubNotifier) SendShieldReport(ctx context.Context, r models.ShieldReport) error { return nil }

func bullishArticleResponse() string {
	return `{
		"sentiment_label": "POSITIVE",
		"sentiment_score": 0.8,
		"confidence": 0.9,
		"urgency": "HIGH",
		"impact_magnitude": 0.9,
		"risk_category": "LOW",
		"trading_actionable": true,
		"related_tickers": [{"ticker":"AAPL","relevance":95,"sentiment":0.8}]
	}`
}

func newTestOrchestrator(t *testing.T, completer Completer, mctx models.MarketContext) (*Orchestrator, *memArticles, *memProposals, *memShadows, *stubNotifier) {
	t.Helper()
	con, err := constitution.Load()
	require.NoError(t, err)

	articlesRepo := &memArticles{}
	proposalsRepo := &memProposals{}
	shadowsRepo := &memShadows{}
	notifier := &stubNotifier{}
	marketData := &stubMarketData{ctx: mctx}

	o := New(
		DefaultConfig(),
		zerolog.Nop(),
		articlesRepo,
		proposalsRepo,
		shadowsRepo,
		completer,
		nil,
		marketData,
		notifier,
		cluster.NewEngine(60*time.Minute, 2, 48*time.Hour),
		con,
		agents.NewValidator(agents.DefaultValidatorConfig()),
		shadow.NewTracker(func(ctx context.Context, ticker string) (float64, error) { return 100, nil }),
		agents.DefaultSignalGeneratorConfig(),
	)
	return o, articlesRepo, proposalsRepo, shadowsRepo, notifier
}

func marketHoursNow() time.Time {
	return time.Date(2026, 7, 31, 15, 0, 0, 0, time.UTC)
}

func TestRunCycle_ApprovedSignalReachesNotifier(t *testing.T) {
	completer := &agents.MockCompleter{Response: bullishArticleResponse()}
	o, articlesRepo, proposalsRepo, _, notifier := newTestOrchestrator(t, completer, models.MarketContext{
		TotalCapital: 100000,
		MarketRegime: models.RegimeNeutral,
		VIX:          18,
	})
	articlesRepo.pending = []models.Article{
		{ID: "a1", Ticker: "AAPL", Title: "AAPL beats on strong earnings", Body: "record profit growth"},
	}

	err := o.RunCycle(context.Background())
	require.NoError(t, err)

	if len(proposalsRepo.saved) == 1 {
		assert.Equal(t, models.ActionBuy, proposalsRepo.saved[0].Action)
		assert.Len(t, notifier.sent, 1)
	}
}

func TestRunCycle_DuplicateSignalWithinWindowIsDropped(t *testing.T) {
	completer := &agents.MockCompleter{Response: bullishArticleResponse()}
	o, articlesRepo, _, _, _ := newTestOrchestrator(t, completer, models.MarketContext{TotalCapital: 100000})
	articlesRepo.pending = []models.Article{
		{ID: "a1", Ticker: "AAPL", Title: "AAPL beats on strong earnings", Body: "record profit growth"},
	}

	require.NoError(t, o.RunCycle(context.Background()))
	before := o.Snapshot().SignalsGenerated

	articlesRepo.pending = []models.Article{
		{ID: "a2", Ticker: "AAPL", Title: "AAPL beats on strong earnings again", Body: "record profit growth repeated"},
	}
	require.NoError(t, o.RunCycle(context.Background()))

	after := o.Snapshot()
	assert.Equal(t, before, after.SignalsGenerated)
	assert.GreaterOrEqual(t, after.Duplicates, 0)
}

func TestRunCycle_KillSwitchRoutesProposalToShadow(t *testing.T) {
	completer := &agents.MockCompleter{Response: bullishArticleResponse()}
	o, articlesRepo, proposalsRepo, shadowsRepo, _ := newTestOrchestrator(t, completer, models.MarketContext{TotalCapital: 100000})

	o.validator.RecordTradeResult(-3.0)
	o.validator.RecordTradeResult(-3.0)
	o.validator.RecordTradeResult(-3.0)
	assert.True(t, o.validator.KillSwitchActive())

	articlesRepo.pending = []models.Article{
		{ID: "a1", Ticker: "AAPL", Title: "AAPL beats on strong earnings", Body: "record profit growth"},
	}
	require.NoError(t, o.RunCycle(context.Background()))

	assert.Empty(t, proposalsRepo.saved)
	assert.Len(t, shadowsRepo.saved, 1)
}

func TestRunCycle_NoArticlesIsNoop(t *testing.T) {
	completer := &agents.MockCompleter{Response: bullishArticleResponse()}
	o, _, _, _, notifier := newTestOrchestrator(t, completer, models.MarketContext{TotalCapital: 100000})

	require.NoError(t, o.RunCycle(context.Background()))
	assert.Empty(t, notifier.sent)
	assert.Equal(t, 1, o.Snapshot().Cycles)
}
