package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"marketintel/internal/agents"
	"marketintel/internal/cluster"
	"marketintel/internal/constitution"
	marketerrors "marketintel/internal/errors"
	"marketintel/internal/resilience"
	"marketintel/internal/shadow"

	"marketintel/internal/models"
)

// Config tunes one orchestrator instance. Defaults match the spec.
type Config struct {
	PollInterval      time.Duration
	MaxPerCycle       int
	AnalysisBatchSize int
	QualityMinConfidence float64
	QualityMinSize       float64
	ShadowTrackingDays   int
}

// DefaultConfig returns the spec's stated defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:         5 * time.Minute,
		MaxPerCycle:          10,
		AnalysisBatchSize:    5,
		QualityMinConfidence: 0.6,
		QualityMinSize:       0.01,
		ShadowTrackingDays:   7,
	}
}

// Stats accumulates per-cycle statistics across the orchestrator's
// lifetime.
type Stats struct {
	mu               sync.Mutex
	Cycles           int
	ArticlesProcessed int
	Analyses         int
	SignalsGenerated int
	Duplicates       int
	LowQuality       int
}

func (s *Stats) record(fn func(*Stats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Snapshot returns a copy of the current statistics.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Cycles: s.Cycles, ArticlesProcessed: s.ArticlesProcessed, Analyses: s.Analyses,
		SignalsGenerated: s.SignalsGenerated, Duplicates: s.Duplicates, LowQuality: s.LowQuality,
	}
}

// Orchestrator is the long-running single supervisor driving one cycle at
// a time on poll_interval, with bounded per-cycle fan-out.
type Orchestrator struct {
	cfg Config
	log zerolog.Logger

	articles ArticleRepository
	proposals ProposalRepository
	shadows  ShadowRepository

	completerBreaker *resilience.Breaker
	marketBreaker    *resilience.Breaker
	completer        Completer
	router           SemanticRouter
	marketData       MarketDataClient
	notifier         NotificationSink

	clusterEngine *cluster.Engine
	constitution  *constitution.Constitution
	validator     *agents.Validator
	shadowTracker *shadow.Tracker
	signalCfg     agents.SignalGeneratorConfig

	dedup *dedupSet
	stats Stats

	stopOnce sync.Once
	stopChan chan struct{}
}

// New builds an Orchestrator wiring every collaborator and internal
// component it drives per cycle.
func New(
	cfg Config,
	log zerolog.Logger,
	articles ArticleRepository,
	proposals ProposalRepository,
	shadows ShadowRepository,
	completer Completer,
	router SemanticRouter,
	marketData MarketDataClient,
	notifier NotificationSink,
	clusterEngine *cluster.Engine,
	con *constitution.Constitution,
	validator *agents.Validator,
	shadowTracker *shadow.Tracker,
	signalCfg agents.SignalGeneratorConfig,
) *Orchestrator {
	return &Orchestrator{
		cfg:              cfg,
		log:              log.With().Str("component", "pipeline").Logger(),
		articles:         articles,
		proposals:        proposals,
		shadows:          shadows,
		completerBreaker: resilience.NewBreaker(resilience.DefaultBreakerConfig("completer")),
		marketBreaker:    resilience.NewBreaker(resilience.DefaultBreakerConfig("market_data")),
		completer:        completer,
		router:           router,
		marketData:       marketData,
		notifier:         notifier,
		clusterEngine:    clusterEngine,
		constitution:     con,
		validator:        validator,
		shadowTracker:    shadowTracker,
		signalCfg:        signalCfg,
		dedup:            newDedupSet(),
		stopChan:         make(chan struct{}),
	}
}

// Run starts the ticker-driven main loop and blocks until ctx is cancelled
// or Stop is called. In-flight cycles finish cleanly before returning.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.stopChan:
			return nil
		case <-ticker.C:
			if err := o.RunCycle(ctx); err != nil {
				o.log.Error().Err(err).Msg("cycle failed")
			}
		}
	}
}

// Stop signals the main loop to exit after its current cycle.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() { close(o.stopChan) })
}

// RunCycle executes one pipeline pass: ingest, analyze, cluster, classify,
// generate signals, de-duplicate, filter, validate, present, and record
// shadow outcomes for rejections.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	now := time.Now().UTC()
	o.stats.record(func(s *Stats) { s.Cycles++ })

	articlesList, err := o.articles.FindUnprocessed(ctx, now.Add(-24*time.Hour), o.cfg.MaxPerCycle)
	if err != nil {
		return marketerrors.NewIngestFailure("find_unprocessed", err)
	}
	if len(articlesList) == 0 {
		return nil
	}

	runBounded(articlesList, o.cfg.AnalysisBatchSize, func(a models.Article) {
		o.processArticle(ctx, a, now)
	})

	o.stats.record(func(s *Stats) { s.ArticlesProcessed += len(articlesList) })
	return nil
}

func (o *Orchestrator) processArticle(ctx context.Context, a models.Article, now time.Time) {
	log := o.log.With().Str("article_id", a.ID).Str("ticker", a.Ticker).Logger()

	if o.router != nil {
		if _, err := o.router.Route(ctx, a); err != nil {
			log.Warn().Err(err).Msg("routing recommendation failed, proceeding with default completer")
		}
	}

	analysis := o.completeAnalysis(ctx, a)
	o.stats.record(func(s *Stats) { s.Analyses++ })

	if id, err := o.articles.SaveAnalysis(ctx, analysis); err != nil {
		log.Error().Err(marketerrors.NewIngestFailure("save_analysis", err)).Msg("persisting analysis")
	} else if err := o.articles.MarkAnalyzed(ctx, a.ID, id); err != nil {
		log.Error().Err(marketerrors.NewIngestFailure("mark_analyzed", err)).Msg("marking article analyzed")
	}

	if snapshot, joined := o.clusterEngine.Ingest(a, now); joined {
		// A zero multiplier (MANIPULATION_ATTACK) zeroes signal confidence.
		// ClusterMultiplier cannot carry it, since 0 there reads as "no
		// cluster", so the article yields no signal.
		if snapshot.ConfidenceMult == 0 {
			return
		}
		analysis.ClusterMultiplier = snapshot.ConfidenceMult
	}

	if !analysis.TradingActionable {
		return
	}

	signal, ok := agents.GenerateSignal(analysis, o.signalCfg)
	if !ok {
		return
	}

	key := signalKey(signal.Ticker, now)
	if o.dedup.SeenRecently(key, now) {
		o.stats.record(func(s *Stats) { s.Duplicates++ })
		return
	}

	if signal.Confidence < o.cfg.QualityMinConfidence || signal.PositionSize < o.cfg.QualityMinSize {
		o.stats.record(func(s *Stats) { s.LowQuality++ })
		return
	}

	o.stats.record(func(s *Stats) { s.SignalsGenerated++ })
	o.handleSignal(ctx, signal, now)
}

func (o *Orchestrator) completeAnalysis(ctx context.Context, a models.Article) models.Analysis {
	completeCtx, cancel := resilience.WithTimeout(ctx, resilience.CompleterTimeout)
	defer cancel()

	var analysis models.Analysis
	err := o.completerBreaker.Execute(completeCtx, func(ctx context.Context) error {
		analysis = agents.Analyze(ctx, o.completer, a)
		return nil
	})
	if err != nil {
		return agents.FallbackAnalyze(a)
	}
	return analysis
}

func (o *Orchestrator) handleSignal(ctx context.Context, signal models.TradingSignal, now time.Time) {
	mctx := o.fetchMarketContext(ctx)

	if err := o.validator.Validate(signal, mctx.TotalCapital, now); err != nil {
		o.rejectToShadow(ctx, proposalFromSignal(signal, mctx, now), err.Error(), nil)
		return
	}

	proposal := proposalFromSignal(signal, mctx, now)
	proposal.IsApproved = signal.AutoExecute

	result := o.constitution.ValidateProposal(proposal, mctx, false)
	proposal.IsConstitutional = result.Valid
	proposal.ViolatedArticles = result.CitedArticles

	if !result.Valid {
		reasons := ""
		blockID := ""
		for i, v := range result.Violations {
			if i == 0 {
				blockID = v.BlockID
			}
			if i > 0 {
				reasons += "; "
			}
			reasons += v.Reason
		}
		violation := marketerrors.NewConstitutionalViolation(blockID, reasons, result.CitedArticles)
		o.log.Warn().Err(violation).Str("ticker", proposal.Ticker).Msg("proposal rejected by constitution")
		o.rejectToShadow(ctx, proposal, reasons, result.CitedArticles)
		return
	}

	if err := o.proposals.Save(ctx, proposal); err != nil {
		o.log.Error().Err(err).Msg("saving proposal")
	}
	if o.notifier != nil {
		if err := o.notifier.SendProposal(ctx, proposal); err != nil {
			o.log.Error().Err(err).Msg("sending proposal notification")
		}
	}
}

func (o *Orchestrator) rejectToShadow(ctx context.Context, p models.Proposal, reason string, violated []string) {
	st := o.shadowTracker.Create(p, reason, violated, o.cfg.ShadowTrackingDays)
	if err := o.shadows.Save(ctx, st); err != nil {
		o.log.Error().Err(err).Msg("saving shadow trade")
	}
}

func (o *Orchestrator) fetchMarketContext(ctx context.Context) models.MarketContext {
	if o.marketData == nil {
		return models.MarketContext{}
	}
	marketCtx, cancel := resilience.WithTimeout(ctx, resilience.MarketDataTimeout)
	defer cancel()

	var mctx models.MarketContext
	err := o.marketBreaker.Execute(marketCtx, func(ctx context.Context) error {
		var err error
		mctx, err = o.marketData.MarketContext(ctx)
		return err
	})
	if err != nil {
		o.log.Warn().Err(err).Msg("market context unavailable, using zero value")
		return models.MarketContext{}
	}
	return mctx
}

// Snapshot returns the orchestrator's cumulative statistics.
func (o *Orchestrator) Snapshot() Stats {
	return o.stats.Snapshot()
}

func proposalFromSignal(signal models.TradingSignal, mctx models.MarketContext, now time.Time) models.Proposal {
	positionValue := signal.PositionSize * mctx.TotalCapital
	return models.Proposal{
		Ticker:         signal.Ticker,
		Action:         signal.Action,
		PositionValue:  positionValue,
		OrderValue:     positionValue,
		Reasoning:      signal.Reason,
		Confidence:     signal.Confidence,
		ConsensusLevel: signal.Confidence,
		Status:         models.ProposalPending,
		MarketRegime:   mctx.MarketRegime,
		VIX:            mctx.VIX,
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
	}
}
