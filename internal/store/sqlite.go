// Package store provides the persistence implementations behind the
// pipeline's repository interfaces.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"

	"marketintel/internal/models"
)

// SQLiteStore implements ArticleRepository, ProposalRepository, and
// ShadowRepository over a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if absent) a SQLite database at dbPath and
// initializes its schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		ticker TEXT,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		source TEXT NOT NULL,
		tier TEXT NOT NULL,
		published_at DATETIME NOT NULL,
		url TEXT,
		sentiment REAL,
		analysis_id TEXT,
		analyzed_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		article_id TEXT NOT NULL,
		sentiment_label TEXT NOT NULL,
		sentiment_score REAL NOT NULL,
		confidence REAL NOT NULL,
		urgency TEXT NOT NULL,
		impact_magnitude REAL NOT NULL,
		risk_category TEXT NOT NULL,
		trading_actionable INTEGER NOT NULL,
		related_tickers TEXT,
		cluster_multiplier REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (article_id) REFERENCES articles(id)
	);

	CREATE TABLE IF NOT EXISTS proposals (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		action TEXT NOT NULL,
		target_price REAL,
		position_value REAL NOT NULL,
		order_value REAL NOT NULL,
		shares REAL,
		reasoning TEXT,
		confidence REAL NOT NULL,
		consensus_level REAL,
		is_constitutional INTEGER NOT NULL,
		is_approved INTEGER NOT NULL,
		violated_articles TEXT,
		status TEXT NOT NULL,
		market_regime TEXT,
		vix REAL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS shadow_trades (
		id TEXT PRIMARY KEY,
		proposal_id TEXT,
		ticker TEXT NOT NULL,
		action TEXT NOT NULL,
		entry_price REAL NOT NULL,
		entry_date DATETIME NOT NULL,
		exit_price REAL,
		shares REAL,
		rejection_reason TEXT,
		violated_articles TEXT,
		tracking_days INTEGER NOT NULL,
		status TEXT NOT NULL,
		virtual_pnl REAL,
		virtual_pnl_pct REAL,
		closed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_articles_analyzed ON articles(analyzed_at);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
	CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status);
	CREATE INDEX IF NOT EXISTS idx_proposals_ticker ON proposals(ticker);
	CREATE INDEX IF NOT EXISTS idx_shadow_status ON shadow_trades(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Articles
// ============================================================================

// SaveArticle inserts a newly-ingested Article.
func (s *SQLiteStore) SaveArticle(ctx context.Context, a models.Article) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO articles (id, ticker, title, body, source, tier, published_at, url, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Ticker, a.Title, a.Body, a.Source, string(a.Tier), a.PublishedAt, a.URL, a.Sentiment)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

// FindUnprocessed returns up to limit Articles published since `since`
// that have not yet been analyzed, oldest first.
func (s *SQLiteStore) FindUnprocessed(ctx context.Context, since time.Time, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticker, title, body, source, tier, published_at, url, sentiment
		FROM articles
		WHERE analyzed_at IS NULL AND published_at >= ?
		ORDER BY published_at ASC
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed articles: %w", err)
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		var a models.Article
		var tier string
		var ticker, url sql.NullString
		var sentiment sql.NullFloat64
		if err := rows.Scan(&a.ID, &ticker, &a.Title, &a.Body, &a.Source, &tier, &a.PublishedAt, &url, &sentiment); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		a.Ticker = ticker.String
		a.URL = url.String
		a.Tier = models.SourceTier(tier)
		if sentiment.Valid {
			v := sentiment.Float64
			a.Sentiment = &v
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkAnalyzed stamps an article as analyzed, linking it to its analysis.
func (s *SQLiteStore) MarkAnalyzed(ctx context.Context, articleID, analysisID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE articles SET analysis_id = ?, analyzed_at = ? WHERE id = ?
	`, analysisID, time.Now().UTC(), articleID)
	if err != nil {
		return fmt.Errorf("failed to mark article analyzed: %w", err)
	}
	return nil
}

// SaveAnalysis persists an Analysis and returns its generated ID.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a models.Analysis) (string, error) {
	id := uuid.NewString()
	relatedJSON, _ := json.Marshal(a.RelatedTickers)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, article_id, sentiment_label, sentiment_score, confidence, urgency, impact_magnitude, risk_category, trading_actionable, related_tickers, cluster_multiplier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, a.ArticleID, string(a.SentimentLabel), a.SentimentScore, a.Confidence, string(a.Urgency), a.ImpactMagnitude, string(a.RiskCategory), boolToInt(a.TradingActionable), string(relatedJSON), a.ClusterMultiplier)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// ============================================================================
// Proposals
// ============================================================================

// Save inserts a new Proposal.
func (s *SQLiteStore) Save(ctx context.Context, p models.Proposal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	violated, _ := json.Marshal(p.ViolatedArticles)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO proposals (id, ticker, action, target_price, position_value, order_value, shares, reasoning, confidence, consensus_level, is_constitutional, is_approved, violated_articles, status, market_regime, vix, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Ticker, string(p.Action), p.TargetPrice, p.PositionValue, p.OrderValue, p.Shares, p.Reasoning, p.Confidence, p.ConsensusLevel, boolToInt(p.IsConstitutional), boolToInt(p.IsApproved), string(violated), string(p.Status), string(p.MarketRegime), p.VIX, p.CreatedAt, p.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}
	return nil
}

// UpdateStatus transitions a Proposal's lifecycle status.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, proposalID string, status models.ProposalStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE proposals SET status = ? WHERE id = ?
	`, string(status), proposalID)
	if err != nil {
		return fmt.Errorf("failed to update proposal status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("proposal not found: %s", proposalID)
	}
	return nil
}

// ============================================================================
// Shadow trades
// ============================================================================

// SaveShadow inserts a new ShadowTrade.
func (s *SQLiteStore) SaveShadow(ctx context.Context, st models.ShadowTrade) error {
	violated, _ := json.Marshal(st.ViolatedArticles)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shadow_trades (id, proposal_id, ticker, action, entry_price, entry_date, exit_price, shares, rejection_reason, violated_articles, tracking_days, status, virtual_pnl, virtual_pnl_pct, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, st.ID, st.ProposalID, st.Ticker, string(st.Action), st.EntryPrice, st.EntryDate, st.ExitPrice, st.Shares, st.RejectionReason, string(violated), st.TrackingDays, string(st.Status), st.VirtualPnL, st.VirtualPnLPct, st.ClosedAt)
	if err != nil {
		return fmt.Errorf("failed to save shadow trade: %w", err)
	}
	return nil
}

// UpdateShadow persists a ShadowTrade's mutated fields (price updates,
// closure).
func (s *SQLiteStore) UpdateShadow(ctx context.Context, st models.ShadowTrade) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE shadow_trades SET exit_price = ?, status = ?, virtual_pnl = ?, virtual_pnl_pct = ?, closed_at = ? WHERE id = ?
	`, st.ExitPrice, string(st.Status), st.VirtualPnL, st.VirtualPnLPct, st.ClosedAt, st.ID)
	if err != nil {
		return fmt.Errorf("failed to update shadow trade: %w", err)
	}
	return nil
}

// FindActiveShadows returns every ShadowTrade still in TRACKING state.
func (s *SQLiteStore) FindActiveShadows(ctx context.Context) ([]models.ShadowTrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, proposal_id, ticker, action, entry_price, entry_date, exit_price, shares, rejection_reason, violated_articles, tracking_days, status, virtual_pnl, virtual_pnl_pct, closed_at
		FROM shadow_trades WHERE status = ?
	`, string(models.ShadowTracking))
	if err != nil {
		return nil, fmt.Errorf("failed to query active shadow trades: %w", err)
	}
	defer rows.Close()

	var out []models.ShadowTrade
	for rows.Next() {
		var st models.ShadowTrade
		var status, action string
		var violatedJSON sql.NullString
		var exitPrice sql.NullFloat64
		var closedAt sql.NullTime
		var proposalID sql.NullString
		if err := rows.Scan(&st.ID, &proposalID, &st.Ticker, &action, &st.EntryPrice, &st.EntryDate, &exitPrice, &st.Shares, &st.RejectionReason, &violatedJSON, &st.TrackingDays, &status, &st.VirtualPnL, &st.VirtualPnLPct, &closedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shadow trade: %w", err)
		}
		st.ProposalID = proposalID.String
		st.Action = models.SignalAction(action)
		st.Status = models.ShadowStatus(status)
		if exitPrice.Valid {
			v := exitPrice.Float64
			st.ExitPrice = &v
		}
		if closedAt.Valid {
			v := closedAt.Time
			st.ClosedAt = &v
		}
		if violatedJSON.Valid {
			json.Unmarshal([]byte(violatedJSON.String), &st.ViolatedArticles)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// FindShadowsSince returns every ShadowTrade (active or closed) entered on
// or after since, for building a ShieldReport over a historical window.
func (s *SQLiteStore) FindShadowsSince(ctx context.Context, since time.Time) ([]models.ShadowTrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, proposal_id, ticker, action, entry_price, entry_date, exit_price, shares, rejection_reason, violated_articles, tracking_days, status, virtual_pnl, virtual_pnl_pct, closed_at
		FROM shadow_trades WHERE entry_date >= ?
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query shadow trades since %s: %w", since, err)
	}
	defer rows.Close()

	var out []models.ShadowTrade
	for rows.Next() {
		var st models.ShadowTrade
		var status, action string
		var violatedJSON sql.NullString
		var exitPrice sql.NullFloat64
		var closedAt sql.NullTime
		var proposalID sql.NullString
		if err := rows.Scan(&st.ID, &proposalID, &st.Ticker, &action, &st.EntryPrice, &st.EntryDate, &exitPrice, &st.Shares, &st.RejectionReason, &violatedJSON, &st.TrackingDays, &status, &st.VirtualPnL, &st.VirtualPnLPct, &closedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shadow trade: %w", err)
		}
		st.ProposalID = proposalID.String
		st.Action = models.SignalAction(action)
		st.Status = models.ShadowStatus(status)
		if exitPrice.Valid {
			v := exitPrice.Float64
			st.ExitPrice = &v
		}
		if closedAt.Valid {
			v := closedAt.Time
			st.ClosedAt = &v
		}
		if violatedJSON.Valid {
			json.Unmarshal([]byte(violatedJSON.String), &st.ViolatedArticles)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
