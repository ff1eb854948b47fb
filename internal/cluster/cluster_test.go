package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func mkArticle(ticker, title, body string, src models.SourceTier, at time.Time) models.Article {
	return models.Article{
		Ticker: ticker, Title: title, Body: body, Tier: src, Source: "Reuters", PublishedAt: at,
	}
}

func TestIngest_BelowMinSizeReturnsFalse(t *testing.T) {
	e := NewEngine(time.Hour, 2, 48*time.Hour)
	now := time.Now()
	_, ok := e.Ingest(mkArticle("AAPL", "apple unveils new device lineup today", "apple body content words", models.TierMajor, now), now)
	assert.False(t, ok)
}

func TestIngest_JoinsWithinWindow(t *testing.T) {
	e := NewEngine(time.Hour, 2, 48*time.Hour)
	now := time.Now()
	title := "apple unveils new device lineup today"
	body := "apple body content words here now"
	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now), now)
	c, ok := e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now.Add(10*time.Minute)), now.Add(10*time.Minute))
	require.True(t, ok)
	assert.Len(t, c.Articles, 2)
}

func TestIngest_NewClusterOutsideWindow(t *testing.T) {
	e := NewEngine(time.Hour, 2, 48*time.Hour)
	now := time.Now()
	title := "apple unveils new device lineup today"
	body := "apple body content words here now"
	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now), now)
	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now.Add(2*time.Hour)), now.Add(2*time.Hour))
	_, ok := e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now.Add(2*time.Hour+time.Minute)), now.Add(2*time.Hour+time.Minute))
	assert.True(t, ok)
}

func TestIngest_JoinDecisionUsesArticleTimestampNotProcessingTime(t *testing.T) {
	e := NewEngine(time.Hour, 2, 48*time.Hour)
	title := "apple unveils new device lineup today"
	body := "apple body content words here now"
	published := time.Now().Add(-6 * time.Hour)
	processedAt := time.Now()

	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, published), processedAt)
	c, ok := e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, published.Add(10*time.Minute)), processedAt.Add(time.Second))
	require.True(t, ok)
	assert.Len(t, c.Articles, 2)
}

func TestIngest_OutOfOrderArticleOutsideWindowDoesNotJoin(t *testing.T) {
	e := NewEngine(time.Hour, 2, 48*time.Hour)
	title := "apple unveils new device lineup today"
	body := "apple body content words here now"
	now := time.Now()

	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now), now)
	_, ok := e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now.Add(-2*time.Hour)), now)
	assert.False(t, ok, "an article published 2h before the cluster's last-seen time must not join a 1h-window cluster")
}

func TestEvict_RemovesStaleClusters(t *testing.T) {
	e := NewEngine(time.Hour, 2, time.Hour)
	now := time.Now()
	title := "apple unveils new device lineup today"
	body := "apple body content words here now"
	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now), now)
	e.Ingest(mkArticle("AAPL", title, body, models.TierMajor, now.Add(time.Minute)), now.Add(time.Minute))

	evicted := e.Evict(now.Add(3 * time.Hour))
	assert.Equal(t, 1, evicted)
	assert.Empty(t, e.Snapshot())
}
