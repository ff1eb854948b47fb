package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := "test_" + t.Name() + ".db"
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
		os.Remove(path)
	})
	return s
}

func TestArticleRoundTrip_UnprocessedThenMarkedAnalyzed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := models.Article{
		ID:          "art-1",
		Ticker:      "AAPL",
		Title:       "AAPL beats estimates",
		Body:        "strong quarter",
		Source:      "Reuters",
		Tier:        models.TierMajor,
		PublishedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveArticle(ctx, a))

	repo := ArticleRepo{s}
	pending, err := repo.FindUnprocessed(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "AAPL", pending[0].Ticker)

	analysisID, err := repo.SaveAnalysis(ctx, models.Analysis{ArticleID: a.ID, SentimentLabel: models.SentimentPositive, Confidence: 0.8})
	require.NoError(t, err)
	require.NoError(t, repo.MarkAnalyzed(ctx, a.ID, analysisID))

	pending, err = repo.FindUnprocessed(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProposalSaveAndUpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := ProposalRepo{s}

	p := models.Proposal{
		ID:         "prop-1",
		Ticker:     "TSLA",
		Action:     models.ActionBuy,
		Confidence: 0.75,
		Status:     models.ProposalPending,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.UpdateStatus(ctx, p.ID, models.ProposalApproved))

	err := repo.UpdateStatus(ctx, "does-not-exist", models.ProposalRejected)
	assert.Error(t, err)
}

func TestShadowRepoRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := ShadowRepo{s}

	st := models.ShadowTrade{
		ID:           "shadow-1",
		Ticker:       "NFLX",
		Action:       models.ActionBuy,
		EntryPrice:   200,
		EntryDate:    time.Now().UTC(),
		TrackingDays: 7,
		Status:       models.ShadowTracking,
	}
	require.NoError(t, repo.Save(ctx, st))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "NFLX", active[0].Ticker)

	exit := 210.0
	st.ExitPrice = &exit
	st.Status = models.ShadowClosed
	st.VirtualPnL = 10
	require.NoError(t, repo.Update(ctx, st))

	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
