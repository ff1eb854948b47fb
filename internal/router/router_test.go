package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func TestRoute_MajorTierUsesStrongerModel(t *testing.T) {
	r := NewDefaultRouter()
	rec, err := r.Route(context.Background(), models.Article{Tier: models.TierMajor, Body: "word word word"})
	require.NoError(t, err)
	assert.Equal(t, r.MajorModel, rec.Model)
	assert.Equal(t, "high_credibility_analysis", rec.Intent)
}

func TestRoute_NonMajorTierUsesCheaperModel(t *testing.T) {
	r := NewDefaultRouter()
	rec, err := r.Route(context.Background(), models.Article{Tier: models.TierMinor, Body: "word word word"})
	require.NoError(t, err)
	assert.Equal(t, r.MinorModel, rec.Model)
	assert.Equal(t, "routine_analysis", rec.Intent)
}

func TestRoute_TokenEstimateScalesWithBodyLength(t *testing.T) {
	r := NewDefaultRouter()
	short, err := r.Route(context.Background(), models.Article{Body: "one two three"})
	require.NoError(t, err)
	long, err := r.Route(context.Background(), models.Article{Body: wordsOf(500)})
	require.NoError(t, err)
	assert.Greater(t, long.EstimatedTokens, short.EstimatedTokens)
}

func wordsOf(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "word "
	}
	return s
}
