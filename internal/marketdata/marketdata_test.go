package marketdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func TestSpotPrice_ErrorsWhenUnrecorded(t *testing.T) {
	c := New(models.MarketContext{})
	_, err := c.SpotPrice(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestSpotPrice_ReturnsSetValue(t *testing.T) {
	c := New(models.MarketContext{})
	c.SetSpotPrice("AAPL", 150.25)

	price, err := c.SpotPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 150.25, price)
}

func TestMarketContext_ReturnsLatestSnapshot(t *testing.T) {
	c := New(models.MarketContext{VIX: 15, MarketRegime: models.RegimeNeutral})

	ctx, err := c.MarketContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15.0, ctx.VIX)

	c.SetContext(models.MarketContext{VIX: 30, MarketRegime: models.RegimeRiskOff})
	ctx, err = c.MarketContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.0, ctx.VIX)
	assert.Equal(t, models.RegimeRiskOff, ctx.MarketRegime)
}
