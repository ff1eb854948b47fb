// Package marketdata provides a MarketDataClient implementation that serves
// operator-configured static figures rather than a live broker feed — the
// collaborator contract's wire format is unspecified by design, so the
// pipeline can run against any source that satisfies it.
package marketdata

import (
	"context"
	"fmt"
	"sync"

	"marketintel/internal/models"
)

// StaticClient answers SpotPrice/MarketContext queries from an
// operator-maintained snapshot, refreshed out of band (e.g. by a CLI
// command or a cron job) via SetSpotPrice/SetContext.
type StaticClient struct {
	mu     sync.RWMutex
	prices map[string]float64
	ctx    models.MarketContext
}

// New builds a StaticClient seeded with the given MarketContext and an
// empty price table.
func New(ctx models.MarketContext) *StaticClient {
	return &StaticClient{
		prices: make(map[string]float64),
		ctx:    ctx,
	}
}

// SetSpotPrice records the last known price for a ticker.
func (c *StaticClient) SetSpotPrice(ticker string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[ticker] = price
}

// SetContext replaces the served MarketContext wholesale.
func (c *StaticClient) SetContext(ctx models.MarketContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
}

// SpotPrice returns the last price recorded for ticker.
func (c *StaticClient) SpotPrice(_ context.Context, ticker string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	price, ok := c.prices[ticker]
	if !ok {
		return 0, fmt.Errorf("no spot price recorded for %s", ticker)
	}
	return price, nil
}

// MarketContext returns the currently held snapshot.
func (c *StaticClient) MarketContext(_ context.Context) (models.MarketContext, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ctx, nil
}
