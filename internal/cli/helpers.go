package cli

import (
	"time"

	"marketintel/internal/models"
)

func durationMinutes(m int) time.Duration { return time.Duration(m) * time.Minute }
func durationHours(h int) time.Duration   { return time.Duration(h) * time.Hour }
func durationSeconds(s int) time.Duration { return time.Duration(s) * time.Second }

// defaultMarketContext seeds the market data client with a neutral regime
// until an operator supplies real figures via a future config/update command.
func defaultMarketContext() models.MarketContext {
	return models.MarketContext{
		MarketRegime: models.RegimeNeutral,
		VIX:          15.0,
	}
}
