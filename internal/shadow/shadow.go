// Package shadow tracks hypothetical positions standing in for rejected or
// HOLD-ed proposals, quantifying how much loss the rejection avoided.
package shadow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketintel/internal/models"
)

const defaultMaxConcurrent = 5

// PriceFetcher fetches the current spot price for a ticker. It is the only
// outbound I/O the tracker performs.
type PriceFetcher func(ctx context.Context, ticker string) (float64, error)

// entry pairs a ShadowTrade with its own mutex so update_all can fan out
// across shadows while each remains single-writer.
type entry struct {
	mu sync.Mutex
	t  models.ShadowTrade
}

// Tracker owns the live set of shadow trades.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]*entry
	fetch   PriceFetcher
	maxConc int
}

// NewTracker builds a Tracker backed by the given price fetcher.
func NewTracker(fetch PriceFetcher) *Tracker {
	return &Tracker{
		entries: make(map[string]*entry),
		fetch:   fetch,
		maxConc: defaultMaxConcurrent,
	}
}

// Create records a new ShadowTrade in TRACKING state at the proposal's
// target price.
func (tr *Tracker) Create(p models.Proposal, rejectionReason string, violatedArticles []string, trackingDays int) models.ShadowTrade {
	st := models.ShadowTrade{
		ID:               uuid.NewString(),
		ProposalID:       p.ID,
		Ticker:           p.Ticker,
		Action:           p.Action,
		EntryPrice:       p.TargetPrice,
		EntryDate:        time.Now().UTC(),
		Shares:           p.Shares,
		RejectionReason:  rejectionReason,
		ViolatedArticles: violatedArticles,
		TrackingDays:     trackingDays,
		Status:           models.ShadowTracking,
	}
	tr.mu.Lock()
	tr.entries[st.ID] = &entry{t: st}
	tr.mu.Unlock()
	return st
}

// Update recomputes virtual P&L for one shadow trade against a current
// price, without closing it.
func Update(st models.ShadowTrade, currentPrice float64) models.ShadowTrade {
	switch st.Action {
	case models.ActionBuy:
		st.VirtualPnLPct = (currentPrice - st.EntryPrice) / st.EntryPrice
		st.VirtualPnL = (currentPrice - st.EntryPrice) * st.Shares
	case models.ActionSell:
		st.VirtualPnLPct = (st.EntryPrice - currentPrice) / st.EntryPrice
		st.VirtualPnL = (st.EntryPrice - currentPrice) * st.Shares
	default:
		st.VirtualPnLPct = 0
		st.VirtualPnL = 0
	}
	return st
}

// Close performs one final update and stamps the shadow trade CLOSED.
func Close(st models.ShadowTrade, finalPrice float64) models.ShadowTrade {
	st = Update(st, finalPrice)
	st.Status = models.ShadowClosed
	now := time.Now().UTC()
	st.ClosedAt = &now
	return st
}

// Get returns a copy of one tracked shadow trade.
func (tr *Tracker) Get(id string) (models.ShadowTrade, bool) {
	tr.mu.RLock()
	e, ok := tr.entries[id]
	tr.mu.RUnlock()
	if !ok {
		return models.ShadowTrade{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t, true
}

// All returns copies of every tracked shadow trade.
func (tr *Tracker) All() []models.ShadowTrade {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	out := make([]models.ShadowTrade, 0, len(tr.entries))
	for _, e := range tr.entries {
		e.mu.Lock()
		out = append(out, e.t)
		e.mu.Unlock()
	}
	return out
}

// UpdateAll fans out price refreshes across active shadows with a bounded
// worker pool, expiring (closing) any shadow whose tracking window elapsed.
func (tr *Tracker) UpdateAll(ctx context.Context) error {
	tr.mu.RLock()
	entries := make([]*entry, 0, len(tr.entries))
	for _, e := range tr.entries {
		entries = append(entries, e)
	}
	tr.mu.RUnlock()

	sem := make(chan struct{}, tr.maxConc)
	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	for _, e := range entries {
		e := e
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			e.mu.Lock()
			st := e.t
			e.mu.Unlock()

			if st.Status != models.ShadowTracking {
				return
			}
			if time.Since(st.EntryDate) >= time.Duration(st.TrackingDays)*24*time.Hour {
				price, err := tr.fetch(ctx, st.Ticker)
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}
				e.mu.Lock()
				e.t = Close(st, price)
				e.mu.Unlock()
				return
			}

			price, err := tr.fetch(ctx, st.Ticker)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			e.mu.Lock()
			e.t = Update(st, price)
			e.mu.Unlock()
		}()
	}
	wg.Wait()
	return firstErr
}

// DefensiveWins returns shadow trades within window_days whose P&L sign
// proves the rejection avoided a loss.
func (tr *Tracker) DefensiveWins(windowDays int) []models.ShadowTrade {
	cutoff := time.Now().AddDate(0, 0, -windowDays)
	var wins []models.ShadowTrade
	for _, st := range tr.All() {
		if st.EntryDate.Before(cutoff) {
			continue
		}
		if isDefensiveWin(st) {
			wins = append(wins, st)
		}
	}
	return wins
}

func isDefensiveWin(st models.ShadowTrade) bool {
	switch st.Action {
	case models.ActionBuy:
		return st.VirtualPnL < 0 // price fell after a rejected BUY
	case models.ActionSell:
		return st.VirtualPnL < 0 // price rose after a rejected SELL (short-tracked)
	default:
		return false
	}
}

// ShieldReport summarizes defensive value over a window, built from the
// tracker's in-memory shadow trades.
func (tr *Tracker) ShieldReport(windowDays int) models.ShieldReport {
	return BuildShieldReport(tr.All(), windowDays)
}

// BuildShieldReport summarizes defensive value over a window from an
// arbitrary slice of shadow trades (in-memory or loaded from a repository),
// so a one-shot report can be built without a live Tracker.
func BuildShieldReport(trades []models.ShadowTrade, windowDays int) models.ShieldReport {
	cutoff := time.Now().AddDate(0, 0, -windowDays)
	var rejected int
	var totalAvoided float64
	wins := 0
	var candidates []models.ShadowTrade

	for _, st := range trades {
		if st.EntryDate.Before(cutoff) {
			continue
		}
		rejected++
		if isDefensiveWin(st) {
			wins++
			totalAvoided += -st.VirtualPnL
			candidates = append(candidates, st)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].VirtualPnL < candidates[j].VirtualPnL
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	rate := 0.0
	if rejected > 0 {
		rate = float64(wins) / float64(rejected)
	}

	return models.ShieldReport{
		PeriodDays:       windowDays,
		Rejected:         rejected,
		DefensiveWins:    wins,
		DefensiveWinRate: rate,
		TotalAvoidedLoss: totalAvoided,
		Highlights:       candidates,
	}
}
