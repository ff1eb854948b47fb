// Package cluster groups incoming articles sharing a content fingerprint
// into rolling-window clusters and keeps their signal scores current.
package cluster

import (
	"math"
	"sync"
	"time"

	"marketintel/internal/models"
	"marketintel/internal/signal4"
	"marketintel/internal/verdict"
)

const (
	defaultWindow  = 60 * time.Minute
	defaultMinSize = 2
	defaultMaxAge  = 48 * time.Hour
)

// Engine owns the live cluster map. All access is guarded by a single
// lock; callers receive immutable snapshots.
type Engine struct {
	mu       sync.Mutex
	clusters map[string]*models.Cluster
	window   time.Duration
	minSize  int
	maxAge   time.Duration
}

// NewEngine builds an Engine with the given window, min-size, and eviction
// age. Zero values fall back to spec defaults.
func NewEngine(window time.Duration, minSize int, maxAge time.Duration) *Engine {
	if window <= 0 {
		window = defaultWindow
	}
	if minSize <= 0 {
		minSize = defaultMinSize
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &Engine{
		clusters: make(map[string]*models.Cluster),
		window:   window,
		minSize:  minSize,
		maxAge:   maxAge,
	}
}

// Ingest appends an article to the cluster matching its fingerprint,
// opening a new cluster if none exists within the time window of the
// article's own timestamp. now is wall-clock processing time, used only
// for rescore's cooling-window/verdict computation, never for the join
// decision — a polling pipeline routinely processes articles hours after
// publication, and the join check must stay anchored to when the articles
// themselves happened.
func (e *Engine) Ingest(a models.Article, now time.Time) (models.Cluster, bool) {
	fp := Fingerprint(a.Ticker, a.Title, a.Body)

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.clusters[fp]
	if !ok || math.Abs(float64(a.PublishedAt.Sub(c.LastSeen))) > float64(e.window) {
		c = &models.Cluster{
			Fingerprint: fp,
			Ticker:      a.Ticker,
			Theme:       a.Title,
			FirstSeen:   a.PublishedAt,
			LastSeen:    a.PublishedAt,
			VerdictLabel: models.VerdictPending,
		}
		e.clusters[fp] = c
	}
	c.Articles = append(c.Articles, a)
	if a.PublishedAt.After(c.LastSeen) {
		c.LastSeen = a.PublishedAt
	}

	if len(c.Articles) < e.minSize {
		return models.Cluster{}, false
	}

	e.rescore(c, now)
	return c.Snapshot(), true
}

// rescore recomputes the four signals, verdict, and cooling window for a
// cluster. Callers must hold the engine lock.
func (e *Engine) rescore(c *models.Cluster, now time.Time) {
	c.DI = signal4.DI(c.Articles)
	c.TN = signal4.TN(c.Articles)
	c.NI = signal4.NI(c.Articles)
	c.EL = signal4.EL(c.Theme, c.FirstSeen)

	r := verdict.Classify(c.DI, c.TN, c.NI, c.EL, now)
	c.VerdictLabel = r.Verdict
	c.VerdictRationale = r.Rationale
	c.ConfidenceMult = r.ConfidenceMult
	c.CoolingIntensity = r.CoolingIntensity
	c.CoolingUntil = r.CoolingUntil
}

// Lookup returns a snapshot of the cluster for a fingerprint, if present.
func (e *Engine) Lookup(fingerprint string) (models.Cluster, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.clusters[fingerprint]
	if !ok {
		return models.Cluster{}, false
	}
	return c.Snapshot(), true
}

// Evict removes clusters whose last-seen timestamp is older than max-age,
// relative to now. It returns the number of evicted clusters.
func (e *Engine) Evict(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	evicted := 0
	for fp, c := range e.clusters {
		if now.Sub(c.LastSeen) > e.maxAge {
			delete(e.clusters, fp)
			evicted++
		}
	}
	return evicted
}

// Snapshot returns copies of all currently live clusters.
func (e *Engine) Snapshot() []models.Cluster {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Cluster, 0, len(e.clusters))
	for _, c := range e.clusters {
		out = append(out, c.Snapshot())
	}
	return out
}
