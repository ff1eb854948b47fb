package models

import "time"

// EventLegitimacy is the EL signal: whether a cluster's timing/keywords line
// up with a known scheduled event.
type EventLegitimacy struct {
	Matched    bool
	Confidence float64 // [0,1]
	EventName  string  // set iff Matched
}

// Verdict is the label the Verdict Classifier attaches to a Cluster.
type Verdict string

const (
	VerdictEmbargoEvent       Verdict = "EMBARGO_EVENT"
	VerdictOrganicConsensus   Verdict = "ORGANIC_CONSENSUS"
	VerdictManipulationAttack Verdict = "MANIPULATION_ATTACK"
	VerdictSuspiciousBurst    Verdict = "SUSPICIOUS_BURST"
	VerdictViralTrend         Verdict = "VIRAL_TREND"
	VerdictPending            Verdict = "PENDING"
)

// Cluster is a time-bounded set of Articles sharing a content fingerprint.
// It is the only mutable aggregate in the data model; the Clustering Engine
// is its sole owner and re-scores it on every Article addition.
type Cluster struct {
	Fingerprint string
	Ticker      string
	Theme       string
	Articles    []Article
	FirstSeen   time.Time
	LastSeen    time.Time

	DI float64 // Diversity Integrity, [0,1]
	TN float64 // Temporal Naturalness, [-1,1]
	NI float64 // Narrative Independence, [0,1]
	EL EventLegitimacy

	VerdictLabel     Verdict
	VerdictRationale string
	ConfidenceMult   float64 // [0, 1.5]
	CoolingIntensity float64 // [0,1]
	CoolingUntil     *time.Time
}

// NFPI is the News Fraud Probability Index, 0-100, higher = more likely
// manipulation. It is reporting-only and does not feed back into scoring.
type NFPI float64

// Snapshot returns an immutable copy of the cluster suitable for handing to
// downstream components. Callers must never mutate the returned Articles
// slice's backing array.
func (c *Cluster) Snapshot() Cluster {
	articles := make([]Article, len(c.Articles))
	copy(articles, c.Articles)
	cp := *c
	cp.Articles = articles
	return cp
}
