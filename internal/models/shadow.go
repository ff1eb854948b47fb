package models

import "time"

// ShadowStatus tracks a ShadowTrade's lifecycle.
type ShadowStatus string

const (
	ShadowTracking ShadowStatus = "TRACKING"
	ShadowClosed   ShadowStatus = "CLOSED"
	ShadowExpired  ShadowStatus = "EXPIRED"
)

// ShadowTrade represents a hypothetical position standing in for a rejected
// or HOLD-ed Proposal, tracked to quantify defensive value.
type ShadowTrade struct {
	ID               string
	ProposalID       string
	Ticker           string
	Action           SignalAction
	EntryPrice       float64
	EntryDate        time.Time
	ExitPrice        *float64
	Shares           float64
	RejectionReason  string
	ViolatedArticles []string
	TrackingDays     int
	Status           ShadowStatus
	VirtualPnL       float64
	VirtualPnLPct    float64
	ClosedAt         *time.Time
}

// ShieldReport summarizes the defensive value of rejected proposals over a
// window.
type ShieldReport struct {
	PeriodDays        int
	Rejected          int
	DefensiveWins     int
	DefensiveWinRate  float64
	TotalAvoidedLoss  float64
	Highlights        []ShadowTrade
}
