package models

import "time"

// SignalAction is the directional recommendation carried by a TradingSignal.
type SignalAction string

const (
	ActionBuy  SignalAction = "BUY"
	ActionSell SignalAction = "SELL"
	ActionHold SignalAction = "HOLD"
)

// ExecutionType is how a signal should be routed to the broker (out of
// scope to implement, but the field is part of the outbound contract).
type ExecutionType string

const (
	ExecutionMarket ExecutionType = "MARKET"
	ExecutionLimit  ExecutionType = "LIMIT"
)

// TradingSignal is produced by the Signal Generator from an Analysis.
type TradingSignal struct {
	Ticker          string
	Action          SignalAction
	PositionSize    float64 // [0,1] fraction of portfolio
	Confidence      float64 // [0,1]
	ExecutionType   ExecutionType
	Reason          string
	Urgency         Urgency
	CreatedAt       time.Time
	SourceArticleID string // optional
	AffectedSectors []string
	AutoExecute     bool
}
