// Package router provides a deterministic SemanticRouter: given an
// Article it recommends which Completer provider/model should analyze it
// and a rough token estimate, without any I/O.
package router

import (
	"context"
	"strings"

	"marketintel/internal/models"
	"marketintel/internal/pipeline"
)

// DefaultRouter routes major-tier sources to a stronger model and
// everything else to a cheaper one, estimating tokens from body length.
type DefaultRouter struct {
	MajorModel string
	MinorModel string
	Provider   string
}

// NewDefaultRouter builds a DefaultRouter with sensible provider/model
// defaults.
func NewDefaultRouter() *DefaultRouter {
	return &DefaultRouter{
		MajorModel: "gpt-4o",
		MinorModel: "gpt-4o-mini",
		Provider:   "openai",
	}
}

// Route is a pure function of the article's tier and body length.
func (r *DefaultRouter) Route(_ context.Context, a models.Article) (pipeline.RoutingRecommendation, error) {
	model := r.MinorModel
	intent := "routine_analysis"
	if a.Tier == models.TierMajor {
		model = r.MajorModel
		intent = "high_credibility_analysis"
	}

	words := len(strings.Fields(a.Body))
	estimatedTokens := words*4/3 + 200 // rough token-per-word ratio plus prompt overhead

	return pipeline.RoutingRecommendation{
		Intent:          intent,
		Provider:        r.Provider,
		Model:           model,
		EstimatedTokens: estimatedTokens,
	}, nil
}
