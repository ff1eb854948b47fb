package store

import (
	"context"

	"marketintel/internal/models"
)

// ArticleRepo exposes SQLiteStore's article-facing methods as
// pipeline.ArticleRepository.
type ArticleRepo struct{ *SQLiteStore }

// ProposalRepo exposes SQLiteStore's proposal-facing methods as
// pipeline.ProposalRepository.
type ProposalRepo struct{ *SQLiteStore }

// ShadowRepo adapts SQLiteStore's Save/Update/FindActive-shaped shadow
// methods to pipeline.ShadowRepository, whose method names collide with
// ProposalRepo's if implemented directly on SQLiteStore.
type ShadowRepo struct{ *SQLiteStore }

// Save persists a new ShadowTrade.
func (r ShadowRepo) Save(ctx context.Context, s models.ShadowTrade) error {
	return r.SQLiteStore.SaveShadow(ctx, s)
}

// Update persists a ShadowTrade's mutated fields.
func (r ShadowRepo) Update(ctx context.Context, s models.ShadowTrade) error {
	return r.SQLiteStore.UpdateShadow(ctx, s)
}

// FindActive returns every ShadowTrade still in TRACKING state.
func (r ShadowRepo) FindActive(ctx context.Context) ([]models.ShadowTrade, error) {
	return r.SQLiteStore.FindActiveShadows(ctx)
}
