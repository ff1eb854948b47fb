package constitution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func TestVerifyIntegrity_PassesOnUnmodifiedRules(t *testing.T) {
	err := VerifyIntegrity()
	assert.NoError(t, err)
}

func TestLoad_ParsesThreeBlocks(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "RISK-1", c.Risk.BlockID)
	assert.Equal(t, "ALLOC-2", c.Allocation.BlockID)
	assert.Equal(t, "TRADE-3", c.Trading.BlockID)
	assert.Equal(t, 5.0, c.Risk.MaxDailyLossPct)
}

func baseProposal() models.Proposal {
	return models.Proposal{
		PositionValue: 5000,
		OrderValue:    5000,
		MarketRegime:  models.RegimeNeutral,
		IsApproved:    true,
	}
}

func baseContext() models.MarketContext {
	return models.MarketContext{
		TotalCapital:      200000,
		CurrentAllocation: models.Allocation{Stock: 0.5, Cash: 0.5},
		DailyVolumeUSD:    5000000,
		MarketRegime:      models.RegimeNeutral,
	}
}

func TestValidateProposal_PassesWithinAllBounds(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	result := c.ValidateProposal(baseProposal(), baseContext(), false)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestValidateProposal_RejectsOversizedPosition(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p := baseProposal()
	p.PositionValue = 50000 // 25% of 200000 capital, over the 20% cap
	result := c.ValidateProposal(p, baseContext(), false)
	assert.False(t, result.Valid)
	assert.Contains(t, result.CitedArticles, "RISK-1")
}

func TestValidateProposal_RejectsWithoutHumanApproval(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p := baseProposal()
	p.IsApproved = false
	result := c.ValidateProposal(p, baseContext(), false)
	assert.False(t, result.Valid)
	assert.Contains(t, result.CitedArticles, "TRADE-3")
}

func TestValidateProposal_RejectsOutOfRegimeAllocation(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ctx := baseContext()
	ctx.CurrentAllocation = models.Allocation{Stock: 0.95, Cash: 0.05}
	result := c.ValidateProposal(baseProposal(), ctx, false)
	assert.False(t, result.Valid)
	assert.Contains(t, result.CitedArticles, "ALLOC-2")
}

func TestValidateProposal_SkipAllocationBypassesRegimeCheck(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ctx := baseContext()
	ctx.CurrentAllocation = models.Allocation{Stock: 0.95, Cash: 0.05}
	result := c.ValidateProposal(baseProposal(), ctx, true)
	for _, v := range result.Violations {
		assert.NotEqual(t, "ALLOC-2", v.BlockID)
	}
}

func TestValidateProposal_RejectsThinLiquidity(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ctx := baseContext()
	ctx.DailyVolumeUSD = 100
	result := c.ValidateProposal(baseProposal(), ctx, false)
	assert.False(t, result.Valid)
}

func TestCircuitBreakerTriggered_OnHighVIX(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.True(t, c.CircuitBreakerTriggered(0, 0, 26))
	assert.False(t, c.CircuitBreakerTriggered(0, 0, 10))
}
