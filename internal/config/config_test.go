package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesTemplatesOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	require.Error(t, err) // first call seeds templates and reports where

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "credentials.toml"))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Pipeline.MaxPerCycle)
	assert.Equal(t, 0.05, cfg.Signal.BasePositionSize)
	assert.Equal(t, 20, cfg.Validator.DailyTradeLimit)
	assert.Equal(t, 7, cfg.Shadow.TrackingDays)
}

func TestValidate_RejectsOutOfRangeConfidence(t *testing.T) {
	cfg := &Config{
		Signal: SignalConfig{MinConfidence: 1.5, BasePositionSize: 0.05, MaxPositionSize: 0.1},
		Cluster: ClusterConfig{MinSize: 2},
		Shadow:  ShadowConfig{TrackingDays: 7},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsMaxPositionBelowBase(t *testing.T) {
	cfg := &Config{
		Signal:  SignalConfig{MinConfidence: 0.5, BasePositionSize: 0.1, MaxPositionSize: 0.05},
		Cluster: ClusterConfig{MinSize: 2},
		Shadow:  ShadowConfig{TrackingDays: 7},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg := &Config{
		Signal:    SignalConfig{MinConfidence: 0.6, BasePositionSize: 0.05, MaxPositionSize: 0.10},
		Validator: ValidatorConfig{DailyLossLimitPct: 5.0},
		Cluster:   ClusterConfig{MinSize: 2},
		Shadow:    ShadowConfig{TrackingDays: 7},
	}
	assert.NoError(t, cfg.Validate())
}
