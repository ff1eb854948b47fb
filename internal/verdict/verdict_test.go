package verdict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marketintel/internal/models"
)

func TestClassify_EmbargoEvent(t *testing.T) {
	el := models.EventLegitimacy{Matched: true, Confidence: 0.9, EventName: "Earnings"}
	r := Classify(0.9, 0.5, 0.9, el, time.Now())
	assert.Equal(t, models.VerdictEmbargoEvent, r.Verdict)
	assert.Equal(t, 1.5, r.ConfidenceMult)
}

func TestClassify_ManipulationAttack(t *testing.T) {
	r := Classify(0.2, -0.9, 0.2, models.EventLegitimacy{}, time.Now())
	assert.Equal(t, models.VerdictManipulationAttack, r.Verdict)
	assert.Equal(t, 0.0, r.ConfidenceMult)
	assert.NotNil(t, r.CoolingUntil)
}

func TestClassify_SuspiciousBurst(t *testing.T) {
	r := Classify(0.3, 0.1, 0.3, models.EventLegitimacy{}, time.Now())
	assert.Equal(t, models.VerdictSuspiciousBurst, r.Verdict)
}

func TestClassify_OrganicConsensus(t *testing.T) {
	r := Classify(0.8, 0.2, 0.8, models.EventLegitimacy{}, time.Now())
	assert.Equal(t, models.VerdictOrganicConsensus, r.Verdict)
}

func TestClassify_ViralTrendDefault(t *testing.T) {
	r := Classify(0.6, 0.1, 0.55, models.EventLegitimacy{}, time.Now())
	assert.Equal(t, models.VerdictViralTrend, r.Verdict)
}

func TestNFPI_HighOnManipulationSignature(t *testing.T) {
	n := NFPI(0.1, -0.9, 0.1, models.EventLegitimacy{})
	assert.Greater(t, float64(n), 50.0)
}

func TestNFPI_LowOnMatchedEvent(t *testing.T) {
	el := models.EventLegitimacy{Matched: true, Confidence: 0.9}
	n := NFPI(0.9, 0.5, 0.9, el)
	assert.Less(t, float64(n), 20.0)
}
