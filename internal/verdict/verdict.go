// Package verdict classifies a cluster's four signals into a manipulation
// verdict and computes the reporting-only News Fraud Probability Index.
package verdict

import (
	"fmt"
	"time"

	"marketintel/internal/models"
)

// Result is the outcome of classifying a cluster's signals.
type Result struct {
	Verdict          models.Verdict
	Rationale        string
	ConfidenceMult   float64
	CoolingIntensity float64
	CoolingUntil     *time.Time
}

// Classify evaluates the decision tree in fixed order; the first matching
// rule wins.
func Classify(di, tn, ni float64, el models.EventLegitimacy, now time.Time) Result {
	switch {
	case el.Matched && el.Confidence > 0.7:
		return Result{
			Verdict:        models.VerdictEmbargoEvent,
			Rationale:      fmt.Sprintf("matches scheduled event %q at confidence %.2f", el.EventName, el.Confidence),
			ConfidenceMult: 1.5,
		}
	case di < 0.4 && ni < 0.4 && tn < -0.5:
		until := now.Add(24 * time.Hour)
		return Result{
			Verdict:          models.VerdictManipulationAttack,
			Rationale:        "low diversity, low independence, and suspicious timing together indicate coordinated manipulation",
			ConfidenceMult:   0.0,
			CoolingIntensity: 1.0,
			CoolingUntil:     &until,
		}
	case tn < -0.6 || (di < 0.5 && ni < 0.5):
		until := now.Add(30 * time.Minute)
		return Result{
			Verdict:          models.VerdictSuspiciousBurst,
			Rationale:        "timing or source/content diversity below the burst threshold",
			ConfidenceMult:   0.3,
			CoolingIntensity: 0.7,
			CoolingUntil:     &until,
		}
	case di > 0.7 && ni > 0.6:
		return Result{
			Verdict:        models.VerdictOrganicConsensus,
			Rationale:      "broad, credible, and independent source agreement",
			ConfidenceMult: 1.2,
		}
	default:
		return Result{
			Verdict:        models.VerdictViralTrend,
			Rationale:      "spreading coverage without a clear manipulation or consensus signature",
			ConfidenceMult: 1.0,
		}
	}
}

// NFPI computes the News Fraud Probability Index, 0-100, for reporting.
func NFPI(di, tn, ni float64, el models.EventLegitimacy) models.NFPI {
	negTN := -tn
	if negTN < 0 {
		negTN = 0
	}
	eventTerm := 1.0
	if el.Matched {
		eventTerm = 0.0
	}
	score := 100 * (0.3*(1-di) + 0.3*(1-ni) + 0.2*negTN + 0.2*eventTerm)
	return models.NFPI(score)
}
