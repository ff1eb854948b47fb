// Package signal4 computes the four cluster-level signals (DI, TN, NI, EL)
// the Verdict Classifier consumes. All functions are pure over a Cluster's
// current article list.
package signal4

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"marketintel/internal/models"
)

// DI computes Diversity Integrity over a cluster's articles.
func DI(articles []models.Article) float64 {
	if len(articles) == 0 {
		return 0
	}
	seen := make(map[string]bool)
	var weightSum float64
	hasMajor := false
	for _, a := range articles {
		w := models.TierWeight(a.Tier)
		if a.Tier == models.TierMajor {
			hasMajor = true
		}
		if seen[a.Source] {
			w *= 0.5
		} else {
			seen[a.Source] = true
		}
		weightSum += w
	}
	base := weightSum / float64(len(articles))
	if base > 1 {
		base = 1
	}
	di := base
	if hasMajor {
		di += 0.2
	}
	di += min(0.2, float64(len(seen))/10.0)
	return clamp01(di)
}

// TN computes Temporal Naturalness over a cluster's articles, sorted by
// published time.
func TN(articles []models.Article) float64 {
	if len(articles) < 2 {
		return 0
	}
	times := sortedTimes(articles)
	first := times[0]
	last := times[len(times)-1]
	delta := last.Sub(first)

	switch {
	case delta < 60*time.Second:
		if first.Second() == 0 && first.Minute()%30 == 0 {
			return 0.8
		}
		return -0.8
	case delta < 600*time.Second:
		gaps := make([]float64, 0, len(times)-1)
		for i := 1; i < len(times); i++ {
			gaps = append(gaps, times[i].Sub(times[i-1]).Seconds())
		}
		v := stat.Variance(gaps, nil)
		if v < 10 {
			return -0.5
		}
		return 0.3
	default:
		return 0.5
	}
}

// NI computes Narrative Independence over pairwise Jaccard similarity of
// article text.
func NI(articles []models.Article) float64 {
	n := len(articles)
	if n < 2 {
		return 1.0
	}
	sets := make([]map[string]bool, n)
	for i, a := range articles {
		sets[i] = tokenSet(a.Title + " " + a.Body)
	}
	var sum float64
	var pairs int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += jaccard(sets[i], sets[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 1.0
	}
	avg := sum / float64(pairs)
	ni := 1 - avg
	if avg > 0.9 {
		ni *= 0.3
	}
	return clamp01(ni)
}

var earningsKeywords = []string{"earnings", "quarterly results", "eps", "revenue guidance"}
var centralBankKeywords = []string{"rate decision", "federal reserve", "central bank", "interest rate"}
var economicDataKeywords = []string{"cpi", "inflation", "jobs report", "payrolls", "unemployment"}

// EL computes Event Legitimacy from a cluster's theme and first-seen time.
func EL(theme string, firstSeen time.Time) models.EventLegitimacy {
	lower := strings.ToLower(theme)
	clean := firstSeen.Second() == 0 && firstSeen.Minute()%30 == 0

	matchFamily := func(keywords []string, name string) (bool, string) {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true, name
			}
		}
		return false, ""
	}

	families := []struct {
		keywords   []string
		name       string
		confidence float64
	}{
		{centralBankKeywords, "Central Bank Decision", 0.95},
		{earningsKeywords, "Earnings Release", 0.90},
		{economicDataKeywords, "Economic Data Release", 0.85},
	}

	for _, f := range families {
		matched, name := matchFamily(f.keywords, f.name)
		if !matched {
			continue
		}
		if clean {
			return models.EventLegitimacy{Matched: true, Confidence: f.confidence, EventName: name}
		}
		if name == "Earnings Release" && inPrePostMarketHours(firstSeen) {
			return models.EventLegitimacy{Matched: true, Confidence: 0.75, EventName: name}
		}
	}
	return models.EventLegitimacy{}
}

func inPrePostMarketHours(t time.Time) bool {
	h := t.Hour()
	return (h >= 4 && h < 9) || (h >= 16 && h < 20)
}

func sortedTimes(articles []models.Article) []time.Time {
	times := make([]time.Time, len(articles))
	for i, a := range articles {
		times[i] = a.PublishedAt
	}
	for i := 1; i < len(times); i++ {
		for j := i; j > 0 && times[j].Before(times[j-1]); j-- {
			times[j], times[j-1] = times[j-1], times[j]
		}
	}
	return times
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[tok] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
