// Package source classifies news-source names and URLs into a credibility
// tier used by the Four-Signal Calculator's diversity score.
package source

import (
	"strconv"
	"strings"

	"marketintel/internal/models"
)

// majorTable is the curated set of high-credibility outlets. Keys are
// lowercase canonical names; lookups also match substrings in either
// direction so "Reuters Asia" and "reuters" both resolve.
var majorTable = map[string]float64{
	"reuters":          0.97,
	"bloomberg":        0.96,
	"associated press": 0.96,
	"ap":               0.9,
	"wall street journal": 0.95,
	"financial times":  0.95,
	"cnbc":             0.9,
	"the new york times": 0.94,
	"bbc":              0.93,
	"nikkei":           0.9,
	"yonhap":           0.88,
	"sec.gov":          0.95,
	"federal reserve":  0.95,
}

// socialTokens flag self-published / low-editorial-oversight platforms.
var socialTokens = []string{
	"twitter", "x.com", "reddit", "telegram", "discord", "facebook",
	"instagram", "tiktok", "substack", "medium.com",
}

var govTLDs = []string{".gov", ".edu", ".mil", ".go.kr", ".ac.kr"}

var socialHosts = []string{
	"twitter.com", "x.com", "reddit.com", "t.me", "facebook.com",
	"instagram.com", "tiktok.com",
}

// Classify maps a source name and optional URL to a SourceInfo. It is pure
// and safe for concurrent use.
func Classify(name, url string) models.SourceInfo {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	lowerURL := strings.ToLower(strings.TrimSpace(url))

	if cred, ok := majorTable[lowerName]; ok {
		return models.SourceInfo{Tier: models.TierMajor, Credibility: cred}
	}
	for major, cred := range majorTable {
		if strings.Contains(lowerName, major) || strings.Contains(major, lowerName) {
			return models.SourceInfo{Tier: models.TierMajor, Credibility: cred}
		}
	}
	for _, token := range socialTokens {
		if strings.Contains(lowerName, token) {
			return models.SourceInfo{Tier: models.TierSocial, Credibility: 0.3}
		}
	}
	if lowerURL != "" {
		for _, tld := range govTLDs {
			if strings.HasSuffix(hostOf(lowerURL), tld) {
				return models.SourceInfo{Tier: models.TierMajor, Credibility: 0.9}
			}
		}
		host := hostOf(lowerURL)
		for _, sh := range socialHosts {
			if strings.Contains(host, sh) {
				return models.SourceInfo{Tier: models.TierSocial, Credibility: 0.3}
			}
		}
	}
	if strings.Contains(lowerName, "blog") || strings.Contains(lowerName, "opinion") {
		return models.SourceInfo{Tier: models.TierSocial, Credibility: 0.25}
	}
	if strings.Contains(lowerName, "times") || strings.Contains(lowerName, "post") || strings.Contains(lowerName, "daily") {
		return models.SourceInfo{Tier: models.TierMinor, Credibility: 0.6}
	}
	if hasDigit(lowerName) || len(lowerName) < 5 {
		return models.SourceInfo{Tier: models.TierUnknown, Credibility: 0.3}
	}
	return models.SourceInfo{Tier: models.TierUnknown, Credibility: 0.3}
}

func hostOf(url string) string {
	s := strings.TrimPrefix(url, "https://")
	s = strings.TrimPrefix(s, "http://")
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	return s
}

func hasDigit(s string) bool {
	for _, r := range s {
		if _, err := strconv.Atoi(string(r)); err == nil {
			return true
		}
	}
	return false
}
