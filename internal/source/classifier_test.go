package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketintel/internal/models"
)

func TestClassify_MajorExact(t *testing.T) {
	info := Classify("Reuters", "")
	assert.Equal(t, models.TierMajor, info.Tier)
}

func TestClassify_MajorSubstring(t *testing.T) {
	info := Classify("Reuters Asia Desk", "")
	assert.Equal(t, models.TierMajor, info.Tier)
}

func TestClassify_SocialToken(t *testing.T) {
	info := Classify("SomeTwitter User", "")
	assert.Equal(t, models.TierSocial, info.Tier)
}

func TestClassify_GovTLD(t *testing.T) {
	info := Classify("Unknown Outlet", "https://www.sec.gov/news/press")
	assert.Equal(t, models.TierMajor, info.Tier)
	assert.InDelta(t, 0.9, info.Credibility, 0.001)
}

func TestClassify_SocialHost(t *testing.T) {
	info := Classify("Unknown Outlet", "https://twitter.com/someuser/status/1")
	assert.Equal(t, models.TierSocial, info.Tier)
}

func TestClassify_BlogHeuristic(t *testing.T) {
	info := Classify("Random Blog", "")
	assert.Equal(t, models.TierSocial, info.Tier)
}

func TestClassify_MinorHeuristic(t *testing.T) {
	info := Classify("Springfield Daily", "")
	assert.Equal(t, models.TierMinor, info.Tier)
}

func TestClassify_UnknownShort(t *testing.T) {
	info := Classify("abcd", "")
	assert.Equal(t, models.TierUnknown, info.Tier)
}

func TestTierWeight(t *testing.T) {
	assert.Equal(t, 2.0, models.TierWeight(models.TierMajor))
	assert.Equal(t, 0.5, models.TierWeight(models.TierMinor))
	assert.Equal(t, 0.1, models.TierWeight(models.TierSocial))
	assert.Equal(t, 0.3, models.TierWeight(models.TierUnknown))
}
