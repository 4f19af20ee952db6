package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recruitscan-engine/internal/config"
	"recruitscan-engine/internal/domain"
)

func filterConfig() config.Config {
	var cfg config.Config
	cfg.Filters.GradYearMin = 2010
	cfg.Filters.GradYearMax = 2024
	cfg.Filters.ExcludeTitles = []string{
		"Director", "VP", "Vice President", "Developer Advocate",
		"Operations", "Merchandising", "Professional Services",
	}
	cfg.Filters.WarnRules = []config.WarnRule{
		{Flag: "title: 'head of' — review", Any: []string{"Head of"}},
	}
	return cfg
}

func TestShouldKeepCandidate(t *testing.T) {
	cfg := filterConfig()

	tests := []struct {
		name       string
		cand       domain.Candidate
		keep       bool
		wantReason string
	}{
		{
			name: "clean engineer kept",
			cand: domain.Candidate{Title: "Software Engineer", GradYear: 2016},
			keep: true,
		},
		{
			name:       "director excluded",
			cand:       domain.Candidate{Title: "Director of Engineering", GradYear: 2016},
			wantReason: "title",
		},
		{
			name:       "title match is case insensitive",
			cand:       domain.Candidate{Title: "senior director, platform", GradYear: 2015},
			wantReason: "title",
		},
		{
			name:       "substring match",
			cand:       domain.Candidate{Title: "SVP of Sales"},
			wantReason: "title",
		},
		{
			name:       "year below window excluded",
			cand:       domain.Candidate{Title: "Engineer", GradYear: 2009},
			wantReason: "grad_year",
		},
		{
			name:       "year above window excluded",
			cand:       domain.Candidate{Title: "Engineer", GradYear: 2025},
			wantReason: "grad_year",
		},
		{
			name: "window bounds are inclusive",
			cand: domain.Candidate{Title: "Engineer", GradYear: 2010},
			keep: true,
		},
		{
			name: "upper bound inclusive",
			cand: domain.Candidate{Title: "Engineer", GradYear: 2024},
			keep: true,
		},
		{
			// No detectable year is not a disqualifier.
			name: "missing year kept",
			cand: domain.Candidate{Title: "Engineer", Review: domain.FlagNoEduYear},
			keep: true,
		},
		{
			name: "head of is not an exclusion",
			cand: domain.Candidate{Title: "Head of Engineering", GradYear: 2015},
			keep: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, reason := ShouldKeepCandidate(cfg, tt.cand)
			assert.Equal(t, tt.keep, keep)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestShouldKeepCandidateTitleWhitelist(t *testing.T) {
	cfg := filterConfig()
	cfg.Filters.IncludeTitles = []string{"Engineer", "Recruiter"}

	tests := []struct {
		name       string
		cand       domain.Candidate
		keep       bool
		wantReason string
	}{
		{
			name: "whitelisted phrase kept",
			cand: domain.Candidate{Title: "Software Engineer", GradYear: 2016},
			keep: true,
		},
		{
			name: "whitelist match is case insensitive",
			cand: domain.Candidate{Title: "technical recruiter", GradYear: 2016},
			keep: true,
		},
		{
			name:       "no whitelisted phrase excluded",
			cand:       domain.Candidate{Title: "Product Manager", GradYear: 2016},
			wantReason: "title_include",
		},
		{
			// The exclude list wins when a title matches both lists.
			name:       "exclude list overrides whitelist",
			cand:       domain.Candidate{Title: "Director of Engineering", GradYear: 2016},
			wantReason: "title",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, reason := ShouldKeepCandidate(cfg, tt.cand)
			assert.Equal(t, tt.keep, keep)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestShouldKeepCandidateEmptyWhitelistDisablesIt(t *testing.T) {
	cfg := filterConfig()
	cfg.Filters.IncludeTitles = nil

	keep, reason := ShouldKeepCandidate(cfg, domain.Candidate{Title: "Product Manager", GradYear: 2016})
	assert.True(t, keep)
	assert.Empty(t, reason)
}

func TestTitleFlags(t *testing.T) {
	cfg := filterConfig()

	assert.Empty(t, TitleFlags(cfg, "Software Engineer"))
	assert.Equal(t, []string{"title: 'head of' — review"}, TitleFlags(cfg, "Head of Engineering"))
	assert.Equal(t, []string{"title: 'head of' — review"}, TitleFlags(cfg, "head of platform"))
}

func TestTitleFlagsComposeWithEducationFlag(t *testing.T) {
	cfg := filterConfig()

	c := domain.Candidate{Title: "Head of Data", Review: domain.FlagNoBachelors}
	for _, f := range TitleFlags(cfg, c.Title) {
		c.AppendReview(f)
	}
	assert.Equal(t, "No bachelor's - review; title: 'head of' — review", c.Review)
}
