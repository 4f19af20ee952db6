package scrape

import (
	"strings"

	"recruitscan-engine/internal/config"
	"recruitscan-engine/internal/domain"
)

// ShouldKeepCandidate is the hard inclusion gate. Excluded records are never
// written and never flagged.
func ShouldKeepCandidate(cfg config.Config, c domain.Candidate) (keep bool, reason string) {
	// 1) Graduation-year window. No detectable year is NOT a disqualifier;
	// absence of data proceeds to output carrying its review flag.
	if c.GradYear > 0 &&
		(c.GradYear < cfg.Filters.GradYearMin || c.GradYear > cfg.Filters.GradYearMax) {
		return false, "grad_year"
	}

	// 2) Title exclude list, case-insensitive substring match. Checked before
	// the whitelist: a title matching both is still excluded.
	title := strings.ToLower(c.Title)
	for _, ex := range cfg.Filters.ExcludeTitles {
		ex = strings.ToLower(strings.TrimSpace(ex))
		if ex == "" {
			continue
		}
		if strings.Contains(title, ex) {
			return false, "title"
		}
	}

	// 3) Optional title whitelist. An empty list disables it; when set, the
	// title must contain at least one of the phrases.
	if len(cfg.Filters.IncludeTitles) > 0 {
		matched := false
		for _, inc := range cfg.Filters.IncludeTitles {
			inc = strings.ToLower(strings.TrimSpace(inc))
			if inc == "" {
				continue
			}
			if strings.Contains(title, inc) {
				matched = true
				break
			}
		}
		if !matched {
			return false, "title_include"
		}
	}

	return true, ""
}

// TitleFlags collects non-exclusionary warning flags for a title. A record
// can carry several; they compose with the education flag, never replace it.
func TitleFlags(cfg config.Config, title string) []string {
	low := strings.ToLower(title)

	var flags []string
	for _, r := range cfg.Filters.WarnRules {
		for _, phrase := range r.Any {
			p := strings.ToLower(strings.TrimSpace(phrase))
			if p == "" {
				continue
			}
			if strings.Contains(low, p) {
				flags = append(flags, r.Flag)
				break
			}
		}
	}
	return uniq(flags)
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
