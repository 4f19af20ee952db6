package extract

import (
	"regexp"
	"time"

	"recruitscan-engine/internal/domain"
)

// Degree keywords are matched with explicit non-letter boundaries instead of
// \b: abbreviations like "B.S." end in a dot, which \b refuses to anchor on.
var (
	bachelorRe  = regexp.MustCompile(`(?i)(?:^|[^a-z])(bachelors?|bachelor's|b\.s\.?c?\.?|bsc?|b\.a\.?|ba|b\.?eng|b\.?tech|bba)(?:[^a-z]|$)`)
	masterRe    = regexp.MustCompile(`(?i)(?:^|[^a-z])(masters?|master's|m\.s\.?c?\.?|msc?|m\.a\.?|ma|mba|m\.b\.a\.?|m\.?eng|m\.?tech|mpa|mph)(?:[^a-z]|$)`)
	// bare "md" is left out on purpose: it collides with the state abbreviation
	doctorateRe = regexp.MustCompile(`(?i)(?:^|[^a-z])(ph\.?\s?d\.?|doctorate|doctoral|doctor of|d\.?phil|m\.d\.|j\.d\.?|jd|ed\.?d)(?:[^a-z]|$)`)
	otherRe     = regexp.MustCompile(`(?i)(?:^|[^a-z])(associates?|associate's|diploma|certificate|certification|high school|ged)(?:[^a-z]|$)`)

	yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// "2012 - 2016": the end of the range is the graduation candidate.
	yearRangeRe = regexp.MustCompile(`\b((?:19|20)\d{2})\s*[-–—]\s*((?:19|20)\d{2})\b`)
)

// classifyDegree maps one education block to a degree level. When several
// keywords appear, the earliest occurrence in the text wins. kwStart/kwEnd
// are the matched keyword's span, or -1 when nothing matched.
func classifyDegree(text string) (level domain.DegreeLevel, kwStart, kwEnd int) {
	type hit struct {
		level      domain.DegreeLevel
		start, end int
	}
	var best *hit

	for _, c := range []struct {
		re    *regexp.Regexp
		level domain.DegreeLevel
	}{
		{bachelorRe, domain.DegreeBachelor},
		{masterRe, domain.DegreeMaster},
		{doctorateRe, domain.DegreeDoctorate},
		{otherRe, domain.DegreeOther},
	} {
		loc := c.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		h := hit{level: c.level, start: loc[2], end: loc[3]}
		if best == nil || h.start < best.start {
			best = &h
		}
	}

	if best == nil {
		return domain.DegreeUnknown, -1, -1
	}
	return best.level, best.start, best.end
}

// extractYear picks the graduation year out of a block that may contain
// several 4-digit numbers (institution founding years, range starts). The
// year nearest the degree keyword wins; the end year of a range beats its
// start; with no keyword, the last plausible year in the block is taken.
func extractYear(text string, kwStart, kwEnd int) int {
	type candidate struct {
		year int
		pos  int
	}

	rangeEnds := map[int]bool{} // index of a range's end year
	rangeStarts := map[int]bool{}
	for _, m := range yearRangeRe.FindAllStringSubmatchIndex(text, -1) {
		rangeStarts[m[2]] = true
		rangeEnds[m[4]] = true
	}

	var cands []candidate
	for _, m := range yearRe.FindAllStringIndex(text, -1) {
		if rangeStarts[m[0]] {
			continue // the range's end year stands for the whole range
		}
		y := atoiYear(text[m[0]:m[1]])
		if y < 1940 {
			continue // founding years and the like
		}
		cands = append(cands, candidate{year: y, pos: m[0]})
	}
	if len(cands) == 0 {
		return 0
	}
	if kwStart < 0 {
		return cands[len(cands)-1].year
	}

	best := cands[0]
	bestDist := spanDistance(best.pos, best.pos+4, kwStart, kwEnd)
	for _, c := range cands[1:] {
		d := spanDistance(c.pos, c.pos+4, kwStart, kwEnd)
		if d < bestDist || (d == bestDist && c.year > best.year) {
			best, bestDist = c, d
		}
	}
	return best.year
}

func spanDistance(aStart, aEnd, bStart, bEnd int) int {
	if aEnd <= bStart {
		return bStart - aEnd
	}
	if bEnd <= aStart {
		return aStart - bEnd
	}
	return 0
}

func atoiYear(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// Classification is the education classifier's verdict for one profile.
// Zero GradYear / YearsExperience mean "absent".
type Classification struct {
	GradYear        int
	YearsExperience int
	Review          string
}

// Classify inspects the parsed education entries. The review rules are
// evaluated in priority order; the first match wins.
func Classify(entries []domain.EducationEntry, now time.Time) Classification {
	var c Classification

	if len(entries) == 0 {
		c.Review = domain.FlagNoEducation
		return c
	}

	bachelors := 0
	graduate := false
	firstBachelorYear := -1
	for _, e := range entries {
		switch e.Level {
		case domain.DegreeBachelor:
			bachelors++
			if firstBachelorYear < 0 {
				firstBachelorYear = e.Year
			}
		case domain.DegreeMaster, domain.DegreeDoctorate:
			graduate = true
		}
	}

	if firstBachelorYear > 0 {
		c.GradYear = firstBachelorYear
		if exp := now.Year() - c.GradYear; exp >= 0 {
			c.YearsExperience = exp
		}
	}

	switch {
	case bachelors > 0 && c.GradYear == 0:
		c.Review = domain.FlagNoEduYear
	case bachelors == 0 && graduate:
		c.Review = domain.FlagNoBachelors
	case bachelors > 1:
		c.Review = domain.FlagMultiBachelor
	}
	return c
}
