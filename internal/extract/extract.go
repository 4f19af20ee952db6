package extract

import (
	"regexp"
	"strings"

	"recruitscan-engine/internal/domain"
	"recruitscan-engine/internal/scrape/util"
)

// Profile is the parsed, pre-classification view of one profile pane.
// Missing sections come back as empty strings; absence is data, not an error.
type Profile struct {
	FullName  string
	Company   string
	Title     string
	Location  string
	Education []domain.EducationEntry
}

var (
	sectionRe = regexp.MustCompile(`(?i)^(experience|work experience|education|skills|about|summary|licenses|certifications|interests|accomplishments|recommendations|activity)\b`)

	// "Jan 2020 - Present · 4 yrs" and friends.
	dateLineRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|present|yrs?|mos?)\b`)

	schoolRe = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|polytechnic|universidad|universit)`)

	// Connection-degree suffix on the name line: "Jane Doe · 3rd".
	nameNoiseRe = regexp.MustCompile(`(?i)\s*[·•]\s*(1st|2nd|3rd)(\+)?\s*(degree connection)?\s*$`)
)

// Pages that rendered but carry no profile at all. These become a record with
// only the URL, flagged for manual review, so nobody silently vanishes.
var placeholderMarkers = []string{
	"this profile is not available",
	"profile unavailable",
	"page not found",
	"something went wrong",
	"verify you're human",
	"quick security check",
}

// ParseProfile parses the rendered text of one profile pane. ok is false when
// the page carried no recognizable profile (blocked or placeholder content).
// Pure function of its input: the same text always yields the same Profile.
func ParseProfile(raw string) (p Profile, ok bool) {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return Profile{}, false
	}

	low := strings.ToLower(raw)
	for _, m := range placeholderMarkers {
		if strings.Contains(low, m) {
			return Profile{}, false
		}
	}

	header, sections := splitSections(lines)
	p.FullName, p.Title, p.Company, p.Location = parseHeader(header)

	if exp, found := sections["experience"]; found {
		title, company := parseCurrentPosition(exp)
		if p.Title == "" {
			p.Title = title
		}
		if p.Company == "" {
			p.Company = company
		}
	}

	if edu, found := sections["education"]; found {
		p.Education = parseEducation(edu)
	}

	if p.FullName == "" && p.Title == "" && len(p.Education) == 0 {
		return Profile{}, false
	}
	return p, true
}

func splitLines(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		out = append(out, util.CleanText(l))
	}
	// trim leading/trailing blanks but keep interior ones: they separate blocks
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// splitSections cuts the line list into the pre-section header and one slice
// per recognized section, keyed by its lowercased first word group.
func splitSections(lines []string) (header []string, sections map[string][]string) {
	sections = make(map[string][]string)
	current := ""
	for _, l := range lines {
		if m := sectionRe.FindString(l); m != "" && len(l) <= len(m)+4 {
			current = strings.ToLower(m)
			if current == "work experience" {
				current = "experience"
			}
			continue
		}
		if current == "" {
			header = append(header, l)
			continue
		}
		sections[current] = append(sections[current], l)
	}
	return header, sections
}

func parseHeader(header []string) (name, title, company, location string) {
	var rest []string
	for _, l := range header {
		if l == "" {
			continue
		}
		if name == "" {
			name = nameNoiseRe.ReplaceAllString(l, "")
			continue
		}
		rest = append(rest, l)
	}

	for _, l := range rest {
		if title == "" {
			if t, c, found := splitHeadline(l); found {
				title, company = t, c
				continue
			}
		}
		if location == "" && looksLikeLocation(l) {
			location = l
			continue
		}
		// a headline without "at": bare title, no visible company
		if title == "" && !looksLikeLocation(l) && !dateLineRe.MatchString(l) {
			title = l
		}
	}
	return name, title, company, location
}

// splitHeadline handles "Senior Engineer at Acme" headlines.
func splitHeadline(l string) (title, company string, found bool) {
	for _, sep := range []string{" at ", " @ "} {
		if i := strings.Index(l, sep); i > 0 {
			return util.CleanText(l[:i]), util.CleanText(l[i+len(sep):]), true
		}
	}
	return "", "", false
}

func looksLikeLocation(l string) bool {
	if dateLineRe.MatchString(l) {
		return false
	}
	low := strings.ToLower(l)
	return strings.Contains(l, ",") ||
		strings.Contains(low, " area") ||
		strings.HasPrefix(low, "greater ")
}

// parseCurrentPosition reads the first (most recent) experience block. A
// "Present" marker is preferred, otherwise the top-most entry wins.
func parseCurrentPosition(lines []string) (title, company string) {
	blocks := splitBlocks(lines, nil)
	if len(blocks) == 0 {
		return "", ""
	}

	pick := blocks[0]
	for _, b := range blocks {
		if containsPresent(b) {
			pick = b
			break
		}
	}

	for _, l := range pick {
		if l == "" || isDateLine(l) {
			continue
		}
		if title == "" {
			if t, c, found := splitHeadline(l); found {
				return t, c
			}
			if i := strings.Index(l, "·"); i > 0 {
				return util.CleanText(l[:i]), util.CleanText(l[i+1:])
			}
			title = l
			continue
		}
		if company == "" && !looksLikeLocation(l) {
			company = l
			break
		}
	}
	return title, company
}

func isDateLine(l string) bool {
	return yearRe.MatchString(l) || dateLineRe.MatchString(l)
}

func containsPresent(block []string) bool {
	for _, l := range block {
		if strings.Contains(strings.ToLower(l), "present") {
			return true
		}
	}
	return false
}

func parseEducation(lines []string) []domain.EducationEntry {
	blocks := splitBlocks(lines, schoolRe)

	var out []domain.EducationEntry
	for _, b := range blocks {
		text := strings.Join(b, " ")
		if util.CleanText(text) == "" {
			continue
		}
		level, kwStart, kwEnd := classifyDegree(text)
		entry := domain.EducationEntry{
			Level:         level,
			FieldOrSchool: b[0],
			Year:          extractYear(text, kwStart, kwEnd),
		}
		out = append(out, entry)
	}
	return out
}

// splitBlocks groups lines into entry blocks. A blank line always starts a
// new block; so does a line matching startRe (school names, when education
// sections render without blank separators).
func splitBlocks(lines []string, startRe *regexp.Regexp) [][]string {
	var blocks [][]string
	var cur []string

	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, cur)
			cur = nil
		}
	}

	for _, l := range lines {
		if l == "" {
			flush()
			continue
		}
		if startRe != nil && startRe.MatchString(l) && len(cur) > 0 {
			flush()
		}
		cur = append(cur, l)
	}
	flush()
	return blocks
}
