package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recruitscan-engine/internal/scrape/util"
)

// Anchor shapes seen across the search UI's revisions. Order matters: the
// recruiter-specific form first, the public profile form as fallback.
var profileHrefMarkers = []string{
	"/talent/profile/",
	"/recruiter/profile/",
	"/in/",
}

// ProfileLinks enumerates profile URLs from a listing page in render order,
// deduplicated on the canonical URL.
func ProfileLinks(listingHTML, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)

	seen := map[string]bool{}
	var out []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || !isProfileHref(href) {
			return
		}

		abs := href
		if base != nil {
			if u, err := url.Parse(href); err == nil {
				abs = base.ResolveReference(u).String()
			}
		}

		canon := util.CanonicalProfileURL(abs)
		if canon == "" || seen[canon] {
			return
		}
		seen[canon] = true
		out = append(out, canon)
	})

	return out, nil
}

func isProfileHref(href string) bool {
	low := strings.ToLower(href)
	for _, m := range profileHrefMarkers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}
