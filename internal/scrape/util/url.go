package util

import (
	"net/url"
	"strconv"
	"strings"
)

// PageURL rewrites the saved search URL so it lands on the requested page.
// The site uses start=0 for page 1, start=25 for page 2, and so on; setting
// it unconditionally also strips any stale start= the operator pasted in.
func PageURL(searchURL string, page, profilesPerPage int) string {
	u, err := url.Parse(strings.TrimSpace(searchURL))
	if err != nil {
		return searchURL
	}
	q := u.Query()
	q.Set("start", strconv.Itoa((page-1)*profilesPerPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// CanonicalProfileURL strips tracking query params and fragments so the same
// profile always dedupes to the same key.
func CanonicalProfileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
