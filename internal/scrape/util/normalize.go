package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Metro aliasing: recruiters think in markets, not suburbs.
var nycAliases = []string{
	"new york", "brooklyn", "queens", "bronx", "manhattan",
	"staten island", "jersey city", "hoboken", "newark",
	"yonkers", "white plains", "stamford", "new rochelle",
}

var sfAliases = []string{
	"san francisco", "san jose", "oakland", "berkeley",
	"palo alto", "mountain view", "sunnyvale", "santa clara",
	"redwood city", "menlo park", "cupertino", "fremont",
	"san mateo", "daly city", "south san francisco",
	"hayward", "milpitas", "campbell", "san ramon",
}

// NormalizeLocation collapses known metro areas to NYC / SF and otherwise
// keeps the leading city part of "City, State, Country".
func NormalizeLocation(raw string) string {
	loc := CleanText(raw)
	if loc == "" {
		return ""
	}
	lower := strings.ToLower(loc)

	for _, alias := range nycAliases {
		if strings.Contains(lower, alias) {
			return "NYC"
		}
	}
	for _, alias := range sfAliases {
		if strings.Contains(lower, alias) {
			return "SF"
		}
	}

	if i := strings.Index(loc, ","); i >= 0 {
		return CleanText(loc[:i])
	}
	return loc
}
