package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything wrong or
// suspicious about it, so the UI can show errors next to the fields.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.ExcludeTitles = trimList(out.Filters.ExcludeTitles)
	out.Filters.IncludeTitles = trimList(out.Filters.IncludeTitles)
	for i := range out.Filters.WarnRules {
		out.Filters.WarnRules[i].Any = trimList(out.Filters.WarnRules[i].Any)
	}
	out.Search.URL = strings.TrimSpace(out.Search.URL)
	out.Browser.CDPURL = strings.TrimSpace(out.Browser.CDPURL)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Search.URL != "" {
		if u, err := url.Parse(out.Search.URL); err != nil || u.Host == "" {
			res.addErr("search.url is not a valid URL: %q", out.Search.URL)
		}
	}
	if out.Search.StartPage < 1 {
		res.addErr("search.start_page must be >= 1")
	}
	if out.Search.EndPage < out.Search.StartPage {
		res.addErr("search.end_page must be >= search.start_page")
	}
	if out.Search.ProfilesPerPage <= 0 {
		res.addErr("search.profiles_per_page must be > 0")
	}

	if out.Filters.GradYearMin > out.Filters.GradYearMax {
		res.addErr("filters.grad_year_min must be <= filters.grad_year_max")
	}
	if out.Filters.GradYearMin < 1900 || out.Filters.GradYearMax > 2099 {
		res.addWarn("filters grad year window [%d, %d] looks implausible",
			out.Filters.GradYearMin, out.Filters.GradYearMax)
	}
	if len(out.Filters.ExcludeTitles) == 0 {
		res.addWarn("filters.exclude_titles is empty; every title will pass the filter.")
	}
	for i, r := range out.Filters.WarnRules {
		if strings.TrimSpace(r.Flag) == "" {
			res.addErr("filters.warn_rules[%d].flag is required", i)
		}
		if len(r.Any) == 0 {
			res.addErr("filters.warn_rules[%d].any must have at least 1 phrase", i)
		}
	}

	if strings.TrimSpace(out.Browser.CDPURL) == "" {
		res.addErr("browser.cdp_url is required (launch Chrome with --remote-debugging-port)")
	}
	if out.Browser.NavTimeoutSecs <= 0 {
		res.addErr("browser.nav_timeout_seconds must be > 0")
	}
	if out.Browser.NavRetries < 0 {
		res.addErr("browser.nav_retries must be >= 0")
	}
	if out.Browser.MinDelayMs < 0 || out.Browser.MaxDelayMs < out.Browser.MinDelayMs {
		res.addErr("browser delay range is invalid: min=%d max=%d",
			out.Browser.MinDelayMs, out.Browser.MaxDelayMs)
	}
	if out.Browser.NavPerMinute <= 0 {
		res.addErr("browser.nav_per_minute must be > 0")
	} else if out.Browser.NavPerMinute > 30 {
		res.addWarn("browser.nav_per_minute is very high (%d) and may trip the site's daily view limit.",
			out.Browser.NavPerMinute)
	}

	if out.Output.Airtable.Enabled {
		if strings.TrimSpace(out.Output.Airtable.BaseID) == "" {
			res.addErr("output.airtable.base_id is required when airtable is enabled")
		}
		if strings.TrimSpace(out.Output.Airtable.Table) == "" {
			res.addErr("output.airtable.table is required when airtable is enabled")
		}
		if strings.TrimSpace(out.Output.Airtable.KeyringAccount) == "" {
			res.addWarn("output.airtable.keyring_account is empty; set the API key via the secrets endpoint first.")
		}
	}

	return out, res
}
