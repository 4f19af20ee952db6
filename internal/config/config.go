// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WarnRule appends a review flag when any of its phrases appears in a
// candidate's current title. Warn rules never exclude a record.
type WarnRule struct {
	Flag string   `yaml:"flag" json:"flag"`
	Any  []string `yaml:"any" json:"any"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Search struct {
		URL             string `yaml:"url" json:"url"`
		StartPage       int    `yaml:"start_page" json:"start_page"`
		EndPage         int    `yaml:"end_page" json:"end_page"`
		OutputDir       string `yaml:"output_dir" json:"output_dir"`
		ProfilesPerPage int    `yaml:"profiles_per_page" json:"profiles_per_page"`
	} `yaml:"search" json:"search"`

	Filters struct {
		GradYearMin   int        `yaml:"grad_year_min" json:"grad_year_min"`
		GradYearMax   int        `yaml:"grad_year_max" json:"grad_year_max"`
		ExcludeTitles []string   `yaml:"exclude_titles" json:"exclude_titles"`
		IncludeTitles []string   `yaml:"include_titles" json:"include_titles"`
		WarnRules     []WarnRule `yaml:"warn_rules" json:"warn_rules"`
	} `yaml:"filters" json:"filters"`

	Browser struct {
		CDPURL         string `yaml:"cdp_url" json:"cdp_url"`
		NavTimeoutSecs int    `yaml:"nav_timeout_seconds" json:"nav_timeout_seconds"`
		NavRetries     int    `yaml:"nav_retries" json:"nav_retries"`
		MinDelayMs     int    `yaml:"min_delay_ms" json:"min_delay_ms"`
		MaxDelayMs     int    `yaml:"max_delay_ms" json:"max_delay_ms"`
		NavPerMinute   int    `yaml:"nav_per_minute" json:"nav_per_minute"`
	} `yaml:"browser" json:"browser"`

	Output struct {
		CSV struct {
			FilenamePattern string `yaml:"filename_pattern" json:"filename_pattern"`
		} `yaml:"csv" json:"csv"`
		Airtable struct {
			Enabled        bool   `yaml:"enabled" json:"enabled"`
			BaseID         string `yaml:"base_id" json:"base_id"`
			Table          string `yaml:"table" json:"table"`
			KeyringAccount string `yaml:"keyring_account" json:"keyring_account"`
		} `yaml:"airtable" json:"airtable"`
	} `yaml:"output" json:"output"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
