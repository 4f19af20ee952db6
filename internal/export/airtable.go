package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"recruitscan-engine/internal/domain"
)

// Airtable pushes a run's accepted rows to an Airtable table. Optional; CSV
// stays the source of truth.
type Airtable struct {
	BaseID string
	Table  string
	APIKey string

	baseURL string
	hc      *http.Client
}

func NewAirtable(baseID, table, apiKey string) *Airtable {
	return &Airtable{
		BaseID:  baseID,
		Table:   table,
		APIKey:  apiKey,
		baseURL: "https://api.airtable.com/v0",
		hc:      &http.Client{Timeout: 20 * time.Second},
	}
}

type airtableRecord struct {
	Fields map[string]any `json:"fields"`
}

type airtablePayload struct {
	Records []airtableRecord `json:"records"`
}

// Push uploads candidates in batches of 10, the API's per-request cap.
func (a *Airtable) Push(ctx context.Context, cands []domain.Candidate) error {
	for start := 0; start < len(cands); start += 10 {
		end := start + 10
		if end > len(cands) {
			end = len(cands)
		}
		if err := a.pushBatch(ctx, cands[start:end]); err != nil {
			return fmt.Errorf("airtable batch at %d: %w", start, err)
		}
	}
	return nil
}

func (a *Airtable) pushBatch(ctx context.Context, cands []domain.Candidate) error {
	var payload airtablePayload
	for _, c := range cands {
		fields := map[string]any{
			"full_name":           c.FullName,
			"current_company":     c.Company,
			"current_title":       c.Title,
			"linkedin_public_url": c.ProfileURL,
			"location":            c.Location,
			"review":              c.Review,
		}
		if c.GradYear > 0 {
			fields["bachelors_grad_year"] = c.GradYear
		}
		if c.YearsExperience > 0 {
			fields["years_experience"] = c.YearsExperience
		}
		payload.Records = append(payload.Records, airtableRecord{Fields: fields})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/%s/%s",
		a.baseURL, url.PathEscape(a.BaseID), url.PathEscape(a.Table))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := a.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("airtable status %d", res.StatusCode)
	}
	return nil
}
