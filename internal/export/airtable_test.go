package export

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitscan-engine/internal/domain"
)

func TestAirtablePushBatchesOfTen(t *testing.T) {
	var batches [][]airtableRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/base123/Candidates", r.URL.Path)
		assert.Equal(t, "Bearer key-abc", r.Header.Get("Authorization"))

		var payload airtablePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		batches = append(batches, payload.Records)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	at := NewAirtable("base123", "Candidates", "key-abc")
	at.baseURL = srv.URL

	var cands []domain.Candidate
	for i := 0; i < 25; i++ {
		cands = append(cands, domain.Candidate{
			FullName:   fmt.Sprintf("Person %d", i),
			ProfileURL: fmt.Sprintf("https://x.test/in/p%d", i),
			GradYear:   2015,
		})
	}
	require.NoError(t, at.Push(context.Background(), cands))

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
	assert.Len(t, batches[2], 5)
	assert.Equal(t, "Person 0", batches[0][0].Fields["full_name"])
	assert.Equal(t, "Person 24", batches[2][4].Fields["full_name"])
}

func TestAirtablePushOmitsAbsentNumerics(t *testing.T) {
	var got airtablePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	at := NewAirtable("base123", "Candidates", "key-abc")
	at.baseURL = srv.URL

	cand := domain.Candidate{ProfileURL: "https://x.test/in/p", Review: "unparseable"}
	require.NoError(t, at.Push(context.Background(), []domain.Candidate{cand}))

	require.Len(t, got.Records, 1)
	fields := got.Records[0].Fields
	assert.NotContains(t, fields, "bachelors_grad_year")
	assert.NotContains(t, fields, "years_experience")
	assert.Equal(t, "unparseable", fields["review"])
}

func TestAirtablePushSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	at := NewAirtable("base123", "Candidates", "key-abc")
	at.baseURL = srv.URL

	err := at.Push(context.Background(), []domain.Candidate{{ProfileURL: "https://x.test/in/p"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
