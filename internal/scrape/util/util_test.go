package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		page int
		want string
	}{
		{"page one", "https://x.test/search?q=eng", 1, "https://x.test/search?q=eng&start=0"},
		{"page two", "https://x.test/search?q=eng", 2, "https://x.test/search?q=eng&start=25"},
		{"page forty", "https://x.test/search", 40, "https://x.test/search?start=975"},
		{"stale start replaced", "https://x.test/search?start=150", 1, "https://x.test/search?start=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageURL(tt.url, tt.page, 25))
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  a\t b   c  ", "a b c"},
		{"a b", "a b"},
		{"   ", ""},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input: %q", tt.in)
	}
}

func TestCanonicalProfileURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.linkedin.com/in/jane?trk=abc", "https://www.linkedin.com/in/jane"},
		{"https://www.linkedin.com/in/jane/#section", "https://www.linkedin.com/in/jane"},
		{"HTTPS://WWW.LINKEDIN.COM/in/jane", "https://www.linkedin.com/in/jane"},
		{"  https://x.test/in/a  ", "https://x.test/in/a"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalProfileURL(tt.in), "input: %q", tt.in)
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"New York, New York, United States", "NYC"},
		{"Brooklyn, NY", "NYC"},
		{"Greater New York City Area", "NYC"},
		{"San Francisco Bay Area", "SF"},
		{"Mountain View, California", "SF"},
		{"Austin, Texas, United States", "Austin"},
		{"London", "London"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLocation(tt.in), "input: %q", tt.in)
	}
}

func TestPacerHonorsCancellation(t *testing.T) {
	p := NewPacer(60, time.Hour, time.Hour) // human delay would block for an hour
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)
}

func TestPacerZeroDelayReturnsQuickly(t *testing.T) {
	p := NewPacer(60000, 0, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
}
