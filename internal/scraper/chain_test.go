package scraper_test

import (
	"context"
	"testing"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper/scrapertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, texts map[string][]string) *scrapertest.Page {
	page := scrapertest.NewPage(map[string]*scrapertest.Doc{
		"https://job": {Texts: texts},
	})
	require.NoError(t, page.Navigate(context.Background(), "https://job"))
	return page
}

func TestFindFirst(t *testing.T) {
	chain := scraper.SelectorChain{"h1.title", "h1", ".header h1"}

	tests := []struct {
		name   string
		texts  map[string][]string
		want   string
		wantOK bool
	}{
		{
			name:   "first selector wins",
			texts:  map[string][]string{"h1.title": {" Engineer "}, "h1": {"Other"}},
			want:   "Engineer",
			wantOK: true,
		},
		{
			name:   "blank match falls through",
			texts:  map[string][]string{"h1.title": {"   "}, "h1": {"Fallback"}},
			want:   "Fallback",
			wantOK: true,
		},
		{
			name:   "only first match of a selector counts",
			texts:  map[string][]string{"h1": {"", "Second"}, ".header h1": {"Third"}},
			want:   "Third",
			wantOK: true,
		},
		{
			name:  "nothing matches",
			texts: map[string][]string{"p": {"text"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scraper.FindFirst(loaded(t, tt.texts), chain)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindContaining(t *testing.T) {
	markers := []string{"salary", "$", "€", "£", "per year", "per hour"}
	page := loaded(t, map[string][]string{
		"[data-testid='attribute_snippet_testid']": {"Full-time", " From $120,000 a year ", "Remote"},
		".eu": {"Pay: 50.000 € PER YEAR"},
		".none": {"Full-time", "Hybrid"},
	})

	got, ok := scraper.FindContaining(page, "[data-testid='attribute_snippet_testid']", markers)
	assert.True(t, ok)
	assert.Equal(t, "From $120,000 a year", got)

	got, ok = scraper.FindContaining(page, ".eu", markers)
	assert.True(t, ok)
	assert.Equal(t, "Pay: 50.000 € PER YEAR", got)

	_, ok = scraper.FindContaining(page, ".none", markers)
	assert.False(t, ok)

	_, ok = scraper.FindContaining(page, ".missing", markers)
	assert.False(t, ok)
}
