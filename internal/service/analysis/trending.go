// internal/service/analysis/trending.go

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// generalTrendingTerms pads the trending list when the suggest APIs
// return too little.
var generalTrendingTerms = []string{
	"viral trend", "fyp", "trending now", "2024 trend", "viral content",
}

// TrendingClient fetches trending search phrases from the Google and
// YouTube autocomplete endpoints.
type TrendingClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewTrendingClient creates a trending lookup client.
func NewTrendingClient() *TrendingClient {
	return &TrendingClient{
		HTTPClient: &http.Client{Timeout: 4 * time.Second},
		BaseURL:    "https://suggestqueries.google.com/complete/search",
	}
}

// Lookup expands up to three seed keywords into at most maxTotal
// trending phrases. Failures per seed degrade to templated fallbacks;
// the list is padded with general terms when fewer than three survive.
func (c *TrendingClient) Lookup(ctx context.Context, seeds []string, maxTotal int) []string {
	if maxTotal <= 0 {
		maxTotal = 5
	}

	var trending []string
	seedLimit := 3
	if len(seeds) < seedLimit {
		seedLimit = len(seeds)
	}

	for _, kw := range seeds[:seedLimit] {
		if len(kw) < 3 {
			continue
		}

		suggestions, err := c.suggestionsFor(ctx, kw)
		if err != nil {
			log.Printf("trending lookup failed for %q: %v", kw, err)
			for _, fb := range []string{kw + " 2024", kw + " trend", "viral " + kw} {
				if len(trending) < maxTotal && !contains(trending, fb) {
					trending = append(trending, fb)
				}
			}
			continue
		}

		limit := 10
		if len(suggestions) < limit {
			limit = len(suggestions)
		}
		for _, s := range suggestions[:limit] {
			if s == "" || strings.EqualFold(s, kw) {
				continue
			}
			if !strings.Contains(strings.ToLower(s), strings.ToLower(kw)) {
				continue
			}
			if strings.Contains(strings.ToLower(s), "near me") {
				continue
			}
			if len(strings.Fields(s)) > 4 || contains(trending, s) {
				continue
			}
			trending = append(trending, s)
			if len(trending) >= maxTotal {
				return trending
			}
		}
	}

	if len(trending) < 3 {
		for _, term := range generalTrendingTerms {
			if len(trending) < maxTotal && !contains(trending, term) {
				trending = append(trending, term)
			}
		}
	}
	return trending
}

// suggestionsFor queries both the Google and YouTube autocomplete
// variants for one keyword and concatenates the results.
func (c *TrendingClient) suggestionsFor(ctx context.Context, kw string) ([]string, error) {
	google, err := c.suggest(ctx, kw, "")
	if err != nil {
		return nil, err
	}
	youtube, err := c.suggest(ctx, kw, "yt")
	if err != nil {
		return nil, err
	}
	return append(google, youtube...), nil
}

func (c *TrendingClient) suggest(ctx context.Context, kw, ds string) ([]string, error) {
	params := url.Values{"client": {"firefox"}, "q": {kw}}
	if ds != "" {
		params.Set("ds", ds)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	// The suggest endpoint answers [query, [suggestion, ...], ...].
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}
	if len(payload) < 2 {
		return nil, nil
	}

	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return nil, fmt.Errorf("decoding suggestion list: %w", err)
	}
	return suggestions, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
