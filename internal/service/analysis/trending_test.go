// internal/service/analysis/trending_test.go

package analysis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newSuggestServer(t *testing.T, suggestions map[string][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("client") != "firefox" {
			t.Errorf("expected firefox client param, got %q", r.URL.Query().Get("client"))
		}
		kw := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[%q,[`, kw)
		for i, s := range suggestions[kw] {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, "%q", s)
		}
		fmt.Fprint(w, `]]`)
	}))
}

func newTestTrendingClient(srv *httptest.Server) *TrendingClient {
	c := NewTrendingClient()
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	return c
}

func TestTrendingLookup(t *testing.T) {
	srv := newSuggestServer(t, map[string][]string{
		"baking": {
			"baking",              // equals seed, dropped
			"baking bread",        // kept
			"baking near me",      // dropped
			"sourdough",           // does not contain seed, dropped
			"easy baking recipes at home", // 5 words, dropped
			"baking tips",         // kept
		},
	})
	defer srv.Close()

	got := newTestTrendingClient(srv).Lookup(context.Background(), []string{"baking"}, 10)
	want := map[string]bool{"baking bread": true, "baking tips": true}
	for _, s := range got[:2] {
		if !want[s] {
			t.Errorf("unexpected suggestion %q in %v", s, got)
		}
	}
	// Fewer than 3 survived, so general terms pad the list.
	if len(got) < 3 {
		t.Errorf("expected padding to at least 3, got %v", got)
	}
}

func TestTrendingLookupFallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	got := newTestTrendingClient(srv).Lookup(context.Background(), []string{"cooking"}, 10)
	want := map[string]bool{"cooking 2024": true, "cooking trend": true, "viral cooking": true}
	count := 0
	for _, s := range got {
		if want[s] {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 templated fallbacks for failed seed, got %v", got)
	}
}

func TestTrendingLookupLimits(t *testing.T) {
	many := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		many = append(many, fmt.Sprintf("food idea %d", i))
	}
	srv := newSuggestServer(t, map[string][]string{"food": many})
	defer srv.Close()

	got := newTestTrendingClient(srv).Lookup(context.Background(), []string{"food"}, 5)
	if len(got) > 5 {
		t.Errorf("expected at most 5 phrases, got %d: %v", len(got), got)
	}
}

func TestTrendingLookupSkipsShortSeeds(t *testing.T) {
	srv := newSuggestServer(t, nil)
	defer srv.Close()

	got := newTestTrendingClient(srv).Lookup(context.Background(), []string{"ab"}, 10)
	// Short seeds are skipped entirely; only the general padding remains.
	for _, s := range got {
		found := false
		for _, g := range generalTrendingTerms {
			if s == g {
				found = true
			}
		}
		if !found {
			t.Errorf("unexpected phrase %q for short seed", s)
		}
	}
	if len(got) == 0 {
		t.Error("expected general padding terms")
	}
}
