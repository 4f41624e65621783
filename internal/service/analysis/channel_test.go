// internal/service/analysis/channel_test.go

package analysis

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestTitlesFromCSV(t *testing.T) {
	header := []string{"title", "views", "upload_time", "url"}
	rows := [][]string{
		{"How to solder like a pro", "1K views", "2 days ago", "u1"},
		{"Video 3 (extraction failed)", "N/A", "N/A", "N/A"},
		{"Untitled Video", "N/A", "N/A", "N/A"},
		{"nan", "", "", ""},
		{"short", "", "", ""},
		{"Building a custom mechanical keyboard", "5K views", "1 week ago", "u2"},
	}

	titles, err := TitlesFromCSV(header, rows)
	if err != nil {
		t.Fatalf("TitlesFromCSV: %v", err)
	}
	want := []string{"How to solder like a pro", "Building a custom mechanical keyboard"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestTitlesFromCSVAlternateColumn(t *testing.T) {
	titles, err := TitlesFromCSV([]string{"id", "Name"}, [][]string{{"1", "A very good video title"}})
	if err != nil {
		t.Fatalf("TitlesFromCSV: %v", err)
	}
	if len(titles) != 1 || titles[0] != "A very good video title" {
		t.Errorf("expected Name column to be used, got %v", titles)
	}
}

func TestTitlesFromCSVFirstColumnFallback(t *testing.T) {
	titles, err := TitlesFromCSV([]string{"col_a", "col_b"}, [][]string{{"Unlabeled column title here", "x"}})
	if err != nil {
		t.Fatalf("TitlesFromCSV: %v", err)
	}
	if titles[0] != "Unlabeled column title here" {
		t.Errorf("expected first column fallback, got %v", titles)
	}
}

func TestTitlesFromCSVLenientRepass(t *testing.T) {
	// Every title fails strict validation; the lenient pass keeps the
	// ones longer than three characters.
	titles, err := TitlesFromCSV([]string{"title"}, [][]string{{"short"}, {"ideo"}})
	if err != nil {
		t.Fatalf("TitlesFromCSV: %v", err)
	}
	if len(titles) != 2 {
		t.Errorf("lenient pass should keep both, got %v", titles)
	}
}

func TestTitlesFromCSVNothingUsable(t *testing.T) {
	if _, err := TitlesFromCSV([]string{"title"}, [][]string{{""}, {"nan"}}); err == nil {
		t.Error("expected error when no titles remain")
	}
	if _, err := TitlesFromCSV(nil, nil); err == nil {
		t.Error("expected error for empty CSV")
	}
}

func TestChannelSignature(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n" + `{"vibes":["techy"],"topics":["electronics"],"keywords":["diy","repair"]}` + "\n```",
	}}
	a := NewChannelAnalyzer(gen)

	sig := a.Signature(context.Background(), []string{"Fixing a broken amp"})
	if len(sig.Vibes) != 1 || sig.Vibes[0] != "techy" {
		t.Errorf("vibes = %v", sig.Vibes)
	}
	if sig.Keywords[1] != "repair" {
		t.Errorf("keywords = %v", sig.Keywords)
	}
}

func TestChannelSignatureRetriesThenFallback(t *testing.T) {
	gen := &fakeGenerator{
		errs: []error{fmt.Errorf("1"), fmt.Errorf("2"), fmt.Errorf("3")},
	}
	a := NewChannelAnalyzer(gen)
	a.retryDelay = 0

	sig := a.Signature(context.Background(), []string{"t"})
	if gen.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", gen.calls)
	}
	if !reflect.DeepEqual(sig, fallbackSignature) {
		t.Errorf("expected fallback signature, got %+v", sig)
	}
}

func TestChannelSignatureRejectsPartialJSON(t *testing.T) {
	// Missing keywords key: treated as unusable, retried, then fallback.
	partial := `{"vibes":["a"],"topics":["b"]}`
	gen := &fakeGenerator{responses: []string{partial, partial, partial}}
	a := NewChannelAnalyzer(gen)
	a.retryDelay = 0

	if sig := a.Signature(context.Background(), []string{"t"}); !reflect.DeepEqual(sig, fallbackSignature) {
		t.Errorf("expected fallback for partial JSON, got %+v", sig)
	}
}

func TestVideoIdeasParsesBullets(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"1. First idea about soldering\n- Second idea about repair\n• Third idea here\n\n# heading\nok",
	}}
	a := NewChannelAnalyzer(gen)

	ideas := a.VideoIdeas(context.Background(), []string{"electronics"}, []string{"techy"}, 3)
	if len(ideas) != 3 {
		t.Fatalf("expected 3 ideas, got %v", ideas)
	}
	for _, idea := range ideas {
		if !strings.HasPrefix(idea, "• ") {
			t.Errorf("idea should be normalized to a bullet: %q", idea)
		}
	}
}

func TestVideoIdeasFallback(t *testing.T) {
	gen := &fakeGenerator{errs: []error{fmt.Errorf("down")}}
	a := NewChannelAnalyzer(gen)

	ideas := a.VideoIdeas(context.Background(), []string{"cooking", "baking"}, nil, 4)
	if len(ideas) != 4 {
		t.Fatalf("expected 4 templated ideas, got %d", len(ideas))
	}
	if !strings.Contains(ideas[0], "cooking") {
		t.Errorf("templates should use the topics, got %q", ideas[0])
	}
}

func TestGrowthTipsFallback(t *testing.T) {
	gen := &fakeGenerator{errs: []error{fmt.Errorf("down")}}
	a := NewChannelAnalyzer(gen)

	tips := a.GrowthTips(context.Background(), []string{"x"}, []string{"y"}, 5)
	if len(tips) != 5 {
		t.Fatalf("expected 5 fallback tips, got %d", len(tips))
	}
	if !strings.Contains(tips[0], "thumbnails") {
		t.Errorf("unexpected first tip: %q", tips[0])
	}
}

func TestParseBulletList(t *testing.T) {
	items := parseBulletList("  -  Tip one here\n\n2) Tip two\n•\nx")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	if items[0] != "• Tip one here" {
		t.Errorf("items[0] = %q", items[0])
	}
}
