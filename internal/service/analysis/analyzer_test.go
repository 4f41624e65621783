// internal/service/analysis/analyzer_test.go

package analysis

import (
	"context"
	"strings"
	"testing"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

// memoryStore records the last saved reports.
type memoryStore struct {
	report        *domain.Report
	channelReport *domain.ChannelReport
}

func (m *memoryStore) SaveReport(ctx context.Context, r domain.Report) error {
	m.report = &r
	return nil
}

func (m *memoryStore) SaveChannelReport(ctx context.Context, r domain.ChannelReport) error {
	m.channelReport = &r
	return nil
}

func (m *memoryStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	return m.report, nil
}

func (m *memoryStore) ListReports(ctx context.Context, platform string, limit int) ([]domain.Report, error) {
	return nil, nil
}

func testAnalyzerConfig() AnalyzerConfig {
	cfg := DefaultAnalyzerConfig()
	cfg.Extractor = testExtractorConfig()
	cfg.IdeaCount = 3
	return cfg
}

func TestAnalyzeProfile(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		// Tag extraction for a two-video batch.
		`{"topics":["food"],"keywords":["pasta recipe"]}` + "\n" +
			`{"topics":["fitness"],"keywords":["home workout"]}`,
		// Content plan.
		strings.Join([]string{ideaLine("one"), ideaLine("two"), ideaLine("three")}, "\n"),
	}}
	store := &memoryStore{}
	a := NewAnalyzer(gen, NewWordFilter(nil, nil), store, nil, testAnalyzerConfig())

	srv := newSuggestServer(t, map[string][]string{})
	defer srv.Close()
	a.trending = newTestTrendingClient(srv)

	posts := []media.VideoPost{
		{URL: "u1", Likes: "150", Comments: "30", Text: "Cooking pasta tonight #pasta"},
		{URL: "u2", Likes: "1.5K", Comments: "0", Text: "Morning workout routine"},
	}
	report, err := a.AnalyzeProfile(context.Background(), "tiktok", "chef", posts)
	if err != nil {
		t.Fatalf("AnalyzeProfile: %v", err)
	}

	if report.Platform != "tiktok" || report.Handle != "chef" {
		t.Errorf("identity fields: %s/%s", report.Platform, report.Handle)
	}
	if report.ID == "" {
		t.Error("expected a run ID")
	}
	if report.Metrics.VideoCount != 2 {
		t.Errorf("VideoCount = %d", report.Metrics.VideoCount)
	}
	if len(report.CoreKeywords) == 0 {
		t.Error("expected core keywords")
	}
	if len(report.TrendingKeywords) < 3 {
		t.Errorf("trending should pad to at least 3, got %v", report.TrendingKeywords)
	}
	if len(report.ContentPlan) != 3 {
		t.Errorf("expected 3 ideas, got %d", len(report.ContentPlan))
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
	if len(report.TopClips) != 2 || len(report.BottomClips) != 2 {
		t.Errorf("clips: %d top, %d bottom", len(report.TopClips), len(report.BottomClips))
	}
	if store.report == nil || store.report.ID != report.ID {
		t.Error("report was not persisted")
	}
}

func TestAnalyzeProfileNoVideos(t *testing.T) {
	a := NewAnalyzer(&fakeGenerator{}, NewWordFilter(nil, nil), nil, nil, testAnalyzerConfig())
	if _, err := a.AnalyzeProfile(context.Background(), "tiktok", "ghost", nil); err == nil {
		t.Fatal("expected error for empty posts")
	}
}

func TestAnalyzeChannel(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"vibes":["educational"],"topics":["woodworking"],"keywords":["diy","workshop"]}`,
		"• Build a workbench in a weekend\n• Five jigs every shop needs\n• Hand tool basics for beginners",
		"• Optimize thumbnails\n• Post weekly\n• Reply to comments\n• Use chapters\n• Study analytics",
	}}
	store := &memoryStore{}
	a := NewAnalyzer(gen, NewWordFilter(nil, nil), store, nil, testAnalyzerConfig())
	a.channel.retryDelay = 0

	titles := []string{
		"Building a bookshelf from scrap wood",
		"My favorite hand planes explained",
	}
	report, err := a.AnalyzeChannel(context.Background(), "woodshop", titles)
	if err != nil {
		t.Fatalf("AnalyzeChannel: %v", err)
	}

	if report.ChannelID != "woodshop" || report.VideoCount != 2 {
		t.Errorf("identity fields: %s/%d", report.ChannelID, report.VideoCount)
	}
	if len(report.Signature.Topics) == 0 || report.Signature.Topics[0] != "woodworking" {
		t.Errorf("signature topics: %v", report.Signature.Topics)
	}
	if len(report.VideoIdeas) != 3 {
		t.Errorf("expected 3 ideas, got %v", report.VideoIdeas)
	}
	if len(report.GrowthTips) != 5 {
		t.Errorf("expected 5 tips, got %v", report.GrowthTips)
	}
	if store.channelReport == nil || store.channelReport.ID != report.ID {
		t.Error("channel report was not persisted")
	}
}

func TestAnalyzeChannelNoTitles(t *testing.T) {
	a := NewAnalyzer(&fakeGenerator{}, NewWordFilter(nil, nil), nil, nil, testAnalyzerConfig())
	if _, err := a.AnalyzeChannel(context.Background(), "empty", nil); err == nil {
		t.Fatal("expected error for empty titles")
	}
}
