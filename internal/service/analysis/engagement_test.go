// internal/service/analysis/engagement_test.go

package analysis

import (
	"math"
	"testing"

	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

func TestEngagementBasics(t *testing.T) {
	posts := []media.VideoPost{
		{Likes: "150", Comments: "30", Text: "a"},
		{Likes: "1.5K", Comments: "0", Text: "b"},
	}

	m := Engagement(posts, DefaultViewMultiplier)
	if m.VideoCount != 2 {
		t.Errorf("VideoCount = %d, want 2", m.VideoCount)
	}
	if m.TotalLikes != 1650 {
		t.Errorf("TotalLikes = %d, want 1650", m.TotalLikes)
	}
	if m.TotalComments != 30 {
		t.Errorf("TotalComments = %d, want 30", m.TotalComments)
	}

	// Per-item: (150+30)/2250*100 = 8.0, (1500+0)/22500*100 = 6.666...
	wantRate := (8.0 + 1500.0/22500.0*100) / 2
	if math.Abs(m.AvgEngagementRate-wantRate) > 1e-9 {
		t.Errorf("AvgEngagementRate = %f, want %f", m.AvgEngagementRate, wantRate)
	}
	wantViews := (2250.0 + 22500.0) / 2
	if m.MeanViews != wantViews {
		t.Errorf("MeanViews = %f, want %f", m.MeanViews, wantViews)
	}
}

func TestEngagementZeroLikes(t *testing.T) {
	// Zero likes floors views at 1 so the rate stays finite.
	posts := []media.VideoPost{{Likes: "0", Comments: "5"}}
	m := Engagement(posts, DefaultViewMultiplier)

	if math.IsNaN(m.AvgEngagementRate) || math.IsInf(m.AvgEngagementRate, 0) {
		t.Fatalf("rate must be finite, got %f", m.AvgEngagementRate)
	}
	if m.AvgEngagementRate != 500 {
		t.Errorf("rate = %f, want 500 (5/1*100)", m.AvgEngagementRate)
	}
	if m.MeanViews != 1 {
		t.Errorf("MeanViews = %f, want 1", m.MeanViews)
	}
}

func TestEngagementEmpty(t *testing.T) {
	m := Engagement(nil, DefaultViewMultiplier)
	if m.VideoCount != 0 || m.TotalLikes != 0 || m.AvgEngagementRate != 0 || m.MeanViews != 0 {
		t.Errorf("empty input should yield zero metrics, got %+v", m)
	}
}

func TestEngagementUnparseableCounts(t *testing.T) {
	posts := []media.VideoPost{{Likes: "N/A", Comments: "abc"}}
	m := Engagement(posts, DefaultViewMultiplier)
	if m.TotalLikes != 0 || m.TotalComments != 0 {
		t.Errorf("unparseable counts should read as zero, got %+v", m)
	}
}

func TestRankClips(t *testing.T) {
	posts := []media.VideoPost{
		{Likes: "10", Comments: "0", Text: "low"},
		{Likes: "500", Comments: "50", Text: "high"},
		{Likes: "100", Comments: "10", Text: "mid"},
		{Likes: "200", Comments: "20", Text: "upper"},
	}

	top, bottom := RankClips(posts, 3)
	if len(top) != 3 || len(bottom) != 3 {
		t.Fatalf("expected 3+3 clips, got %d+%d", len(top), len(bottom))
	}
	if top[0].Description != "high" || top[1].Description != "upper" || top[2].Description != "mid" {
		t.Errorf("top order wrong: %v", top)
	}
	// Bottom is ascending: worst first.
	if bottom[0].Description != "low" || bottom[1].Description != "mid" || bottom[2].Description != "upper" {
		t.Errorf("bottom order wrong: %v", bottom)
	}
	if top[0].Likes != "500" || top[0].Comments != "50" {
		t.Errorf("clip should keep raw count strings: %+v", top[0])
	}
}

func TestRankClipsStableTies(t *testing.T) {
	posts := []media.VideoPost{
		{Likes: "100", Comments: "0", Text: "first"},
		{Likes: "100", Comments: "0", Text: "second"},
	}
	top, _ := RankClips(posts, 2)
	if top[0].Description != "first" || top[1].Description != "second" {
		t.Errorf("ties should keep input order: %v", top)
	}
}

func TestRankClipsBottomTiesKeepInputOrder(t *testing.T) {
	posts := []media.VideoPost{
		{Likes: "5", Comments: "0", Text: "tieA"},
		{Likes: "5", Comments: "0", Text: "tieB"},
		{Likes: "900", Comments: "0", Text: "big"},
	}
	_, bottom := RankClips(posts, 2)
	if bottom[0].Description != "tieA" || bottom[1].Description != "tieB" {
		t.Errorf("bottom ties should keep input order: got %q, %q",
			bottom[0].Description, bottom[1].Description)
	}
}

func TestRankClipsShortInput(t *testing.T) {
	posts := []media.VideoPost{{Likes: "1", Comments: "0", Text: "only"}}
	top, bottom := RankClips(posts, 3)
	if len(top) != 1 || len(bottom) != 1 {
		t.Errorf("k larger than input should clamp, got %d+%d", len(top), len(bottom))
	}

	top, bottom = RankClips(nil, 3)
	if top != nil || bottom != nil {
		t.Errorf("empty input should yield nil slices")
	}
}
