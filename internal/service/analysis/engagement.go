// internal/service/analysis/engagement.go

package analysis

import (
	"math"
	"sort"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

// DefaultViewMultiplier estimates views from likes at the analysis
// level; ProfileViewMultiplier is the rougher per-profile estimate.
const (
	DefaultViewMultiplier = 15
	ProfileViewMultiplier = 12
)

// Engagement computes aggregate engagement metrics for a run. Estimated
// views are floored at 1 so the rate is always finite, and an empty
// input yields all-zero metrics rather than an error.
func Engagement(posts []media.VideoPost, viewMultiplier int) domain.EngagementMetrics {
	if len(posts) == 0 {
		return domain.EngagementMetrics{}
	}
	if viewMultiplier <= 0 {
		viewMultiplier = DefaultViewMultiplier
	}

	var (
		totalLikes    int64
		totalComments int64
		totalViews    float64
		totalRate     float64
	)

	for _, p := range posts {
		likes := media.ParseCount(p.Likes)
		comments := media.ParseCount(p.Comments)
		totalLikes += likes
		totalComments += comments

		views := likes * int64(viewMultiplier)
		if views == 0 {
			views = 1
		}
		totalViews += float64(views)

		rate := float64(likes+comments) / float64(views) * 100
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			rate = 0
		}
		totalRate += rate
	}

	n := float64(len(posts))
	return domain.EngagementMetrics{
		AvgEngagementRate: totalRate / n,
		MeanViews:         totalViews / n,
		VideoCount:        len(posts),
		TotalLikes:        totalLikes,
		TotalComments:     totalComments,
	}
}

// RankClips returns the top-k and bottom-k posts by likes+comments.
// The sort is stable, so ties keep their scrape order; the top list is
// descending and the bottom list ascending.
func RankClips(posts []media.VideoPost, k int) (top, bottom []domain.ClipSummary) {
	if len(posts) == 0 || k <= 0 {
		return nil, nil
	}

	ranked := make([]media.VideoPost, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return totalEngagement(ranked[i]) > totalEngagement(ranked[j])
	})

	// The bottom list needs its own ascending stable sort; walking the
	// descending order backwards would flip equal-sum posts.
	lowest := make([]media.VideoPost, len(posts))
	copy(lowest, posts)
	sort.SliceStable(lowest, func(i, j int) bool {
		return totalEngagement(lowest[i]) < totalEngagement(lowest[j])
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	for _, p := range ranked[:k] {
		top = append(top, clipSummary(p))
	}
	for _, p := range lowest[:k] {
		bottom = append(bottom, clipSummary(p))
	}
	return top, bottom
}

func totalEngagement(p media.VideoPost) int64 {
	return media.ParseCount(p.Likes) + media.ParseCount(p.Comments)
}

func clipSummary(p media.VideoPost) domain.ClipSummary {
	return domain.ClipSummary{
		Description: p.Text,
		Likes:       p.Likes,
		Comments:    p.Comments,
	}
}
