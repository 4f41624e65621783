// internal/service/analysis/recommend.go

package analysis

import (
	"fmt"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

// maxRecommendations caps the recommendation list.
const maxRecommendations = 6

// evergreenTips pads the recommendation list once the rule-based
// messages are placed.
var evergreenTips = []string{
	"Post during peak hours (6-9 PM) for maximum visibility",
	"Use 3-5 trending hashtags relevant to your niche",
	"Respond to comments within the first 2 hours of posting",
}

// Recommendations builds up to six growth recommendations from the
// run's metrics and tags. The engagement-band message always leads, so
// a non-empty metrics input never produces an empty list.
func Recommendations(metrics domain.EngagementMetrics, tagSets []domain.TagSet) []string {
	var recs []string

	switch {
	case metrics.AvgEngagementRate < 2:
		recs = append(recs, "Focus on creating more engaging content - your current rate is below average")
	case metrics.AvgEngagementRate < 5:
		recs = append(recs, "Good engagement! Try interactive content like polls and questions to boost it further")
	default:
		recs = append(recs, "Excellent engagement rate! Keep doing what you're doing")
	}

	if metrics.VideoCount < 10 {
		recs = append(recs, "Post more consistently - aim for at least 10-15 videos to build momentum")
	}

	if topic, ok := topTopic(tagSets); ok {
		recs = append(recs, fmt.Sprintf("Double down on '%s' content - it's your strongest theme", topic))
	}

	recs = append(recs, evergreenTips...)
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// topTopic returns the most frequent topic across all TagSets, breaking
// ties by first appearance.
func topTopic(tagSets []domain.TagSet) (string, bool) {
	counts := make(map[string]int)
	var order []string

	for _, ts := range tagSets {
		for _, topic := range ts.Topics {
			if _, seen := counts[topic]; !seen {
				order = append(order, topic)
			}
			counts[topic]++
		}
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, topic := range order[1:] {
		if counts[topic] > counts[best] {
			best = topic
		}
	}
	return best, true
}

// TopTopics returns the n most frequent topics, first-seen order on
// ties, with a fixed fallback when no topics exist.
func TopTopics(tagSets []domain.TagSet, n int) []string {
	counts := make(map[string]int)
	var order []string

	for _, ts := range tagSets {
		for _, topic := range ts.Topics {
			if _, seen := counts[topic]; !seen {
				order = append(order, topic)
			}
			counts[topic]++
		}
	}
	if len(order) == 0 {
		return []string{"lifestyle", "entertainment", "trending"}
	}

	// Stable selection sort over the first-seen order keeps ties put.
	top := make([]string, 0, n)
	used := make(map[string]bool, len(order))
	for len(top) < n && len(top) < len(order) {
		best := ""
		for _, topic := range order {
			if used[topic] {
				continue
			}
			if best == "" || counts[topic] > counts[best] {
				best = topic
			}
		}
		used[best] = true
		top = append(top, best)
	}
	return top
}
