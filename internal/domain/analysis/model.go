// internal/domain/analysis/model.go

package analysis

import (
	"context"
	"time"
)

// TagSet holds the topics, keywords and hashtags derived from one video.
// A TagSet is produced exactly once per video and never mutated; on
// extraction failure it carries the deterministic fallback values.
type TagSet struct {
	Text     string   `json:"description"`
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`
	Hashtags []string `json:"hashtags"`
}

// EngagementMetrics aggregates engagement statistics over one run.
type EngagementMetrics struct {
	AvgEngagementRate float64 `json:"average_engagement_rate"`
	MeanViews         float64 `json:"mean_views"`
	VideoCount        int     `json:"num_videos"`
	TotalLikes        int64   `json:"total_likes"`
	TotalComments     int64   `json:"total_comments"`
}

// ClipSummary identifies a top or bottom performing video.
type ClipSummary struct {
	Description string `json:"description"`
	Likes       string `json:"likes"`
	Comments    string `json:"comments"`
}

// ContentIdea is one generated video idea.
type ContentIdea struct {
	Hook     string   `json:"hook"`
	Content  string   `json:"content"`
	CTA      string   `json:"cta"`
	Hashtags []string `json:"hashtags"`
}

// ChannelSignature describes a YouTube channel's style as extracted
// from its video titles.
type ChannelSignature struct {
	Vibes    []string `json:"vibes"`
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`
}

// Report is the full result of a TikTok analysis run.
type Report struct {
	ID               string            `json:"id"`
	Platform         string            `json:"platform"`
	Handle           string            `json:"handle"`
	Metrics          EngagementMetrics `json:"metrics"`
	Recommendations  []string          `json:"recommendations"`
	ContentPlan      []ContentIdea     `json:"content_plan"`
	TopClips         []ClipSummary     `json:"top_clips"`
	BottomClips      []ClipSummary     `json:"bottom_clips"`
	CoreKeywords     []string          `json:"core_keywords"`
	TrendingKeywords []string          `json:"trending_keywords"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ChannelReport is the full result of a YouTube analysis run.
type ChannelReport struct {
	ID         string           `json:"id"`
	ChannelID  string           `json:"channel_id"`
	Signature  ChannelSignature `json:"signature"`
	VideoIdeas []string         `json:"video_ideas"`
	GrowthTips []string         `json:"growth_tips"`
	VideoCount int              `json:"video_count"`
	CreatedAt  time.Time        `json:"created_at"`
}

// TextGenerator is the external text-generation collaborator. Complete
// sends one system instruction plus one user message and returns the raw
// model output; callers must tolerate arbitrary text coming back.
type TextGenerator interface {
	Complete(ctx context.Context, system, user string, opts GenerateOpts) (string, error)
}

// GenerateOpts tunes one generation call.
type GenerateOpts struct {
	Temperature float64
	MaxTokens   int
}

// Progress is one pipeline stage notification, published per run.
type Progress struct {
	RunID  string    `json:"run_id"`
	Stage  string    `json:"stage"`
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
}
