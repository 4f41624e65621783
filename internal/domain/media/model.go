// internal/domain/media/model.go

package media

import (
	"context"
	"time"
)

// VideoPost represents one scraped video with its raw engagement counts.
// Likes and Comments keep the strings as they appeared on the page
// ("12.3K", "1,204"); ParseCount turns them into numbers on demand.
type VideoPost struct {
	URL      string `json:"url"`
	Likes    string `json:"likes"`
	Comments string `json:"comments"`
	Text     string `json:"description"`
}

// Profile holds profile-level stats for a TikTok account.
type Profile struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Followers      string `json:"followers"`
	Following      string `json:"following"`
	TotalLikes     string `json:"total_likes"`
	EngagementRate string `json:"engagement_rate"`
}

// ChannelInfo holds channel-level stats for a YouTube channel.
type ChannelInfo struct {
	ChannelID   string `json:"channel_id"`
	Name        string `json:"channel_name"`
	Subscribers string `json:"subscribers"`
	VideoCount  int    `json:"video_count"`
}

// ChannelVideo represents one scraped YouTube video row.
type ChannelVideo struct {
	Title      string `json:"title"`
	Views      string `json:"views"`
	UploadTime string `json:"upload_time"`
	URL        string `json:"url"`
}

// ProfileSource fetches a TikTok profile and its recent videos.
type ProfileSource interface {
	FetchProfile(ctx context.Context, username string) (Profile, []VideoPost, error)
}

// ChannelSource fetches a YouTube channel and its recent videos.
type ChannelSource interface {
	FetchChannel(ctx context.Context, channelID string) (ChannelInfo, []ChannelVideo, error)
}

// ScrapeResult records the outcome of a scrape run.
type ScrapeResult struct {
	Platform   string    `json:"platform"`
	Handle     string    `json:"handle"`
	VideoCount int       `json:"video_count"`
	CSVFile    string    `json:"csv_file"`
	ScrapedAt  time.Time `json:"scraped_at"`
}
