// internal/service/scraper/youtube.go

package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

var (
	subscriberTextPattern  = regexp.MustCompile(`"subscriberCountText":\s*{"simpleText":\s*"([^"]+)"`)
	subscriberPlainPattern = regexp.MustCompile(`(?i)(\d+\.?\d*[KM]?)\s*subscriber`)
	ytInitialDataPattern   = regexp.MustCompile(`(?s)var ytInitialData\s*=\s*(\{.*?\});\s*</script>`)
	channelTitlePattern    = regexp.MustCompile(`<title>([^<]+)</title>`)
	videoRendererPattern   = regexp.MustCompile(`"videoId":"([\w-]{11})"`)
	titleForVideoPattern   = regexp.MustCompile(`"title":\s*{"runs":\s*\[{"text":"((?:[^"\\]|\\.)*)"`)
)

// YouTubeScraper fetches a channel's videos page and extracts video
// metadata from the embedded initial data, with raw regex fallbacks.
type YouTubeScraper struct {
	HTTPClient  *http.Client
	BaseURL     string
	MaxVideos   int
	rateLimiter *rate.Limiter
}

// NewYouTubeScraper creates a scraper with sane defaults.
func NewYouTubeScraper() *YouTubeScraper {
	return &YouTubeScraper{
		HTTPClient:  &http.Client{Timeout: 20 * time.Second},
		BaseURL:     "https://www.youtube.com",
		MaxVideos:   20,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// gridVideo mirrors the fields we need from one video renderer inside
// ytInitialData.
type gridVideo struct {
	VideoID string
	Title   string
	Views   string
	Posted  string
}

// FetchChannel loads a channel's videos tab and returns channel stats
// plus its recent videos. Failed extractions produce placeholder rows
// so the video count stays honest.
func (s *YouTubeScraper) FetchChannel(ctx context.Context, channelID string) (media.ChannelInfo, []media.ChannelVideo, error) {
	channelID = strings.TrimPrefix(strings.TrimSpace(channelID), "@")
	info := media.ChannelInfo{
		ChannelID:   channelID,
		Name:        "N/A",
		Subscribers: "N/A",
	}
	if channelID == "" {
		return info, nil, fmt.Errorf("channel id is required")
	}

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return info, nil, err
	}
	home, err := s.fetchPage(ctx, fmt.Sprintf("%s/@%s", s.BaseURL, channelID))
	if err != nil {
		return info, nil, err
	}
	info.Name = channelName(home, channelID)
	info.Subscribers = subscriberCount(home)

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return info, nil, err
	}
	videosPage, err := s.fetchPage(ctx, fmt.Sprintf("%s/@%s/videos", s.BaseURL, channelID))
	if err != nil {
		return info, nil, err
	}

	grid := parseVideoGrid(videosPage, s.MaxVideos)
	if len(grid) == 0 {
		return info, nil, fmt.Errorf("no videos found on the channel")
	}

	videos := make([]media.ChannelVideo, 0, len(grid))
	for i, v := range grid {
		title := strings.TrimSpace(v.Title)
		if title == "" {
			title = fmt.Sprintf("Video %d (extraction failed)", i+1)
		}
		if len(title) > 200 {
			title = title[:200]
		}
		url := "N/A"
		if v.VideoID != "" {
			url = fmt.Sprintf("%s/watch?v=%s", s.BaseURL, v.VideoID)
		}
		videos = append(videos, media.ChannelVideo{
			Title:      title,
			Views:      orDefault(v.Views, "N/A"),
			UploadTime: orDefault(v.Posted, "N/A"),
			URL:        url,
		})
	}
	info.VideoCount = len(videos)
	return info, videos, nil
}

// parseVideoGrid decodes the ytInitialData blob; when it is missing or
// unparseable, falls back to pairing videoId and title matches from the
// raw source.
func parseVideoGrid(page string, max int) []gridVideo {
	if m := ytInitialDataPattern.FindStringSubmatch(page); m != nil {
		if grid := gridFromInitialData(m[1], max); len(grid) > 0 {
			return grid
		}
	}
	return gridFromSource(page, max)
}

func gridFromInitialData(raw string, max int) []gridVideo {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil
	}

	// The renderer tree is deep and versioned; walking it generically is
	// more robust than mirroring the full structure.
	var grid []gridVideo
	seen := map[string]bool{}
	var walk func(node json.RawMessage)
	walk = func(node json.RawMessage) {
		if len(grid) >= max {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(node, &obj); err == nil {
			for key, val := range obj {
				if key == "richItemRenderer" || key == "gridVideoRenderer" || key == "videoRenderer" {
					if v, ok := videoFromRenderer(val); ok && !seen[v.VideoID] {
						seen[v.VideoID] = true
						grid = append(grid, v)
						if len(grid) >= max {
							return
						}
						continue
					}
				}
				walk(val)
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(node, &arr); err == nil {
			for _, item := range arr {
				walk(item)
				if len(grid) >= max {
					return
				}
			}
		}
	}
	for _, val := range root {
		walk(val)
	}
	return grid
}

func videoFromRenderer(raw json.RawMessage) (gridVideo, bool) {
	var r struct {
		Content struct {
			VideoRenderer json.RawMessage `json:"videoRenderer"`
		} `json:"content"`
		VideoID json.RawMessage `json:"videoId"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return gridVideo{}, false
	}
	if len(r.Content.VideoRenderer) > 0 {
		return videoFromRenderer(r.Content.VideoRenderer)
	}

	var v struct {
		VideoID string `json:"videoId"`
		Title   struct {
			Runs []struct {
				Text string `json:"text"`
			} `json:"runs"`
		} `json:"title"`
		ViewCountText struct {
			SimpleText string `json:"simpleText"`
		} `json:"viewCountText"`
		PublishedTimeText struct {
			SimpleText string `json:"simpleText"`
		} `json:"publishedTimeText"`
	}
	if err := json.Unmarshal(raw, &v); err != nil || v.VideoID == "" {
		return gridVideo{}, false
	}
	var title string
	if len(v.Title.Runs) > 0 {
		title = v.Title.Runs[0].Text
	}
	return gridVideo{
		VideoID: v.VideoID,
		Title:   title,
		Views:   v.ViewCountText.SimpleText,
		Posted:  v.PublishedTimeText.SimpleText,
	}, true
}

// gridFromSource pairs videoId and title matches positionally. The
// pairing is approximate but beats returning nothing.
func gridFromSource(page string, max int) []gridVideo {
	ids := videoRendererPattern.FindAllStringSubmatch(page, -1)
	titles := titleForVideoPattern.FindAllStringSubmatch(page, -1)

	var grid []gridVideo
	seen := map[string]bool{}
	for i, m := range ids {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		v := gridVideo{VideoID: m[1]}
		if i < len(titles) {
			v.Title = unescapeJSON(titles[i][1])
		}
		grid = append(grid, v)
		if len(grid) >= max {
			break
		}
	}
	return grid
}

func channelName(page, channelID string) string {
	if m := channelTitlePattern.FindStringSubmatch(page); m != nil {
		name := strings.TrimSpace(strings.TrimSuffix(m[1], " - YouTube"))
		if name != "" {
			return name
		}
	}
	return channelID
}

func subscriberCount(page string) string {
	if m := subscriberTextPattern.FindStringSubmatch(page); m != nil {
		return m[1]
	}
	if m := subscriberPlainPattern.FindStringSubmatch(page); m != nil {
		return m[1] + " subscribers"
	}
	return "N/A"
}

func unescapeJSON(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

func (s *YouTubeScraper) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
