// internal/service/scraper/tiktok.go

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

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// sigiStatePattern finds the embedded application state on TikTok pages.
var sigiStatePattern = regexp.MustCompile(`(?s)<script id="SIGI_STATE"[^>]*>(.*?)</script>`)

// universalDataPattern is the newer embedded state container.
var universalDataPattern = regexp.MustCompile(`(?s)<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__"[^>]*>(.*?)</script>`)

var (
	tiktokVideoLinkPattern = regexp.MustCompile(`/@[\w.\-]+/video/(\d+)`)
	followerCountPattern   = regexp.MustCompile(`"followerCount":\s*(\d+)`)
	followingCountPattern  = regexp.MustCompile(`"followingCount":\s*(\d+)`)
	heartCountPattern      = regexp.MustCompile(`"heartCount":\s*(\d+)`)
	nicknamePattern        = regexp.MustCompile(`"nickname":\s*"([^"]+)"`)
)

// TikTokScraper fetches public TikTok profile pages and pulls video
// metadata out of the embedded application state, falling back to raw
// page-source regexes when the state blob is missing.
type TikTokScraper struct {
	HTTPClient  *http.Client
	BaseURL     string
	MaxVideos   int
	rateLimiter *rate.Limiter
}

// NewTikTokScraper creates a scraper with sane defaults.
func NewTikTokScraper() *TikTokScraper {
	return &TikTokScraper{
		HTTPClient:  &http.Client{Timeout: 20 * time.Second},
		BaseURL:     "https://www.tiktok.com",
		MaxVideos:   15,
		rateLimiter: rate.NewLimiter(rate.Every(1500*time.Millisecond), 2),
	}
}

// itemRecord mirrors one entry of the embedded ItemModule map.
type itemRecord struct {
	ID    string `json:"id"`
	Desc  string `json:"desc"`
	Stats struct {
		DiggCount    json.Number `json:"diggCount"`
		CommentCount json.Number `json:"commentCount"`
	} `json:"stats"`
}

// FetchProfile loads a profile page and returns the profile stats plus
// its recent videos. The engagement rate is estimated from likes and
// comments since TikTok does not expose view counts on profile pages.
func (s *TikTokScraper) FetchProfile(ctx context.Context, username string) (media.Profile, []media.VideoPost, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	profile := media.Profile{
		Username:       username,
		Name:           username,
		Followers:      "N/A",
		Following:      "N/A",
		TotalLikes:     "N/A",
		EngagementRate: "N/A",
	}
	if username == "" {
		return profile, nil, fmt.Errorf("username is required")
	}

	page, err := s.fetchPage(ctx, fmt.Sprintf("%s/@%s", s.BaseURL, username))
	if err != nil {
		return profile, nil, err
	}

	if state, ok := embeddedState(page); ok {
		fillProfileFromState(&profile, state)
	}
	// Counts may only appear in raw source on some page variants.
	fillProfileFromSource(&profile, page)

	posts := s.postsFromState(page, username)
	if len(posts) == 0 {
		posts, err = s.postsFromLinks(ctx, page, username)
		if err != nil {
			return profile, nil, err
		}
	}
	if len(posts) == 0 {
		return profile, nil, fmt.Errorf("no videos found, profile may be private or not exist")
	}
	if len(posts) > s.MaxVideos {
		posts = posts[:s.MaxVideos]
	}

	profile.EngagementRate = estimateEngagementRate(posts)
	return profile, posts, nil
}

// postsFromState extracts videos from the embedded ItemModule map.
func (s *TikTokScraper) postsFromState(page, username string) []media.VideoPost {
	state, ok := embeddedState(page)
	if !ok {
		return nil
	}
	var outer struct {
		ItemModule map[string]itemRecord `json:"ItemModule"`
	}
	if err := json.Unmarshal(state, &outer); err != nil || len(outer.ItemModule) == 0 {
		return nil
	}

	var posts []media.VideoPost
	for _, item := range outer.ItemModule {
		posts = append(posts, media.VideoPost{
			URL:      fmt.Sprintf("%s/@%s/video/%s", s.BaseURL, username, item.ID),
			Likes:    numberOrZero(item.Stats.DiggCount),
			Comments: numberOrZero(item.Stats.CommentCount),
			Text:     orDefault(item.Desc, "N/A"),
		})
	}
	return posts
}

// postsFromLinks falls back to per-video page fetches when the profile
// page carried no embedded items.
func (s *TikTokScraper) postsFromLinks(ctx context.Context, page, username string) ([]media.VideoPost, error) {
	ids := map[string]bool{}
	var order []string
	for _, m := range tiktokVideoLinkPattern.FindAllStringSubmatch(page, -1) {
		if !ids[m[1]] {
			ids[m[1]] = true
			order = append(order, m[1])
		}
		if len(order) >= s.MaxVideos {
			break
		}
	}

	var posts []media.VideoPost
	for _, id := range order {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return posts, err
		}
		url := fmt.Sprintf("%s/@%s/video/%s", s.BaseURL, username, id)
		post, err := s.fetchVideo(ctx, url)
		if err != nil {
			// Keep the slot so the run reflects every discovered video.
			posts = append(posts, media.VideoPost{URL: url, Likes: "0", Comments: "0", Text: "Failed to extract"})
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// fetchVideo loads one video page and pulls its description and counts.
func (s *TikTokScraper) fetchVideo(ctx context.Context, url string) (media.VideoPost, error) {
	page, err := s.fetchPage(ctx, url)
	if err != nil {
		return media.VideoPost{}, err
	}
	post := media.VideoPost{URL: url, Likes: "0", Comments: "0", Text: "N/A"}

	if state, ok := embeddedState(page); ok {
		var outer struct {
			ItemModule map[string]itemRecord `json:"ItemModule"`
		}
		if err := json.Unmarshal(state, &outer); err == nil {
			for _, item := range outer.ItemModule {
				post.Likes = numberOrZero(item.Stats.DiggCount)
				post.Comments = numberOrZero(item.Stats.CommentCount)
				post.Text = orDefault(item.Desc, "N/A")
				return post, nil
			}
		}
	}

	if m := regexp.MustCompile(`"diggCount":\s*(\d+)`).FindStringSubmatch(page); m != nil {
		post.Likes = m[1]
	}
	if m := regexp.MustCompile(`"commentCount":\s*(\d+)`).FindStringSubmatch(page); m != nil {
		post.Comments = m[1]
	}
	if m := regexp.MustCompile(`"desc":\s*"([^"]+)"`).FindStringSubmatch(page); m != nil {
		post.Text = m[1]
	}
	return post, nil
}

func (s *TikTokScraper) fetchPage(ctx context.Context, url string) (string, error) {
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

// embeddedState returns the JSON application state embedded in the page.
func embeddedState(page string) (json.RawMessage, bool) {
	if m := sigiStatePattern.FindStringSubmatch(page); m != nil {
		return json.RawMessage(m[1]), true
	}
	if m := universalDataPattern.FindStringSubmatch(page); m != nil {
		return json.RawMessage(m[1]), true
	}
	return nil, false
}

func fillProfileFromState(profile *media.Profile, state json.RawMessage) {
	var outer struct {
		UserModule struct {
			Users map[string]struct {
				Nickname string `json:"nickname"`
			} `json:"users"`
			Stats map[string]struct {
				FollowerCount  json.Number `json:"followerCount"`
				FollowingCount json.Number `json:"followingCount"`
				HeartCount     json.Number `json:"heartCount"`
			} `json:"stats"`
		} `json:"UserModule"`
	}
	if err := json.Unmarshal(state, &outer); err != nil {
		return
	}
	for _, u := range outer.UserModule.Users {
		if u.Nickname != "" {
			profile.Name = u.Nickname
		}
		break
	}
	for _, st := range outer.UserModule.Stats {
		profile.Followers = numberOrDefault(st.FollowerCount, profile.Followers)
		profile.Following = numberOrDefault(st.FollowingCount, profile.Following)
		profile.TotalLikes = numberOrDefault(st.HeartCount, profile.TotalLikes)
		break
	}
}

func fillProfileFromSource(profile *media.Profile, page string) {
	if profile.Followers == "N/A" {
		if m := followerCountPattern.FindStringSubmatch(page); m != nil {
			profile.Followers = m[1]
		}
	}
	if profile.Following == "N/A" {
		if m := followingCountPattern.FindStringSubmatch(page); m != nil {
			profile.Following = m[1]
		}
	}
	if profile.TotalLikes == "N/A" {
		if m := heartCountPattern.FindStringSubmatch(page); m != nil {
			profile.TotalLikes = m[1]
		}
	}
	if profile.Name == profile.Username {
		if m := nicknamePattern.FindStringSubmatch(page); m != nil {
			profile.Name = m[1]
		}
	}
}

// estimateEngagementRate computes (likes+comments)/views*100 with views
// estimated at 12x likes.
func estimateEngagementRate(posts []media.VideoPost) string {
	var totalLikes, totalComments int64
	for _, p := range posts {
		totalLikes += media.ParseCount(p.Likes)
		totalComments += media.ParseCount(p.Comments)
	}
	estimatedViews := totalLikes * 12
	if estimatedViews <= 0 {
		return "N/A"
	}
	pct := float64(totalLikes+totalComments) / float64(estimatedViews) * 100
	return fmt.Sprintf("%.2f%%", pct)
}

func numberOrZero(n json.Number) string {
	if n.String() == "" {
		return "0"
	}
	return n.String()
}

func numberOrDefault(n json.Number, def string) string {
	if n.String() == "" {
		return def
	}
	return n.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
