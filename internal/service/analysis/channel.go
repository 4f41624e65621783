// internal/service/analysis/channel.go

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

// titleColumns are the CSV column names tried, in order, when looking
// for video titles.
var titleColumns = []string{"title", "Title", "video_title", "name", "Name", "description", "Description"}

// extractionArtifact matches placeholder titles written by the scraper
// when a video could not be read.
var extractionArtifact = regexp.MustCompile(`^Video \d+\s*\(extraction failed\)`)

// bulletPrefix normalizes numbered or bulleted list lines from model
// output.
var bulletPrefix = regexp.MustCompile(`^[\d.\-•*\s]+`)

// fallbackSignature is used when signature extraction keeps failing.
var fallbackSignature = domain.ChannelSignature{
	Vibes:    []string{"creative", "engaging", "informative"},
	Topics:   []string{"entertainment", "lifestyle", "trending"},
	Keywords: []string{"content", "video", "youtube", "creator"},
}

// ChannelAnalyzer derives a YouTube channel's signature and growth plan
// from its video titles.
type ChannelAnalyzer struct {
	gen        domain.TextGenerator
	retryDelay time.Duration
}

// NewChannelAnalyzer creates a channel analyzer.
func NewChannelAnalyzer(gen domain.TextGenerator) *ChannelAnalyzer {
	return &ChannelAnalyzer{gen: gen, retryDelay: time.Second}
}

// TitlesFromCSV picks the title column out of a parsed CSV (trying the
// well-known names first, then the first column) and drops placeholder
// or junk titles. It returns an error only when nothing usable remains.
func TitlesFromCSV(header []string, rows [][]string) ([]string, error) {
	col := -1
	for _, candidate := range titleColumns {
		for i, name := range header {
			if strings.TrimSpace(name) == candidate {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		if len(header) == 0 {
			return nil, fmt.Errorf("no columns found in CSV")
		}
		col = 0
	}

	var titles []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		t := strings.TrimSpace(row[col])
		if t == "" {
			continue
		}
		switch strings.ToLower(t) {
		case "nan", "none", "null":
			continue
		}
		titles = append(titles, t)
	}

	var valid []string
	for _, t := range titles {
		cleaned := strings.TrimSpace(extractionArtifact.ReplaceAllString(t, ""))
		if len(cleaned) <= 5 {
			continue
		}
		switch strings.ToLower(cleaned) {
		case "untitled video", "sample video", "video":
			continue
		}
		valid = append(valid, cleaned)
	}

	// Everything looked generic: keep the originals rather than fail.
	if len(valid) == 0 {
		for _, t := range titles {
			if len(strings.TrimSpace(t)) > 3 {
				valid = append(valid, t)
			}
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid video titles found")
	}
	return valid, nil
}

// Signature extracts the channel's vibes, topics and keywords from its
// titles, retrying up to three times before settling on the fallback.
func (a *ChannelAnalyzer) Signature(ctx context.Context, titles []string) domain.ChannelSignature {
	sample := titles
	if len(sample) > 50 {
		sample = sample[:50]
	}

	for attempt := 1; attempt <= 3; attempt++ {
		raw, err := a.gen.Complete(ctx,
			"You are a YouTube analytics expert. Return exactly one JSON object and nothing else.",
			signaturePrompt(sample),
			domain.GenerateOpts{Temperature: 0.7, MaxTokens: 1000})
		if err == nil {
			var sig domain.ChannelSignature
			if parseErr := parseJSONObject(raw, &sig); parseErr == nil &&
				len(sig.Vibes) > 0 && len(sig.Topics) > 0 && len(sig.Keywords) > 0 {
				return sig
			}
			log.Printf("channel signature attempt %d returned unusable output", attempt)
		} else {
			log.Printf("channel signature attempt %d failed: %v", attempt, err)
		}

		if attempt < 3 {
			select {
			case <-time.After(a.retryDelay):
			case <-ctx.Done():
				return fallbackSignature
			}
		}
	}
	return fallbackSignature
}

// VideoIdeas generates up to n actionable video topics for the channel.
func (a *ChannelAnalyzer) VideoIdeas(ctx context.Context, topics, vibes []string, n int) []string {
	prompt := fmt.Sprintf(`You are a creative strategist for a YouTube channel with these characteristics:
VIBES: %s
TOPICS: %s

Generate %d specific, actionable video topic ideas that:
1. Align with the channel's established topics and style
2. Are practical to film and produce
3. Have strong viewer appeal potential
4. Are 5-15 words each

Format as a simple bulleted list with no extra commentary.`,
		strings.Join(vibes, ", "), strings.Join(topics, ", "), n)

	raw, err := a.gen.Complete(ctx, "", prompt, domain.GenerateOpts{Temperature: 0.8, MaxTokens: 800})
	if err != nil {
		log.Printf("video idea generation failed: %v", err)
		var ideas []string
		for _, topic := range firstN(topics, 5) {
			ideas = append(ideas,
				fmt.Sprintf("• How to master %s in 2025", topic),
				fmt.Sprintf("• %s tips everyone should know", topic))
		}
		return firstN(ideas, n)
	}
	return firstN(parseBulletList(raw), n)
}

// GrowthTips generates up to steps actionable growth strategies.
func (a *ChannelAnalyzer) GrowthTips(ctx context.Context, topics, vibes []string, steps int) []string {
	prompt := fmt.Sprintf(`You are a senior YouTube growth consultant with proven track record.

Channel Profile:
- TOPICS: %s
- VIBES: %s

Provide %d specific, actionable growth strategies that are:
1. Tailored to this channel's niche and style
2. Implementable within 30 days
3. Based on current YouTube best practices
4. 25 words or less each

Format as bulleted list, no fluff or explanations.`,
		strings.Join(topics, ", "), strings.Join(vibes, ", "), steps)

	raw, err := a.gen.Complete(ctx, "", prompt, domain.GenerateOpts{Temperature: 0.6, MaxTokens: 600})
	if err != nil {
		log.Printf("growth tip generation failed: %v", err)
		return firstN([]string{
			"• Optimize thumbnails with bold text and bright colors",
			"• Upload consistently on the same days each week",
			"• Engage with comments within first 2 hours of posting",
			"• Create series or playlists around your main topics",
			"• Collaborate with creators in similar niches",
		}, steps)
	}
	return firstN(parseBulletList(raw), steps)
}

func signaturePrompt(titles []string) string {
	sample := firstN(titles, 30)
	encoded, _ := json.MarshalIndent(sample, "", "  ")
	return fmt.Sprintf(`You are an elite YouTube content analyst.
Analyze these video titles and extract the channel's signature elements.

Video titles: %s

Return ONLY valid JSON with these exact keys:
- "vibes": 3-5 descriptive words about the channel's personality/style
- "topics": 5-8 main subject areas the channel covers
- "keywords": 8-12 important terms that define the channel's niche

Example format:
{
    "vibes": ["educational", "entertaining", "accessible"],
    "topics": ["science", "physics", "experiments"],
    "keywords": ["research", "discovery", "explanation"]
}`, encoded)
}

// parseJSONObject strips code fences and decodes the substring between
// the first '{' and the last '}'.
func parseJSONObject(raw string, v interface{}) error {
	cleaned := strings.TrimSpace(stripFences(raw))
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object found in output")
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), v)
}

// parseBulletList normalizes model output into clean bullet lines.
func parseBulletList(raw string) []string {
	var items []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		clean := strings.TrimSpace("• " + bulletPrefix.ReplaceAllString(line, ""))
		if clean == "•" || utf8.RuneCountInString(clean) <= 3 {
			continue
		}
		items = append(items, clean)
	}
	return items
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
