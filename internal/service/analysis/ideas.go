// internal/service/analysis/ideas.go

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

const ideasSystemPrompt = "You are a viral content strategist. Generate creative TikTok video ideas " +
	"in valid JSON format, one per line."

// IdeaGenerator produces short-form content ideas from the channel's
// topics and the current trending keywords.
type IdeaGenerator struct {
	gen domain.TextGenerator
}

// NewIdeaGenerator creates an idea generator.
func NewIdeaGenerator(gen domain.TextGenerator) *IdeaGenerator {
	return &IdeaGenerator{gen: gen}
}

// Generate asks the collaborator for n ideas and parses its line-JSON
// output. Missing or malformed output degrades to templated ideas built
// from the topics and trending keywords, never to an empty plan.
func (g *IdeaGenerator) Generate(ctx context.Context, topics, trending []string, n int) []domain.ContentIdea {
	if len(topics) == 0 {
		topics = []string{"lifestyle", "entertainment", "trending"}
	}
	if len(trending) == 0 {
		trending = []string{"viral", "fyp", "trending"}
	}

	raw, err := g.gen.Complete(ctx, ideasSystemPrompt, ideasPrompt(topics, trending, n),
		domain.GenerateOpts{Temperature: 0.7, MaxTokens: 2000})
	if err != nil {
		log.Printf("idea generation failed, using fallback ideas: %v", err)
		return fallbackIdeas(topics, trending, n)
	}

	var ideas []domain.ContentIdea
	for _, obj := range ParseJSONLines(raw) {
		var idea domain.ContentIdea
		if err := json.Unmarshal(obj, &idea); err != nil {
			continue
		}
		if idea.Hook == "" || idea.Content == "" || idea.CTA == "" || idea.Hashtags == nil {
			continue
		}
		ideas = append(ideas, idea)
		if len(ideas) >= n {
			break
		}
	}

	// Top up with templates when the collaborator came back short.
	min := n
	if min > 5 {
		min = 5
	}
	for len(ideas) < min {
		topic := topics[len(ideas)%len(topics)]
		term := trending[len(ideas)%len(trending)]
		ideas = append(ideas, domain.ContentIdea{
			Hook:     fmt.Sprintf("This %s trend is everywhere right now", topic),
			Content:  fmt.Sprintf("Create content showcasing %s with %s elements", topic, term),
			CTA:      "Drop a comment if you agree",
			Hashtags: []string{"fyp", "viral", compactTag(topic)},
		})
	}
	return ideas
}

// fallbackIdeas is the all-template plan used when the collaborator is
// unreachable.
func fallbackIdeas(topics, trending []string, n int) []domain.ContentIdea {
	if n > 5 {
		n = 5
	}
	ideas := make([]domain.ContentIdea, 0, n)
	for i := 0; i < n; i++ {
		topic := topics[i%len(topics)]
		term := trending[i%len(trending)]
		ideas = append(ideas, domain.ContentIdea{
			Hook:     fmt.Sprintf("Why %s creators are doing this now", topic),
			Content:  fmt.Sprintf("Film yourself exploring %s trends with %s approach", topic, term),
			CTA:      "Tell me your thoughts in the comments",
			Hashtags: []string{"fyp", "trending", compactTag(topic), "viral"},
		})
	}
	return ideas
}

func ideasPrompt(topics, trending []string, n int) string {
	return fmt.Sprintf(`Generate %d TikTok video ideas in JSON format. Each line should be a separate JSON object.

Channel focuses on: %s
Trending keywords to include: %s

For each idea, create a JSON with:
- hook: catchy 8-12 word title
- content: one sentence describing what to film
- cta: call-to-action for engagement
- hashtags: array of 3-5 relevant hashtags

Example format:
{"hook":"Why everyone is obsessed with this trend","content":"Film yourself trying the latest viral challenge","cta":"Comment if you've tried this","hashtags":["fyp","viral","trending"]}

Generate %d unique ideas now:`, n, joinFirst(topics, 3), joinFirst(trending, 3), n)
}

func joinFirst(list []string, n int) string {
	if len(list) > n {
		list = list[:n]
	}
	return strings.Join(list, ", ")
}

func compactTag(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), " ", "")
}
