// internal/service/analysis/extractor.go

package analysis

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

// hashtagPattern extracts native #hashtags from a description.
var hashtagPattern = regexp.MustCompile(`#(\w{2,40})`)

// whitespacePattern collapses runs of whitespace before prompting.
var whitespacePattern = regexp.MustCompile(`\s+`)

const extractorSystemPrompt = "You are a social-media expert. For EACH video description, " +
	"analyze and return ONE JSON per line: " +
	`{"topics":["topic1","topic2"],"keywords":["keyword1","keyword2"]} ` +
	"Keep topics broad (like 'lifestyle', 'comedy', 'education'). " +
	"Keep keywords specific and relevant. No locations."

// ExtractorConfig controls batching toward the text-generation service.
type ExtractorConfig struct {
	BatchSize  int           // descriptions per request
	BatchDelay time.Duration // pause after each batch
	TrimChars  int           // max description length sent in a prompt
	MaxTokens  int
}

// DefaultExtractorConfig returns the production extractor settings.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		BatchSize:  6,
		BatchDelay: 1500 * time.Millisecond,
		TrimChars:  250,
		MaxTokens:  1500,
	}
}

// TagExtractor turns raw descriptions into TagSets by prompting the
// text-generation collaborator in small batches. Results are
// order-preserving and 1:1 with the input: when the collaborator
// returns fewer objects than the batch held, the tail of the batch
// degrades to the fallback TagSet, and a failed batch degrades whole
// while the run continues.
type TagExtractor struct {
	gen    domain.TextGenerator
	filter *WordFilter
	config ExtractorConfig
}

// NewTagExtractor creates a tag extractor.
func NewTagExtractor(gen domain.TextGenerator, filter *WordFilter, config ExtractorConfig) *TagExtractor {
	if config.BatchSize <= 0 {
		config.BatchSize = 6
	}
	return &TagExtractor{gen: gen, filter: filter, config: config}
}

// parsedTags is the shape of one line of collaborator output.
type parsedTags struct {
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`
}

// ExtractAll processes every description and returns one TagSet per
// input, in input order. It never fails the run: all errors degrade to
// fallback TagSets.
func (e *TagExtractor) ExtractAll(ctx context.Context, descriptions []string) []domain.TagSet {
	out := make([]domain.TagSet, 0, len(descriptions))

	for start := 0; start < len(descriptions); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(descriptions) {
			end = len(descriptions)
		}
		batch := descriptions[start:end]

		parsed, err := e.extractBatch(ctx, batch)
		if err != nil {
			log.Printf("tag extraction batch failed, using fallbacks: %v", err)
			for _, desc := range batch {
				out = append(out, fallbackTagSet(desc))
			}
			continue
		}

		// Positional pairing: result i belongs to batch item i. If the
		// collaborator skipped or reordered an item mid-batch the tags
		// land on the wrong description; only trailing omissions are
		// detected (they fall back).
		for i, desc := range batch {
			if i < len(parsed) {
				out = append(out, e.buildTagSet(desc, parsed[i]))
			} else {
				out = append(out, fallbackTagSet(desc))
			}
		}

		if e.config.BatchDelay > 0 {
			select {
			case <-time.After(e.config.BatchDelay):
			case <-ctx.Done():
				// Degrade the remaining descriptions and stop calling out.
				for _, desc := range descriptions[end:] {
					out = append(out, fallbackTagSet(desc))
				}
				return out
			}
		}
	}

	return out
}

// extractBatch sends one batch to the collaborator and parses its
// line-oriented output.
func (e *TagExtractor) extractBatch(ctx context.Context, batch []string) ([]parsedTags, error) {
	cleaned := make([]string, len(batch))
	for i, desc := range batch {
		if runes := []rune(desc); len(runes) > e.config.TrimChars {
			desc = string(runes[:e.config.TrimChars])
		}
		cleaned[i] = strings.TrimSpace(whitespacePattern.ReplaceAllString(desc, " "))
	}

	raw, err := e.gen.Complete(ctx, extractorSystemPrompt,
		"Descriptions:\n"+strings.Join(cleaned, "\n---\n"),
		domain.GenerateOpts{Temperature: 0.3, MaxTokens: e.config.MaxTokens})
	if err != nil {
		return nil, err
	}

	var parsed []parsedTags
	for _, obj := range ParseJSONLines(raw) {
		var p parsedTags
		if err := json.Unmarshal(obj, &p); err != nil {
			continue
		}
		if p.Topics == nil || p.Keywords == nil {
			continue
		}
		parsed = append(parsed, p)
	}
	return parsed, nil
}

// buildTagSet cleans the collaborator's keywords and merges in native
// hashtags from the original description.
func (e *TagExtractor) buildTagSet(desc string, p parsedTags) domain.TagSet {
	topics := p.Topics
	if len(topics) == 0 {
		topics = []string{"general"}
	}

	seen := make(map[string]struct{}, len(p.Keywords))
	keywords := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		if e.filter.IsGeo(kw) {
			continue
		}
		if len(strings.Fields(kw)) > 3 || len(kw) <= 2 {
			continue
		}
		keywords = append(keywords, kw)
	}

	return domain.TagSet{
		Text:     desc,
		Topics:   topics,
		Keywords: keywords,
		Hashtags: extractHashtags(desc),
	}
}

// fallbackTagSet is the deterministic TagSet used when extraction
// fails; hashtags still come from the description itself.
func fallbackTagSet(desc string) domain.TagSet {
	return domain.TagSet{
		Text:     desc,
		Topics:   []string{"general"},
		Keywords: []string{"content"},
		Hashtags: extractHashtags(desc),
	}
}

func extractHashtags(desc string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(desc, -1) {
		tags = append(tags, m[1])
	}
	return tags
}
