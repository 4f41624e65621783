// internal/service/analysis/distiller.go

package analysis

import (
	"math"
	"sort"
	"strings"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

// DistillerConfig controls core keyword selection.
type DistillerConfig struct {
	CoreKeywords     int     // size of the distilled list
	MinVideoFraction float64 // document-frequency threshold as a fraction of items
}

// DefaultDistillerConfig returns the production distiller settings.
func DefaultDistillerConfig() DistillerConfig {
	return DistillerConfig{CoreKeywords: 5, MinVideoFraction: 0.15}
}

// fallbackEmptyInput is returned when there are no TagSets at all;
// fallbackNoneQualified when TagSets exist but no token clears the
// document-frequency threshold. Neither is ever empty.
var (
	fallbackEmptyInput    = []string{"content", "video", "trending"}
	fallbackNoneQualified = []string{"content", "video", "social"}
)

// DistillCoreKeywords merges every TagSet's topics, keywords and
// hashtags into word tokens and returns the strongest ones: tokens must
// appear in at least ceil(totalItems*MinVideoFraction) distinct items
// (floor 1), ranked by document frequency, then global occurrence
// count, then the token itself so equal counts always order the same
// way.
func DistillCoreKeywords(tagSets []domain.TagSet, filter *WordFilter, config DistillerConfig) []string {
	if len(tagSets) == 0 {
		return fallbackEmptyInput
	}
	if config.CoreKeywords <= 0 {
		config.CoreKeywords = 5
	}

	minHits := int(math.Ceil(float64(len(tagSets)) * config.MinVideoFraction))
	if minHits < 1 {
		minHits = 1
	}

	docHits := make(map[string]map[int]struct{})
	globalOcc := make(map[string]int)

	for idx, ts := range tagSets {
		terms := make([]string, 0, len(ts.Keywords)+len(ts.Topics)+len(ts.Hashtags))
		terms = append(terms, ts.Keywords...)
		terms = append(terms, ts.Topics...)
		terms = append(terms, ts.Hashtags...)

		for _, term := range terms {
			for _, tok := range wordRunPattern.FindAllString(strings.ToLower(term), -1) {
				if filter.IsStop(tok) || filter.IsGeo(tok) {
					continue
				}
				if len(tok) <= 2 || len(tok) >= 20 {
					continue
				}

				// Repeats within one item's bag count toward the global
				// tally but only once toward document frequency.
				globalOcc[tok]++
				hits, ok := docHits[tok]
				if !ok {
					hits = make(map[int]struct{})
					docHits[tok] = hits
				}
				hits[idx] = struct{}{}
			}
		}
	}

	qualified := make([]string, 0, len(docHits))
	for tok, hits := range docHits {
		if len(hits) >= minHits {
			qualified = append(qualified, tok)
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		a, b := qualified[i], qualified[j]
		if len(docHits[a]) != len(docHits[b]) {
			return len(docHits[a]) > len(docHits[b])
		}
		if globalOcc[a] != globalOcc[b] {
			return globalOcc[a] > globalOcc[b]
		}
		return a < b
	})

	if len(qualified) > config.CoreKeywords {
		qualified = qualified[:config.CoreKeywords]
	}
	if len(qualified) == 0 {
		return fallbackNoneQualified
	}
	return qualified
}
