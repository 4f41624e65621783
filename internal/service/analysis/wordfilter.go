// internal/service/analysis/wordfilter.go

package analysis

import (
	"regexp"
	"strings"
)

// wordRunPattern matches runs of lowercase letters within a phrase.
var wordRunPattern = regexp.MustCompile(`[a-z]+`)

// DefaultGeoTerms is the built-in set of geography words excluded from
// keyword sets. Matching is per constituent word, not phrase equality.
var DefaultGeoTerms = []string{
	"omaha", "papillion", "council", "bluffs", "nebraska", "kansas",
	"texas", "california", "florida", "illinois", "newyork", "york",
	"alberta", "ontario", "london", "sydney", "melbourne", "delhi",
	"mumbai",
}

// DefaultStopWords is the built-in English stopword set. It is consulted
// only by the keyword distiller, never by per-item keyword cleaning.
var DefaultStopWords = []string{
	"the", "a", "an", "and", "or", "for", "of", "to", "in", "with",
	"on", "at", "by", "near", "me", "my", "your", "our", "this",
	"that", "it", "is", "are", "was", "were",
}

// WordFilter classifies tokens as geography terms or stopwords. Both
// sets are fixed at construction so tests and callers can vary them
// without touching package state.
type WordFilter struct {
	geo  map[string]struct{}
	stop map[string]struct{}
}

// NewWordFilter builds a filter from the given word sets. Nil slices
// select the defaults.
func NewWordFilter(geoTerms, stopWords []string) *WordFilter {
	if geoTerms == nil {
		geoTerms = DefaultGeoTerms
	}
	if stopWords == nil {
		stopWords = DefaultStopWords
	}

	f := &WordFilter{
		geo:  make(map[string]struct{}, len(geoTerms)),
		stop: make(map[string]struct{}, len(stopWords)),
	}
	for _, w := range geoTerms {
		f.geo[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range stopWords {
		f.stop[strings.ToLower(w)] = struct{}{}
	}
	return f
}

// IsGeo reports whether any word in the phrase is a geography term.
func (f *WordFilter) IsGeo(phrase string) bool {
	for _, tok := range wordRunPattern.FindAllString(strings.ToLower(phrase), -1) {
		if _, ok := f.geo[tok]; ok {
			return true
		}
	}
	return false
}

// IsStop reports whether the token is a stopword.
func (f *WordFilter) IsStop(token string) bool {
	_, ok := f.stop[strings.ToLower(token)]
	return ok
}
