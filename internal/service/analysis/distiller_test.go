// internal/service/analysis/distiller_test.go

package analysis

import (
	"reflect"
	"testing"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

func tagSetsWithKeyword(kw string, n int) []domain.TagSet {
	sets := make([]domain.TagSet, n)
	for i := range sets {
		sets[i] = domain.TagSet{Keywords: []string{kw}}
	}
	return sets
}

func TestDistillThreshold(t *testing.T) {
	// 10 items, fraction 0.15 -> threshold ceil(1.5) = 2 distinct items.
	sets := make([]domain.TagSet, 10)
	sets[0] = domain.TagSet{Keywords: []string{"sourdough", "baking"}}
	sets[1] = domain.TagSet{Keywords: []string{"sourdough"}}
	sets[2] = domain.TagSet{Keywords: []string{"baking"}}
	for i := 3; i < 10; i++ {
		sets[i] = domain.TagSet{Keywords: []string{"filler" + string(rune('a'+i))}}
	}

	got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), DefaultDistillerConfig())
	if !reflect.DeepEqual(got, []string{"baking", "sourdough"}) {
		t.Errorf("got %v, want [baking sourdough]", got)
	}
}

func TestDistillOrdering(t *testing.T) {
	// alpha: 3 docs. beta: 2 docs, 4 occurrences. gamma: 2 docs, 2
	// occurrences. Ties on doc count break by global count, then name.
	sets := []domain.TagSet{
		{Keywords: []string{"alpha", "beta", "beta", "gamma"}},
		{Keywords: []string{"alpha", "beta", "beta", "gamma"}},
		{Keywords: []string{"alpha", "delta"}},
	}
	cfg := DistillerConfig{CoreKeywords: 5, MinVideoFraction: 0.5}

	got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), cfg)
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDistillDeterministic(t *testing.T) {
	sets := []domain.TagSet{
		{Keywords: []string{"zebra", "apple", "mango"}},
		{Keywords: []string{"zebra", "apple", "mango"}},
	}
	cfg := DistillerConfig{CoreKeywords: 2, MinVideoFraction: 0.5}

	first := DistillCoreKeywords(sets, NewWordFilter(nil, nil), cfg)
	for i := 0; i < 10; i++ {
		if got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), cfg); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
	// All tied, so alphabetical: apple, mango.
	if !reflect.DeepEqual(first, []string{"apple", "mango"}) {
		t.Errorf("tie ordering wrong: %v", first)
	}
}

func TestDistillMergesAllTagFields(t *testing.T) {
	sets := []domain.TagSet{
		{Topics: []string{"cooking"}, Keywords: []string{"airfryer"}, Hashtags: []string{"mealprep"}},
		{Topics: []string{"cooking"}, Keywords: []string{"airfryer"}, Hashtags: []string{"mealprep"}},
	}
	got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), DefaultDistillerConfig())

	for _, want := range []string{"cooking", "airfryer", "mealprep"} {
		found := false
		for _, tok := range got {
			if tok == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q in %v", want, got)
		}
	}
}

func TestDistillFiltersTokens(t *testing.T) {
	long := "supercalifragilistic" // 20 chars, excluded
	sets := []domain.TagSet{
		{Keywords: []string{"the", "omaha", "ab", long, "valid"}},
		{Keywords: []string{"the", "omaha", "ab", long, "valid"}},
	}
	got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), DefaultDistillerConfig())
	if !reflect.DeepEqual(got, []string{"valid"}) {
		t.Errorf("got %v, want [valid]", got)
	}
}

func TestDistillFallbacks(t *testing.T) {
	got := DistillCoreKeywords(nil, NewWordFilter(nil, nil), DefaultDistillerConfig())
	if !reflect.DeepEqual(got, []string{"content", "video", "trending"}) {
		t.Errorf("empty input fallback wrong: %v", got)
	}

	// TagSets present but every token filtered out.
	sets := []domain.TagSet{{Keywords: []string{"the", "ab"}}}
	got = DistillCoreKeywords(sets, NewWordFilter(nil, nil), DefaultDistillerConfig())
	if !reflect.DeepEqual(got, []string{"content", "video", "social"}) {
		t.Errorf("none-qualified fallback wrong: %v", got)
	}
}

func TestDistillCapsAtConfiguredCount(t *testing.T) {
	sets := []domain.TagSet{
		{Keywords: []string{"one", "two", "three", "four", "five", "six", "seven"}},
	}
	cfg := DistillerConfig{CoreKeywords: 3, MinVideoFraction: 0.15}
	got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), cfg)
	if len(got) != 3 {
		t.Errorf("expected 3 keywords, got %v", got)
	}
}

func TestDistillPhrasesTokenize(t *testing.T) {
	sets := tagSetsWithKeyword("quick dinner ideas", 2)
	got := DistillCoreKeywords(sets, NewWordFilter(nil, nil), DefaultDistillerConfig())
	// The phrase splits into word tokens.
	want := map[string]bool{"quick": true, "dinner": true, "ideas": true}
	for _, tok := range got {
		if !want[tok] {
			t.Errorf("unexpected token %q in %v", tok, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 tokens, got %v", got)
	}
}
