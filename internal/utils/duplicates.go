package utils

// SuggestionFilter drops repeated suggestions and the query word itself.
// It is not safe for concurrent use; build one per query.
type SuggestionFilter struct {
	seenWords map[string]struct{}
	fold      bool
}

// NewSuggestionFilter creates a filter that already excludes input. With fold
// set, words differing only in case count as duplicates.
func NewSuggestionFilter(input string, fold bool) *SuggestionFilter {
	f := &SuggestionFilter{
		seenWords: make(map[string]struct{}, 16),
		fold:      fold,
	}
	f.seenWords[f.key(input)] = struct{}{}
	return f
}

func (f *SuggestionFilter) key(word string) string {
	if f.fold {
		return FoldCase(word)
	}
	return word
}

// ShouldInclude checks if a word should be included in results (not a duplicate)
// Returns true if the word should be included, false if it's a duplicate
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	k := f.key(word)
	if _, seen := f.seenWords[k]; seen {
		return false
	}
	f.seenWords[k] = struct{}{}
	return true
}
