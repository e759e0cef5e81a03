// Package suggest turns a pruning radix trie into a completion engine: case
// folding with the query's capitals re-applied, frequency thresholds, removal
// of the query word itself and a prefix result cache.
package suggest

import (
	"io"

	"github.com/bastiangx/wordtrie/pkg/trie"
)

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns suggestions for a given prefix with a limit
	Complete(prefix string, limit int) []Suggestion

	// CompleteWithFrequency also reports the frequency of the prefix itself
	CompleteWithFrequency(prefix string, limit int) ([]Suggestion, uint64)

	// AddWord adds count to the frequency of word
	AddWord(word string, count uint64) error

	// Load bulk inserts "term<sep>count" lines
	Load(r io.Reader, sep rune) (trie.LoadStats, error)

	// Dump writes every stored term when anything was added since loading
	Dump(w io.Writer, sep rune) (int, error)

	// Dirty reports unsaved additions; MarkClean clears it after a save
	Dirty() bool
	MarkClean(terms uint64)

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}

var _ ICompleter = (*Completer)(nil)
