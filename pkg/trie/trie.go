/*
Package trie implements a pruning radix trie for frequency ranked prefix completion.

Terms are stored on a compressed prefix tree whose nodes live in a flat arena
and are addressed by int32 handles. Every node keeps two counters: its own
terminal frequency (zero for purely structural nodes) and the best terminal
frequency reachable through its children. Children are kept sorted by that
second counter, highest first, which lets a top-K query visit the most
promising subtree first and stop as soon as no remaining subtree can beat the
k-th result collected so far.

# Building

	t := trie.New()
	_ = t.Insert("test", 5)
	_ = t.Insert("team", 3)
	stats, err := t.Load(corpus, '\t')

# Querying

	results, prefixFreq := t.TopK("te", 10)

TopK returns at most k terms starting with the prefix, most frequent first.
The second return value is the frequency of the prefix itself when it is a
stored term. A k of zero enumerates every match without ranking.

# Concurrency

A Trie is not safe for concurrent mutation. Load it from a single goroutine;
once loading is done it may be queried from any number of goroutines as long
as nothing inserts again.
*/
package trie

import "github.com/cockroachdb/errors"

// ErrEmptyTerm is returned by Insert for a zero length term. The root never
// represents a term.
var ErrEmptyTerm = errors.New("trie: empty term")

const rootHandle int32 = 0

// Trie is a pruning radix trie. The zero value is not usable, use New.
type Trie struct {
	nodes       []node
	termCount   uint64
	loadedCount uint64
}

// New returns an empty trie holding only the root node.
func New() *Trie {
	nodes := make([]node, 1, 64)
	return &Trie{nodes: nodes}
}

// alloc appends a node with the given terminal frequency and returns its handle.
// Pointers into t.nodes are invalid after alloc.
func (t *Trie) alloc(freq uint64) int32 {
	t.nodes = append(t.nodes, node{freq: freq})
	return int32(len(t.nodes) - 1)
}

// TermCount is the number of distinct terms ever inserted.
func (t *Trie) TermCount() uint64 {
	return t.termCount
}

// LoadedTermCount is TermCount as of the last successful Load.
func (t *Trie) LoadedTermCount() uint64 {
	return t.loadedCount
}

// Dirty reports whether terms were added since the last successful Load.
// Frequency increments on existing terms do not make a trie dirty.
func (t *Trie) Dirty() bool {
	return t.loadedCount != t.termCount
}

// MarkClean records that a dump of terms terms reached storage, typically with
// the count a successful Dump returned. Terms added after that Dump keep the
// trie dirty. Dump does not do this by itself; call it once the dumped data is
// safely stored.
func (t *Trie) MarkClean(terms uint64) {
	t.loadedCount = terms
}

// NodeCount returns the number of nodes, root included.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}

// MaxFrequency returns the highest terminal frequency stored in the trie.
func (t *Trie) MaxFrequency() uint64 {
	return t.nodes[rootHandle].best
}

// Frequency returns the terminal frequency of term, or 0 if it is not stored.
func (t *Trie) Frequency(term string) uint64 {
	if term == "" {
		return 0
	}
	cur := rootHandle
	rest := term
	for {
		next := int32(-1)
		for _, e := range t.nodes[cur].children {
			if len(e.label) <= len(rest) && rest[:len(e.label)] == e.label {
				next = e.child
				rest = rest[len(e.label):]
				break
			}
		}
		if next < 0 {
			return 0
		}
		if rest == "" {
			return t.nodes[next].freq
		}
		cur = next
	}
}
