package trie

import (
	"slices"
	"strings"
)

// walkFunc receives a match during an unranked walk. term is only valid
// for the duration of the call.
type walkFunc func(term []byte, freq uint64) error

// search holds the state of one traversal.
type search struct {
	t       *Trie
	pruning bool
	acc     *Accumulator // nil for unranked walks
	visit   walkFunc     // receives every match when acc is nil
	exact   uint64
	term    []byte
}

// TopK returns the k most frequent terms starting with prefix, most frequent
// first, and the frequency of prefix itself if it is a stored term (else 0).
// With k <= 0 every match is returned in traversal order.
func (t *Trie) TopK(prefix string, k int) ([]Result, uint64) {
	return t.FindAllChildTerms(prefix, k, true)
}

// FindAllChildTerms is TopK with subtree pruning switchable. Without pruning
// every subtree under prefix is visited; the result set is the same but the
// order among equal frequencies may differ.
func (t *Trie) FindAllChildTerms(prefix string, k int, pruning bool) ([]Result, uint64) {
	s := &search{t: t, pruning: pruning, term: make([]byte, 0, 32)}
	if k > 0 {
		s.acc = NewAccumulator(k)
		_ = s.descend(rootHandle, prefix)
		return slices.Clone(s.acc.Results()), s.exact
	}

	var all []Result
	s.visit = func(term []byte, freq uint64) error {
		all = append(all, Result{Term: string(term), Frequency: freq})
		return nil
	}
	_ = s.descend(rootHandle, prefix)
	return all, s.exact
}

// Walk calls fn for every stored term starting with prefix, unranked. A non
// nil error from fn stops the walk and is returned. fn must not insert into t.
func (t *Trie) Walk(prefix string, fn func(term string, freq uint64) error) error {
	s := &search{t: t, pruning: true, term: make([]byte, 0, 32)}
	s.visit = func(term []byte, freq uint64) error {
		return fn(string(term), freq)
	}
	return s.descend(rootHandle, prefix)
}

// bounded reports whether the accumulator is full and its k-th frequency
// is at least freq, meaning nothing at or below freq can enter.
func (s *search) bounded(freq uint64) bool {
	return s.pruning && s.acc != nil && s.acc.Full() && freq <= s.acc.Floor()
}

func (s *search) emit(freq uint64) error {
	if s.acc != nil {
		if s.acc.Admits(freq) {
			s.acc.Offer(Result{Term: string(s.term), Frequency: freq})
		}
		return nil
	}
	return s.visit(s.term, freq)
}

// descend walks the children of n matching the unconsumed prefix. An empty
// prefix means every child is under the query.
func (s *search) descend(n int32, prefix string) error {
	if s.bounded(s.t.nodes[n].best) {
		return nil
	}
	noPrefix := prefix == ""

	for _, e := range s.t.nodes[n].children {
		child := &s.t.nodes[e.child]
		if s.bounded(child.freq) && s.bounded(child.best) {
			// Siblings are ordered by best only, so without a prefix a later
			// sibling may still carry a higher terminal frequency.
			if noPrefix {
				continue
			}
			break
		}

		switch {
		case noPrefix || strings.HasPrefix(e.label, prefix):
			mark := len(s.term)
			s.term = append(s.term, e.label...)
			if child.freq > 0 {
				if e.label == prefix {
					s.exact = child.freq
				}
				if err := s.emit(child.freq); err != nil {
					return err
				}
			}
			if len(child.children) > 0 {
				if err := s.descend(e.child, ""); err != nil {
					return err
				}
			}
			s.term = s.term[:mark]
			if !noPrefix {
				return nil
			}

		case strings.HasPrefix(prefix, e.label):
			mark := len(s.term)
			s.term = append(s.term, e.label...)
			err := s.descend(e.child, prefix[len(e.label):])
			s.term = s.term[:mark]
			return err
		}
	}
	return nil
}
