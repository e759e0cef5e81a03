package trie

import (
	"slices"
	"sort"
)

// Result is a stored term and its frequency.
type Result struct {
	Term      string
	Frequency uint64
}

// Accumulator keeps the k most frequent results offered to it, most frequent
// first. Among equal frequencies the most recently offered result ranks first.
type Accumulator struct {
	k       int
	results []Result
}

// NewAccumulator returns an empty accumulator bounded to k results. k must be
// positive.
func NewAccumulator(k int) *Accumulator {
	return &Accumulator{k: k, results: make([]Result, 0, min(k, 64))}
}

// Full reports whether k results are held.
func (a *Accumulator) Full() bool {
	return len(a.results) >= a.k
}

// Floor returns the frequency of the k-th result, or 0 while not full.
func (a *Accumulator) Floor() uint64 {
	if !a.Full() {
		return 0
	}
	return a.results[a.k-1].Frequency
}

// Admits reports whether a result with freq would be kept.
func (a *Accumulator) Admits(freq uint64) bool {
	return !a.Full() || freq >= a.results[a.k-1].Frequency
}

// Offer inserts r at its ranked position and drops the lowest result if the
// accumulator overflows. It reports whether r was kept.
func (a *Accumulator) Offer(r Result) bool {
	if !a.Admits(r.Frequency) {
		return false
	}
	// first position whose frequency is not greater than r's: ahead of ties
	i := sort.Search(len(a.results), func(i int) bool {
		return a.results[i].Frequency <= r.Frequency
	})
	a.results = slices.Insert(a.results, i, r)
	if len(a.results) > a.k {
		a.results = a.results[:a.k]
	}
	return true
}

// Len returns the number of results held.
func (a *Accumulator) Len() int {
	return len(a.results)
}

// Results returns the held results, most frequent first. The slice is owned
// by the accumulator.
func (a *Accumulator) Results() []Result {
	return a.results
}
