package suggest

import (
	"io"
	"sync"
	"time"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// Suggestion is one completion, with the casing of the query re-applied.
type Suggestion struct {
	Word      string
	Frequency uint64
}

// Options tune a Completer.
type Options struct {
	// Normalize composes terms and queries to NFC.
	Normalize bool
	// FoldCase stores terms lower cased and re-applies query capitals to
	// the suggestions.
	FoldCase bool
	// MinFrequency drops suggestions below it.
	MinFrequency uint64
	// MinFrequencyShortPrefix replaces MinFrequency for prefixes of up to
	// two runes and repetitive ones.
	MinFrequencyShortPrefix uint64
	// CacheSize is the number of prefixes whose answers are cached; 0
	// disables caching.
	CacheSize int
}

// DefaultOptions matches the built-in dictionary config.
func DefaultOptions() Options {
	return Options{Normalize: true, FoldCase: true, CacheSize: 1024}
}

// Completer answers completion queries from a pruning radix trie. Reads may
// run concurrently; AddWord and LoadCorpus take the write lock.
type Completer struct {
	mu    sync.RWMutex
	trie  *trie.Trie
	cache *ResultCache
	opts  Options
}

// NewCompleter returns an empty completer.
func NewCompleter(opts Options) *Completer {
	c := &Completer{trie: trie.New(), opts: opts}
	if opts.CacheSize > 0 {
		cache, err := NewResultCache(opts.CacheSize)
		if err != nil {
			log.Warnf("Result cache disabled: %v", err)
		} else {
			c.cache = cache
		}
	}
	return c
}

// Options returns the options the completer was built with.
func (c *Completer) Options() Options {
	return c.opts
}

// AddWord adds count to the frequency of word after normalisation.
func (c *Completer) AddWord(word string, count uint64) error {
	word = utils.NormalizeTerm(word, c.opts.Normalize, c.opts.FoldCase)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.trie.Insert(word, count); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Invalidate(word)
	}
	return nil
}

// Load bulk inserts "term<sep>count" lines from r. The completer's
// normalisation is applied to the stream.
func (c *Completer) Load(r io.Reader, sep rune) (trie.LoadStats, error) {
	r = utils.NormalizingReader(r, c.opts.Normalize, c.opts.FoldCase)

	c.mu.Lock()
	defer c.mu.Unlock()
	start := time.Now()
	stats, err := c.trie.Load(r, sep)
	if c.cache != nil {
		c.cache.Purge()
	}
	log.Debugf("Loaded %d of %d lines in %s (%d terms total)",
		stats.Inserted, stats.Lines, time.Since(start), c.trie.TermCount())
	return stats, err
}

// Dump writes the stored terms to w when anything changed since the last
// load. See trie.Trie.Dump.
func (c *Completer) Dump(w io.Writer, sep rune) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.Dump(w, sep)
}

// Dirty reports whether terms were added since the last complete load.
func (c *Completer) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.Dirty()
}

// MarkClean records a completed save of terms terms. See trie.Trie.MarkClean.
func (c *Completer) MarkClean(terms uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trie.MarkClean(terms)
}

// Complete returns up to limit suggestions for prefix, most frequent first.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	suggestions, _ := c.CompleteWithFrequency(prefix, limit)
	return suggestions
}

// CompleteWithFrequency is Complete plus the frequency of prefix itself when
// it is a stored term. The prefix never appears among its own suggestions.
func (c *Completer) CompleteWithFrequency(prefix string, limit int) ([]Suggestion, uint64) {
	if limit <= 0 {
		return []Suggestion{}, 0
	}

	lookup := utils.NormalizeTerm(prefix, c.opts.Normalize, false)
	var caps *utils.CapitalInfo
	if c.opts.FoldCase {
		lookup, caps = utils.ProcessCapitals(lookup)
		defer caps.Release()
	}

	// one extra in case the prefix itself ranks among the results
	ranked, exact := c.lookup(lookup, limit+1)

	threshold := c.opts.MinFrequency
	if utils.IsShortPrefix(lookup) && c.opts.MinFrequencyShortPrefix > threshold {
		threshold = c.opts.MinFrequencyShortPrefix
	}

	filter := utils.NewSuggestionFilter(lookup, c.opts.FoldCase)
	suggestions := make([]Suggestion, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		if len(suggestions) == limit || r.Frequency < threshold {
			break
		}
		if !filter.ShouldInclude(r.Term) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Word:      utils.ApplyCapitals(r.Term, caps),
			Frequency: r.Frequency,
		})
	}
	return suggestions, exact
}

// lookup answers from the cache when it can, else from the trie. The read
// lock is held across the cache fill so an AddWord cannot slip between the
// trie read and the Put.
func (c *Completer) lookup(prefix string, k int) ([]trie.Result, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cache != nil {
		if results, exact, ok := c.cache.Get(prefix, k); ok {
			return results, exact
		}
	}
	results, exact := c.trie.TopK(prefix, k)
	if c.cache != nil {
		c.cache.Put(prefix, k, results, exact)
	}
	return results, exact
}

// Stats returns statistics about the loaded dictionary
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	stats := map[string]int{
		"totalWords":   int(c.trie.TermCount()),
		"loadedWords":  int(c.trie.LoadedTermCount()),
		"maxFrequency": int(c.trie.MaxFrequency()),
		"nodes":        c.trie.NodeCount(),
	}
	c.mu.RUnlock()

	if c.cache != nil {
		for k, v := range c.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
