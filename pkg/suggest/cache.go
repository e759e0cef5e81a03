package suggest

import (
	"sync"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tchap/go-patricia/v2/patricia"
)

type cacheEntry struct {
	k       int
	results []trie.Result
	exact   uint64
}

// ResultCache keeps ranked trie answers for recently queried prefixes.
//
// Entries are held in an LRU. A patricia index over the cached prefixes lets
// an added term drop exactly the entries it could change: those whose prefix
// is a prefix of the term.
type ResultCache struct {
	mu     sync.Mutex
	recent *lru.Cache[string, cacheEntry]
	index  *patricia.Trie
	hits   int
	misses int
}

// NewResultCache creates a cache holding up to size prefixes.
func NewResultCache(size int) (*ResultCache, error) {
	c := &ResultCache{index: patricia.NewTrie()}
	recent, err := lru.NewWithEvict[string, cacheEntry](size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.recent = recent
	return c, nil
}

// onEvict runs on the caller's goroutine with c.mu held.
func (c *ResultCache) onEvict(prefix string, _ cacheEntry) {
	c.index.Delete(patricia.Prefix(prefix))
}

// Get returns the cached top-k for prefix. An entry computed for a larger k
// serves any smaller one.
func (c *ResultCache) Get(prefix string, k int) ([]trie.Result, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.recent.Get(prefix)
	if !ok || entry.k < k {
		c.misses++
		return nil, 0, false
	}
	c.hits++
	results := entry.results
	if len(results) > k {
		results = results[:k]
	}
	return results, entry.exact, true
}

// Put stores the top-k answer for prefix. The empty prefix is never cached.
func (c *ResultCache) Put(prefix string, k int, results []trie.Result, exact uint64) {
	if prefix == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recent.Add(prefix, cacheEntry{k: k, results: results, exact: exact})
	c.index.Set(patricia.Prefix(prefix), struct{}{})
}

// Invalidate drops every cached prefix of term and returns how many went.
func (c *ResultCache) Invalidate(term string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []string
	err := c.index.VisitPrefixes(patricia.Prefix(term), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting cached prefixes of %q: %v", term, err)
	}
	for _, prefix := range stale {
		c.recent.Remove(prefix)
	}
	if len(stale) > 0 {
		log.Debugf("Invalidated %d cached prefixes for %q", len(stale), term)
	}
	return len(stale)
}

// Purge empties the cache.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recent.Purge()
	c.index = patricia.NewTrie()
}

// Len returns the number of cached prefixes.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recent.Len()
}

func (c *ResultCache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]int{
		"cachedPrefixes": c.recent.Len(),
		"cacheHits":      c.hits,
		"cacheMisses":    c.misses,
	}
}
