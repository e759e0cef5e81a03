package trie

// step records one hop of an insert: the node visited and the index of the
// child edge that was followed or rewritten.
type step struct {
	node int32
	edge int
}

// Insert adds delta to the frequency of term, creating it if needed.
//
// Descending from the root, the child edge sharing the longest common prefix
// with the unmatched remainder decides what happens:
//   - equal to the remainder: the child is the term, its frequency grows
//   - remainder is a prefix of the label: the edge is split and the split
//     node becomes the term
//   - label is a prefix of the remainder: descend into the child
//   - partial overlap: the edge is split into a structural node holding the
//     old subtree and a new leaf
//   - no overlap with any child: a new leaf edge is appended
//
// Afterwards the best descendant frequency of every node on the path is
// raised and each touched child list is re-sorted.
//
// A zero delta is a no-op.
func (t *Trie) Insert(term string, delta uint64) error {
	if term == "" {
		return ErrEmptyTerm
	}
	if delta == 0 {
		return nil
	}

	path := make([]step, 0, 8)
	cur := rootHandle
	rest := term

	for {
		j, common := t.longestMatch(cur, rest)

		if common == 0 {
			leaf := t.alloc(delta)
			t.nodes[cur].children = append(t.nodes[cur].children, edge{label: rest, child: leaf})
			t.termCount++
			path = append(path, step{node: cur, edge: len(t.nodes[cur].children) - 1})
			t.propagate(path, delta)
			return nil
		}

		e := t.nodes[cur].children[j]
		path = append(path, step{node: cur, edge: j})

		switch {
		case common == len(e.label) && common == len(rest):
			child := &t.nodes[e.child]
			if child.freq == 0 {
				t.termCount++
			}
			child.freq += delta
			t.propagate(path, child.freq)

		case common == len(rest):
			split := t.alloc(delta)
			orig := t.nodes[e.child]
			t.nodes[split].children = []edge{{label: e.label[common:], child: e.child}}
			t.nodes[split].best = max(orig.freq, orig.best)
			t.nodes[cur].children[j] = edge{label: rest, child: split}
			t.termCount++
			t.propagate(path, delta)

		case common == len(e.label):
			cur = e.child
			rest = rest[common:]
			continue

		default:
			leaf := t.alloc(delta)
			split := t.alloc(0)
			orig := t.nodes[e.child]
			// orig sorts ahead of the fresh leaf, whose best is 0.
			t.nodes[split].children = []edge{
				{label: e.label[common:], child: e.child},
				{label: rest[common:], child: leaf},
			}
			t.nodes[split].best = max(orig.freq, orig.best, delta)
			t.nodes[cur].children[j] = edge{label: rest[:common], child: split}
			t.termCount++
			t.propagate(path, delta)
		}
		return nil
	}
}

// longestMatch returns the index of the child edge of n sharing the longest
// common prefix with s, and that prefix length. Once the radix property holds
// at most one edge can share a non-empty prefix, so the first hit wins.
func (t *Trie) longestMatch(n int32, s string) (int, int) {
	for i, e := range t.nodes[n].children {
		if c := commonPrefixLen(e.label, s); c > 0 {
			return i, c
		}
	}
	return -1, 0
}

// propagate raises best on every node of path to at least freq, then restores
// the child ordering bottom-up. Frequencies only grow, so each touched edge can
// only move towards the front of its list.
func (t *Trie) propagate(path []step, freq uint64) {
	for _, s := range path {
		if n := &t.nodes[s.node]; freq > n.best {
			n.best = freq
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		t.bubble(path[i].node, path[i].edge)
	}
}

// bubble moves children[i] of n left past every sibling ranked strictly lower.
func (t *Trie) bubble(n int32, i int) {
	children := t.nodes[n].children
	for i > 0 && t.nodes[children[i].child].rank() > t.nodes[children[i-1].child].rank() {
		children[i], children[i-1] = children[i-1], children[i]
		i--
	}
}
