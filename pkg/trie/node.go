package trie

// edge links a parent to a child node. The label is the substring consumed
// when following it.
type edge struct {
	label string
	child int32
}

// node is an arena entry. freq is the terminal frequency (0 when the path is
// not a stored term), best bounds the terminal frequency of everything
// reachable through children.
type node struct {
	freq     uint64
	best     uint64
	children []edge
}

// rank is the value a subtree is sorted and pruned by.
func (n *node) rank() uint64 {
	return n.best
}

// commonPrefixLen returns the byte length of the longest common prefix of a and b.
func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
