package utils

import (
	"sync"
	"unicode"
)

// Capital letter processing uses a pool to reduce allocations
var capitalInfoPool = sync.Pool{
	New: func() any {
		return &CapitalInfo{positions: make([]int, 0, 4)}
	},
}

// CapitalInfo records which rune positions of a query were upper case.
type CapitalInfo struct {
	positions []int
}

// Release returns the info to the pool. It must not be used afterwards.
func (ci *CapitalInfo) Release() {
	if ci == nil {
		return
	}
	ci.positions = ci.positions[:0]
	capitalInfoPool.Put(ci)
}

// ProcessCapitals returns the case folded form of s and the rune positions
// that were upper case. The info is nil when s has no capitals.
func ProcessCapitals(s string) (string, *CapitalInfo) {
	var info *CapitalInfo
	pos := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			if info == nil {
				info = capitalInfoPool.Get().(*CapitalInfo)
			}
			info.positions = append(info.positions, pos)
		}
		pos++
	}
	if info == nil {
		return s, nil
	}
	return FoldCase(s), info
}

// ApplyCapitals upper cases word at the positions recorded in info. Positions
// past the end of word are ignored.
func ApplyCapitals(word string, info *CapitalInfo) string {
	if info == nil || len(info.positions) == 0 {
		return word
	}
	runes := []rune(word)
	for _, pos := range info.positions {
		if pos < len(runes) {
			runes[pos] = unicode.ToUpper(runes[pos])
		}
	}
	return string(runes)
}
