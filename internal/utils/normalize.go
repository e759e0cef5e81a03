package utils

import (
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Useful for ranking items that are already sorted.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}

// FoldCase lowercases s with Unicode rules. Loaded corpora, added terms and
// queries all go through this so they agree on the stored form.
func FoldCase(s string) string {
	// a Caser is stateful, so one per call
	return cases.Lower(language.Und).String(s)
}

// NormalizeTerm trims s and optionally applies NFC composition and case
// folding.
func NormalizeTerm(s string, nfc, fold bool) string {
	s = strings.TrimSpace(s)
	if nfc {
		s = norm.NFC.String(s)
	}
	if fold {
		s = FoldCase(s)
	}
	return s
}

// NormalizingReader wraps r so that everything read through it is NFC
// composed and/or case folded. With neither option r is returned as is.
func NormalizingReader(r io.Reader, nfc, fold bool) io.Reader {
	var chain []transform.Transformer
	if nfc {
		chain = append(chain, norm.NFC)
	}
	if fold {
		chain = append(chain, cases.Lower(language.Und))
	}
	switch len(chain) {
	case 0:
		return r
	case 1:
		return transform.NewReader(r, chain[0])
	default:
		return transform.NewReader(r, transform.Chain(chain...))
	}
}
