package trie

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// LoadStats summarises a bulk load.
type LoadStats struct {
	Lines    int // lines read
	Inserted int // well formed records, zero counts included
	Skipped  int // malformed or empty term
}

// Load reads newline delimited "term<sep>count" records from r and inserts
// each one. Lines that do not split into exactly two fields, or whose count is
// not an unsigned integer, are skipped. Surrounding whitespace around the
// count is ignored; the term is taken verbatim.
//
// A read error stops the load and is returned; records applied before it stay
// in the trie. Only a complete load marks the trie clean.
func (t *Trie) Load(r io.Reader, sep rune) (LoadStats, error) {
	var stats LoadStats
	reader := bufio.NewReaderSize(r, 64*1024)
	separator := string(sep)

	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			stats.Lines++
			if t.loadLine(strings.TrimRight(line, "\r\n"), separator) {
				stats.Inserted++
			} else {
				stats.Skipped++
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrapf(err, "trie: reading corpus after %d lines", stats.Lines)
		}
	}

	t.loadedCount = t.termCount
	return stats, nil
}

func (t *Trie) loadLine(line, separator string) bool {
	parts := strings.Split(line, separator)
	if len(parts) != 2 {
		return false
	}
	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return false
	}
	// a zero count is a valid record that changes nothing
	return t.Insert(parts[0], count) == nil
}

// Dump writes every stored term as a "term<sep>count" line to w, in traversal
// order. It writes nothing and returns 0 when no terms were added since the
// last Load. The number of lines written is returned.
func (t *Trie) Dump(w io.Writer, sep rune) (int, error) {
	if !t.Dirty() {
		return 0, nil
	}

	writer := bufio.NewWriterSize(w, 64*1024)
	written := 0
	line := make([]byte, 0, 64)

	err := t.Walk("", func(term string, freq uint64) error {
		line = append(line[:0], term...)
		line = utf8.AppendRune(line, sep)
		line = strconv.AppendUint(line, freq, 10)
		line = append(line, '\n')
		if _, err := writer.Write(line); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return written, errors.Wrapf(err, "trie: writing term %d", written+1)
	}
	if err := writer.Flush(); err != nil {
		return written, errors.Wrap(err, "trie: flushing dump")
	}
	return written, nil
}
