// Package dictionary moves "term<sep>count" corpora between files and a trie:
// discovery in a data directory, transparent gzip and zstd handling, optional
// Unicode normalisation on the way in and atomic saves on the way out.
package dictionary

import (
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// ErrNoCorpus is returned when a data directory holds no corpus files.
var ErrNoCorpus = errors.New("dictionary: no corpus files found")

// Sink receives corpus lines. *trie.Trie and *suggest.Completer both qualify.
type Sink interface {
	Load(r io.Reader, sep rune) (trie.LoadStats, error)
}

// LoadOptions control how corpus files are read.
type LoadOptions struct {
	Separator rune
	// Normalize and FoldCase rewrite the stream before the sink sees it.
	// Leave them off when the sink normalises by itself.
	Normalize bool
	FoldCase  bool
}

// DefaultLoadOptions reads tab separated files untouched.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Separator: '\t'}
}

// FileStats describes one loaded file.
type FileStats struct {
	trie.LoadStats
	Path    string
	Format  FileFormat
	Bytes   int64
	Elapsed time.Duration
}

// LoadFile streams the corpus at path into dst. A missing file is reported
// with an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadFile(path string, dst Sink, opts LoadOptions) (FileStats, error) {
	stats := FileStats{Path: path, Bytes: utils.FileSize(path)}
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return stats, errors.Wrapf(err, "opening corpus %s", path)
	}
	defer f.Close()

	format, r, err := DetectFormat(path, f)
	if err != nil {
		return stats, err
	}
	stats.Format = format

	rc, err := NewReader(r, format)
	if err != nil {
		return stats, errors.Wrapf(err, "corpus %s", path)
	}
	defer rc.Close()

	stats.LoadStats, err = dst.Load(utils.NormalizingReader(rc, opts.Normalize, opts.FoldCase), opts.Separator)
	stats.Elapsed = time.Since(start)
	if err != nil {
		return stats, errors.Wrapf(err, "loading corpus %s", path)
	}

	log.Debugf("Loaded %s (%s, %d bytes): %d terms, %d skipped in %s",
		path, format, stats.Bytes, stats.Inserted, stats.Skipped, stats.Elapsed)
	return stats, nil
}

// Summary aggregates a directory load.
type Summary struct {
	Files    []FileStats
	Failed   int
	Lines    int
	Inserted int
	Skipped  int
	Elapsed  time.Duration
}

// Loader loads every corpus file found in a data directory.
type Loader struct {
	dir  string
	opts LoadOptions
}

// NewLoader creates a loader for the corpus files in dir.
func NewLoader(dir string, opts LoadOptions) *Loader {
	return &Loader{dir: dir, opts: opts}
}

// Discover lists the corpus files the loader would read, sorted by name.
func (l *Loader) Discover() ([]string, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "data dir %s", l.dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("data dir %s is not a directory", l.dir)
	}
	files := utils.ListCorpusFiles(l.dir)
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoCorpus, "in %s", l.dir)
	}
	return files, nil
}

// LoadInto loads every discovered file into dst in name order. A file that
// fails is logged and skipped; the failures are returned combined once all
// files were tried.
func (l *Loader) LoadInto(dst Sink) (Summary, error) {
	var summary Summary
	start := time.Now()

	files, err := l.Discover()
	if err != nil {
		return summary, err
	}

	var failures error
	for _, path := range files {
		stats, err := LoadFile(path, dst, l.opts)
		summary.Lines += stats.Lines
		summary.Inserted += stats.Inserted
		summary.Skipped += stats.Skipped
		if err != nil {
			log.Warnf("Skipping corpus %s: %v", path, err)
			summary.Failed++
			failures = errors.CombineErrors(failures, err)
			continue
		}
		summary.Files = append(summary.Files, stats)
	}
	summary.Elapsed = time.Since(start)

	log.Debugf("Loaded %d corpus files from %s (%d failed): %d terms in %s",
		len(summary.Files), l.dir, summary.Failed, summary.Inserted, summary.Elapsed)
	return summary, failures
}
