package dictionary

import (
	"io"
	"sync"
	"time"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Source is what gets saved. *trie.Trie and *suggest.Completer both qualify.
type Source interface {
	Dump(w io.Writer, sep rune) (int, error)
	Dirty() bool
	MarkClean(terms uint64)
}

// SaveFile writes src to path when it has unsaved terms, compressed according
// to the file extension. The file is replaced atomically, and src is marked
// clean only after the rename. It returns the number of terms written.
func SaveFile(path string, src Source, sep rune) (int, error) {
	if !src.Dirty() {
		return 0, nil
	}

	format := FormatForPath(path)
	if format == FormatUnknown {
		format = FormatText
	}

	written := 0
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		cw, err := NewWriter(w, format)
		if err != nil {
			return err
		}
		n, err := src.Dump(cw, sep)
		if err != nil {
			cw.Close()
			return err
		}
		written = n
		return cw.Close()
	})
	if err != nil {
		return 0, errors.Wrapf(err, "saving corpus to %s", path)
	}

	src.MarkClean(uint64(written))
	log.Debugf("Saved %d terms to %s (%s)", written, path, format)
	return written, nil
}

// Saver persists a source to one file, on demand and periodically.
type Saver struct {
	mu       sync.Mutex
	src      Source
	path     string
	sep      rune
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSaver creates a saver. An interval of zero disables periodic saves.
func NewSaver(src Source, path string, sep rune, interval time.Duration) *Saver {
	return &Saver{src: src, path: path, sep: sep, interval: interval}
}

// Path returns the file the saver writes.
func (s *Saver) Path() string {
	return s.path
}

// Save writes the source now if it is dirty.
func (s *Saver) Save() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SaveFile(s.path, s.src, s.sep)
}

// Start begins periodic saving in the background.
func (s *Saver) Start() {
	if s.interval <= 0 || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := s.Save(); err != nil {
					log.Errorf("Autosave failed: %v", err)
				} else if n > 0 {
					log.Infof("Autosaved %d terms to %s", n, s.path)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends periodic saving and performs a final save.
func (s *Saver) Stop() (int, error) {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return s.Save()
}
