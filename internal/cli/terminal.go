package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Renderer formats REPL output. Styling is only applied on terminals.
type Renderer struct {
	styled bool
	title  lipgloss.Style
	word   lipgloss.Style
	freq   lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
}

// NewRenderer builds a renderer; styled enables colours.
func NewRenderer(styled bool) *Renderer {
	return &Renderer{
		styled: styled,
		title:  lipgloss.NewStyle().Bold(true),
		word: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		freq: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		dim: lipgloss.NewStyle().Faint(true),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// formatFrequency formats a count with thousands separators.
func formatFrequency(n uint64) string {
	if n > math.MaxInt64 {
		n = math.MaxInt64
	}
	return humanize.Comma(int64(n))
}

// Suggestions renders a ranked suggestion list.
func (r *Renderer) Suggestions(w io.Writer, prefix string, prefixFreq uint64, suggestions []suggest.Suggestion, took time.Duration) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, r.style(r.warn, fmt.Sprintf("No suggestions found for prefix: '%s'", prefix)))
		return
	}

	header := fmt.Sprintf("Found %d suggestions for prefix '%s'", len(suggestions), prefix)
	if prefixFreq > 0 {
		header += fmt.Sprintf(" (itself: %s)", formatFrequency(prefixFreq))
	}
	fmt.Fprintln(w, r.style(r.title, header))

	width := 0
	for _, s := range suggestions {
		width = max(width, len([]rune(s.Word)))
	}
	for i, s := range suggestions {
		pad := strings.Repeat(" ", width-len([]rune(s.Word)))
		fmt.Fprintf(w, "%2d. %s%s  %s\n", i+1,
			r.style(r.word, s.Word), pad,
			r.style(r.freq, formatFrequency(s.Frequency)))
	}
	fmt.Fprintln(w, r.style(r.dim, fmt.Sprintf("took %s", took)))
}

// Stats renders completer statistics in a stable order.
func (r *Renderer) Stats(w io.Writer, stats map[string]int) {
	keys := []string{"totalWords", "loadedWords", "nodes", "maxFrequency", "cachedPrefixes", "cacheHits", "cacheMisses"}
	for _, k := range keys {
		v, ok := stats[k]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-15s %s\n", r.style(r.dim, k), humanize.Comma(int64(v)))
	}
}

// Warn renders a one line warning.
func (r *Renderer) Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, r.style(r.warn, fmt.Sprintf(format, args...)))
}
