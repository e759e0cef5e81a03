// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler processes user input from stdin, providing
// suggestions. It accepts many flags to control behavior such as
// minimum and maximum prefix length, suggestion limits, and filtering options.
//
// Lines starting with ':' are commands:
//
//	:add <term> [count]   add a term (count defaults to 1)
//	:stats                show dictionary statistics
//	:quit                 leave the loop
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	noFilter        bool
	in              io.Reader
	out             io.Writer
	prompt          bool
	render          *Renderer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	interactive := IsInteractive(os.Stdin) && IsInteractive(os.Stdout)
	h := NewInputHandlerWithIO(completer, minLength, maxLength, limit, noFilter, os.Stdin, os.Stdout)
	h.prompt = interactive
	h.render = NewRenderer(interactive)
	return h
}

// NewInputHandlerWithIO is NewInputHandler over arbitrary streams, without
// prompt or colours.
func NewInputHandlerWithIO(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              in,
		out:             out,
		render:          NewRenderer(false),
	}
}

// Start begins the interface loop. It returns nil when input ends or on
// :quit.
func (h *InputHandler) Start() error {
	reader := bufio.NewReader(h.in)
	if h.prompt {
		fmt.Fprintln(h.out, "wordtrie CLI")
		fmt.Fprintln(h.out, "type a prefix and press Enter, :add <term> [count], :stats or :quit")
	}

	for {
		if h.prompt {
			fmt.Fprint(h.out, "> ")
		}
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleLine(line); quit {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// handleLine runs a command or a query and reports whether to stop.
func (h *InputHandler) handleLine(line string) bool {
	if !strings.HasPrefix(line, ":") {
		h.handleInput(line)
		return false
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "quit", "q", "exit":
		return true
	case "stats":
		h.render.Stats(h.out, h.completer.Stats())
	case "add":
		h.handleAdd(fields[1:])
	default:
		h.render.Warn(h.out, "unknown command: %s", fields[0])
	}
	return false
}

func (h *InputHandler) handleAdd(args []string) {
	if len(args) == 0 || len(args) > 2 {
		h.render.Warn(h.out, "usage: :add <term> [count]")
		return
	}
	count := uint64(1)
	if len(args) == 2 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil || n == 0 {
			h.render.Warn(h.out, "invalid count: %s", args[1])
			return
		}
		count = n
	}
	if err := h.completer.AddWord(args[0], count); err != nil {
		h.render.Warn(h.out, "could not add %q: %v", args[0], err)
		return
	}
	fmt.Fprintf(h.out, "added %s (+%s)\n", args[0], formatFrequency(count))
}

// handleInput processes a single prefix to generate suggestions.
// It validates the prefix's length and content, then asks the completer for
// suggestions.
func (h *InputHandler) handleInput(prefix string) {
	h.requestCount++

	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		h.render.Warn(h.out, "Prefix too short: %s", prefix)
		return
	}
	if h.maxPrefixLength > 0 && n > h.maxPrefixLength {
		h.render.Warn(h.out, "Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless -no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.render.Warn(h.out, "Prefix filtered out: '%s'", prefix)
		return
	}

	start := time.Now()
	suggestions, prefixFreq := h.completer.CompleteWithFrequency(prefix, h.suggestLimit)
	elapsed := time.Since(start)
	log.Debug("Processed", "prefix", prefix, "count", len(suggestions), "took", elapsed, "requests", h.requestCount)

	h.render.Suggestions(h.out, prefix, prefixFreq, suggestions, elapsed)
}
