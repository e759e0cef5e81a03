package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompleter(t *testing.T) *suggest.Completer {
	t.Helper()
	c := suggest.NewCompleter(suggest.DefaultOptions())
	_, err := c.Load(strings.NewReader("hello\t12000\nhelp\t3400\nhelium\t80\n"), '\t')
	require.NoError(t, err)
	return c
}

func runSession(t *testing.T, input string, limit int, noFilter bool) string {
	t.Helper()
	var out bytes.Buffer
	h := NewInputHandlerWithIO(newCompleter(t), 2, 10, limit, noFilter, strings.NewReader(input), &out)
	require.NoError(t, h.Start())
	return out.String()
}

func TestSessionQueries(t *testing.T) {
	out := runSession(t, "hel\nh\nhello\n", 5, false)

	assert.Contains(t, out, "Found 3 suggestions for prefix 'hel'")
	assert.Contains(t, out, "12,000")
	assert.Contains(t, out, "Prefix too short: h")
	assert.Contains(t, out, "No suggestions found for prefix: 'hello'")
	assert.Less(t, strings.Index(out, "hello"), strings.Index(out, "helium"))
}

func TestSessionFilter(t *testing.T) {
	assert.Contains(t, runSession(t, "12345\n", 5, false), "filtered out")
	assert.Contains(t, runSession(t, "12345\n", 5, true), "No suggestions found")
}

func TestSessionCommands(t *testing.T) {
	out := runSession(t, ":add helix 90000\nhel\n:add\n:add x zero\n:stats\n:bogus\n:quit\nhel\n", 1, false)

	assert.Contains(t, out, "added helix (+90,000)")
	assert.Contains(t, out, "1. helix")
	assert.Contains(t, out, "usage: :add")
	assert.Contains(t, out, "invalid count: zero")
	assert.Contains(t, out, "totalWords")
	assert.Contains(t, out, "unknown command: bogus")
	assert.Equal(t, 1, strings.Count(out, "Found 1 suggestions"), "nothing runs after :quit")
}

func TestSessionWithoutTrailingNewline(t *testing.T) {
	assert.Contains(t, runSession(t, "hel", 2, false), "Found 2 suggestions")
}

func TestRendererPlain(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(false)
	r.Suggestions(&out, "go", 7, []suggest.Suggestion{{Word: "gopher", Frequency: 1500}, {Word: "go", Frequency: 7}}, time.Millisecond)

	text := out.String()
	assert.Contains(t, text, "(itself: 7)")
	assert.Contains(t, text, " 1. gopher  1,500")
	assert.NotContains(t, text, "\x1b[")
}
