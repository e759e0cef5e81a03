package server

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newCompleter(t *testing.T) *suggest.Completer {
	t.Helper()
	c := suggest.NewCompleter(suggest.DefaultOptions())
	_, err := c.Load(strings.NewReader("the\t500\nthere\t300\nthey\t250\nthen\t120\ntheme\t40\n"), '\t')
	require.NoError(t, err)
	return c
}

// run feeds reqs to a fresh server and returns a decoder over its output.
func run(t *testing.T, srv func(in, out *bytes.Buffer) *Server, reqs ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	require.NoError(t, srv(&in, &out).Start())
	return msgpack.NewDecoder(&out)
}

func defaultServer(t *testing.T, cfg *config.Config) func(in, out *bytes.Buffer) *Server {
	c := newCompleter(t)
	return func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(c, cfg, "", in, out)
	}
}

func TestCompleteRequest(t *testing.T) {
	dec := run(t, defaultServer(t, nil), CompletionRequest{ID: "r1", Prefix: "the", Limit: 2})

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, uint64(500), resp.PrefixFrequency)
	assert.Equal(t, []CompletionSuggestion{
		{Word: "there", Rank: 1, Frequency: 300},
		{Word: "they", Rank: 2, Frequency: 250},
	}, resp.Suggestions)
}

func TestCompleteValidation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MinPrefix = 2
	cfg.Server.MaxPrefix = 5
	cfg.Server.MaxLimit = 3

	dec := run(t, defaultServer(t, cfg),
		CompletionRequest{ID: "empty"},
		CompletionRequest{ID: "short", Prefix: "t"},
		CompletionRequest{ID: "long", Prefix: "thereafter"},
		CompletionRequest{ID: "clamped", Prefix: "th", Limit: 50},
		CompletionRequest{ID: "filtered", Prefix: "1234"},
	)

	for _, id := range []string{"empty", "short", "long"} {
		var e CompletionError
		require.NoError(t, dec.Decode(&e))
		assert.Equal(t, id, e.ID)
		assert.Equal(t, 400, e.Code)
		assert.NotEmpty(t, e.Error)
	}

	var clamped CompletionResponse
	require.NoError(t, dec.Decode(&clamped))
	assert.Equal(t, 3, clamped.Count)

	var filtered CompletionResponse
	require.NoError(t, dec.Decode(&filtered))
	assert.Equal(t, "filtered", filtered.ID)
	assert.Zero(t, filtered.Count)
}

func TestCompleteDefaultLimit(t *testing.T) {
	dec := run(t, defaultServer(t, nil), CompletionRequest{ID: "d", Prefix: "th"})
	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 5, resp.Count)
}

func TestDictionaryActions(t *testing.T) {
	dec := run(t, defaultServer(t, nil),
		DictionaryRequest{ID: "i1", Action: ActionGetInfo},
		DictionaryRequest{ID: "a1", Action: ActionAddTerm, Term: "Thermos", Count: 900},
		CompletionRequest{ID: "c1", Prefix: "ther", Limit: 1},
		DictionaryRequest{ID: "a2", Action: ActionAddTerm},
		DictionaryRequest{ID: "s1", Action: ActionSave},
		DictionaryRequest{ID: "x1", Action: "explode"},
	)

	var info DictionaryResponse
	require.NoError(t, dec.Decode(&info))
	assert.Equal(t, "ok", info.Status)
	assert.Equal(t, 5, info.Terms)
	assert.False(t, info.Dirty)

	var added DictionaryResponse
	require.NoError(t, dec.Decode(&added))
	assert.Equal(t, "ok", added.Status)
	assert.Equal(t, 6, added.Terms)
	assert.True(t, added.Dirty)

	var completed CompletionResponse
	require.NoError(t, dec.Decode(&completed))
	require.Len(t, completed.Suggestions, 1)
	assert.Equal(t, "thermos", completed.Suggestions[0].Word)

	var blank DictionaryResponse
	require.NoError(t, dec.Decode(&blank))
	assert.Equal(t, "error", blank.Status)

	var save DictionaryResponse
	require.NoError(t, dec.Decode(&save))
	assert.Equal(t, "error", save.Status)
	assert.Contains(t, save.Error, "not configured")

	var unknown DictionaryResponse
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, "error", unknown.Status)
	assert.Contains(t, unknown.Error, "explode")
}

func TestSaveAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.txt")
	c := newCompleter(t)
	saver := dictionary.NewSaver(c, path, '\t', 0)

	dec := run(t, func(in, out *bytes.Buffer) *Server {
		srv := NewServerWithIO(c, nil, "", in, out)
		srv.SetSaver(saver)
		return srv
	},
		DictionaryRequest{ID: "a", Action: ActionAddTerm, Term: "theory", Count: 3},
		DictionaryRequest{ID: "s", Action: ActionSave},
	)

	var added, saved DictionaryResponse
	require.NoError(t, dec.Decode(&added))
	require.NoError(t, dec.Decode(&saved))
	assert.Equal(t, "ok", saved.Status)
	assert.Equal(t, 6, saved.Saved)
	assert.False(t, saved.Dirty)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theory\t3\n")
}

func TestConfigReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_limit = 1\nreload_every = 2\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.Server.ReloadEvery = 2
	c := newCompleter(t)

	dec := run(t, func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(c, cfg, path, in, out)
	},
		CompletionRequest{ID: "before", Prefix: "th", Limit: 4},
		CompletionRequest{ID: "after", Prefix: "th", Limit: 4},
	)

	var before, after CompletionResponse
	require.NoError(t, dec.Decode(&before))
	require.NoError(t, dec.Decode(&after))
	assert.Equal(t, 4, before.Count)
	assert.Equal(t, 1, after.Count)
}

func TestInvalidMessage(t *testing.T) {
	var in, out bytes.Buffer
	// a bare integer where a map is expected, then a valid request
	require.NoError(t, msgpack.NewEncoder(&in).Encode(42))
	require.NoError(t, msgpack.NewEncoder(&in).Encode(CompletionRequest{ID: "ok", Prefix: "the", Limit: 1}))

	require.NoError(t, NewServerWithIO(newCompleter(t), nil, "", &in, &out).Start())

	dec := msgpack.NewDecoder(&out)
	var e CompletionError
	require.NoError(t, dec.Decode(&e))
	assert.Equal(t, 400, e.Code)

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "ok", resp.ID)
}
