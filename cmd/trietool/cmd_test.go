package main

import (
	"bytes"
	"compress/gzip"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(body))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		body = buf.String()
	}
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestQuery(t *testing.T) {
	corpus := writeCorpus(t, "words.txt", "car\t50\ncart\t9000\ncarbon\t700\nCAR\t5\ndog\t3\n")

	out, err := run(t, "query", corpus, "car", "-k", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "cart")
	assert.Contains(t, out, "9,000")
	assert.Contains(t, out, "carbon")
	assert.Contains(t, out, `"car" itself: 55`)
	assert.Less(t, strings.Index(out, "cart"), strings.Index(out, "carbon"))

	out, err = run(t, "query", corpus, "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `no completions for "zzz"`)

	_, err = run(t, "query", corpus)
	assert.Error(t, err)
}

func TestQueryNoFold(t *testing.T) {
	corpus := writeCorpus(t, "words.txt", "Go\t10\ngo\t3\n")

	out, err := run(t, "--no-fold", "query", corpus, "G", "-k", "0", "--no-prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Go")
	assert.NotContains(t, out, " go ")
}

func TestStats(t *testing.T) {
	a := writeCorpus(t, "a.txt.gz", "alpha\t1\nbeta\t2\nbroken\n")
	b := writeCorpus(t, "b.txt", "alpha\t4\n")

	out, err := run(t, "stats", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "gzip")
	assert.Contains(t, out, "terms: 2")
	assert.Contains(t, out, "max frequency: 5")

	_, err = run(t, "stats", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMerge(t *testing.T) {
	a := writeCorpus(t, "a.txt", "one\t1\ntwo\t2\n")
	b := writeCorpus(t, "b.txt.gz", "two\t3\nthree\t3\n")
	output := filepath.Join(t.TempDir(), "merged.txt.zst")

	out, err := run(t, "merge", "-o", output, a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "3 terms")

	out, err = run(t, "query", output, "t", "-k", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "three")
	assert.Contains(t, out, "two")

	merged, _, err := (&rootFlags{separator: "tab"}).loadCorpora([]string{output})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), merged.Frequency("two"))
	assert.Equal(t, uint64(3), merged.TermCount())

	_, err = run(t, "merge", a)
	assert.ErrorIs(t, err, errArgs)
}

func TestMergeSeparator(t *testing.T) {
	a := writeCorpus(t, "a.txt", "x,1\ny,2\n")
	output := filepath.Join(t.TempDir(), "out.txt")

	_, err := run(t, "--sep", ",", "merge", "-o", output, a)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x,1", "y,2"}, strings.Fields(string(data)))

	tr := trie.New()
	_, err = tr.Load(bytes.NewReader(data), ',')
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tr.Frequency("y"))
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = run(t, "config", "set", "--config", path, "--max-limit", "12", "--filter=false")
	require.NoError(t, err)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Server.MaxLimit)
	assert.False(t, cfg.Server.EnableFilter)
	assert.Equal(t, config.DefaultConfig().Server.MinPrefix, cfg.Server.MinPrefix)

	out, err = run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "max_limit = 12")
}
