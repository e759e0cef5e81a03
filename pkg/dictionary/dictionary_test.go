package dictionary

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "apple\t30\napply\t12\nbanana\t7\n"

func writeCorpus(t *testing.T, path string, format FileFormat, content string) {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, format)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		format FileFormat
		want   FileFormat
	}{
		{"plain.txt", FormatText, FormatText},
		{"plain.tsv", FormatText, FormatText},
		{"packed.txt.gz", FormatGzip, FormatGzip},
		{"packed.txt.zst", FormatZstd, FormatZstd},
		{"misnamed.txt", FormatGzip, FormatGzip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			writeCorpus(t, path, tt.format, sample)

			tr := trie.New()
			stats, err := LoadFile(path, tr, DefaultLoadOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.Format)
			assert.Equal(t, 3, stats.Inserted)
			assert.Equal(t, uint64(30), tr.Frequency("apple"))
			assert.False(t, tr.Dirty())
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.txt"), trie.New(), DefaultLoadOptions())
	require.ErrorIs(t, err, fs.ErrNotExist)

	fake := filepath.Join(dir, "fake.txt.gz")
	require.NoError(t, os.WriteFile(fake, []byte(sample), 0644))
	_, err = LoadFile(fake, trie.New(), DefaultLoadOptions())
	require.ErrorIs(t, err, ErrUnknownFormat)

	odd := filepath.Join(dir, "corpus.dat")
	require.NoError(t, os.WriteFile(odd, []byte(sample), 0644))
	_, err = LoadFile(odd, trie.New(), DefaultLoadOptions())
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accents.txt")
	writeCorpus(t, path, FormatText, "Café\t4\ncafé\t1\n")

	tr := trie.New()
	opts := LoadOptions{Separator: '\t', Normalize: true, FoldCase: true}
	_, err := LoadFile(path, tr, opts)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tr.TermCount())
	assert.Equal(t, uint64(5), tr.Frequency("café"))
}

func TestLoaderLoadInto(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, filepath.Join(dir, "a.txt"), FormatText, "alpha\t5\n")
	writeCorpus(t, filepath.Join(dir, "b.txt.zst"), FormatZstd, "beta\t3\nalpha\t1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt.gz"), []byte{0x1f, 0x8b, 0, 1}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("skip"), 0644))

	l := NewLoader(dir, DefaultLoadOptions())
	files, err := l.Discover()
	require.NoError(t, err)
	assert.Len(t, files, 3)

	tr := trie.New()
	summary, err := l.LoadInto(tr)
	require.Error(t, err, "the truncated gzip must be reported")
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Files, 2)
	assert.Equal(t, 3, summary.Inserted)
	assert.Equal(t, uint64(6), tr.Frequency("alpha"))
	assert.Equal(t, uint64(3), tr.Frequency("beta"))
}

func TestLoaderDiscoverEmpty(t *testing.T) {
	_, err := NewLoader(t.TempDir(), DefaultLoadOptions()).Discover()
	require.ErrorIs(t, err, ErrNoCorpus)

	_, err = NewLoader(filepath.Join(t.TempDir(), "nope"), DefaultLoadOptions()).Discover()
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSaveFileRoundTrip(t *testing.T) {
	for _, name := range []string{"out.txt", "out.txt.gz", "out.tsv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			src := trie.New()
			require.NoError(t, src.Insert("gopher", 9))
			require.NoError(t, src.Insert("golang", 4))

			n, err := SaveFile(path, src, '\t')
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.False(t, src.Dirty())

			dst := trie.New()
			stats, err := LoadFile(path, dst, DefaultLoadOptions())
			require.NoError(t, err)
			assert.Equal(t, FormatForPath(name), stats.Format)
			assert.Equal(t, uint64(9), dst.Frequency("gopher"))
			assert.Equal(t, uint64(4), dst.Frequency("golang"))
		})
	}
}

func TestSaveFileSkipsClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.txt")
	tr := trie.New()
	n, err := SaveFile(path, tr, '\t')
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoFileExists(t, path)
}

func TestSaverStopSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.txt")
	tr := trie.New()
	require.NoError(t, tr.Insert("late", 2))

	s := NewSaver(tr, path, ',', time.Hour)
	s.Start()
	n, err := s.Stop()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "late,2\n", string(data))
}

func TestSaverPeriodic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tick.txt")
	tr := trie.New()
	require.NoError(t, tr.Insert("tick", 1))

	s := NewSaver(tr, path, '\t', 10*time.Millisecond)
	s.Start()
	assert.Eventually(t, func() bool { return fileExists(path) }, 2*time.Second, 10*time.Millisecond)
	_, err := s.Stop()
	require.NoError(t, err)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestDetectFormatShortInput(t *testing.T) {
	format, r, err := DetectFormat("tiny.txt", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "a", string(rest))
}

func TestListSupportedFormats(t *testing.T) {
	formats := ListSupportedFormats()
	require.Len(t, formats, 3)
	assert.Equal(t, FormatText, formats[0].Format)
	assert.Equal(t, "zstd", FormatZstd.String())
}
