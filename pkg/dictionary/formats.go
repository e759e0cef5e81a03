package dictionary

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// FileFormat is the container a corpus file comes in. The payload is always
// "term<sep>count" lines.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // plain lines
	FormatGzip               // gzip compressed lines
	FormatZstd               // zstd compressed lines
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	Magic       []byte
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "text",
		Extensions:  []string{".txt", ".tsv"},
	},
	FormatGzip: {
		Format:      FormatGzip,
		Description: "gzip",
		Extensions:  []string{".gz"},
		Magic:       []byte{0x1f, 0x8b},
	},
	FormatZstd: {
		Format:      FormatZstd,
		Description: "zstd",
		Extensions:  []string{".zst", ".zstd"},
		Magic:       []byte{0x28, 0xb5, 0x2f, 0xfd},
	},
}

// ErrUnknownFormat is returned for files that are neither recognised by
// extension nor by content.
var ErrUnknownFormat = errors.New("dictionary: unknown corpus format")

// FormatForPath picks a format from the file name alone.
func FormatForPath(path string) FileFormat {
	ext := strings.ToLower(filepath.Ext(path))
	for _, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return info.Format
			}
		}
	}
	return FormatUnknown
}

// sniffFormat recognises compressed payloads by their magic bytes.
func sniffFormat(header []byte) FileFormat {
	for _, f := range []FileFormat{FormatGzip, FormatZstd} {
		if bytes.HasPrefix(header, supportedFormats[f].Magic) {
			return f
		}
	}
	return FormatUnknown
}

// DetectFormat peeks at the start of r and combines it with the extension of
// name. Content wins over the extension for compressed data, so a gzip file
// named .txt still loads. The returned reader replays the peeked bytes.
func DetectFormat(name string, r io.Reader) (FileFormat, io.Reader, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(4)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return FormatUnknown, br, errors.Wrapf(err, "reading header of %s", name)
	}

	if sniffed := sniffFormat(header); sniffed != FormatUnknown {
		return sniffed, br, nil
	}
	byName := FormatForPath(name)
	switch byName {
	case FormatText:
		return FormatText, br, nil
	case FormatGzip, FormatZstd:
		return FormatUnknown, br, errors.Wrapf(ErrUnknownFormat,
			"%s is named as %s but does not start with its magic bytes", name, byName)
	}
	return FormatUnknown, br, errors.Wrapf(ErrUnknownFormat, "%s", name)
}

// NewReader wraps r to yield the decompressed lines of format.
func NewReader(r io.Reader, format FileFormat) (io.ReadCloser, error) {
	switch format {
	case FormatText:
		return io.NopCloser(r), nil
	case FormatGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "opening gzip stream")
		}
		return zr, nil
	case FormatZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "opening zstd stream")
		}
		return dec.IOReadCloser(), nil
	}
	return nil, ErrUnknownFormat
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w so that lines written are stored in format. Close flushes
// the compressor but does not close w.
func NewWriter(w io.Writer, format FileFormat) (io.WriteCloser, error) {
	switch format {
	case FormatText:
		return nopWriteCloser{w}, nil
	case FormatGzip:
		return gzip.NewWriter(w), nil
	case FormatZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Wrap(err, "opening zstd encoder")
		}
		return enc, nil
	}
	return nil, ErrUnknownFormat
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Format < formats[j].Format
	})
	return formats
}
