// Package compression unwraps single-file compressed image streams
// (gzip, bzip2, xz) before they reach the image decoders.
package compression

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/swatch/internal/security"
)

// MaxDecompressedSize bounds how much a compressed image may expand to.
const MaxDecompressedSize = 256 * 1024 * 1024

// Format identifies a compression wrapper.
type Format string

const (
	// FormatNone means the stream is not compressed.
	FormatNone  Format = ""
	FormatGzip  Format = "gzip"
	FormatBzip2 Format = "bzip2"
	FormatXz    Format = "xz"
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte("BZh")
	magicXz    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// DetectFormat identifies the compression of a stream from its leading
// bytes, falling back to the file extension when the header is too short.
func DetectFormat(name string, header []byte) Format {
	switch {
	case bytes.HasPrefix(header, magicXz):
		return FormatXz
	case bytes.HasPrefix(header, magicGzip):
		return FormatGzip
	case bytes.HasPrefix(header, magicBzip2):
		return FormatBzip2
	}
	if len(header) >= len(magicXz) {
		return FormatNone
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return FormatGzip
	case ".bz2":
		return FormatBzip2
	case ".xz":
		return FormatXz
	default:
		return FormatNone
	}
}

// TrimExt removes a compression extension, so "wall.png.xz" becomes "wall.png".
func TrimExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".bz2", ".xz":
		return strings.TrimSuffix(name, filepath.Ext(name))
	default:
		return name
	}
}

// NewReader returns a reader that yields the decompressed contents of r,
// capped at MaxDecompressedSize. Uncompressed streams pass through untouched.
func NewReader(r io.Reader, name string) (io.Reader, Format, error) {
	br := bufio.NewReader(r)
	header, _ := br.Peek(len(magicXz))

	format := DetectFormat(name, header)
	var dr io.Reader
	switch format {
	case FormatNone:
		return br, format, nil
	case FormatGzip:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dr = gzr
	case FormatBzip2:
		dr = bzip2.NewReader(br)
	case FormatXz:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	}

	return security.NewLimitedReader(dr, MaxDecompressedSize), format, nil
}
