package csv

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/saintfish/chardet"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Compression selects the decompressor applied by a ChunkSource.
type Compression int

const (
	// CompressionAuto detects the format from its magic bytes.
	CompressionAuto Compression = iota
	// CompressionNone reads the input as is.
	CompressionNone
	CompressionGzip
	CompressionBzip2
	CompressionZstd
	CompressionXZ
	CompressionLZ4
)

// String returns the string representation of Compression.
func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionZstd:
		return "zstd"
	case CompressionXZ:
		return "xz"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", c)
	}
}

func (c Compression) valid() bool {
	return c >= CompressionAuto && c <= CompressionLZ4
}

// Magic numbers for compression detection.
var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXZ    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicLZ4   = []byte{0x04, 0x22, 0x4d, 0x18}
	magicBzip2 = []byte("BZh")

	// bzip2 block header and end-of-stream marker following "BZh" and the level digit.
	bzip2Block = []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
	bzip2End   = []byte{0x17, 0x72, 0x45, 0x38, 0x50, 0x90}
)

// detectCompression identifies the compression format from leading bytes.
func detectCompression(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, magicGzip):
		return CompressionGzip
	case bytes.HasPrefix(magic, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(magic, magicXZ):
		return CompressionXZ
	case bytes.HasPrefix(magic, magicLZ4):
		return CompressionLZ4
	case len(magic) >= 10 && bytes.HasPrefix(magic, magicBzip2) && magic[3] >= '1' && magic[3] <= '9' &&
		(bytes.Equal(magic[4:10], bzip2Block) || bytes.Equal(magic[4:10], bzip2End)):
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

// encodingSniffLength is the number of bytes inspected to guess a charset.
const encodingSniffLength = 4096

// ChunkSource reads an io.Reader as a sequence of UTF-8 text chunks.
//
// The input is decompressed and decoded to UTF-8 first. Chunks never split a
// UTF-8 sequence; they may split anything else, including lines.
//
// Example:
//
//	src, err := csv.NewChunkSource(file, csv.SourceOptions{})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	for {
//	    text, last, err := src.Next()
//	    if err != nil {
//	        return err
//	    }
//	    // feed text to a Session
//	    if last {
//	        break
//	    }
//	}
type ChunkSource struct {
	r           io.Reader
	counter     *countingReader
	closers     []func() error
	size        int
	buf         []byte
	carry       []byte
	done        bool
	compression Compression
	encoding    string
}

// NewChunkSource prepares r for chunked reading.
// The caller keeps ownership of r; Close releases only the decoders.
func NewChunkSource(r io.Reader, opts SourceOptions) (*ChunkSource, error) {
	if opts.ChunkSize < 0 {
		return nil, &OptionsError{Field: "Source.ChunkSize", Message: "must not be negative"}
	}
	if !opts.Compression.valid() {
		return nil, &OptionsError{Field: "Source.Compression", Message: "unknown compression"}
	}
	size := opts.ChunkSize
	if size == 0 {
		size = DefaultChunkSize
	}
	size = max(size, utf8.UTFMax)

	s := &ChunkSource{
		counter: &countingReader{r: r},
		size:    size,
	}
	dr, err := s.decompress(bufio.NewReader(s.counter), opts.Compression)
	if err != nil {
		return nil, err
	}
	if s.r, err = s.decode(bufio.NewReaderSize(dr, encodingSniffLength), opts.Encoding); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Next returns the next chunk of text. last is true for the final chunk,
// which may be empty; Next must not be called again after it.
func (s *ChunkSource) Next() (text string, last bool, err error) {
	if s.done {
		return "", true, io.EOF
	}
	if s.buf == nil {
		s.buf = make([]byte, s.size)
	}

	n := copy(s.buf, s.carry)
	m, err := io.ReadFull(s.r, s.buf[n:])
	n += m
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		s.done = true
	default:
		return "", false, fmt.Errorf("csv: read chunk: %w", err)
	}

	data := s.buf[:n]
	if !s.done {
		cut := completePrefix(data)
		s.carry = append(s.carry[:0], data[cut:]...)
		data = data[:cut]
	}
	return string(data), s.done, nil
}

// BytesRead returns the number of bytes consumed from the underlying
// reader, before decompression.
func (s *ChunkSource) BytesRead() int64 {
	return s.counter.n
}

// Compression returns the decompressor in use.
func (s *ChunkSource) Compression() Compression {
	return s.compression
}

// Encoding returns the name of the decoded charset.
func (s *ChunkSource) Encoding() string {
	return s.encoding
}

// Close releases the decompressor.
func (s *ChunkSource) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

func (s *ChunkSource) decompress(br *bufio.Reader, c Compression) (io.Reader, error) {
	if c == CompressionAuto {
		magic, _ := br.Peek(10)
		c = detectCompression(magic)
	}
	s.compression = c

	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("csv: failed to create gzip reader: %w", err)
		}
		s.closers = append(s.closers, gz.Close)
		return gz, nil

	case CompressionBzip2:
		return bzip2.NewReader(br), nil

	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("csv: failed to create zstd reader: %w", err)
		}
		s.closers = append(s.closers, func() error { dec.Close(); return nil })
		return dec, nil

	case CompressionXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("csv: failed to create xz reader: %w", err)
		}
		return xr, nil

	case CompressionLZ4:
		return lz4.NewReader(br), nil

	default:
		return br, nil
	}
}

func (s *ChunkSource) decode(br *bufio.Reader, name string) (io.Reader, error) {
	if name != "" && !strings.EqualFold(name, "auto") {
		enc, err := lookupEncoding(name)
		if err != nil {
			return nil, fmt.Errorf("csv: unknown encoding %q: %w", name, err)
		}
		s.encoding = strings.ToLower(name)
		return transform.NewReader(br, unicode.BOMOverride(enc.NewDecoder())), nil
	}

	peek, _ := br.Peek(encodingSniffLength)
	if bom := bomEncoding(peek); bom != "" {
		s.encoding = bom
		return transform.NewReader(br, unicode.BOMOverride(transform.Nop)), nil
	}
	if utf8.Valid(peek[:completePrefix(peek)]) {
		s.encoding = "utf-8"
		return br, nil
	}

	res, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || res == nil {
		s.encoding = "utf-8"
		return br, nil
	}
	enc, err := lookupEncoding(res.Charset)
	if err != nil {
		s.encoding = "utf-8"
		return br, nil
	}
	s.encoding = strings.ToLower(res.Charset)
	return transform.NewReader(br, enc.NewDecoder()), nil
}

// lookupEncoding resolves a charset name, accepting the spellings chardet
// reports.
func lookupEncoding(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "gb-18030":
		n = "gb18030"
	case "iso-8859-8-i":
		n = "iso-8859-8"
	}
	return htmlindex.Get(n)
}

// bomEncoding names the charset announced by a byte order mark, if any.
func bomEncoding(p []byte) string {
	switch {
	case bytes.HasPrefix(p, []byte{0xef, 0xbb, 0xbf}):
		return "utf-8"
	case bytes.HasPrefix(p, []byte{0xff, 0xfe}):
		return "utf-16le"
	case bytes.HasPrefix(p, []byte{0xfe, 0xff}):
		return "utf-16be"
	default:
		return ""
	}
}

// completePrefix returns the length of the longest prefix of p that does not
// end inside a UTF-8 sequence.
func completePrefix(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if utf8.FullRune(p[i:]) {
				return len(p)
			}
			return i
		}
	}
	return len(p)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
