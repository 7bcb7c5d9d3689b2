// Package gzip implements the GZIP parquet compression codec on top of
// klauspost/compress/gzip.
package gzip

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
)

// emptyStream is what gzip.NewReader needs to see when NewReader/Reset are
// given a nil source: a valid empty gzip stream rather than an I/O error.
const emptyStream = "\x1f\x8b\b\x00\x00\x00\x00\x00\x02\xff\x01\x00\x00\xff\xff\x00\x00\x00\x00\x00\x00\x00\x00"

const (
	NoCompression      = gzip.NoCompression
	BestSpeed          = gzip.BestSpeed
	BestCompression    = gzip.BestCompression
	DefaultCompression = gzip.DefaultCompression
	HuffmanOnly        = gzip.HuffmanOnly
)

// Codec compresses with GZIP at the given Level (one of the constants
// above, or a value between BestSpeed and BestCompression).
type Codec struct {
	Level int

	oneShotEncode compress.Compressor
	oneShotDecode compress.Decompressor
}

func (c *Codec) String() string { return "GZIP" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Gzip }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return c.oneShotEncode.Encode(dst, src, c.NewWriter)
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.oneShotDecode.Decode(dst, src, c.NewReader)
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	z, err := gzip.NewReader(orEmptyStream(r))
	if err != nil {
		return nil, err
	}
	return gzReader{z}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	z, err := gzip.NewWriterLevel(orDiscard(w), c.Level)
	if err != nil {
		return nil, err
	}
	return gzWriter{z}, nil
}

type gzReader struct{ *gzip.Reader }

func (r gzReader) Reset(rr io.Reader) error { return r.Reader.Reset(orEmptyStream(rr)) }

type gzWriter struct{ *gzip.Writer }

func (w gzWriter) Reset(ww io.Writer) error {
	w.Writer.Reset(orDiscard(ww))
	return nil
}

func orEmptyStream(r io.Reader) io.Reader {
	if r == nil {
		return strings.NewReader(emptyStream)
	}
	return r
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
