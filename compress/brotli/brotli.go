// Package brotli implements the BROTLI parquet compression codec on top of
// andybalholm/brotli.
package brotli

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
)

const (
	DefaultQuality = 0
	DefaultLGWin   = 0
)

// Codec compresses with BROTLI at the given Quality/LGWin.
type Codec struct {
	// Quality controls the compression-speed vs compression-density
	// trade-off. Higher is slower. Range is 0 to 11.
	Quality int
	// LGWin is the base-2 logarithm of the sliding window size. Range is
	// 10 to 24; 0 lets brotli pick one based on Quality.
	LGWin int

	oneShotEncode compress.Compressor
	oneShotDecode compress.Decompressor
}

func (c *Codec) String() string { return "BROTLI" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return c.oneShotEncode.Encode(dst, src, c.NewWriter)
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.oneShotDecode.Decode(dst, src, c.NewReader)
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return brReader{brotli.NewReader(r)}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return brWriter{brotli.NewWriterOptions(w, brotli.WriterOptions{
		Quality: c.Quality,
		LGWin:   c.LGWin,
	})}, nil
}

// brReader adapts *brotli.Reader to compress.Reader: the underlying type has
// no Close, and Reset takes the same *brotli.Reader receiver so re-wrapping
// after every reset would defeat the point of pooling it.
type brReader struct{ *brotli.Reader }

func (r brReader) Close() error { return nil }

func (r brReader) Reset(rr io.Reader) error { return r.Reader.Reset(rr) }

type brWriter struct{ *brotli.Writer }

func (w brWriter) Reset(ww io.Writer) error {
	w.Writer.Reset(ww)
	return nil
}
