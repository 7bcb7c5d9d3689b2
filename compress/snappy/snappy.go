// Package snappy implements the SNAPPY parquet compression codec.
//
// The klauspost/compress/snappy package's Reader/Writer speak the streaming
// framing format, but parquet pages are compressed with the raw snappy
// block codec, so the streaming half of this codec is hand-rolled: it
// buffers a page's full payload in memory and runs it through
// snappy.Encode/snappy.Decode in one shot. Parquet pages are bounded in
// size (a few hundred KB to a few MB), so this isn't a concern in practice.
package snappy

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/snappy"
	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
)

type Codec struct{}

func (Codec) String() string { return "SNAPPY" }

func (Codec) CompressionCodec() format.CompressionCodec { return format.Snappy }

func (Codec) Encode(dst, src []byte) ([]byte, error) { return snappy.Encode(dst[:0], src), nil }

func (Codec) Decode(dst, src []byte) ([]byte, error) { return snappy.Decode(dst[:0], src) }

func (Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return &blockReader{src: r}, nil
}

func (Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return &blockWriter{dst: w}, nil
}

// blockReader decompresses by slurping its whole source into memory and
// decoding it as a single raw snappy block, then serving Read calls out of
// the decoded buffer.
type blockReader struct {
	src      io.Reader
	raw      bytes.Buffer
	decoded  []byte
	position int
	ready    bool
}

func (r *blockReader) Reset(src io.Reader) error {
	r.src = src
	r.raw.Reset()
	r.decoded = r.decoded[:0]
	r.position = 0
	r.ready = false
	return nil
}

func (r *blockReader) Close() error { return r.Reset(nil) }

func (r *blockReader) Read(b []byte) (int, error) {
	if !r.ready {
		if r.src == nil {
			return 0, io.EOF
		}
		if _, err := r.raw.ReadFrom(r.src); err != nil {
			return 0, err
		}
		decoded, err := snappy.Decode(r.decoded[:0], r.raw.Bytes())
		if err != nil {
			return 0, err
		}
		r.decoded = decoded
		r.ready = true
	}

	n := copy(b, r.decoded[r.position:])
	r.position += n
	if r.position == len(r.decoded) {
		return n, io.EOF
	}
	return n, nil
}

// blockWriter accumulates writes in memory and flushes a single encoded
// block to dst on Close.
type blockWriter struct {
	dst      io.Writer
	pending  []byte
	compiled []byte
}

func (w *blockWriter) Reset(dst io.Writer) error {
	w.dst = dst
	w.pending = w.pending[:0]
	w.compiled = w.compiled[:0]
	return nil
}

func (w *blockWriter) Write(b []byte) (int, error) {
	w.pending = append(w.pending, b...)
	return len(b), nil
}

func (w *blockWriter) Close() error {
	if w.dst == nil {
		w.pending = w.pending[:0]
		return nil
	}
	if len(w.pending) > 0 {
		w.compiled = snappy.Encode(w.compiled[:0], w.pending)
		w.pending = w.pending[:0]
	}
	_, err := w.dst.Write(w.compiled)
	w.compiled = w.compiled[:0]
	return err
}
