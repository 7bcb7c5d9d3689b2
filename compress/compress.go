// Package compress declares the Codec interface parquet's per-column-chunk
// compression algorithms implement, along with the Reader/Writer interfaces
// a codec's streaming half plugs into, and two small helpers (Compressor,
// Decompressor) that turn a streaming NewWriter/NewReader into one-shot
// Encode/Decode calls for codecs whose underlying library has no native
// single-shot API.
//
// https://github.com/apache/parquet-format/blob/master/Compression.md
package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/gostorage/parquet/format"
)

// Codec is implemented by every compression algorithm a column chunk's pages
// may be written with. Implementations must be safe for concurrent use.
type Codec interface {
	// String returns a human-readable codec name, e.g. "SNAPPY".
	String() string

	// CompressionCodec returns the codec's code in the parquet file format.
	CompressionCodec() format.CompressionCodec

	// Encode appends the compressed form of src to dst (which may be
	// reused if it has spare capacity) and returns the result.
	Encode(dst, src []byte) ([]byte, error)

	// Decode appends the decompressed form of src to dst (which may be
	// reused if it has spare capacity) and returns the result.
	Decode(dst, src []byte) ([]byte, error)

	// NewReader wraps r with a decompressing Reader.
	NewReader(r io.Reader) (Reader, error)

	// NewWriter wraps w with a compressing Writer.
	NewWriter(w io.Writer) (Writer, error)
}

// Reader is a decompressing reader that can be rebound to a new source,
// which lets callers pool readers instead of allocating one per page.
type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

// Writer is a compressing writer that can be rebound to a new destination,
// for the same pooling reason as Reader.
type Writer interface {
	io.WriteCloser
	Reset(io.Writer) error
}

// Compressor turns a streaming NewWriter constructor into a one-shot Encode
// call, pooling the underlying Writer across calls so repeated compression
// of small buffers (parquet pages are typically a few hundred KB at most)
// doesn't pay for a fresh compressor every time.
type Compressor struct {
	pool sync.Pool
}

func (c *Compressor) Encode(dst, src []byte, newWriter func(io.Writer) (Writer, error)) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])

	w, ok := c.pool.Get().(Writer)
	if ok {
		if err := w.Reset(buf); err != nil {
			return dst, err
		}
	} else {
		var err error
		if w, err = newWriter(buf); err != nil {
			return dst, err
		}
	}
	defer func() {
		w.Reset(io.Discard)
		c.pool.Put(w)
	}()

	if _, err := w.Write(src); err != nil {
		return buf.Bytes(), err
	}
	if err := w.Close(); err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

// Decompressor is the Decode-side counterpart of Compressor.
type Decompressor struct {
	pool sync.Pool
}

func (d *Decompressor) Decode(dst, src []byte, newReader func(io.Reader) (Reader, error)) ([]byte, error) {
	in := bytes.NewReader(src)

	r, ok := d.pool.Get().(Reader)
	if ok {
		if err := r.Reset(in); err != nil {
			return dst, err
		}
	} else {
		var err error
		if r, err = newReader(in); err != nil {
			return dst, err
		}
	}
	defer func() {
		if err := r.Reset(nil); err == nil {
			d.pool.Put(r)
		}
	}()

	out := bytes.NewBuffer(dst[:0])
	_, err := out.ReadFrom(r)
	return out.Bytes(), err
}
