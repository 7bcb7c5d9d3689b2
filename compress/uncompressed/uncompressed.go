// Package uncompressed implements the no-op UNCOMPRESSED parquet codec: it
// exists so the rest of the codec machinery (lookup tables, the Codec
// interface) never has to special-case "no compression" as a nil pointer.
package uncompressed

import (
	"io"

	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
)

type Codec struct{}

func (Codec) String() string { return "UNCOMPRESSED" }

func (Codec) CompressionCodec() format.CompressionCodec { return format.Uncompressed }

func (Codec) Encode(dst, src []byte) ([]byte, error) { return append(dst[:0], src...), nil }

func (Codec) Decode(dst, src []byte) ([]byte, error) { return append(dst[:0], src...), nil }

func (Codec) NewReader(r io.Reader) (compress.Reader, error) { return &reader{Reader: r}, nil }

func (Codec) NewWriter(w io.Writer) (compress.Writer, error) { return &writer{Writer: w}, nil }

type reader struct{ io.Reader }

func (r *reader) Close() error { return nil }

func (r *reader) Reset(rr io.Reader) error {
	r.Reader = rr
	return nil
}

type writer struct{ io.Writer }

func (w *writer) Close() error { return nil }

func (w *writer) Reset(ww io.Writer) error {
	w.Writer = ww
	return nil
}
