// Package thrift wraps github.com/segmentio/encoding/thrift's compact
// protocol codec with the two entry points the footer and page headers need:
// decoding a whole struct from a byte slice, and streaming structs one at a
// time off an io.Reader (used for the sequence of page headers within a
// column chunk).
package thrift

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/thrift"

	"github.com/gostorage/parquet/internal/debug"
)

// Unmarshal decodes a single compact-protocol encoded Thrift struct from b
// into v.
func Unmarshal(b []byte, v interface{}) error {
	debug.Format("thrift: unmarshal %d bytes into %T", len(b), v)
	protocol := thrift.CompactProtocol{}
	if err := thrift.Unmarshal(&protocol, b, v); err != nil {
		return fmt.Errorf("decoding %T: %w", v, err)
	}
	return nil
}

// Marshal appends the compact-protocol encoding of v to b and returns the
// extended slice.
func Marshal(b []byte, v interface{}) ([]byte, error) {
	debug.Format("thrift: marshal %T", v)
	protocol := thrift.CompactProtocol{}
	out, err := thrift.Append(&protocol, b, v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return out, nil
}

// Decoder streams a sequence of compact-protocol structs off an io.Reader,
// used to read the page headers of a column chunk one at a time without
// knowing in advance how many there are.
type Decoder struct {
	decoder *thrift.Decoder
}

// NewDecoder constructs a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	protocol := thrift.CompactProtocol{}
	return &Decoder{decoder: thrift.NewDecoder(protocol.NewReader(r))}
}

// Decode reads the next struct into v.
func (d *Decoder) Decode(v interface{}) error {
	return d.decoder.Decode(v)
}

// Writer appends compact-protocol encoded structs to an in-memory buffer
// that is flushed to an io.Writer on Flush. The file and page engines write
// the footer and page headers with Marshal instead.
type Writer struct {
	w      io.Writer
	buffer []byte
}

// NewWriter constructs a Writer flushing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Encode appends the compact-protocol encoding of v to the writer's
// buffer; call Flush to write it out.
func (w *Writer) Encode(v interface{}) error {
	b, err := Marshal(w.buffer, v)
	if err != nil {
		return err
	}
	w.buffer = b
	return nil
}

// Flush writes the buffered bytes to the underlying io.Writer and resets
// the buffer.
func (w *Writer) Flush() (int, error) {
	n, err := w.w.Write(w.buffer)
	w.buffer = w.buffer[:0]
	return n, err
}
