// Package lz4 implements the LZ4_RAW parquet compression codec on top of
// pierrec/lz4. Parquet's LZ4_RAW codec is the bare block format (no frame
// header, no checksums), so compression/decompression work directly against
// lz4.CompressBlock/UncompressBlock rather than the package's frame Reader
// and Writer.
package lz4

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
)

// Level is the LZ4 high-compression encoder's speed/ratio trade-off knob.
type Level = lz4.CompressionLevel

const (
	Fast   = lz4.Fast
	Level1 = lz4.Level1
	Level2 = lz4.Level2
	Level3 = lz4.Level3
	Level4 = lz4.Level4
	Level5 = lz4.Level5
	Level6 = lz4.Level6
	Level7 = lz4.Level7
	Level8 = lz4.Level8
	Level9 = lz4.Level9
)

const (
	DefaultLevel     = Fast
	DefaultBlockSize = 32 * 1024
)

// Codec configures an LZ4_RAW compressor. BlockSize seeds the size of the
// reusable buffers the streaming Reader/Writer grow from; it isn't a hard
// cap; buffers still grow to fit whatever page is being compressed.
type Codec struct {
	Level     Level
	BlockSize int
}

func (c *Codec) String() string { return "LZ4_RAW" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Lz4Raw }

func (c *Codec) blockSize() int {
	if c.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return c.BlockSize
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	limit := lz4.CompressBlockBound(len(src))
	if cap(dst) < limit {
		dst = make([]byte, limit)
	} else {
		dst = dst[:limit]
	}
	compressor := lz4.CompressorHC{Level: c.Level}
	n, err := compressor.CompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if cap(dst) < c.blockSize() {
		dst = make([]byte, c.blockSize())
	} else {
		dst = dst[:cap(dst)]
	}
	for {
		n, err := lz4.UncompressBlock(src, dst)
		if err == nil {
			return dst[:n], nil
		}
		if len(dst) > len(src)*64 {
			return nil, err
		}
		dst = make([]byte, 2*len(dst))
	}
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return &blockReader{codec: c, src: r}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return &blockWriter{
		codec:      c,
		dst:        w,
		pending:    make([]byte, 0, c.blockSize()),
		compressed: make([]byte, 0, c.blockSize()),
	}, nil
}

// blockReader slurps its whole source and decodes it as a single raw LZ4
// block, growing its output buffer until UncompressBlock stops complaining
// that it's too small.
type blockReader struct {
	codec  *Codec
	src    io.Reader
	buffer bytes.Buffer
	data   []byte
	offset int
}

func (r *blockReader) Reset(src io.Reader) error {
	r.src = src
	r.buffer.Reset()
	r.data = r.data[:0]
	r.offset = 0
	return nil
}

func (r *blockReader) Close() error {
	r.offset = len(r.data)
	r.src = nil
	return nil
}

func (r *blockReader) Read(b []byte) (int, error) {
	if r.offset == 0 && len(r.data) == 0 {
		if err := r.decompress(); err != nil {
			return 0, err
		}
	}
	n := copy(b, r.data[r.offset:])
	r.offset += n
	if r.offset == len(r.data) {
		return n, io.EOF
	}
	return n, nil
}

func (r *blockReader) decompress() error {
	if r.src == nil {
		return io.EOF
	}
	if _, err := r.buffer.ReadFrom(r.src); err != nil {
		return err
	}
	data, err := r.codec.Decode(r.data[:0], r.buffer.Bytes())
	if err != nil {
		return err
	}
	r.data = data
	return nil
}

// blockWriter buffers writes and compresses the accumulated payload as a
// single block on Close.
type blockWriter struct {
	codec      *Codec
	dst        io.Writer
	pending    []byte
	compressed []byte
}

func (w *blockWriter) Reset(dst io.Writer) error {
	w.dst = dst
	w.pending = w.pending[:0]
	w.compressed = w.compressed[:0]
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
	if len(w.pending) == 0 {
		return nil
	}
	compressed, err := w.codec.Encode(w.compressed[:0], w.pending)
	w.pending = w.pending[:0]
	if err != nil {
		return err
	}
	w.compressed = compressed
	_, err = w.dst.Write(w.compressed)
	return err
}
