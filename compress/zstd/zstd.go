// Package zstd implements the ZSTD parquet compression codec on top of
// klauspost/compress/zstd.
package zstd

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
)

// Level is the zstd encoder's speed/ratio trade-off knob.
type Level = zstd.EncoderLevel

const (
	DefaultLevel       = zstd.SpeedDefault
	DefaultConcurrency = 1
)

// Codec configures a ZSTD compressor. Concurrency bounds how many goroutines
// the underlying encoder/decoder may spawn per stream; parquet pages are
// compressed one at a time on the caller's goroutine, so the default of 1
// avoids the library spinning up background workers that would never pay
// for themselves.
type Codec struct {
	Level       Level
	Concurrency int

	once sync.Once
	enc  *zstd.Encoder
	dec  *zstd.Decoder
	err  error
}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

// oneShot lazily builds a standalone encoder/decoder pair used for the
// one-shot Encode/Decode path, independent from the streaming Reader/Writer
// pool used by NewReader/NewWriter.
func (c *Codec) oneShot() (*zstd.Encoder, *zstd.Decoder, error) {
	c.once.Do(func() {
		c.enc, c.err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(c.level()),
			zstd.WithEncoderConcurrency(c.concurrency()),
			zstd.WithZeroFrames(true),
		)
		if c.err != nil {
			return
		}
		c.dec, c.err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(c.concurrency()))
	})
	return c.enc, c.dec, c.err
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	enc, _, err := c.oneShot()
	if err != nil {
		return dst, err
	}
	return enc.EncodeAll(src, dst[:0]), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	_, dec, err := c.oneShot()
	if err != nil {
		return dst, err
	}
	return dec.DecodeAll(src, dst[:0])
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	z, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(c.concurrency()))
	if err != nil {
		return nil, err
	}
	return streamReader{z}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	z, err := zstd.NewWriter(discardIfNil(w),
		zstd.WithEncoderLevel(c.level()),
		zstd.WithEncoderConcurrency(c.concurrency()),
		zstd.WithZeroFrames(true),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		return nil, err
	}
	return streamWriter{z}, nil
}

func (c *Codec) level() Level {
	if c.Level == 0 {
		return DefaultLevel
	}
	return c.Level
}

func (c *Codec) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

type streamReader struct{ *zstd.Decoder }

func (r streamReader) Close() error { r.Decoder.Close(); return nil }

type streamWriter struct{ *zstd.Encoder }

func (w streamWriter) Close() error { return w.Encoder.Close() }

func (w streamWriter) Reset(ww io.Writer) error {
	w.Encoder.Reset(discardIfNil(ww))
	return nil
}

func discardIfNil(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
