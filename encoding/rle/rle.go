// Package rle implements the hybrid RLE/Bit-Packed encoding used for
// repetition and definition levels and for dictionary-indexed data pages.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#run-length-encoding--bit-packing-hybrid-rle--3
package rle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"

	"github.com/gostorage/parquet/format"
	"github.com/gostorage/parquet/internal/unsafecast"
)

// Encoding implements the hybrid run-length/bit-packed codec directly over
// byte buffers. Only the INT8 and INT32 paths are exercised by the column
// engine (levels and dictionary indices respectively); boolean support is
// kept for completeness since real parquet readers expect an RLE codec to
// round-trip BOOLEAN the same way.
type Encoding struct {
	BitWidth int
}

func (e *Encoding) Encoding() format.Encoding { return format.RLE }

func (e *Encoding) String() string { return "RLE" }

// EncodeBoolean hybrid-RLE encodes src at a fixed bit-width of 1, prefixed
// with the 4-byte length the format requires for RLE-encoded booleans.
func (e *Encoding) EncodeBoolean(dst []byte, src []bool) ([]byte, error) {
	dst = append(dst[:0], 0, 0, 0, 0)
	dst, err := encodeInt8(dst, unsafecast.Slice[int8](src), 1)
	binary.LittleEndian.PutUint32(dst, uint32(len(dst))-4)
	return dst, e.wrap(err)
}

func (e *Encoding) EncodeInt8(dst []byte, src []int8) ([]byte, error) {
	dst, err := encodeInt8(dst[:0], src, uint(e.BitWidth))
	return dst, e.wrap(err)
}

func (e *Encoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	dst, err := encodeInt32(dst[:0], src, uint(e.BitWidth))
	return dst, e.wrap(err)
}

func (e *Encoding) DecodeBoolean(dst []bool, src []byte) ([]bool, error) {
	if len(src) == 4 {
		return dst[:0], nil
	}
	if len(src) < 4 {
		return dst[:0], fmt.Errorf("input shorter than 4 bytes: %w", io.ErrUnexpectedEOF)
	}
	n := int(binary.LittleEndian.Uint32(src))
	src = src[4:]
	if n > len(src) {
		return dst[:0], fmt.Errorf("input shorter than length prefix: %d < %d: %w", len(src), n, io.ErrUnexpectedEOF)
	}
	out, err := decodeInt8(unsafecast.Slice[int8](dst)[:0], src[:n], 1)
	return unsafecast.Slice[bool](out), e.wrap(err)
}

func (e *Encoding) DecodeInt8(dst []int8, src []byte) ([]int8, error) {
	dst, err := decodeInt8(dst[:0], src, uint(e.BitWidth))
	return dst, e.wrap(err)
}

func (e *Encoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	dst, err := decodeInt32(dst[:0], src, uint(e.BitWidth))
	return dst, e.wrap(err)
}

func (e *Encoding) wrap(err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", e, err)
	}
	return nil
}

// byteCount returns the number of whole bytes needed to hold n bits.
func byteCount(n uint) int { return int((n + 7) / 8) }

func encodeInt8(dst []byte, src []int8, bitWidth uint) ([]byte, error) {
	if bitWidth > 8 {
		return dst, errInvalidBitWidth("encode", "INT8", bitWidth)
	}
	if bitWidth == 0 {
		if !isZeroInt8(src) {
			return dst, errInvalidBitWidth("encode", "INT8", bitWidth)
		}
		return appendUvarint(dst, uint64(len(src))<<1), nil
	}

	bitMask := uint64(1<<bitWidth) - 1
	packedSize := byteCount(8 * bitWidth)

	if len(src) >= 8 {
		words := unsafe.Slice((*uint64)(unsafe.Pointer(&src[0])), len(src)/8)

		for i := 0; i < len(words); {
			j := i
			pattern := broadcast8x8(words[i] & 0xFF)

			for j < len(words) && words[j] == pattern {
				j++
			}

			if i < j {
				dst = appendUvarint(dst, uint64(8*(j-i))<<1)
				dst = append(dst, byte(pattern))
			} else {
				j++
				for j < len(words) && words[j] != broadcast8x8(words[j-1]) {
					j++
				}

				dst = appendUvarint(dst, uint64(j-i)<<1|1)

				for _, word := range words[i:j] {
					packed := (word & bitMask) |
						(((word >> 8) & bitMask) << (1 * bitWidth)) |
						(((word >> 16) & bitMask) << (2 * bitWidth)) |
						(((word >> 24) & bitMask) << (3 * bitWidth)) |
						(((word >> 32) & bitMask) << (4 * bitWidth)) |
						(((word >> 40) & bitMask) << (5 * bitWidth)) |
						(((word >> 48) & bitMask) << (6 * bitWidth)) |
						(((word >> 56) & bitMask) << (7 * bitWidth))
					var raw [8]byte
					binary.LittleEndian.PutUint64(raw[:], packed)
					dst = append(dst, raw[:packedSize]...)
				}
			}

			i = j
		}
	}

	for i := (len(src) / 8) * 8; i < len(src); {
		j := i + 1
		for j < len(src) && src[i] == src[j] {
			j++
		}
		dst = appendUvarint(dst, uint64(j-i)<<1)
		dst = append(dst, byte(src[i]))
		i = j
	}

	return dst, nil
}

func encodeInt32(dst []byte, src []int32, bitWidth uint) ([]byte, error) {
	if bitWidth > 32 {
		return dst, errInvalidBitWidth("encode", "INT32", bitWidth)
	}
	if bitWidth == 0 {
		if !isZeroInt32(src) {
			return dst, errInvalidBitWidth("encode", "INT32", bitWidth)
		}
		return appendUvarint(dst, uint64(len(src))<<1), nil
	}

	bitMask := uint32(1<<bitWidth) - 1
	packedSize := byteCount(8 * bitWidth)

	if len(src) >= 8 {
		words := unsafe.Slice((*[8]int32)(unsafe.Pointer(&src[0])), len(src)/8)

		for i := 0; i < len(words); {
			j := i
			pattern := broadcast32x8(words[i][0])

			for j < len(words) && words[j] == pattern {
				j++
			}

			if i < j {
				dst = appendUvarint(dst, uint64(8*(j-i))<<1)
				dst = appendPackedInt32(dst, pattern[0], bitWidth)
			} else {
				j++
				for j < len(words) && words[j] != broadcast32x8(words[j-1][0]) {
					j++
				}

				dst = appendUvarint(dst, uint64(j-i)<<1|1)

				for _, word := range words[i:j] {
					var packed [9]uint32
					bitOffset := uint(0)

					for _, value := range word {
						hi, lo := bitOffset/32, bitOffset%32
						packed[hi+0] |= (uint32(value) & bitMask) << lo
						packed[hi+1] |= uint32(value) >> (32 - lo)
						bitOffset += bitWidth
					}

					raw := unsafe.Slice((*byte)(unsafe.Pointer(&packed[0])), packedSize)
					dst = append(dst, raw...)
				}
			}

			i = j
		}
	}

	for i := (len(src) / 8) * 8; i < len(src); {
		j := i + 1
		for j < len(src) && src[i] == src[j] {
			j++
		}
		dst = appendUvarint(dst, uint64(j-i)<<1)
		dst = appendPackedInt32(dst, src[i], bitWidth)
		i = j
	}

	return dst, nil
}

func decodeInt8(dst []int8, src []byte, bitWidth uint) ([]int8, error) {
	if bitWidth > 8 {
		return dst, errInvalidBitWidth("decode", "INT8", bitWidth)
	}

	bitMask := uint64(1<<bitWidth) - 1
	packedSize := byteCount(8 * bitWidth)

	for i := 0; i < len(src); {
		u, n := binary.Uvarint(src[i:])
		i += n

		count, bitpack := uint(u>>1), (u&1) != 0
		if !bitpack {
			if bitWidth != 0 && (i+1) > len(src) {
				return dst, fmt.Errorf("decoding run-length block of %d values: %w", count, io.ErrUnexpectedEOF)
			}
			word := int8(0)
			if bitWidth != 0 {
				word = int8(src[i])
				i++
			}
			for ; count > 0; count-- {
				dst = append(dst, word)
			}
			continue
		}

		for n := uint(0); n < count; n++ {
			j := i + packedSize
			if j > len(src) {
				return dst, fmt.Errorf("decoding bit-packed block of %d values: %w", 8*count, io.ErrUnexpectedEOF)
			}
			var raw [8]byte
			copy(raw[:], src[i:j])
			word := binary.LittleEndian.Uint64(raw[:])

			dst = append(dst,
				int8((word>>(0*bitWidth))&bitMask),
				int8((word>>(1*bitWidth))&bitMask),
				int8((word>>(2*bitWidth))&bitMask),
				int8((word>>(3*bitWidth))&bitMask),
				int8((word>>(4*bitWidth))&bitMask),
				int8((word>>(5*bitWidth))&bitMask),
				int8((word>>(6*bitWidth))&bitMask),
				int8((word>>(7*bitWidth))&bitMask),
			)
			i = j
		}
	}

	return dst, nil
}

func decodeInt32(dst []int32, src []byte, bitWidth uint) ([]int32, error) {
	if bitWidth > 32 {
		return dst, errInvalidBitWidth("decode", "INT32", bitWidth)
	}

	bitMask := uint64(1<<bitWidth) - 1
	runSize := byteCount(bitWidth)
	packedSize := byteCount(8 * bitWidth)

	for i := 0; i < len(src); {
		u, n := binary.Uvarint(src[i:])
		i += n

		count, bitpack := uint(u>>1), (u&1) != 0
		if !bitpack {
			j := i + runSize
			if j > len(src) {
				return dst, fmt.Errorf("decoding run-length block of %d values: %w", count, io.ErrUnexpectedEOF)
			}
			var raw [4]byte
			copy(raw[:], src[i:j])
			word := binary.LittleEndian.Uint32(raw[:])
			i = j
			for ; count > 0; count-- {
				dst = append(dst, int32(word))
			}
			continue
		}

		for n := uint(0); n < count; n++ {
			j := i + packedSize
			if j > len(src) {
				return dst, fmt.Errorf("decoding bit-packed block of %d values: %w", 8*count, io.ErrUnexpectedEOF)
			}

			value := uint64(0)
			bitOffset := uint(0)
			for _, b := range src[i:j] {
				value |= uint64(b) << bitOffset
				for bitOffset += 8; bitOffset >= bitWidth; bitOffset -= bitWidth {
					dst = append(dst, int32(value&bitMask))
					value >>= bitWidth
				}
			}
			i = j
		}
	}

	return dst, nil
}

func errInvalidBitWidth(op, typ string, bitWidth uint) error {
	return fmt.Errorf("cannot %s %s with invalid bit-width=%d", op, typ, bitWidth)
}

func appendUvarint(dst []byte, u uint64) []byte {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], u)
	return append(dst, b[:n]...)
}

func appendPackedInt32(dst []byte, v int32, bitWidth uint) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(dst, b[:byteCount(bitWidth)]...)
}

func broadcast8x8(v uint64) uint64 {
	return v | v<<8 | v<<16 | v<<24 | v<<32 | v<<40 | v<<48 | v<<56
}

func broadcast32x8(v int32) [8]int32 {
	return [8]int32{v, v, v, v, v, v, v, v}
}

func isZeroInt8(data []int8) bool {
	return bytes.Count(unsafecast.Int8ToBytes(data), []byte{0}) == len(data)
}

func isZeroInt32(data []int32) bool {
	return bytes.Count(unsafecast.Int32ToBytes(data), []byte{0}) == (4 * len(data))
}
