// Package plain implements the PLAIN parquet encoding: fixed-width values
// written back to back, and length-prefixed values for the variable-length
// BYTE_ARRAY type.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#plain-plain--0
package plain

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gostorage/parquet/deprecated"
)

const (
	byteArrayLengthSize = 4
	maxByteArrayLength  = math.MaxInt32
)

func Boolean(v bool) []byte { return AppendBoolean(nil, 0, v) }

func Int32(v int32) []byte { return AppendInt32(nil, v) }

func Int64(v int64) []byte { return AppendInt64(nil, v) }

func Int96(v deprecated.Int96) []byte { return AppendInt96(nil, v) }

func Float(v float32) []byte { return AppendFloat(nil, v) }

func Double(v float64) []byte { return AppendDouble(nil, v) }

func ByteArray(v []byte) []byte { return AppendByteArray(nil, v) }

// AppendBoolean sets the n-th bit packed into b to v, growing b as needed.
func AppendBoolean(b []byte, n int, v bool) []byte {
	byteIndex, bitIndex := n/8, uint(n%8)

	if cap(b) > byteIndex {
		b = b[:byteIndex+1]
	} else {
		grown := make([]byte, byteIndex+1, 2*(byteIndex+1))
		copy(grown, b)
		b = grown
	}

	bit := byte(0)
	if v {
		bit = 1
	}
	b[byteIndex] = (b[byteIndex] &^ (1 << bitIndex)) | (bit << bitIndex)
	return b
}

func AppendInt32(b []byte, v int32) []byte {
	var x [4]byte
	binary.LittleEndian.PutUint32(x[:], uint32(v))
	return append(b, x[:]...)
}

func AppendInt64(b []byte, v int64) []byte {
	var x [8]byte
	binary.LittleEndian.PutUint64(x[:], uint64(v))
	return append(b, x[:]...)
}

func AppendInt96(b []byte, v deprecated.Int96) []byte {
	var x [12]byte
	binary.LittleEndian.PutUint32(x[0:4], v[0])
	binary.LittleEndian.PutUint32(x[4:8], v[1])
	binary.LittleEndian.PutUint32(x[8:12], v[2])
	return append(b, x[:]...)
}

func AppendFloat(b []byte, v float32) []byte {
	var x [4]byte
	binary.LittleEndian.PutUint32(x[:], math.Float32bits(v))
	return append(b, x[:]...)
}

func AppendDouble(b []byte, v float64) []byte {
	var x [8]byte
	binary.LittleEndian.PutUint64(x[:], math.Float64bits(v))
	return append(b, x[:]...)
}

// AppendByteArray appends v to b as a 4-byte little-endian length prefix
// followed by v's bytes.
func AppendByteArray(b, v []byte) []byte {
	var length [byteArrayLengthSize]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(v)))
	b = append(b, length[:]...)
	b = append(b, v...)
	return b
}

// NextByteArray splits the PLAIN-encoded byte array at the front of b off
// from the rest, returning the value and the remaining bytes.
func NextByteArray(b []byte) (value, rest []byte, err error) {
	if len(b) < byteArrayLengthSize {
		return nil, b, errTooShort(len(b))
	}
	n := int(binary.LittleEndian.Uint32(b))
	if n > maxByteArrayLength {
		return nil, b, fmt.Errorf("byte array of length %d is too large to be PLAIN decoded", n)
	}
	if n > len(b)-byteArrayLengthSize {
		return nil, b, errTooShort(len(b))
	}
	end := byteArrayLengthSize + n
	return b[byteArrayLengthSize:end:end], b[end:len(b):len(b)], nil
}

func errTooShort(length int) error {
	return fmt.Errorf("input of length %d is too short to contain a PLAIN encoded byte array value: %w", length, io.ErrUnexpectedEOF)
}
