package parquet

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/gostorage/parquet/deprecated"
	"github.com/gostorage/parquet/encoding/plain"
	"github.com/gostorage/parquet/encoding/rle"
	"github.com/gostorage/parquet/internal/unsafecast"
)

// plainEncodeOne appends the PLAIN encoding of one value to a nil buffer.
// Booleans are encoded as a single-bit-packed byte, matching the teacher's
// own convention for one-off PLAIN values (statistics min/max, single
// dictionary entries written outside of the bulk page loop).
func plainEncodeOne(kind Kind, length int, v interface{}) ([]byte, error) {
	switch kind {
	case Boolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("value of type %T is not a bool", v)
		}
		return plain.AppendBoolean(nil, 0, b), nil
	case Int32:
		return plain.Int32(v.(int32)), nil
	case Int64:
		return plain.Int64(v.(int64)), nil
	case Int96:
		return plain.Int96(v.(deprecated.Int96)), nil
	case Float:
		return plain.Float(v.(float32)), nil
	case Double:
		return plain.Double(v.(float64)), nil
	case ByteArray:
		return plain.ByteArray(toByteSlice(v)), nil
	case FixedLenByteArray:
		b := v.([]byte)
		if len(b) != length {
			return nil, fmt.Errorf("fixed length byte array of size %d does not match expected length %d", len(b), length)
		}
		return append([]byte(nil), b...), nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// plainEncodePage PLAIN-encodes an entire column's present values, in order.
func plainEncodePage(kind Kind, length int, values []interface{}) ([]byte, error) {
	switch kind {
	case Boolean:
		var buf []byte
		for i, v := range values {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("value of type %T is not a bool", v)
			}
			buf = plain.AppendBoolean(buf, i, b)
		}
		return buf, nil
	case Int32:
		buf := make([]byte, 0, 4*len(values))
		for _, v := range values {
			buf = plain.AppendInt32(buf, v.(int32))
		}
		return buf, nil
	case Int64:
		buf := make([]byte, 0, 8*len(values))
		for _, v := range values {
			buf = plain.AppendInt64(buf, v.(int64))
		}
		return buf, nil
	case Int96:
		buf := make([]byte, 0, 12*len(values))
		for _, v := range values {
			buf = plain.AppendInt96(buf, v.(deprecated.Int96))
		}
		return buf, nil
	case Float:
		buf := make([]byte, 0, 4*len(values))
		for _, v := range values {
			buf = plain.AppendFloat(buf, v.(float32))
		}
		return buf, nil
	case Double:
		buf := make([]byte, 0, 8*len(values))
		for _, v := range values {
			buf = plain.AppendDouble(buf, v.(float64))
		}
		return buf, nil
	case ByteArray:
		var buf []byte
		for _, v := range values {
			buf = plain.AppendByteArray(buf, toByteSlice(v))
		}
		return buf, nil
	case FixedLenByteArray:
		buf := make([]byte, 0, length*len(values))
		for _, v := range values {
			b := v.([]byte)
			if len(b) != length {
				return nil, fmt.Errorf("fixed length byte array of size %d does not match expected length %d", len(b), length)
			}
			buf = append(buf, b...)
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// plainDecodePage is the inverse of plainEncodePage: it decodes exactly n
// values of kind from data.
func plainDecodePage(kind Kind, length, n int, data []byte) ([]interface{}, error) {
	values := make([]interface{}, 0, n)
	switch kind {
	case Boolean:
		for i := 0; i < n; i++ {
			byteIndex, bitIndex := i/8, uint(i%8)
			if byteIndex >= len(data) {
				return nil, fmt.Errorf("boolean page too short: need bit %d, have %d bytes", i, len(data))
			}
			values = append(values, (data[byteIndex]>>bitIndex)&1 != 0)
		}
	case Int32:
		if len(data) < 4*n {
			return nil, fmt.Errorf("int32 page too short: need %d bytes, have %d", 4*n, len(data))
		}
		for i := 0; i < n; i++ {
			values = append(values, int32(binary.LittleEndian.Uint32(data[4*i:])))
		}
	case Int64:
		if len(data) < 8*n {
			return nil, fmt.Errorf("int64 page too short: need %d bytes, have %d", 8*n, len(data))
		}
		for i := 0; i < n; i++ {
			values = append(values, int64(binary.LittleEndian.Uint64(data[8*i:])))
		}
	case Int96:
		if len(data) < 12*n {
			return nil, fmt.Errorf("int96 page too short: need %d bytes, have %d", 12*n, len(data))
		}
		for i := 0; i < n; i++ {
			off := 12 * i
			values = append(values, deprecated.Int96{
				binary.LittleEndian.Uint32(data[off:]),
				binary.LittleEndian.Uint32(data[off+4:]),
				binary.LittleEndian.Uint32(data[off+8:]),
			})
		}
	case Float:
		if len(data) < 4*n {
			return nil, fmt.Errorf("float page too short: need %d bytes, have %d", 4*n, len(data))
		}
		for _, f := range unsafecast.BytesToFloat32(data[:4*n]) {
			values = append(values, f)
		}
	case Double:
		if len(data) < 8*n {
			return nil, fmt.Errorf("double page too short: need %d bytes, have %d", 8*n, len(data))
		}
		for _, f := range unsafecast.BytesToFloat64(data[:8*n]) {
			values = append(values, f)
		}
	case ByteArray:
		rest := data
		for i := 0; i < n; i++ {
			var v []byte
			var err error
			v, rest, err = plain.NextByteArray(rest)
			if err != nil {
				return nil, err
			}
			values = append(values, append([]byte(nil), v...))
		}
	case FixedLenByteArray:
		if len(data) < length*n {
			return nil, fmt.Errorf("fixed length byte array page too short: need %d bytes, have %d", length*n, len(data))
		}
		for i := 0; i < n; i++ {
			v := make([]byte, length)
			copy(v, data[length*i:length*(i+1)])
			values = append(values, v)
		}
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
	return values, nil
}

// rleBitWidth returns the number of bits needed to represent values in
// [0, maxValue].
func rleBitWidth(maxValue int) int {
	return bits.Len(uint(maxValue))
}

// encodeLevels hybrid-RLE encodes a column's repetition or definition
// levels, prefixed with the 4-byte length the data page format requires.
// maxLevel of 0 means the level carries no information (every slot is
// implicitly at level 0), in which case the level array is entirely omitted,
// matching the format's own optimization for required, non-repeated fields.
func encodeLevels(levels []byte, maxLevel int) ([]byte, error) {
	if maxLevel == 0 {
		return nil, nil
	}
	e := rle.Encoding{BitWidth: rleBitWidth(maxLevel)}
	body, err := e.EncodeInt8(nil, unsafecast.BytesToInt8(levels))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(out, uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

// decodeLevels is the inverse of encodeLevels: it reads exactly n levels
// from the front of data and returns how many bytes it consumed.
func decodeLevels(data []byte, maxLevel, n int) (levels []byte, consumed int, err error) {
	if maxLevel == 0 {
		levels = make([]byte, n)
		return levels, 0, nil
	}
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("level array too short: %d bytes", len(data))
	}
	size := int(binary.LittleEndian.Uint32(data))
	if len(data) < 4+size {
		return nil, 0, fmt.Errorf("level array truncated: need %d bytes, have %d", size, len(data)-4)
	}
	e := rle.Encoding{BitWidth: rleBitWidth(maxLevel)}
	dst, err := e.DecodeInt8(make([]int8, 0, n), data[4:4+size])
	if err != nil {
		return nil, 0, err
	}
	if len(dst) < n {
		return nil, 0, fmt.Errorf("level array short: decoded %d levels, expected %d", len(dst), n)
	}
	return unsafecast.Int8ToBytes(dst[:n]), 4 + size, nil
}

// encodeDictionaryIndices hybrid-RLE encodes dictionary indices, prefixed by
// a single byte giving the bit width, with no outer length (the data page's
// own size delimits it).
func encodeDictionaryIndices(indices []int32, maxIndex int) ([]byte, error) {
	bitWidth := rleBitWidth(maxIndex)
	if bitWidth == 0 {
		bitWidth = 1
	}
	e := rle.Encoding{BitWidth: bitWidth}
	body, err := e.EncodeInt32(nil, indices)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(bitWidth)}, body...), nil
}

// decodeDictionaryIndices is the inverse of encodeDictionaryIndices.
func decodeDictionaryIndices(data []byte, n int) ([]int32, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("dictionary index page too short")
	}
	bitWidth := int(data[0])
	e := rle.Encoding{BitWidth: bitWidth}
	dst, err := e.DecodeInt32(make([]int32, 0, n), data[1:])
	if err != nil {
		return nil, err
	}
	if len(dst) < n {
		return nil, fmt.Errorf("dictionary index page short: decoded %d, expected %d", len(dst), n)
	}
	return dst[:n], nil
}
