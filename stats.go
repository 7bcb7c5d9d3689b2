package parquet

import (
	"bytes"

	"github.com/gostorage/parquet/deprecated"
)

// columnStatistics summarizes one column chunk's values: how many slots were
// null, how many distinct non-null values were seen, and (for orderable
// kinds) the minimum and maximum. Computed unconditionally when a column
// chunk is written — the same pass collects the distinct values the
// dictionary heuristic needs, so skipping it would save little. See DESIGN.md for the Open Question this
// resolves.
type columnStatistics struct {
	nullCount     int64
	distinctCount int64
	min, max      interface{}
	hasMinMax     bool
}

// computeStatistics walks values once, returning their statistics and (as a
// side effect free to compute in the same pass) the first-seen order of
// distinct non-null values, used by the dictionary heuristic.
func computeStatistics(field *Field, values []interface{}) (columnStatistics, []interface{}, map[interface{}]int32) {
	kind := field.Type
	signed := field.Logical == DecimalType
	var stats columnStatistics
	seen := make(map[interface{}]int32)
	var distinct []interface{}

	for _, v := range values {
		if v == nil {
			stats.nullCount++
			continue
		}
		key := statisticsKey(kind, v)
		if _, ok := seen[key]; !ok {
			seen[key] = int32(len(distinct))
			distinct = append(distinct, v)
			if !stats.hasMinMax {
				stats.min, stats.max = v, v
				stats.hasMinMax = true
			} else {
				if compareValues(kind, signed, v, stats.min) < 0 {
					stats.min = v
				}
				if compareValues(kind, signed, v, stats.max) > 0 {
					stats.max = v
				}
			}
		}
	}

	stats.distinctCount = int64(len(distinct))
	return stats, distinct, seen
}

// statisticsKey returns a value usable as a Go map key for v, needed because
// []byte (ByteArray, FixedLenByteArray) is not itself comparable.
func statisticsKey(kind Kind, v interface{}) interface{} {
	switch kind {
	case ByteArray:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
		return v
	case FixedLenByteArray:
		return string(v.([]byte))
	default:
		return v
	}
}

// compareValues orders two non-nil values of the same Kind, consistent with
// the byte-wise PLAIN encoding of each (so min/max statistics agree with
// what a reader would compute from the raw column bytes). signed matters
// only for FixedLenByteArray: a DECIMAL stored that way is a big-endian
// two's-complement integer, and plain lexicographic byte comparison gets
// the sign wrong (0x80... outsorts 0x7F... even though it is the more
// negative value).
func compareValues(kind Kind, signed bool, a, b interface{}) int {
	switch kind {
	case Boolean:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case Int32:
		x, y := a.(int32), b.(int32)
		return compareOrdered(x, y)
	case Int64:
		x, y := a.(int64), b.(int64)
		return compareOrdered(x, y)
	case Int96:
		x, y := a.(deprecated.Int96), b.(deprecated.Int96)
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		default:
			return 0
		}
	case Float:
		x, y := a.(float32), b.(float32)
		return compareOrdered(x, y)
	case Double:
		x, y := a.(float64), b.(float64)
		return compareOrdered(x, y)
	case ByteArray:
		return bytes.Compare(toByteSlice(a), toByteSlice(b))
	case FixedLenByteArray:
		x, y := a.([]byte), b.([]byte)
		if signed {
			return compareTwosComplement(x, y)
		}
		return bytes.Compare(x, y)
	default:
		return 0
	}
}

// compareTwosComplement orders two equal-length big-endian two's-complement
// byte slices, as DECIMAL values backed by FixedLenByteArray are encoded.
// Lexicographic comparison gets this wrong whenever the operands have
// different signs: 0x80 (a very negative high byte) would otherwise outsort
// 0x7F (a very positive one), since plain byte comparison only ever sees
// unsigned magnitudes. Comparing the sign bits first, and falling back to
// bytes.Compare once the signs agree, fixes that without needing to
// materialize either value as a big.Int.
func compareTwosComplement(x, y []byte) int {
	xNeg := len(x) > 0 && x[0]&0x80 != 0
	yNeg := len(y) > 0 && y[0]&0x80 != 0
	switch {
	case xNeg && !yNeg:
		return -1
	case !xNeg && yNeg:
		return 1
	default:
		return bytes.Compare(x, y)
	}
}

func compareOrdered[T int32 | int64 | float32 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// toByteSlice returns the raw bytes behind a ByteArray value, which
// checkValueKind allows as either string or []byte.
func toByteSlice(v interface{}) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case string:
		return []byte(x)
	default:
		return nil
	}
}

// toStatisticsBytes PLAIN-encodes one min or max value for the wire
// Statistics struct, so a reader can decode it with the column's own codec.
// It returns nil if v cannot be encoded.
func toStatisticsBytes(kind Kind, length int, v interface{}) []byte {
	b, err := plainEncodeOne(kind, length, v)
	if err != nil {
		return nil
	}
	return b
}
