// Package deprecated holds the INT96 physical type. Parquet deprecated it in
// favor of INT64 with a TIMESTAMP logical type, but enough existing files
// still use it (most commonly for legacy Impala/Hive timestamps) that
// readers and writers need to round-trip it.
package deprecated

import (
	"math/big"
	"math/bits"
	"unsafe"
)

// Int96 stores the three little-endian 32-bit words of a 96-bit integer.
// The top bit of the last word is the sign.
type Int96 [3]uint32

// Sign reports whether i is negative.
func (i Int96) Sign() bool { return i[2]>>31 != 0 }

// Compare returns -1, 0, or 1 depending on whether i is less than, equal
// to, or greater than j, treating both as signed 96-bit integers.
func (i Int96) Compare(j Int96) int {
	switch {
	case i.Sign() && !j.Sign():
		return -1
	case !i.Sign() && j.Sign():
		return +1
	}
	for w := 2; w >= 0; w-- {
		switch {
		case i[w] < j[w]:
			return -1
		case i[w] > j[w]:
			return +1
		}
	}
	return 0
}

// Less reports whether i < j.
func (i Int96) Less(j Int96) bool { return i.Compare(j) < 0 }

// BigInt converts i to an arbitrary-precision signed integer.
func (i Int96) BigInt() *big.Int {
	v := big.NewInt(int64(int32(i[2])))
	v.Lsh(v, 32).Or(v, big.NewInt(int64(i[1])))
	v.Lsh(v, 32).Or(v, big.NewInt(int64(i[0])))
	return v
}

func (i Int96) String() string { return i.BigInt().String() }

// BitLen returns the bit length of i's raw 96-bit pattern read as unsigned:
// the position of its highest set bit, so any negative value reports 96.
func (i Int96) BitLen() int {
	if n := bits.Len32(i[2]); n != 0 {
		return n + 64
	}
	if n := bits.Len32(i[1]); n != 0 {
		return n + 32
	}
	return bits.Len32(i[0])
}

// Int96ToBytes reinterprets data's backing array as a byte slice, with no
// copy: 12 bytes per element, little-endian word order.
func Int96ToBytes(data []Int96) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), 12*len(data))
}

// BytesToInt96 is the inverse of Int96ToBytes.
func BytesToInt96(data []byte) []Int96 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*Int96)(unsafe.Pointer(&data[0])), len(data)/12)
}

// MaxLenInt96 returns the widest bit length among values, or 0 if values is
// empty or every element is zero.
func MaxLenInt96(values []Int96) int {
	maxLen := 0
	for _, v := range values {
		if n := v.BitLen(); n > maxLen {
			maxLen = n
		}
	}
	return maxLen
}

// MinMaxInt96 scans values once and returns both the minimum and maximum.
func MinMaxInt96(values []Int96) (min, max Int96) {
	if len(values) == 0 {
		return
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v.Less(min) {
			min = v
		}
		if max.Less(v) {
			max = v
		}
	}
	return min, max
}

// SortOrderInt96 reports the monotonic direction of values: +1 ascending,
// -1 descending, 0 if values has fewer than two elements or is unordered.
func SortOrderInt96(values []Int96) int {
	if len(values) < 2 {
		return 0
	}
	ascending, descending := true, true
	for i := 1; i < len(values); i++ {
		switch c := values[i-1].Compare(values[i]); {
		case c > 0:
			ascending = false
		case c < 0:
			descending = false
		}
		if !ascending && !descending {
			return 0
		}
	}
	switch {
	case ascending:
		return +1
	case descending:
		return -1
	default:
		return 0
	}
}
