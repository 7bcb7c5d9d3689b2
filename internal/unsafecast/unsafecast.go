//go:build go1.18

// Package unsafecast provides functions to bypass the type system and
// reinterpret the memory of Go slices and strings as a different type,
// without copying the underlying array.
//
// Every function here trades memory-safety guarantees the type system would
// otherwise give for the avoidance of a copy; callers must not mutate a
// source slice through a view obtained this way while the view is still in
// use, and must not retain a view beyond the lifetime of the memory it
// points at.
package unsafecast

import "unsafe"

// Slice reinterprets the backing array of s, whose element type is From, as
// a slice of To. The returned slice's length and capacity are scaled by the
// ratio of the two element sizes.
func Slice[To, From any](s []From) []To {
	var from From
	var to To
	fromSize := unsafe.Sizeof(from)
	toSize := unsafe.Sizeof(to)

	if len(s) == 0 {
		return nil
	}

	length := (len(s) * int(fromSize)) / int(toSize)
	capacity := (cap(s) * int(fromSize)) / int(toSize)

	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(s))), capacity)[:length:capacity]
}

func BytesToBool(data []byte) []bool { return Slice[bool](data) }

func BytesToInt8(data []byte) []int8 { return Slice[int8](data) }

func BytesToInt16(data []byte) []int16 { return Slice[int16](data) }

func BytesToInt32(data []byte) []int32 { return Slice[int32](data) }

func BytesToInt64(data []byte) []int64 { return Slice[int64](data) }

func BytesToUint8(data []byte) []uint8 { return Slice[uint8](data) }

func BytesToUint16(data []byte) []uint16 { return Slice[uint16](data) }

func BytesToUint32(data []byte) []uint32 { return Slice[uint32](data) }

func BytesToUint64(data []byte) []uint64 { return Slice[uint64](data) }

func BytesToUint128(data []byte) [][16]byte { return Slice[[16]byte](data) }

func BytesToFloat32(data []byte) []float32 { return Slice[float32](data) }

func BytesToFloat64(data []byte) []float64 { return Slice[float64](data) }

func Int8ToBytes(data []int8) []byte { return Slice[byte](data) }

func Int16ToBytes(data []int16) []byte { return Slice[byte](data) }

func Int32ToBytes(data []int32) []byte { return Slice[byte](data) }

func Int64ToBytes(data []int64) []byte { return Slice[byte](data) }

func Uint32ToBytes(data []uint32) []byte { return Slice[byte](data) }

func Uint64ToBytes(data []uint64) []byte { return Slice[byte](data) }

func Uint128ToBytes(data [][16]byte) []byte { return Slice[byte](data) }

func Float32ToBytes(data []float32) []byte { return Slice[byte](data) }

func Float64ToBytes(data []float64) []byte { return Slice[byte](data) }

func Uint32ToInt32(data []uint32) []int32 { return Slice[int32](data) }

func Uint64ToInt64(data []uint64) []int64 { return Slice[int64](data) }

func Int32ToUint32(data []int32) []uint32 { return Slice[uint32](data) }

func Int64ToUint64(data []int64) []uint64 { return Slice[uint64](data) }

// BytesToString reinterprets b as a string without copying. The caller must
// not mutate b for as long as the returned string is reachable.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// AddressOfBytes returns a pointer to the first byte of b, or nil if b is
// empty.
func AddressOfBytes(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
