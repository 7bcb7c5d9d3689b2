package parquet

import (
	"reflect"
	"testing"

	"github.com/gostorage/parquet/deprecated"
)

func TestPlainEncodeDecodePage(t *testing.T) {
	tests := []struct {
		kind   Kind
		length int
		values []interface{}
	}{
		{Boolean, 0, []interface{}{true, false, false, true, true}},
		{Int32, 0, []interface{}{int32(-1), int32(0), int32(42)}},
		{Int64, 0, []interface{}{int64(-1), int64(0), int64(1 << 40)}},
		{Int96, 0, []interface{}{deprecated.Int96{1, 2, 3}}},
		{Float, 0, []interface{}{float32(1.5), float32(-2.25)}},
		{Double, 0, []interface{}{float64(1.5), float64(-2.25)}},
		{ByteArray, 0, []interface{}{"hello", "", "world"}},
		{FixedLenByteArray, 4, []interface{}{[]byte{1, 2, 3, 4}, []byte{5, 6, 7, 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			encoded, err := plainEncodePage(tt.kind, tt.length, tt.values)
			if err != nil {
				t.Fatalf("plainEncodePage: %v", err)
			}
			decoded, err := plainDecodePage(tt.kind, tt.length, len(tt.values), encoded)
			if err != nil {
				t.Fatalf("plainDecodePage: %v", err)
			}
			for i := range tt.values {
				want := tt.values[i]
				got := decoded[i]
				if tt.kind == ByteArray {
					want = []byte(want.(string))
				}
				if !reflect.DeepEqual(want, got) {
					t.Fatalf("value %d: want %#v, got %#v", i, want, got)
				}
			}
		})
	}
}

func TestEncodeDecodeLevelsOmittedWhenMaxZero(t *testing.T) {
	levels := make([]byte, 10)
	encoded, err := encodeLevels(levels, 0)
	if err != nil {
		t.Fatalf("encodeLevels: %v", err)
	}
	if encoded != nil {
		t.Fatalf("want nil encoding for maxLevel 0, got %d bytes", len(encoded))
	}
	decoded, consumed, err := decodeLevels(nil, 0, len(levels))
	if err != nil {
		t.Fatalf("decodeLevels: %v", err)
	}
	if consumed != 0 {
		t.Fatalf("want 0 consumed bytes, got %d", consumed)
	}
	if len(decoded) != len(levels) {
		t.Fatalf("want %d levels, got %d", len(levels), len(decoded))
	}
	for _, l := range decoded {
		if l != 0 {
			t.Fatalf("want all-zero levels, got %v", decoded)
		}
	}
}

func TestEncodeDecodeLevelsRoundTrip(t *testing.T) {
	levels := []byte{0, 1, 2, 1, 0, 2, 2, 1, 0}
	maxLevel := 2

	encoded, err := encodeLevels(levels, maxLevel)
	if err != nil {
		t.Fatalf("encodeLevels: %v", err)
	}
	decoded, consumed, err := decodeLevels(encoded, maxLevel, len(levels))
	if err != nil {
		t.Fatalf("decodeLevels: %v", err)
	}
	if consumed != len(encoded) {
		t.Fatalf("consumed %d bytes, encoded was %d", consumed, len(encoded))
	}
	if !reflect.DeepEqual(decoded, levels) {
		t.Fatalf("want %v, got %v", levels, decoded)
	}
}

func TestEncodeDecodeDictionaryIndices(t *testing.T) {
	t.Run("multiple distinct values", func(t *testing.T) {
		indices := []int32{0, 1, 2, 1, 0, 3, 3, 3}
		encoded, err := encodeDictionaryIndices(indices, 3)
		if err != nil {
			t.Fatalf("encodeDictionaryIndices: %v", err)
		}
		decoded, err := decodeDictionaryIndices(encoded, len(indices))
		if err != nil {
			t.Fatalf("decodeDictionaryIndices: %v", err)
		}
		if !reflect.DeepEqual(decoded, indices) {
			t.Fatalf("want %v, got %v", indices, decoded)
		}
	})

	t.Run("single distinct value forces bit width 1", func(t *testing.T) {
		indices := []int32{0, 0, 0, 0}
		encoded, err := encodeDictionaryIndices(indices, 0)
		if err != nil {
			t.Fatalf("encodeDictionaryIndices: %v", err)
		}
		if encoded[0] != 1 {
			t.Fatalf("want bit width 1, got %d", encoded[0])
		}
		decoded, err := decodeDictionaryIndices(encoded, len(indices))
		if err != nil {
			t.Fatalf("decodeDictionaryIndices: %v", err)
		}
		if !reflect.DeepEqual(decoded, indices) {
			t.Fatalf("want %v, got %v", indices, decoded)
		}
	})
}

func TestRLEBitWidth(t *testing.T) {
	tests := []struct {
		maxValue int
		want     int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{255, 8},
		{256, 9},
	}
	for _, tt := range tests {
		if got := rleBitWidth(tt.maxValue); got != tt.want {
			t.Errorf("rleBitWidth(%d) = %d, want %d", tt.maxValue, got, tt.want)
		}
	}
}
