package rle_test

import (
	"math/rand"
	"testing"

	"github.com/gostorage/parquet/encoding/rle"
)

func TestEncodingInt8RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		bitWidth int
		values   []int8
	}{
		{name: "empty", bitWidth: 3, values: nil},
		{name: "single run", bitWidth: 2, values: []int8{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{name: "bit packed", bitWidth: 3, values: []int8{0, 1, 2, 3, 4, 5, 6, 7, 0, 1, 2}},
		{name: "mixed", bitWidth: 4, values: []int8{9, 9, 9, 9, 9, 9, 9, 9, 9, 1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			enc := &rle.Encoding{BitWidth: test.bitWidth}
			encoded, err := enc.EncodeInt8(nil, test.values)
			if err != nil {
				t.Fatalf("EncodeInt8: %v", err)
			}
			dec := &rle.Encoding{BitWidth: test.bitWidth}
			decoded, err := dec.DecodeInt8(nil, encoded)
			if err != nil {
				t.Fatalf("DecodeInt8: %v", err)
			}
			if len(decoded) != len(test.values) {
				t.Fatalf("length mismatch: want %d, got %d", len(test.values), len(decoded))
			}
			for i := range test.values {
				if decoded[i] != test.values[i] {
					t.Fatalf("value %d: want %d, got %d", i, test.values[i], decoded[i])
				}
			}
		})
	}
}

func TestEncodingInt32RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	values := make([]int32, 1000)
	for i := range values {
		values[i] = r.Int31n(64)
	}

	enc := &rle.Encoding{BitWidth: 6}
	encoded, err := enc.EncodeInt32(nil, values)
	if err != nil {
		t.Fatalf("EncodeInt32: %v", err)
	}
	dec := &rle.Encoding{BitWidth: 6}
	decoded, err := dec.DecodeInt32(nil, encoded)
	if err != nil {
		t.Fatalf("DecodeInt32: %v", err)
	}
	if len(decoded) != len(values) {
		t.Fatalf("length mismatch: want %d, got %d", len(values), len(decoded))
	}
	for i := range values {
		if decoded[i] != values[i] {
			t.Fatalf("value %d: want %d, got %d", i, values[i], decoded[i])
		}
	}
}

func TestEncodingBooleanRoundTrip(t *testing.T) {
	values := []bool{true, false, true, true, false, false, false, true, true, true, true}

	enc := &rle.Encoding{}
	encoded, err := enc.EncodeBoolean(nil, values)
	if err != nil {
		t.Fatalf("EncodeBoolean: %v", err)
	}
	dec := &rle.Encoding{}
	decoded, err := dec.DecodeBoolean(nil, encoded)
	if err != nil {
		t.Fatalf("DecodeBoolean: %v", err)
	}
	if len(decoded) != len(values) {
		t.Fatalf("length mismatch: want %d, got %d", len(values), len(decoded))
	}
	for i := range values {
		if decoded[i] != values[i] {
			t.Fatalf("value %d: want %v, got %v", i, values[i], decoded[i])
		}
	}
}

func TestEncodingRejectsOversizedBitWidth(t *testing.T) {
	enc := &rle.Encoding{BitWidth: 9}
	if _, err := enc.EncodeInt8(nil, []int8{1}); err == nil {
		t.Fatal("expected an error encoding INT8 with a 9-bit width")
	}
}
