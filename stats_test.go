package parquet

import (
	"bytes"
	"testing"
)

func TestCompareValuesFixedLenByteArrayUnsigned(t *testing.T) {
	a := []byte{0x7F, 0xFF}
	b := []byte{0x80, 0x00}
	if got := compareValues(FixedLenByteArray, false, a, b); got >= 0 {
		t.Fatalf("unsigned compare: want a < b, got %d", got)
	}
}

func TestCompareValuesFixedLenByteArrayDecimalSign(t *testing.T) {
	// Two's-complement encodings of -1 and 1 in a 2-byte field: -1 is
	// 0xFFFF, 1 is 0x0001. Lexicographic comparison would say 0xFFFF
	// outsorts 0x0001; the signed comparison must say the opposite.
	negOne := []byte{0xFF, 0xFF}
	one := []byte{0x00, 0x01}
	if got := compareValues(FixedLenByteArray, true, negOne, one); got >= 0 {
		t.Fatalf("signed compare: want -1 < 1, got %d", got)
	}
	if got := compareValues(FixedLenByteArray, true, one, negOne); got <= 0 {
		t.Fatalf("signed compare: want 1 > -1, got %d", got)
	}
}

func TestCompareValuesFixedLenByteArrayDecimalBothNegative(t *testing.T) {
	// -2 and -1 in two's complement: 0xFFFE and 0xFFFF. Same sign, so
	// this must fall back to ordinary lexicographic comparison.
	negTwo := []byte{0xFF, 0xFE}
	negOne := []byte{0xFF, 0xFF}
	if got := compareValues(FixedLenByteArray, true, negTwo, negOne); got >= 0 {
		t.Fatalf("signed compare: want -2 < -1, got %d", got)
	}
}

func TestComputeStatisticsDecimalMinMaxRespectsSign(t *testing.T) {
	field := Decimal("amount", FixedLenByteArray, 5, 2, 2, Required)
	values := []interface{}{
		[]byte{0x00, 0x01}, // 1
		[]byte{0xFF, 0xFF}, // -1
		[]byte{0x00, 0x0A}, // 10
	}

	stats, _, _ := computeStatistics(field, values)
	if !stats.hasMinMax {
		t.Fatal("hasMinMax: want true")
	}
	if min := stats.min.([]byte); !bytes.Equal(min, []byte{0xFF, 0xFF}) {
		t.Fatalf("min: want -1 (0xFFFF), got % x", min)
	}
	if max := stats.max.([]byte); !bytes.Equal(max, []byte{0x00, 0x0A}) {
		t.Fatalf("max: want 10 (0x000A), got % x", max)
	}
}
