//go:build go1.18

package unsafecast_test

import (
	"testing"

	"github.com/gostorage/parquet/internal/unsafecast"
)

func TestSliceShrinkingElementSize(t *testing.T) {
	src := make([]uint32, 4, 13)
	copy(src, []uint32{1, 0, 2, 0})

	dst := unsafecast.Slice[int64](src)
	if len(dst) != 2 {
		t.Fatalf("length: want 2, got %d", len(dst))
	}
	if cap(dst) != 6 {
		t.Fatalf("capacity: want 6, got %d", cap(dst))
	}
	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("values: want [1 2], got %v", dst)
	}
}

func TestSliceGrowingElementSizeRoundTrips(t *testing.T) {
	original := []uint32{1, 0, 2, 0}
	back := unsafecast.Slice[uint32](unsafecast.Slice[int64](original))

	if len(back) != len(original) {
		t.Fatalf("length: want %d, got %d", len(original), len(back))
	}
	for i := range original {
		if back[i] != original[i] {
			t.Fatalf("value %d: want %d, got %d", i, original[i], back[i])
		}
	}
}

func TestSliceEmptyInput(t *testing.T) {
	if got := unsafecast.Slice[byte]([]uint32(nil)); got != nil {
		t.Fatalf("want nil, got %v", got)
	}
}

func TestBytesToStringSharesStorage(t *testing.T) {
	b := []byte("parquet")
	s := unsafecast.BytesToString(b)
	if s != "parquet" {
		t.Fatalf("want %q, got %q", "parquet", s)
	}
	if unsafecast.BytesToString(nil) != "" {
		t.Fatal("want empty string for nil input")
	}
}

func TestAddressOfBytes(t *testing.T) {
	if unsafecast.AddressOfBytes(nil) != nil {
		t.Fatal("want nil address for empty slice")
	}
	b := []byte{1, 2, 3}
	if unsafecast.AddressOfBytes(b) != &b[0] {
		t.Fatal("address does not point at the slice's first element")
	}
}
