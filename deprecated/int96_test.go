package deprecated_test

import (
	"fmt"
	"testing"

	"github.com/gostorage/parquet/deprecated"
)

func TestInt96Compare(t *testing.T) {
	tests := []struct {
		i, j deprecated.Int96
		less bool
	}{
		{i: deprecated.Int96{}, j: deprecated.Int96{}, less: false},
		{i: deprecated.Int96{0: 1}, j: deprecated.Int96{0: 2}, less: true},
		{i: deprecated.Int96{0: 1}, j: deprecated.Int96{1: 1}, less: true},
		{i: deprecated.Int96{0: 1}, j: deprecated.Int96{2: 1}, less: true},
		{ // -1 < 0
			i:    deprecated.Int96{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			j:    deprecated.Int96{},
			less: true,
		},
		{ // 0 >= -1
			i:    deprecated.Int96{},
			j:    deprecated.Int96{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			less: false,
		},
		{ // -1 >= -1
			i:    deprecated.Int96{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			j:    deprecated.Int96{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			less: false,
		},
		{ // -1 >= -2
			i:    deprecated.Int96{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			j:    deprecated.Int96{0: 0xFFFFFFFE, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			less: false,
		},
		{ // -2 < -1
			i:    deprecated.Int96{0: 0xFFFFFFFE, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			j:    deprecated.Int96{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF},
			less: true,
		},
	}

	for _, test := range tests {
		name := fmt.Sprintf("%s<%s=%v", test.i, test.j, test.less)
		t.Run(name, func(t *testing.T) {
			if got := test.i.Less(test.j); got != test.less {
				t.Errorf("Less: want %v, got %v", test.less, got)
			}
			if test.less && test.j.Less(test.i) {
				t.Error("Less is not antisymmetric for this pair")
			}
		})
	}
}

func TestInt96BitLen(t *testing.T) {
	tests := []struct {
		v      deprecated.Int96
		bitLen int
	}{
		{v: deprecated.Int96{}, bitLen: 0},
		{v: deprecated.Int96{0: 0x01}, bitLen: 1},
		{v: deprecated.Int96{0: 0xFF}, bitLen: 8},
		{v: deprecated.Int96{1: 0x02}, bitLen: 34},
	}
	for _, test := range tests {
		if n := test.v.BitLen(); n != test.bitLen {
			t.Errorf("BitLen(%s): want %d, got %d", test.v, test.bitLen, n)
		}
	}
}

func TestMaxLenInt96(t *testing.T) {
	tests := []struct {
		data   []deprecated.Int96
		maxLen int
	}{
		{data: nil, maxLen: 0},
		{data: []deprecated.Int96{{}, {}, {}, {}, {}}, maxLen: 0},
		{
			data:   []deprecated.Int96{{0: 0x01}, {0: 0xFF}, {1: 0x02}, {0: 0xF0}},
			maxLen: 34,
		},
	}
	for _, test := range tests {
		t.Run("", func(t *testing.T) {
			if got := deprecated.MaxLenInt96(test.data); got != test.maxLen {
				t.Errorf("want=%d got=%d", test.maxLen, got)
			}
		})
	}
}

func TestMinMaxInt96(t *testing.T) {
	data := []deprecated.Int96{
		{0: 5},
		{0: 0xFFFFFFFF, 1: 0xFFFFFFFF, 2: 0xFFFFFFFF}, // -1
		{0: 2},
	}
	min, max := deprecated.MinMaxInt96(data)
	if min != data[1] {
		t.Errorf("min: want %s, got %s", data[1], min)
	}
	if max != data[0] {
		t.Errorf("max: want %s, got %s", data[0], max)
	}
}

func TestSortOrderInt96(t *testing.T) {
	tests := []struct {
		data  []deprecated.Int96
		order int
	}{
		{data: nil, order: 0},
		{data: []deprecated.Int96{{0: 1}}, order: 0},
		{data: []deprecated.Int96{{0: 1}, {0: 2}, {0: 3}}, order: +1},
		{data: []deprecated.Int96{{0: 3}, {0: 2}, {0: 1}}, order: -1},
		{data: []deprecated.Int96{{0: 1}, {0: 3}, {0: 2}}, order: 0},
	}
	for _, test := range tests {
		if got := deprecated.SortOrderInt96(test.data); got != test.order {
			t.Errorf("SortOrderInt96(%v): want %d, got %d", test.data, test.order, got)
		}
	}
}
