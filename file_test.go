package parquet_test

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"testing"

	parquet "github.com/gostorage/parquet"
)

// normalize recursively rewrites []byte leaves as string, so that a value
// shredded from a Go string compares equal to the []byte the page engine
// always decodes BYTE_ARRAY values back into.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[interface{}]interface{}, len(x))
		for k, val := range x {
			out[normalize(k)] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func writeSingleRowGroup(t *testing.T, schema *parquet.Schema, rows []map[string]interface{}, options ...parquet.WriterOption) []byte {
	t.Helper()

	shredder := parquet.NewShredder(schema)
	for i, row := range rows {
		if err := shredder.WriteRow(row); err != nil {
			t.Fatalf("WriteRow(%d): %v", i, err)
		}
	}

	var buf bytes.Buffer
	w, err := parquet.OpenWriter(schema, &buf, false, options...)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	rg, err := w.CreateRowGroup()
	if err != nil {
		t.Fatalf("CreateRowGroup: %v", err)
	}
	for _, col := range shredder.Columns() {
		if err := rg.WriteColumn(col); err != nil {
			t.Fatalf("WriteColumn(%s): %v", col.Field.Name, err)
		}
	}
	if err := rg.Close(); err != nil {
		t.Fatalf("RowGroupWriter.Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Writer.Close: %v", err)
	}
	return buf.Bytes()
}

func readAllRows(t *testing.T, schema *parquet.Schema, r *parquet.Reader) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for i := 0; i < r.RowGroupCount(); i++ {
		rgr, err := r.OpenRowGroup(i)
		if err != nil {
			t.Fatalf("OpenRowGroup(%d): %v", i, err)
		}
		leaves := schema.Leaves()
		cols := make([]*parquet.DataColumn, len(leaves))
		for j, leaf := range leaves {
			col, err := rgr.ReadColumn(leaf)
			if err != nil {
				t.Fatalf("ReadColumn(%s): %v", leaf.Name, err)
			}
			cols[j] = col
		}
		assembler, err := parquet.NewAssembler(schema, cols)
		if err != nil {
			t.Fatalf("NewAssembler: %v", err)
		}
		for {
			row, ok, err := assembler.Next()
			if err != nil {
				t.Fatalf("Assembler.Next: %v", err)
			}
			if !ok {
				break
			}
			out = append(out, row)
		}
	}
	return out
}

func TestFileRoundTripFlatColumns(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
		parquet.String("city", parquet.Required),
	))

	const n = 1000
	var rows []map[string]interface{}
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]interface{}{
			"id":   int32(i),
			"city": fmt.Sprintf("record#%d", i%7),
		})
	}

	data := writeSingleRowGroup(t, schema, rows)

	r, err := parquet.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if r.NumRows() != n {
		t.Fatalf("NumRows() = %d, want %d", r.NumRows(), n)
	}
	got := readAllRows(t, schema, r)
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i]["id"] != rows[i]["id"] || normalize(got[i]["city"]) != rows[i]["city"] {
			t.Fatalf("row %d mismatch: want %#v, got %#v", i, rows[i], got[i])
		}
	}
}

func TestFileRoundTripListColumn(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
		parquet.List("categories", parquet.Optional, parquet.String("element", parquet.Required)),
	))

	rows := []map[string]interface{}{
		{"id": int32(1), "categories": []interface{}{"a", "b", "c"}},
		{"id": int32(2), "categories": []interface{}{}},
		{"id": int32(3), "categories": nil},
		{"id": int32(4), "categories": []interface{}{"z"}},
	}

	data := writeSingleRowGroup(t, schema, rows)
	r, err := parquet.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	got := readAllRows(t, schema, r)
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		wantCats := rows[i]["categories"]
		gotCats := normalize(got[i]["categories"])
		if !reflect.DeepEqual(wantCats, gotCats) {
			t.Fatalf("row %d categories mismatch: want %#v, got %#v", i, wantCats, gotCats)
		}
		if got[i]["id"] != rows[i]["id"] {
			t.Fatalf("row %d id mismatch: want %v, got %v", i, rows[i]["id"], got[i]["id"])
		}
	}
}

func TestFileCustomMetadataRoundTrip(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
	))
	rows := []map[string]interface{}{{"id": int32(1)}}

	data := writeSingleRowGroup(t, schema, rows,
		parquet.KeyValueMetadata("producer", "acme"),
		parquet.KeyValueMetadata("version", "3"),
	)

	r, err := parquet.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	md := r.CustomMetadata()
	if md["producer"] != "acme" || md["version"] != "3" {
		t.Fatalf("unexpected custom metadata: %#v", md)
	}
}

func TestFileRejectsOutOfOrderColumn(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
		parquet.Data("age", parquet.Int32, parquet.Required),
	))
	shredder := parquet.NewShredder(schema)
	if err := shredder.WriteRow(map[string]interface{}{"id": int32(1), "age": int32(30)}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	cols := shredder.Columns()

	var buf bytes.Buffer
	w, err := parquet.OpenWriter(schema, &buf, false)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	rg, err := w.CreateRowGroup()
	if err != nil {
		t.Fatalf("CreateRowGroup: %v", err)
	}
	err = rg.WriteColumn(cols[1]) // "age" written before "id"
	if !parquet.IsKind(err, parquet.InvalidArgument) {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
}

// memFile is a minimal in-memory io.ReadWriteSeeker with an optional
// Truncate, standing in for an *os.File in append-mode tests.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	}
	m.pos = abs
	return abs, nil
}

func (m *memFile) Truncate(size int64) error {
	if size < int64(len(m.buf)) {
		m.buf = m.buf[:size]
	}
	return nil
}

func TestFileAppendMultipleRowGroups(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
	))

	mf := &memFile{}

	w1, err := parquet.OpenWriter(schema, mf, false)
	if err != nil {
		t.Fatalf("OpenWriter (create): %v", err)
	}
	rg1, err := w1.CreateRowGroup()
	if err != nil {
		t.Fatalf("CreateRowGroup: %v", err)
	}
	shredder1 := parquet.NewShredder(schema)
	for _, id := range []int32{1, 2} {
		if err := shredder1.WriteRow(map[string]interface{}{"id": id}); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	for _, col := range shredder1.Columns() {
		if err := rg1.WriteColumn(col); err != nil {
			t.Fatalf("WriteColumn: %v", err)
		}
	}
	if err := rg1.Close(); err != nil {
		t.Fatalf("Close row group 1: %v", err)
	}
	if err := w1.Close(); err != nil {
		t.Fatalf("Close writer 1: %v", err)
	}

	w2, err := parquet.OpenWriter(schema, mf, true)
	if err != nil {
		t.Fatalf("OpenWriter (append): %v", err)
	}
	rg2, err := w2.CreateRowGroup()
	if err != nil {
		t.Fatalf("CreateRowGroup (append): %v", err)
	}
	shredder2 := parquet.NewShredder(schema)
	for _, id := range []int32{3, 4} {
		if err := shredder2.WriteRow(map[string]interface{}{"id": id}); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	for _, col := range shredder2.Columns() {
		if err := rg2.WriteColumn(col); err != nil {
			t.Fatalf("WriteColumn (append): %v", err)
		}
	}
	if err := rg2.Close(); err != nil {
		t.Fatalf("Close row group 2: %v", err)
	}
	if err := w2.Close(); err != nil {
		t.Fatalf("Close writer 2: %v", err)
	}

	r, err := parquet.OpenReader(mf, int64(len(mf.buf)))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if r.RowGroupCount() != 2 {
		t.Fatalf("RowGroupCount() = %d, want 2", r.RowGroupCount())
	}
	if r.NumRows() != 4 {
		t.Fatalf("NumRows() = %d, want 4", r.NumRows())
	}
	got := readAllRows(t, schema, r)
	want := []int32{1, 2, 3, 4}
	for i, w := range want {
		if got[i]["id"] != w {
			t.Fatalf("row %d: want id %d, got %v", i, w, got[i]["id"])
		}
	}
}
