package parquet_test

import (
	"reflect"
	"testing"

	parquet "github.com/gostorage/parquet"
)

func shredAndAssemble(t *testing.T, schema *parquet.Schema, rows []map[string]interface{}) []map[string]interface{} {
	t.Helper()

	shredder := parquet.NewShredder(schema)
	for i, row := range rows {
		if err := shredder.WriteRow(row); err != nil {
			t.Fatalf("WriteRow(%d): %v", i, err)
		}
	}

	assembler, err := parquet.NewAssembler(schema, shredder.Columns())
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	var out []map[string]interface{}
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
	return out
}

func TestShredAssembleFlatStruct(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
		parquet.String("city", parquet.Optional),
	))

	rows := []map[string]interface{}{
		{"id": int32(1), "city": "London"},
		{"id": int32(2), "city": nil},
		{"id": int32(3), "city": "Paris"},
	}

	got := shredAndAssemble(t, schema, rows)
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round-trip mismatch:\nwant=%#v\ngot= %#v", rows, got)
	}
}

func TestShredAssembleListWithEmpties(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
		parquet.List("repeats", parquet.Optional, parquet.String("element", parquet.Required)),
	))

	rows := []map[string]interface{}{
		{"id": int32(1), "repeats": []interface{}{"1", "2", "3"}},
		{"id": int32(2), "repeats": []interface{}{}},
		{"id": int32(3), "repeats": []interface{}{"1", "2", "3"}},
		{"id": int32(4), "repeats": []interface{}{}},
	}

	got := shredAndAssemble(t, schema, rows)
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round-trip mismatch:\nwant=%#v\ngot= %#v", rows, got)
	}
}

func TestShredAssembleListOfNull(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.List("repeats", parquet.Optional, parquet.String("element", parquet.Required)),
	))

	rows := []map[string]interface{}{
		{"repeats": nil},
	}

	got := shredAndAssemble(t, schema, rows)
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round-trip mismatch:\nwant=%#v\ngot= %#v", rows, got)
	}
}

func TestShredAssembleMap(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.String("city", parquet.Required),
		parquet.Map("population", parquet.Optional,
			parquet.Data("key", parquet.Int32, parquet.Required),
			parquet.Data("value", parquet.Int64, parquet.Required),
		),
	))

	shredder := parquet.NewShredder(schema)
	row := map[string]interface{}{
		"city": "London",
		"population": []parquet.MapEntry{
			{Key: int32(234), Value: int64(100)},
			{Key: int32(235), Value: int64(110)},
		},
	}
	if err := shredder.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}

	assembler, err := parquet.NewAssembler(schema, shredder.Columns())
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	got, ok, err := assembler.Next()
	if err != nil || !ok {
		t.Fatalf("Assembler.Next: ok=%v err=%v", ok, err)
	}

	population, ok := got["population"].(map[interface{}]interface{})
	if !ok {
		t.Fatalf("population has wrong type: %T", got["population"])
	}
	want := map[interface{}]interface{}{int32(234): int64(100), int32(235): int64(110)}
	if !reflect.DeepEqual(population, want) {
		t.Fatalf("population mismatch: want=%#v got=%#v", want, population)
	}
	if got["city"] != "London" {
		t.Fatalf("city mismatch: got=%v", got["city"])
	}
}

func TestShredRejectsWrongType(t *testing.T) {
	schema := parquet.NewSchema("root", parquet.Struct("root", parquet.Required,
		parquet.Data("id", parquet.Int32, parquet.Required),
	))

	shredder := parquet.NewShredder(schema)
	err := shredder.WriteRow(map[string]interface{}{"id": "not an int32"})
	if !parquet.IsKind(err, parquet.InvalidArgument) {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
}
