package parquet

import (
	"fmt"

	"github.com/gostorage/parquet/format"
)

// Data constructs a leaf field of the given physical Kind.
func Data(name string, kind Kind, repetition Repetition) *Field {
	return &Field{Name: name, Kind: DataFieldKind, Type: kind, Repetition: repetition}
}

// DataWithLogicalType constructs a leaf field annotated with a logical
// type, e.g. String("name", Optional) is shorthand for
// DataWithLogicalType("name", ByteArray, StringType, Optional).
func DataWithLogicalType(name string, kind Kind, logical LogicalType, repetition Repetition) *Field {
	f := Data(name, kind, repetition)
	f.Logical = logical
	return f
}

// String constructs a UTF8-annotated BYTE_ARRAY leaf field.
func String(name string, repetition Repetition) *Field {
	return DataWithLogicalType(name, ByteArray, StringType, repetition)
}

// UUID constructs a UUID-annotated FIXED_LEN_BYTE_ARRAY(16) leaf field. Its
// values are plain 16-byte []byte slices; no conversion to a UUID type is
// made on write or read.
func UUID(name string, repetition Repetition) *Field {
	f := DataWithLogicalType(name, FixedLenByteArray, UUIDType, repetition)
	f.Length = 16
	return f
}

// Decimal constructs a DECIMAL(precision, scale)-annotated leaf field.
// kind must be Int32, Int64, or FixedLenByteArray; length is only consulted
// for FixedLenByteArray and gives the encoded value's big-endian
// two's-complement byte width.
func Decimal(name string, kind Kind, precision, scale, length int, repetition Repetition) *Field {
	f := DataWithLogicalType(name, kind, DecimalType, repetition)
	f.Precision = precision
	f.Scale = scale
	if kind == FixedLenByteArray {
		f.Length = length
	}
	return f
}

// Array constructs a single-level repeated scalar: a data field marked
// Repeated and Array, physically one childless REPEATED schema element with
// no LIST wrapper. This is the syntactic convenience spec.md describes for
// the common case of "a list of scalars" — the alternative, List(name,
// repetition, Data(...)), always pays for the three-level LIST idiom even
// when the caller has no use for an OPTIONAL outer group.
func Array(name string, kind Kind) *Field {
	f := Data(name, kind, Repeated)
	f.Array = true
	return f
}

// Struct constructs a group field of named children with the given
// repetition.
func Struct(name string, repetition Repetition, fields ...*Field) *Field {
	f := &Field{Name: name, Kind: StructFieldKind, Repetition: repetition}
	for _, c := range fields {
		f.add(c)
	}
	return f
}

// List constructs a repeated field using the three-level LIST idiom: a
// REPEATED group named "list" wrapping a single "element" field.
func List(name string, repetition Repetition, element *Field) *Field {
	f := &Field{Name: name, Kind: ListFieldKind, Repetition: repetition}
	wrapper := &Field{Name: "list", Kind: StructFieldKind, Repetition: Repeated}
	element.Name = "element"
	wrapper.add(element)
	f.add(wrapper)
	return f
}

// Map constructs a repeated field using the MAP_KEY_VALUE idiom: a
// REPEATED group named "key_value" with exactly two children, "key" and
// "value".
func Map(name string, repetition Repetition, key, value *Field) *Field {
	f := &Field{Name: name, Kind: MapFieldKind, Repetition: repetition}
	wrapper := &Field{Name: "key_value", Kind: StructFieldKind, Repetition: Repeated}
	key.Name = "key"
	key.Repetition = Required
	value.Name = "value"
	wrapper.add(key)
	wrapper.add(value)
	f.add(wrapper)
	return f
}

// Elements flattens the schema's field tree into the pre-order
// []format.SchemaElement sequence a footer records, the inverse of
// OpenSchema.
func (s *Schema) Elements() []format.SchemaElement {
	var out []format.SchemaElement
	appendFieldElements(&out, s.root)
	return out
}

func appendFieldElements(out *[]format.SchemaElement, f *Field) {
	el := format.SchemaElement{Name: f.Name}

	if f.parent != nil {
		rep := f.Repetition.wire()
		el.RepetitionType = &rep
	}

	switch f.Kind {
	case DataFieldKind:
		typ := f.Type.Type()
		el.Type = &typ
		if f.Type == FixedLenByteArray && f.Length > 0 {
			length := int32(f.Length)
			el.TypeLength = &length
		}
		if f.Logical != NoLogicalType {
			if ct, ok := f.Logical.convertedType(); ok {
				el.ConvertedType = &ct
			}
		}
		if f.Logical == DecimalType {
			precision, scale := int32(f.Precision), int32(f.Scale)
			el.Precision = &precision
			el.Scale = &scale
		}
	case ListFieldKind:
		n := int32(len(f.Children))
		el.NumChildren = &n
		if !f.legacyList {
			ct := format.List
			el.ConvertedType = &ct
		}
	case MapFieldKind:
		n := int32(len(f.Children))
		el.NumChildren = &n
		ct := format.Map
		el.ConvertedType = &ct
	case StructFieldKind:
		n := int32(len(f.Children))
		el.NumChildren = &n
	}

	*out = append(*out, el)
	for _, c := range f.Children {
		appendFieldElements(out, c)
	}
}

// OpenSchema decodes the logical schema tree recorded in a file's footer.
func OpenSchema(elements []format.SchemaElement) (*Schema, error) {
	s, err := schemaFromElements(elements)
	if err != nil {
		return nil, wrap(CorruptFile, "OpenSchema", err)
	}
	return s, nil
}

// String returns a human-readable, indented rendering of the schema tree,
// primarily useful in tests and error messages.
func (s *Schema) String() string {
	return fieldString(s.root, 0)
}

func fieldString(f *Field, depth int) string {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	line := fmt.Sprintf("%s%s %s: %s", indent, f.Repetition, f.Name, f.Kind)
	if f.Kind == DataFieldKind {
		line += " " + f.Type.String()
		if f.Logical != NoLogicalType {
			line += " (" + f.Logical.String() + ")"
		}
		if f.Array {
			line += " []"
		}
	}
	line += "\n"
	for _, c := range f.Children {
		line += fieldString(c, depth+1)
	}
	return line
}
