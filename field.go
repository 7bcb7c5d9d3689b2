package parquet

import (
	"errors"
	"fmt"

	"github.com/gostorage/parquet/format"
)

// FieldKind distinguishes the shapes a node of the logical schema tree can
// take. A Field with no children is always DataField; everything else is
// distinguished by how its children are shredded and reassembled.
type FieldKind int

const (
	// DataFieldKind is a leaf column: it has a physical Kind and backs one
	// column chunk per row group.
	DataFieldKind FieldKind = iota

	// StructFieldKind is a group of named fields. It is usually required
	// or optional; the REPEATED wrapper groups of the LIST and MAP idioms,
	// and REPEATED groups decoded without a LIST or MAP annotation, are
	// StructFieldKind too.
	StructFieldKind

	// ListFieldKind is a repeated field, shredded using either the
	// three-level LIST idiom (a synthetic "list" group wrapping a
	// synthetic "element" field) or, for a bare repeated primitive, the
	// legacy two-level form — see Field.legacyList.
	ListFieldKind

	// MapFieldKind is a repeated field shredded using the MAP_KEY_VALUE
	// idiom: a synthetic "key_value" group of exactly two children, "key"
	// and "value".
	MapFieldKind
)

func (k FieldKind) String() string {
	switch k {
	case DataFieldKind:
		return "data"
	case StructFieldKind:
		return "struct"
	case ListFieldKind:
		return "list"
	case MapFieldKind:
		return "map"
	default:
		return "unknown"
	}
}

// Repetition is the repetition of a field relative to its parent.
type Repetition int8

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	default:
		return "unknown"
	}
}

func (r Repetition) wire() format.FieldRepetitionType {
	return format.FieldRepetitionType(r)
}

// Field is one node of the logical schema tree: either a leaf column
// (DataFieldKind) or a group (Struct/List/Map). The tree is an owned arena
// of plain Go pointers — no node outlives the Schema that holds it, and
// nothing but Field.Children and Field.parent ever point into the arena, so there is no
// dangling-pointer risk a map keyed by a stable integer index would guard
// against; see DESIGN.md for why this is preferred over that alternative.
type Field struct {
	Name       string
	Kind       FieldKind
	Repetition Repetition

	// Set only when Kind == DataFieldKind.
	Type    Kind
	Logical LogicalType
	Length  int // byte length, for FixedLenByteArray

	// Precision and Scale are set only when Logical == DecimalType: the
	// total number of decimal digits the value can hold, and how many of
	// them fall after the decimal point. Required by the DECIMAL converted
	// type regardless of which physical Kind backs it.
	Precision int
	Scale     int

	// Array marks a DataFieldKind field as a single-level repeated scalar:
	// physically just one REPEATED primitive schema element with no list
	// wrapper, rather than the three-level LIST idiom. See the Array
	// constructor and elementsToFieldTree's decode rule for childless
	// REPEATED elements.
	Array bool

	Children []*Field

	// legacyList is set on a ListFieldKind field decoded from a bare
	// REPEATED primitive or REPEATED group with more than one child,
	// rather than the three-level LIST idiom (a single "list" group
	// wrapping a single "element" field). Encode reproduces whichever
	// form was decoded; a field built fresh through the constructors
	// below always uses the three-level idiom.
	legacyList bool

	parent *Field

	// Precomputed Dremel levels: the repetition/definition level a value
	// at this node carries when it is present.
	maxDefinitionLevel int
	maxRepetitionLevel int
	path               []string
}

// Parent returns the field's parent, or nil for the root of a Schema.
func (f *Field) Parent() *Field { return f.parent }

// Path returns the dot-free path of field names from the schema root to f,
// skipping the repeated wrapper group that the three-level LIST and the MAP
// idioms insert ("list", "key_value"). The names beneath that wrapper still
// appear: the element of a List field "tags" has the path [tags element],
// and the key of a Map field "m" has [m key].
func (f *Field) Path() []string { return f.path }

// MaxDefinitionLevel is the definition level a present value of this field
// carries — the number of optional or repeated ancestors (inclusive of f).
func (f *Field) MaxDefinitionLevel() int { return f.maxDefinitionLevel }

// MaxRepetitionLevel is the repetition level a present value of this field
// carries — the number of repeated ancestors (inclusive of f).
func (f *Field) MaxRepetitionLevel() int { return f.maxRepetitionLevel }

// Leaves returns the field's descendant DataFieldKind nodes in depth-first,
// pre-order: the same order their column chunks are laid out on disk.
func (f *Field) Leaves() []*Field { return f.addLeavesTo(nil) }

func (f *Field) addLeavesTo(leaves []*Field) []*Field {
	if f.Kind == DataFieldKind {
		return append(leaves, f)
	}
	for _, c := range f.Children {
		leaves = c.addLeavesTo(leaves)
	}
	return leaves
}

func (f *Field) add(child *Field) {
	child.parent = f
	f.Children = append(f.Children, child)
}

// compute fills in the derived attributes of f and its descendants: levels
// and path. Whether a decoded List is the three-level or legacy two-level
// shape is decided earlier, by elementsToFieldTree.
func (f *Field) compute() {
	if f.parent != nil {
		f.maxDefinitionLevel = f.parent.maxDefinitionLevel
		f.maxRepetitionLevel = f.parent.maxRepetitionLevel
		if !f.synthetic() {
			f.path = appendPath(f.parent.path, f.Name)
		} else {
			f.path = f.parent.path
		}
	}
	if f.Repetition == Repeated {
		f.maxRepetitionLevel++
	}
	if f.Repetition != Required {
		f.maxDefinitionLevel++
	}
	for _, c := range f.Children {
		c.compute()
	}
}

// synthetic reports whether f is a wrapper group introduced by the
// LIST/MAP_KEY_VALUE idioms rather than a user-named field, so that Path
// can skip over it.
func (f *Field) synthetic() bool {
	if f.parent == nil {
		return false
	}
	switch f.parent.Kind {
	case ListFieldKind:
		return !f.parent.legacyList
	case MapFieldKind:
		return true
	default:
		return false
	}
}

func appendPath(path []string, name string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = name
	return next
}

// Schema is the logical schema of a file: a named root Field of kind
// StructFieldKind.
type Schema struct {
	root *Field
}

// NewSchema constructs a Schema from a root Field, computing its derived
// attributes.
func NewSchema(name string, root *Field) *Schema {
	root.Name = name
	root.compute()
	return &Schema{root: root}
}

// Root returns the schema's root field.
func (s *Schema) Root() *Field { return s.root }

// Leaves returns every column in schema order.
func (s *Schema) Leaves() []*Field { return s.root.Leaves() }

var errEmptySchema = errors.New("empty schema")

// schemaFromElements rebuilds a Schema from the flattened, pre-order
// physical schema recorded in a file's footer.
func schemaFromElements(elements []format.SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, errEmptySchema
	}
	root := &Field{Kind: StructFieldKind}
	consumed, err := elementsToFieldTree(root, elements)
	if err != nil {
		return nil, err
	}
	if consumed != len(elements) {
		return nil, fmt.Errorf("expected to consume %d schema elements but consumed %d", len(elements), consumed)
	}
	root.Name = elements[0].Name
	root.compute()
	return &Schema{root: root}, nil
}

func elementsToFieldTree(current *Field, remaining []format.SchemaElement) (int, error) {
	if len(remaining) == 0 {
		return 0, fmt.Errorf("malformed schema: expected an element, found none")
	}
	el := &remaining[0]

	current.Name = el.Name
	current.Repetition = Repetition(repetitionTypeOrElse(el.RepetitionType, format.Required))
	numChildren := int(el.GetNumChildren())

	if numChildren == 0 {
		current.Kind = DataFieldKind
		if el.Type == nil {
			return 0, fmt.Errorf("malformed schema: leaf element %q has no physical type", el.Name)
		}
		current.Type = Kind(*el.Type)
		if el.TypeLength != nil {
			current.Length = int(*el.TypeLength)
		}
		if el.ConvertedType != nil {
			if lt, ok := logicalTypeFromConvertedType(*el.ConvertedType); ok {
				current.Logical = lt
			}
		}
		if current.Logical == DecimalType {
			if el.Precision != nil {
				current.Precision = int(*el.Precision)
			}
			if el.Scale != nil {
				current.Scale = int(*el.Scale)
			}
		}
		// Rule 3: a childless REPEATED primitive is the legacy
		// single-level list encoding, not an ordinary scalar column.
		if current.Repetition == Repeated {
			current.Array = true
		}
		return 1, nil
	}

	isMap := el.ConvertedType != nil && (*el.ConvertedType == format.Map || *el.ConvertedType == format.MapKeyValue)
	isList := el.ConvertedType != nil && *el.ConvertedType == format.List

	switch {
	case isMap:
		current.Kind = MapFieldKind
	case isList:
		current.Kind = ListFieldKind
	default:
		// A plain group, whether Required, Optional, or (old-style,
		// wrapper-less array of structs) Repeated.
		current.Kind = StructFieldKind
	}

	current.Children = make([]*Field, numChildren)
	offset := 1
	for i := 0; i < numChildren; i++ {
		child := &Field{parent: current}
		n, err := elementsToFieldTree(child, remaining[offset:])
		if err != nil {
			return 0, err
		}
		current.Children[i] = child
		offset += n
	}

	if current.Kind == ListFieldKind {
		// The three-level idiom wraps a single REPEATED group ("list")
		// with a single child ("element"). Anything else decoding to
		// ListFieldKind is the legacy two-level form: a bare REPEATED
		// primitive, or (pre-standardization) a REPEATED group with more
		// than one field directly beneath it.
		current.legacyList = !(len(current.Children) == 1 &&
			current.Children[0].Kind != DataFieldKind &&
			current.Children[0].Repetition == Repeated &&
			len(current.Children[0].Children) == 1)
	}

	return offset, nil
}

func repetitionTypeOrElse(p *format.FieldRepetitionType, d format.FieldRepetitionType) format.FieldRepetitionType {
	if p == nil {
		return d
	}
	return *p
}
