package parquet

import "fmt"

// DataColumn accumulates one leaf column's shredded values: a definition
// level and repetition level per slot, and the value itself (nil where the
// definition level falls short of the leaf's maximum, meaning absent).
type DataColumn struct {
	Field            *Field
	Values           []interface{}
	DefinitionLevels []byte
	RepetitionLevels []byte
}

func (c *DataColumn) append(value interface{}, def, rep int) {
	c.Values = append(c.Values, value)
	c.DefinitionLevels = append(c.DefinitionLevels, byte(def))
	c.RepetitionLevels = append(c.RepetitionLevels, byte(rep))
}

// listWrapper returns the synthetic REPEATED group a List shreds through: the
// "list" group of the three-level idiom, or the bare repeated field itself
// for a legacy two-level list.
func (f *Field) listWrapper() *Field { return f.Children[0] }

// listElement returns the field that carries one list item's content.
func (f *Field) listElement() *Field {
	w := f.listWrapper()
	if f.legacyList {
		return w
	}
	return w.Children[0]
}

// mapWrapper returns the synthetic "key_value" REPEATED group a Map shreds
// through.
func (f *Field) mapWrapper() *Field { return f.Children[0] }

func (f *Field) mapKey() *Field   { return f.Children[0].Children[0] }
func (f *Field) mapValue() *Field { return f.Children[0].Children[1] }

// MapEntry is one key/value pair of a shredded map field, used where the
// map's key type isn't a plain Go string (and accepted in addition to
// map[string]interface{} for the common case).
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// Shredder walks nested row values (maps, slices, and scalars, matching the
// shape of a Schema's logical tree) and distributes them across one
// DataColumn per leaf field, computing Dremel repetition and definition
// levels as it goes.
type Shredder struct {
	schema  *Schema
	columns map[*Field]*DataColumn
	rows    int
}

// NewShredder constructs a Shredder with one empty DataColumn per leaf of
// schema.
func NewShredder(schema *Schema) *Shredder {
	s := &Shredder{schema: schema, columns: make(map[*Field]*DataColumn)}
	for _, leaf := range schema.Leaves() {
		s.columns[leaf] = &DataColumn{Field: leaf}
	}
	return s
}

// Columns returns the accumulated columns, in schema (pre-order) order.
func (s *Shredder) Columns() []*DataColumn {
	leaves := s.schema.Leaves()
	out := make([]*DataColumn, len(leaves))
	for i, leaf := range leaves {
		out[i] = s.columns[leaf]
	}
	return out
}

// NumRows reports how many top-level rows have been written so far.
func (s *Shredder) NumRows() int { return s.rows }

// WriteRow shreds one row, given as a map[string]interface{} keyed by the
// root struct's field names, into the shredder's columns.
func (s *Shredder) WriteRow(row map[string]interface{}) error {
	if row == nil {
		return errorf(InvalidArgument, "WriteRow", "row must not be nil")
	}
	if err := s.shred(s.schema.Root(), row, 0, 0); err != nil {
		return wrap(InvalidArgument, "WriteRow", err)
	}
	s.rows++
	return nil
}

// consumeAbsent records one absent slot in every leaf beneath f, at the def
// level the field's nearest present ancestor carries.
func (s *Shredder) consumeAbsent(f *Field, def, rep int) {
	for _, leaf := range f.Leaves() {
		s.columns[leaf].append(nil, def, rep)
	}
}

func (s *Shredder) shred(f *Field, value interface{}, def, rep int) error {
	switch f.Kind {
	case DataFieldKind:
		if value == nil {
			if f.Repetition == Required {
				return fmt.Errorf("field %q is required but got a nil value", f.Name)
			}
			s.columns[f].append(nil, def, rep)
			return nil
		}
		if err := checkValueKind("shred", f.Type, value); err != nil {
			return err
		}
		s.columns[f].append(value, f.maxDefinitionLevel, rep)
		return nil

	case StructFieldKind:
		if value == nil {
			if f.Repetition == Required {
				return fmt.Errorf("field %q is required but got a nil value", f.Name)
			}
			s.consumeAbsent(f, def, rep)
			return nil
		}
		m, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("field %q: expected map[string]interface{}, got %T", f.Name, value)
		}
		for _, child := range f.Children {
			if err := s.shred(child, m[child.Name], f.maxDefinitionLevel, rep); err != nil {
				return err
			}
		}
		return nil

	case ListFieldKind:
		if value == nil {
			if f.Repetition == Required {
				return fmt.Errorf("field %q is required but got a nil value", f.Name)
			}
			s.consumeAbsent(f, def, rep)
			return nil
		}
		items, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("field %q: expected []interface{}, got %T", f.Name, value)
		}
		if len(items) == 0 {
			s.consumeAbsent(f, f.maxDefinitionLevel, rep)
			return nil
		}
		elemField := f.listElement()
		wrapper := f.listWrapper()
		for i, item := range items {
			itemRep := rep
			if i > 0 {
				itemRep = wrapper.maxRepetitionLevel
			}
			if err := s.shred(elemField, item, wrapper.maxDefinitionLevel, itemRep); err != nil {
				return err
			}
		}
		return nil

	case MapFieldKind:
		if value == nil {
			if f.Repetition == Required {
				return fmt.Errorf("field %q is required but got a nil value", f.Name)
			}
			s.consumeAbsent(f, def, rep)
			return nil
		}
		entries, err := mapEntriesOf(f.Name, value)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			s.consumeAbsent(f, f.maxDefinitionLevel, rep)
			return nil
		}
		wrapper := f.mapWrapper()
		keyField, valField := f.mapKey(), f.mapValue()
		for i, e := range entries {
			itemRep := rep
			if i > 0 {
				itemRep = wrapper.maxRepetitionLevel
			}
			if err := s.shred(keyField, e.Key, wrapper.maxDefinitionLevel, itemRep); err != nil {
				return err
			}
			if err := s.shred(valField, e.Value, wrapper.maxDefinitionLevel, itemRep); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("field %q has unknown kind %v", f.Name, f.Kind)
}

func mapEntriesOf(name string, value interface{}) ([]MapEntry, error) {
	switch v := value.(type) {
	case []MapEntry:
		return v, nil
	case map[string]interface{}:
		entries := make([]MapEntry, 0, len(v))
		for _, k := range sortedStringKeys(v) {
			entries = append(entries, MapEntry{Key: k, Value: v[k]})
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("field %q: expected map[string]interface{} or []parquet.MapEntry, got %T", name, value)
	}
}

func sortedStringKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// insertion sort: schemas have few enough map keys per row that this
	// beats pulling in sort for one call site.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// columnCursor walks one DataColumn slot by slot during row assembly.
type columnCursor struct {
	col *DataColumn
	pos int
}

func (c *columnCursor) done() bool         { return c.pos >= len(c.col.Values) }
func (c *columnCursor) defLevel() int      { return int(c.col.DefinitionLevels[c.pos]) }
func (c *columnCursor) repLevel() int      { return int(c.col.RepetitionLevels[c.pos]) }
func (c *columnCursor) value() interface{} { return c.col.Values[c.pos] }
func (c *columnCursor) advance()           { c.pos++ }

// Assembler is the inverse of Shredder: it reassembles nested rows out of a
// set of leaf DataColumns read back from a row group.
type Assembler struct {
	schema  *Schema
	cursors map[*Field]*columnCursor
}

// NewAssembler constructs an Assembler over columns, which must contain
// exactly one DataColumn per leaf of schema, in any order.
func NewAssembler(schema *Schema, columns []*DataColumn) (*Assembler, error) {
	cursors := make(map[*Field]*columnCursor, len(columns))
	for _, col := range columns {
		cursors[col.Field] = &columnCursor{col: col}
	}
	for _, leaf := range schema.Leaves() {
		if cursors[leaf] == nil {
			return nil, errorf(InvalidArgument, "NewAssembler", "missing column for field %q", leaf.Name)
		}
	}
	return &Assembler{schema: schema, cursors: cursors}, nil
}

// Next reassembles the next row, returning ok=false once every column is
// exhausted.
func (a *Assembler) Next() (row map[string]interface{}, ok bool, err error) {
	root := a.schema.Root()
	lead := a.cursors[root.Leaves()[0]]
	if lead.done() {
		return nil, false, nil
	}
	v, err := a.assemble(root)
	if err != nil {
		return nil, false, wrap(CorruptFile, "Assembler.Next", err)
	}
	m, _ := v.(map[string]interface{})
	return m, true, nil
}

func (a *Assembler) consumeAbsent(f *Field) {
	for _, leaf := range f.Leaves() {
		a.cursors[leaf].advance()
	}
}

func (a *Assembler) assemble(f *Field) (interface{}, error) {
	switch f.Kind {
	case DataFieldKind:
		c := a.cursors[f]
		def, v := c.defLevel(), c.value()
		c.advance()
		if def < f.maxDefinitionLevel {
			return nil, nil
		}
		return v, nil

	case StructFieldKind:
		lead := a.cursors[f.Leaves()[0]]
		if f.Repetition != Required && lead.defLevel() < f.maxDefinitionLevel {
			a.consumeAbsent(f)
			return nil, nil
		}
		out := make(map[string]interface{}, len(f.Children))
		for _, child := range f.Children {
			v, err := a.assemble(child)
			if err != nil {
				return nil, err
			}
			out[child.Name] = v
		}
		return out, nil

	case ListFieldKind:
		lead := a.cursors[f.Leaves()[0]]
		wrapper := f.listWrapper()
		elemField := f.listElement()
		switch d := lead.defLevel(); {
		case d < f.maxDefinitionLevel:
			a.consumeAbsent(f)
			return nil, nil
		case d == f.maxDefinitionLevel:
			a.consumeAbsent(f)
			return []interface{}{}, nil
		default:
			var items []interface{}
			for {
				item, err := a.assemble(elemField)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
				if lead.done() || lead.repLevel() != wrapper.maxRepetitionLevel {
					break
				}
			}
			return items, nil
		}

	case MapFieldKind:
		lead := a.cursors[f.Leaves()[0]]
		wrapper := f.mapWrapper()
		keyField, valField := f.mapKey(), f.mapValue()
		switch d := lead.defLevel(); {
		case d < f.maxDefinitionLevel:
			a.consumeAbsent(f)
			return nil, nil
		case d == f.maxDefinitionLevel:
			a.consumeAbsent(f)
			return map[interface{}]interface{}{}, nil
		default:
			out := map[interface{}]interface{}{}
			for {
				k, err := a.assemble(keyField)
				if err != nil {
					return nil, err
				}
				v, err := a.assemble(valField)
				if err != nil {
					return nil, err
				}
				out[k] = v
				if lead.done() || lead.repLevel() != wrapper.maxRepetitionLevel {
					break
				}
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("field %q has unknown kind %v", f.Name, f.Kind)
}
