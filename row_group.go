package parquet

import (
	"io"
	"strings"

	"github.com/gostorage/parquet/format"
	"github.com/gostorage/parquet/internal/debug"
)

// RowGroupWriter accepts column chunk writes for a single row group, in
// schema-leaf order, writing each chunk's pages to the parent Writer's
// stream as soon as it arrives.
type RowGroupWriter struct {
	parent  *Writer
	cfg     *RowGroupConfig
	leaves  []*Field
	next    int
	numRows int64
	columns []format.ColumnChunk
}

func newRowGroupWriter(parent *Writer, options ...RowGroupOption) *RowGroupWriter {
	cfg := DefaultRowGroupConfig()
	cfg.Apply(options...)
	return &RowGroupWriter{parent: parent, cfg: cfg, leaves: parent.schema.Leaves()}
}

// WriteColumn writes the row group's next column, which must be the
// schema's next unwritten leaf in pre-order.
func (rg *RowGroupWriter) WriteColumn(col *DataColumn) error {
	const op = "WriteColumn"
	if rg.next >= len(rg.leaves) {
		return errorf(InvalidArgument, op, "row group already has all %d columns written", len(rg.leaves))
	}
	want := rg.leaves[rg.next]
	if col.Field != want {
		return errorf(InvalidArgument, op, "expected column %q next, got %q", pathString(want), pathString(col.Field))
	}
	if rg.next == 0 {
		rg.numRows = int64(countRows(col))
	}

	meta, err := writeColumnChunk(rg.parent.w, rg.parent.offset, col, rg.parent.cfg)
	if err != nil {
		return err
	}
	chunkOffset := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil {
		chunkOffset = *meta.DictionaryPageOffset
	}
	rg.parent.offset += meta.TotalCompressedSize
	rg.columns = append(rg.columns, format.ColumnChunk{FileOffset: chunkOffset, MetaData: meta})
	rg.next++
	debug.Format("row group: wrote column %q (%d values, %d bytes compressed)", pathString(want), meta.NumValues, meta.TotalCompressedSize)
	return nil
}

// Close seals the row group. Every schema leaf must have been written.
func (rg *RowGroupWriter) Close() error {
	const op = "Close"
	if rg.next != len(rg.leaves) {
		return errorf(InvalidArgument, op, "row group closed with only %d/%d columns written", rg.next, len(rg.leaves))
	}
	var totalSize int64
	for _, c := range rg.columns {
		totalSize += c.MetaData.TotalCompressedSize
	}
	group := format.RowGroup{Columns: rg.columns, TotalByteSize: totalSize, NumRows: rg.numRows}
	rg.parent.rowGroups = append(rg.parent.rowGroups, group)
	rg.parent.numRows += rg.numRows
	rg.parent.state = stateRowGroupClosed
	rg.parent.current = nil
	debug.Format("row group: closed with %d rows across %d columns", rg.numRows, len(rg.columns))
	return nil
}

// countRows counts a leaf column's top-level rows: by the Dremel
// invariant, the first slot of every record carries repetition level 0,
// regardless of how deeply the field itself is nested.
func countRows(col *DataColumn) int {
	n := 0
	for _, r := range col.RepetitionLevels {
		if r == 0 {
			n++
		}
	}
	return n
}

func pathString(f *Field) string   { return strings.Join(f.Path(), ".") }
func pathKey(path []string) string { return strings.Join(path, ".") }

// RowGroupReader serves column reads for a single row group of an open
// file.
type RowGroupReader struct {
	ra     io.ReaderAt
	group  format.RowGroup
	byPath map[string]*format.ColumnChunk
}

func newRowGroupReader(ra io.ReaderAt, group format.RowGroup) *RowGroupReader {
	byPath := make(map[string]*format.ColumnChunk, len(group.Columns))
	for i := range group.Columns {
		c := &group.Columns[i]
		byPath[pathKey(c.MetaData.PathInSchema)] = c
	}
	return &RowGroupReader{ra: ra, group: group, byPath: byPath}
}

// NumRows returns the row group's row count, as recorded in the footer.
func (rg *RowGroupReader) NumRows() int64 { return rg.group.NumRows }

// ReadColumn decodes field's column chunk back into a DataColumn.
func (rg *RowGroupReader) ReadColumn(field *Field) (*DataColumn, error) {
	c, ok := rg.byPath[pathKey(field.Path())]
	if !ok {
		return nil, errorf(InvalidArgument, "ReadColumn", "no column chunk for field %q", pathString(field))
	}
	return readColumnChunk(rg.ra, field, c.MetaData)
}
