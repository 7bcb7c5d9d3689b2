package parquet

import (
	"encoding/binary"
	"io"

	"github.com/gostorage/parquet/format"
	"github.com/gostorage/parquet/internal/debug"
	"github.com/gostorage/parquet/internal/thrift"
)

var magic = [4]byte{'P', 'A', 'R', '1'}

type writerState int

const (
	stateOpened writerState = iota
	stateRowGroupOpen
	stateRowGroupClosed
	stateClosed
)

// Writer writes a parquet file: the leading magic, a sequence of row
// groups written as they're created, then a Thrift-serialized footer, its
// 4-byte little-endian length, and the trailing magic.
type Writer struct {
	w         io.Writer
	schema    *Schema
	cfg       *WriterConfig
	state     writerState
	offset    int64
	rowGroups []format.RowGroup
	numRows   int64
	current   *RowGroupWriter
	metadata  map[string]string
}

// OpenWriter opens a writer for schema over w. If appendToExisting is true,
// w must also implement io.ReadWriteSeeker: the existing footer is read
// back, the stream is rewound to just before it, and new row groups are
// appended to the existing list.
func OpenWriter(schema *Schema, w io.Writer, appendToExisting bool, options ...WriterOption) (*Writer, error) {
	const op = "OpenWriter"
	cfg := DefaultWriterConfig()
	cfg.Apply(options...)
	if err := cfg.Validate(); err != nil {
		return nil, wrap(InvalidArgument, op, err)
	}

	wr := &Writer{w: w, schema: schema, cfg: cfg, metadata: make(map[string]string)}
	for k, v := range cfg.KeyValueMetadata {
		wr.metadata[k] = v
	}

	if appendToExisting {
		rws, ok := w.(io.ReadWriteSeeker)
		if !ok {
			return nil, errorf(InvalidArgument, op, "append mode requires an io.ReadWriteSeeker stream")
		}
		existing, footerStart, err := readFooterForAppend(rws)
		if err != nil {
			return nil, wrap(InvalidArgument, op, err)
		}
		if _, err := rws.Seek(footerStart, io.SeekStart); err != nil {
			return nil, wrap(InvalidArgument, op, err)
		}
		if t, ok := rws.(interface{ Truncate(int64) error }); ok {
			if err := t.Truncate(footerStart); err != nil {
				return nil, wrap(InvalidArgument, op, err)
			}
		}
		wr.rowGroups = existing.RowGroups
		wr.numRows = existing.NumRows
		for _, kv := range existing.KeyValueMetadata {
			if _, exists := wr.metadata[kv.Key]; !exists {
				wr.metadata[kv.Key] = kv.Value
			}
		}
		wr.offset = footerStart
	} else {
		n, err := w.Write(magic[:])
		if err != nil {
			return nil, wrap(InvalidArgument, op, err)
		}
		wr.offset = int64(n)
	}

	return wr, nil
}

// CreateRowGroup opens a new row group for writing. The previous row group,
// if any, must already be closed.
func (w *Writer) CreateRowGroup(options ...RowGroupOption) (*RowGroupWriter, error) {
	const op = "CreateRowGroup"
	switch w.state {
	case stateClosed:
		return nil, errorf(InvalidArgument, op, "writer is closed")
	case stateRowGroupOpen:
		return nil, errorf(InvalidArgument, op, "previous row group is still open")
	}
	w.current = newRowGroupWriter(w, options...)
	w.state = stateRowGroupOpen
	return w.current, nil
}

// SetCustomMetadata merges md into the file's custom key/value metadata,
// overwriting any key already set.
func (w *Writer) SetCustomMetadata(md map[string]string) {
	for k, v := range md {
		w.metadata[k] = v
	}
}

// Close seals the footer and writes it, its length, and the trailing magic.
// Any open row group must already be closed.
func (w *Writer) Close() error {
	const op = "Close"
	if w.state == stateClosed {
		return nil
	}
	if w.state == stateRowGroupOpen {
		return errorf(InvalidArgument, op, "a row group is still open")
	}

	createdBy := w.cfg.CreatedBy
	footer := format.FileMetaData{
		Version:   1,
		Schema:    w.schema.Elements(),
		NumRows:   w.numRows,
		RowGroups: w.rowGroups,
		CreatedBy: &createdBy,
	}
	if len(w.metadata) > 0 {
		kv := make([]format.KeyValue, 0, len(w.metadata))
		for k, v := range w.metadata {
			kv = append(kv, format.KeyValue{Key: k, Value: v})
		}
		format.SortKeyValueMetadata(kv)
		footer.KeyValueMetadata = kv
	}

	footerBytes, err := thrift.Marshal(nil, &footer)
	if err != nil {
		return wrap(CorruptFile, op, err)
	}
	if _, err := w.w.Write(footerBytes); err != nil {
		return wrap(InvalidArgument, op, err)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(footerBytes)))
	if _, err := w.w.Write(lenBuf[:]); err != nil {
		return wrap(InvalidArgument, op, err)
	}
	if _, err := w.w.Write(magic[:]); err != nil {
		return wrap(InvalidArgument, op, err)
	}
	w.state = stateClosed
	debug.Format("file: closed with %d row groups, %d rows, %d-byte footer", len(w.rowGroups), w.numRows, len(footerBytes))
	return nil
}

// readFooterForAppend seeks to the end of rs, verifies the trailing magic,
// and decodes the existing footer, returning it alongside the offset at
// which it begins (where a reopened writer should resume writing).
func readFooterForAppend(rs io.ReadSeeker) (*format.FileMetaData, int64, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, err
	}
	if end < int64(len(magic))*2+4 {
		return nil, 0, errorf(CorruptFile, "readFooterForAppend", "stream too short to contain a footer")
	}

	var tail [8]byte
	if _, err := rs.Seek(end-8, io.SeekStart); err != nil {
		return nil, 0, err
	}
	if _, err := io.ReadFull(rs, tail[:]); err != nil {
		return nil, 0, err
	}
	if [4]byte(tail[4:8]) != magic {
		return nil, 0, errorf(CorruptFile, "readFooterForAppend", "missing trailing PAR1 magic")
	}

	footerLen := int64(binary.LittleEndian.Uint32(tail[:4]))
	footerStart := end - 8 - footerLen
	if footerStart < int64(len(magic)) {
		return nil, 0, errorf(CorruptFile, "readFooterForAppend", "footer length %d exceeds stream size", footerLen)
	}

	footerBytes := make([]byte, footerLen)
	if _, err := rs.Seek(footerStart, io.SeekStart); err != nil {
		return nil, 0, err
	}
	if _, err := io.ReadFull(rs, footerBytes); err != nil {
		return nil, 0, err
	}

	var meta format.FileMetaData
	if err := thrift.Unmarshal(footerBytes, &meta); err != nil {
		return nil, 0, err
	}
	return &meta, footerStart, nil
}

// Reader reads a parquet file's footer and serves per-row-group column
// access against a random-access stream.
type Reader struct {
	ra     io.ReaderAt
	size   int64
	footer *format.FileMetaData
	schema *Schema
}

// OpenReader validates the magic bytes of a stream of size bytes and
// decodes its footer.
func OpenReader(ra io.ReaderAt, size int64, options ...ReaderOption) (*Reader, error) {
	const op = "OpenReader"
	cfg := DefaultReaderConfig()
	cfg.Apply(options...)
	if err := cfg.Validate(); err != nil {
		return nil, wrap(InvalidArgument, op, err)
	}
	if size < int64(len(magic))*2+4 {
		return nil, errorf(CorruptFile, op, "stream of %d bytes is too short to be a parquet file", size)
	}

	var head [4]byte
	if _, err := ra.ReadAt(head[:], 0); err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	if head != magic {
		return nil, errorf(CorruptFile, op, "missing leading PAR1 magic")
	}

	var tail [8]byte
	if _, err := ra.ReadAt(tail[:], size-8); err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	if [4]byte(tail[4:8]) != magic {
		return nil, errorf(CorruptFile, op, "missing trailing PAR1 magic")
	}

	footerLen := int64(binary.LittleEndian.Uint32(tail[:4]))
	footerStart := size - 8 - footerLen
	if footerStart < int64(len(magic)) {
		return nil, errorf(CorruptFile, op, "footer length %d exceeds stream size %d", footerLen, size)
	}

	footerBytes := make([]byte, footerLen)
	if _, err := ra.ReadAt(footerBytes, footerStart); err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	var footer format.FileMetaData
	if err := thrift.Unmarshal(footerBytes, &footer); err != nil {
		return nil, wrap(CorruptFile, op, err)
	}

	schema, err := OpenSchema(footer.Schema)
	if err != nil {
		return nil, wrap(CorruptFile, op, err)
	}

	debug.Format("file: opened %d row groups, %d rows", len(footer.RowGroups), footer.NumRows)
	return &Reader{ra: ra, size: size, footer: &footer, schema: schema}, nil
}

// Schema returns the file's logical schema.
func (r *Reader) Schema() *Schema { return r.schema }

// RowGroupCount returns the number of row groups in the file.
func (r *Reader) RowGroupCount() int { return len(r.footer.RowGroups) }

// NumRows returns the file's total row count across all row groups.
func (r *Reader) NumRows() int64 { return r.footer.NumRows }

// OpenRowGroup opens the i-th row group for column reads.
func (r *Reader) OpenRowGroup(i int) (*RowGroupReader, error) {
	if i < 0 || i >= len(r.footer.RowGroups) {
		return nil, errorf(InvalidArgument, "OpenRowGroup", "row group index %d out of range [0,%d)", i, len(r.footer.RowGroups))
	}
	return newRowGroupReader(r.ra, r.footer.RowGroups[i]), nil
}

// CustomMetadata returns the file's custom key/value metadata, or nil if it
// carries none.
func (r *Reader) CustomMetadata() map[string]string {
	if len(r.footer.KeyValueMetadata) == 0 {
		return nil
	}
	md := make(map[string]string, len(r.footer.KeyValueMetadata))
	for _, kv := range r.footer.KeyValueMetadata {
		md[kv.Key] = kv.Value
	}
	return md
}

// ThriftMetadata exposes the raw decoded footer, for callers that need a
// field not otherwise surfaced directly (e.g. NumRows).
func (r *Reader) ThriftMetadata() *format.FileMetaData { return r.footer }
