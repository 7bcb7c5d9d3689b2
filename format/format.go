// Package format declares the Thrift compact-protocol structures that make
// up a parquet file footer and page headers.
//
// https://github.com/apache/parquet-format/blob/master/src/main/thrift/parquet.thrift
//
// The structures here are a deliberately small subset of the real Apache
// Parquet Thrift IDL: only the fields this implementation reads or writes
// are declared. Encoding and decoding is done by github.com/segmentio/encoding/thrift
// against the `thrift:"id,modifier"` struct tags (see internal/thrift).
package format

import "sort"

// Type is the physical storage type of a leaf column.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN_TYPE"
	}
}

// ConvertedType annotates a SchemaElement with the logical meaning of its
// physical representation.
type ConvertedType int32

const (
	UTF8 ConvertedType = iota
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32Converted
	Int64Converted
	JSON
	BSON
	Interval
	UUID // not in the Apache Parquet IDL: this module's own annotation
)

func (c ConvertedType) String() string {
	switch c {
	case UTF8:
		return "UTF8"
	case Map:
		return "MAP"
	case MapKeyValue:
		return "MAP_KEY_VALUE"
	case List:
		return "LIST"
	case Enum:
		return "ENUM"
	case Decimal:
		return "DECIMAL"
	case Date:
		return "DATE"
	case TimeMillis:
		return "TIME_MILLIS"
	case TimeMicros:
		return "TIME_MICROS"
	case TimestampMillis:
		return "TIMESTAMP_MILLIS"
	case TimestampMicros:
		return "TIMESTAMP_MICROS"
	case Uint8:
		return "UINT_8"
	case Uint16:
		return "UINT_16"
	case Uint32:
		return "UINT_32"
	case Uint64:
		return "UINT_64"
	case Int8:
		return "INT_8"
	case Int16:
		return "INT_16"
	case Int32Converted:
		return "INT_32"
	case Int64Converted:
		return "INT_64"
	case JSON:
		return "JSON"
	case BSON:
		return "BSON"
	case Interval:
		return "INTERVAL"
	case UUID:
		return "UUID"
	default:
		return "UNKNOWN_CONVERTED_TYPE"
	}
}

// FieldRepetitionType is the repetition of a schema element.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN_REPETITION_TYPE"
	}
}

// Encoding identifies how column values (or levels) are laid out on disk.
type Encoding int32

const (
	Plain                Encoding = 0
	PlainDictionary      Encoding = 2
	RLE                  Encoding = 3
	BitPacked            Encoding = 4
	DeltaBinaryPacked    Encoding = 5
	DeltaLengthByteArray Encoding = 6
	DeltaByteArray       Encoding = 7
	RLEDictionary        Encoding = 8
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	default:
		return "UNKNOWN_ENCODING"
	}
}

// CompressionCodec identifies the block compression algorithm applied to a
// column chunk's pages.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZOCodec
	Brotli
	Lz4
	Zstd
	Lz4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZOCodec:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN_CODEC"
	}
}

// PageType discriminates the kind of page a PageHeader describes.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN_PAGE_TYPE"
	}
}

// KeyValue is one entry of a file's custom key/value metadata.
type KeyValue struct {
	Key   string `thrift:"1"`
	Value string `thrift:"2"`
}

// SortKeyValueMetadata sorts the slice of KeyValue entries by key, then
// value, so that serializing the same custom-metadata map always produces
// the same footer bytes.
func SortKeyValueMetadata(kv []KeyValue) {
	sort.Slice(kv, func(i, j int) bool {
		switch {
		case kv[i].Key < kv[j].Key:
			return true
		case kv[i].Key > kv[j].Key:
			return false
		default:
			return kv[i].Value < kv[j].Value
		}
	})
}

// SchemaElement is one node of the flattened, pre-order physical schema.
type SchemaElement struct {
	Type           *Type                `thrift:"1,optional"`
	TypeLength     *int32               `thrift:"2,optional"`
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`
	Name           string               `thrift:"4"`
	NumChildren    *int32               `thrift:"5,optional"`
	ConvertedType  *ConvertedType       `thrift:"6,optional"`
	Scale          *int32               `thrift:"7,optional"`
	Precision      *int32               `thrift:"8,optional"`
	FieldID        *int32               `thrift:"9,optional"`
}

// GetNumChildren returns 0 for a leaf element instead of panicking on a nil
// pointer, the way the generated Thrift accessors the teacher depends on do.
func (s *SchemaElement) GetNumChildren() int32 {
	if s == nil || s.NumChildren == nil {
		return 0
	}
	return *s.NumChildren
}

// Statistics carries the optional per-column-chunk summary written by the
// page engine: null/distinct counts and, where the handler supports
// ordering, PLAIN-encoded min/max values.
type Statistics struct {
	Max           []byte `thrift:"1,optional"`
	Min           []byte `thrift:"2,optional"`
	NullCount     *int64 `thrift:"3,optional"`
	DistinctCount *int64 `thrift:"4,optional"`
	MaxValue      []byte `thrift:"5,optional"`
	MinValue      []byte `thrift:"6,optional"`
}

// DictionaryPageHeader describes a dictionary page's values.
type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1"`
	Encoding  Encoding `thrift:"2"`
	IsSorted  *bool    `thrift:"3,optional"`
}

// DataPageHeader describes a data page: its values are prefixed by RLE
// encoded repetition and definition levels, then encoded and (optionally,
// as part of the whole page) compressed values.
type DataPageHeader struct {
	NumValues               int32      `thrift:"1"`
	Encoding                 Encoding   `thrift:"2"`
	DefinitionLevelEncoding Encoding   `thrift:"3"`
	RepetitionLevelEncoding Encoding   `thrift:"4"`
	Statistics               Statistics `thrift:"5,optional"`
}

// PageHeader precedes every page (dictionary or data) in a column chunk.
type PageHeader struct {
	Type                 PageType              `thrift:"1"`
	UncompressedPageSize int32                 `thrift:"2"`
	CompressedPageSize   int32                 `thrift:"3"`
	CRC                  *int32                `thrift:"4,optional"`
	DataPageHeader       *DataPageHeader       `thrift:"5,optional"`
	DictionaryPageHeader *DictionaryPageHeader `thrift:"7,optional"`
}

// ColumnMetaData is the per-chunk metadata recorded in the footer.
type ColumnMetaData struct {
	Type                  Type             `thrift:"1"`
	Encodings             []Encoding       `thrift:"2"`
	PathInSchema          []string         `thrift:"3"`
	Codec                 CompressionCodec `thrift:"4"`
	NumValues             int64            `thrift:"5"`
	TotalUncompressedSize int64            `thrift:"6"`
	TotalCompressedSize   int64            `thrift:"7"`
	KeyValueMetadata      []KeyValue       `thrift:"8,optional"`
	DataPageOffset        int64            `thrift:"9"`
	IndexPageOffset       *int64           `thrift:"10,optional"`
	DictionaryPageOffset  *int64           `thrift:"11,optional"`
	Statistics            Statistics       `thrift:"12,optional"`
}

// ColumnChunk points at the bytes of one column chunk. FilePath is always
// nil in files this core writes (chunks always live in the same file as
// their footer); it is accepted on read for completeness.
type ColumnChunk struct {
	FilePath   *string        `thrift:"1,optional"`
	FileOffset int64          `thrift:"2"`
	MetaData   ColumnMetaData `thrift:"3,optional"`
}

// RowGroup is a horizontal partition of rows; Columns holds one ColumnChunk
// per leaf column, in schema order.
type RowGroup struct {
	Columns       []ColumnChunk `thrift:"1"`
	TotalByteSize int64         `thrift:"2"`
	NumRows       int64         `thrift:"3"`
}

// FileMetaData is the footer: version, flattened schema, row groups, and
// whatever custom metadata the writer attached.
type FileMetaData struct {
	Version          int32           `thrift:"1"`
	Schema           []SchemaElement `thrift:"2"`
	NumRows          int64           `thrift:"3"`
	RowGroups        []RowGroup      `thrift:"4"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        *string         `thrift:"6,optional"`
}
