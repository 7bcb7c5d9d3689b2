package parquet

import (
	"github.com/gostorage/parquet/deprecated"
	"github.com/gostorage/parquet/format"
)

// Kind identifies the physical representation of the values a leaf field
// stores: the one dimension of a column's type that determines which Go
// slice its Values will be backed by and which primitive codec applies to
// it. It intentionally mirrors format.Type rather than inventing a second
// numbering, since the two never diverge: every Kind maps onto exactly one
// physical parquet type.
type Kind int8

const (
	Boolean Kind = iota
	Int32
	Int64
	Int96 // deprecated, superseded by 64-bit timestamps; still read and written
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (k Kind) String() string {
	switch k {
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
		return "UNKNOWN"
	}
}

// Type returns the wire-format type code for k.
func (k Kind) Type() format.Type { return format.Type(k) }

// LogicalType is the closed set of logical annotations a leaf field may
// carry on top of its physical Kind. The zero value, NoLogicalType, means
// the physical Kind is interpreted as-is (a plain signed integer, a raw
// byte string, etc).
type LogicalType int8

const (
	NoLogicalType LogicalType = iota
	StringType                // BYTE_ARRAY, UTF8
	EnumType                  // BYTE_ARRAY, ENUM
	JSONType                  // BYTE_ARRAY, JSON
	BSONType                  // BYTE_ARRAY, BSON
	UUIDType                  // FIXED_LEN_BYTE_ARRAY(16), UUID — supplemental, see DESIGN.md
	DateType                  // INT32, DATE
	TimeMillisType            // INT32, TIME_MILLIS
	TimeMicrosType            // INT64, TIME_MICROS
	TimestampMillisType       // INT64, TIMESTAMP_MILLIS
	TimestampMicrosType       // INT64, TIMESTAMP_MICROS
	DecimalType               // INT32/INT64/FIXED_LEN_BYTE_ARRAY, DECIMAL(precision,scale)
)

func (t LogicalType) String() string {
	switch t {
	case NoLogicalType:
		return "NONE"
	case StringType:
		return "STRING"
	case EnumType:
		return "ENUM"
	case JSONType:
		return "JSON"
	case BSONType:
		return "BSON"
	case UUIDType:
		return "UUID"
	case DateType:
		return "DATE"
	case TimeMillisType:
		return "TIME_MILLIS"
	case TimeMicrosType:
		return "TIME_MICROS"
	case TimestampMillisType:
		return "TIMESTAMP_MILLIS"
	case TimestampMicrosType:
		return "TIMESTAMP_MICROS"
	case DecimalType:
		return "DECIMAL"
	default:
		return "UNKNOWN"
	}
}

// convertedType maps a LogicalType to the wire ConvertedType that annotates
// it in a SchemaElement, or false if the LogicalType carries no converted
// type (none currently do, the set above all project onto one).
func (t LogicalType) convertedType() (format.ConvertedType, bool) {
	switch t {
	case StringType:
		return format.UTF8, true
	case EnumType:
		return format.Enum, true
	case JSONType:
		return format.JSON, true
	case BSONType:
		return format.BSON, true
	case UUIDType:
		return format.UUID, true
	case DateType:
		return format.Date, true
	case TimeMillisType:
		return format.TimeMillis, true
	case TimeMicrosType:
		return format.TimeMicros, true
	case TimestampMillisType:
		return format.TimestampMillis, true
	case TimestampMicrosType:
		return format.TimestampMicros, true
	case DecimalType:
		return format.Decimal, true
	default:
		return 0, false
	}
}

func logicalTypeFromConvertedType(c format.ConvertedType) (LogicalType, bool) {
	switch c {
	case format.UTF8:
		return StringType, true
	case format.Enum:
		return EnumType, true
	case format.JSON:
		return JSONType, true
	case format.BSON:
		return BSONType, true
	case format.UUID:
		return UUIDType, true
	case format.Date:
		return DateType, true
	case format.TimeMillis:
		return TimeMillisType, true
	case format.TimeMicros:
		return TimeMicrosType, true
	case format.TimestampMillis:
		return TimestampMillisType, true
	case format.TimestampMicros:
		return TimestampMicrosType, true
	case format.Decimal:
		return DecimalType, true
	default:
		return NoLogicalType, false
	}
}

// checkValueKind reports an *Error of Kind InvalidArgument if v cannot be
// represented as kind k, the way the level packer rejects a shredded value
// of the wrong type before it reaches the page engine.
func checkValueKind(op string, k Kind, v interface{}) error {
	ok := false
	switch k {
	case Boolean:
		_, ok = v.(bool)
	case Int32:
		_, ok = v.(int32)
	case Int64:
		_, ok = v.(int64)
	case Int96:
		_, ok = v.(deprecated.Int96)
	case Float:
		_, ok = v.(float32)
	case Double:
		_, ok = v.(float64)
	case ByteArray:
		_, ok = v.(string)
		if !ok {
			_, ok = v.([]byte)
		}
	case FixedLenByteArray:
		_, ok = v.([]byte)
	}
	if !ok {
		return errorf(InvalidArgument, op, "value of type %T is not representable as %s", v, k)
	}
	return nil
}
