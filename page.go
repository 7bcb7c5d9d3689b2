package parquet

import (
	"bytes"

	"github.com/gostorage/parquet/compress"
	"github.com/gostorage/parquet/format"
	"github.com/gostorage/parquet/internal/thrift"
)

// builtPage is a fully assembled page, ready to be written: a Thrift page
// header and its (possibly compressed) body.
type builtPage struct {
	header format.PageHeader
	body   []byte
}

func marshalPageHeader(h format.PageHeader) ([]byte, error) {
	b, err := thrift.Marshal(nil, &h)
	if err != nil {
		return nil, wrap(CorruptFile, "marshalPageHeader", err)
	}
	return b, nil
}

// compressPayload compresses payload with codec, unless codec is nil or
// UNCOMPRESSED.
func compressPayload(codec compress.Codec, payload []byte) (compressed []byte, uncompressedSize int, err error) {
	uncompressedSize = len(payload)
	if codec == nil || codec.CompressionCodec() == format.Uncompressed {
		return payload, uncompressedSize, nil
	}
	compressed, err = codec.Encode(nil, payload)
	if err != nil {
		return nil, 0, err
	}
	return compressed, uncompressedSize, nil
}

func decompressPayload(codec compress.Codec, compressed []byte, uncompressedSize int) ([]byte, error) {
	if codec == nil || codec.CompressionCodec() == format.Uncompressed {
		return compressed, nil
	}
	return codec.Decode(make([]byte, 0, uncompressedSize), compressed)
}

// buildDictionaryPage PLAIN-encodes distinct, a column's first-seen-order
// distinct non-null values, and wraps it in a DICTIONARY_PAGE header.
func buildDictionaryPage(kind Kind, length int, distinct []interface{}, codec compress.Codec) (*builtPage, error) {
	plain, err := plainEncodePage(kind, length, distinct)
	if err != nil {
		return nil, err
	}
	body, uncompressedSize, err := compressPayload(codec, plain)
	if err != nil {
		return nil, err
	}
	h := format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(uncompressedSize),
		CompressedPageSize:   int32(len(body)),
		DictionaryPageHeader: &format.DictionaryPageHeader{
			NumValues: int32(len(distinct)),
			Encoding:  format.Plain,
		},
	}
	return &builtPage{header: h, body: body}, nil
}

// buildDataPage lays out one data page: RLE-hybrid repetition levels (if
// the field repeats), RLE-hybrid definition levels (if the field is
// optional or repeated), then either PLAIN-encoded present values or, when
// indices is non-nil, RLE-hybrid dictionary indices.
func buildDataPage(col *DataColumn, indices []int32, dictSize int, stats columnStatistics, codec compress.Codec) (*builtPage, error) {
	field := col.Field
	maxRep := field.MaxRepetitionLevel()
	maxDef := field.MaxDefinitionLevel()

	var buf bytes.Buffer

	repBytes, err := encodeLevels(col.RepetitionLevels, maxRep)
	if err != nil {
		return nil, err
	}
	buf.Write(repBytes)

	defBytes, err := encodeLevels(col.DefinitionLevels, maxDef)
	if err != nil {
		return nil, err
	}
	buf.Write(defBytes)

	encoding := format.Plain
	if indices != nil {
		encoding = format.PlainDictionary
		maxIndex := dictSize - 1
		if maxIndex < 0 {
			maxIndex = 0
		}
		enc, err := encodeDictionaryIndices(indices, maxIndex)
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
	} else {
		present := presentValues(col.Values, col.DefinitionLevels, maxDef)
		enc, err := plainEncodePage(field.Type, field.Length, present)
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
	}

	payload := buf.Bytes()
	body, uncompressedSize, err := compressPayload(codec, payload)
	if err != nil {
		return nil, err
	}

	dph := &format.DataPageHeader{
		NumValues:               int32(len(col.Values)),
		Encoding:                encoding,
		DefinitionLevelEncoding: format.RLE,
		RepetitionLevelEncoding: format.RLE,
		Statistics:              toStatistics(field.Type, field.Length, stats),
	}

	h := format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(uncompressedSize),
		CompressedPageSize:   int32(len(body)),
		DataPageHeader:       dph,
	}
	return &builtPage{header: h, body: body}, nil
}

// presentValues returns the subset of values whose definition level marks
// them as physically present, in slot order — the order PLAIN and
// dictionary-index encoding both lay values out on the wire.
func presentValues(values []interface{}, defLevels []byte, maxDef int) []interface{} {
	out := make([]interface{}, 0, len(values))
	for i, v := range values {
		if int(defLevels[i]) == maxDef {
			out = append(out, v)
		}
	}
	return out
}

// toStatistics converts columnStatistics into the wire Statistics struct.
// Min/Max and MinValue/MaxValue carry the same PLAIN-encoded bytes; the
// deprecated Min/Max fields exist only for readers that don't know to look
// at MinValue/MaxValue.
func toStatistics(kind Kind, length int, stats columnStatistics) format.Statistics {
	nullCount := stats.nullCount
	distinctCount := stats.distinctCount
	s := format.Statistics{NullCount: &nullCount, DistinctCount: &distinctCount}
	if stats.hasMinMax {
		min := toStatisticsBytes(kind, length, stats.min)
		max := toStatisticsBytes(kind, length, stats.max)
		s.Min, s.MinValue = min, min
		s.Max, s.MaxValue = max, max
	}
	return s
}
