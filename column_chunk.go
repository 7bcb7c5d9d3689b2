package parquet

import (
	"io"

	"github.com/gostorage/parquet/format"
	"github.com/gostorage/parquet/internal/thrift"
)

// chooseDictionary applies the dictionary heuristic: encode with a
// dictionary as long as the number of distinct present values is at most
// DictionaryMaxDistinct and under DictionaryMaxRatio of the present count.
func chooseDictionary(cfg *WriterConfig, presentCount, distinctCount int) bool {
	if !cfg.UseDictionary || presentCount == 0 {
		return false
	}
	if distinctCount > cfg.DictionaryMaxDistinct {
		return false
	}
	return float64(distinctCount) < cfg.DictionaryMaxRatio*float64(presentCount)
}

// writeColumnChunk writes one column's optional dictionary page and its
// single data page to w, and returns the ColumnMetaData a row group's
// footer entry records for it. offset is the file offset at which writing
// begins (the dictionary page's, or if absent, the data page's).
func writeColumnChunk(w io.Writer, offset int64, col *DataColumn, cfg *WriterConfig) (format.ColumnMetaData, error) {
	field := col.Field
	stats, distinct, seen := computeStatistics(field, col.Values)
	presentCount := len(col.Values) - int(stats.nullCount)

	var indices []int32
	var dictPage *builtPage
	var err error

	if chooseDictionary(cfg, presentCount, len(distinct)) {
		dictPage, err = buildDictionaryPage(field.Type, field.Length, distinct, cfg.Compression)
		if err != nil {
			return format.ColumnMetaData{}, wrap(InvalidArgument, "writeColumnChunk", err)
		}
		indices = make([]int32, 0, presentCount)
		maxDef := field.MaxDefinitionLevel()
		for i, v := range col.Values {
			if int(col.DefinitionLevels[i]) == maxDef {
				indices = append(indices, seen[statisticsKey(field.Type, v)])
			}
		}
	}

	dataPage, err := buildDataPage(col, indices, len(distinct), stats, cfg.Compression)
	if err != nil {
		return format.ColumnMetaData{}, wrap(InvalidArgument, "writeColumnChunk", err)
	}

	meta := format.ColumnMetaData{
		Type:         field.Type.Type(),
		PathInSchema: field.Path(),
		Codec:        cfg.Compression.CompressionCodec(),
		NumValues:    int64(len(col.Values)),
	}

	pos := offset
	if dictPage != nil {
		headerLen, total, err := writePage(w, dictPage)
		if err != nil {
			return format.ColumnMetaData{}, wrap(Unsupported, "writeColumnChunk", err)
		}
		dictOffset := pos
		meta.DictionaryPageOffset = &dictOffset
		meta.Encodings = append(meta.Encodings, format.Plain)
		meta.TotalCompressedSize += total
		meta.TotalUncompressedSize += int64(headerLen) + int64(dictPage.header.UncompressedPageSize)
		pos += total
	}

	meta.DataPageOffset = pos
	headerLen, total, err := writePage(w, dataPage)
	if err != nil {
		return format.ColumnMetaData{}, wrap(Unsupported, "writeColumnChunk", err)
	}
	meta.TotalCompressedSize += total
	meta.TotalUncompressedSize += int64(headerLen) + int64(dataPage.header.UncompressedPageSize)

	if dataPage.header.DataPageHeader.Encoding == format.PlainDictionary {
		meta.Encodings = append(meta.Encodings, format.PlainDictionary)
	} else {
		meta.Encodings = append(meta.Encodings, format.Plain)
	}
	if field.MaxRepetitionLevel() > 0 || field.MaxDefinitionLevel() > 0 {
		meta.Encodings = append(meta.Encodings, format.RLE)
	}
	meta.Statistics = toStatistics(field.Type, field.Length, stats)
	return meta, nil
}

// writePage writes a page's header then body to w, returning the header's
// length and the total number of bytes written (header + body).
func writePage(w io.Writer, p *builtPage) (headerLen int, total int64, err error) {
	hb, err := marshalPageHeader(p.header)
	if err != nil {
		return 0, 0, err
	}
	if _, err := w.Write(hb); err != nil {
		return 0, 0, err
	}
	if _, err := w.Write(p.body); err != nil {
		return 0, 0, err
	}
	return len(hb), int64(len(hb) + len(p.body)), nil
}

// readColumnChunk reads a column chunk's dictionary page (if any) and data
// page back from ra at the offsets meta records, decoding it into a
// DataColumn of field's shape.
func readColumnChunk(ra io.ReaderAt, field *Field, meta format.ColumnMetaData) (*DataColumn, error) {
	const op = "readColumnChunk"

	start := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil {
		start = *meta.DictionaryPageOffset
	}
	sr := io.NewSectionReader(ra, start, meta.TotalCompressedSize)
	dec := thrift.NewDecoder(sr)
	codec := lookupCompressionCodec(meta.Codec)

	var dict []interface{}
	if meta.DictionaryPageOffset != nil {
		var h format.PageHeader
		if err := dec.Decode(&h); err != nil {
			return nil, wrap(CorruptFile, op, err)
		}
		if h.Type != format.DictionaryPage || h.DictionaryPageHeader == nil {
			return nil, errorf(CorruptFile, op, "expected a DICTIONARY_PAGE header, got %s", h.Type)
		}
		body := make([]byte, h.CompressedPageSize)
		if _, err := io.ReadFull(sr, body); err != nil {
			return nil, wrap(CorruptFile, op, err)
		}
		plainBytes, err := decompressPayload(codec, body, int(h.UncompressedPageSize))
		if err != nil {
			return nil, wrap(CorruptFile, op, err)
		}
		dict, err = plainDecodePage(field.Type, field.Length, int(h.DictionaryPageHeader.NumValues), plainBytes)
		if err != nil {
			return nil, wrap(CorruptFile, op, err)
		}
	}

	var h format.PageHeader
	if err := dec.Decode(&h); err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	if h.Type != format.DataPage || h.DataPageHeader == nil {
		return nil, errorf(CorruptFile, op, "expected a DATA_PAGE header, got %s", h.Type)
	}
	body := make([]byte, h.CompressedPageSize)
	if _, err := io.ReadFull(sr, body); err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	payload, err := decompressPayload(codec, body, int(h.UncompressedPageSize))
	if err != nil {
		return nil, wrap(CorruptFile, op, err)
	}

	n := int(h.DataPageHeader.NumValues)
	maxRep := field.MaxRepetitionLevel()
	maxDef := field.MaxDefinitionLevel()
	rest := payload

	repLevels, consumed, err := decodeLevels(rest, maxRep, n)
	if err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	rest = rest[consumed:]

	defLevels, consumed, err := decodeLevels(rest, maxDef, n)
	if err != nil {
		return nil, wrap(CorruptFile, op, err)
	}
	rest = rest[consumed:]

	presentCount := 0
	for _, d := range defLevels {
		if int(d) == maxDef {
			presentCount++
		}
	}

	var present []interface{}
	if h.DataPageHeader.Encoding == format.PlainDictionary {
		idx, err := decodeDictionaryIndices(rest, presentCount)
		if err != nil {
			return nil, wrap(CorruptFile, op, err)
		}
		present = make([]interface{}, len(idx))
		for i, ix := range idx {
			if ix < 0 || int(ix) >= len(dict) {
				return nil, errorf(CorruptFile, op, "dictionary index %d out of range [0,%d)", ix, len(dict))
			}
			present[i] = dict[ix]
		}
	} else {
		present, err = plainDecodePage(field.Type, field.Length, presentCount, rest)
		if err != nil {
			return nil, wrap(CorruptFile, op, err)
		}
	}

	values := make([]interface{}, n)
	vi := 0
	for i := 0; i < n; i++ {
		if int(defLevels[i]) == maxDef {
			values[i] = present[vi]
			vi++
		}
	}

	return &DataColumn{
		Field:            field,
		Values:           values,
		DefinitionLevels: defLevels,
		RepetitionLevels: repLevels,
	}, nil
}
