package parquet

import (
	"strings"

	"github.com/gostorage/parquet/compress"
)

const (
	DefaultCreatedBy             = "parquet-core version 1.0.0"
	DefaultPageBufferSize        = 1 * 1024 * 1024
	DefaultRowGroupSize          = 5000
	DefaultUseDictionary         = true
	DefaultDictionaryMaxDistinct = 1 << 20
	DefaultDictionaryMaxRatio    = 0.8
)

// DefaultCompression is the compression codec a WriterConfig uses when none
// is configured: SNAPPY, the same default the teacher's own CLI tools reach
// for when the caller doesn't care.
var DefaultCompression compress.Codec = &Snappy

// The ReaderConfig type carries configuration options for parquet readers.
type ReaderConfig struct {
	PageBufferSize int
}

// DefaultReaderConfig returns a new ReaderConfig value initialized with the
// default reader configuration.
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{PageBufferSize: DefaultPageBufferSize}
}

// Apply applies the given list of options to c.
func (c *ReaderConfig) Apply(options ...ReaderOption) {
	for _, opt := range options {
		opt.ConfigureReader(c)
	}
}

func (c *ReaderConfig) ConfigureReader(config *ReaderConfig) {
	*config = ReaderConfig{
		PageBufferSize: coalesceInt(c.PageBufferSize, config.PageBufferSize),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *ReaderConfig) Validate() error {
	const baseName = "parquet.(*ReaderConfig)."
	return errorInvalidConfiguration(
		validatePositiveInt(baseName+"PageBufferSize", c.PageBufferSize),
	)
}

// The WriterConfig type carries configuration options for parquet writers:
// compression, dictionary use, row group sizing, and the custom metadata
// attached to the footer.
type WriterConfig struct {
	CreatedBy              string
	Compression            compress.Codec
	PageBufferSize         int
	RowGroupSize           int
	UseDictionary          bool
	TreatByteArrayAsString bool
	DictionaryMaxDistinct  int
	DictionaryMaxRatio     float64
	KeyValueMetadata       map[string]string
}

// DefaultWriterConfig returns a new WriterConfig value initialized with the
// default writer configuration.
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		CreatedBy:             DefaultCreatedBy,
		Compression:           DefaultCompression,
		PageBufferSize:        DefaultPageBufferSize,
		RowGroupSize:          DefaultRowGroupSize,
		UseDictionary:         DefaultUseDictionary,
		DictionaryMaxDistinct: DefaultDictionaryMaxDistinct,
		DictionaryMaxRatio:    DefaultDictionaryMaxRatio,
	}
}

// Apply applies the given list of options to c.
func (c *WriterConfig) Apply(options ...WriterOption) {
	for _, opt := range options {
		opt.ConfigureWriter(c)
	}
}

func (c *WriterConfig) ConfigureWriter(config *WriterConfig) {
	keyValueMetadata := config.KeyValueMetadata
	if len(c.KeyValueMetadata) > 0 {
		if keyValueMetadata == nil {
			keyValueMetadata = make(map[string]string, len(c.KeyValueMetadata))
		}
		for k, v := range c.KeyValueMetadata {
			keyValueMetadata[k] = v
		}
	}
	*config = WriterConfig{
		CreatedBy:              coalesceString(c.CreatedBy, config.CreatedBy),
		Compression:            coalesceCodec(c.Compression, config.Compression),
		PageBufferSize:         coalesceInt(c.PageBufferSize, config.PageBufferSize),
		RowGroupSize:           coalesceInt(c.RowGroupSize, config.RowGroupSize),
		UseDictionary:          config.UseDictionary,
		TreatByteArrayAsString: config.TreatByteArrayAsString,
		DictionaryMaxDistinct:  coalesceInt(c.DictionaryMaxDistinct, config.DictionaryMaxDistinct),
		DictionaryMaxRatio:     coalesceFloat(c.DictionaryMaxRatio, config.DictionaryMaxRatio),
		KeyValueMetadata:       keyValueMetadata,
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *WriterConfig) Validate() error {
	const baseName = "parquet.(*WriterConfig)."
	return errorInvalidConfiguration(
		validateNotNil(baseName+"Compression", c.Compression),
		validatePositiveInt(baseName+"PageBufferSize", c.PageBufferSize),
		validatePositiveInt(baseName+"RowGroupSize", c.RowGroupSize),
		validatePositiveInt(baseName+"DictionaryMaxDistinct", c.DictionaryMaxDistinct),
	)
}

// The RowGroupConfig type carries configuration options for a single row
// group's column buffers.
type RowGroupConfig struct {
	ColumnBufferSize int
}

// DefaultRowGroupConfig returns a new RowGroupConfig value initialized with
// the default row group configuration.
func DefaultRowGroupConfig() *RowGroupConfig {
	return &RowGroupConfig{ColumnBufferSize: DefaultPageBufferSize}
}

func (c *RowGroupConfig) Apply(options ...RowGroupOption) {
	for _, opt := range options {
		opt.ConfigureRowGroup(c)
	}
}

func (c *RowGroupConfig) ConfigureRowGroup(config *RowGroupConfig) {
	*config = RowGroupConfig{
		ColumnBufferSize: coalesceInt(c.ColumnBufferSize, config.ColumnBufferSize),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *RowGroupConfig) Validate() error {
	const baseName = "parquet.(*RowGroupConfig)."
	return errorInvalidConfiguration(
		validatePositiveInt(baseName+"ColumnBufferSize", c.ColumnBufferSize),
	)
}

// ReaderOption is an interface implemented by types that carry configuration
// options for parquet readers.
type ReaderOption interface {
	ConfigureReader(*ReaderConfig)
}

// WriterOption is an interface implemented by types that carry configuration
// options for parquet writers.
type WriterOption interface {
	ConfigureWriter(*WriterConfig)
}

// RowGroupOption is an interface implemented by types that carry
// configuration options for parquet row groups.
type RowGroupOption interface {
	ConfigureRowGroup(*RowGroupConfig)
}

// PageBufferSize sets the PageBufferSize field of a ReaderConfig or
// WriterConfig. The value is validated as positive when a reader or writer
// is opened; the page engine does not consult it.
//
// Defaults to 1 MiB.
type PageBufferSize int

func (size PageBufferSize) ConfigureReader(config *ReaderConfig) { config.PageBufferSize = int(size) }
func (size PageBufferSize) ConfigureWriter(config *WriterConfig) { config.PageBufferSize = int(size) }

// CreatedBy sets the name of the application that created a parquet file.
func CreatedBy(createdBy string) WriterOption {
	return writerOption(func(config *WriterConfig) { config.CreatedBy = createdBy })
}

// Compression sets the codec used to compress column chunk pages.
//
// Defaults to SNAPPY.
func Compression(codec compress.Codec) WriterOption {
	return writerOption(func(config *WriterConfig) { config.Compression = codec })
}

// RowGroupSize sets WriterConfig.RowGroupSize, the target number of rows per
// row group. The value is validated as positive when the writer is opened;
// the writer does not consult it and never starts a row group on its own:
// each row group is created by CreateRowGroup and holds the rows its
// columns carry.
//
// Defaults to 5000.
func RowGroupSize(numRows int) WriterOption {
	return writerOption(func(config *WriterConfig) { config.RowGroupSize = numRows })
}

// UseDictionary enables or disables dictionary encoding of column chunks
// that fall under the dictionary heuristic (see DictionaryStats).
//
// Defaults to true.
func UseDictionary(enabled bool) WriterOption {
	return writerOption(func(config *WriterConfig) { config.UseDictionary = enabled })
}

// TreatByteArrayAsString sets WriterConfig.TreatByteArrayAsString. The flag
// is stored but not consulted: statistics of BYTE_ARRAY columns compare
// values as byte strings in lexicographic order whether it is set or not.
//
// Defaults to false.
func TreatByteArrayAsString(enabled bool) WriterOption {
	return writerOption(func(config *WriterConfig) { config.TreatByteArrayAsString = enabled })
}

// DictionaryStats configures the heuristic a writer uses to decide whether a
// column chunk is dictionary-encoded: it is, as long as the number of
// distinct values is at most maxDistinct and under maxRatio of the number
// of non-null values.
//
// Defaults to maxDistinct = 2^20, maxRatio = 0.8.
func DictionaryStats(maxDistinct int, maxRatio float64) WriterOption {
	return writerOption(func(config *WriterConfig) {
		config.DictionaryMaxDistinct = maxDistinct
		config.DictionaryMaxRatio = maxRatio
	})
}

// KeyValueMetadata adds a key/value pair to a file's custom metadata.
//
// This option is additive: it may be used multiple times to add more than
// one key/value pair. Keys are assumed unique; if the same key is set more
// than once, the last value is retained.
func KeyValueMetadata(key, value string) WriterOption {
	return writerOption(func(config *WriterConfig) {
		if config.KeyValueMetadata == nil {
			config.KeyValueMetadata = map[string]string{key: value}
		} else {
			config.KeyValueMetadata[key] = value
		}
	})
}

// ColumnBufferSize sets RowGroupConfig.ColumnBufferSize. The row group
// writer stores the value but does not consult it.
func ColumnBufferSize(size int) RowGroupOption {
	return rowGroupOption(func(config *RowGroupConfig) { config.ColumnBufferSize = size })
}

type readerOption func(*ReaderConfig)

func (opt readerOption) ConfigureReader(config *ReaderConfig) { opt(config) }

type writerOption func(*WriterConfig)

func (opt writerOption) ConfigureWriter(config *WriterConfig) { opt(config) }

type rowGroupOption func(*RowGroupConfig)

func (opt rowGroupOption) ConfigureRowGroup(config *RowGroupConfig) { opt(config) }

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceFloat(f1, f2 float64) float64 {
	if f1 != 0 {
		return f1
	}
	return f2
}

func coalesceString(s1, s2 string) string {
	if s1 != "" {
		return s1
	}
	return s2
}

func coalesceCodec(c1, c2 compress.Codec) compress.Codec {
	if c1 != nil {
		return c1
	}
	return c2
}

func validatePositiveInt(optionName string, optionValue int) error {
	if optionValue > 0 {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func validateNotNil(optionName string, optionValue interface{}) error {
	if optionValue != nil {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func errorInvalidOptionValue(optionName string, optionValue interface{}) error {
	return errorf(InvalidArgument, "Validate", "invalid option value: %s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration
	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}
	if err != nil {
		return err
	}
	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}

var (
	_ ReaderOption   = (*ReaderConfig)(nil)
	_ WriterOption   = (*WriterConfig)(nil)
	_ RowGroupOption = (*RowGroupConfig)(nil)
	_ ReaderOption   = PageBufferSize(0)
	_ WriterOption   = PageBufferSize(0)
)
