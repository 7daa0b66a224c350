// Package tsfile implements the in-memory write path for a single chunk
// group of a columnar time-series file format: per-series page buffering
// with type-specific encoding and compression, threshold-driven page
// sealing, and chunk-group level coordination and flushing to a
// lower-level append-only FileWriter.
package tsfile

import "fmt"

// DataType is the closed set of scalar types a series may hold.
type DataType byte

const (
	BOOLEAN DataType = iota
	INT32
	INT64
	FLOAT
	DOUBLE
	TEXT
	BLOB
	STRING
	// TIMESTAMP is encoding-level identical to INT64.
	TIMESTAMP
	// DATE is encoding-level identical to INT32.
	DATE
)

func (t DataType) String() string {
	switch t {
	case BOOLEAN:
		return "BOOLEAN"
	case INT32:
		return "INT32"
	case INT64:
		return "INT64"
	case FLOAT:
		return "FLOAT"
	case DOUBLE:
		return "DOUBLE"
	case TEXT:
		return "TEXT"
	case BLOB:
		return "BLOB"
	case STRING:
		return "STRING"
	case TIMESTAMP:
		return "TIMESTAMP"
	case DATE:
		return "DATE"
	default:
		return fmt.Sprintf("<unrecognized datatype 0x%02x>", byte(t))
	}
}

// storageType collapses TIMESTAMP/DATE aliases to their underlying wire
// representation, since encoders and statistics only need to reason about
// one of each width.
func (t DataType) storageType() DataType {
	switch t {
	case TIMESTAMP:
		return INT64
	case DATE:
		return INT32
	default:
		return t
	}
}

func (t DataType) isNumeric() bool {
	switch t.storageType() {
	case INT32, INT64, FLOAT, DOUBLE:
		return true
	default:
		return false
	}
}

// EncodingKind is the closed set of numeric/text encodings a series may use.
type EncodingKind byte

const (
	PLAIN EncodingKind = iota
	TS_2DIFF
	GORILLA
	RLE
	DICTIONARY
	ZIGZAG
)

func (e EncodingKind) String() string {
	switch e {
	case PLAIN:
		return "PLAIN"
	case TS_2DIFF:
		return "TS_2DIFF"
	case GORILLA:
		return "GORILLA"
	case RLE:
		return "RLE"
	case DICTIONARY:
		return "DICTIONARY"
	case ZIGZAG:
		return "ZIGZAG"
	default:
		return fmt.Sprintf("<unrecognized encoding 0x%02x>", byte(e))
	}
}

// CompressionKind is the closed set of page/chunk compression algorithms.
type CompressionKind byte

const (
	UNCOMPRESSED CompressionKind = iota
	SNAPPY
	LZ4
	GZIP
	ZSTD
)

func (c CompressionKind) String() string {
	switch c {
	case UNCOMPRESSED:
		return "UNCOMPRESSED"
	case SNAPPY:
		return "SNAPPY"
	case LZ4:
		return "LZ4"
	case GZIP:
		return "GZIP"
	case ZSTD:
		return "ZSTD"
	default:
		return fmt.Sprintf("<unrecognized compression 0x%02x>", byte(c))
	}
}

// Value is a tagged sum type for a single scalar write, collapsing what
// would otherwise be a per-type write(...) overload into one dispatchable
// value: nulls are represented by IsNull rather than by a type-specific
// sentinel fed through the encoder.
type Value struct {
	Type   DataType
	Bool   bool
	I32    int32
	I64    int64
	F32    float32
	F64    float64
	Bytes  []byte // TEXT, BLOB, STRING
	IsNull bool
}

// BoolValue builds a present BOOLEAN value.
func BoolValue(v bool) Value { return Value{Type: BOOLEAN, Bool: v} }

// Int32Value builds a present INT32 value.
func Int32Value(v int32) Value { return Value{Type: INT32, I32: v} }

// Int64Value builds a present INT64 value.
func Int64Value(v int64) Value { return Value{Type: INT64, I64: v} }

// FloatValue builds a present FLOAT value.
func FloatValue(v float32) Value { return Value{Type: FLOAT, F32: v} }

// DoubleValue builds a present DOUBLE value.
func DoubleValue(v float64) Value { return Value{Type: DOUBLE, F64: v} }

// BytesValue builds a present TEXT/BLOB/STRING value.
func BytesValue(t DataType, v []byte) Value { return Value{Type: t, Bytes: v} }

// NullValue builds a null value of the given type. The type is retained so
// callers can still route it to the right writer; encoders never see it.
func NullValue(t DataType) Value { return Value{Type: t, IsNull: true} }

// Point is a single (timestamp, value) pair for one series. Timestamps
// within a chunk are expected to be non-decreasing; the writer does not
// sort.
type Point struct {
	Timestamp int64
	Value     Value
}

// DataPoint names one measurement's value for a row-oriented write shared
// across several series at one timestamp.
type DataPoint struct {
	MeasurementID string
	Value         Value
}

// Tablet is a column-oriented batch: one ordered schema per column, a
// shared timestamp per row, and one Value (carrying its own IsNull flag)
// per (row, column) cell. All columns must have length RowCount and a
// scalar type matching their schema.
type Tablet struct {
	Schemas    []MeasurementSchema
	Timestamps []int64
	Columns    [][]Value
	RowCount   int
}
