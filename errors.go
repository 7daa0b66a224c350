package tsfile

import (
	"errors"
	"fmt"
)

// ErrIoFailure wraps a failure from the FileWriter during flush. The file
// may be partially written; the caller must truncate to the last
// known-good offset or discard the file. The write path also returns it,
// wrapped with a description, for calls the writer cannot accept: a write
// or flush after the writer was flushed, a row or batch whose column count
// differs from the writer's, an empty or partial aligned group, and a
// compressor error while sealing a page.
var ErrIoFailure = errors.New("io failure")

// ErrEncodingFailure indicates the encoder rejected a value, for example an
// overflow in a delta encoder. It is fatal for the writer instance: the
// current page is corrupt and the caller must drop the chunk group.
var ErrEncodingFailure = errors.New("encoding failure")

// ErrPageFailure indicates a pre-encoded page being spliced in had a
// compressed size that does not match its header.
var ErrPageFailure = errors.New("page failure")

// SchemaConflictError is returned by TryToAddSeriesWriter and
// TryToAddAlignedSeriesWriters when a series with
// the given measurement ID is already installed under a different schema.
type SchemaConflictError struct {
	MeasurementID string
	Existing      MeasurementSchema
	Requested     MeasurementSchema
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf(
		"schema conflict for measurement %q: existing %s/%s/%s, requested %s/%s/%s",
		e.MeasurementID,
		e.Existing.Type, e.Existing.Encoding, e.Existing.Compression,
		e.Requested.Type, e.Requested.Encoding, e.Requested.Compression,
	)
}

func (e *SchemaConflictError) Is(target error) bool {
	_, ok := target.(*SchemaConflictError)
	return ok
}

// TypeMismatchError is returned when a typed write targets a writer whose
// data type does not match.
type TypeMismatchError struct {
	MeasurementID string
	Want          DataType
	Got           DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for measurement %q: want %s, got %s", e.MeasurementID, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	_, ok := target.(*TypeMismatchError)
	return ok
}

// UnknownSeriesError is returned when a write targets a measurement ID that
// has no installed writer.
type UnknownSeriesError struct {
	MeasurementID string
}

func (e *UnknownSeriesError) Error() string {
	return fmt.Sprintf("no series writer installed for measurement %q", e.MeasurementID)
}

func (e *UnknownSeriesError) Is(target error) bool {
	_, ok := target.(*UnknownSeriesError)
	return ok
}
