package tsfile

import "errors"

// ErrEmptyMeasurementID is returned when installing a schema whose
// MeasurementID is empty.
var ErrEmptyMeasurementID = errors.New("measurement id must not be empty")

// MeasurementSchema is the immutable-once-installed contract for one
// series: its identity, type, and the encoding/compression it is written
// with.
type MeasurementSchema struct {
	MeasurementID string
	Type          DataType
	Encoding      EncodingKind
	Compression   CompressionKind

	// EncodingParams carries optional per-encoding parameters (for example
	// a dictionary size hint). It is opaque to the chunk group writer.
	EncodingParams map[string]string
}

// Equal reports whether two schemas are interchangeable: same id, type,
// encoding, and compression. EncodingParams are not compared, since they
// only tune an encoding's internal behavior and do not change identity.
func (s MeasurementSchema) Equal(other MeasurementSchema) bool {
	return s.MeasurementID == other.MeasurementID &&
		s.Type == other.Type &&
		s.Encoding == other.Encoding &&
		s.Compression == other.Compression
}

func (s MeasurementSchema) validate() error {
	if s.MeasurementID == "" {
		return ErrEmptyMeasurementID
	}
	return nil
}
