package tsfile

import "log/slog"

// TimeChunkWriter is the Time-column writer of an aligned group: a
// ValueChunkWriter restricted to INT64, built from the configured default
// time encoding and compression.
type TimeChunkWriter struct {
	*ValueChunkWriter
}

// NewTimeChunkWriter builds the Time writer for an aligned group. The
// measurement ID is conventionally empty, matching an aligned group's Time
// chunk.
func NewTimeChunkWriter(cfg Config, log *slog.Logger) (*TimeChunkWriter, error) {
	schema := MeasurementSchema{
		MeasurementID: "",
		Type:          INT64,
		Encoding:      cfg.DefaultTimeEncoding,
		Compression:   cfg.DefaultTimeCompression,
	}
	inner, err := NewValueChunkWriter(schema, cfg, log)
	if err != nil {
		return nil, err
	}
	return &TimeChunkWriter{ValueChunkWriter: inner}, nil
}

// WriteTime records one timestamp without sealing the page on its own: an
// aligned group's Time chunk only ever seals in lockstep with every Value
// chunk, decided by AlignedChunkWriter.checkAndSealShared.
func (t *TimeChunkWriter) WriteTime(ts int64) error {
	return t.writeNoAutoSeal(ts, Int64Value(ts))
}

// getRemainingPointNumberForCurrentPage returns how many more points may be
// appended to the current, open page before it would seal, letting
// AlignedChunkWriter split an incoming batch exactly at the page boundary
// instead of probing after each point. It is an estimate based on the
// configured max points per page and the current page's point count; a
// byte-size threshold crossing can still seal the page earlier.
func (t *TimeChunkWriter) getRemainingPointNumberForCurrentPage() int {
	remaining := int(t.cfg.MaxPointsPerPage) - t.page.PointCount()
	if remaining < 0 {
		return 0
	}
	return remaining
}
