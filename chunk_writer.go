package tsfile

import "log/slog"

// ChunkWriter is the single-series, non-aligned writer: one measurement,
// independently timestamped, self-contained.
type ChunkWriter struct {
	schema MeasurementSchema
	value  *ValueChunkWriter
}

// NewChunkWriter builds a non-aligned writer for one measurement. Its
// series is independently timestamped, so its pages carry their own time
// stream alongside the value stream.
func NewChunkWriter(schema MeasurementSchema, cfg Config, log *slog.Logger) (*ChunkWriter, error) {
	value, err := NewValueChunkWriterWithOwnTime(schema, cfg, log)
	if err != nil {
		return nil, err
	}
	return &ChunkWriter{schema: schema, value: value}, nil
}

// Write records one point, present or null.
func (c *ChunkWriter) Write(ts int64, v Value) error {
	return c.value.Write(ts, v)
}

// SealCurrentPage force-seals the open page even if below threshold.
func (c *ChunkWriter) SealCurrentPage() error {
	return c.value.sealCurrentPage()
}

// ClearPageWriter discards the open page's contents without sealing them.
// Sealed pages already accumulated in the chunk are untouched.
func (c *ChunkWriter) ClearPageWriter() {
	c.value.clearPageWriter()
}

// CheckIsUnsealedPageOverThreshold reports whether the open page's
// estimated size already meets the configured page-size threshold.
func (c *ChunkWriter) CheckIsUnsealedPageOverThreshold() bool {
	return c.value.checkIsUnsealedPageOverThreshold(c.value.page.UncompressedBytes())
}

// IsEmpty reports whether this writer holds no data.
func (c *ChunkWriter) IsEmpty() bool {
	return c.value.IsEmpty()
}

// EstimateMaxSeriesMemSize upper-bounds the bytes currently held.
func (c *ChunkWriter) EstimateMaxSeriesMemSize() int64 {
	return c.value.estimateMaxSeriesMemSize()
}

// CheckIsChunkSizeOverThreshold is the backpressure query callers poll to
// decide whether to flush: if no page has been sealed yet it returns
// returnTrueIfEmpty; otherwise it is true iff the sealed point count
// reaches pointNum or the estimated serialized size reaches the configured
// chunk-size threshold.
func (c *ChunkWriter) CheckIsChunkSizeOverThreshold(pointNum int, returnTrueIfEmpty bool) bool {
	return c.value.checkIsChunkSizeOverThreshold(pointNum, returnTrueIfEmpty)
}

// WriteToFileWriter flushes this series' chunk to fw.
func (c *ChunkWriter) WriteToFileWriter(fw FileWriter) (int, error) {
	return c.value.writeToFileWriter(fw, markerForSingle)
}
