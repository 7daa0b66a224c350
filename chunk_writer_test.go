package tsfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChunkWriterScenario1 covers a non-aligned single series s1 (INT64,
// PLAIN, UNCOMPRESSED) with one null point, under a huge page threshold.
func TestChunkWriterScenario1(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT64, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.PageSizeThresholdBytes = 1_000_000_000

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)

	require.NoError(t, w.Write(1, Int64Value(10)))
	require.NoError(t, w.Write(2, Int64Value(20)))
	require.NoError(t, w.Write(3, NullValue(INT64)))

	fw := newRecordingFileWriter()
	n, err := w.WriteToFileWriter(fw)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	require.Len(t, fw.chunks, 1)
	c := fw.chunks[0]
	assert.Equal(t, OnlyOnePageChunkHeader, c.marker)
	assert.Equal(t, 1, c.numPages)
	assert.Equal(t, "s1", c.measurementID)
	require.NotNil(t, c.statistics)
	assert.Equal(t, int64(2), c.statistics.Count)
	assert.Equal(t, int64(10), c.statistics.MinInt64)
	assert.Equal(t, int64(20), c.statistics.MaxInt64)
	assert.Equal(t, int64(10), c.statistics.FirstInt64)
	assert.Equal(t, int64(20), c.statistics.LastInt64)
	assert.Equal(t, int64(30), c.statistics.SumInt64)

	assert.True(t, w.IsEmpty())
}

// TestChunkWriterScenario5: one point, explicit SealCurrentPage, then flush.
func TestChunkWriterScenario5(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(1, Int32Value(42)))
	require.NoError(t, w.SealCurrentPage())

	fw := newRecordingFileWriter()
	_, err = w.WriteToFileWriter(fw)
	require.NoError(t, err)

	require.Len(t, fw.chunks, 1)
	assert.Equal(t, OnlyOnePageChunkHeader, fw.chunks[0].marker)
	assert.Equal(t, 1, fw.chunks[0].numPages)
}

func TestChunkWriterExactlyMaxPointsPerPage(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.MaxPointsPerPage = 4
	cfg.PageSizeThresholdBytes = 1_000_000_000

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)
	for i := int64(0); i < 4; i++ {
		require.NoError(t, w.Write(i, Int32Value(int32(i))))
	}
	// page sealed automatically at the threshold; open page is empty
	assert.True(t, w.value.page.IsEmpty())
	assert.Equal(t, 1, w.value.chunk.NumPages())

	fw := newRecordingFileWriter()
	_, err = w.WriteToFileWriter(fw)
	require.NoError(t, err)
	require.Len(t, fw.chunks, 1)
	assert.Equal(t, OnlyOnePageChunkHeader, fw.chunks[0].marker)
}

func TestChunkWriterZeroPointsFlushEmitsNoChunk(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	w, err := NewChunkWriter(schema, DefaultConfig(), nil)
	require.NoError(t, err)

	fw := newRecordingFileWriter()
	n, err := w.WriteToFileWriter(fw)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, fw.chunks)
}

func TestChunkWriterMultiPageMarker(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.MaxPointsPerPage = 2
	cfg.PageSizeThresholdBytes = 1_000_000_000

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, w.Write(i, Int32Value(int32(i))))
	}
	require.NoError(t, w.SealCurrentPage())
	assert.Equal(t, 3, w.value.chunk.NumPages())

	fw := newRecordingFileWriter()
	_, err = w.WriteToFileWriter(fw)
	require.NoError(t, err)
	require.Len(t, fw.chunks, 1)
	assert.Equal(t, ChunkHeader, fw.chunks[0].marker)
	assert.Equal(t, 3, fw.chunks[0].numPages)
}

// TestChunkDataSizeEqualsPageBytes covers the header invariant: the
// dataSize announced to StartFlushChunk equals the sum of every page
// header and compressed payload actually streamed for that chunk.
func TestChunkDataSizeEqualsPageBytes(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.MaxPointsPerPage = 2
	cfg.PageSizeThresholdBytes = 1_000_000_000

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, w.Write(i, Int32Value(int32(i))))
	}

	fw := newRecordingFileWriter()
	_, err = w.WriteToFileWriter(fw)
	require.NoError(t, err)
	require.Len(t, fw.chunks, 1)

	streamed := 0
	for _, b := range fw.chunks[0].payload {
		streamed += len(b)
	}
	assert.Equal(t, fw.chunks[0].dataSize, streamed)
}

func TestChunkWriterClearPageWriter(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	w, err := NewChunkWriter(schema, DefaultConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(1, Int32Value(1)))
	require.NoError(t, w.SealCurrentPage())
	require.NoError(t, w.Write(2, Int32Value(2)))

	w.ClearPageWriter()
	// open page discarded, sealed page kept
	assert.True(t, w.value.page.IsEmpty())
	assert.Equal(t, 1, w.value.chunk.NumPages())
}

func TestChunkWriterUnsealedPageThresholdQuery(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: TEXT, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.PageSizeThresholdBytes = 16
	cfg.MaxPointsPerPage = 1_048_576
	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)

	assert.False(t, w.CheckIsUnsealedPageOverThreshold())
	require.NoError(t, w.Write(1, BytesValue(TEXT, []byte("abcd"))))
	assert.False(t, w.CheckIsUnsealedPageOverThreshold())

	// crossing the threshold without the facade's auto-seal shows the query
	// flipping to true
	require.NoError(t, w.value.writeNoAutoSeal(2, BytesValue(TEXT, []byte("abcdefghijklmnop"))))
	assert.True(t, w.CheckIsUnsealedPageOverThreshold())
}

func TestTypeMismatchError(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	w, err := NewChunkWriter(schema, DefaultConfig(), nil)
	require.NoError(t, err)
	err = w.Write(1, DoubleValue(1.5))
	var typeErr *TypeMismatchError
	assert.ErrorAs(t, err, &typeErr)
}

func TestCheckIsChunkSizeOverThreshold(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)

	// empty chunk: returnTrueIfEmpty controls the result
	assert.True(t, w.CheckIsChunkSizeOverThreshold(10, true))
	assert.False(t, w.CheckIsChunkSizeOverThreshold(10, false))

	require.NoError(t, w.Write(1, Int32Value(1)))
	require.NoError(t, w.SealCurrentPage())

	// chunk is non-empty now; point count (1) exceeds pointNum threshold of 0
	assert.True(t, w.CheckIsChunkSizeOverThreshold(0, false))
	// point count below a high threshold, and chunk bytes far below size threshold
	assert.False(t, w.CheckIsChunkSizeOverThreshold(1000, false))
}
