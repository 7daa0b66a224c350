package tsfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageHeaderSerializeRoundTrip(t *testing.T) {
	stats := NewStatistics(INT32)
	stats.Update(Int32Value(1))
	stats.Update(Int32Value(5))

	h := PageHeader{UncompressedSize: 123, CompressedSize: 45, Statistics: stats, CRC: 0xDEADBEEF}

	buf := serializePageHeader(h, true, true)
	got, offset, err := readPageHeader(buf, 0, INT32, true, true)
	require.NoError(t, err)
	assert.Equal(t, len(buf), offset)
	assert.Equal(t, 123, got.UncompressedSize)
	assert.Equal(t, 45, got.CompressedSize)
	assert.Equal(t, uint32(0xDEADBEEF), got.CRC)
	assert.True(t, got.HasCRC)
	require.NotNil(t, got.Statistics)
	assert.Equal(t, int64(2), got.Statistics.Count)
	assert.Equal(t, int64(1), got.Statistics.MinInt64)
	assert.Equal(t, int64(5), got.Statistics.MaxInt64)
}

func TestPageHeaderOmitsStatsForSinglePageChunk(t *testing.T) {
	h := PageHeader{UncompressedSize: 10, CompressedSize: 8}
	buf := serializePageHeader(h, false, false)
	got, offset, err := readPageHeader(buf, 0, INT32, false, false)
	require.NoError(t, err)
	assert.Equal(t, len(buf), offset)
	assert.Nil(t, got.Statistics)
}

// TestSinglePageChunkOmitsPageCRC: the sole page of a single-page chunk
// omits the CRC trailer along with its statistics, even when page CRCs are
// enabled — its header is just the two size varints.
func TestSinglePageChunkOmitsPageCRC(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.WritePageCRC = true

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(1, Int32Value(1)))
	require.NoError(t, w.Write(2, Int32Value(2)))

	fw := newRecordingFileWriter()
	_, err = w.WriteToFileWriter(fw)
	require.NoError(t, err)
	require.Len(t, fw.chunks, 1)
	c := fw.chunks[0]
	assert.Equal(t, OnlyOnePageChunkHeader, c.marker)

	require.Len(t, c.payload, 2) // header bytes, compressed payload
	compressedSize := len(c.payload[1])
	wantHeaderLen := varintLen(uint64(compressedSize)) * 2 // uncompressed == compressed under UNCOMPRESSED
	assert.Equal(t, wantHeaderLen, len(c.payload[0]))

	streamed := 0
	for _, b := range c.payload {
		streamed += len(b)
	}
	assert.Equal(t, c.dataSize, streamed)
}

func TestValueChunkWriterWithCRCEnabled(t *testing.T) {
	schema := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: UNCOMPRESSED}
	cfg := DefaultConfig()
	cfg.MaxPointsPerPage = 2
	cfg.PageSizeThresholdBytes = 1_000_000_000
	cfg.WritePageCRC = true

	w, err := NewChunkWriter(schema, cfg, nil)
	require.NoError(t, err)
	for i := int64(0); i < 4; i++ {
		require.NoError(t, w.Write(i, Int32Value(int32(i))))
	}

	fw := newRecordingFileWriter()
	n, err := w.WriteToFileWriter(fw)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
	require.Len(t, fw.chunks, 1)
	assert.Equal(t, ChunkHeader, fw.chunks[0].marker)
	assert.Equal(t, 2, fw.chunks[0].numPages)
}
