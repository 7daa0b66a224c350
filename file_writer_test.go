package tsfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileWriterPosMatchesBytesWritten flushes a multi-page chunk through
// NewFileWriter and checks that GetPos equals the number of bytes that
// reached the underlying io.Writer, chunk-group footer included.
func TestFileWriterPosMatchesBytesWritten(t *testing.T) {
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

	var buf bytes.Buffer
	fw := NewFileWriter(&buf)
	require.NoError(t, fw.StartChunkGroup("device1"))
	_, err = w.WriteToFileWriter(fw)
	require.NoError(t, err)
	require.NoError(t, fw.EndChunkGroup())

	assert.Greater(t, buf.Len(), 0)
	pos, err := fw.GetPos()
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), pos)
}

func TestFileWriterRejectsDoubleStart(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFileWriter(&buf)
	require.NoError(t, fw.StartChunkGroup("device1"))
	err := fw.StartChunkGroup("device2")
	assert.ErrorIs(t, err, ErrIoFailure)
}

func TestFileWriterEndChunkGroupRequiresOpenGroup(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFileWriter(&buf)
	err := fw.EndChunkGroup()
	assert.ErrorIs(t, err, ErrIoFailure)
}
