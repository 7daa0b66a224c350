package tsfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasurementSchemaEqual(t *testing.T) {
	a := MeasurementSchema{MeasurementID: "s1", Type: INT32, Encoding: PLAIN, Compression: SNAPPY}
	b := a
	b.EncodingParams = map[string]string{"k": "v"} // params don't affect identity
	assert.True(t, a.Equal(b))

	c := a
	c.Compression = GZIP
	assert.False(t, a.Equal(c))
}

func TestMeasurementSchemaValidate(t *testing.T) {
	assert.NoError(t, MeasurementSchema{MeasurementID: "s1"}.validate())
	assert.ErrorIs(t, MeasurementSchema{}.validate(), ErrEmptyMeasurementID)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(64*1024), cfg.PageSizeThresholdBytes)
	assert.Equal(t, int64(1_048_576), cfg.MaxPointsPerPage)
	assert.Equal(t, int64(1024*1024), cfg.ChunkSizeThresholdBytes)
	assert.Equal(t, TS_2DIFF, cfg.DefaultTimeEncoding)
	assert.Equal(t, LZ4, cfg.DefaultTimeCompression)
	assert.False(t, cfg.WritePageCRC)
}

func TestDataTypeStringAndStorageType(t *testing.T) {
	assert.Equal(t, "INT64", TIMESTAMP.storageType().String())
	assert.Equal(t, "INT32", DATE.storageType().String())
	assert.Equal(t, INT64, TIMESTAMP.storageType())
	assert.Equal(t, INT32, DATE.storageType())
	assert.Contains(t, DataType(0xFE).String(), "unrecognized")
}
