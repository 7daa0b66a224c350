package tsfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressorRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")
	for _, kind := range []CompressionKind{UNCOMPRESSED, SNAPPY, LZ4, GZIP, ZSTD} {
		t.Run(kind.String(), func(t *testing.T) {
			c, err := NewCompressor(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, c.Kind())
			compressed, err := c.Compress(payload)
			require.NoError(t, err)
			decompressed, err := c.Decompress(compressed, len(payload))
			require.NoError(t, err)
			assert.Equal(t, payload, decompressed)
		})
	}
}

func TestNewCompressorUnsupported(t *testing.T) {
	_, err := NewCompressor(CompressionKind(0xFF))
	assert.Error(t, err)
}
