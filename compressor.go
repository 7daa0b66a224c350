package tsfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	kzstd "github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor is the narrow capability set a compression algorithm exposes:
// compress one page or chunk payload to a buffer, and reverse it given the
// known uncompressed size (used only by this package's round-trip tests).
// UNCOMPRESSED is a no-op copy by reference: it still runs through Compress
// so page sealing never has to special-case it.
type Compressor interface {
	Kind() CompressionKind
	Compress(in []byte) ([]byte, error)
	Decompress(in []byte, uncompressedSize int) ([]byte, error)
}

// NewCompressor returns the Compressor for the given algorithm.
func NewCompressor(kind CompressionKind) (Compressor, error) {
	switch kind {
	case UNCOMPRESSED:
		return uncompressedCodec{}, nil
	case SNAPPY:
		return snappyCodec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case GZIP:
		return gzipCodec{}, nil
	case ZSTD:
		return zstdCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", kind)
	}
}

type uncompressedCodec struct{}

func (uncompressedCodec) Kind() CompressionKind { return UNCOMPRESSED }

func (uncompressedCodec) Compress(in []byte) ([]byte, error) {
	return in, nil
}

func (uncompressedCodec) Decompress(in []byte, _ int) ([]byte, error) {
	return in, nil
}

// snappyCodec uses golang/snappy's block API: a page's payload is bounded
// by the page-size threshold, so whole-buffer block compression fits
// better here than a streaming framed writer.
type snappyCodec struct{}

func (snappyCodec) Kind() CompressionKind { return SNAPPY }

func (snappyCodec) Compress(in []byte) ([]byte, error) {
	return snappy.Encode(nil, in), nil
}

func (snappyCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	out := make([]byte, 0, uncompressedSize)
	return snappy.Decode(out, in)
}

// lz4Codec wraps pierrec/lz4's streaming writer/reader buffer-to-buffer,
// since the unit of compression here is one sealed page or chunk payload
// rather than an indefinite stream.
type lz4Codec struct{}

func (lz4Codec) Kind() CompressionKind { return LZ4 }

func (lz4Codec) Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(in); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (lz4Codec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(in))
	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return out, nil
}

// gzipCodec uses klauspost/compress's drop-in faster gzip implementation
// rather than the standard library's.
type gzipCodec struct{}

func (gzipCodec) Kind() CompressionKind { return GZIP }

func (gzipCodec) Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(in); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	defer zr.Close()
	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return out, nil
}

// zstdCodec favors encode speed over ratio, suited to inline page sealing
// rather than offline batch compression.
type zstdCodec struct{}

func (zstdCodec) Kind() CompressionKind { return ZSTD }

func (zstdCodec) Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := kzstd.NewWriter(&buf, kzstd.WithEncoderLevel(kzstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	if _, err := zw.Write(in); err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (zstdCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	zr, err := kzstd.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	defer zr.Close()
	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}
