package tsfile

import "fmt"

// PageBuffer holds one in-progress page of encoded values for one series:
// point count, running uncompressed size, the encoder's internal state, and
// running statistics. It is created empty, mutated by each write, and
// terminated by seal, which yields a sealedPage and resets the buffer for
// reuse.
type PageBuffer struct {
	dataType    DataType
	encoder     Encoder
	timeEncoder Encoder // non-nil only for a non-aligned series' own page, which carries its independent timestamps alongside its values
	bitmap      nullBitmap
	stats       *Statistics
	count       int
}

func newPageBuffer(t DataType, encoding EncodingKind) (*PageBuffer, error) {
	enc, err := NewEncoder(t, encoding)
	if err != nil {
		return nil, err
	}
	return &PageBuffer{
		dataType: t,
		encoder:  enc,
		stats:    NewStatistics(t),
	}, nil
}

// newPageBufferWithTime builds a page that encodes its own timestamps, for
// a non-aligned series that is not sharing a TimeChunkWriter.
func newPageBufferWithTime(t DataType, encoding EncodingKind, timeEncoding EncodingKind) (*PageBuffer, error) {
	p, err := newPageBuffer(t, encoding)
	if err != nil {
		return nil, err
	}
	timeEnc, err := NewEncoder(INT64, timeEncoding)
	if err != nil {
		return nil, err
	}
	p.timeEncoder = timeEnc
	return p, nil
}

// Write records one point into the page. If v.IsNull, the nullability
// bitmap still advances but the encoder and statistics are left untouched:
// nulls never reach the encoder. ts is ignored unless the page was built
// with newPageBufferWithTime.
func (p *PageBuffer) Write(ts int64, v Value) error {
	if p.timeEncoder != nil {
		if err := p.timeEncoder.Encode(Int64Value(ts)); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
	}
	p.bitmap.appendBit(v.IsNull)
	if !v.IsNull {
		if err := p.encoder.Encode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
		p.stats.Update(v)
	}
	p.count++
	return nil
}

// PointCount returns the number of points (present and null) written to the
// current, unsealed page.
func (p *PageBuffer) PointCount() int {
	return p.count
}

// IsEmpty reports whether no point has been written to the current page.
func (p *PageBuffer) IsEmpty() bool {
	return p.count == 0
}

// UncompressedBytes estimates the current page's encoded size: encoder-
// internal bytes plus the nullability bitmap and its length prefixes. The
// page-size policy compares this estimate against the configured
// threshold to decide when to seal.
func (p *PageBuffer) UncompressedBytes() int {
	n := varintLen(uint64(p.count)) + varintLen(uint64(len(p.bitmap.bytes()))) + len(p.bitmap.bytes()) + p.encoder.TailBytes()
	if p.timeEncoder != nil {
		n += varintLen(uint64(p.timeEncoder.TailBytes())) + p.timeEncoder.TailBytes()
	}
	return n
}

// Statistics returns the page's running statistics (not a copy); callers
// that need to retain it across a seal must copy it first.
func (p *PageBuffer) Statistics() *Statistics {
	return p.stats
}

// sealedPage is one compressed, self-delimiting page payload plus the
// statistics and sizes needed to build its PageHeader once the owning
// chunk's final page count (and therefore its single/multi-page marker) is
// known.
type sealedPage struct {
	pointCount       int
	uncompressedSize int
	compressedSize   int
	compressed       []byte
	statistics       *Statistics
	crc              uint32
}

// seal finalizes the in-memory page: flushes the encoder's residual bytes,
// packages them with the nullability bitmap into a self-delimiting
// payload, compresses it, and resets the page for reuse. It is a no-op
// returning (sealedPage{}, false, nil) if the page is empty.
func (p *PageBuffer) seal(compressor Compressor, computeCRC bool) (sealedPage, bool, error) {
	if p.IsEmpty() {
		return sealedPage{}, false, nil
	}
	payload := p.serializePayload()
	compressed, err := compressor.Compress(payload)
	if err != nil {
		return sealedPage{}, false, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	sp := sealedPage{
		pointCount:       p.count,
		uncompressedSize: len(payload),
		compressedSize:   len(compressed),
		compressed:       compressed,
		statistics:       p.copyStatistics(),
	}
	if computeCRC {
		sp.crc = crc32Of(compressed)
	}
	p.reset()
	return sp, true, nil
}

// serializePayload packages the page's point count, an optional
// length-prefixed time stream (only for a page that owns its own
// timestamps), the length-prefixed nullability bitmap, and the value
// stream, into one self-delimiting buffer ready for compression.
func (p *PageBuffer) serializePayload() []byte {
	bitmapBytes := p.bitmap.bytes()
	encoded := p.encoder.Flush()
	buf, _ := putUvarint(nil, uint64(p.count))
	if p.timeEncoder != nil {
		timeBytes := p.timeEncoder.Flush()
		buf, _ = putUvarint(buf, uint64(len(timeBytes)))
		buf = append(buf, timeBytes...)
	}
	buf, _ = putUvarint(buf, uint64(len(bitmapBytes)))
	buf = append(buf, bitmapBytes...)
	buf = append(buf, encoded...)
	return buf
}

func (p *PageBuffer) copyStatistics() *Statistics {
	s := *p.stats
	s.FirstBytes = append([]byte(nil), p.stats.FirstBytes...)
	s.LastBytes = append([]byte(nil), p.stats.LastBytes...)
	return &s
}

func (p *PageBuffer) reset() {
	p.encoder.Reset()
	if p.timeEncoder != nil {
		p.timeEncoder.Reset()
	}
	p.bitmap.reset()
	p.stats = NewStatistics(p.dataType)
	p.count = 0
}
