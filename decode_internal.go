package tsfile

// decodedPage is the result of splitting and decoding one sealed page's
// compressed payload back into its constituent values. It exists only to
// let this package's own tests verify round-trip invariants; it is not a
// public reading API.
type decodedPage struct {
	times  []int64 // nil unless the page carried its own time stream
	values []Value // one entry per point, IsNull set for null positions
}

// decodeSealedPage reverses PageBuffer.seal for one page: decompresses the
// payload, splits out the optional time stream, the nullability bitmap,
// and the value stream, and decodes present values in order.
func decodeSealedPage(p sealedPage, t DataType, encoding EncodingKind, compression CompressionKind, hasOwnTime bool, timeEncoding EncodingKind) (decodedPage, error) {
	compressor, err := NewCompressor(compression)
	if err != nil {
		return decodedPage{}, err
	}
	payload, err := compressor.Decompress(p.compressed, p.uncompressedSize)
	if err != nil {
		return decodedPage{}, err
	}
	count, offset, err := readUvarint(payload, 0)
	if err != nil {
		return decodedPage{}, err
	}
	var times []int64
	if hasOwnTime {
		timeLen, newOffset, err := readUvarint(payload, offset)
		if err != nil {
			return decodedPage{}, err
		}
		offset = newOffset
		timeDecoder, err := NewDecoder(INT64, timeEncoding)
		if err != nil {
			return decodedPage{}, err
		}
		timeValues, err := timeDecoder.Decode(payload[offset:offset+int(timeLen)], int(count))
		if err != nil {
			return decodedPage{}, err
		}
		offset += int(timeLen)
		times = make([]int64, len(timeValues))
		for i, v := range timeValues {
			times[i] = v.I64
		}
	}
	bitmapLen, offset, err := readUvarint(payload, offset)
	if err != nil {
		return decodedPage{}, err
	}
	bitmapBytes := payload[offset : offset+int(bitmapLen)]
	offset += int(bitmapLen)
	bitmap := nullBitmap{bits: bitmapBytes, count: int(count)}
	presentCount := 0
	for i := 0; i < int(count); i++ {
		if !bitmap.isNull(i) {
			presentCount++
		}
	}
	decoder, err := NewDecoder(t, encoding)
	if err != nil {
		return decodedPage{}, err
	}
	presentValues, err := decoder.Decode(payload[offset:], presentCount)
	if err != nil {
		return decodedPage{}, err
	}
	values := make([]Value, count)
	pv := 0
	for i := 0; i < int(count); i++ {
		if bitmap.isNull(i) {
			values[i] = NullValue(t)
		} else {
			values[i] = presentValues[pv]
			pv++
		}
	}
	return decodedPage{times: times, values: values}, nil
}
