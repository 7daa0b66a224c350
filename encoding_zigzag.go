package tsfile

import "fmt"

// zigzagEncoder stores each INT32/INT64 value as a standalone zigzag
// varint, with no delta relationship between consecutive values. It is the
// shared building block TS_2DIFF composes on top of, also selectable on its
// own for columns whose deltas do not compress well.
type zigzagEncoder struct {
	t   DataType
	buf []byte
}

func newZigzagEncoder(t DataType) *zigzagEncoder {
	return &zigzagEncoder{t: t}
}

func (e *zigzagEncoder) Encode(v Value) error {
	switch e.t {
	case INT32:
		e.buf, _ = putUvarint(e.buf, uint64(zigzagEncode32(v.I32)))
	case INT64:
		e.buf, _ = putUvarint(e.buf, zigzagEncode64(v.I64))
	default:
		return fmt.Errorf("%w: ZIGZAG cannot handle %s", ErrEncodingFailure, e.t)
	}
	return nil
}

func (e *zigzagEncoder) TailBytes() int { return len(e.buf) }

func (e *zigzagEncoder) Flush() []byte {
	out := e.buf
	e.buf = nil
	return out
}

func (e *zigzagEncoder) Reset() { e.buf = nil }

type zigzagDecoder struct{ t DataType }

func newZigzagDecoder(t DataType) *zigzagDecoder { return &zigzagDecoder{t: t} }

func (d *zigzagDecoder) Decode(data []byte, n int) ([]Value, error) {
	out := make([]Value, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		raw, newOffset, err := readUvarint(data, offset)
		if err != nil {
			return nil, err
		}
		offset = newOffset
		switch d.t {
		case INT32:
			out = append(out, Int32Value(zigzagDecode32(uint32(raw))))
		case INT64:
			out = append(out, Int64Value(zigzagDecode64(raw)))
		default:
			return nil, fmt.Errorf("%w: ZIGZAG cannot handle %s", ErrPageFailure, d.t)
		}
	}
	return out, nil
}
