package tsfile

import "fmt"

// ts2DiffEncoder stores delta-of-delta residuals: the first value raw
// (zigzag varint), the second value's delta, and thereafter the delta of
// consecutive deltas, each zigzag-varint encoded. This is the default time
// encoding and is also usable for INT32/INT64 value columns.
type ts2DiffEncoder struct {
	t         DataType
	buf       []byte
	count     int
	prevValue int64
	prevDelta int64
}

func newTS2DiffEncoder(t DataType) *ts2DiffEncoder {
	return &ts2DiffEncoder{t: t}
}

func (e *ts2DiffEncoder) valueOf(v Value) (int64, error) {
	switch e.t {
	case INT32:
		return int64(v.I32), nil
	case INT64:
		return v.I64, nil
	default:
		return 0, fmt.Errorf("%w: TS_2DIFF cannot handle %s", ErrEncodingFailure, e.t)
	}
}

func (e *ts2DiffEncoder) Encode(v Value) error {
	x, err := e.valueOf(v)
	if err != nil {
		return err
	}
	switch e.count {
	case 0:
		e.buf, _ = putUvarint(e.buf, zigzagEncode64(x))
	case 1:
		delta := x - e.prevValue
		e.buf, _ = putUvarint(e.buf, zigzagEncode64(delta))
		e.prevDelta = delta
	default:
		delta := x - e.prevValue
		e.buf, _ = putUvarint(e.buf, zigzagEncode64(delta-e.prevDelta))
		e.prevDelta = delta
	}
	e.prevValue = x
	e.count++
	return nil
}

func (e *ts2DiffEncoder) TailBytes() int { return len(e.buf) }

func (e *ts2DiffEncoder) Flush() []byte {
	out := e.buf
	e.buf = nil
	return out
}

func (e *ts2DiffEncoder) Reset() {
	e.buf = nil
	e.count = 0
	e.prevValue = 0
	e.prevDelta = 0
}

type ts2DiffDecoder struct{ t DataType }

func newTS2DiffDecoder(t DataType) *ts2DiffDecoder { return &ts2DiffDecoder{t: t} }

func (d *ts2DiffDecoder) Decode(data []byte, n int) ([]Value, error) {
	out := make([]Value, 0, n)
	offset := 0
	var prevValue, prevDelta int64
	for i := 0; i < n; i++ {
		raw, newOffset, err := readUvarint(data, offset)
		if err != nil {
			return nil, err
		}
		offset = newOffset
		decoded := zigzagDecode64(raw)
		var x int64
		switch i {
		case 0:
			x = decoded
		case 1:
			prevDelta = decoded
			x = prevValue + decoded
		default:
			prevDelta = prevDelta + decoded
			x = prevValue + prevDelta
		}
		prevValue = x
		switch d.t {
		case INT32:
			out = append(out, Int32Value(int32(x)))
		case INT64:
			out = append(out, Int64Value(x))
		default:
			return nil, fmt.Errorf("%w: TS_2DIFF cannot handle %s", ErrPageFailure, d.t)
		}
	}
	return out, nil
}
