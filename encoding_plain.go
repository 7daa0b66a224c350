package tsfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// plainEncoder stores each value at its natural width: fixed-size for
// numeric/bool types, varint-length-prefixed for TEXT/BLOB/STRING.
type plainEncoder struct {
	t   DataType
	buf []byte
}

func newPlainEncoder(t DataType) *plainEncoder {
	return &plainEncoder{t: t}
}

func (e *plainEncoder) Encode(v Value) error {
	switch e.t {
	case BOOLEAN:
		if v.Bool {
			e.buf = append(e.buf, 1)
		} else {
			e.buf = append(e.buf, 0)
		}
	case INT32:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v.I32))
		e.buf = append(e.buf, tmp[:]...)
	case INT64:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(v.I64))
		e.buf = append(e.buf, tmp[:]...)
	case FLOAT:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v.F32))
		e.buf = append(e.buf, tmp[:]...)
	case DOUBLE:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v.F64))
		e.buf = append(e.buf, tmp[:]...)
	case TEXT, BLOB, STRING:
		e.buf, _ = putUvarint(e.buf, uint64(len(v.Bytes)))
		e.buf = append(e.buf, v.Bytes...)
	default:
		return fmt.Errorf("%w: plain encoder cannot handle %s", ErrEncodingFailure, e.t)
	}
	return nil
}

func (e *plainEncoder) TailBytes() int { return len(e.buf) }

func (e *plainEncoder) Flush() []byte {
	out := e.buf
	e.buf = nil
	return out
}

func (e *plainEncoder) Reset() { e.buf = nil }

type plainDecoder struct{ t DataType }

func newPlainDecoder(t DataType) *plainDecoder { return &plainDecoder{t: t} }

func (d *plainDecoder) Decode(data []byte, n int) ([]Value, error) {
	out := make([]Value, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		switch d.t {
		case BOOLEAN:
			if offset >= len(data) {
				return nil, ErrPageFailure
			}
			out = append(out, BoolValue(data[offset] != 0))
			offset++
		case INT32:
			if offset+4 > len(data) {
				return nil, ErrPageFailure
			}
			out = append(out, Int32Value(int32(binary.LittleEndian.Uint32(data[offset:]))))
			offset += 4
		case INT64:
			if offset+8 > len(data) {
				return nil, ErrPageFailure
			}
			out = append(out, Int64Value(int64(binary.LittleEndian.Uint64(data[offset:]))))
			offset += 8
		case FLOAT:
			if offset+4 > len(data) {
				return nil, ErrPageFailure
			}
			out = append(out, FloatValue(math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))))
			offset += 4
		case DOUBLE:
			if offset+8 > len(data) {
				return nil, ErrPageFailure
			}
			out = append(out, DoubleValue(math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))))
			offset += 8
		case TEXT, BLOB, STRING:
			var s string
			var err error
			s, offset, err = readPrefixedString(data, offset)
			if err != nil {
				return nil, err
			}
			out = append(out, BytesValue(d.t, []byte(s)))
		default:
			return nil, fmt.Errorf("%w: plain decoder cannot handle %s", ErrPageFailure, d.t)
		}
	}
	return out, nil
}
