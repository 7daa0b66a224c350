package tsfile

import "fmt"

type rleRun struct {
	length uint64
	value  uint64 // for BOOLEAN: 0/1; for INT32: zigzag-encoded
}

// rleEncoder stores runs of equal consecutive values as a run count
// followed by (run length, value) pairs, each an unsigned varint; an INT32
// value is zigzag-mapped first, a BOOLEAN value is 0 or 1. Suited to
// BOOLEAN and low-cardinality INT32 columns.
type rleEncoder struct {
	t         DataType
	runs      []rleRun
	hasOpen   bool
	openValue uint64
	openLen   uint64
}

func newRLEEncoder(t DataType) *rleEncoder {
	return &rleEncoder{t: t}
}

func (e *rleEncoder) rawOf(v Value) (uint64, error) {
	switch e.t {
	case BOOLEAN:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case INT32:
		return uint64(zigzagEncode32(v.I32)), nil
	default:
		return 0, fmt.Errorf("%w: RLE cannot handle %s", ErrEncodingFailure, e.t)
	}
}

func (e *rleEncoder) Encode(v Value) error {
	raw, err := e.rawOf(v)
	if err != nil {
		return err
	}
	if e.hasOpen && raw == e.openValue {
		e.openLen++
		return nil
	}
	e.closeRun()
	e.hasOpen = true
	e.openValue = raw
	e.openLen = 1
	return nil
}

func (e *rleEncoder) closeRun() {
	if e.hasOpen {
		e.runs = append(e.runs, rleRun{length: e.openLen, value: e.openValue})
		e.hasOpen = false
	}
}

func (e *rleEncoder) serializedLen() int {
	runCount := len(e.runs)
	if e.hasOpen {
		runCount++
	}
	n := varintLen(uint64(runCount))
	for _, r := range e.runs {
		n += varintLen(r.length) + varintLen(r.value)
	}
	if e.hasOpen {
		n += varintLen(e.openLen) + varintLen(e.openValue)
	}
	return n
}

func (e *rleEncoder) TailBytes() int { return e.serializedLen() }

func (e *rleEncoder) Flush() []byte {
	e.closeRun()
	buf := make([]byte, 0, e.serializedLen())
	buf, _ = putUvarint(buf, uint64(len(e.runs)))
	for _, r := range e.runs {
		buf, _ = putUvarint(buf, r.length)
		buf, _ = putUvarint(buf, r.value)
	}
	e.runs = nil
	return buf
}

func (e *rleEncoder) Reset() {
	e.runs = nil
	e.hasOpen = false
	e.openLen = 0
	e.openValue = 0
}

type rleDecoder struct{ t DataType }

func newRLEDecoder(t DataType) *rleDecoder { return &rleDecoder{t: t} }

func (d *rleDecoder) Decode(data []byte, n int) ([]Value, error) {
	out := make([]Value, 0, n)
	runCount, offset, err := readUvarint(data, 0)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < runCount && len(out) < n; i++ {
		var length, raw uint64
		length, offset, err = readUvarint(data, offset)
		if err != nil {
			return nil, err
		}
		raw, offset, err = readUvarint(data, offset)
		if err != nil {
			return nil, err
		}
		var v Value
		switch d.t {
		case BOOLEAN:
			v = BoolValue(raw != 0)
		case INT32:
			v = Int32Value(zigzagDecode32(uint32(raw)))
		default:
			return nil, fmt.Errorf("%w: RLE cannot handle %s", ErrPageFailure, d.t)
		}
		for j := uint64(0); j < length; j++ {
			out = append(out, v)
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: RLE run lengths summed to %d, expected %d", ErrPageFailure, len(out), n)
	}
	return out, nil
}
