package tsfile

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	gorillaLeadingBits = 6
	gorillaLengthBits  = 6
)

// gorillaEncoder implements the XOR-of-previous-value float compression
// scheme: each value is XORed against the previous one, and the run of
// leading/trailing zero bits in the XOR is reused across consecutive
// values whenever it still covers the new value's meaningful bits.
type gorillaEncoder struct {
	t     DataType
	width uint

	w      bitWriter
	first  bool
	prev   uint64
	leadPW int // previous block's leading-zero count, -1 until set
	trailW int
}

func newGorillaEncoder(t DataType) *gorillaEncoder {
	width := uint(64)
	if t == FLOAT {
		width = 32
	}
	return &gorillaEncoder{t: t, width: width, first: true, leadPW: -1}
}

func (e *gorillaEncoder) bitsOf(v Value) (uint64, error) {
	switch e.t {
	case FLOAT:
		return uint64(math.Float32bits(v.F32)), nil
	case DOUBLE:
		return math.Float64bits(v.F64), nil
	default:
		return 0, fmt.Errorf("%w: GORILLA cannot handle %s", ErrEncodingFailure, e.t)
	}
}

func (e *gorillaEncoder) Encode(v Value) error {
	x, err := e.bitsOf(v)
	if err != nil {
		return err
	}
	if e.first {
		e.w.writeBits(x, e.width)
		e.first = false
		e.prev = x
		return nil
	}
	xor := x ^ e.prev
	if xor == 0 {
		e.w.writeBit(false)
		e.prev = x
		return nil
	}
	leading := uint(bits.LeadingZeros64(xor)) - (64 - e.width)
	trailing := uint(bits.TrailingZeros64(xor))
	if trailing > e.width {
		trailing = e.width
	}
	if e.leadPW >= 0 && int(leading) >= e.leadPW && int(trailing) >= e.trailW {
		e.w.writeBit(true)
		e.w.writeBit(false)
		length := e.width - uint(e.leadPW) - uint(e.trailW)
		e.w.writeBits(xor>>uint(e.trailW), length)
	} else {
		e.w.writeBit(true)
		e.w.writeBit(true)
		e.w.writeBits(uint64(leading), gorillaLeadingBits)
		length := e.width - leading - trailing
		e.w.writeBits(uint64(length-1), gorillaLengthBits)
		e.w.writeBits(xor>>trailing, length)
		e.leadPW = int(leading)
		e.trailW = int(trailing)
	}
	e.prev = x
	return nil
}

func (e *gorillaEncoder) TailBytes() int {
	return (e.w.bitLen() + 7) / 8
}

func (e *gorillaEncoder) Flush() []byte {
	out := e.w.bytes()
	e.w = bitWriter{}
	e.first = true
	e.leadPW = -1
	e.trailW = 0
	e.prev = 0
	return out
}

func (e *gorillaEncoder) Reset() {
	e.w = bitWriter{}
	e.first = true
	e.leadPW = -1
	e.trailW = 0
	e.prev = 0
}

type gorillaDecoder struct {
	t     DataType
	width uint
}

func newGorillaDecoder(t DataType) *gorillaDecoder {
	width := uint(64)
	if t == FLOAT {
		width = 32
	}
	return &gorillaDecoder{t: t, width: width}
}

func (d *gorillaDecoder) Decode(data []byte, n int) ([]Value, error) {
	if n == 0 {
		return nil, nil
	}
	r := newBitReader(data)
	out := make([]Value, 0, n)
	var prev uint64
	leadPW, trailW := -1, 0
	for i := 0; i < n; i++ {
		if i == 0 {
			x, err := r.readBits(d.width)
			if err != nil {
				return nil, err
			}
			prev = x
			out = append(out, d.value(x))
			continue
		}
		zeroBit, err := r.readBit()
		if err != nil {
			return nil, err
		}
		if !zeroBit {
			out = append(out, d.value(prev))
			continue
		}
		controlBit, err := r.readBit()
		if err != nil {
			return nil, err
		}
		var length uint
		if !controlBit {
			if leadPW < 0 {
				return nil, ErrPageFailure
			}
			length = d.width - uint(leadPW) - uint(trailW)
		} else {
			leading, err := r.readBits(gorillaLeadingBits)
			if err != nil {
				return nil, err
			}
			lenMinus1, err := r.readBits(gorillaLengthBits)
			if err != nil {
				return nil, err
			}
			length = uint(lenMinus1) + 1
			leadPW = int(leading)
			trailW = int(d.width) - leadPW - int(length)
		}
		meaningful, err := r.readBits(length)
		if err != nil {
			return nil, err
		}
		xor := meaningful << uint(trailW)
		x := prev ^ xor
		prev = x
		out = append(out, d.value(x))
	}
	return out, nil
}

func (d *gorillaDecoder) value(x uint64) Value {
	if d.t == FLOAT {
		return FloatValue(math.Float32frombits(uint32(x)))
	}
	return DoubleValue(math.Float64frombits(x))
}
