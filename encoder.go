package tsfile

import "fmt"

// Encoder is the narrow capability set an encoding algorithm exposes to a
// page buffer: encode one present value, report how many bytes are
// currently held but not yet flushed (used by the page-size policy), and
// flush the residual into a final byte sequence when the page seals.
//
// Encoders never see null values: nulls are carried only in the page's
// nullability bitmap, and the page buffer skips the encoder entirely for
// null positions.
type Encoder interface {
	Encode(v Value) error
	TailBytes() int
	Flush() []byte
	Reset()
}

// Decoder is the read-side counterpart used only by this package's own
// tests to verify round-trips; it is not a public reading API. Reading
// back a written file is handled by a separate component, out of scope
// here.
type Decoder interface {
	// Decode returns the next n present values decoded from data.
	Decode(data []byte, n int) ([]Value, error)
}

// NewEncoder returns the encoder for the given (type, encoding) pair.
func NewEncoder(t DataType, kind EncodingKind) (Encoder, error) {
	st := t.storageType()
	switch kind {
	case PLAIN:
		return newPlainEncoder(st), nil
	case TS_2DIFF:
		if !st.isNumeric() || st == FLOAT || st == DOUBLE {
			return nil, fmt.Errorf("%w: TS_2DIFF does not support %s", ErrEncodingFailure, t)
		}
		return newTS2DiffEncoder(st), nil
	case RLE:
		if st != BOOLEAN && st != INT32 {
			return nil, fmt.Errorf("%w: RLE does not support %s", ErrEncodingFailure, t)
		}
		return newRLEEncoder(st), nil
	case GORILLA:
		if st != FLOAT && st != DOUBLE {
			return nil, fmt.Errorf("%w: GORILLA does not support %s", ErrEncodingFailure, t)
		}
		return newGorillaEncoder(st), nil
	case DICTIONARY:
		if st != TEXT && st != STRING {
			return nil, fmt.Errorf("%w: DICTIONARY does not support %s", ErrEncodingFailure, t)
		}
		return newDictionaryEncoder(st), nil
	case ZIGZAG:
		if !st.isNumeric() || st == FLOAT || st == DOUBLE {
			return nil, fmt.Errorf("%w: ZIGZAG does not support %s", ErrEncodingFailure, t)
		}
		return newZigzagEncoder(st), nil
	default:
		return nil, fmt.Errorf("%w: unrecognized encoding %s", ErrEncodingFailure, kind)
	}
}

// NewDecoder returns the test-only decoder for the given (type, encoding)
// pair.
func NewDecoder(t DataType, kind EncodingKind) (Decoder, error) {
	st := t.storageType()
	switch kind {
	case PLAIN:
		return newPlainDecoder(st), nil
	case TS_2DIFF:
		return newTS2DiffDecoder(st), nil
	case RLE:
		return newRLEDecoder(st), nil
	case GORILLA:
		return newGorillaDecoder(st), nil
	case DICTIONARY:
		return newDictionaryDecoder(st), nil
	case ZIGZAG:
		return newZigzagDecoder(st), nil
	default:
		return nil, fmt.Errorf("%w: unrecognized encoding %s", ErrEncodingFailure, kind)
	}
}
