package tsfile

import "fmt"

// dictionaryEncoder stores a page-local table of unique byte strings
// followed by a varint index into that table per value, suited to
// low-cardinality TEXT/STRING columns.
type dictionaryEncoder struct {
	t        DataType
	dict     [][]byte
	index    map[string]uint64
	idBuf    []byte
	dictSize int
}

func newDictionaryEncoder(t DataType) *dictionaryEncoder {
	return &dictionaryEncoder{t: t, index: make(map[string]uint64)}
}

func (e *dictionaryEncoder) Encode(v Value) error {
	switch e.t {
	case TEXT, STRING:
	default:
		return fmt.Errorf("%w: DICTIONARY cannot handle %s", ErrEncodingFailure, e.t)
	}
	key := string(v.Bytes)
	id, ok := e.index[key]
	if !ok {
		id = uint64(len(e.dict))
		entry := append([]byte(nil), v.Bytes...)
		e.dict = append(e.dict, entry)
		e.index[key] = id
		e.dictSize += prefixedStringLen(key)
	}
	e.idBuf, _ = putUvarint(e.idBuf, id)
	return nil
}

func (e *dictionaryEncoder) TailBytes() int {
	return varintLen(uint64(len(e.dict))) + e.dictSize + len(e.idBuf)
}

func (e *dictionaryEncoder) Flush() []byte {
	out := make([]byte, 0, e.TailBytes())
	out, _ = putUvarint(out, uint64(len(e.dict)))
	for _, s := range e.dict {
		out, _ = putUvarint(out, uint64(len(s)))
		out = append(out, s...)
	}
	out = append(out, e.idBuf...)
	e.dict = nil
	e.index = make(map[string]uint64)
	e.idBuf = nil
	e.dictSize = 0
	return out
}

func (e *dictionaryEncoder) Reset() {
	e.dict = nil
	e.index = make(map[string]uint64)
	e.idBuf = nil
	e.dictSize = 0
}

type dictionaryDecoder struct{ t DataType }

func newDictionaryDecoder(t DataType) *dictionaryDecoder { return &dictionaryDecoder{t: t} }

func (d *dictionaryDecoder) Decode(data []byte, n int) ([]Value, error) {
	dictLen, offset, err := readUvarint(data, 0)
	if err != nil {
		return nil, err
	}
	dict := make([][]byte, dictLen)
	for i := range dict {
		var s string
		s, offset, err = readPrefixedString(data, offset)
		if err != nil {
			return nil, err
		}
		dict[i] = []byte(s)
	}
	out := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		var id uint64
		id, offset, err = readUvarint(data, offset)
		if err != nil {
			return nil, err
		}
		if id >= uint64(len(dict)) {
			return nil, ErrPageFailure
		}
		out = append(out, BytesValue(d.t, dict[id]))
	}
	return out, nil
}
