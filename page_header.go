package tsfile

import (
	"encoding/binary"
	"math"
)

// PageHeader is the decoded form of one page's header bytes: sizes plus,
// for every page except the only page of a single-page chunk, inline
// statistics and an optional CRC of the compressed payload.
type PageHeader struct {
	UncompressedSize int
	CompressedSize   int
	Statistics       *Statistics // nil when inlined instead in the chunk header
	CRC              uint32
	HasCRC           bool
}

// serializePageHeader builds the header bytes for one page. includeStats is
// false only for the sole page of a single-page chunk, whose statistics are
// inlined in the chunk header instead — duplicating them in the page
// header too would be redundant for a chunk that has nothing else to
// distinguish between pages.
func serializePageHeader(h PageHeader, includeStats bool, includeCRC bool) []byte {
	buf := make([]byte, 0, 32)
	buf, _ = putUvarint(buf, uint64(h.UncompressedSize))
	buf, _ = putUvarint(buf, uint64(h.CompressedSize))
	if includeStats {
		buf = appendStatistics(buf, h.Statistics)
	}
	if includeCRC {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], h.CRC)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// readPageHeader is the test-only inverse of serializePageHeader.
func readPageHeader(buf []byte, offset int, t DataType, includeStats bool, includeCRC bool) (PageHeader, int, error) {
	var h PageHeader
	u, offset, err := readUvarint(buf, offset)
	if err != nil {
		return h, offset, err
	}
	h.UncompressedSize = int(u)
	c, offset, err := readUvarint(buf, offset)
	if err != nil {
		return h, offset, err
	}
	h.CompressedSize = int(c)
	if includeStats {
		stats, newOffset, err := readStatistics(buf, offset, t)
		if err != nil {
			return h, offset, err
		}
		h.Statistics = stats
		offset = newOffset
	}
	if includeCRC {
		if offset+4 > len(buf) {
			return h, offset, ErrPageFailure
		}
		h.CRC = binary.LittleEndian.Uint32(buf[offset:])
		h.HasCRC = true
		offset += 4
	}
	return h, offset, nil
}

func appendStatistics(buf []byte, s *Statistics) []byte {
	if s == nil {
		s = &Statistics{}
	}
	buf, _ = putUvarint(buf, uint64(s.Count))
	switch s.Type {
	case BOOLEAN:
		buf = append(buf, boolByte(s.FirstBool), boolByte(s.LastBool))
	case INT32, INT64:
		buf, _ = putUvarint(buf, zigzagEncode64(s.MinInt64))
		buf, _ = putUvarint(buf, zigzagEncode64(s.MaxInt64))
		buf, _ = putUvarint(buf, zigzagEncode64(s.FirstInt64))
		buf, _ = putUvarint(buf, zigzagEncode64(s.LastInt64))
		buf, _ = putUvarint(buf, zigzagEncode64(s.SumInt64))
	case FLOAT, DOUBLE:
		buf = appendFloat64(buf, s.MinFloat64)
		buf = appendFloat64(buf, s.MaxFloat64)
		buf = appendFloat64(buf, s.FirstFloat64)
		buf = appendFloat64(buf, s.LastFloat64)
		buf = appendFloat64(buf, s.SumFloat64)
	case TEXT, BLOB, STRING:
		buf, _ = putUvarint(buf, uint64(len(s.FirstBytes)))
		buf = append(buf, s.FirstBytes...)
		buf, _ = putUvarint(buf, uint64(len(s.LastBytes)))
		buf = append(buf, s.LastBytes...)
	}
	return buf
}

func readStatistics(buf []byte, offset int, t DataType) (*Statistics, int, error) {
	st := t.storageType()
	s := NewStatistics(st)
	count, offset, err := readUvarint(buf, offset)
	if err != nil {
		return nil, offset, err
	}
	s.Count = int64(count)
	switch st {
	case BOOLEAN:
		if offset+2 > len(buf) {
			return nil, offset, ErrPageFailure
		}
		s.FirstBool = buf[offset] != 0
		s.LastBool = buf[offset+1] != 0
		offset += 2
	case INT32, INT64:
		var vals [5]int64
		for i := range vals {
			var raw uint64
			raw, offset, err = readUvarint(buf, offset)
			if err != nil {
				return nil, offset, err
			}
			vals[i] = zigzagDecode64(raw)
		}
		s.MinInt64, s.MaxInt64, s.FirstInt64, s.LastInt64, s.SumInt64 = vals[0], vals[1], vals[2], vals[3], vals[4]
	case FLOAT, DOUBLE:
		var vals [5]float64
		for i := range vals {
			vals[i], offset, err = readFloat64(buf, offset)
			if err != nil {
				return nil, offset, err
			}
		}
		s.MinFloat64, s.MaxFloat64, s.FirstFloat64, s.LastFloat64, s.SumFloat64 = vals[0], vals[1], vals[2], vals[3], vals[4]
	case TEXT, BLOB, STRING:
		var first, last string
		first, offset, err = readPrefixedString(buf, offset)
		if err != nil {
			return nil, offset, err
		}
		last, offset, err = readPrefixedString(buf, offset)
		if err != nil {
			return nil, offset, err
		}
		s.FirstBytes = []byte(first)
		s.LastBytes = []byte(last)
	}
	return s, offset, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendFloat64(buf []byte, f float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
	return append(buf, tmp[:]...)
}

func readFloat64(buf []byte, offset int) (float64, int, error) {
	if offset+8 > len(buf) {
		return 0, offset, ErrPageFailure
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(buf[offset:]))
	return v, offset + 8, nil
}

func statisticsSerializedLen(s *Statistics) int {
	return len(appendStatistics(nil, s))
}
