package tsfile

import "encoding/binary"

// putUvarint appends an unsigned varint to buf, growing it if needed, and
// returns the resulting slice along with the number of bytes written.
func putUvarint(buf []byte, x uint64) ([]byte, int) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], x)
	return append(buf, scratch[:n]...), n
}

// putVarintInto writes an unsigned varint starting at buf[offset:], which
// must have enough capacity, and returns the new offset.
func putVarintInto(buf []byte, offset int, x uint64) int {
	n := binary.PutUvarint(buf[offset:], x)
	return offset + n
}

func varintLen(x uint64) int {
	var scratch [binary.MaxVarintLen64]byte
	return binary.PutUvarint(scratch[:], x)
}

func putPrefixedString(buf []byte, offset int, s string) int {
	offset = putVarintInto(buf, offset, uint64(len(s)))
	offset += copy(buf[offset:], s)
	return offset
}

func prefixedStringLen(s string) int {
	return varintLen(uint64(len(s))) + len(s)
}

func readUvarint(buf []byte, offset int) (uint64, int, error) {
	x, n := binary.Uvarint(buf[offset:])
	if n <= 0 {
		return 0, offset, ErrPageFailure
	}
	return x, offset + n, nil
}

func readPrefixedString(buf []byte, offset int) (string, int, error) {
	n, offset, err := readUvarint(buf, offset)
	if err != nil {
		return "", offset, err
	}
	end := offset + int(n)
	if end > len(buf) {
		return "", offset, ErrPageFailure
	}
	return string(buf[offset:end]), end, nil
}

func zigzagEncode32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func zigzagDecode32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

func zigzagEncode64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
