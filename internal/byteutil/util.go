package byteutil

import "encoding/binary"

// EncodeInt64ToBytes renders id as a fixed-width big-endian key so bbolt
// keeps entries in numeric order.
func EncodeInt64ToBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// DecodeInt64FromBytes reverses EncodeInt64ToBytes.
func DecodeInt64FromBytes(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
