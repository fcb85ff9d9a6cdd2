// Package namehash implements the two structural key hashes used by this
// module's container formats: AAMP's plain CRC32 and SARC's polynomial
// rolling hash.
package namehash

import "hash/crc32"

// DefaultSarcMultiplier is the multiplier SARC archives use unless an
// archive-specific one is recorded in the SFAT header.
const DefaultSarcMultiplier uint32 = 0x65

// Aamp hashes a UTF-8 key the way AAMP stores it in a Name field: the
// standard IEEE CRC32 of the raw bytes, with no length prefix.
func Aamp(key string) uint32 {
	return crc32.ChecksumIEEE([]byte(key))
}

// Sarc computes SARC's per-byte rolling hash with the given multiplier,
// wrapping mod 2^32 the way uint32 arithmetic naturally does.
func Sarc(mult uint32, name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*mult + uint32(name[i])
	}
	return h
}
