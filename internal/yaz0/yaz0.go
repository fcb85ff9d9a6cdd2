// Package yaz0 implements decompression of the Yaz0 run-length format used
// as an outer wrapper around SARC, BYML, and AAMP files in this pipeline.
// Yaz0 itself is treated as an external collaborator by spec.md: its only
// contract with this module is the entry-point filter ("if the first four
// bytes are Yaz0, decompress before parsing"). Compression is not needed
// because every operation in this module starts from a plain, already
// materialized byte buffer.
package yaz0

import (
	"encoding/binary"
	"fmt"
)

const headerSize = 16

var magic = [4]byte{'Y', 'a', 'z', '0'}

// MagicError is returned when data does not start with the Yaz0 magic.
type MagicError struct {
	Actual [4]byte
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("yaz0: bad magic %q", e.Actual[:])
}

// InsufficientBufferError is returned when the compressed stream ends
// before the header's declared decompressed size is reached.
type InsufficientBufferError struct {
	Have int
	Need int
}

func (e *InsufficientBufferError) Error() string {
	return fmt.Sprintf("yaz0: insufficient buffer (have %d, need %d)", e.Have, e.Need)
}

// IsCompressed reports whether data begins with the Yaz0 magic.
func IsCompressed(data []byte) bool {
	return len(data) >= 4 && data[0] == magic[0] && data[1] == magic[1] && data[2] == magic[2] && data[3] == magic[3]
}

// MaybeDecompress implements the entry-point filter spec.md describes for
// SARC/BYML/AAMP parsing: if data starts with the Yaz0 magic it is
// decompressed and the result returned; otherwise data is returned
// unchanged.
func MaybeDecompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	return Decompress(data)
}

// Decompress decodes a Yaz0 stream. The header is 16 bytes: magic,
// big-endian u32 decompressed size, and 8 reserved/alignment bytes this
// module does not need to interpret.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		var actual [4]byte
		copy(actual[:], data)
		return nil, &MagicError{Actual: actual}
	}
	if len(data) < headerSize {
		return nil, &InsufficientBufferError{Have: len(data), Need: headerSize}
	}

	decompressedSize := binary.BigEndian.Uint32(data[4:8])
	out := make([]byte, 0, decompressedSize)
	src := data[headerSize:]
	srcPos := 0

	for uint32(len(out)) < decompressedSize {
		if srcPos >= len(src) {
			return nil, &InsufficientBufferError{Have: len(data), Need: headerSize + srcPos + 1}
		}
		groupByte := src[srcPos]
		srcPos++

		for bit := 7; bit >= 0 && uint32(len(out)) < decompressedSize; bit-- {
			if groupByte&(1<<uint(bit)) != 0 {
				// Literal byte.
				if srcPos >= len(src) {
					return nil, &InsufficientBufferError{Have: len(data), Need: headerSize + srcPos + 1}
				}
				out = append(out, src[srcPos])
				srcPos++
				continue
			}

			// Back-reference: two bytes encode distance and (usually)
			// length; a length nibble of 0 means an extra byte follows
			// carrying length-0x12.
			if srcPos+1 >= len(src) {
				return nil, &InsufficientBufferError{Have: len(data), Need: headerSize + srcPos + 2}
			}
			b0, b1 := src[srcPos], src[srcPos+1]
			srcPos += 2

			length := int(b0>>4) + 2
			if b0>>4 == 0 {
				if srcPos >= len(src) {
					return nil, &InsufficientBufferError{Have: len(data), Need: headerSize + srcPos + 1}
				}
				length = int(src[srcPos]) + 0x12
				srcPos++
			}
			dist := int(b0&0xF)<<8 | int(b1)
			dist++

			if dist > len(out) {
				return nil, fmt.Errorf("yaz0: back-reference distance %d exceeds output length %d", dist, len(out))
			}
			copyFrom := len(out) - dist
			for i := 0; i < length && uint32(len(out)) < decompressedSize; i++ {
				out = append(out, out[copyFrom+i])
			}
		}
	}

	return out, nil
}
