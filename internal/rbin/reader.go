package rbin

import (
	"encoding/binary"
	"math"

	"github.com/switchtools/bgpak/bgerr"
)

// Reader is an endian-tagged cursor over a borrowed byte slice. The
// endianness is captured once at construction (usually decoded from a BOM
// or magic byte earlier in the stream) and applied to every fixed-width
// read. Reader never copies the input; slices it returns alias the backing
// array.
type Reader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

// NewReader wraps data for endian-aware reading. It does not copy data.
func NewReader(data []byte, order binary.ByteOrder) *Reader {
	return &Reader{data: data, order: order}
}

// Order returns the byte order this reader was constructed with.
func (r *Reader) Order() binary.ByteOrder { return r.order }

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int { return len(r.data) }

// Pos returns the current read cursor.
func (r *Reader) Pos() int { return r.pos }

// Bytes returns the full underlying buffer, unmodified.
func (r *Reader) Bytes() []byte { return r.data }

// SeekTo moves the cursor to an absolute offset. It is valid to seek to
// len(data) (one past the end, for zero-length reads) but not beyond.
func (r *Reader) SeekTo(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return &bgerr.InsufficientDataError{Have: len(r.data), Need: pos}
	}
	r.pos = pos
	return nil
}

func (r *Reader) require(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return &bgerr.InsufficientDataError{Have: len(r.data) - r.pos, Need: n}
	}
	return nil
}

// ReadBytes reads n bytes at the current position and advances the cursor.
// The returned slice aliases the reader's backing array.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// SliceAt returns [start, end) of the backing buffer without touching the
// cursor, validating that both bounds fall within the buffer.
func (r *Reader) SliceAt(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(r.data) {
		return nil, &bgerr.InsufficientDataError{Have: len(r.data), Need: end}
	}
	return r.data[start:end], nil
}

// ReadU8 reads an unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadU24 reads an unsigned 24-bit integer, as used by AAMP's packed
// offset/scale fields.
func (r *Reader) ReadU24() (uint32, error) {
	b, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	return ReadU24(b, r.order), nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadU64 reads an unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadI64 reads a signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE-754 single precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE-754 double precision float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadU32At reads a u32 at an absolute offset without disturbing the
// cursor.
func (r *Reader) ReadU32At(offset int) (uint32, error) {
	b, err := r.SliceAt(offset, offset+4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadU16At reads a u16 at an absolute offset without disturbing the
// cursor.
func (r *Reader) ReadU16At(offset int) (uint16, error) {
	b, err := r.SliceAt(offset, offset+2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadU64At reads a u64 at an absolute offset without disturbing the
// cursor.
func (r *Reader) ReadU64At(offset int) (uint64, error) {
	b, err := r.SliceAt(offset, offset+8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// NulTerminatedStringAt decodes a NUL-terminated UTF-8 run starting at
// offset. It returns InvalidDataError if no NUL byte is found before the
// end of the buffer.
func (r *Reader) NulTerminatedStringAt(offset int) (string, error) {
	if offset < 0 || offset > len(r.data) {
		return "", &bgerr.InsufficientDataError{Have: len(r.data), Need: offset}
	}
	end := offset
	for end < len(r.data) && r.data[end] != 0 {
		end++
	}
	if end == len(r.data) {
		return "", bgerr.NewInvalidData("unterminated string at offset %d", offset)
	}
	return string(r.data[offset:end]), nil
}
