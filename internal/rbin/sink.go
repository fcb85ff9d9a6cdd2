package rbin

import (
	"encoding/binary"
	"math"
)

// Sink is the "seekable sink" that spec.md's writer designs assume: an
// in-memory, growable buffer that supports seeking backwards to backpatch a
// header field after later sections have already been emitted. It plays the
// same role the teacher's rpm.Header.ToBinary plays with a bytes.Buffer,
// except our writers genuinely need random-access backpatching (list and
// object headers point forward to children whose size isn't known until
// they're written), so a plain bytes.Buffer isn't enough.
type Sink struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// NewSink creates an empty Sink that encodes fixed-width values in order.
func NewSink(order binary.ByteOrder) *Sink {
	return &Sink{order: order}
}

// Order returns the byte order this sink was constructed with.
func (s *Sink) Order() binary.ByteOrder { return s.order }

// Pos returns the current write cursor.
func (s *Sink) Pos() int { return s.pos }

// Len returns the current extent of the buffer (the high-water mark of any
// write or seek, not the cursor).
func (s *Sink) Len() int { return len(s.buf) }

// Bytes returns the accumulated buffer.
func (s *Sink) Bytes() []byte { return s.buf }

// SeekTo moves the write cursor to an absolute offset, growing the buffer
// with zero bytes if necessary. A Sink never shrinks.
func (s *Sink) SeekTo(pos int) {
	if pos > len(s.buf) {
		s.buf = append(s.buf, make([]byte, pos-len(s.buf))...)
	}
	s.pos = pos
}

func (s *Sink) ensure(n int) {
	need := s.pos + n
	if need > len(s.buf) {
		s.buf = append(s.buf, make([]byte, need-len(s.buf))...)
	}
}

// WriteBytes appends b at the cursor, overwriting any placeholder bytes
// already there, and advances the cursor.
func (s *Sink) WriteBytes(b []byte) {
	s.ensure(len(b))
	copy(s.buf[s.pos:], b)
	s.pos += len(b)
}

// WriteU8 writes a single byte.
func (s *Sink) WriteU8(v uint8) { s.WriteBytes([]byte{v}) }

// WriteU16 writes an unsigned 16-bit integer.
func (s *Sink) WriteU16(v uint16) {
	var b [2]byte
	s.order.PutUint16(b[:], v)
	s.WriteBytes(b[:])
}

// WriteU24 writes the low 24 bits of v.
func (s *Sink) WriteU24(v uint32) {
	var b [3]byte
	WriteU24(b[:], s.order, v)
	s.WriteBytes(b[:])
}

// WriteU32 writes an unsigned 32-bit integer.
func (s *Sink) WriteU32(v uint32) {
	var b [4]byte
	s.order.PutUint32(b[:], v)
	s.WriteBytes(b[:])
}

// WriteU64 writes an unsigned 64-bit integer.
func (s *Sink) WriteU64(v uint64) {
	var b [8]byte
	s.order.PutUint64(b[:], v)
	s.WriteBytes(b[:])
}

// WriteI32 writes a signed 32-bit integer.
func (s *Sink) WriteI32(v int32) { s.WriteU32(uint32(v)) }

// WriteI64 writes a signed 64-bit integer.
func (s *Sink) WriteI64(v int64) { s.WriteU64(uint64(v)) }

// WriteF32 writes an IEEE-754 single precision float.
func (s *Sink) WriteF32(v float32) { s.WriteU32(math.Float32bits(v)) }

// WriteF64 writes an IEEE-754 double precision float.
func (s *Sink) WriteF64(v float64) { s.WriteU64(math.Float64bits(v)) }

// WriteCString writes str followed by a single NUL byte, with no padding.
func (s *Sink) WriteCString(str string) {
	s.WriteBytes([]byte(str))
	s.WriteU8(0)
}

// PadTo writes NUL bytes until the cursor is a multiple of alignment.
func (s *Sink) PadTo(alignment int) {
	for alignment > 0 && s.pos%alignment != 0 {
		s.WriteU8(0)
	}
}

// PutU16At overwrites the u16 at an absolute offset without moving the
// cursor. The offset must already be within the buffer (i.e. a placeholder
// must have been written there first).
func (s *Sink) PutU16At(offset int, v uint16) {
	s.order.PutUint16(s.buf[offset:offset+2], v)
}

// PutU24At overwrites the u24 at an absolute offset without moving the
// cursor.
func (s *Sink) PutU24At(offset int, v uint32) {
	WriteU24(s.buf[offset:offset+3], s.order, v)
}

// PutU32At overwrites the u32 at an absolute offset without moving the
// cursor.
func (s *Sink) PutU32At(offset int, v uint32) {
	s.order.PutUint32(s.buf[offset:offset+4], v)
}
