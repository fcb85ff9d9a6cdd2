// Package aamp implements the Binary Parameter Archive (v2) container: a
// tree of named lists, objects, and typed parameters keyed by 32-bit CRC32
// hashes of their original string names.
package aamp

import (
	"encoding/binary"
	"math"

	"github.com/switchtools/bgpak/bgerr"
	"github.com/switchtools/bgpak/internal/rbin"
)

// ParamType tags the 21 parameter variants AAMP supports.
type ParamType uint8

const (
	TypeBool ParamType = iota
	TypeF32
	TypeInt
	TypeVec2
	TypeVec3
	TypeVec4
	TypeColor
	TypeString32
	TypeString64
	TypeCurve1
	TypeCurve2
	TypeCurve3
	TypeCurve4
	TypeBufferInt
	TypeBufferF32
	TypeString256
	TypeQuat
	TypeU32
	TypeBufferU32
	TypeBufferBinary
	TypeStringRef
)

func (t ParamType) String() string {
	switch t {
	case TypeBool:
		return "Bool"
	case TypeF32:
		return "F32"
	case TypeInt:
		return "Int"
	case TypeVec2:
		return "Vec2"
	case TypeVec3:
		return "Vec3"
	case TypeVec4:
		return "Vec4"
	case TypeColor:
		return "Color"
	case TypeString32:
		return "String32"
	case TypeString64:
		return "String64"
	case TypeCurve1:
		return "Curve1"
	case TypeCurve2:
		return "Curve2"
	case TypeCurve3:
		return "Curve3"
	case TypeCurve4:
		return "Curve4"
	case TypeBufferInt:
		return "BufferInt"
	case TypeBufferF32:
		return "BufferF32"
	case TypeString256:
		return "String256"
	case TypeQuat:
		return "Quat"
	case TypeU32:
		return "U32"
	case TypeBufferU32:
		return "BufferU32"
	case TypeBufferBinary:
		return "BufferBinary"
	case TypeStringRef:
		return "StringRef"
	default:
		return "Unknown"
	}
}

func (t ParamType) isString() bool {
	switch t {
	case TypeString32, TypeString64, TypeString256, TypeStringRef:
		return true
	default:
		return false
	}
}

const canonicalNaN32Bits uint32 = 0x7fc00000

// canonF32 normalizes any NaN to a single bit pattern so that comparing and
// hashing floats by their bits (as canonicalBytes does) is total, per
// spec.md's NaN-canonicalization invariant. Go's == still reports a NaN as
// unequal to itself.
func canonF32(f float32) float32 {
	if f != f {
		return math.Float32frombits(canonicalNaN32Bits)
	}
	return f
}

// Parameter is the tagged union of AAMP leaf values. It is sealed: the only
// implementations are the concrete types in this file.
type Parameter interface {
	Type() ParamType
	// canonicalBytes encodes the parameter's payload (not including its
	// type tag) in little-endian, NaN-canonicalized form, for use as a
	// dedup key in the writer's data section.
	canonicalBytes() []byte
	isParameter()
}

// Bool is a boolean parameter.
type Bool bool

func (Bool) Type() ParamType { return TypeBool }
func (Bool) isParameter()    {}
func (v Bool) canonicalBytes() []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// Int is a signed 32-bit integer parameter.
type Int int32

func (Int) Type() ParamType { return TypeInt }
func (Int) isParameter()    {}
func (v Int) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteI32(int32(v))
	return s.Bytes()
}

// U32 is an unsigned 32-bit integer parameter.
type U32 uint32

func (U32) Type() ParamType { return TypeU32 }
func (U32) isParameter()    {}
func (v U32) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteU32(uint32(v))
	return s.Bytes()
}

// F32 is a single-precision float parameter. Use NewF32 to construct one
// with NaN canonicalized.
type F32 float32

// NewF32 canonicalizes f's NaN representation before wrapping it.
func NewF32(f float32) F32 { return F32(canonF32(f)) }

func (F32) Type() ParamType { return TypeF32 }
func (F32) isParameter()    {}
func (v F32) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteF32(canonF32(float32(v)))
	return s.Bytes()
}

// Vec2 is a 2D float vector parameter.
type Vec2 struct{ X, Y float32 }

func (Vec2) Type() ParamType { return TypeVec2 }
func (Vec2) isParameter()    {}
func (v Vec2) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteF32(canonF32(v.X))
	s.WriteF32(canonF32(v.Y))
	return s.Bytes()
}

// Vec3 is a 3D float vector parameter.
type Vec3 struct{ X, Y, Z float32 }

func (Vec3) Type() ParamType { return TypeVec3 }
func (Vec3) isParameter()    {}
func (v Vec3) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteF32(canonF32(v.X))
	s.WriteF32(canonF32(v.Y))
	s.WriteF32(canonF32(v.Z))
	return s.Bytes()
}

// Vec4 is a 4D float vector parameter.
type Vec4 struct{ X, Y, Z, T float32 }

func (Vec4) Type() ParamType { return TypeVec4 }
func (Vec4) isParameter()    {}
func (v Vec4) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteF32(canonF32(v.X))
	s.WriteF32(canonF32(v.Y))
	s.WriteF32(canonF32(v.Z))
	s.WriteF32(canonF32(v.T))
	return s.Bytes()
}

// Color is an RGBA float color parameter.
type Color struct{ R, G, B, A float32 }

func (Color) Type() ParamType { return TypeColor }
func (Color) isParameter()    {}
func (v Color) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteF32(canonF32(v.R))
	s.WriteF32(canonF32(v.G))
	s.WriteF32(canonF32(v.B))
	s.WriteF32(canonF32(v.A))
	return s.Bytes()
}

// Quat is a quaternion parameter.
type Quat struct{ A, B, C, D float32 }

func (Quat) Type() ParamType { return TypeQuat }
func (Quat) isParameter()    {}
func (v Quat) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	s.WriteF32(canonF32(v.A))
	s.WriteF32(canonF32(v.B))
	s.WriteF32(canonF32(v.C))
	s.WriteF32(canonF32(v.D))
	return s.Bytes()
}

// Curve is a single curve entry: two opaque control words followed by 30
// float samples.
type Curve struct {
	A, B   uint32
	Floats [30]float32
}

func (c Curve) writeTo(s *rbin.Sink) {
	s.WriteU32(c.A)
	s.WriteU32(c.B)
	for _, f := range c.Floats {
		s.WriteF32(canonF32(f))
	}
}

// Curve1 is a fixed-length array of one Curve.
type Curve1 [1]Curve

func (Curve1) Type() ParamType { return TypeCurve1 }
func (Curve1) isParameter()    {}
func (v Curve1) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, c := range v {
		c.writeTo(s)
	}
	return s.Bytes()
}

// Curve2 is a fixed-length array of two Curves.
type Curve2 [2]Curve

func (Curve2) Type() ParamType { return TypeCurve2 }
func (Curve2) isParameter()    {}
func (v Curve2) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, c := range v {
		c.writeTo(s)
	}
	return s.Bytes()
}

// Curve3 is a fixed-length array of three Curves.
type Curve3 [3]Curve

func (Curve3) Type() ParamType { return TypeCurve3 }
func (Curve3) isParameter()    {}
func (v Curve3) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, c := range v {
		c.writeTo(s)
	}
	return s.Bytes()
}

// Curve4 is a fixed-length array of four Curves.
type Curve4 [4]Curve

func (Curve4) Type() ParamType { return TypeCurve4 }
func (Curve4) isParameter()    {}
func (v Curve4) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, c := range v {
		c.writeTo(s)
	}
	return s.Bytes()
}

// String32, String64, and String256 are fixed-capacity, NUL-terminated
// strings; MaxLen is the longest content they can hold (capacity - 1 for
// the terminator).
type (
	String32  string
	String64  string
	String256 string
	// StringRef is a variable-length, NUL-terminated string.
	StringRef string
)

// MaxLen returns the longest content a fixed-capacity string type can hold.
func (String32) MaxLen() int  { return 31 }
func (String64) MaxLen() int  { return 63 }
func (String256) MaxLen() int { return 255 }

func (String32) Type() ParamType  { return TypeString32 }
func (String32) isParameter()     {}
func (v String32) canonicalBytes() []byte { return []byte(string(v)) }

func (String64) Type() ParamType  { return TypeString64 }
func (String64) isParameter()     {}
func (v String64) canonicalBytes() []byte { return []byte(string(v)) }

func (String256) Type() ParamType  { return TypeString256 }
func (String256) isParameter()     {}
func (v String256) canonicalBytes() []byte { return []byte(string(v)) }

func (StringRef) Type() ParamType  { return TypeStringRef }
func (StringRef) isParameter()     {}
func (v StringRef) canonicalBytes() []byte { return []byte(string(v)) }

// ValidateFixedString reports an InvalidDataError if s is too long for a
// fixed-capacity string field (the writer refuses to silently truncate).
func ValidateFixedString(s string, maxLen int) error {
	if len(s) > maxLen {
		return bgerr.NewInvalidData("string %q exceeds maximum length %d for its field", s, maxLen)
	}
	return nil
}

// BufferInt is a variable-length buffer of signed 32-bit integers.
type BufferInt []int32

func (BufferInt) Type() ParamType { return TypeBufferInt }
func (BufferInt) isParameter()    {}
func (v BufferInt) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, x := range v {
		s.WriteI32(x)
	}
	return s.Bytes()
}

// BufferU32 is a variable-length buffer of unsigned 32-bit integers.
type BufferU32 []uint32

func (BufferU32) Type() ParamType { return TypeBufferU32 }
func (BufferU32) isParameter()    {}
func (v BufferU32) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, x := range v {
		s.WriteU32(x)
	}
	return s.Bytes()
}

// BufferF32 is a variable-length buffer of floats.
type BufferF32 []float32

func (BufferF32) Type() ParamType { return TypeBufferF32 }
func (BufferF32) isParameter()    {}
func (v BufferF32) canonicalBytes() []byte {
	s := rbin.NewSink(binary.LittleEndian)
	for _, x := range v {
		s.WriteF32(canonF32(x))
	}
	return s.Bytes()
}

// BufferBinary is a variable-length buffer of raw bytes.
type BufferBinary []byte

func (BufferBinary) Type() ParamType { return TypeBufferBinary }
func (BufferBinary) isParameter()    {}
func (v BufferBinary) canonicalBytes() []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

// isBuffer reports whether t is one of the four length-prefixed buffer
// types, whose data-section payload is preceded by a u32 element count.
func (t ParamType) isBuffer() bool {
	switch t {
	case TypeBufferInt, TypeBufferU32, TypeBufferF32, TypeBufferBinary:
		return true
	default:
		return false
	}
}

// bufferLen returns the element count a buffer-typed parameter's length
// prefix should carry (bytes for BufferBinary, elements otherwise).
func bufferLen(p Parameter) int {
	switch v := p.(type) {
	case BufferInt:
		return len(v)
	case BufferU32:
		return len(v)
	case BufferF32:
		return len(v)
	case BufferBinary:
		return len(v)
	default:
		return 0
	}
}
