// Package byml implements the Binary YAML container: a typed tree whose
// interior nodes are arrays or string-keyed hashes and whose leaves are
// scalars, in versions 2 through 4 and either byte order.
package byml

import "math"

// NodeType is BYML's on-disk type tag. Values are bit-exact with the
// reference format; do not renumber them.
type NodeType uint8

const (
	TypeString      NodeType = 0xa0
	TypeBinary      NodeType = 0xa1
	TypeArray       NodeType = 0xc0
	TypeHash        NodeType = 0xc1
	TypeStringTable NodeType = 0xc2
	TypeBool        NodeType = 0xd0
	TypeI32         NodeType = 0xd1
	TypeFloat       NodeType = 0xd2
	TypeU32         NodeType = 0xd3
	TypeI64         NodeType = 0xd4
	TypeU64         NodeType = 0xd5
	TypeDouble      NodeType = 0xd6
	TypeNull        NodeType = 0xff
)

// IsInline reports whether a node of this type fits in a 32-bit slot
// directly, as opposed to being stored behind a pointer.
func (t NodeType) IsInline() bool {
	switch t {
	case TypeString, TypeBool, TypeI32, TypeU32, TypeFloat, TypeNull:
		return true
	default:
		return false
	}
}

// Byml is the tagged union of BYML tree nodes. Array, Hash, BinaryData, I64,
// U64, and Double are pointer types: the writer's dedup pass keys off
// pointer identity for these "non-inline" kinds, exactly as the reference
// implementation keys off node identity.
type Byml interface {
	Type() NodeType
	isByml()
}

const canonicalNaN32Bits uint32 = 0x7fc00000
const canonicalNaN64Bits uint64 = 0x7ff8000000000000

func canonF32(f float32) float32 {
	if f != f {
		return math.Float32frombits(canonicalNaN32Bits)
	}
	return f
}

func canonF64(f float64) float64 {
	if f != f {
		return math.Float64frombits(canonicalNaN64Bits)
	}
	return f
}

// String is an inline UTF-8 string, stored by index into the string table.
type String string

func (String) Type() NodeType { return TypeString }
func (String) isByml()        {}

// BinaryData is a non-inline length-prefixed byte blob.
type BinaryData struct{ Bytes []byte }

// NewBinaryData wraps b (copying it) in a fresh, uniquely-identified node.
func NewBinaryData(b []byte) *BinaryData {
	out := make([]byte, len(b))
	copy(out, b)
	return &BinaryData{Bytes: out}
}

func (*BinaryData) Type() NodeType { return TypeBinary }
func (*BinaryData) isByml()        {}

// Array is a non-inline ordered sequence of nodes.
type Array struct{ Items []Byml }

// NewArray wraps items in a fresh node.
func NewArray(items ...Byml) *Array { return &Array{Items: items} }

func (*Array) Type() NodeType { return TypeArray }
func (*Array) isByml()        {}

// Hash is a non-inline string-keyed mapping. Key order is not significant;
// the writer sorts keys lexicographically on emission, matching the
// reference format's hash-key table ordering.
type Hash struct{ Entries map[string]Byml }

// NewHash returns an empty hash node.
func NewHash() *Hash { return &Hash{Entries: make(map[string]Byml)} }

// Set inserts or replaces the value at key.
func (h *Hash) Set(key string, v Byml) { h.Entries[key] = v }

// Get looks up a value by key.
func (h *Hash) Get(key string) (Byml, bool) {
	v, ok := h.Entries[key]
	return v, ok
}

func (*Hash) Type() NodeType { return TypeHash }
func (*Hash) isByml()        {}

// Bool is an inline boolean.
type Bool bool

func (Bool) Type() NodeType { return TypeBool }
func (Bool) isByml()        {}

// I32 is an inline signed 32-bit integer.
type I32 int32

func (I32) Type() NodeType { return TypeI32 }
func (I32) isByml()        {}

// U32 is an inline unsigned 32-bit integer.
type U32 uint32

func (U32) Type() NodeType { return TypeU32 }
func (U32) isByml()        {}

// Float is an inline single-precision float. Use NewFloat to canonicalize
// NaN on construction.
type Float float32

// NewFloat canonicalizes f's NaN representation before wrapping it.
func NewFloat(f float32) Float { return Float(canonF32(f)) }

func (Float) Type() NodeType { return TypeFloat }
func (Float) isByml()        {}

// I64 is a non-inline signed 64-bit integer.
type I64 struct{ Value int64 }

// NewI64 wraps v in a fresh node.
func NewI64(v int64) *I64 { return &I64{Value: v} }

func (*I64) Type() NodeType { return TypeI64 }
func (*I64) isByml()        {}

// U64 is a non-inline unsigned 64-bit integer.
type U64 struct{ Value uint64 }

// NewU64 wraps v in a fresh node.
func NewU64(v uint64) *U64 { return &U64{Value: v} }

func (*U64) Type() NodeType { return TypeU64 }
func (*U64) isByml()        {}

// Double is a non-inline double-precision float.
type Double struct{ Value float64 }

// NewDouble canonicalizes v's NaN representation before wrapping it in a
// fresh node.
func NewDouble(v float64) *Double { return &Double{Value: canonF64(v)} }

func (*Double) Type() NodeType { return TypeDouble }
func (*Double) isByml()        {}

// Null is the inline absence of a value, and also the result of parsing an
// empty document (root offset 0).
type Null struct{}

func (Null) Type() NodeType { return TypeNull }
func (Null) isByml()        {}
