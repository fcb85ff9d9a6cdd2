package byml

import (
	"encoding/binary"
	"math"

	"github.com/switchtools/bgpak/bgerr"
	"github.com/switchtools/bgpak/internal/rbin"
	"github.com/switchtools/bgpak/internal/yaz0"
)

const headerSize = 0x10

// Parse decodes a complete BYML document. data may be Yaz0-compressed; it
// is decompressed transparently before parsing. Endianness is detected from
// the two-byte magic ("BY" big, "YB" little).
func Parse(data []byte) (Byml, error) {
	raw, err := yaz0.MaybeDecompress(data)
	if err != nil {
		return nil, err
	}
	data = raw

	if len(data) < headerSize {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: headerSize}
	}

	var order binary.ByteOrder
	switch {
	case data[0] == 'B' && data[1] == 'Y':
		order = binary.BigEndian
	case data[0] == 'Y' && data[1] == 'B':
		order = binary.LittleEndian
	default:
		return nil, &bgerr.InvalidMagicError{Actual: append([]byte(nil), data[:2]...), Expected: []byte("BY/YB")}
	}

	r := rbin.NewReader(data, order)
	version, err := r.ReadU16At(2)
	if err != nil {
		return nil, err
	}
	if version < 2 || version > 4 {
		return nil, &bgerr.InvalidVersionError{Version: version}
	}
	hashKeyTableOffset, err := r.ReadU32At(4)
	if err != nil {
		return nil, err
	}
	stringTableOffset, err := r.ReadU32At(8)
	if err != nil {
		return nil, err
	}
	rootNodeOffset, err := r.ReadU32At(12)
	if err != nil {
		return nil, err
	}

	if rootNodeOffset == 0 {
		return Null{}, nil
	}

	p := &parser{r: r}

	if hashKeyTableOffset != 0 {
		p.hashKeys, err = p.parseStringTable(int(hashKeyTableOffset))
		if err != nil {
			return nil, err
		}
	}
	if stringTableOffset != 0 {
		p.strings, err = p.parseStringTable(int(stringTableOffset))
		if err != nil {
			return nil, err
		}
	}

	return p.parseContainer(int(rootNodeOffset))
}

type parser struct {
	r        *rbin.Reader
	hashKeys []string
	strings  []string
}

func (p *parser) typeAt(off int) (NodeType, error) {
	b, err := p.r.SliceAt(off, off+1)
	if err != nil {
		return 0, err
	}
	return NodeType(b[0]), nil
}

func (p *parser) u24At(off int) (uint32, error) {
	b, err := p.r.SliceAt(off, off+3)
	if err != nil {
		return 0, err
	}
	return rbin.ReadU24(b, p.r.Order()), nil
}

// parseStringTable decodes a 0xc2-tagged table shared by the hash-key and
// string tables: a u24 entry count followed by n+1 offsets relative to the
// table's own start, each pair bounding a NUL-terminated run.
func (p *parser) parseStringTable(off int) ([]string, error) {
	typ, err := p.typeAt(off)
	if err != nil {
		return nil, err
	}
	if typ != TypeStringTable {
		return nil, bgerr.NewInvalidData("expected string table (0xc2) at offset %d, found 0x%02x", off, typ)
	}
	n, err := p.u24At(off + 1)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := 0; i < int(n); i++ {
		entryOff, err := p.r.ReadU32At(off + 4 + i*4)
		if err != nil {
			return nil, err
		}
		s, err := p.r.NulTerminatedStringAt(off + int(entryOff))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (p *parser) parseContainer(off int) (Byml, error) {
	typ, err := p.typeAt(off)
	if err != nil {
		return nil, err
	}
	switch typ {
	case TypeArray:
		return p.parseArray(off)
	case TypeHash:
		return p.parseHash(off)
	default:
		return nil, bgerr.NewInvalidData("expected array (0xc0) or hash (0xc1) container at offset %d, found 0x%02x", off, typ)
	}
}

func (p *parser) parseArray(off int) (Byml, error) {
	n, err := p.u24At(off + 1)
	if err != nil {
		return nil, err
	}
	typeBytesStart := off + 4
	slotsStart := rbin.Align(uint64(typeBytesStart+int(n)), 4)

	items := make([]Byml, n)
	for i := 0; i < int(n); i++ {
		tb, err := p.r.SliceAt(typeBytesStart+i, typeBytesStart+i+1)
		if err != nil {
			return nil, err
		}
		typ := NodeType(tb[0])
		slotOff := int(slotsStart) + i*4
		v, err := p.decodeSlot(typ, slotOff)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return &Array{Items: items}, nil
}

func (p *parser) parseHash(off int) (Byml, error) {
	n, err := p.u24At(off + 1)
	if err != nil {
		return nil, err
	}
	h := NewHash()
	entriesStart := off + 4
	for i := 0; i < int(n); i++ {
		entryOff := entriesStart + i*8
		keyIndex, err := p.u24At(entryOff)
		if err != nil {
			return nil, err
		}
		typeByte, err := p.typeAt(entryOff + 3)
		if err != nil {
			return nil, err
		}
		if int(keyIndex) >= len(p.hashKeys) {
			return nil, bgerr.NewInvalidData("hash key index %d out of range (table has %d entries)", keyIndex, len(p.hashKeys))
		}
		v, err := p.decodeSlot(typeByte, entryOff+4)
		if err != nil {
			return nil, err
		}
		h.Entries[p.hashKeys[keyIndex]] = v
	}
	return h, nil
}

// decodeSlot decodes the 32-bit value at off according to typ: inline types
// decode their raw bits directly, containers recurse through the pointer,
// and the remaining non-inline scalars (I64/U64/Double/Binary) dereference
// an 8-byte payload (or length-prefixed blob, for Binary).
func (p *parser) decodeSlot(typ NodeType, off int) (Byml, error) {
	raw, err := p.r.ReadU32At(off)
	if err != nil {
		return nil, err
	}
	switch typ {
	case TypeArray, TypeHash:
		return p.parseContainer(int(raw))
	case TypeBool:
		return Bool(raw != 0), nil
	case TypeI32:
		return I32(int32(raw)), nil
	case TypeU32:
		return U32(raw), nil
	case TypeFloat:
		return NewFloat(math.Float32frombits(raw)), nil
	case TypeNull:
		return Null{}, nil
	case TypeString:
		if int(raw) >= len(p.strings) {
			return nil, bgerr.NewInvalidData("string table index %d out of range (table has %d entries)", raw, len(p.strings))
		}
		return String(p.strings[raw]), nil
	case TypeI64:
		v, err := p.r.ReadU64At(int(raw))
		if err != nil {
			return nil, err
		}
		return NewI64(int64(v)), nil
	case TypeU64:
		v, err := p.r.ReadU64At(int(raw))
		if err != nil {
			return nil, err
		}
		return NewU64(v), nil
	case TypeDouble:
		v, err := p.r.ReadU64At(int(raw))
		if err != nil {
			return nil, err
		}
		return NewDouble(math.Float64frombits(v)), nil
	case TypeBinary:
		length, err := p.r.ReadU32At(int(raw))
		if err != nil {
			return nil, err
		}
		b, err := p.r.SliceAt(int(raw)+4, int(raw)+4+int(length))
		if err != nil {
			return nil, err
		}
		return NewBinaryData(b), nil
	default:
		return nil, bgerr.NewInvalidData("unknown BYML node type tag 0x%02x", typ)
	}
}
