package aamp

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/switchtools/bgpak/bgerr"
	"github.com/switchtools/bgpak/internal/rbin"
	"github.com/switchtools/bgpak/internal/yaz0"
)

const headerSize = 0x30

var magicBytes = []byte("AAMP")

// Parse decodes a complete AAMP v2 document. data may be Yaz0-compressed;
// it is decompressed transparently before parsing. AAMP is little-endian
// only, so there is no endian-detection step.
func Parse(data []byte) (*ParameterIO, error) {
	raw, err := yaz0.MaybeDecompress(data)
	if err != nil {
		return nil, err
	}
	data = raw

	if len(data) < 4 {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: 4}
	}
	if !bytes.Equal(data[:4], magicBytes) {
		return nil, &bgerr.InvalidMagicError{Actual: append([]byte(nil), data[:4]...), Expected: magicBytes}
	}
	if len(data) < headerSize {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: headerSize}
	}

	r := rbin.NewReader(data, binary.LittleEndian)
	p := &parser{r: r}

	version, err := r.ReadU32At(0x04)
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, bgerr.NewInvalidData("unsupported AAMP version %d, expected 2", version)
	}
	flags, err := r.ReadU32At(0x08)
	if err != nil {
		return nil, err
	}
	if flags&0b11 != 0b11 {
		return nil, bgerr.NewInvalidData("unsupported AAMP flags 0x%x: little-endian and UTF-8 bits are both required", flags)
	}
	fileSize, err := r.ReadU32At(0x0C)
	if err != nil {
		return nil, err
	}
	if int(fileSize) > len(data) {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: int(fileSize)}
	}
	pioVersion, err := r.ReadU32At(0x10)
	if err != nil {
		return nil, err
	}
	pioOffset, err := r.ReadU32At(0x14)
	if err != nil {
		return nil, err
	}

	dataType, err := r.NulTerminatedStringAt(headerSize)
	if err != nil {
		return nil, err
	}

	rootOffset := headerSize + int(pioOffset)
	root, err := p.parseList(rootOffset)
	if err != nil {
		return nil, err
	}
	if root.Name != RootName {
		return nil, bgerr.NewInvalidData("No param root found in parameter archive")
	}

	return &ParameterIO{Version: pioVersion, DataType: dataType, Root: root}, nil
}

// parser decodes the structural node tree by recursive descent; every
// offset computed along the way is absolute within the reader's buffer.
type parser struct {
	r *rbin.Reader
}

func (p *parser) require(off, n int) error {
	if off < 0 || n < 0 || off+n > p.r.Len() {
		return &bgerr.InsufficientDataError{Have: p.r.Len() - off, Need: n}
	}
	return nil
}

func (p *parser) u32At(off int) (uint32, error) { return p.r.ReadU32At(off) }

func (p *parser) u16At(off int) (uint16, error) { return p.r.ReadU16At(off) }

func (p *parser) f32At(off int) (float32, error) {
	v, err := p.r.ReadU32At(off)
	return math.Float32frombits(v), err
}

func (p *parser) cstringAt(off int) (string, error) {
	return p.r.NulTerminatedStringAt(off)
}

func (p *parser) parseList(off int) (*ParameterList, error) {
	if err := p.require(off, 12); err != nil {
		return nil, err
	}
	name, err := p.u32At(off)
	if err != nil {
		return nil, err
	}
	listsRelOffset, err := p.u16At(off + 4)
	if err != nil {
		return nil, err
	}
	listCount, err := p.u16At(off + 6)
	if err != nil {
		return nil, err
	}
	objectsRelOffset, err := p.u16At(off + 8)
	if err != nil {
		return nil, err
	}
	objectCount, err := p.u16At(off + 10)
	if err != nil {
		return nil, err
	}

	list := NewParameterList(name)

	listsBase := off + int(listsRelOffset)*4
	for i := 0; i < int(listCount); i++ {
		child, err := p.parseList(listsBase + i*12)
		if err != nil {
			return nil, err
		}
		list.SetList(child)
	}

	objectsBase := off + int(objectsRelOffset)*4
	for i := 0; i < int(objectCount); i++ {
		obj, err := p.parseObject(objectsBase + i*8)
		if err != nil {
			return nil, err
		}
		list.SetObject(obj)
	}

	return list, nil
}

func (p *parser) parseObject(off int) (*ParameterObject, error) {
	if err := p.require(off, 8); err != nil {
		return nil, err
	}
	name, err := p.u32At(off)
	if err != nil {
		return nil, err
	}
	paramsRelOffset, err := p.u16At(off + 4)
	if err != nil {
		return nil, err
	}
	paramCount, err := p.u16At(off + 6)
	if err != nil {
		return nil, err
	}

	obj := NewParameterObject(name)
	base := off + int(paramsRelOffset)*4
	for i := 0; i < int(paramCount); i++ {
		pname, param, err := p.parseParameter(base + i*8)
		if err != nil {
			return nil, err
		}
		obj.Set(pname, param)
	}
	return obj, nil
}

func (p *parser) parseParameter(off int) (uint32, Parameter, error) {
	if err := p.require(off, 8); err != nil {
		return 0, nil, err
	}
	name, err := p.u32At(off)
	if err != nil {
		return 0, nil, err
	}
	packed, err := p.u32At(off + 4)
	if err != nil {
		return 0, nil, err
	}
	typ := ParamType(packed >> 24)
	dataRelOffset := packed & 0xFFFFFF
	dataOff := off + int(dataRelOffset)*4

	val, err := p.decodeValue(typ, dataOff)
	if err != nil {
		return 0, nil, err
	}
	return name, val, nil
}

func (p *parser) decodeValue(typ ParamType, off int) (Parameter, error) {
	switch typ {
	case TypeBool:
		v, err := p.u32At(off)
		return Bool(v != 0), err
	case TypeInt:
		v, err := p.u32At(off)
		return Int(int32(v)), err
	case TypeU32:
		v, err := p.u32At(off)
		return U32(v), err
	case TypeF32:
		v, err := p.f32At(off)
		return NewF32(v), err
	case TypeVec2:
		xs, err := p.floats(off, 2)
		if err != nil {
			return nil, err
		}
		return Vec2{X: xs[0], Y: xs[1]}, nil
	case TypeVec3:
		xs, err := p.floats(off, 3)
		if err != nil {
			return nil, err
		}
		return Vec3{X: xs[0], Y: xs[1], Z: xs[2]}, nil
	case TypeVec4:
		xs, err := p.floats(off, 4)
		if err != nil {
			return nil, err
		}
		return Vec4{X: xs[0], Y: xs[1], Z: xs[2], T: xs[3]}, nil
	case TypeColor:
		xs, err := p.floats(off, 4)
		if err != nil {
			return nil, err
		}
		return Color{R: xs[0], G: xs[1], B: xs[2], A: xs[3]}, nil
	case TypeQuat:
		xs, err := p.floats(off, 4)
		if err != nil {
			return nil, err
		}
		return Quat{A: xs[0], B: xs[1], C: xs[2], D: xs[3]}, nil
	case TypeCurve1:
		cs, err := p.curves(off, 1)
		if err != nil {
			return nil, err
		}
		return Curve1{cs[0]}, nil
	case TypeCurve2:
		cs, err := p.curves(off, 2)
		if err != nil {
			return nil, err
		}
		return Curve2{cs[0], cs[1]}, nil
	case TypeCurve3:
		cs, err := p.curves(off, 3)
		if err != nil {
			return nil, err
		}
		return Curve3{cs[0], cs[1], cs[2]}, nil
	case TypeCurve4:
		cs, err := p.curves(off, 4)
		if err != nil {
			return nil, err
		}
		return Curve4{cs[0], cs[1], cs[2], cs[3]}, nil
	case TypeString32:
		s, err := p.cstringAt(off)
		return String32(s), err
	case TypeString64:
		s, err := p.cstringAt(off)
		return String64(s), err
	case TypeString256:
		s, err := p.cstringAt(off)
		return String256(s), err
	case TypeStringRef:
		s, err := p.cstringAt(off)
		return StringRef(s), err
	case TypeBufferInt:
		n, elems, err := p.bufferHeader(off, 4)
		if err != nil {
			return nil, err
		}
		out := make(BufferInt, n)
		for i := range out {
			v, err := p.u32At(elems + i*4)
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil
	case TypeBufferU32:
		n, elems, err := p.bufferHeader(off, 4)
		if err != nil {
			return nil, err
		}
		out := make(BufferU32, n)
		for i := range out {
			v, err := p.u32At(elems + i*4)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TypeBufferF32:
		n, elems, err := p.bufferHeader(off, 4)
		if err != nil {
			return nil, err
		}
		out := make(BufferF32, n)
		for i := range out {
			v, err := p.f32At(elems + i*4)
			if err != nil {
				return nil, err
			}
			out[i] = canonF32(v)
		}
		return out, nil
	case TypeBufferBinary:
		n, elems, err := p.bufferHeader(off, 1)
		if err != nil {
			return nil, err
		}
		b, err := p.r.SliceAt(elems, elems+n)
		if err != nil {
			return nil, err
		}
		out := make(BufferBinary, n)
		copy(out, b)
		return out, nil
	default:
		return nil, bgerr.NewInvalidData("unknown AAMP parameter type tag %d", typ)
	}
}

func (p *parser) floats(off, n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := p.f32At(off + i*4)
		if err != nil {
			return nil, err
		}
		out[i] = canonF32(v)
	}
	return out, nil
}

func (p *parser) curves(off, n int) ([]Curve, error) {
	const curveSize = 4 + 4 + 30*4
	out := make([]Curve, n)
	for i := range out {
		base := off + i*curveSize
		a, err := p.u32At(base)
		if err != nil {
			return nil, err
		}
		b, err := p.u32At(base + 4)
		if err != nil {
			return nil, err
		}
		var floats [30]float32
		for j := range floats {
			v, err := p.f32At(base + 8 + j*4)
			if err != nil {
				return nil, err
			}
			floats[j] = canonF32(v)
		}
		out[i] = Curve{A: a, B: b, Floats: floats}
	}
	return out, nil
}

// bufferHeader reads the u32 element count stored just before a buffer's
// payload and returns it along with the absolute offset of the first
// element.
func (p *parser) bufferHeader(off, elemSize int) (int, int, error) {
	n, err := p.u32At(off - 4)
	if err != nil {
		return 0, 0, err
	}
	if err := p.require(off, int(n)*elemSize); err != nil {
		return 0, 0, err
	}
	return int(n), off, nil
}
