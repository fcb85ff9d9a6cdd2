package byml

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/switchtools/bgpak/bgerr"
	"github.com/switchtools/bgpak/internal/rbin"
)

// outVersion is the version this writer emits. The parser accepts 2-4;
// there is no documented reason to prefer a higher version when writing
// fresh documents.
const outVersion = 2

// Write serializes root into a complete BYML document using order as the
// on-disk byte order ("BY"/big or "YB"/little). root must be Null, *Array,
// or *Hash.
func Write(root Byml, order binary.ByteOrder) ([]byte, error) {
	switch root.(type) {
	case Null, *Array, *Hash:
	default:
		return nil, bgerr.NewInvalidData("BYML root must be Null, Array, or Hash, got %T", root)
	}

	c := &collector{strings: make(map[string]struct{}), hashKeys: make(map[string]struct{})}
	c.collect(root)
	strings := sortedKeys(c.strings)
	hashKeys := sortedKeys(c.hashKeys)

	s := rbin.NewSink(order)
	if order == binary.LittleEndian {
		s.WriteBytes([]byte("YB"))
	} else {
		s.WriteBytes([]byte("BY"))
	}
	s.WriteU16(outVersion)
	s.WriteU32(0) // hash-key table offset placeholder
	s.WriteU32(0) // string table offset placeholder
	s.WriteU32(0) // root offset placeholder

	w := &writer{
		s:                s,
		stringIndex:      indexOf(strings),
		hashKeyIndex:     indexOf(hashKeys),
		nonInlineOffsets: make(map[Byml]int),
	}

	if len(hashKeys) > 0 {
		off := s.Pos()
		s.PutU32At(4, uint32(off))
		w.writeStringTable(hashKeys)
	}
	if len(strings) > 0 {
		off := s.Pos()
		s.PutU32At(8, uint32(off))
		w.writeStringTable(strings)
	}

	if _, isNull := root.(Null); isNull {
		return s.Bytes(), nil
	}

	rootOff := s.Pos()
	s.PutU32At(12, uint32(rootOff))
	w.nonInlineOffsets[root] = rootOff
	if err := w.emitContainer(root); err != nil {
		return nil, err
	}

	return s.Bytes(), nil
}

// collector implements phase 1: gathering the distinct string and hash-key
// values that phase 2 sorts into lookup tables.
type collector struct {
	strings  map[string]struct{}
	hashKeys map[string]struct{}
	seen     map[Byml]bool
}

func (c *collector) collect(node Byml) {
	if c.seen == nil {
		c.seen = make(map[Byml]bool)
	}
	switch v := node.(type) {
	case String:
		c.strings[string(v)] = struct{}{}
	case *Array:
		if c.seen[node] {
			return
		}
		c.seen[node] = true
		for _, item := range v.Items {
			c.collect(item)
		}
	case *Hash:
		if c.seen[node] {
			return
		}
		c.seen[node] = true
		for k, val := range v.Entries {
			c.hashKeys[k] = struct{}{}
			c.collect(val)
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func indexOf(items []string) map[string]int {
	m := make(map[string]int, len(items))
	for i, s := range items {
		m[s] = i
	}
	return m
}

type writer struct {
	s                *rbin.Sink
	stringIndex      map[string]int
	hashKeyIndex     map[string]int
	nonInlineOffsets map[Byml]int
}

// writeStringTable emits a 0xc2 table of items, already sorted, as phase 2
// step 2/3 describes: a u24 count, n+1 offsets relative to the table start,
// then the NUL-terminated strings themselves.
func (w *writer) writeStringTable(items []string) {
	w.s.WriteU8(uint8(TypeStringTable))
	w.s.WriteU24(uint32(len(items)))

	headerLen := 4 + (len(items)+1)*4
	offsets := make([]int, len(items)+1)
	offsets[0] = headerLen
	for i, it := range items {
		offsets[i+1] = offsets[i] + len(it) + 1
	}
	for _, off := range offsets {
		w.s.WriteU32(uint32(off))
	}
	for _, it := range items {
		w.s.WriteCString(it)
	}
	w.s.PadTo(4)
}

func (w *writer) emitContainer(node Byml) error {
	switch v := node.(type) {
	case *Array:
		return w.emitArray(v)
	case *Hash:
		return w.emitHash(v)
	default:
		return bgerr.NewInvalidData("cannot emit %T as a container", node)
	}
}

func (w *writer) emitArray(arr *Array) error {
	n := len(arr.Items)
	w.s.WriteU8(uint8(TypeArray))
	w.s.WriteU24(uint32(n))
	for _, item := range arr.Items {
		w.s.WriteU8(uint8(item.Type()))
	}
	w.s.PadTo(4)

	slotsPos := w.s.Pos()
	for i := 0; i < n; i++ {
		w.s.WriteU32(0)
	}
	for i, item := range arr.Items {
		if err := w.emitSlot(slotsPos+i*4, item); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) emitHash(h *Hash) error {
	keys := make([]string, 0, len(h.Entries))
	for k := range h.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w.s.WriteU8(uint8(TypeHash))
	w.s.WriteU24(uint32(len(keys)))

	entriesPos := w.s.Pos()
	for _, k := range keys {
		idx, ok := w.hashKeyIndex[k]
		if !ok {
			return bgerr.NewInvalidData("hash key %q missing from collected hash-key table", k)
		}
		w.s.WriteU24(uint32(idx))
		w.s.WriteU8(uint8(h.Entries[k].Type()))
		w.s.WriteU32(0) // value slot placeholder
	}
	for i, k := range keys {
		if err := w.emitSlot(entriesPos+i*8+4, h.Entries[k]); err != nil {
			return err
		}
	}
	return nil
}

// emitSlot fills the 32-bit slot at slotOffset with an inline value or,
// for non-inline nodes, the offset of a (possibly newly emitted) payload.
// Deduplication is by node identity, per spec.md's unified dedup policy:
// every non-inline kind (Array, Hash, BinaryData, I64, U64, Double) is
// registered and reused, not just the ones a naive traversal happens to
// revisit.
func (w *writer) emitSlot(slotOffset int, item Byml) error {
	typ := item.Type()
	if typ.IsInline() {
		raw, err := w.inlineBits(item)
		if err != nil {
			return err
		}
		w.s.PutU32At(slotOffset, raw)
		return nil
	}

	if off, ok := w.nonInlineOffsets[item]; ok {
		w.s.PutU32At(slotOffset, uint32(off))
		return nil
	}

	off := w.s.Pos()
	w.nonInlineOffsets[item] = off
	w.s.PutU32At(slotOffset, uint32(off))

	switch v := item.(type) {
	case *Array:
		return w.emitArray(v)
	case *Hash:
		return w.emitHash(v)
	case *BinaryData:
		w.s.WriteU32(uint32(len(v.Bytes)))
		w.s.WriteBytes(v.Bytes)
		return nil
	case *I64:
		w.s.WriteI64(v.Value)
		return nil
	case *U64:
		w.s.WriteU64(v.Value)
		return nil
	case *Double:
		w.s.WriteF64(v.Value)
		return nil
	default:
		return bgerr.NewInvalidData("unexpected non-inline byml node type %T", item)
	}
}

func (w *writer) inlineBits(item Byml) (uint32, error) {
	switch v := item.(type) {
	case Null:
		return 0, nil
	case String:
		idx, ok := w.stringIndex[string(v)]
		if !ok {
			return 0, bgerr.NewInvalidData("string %q missing from collected string table", string(v))
		}
		return uint32(idx), nil
	case Bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case I32:
		return uint32(v), nil
	case U32:
		return uint32(v), nil
	case Float:
		return math.Float32bits(float32(v)), nil
	default:
		return 0, bgerr.NewInvalidData("unexpected inline byml node type %T", item)
	}
}
