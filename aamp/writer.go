package aamp

import (
	"encoding/binary"

	"github.com/switchtools/bgpak/internal/namehash"
	"github.com/switchtools/bgpak/internal/rbin"
)

var demoAIActionIdxHash = namehash.Aamp("DemoAIActionIdx")

// Write serializes pio into a complete AAMP v2 document, backpatching
// forward-pointing offsets as it goes. The four passes and the parameter
// data-section "collection walk" are the ones spec.md's AAMP writer
// section describes; they exist because the reference tool's data-section
// layout is not a simple tree traversal.
func Write(pio *ParameterIO) ([]byte, error) {
	s := rbin.NewSink(binary.LittleEndian)
	s.SeekTo(headerSize)
	s.WriteCString(pio.DataType)
	s.PadTo(4)

	w := &writer{
		s:             s,
		listOffsets:   make(map[*ParameterList]int),
		objectOffsets: make(map[*ParameterObject]int),
		paramBase:     make(map[*ParameterObject]int),
	}

	firstListOffset := s.Pos()
	if err := w.emitListHeaders(pio.Root); err != nil {
		return nil, err
	}
	if err := w.emitObjectHeaders(pio.Root); err != nil {
		return nil, err
	}
	if err := w.emitParamHeaders(pio.Root); err != nil {
		return nil, err
	}

	w.walk(pio.Root)

	dataSectionStart := s.Pos()
	if err := w.emitData(); err != nil {
		return nil, err
	}
	stringSectionStart := s.Pos()
	if err := w.emitStrings(); err != nil {
		return nil, err
	}

	fileSize := s.Pos()

	s.SeekTo(0)
	s.WriteBytes(magicBytes)
	s.WriteU32(2)
	s.WriteU32(3)
	s.WriteU32(uint32(fileSize))
	s.WriteU32(pio.Version)
	s.WriteU32(uint32(firstListOffset - headerSize))
	s.WriteU32(uint32(w.listCount))
	s.WriteU32(uint32(w.objectCount))
	s.WriteU32(uint32(w.paramCount))
	s.WriteU32(uint32(stringSectionStart - dataSectionStart))
	s.WriteU32(uint32(fileSize - stringSectionStart))
	s.WriteU32(0)

	return s.Bytes(), nil
}

type pendingParam struct {
	offset int // absolute offset of the ResParameter record
	name   uint32
	param  Parameter
}

type writer struct {
	s *rbin.Sink

	listOffsets   map[*ParameterList]int
	objectOffsets map[*ParameterObject]int
	paramBase     map[*ParameterObject]int

	listCount   int
	objectCount int
	paramCount  int

	dataQueue   []pendingParam
	stringQueue []pendingParam

	dataOffsets   map[dataKey]int // canonical (type, bytes) -> emitted data offset
	stringOffsets map[string]int  // string value -> emitted string offset
}

// dataKey is the content-hash dedup key for the data section: the variant
// tag plus its canonical payload bytes, per spec.md's "content-hashed
// (variant + bytes)" rule. Keeping the type in the key (rather than folding
// it into the byte string) avoids any chance of a BufferBinary payload
// colliding with an unrelated scalar that happens to share its bytes.
type dataKey struct {
	Type  ParamType
	Bytes string
}

// emitListHeaders performs pass 1: a breadth-first visit of the list tree,
// writing each ResParameterList record with placeholder rel-offsets.
func (w *writer) emitListHeaders(root *ParameterList) error {
	queue := []*ParameterList{root}
	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]

		off := w.s.Pos()
		w.listOffsets[l] = off
		w.listCount++

		w.s.WriteU32(l.Name)
		w.s.WriteU16(0) // lists_rel_offset placeholder
		w.s.WriteU16(uint16(len(l.Lists())))
		w.s.WriteU16(0) // objects_rel_offset placeholder
		w.s.WriteU16(uint16(len(l.Objects())))

		queue = append(queue, l.Lists()...)
	}
	return nil
}

// emitObjectHeaders performs pass 2: depth-first, backpatching each list's
// lists_rel_offset to the child list headers pass 1 already wrote, then
// writing its object headers contiguously and backpatching its
// objects_rel_offset.
func (w *writer) emitObjectHeaders(l *ParameterList) error {
	// Children lists must occupy file positions immediately following one
	// another, recorded at pass 1; here we only place the child lists'
	// lists_rel_offset (which pass 1 already fixed the position of) and
	// now walk down to place objects.
	off := w.listOffsets[l]

	children := l.Lists()
	if len(children) > 0 {
		firstChildOffset := w.listOffsets[children[0]]
		w.s.PutU16At(off+4, uint16((firstChildOffset-off)/4))
	}

	objects := l.Objects()
	if len(objects) > 0 {
		objOffset := w.s.Pos()
		w.s.PutU16At(off+8, uint16((objOffset-off)/4))
		for _, obj := range objects {
			w.objectOffsets[obj] = w.s.Pos()
			w.objectCount++
			w.s.WriteU32(obj.Name)
			w.s.WriteU16(0) // params_rel_offset placeholder
			w.s.WriteU16(uint16(obj.Len()))
		}
	}

	for _, child := range children {
		if err := w.emitObjectHeaders(child); err != nil {
			return err
		}
	}
	return nil
}

// emitParamHeaders performs pass 3: for every object, in tree order, write
// each parameter's header with a placeholder data_rel_offset.
func (w *writer) emitParamHeaders(l *ParameterList) error {
	for _, obj := range l.Objects() {
		off := w.objectOffsets[obj]
		names := obj.Names()
		if len(names) > 0 {
			firstParamOffset := w.s.Pos()
			w.paramBase[obj] = firstParamOffset
			w.s.PutU16At(off+4, uint16((firstParamOffset-off)/4))
			for _, name := range names {
				p, _ := obj.Get(name)
				w.s.WriteU32(name)
				w.s.WriteU24(0) // data_rel_offset placeholder
				w.s.WriteU8(uint8(p.Type()))
			}
		}
	}
	for _, child := range l.Lists() {
		if err := w.emitParamHeaders(child); err != nil {
			return err
		}
	}
	return nil
}

// walk performs the pass 4 "collection walk": a non-tree-order traversal
// that fills the data and string queues in the exact sequence the reference
// tool emits them in.
func (w *writer) walk(root *ParameterList) {
	w.dataOffsets = make(map[dataKey]int)
	w.stringOffsets = make(map[string]int)
	w.walkList(root, true)
}

func (w *writer) isAIProgram(l *ParameterList) bool {
	objects := l.Objects()
	return len(objects) > 0 && objects[0].Name == demoAIActionIdxHash
}

func (w *writer) walkList(l *ParameterList, processTopObjectsFirst bool) {
	aiProgram := w.isAIProgram(l)

	objects := l.Objects()
	nextObject := 0
	processObject := func() {
		if nextObject < len(objects) {
			w.enqueueObject(objects[nextObject])
			nextObject++
		}
	}

	if processTopObjectsFirst && !aiProgram {
		limit := 7
		for nextObject < len(objects) && limit > 0 {
			processObject()
			limit--
		}
	}

	children := l.Lists()
	for i, child := range children {
		if !aiProgram && i%2 == 0 {
			processObject()
		}
		w.walkList(child, false)
	}

	for nextObject < len(objects) {
		processObject()
	}
}

func (w *writer) enqueueObject(obj *ParameterObject) {
	base := w.paramBase[obj]
	for i, name := range obj.Names() {
		p, _ := obj.Get(name)
		paramOffset := base + i*8
		entry := pendingParam{offset: paramOffset, name: name, param: p}
		if p.Type().isString() {
			w.stringQueue = append(w.stringQueue, entry)
		} else {
			w.dataQueue = append(w.dataQueue, entry)
		}
		w.paramCount++
	}
}

func (w *writer) emitData() error {
	for _, entry := range w.dataQueue {
		key := dataKey{Type: entry.param.Type(), Bytes: string(entry.param.canonicalBytes())}
		if off, ok := w.dataOffsets[key]; ok {
			w.backpatchParam(entry.offset, off)
			continue
		}

		var dataOffset int
		if n := bufferLen(entry.param); entry.param.Type().isBuffer() {
			w.s.WriteU32(uint32(n))
			dataOffset = w.s.Pos()
			w.s.WriteBytes(entry.param.canonicalBytes())
		} else {
			dataOffset = w.s.Pos()
			w.s.WriteBytes(entry.param.canonicalBytes())
		}
		w.s.PadTo(4)

		w.dataOffsets[key] = dataOffset
		w.backpatchParam(entry.offset, dataOffset)
	}
	return nil
}

func (w *writer) backpatchParam(paramOffset, dataOffset int) {
	rel := uint32((dataOffset - paramOffset) / 4)
	w.s.PutU24At(paramOffset+4, rel)
}

func (w *writer) emitStrings() error {
	for _, entry := range w.stringQueue {
		value := string(entry.param.canonicalBytes())
		if maxLen, ok := fixedStringMaxLen(entry.param.Type()); ok {
			if err := ValidateFixedString(value, maxLen); err != nil {
				return err
			}
		}
		if off, ok := w.stringOffsets[value]; ok {
			w.backpatchParam(entry.offset, off)
			continue
		}
		off := w.s.Pos()
		w.s.WriteCString(value)
		w.s.PadTo(4)
		w.stringOffsets[value] = off
		w.backpatchParam(entry.offset, off)
	}
	return nil
}

func fixedStringMaxLen(t ParamType) (int, bool) {
	switch t {
	case TypeString32:
		return 31, true
	case TypeString64:
		return 63, true
	case TypeString256:
		return 255, true
	default:
		return 0, false
	}
}
