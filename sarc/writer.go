package sarc

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/switchtools/bgpak/bgerr"
	"github.com/switchtools/bgpak/internal/namehash"
	"github.com/switchtools/bgpak/internal/rbin"
)

// Writer accumulates named files and serializes them into a SARC archive
// once Write is called. The zero value is not usable; construct with
// NewWriter.
type Writer struct {
	Endian         binary.ByteOrder
	Legacy         bool
	HashMultiplier uint32
	MinAlignment   uint64

	alignments map[string]uint64
	files      map[string][]byte
}

// NewWriter returns an empty Writer for the given byte order, with default
// hash multiplier and minimum alignment.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{
		Endian:         order,
		HashMultiplier: DefaultHashMultiplier,
		MinAlignment:   MinAlignment,
		alignments:     make(map[string]uint64),
		files:          make(map[string][]byte),
	}
}

// AddFile inserts or replaces the file at name.
func (w *Writer) AddFile(name string, data []byte) {
	w.files[name] = data
}

// SetAlignmentRequirement sets the alignment used for files with the given
// extension (without the dot). alignment must be a power of two. Write
// re-registers the built-in defaults (see addDefaultAlignments) first, so
// a value set here for an extension that has a built-in default is replaced
// by that default; it takes effect only for other extensions.
func (w *Writer) SetAlignmentRequirement(ext string, alignment uint64) error {
	if !rbin.IsValidAlignment(alignment) {
		return bgerr.NewInvalidData("invalid alignment requirement %d for extension %q", alignment, ext)
	}
	w.alignments[ext] = alignment
	return nil
}

// Write serializes the accumulated files into a complete SARC archive.
func (w *Writer) Write() ([]byte, error) {
	mult := w.HashMultiplier
	if mult == 0 {
		mult = DefaultHashMultiplier
	}
	minAlignment := w.MinAlignment
	if minAlignment == 0 {
		minAlignment = MinAlignment
	}

	names := make([]string, 0, len(w.files))
	for n := range w.files {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return namehash.Sarc(mult, names[i]) < namehash.Sarc(mult, names[j])
	})
	for i := 1; i < len(names); i++ {
		if namehash.Sarc(mult, names[i]) == namehash.Sarc(mult, names[i-1]) {
			return nil, bgerr.NewInvalidData("duplicate SARC name hash between %q and %q", names[i-1], names[i])
		}
	}

	w.addDefaultAlignments()

	alignmentsFor := make([]uint64, len(names))
	for i, name := range names {
		alignmentsFor[i] = w.alignmentForFile(minAlignment, name, w.files[name])
	}

	s := rbin.NewSink(w.Endian)
	s.SeekTo(headerSize)
	s.WriteBytes([]byte("SFAT"))
	s.WriteU16(fatHeaderSize)
	s.WriteU16(uint16(len(names)))
	s.WriteU32(mult)

	var relStringOffset uint32
	var relDataOffset uint64
	for i, name := range names {
		data := w.files[name]
		offset := rbin.Align(relDataOffset, alignmentsFor[i])
		s.WriteU32(namehash.Sarc(mult, name))
		s.WriteU32(1<<24 | (relStringOffset / 4))
		s.WriteU32(uint32(offset))
		s.WriteU32(uint32(offset) + uint32(len(data)))
		relDataOffset = offset + uint64(len(data))
		relStringOffset += uint32(rbin.Align(uint64(len(name)+1), 4))
	}

	s.WriteBytes([]byte("SFNT"))
	s.WriteU16(fntHeaderSize)
	s.WriteU16(0)
	for _, name := range names {
		s.WriteCString(name)
		s.PadTo(4)
	}

	var requiredAlignment uint64
	for _, a := range alignmentsFor {
		requiredAlignment = rbin.LCM(requiredAlignment, a)
	}
	requiredAlignment = rbin.LCM(requiredAlignment, minAlignment)
	s.SeekTo(int(rbin.Align(uint64(s.Pos()), requiredAlignment)))
	dataOffsetBegin := s.Pos()

	for i, name := range names {
		s.SeekTo(int(rbin.Align(uint64(s.Pos()), alignmentsFor[i])))
		s.WriteBytes(w.files[name])
	}

	fileSize := s.Pos()
	s.SeekTo(0)
	s.WriteBytes([]byte("SARC"))
	s.WriteU16(headerSize)
	if w.Endian == binary.BigEndian {
		s.WriteBytes([]byte{0xFE, 0xFF})
	} else {
		s.WriteBytes([]byte{0xFF, 0xFE})
	}
	s.WriteU32(uint32(fileSize))
	s.WriteU32(uint32(dataOffsetBegin))
	s.WriteU16(0x0100)
	s.WriteU16(0)

	return s.Bytes(), nil
}

// addDefaultAlignments registers the built-in extension alignment
// requirements, overwriting any caller-set value for the same extension.
// This runs on every Write call, matching the reference writer's behavior
// of re-seeding its alignment map before each serialization.
func (w *Writer) addDefaultAlignments() {
	for ext, alignment := range aglEnvAlignments {
		w.alignments[ext] = alignment
	}
	w.alignments["ksky"] = 8
	w.alignments["bksky"] = 8
	w.alignments["gtx"] = 0x2000
	w.alignments["sharc"] = 0x1000
	w.alignments["sharcb"] = 0x1000
	w.alignments["baglmf"] = 0x80
	if w.Endian == binary.BigEndian {
		w.alignments["bffnt"] = 0x2000
	} else {
		w.alignments["bffnt"] = 0x1000
	}
}

func (w *Writer) alignmentForFile(minAlignment uint64, name string, data []byte) uint64 {
	ext := extensionOf(name)
	alignment := minAlignment
	if req, ok := w.alignments[ext]; ok {
		alignment = rbin.LCM(alignment, req)
	}
	if w.Legacy && isFileSarc(data) {
		alignment = rbin.LCM(alignment, 0x2000)
	}
	if w.Legacy || !botwFactoryExtensions[ext] {
		alignment = rbin.LCM(alignment, alignmentForNewBinaryFile(data))
		if w.Endian == binary.BigEndian {
			alignment = rbin.LCM(alignment, alignmentForCafeBflim(data))
		}
	}
	return alignment
}

func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// isFileSarc reports whether data looks like a SARC archive, compressed or
// not, for the legacy alignment rule.
func isFileSarc(data []byte) bool {
	if len(data) < 0x20 {
		return false
	}
	if string(data[0:4]) == "SARC" {
		return true
	}
	return string(data[0:4]) == "Yaz0" && string(data[0x11:0x15]) == "SARC"
}

// alignmentForNewBinaryFile infers the alignment a self-describing binary
// resource (one with a BOM and redundant file-size field at fixed offsets)
// requires, by checking that its declared size matches the buffer length.
func alignmentForNewBinaryFile(data []byte) uint64 {
	if len(data) <= 0x20 {
		return 1
	}
	var order binary.ByteOrder
	switch {
	case data[0xC] == 0xFE && data[0xD] == 0xFF:
		order = binary.BigEndian
	case data[0xC] == 0xFF && data[0xD] == 0xFE:
		order = binary.LittleEndian
	default:
		return 1
	}
	fileSize := order.Uint32(data[0x1C:0x20])
	if int(fileSize) != len(data) {
		return 1
	}
	return 1 << data[0xE]
}

// alignmentForCafeBflim reads the trailing FLIM footer's alignment field,
// present on Cafe (Wii U) texture resources.
func alignmentForCafeBflim(data []byte) uint64 {
	if len(data) <= 0x28 {
		return 1
	}
	tail := data[len(data)-0x28 : len(data)-0x24]
	if string(tail) != "FLIM" {
		return 1
	}
	return uint64(binary.BigEndian.Uint16(data[len(data)-0x8:]))
}
