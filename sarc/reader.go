package sarc

import (
	"encoding/binary"
	"sort"

	"github.com/switchtools/bgpak/bgerr"
	"github.com/switchtools/bgpak/internal/namehash"
	"github.com/switchtools/bgpak/internal/rbin"
	"github.com/switchtools/bgpak/internal/yaz0"
)

// Archive is a parsed SARC container. Entries is sorted by NameHash
// ascending, the order the format requires on disk.
type Archive struct {
	Endian         binary.ByteOrder
	DataOffset     uint32
	HashMultiplier uint32
	Entries        []Entry

	data []byte
}

// Parse decodes a complete SARC archive. data may be Yaz0-compressed; it is
// decompressed transparently before parsing.
func Parse(data []byte) (*Archive, error) {
	raw, err := yaz0.MaybeDecompress(data)
	if err != nil {
		return nil, err
	}
	data = raw

	const minHeaderBytes = headerSize + fatHeaderSize + fntHeaderSize
	if len(data) < minHeaderBytes {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: minHeaderBytes}
	}
	if string(data[0:4]) != "SARC" {
		return nil, &bgerr.InvalidMagicError{Actual: append([]byte(nil), data[0:4]...), Expected: []byte("SARC")}
	}

	var order binary.ByteOrder
	switch {
	case data[6] == 0xFE && data[7] == 0xFF:
		order = binary.BigEndian
	case data[6] == 0xFF && data[7] == 0xFE:
		order = binary.LittleEndian
	default:
		return nil, bgerr.NewInvalidData("invalid SARC byte-order mark 0x%02x%02x at offset 6", data[6], data[7])
	}

	r := rbin.NewReader(data, order)

	resHeaderSize, err := r.ReadU16At(4)
	if err != nil {
		return nil, err
	}
	if resHeaderSize != headerSize {
		return nil, bgerr.NewInvalidData("unexpected SARC header size %d, expected %d", resHeaderSize, headerSize)
	}
	fileSize, err := r.ReadU32At(8)
	if err != nil {
		return nil, err
	}
	if int(fileSize) > len(data) {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: int(fileSize)}
	}
	dataOffset, err := r.ReadU32At(12)
	if err != nil {
		return nil, err
	}
	version, err := r.ReadU16At(16)
	if err != nil {
		return nil, err
	}
	if version != 0x0100 {
		return nil, bgerr.NewInvalidData("unsupported SARC version 0x%04x", version)
	}

	sfatOff := headerSize
	if string(data[sfatOff:sfatOff+4]) != "SFAT" {
		return nil, &bgerr.InvalidMagicError{Actual: append([]byte(nil), data[sfatOff:sfatOff+4]...), Expected: []byte("SFAT")}
	}
	sfatHeaderSizeField, err := r.ReadU16At(sfatOff + 4)
	if err != nil {
		return nil, err
	}
	if sfatHeaderSizeField != fatHeaderSize {
		return nil, bgerr.NewInvalidData("unexpected SFAT header size %d, expected %d", sfatHeaderSizeField, fatHeaderSize)
	}
	numFilesField, err := r.ReadU16At(sfatOff + 6)
	if err != nil {
		return nil, err
	}
	if numFilesField&0xC000 != 0 {
		return nil, bgerr.NewInvalidData("SARC FAT declares too many files")
	}
	numFiles := int(numFilesField)
	hashMultiplier, err := r.ReadU32At(sfatOff + 8)
	if err != nil {
		return nil, err
	}

	fatEntriesOff := sfatOff + fatHeaderSize
	fatEnd := fatEntriesOff + numFiles*fatEntrySize
	if fatEnd+fntHeaderSize > len(data) {
		return nil, &bgerr.InsufficientDataError{Have: len(data), Need: fatEnd + fntHeaderSize}
	}

	if string(data[fatEnd:fatEnd+4]) != "SFNT" {
		return nil, &bgerr.InvalidMagicError{Actual: append([]byte(nil), data[fatEnd:fatEnd+4]...), Expected: []byte("SFNT")}
	}
	sfntHeaderSizeField, err := r.ReadU16At(fatEnd + 4)
	if err != nil {
		return nil, err
	}
	if sfntHeaderSizeField != fntHeaderSize {
		return nil, bgerr.NewInvalidData("unexpected SFNT header size %d, expected %d", sfntHeaderSizeField, fntHeaderSize)
	}
	namesOffset := fatEnd + fntHeaderSize
	if int(dataOffset) < namesOffset {
		return nil, bgerr.NewInvalidData("SARC data offset %d precedes name table start %d", dataOffset, namesOffset)
	}

	entries := make([]Entry, numFiles)
	for i := 0; i < numFiles; i++ {
		off := fatEntriesOff + i*fatEntrySize
		nameHash, err := r.ReadU32At(off)
		if err != nil {
			return nil, err
		}
		relNameOptOffset, err := r.ReadU32At(off + 4)
		if err != nil {
			return nil, err
		}
		dataBegin, err := r.ReadU32At(off + 8)
		if err != nil {
			return nil, err
		}
		dataEnd, err := r.ReadU32At(off + 12)
		if err != nil {
			return nil, err
		}

		var name string
		if relNameOptOffset&0xFF000000 != 0 {
			nameOff := namesOffset + int(relNameOptOffset&0x00FFFFFF)*4
			name, err = r.NulTerminatedStringAt(nameOff)
			if err != nil {
				return nil, err
			}
		}
		entries[i] = Entry{Name: name, NameHash: nameHash, DataBegin: dataBegin, DataEnd: dataEnd}
	}

	return &Archive{
		Endian:         order,
		DataOffset:     dataOffset,
		HashMultiplier: hashMultiplier,
		Entries:        entries,
		data:           data,
	}, nil
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int { return len(a.Entries) }

// DataFor returns the byte slice an entry refers to, bounds-checked against
// the archive's data region. The returned slice aliases the parsed buffer.
func (a *Archive) DataFor(e Entry) ([]byte, error) {
	start := int(a.DataOffset) + int(e.DataBegin)
	end := int(a.DataOffset) + int(e.DataEnd)
	if start < 0 || end < start || end > len(a.data) {
		return nil, &bgerr.InsufficientDataError{Have: len(a.data), Need: end}
	}
	return a.data[start:end], nil
}

// FileAt resolves the i'th FAT entry (in hash order) into a File.
func (a *Archive) FileAt(i int) (File, error) {
	e := a.Entries[i]
	d, err := a.DataFor(e)
	if err != nil {
		return File{}, err
	}
	return File{Name: e.Name, Data: d}, nil
}

// Files returns every entry resolved to a File, in FAT order.
func (a *Archive) Files() ([]File, error) {
	out := make([]File, len(a.Entries))
	for i := range a.Entries {
		f, err := a.FileAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// GetData binary-searches the FAT for name and returns its data, if present.
func (a *Archive) GetData(name string) ([]byte, bool, error) {
	mult := a.HashMultiplier
	if mult == 0 {
		mult = DefaultHashMultiplier
	}
	needle := namehash.Sarc(mult, name)
	i := sort.Search(len(a.Entries), func(i int) bool { return a.Entries[i].NameHash >= needle })
	if i >= len(a.Entries) || a.Entries[i].NameHash != needle {
		return nil, false, nil
	}
	d, err := a.DataFor(a.Entries[i])
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// GuessMinAlignment estimates the minimum data alignment the archive's
// writer used, as the GCD of MinAlignment and every file's absolute data
// start. Archives are not required to carry their alignment policy, so this
// is a best-effort reconstruction for a round-tripping writer.
func (a *Archive) GuessMinAlignment() uint64 {
	g := uint64(MinAlignment)
	for _, e := range a.Entries {
		g = rbin.GCD(g, uint64(a.DataOffset)+uint64(e.DataBegin))
	}
	if !rbin.IsValidAlignment(g) {
		return MinAlignment
	}
	return g
}
