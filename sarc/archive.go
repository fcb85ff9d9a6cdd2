// Package sarc implements the Simple Archive container: a flat,
// alignment-sensitive, hash-sorted collection of named blobs.
package sarc

const (
	headerSize    = 0x14
	fatHeaderSize = 0x0C
	fatEntrySize  = 0x10
	fntHeaderSize = 0x08

	// DefaultHashMultiplier is the rolling-hash multiplier BOTW-era tools
	// use when none is specified.
	DefaultHashMultiplier = 0x65

	// MinAlignment is the floor every file's data alignment is LCM'd
	// against, regardless of extension.
	MinAlignment = 4
)

// File is one named blob, as returned by iteration and lookup.
type File struct {
	Name string
	Data []byte
}

// Entry is one FAT record: the hash that determines sort order, the name
// recovered from the SFNT section (empty if the entry carries none), and
// the data span relative to the archive's data offset.
type Entry struct {
	Name      string
	NameHash  uint32
	DataBegin uint32
	DataEnd   uint32
}
