package sarc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/switchtools/bgpak/internal/rbin"
)

func TestRoundTripLittleEndian(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.AddFile("a.txt", []byte("hello world"))
	w.AddFile("b/c.dat", []byte{1, 2, 3, 4, 5})
	w.AddFile("z.bactorpack", []byte("resource payload"))

	data, err := w.Write()
	require.NoError(t, err)
	require.Equal(t, "SARC", string(data[:4]))

	arc, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 3, arc.Len())

	files, err := arc.Files()
	require.NoError(t, err)
	byName := make(map[string][]byte, len(files))
	for _, f := range files {
		byName[f.Name] = f.Data
	}
	require.Equal(t, []byte("hello world"), byName["a.txt"])
	require.Equal(t, []byte{1, 2, 3, 4, 5}, byName["b/c.dat"])
	require.Equal(t, []byte("resource payload"), byName["z.bactorpack"])

	got, ok, err := arc.GetData("b/c.dat")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, got)

	_, ok, err = arc.GetData("missing.bin")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoundTripBigEndian(t *testing.T) {
	w := NewWriter(binary.BigEndian)
	w.AddFile("one", []byte("1"))
	w.AddFile("two", []byte("22"))

	data, err := w.Write()
	require.NoError(t, err)

	arc, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, binary.BigEndian, arc.Endian)
	require.Equal(t, 2, arc.Len())
}

func TestFatEntriesSortedByHashAscending(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	names := []string{"zeta", "alpha", "mid", "beta9", "k"}
	for _, n := range names {
		w.AddFile(n, []byte(n))
	}

	data, err := w.Write()
	require.NoError(t, err)

	arc, err := Parse(data)
	require.NoError(t, err)
	for i := 1; i < len(arc.Entries); i++ {
		require.Less(t, arc.Entries[i-1].NameHash, arc.Entries[i].NameHash)
	}
}

func TestAddFileOverwritesExistingName(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.AddFile("same", []byte("first"))
	w.AddFile("same", []byte("second"))

	data, err := w.Write()
	require.NoError(t, err)

	arc, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 1, arc.Len())
	got, ok, err := arc.GetData("same")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("second"), got)
}

func TestAlignmentForSpecialExtensions(t *testing.T) {
	w := NewWriter(binary.BigEndian)
	w.AddFile("a.gtx", []byte{0xAA})
	w.AddFile("b.bffnt", []byte{0xBB})

	data, err := w.Write()
	require.NoError(t, err)

	arc, err := Parse(data)
	require.NoError(t, err)

	files, err := arc.Files()
	require.NoError(t, err)
	for i, e := range arc.Entries {
		absBegin := arc.DataOffset + e.DataBegin
		require.Zerof(t, absBegin%0x2000, "file %q data begin %#x not aligned to 0x2000", files[i].Name, absBegin)
	}
}

func TestIsFileSarcDetectsRawAndCompressed(t *testing.T) {
	raw := make([]byte, 0x20)
	copy(raw, []byte("SARC"))
	require.True(t, isFileSarc(raw))

	compressed := make([]byte, 0x20)
	copy(compressed, []byte("Yaz0"))
	copy(compressed[0x11:], []byte("SARC"))
	require.True(t, isFileSarc(compressed))

	require.False(t, isFileSarc([]byte("short")))
}

func TestParseRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 0x28)
	copy(bad, []byte("XXXX"))
	_, err := Parse(bad)
	require.Error(t, err)
}

func TestGuessMinAlignmentMatchesWriterChoice(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.AddFile("plain.bin", []byte("abcdefgh"))

	data, err := w.Write()
	require.NoError(t, err)

	arc, err := Parse(data)
	require.NoError(t, err)
	require.True(t, rbin.IsValidAlignment(arc.GuessMinAlignment()))
	require.Equal(t, w.MinAlignment, arc.GuessMinAlignment())
}
