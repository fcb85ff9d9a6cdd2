package yaz0

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func header(decompressedSize uint32) []byte {
	h := make([]byte, headerSize)
	copy(h, magic[:])
	h[4] = byte(decompressedSize >> 24)
	h[5] = byte(decompressedSize >> 16)
	h[6] = byte(decompressedSize >> 8)
	h[7] = byte(decompressedSize)
	return h
}

func TestIsCompressed(t *testing.T) {
	require.True(t, IsCompressed([]byte("Yaz0rest-of-file")))
	require.False(t, IsCompressed([]byte("SARCrest-of-file")))
	require.False(t, IsCompressed([]byte("Ya")))
}

func TestMaybeDecompressPassthrough(t *testing.T) {
	data := []byte("SARC is not Yaz0 compressed")
	out, err := MaybeDecompress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestDecompressAllLiterals(t *testing.T) {
	payload := []byte{0xFF, 'h', 'e', 'l', 'l', 'o', 'w', 'o'} // group byte with all 8 bits set, 7 literal bytes (only 7 needed)
	data := append(header(7), payload...)

	out, err := Decompress(data)
	require.NoError(t, err)
	require.Equal(t, []byte("hellowo")[:7], out)
}

func TestDecompressBackReference(t *testing.T) {
	// decompressed = "ABCABC": 3 literals then one back-reference of
	// length 3 at distance 3.
	groupByte := byte(0b11100000)
	data := append(header(6), groupByte, 'A', 'B', 'C', 0x10, 0x02)

	out, err := Decompress(data)
	require.NoError(t, err)
	require.Equal(t, []byte("ABCABC"), out)
}

func TestDecompressExtendedLength(t *testing.T) {
	// A single back-reference whose nibble is 0 carries an extra length
	// byte: length = extra + 0x12. Seed the output with 4 literal 'A's,
	// then back-reference distance 1 (repeats the last byte) for a long
	// run, producing "AAAA" + 0x12 more 'A's = 22 bytes total.
	groupByte1 := byte(0b11110000) // 4 literal bits, then a back-ref bit
	data := append(header(22), groupByte1, 'A', 'A', 'A', 'A')
	// back-reference: nibble 0, dist-1 = 0 (distance 1), extra length byte 0
	data = append(data, 0x00, 0x00, 0x00)

	out, err := Decompress(data)
	require.NoError(t, err)
	require.Len(t, out, 22)
	for _, b := range out {
		require.Equal(t, byte('A'), b)
	}
}

func TestDecompressBadMagic(t *testing.T) {
	_, err := Decompress([]byte("SARCxxxxxxxxxxxx"))
	require.Error(t, err)
	var magicErr *MagicError
	require.ErrorAs(t, err, &magicErr)
}

func TestDecompressTruncated(t *testing.T) {
	_, err := Decompress([]byte("Yaz0"))
	require.Error(t, err)
}
