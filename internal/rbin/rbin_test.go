package rbin

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU24Roundtrip(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		order binary.ByteOrder
		want  []byte
	}{
		{"little endian", 0x800000, binary.LittleEndian, []byte{0x00, 0x00, 0x80}},
		{"big endian", 0x800000, binary.BigEndian, []byte{0x80, 0x00, 0x00}},
		{"zero", 0, binary.LittleEndian, []byte{0, 0, 0}},
		{"max", 0xFFFFFF, binary.BigEndian, []byte{0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 3)
			WriteU24(b, tt.order, tt.value)
			require.Equal(t, tt.want, b)
			require.Equal(t, tt.value, ReadU24(b, tt.order))
		})
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		pos, a, want uint64
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{0x1001, 0x2000, 0x2000},
		{5, 0, 5},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Align(tt.pos, tt.a))
	}
}

func TestIsValidAlignment(t *testing.T) {
	require.True(t, IsValidAlignment(1))
	require.True(t, IsValidAlignment(4))
	require.True(t, IsValidAlignment(0x2000))
	require.False(t, IsValidAlignment(0))
	require.False(t, IsValidAlignment(3))
	require.False(t, IsValidAlignment(6))
}

func TestLCM(t *testing.T) {
	require.Equal(t, uint64(12), LCM(4, 6))
	require.Equal(t, uint64(4), LCM(0, 4))
	require.Equal(t, uint64(4), LCM(4, 0))
	require.Equal(t, uint64(0x2000), LCM(4, 0x2000))
}

func TestReaderFixedWidth(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x80, 0x3f}
	r := NewReader(data, binary.LittleEndian)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), u32)

	i32, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-1), i32)

	f32, err := r.ReadF32()
	require.NoError(t, err)
	require.InDelta(t, float32(1.0), f32, 0.0001)
}

func TestReaderInsufficientData(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02}, binary.LittleEndian)
	_, err := r.ReadU32()
	require.Error(t, err)
}

func TestReaderNulTerminatedString(t *testing.T) {
	data := []byte("hello\x00world\x00")
	r := NewReader(data, binary.LittleEndian)

	s, err := r.NulTerminatedStringAt(0)
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	s, err = r.NulTerminatedStringAt(6)
	require.NoError(t, err)
	require.Equal(t, "world", s)

	_, err = r.NulTerminatedStringAt(100)
	require.Error(t, err)
}

func TestReaderUnterminatedString(t *testing.T) {
	r := NewReader([]byte("no-nul-here"), binary.LittleEndian)
	_, err := r.NulTerminatedStringAt(0)
	require.Error(t, err)
}

func TestSinkBackpatch(t *testing.T) {
	s := NewSink(binary.BigEndian)
	s.WriteU32(0) // placeholder
	s.WriteCString("payload")
	end := s.Pos()
	s.PutU32At(0, uint32(end))

	require.Equal(t, uint32(end), binary.BigEndian.Uint32(s.Bytes()[0:4]))
}

func TestSinkPadTo(t *testing.T) {
	s := NewSink(binary.LittleEndian)
	s.WriteBytes([]byte{1, 2, 3})
	s.PadTo(4)
	require.Equal(t, 4, s.Len())
	require.Equal(t, byte(0), s.Bytes()[3])
}

func TestSinkSeekGrows(t *testing.T) {
	s := NewSink(binary.LittleEndian)
	s.SeekTo(8)
	require.Equal(t, 8, s.Len())
	s.WriteU8(0xAB)
	require.Equal(t, 9, s.Len())
	require.Equal(t, byte(0xAB), s.Bytes()[8])
}
