package byml

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func buildSampleDocument() Byml {
	root := NewHash()
	root.Set("Name", String("Link"))
	root.Set("Health", I32(20))
	root.Set("Flags", U32(0xdeadbeef))
	root.Set("Speed", NewFloat(5.5))
	root.Set("Seed", NewI64(-123456789012345))
	root.Set("Mask", NewU64(0xfeedfacecafebeef))
	root.Set("Precision", NewDouble(3.1415926535))
	root.Set("Active", Bool(true))
	root.Set("Payload", NewBinaryData([]byte{0x01, 0x02, 0x03, 0xff}))

	items := NewArray(
		String("sword"),
		String("shield"),
		I32(3),
	)
	root.Set("Inventory", items)

	nested := NewHash()
	nested.Set("X", I32(1))
	nested.Set("Y", I32(2))
	root.Set("Position", nested)

	return root
}

func TestRoundTripLittleEndian(t *testing.T) {
	doc := buildSampleDocument()
	data, err := Write(doc, binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, "YB", string(data[:2]))

	parsed, err := Parse(data)
	require.NoError(t, err)
	h, ok := parsed.(*Hash)
	require.True(t, ok)

	name, ok := h.Get("Name")
	require.True(t, ok)
	require.Equal(t, String("Link"), name)

	seed, ok := h.Get("Seed")
	require.True(t, ok)
	require.Equal(t, int64(-123456789012345), seed.(*I64).Value)

	mask, ok := h.Get("Mask")
	require.True(t, ok)
	require.Equal(t, uint64(0xfeedfacecafebeef), mask.(*U64).Value)

	precision, ok := h.Get("Precision")
	require.True(t, ok)
	require.InDelta(t, 3.1415926535, precision.(*Double).Value, 1e-9)

	payload, ok := h.Get("Payload")
	require.True(t, ok)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0xff}, payload.(*BinaryData).Bytes)

	inventory, ok := h.Get("Inventory")
	require.True(t, ok)
	arr := inventory.(*Array)
	require.Len(t, arr.Items, 3)
	require.Equal(t, String("sword"), arr.Items[0])
}

func TestRoundTripBigEndian(t *testing.T) {
	doc := buildSampleDocument()
	data, err := Write(doc, binary.BigEndian)
	require.NoError(t, err)
	require.Equal(t, "BY", string(data[:2]))

	parsed, err := Parse(data)
	require.NoError(t, err)
	h, ok := parsed.(*Hash)
	require.True(t, ok)
	health, ok := h.Get("Health")
	require.True(t, ok)
	require.Equal(t, I32(20), health)
}

func TestEmptyDocumentRoundTrip(t *testing.T) {
	data, err := Write(Null{}, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, data, headerSize)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, Null{}, parsed)
}

func TestWriteDedupesSharedNonInlineNode(t *testing.T) {
	shared := NewArray(String("shared"))
	root := NewHash()
	root.Set("a", shared)
	root.Set("b", shared)

	data, err := Write(root, binary.LittleEndian)
	require.NoError(t, err)

	// Both hash entries ("a" then "b", 8 bytes each after the 4-byte
	// container header) point at the same emitted array.
	rootOff := binary.LittleEndian.Uint32(data[12:16])
	slotA := binary.LittleEndian.Uint32(data[rootOff+8:])
	slotB := binary.LittleEndian.Uint32(data[rootOff+16:])
	require.Equal(t, slotA, slotB)

	parsed, err := Parse(data)
	require.NoError(t, err)
	h := parsed.(*Hash)
	a, _ := h.Get("a")
	b, _ := h.Get("b")
	require.Equal(t, a, b)
}

func TestParseRejectsBadMagic(t *testing.T) {
	bad := make([]byte, headerSize)
	copy(bad, []byte("XX"))
	_, err := Parse(bad)
	require.Error(t, err)
}

func TestParseRejectsBadVersion(t *testing.T) {
	data := make([]byte, headerSize)
	copy(data, []byte("YB"))
	binary.LittleEndian.PutUint16(data[2:], 99)
	_, err := Parse(data)
	require.Error(t, err)
}

func TestNaNCanonicalizationMakesFloatEqualityTotal(t *testing.T) {
	a := NewFloat(math.Float32frombits(0x7fc00123))
	b := NewFloat(math.Float32frombits(0xffc00000))
	require.Equal(t, math.Float32bits(float32(a)), math.Float32bits(float32(b)))

	da := NewDouble(math.Float64frombits(0x7ff8000000000321))
	db := NewDouble(math.Float64frombits(0xfff8000000000000))
	require.Equal(t, math.Float64bits(da.Value), math.Float64bits(db.Value))
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := buildSampleDocument()

	node, err := MarshalYAML(doc)
	require.NoError(t, err)

	out, err := yaml.Marshal(node)
	require.NoError(t, err)

	var reparsed yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &reparsed))
	require.Equal(t, yaml.DocumentNode, reparsed.Kind)

	back, err := UnmarshalYAML(reparsed.Content[0])
	require.NoError(t, err)

	h := back.(*Hash)
	name, ok := h.Get("Name")
	require.True(t, ok)
	require.Equal(t, String("Link"), name)

	seed, ok := h.Get("Seed")
	require.True(t, ok)
	require.Equal(t, int64(-123456789012345), seed.(*I64).Value)

	mask, ok := h.Get("Mask")
	require.True(t, ok)
	require.Equal(t, uint64(0xfeedfacecafebeef), mask.(*U64).Value)
}

func TestYAMLStringQuotingAvoidsAmbiguity(t *testing.T) {
	cases := []string{"123", "true", "null", "3.14", "~", "plain"}
	for _, c := range cases {
		node, err := MarshalYAML(String(c))
		require.NoError(t, err)
		decoded, err := UnmarshalYAML(node)
		require.NoError(t, err)
		require.Equal(t, String(c), decoded)
	}
}

func TestTextRoundTrip(t *testing.T) {
	doc := buildSampleDocument()

	text, err := ToText(doc)
	require.NoError(t, err)
	require.Contains(t, text, "!l")
	require.Contains(t, text, "!u")

	back, err := FromText(text)
	require.NoError(t, err)
	h := back.(*Hash)

	name, ok := h.Get("Name")
	require.True(t, ok)
	require.Equal(t, String("Link"), name)

	mask, ok := h.Get("Mask")
	require.True(t, ok)
	require.Equal(t, uint64(0xfeedfacecafebeef), mask.(*U64).Value)
}

func TestTextRoundTripOfNull(t *testing.T) {
	text, err := ToText(Null{})
	require.NoError(t, err)

	back, err := FromText(text)
	require.NoError(t, err)
	require.Equal(t, Null{}, back)
}

func TestYAMLSpecialFloatValues(t *testing.T) {
	cases := []float32{
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		float32(math.NaN()),
	}
	for _, f := range cases {
		node, err := MarshalYAML(NewFloat(f))
		require.NoError(t, err)
		decoded, err := UnmarshalYAML(node)
		require.NoError(t, err)
		df := decoded.(Float)
		if math.IsNaN(float64(f)) {
			require.True(t, math.IsNaN(float64(df)))
		} else {
			require.Equal(t, f, float32(df))
		}
	}
}
