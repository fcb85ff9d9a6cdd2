package aamp

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/switchtools/bgpak/internal/namehash"
	"github.com/switchtools/bgpak/internal/rbin"
)

func buildSimpleTree() *ParameterIO {
	pio := NewParameterIO("xml")
	obj := NewParameterObject(namehash.Aamp("TestObj"))
	obj.Set(namehash.Aamp("Flag"), Bool(true))
	obj.Set(namehash.Aamp("Count"), Int(-7))
	obj.Set(namehash.Aamp("Scale"), NewF32(1.5))
	obj.Set(namehash.Aamp("Label"), String32("hello"))
	obj.Set(namehash.Aamp("Tag"), StringRef("a longer free-form tag"))
	obj.Set(namehash.Aamp("Samples"), BufferF32{1, 2, 3})
	pio.Root.SetObject(obj)

	child := NewParameterList(namehash.Aamp("Child0"))
	childObj := NewParameterObject(namehash.Aamp("ChildObj"))
	childObj.Set(namehash.Aamp("Position"), Vec3{X: 1, Y: 2, Z: 3})
	child.SetObject(childObj)
	pio.Root.SetList(child)

	return pio
}

func TestRoundTrip(t *testing.T) {
	pio := buildSimpleTree()

	data, err := Write(pio)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, pio.DataType, parsed.DataType)
	require.Equal(t, pio.Root.Name, parsed.Root.Name)

	obj, ok := parsed.Root.GetObject(namehash.Aamp("TestObj"))
	require.True(t, ok)
	flag, ok := obj.Get(namehash.Aamp("Flag"))
	require.True(t, ok)
	require.Equal(t, Bool(true), flag)
	count, ok := obj.Get(namehash.Aamp("Count"))
	require.True(t, ok)
	require.Equal(t, Int(-7), count)
	label, ok := obj.Get(namehash.Aamp("Label"))
	require.True(t, ok)
	require.Equal(t, String32("hello"), label)
	tag, ok := obj.Get(namehash.Aamp("Tag"))
	require.True(t, ok)
	require.Equal(t, StringRef("a longer free-form tag"), tag)
	samples, ok := obj.Get(namehash.Aamp("Samples"))
	require.True(t, ok)
	require.Equal(t, BufferF32{1, 2, 3}, samples)

	childList, ok := parsed.Root.GetList(namehash.Aamp("Child0"))
	require.True(t, ok)
	childObj, ok := childList.GetObject(namehash.Aamp("ChildObj"))
	require.True(t, ok)
	pos, ok := childObj.Get(namehash.Aamp("Position"))
	require.True(t, ok)
	require.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, pos)
}

func TestWriteDedupesRepeatedDataPayload(t *testing.T) {
	pio := NewParameterIO("xml")
	obj := NewParameterObject(namehash.Aamp("Obj"))
	obj.Set(namehash.Aamp("A"), NewF32(42))
	obj.Set(namehash.Aamp("B"), NewF32(42))
	obj.Set(namehash.Aamp("C"), NewF32(43))
	pio.Root.SetObject(obj)

	data, err := Write(pio)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	po, ok := parsed.Root.GetObject(namehash.Aamp("Obj"))
	require.True(t, ok)
	a, _ := po.Get(namehash.Aamp("A"))
	b, _ := po.Get(namehash.Aamp("B"))
	c, _ := po.Get(namehash.Aamp("C"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	// A and B share one data-section payload: only two are emitted.
	w := &writer{
		s:             rbin.NewSink(binary.LittleEndian),
		listOffsets:   make(map[*ParameterList]int),
		objectOffsets: make(map[*ParameterObject]int),
		paramBase:     make(map[*ParameterObject]int),
	}
	w.s.SeekTo(headerSize)
	require.NoError(t, w.emitListHeaders(pio.Root))
	require.NoError(t, w.emitObjectHeaders(pio.Root))
	require.NoError(t, w.emitParamHeaders(pio.Root))
	w.walk(pio.Root)
	require.NoError(t, w.emitData())
	require.Len(t, w.dataQueue, 3)
	require.Len(t, w.dataOffsets, 2)
}

func TestWriteDedupesRepeatedString(t *testing.T) {
	pio := NewParameterIO("xml")
	obj := NewParameterObject(namehash.Aamp("Obj"))
	obj.Set(namehash.Aamp("S1"), StringRef("shared"))
	obj.Set(namehash.Aamp("S2"), StringRef("shared"))
	pio.Root.SetObject(obj)

	data, err := Write(pio)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	po, _ := parsed.Root.GetObject(namehash.Aamp("Obj"))
	s1, _ := po.Get(namehash.Aamp("S1"))
	s2, _ := po.Get(namehash.Aamp("S2"))
	require.Equal(t, s1, s2)

	// S1 and S2 share one string-section entry.
	w := &writer{
		s:             rbin.NewSink(binary.LittleEndian),
		listOffsets:   make(map[*ParameterList]int),
		objectOffsets: make(map[*ParameterObject]int),
		paramBase:     make(map[*ParameterObject]int),
	}
	w.s.SeekTo(headerSize)
	require.NoError(t, w.emitListHeaders(pio.Root))
	require.NoError(t, w.emitObjectHeaders(pio.Root))
	require.NoError(t, w.emitParamHeaders(pio.Root))
	w.walk(pio.Root)
	require.NoError(t, w.emitStrings())
	require.Len(t, w.stringQueue, 2)
	require.Len(t, w.stringOffsets, 1)
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte("NOPE12345678901234567890123456789012345678901234"))
	require.Error(t, err)
}

func TestParseRejectsWrongRootName(t *testing.T) {
	pio := NewParameterIO("xml")
	pio.Root = NewParameterList(namehash.Aamp("not_param_root"))
	data, err := Write(pio)
	require.NoError(t, err)

	_, err = Parse(data)
	require.ErrorContains(t, err, "No param root found in parameter archive")
}

func TestAIProgramHeuristicSuppressesTopObjects(t *testing.T) {
	pio := NewParameterIO("xml")
	demo := NewParameterObject(namehash.Aamp("DemoAIActionIdx"))
	demo.Set(namehash.Aamp("Index"), Int(0))
	pio.Root.SetObject(demo)
	for i := 0; i < 3; i++ {
		child := NewParameterList(namehash.Aamp("AI" + string(rune('A'+i))))
		obj := NewParameterObject(namehash.Aamp("Body"))
		obj.Set(namehash.Aamp("Value"), Int(int32(i)))
		child.SetObject(obj)
		pio.Root.SetList(child)
	}

	w := &writer{
		listOffsets:   make(map[*ParameterList]int),
		objectOffsets: make(map[*ParameterObject]int),
		paramBase:     make(map[*ParameterObject]int),
	}
	require.True(t, w.isAIProgram(pio.Root))

	// No root object is queued before descent: the three child lists'
	// Value parameters come first, the root's Index parameter last.
	w.s = rbin.NewSink(binary.LittleEndian)
	w.s.SeekTo(headerSize)
	require.NoError(t, w.emitListHeaders(pio.Root))
	require.NoError(t, w.emitObjectHeaders(pio.Root))
	require.NoError(t, w.emitParamHeaders(pio.Root))
	w.walk(pio.Root)
	require.Len(t, w.dataQueue, 4)
	require.Equal(t, namehash.Aamp("Value"), w.dataQueue[0].name)
	require.Equal(t, namehash.Aamp("Index"), w.dataQueue[3].name)

	data, err := Write(pio)
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, parsed.Root.Objects(), 1)
	require.Len(t, parsed.Root.Lists(), 3)
}

func TestCollectionWalkInterleavesObjectsAtEveryLevel(t *testing.T) {
	// root -> A (object PA, children GC0, GC1)
	//            GC0 (object PG0)
	//            GC1 (object PG1)
	// The even-index object-before-child injection (spec.md §4.9 pass-4
	// step 3) must fire for A's own object/children pair even though A is
	// reached through a recursive (non-top) walkList call, not just for the
	// root list.
	root := NewParameterList(RootName)

	a := NewParameterList(namehash.Aamp("A"))
	aObj := NewParameterObject(namehash.Aamp("AObj"))
	aObj.Set(namehash.Aamp("PA"), Int(1))
	a.SetObject(aObj)

	gc0 := NewParameterList(namehash.Aamp("GC0"))
	g0Obj := NewParameterObject(namehash.Aamp("G0Obj"))
	g0Obj.Set(namehash.Aamp("PG0"), Int(2))
	gc0.SetObject(g0Obj)

	gc1 := NewParameterList(namehash.Aamp("GC1"))
	g1Obj := NewParameterObject(namehash.Aamp("G1Obj"))
	g1Obj.Set(namehash.Aamp("PG1"), Int(3))
	gc1.SetObject(g1Obj)

	a.SetList(gc0)
	a.SetList(gc1)
	root.SetList(a)

	pio := &ParameterIO{Version: 2, DataType: "xml", Root: root}

	data, err := Write(pio)
	require.NoError(t, err)

	w := &writer{
		s:             rbin.NewSink(binary.LittleEndian),
		listOffsets:   make(map[*ParameterList]int),
		objectOffsets: make(map[*ParameterObject]int),
		paramBase:     make(map[*ParameterObject]int),
	}
	w.s.SeekTo(headerSize)
	require.NoError(t, w.emitListHeaders(root))
	require.NoError(t, w.emitObjectHeaders(root))
	require.NoError(t, w.emitParamHeaders(root))
	w.walk(root)

	require.Len(t, w.dataQueue, 3)
	require.Equal(t, namehash.Aamp("PA"), w.dataQueue[0].name)
	require.Equal(t, namehash.Aamp("PG0"), w.dataQueue[1].name)
	require.Equal(t, namehash.Aamp("PG1"), w.dataQueue[2].name)

	parsed, err := Parse(data)
	require.NoError(t, err)
	childA, ok := parsed.Root.GetList(namehash.Aamp("A"))
	require.True(t, ok)
	obj, ok := childA.GetObject(namehash.Aamp("AObj"))
	require.True(t, ok)
	val, ok := obj.Get(namehash.Aamp("PA"))
	require.True(t, ok)
	require.Equal(t, Int(1), val)
}

func TestNaNCanonicalizationMakesEqualityTotal(t *testing.T) {
	nan1 := NewF32(math.Float32frombits(0x7fc00123))
	nan2 := NewF32(math.Float32frombits(0xffc00000))
	require.Equal(t, math.Float32bits(float32(nan1)), math.Float32bits(float32(nan2)))
	require.Equal(t, nan1.canonicalBytes(), nan2.canonicalBytes())
}
