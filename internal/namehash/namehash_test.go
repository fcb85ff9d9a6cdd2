package namehash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSarcRollingHash(t *testing.T) {
	// h = 0; h = h*mult + byte, per byte, matching the spec's definition
	// literally for a short name.
	var want uint32
	for _, b := range []byte("a.bfres") {
		want = want*DefaultSarcMultiplier + uint32(b)
	}
	require.Equal(t, want, Sarc(DefaultSarcMultiplier, "a.bfres"))
}

func TestSarcHashEmpty(t *testing.T) {
	require.Equal(t, uint32(0), Sarc(DefaultSarcMultiplier, ""))
}

func TestAampHashIsPlainCRC32(t *testing.T) {
	// param_root is the canonical AAMP root name; its hash is a fixed,
	// well-known constant used throughout the parser/writer to validate the
	// root list name.
	require.Equal(t, uint32(0xA4F6CB6C), Aamp("param_root"))
}

func TestAampHashDistinctForDistinctKeys(t *testing.T) {
	require.NotEqual(t, Aamp("Children"), Aamp("Child"))
}
