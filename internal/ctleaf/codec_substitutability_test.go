package ctleaf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zipcache/internal/codec"
	"github.com/scigolib/zipcache/internal/codec/codectest"
)

// codecSetFor builds a CodecSet whose only registered codec is algo,
// letting the test drive an otherwise-identical leaf under three
// independently-implemented compressors (software, none, and the
// test-only bzip2 codec tagged as AlgorithmSoftware's slot).
func codecSetFor(t *testing.T, c codec.Codec) *CodecSet {
	t.Helper()
	require.NoError(t, c.Open())
	return NewCodecSet(c.Kind(), map[codec.Algorithm]codec.Codec{c.Kind(): c})
}

// Property 3: replaying the same operation sequence against leaves backed
// by different codecs yields identical Get results for every key.
func TestCodecSubstitutability(t *testing.T) {
	ops := []struct {
		key, val int64
		delete   bool
	}{
		{key: 1, val: 101},
		{key: 2, val: 202},
		{key: 1, val: 999},
		{key: 3, val: 303, delete: false},
		{key: 2, val: 0, delete: true},
		{key: 4, val: 404},
	}

	codecs := []codec.Codec{
		codec.NewSoftware(),
		codec.NewNone(),
		codectest.New(),
	}

	results := make([]map[int64]int64, len(codecs))
	for i, c := range codecs {
		set := codecSetFor(t, c)
		leaf := New(Config{SubPageCount: 4, Capacity: 32, Codecs: set})
		got := make(map[int64]int64)
		for _, o := range ops {
			if o.delete {
				leaf.Delete(o.key)
				continue
			}
			require.NoError(t, leaf.Put(o.key, o.val))
		}
		for _, k := range leaf.Keys() {
			v, ok := leaf.Get(k)
			require.True(t, ok)
			got[k] = v
		}
		results[i] = got
	}

	for i := 1; i < len(results); i++ {
		require.Equal(t, results[0], results[i], "codec %d disagrees with codec 0", i)
	}
}
