package ct

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S1: basic eager software-codec put/get.
func TestScenarioS1EagerSoftware(t *testing.T) {
	tr, err := New(8, 32, WithSubPages(4), WithAlgorithm(AlgorithmSoftware))
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Put(1, 101))
	require.NoError(t, tr.Put(5, 105))
	require.NoError(t, tr.Put(9, 109))
	require.NoError(t, tr.Put(13, 113))

	for k, want := range map[int64]int64{1: 101, 5: 105, 9: 109, 13: 113} {
		v, ok := tr.Get(k)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

// S2: hardware algorithm requested, facade falls back to software.
func TestScenarioS2HardwareFallback(t *testing.T) {
	tr, err := New(8, 32, WithSubPages(4), WithAlgorithm(AlgorithmHardware))
	require.NoError(t, err)
	defer tr.Close()

	require.Equal(t, AlgorithmSoftware, tr.Algorithm())

	require.NoError(t, tr.Put(2, 202))
	require.NoError(t, tr.Put(6, 206))
	require.NoError(t, tr.Put(10, 210))

	for k, want := range map[int64]int64{2: 202, 6: 206, 10: 210} {
		v, ok := tr.Get(k)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

// S3: lazy compression over a large key range.
func TestScenarioS3LazyBulkInsert(t *testing.T) {
	tr, err := New(16, 32,
		WithSubPages(16),
		WithLazyCompression(true),
		WithFlushThreshold(28),
		WithBufferSize(32),
	)
	require.NoError(t, err)
	defer tr.Close()

	for i := int64(1); i <= 1000; i++ {
		require.NoError(t, tr.Put(i, i*10))
	}
	for i := int64(1); i <= 1000; i++ {
		v, ok := tr.Get(i)
		require.True(t, ok)
		require.Equal(t, i*10, v)
	}
}

// S4: deletes over the S3 tree.
func TestScenarioS4LazyBulkDelete(t *testing.T) {
	tr, err := New(16, 32,
		WithSubPages(16),
		WithLazyCompression(true),
		WithFlushThreshold(28),
		WithBufferSize(32),
	)
	require.NoError(t, err)
	defer tr.Close()

	for i := int64(1); i <= 1000; i++ {
		require.NoError(t, tr.Put(i, i*10))
	}
	for i := int64(1); i <= 500; i += 2 {
		require.True(t, tr.Delete(i))
	}
	for i := int64(1); i <= 1000; i++ {
		v, ok := tr.Get(i)
		switch {
		case i <= 499 && i%2 == 1:
			require.False(t, ok, "key %d should be absent", i)
		default:
			require.True(t, ok, "key %d should be present", i)
			require.Equal(t, i*10, v)
		}
	}
}

// S5: repeated payload compresses well under the software codec.
func TestScenarioS5CompressionRatio(t *testing.T) {
	tr, err := New(16, 64, WithSubPages(16), WithAlgorithm(AlgorithmSoftware))
	require.NoError(t, err)
	defer tr.Close()

	for i := int64(0); i < 1000; i++ {
		require.NoError(t, tr.Put(i, 42))
	}
	stats := tr.Stats()
	require.Less(t, stats.Compressed, stats.Uncompressed)
	ratio := float64(stats.Uncompressed) / float64(stats.Compressed)
	require.Greater(t, ratio, 2.0)
}
