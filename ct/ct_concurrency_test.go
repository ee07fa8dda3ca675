package ct

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Property 7: N goroutines operating on disjoint key ranges observe a final
// state consistent with some linearization of their per-goroutine program
// order — in particular, no lost updates and no cross-goroutine key bleed.
func TestConcurrentDisjointKeyRanges(t *testing.T) {
	tr, err := New(8, 32, WithSubPages(8))
	require.NoError(t, err)
	defer tr.Close()

	const goroutines = 16
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(base int64) {
			defer wg.Done()
			for i := int64(0); i < perGoroutine; i++ {
				key := base + i
				require.NoError(t, tr.Put(key, key*2))
			}
			for i := int64(0); i < perGoroutine; i++ {
				key := base + i
				v, ok := tr.Get(key)
				require.True(t, ok)
				require.Equal(t, key*2, v)
			}
			for i := int64(0); i < perGoroutine; i += 2 {
				key := base + i
				require.True(t, tr.Delete(key))
			}
		}(int64(g) * perGoroutine * 10)
	}
	wg.Wait()

	require.Equal(t, goroutines*perGoroutine/2, tr.Size())
}
