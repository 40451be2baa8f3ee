package codes

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry()

	camera := r.GetOrCreate("camera")
	door := r.GetOrCreate("door")
	require.Equal(t, Code(0), camera)
	require.Equal(t, Code(1), door)
	require.Equal(t, camera, r.GetOrCreate("camera"))
	require.Equal(t, 2, r.Len())

	code, ok := r.Lookup("door")
	require.True(t, ok)
	require.Equal(t, door, code)

	_, ok = r.Lookup("vault")
	require.False(t, ok)
	require.Equal(t, 2, r.Len())
}

func TestRegistry_GetOrCreateConcurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	results := make([][]Code, 8)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				results[g] = append(results[g], r.GetOrCreate(fmt.Sprintf("alarm-%d", i)))
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 50, r.Len())
	for g := 1; g < len(results); g++ {
		require.Equal(t, results[0], results[g])
	}
	seen := make(map[Code]bool)
	for _, c := range results[0] {
		require.Less(t, uint64(c), uint64(50))
		require.False(t, seen[c])
		seen[c] = true
	}
}

func TestRegistry_Latch(t *testing.T) {
	t.Run("InsertIdempotent", func(t *testing.T) {
		once := NewRegistry()
		twice := NewRegistry()

		require.True(t, once.Insert(3))
		require.True(t, twice.Insert(3))
		require.False(t, twice.Insert(3))

		require.Equal(t, once.Active(), twice.Active())
		require.True(t, twice.Contains(3))
		require.False(t, twice.Contains(4))
	})

	t.Run("ConsumeOnce", func(t *testing.T) {
		r := NewRegistry()
		r.Insert(5)
		require.True(t, r.Consume(5))
		require.False(t, r.Consume(5))
		require.False(t, r.Contains(5))
	})

	t.Run("ActiveSorted", func(t *testing.T) {
		r := NewRegistry(WithShards(3))
		for _, c := range []Code{9, 2, 40, 7} {
			r.Insert(c)
		}
		require.Equal(t, []Code{2, 7, 9, 40}, r.Active())
	})

	t.Run("ConcurrentInsert", func(t *testing.T) {
		r := NewRegistry()
		var wg sync.WaitGroup
		for g := 0; g < 16; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for c := Code(0); c < 100; c++ {
					r.Insert(c)
					_ = r.Contains(c)
				}
			}()
		}
		wg.Wait()
		require.Len(t, r.Active(), 100)
	})
}

func TestRegistry_Interact(t *testing.T) {
	require.True(t, NewRegistry().Interact(1, 2))

	r := NewRegistry(WithInteraction(func(passive, active Code) bool { return passive == active }))
	require.True(t, r.Interact(4, 4))
	require.False(t, r.Interact(4, 5))

	require.True(t, NewRegistry(WithInteraction(nil)).Interact(0, 1))
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	session := r.Session()
	r.GetOrCreate("camera")
	r.GetOrCreate("door")
	r.Insert(1)

	r.Reset()

	require.NotEqual(t, session, r.Session())
	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Active())
	require.Equal(t, Code(0), r.GetOrCreate("door"))
}

func TestWatcher(t *testing.T) {
	t.Run("FiresOnce", func(t *testing.T) {
		r := NewRegistry()
		w := NewWatcher("door", r.GetOrCreate("camera"))

		require.False(t, w.Poll(r))
		r.Insert(w.Code)
		require.True(t, w.Poll(r))
		require.False(t, w.Poll(r))
		require.True(t, r.Contains(w.Code))
	})

	t.Run("Consumes", func(t *testing.T) {
		r := NewRegistry()
		w := NewConsumeWatcher("siren", r.GetOrCreate("camera"))

		r.Insert(w.Code)
		require.True(t, w.Poll(r))
		require.False(t, r.Contains(w.Code))
		require.False(t, w.Poll(r))

		r.Insert(w.Code)
		require.True(t, w.Poll(r))
	})
}
