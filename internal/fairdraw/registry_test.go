package fairdraw

import (
	"sync"
	"testing"
)

func TestRegistrySerializesDrawsPerMatch(t *testing.T) {
	t.Parallel()

	const (
		numMin = 1
		numMax = 90
	)

	registry := NewRegistry()
	registry.Set("m1", NewNumberDrawer(numMin, numMax, "abc123"))

	var (
		mu    sync.Mutex
		drawn []int
		wg    sync.WaitGroup
	)

	for i := 0; i < numMax-numMin+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := registry.Do("m1", nil, func(drawer *NumberDrawer, _ func()) error {
				number, ok := drawer.DrawNext()
				if !ok {
					return nil
				}

				mu.Lock()
				drawn = append(drawn, number)
				mu.Unlock()

				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if len(drawn) != numMax-numMin+1 {
		t.Fatalf("unexpected draw count, want: %d, got: %d", numMax-numMin+1, len(drawn))
	}

	seen := make(map[int]bool)
	for _, n := range drawn {
		if seen[n] {
			t.Fatalf("number %d drawn twice under concurrency", n)
		}
		seen[n] = true
	}
}

func TestRegistryRebuildsMissingDrawer(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	rebuilds := 0
	rebuild := func() (*NumberDrawer, error) {
		rebuilds++
		return Replay(1, 5, "abc123", 2), nil
	}

	want, _ := Replay(1, 5, "abc123", 2).DrawNext()

	err := registry.Do("m1", rebuild, func(drawer *NumberDrawer, _ func()) error {
		got, ok := drawer.DrawNext()
		if !ok {
			t.Error("rebuilt drawer exhausted unexpectedly")
		}
		if got != want {
			t.Errorf("unexpected draw after rebuild, want: %d, got: %d", want, got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second call reuses the registered drawer.
	err = registry.Do("m1", rebuild, func(drawer *NumberDrawer, _ func()) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rebuilds != 1 {
		t.Errorf("unexpected rebuild count, want: 1, got: %d", rebuilds)
	}
}

func TestRegistryDropForgetsDrawer(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Set("m1", NewNumberDrawer(1, 5, "abc123"))
	registry.Drop("m1")

	rebuilt := false
	err := registry.Do("m1", func() (*NumberDrawer, error) {
		rebuilt = true
		return NewNumberDrawer(1, 5, "abc123"), nil
	}, func(drawer *NumberDrawer, _ func()) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rebuilt {
		t.Error("dropped drawer was not rebuilt")
	}
}

func TestRegistryInvalidateClearsDrawerUnderLock(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Set("m1", NewNumberDrawer(1, 5, "abc123"))

	first, _ := NewNumberDrawer(1, 5, "abc123").DrawNext()

	// The drawer advances but the ledger write fails: the sequence position
	// must be thrown away, not left one ahead of the ledger.
	err := registry.Do("m1", nil, func(drawer *NumberDrawer, invalidate func()) error {
		if _, ok := drawer.DrawNext(); !ok {
			t.Fatal("drawer exhausted unexpectedly")
		}

		invalidate()

		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rebuilds := 0
	rebuild := func() (*NumberDrawer, error) {
		rebuilds++
		// Empty ledger: nothing was persisted before the failure.
		return Rebuild(1, 5, "abc123", nil), nil
	}

	err = registry.Do("m1", rebuild, func(drawer *NumberDrawer, _ func()) error {
		got, ok := drawer.DrawNext()
		if !ok {
			t.Error("rebuilt drawer exhausted unexpectedly")
		}
		if got != first {
			t.Errorf("draw after failed append, want first committed number %d, got: %d", first, got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rebuilds != 1 {
		t.Errorf("unexpected rebuild count, want: 1, got: %d", rebuilds)
	}
}

func TestRegistryInvalidateSerializesWithWaiters(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Set("m1", NewNumberDrawer(1, 90, "abc123"))

	first, _ := NewNumberDrawer(1, 90, "abc123").DrawNext()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		drawn []int
	)

	rebuild := func() (*NumberDrawer, error) {
		return Rebuild(1, 90, "abc123", nil), nil
	}

	// Every caller's write fails after its drawer advanced, so nothing is
	// ever persisted and each caller must observe the first committed
	// number. Seeing a later number means a waiter reused the diverged
	// drawer instead of rebuilding from the empty ledger.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_ = registry.Do("m1", rebuild, func(drawer *NumberDrawer, invalidate func()) error {
				number, ok := drawer.DrawNext()
				if !ok {
					return nil
				}

				mu.Lock()
				drawn = append(drawn, number)
				mu.Unlock()

				invalidate()

				return nil
			})
		}()
	}

	wg.Wait()

	for _, number := range drawn {
		if number != first {
			t.Fatalf("stale drawer survived invalidation, want: %d, got: %d", first, number)
		}
	}
}
