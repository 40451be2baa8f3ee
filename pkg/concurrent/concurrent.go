package concurrent

import (
	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every index of items on at most workers goroutines
// and returns the first error encountered. Each call gets its own index, so
// actions may write to per-index slots without locking. workers < 1 means no
// limit.
func ForEach[T any](items []T, workers int, action func(int, T) error) error {
	if len(items) == 0 {
		return nil
	}
	if workers == 1 || len(items) == 1 {
		for i, item := range items {
			if err := action(i, item); err != nil {
				return err
			}
		}
		return nil
	}

	var group errgroup.Group
	if workers > 0 {
		group.SetLimit(workers)
	}
	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			return action(i, item)
		})
	}
	return group.Wait()
}

// Map applies mapFn to every element on at most workers goroutines,
// preserving order.
func Map[T any, R any](items []T, workers int, mapFn func(T) R) []R {
	out := make([]R, len(items))
	_ = ForEach(items, workers, func(i int, item T) error {
		out[i] = mapFn(item)
		return nil
	})
	return out
}
