// Package parallel provides parallel execution helpers.
package parallel

import (
	"runtime"
	"sync"
)

// NumWorkers returns the default number of workers for parallel operations.
func NumWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// ParallelMap applies fn to each index in [start, end) using n workers and
// collects the results in index order.
func ParallelMap[T any](start, end, n int, fn func(i int) T) []T {
	if end <= start {
		return nil
	}
	results := make([]T, end-start)

	if n <= 1 {
		for i := start; i < end; i++ {
			results[i-start] = fn(i)
		}
		return results
	}

	var wg sync.WaitGroup
	chunkSize := (end - start + n - 1) / n

	for w := 0; w < n; w++ {
		chunkStart := start + w*chunkSize
		chunkEnd := chunkStart + chunkSize
		if chunkEnd > end {
			chunkEnd = end
		}
		if chunkStart >= chunkEnd {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				results[i-start] = fn(i)
			}
		}(chunkStart, chunkEnd)
	}

	wg.Wait()
	return results
}
