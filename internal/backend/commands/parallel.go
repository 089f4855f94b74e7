package commands

import (
	"runtime"
	"sync"
)

// parallelRows runs fn(y) for every y in [0, n) using up to GOMAXPROCS workers.
// Rows are distributed by striding; fn must only touch its own row.
func parallelRows(n int, fn func(y int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for y := w; y < n; y += workers {
				fn(y)
			}
		}()
	}
	wg.Wait()
}
