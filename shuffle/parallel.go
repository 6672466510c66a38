package shuffle

import (
	"runtime"
	"sync"

	"github.com/openvote/cryptocore/group"
)

// parallelRange runs fn over [0, n) partitioned across the available cores.
// Every index is independent; any schedule produces the same result.
func parallelRange(n int, fn func(i int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// parallelProduct multiplies term(0) .. term(n-1) with per-core partial
// products.
func parallelProduct[E any](g group.Group[E], n int, term func(i int) E) E {
	factors := make([]E, n)
	parallelRange(n, func(i int) {
		factors[i] = term(i)
	})
	return group.Product(g, factors)
}
