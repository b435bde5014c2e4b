package store

import "sync"

// Memo builds a selector that recomputes only when the key derived from its
// input changes. While the key is unchanged, the previously computed value
// is returned as is, so pointer results stay referentially stable.
func Memo[S any, K comparable, V any](key func(S) K, compute func(S) V) func(S) V {
	var (
		mu     sync.Mutex
		valid  bool
		last   K
		cached V
	)

	return func(s S) V {
		k := key(s)

		mu.Lock()
		defer mu.Unlock()

		if valid && k == last {
			return cached
		}

		cached = compute(s)
		last = k
		valid = true
		return cached
	}
}
