package analytics

// Pick returns one uniformly random element of pool. intn must return a
// value in [0, n); callers inject a seeded source in tests.
func Pick[T any](pool []T, intn func(n int) int) (T, bool) {
	var zero T
	if len(pool) == 0 {
		return zero, false
	}
	if len(pool) == 1 {
		return pool[0], true
	}
	return pool[intn(len(pool))], true
}
