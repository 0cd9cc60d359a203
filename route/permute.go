package route

// Permutations calls fn for every ordering of 0..n-1 in lexicographic order,
// passing the ordering's 0-based ordinal. Enumeration stops early when fn
// returns false. n == 0 yields exactly one (empty) ordering.
//
// perm is reused between calls; copy it to keep it.
//
// Complexity: O(n!·n) time, O(n) memory.
func Permutations(n int, fn func(ordinal int, perm []int) bool) {
	if n < 0 {
		return
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for ordinal := 0; ; ordinal++ {
		if !fn(ordinal, perm) {
			return
		}
		if !nextPermutation(perm) {
			return
		}
	}
}

// Count returns n!, the number of orderings Permutations produces.
func Count(n int) int {
	c := 1
	for i := 2; i <= n; i++ {
		c *= i
	}

	return c
}

// nextPermutation rearranges p into its lexicographic successor in place.
// Returns false when p is already the last ordering.
func nextPermutation(p []int) bool {
	// 1) Find the rightmost ascent p[i] < p[i+1].
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	// 2) Swap p[i] with the rightmost element greater than it.
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]

	// 3) Reverse the descending suffix.
	for a, b := i+1, len(p)-1; a < b; a, b = a+1, b-1 {
		p[a], p[b] = p[b], p[a]
	}

	return true
}
