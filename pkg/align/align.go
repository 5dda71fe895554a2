// Package align measures how far apart two token sequences are.
//
// Distance is the classic Levenshtein edit distance computed over whole
// tokens rather than characters: one substituted word costs 1 no matter how
// many letters differ. Inputs are expected to be short utterances, so the
// full (|a|+1)×(|b|+1) table is kept in memory.
package align

// Distance returns the minimum number of single-element insertions,
// deletions or substitutions needed to turn a into b.
//
// Distance is symmetric, is zero iff a and b are element-wise equal and
// satisfies the triangle inequality.
func Distance[T comparable](a, b []T) int {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
		dp[i][0] = i
	}
	for j := 0; j <= m; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			dp[i][j] = min(
				dp[i-1][j]+1,      // delete
				dp[i][j-1]+1,      // insert
				dp[i-1][j-1]+cost, // substitute or match
			)
		}
	}
	return dp[n][m]
}

// WordErrorRate returns Distance(expected, actual) divided by the number of
// expected tokens. The result lies in [0, ∞); it exceeds 1 when the actual
// sequence carries many insertions. An empty expected sequence yields 0 when
// actual is also empty and len(actual) otherwise.
func WordErrorRate(expected, actual []string) float64 {
	d := Distance(expected, actual)
	if len(expected) == 0 {
		return float64(d)
	}
	return float64(d) / float64(len(expected))
}
