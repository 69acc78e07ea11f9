package staffdb

// Levenshtein returns the edit distance between a and b, counting
// insertions, deletions and substitutions of runes at cost 1.
func Levenshtein(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	dp := make([][]int, len(s1)+1)
	for i := range dp {
		dp[i] = make([]int, len(s2)+1)
		dp[i][0] = i
	}
	for j := range dp[0] {
		dp[0][j] = j
	}
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}
	return dp[len(s1)][len(s2)]
}
