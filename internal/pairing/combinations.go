package pairing

// combinations enumerates every non-empty subset of aliases, preserving
// input order within each subset. Explicit backtracking over indices
// keeps the 2^n-1 bound tied to the per-match roster size, which is a
// small constant; this must never run over the full tracked-player set.
func combinations(aliases []string) [][]string {
	if len(aliases) == 0 {
		return nil
	}
	result := make([][]string, 0, (1<<len(aliases))-1)
	current := make([]string, 0, len(aliases))

	var backtrack func(start int)
	backtrack = func(start int) {
		for i := start; i < len(aliases); i++ {
			current = append(current, aliases[i])
			subset := make([]string, len(current))
			copy(subset, current)
			result = append(result, subset)
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}
	backtrack(0)
	return result
}
