package lexicon

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/combin"
)

// WordCombinationsByCount returns every distinct non-empty sub-multiset of
// rack's tiles, grouped by size. Tiles are sorted first so repeated letters
// collapse into one representative; each group is sorted.
func WordCombinationsByCount(rack string) map[int][]string {
	tiles := []byte(rack)
	slices.Sort(tiles)
	n := len(tiles)
	seen := make(map[string]struct{})
	buf := make([]byte, 0, n)
	for k := 1; k <= n; k++ {
		for _, combo := range combin.Combinations(n, k) {
			buf = buf[:0]
			for _, i := range combo {
				buf = append(buf, tiles[i])
			}
			seen[string(buf)] = struct{}{}
		}
	}
	byCount := lo.GroupBy(lo.Keys(seen), func(s string) int { return len(s) })
	for _, group := range byCount {
		slices.Sort(group)
	}
	return byCount
}
