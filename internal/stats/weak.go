package stats

import (
	"sort"

	"github.com/Shamsear/typevelocity/internal/model"
)

// SelectWeakKeys selects the most frequently mistyped keys from an error table.
func SelectWeakKeys(table model.KeyErrorTable, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if len(table) == 0 {
		return weakSet
	}
	type candidate struct {
		key   string
		count int
	}
	candidates := make([]candidate, 0, len(table))
	for key, count := range table {
		if count <= 0 {
			continue
		}
		candidates = append(candidates, candidate{key: key, count: count})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count == candidates[j].count {
			return candidates[i].key < candidates[j].key
		}
		return candidates[i].count > candidates[j].count
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].key)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}
