// Package heatmap tracks mistyped keys and renders them on a keyboard.
package heatmap

import (
	"sort"
	"strings"
	"unicode"

	"github.com/Shamsear/typevelocity/internal/model"
)

// Intensity buckets a key's error count relative to the worst key.
type Intensity int

const (
	// None means the key has no recorded errors.
	None Intensity = iota
	// Low is at most a third of the worst key.
	Low
	// Medium is at most two thirds of the worst key.
	Medium
	// High is above two thirds of the worst key.
	High
)

// String implements fmt.Stringer.
func (i Intensity) String() string {
	switch i {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "none"
	}
}

// Table counts errors per lowercase key.
type Table struct {
	counts model.KeyErrorTable
}

// NewTable wraps counts. A nil map starts empty.
func NewTable(counts model.KeyErrorTable) *Table {
	if counts == nil {
		counts = model.KeyErrorTable{}
	}
	return &Table{counts: counts}
}

// Key normalises a typed rune to its table key.
func Key(r rune) string {
	return string(unicode.ToLower(r))
}

// Record increments the error count for r.
func (t *Table) Record(r rune) {
	t.counts[Key(r)]++
}

// Reset clears every count.
func (t *Table) Reset() {
	t.counts = model.KeyErrorTable{}
}

// Count returns the errors recorded for key.
func (t *Table) Count(key string) int {
	return t.counts[strings.ToLower(key)]
}

// Counts returns the underlying table.
func (t *Table) Counts() model.KeyErrorTable {
	return t.counts
}

// Total sums every count.
func (t *Table) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Max returns the highest count in the table.
func (t *Table) Max() int {
	maxCount := 0
	for _, n := range t.counts {
		maxCount = max(maxCount, n)
	}
	return maxCount
}

// Intensity buckets key relative to the worst key.
func (t *Table) Intensity(key string) Intensity {
	n := t.Count(key)
	maxCount := t.Max()
	if n <= 0 || maxCount == 0 {
		return None
	}
	ratio := float64(n) / float64(maxCount)
	switch {
	case ratio > 0.66:
		return High
	case ratio > 0.33:
		return Medium
	default:
		return Low
	}
}

// KeyCount is one table row.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Top returns the n most mistyped keys, ties broken alphabetically. n <= 0
// returns every key.
func (t *Table) Top(n int) []KeyCount {
	out := make([]KeyCount, 0, len(t.counts))
	for key, count := range t.counts {
		if count > 0 {
			out = append(out, KeyCount{Key: key, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Key < out[j].Key
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
