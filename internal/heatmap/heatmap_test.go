package heatmap

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/store"
)

func TestRecordLowercases(t *testing.T) {
	tbl := NewTable(nil)
	tbl.Record('A')
	tbl.Record('a')
	tbl.Record(' ')
	assert.Equal(t, 2, tbl.Count("a"))
	assert.Equal(t, 2, tbl.Count("A"))
	assert.Equal(t, 1, tbl.Count(" "))
	assert.Equal(t, 3, tbl.Total())
}

func TestIntensityBuckets(t *testing.T) {
	tbl := NewTable(map[string]int{"a": 9, "s": 5, "d": 2, "f": 1})
	assert.Equal(t, High, tbl.Intensity("a"))
	assert.Equal(t, Medium, tbl.Intensity("s"))
	assert.Equal(t, Low, tbl.Intensity("d"))
	assert.Equal(t, Low, tbl.Intensity("f"))
	assert.Equal(t, None, tbl.Intensity("g"))
	assert.Equal(t, 9, tbl.Max())
}

func TestTopAndReset(t *testing.T) {
	tbl := NewTable(map[string]int{"a": 2, "b": 5, "c": 2})
	top := tbl.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, KeyCount{Key: "b", Count: 5}, top[0])
	assert.Equal(t, KeyCount{Key: "a", Count: 2}, top[1])

	tbl.Reset()
	assert.Zero(t, tbl.Max())
	assert.Empty(t, tbl.Top(0))
	assert.Equal(t, "No key errors recorded.", RenderTopList(tbl, 5))
}

func TestRenderKeyboardContainsEveryKey(t *testing.T) {
	tbl := NewTable(map[string]int{"q": 3})
	out := RenderKeyboard(tbl)
	for _, key := range []string{"`", "q", "\\", "'", "/", "space"} {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, len(Rows), strings.Count(out, "\n")+1)
	assert.Contains(t, RenderTopList(tbl, 3), " 1. q      3")
}

func TestRepositoryRoundTrip(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "heat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	repo := NewRepository(st, logging.Discard())
	ctx := context.Background()

	tbl := repo.Load(ctx)
	assert.Zero(t, tbl.Total())
	tbl.Record('x')
	require.NoError(t, repo.Save(ctx, tbl))
	assert.Equal(t, 1, repo.Load(ctx).Count("x"))

	require.NoError(t, st.Put(ctx, store.KeyKeyErrors, []byte("[")))
	assert.Zero(t, repo.Load(ctx).Total())
}
