package util_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/util"
)

type record struct {
	V    int    `json:"v"`
	Name string `json:"name"`
}

func TestJSONRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		fsys fs.FS
	}{
		{name: "memory", fsys: fs.NewMemoryFS()},
		{name: "compressed", fsys: fs.NewCompressedFS(fs.NewMemoryFS())},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.fsys.MkdirAll("/r", 0o755))
			require.NoError(t, util.WriteJSON(tc.fsys, "/r/rec.json", record{V: 1, Name: "x"}))

			var got record
			require.NoError(t, util.ReadJSON(tc.fsys, "/r/rec.json", &got))
			assert.Equal(t, record{V: 1, Name: "x"}, got)

			entries, err := tc.fsys.ReadDir("/r")
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files must not be left behind")
		})
	}
}

func TestReadJSONDecodeError(t *testing.T) {
	m := fs.NewMemoryFS()
	require.NoError(t, m.WriteFile("bad.json", []byte("{"), 0o644))
	var got record
	require.Error(t, util.ReadJSON(m, "bad.json", &got))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, util.SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, util.SortedKeys(map[string]bool{}))
}

func TestParallel(t *testing.T) {
	var n atomic.Int32
	err := util.Parallel([]int{1, 2, 3, 4, 5}, 2, func(int) error {
		n.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, n.Load())

	boom := errors.New("boom")
	err = util.Parallel([]int{1, 2, 3}, 0, func(i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
