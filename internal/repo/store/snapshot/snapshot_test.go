package snapshot_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/store/digest"
	"github.com/keshon/lvc/internal/repo/store/snapshot"
)

func newStore(t *testing.T, fsys fs.FS) *snapshot.SnapshotContext {
	t.Helper()
	d, err := digest.New(digest.XXH3)
	require.NoError(t, err)
	return snapshot.NewSnapshotContext("/r/.lvc/snapshots", fsys, d, nil)
}

func TestPutIsIdempotent(t *testing.T) {
	m := fs.NewMemoryFS()
	sc := newStore(t, m)

	h1, err := sc.Put("a.txt", []byte("hello"))
	require.NoError(t, err)
	h2, err := sc.Put("a.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	entries, err := m.ReadDir("/r/.lvc/snapshots")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	want, err := sc.HashOf("a.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, want, h1)
}

func TestHashDependsOnNameAndContent(t *testing.T) {
	sc := newStore(t, fs.NewMemoryFS())

	a, _ := sc.HashOf("a.txt", []byte("x"))
	b, _ := sc.HashOf("b.txt", []byte("x"))
	c, _ := sc.HashOf("a.txt", []byte("y"))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGet(t *testing.T) {
	sc := newStore(t, fs.NewMemoryFS())

	h, err := sc.Put("dir/e.txt", nil)
	require.NoError(t, err)

	s, err := sc.Get(h)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Version)
	assert.Equal(t, "dir/e.txt", s.Name)
	assert.Equal(t, []byte{}, s.Content)

	_, err = sc.Get("0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCompressedStore(t *testing.T) {
	base := fs.NewMemoryFS()
	sc := newStore(t, fs.NewCompressedFS(base))

	h, err := sc.Put("a.txt", []byte("compressed content"))
	require.NoError(t, err)

	content, err := sc.Content(h)
	require.NoError(t, err)
	assert.Equal(t, "compressed content", string(content))

	raw, err := base.ReadFile(filepath.Join("/r/.lvc/snapshots", h+".json"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "records are stored gzipped")
}

func TestVerify(t *testing.T) {
	m := fs.NewMemoryFS()
	sc := newStore(t, m)

	good, err := sc.Put("good.txt", []byte("fine"))
	require.NoError(t, err)
	bad, err := sc.Put("bad.txt", []byte("original"))
	require.NoError(t, err)

	// tamper with the stored content
	tampered := `{"v":1,"name":"bad.txt","hash":"` + bad + `","content":"dGFtcGVyZWQ="}`
	require.NoError(t, m.WriteFile(filepath.Join("/r/.lvc/snapshots", bad+".json"), []byte(tampered), 0o644))

	missing := "ffffffffffffffffffffffffffffffff"

	got := map[string]snapshot.Status{}
	for c := range sc.Verify(map[string]struct{}{good: {}, bad: {}, missing: {}}, 2) {
		got[c.Hash] = c.Status
	}
	assert.Equal(t, map[string]snapshot.Status{
		good:    snapshot.OK,
		bad:     snapshot.Damaged,
		missing: snapshot.Missing,
	}, got)
	assert.Equal(t, "damaged", snapshot.Damaged.String())
}
