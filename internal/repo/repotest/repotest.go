// Package repotest builds in-memory repositories for tests.
package repotest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/repo"
	"github.com/keshon/lvc/internal/repo/meta"
)

// Root is the working tree of every in-memory repository.
const Root = "/repo"

// Clock returns a clock that advances one second per call.
func Clock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// New initializes a repository on a fresh MemoryFS.
func New(t testing.TB, mutate ...func(*config.Settings)) *repo.Repository {
	t.Helper()
	m := fs.NewMemoryFS()
	require.NoError(t, m.MkdirAll(Root, 0o755))

	settings := config.DefaultSettings()
	for _, fn := range mutate {
		fn(&settings)
	}
	r, err := repo.Init(Root, settings, &repo.Options{FS: m, Now: Clock()})
	require.NoError(t, err)
	return r
}

// Write creates or overwrites a working file.
func Write(t testing.TB, r *repo.Repository, name, content string) {
	t.Helper()
	require.NoError(t, r.Tree.Write(name, []byte(content)))
}

// Read returns a working file's content.
func Read(t testing.TB, r *repo.Repository, name string) string {
	t.Helper()
	data, err := r.Tree.Read(name)
	require.NoError(t, err)
	return string(data)
}

// Commit writes and stages files, then commits them.
func Commit(t testing.TB, r *repo.Repository, message string, files map[string]string) *meta.Commit {
	t.Helper()
	for name, content := range files {
		Write(t, r, name, content)
		require.NoError(t, r.Add(name))
	}
	c, err := r.Commit(message)
	require.NoError(t, err)
	return c
}

// Checkout switches branches and fails the test on error.
func Checkout(t testing.TB, r *repo.Repository, branch string) {
	t.Helper()
	require.NoError(t, r.CheckoutBranch(branch))
}
