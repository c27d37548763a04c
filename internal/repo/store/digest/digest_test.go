package digest_test

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/repo/store/digest"
)

func TestHashers(t *testing.T) {
	for _, tc := range []struct {
		name   string
		hexLen int
	}{
		{name: digest.XXH3, hexLen: 32},
		{name: digest.SHA1, hexLen: 40},
		{name: digest.SHA256, hexLen: 64},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, err := digest.New(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.name, h.Name())
			assert.Equal(t, tc.hexLen, h.HexLen())

			a, err := h.Sum([]byte("a.txt"), []byte("hello"))
			require.NoError(t, err)
			assert.Len(t, a, tc.hexLen)

			again, err := h.Sum([]byte("a.txt"), []byte("hello"))
			require.NoError(t, err)
			assert.Equal(t, a, again)

			// framing separates parts
			x, _ := h.Sum([]byte("ab"), []byte("c"))
			y, _ := h.Sum([]byte("a"), []byte("bc"))
			assert.NotEqual(t, x, y)
		})
	}
}

func framed(parts ...string) []byte {
	var buf []byte
	for _, p := range parts {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(p)))
		buf = append(buf, p...)
	}
	return buf
}

func TestMultihashDigestsMatchStdlib(t *testing.T) {
	h1, err := digest.New("SHA1")
	require.NoError(t, err)
	got, err := h1.Sum([]byte("n"), []byte("c"))
	require.NoError(t, err)
	s1 := sha1.Sum(framed("n", "c"))
	assert.Equal(t, hex.EncodeToString(s1[:]), got)

	h256, err := digest.New(digest.SHA256)
	require.NoError(t, err)
	got, err = h256.Sum([]byte("n"), []byte("c"))
	require.NoError(t, err)
	s256 := sha256.Sum256(framed("n", "c"))
	assert.Equal(t, hex.EncodeToString(s256[:]), got)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := digest.New("md5")
	require.Error(t, err)
}
