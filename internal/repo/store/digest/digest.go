// Package digest computes the content addresses used for snapshots and commits.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/multiformats/go-multihash"
	"github.com/zeebo/xxh3"
)

// Supported algorithm names.
const (
	XXH3   = "xxh3"
	SHA1   = "sha1"
	SHA256 = "sha256"
)

// Hasher turns an ordered list of byte strings into a lowercase hex id.
type Hasher interface {
	Name() string
	Sum(parts ...[]byte) (string, error)
	// HexLen is the length of a full id.
	HexLen() int
}

// Algorithms lists every accepted algorithm name.
func Algorithms() []string {
	return []string{XXH3, SHA1, SHA256}
}

// New returns the hasher registered under algorithm.
func New(algorithm string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case XXH3, "":
		return xxh3Hasher{}, nil
	case SHA1:
		return multihashHasher{name: SHA1, code: multihash.SHA1, size: 20}, nil
	case SHA256:
		return multihashHasher{name: SHA256, code: multihash.SHA2_256, size: 32}, nil
	}
	return nil, fmt.Errorf("unsupported hash algorithm %q (want one of %s)", algorithm, strings.Join(Algorithms(), ", "))
}

// frame length-prefixes every part so that part boundaries affect the digest.
func frame(parts [][]byte) []byte {
	size := 0
	for _, p := range parts {
		size += 8 + len(p)
	}
	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(p)))
		buf = append(buf, p...)
	}
	return buf
}

type xxh3Hasher struct{}

func (xxh3Hasher) Name() string { return XXH3 }
func (xxh3Hasher) HexLen() int  { return 32 }

func (xxh3Hasher) Sum(parts ...[]byte) (string, error) {
	sum := xxh3.Hash128(frame(parts)).Bytes()
	return hex.EncodeToString(sum[:]), nil
}

type multihashHasher struct {
	name string
	code uint64
	size int
}

func (m multihashHasher) Name() string { return m.name }
func (m multihashHasher) HexLen() int  { return m.size * 2 }

func (m multihashHasher) Sum(parts ...[]byte) (string, error) {
	mh, err := multihash.Sum(frame(parts), m.code, -1)
	if err != nil {
		return "", fmt.Errorf("failed to compute %s digest: %w", m.name, err)
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s digest: %w", m.name, err)
	}
	return hex.EncodeToString(decoded.Digest), nil
}
