package id

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Hasher is a deterministic content hasher built on BLAKE2b.
//
// Unlike hash/maphash it produces the same output across process
// restarts for the same input, which is what makes StableIDs stable
// across independent compilations.
type Hasher struct {
	inner hash.Hash
}

func NewHasher() *Hasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails with a bad key; we pass none.
		panic(err)
	}
	return &Hasher{inner: h}
}

func (h *Hasher) Bytes(d []byte) *Hasher {
	h.inner.Write(d)
	return h
}

func (h *Hasher) Str(s string) *Hasher {
	h.inner.Write([]byte(s))
	return h
}

func (h *Hasher) U64(v uint64) *Hasher {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.inner.Write(buf[:])
	return h
}

func (h *Hasher) Int(v int) *Hasher {
	return h.U64(uint64(v))
}

// Sum64 finalizes the hash, taking the first 8 bytes of the digest as
// a little-endian uint64.
func (h *Hasher) Sum64() uint64 {
	sum := h.inner.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}
