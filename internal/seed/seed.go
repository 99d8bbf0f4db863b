// Package seed derives the random generators a match draws from.
//
// A seeded match is reproducible: the same salt and key always pick the same
// first player and the same sequence of secret words from the same dictionary.
package seed

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
)

// New returns a deterministic generator for key using HMAC(salt, key) as the
// PCG seed.
func New(salt, key string) *rand.Rand {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	// first 16 bytes feed the two PCG words
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}

// Random returns a generator seeded from crypto/rand.
func Random() *rand.Rand {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(b[:8]),
		binary.BigEndian.Uint64(b[8:]),
	))
}
