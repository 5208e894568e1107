package qchash

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// mix64 is the MurmurHash3 64-bit finalizer: a cheap integer avalanche
// mix applied to an already-computed hash before it is used for
// indexing, guarding against hash functions whose low bits are poorly
// distributed. Ported from this project's qc-hash reference sources
// (murmur3.hpp's mix64), not reimplemented from scratch.
func mix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// DefaultHasher returns a HashFunc for any Go-comparable key, built on
// hash/maphash.Comparable. No third-party library can hash an arbitrary
// comparable type without reflection, so this is the one place the table
// reaches for the standard library instead of the example pack's
// ecosystem libraries; see DESIGN.md.
func DefaultHasher[K comparable]() HashFunc[K] {
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		return mix64(maphash.Comparable(seed, k))
	}
}

// DefaultEqual returns an EqualFunc backed by Go's built-in == for any
// comparable key.
func DefaultEqual[K comparable]() EqualFunc[K] {
	return func(a, b K) bool { return a == b }
}

// DefaultBytesHasher hashes []byte keys with xxhash, the fast
// non-cryptographic hash this project's reference material (matrixone)
// depends on directly. []byte is not a Go-comparable type, so it can't be
// served by DefaultHasher.
func DefaultBytesHasher() HashFunc[[]byte] {
	return func(k []byte) uint64 { return xxhash.Sum64(k) }
}

// DefaultBytesEqual compares []byte keys byte-for-byte.
func DefaultBytesEqual() EqualFunc[[]byte] {
	return func(a, b []byte) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
}

// DefaultStringHasher hashes string keys with xxhash.
func DefaultStringHasher() HashFunc[string] {
	return func(k string) uint64 { return xxhash.Sum64String(k) }
}
