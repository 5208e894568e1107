package qchash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errAllocatorExhausted = errors.New("test: allocator exhausted")

// fixedHash pins every key to the same bucket, forcing the Robin Hood
// displacement chain to actually run instead of keys landing in distinct
// buckets by luck.
func fixedHash[K any](_ K) uint64 { return 0 }

func TestInsertGrowsAtHalfLoadFactor(t *testing.T) {
	s := NewSetWith[int](defaultMinCapacity, DefaultHasher[int](), DefaultEqual[int](), nil)
	require.Equal(t, defaultMinBucketCount, s.BucketCount())

	for i := 0; i < defaultMinBucketCount/2; i++ {
		s.Insert(i)
	}
	require.Equal(t, defaultMinBucketCount, s.BucketCount())

	s.Insert(1000)
	require.Equal(t, defaultMinBucketCount*2, s.BucketCount())
}

func TestDeleteShrinksAfterHysteresis(t *testing.T) {
	s := NewSet[int]()
	for i := 0; i < 40; i++ {
		s.Insert(i)
	}
	grown := s.BucketCount()
	require.Greater(t, grown, defaultMinBucketCount)

	for i := 0; i < 35; i++ {
		s.Delete(i)
	}
	require.Less(t, s.BucketCount(), grown)
	require.GreaterOrEqual(t, s.BucketCount(), defaultMinBucketCount)
}

func TestSameBucketKeysProbePastEachOther(t *testing.T) {
	// Every key hashes to bucket 0, so the 2nd insert must probe past the
	// 1st, and the 3rd past both. Equal distances never swap, so each key
	// lands at the end of the chain without going through displace().
	s := NewSetWith[int](defaultMinCapacity, fixedHash[int], DefaultEqual[int](), nil)
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	require.Equal(t, 3, s.Len())
	require.True(t, s.Contains(1))
	require.True(t, s.Contains(2))
	require.True(t, s.Contains(3))
}

func TestBackwardShiftDeleteClosesGap(t *testing.T) {
	s := NewSetWith[int](defaultMinCapacity, fixedHash[int], DefaultEqual[int](), nil)
	s.InsertSlice([]int{1, 2, 3, 4})

	require.True(t, s.Delete(2))
	require.Equal(t, 3, s.Len())
	for _, k := range []int{1, 3, 4} {
		require.True(t, s.Contains(k))
	}

	require.True(t, s.Delete(1))
	require.True(t, s.Delete(3))
	require.True(t, s.Delete(4))
	require.Equal(t, 0, s.Len())
}

func TestReserveAvoidsRehashDuringInserts(t *testing.T) {
	s := NewSet[int]()
	s.Reserve(500)
	before := s.BucketCount()

	for i := 0; i < 500; i++ {
		s.Insert(i)
	}
	require.Equal(t, before, s.BucketCount())
}

func TestAllocatorAcquireFailureLeavesTableUnchanged(t *testing.T) {
	alloc := &failingAllocator[int]{failAfter: 2}
	s := NewSetWith[int](defaultMinCapacity, DefaultHasher[int](), DefaultEqual[int](), alloc)

	require.True(t, s.Insert(1))
	require.True(t, s.Insert(2))
	require.Panics(t, func() {
		s.Insert(3)
	})
	require.Equal(t, 2, s.Len())
	require.False(t, s.Contains(3))
}

type failingAllocator[E any] struct {
	calls     int
	failAfter int
}

func (a *failingAllocator[E]) Acquire() error {
	a.calls++
	if a.calls > a.failAfter {
		return errAllocatorExhausted
	}
	return nil
}

func (a *failingAllocator[E]) Release(e *E) {
	var zero E
	*e = zero
}
