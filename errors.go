package qchash

import (
	"github.com/cockroachdb/errors"
)

// ErrKeyNotFound is wrapped into the error MustAt raises when the
// requested key is absent. At itself never raises: it reports absence
// through its second return value, the idiomatic Go rendering of the
// spec's "absent key on strict access" boundary fault. Index never
// raises either: it inserts a zero value for an absent key.
var ErrKeyNotFound = errors.New("qchash: key not found")

// ErrEndIterator is wrapped into the error raised by erasing or
// dereferencing the End() iterator, the other boundary fault named by the
// spec (misuse, not a recoverable condition).
var ErrEndIterator = errors.New("qchash: operation on end iterator")

func errKeyNotFound(key any) error {
	return errors.WithDetailf(ErrKeyNotFound, "key: %v", key)
}

func panicKeyNotFound(key any) {
	panic(errKeyNotFound(key))
}

func panicEndIterator() {
	panic(errors.WithStack(ErrEndIterator))
}
