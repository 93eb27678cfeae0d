package table

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

// KeyFunc returns a fresh opaque key each time it is called. Keys only need
// to be unique within the lifetime of one Value and its descendants.
type KeyFunc func() string

// SequentialKeys returns a KeyFunc producing prefix1, prefix2, ...
// It is deterministic and meant for tests and fixtures.
func SequentialKeys(prefix string) KeyFunc {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}

// NewKeyGen returns a KeyFunc whose keys are unique across processes:
// a random per-generator prefix followed by a counter.
func NewKeyGen() KeyFunc {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return SequentialKeys(hex.EncodeToString(b[:]) + "-")
}
