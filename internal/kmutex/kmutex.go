// Package kmutex provides a striped per-key mutex. The admin mutator uses
// it to serialize read-modify-write cycles on a single market so concurrent
// stall mutations never lose updates, while operations on distinct markets
// proceed in parallel.
package kmutex

import (
	"hash/fnv"
	"sync"
)

const stripes = 64

// KMutex is a fixed-stripe keyed mutex. Keys hashing to the same stripe
// share a lock; that trades a little false sharing for zero allocation and
// no lock leakage.
type KMutex struct {
	locks [stripes]sync.Mutex
}

// New creates a keyed mutex.
func New() *KMutex {
	return &KMutex{}
}

// Lock acquires the lock for the given key.
func (k *KMutex) Lock(key string) {
	k.locks[stripe(key)].Lock()
}

// Unlock releases the lock for the given key.
func (k *KMutex) Unlock(key string) {
	k.locks[stripe(key)].Unlock()
}

func stripe(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % stripes
}
