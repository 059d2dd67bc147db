package cart

import (
	"hash/fnv"
	"sync"
)

const defaultStripes = 64

// stripedLocks serializes work per key with a fixed pool of mutexes.
type stripedLocks struct {
	stripes []sync.Mutex
}

func newStripedLocks(n int) *stripedLocks {
	if n <= 0 {
		n = defaultStripes
	}
	return &stripedLocks{stripes: make([]sync.Mutex, n)}
}

// lock acquires the stripe for key and returns its release func.
func (l *stripedLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
