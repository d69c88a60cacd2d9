package upload

import (
	"sync"

	"github.com/poiesic/docindex/core"
)

// Guard prevents two concurrent upload attempts for the same store/file
// pair. Instances are independent; construct one per Uploader so tests and
// batches stay hermetic.
type Guard struct {
	mu     sync.Mutex
	active map[core.UploadKey]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{active: make(map[core.UploadKey]struct{})}
}

// TryAcquire marks key as in-flight. It returns false if another holder
// already owns the key; acquisition and the ownership check are a single
// critical section.
func (g *Guard) TryAcquire(key core.UploadKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.active[key]; held {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// Release frees key. Releasing a key that is not held is a no-op, so
// deferred releases are always safe.
func (g *Guard) Release(key core.UploadKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// InFlight reports whether key is currently held.
func (g *Guard) InFlight(key core.UploadKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.active[key]
	return held
}
