package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// collisionResolver hands out output names that are unique within one batch.
// Distinct inputs can map to the same output name ("take.wav" and "take.mp3"
// both want "take.flac"); later claims get a " (N)" variant. All methods are
// goroutine-safe.
type collisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // output name -> input name that owns it
}

func newCollisionResolver() *collisionResolver {
	return &collisionResolver{owners: make(map[string]string)}
}

// resolve returns the output name input may write to. If requested is
// unclaimed or already owned by input it is returned as-is, otherwise the
// first free " (N)" variant is claimed.
func (cr *collisionResolver) resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requested]
	if !exists || owner == input {
		cr.owners[requested] = input
		return requested
	}

	ext := filepath.Ext(requested)
	stem := strings.TrimSuffix(requested, ext)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == input {
			cr.owners[candidate] = input
			return candidate
		}
	}
}
