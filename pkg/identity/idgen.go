package identity

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces message ids from a per-generator random seed plus
// an atomic counter. The seed makes ids unpredictable across entities;
// the counter guarantees no two calls on one generator ever return the
// same value, regardless of concurrency.
//
// Ids are valid XML NCNames (they start with a letter prefix, never a
// digit) so they can be used directly as signature reference targets.
type IDGenerator struct {
	seed    string
	counter atomic.Uint64
}

// NewIDGenerator creates a generator with a fresh random seed
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		seed: strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
}

// Next returns the next message id
func (g *IDGenerator) Next() string {
	return fmt.Sprintf("id-%s%06x", g.seed, g.counter.Add(1))
}
