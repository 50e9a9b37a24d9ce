package replay

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestGuard_DetectsDuplicates(t *testing.T) {
	clock := clockwork.NewFakeClock()
	guard := NewGuard(10*time.Minute, clock)

	assert.True(t, guard.Observe("id-1"), "first occurrence passes")
	assert.False(t, guard.Observe("id-1"), "second occurrence is a replay")
	assert.True(t, guard.Observe("id-2"), "distinct ids pass")
}

func TestGuard_ForgetsOutsideWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	guard := NewGuard(10*time.Minute, clock)

	assert.True(t, guard.Observe("id-1"))

	clock.Advance(9 * time.Minute)
	assert.False(t, guard.Observe("id-1"), "still inside the window")

	clock.Advance(11 * time.Minute)
	assert.True(t, guard.Observe("id-1"), "forgotten after the window")
}

func TestGuard_SweepBoundsMemory(t *testing.T) {
	clock := clockwork.NewFakeClock()
	guard := NewGuard(time.Minute, clock)

	for i := 0; i < 100; i++ {
		guard.Observe(string(rune('a' + i%26)))
		clock.Advance(time.Second)
	}

	// Another window passes; the next observation sweeps everything
	// stale.
	clock.Advance(2 * time.Minute)
	guard.Observe("fresh")
	assert.LessOrEqual(t, guard.Len(), 2)
}
