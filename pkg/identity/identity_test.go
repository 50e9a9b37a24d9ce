package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresEntityID(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrMissingEntityID)
}

func TestNew_Defaults(t *testing.T) {
	id, err := New("https://sp.example.com/metadata")
	require.NoError(t, err)

	assert.Equal(t, "https://sp.example.com/metadata", id.EntityID)
	assert.Zero(t, id.AcceptedSkew)
	assert.False(t, id.CanSign())
}

func TestNew_WithKeyPair(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cert := &x509.Certificate{}

	id, err := New("https://sp.example.com/metadata",
		WithKeyPair(key, cert),
		WithAcceptedSkew(2*time.Minute))
	require.NoError(t, err)

	assert.True(t, id.CanSign())
	assert.Equal(t, 2*time.Minute, id.AcceptedSkew)
}

func TestNewMessageID_NCNameSafe(t *testing.T) {
	id, err := New("https://sp.example.com/metadata")
	require.NoError(t, err)

	msgID := id.NewMessageID()
	assert.True(t, strings.HasPrefix(msgID, "id-"), "id %q must start with a letter prefix", msgID)
	assert.NotContains(t, msgID, " ")
}

func TestNewMessageID_Unique(t *testing.T) {
	id, err := New("https://sp.example.com/metadata")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		msgID := id.NewMessageID()
		assert.False(t, seen[msgID], "duplicate id %s", msgID)
		seen[msgID] = true
	}
}

func TestNewMessageID_UniqueUnderConcurrency(t *testing.T) {
	id, err := New("https://sp.example.com/metadata")
	require.NoError(t, err)

	const goroutines = 8
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				local = append(local, id.NewMessageID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, msgID := range local {
				assert.False(t, seen[msgID], "duplicate id %s", msgID)
				seen[msgID] = true
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestIDGenerator_SeedsDiffer(t *testing.T) {
	a := NewIDGenerator()
	b := NewIDGenerator()
	assert.NotEqual(t, a.Next(), b.Next())
}
