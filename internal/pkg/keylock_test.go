package pkg

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLock(t *testing.T) {
	t.Run("Serializes work on the same key", func(t *testing.T) {
		// Given: a shared counter guarded only by the key lock
		locks := NewKeyLock()
		counter := 0

		// When: many goroutines increment it under the same key
		var wg sync.WaitGroup
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.Lock("game-1")
				defer unlock()
				v := counter
				time.Sleep(time.Microsecond)
				counter = v + 1
			}()
		}
		wg.Wait()

		// Then: no increment is lost and no entries leak
		assert.Equal(t, 100, counter)

		locks.mu.Lock()
		defer locks.mu.Unlock()
		assert.Empty(t, locks.locks)
	})

	t.Run("Different keys do not block each other", func(t *testing.T) {
		locks := NewKeyLock()

		unlockA := locks.Lock("a")
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlock := locks.Lock("b")
			unlock()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock on a different key was blocked")
		}
	})
}

func TestGenerateGameID(t *testing.T) {
	first, err := GenerateGameID()
	require.NoError(t, err)
	second, err := GenerateGameID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "game-"))
	assert.NotEqual(t, first, second)
}

func TestGeneratePlayerID(t *testing.T) {
	id, err := GeneratePlayerID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "player-"))
	assert.Len(t, id, len("player-")+36)
}
