package docker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {

	t.Run("ReturnsSameLockForSameKey", func(t *testing.T) {

		keyedMutex := NewKeyedMutex()

		// act
		lockA := keyedMutex.getKeyLock("sha256:9b2a28eb47540823042a2ba401386845089bb7b62a9637d55816132c4c3c36eb")
		lockB := keyedMutex.getKeyLock("sha256:9b2a28eb47540823042a2ba401386845089bb7b62a9637d55816132c4c3c36eb")

		assert.Equal(t, lockA, lockB)
	})

	t.Run("ReturnsDifferentLockPerKey", func(t *testing.T) {

		keyedMutex := NewKeyedMutex()

		// act
		lockA := keyedMutex.getKeyLock("keyA")
		lockB := keyedMutex.getKeyLock("keyB")

		assert.False(t, lockA == lockB)
	})

	t.Run("DoesNotBlockLocksForDifferentKeys", func(t *testing.T) {

		keyedMutex := NewKeyedMutex()

		keyedMutex.Lock("keyA")
		defer keyedMutex.Unlock("keyA")

		// act
		keyedMutex.Lock("keyB")
		keyedMutex.Unlock("keyB")
	})

	t.Run("SupportsConcurrentUseFromMultipleGoroutines", func(t *testing.T) {

		keyedMutex := NewKeyedMutex()

		var wg sync.WaitGroup
		wg.Add(10)

		// act
		for i := 0; i < 10; i++ {
			go func() {
				defer wg.Done()
				keyedMutex.Lock("shared")
				keyedMutex.Unlock("shared")
				keyedMutex.RLock("shared")
				keyedMutex.RUnlock("shared")
			}()
		}

		wg.Wait()
	})
}
