package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	k := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock("emp-1:2024-09-10")
			counter++
			k.Unlock("emp-1:2024-09-10")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyLock_DifferentKeysDoNotBlock(t *testing.T) {
	k := New()

	k.Lock("a")
	done := make(chan struct{})
	go func() {
		k.Lock("b")
		k.Unlock("b")
		close(done)
	}()
	<-done // would deadlock if "b" waited on "a"
	k.Unlock("a")
}

func TestKeyLock_EntriesAreReleased(t *testing.T) {
	k := New()

	k.Lock("x")
	k.Unlock("x")

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}
