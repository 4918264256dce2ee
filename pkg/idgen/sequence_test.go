package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNext(t *testing.T) {
	s := New("CART")
	assert.Equal(t, "CART-1", s.Next())
	assert.Equal(t, "CART-2", s.Next())
	assert.Equal(t, "ORDER-7", Format("ORDER", 7))
}

func TestSequenceConcurrentUnique(t *testing.T) {
	s := New("ORDER")
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				id := s.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, 1000)
	assert.Contains(t, seen, "ORDER-1000")
}
