package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedIDGenerator("q-123")

	assert.Equal(t, "q-123", gen.Generate())
	assert.Equal(t, "q-123", gen.Generate())
}

func TestFixedIDGenerator_EmptyIDDefault(t *testing.T) {
	assert.Equal(t, "test-query-default", NewFixedIDGenerator("").Generate())
}

func TestSequentialIDGenerator_CountsAndResets(t *testing.T) {
	gen := NewSequentialIDGenerator("scenario")

	assert.Equal(t, "scenario-0001", gen.Generate())
	assert.Equal(t, "scenario-0002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "scenario-0001", gen.Generate())
}

func TestSequentialIDGenerator_Concurrent(t *testing.T) {
	gen := NewSequentialIDGenerator("")

	var wg sync.WaitGroup
	seen := sync.Map{}
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen.Store(gen.Generate(), true)
		}()
	}
	wg.Wait()

	count := 0
	seen.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, 50, count, "every ID is unique")
	assert.Equal(t, "query-0051", gen.Generate())
}

func TestFleet_FreshCopies(t *testing.T) {
	a := Fleet()
	a["instances"] = nil

	assert.Len(t, Fleet()["instances"], 4)
	assert.Len(t, DemoFleet()["instances"], 2)
}
