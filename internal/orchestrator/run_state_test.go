package orchestrator

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/patrondl/internal/models"
)

func TestRunState_SingleWinnerUnderContention(t *testing.T) {
	state := newRunState()

	const contenders = 16
	var wg sync.WaitGroup
	var winners int32
	var mu sync.Mutex

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if state.tryBeginRun() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)

	state.endRun()
	assert.True(t, state.tryBeginRun(), "flag clears after endRun")
}

func TestRunState_InitOnceRetriesAfterFailure(t *testing.T) {
	state := newRunState()
	calls := 0

	err := state.initOnce(func() error {
		calls++
		return fmt.Errorf("boom")
	})
	assert.Error(t, err)

	// Failed initialization does not latch; success does
	assert.NoError(t, state.initOnce(func() error { calls++; return nil }))
	assert.NoError(t, state.initOnce(func() error { calls++; return nil }))
	assert.Equal(t, 2, calls)
}

func TestRunState_StatusDefaultsToReady(t *testing.T) {
	state := newRunState()
	assert.Equal(t, models.StatusReady, state.currentStatus())

	state.setStatus(models.StatusCrawling)
	assert.Equal(t, models.StatusCrawling, state.currentStatus())
}
