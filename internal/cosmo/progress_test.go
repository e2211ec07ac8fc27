package cosmo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker_CombinesWalks(t *testing.T) {
	t.Parallel()
	var got []float64
	p := newProgressTracker(func(f float64) { got = append(got, f) })

	p.set(Forward, 0.5)   // (0.5 + 0) / 2
	p.set(Backward, 0.5)  // (0.5 + 0.5) / 2
	p.set(Backward, 0.51) // +0.005: below the reporting granularity
	p.set(Forward, 0.4)   // a lower total is not reported
	p.set(Forward, 2)     // clamped to 1
	p.done()

	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.755, 1}, got, 1e-12)
}

func TestProgressTracker_NilReport(t *testing.T) {
	t.Parallel()
	p := newProgressTracker(nil)
	p.set(Forward, 0.5)
	p.done()
}

func TestIntegrate_ProgressThroughChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 1024)
	var wg sync.WaitGroup
	var updates []ProgressUpdate
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range ch {
			updates = append(updates, u)
		}
	}()

	_, err := Integrate(context.Background(), NewModel("eds", 0, 1, 0), DefaultOptions(), ChannelReporter(ch, 3))
	require.NoError(t, err)
	close(ch)
	wg.Wait()

	require.NotEmpty(t, updates)
	for i, u := range updates {
		assert.Equal(t, 3, u.Index)
		if i > 0 {
			assert.Greater(t, u.Value, updates[i-1].Value)
		}
	}
	assert.Equal(t, 1.0, updates[len(updates)-1].Value)
}
