package cosmo

import (
	"math"
	"sync"
)

// ProgressUpdate is a progress notification for one of several concurrent
// solves.
type ProgressUpdate struct {
	// Index identifies the solve that sent the update.
	Index int
	// Value is the fraction of the integration walked, between 0 and 1.
	Value float64
}

// ProgressFunc receives the fraction of the integration walked so far.
type ProgressFunc func(fraction float64)

// ChannelReporter returns a ProgressFunc that forwards updates tagged with
// index to ch. Sends never block: an update is dropped when the channel is
// full, the next one supersedes it anyway.
func ChannelReporter(ch chan<- ProgressUpdate, index int) ProgressFunc {
	if ch == nil {
		return nil
	}
	return func(fraction float64) {
		select {
		case ch <- ProgressUpdate{Index: index, Value: fraction}:
		default:
		}
	}
}

// progressTracker merges the progress of the forward and backward walks.
// report is called with the lock held so that values arrive in order.
type progressTracker struct {
	mu       sync.Mutex
	report   ProgressFunc
	fwd, bwd float64
	last     float64
}

func newProgressTracker(report ProgressFunc) *progressTracker {
	return &progressTracker{report: report}
}

func (p *progressTracker) set(dir Direction, fraction float64) {
	if p.report == nil {
		return
	}
	fraction = math.Max(0, math.Min(1, fraction))
	p.mu.Lock()
	if dir == Forward {
		p.fwd = fraction
	} else {
		p.bwd = fraction
	}
	total := (p.fwd + p.bwd) / 2
	if total <= p.last || (total-p.last < progressGranularity && total < 1) {
		p.mu.Unlock()
		return
	}
	p.last = total
	p.report(total)
	p.mu.Unlock()
}

func (p *progressTracker) done() {
	if p.report == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = 1
	p.report(1)
}
