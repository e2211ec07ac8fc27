package orchestration

import (
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
)

// ProgressAggregator averages the progress of several concurrent solves.
// It wraps format.ProgressWithETA so that the CLI spinner and the TUI share
// the same aggregation.
type ProgressAggregator struct {
	state    *format.ProgressWithETA
	numTasks int
}

// NewProgressAggregator creates an aggregator for numTasks solves. Returns
// nil if numTasks <= 0.
func NewProgressAggregator(numTasks int) *ProgressAggregator {
	if numTasks <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:    format.NewProgressWithETA(numTasks),
		numTasks: numTasks,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// Index is the index of the solve that sent the update.
	Index int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the average across all solves.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update cosmo.ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumTasks returns the number of solves being tracked.
func (a *ProgressAggregator) NumTasks() int {
	return a.numTasks
}

// IsMultiTask returns true if tracking more than one solve.
func (a *ProgressAggregator) IsMultiTask() bool {
	return a.numTasks > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan cosmo.ProgressUpdate) {
	for range progressChan {
	}
}
