//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/orchestration"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with the average progress of numTasks
// concurrent solves until progressChan is closed. It calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan cosmo.ProgressUpdate, numTasks int, out io.Writer) {
	defer wg.Done()
	if numTasks <= 0 {
		orchestration.DrainChannel(progressChan)
		return
	}

	agg := orchestration.NewProgressAggregator(numTasks)
	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	label := " Integrating"
	if agg.IsMultiTask() {
		label = " Integrating " + format.FormatCount(numTasks) + " models"
	}
	suffix := func(avg float64) string {
		return label + " " + format.FormatProgressBarWithETA(avg, agg.GetETA(), ProgressBarWidth)
	}
	s.UpdateSuffix(suffix(0))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(suffix(1))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(suffix(agg.CalculateAverage()))
		}
	}
}
