package tui

import (
	"sync"
	"testing"

	"github.com/agbru/friedmann/internal/cosmo"
)

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	ref := &programRef{} // nil program - Send is a no-op
	reporter := &TUIProgressReporter{ref: ref, generation: 3}

	ch := make(chan cosmo.ProgressUpdate, 10)
	for _, v := range []float64{0.25, 0.5, 0.75, 1} {
		ch <- cosmo.ProgressUpdate{Index: 0, Value: v}
	}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 1, nil)
	wg.Wait()

	if len(ch) != 0 {
		t.Errorf("%d updates left in the channel", len(ch))
	}
}

func TestTUIProgressReporter_ZeroTasks(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}}

	ch := make(chan cosmo.ProgressUpdate, 5)
	ch <- cosmo.ProgressUpdate{Index: 0, Value: 0.5}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 0, nil)
	wg.Wait()
}

func TestProgramRef_SendWithoutProgram(t *testing.T) {
	var ref programRef
	ref.Send(ProgressMsg{Value: 1})
	ref.SetProgram(nil)
	ref.Send(ProgressMsg{Value: 1})
}
