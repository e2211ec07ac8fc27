package format

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestProgressState_ComparisonRun replays the updates of a three-model
// comparison. Each value is the combined fraction of one model's forward
// and backward walks.
func TestProgressState_ComparisonRun(t *testing.T) {
	t.Parallel()
	steps := []struct {
		index int
		value float64
		avg   float64
	}{
		{0, 0.30, 0.10},
		{1, 0.60, 0.30},
		{2, 0.90, 0.60},
		{0, 1.00, 2.5 / 3},
		{7, 0.50, 2.5 / 3},       // stray index from a stale solve
		{1, 1.20, 2.9 / 3},       // overshoot is clamped
		{2, math.NaN(), 2.0 / 3}, // a broken update counts as no progress
		{2, 1.00, 1.00},
	}
	p := NewProgressState(3)
	for i, s := range steps {
		p.Update(s.index, s.value)
		if got := p.CalculateAverage(); math.Abs(got-s.avg) > 1e-12 {
			t.Fatalf("step %d: average = %g, want %g", i, got, s.avg)
		}
	}
}

func TestProgressState_NoTasks(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -2} {
		p := NewProgressState(n)
		p.Update(0, 1)
		if got := p.CalculateAverage(); got != 0 {
			t.Errorf("NewProgressState(%d): average = %g, want 0", n, got)
		}
	}
}

func TestProgressState_ConcurrentSolves(t *testing.T) {
	t.Parallel()
	const models = 8
	p := NewProgressState(models)
	var wg sync.WaitGroup
	for i := range models {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := 0.0; f <= 1; f += 0.01 {
				p.Update(i, f)
			}
			p.Update(i, 1)
		}()
	}
	wg.Wait()
	if got := p.CalculateAverage(); got != 1 {
		t.Errorf("average after every solve finished = %g, want 1", got)
	}
}

func TestProgressWithETA_Estimate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		progress float64
		rate     float64
		want     time.Duration
	}{
		{"no rate yet", 0.4, 0, 0},
		{"half way at 10%/s", 0.5, 0.1, 5 * time.Second},
		{"almost done", 0.99, 0.5, 20 * time.Millisecond},
		{"finished", 1, 0.2, 0},
		{"stalled walk is capped", 0.01, 1e-9, maxETA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProgressWithETA(1)
			p.Update(0, tt.progress)
			p.progressRate = tt.rate
			got := p.GetETA()
			if d := got - tt.want; d < -time.Millisecond || d > time.Millisecond {
				t.Errorf("GetETA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressWithETA_UpdateLearnsRate(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)
	p.lastUpdate = time.Now().Add(-time.Second)

	avg, eta := p.UpdateWithETA(1, 0.5)
	if avg != 0.25 {
		t.Fatalf("average = %g, want 0.25", avg)
	}
	if p.progressRate <= 0 {
		t.Fatalf("rate not learned: %g", p.progressRate)
	}
	if eta <= 0 || eta > 10*time.Second {
		t.Errorf("ETA = %v, want a few seconds", eta)
	}

	// A repeated value carries no new information.
	rate := p.progressRate
	p.UpdateWithETA(1, 0.5)
	if p.progressRate != rate {
		t.Errorf("rate changed without progress: %g -> %g", rate, p.progressRate)
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		progress float64
		eta      time.Duration
		width    int
		want     string
	}{
		{"start of a solve", 0, 0, 10, "[░░░░░░░░░░]   0.0% ETA: calculating..."},
		{"backward walk done", 0.5, 3 * time.Second, 10, "[█████░░░░░]  50.0% ETA: 3s"},
		{"long comparison", 0.125, 2*time.Minute + 5*time.Second, 8, "[█░░░░░░░]  12.5% ETA: 2m5s"},
		{"overshoot", 1.5, 0, 4, "[████] 100.0% ETA: calculating..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatProgressBarWithETA(tt.progress, tt.eta, tt.width); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressBar_Width(t *testing.T) {
	t.Parallel()
	for _, width := range []int{0, -3, 1, 40} {
		bar := ProgressBar(0.75, width)
		if n := len([]rune(bar)); n != max(width, 0) {
			t.Errorf("width %d: bar has %d cells", width, n)
		}
		if width > 0 && strings.Count(bar, "█") != int(0.75*float64(width)) {
			t.Errorf("width %d: %q", width, bar)
		}
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{300 * time.Millisecond, "< 1s"},
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{90 * time.Second, "1m30s"},
		{2 * time.Hour, "2h"},
		{time.Hour + 20*time.Minute + 59*time.Second, "1h20m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}
