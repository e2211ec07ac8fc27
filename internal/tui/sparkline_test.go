package tui

import (
	"slices"
	"testing"
	"unicode/utf8"
)

func TestRingBuffer_Wraps(t *testing.T) {
	t.Parallel()
	r := NewRingBuffer(3)
	if r.Len() != 0 || r.Last() != 0 || r.Slice() != nil {
		t.Fatal("new buffer is not empty")
	}
	for _, v := range []float64{1, 2, 3, 4, 5} {
		r.Push(v)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
	if r.Last() != 5 {
		t.Errorf("Last = %v, want 5", r.Last())
	}
	if got := r.Slice(); !slices.Equal(got, []float64{3, 4, 5}) {
		t.Errorf("Slice = %v, want [3 4 5]", got)
	}
	r.Reset()
	if r.Len() != 0 {
		t.Error("Reset did not clear the buffer")
	}
}

func TestRingBuffer_ZeroCapacity(t *testing.T) {
	t.Parallel()
	r := NewRingBuffer(0)
	r.Push(7)
	r.Push(8)
	if r.Len() != 1 || r.Last() != 8 {
		t.Errorf("Len = %d, Last = %v", r.Len(), r.Last())
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"zeros", []float64{0, 0}, "▁▁"},
		{"scaled to peak", []float64{0, 0.5, 1}, "▁▅█"},
		{"absolute scale ignored", []float64{10, 20}, "▅█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RenderSparkline(tt.values)
			if got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
			if utf8.RuneCountInString(got) != len(tt.values) {
				t.Errorf("got %d runes for %d values", utf8.RuneCountInString(got), len(tt.values))
			}
		})
	}
}
