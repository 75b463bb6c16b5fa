package metrics

import (
	"math"
	"testing"

	"github.com/daverage/yt-thumb/preset"
)

func frameWithSharpness(v float64) *Frame {
	f := &Frame{}
	f.Raw.Sharpness = v
	return f
}

func TestNormalizeRange(t *testing.T) {
	frames := []*Frame{frameWithSharpness(10), frameWithSharpness(30), frameWithSharpness(20)}
	Normalize(frames)

	want := []float64{0.0, 1.0, 0.5}
	for i, f := range frames {
		if math.Abs(f.Normalized.Sharpness-want[i]) > 1e-9 {
			t.Errorf("frame %d: normalized sharpness = %v, want %v", i, f.Normalized.Sharpness, want[i])
		}
	}
}

func TestNormalizeZeroRange(t *testing.T) {
	frames := []*Frame{frameWithSharpness(5), frameWithSharpness(5), frameWithSharpness(5)}
	Normalize(frames)
	for i, f := range frames {
		if f.Normalized.Sharpness != 0 {
			t.Errorf("frame %d: normalized sharpness = %v, want 0 (zero range)", i, f.Normalized.Sharpness)
		}
	}
}

func TestTimePrior(t *testing.T) {
	cases := []struct {
		t, duration, want float64
	}{
		{0.5, 1, 1.0},
		{0, 1, 0},
		{0.25, 1, 0.5},
		{123, 0, 0.5},
	}
	for _, c := range cases {
		got := timePrior(c.t, c.duration)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("timePrior(%v,%v) = %v, want %v", c.t, c.duration, got, c.want)
		}
	}
}

func TestCombineBounds(t *testing.T) {
	w := preset.Weights{
		Sharpness: 0.3, Exposure: 0.2, Contrast: 0.1, Colorfulness: 0.1,
		Face: 0.1, Centrality: 0.1, Clutter: 0.05, OverlaySafe: 0.02,
		Motion: 0.02, TimePrior: 0.01,
	}
	sum := w.Sharpness + w.Exposure + w.Contrast + w.Colorfulness + w.Face +
		w.Centrality + w.Clutter + w.OverlaySafe + w.Motion + w.TimePrior

	f := &Frame{}
	f.Normalized = Values{
		Sharpness: 1, Exposure: 1, Contrast: 1, Colorfulness: 1, Face: 1,
		Centrality: 1, Clutter: 0, OverlaySafe: 1, Motion: 0, TimePrior: 1,
	}
	got := Combine(f, w)
	if got < 0 || got > sum+1e-9 {
		t.Errorf("Combine() = %v, want in [0,%v]", got, sum)
	}

	f2 := &Frame{}
	got2 := Combine(f2, w) // All-zero normalized values.
	if got2 < -1e-9 {
		t.Errorf("Combine() with zero metrics = %v, want >= 0", got2)
	}
}

func TestHardReject(t *testing.T) {
	th := preset.Thresholds{SharpMin: 50, Lmin: 15, Lmax: 240}

	f := &Frame{}
	f.Raw = Values{Sharpness: 100, Exposure: 100, Face: 0}
	if HardReject(f, th, false) {
		t.Error("HardReject() = true for an otherwise-fine frame, want false")
	}

	low := &Frame{}
	low.Raw = Values{Sharpness: 10, Exposure: 100}
	if !HardReject(low, th, false) {
		t.Error("HardReject() = false for low sharpness, want true")
	}

	dark := &Frame{}
	dark.Raw = Values{Sharpness: 100, Exposure: 5}
	if !HardReject(dark, th, false) {
		t.Error("HardReject() = false for underexposed frame, want true")
	}

	bright := &Frame{}
	bright.Raw = Values{Sharpness: 100, Exposure: 250}
	if !HardReject(bright, th, false) {
		t.Error("HardReject() = false for overexposed frame, want true")
	}

	noFace := &Frame{}
	noFace.Raw = Values{Sharpness: 100, Exposure: 100, Face: 0}
	if !HardReject(noFace, th, true) {
		t.Error("HardReject() = false when requireFace and no face present, want true")
	}
}

func TestHardRejectMonotone(t *testing.T) {
	f := &Frame{}
	f.Raw = Values{Sharpness: 60, Exposure: 100, Face: 0}

	loose := preset.Thresholds{SharpMin: 50, Lmin: 15, Lmax: 240}
	strict := preset.Thresholds{SharpMin: 70, Lmin: 15, Lmax: 240}

	if HardReject(f, loose, false) {
		t.Fatal("precondition failed: frame rejected under loose thresholds")
	}
	if !HardReject(f, strict, false) {
		t.Error("raising SharpMin did not newly reject a frame that should now fail")
	}
}
