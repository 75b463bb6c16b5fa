package ranker

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/preset"
)

// solidFrame returns a metrics.Frame with a tiny solid-color analysis image,
// used so AppearanceDistance has well-defined (if trivial) pixel data to
// work with instead of an empty Mat.
func solidFrame(t, score float64, c color.RGBA) *metrics.Frame {
	img := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&img, image.Rect(0, 0, 8, 8), c, -1)
	f := &metrics.Frame{T: t, Analysis: img}
	f.Score = score
	return f
}

func TestSelectGreedyDiversity(t *testing.T) {
	// S5: times [0,1,3,3.5], scores [1.0,0.9,0.8,0.7], gap=2, dist=0, k=4
	// -> selection [0,3].
	frames := []*metrics.Frame{
		solidFrame(0, 1.0, color.RGBA{255, 0, 0, 0}),
		solidFrame(1, 0.9, color.RGBA{255, 0, 0, 0}),
		solidFrame(3, 0.8, color.RGBA{255, 0, 0, 0}),
		solidFrame(3.5, 0.7, color.RGBA{255, 0, 0, 0}),
	}
	defer func() {
		for _, f := range frames {
			f.Analysis.Close()
		}
	}()

	th := preset.Thresholds{TemporalMinGapSec: 2, AppearanceMinDist: 0}
	got := Select(frames, th, 4)

	if len(got) != 2 {
		t.Fatalf("Select() returned %d frames, want 2", len(got))
	}
	if got[0].T != 0 || got[1].T != 3 {
		t.Errorf("Select() = [%v, %v], want [0, 3]", got[0].T, got[1].T)
	}
}

func TestSelectBounds(t *testing.T) {
	frames := []*metrics.Frame{
		solidFrame(0, 1.0, color.RGBA{255, 0, 0, 0}),
		solidFrame(10, 0.9, color.RGBA{0, 255, 0, 0}),
		solidFrame(20, 0.8, color.RGBA{0, 0, 255, 0}),
	}
	defer func() {
		for _, f := range frames {
			f.Analysis.Close()
		}
	}()

	th := preset.Thresholds{TemporalMinGapSec: 1, AppearanceMinDist: 0}

	got := Select(frames, th, 2)
	if len(got) != 2 {
		t.Fatalf("Select(k=2) returned %d frames, want 2", len(got))
	}

	seen := map[*metrics.Frame]bool{}
	for _, f := range got {
		if seen[f] {
			t.Errorf("Select() returned duplicate frame at t=%v", f.T)
		}
		seen[f] = true
	}

	gotAll := Select(frames, th, 10)
	if len(gotAll) != len(frames) {
		t.Errorf("Select(k=10) returned %d frames, want min(k,len)=%d", len(gotAll), len(frames))
	}
}

func TestSelectEmpty(t *testing.T) {
	if got := Select(nil, preset.Thresholds{}, 5); got != nil {
		t.Errorf("Select(nil) = %v, want nil", got)
	}
}
