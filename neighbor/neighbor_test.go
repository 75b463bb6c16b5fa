package neighbor

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/daverage/yt-thumb/facebank"
	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/video"
)

func TestDefaultOffsets(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{-1, nil},
		{1, []int{-1, 1}},
		{3, []int{-1, 1, -2, 2, -3, 3}},
	}
	for _, tt := range tests {
		got := DefaultOffsets(tt.n)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("DefaultOffsets(%d) mismatch (-want +got):\n%s", tt.n, diff)
		}
	}
}

func TestFetchSkipsNegativeTimeAndDecodeFailure(t *testing.T) {
	gen := video.NewFrameGenerator(video.Metadata{Duration: 10, FPS: 1, Width: 4, Height: 4})
	// Only a frame at t=2 exists; every other seek fails to decode, and the
	// offset reaching t=-1 (offset -3 at sampleRate=1) is skipped outright.
	gen.SetFrame(2, color.RGBA{255, 0, 0, 255})

	eng := metrics.New(facebank.New(facebank.Classifiers{}, nil), nil)
	defer eng.Close()

	cand := &metrics.Frame{T: 2}
	offsets := DefaultOffsets(3) // {-1,1,-2,2,-3,3}; interval=1 at sampleRate=1.

	groups := Fetch(gen, eng, []*metrics.Frame{cand}, offsets, 1, 10)
	if len(groups) != 1 {
		t.Fatalf("Fetch() returned %d groups, want 1", len(groups))
	}
	g := groups[0]
	for _, n := range g.Neighbors {
		n.Frame.Close()
	}
	if len(g.Neighbors) != 0 {
		t.Errorf("got %d neighbors, want 0 (no decodable offsets in this fixture)", len(g.Neighbors))
	}
}

func TestFetchGroupsSortedByOffset(t *testing.T) {
	gen := video.NewFrameGenerator(video.Metadata{Duration: 10, FPS: 1, Width: 4, Height: 4})
	for _, t := range []float64{3, 4, 6, 7} {
		gen.SetFrame(t, color.RGBA{0, 255, 0, 255})
	}

	eng := metrics.New(facebank.New(facebank.Classifiers{}, nil), nil)
	defer eng.Close()

	cand := &metrics.Frame{T: 5}
	groups := Fetch(gen, eng, []*metrics.Frame{cand}, []int{2, -1, 1, -2}, 1, 10)
	if len(groups) != 1 {
		t.Fatalf("Fetch() returned %d groups, want 1", len(groups))
	}
	g := groups[0]
	defer func() {
		for _, n := range g.Neighbors {
			n.Frame.Close()
		}
	}()

	wantOffsets := []int{-2, -1, 1, 2}
	if len(g.Neighbors) != len(wantOffsets) {
		t.Fatalf("got %d neighbors, want %d", len(g.Neighbors), len(wantOffsets))
	}
	for i, o := range wantOffsets {
		if g.Neighbors[i].Offset != o {
			t.Errorf("neighbor[%d].Offset = %d, want %d", i, g.Neighbors[i].Offset, o)
		}
		wantT := cand.T + float64(o)
		if g.Neighbors[i].Frame.T != wantT {
			t.Errorf("neighbor[%d].Frame.T = %v, want %v", i, g.Neighbors[i].Frame.T, wantT)
		}
	}
}
