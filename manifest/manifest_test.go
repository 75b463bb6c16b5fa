package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSuggestedCrop(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		want    Crop
	}{
		{"16:9 already", 1920, 1080, Crop{0, 0, 1920, 1080}},
		{"16:10, taller than 16:9", 1920, 1200, Crop{0, 60, 1920, 1080}},
		{"narrower than 16:9", 1000, 1080, Crop{0, 259, 1000, 562}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestedCrop(tt.w, tt.h)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SuggestedCrop(%d,%d) mismatch (-want +got):\n%s", tt.w, tt.h, diff)
			}
		})
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m := Manifest{
		Video: VideoInfo{Path: "in.mp4", DurationSec: 12.5, FPS: 30, Width: 1920, Height: 1080},
		Preset: "default",
		Parameters: Parameters{FPS: 2, Top: 3, Neighbors: 2, RunID: "abc-123"},
		FramesAnalyzed: 2,
		Scores: []ScoreEntry{
			{T: 0, Sharp: 0.5, SharpRaw: 100, Score: 0.7, Path: "frames/f_000000.000.png"},
			{T: 0.5, Sharp: 1, SharpRaw: 200, Score: 0.9, Path: "frames/f_000000.500.png"},
		},
		Top: []TopEntry{
			{
				T: 0.5, Score: 0.9, Path: "candidates/c_000000.500_main.png",
				Neighbors: []NeighborEntry{
					{Dt: -1, Path: "candidates/c_000000.000_m1.png"},
					{Dt: 1, Path: "candidates/c_000001.000_p1.png"},
				},
				SuggestedCrop: Crop{0, 0, 1920, 1080},
			},
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	reserialized, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent(got): %v", err)
	}

	if diff := cmp.Diff(string(data), string(reserialized)); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() of a missing file returned no error")
	}
}
