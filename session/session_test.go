package session

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/daverage/yt-thumb/facebank"
	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/preset"
	"github.com/daverage/yt-thumb/video"
)

type recordingProgress struct {
	stages []string
}

func (r *recordingProgress) Report(stage string, value, max int, detail string) {
	r.stages = append(r.stages, stage)
}

func newFakeSource(t *testing.T) *video.FrameGenerator {
	gen := video.NewFrameGenerator(video.Metadata{
		Path: "fixture.mp4", Duration: 2, FPS: 1, Width: 16, Height: 9,
	})
	gen.SetFrame(0, color.RGBA{255, 0, 0, 255})
	gen.SetFrame(1, color.RGBA{0, 255, 0, 255})
	gen.SetFrame(2, color.RGBA{0, 0, 255, 255})
	return gen
}

func TestRunEndToEnd(t *testing.T) {
	src := newFakeSource(t)
	bank := facebank.New(facebank.Classifiers{}, nil)
	eng := metrics.New(bank, nil)

	p := preset.Default()
	p.Thresholds.SharpMin = 0 // The fake source's flat-color frames have zero Laplacian variance.
	// The frame at t=1 scores highest; with the default 2 s gap it would block
	// both t=0 and t=2, so a 1 s gap is needed for two picks.
	p.Thresholds.TemporalMinGapSec = 1

	prog := &recordingProgress{}
	outDir := t.TempDir()

	s := New(src, eng, p, Options{
		OutputDir:     outDir,
		TopK:          2,
		NeighborCount: 1,
		SampleRate:    1,
		PresetName:    "default",
	}, WithProgress(prog), WithRunID("test-run"))

	m, path, err := s.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if path != filepath.Join(outDir, "manifest.json") {
		t.Errorf("manifest path = %q, want %q", path, filepath.Join(outDir, "manifest.json"))
	}
	if m.FramesAnalyzed != 3 {
		t.Errorf("FramesAnalyzed = %d, want 3", m.FramesAnalyzed)
	}
	if len(m.Top) != 2 {
		t.Errorf("len(Top) = %d, want 2", len(m.Top))
	}
	if m.Parameters.RunID != "test-run" {
		t.Errorf("RunID = %q, want %q", m.Parameters.RunID, "test-run")
	}

	wantStages := []string{
		StageOpeningVideo, StageSamplingFrames, StageScoringFrames,
		StageSelectingTop, StageFetchingNeighbors, StageWritingManifest, StageCompleted,
	}
	seen := map[string]bool{}
	for _, st := range prog.stages {
		seen[st] = true
	}
	for _, want := range wantStages {
		if !seen[want] {
			t.Errorf("progress never reported stage %q", want)
		}
	}
}

func TestRunReportsConfigurationWarnOnDefaultedField(t *testing.T) {
	src := newFakeSource(t)
	bank := facebank.New(facebank.Classifiers{}, nil)
	eng := metrics.New(bank, nil)

	p := preset.Default()
	p.Thresholds.SharpMin = 0
	p.Thresholds.TemporalMinGapSec = -1 // Invalid; Validate defaults it to 0 and should warn.

	prog := &recordingProgress{}
	s := New(src, eng, p, Options{
		OutputDir:     t.TempDir(),
		TopK:          2,
		NeighborCount: 1,
		SampleRate:    1,
	}, WithProgress(prog))

	if _, _, err := s.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, st := range prog.stages {
		if st == StageConfigurationWarn {
			found = true
		}
	}
	if !found {
		t.Error("Run() with a negative TemporalMinGapSec never reported StageConfigurationWarn")
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	src := newFakeSource(t)
	bank := facebank.New(facebank.Classifiers{}, nil)
	eng := metrics.New(bank, nil)

	s := New(src, eng, preset.Default(), Options{OutputDir: t.TempDir(), TopK: 0})
	if _, _, err := s.Run(); err == nil {
		t.Error("Run() with TopK=0 returned no error")
	}
}
