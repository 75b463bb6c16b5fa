/*
DESCRIPTION
  manifest.go implements the Manifest Writer: persisting per-frame scores,
  top picks, neighbor picks, and suggested crops to a JSON manifest, and
  writing the PNG files the manifest references, grounded on the teacher's
  container/mts serialization discipline (build the whole structure, then
  write it in one pass) applied to plain encoding/json instead of MPEG-TS.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package manifest implements the Manifest Writer: serializing a completed
// pipeline run to manifest.json and its referenced frame/candidate PNGs.
package manifest

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/neighbor"
	"github.com/daverage/yt-thumb/video"
)

// VideoInfo is the manifest's "video" block.
type VideoInfo struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"durationSec"`
	FPS         float64 `json:"fps"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// Parameters is the manifest's "parameters" block: the resolved (not
// requested) sample rate, the requested top-K, and the requested neighbor
// count, plus this run's identifier.
type Parameters struct {
	FPS       float64 `json:"fps"`
	Top       int     `json:"top"`
	Neighbors int     `json:"neighbors"`
	RunID     string  `json:"runId,omitempty"`
}

// ScoreEntry is one analyzed frame's full metric record.
type ScoreEntry struct {
	T             float64 `json:"t"`
	Sharp         float64 `json:"sharp"`
	SharpRaw      float64 `json:"sharpRaw"`
	Exposure      float64 `json:"exposure"`
	ExposureRaw   float64 `json:"exposureRaw"`
	Contrast      float64 `json:"contrast"`
	ContrastRaw   float64 `json:"contrastRaw"`
	Color         float64 `json:"color"`
	ColorRaw      float64 `json:"colorRaw"`
	Face          float64 `json:"face"`
	FaceRaw       float64 `json:"faceRaw"`
	Centrality    float64 `json:"centrality"`
	CentralityRaw float64 `json:"centralityRaw"`
	Clutter       float64 `json:"clutter"`
	ClutterRaw    float64 `json:"clutterRaw"`
	Overlay       float64 `json:"overlay"`
	OverlayRaw    float64 `json:"overlayRaw"`
	Motion        float64 `json:"motion"`
	MotionRaw     float64 `json:"motionRaw"`
	Time          float64 `json:"time"`
	TimeRaw       float64 `json:"timeRaw"`
	Score         float64 `json:"score"`
	Path          string  `json:"path"`
}

// NeighborEntry is one neighbor of a top pick.
type NeighborEntry struct {
	Dt   int    `json:"dt"`
	Path string `json:"path"`
}

// Crop is a suggested 16:9 crop box, in pixels.
type Crop struct {
	X      int `json:"X"`
	Y      int `json:"Y"`
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

// TopEntry is one selected candidate's full record.
type TopEntry struct {
	T             float64         `json:"t"`
	Score         float64         `json:"score"`
	Path          string          `json:"path"`
	Neighbors     []NeighborEntry `json:"neighbors"`
	SuggestedCrop Crop            `json:"suggestedCrop"`
}

// Manifest is the complete externally visible output of a pipeline run.
type Manifest struct {
	Video          VideoInfo    `json:"video"`
	Preset         string       `json:"preset"`
	Parameters     Parameters   `json:"parameters"`
	FramesAnalyzed int          `json:"framesAnalyzed"`
	Scores         []ScoreEntry `json:"scores"`
	Top            []TopEntry   `json:"top"`
}

// ScoreEntryFor builds a ScoreEntry from a scored frame and the relative
// path its full image was saved to.
func ScoreEntryFor(f *metrics.Frame, path string) ScoreEntry {
	return ScoreEntry{
		T:             f.T,
		Sharp:         f.Normalized.Sharpness,
		SharpRaw:      f.Raw.Sharpness,
		Exposure:      f.Normalized.Exposure,
		ExposureRaw:   f.Raw.Exposure,
		Contrast:      f.Normalized.Contrast,
		ContrastRaw:   f.Raw.Contrast,
		Color:         f.Normalized.Colorfulness,
		ColorRaw:      f.Raw.Colorfulness,
		Face:          f.Normalized.Face,
		FaceRaw:       f.Raw.Face,
		Centrality:    f.Normalized.Centrality,
		CentralityRaw: f.Raw.Centrality,
		Clutter:       f.Normalized.Clutter,
		ClutterRaw:    f.Raw.Clutter,
		Overlay:       f.Normalized.OverlaySafe,
		OverlayRaw:    f.Raw.OverlaySafe,
		Motion:        f.Normalized.Motion,
		MotionRaw:     f.Raw.Motion,
		Time:          f.Normalized.TimePrior,
		TimeRaw:       f.Raw.TimePrior,
		Score:         f.Score,
		Path:          path,
	}
}

// SuggestedCrop computes the largest centered 16:9 crop box that fits inside
// a w x h image, per §4.10: the full frame if its own ratio is already
// within 0.01 of 16:9, else letterboxed/pillarboxed and centered.
func SuggestedCrop(w, h int) Crop {
	if w <= 0 || h <= 0 {
		return Crop{Width: w, Height: h}
	}

	const target = 16.0 / 9.0
	ratio := float64(w) / float64(h)
	if math.Abs(ratio-target) < 0.01 {
		return Crop{Width: w, Height: h}
	}

	targetH := int(float64(w) * 9 / 16)
	if targetH > h {
		targetW := int(float64(h) * 16 / 9)
		return Crop{X: (w - targetW) / 2, Y: 0, Width: targetW, Height: h}
	}
	return Crop{X: 0, Y: (h - targetH) / 2, Width: w, Height: targetH}
}

// framePath returns the frames/f_{t}.png relative path for timestamp t.
func framePath(t float64) string {
	return filepath.Join("frames", fmt.Sprintf("f_%010.3f.png", t))
}

// candidatePath returns the candidates/c_{t}_{suffix}.png relative path.
func candidatePath(t float64, suffix string) string {
	return filepath.Join("candidates", fmt.Sprintf("c_%010.3f_%s.png", t, suffix))
}

// offsetSuffix returns "p{o}" for a positive offset and "m{|o|}" for a
// negative one.
func offsetSuffix(o int) string {
	if o < 0 {
		return fmt.Sprintf("m%d", -o)
	}
	return fmt.Sprintf("p%d", o)
}

// Write creates <out>/frames and <out>/candidates, saves every analyzed
// frame's full image and every top pick's (and its neighbors') images, and
// writes manifest.json. meta/presetName/params describe the run; allFrames
// is every sampled and scored frame, hard-rejected ones included;
// top is the ranker's selection in final order; groups is the neighbor
// fetcher's per-candidate output, same order as top.
func Write(outDir string, meta video.Metadata, presetName string, params Parameters, allFrames []*metrics.Frame, top []*metrics.Frame, groups []neighbor.Group) (string, error) {
	framesDir := filepath.Join(outDir, "frames")
	candidatesDir := filepath.Join(outDir, "candidates")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create frames directory: %w", err)
	}
	if err := os.MkdirAll(candidatesDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create candidates directory: %w", err)
	}

	m := Manifest{
		Video: VideoInfo{
			Path:        meta.Path,
			DurationSec: meta.Duration,
			FPS:         meta.FPS,
			Width:       meta.Width,
			Height:      meta.Height,
		},
		Preset:         presetName,
		Parameters:     params,
		FramesAnalyzed: len(allFrames),
	}

	for _, f := range allFrames {
		rel := framePath(f.T)
		if err := writePNG(filepath.Join(outDir, rel), f.Full); err != nil {
			return "", fmt.Errorf("could not write frame image: %w", err)
		}
		f.SavedPath = rel
		m.Scores = append(m.Scores, ScoreEntryFor(f, rel))
	}

	for i, cand := range top {
		rel := candidatePath(cand.T, "main")
		if err := writePNG(filepath.Join(outDir, rel), cand.Full); err != nil {
			return "", fmt.Errorf("could not write candidate image: %w", err)
		}

		entry := TopEntry{
			T:             cand.T,
			Score:         cand.Score,
			Path:          rel,
			SuggestedCrop: SuggestedCrop(cand.Full.Cols(), cand.Full.Rows()),
		}

		if i < len(groups) {
			for _, n := range groups[i].Neighbors {
				nrel := candidatePath(n.Frame.T, offsetSuffix(n.Offset))
				if err := writePNG(filepath.Join(outDir, nrel), n.Frame.Full); err != nil {
					return "", fmt.Errorf("could not write neighbor image: %w", err)
				}
				entry.Neighbors = append(entry.Neighbors, NeighborEntry{Dt: n.Offset, Path: nrel})
			}
		}

		m.Top = append(m.Top, entry)
	}

	manifestPath := filepath.Join(outDir, "manifest.json")
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write manifest: %w", err)
	}

	return manifestPath, nil
}

func writePNG(path string, img gocv.Mat) error {
	ok, err := gocv.IMWrite(path, img)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("gocv.IMWrite reported failure for %s", path)
	}
	return nil
}

// Load parses a manifest.json file, used by the round-trip test and by
// session.Run to read back the manifest it has just written. Decode failures
// are wrapped with pkg/errors,
// mirroring the teacher's h264 decoder's parse-error annotations.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read manifest file")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "could not decode manifest JSON")
	}
	return &m, nil
}
