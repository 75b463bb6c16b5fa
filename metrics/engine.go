/*
DESCRIPTION
  engine.go implements the Metrics Engine's per-frame evaluation: producing
  a downscaled analysis image, running face detection, computing the ten raw
  metrics, and carrying the previous-luma state motion scoring needs across
  calls — the same "engine owns exactly one stored previous frame, replaced
  after each call" discipline filter.Diff uses for its own prev Mat.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package metrics

import (
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/facebank"
	"github.com/daverage/yt-thumb/preset"
)

// Engine is the Metrics Engine. One Engine instance is scoped to a single
// pipeline session; its previous-luma state is not safe to share across
// concurrent evaluations of unrelated frames, but detection itself is
// guarded so the engine could in principle be shared in the future.
type Engine struct {
	mu            sync.Mutex
	bank          *facebank.Bank
	zones         []preset.OverlayZone
	analysisWidth int
	detectMode    facebank.Mode

	prevGray gocv.Mat
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithAnalysisWidth overrides the default 640px analysis image width.
func WithAnalysisWidth(w int) Option {
	return func(e *Engine) {
		if w > 0 {
			e.analysisWidth = w
		}
	}
}

// WithDetectMode overrides the default facebank.Default detection mode.
func WithDetectMode(m facebank.Mode) Option {
	return func(e *Engine) { e.detectMode = m }
}

// New returns a new Engine using bank for face detection and zones for
// overlay-safety scoring.
func New(bank *facebank.Bank, zones []preset.OverlayZone, opts ...Option) *Engine {
	e := &Engine{
		bank:          bank,
		zones:         zones,
		analysisWidth: defaultAnalysisWidth,
		prevGray:      gocv.NewMat(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes a Frame for a freshly decoded full-resolution image at
// time t, given the video's total duration (for TimePrior). It takes
// ownership of src's pixel data (via Clone) and does not modify or close
// src itself.
//
// Evaluate is also the single-frame evaluation path the Neighbor Fetcher
// uses; its only corpus-wide side effect is perturbing the previous-luma
// state, which is an accepted trade-off per spec §9.
func (e *Engine) Evaluate(src gocv.Mat, t, duration float64) *Frame {
	full := src.Clone()
	analysis := e.downscale(full)

	gray := gocv.NewMat()
	gocv.CvtColor(analysis, &gray, gocv.ColorBGRToGray)
	defer gray.Close()

	faces := e.detectFaces(gray)

	var raw Values
	raw.Sharpness = sharpness(gray)
	raw.Exposure, raw.Contrast = exposureAndContrast(analysis)
	raw.Colorfulness = colorfulness(analysis)
	bounds := image.Rect(0, 0, analysis.Cols(), analysis.Rows())
	raw.Face = faceScore(faces, bounds)
	raw.Centrality = centrality(faces, bounds)
	raw.Clutter = clutter(analysis, faces)
	raw.OverlaySafe = overlaySafe(analysis, faces, e.zones)
	raw.Motion = e.motionAndAdvance(gray)
	raw.TimePrior = timePrior(t, duration)

	return &Frame{
		T:        t,
		Full:     full,
		Analysis: analysis,
		Faces:    faces,
		Raw:      raw,
	}
}

// downscale returns a copy of src resized to analysisWidth (aspect
// preserved), or an unscaled copy if src is already narrower.
func (e *Engine) downscale(src gocv.Mat) gocv.Mat {
	if src.Cols() <= e.analysisWidth {
		return src.Clone()
	}
	scale := float64(e.analysisWidth) / float64(src.Cols())
	targetH := int(float64(src.Rows()) * scale)

	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(e.analysisWidth, targetH), 0, 0, gocv.InterpolationArea)
	return dst
}

func (e *Engine) detectFaces(gray gocv.Mat) []image.Rectangle {
	if e.bank == nil {
		return nil
	}
	return e.bank.Detect(gray, e.detectMode)
}

// motionAndAdvance scores motion against the stored previous grayscale
// frame, then replaces that state with gray's own copy.
func (e *Engine) motionAndAdvance(gray gocv.Mat) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	score := motion(gray, e.prevGray)

	e.prevGray.Close()
	e.prevGray = gray.Clone()

	return score
}

// Close releases the engine's retained previous-frame state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prevGray.Close()
}
