/*
DESCRIPTION
  types.go defines the FrameMetrics data model: one record per sampled
  frame, carrying owned image buffers, detected faces, and the raw/
  normalized/final metric values the Metrics Engine computes for it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package metrics implements the Metrics Engine: per-frame raw image-quality
// measurement, cross-corpus normalization, weighted score combination, and
// hard-gate rejection.
package metrics

import (
	"image"

	"gocv.io/x/gocv"
)

// Values holds the fixed ten-metric vector the spec defines, used both for
// raw (unbounded) and normalized ([0,1]) readings.
type Values struct {
	Sharpness    float64
	Exposure     float64
	Contrast     float64
	Colorfulness float64
	Face         float64
	Centrality   float64
	Clutter      float64
	OverlaySafe  float64
	Motion       float64
	TimePrior    float64
}

// field identifies one of the ten Values fields, used to walk the vector
// generically for normalization without reflection.
type field int

const (
	fSharpness field = iota
	fExposure
	fContrast
	fColorfulness
	fFace
	fCentrality
	fClutter
	fOverlaySafe
	fMotion
	fTimePrior
	numFields
)

func get(v *Values, f field) float64 {
	switch f {
	case fSharpness:
		return v.Sharpness
	case fExposure:
		return v.Exposure
	case fContrast:
		return v.Contrast
	case fColorfulness:
		return v.Colorfulness
	case fFace:
		return v.Face
	case fCentrality:
		return v.Centrality
	case fClutter:
		return v.Clutter
	case fOverlaySafe:
		return v.OverlaySafe
	case fMotion:
		return v.Motion
	case fTimePrior:
		return v.TimePrior
	default:
		panic("unknown metrics field")
	}
}

func set(v *Values, f field, x float64) {
	switch f {
	case fSharpness:
		v.Sharpness = x
	case fExposure:
		v.Exposure = x
	case fContrast:
		v.Contrast = x
	case fColorfulness:
		v.Colorfulness = x
	case fFace:
		v.Face = x
	case fCentrality:
		v.Centrality = x
	case fClutter:
		v.Clutter = x
	case fOverlaySafe:
		v.OverlaySafe = x
	case fMotion:
		v.Motion = x
	case fTimePrior:
		v.TimePrior = x
	default:
		panic("unknown metrics field")
	}
}

// Frame is one sampled frame's full record: its time, owned image buffers,
// detected faces, raw/normalized metrics, and (once ranked) its final score
// and saved path.
//
// Invariants: Raw is written exactly once, during Evaluate, and never
// touched again. Normalized is valid only after Normalize has run
// over the whole corpus containing this Frame. SavedPath is set at most
// once, by the manifest writer.
type Frame struct {
	T          float64
	Full       gocv.Mat // Full-resolution decoded frame. Owned; Close() at session end.
	Analysis   gocv.Mat // Downscaled analysis frame. Owned; Close() at session end.
	Faces      []image.Rectangle
	Raw        Values
	Normalized Values
	Score      float64
	SavedPath  string

	closed bool
}

// Close releases the frame's owned image buffers. It is safe to call more
// than once.
func (f *Frame) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.Full.Close()
	f.Analysis.Close()
}
