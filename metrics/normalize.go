/*
DESCRIPTION
  normalize.go implements the corpus-wide min-max normalization, the final
  weighted score combination, and hard-gate rejection against raw metric
  values.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package metrics

import (
	"github.com/daverage/yt-thumb/preset"
)

// minRange is the floor applied to a metric's (max-min) span before
// dividing, per spec §4.5.
const minRange = 1e-6

// Normalize independently min-max normalizes each of the ten raw metrics
// across frames into [0,1], writing the result into each Frame's
// Normalized field. It must be called exactly once per corpus, after every
// frame has been evaluated and before Combine.
func Normalize(frames []*Frame) {
	if len(frames) == 0 {
		return
	}

	for f := field(0); f < numFields; f++ {
		min, max := get(&frames[0].Raw, f), get(&frames[0].Raw, f)
		for _, fr := range frames[1:] {
			v := get(&fr.Raw, f)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}

		span := max - min
		if span < minRange {
			span = minRange
		}
		for _, fr := range frames {
			v := get(&fr.Raw, f)
			set(&fr.Normalized, f, (v-min)/span)
		}
	}
}

// Combine computes a frame's final weighted score from its normalized
// metrics, writing it into Frame.Score. Weights pass through unchanged; no
// renormalization is performed.
func Combine(f *Frame, w preset.Weights) float64 {
	n := f.Normalized
	score := w.Sharpness*n.Sharpness +
		w.Exposure*n.Exposure +
		w.Contrast*n.Contrast +
		w.Colorfulness*n.Colorfulness +
		w.Face*n.Face +
		w.Centrality*n.Centrality +
		w.Clutter*(1-n.Clutter) +
		w.OverlaySafe*n.OverlaySafe +
		w.Motion*(1-n.Motion) +
		w.TimePrior*n.TimePrior
	f.Score = score
	return score
}

// HardReject reports whether a frame must be eliminated before ranking,
// testing against raw metric values, never the normalized ones, per spec
// §4.6 and its "Open Question" note on threshold units.
func HardReject(f *Frame, th preset.Thresholds, requireFace bool) bool {
	if f.Raw.Sharpness < th.SharpMin {
		return true
	}
	if f.Raw.Exposure < th.Lmin || f.Raw.Exposure > th.Lmax {
		return true
	}
	if requireFace && f.Raw.Face <= 0 {
		return true
	}
	return false
}
