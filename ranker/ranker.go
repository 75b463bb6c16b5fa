/*
DESCRIPTION
  ranker.go implements the Candidate Ranker: greedy top-K selection over
  hard-rejection-surviving frames, enforcing a minimum temporal gap and a
  minimum appearance distance between every pair of accepted frames.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ranker implements the Candidate Ranker: greedy diverse top-K
// selection over scored frames.
package ranker

import (
	"math"
	"sort"

	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/preset"
)

// Select returns up to k frames from eligible (already hard-reject-filtered)
// frames, sorted by final score descending (ties broken by earlier sample
// time), greedily accepting a candidate only if it is at least
// th.TemporalMinGapSec away in time and th.AppearanceMinDist away in
// appearance from every already-accepted frame.
//
// The returned slice is a subset of eligible; it never contains duplicates
// and never exceeds min(k, len(eligible)).
func Select(eligible []*metrics.Frame, th preset.Thresholds, k int) []*metrics.Frame {
	if k <= 0 || len(eligible) == 0 {
		return nil
	}

	sorted := make([]*metrics.Frame, len(eligible))
	copy(sorted, eligible)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].T < sorted[j].T
	})

	var selected []*metrics.Frame
	for _, cand := range sorted {
		if len(selected) >= k {
			break
		}
		if diverseFromAll(cand, selected, th) {
			selected = append(selected, cand)
		}
	}
	return selected
}

func diverseFromAll(cand *metrics.Frame, selected []*metrics.Frame, th preset.Thresholds) bool {
	for _, s := range selected {
		if math.Abs(cand.T-s.T) < th.TemporalMinGapSec {
			return false
		}
		if AppearanceDistance(cand.Analysis, s.Analysis, cand.Faces, s.Faces) < th.AppearanceMinDist {
			return false
		}
	}
	return true
}
