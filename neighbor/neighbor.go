/*
DESCRIPTION
  neighbor.go implements the Neighbor Fetcher: for each selected candidate it
  seeks to nearby sample-interval offsets and scores those frames through the
  metrics engine's single-frame evaluation path, grounded on the same
  seek-and-evaluate loop the pipeline session's main sampling pass uses.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package neighbor implements the Neighbor Fetcher: seeking to and scoring
// the frames surrounding each selected candidate.
package neighbor

import (
	"math"
	"sort"

	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/video"
)

// Group is one selected candidate's fetched neighbors, sorted by offset
// ascending.
type Group struct {
	Candidate *metrics.Frame
	Neighbors []Neighbor
}

// Neighbor is one fetched neighbor frame, tagged with its signed offset from
// the owning candidate.
type Neighbor struct {
	Offset int
	Frame  *metrics.Frame
}

// DefaultOffsets returns {-n, +n, -(n-1), +(n-1), ..., -1, +1} sorted by
// (|offset|, offset), for a configured neighbor count n. It returns nil for
// n <= 0.
func DefaultOffsets(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, 2*n)
	for i := 1; i <= n; i++ {
		out = append(out, -i, i)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := abs(out[i]), abs(out[j])
		if ai != aj {
			return ai < aj
		}
		return out[i] < out[j]
	})
	return out
}

// Fetch seeks to each offset (in sample-interval units) around every
// candidate, decodes and scores each via eng's single-frame evaluation path,
// and groups the results by candidate with offsets sorted ascending.
//
// Offsets resolving to a negative time are skipped. A seek-and-read failure
// is a DecodeSkip: the offset is silently dropped rather than aborting the
// fetch. duration is the video's total duration, passed through to each
// scored neighbor's TimePrior.
func Fetch(src video.Source, eng *metrics.Engine, candidates []*metrics.Frame, offsets []int, sampleRate, duration float64) []Group {
	if len(candidates) == 0 || len(offsets) == 0 {
		return nil
	}

	interval := 1 / math.Max(sampleRate, 1e-6)

	// The final Neighbors slice is sorted offset-ascending (spec §4.8's main
	// grouping rule), distinct from DefaultOffsets' own (|offset|, offset)
	// generation order.
	sortedOffsets := make([]int, len(offsets))
	copy(sortedOffsets, offsets)
	sort.Ints(sortedOffsets)

	groups := make([]Group, 0, len(candidates))
	for _, cand := range candidates {
		g := Group{Candidate: cand}
		for _, o := range sortedOffsets {
			t := cand.T + float64(o)*interval
			if t < 0 {
				continue
			}
			img, ok := src.SeekAndRead(t)
			if !ok {
				continue
			}
			frame := eng.Evaluate(img, t, duration)
			img.Close()
			g.Neighbors = append(g.Neighbors, Neighbor{Offset: o, Frame: frame})
		}
		groups = append(groups, g)
	}
	return groups
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
