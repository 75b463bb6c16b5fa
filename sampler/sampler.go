/*
DESCRIPTION
  sampler.go generates the deterministic sequence of sample timestamps that
  the rest of the pipeline walks through.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sampler produces the timestamp sequence a pipeline session samples
// a video at, given a total duration and a target sample rate.
package sampler

import "math"

// Generate returns t_k = k/rate for k = 0, 1, 2, ... while t_k <= duration.
//
// It returns an empty slice if duration or rate is <= 0. The first element is
// always exactly 0; the last element is <= duration, and equals duration
// exactly when duration*rate is an integer.
func Generate(duration, rate float64) []float64 {
	if duration <= 0 || rate <= 0 {
		return nil
	}

	n := int(math.Floor(duration*rate)) + 1

	out := make([]float64, n)
	for k := 0; k < n; k++ {
		out[k] = float64(k) / rate
	}
	return out
}

// Interval returns the sample interval in seconds for the given rate, i.e.
// 1/rate. The rate is floored at a small epsilon to avoid division blow-up
// when callers pass a zero or negative rate by mistake.
func Interval(rate float64) float64 {
	const minRate = 1e-6
	if rate < minRate {
		rate = minRate
	}
	return 1 / rate
}
