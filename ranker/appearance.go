/*
DESCRIPTION
  appearance.go computes the appearance-distance metric the Candidate Ranker
  uses to enforce diversity among selected frames: a YCrCb-histogram color
  divergence combined with a face-IoU overlap term, grounded on gocv's
  CalcHist/Normalize primitives and gonum/stat's Correlation, following the
  teacher's habit (cmd/rv/probe.go) of reaching for gonum/stat for summary
  statistics rather than hand-rolling them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ranker

import (
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"github.com/daverage/yt-thumb/facebank"
)

const (
	appearanceThumbSize = 64
	histBins            = 32
)

// AppearanceDistance returns the composite appearance divergence between two
// frames' downscaled analysis images and detected faces, per spec §4.7:
// a YCrCb per-channel histogram correlation distance averaged over the three
// channels, combined with the largest-face IoU overlap.
func AppearanceDistance(a, b gocv.Mat, facesA, facesB []image.Rectangle) float64 {
	colorDist := colorHistDistance(a, b)
	overlap := faceOverlap(facesA, facesB)
	return (colorDist + (1 - overlap)) / 2
}

// colorHistDistance resizes both images to a fixed thumbnail size, converts
// to YCrCb, and averages 1-correlation across the three channel histograms.
func colorHistDistance(a, b gocv.Mat) float64 {
	ta := thumbnail(a)
	defer ta.Close()
	tb := thumbnail(b)
	defer tb.Close()

	ya := gocv.NewMat()
	defer ya.Close()
	gocv.CvtColor(ta, &ya, gocv.ColorBGRToYCrCb)

	yb := gocv.NewMat()
	defer yb.Close()
	gocv.CvtColor(tb, &yb, gocv.ColorBGRToYCrCb)

	chansA := gocv.Split(ya)
	defer closeAll(chansA)
	chansB := gocv.Split(yb)
	defer closeAll(chansB)

	var total float64
	for c := 0; c < len(chansA); c++ {
		ha := histogram(chansA[c])
		hb := histogram(chansB[c])
		total += 1 - stat.Correlation(ha, hb, nil)
	}
	return total / float64(len(chansA))
}

func thumbnail(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(appearanceThumbSize, appearanceThumbSize), 0, 0, gocv.InterpolationArea)
	return dst
}

// histogram returns a 32-bin, L1-normalized histogram of a single-channel
// 8-bit Mat as a plain float64 slice, ready for gonum/stat.Correlation.
func histogram(channel gocv.Mat) []float64 {
	hist := gocv.NewMat()
	defer hist.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{channel}, []int{0}, mask, &hist, []int{histBins}, []float64{0, 256}, false)
	gocv.Normalize(hist, &hist, 1, 0, gocv.NormL1)

	out := make([]float64, histBins)
	for i := 0; i < histBins; i++ {
		out[i] = float64(hist.GetFloatAt(i, 0))
	}
	return out
}

func closeAll(mats []gocv.Mat) {
	for _, m := range mats {
		m.Close()
	}
}

// faceOverlap returns the IoU of the largest face in each set, or 0 if
// either set is empty.
func faceOverlap(a, b []image.Rectangle) float64 {
	la := facebank.Largest(a)
	lb := facebank.Largest(b)
	if la == nil || lb == nil {
		return 0
	}
	return facebank.IoU(*la, *lb)
}
