/*
DESCRIPTION
  raw.go computes the ten raw per-frame image-quality metrics on a frame's
  downscaled analysis image, grounded on the same gocv primitives the
  teacher's turbidity probe (cmd/rv/probe.go) and gocv difference filter
  (filter/diff.go) use for sharpness/contrast and frame-to-frame difference.

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
	"image/color"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"github.com/daverage/yt-thumb/facebank"
	"github.com/daverage/yt-thumb/preset"
)

// black is used to mask out face regions in the clutter edge map.
var black = color.RGBA{0, 0, 0, 0}

// Design constants, per spec §9: these are fixed numeric semantics, not
// tuning knobs that belong in a preset.
const (
	defaultAnalysisWidth = 640
	histBins             = 32
	overlayPenaltyPower  = 1.0
	cannyLow             = 100
	cannyHigh            = 200
	faceRectPad          = 5 // px, clutter face-masking expansion.
)

// sharpness returns the variance of the Laplacian of a grayscale image.
func sharpness(gray gocv.Mat) float64 {
	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stdDev := gocv.NewMat()
	defer stdDev.Close()
	gocv.MeanStdDev(lap, &mean, &stdDev)

	sigma := stdDev.GetDoubleAt(0, 0)
	return sigma * sigma
}

// exposureAndContrast returns the mean and standard deviation of the L
// channel of the BGR->Lab conversion of img.
func exposureAndContrast(img gocv.Mat) (exposure, contrast float64) {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(img, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()
	l := channels[0]

	mean := gocv.NewMat()
	defer mean.Close()
	stdDev := gocv.NewMat()
	defer stdDev.Close()
	gocv.MeanStdDev(l, &mean, &stdDev)

	return mean.GetDoubleAt(0, 0), stdDev.GetDoubleAt(0, 0)
}

// colorfulness implements the Hasler-Susstrunk colorfulness metric:
// std(rg) + 0.3*std(yb), where rg=|R-G| and yb=|(R+G)/2 - B|.
func colorfulness(img gocv.Mat) float64 {
	rows, cols := img.Rows(), img.Cols()
	n := rows * cols
	rg := make([]float64, 0, n)
	yb := make([]float64, 0, n)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := img.GetVecbAt(y, x) // BGR order.
			b, g, r := float64(px[0]), float64(px[1]), float64(px[2])
			rg = append(rg, math.Abs(r-g))
			yb = append(yb, math.Abs((r+g)/2-b))
		}
	}

	return stat.StdDev(rg, nil) + 0.3*stat.StdDev(yb, nil)
}

// faceScore returns the largest detected face's area fraction of the image,
// clamped to [0,1], or 0 if there are no faces.
func faceScore(faces []image.Rectangle, imgBounds image.Rectangle) float64 {
	largest := facebank.Largest(faces)
	if largest == nil {
		return 0
	}
	area := float64(largest.Dx() * largest.Dy())
	imgArea := float64(imgBounds.Dx() * imgBounds.Dy())
	if imgArea <= 0 {
		return 0
	}
	return clamp01(area / imgArea)
}

// centrality scores how close the largest face's center sits to a
// rule-of-thirds intersection point; 0.5 when there are no faces.
func centrality(faces []image.Rectangle, imgBounds image.Rectangle) float64 {
	largest := facebank.Largest(faces)
	if largest == nil {
		return 0.5
	}

	w := float64(imgBounds.Dx())
	h := float64(imgBounds.Dy())
	cx := float64(largest.Min.X+largest.Max.X) / 2
	cy := float64(largest.Min.Y+largest.Max.Y) / 2

	thirds := [4][2]float64{
		{w / 3, h / 3},
		{2 * w / 3, h / 3},
		{w / 3, 2 * h / 3},
		{2 * w / 3, 2 * h / 3},
	}

	best := math.Inf(1)
	for _, t := range thirds {
		d := math.Hypot(cx-t[0], cy-t[1])
		if d < best {
			best = d
		}
	}

	diag := math.Hypot(w/2, h/2)
	if diag <= 0 {
		return 0.5
	}
	ratio := clamp01(best / diag)
	return 1 - ratio
}

// clutter returns the fraction of Canny edge pixels outside the detected
// face rectangles (expanded by faceRectPad and clamped to bounds).
func clutter(img gocv.Mat, faces []image.Rectangle) float64 {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, cannyLow, cannyHigh)

	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	for _, f := range faces {
		pad := image.Rect(f.Min.X-faceRectPad, f.Min.Y-faceRectPad, f.Max.X+faceRectPad, f.Max.Y+faceRectPad).Intersect(bounds)
		if pad.Empty() {
			continue
		}
		gocv.Rectangle(&edges, pad, black, -1)
	}

	nonZero := gocv.CountNonZero(edges)
	area := img.Rows() * img.Cols()
	if area <= 0 {
		return 0
	}
	return float64(nonZero) / float64(area)
}

// overlaySafe scores how clear the preset's overlay zones are of busy
// texture or face overlap, returning 1 when there are no zones.
func overlaySafe(img gocv.Mat, faces []image.Rectangle, zones []preset.OverlayZone) float64 {
	if len(zones) == 0 {
		return 1
	}

	w, h := img.Cols(), img.Rows()
	bounds := image.Rect(0, 0, w, h)

	var total float64
	for _, z := range zones {
		roi := image.Rect(
			int(z.X*float64(w)),
			int(z.Y*float64(h)),
			int((z.X+z.W)*float64(w)),
			int((z.Y+z.H)*float64(h)),
		).Intersect(bounds)

		var busy float64
		if !roi.Empty() {
			busy = roiSobelStd(img, roi) / 100
			if busy > 1 {
				busy = 1
			}
		}

		overlap := 0.0
		for _, f := range faces {
			if facebank.IoU(f, roi) > 0.1 {
				overlap = 1
				break
			}
		}

		total += (busy + overlap) / 2
	}

	norm := clamp01(total / float64(len(zones)))
	return math.Pow(1-norm, overlayPenaltyPower)
}

// roiSobelStd returns the standard deviation of a second-order Sobel
// response within roi.
func roiSobelStd(img gocv.Mat, roi image.Rectangle) float64 {
	region := img.Region(roi)
	defer region.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)

	sx := gocv.NewMat()
	defer sx.Close()
	gocv.Sobel(gray, &sx, gocv.MatTypeCV64F, 2, 0, 3, 1, 0, gocv.BorderDefault)

	sy := gocv.NewMat()
	defer sy.Close()
	gocv.Sobel(gray, &sy, gocv.MatTypeCV64F, 0, 2, 3, 1, 0, gocv.BorderDefault)

	mag := gocv.NewMat()
	defer mag.Close()
	gocv.AddWeighted(sx, 1, sy, 1, 0, &mag)

	mean := gocv.NewMat()
	defer mean.Close()
	stdDev := gocv.NewMat()
	defer stdDev.Close()
	gocv.MeanStdDev(mag, &mean, &stdDev)

	return stdDev.GetDoubleAt(0, 0)
}

// motion returns the standard deviation of the absolute difference between
// the current and previous grayscale frames. The caller owns prev's
// lifecycle; motion never closes it.
func motion(gray, prev gocv.Mat) float64 {
	if prev.Empty() {
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, prev, &diff)

	mean := gocv.NewMat()
	defer mean.Close()
	stdDev := gocv.NewMat()
	defer stdDev.Close()
	gocv.MeanStdDev(diff, &mean, &stdDev)

	return stdDev.GetDoubleAt(0, 0)
}

// timePrior peaks at the video's midpoint, per spec §4.4.
func timePrior(t, duration float64) float64 {
	if duration <= 0 {
		return 0.5
	}
	n := clamp01(t / duration)
	v := 1 - 2*math.Abs(n-0.5)
	if v < 0 {
		return 0
	}
	return v
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
