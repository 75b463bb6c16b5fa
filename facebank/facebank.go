/*
DESCRIPTION
  facebank.go implements the Face Detector Bank: a narrow capability wrapping
  injected Haar cascade classifiers, returning deduplicated face rectangles
  for a requested detection mode.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package facebank provides the Face Detector Bank capability. Cascade
// classifier discovery and loading happen outside this package (it is an
// external collaborator, per the pipeline's scope); facebank only holds and
// runs whatever classifiers it is handed.
package facebank

import (
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"

	"github.com/daverage/yt-thumb/internal/nooplog"
)

// Mode selects which cascade(s) a Detect call runs and how results are
// post-processed.
type Mode int

const (
	// Default detects frontal and profile faces, unioning the results.
	Default Mode = iota
	// Glasses detects eyes-with-glasses and expands each hit to a face box.
	Glasses
	// Smile detects smiling mouths.
	Smile
)

// Classifiers holds the cascade classifiers the bank may use. Any field may
// be nil, meaning that classifier was not found/loaded; Detect degrades to
// returning no rectangles for modes that need a missing classifier, logging
// a warning rather than failing.
type Classifiers struct {
	Frontal        *gocv.CascadeClassifier
	Profile        *gocv.CascadeClassifier
	EyeWithGlasses *gocv.CascadeClassifier
	Smile          *gocv.CascadeClassifier
}

// cascadeParams bundles the DetectMultiScale tuning for one cascade.
type cascadeParams struct {
	scale        float64
	minNeighbors int
	minSize      image.Point
}

var (
	frontalParams = cascadeParams{scale: 1.1, minNeighbors: 5, minSize: image.Pt(60, 60)}
	profileParams = cascadeParams{scale: 1.1, minNeighbors: 4, minSize: image.Pt(60, 60)}
	glassesParams = cascadeParams{scale: 1.05, minNeighbors: 3, minSize: image.Pt(30, 30)}
	smileParams   = cascadeParams{scale: 1.1, minNeighbors: 20, minSize: image.Pt(30, 30)}
)

// Glasses-mode eye-rectangle-to-face-box expansion factors, per spec §4.3.
const (
	glassesWidthScale  = 2.2
	glassesHeightScale = 3.2
	glassesXShift      = -0.6
	glassesYShift      = -1.2
)

// Bank is the Face Detector Bank. It is safe for concurrent use: detection
// is guarded by a mutex so the same Bank could in principle be shared across
// concurrent evaluations, even though the shipped pipeline uses one Bank per
// session.
type Bank struct {
	mu  sync.Mutex
	c   Classifiers
	log logging.Logger
}

// New returns a Bank wrapping the given (possibly partially nil)
// classifiers. A nil logger is replaced with a no-op logger.
func New(c Classifiers, log logging.Logger) *Bank {
	if log == nil {
		log = nooplog.Logger{}
	}
	return &Bank{c: c, log: log}
}

// Detect runs face detection in the given mode over a grayscale image,
// returning deduplicated rectangles clamped to the image bounds.
func (b *Bank) Detect(gray gocv.Mat, mode Mode) []image.Rectangle {
	b.mu.Lock()
	defer b.mu.Unlock()

	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())

	var rects []image.Rectangle
	switch mode {
	case Default:
		rects = append(rects, b.detectWith(b.c.Frontal, "frontal", gray, frontalParams)...)
		rects = append(rects, b.detectWith(b.c.Profile, "profile", gray, profileParams)...)
	case Glasses:
		eyes := b.detectWith(b.c.EyeWithGlasses, "eye-with-glasses", gray, glassesParams)
		for _, e := range eyes {
			rects = append(rects, expandEyeToFace(e))
		}
	case Smile:
		rects = append(rects, b.detectWith(b.c.Smile, "smile", gray, smileParams)...)
	}

	return dedupe(clampAll(rects, bounds))
}

// detectWith runs one cascade if present, logging and returning nil
// otherwise.
func (b *Bank) detectWith(cc *gocv.CascadeClassifier, name string, gray gocv.Mat, p cascadeParams) []image.Rectangle {
	if cc == nil {
		b.log.Warning("cascade classifier missing, skipping", "cascade", name)
		return nil
	}
	return cc.DetectMultiScaleWithParams(gray, p.scale, p.minNeighbors, 0, p.minSize, image.Point{})
}

// expandEyeToFace converts a detected eye-with-glasses rectangle into an
// approximate face bounding box, per spec §4.3.
func expandEyeToFace(r image.Rectangle) image.Rectangle {
	w := float64(r.Dx())
	h := float64(r.Dy())
	x := float64(r.Min.X) + glassesXShift*w
	y := float64(r.Min.Y) + glassesYShift*h
	newW := w * glassesWidthScale
	newH := h * glassesHeightScale
	return image.Rect(int(x), int(y), int(x+newW), int(y+newH))
}

func clampAll(rects []image.Rectangle, bounds image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(rects))
	for _, r := range rects {
		c := r.Intersect(bounds)
		if !c.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// dedupe removes rectangles that are near-duplicates of an already-kept
// rectangle (IoU above a fixed threshold), keeping the first occurrence.
func dedupe(rects []image.Rectangle) []image.Rectangle {
	const dupIoU = 0.6

	var out []image.Rectangle
	for _, r := range rects {
		dup := false
		for _, k := range out {
			if iou(r, k) > dupIoU {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

// iou returns the intersection-over-union of two rectangles.
func iou(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	interArea := float64(inter.Dx() * inter.Dy())
	unionArea := float64(a.Dx()*a.Dy()) + float64(b.Dx()*b.Dy()) - interArea
	if unionArea <= 0 {
		return 0
	}
	return interArea / unionArea
}

// IoU exports the intersection-over-union calculation for use by the
// metrics and ranker packages, which both need face-overlap tests.
func IoU(a, b image.Rectangle) float64 { return iou(a, b) }

// Largest returns a pointer to the largest-area rectangle in faces, or nil
// if faces is empty. Shared by the metrics and ranker packages, which both
// need "the largest detected face" for their own scoring.
func Largest(faces []image.Rectangle) *image.Rectangle {
	if len(faces) == 0 {
		return nil
	}
	best := faces[0]
	bestArea := best.Dx() * best.Dy()
	for _, f := range faces[1:] {
		if a := f.Dx() * f.Dy(); a > bestArea {
			best, bestArea = f, a
		}
	}
	return &best
}
