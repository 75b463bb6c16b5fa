package facebank

import (
	"image"
	"testing"
)

func TestExpandEyeToFace(t *testing.T) {
	eye := image.Rect(100, 100, 120, 110) // w=20, h=10
	got := expandEyeToFace(eye)

	wantW := 20.0 * glassesWidthScale
	wantH := 10.0 * glassesHeightScale
	wantX := 100.0 + glassesXShift*20.0
	wantY := 100.0 + glassesYShift*10.0

	if float64(got.Dx()) != wantW || float64(got.Dy()) != wantH {
		t.Errorf("expandEyeToFace(%v) size = %dx%d, want %vx%v", eye, got.Dx(), got.Dy(), wantW, wantH)
	}
	if float64(got.Min.X) != wantX || float64(got.Min.Y) != wantY {
		t.Errorf("expandEyeToFace(%v) origin = (%d,%d), want (%v,%v)", eye, got.Min.X, got.Min.Y, wantX, wantY)
	}
}

func TestIoU(t *testing.T) {
	a := image.Rect(0, 0, 10, 10)
	b := image.Rect(5, 5, 15, 15)
	got := IoU(a, b)
	// Intersection = 5x5=25, union = 100+100-25=175.
	want := 25.0 / 175.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("IoU = %v, want %v", got, want)
	}

	if got := IoU(a, image.Rect(20, 20, 30, 30)); got != 0 {
		t.Errorf("IoU of disjoint rects = %v, want 0", got)
	}
}

func TestDedupe(t *testing.T) {
	a := image.Rect(0, 0, 100, 100)
	near := image.Rect(2, 2, 100, 100) // Heavily overlapping with a.
	far := image.Rect(200, 200, 300, 300)

	got := dedupe([]image.Rectangle{a, near, far})
	if len(got) != 2 {
		t.Fatalf("dedupe returned %d rects, want 2: %v", len(got), got)
	}
}

func TestClampAll(t *testing.T) {
	bounds := image.Rect(0, 0, 50, 50)
	rects := []image.Rectangle{image.Rect(-10, -10, 20, 20), image.Rect(100, 100, 200, 200)}
	got := clampAll(rects, bounds)
	if len(got) != 1 {
		t.Fatalf("clampAll returned %d rects, want 1", len(got))
	}
	if got[0] != image.Rect(0, 0, 20, 20) {
		t.Errorf("clampAll = %v, want (0,0)-(20,20)", got[0])
	}
}
