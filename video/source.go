/*
DESCRIPTION
  source.go implements the Source capability backed by OpenCV's video capture,
  exposing just enough of gocv.VideoCapture for the pipeline to sample frames
  at absolute timestamps.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package video provides the Video Source capability: opening a media file,
// reporting its metadata, and seeking to absolute timestamps to read decoded
// BGR frames.
package video

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// defaultFPS is substituted when the decoder reports a non-positive frame
// rate.
const defaultFPS = 30.0

// Metadata is the immutable, per-run description of an opened video.
type Metadata struct {
	Path     string
	Duration float64 // Seconds.
	FPS      float64
	Width    int
	Height   int
}

// Source is the capability the core pipeline consumes for reading frames.
// Implementations must allow concurrent callers to be serialized externally;
// Source itself is not required to be safe for concurrent use from multiple
// goroutines, matching the "single-threaded handle" resource model.
type Source interface {
	// Metadata returns the opened video's metadata.
	Metadata() Metadata

	// SeekAndRead seeks to the absolute timestamp (seconds) and returns the
	// decoded BGR frame there, or ok=false if the stream has no frame at
	// that position (e.g. past end of stream). SeekAndRead never returns an
	// error for a missed read; only Open can fail.
	SeekAndRead(t float64) (img gocv.Mat, ok bool)

	// Close releases the underlying decoder resources.
	Close() error
}

// CVSource is a Source backed by gocv.VideoCapture.
type CVSource struct {
	mu   sync.Mutex
	cap  *gocv.VideoCapture
	meta Metadata
}

// Open opens the media file at path and reads its metadata. It is the only
// operation in this package that can fail; a subsequent failed read is
// reported as ok=false rather than an error.
func Open(path string) (*CVSource, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open video file %q: %w", path, err)
	}

	fps := cap.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = defaultFPS
	}

	frameCount := cap.Get(gocv.VideoCaptureFrameCount)
	var duration float64
	if frameCount > 0 {
		duration = frameCount / fps
	}

	meta := Metadata{
		Path:     path,
		Duration: duration,
		FPS:      fps,
		Width:    int(cap.Get(gocv.VideoCaptureFrameWidth)),
		Height:   int(cap.Get(gocv.VideoCaptureFrameHeight)),
	}

	return &CVSource{cap: cap, meta: meta}, nil
}

// Metadata implements Source.
func (s *CVSource) Metadata() Metadata { return s.meta }

// SeekAndRead implements Source. It seeks to t seconds (clamped to zero) and
// decodes a single frame there.
func (s *CVSource) SeekAndRead(t float64) (gocv.Mat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t < 0 {
		t = 0
	}

	s.cap.Set(gocv.VideoCapturePosMsec, t*1000)

	img := gocv.NewMat()
	if !s.cap.Read(&img) || img.Empty() {
		img.Close()
		return gocv.Mat{}, false
	}
	return img, true
}

// Close implements Source.
func (s *CVSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cap.Close()
}
